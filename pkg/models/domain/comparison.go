package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MatchKey is the ordered tuple of identity values for one line. Keys are
// ordered and compared field by field in declaration order.
type MatchKey struct {
	Fields []string
	Values []Scalar
}

func (k MatchKey) Equal(o MatchKey) bool {
	if len(k.Values) != len(o.Values) {
		return false
	}
	for i := range k.Values {
		if !k.Values[i].Equal(o.Values[i]) {
			return false
		}
	}
	return true
}

// Compare orders keys by value comparison in field declaration order.
func (k MatchKey) Compare(o MatchKey) int {
	n := len(k.Values)
	if len(o.Values) < n {
		n = len(o.Values)
	}
	for i := 0; i < n; i++ {
		if c := k.Values[i].Compare(o.Values[i]); c != 0 {
			return c
		}
	}
	return len(k.Values) - len(o.Values)
}

// Encoded returns the canonical string form, stable across runs and used
// both as a map key and inside content-derived identifiers. The unit
// separator keeps field values from running together.
func (k MatchKey) Encoded() string {
	parts := make([]string, 0, len(k.Values))
	for i, v := range k.Values {
		parts = append(parts, k.Fields[i]+"="+v.String())
	}
	return strings.Join(parts, "\x1f")
}

// MatchedPair is one aligned baseline/actual pair. Same-key lines on one
// side are pre-aggregated into a single logical line before pairing, so a
// pair may carry several source line ids per side.
type MatchedPair struct {
	Key           MatchKey
	BaselineIDs   []string
	ActualIDs     []string
	BaselineTotal decimal.Decimal
	ActualTotal   decimal.Decimal
	Delta         decimal.Decimal
}

// UnmatchedGroup is a logical line (one match key) present on only one side.
type UnmatchedGroup struct {
	Key   MatchKey
	IDs   []string
	Total decimal.Decimal
}

// ComparisonResult partitions the complete input lines: every logical line
// lands in exactly one of Matched, UnmatchedBaseline or UnmatchedActual.
// Incomplete lines are excluded from the partitions and only counted.
type ComparisonResult struct {
	DatasetSnapshotID string
	IdentityFields    []string
	Matched           []MatchedPair
	UnmatchedBaseline []UnmatchedGroup
	UnmatchedActual   []UnmatchedGroup

	// Data-quality counters.
	IncompleteBaseline    int
	IncompleteActual      int
	DuplicateKeysBaseline int
	DuplicateKeysActual   int
}
