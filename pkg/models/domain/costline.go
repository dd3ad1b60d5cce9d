package domain

import (
	"github.com/shopspring/decimal"
)

type LineKind string

const (
	LineKindBaseline LineKind = "baseline"
	LineKindActual   LineKind = "actual"
)

type ScalarKind int

const (
	ScalarString ScalarKind = iota
	ScalarNumber
)

// Scalar is a normalized identity value. Identity comparison is structural:
// kinds must match and values compare exactly (no fuzzy matching).
type Scalar struct {
	Kind ScalarKind
	Str  string
	Num  decimal.Decimal
}

func StringScalar(v string) Scalar {
	return Scalar{Kind: ScalarString, Str: v}
}

func NumberScalar(v decimal.Decimal) Scalar {
	return Scalar{Kind: ScalarNumber, Num: v}
}

func (s Scalar) Equal(o Scalar) bool {
	if s.Kind != o.Kind {
		return false
	}
	if s.Kind == ScalarNumber {
		return s.Num.Equal(o.Num)
	}
	return s.Str == o.Str
}

// String renders the canonical form used for key encoding and ordering.
func (s Scalar) String() string {
	if s.Kind == ScalarNumber {
		return s.Num.String()
	}
	return s.Str
}

// Compare orders scalars by canonical form; numbers compare numerically
// when both sides are numbers.
func (s Scalar) Compare(o Scalar) int {
	if s.Kind == ScalarNumber && o.Kind == ScalarNumber {
		return s.Num.Cmp(o.Num)
	}
	a, b := s.String(), o.String()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// IdentityPair is one (field, value) entry of a line's identity, kept in
// the caller's declared field order.
type IdentityPair struct {
	Field string
	Value Scalar
}

// CostLine is one normalized input record. Lines are produced by the
// ingestion collaborator and treated as read-only everywhere in this module.
type CostLine struct {
	ID                string
	DatasetSnapshotID string
	Kind              LineKind
	Identity          []IdentityPair
	Quantity          *decimal.Decimal
	UnitCost          *decimal.Decimal
	TotalCost         *decimal.Decimal
	Attributes        map[string]string
}

// IdentityValue looks up an identity field by name.
func (l CostLine) IdentityValue(field string) (Scalar, bool) {
	for _, p := range l.Identity {
		if p.Field == field {
			return p.Value, true
		}
	}
	return Scalar{}, false
}

// ResolvedTotal returns the line's total cost. A missing total is derived
// as quantity * unit cost; if neither is resolvable the line is incomplete
// and ok is false.
func (l CostLine) ResolvedTotal() (decimal.Decimal, bool) {
	if l.TotalCost != nil {
		return *l.TotalCost, true
	}
	if l.Quantity != nil && l.UnitCost != nil {
		return l.Quantity.Mul(*l.UnitCost), true
	}
	return decimal.Zero, false
}

// Complete reports whether the line resolves to a total cost. Incomplete
// lines are excluded from totals but counted for data-quality reporting.
func (l CostLine) Complete() bool {
	_, ok := l.ResolvedTotal()
	return ok
}
