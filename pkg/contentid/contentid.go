// Package contentid derives content-addressed identifiers for evidence,
// finding and link records. Identical inputs always produce the identical
// id, across processes and machines, which is what makes re-running a
// computation safe.
package contentid

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/de-tools/cost-audit/pkg/models/domain"
	"github.com/shopspring/decimal"
)

const namespace = "cost-audit.v1"

// Derive hashes the four identity inputs into a hex id. Fields are
// length-prefixed so no two distinct tuples can collide by concatenation.
func Derive(snapshotID, componentID, kind, stableKey string) string {
	h := sha256.New()
	for _, part := range []string{namespace, snapshotID, componentID, kind, stableKey} {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(part)))
		h.Write(n[:])
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// LinkKey builds the stable key for a finding-evidence link.
func LinkKey(findingID, evidenceID string) string {
	return findingID + "\x1f" + evidenceID
}

// ComparisonKey builds the stable key for a comparison result from the
// sorted match keys and unmatched line ids, never from list order.
func ComparisonKey(result domain.ComparisonResult) string {
	matched := make([]string, 0, len(result.Matched))
	for _, p := range result.Matched {
		matched = append(matched, p.Key.Encoded())
	}
	sort.Strings(matched)

	unmatched := make([]string, 0, len(result.UnmatchedBaseline)+len(result.UnmatchedActual))
	for _, g := range result.UnmatchedBaseline {
		unmatched = append(unmatched, "b:"+g.Key.Encoded())
	}
	for _, g := range result.UnmatchedActual {
		unmatched = append(unmatched, "a:"+g.Key.Encoded())
	}
	sort.Strings(unmatched)

	return "matched=" + strings.Join(matched, "\x1e") +
		"\x1dunmatched=" + strings.Join(unmatched, "\x1e")
}

// PeriodKey builds the stable key for a bucket set: period type plus the
// sorted period ids plus the rounded grand total.
func PeriodKey(periodType domain.PeriodType, buckets []domain.PeriodBucket) string {
	ids := make([]string, 0, len(buckets))
	grand := decimal.Zero
	for _, b := range buckets {
		ids = append(ids, b.ID)
		grand = grand.Add(b.BaselineTotal).Add(b.ActualTotal)
	}
	sort.Strings(ids)
	return string(periodType) + "\x1d" + strings.Join(ids, "\x1e") + "\x1d" + grand.Round(2).String()
}
