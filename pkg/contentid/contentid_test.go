package contentid

import (
	"testing"
	"time"

	"github.com/de-tools/cost-audit/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDerive_Deterministic(t *testing.T) {
	first := Derive("snap-1", "comp", "variance_analysis", "key")
	second := Derive("snap-1", "comp", "variance_analysis", "key")

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestDerive_DistinctPerInput(t *testing.T) {
	base := Derive("snap-1", "comp", "kind", "key")

	assert.NotEqual(t, base, Derive("snap-2", "comp", "kind", "key"))
	assert.NotEqual(t, base, Derive("snap-1", "other", "kind", "key"))
	assert.NotEqual(t, base, Derive("snap-1", "comp", "other", "key"))
	assert.NotEqual(t, base, Derive("snap-1", "comp", "kind", "other"))
}

func TestDerive_NoConcatenationCollision(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not hash alike.
	assert.NotEqual(t,
		Derive("snap", "ab", "c", "key"),
		Derive("snap", "a", "bc", "key"))
}

func matchKey(value string) domain.MatchKey {
	return domain.MatchKey{Fields: []string{"id"}, Values: []domain.Scalar{domain.StringScalar(value)}}
}

func TestComparisonKey_IndependentOfListOrder(t *testing.T) {
	a := domain.ComparisonResult{
		Matched: []domain.MatchedPair{{Key: matchKey("A")}, {Key: matchKey("B")}},
		UnmatchedActual: []domain.UnmatchedGroup{
			{Key: matchKey("C")}, {Key: matchKey("D")},
		},
	}
	b := domain.ComparisonResult{
		Matched: []domain.MatchedPair{{Key: matchKey("B")}, {Key: matchKey("A")}},
		UnmatchedActual: []domain.UnmatchedGroup{
			{Key: matchKey("D")}, {Key: matchKey("C")},
		},
	}

	assert.Equal(t, ComparisonKey(a), ComparisonKey(b))
}

func TestComparisonKey_SideMatters(t *testing.T) {
	baselineSide := domain.ComparisonResult{
		UnmatchedBaseline: []domain.UnmatchedGroup{{Key: matchKey("C")}},
	}
	actualSide := domain.ComparisonResult{
		UnmatchedActual: []domain.UnmatchedGroup{{Key: matchKey("C")}},
	}

	assert.NotEqual(t, ComparisonKey(baselineSide), ComparisonKey(actualSide))
}

func TestPeriodKey_RoundsAndSorts(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	buckets := []domain.PeriodBucket{
		{ID: "2024-02", Start: start.AddDate(0, 1, 0), BaselineTotal: decimal.NewFromFloat(10.004), ActualTotal: decimal.Zero},
		{ID: "2024-01", Start: start, BaselineTotal: decimal.NewFromFloat(5.001), ActualTotal: decimal.Zero},
	}
	reordered := []domain.PeriodBucket{buckets[1], buckets[0]}

	assert.Equal(t,
		PeriodKey(domain.PeriodMonthly, buckets),
		PeriodKey(domain.PeriodMonthly, reordered))
	assert.NotEqual(t,
		PeriodKey(domain.PeriodMonthly, buckets),
		PeriodKey(domain.PeriodWeekly, buckets))
}
