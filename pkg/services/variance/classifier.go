// Package variance classifies matched-pair deltas into severity bands and
// flags out-of-baseline additions as scope deviations.
package variance

import (
	"github.com/de-tools/cost-audit/pkg/models/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Thresholds are the percentage-magnitude band boundaries. Ordering must
// satisfy 0 <= Tolerance < Minor < Moderate < Major; every boundary is
// inclusive on its band's lower side.
type Thresholds struct {
	TolerancePct decimal.Decimal
	MinorPct     decimal.Decimal
	ModeratePct  decimal.Decimal
	MajorPct     decimal.Decimal
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		TolerancePct: decimal.NewFromInt(5),
		MinorPct:     decimal.NewFromInt(10),
		ModeratePct:  decimal.NewFromInt(25),
		MajorPct:     decimal.NewFromInt(50),
	}
}

func (t Thresholds) validate() error {
	if t.TolerancePct.IsNegative() {
		return &domain.InvalidParameterError{Parameter: "tolerance_pct", Reason: "must be >= 0"}
	}
	if !t.TolerancePct.LessThan(t.MinorPct) {
		return &domain.InvalidParameterError{Parameter: "minor_pct", Reason: "must be > tolerance_pct"}
	}
	if !t.MinorPct.LessThan(t.ModeratePct) {
		return &domain.InvalidParameterError{Parameter: "moderate_pct", Reason: "must be > minor_pct"}
	}
	if !t.ModeratePct.LessThan(t.MajorPct) {
		return &domain.InvalidParameterError{Parameter: "major_pct", Reason: "must be > moderate_pct"}
	}
	return nil
}

// Classify computes a variance record per matched pair. Thresholds are
// validated up front; no record is produced on an invalid configuration.
func Classify(result domain.ComparisonResult, thresholds Thresholds) ([]domain.VarianceRecord, error) {
	if err := thresholds.validate(); err != nil {
		return nil, err
	}

	records := make([]domain.VarianceRecord, 0, len(result.Matched))
	for _, pair := range result.Matched {
		records = append(records, classifyPair(pair, thresholds))
	}
	return records, nil
}

func classifyPair(pair domain.MatchedPair, thresholds Thresholds) domain.VarianceRecord {
	amount := pair.ActualTotal.Sub(pair.BaselineTotal)

	var pct decimal.Decimal
	switch {
	case pair.BaselineTotal.IsZero() && pair.ActualTotal.IsZero():
		pct = decimal.Zero
	case pair.BaselineTotal.IsZero():
		// Anything against a zero baseline reads as a 100% overrun.
		pct = hundred
	default:
		pct = amount.Div(pair.BaselineTotal).Mul(hundred).Abs()
	}

	direction := domain.DirectionOnBudget
	switch {
	case amount.IsPositive():
		direction = domain.DirectionOverBudget
	case amount.IsNegative():
		direction = domain.DirectionUnderBudget
	}

	return domain.VarianceRecord{
		Key:          pair.Key,
		BaselineCost: pair.BaselineTotal,
		ActualCost:   pair.ActualTotal,
		Amount:       amount,
		Percentage:   pct,
		Severity:     severityFor(pct, thresholds),
		Direction:    direction,
	}
}

func severityFor(pct decimal.Decimal, t Thresholds) domain.Severity {
	switch {
	case pct.LessThanOrEqual(t.TolerancePct):
		return domain.SeverityWithinTolerance
	case pct.LessThanOrEqual(t.MinorPct):
		return domain.SeverityMinor
	case pct.LessThanOrEqual(t.ModeratePct):
		return domain.SeverityModerate
	case pct.LessThanOrEqual(t.MajorPct):
		return domain.SeverityMajor
	default:
		return domain.SeverityCritical
	}
}
