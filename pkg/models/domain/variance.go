package domain

import "github.com/shopspring/decimal"

type Severity string

const (
	SeverityWithinTolerance Severity = "within_tolerance"
	SeverityMinor           Severity = "minor"
	SeverityModerate        Severity = "moderate"
	SeverityMajor           Severity = "major"
	SeverityCritical        Severity = "critical"
	SeverityScopeCreep      Severity = "scope_creep"
)

type Direction string

const (
	DirectionOverBudget  Direction = "over_budget"
	DirectionUnderBudget Direction = "under_budget"
	DirectionOnBudget    Direction = "on_budget"
)

// VarianceRecord is the classified delta for one matched pair. Percentage
// is the absolute magnitude of the signed percentage variance; Direction
// carries the sign.
type VarianceRecord struct {
	Key          MatchKey
	BaselineCost decimal.Decimal
	ActualCost   decimal.Decimal
	Amount       decimal.Decimal
	Percentage   decimal.Decimal
	Severity     Severity
	Direction    Direction
}

// ScopeDeviation marks an actual-side logical line with no baseline
// counterpart. Always severity scope_creep, never run through the
// variance thresholds.
type ScopeDeviation struct {
	Key        MatchKey
	SourceIDs  []string
	ActualCost decimal.Decimal
	Severity   Severity
}
