package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PeriodType string

const (
	PeriodDaily     PeriodType = "daily"
	PeriodWeekly    PeriodType = "weekly"
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodYearly    PeriodType = "yearly"
)

// PeriodBucket is one calendar period's totals. The interval is half-open:
// Start inclusive, End exclusive, so a line on a boundary instant is never
// double-counted.
type PeriodBucket struct {
	ID            string
	Start         time.Time
	End           time.Time
	BaselineTotal decimal.Decimal
	ActualTotal   decimal.Decimal
	Variance      decimal.Decimal
	ItemCount     int
}
