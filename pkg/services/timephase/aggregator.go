// Package timephase buckets cost lines into calendar periods and produces
// per-period baseline/actual totals. Buckets are half-open [start, end)
// intervals, so a line sitting exactly on a boundary instant lands in
// exactly one bucket.
package timephase

import (
	"fmt"
	"sort"
	"time"

	"github.com/de-tools/cost-audit/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// Result carries the buckets in chronological order plus the count of
// lines that had no resolvable date (a warning, not a failure).
type Result struct {
	PeriodType   domain.PeriodType
	Buckets      []domain.PeriodBucket
	UndatedLines int
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Aggregate buckets lines by the date found under dateField in their
// attributes. Baseline and actual totals are summed independently per
// bucket; the bucket variance is their difference. Only periods that
// contain at least one line are emitted.
func Aggregate(lines []domain.CostLine, periodType domain.PeriodType, dateField string) (Result, error) {
	switch periodType {
	case domain.PeriodDaily, domain.PeriodWeekly, domain.PeriodMonthly, domain.PeriodQuarterly, domain.PeriodYearly:
	default:
		return Result{}, &domain.InvalidParameterError{
			Parameter: "period_type",
			Reason:    fmt.Sprintf("unsupported value %q", periodType),
		}
	}
	if dateField == "" {
		return Result{}, &domain.InvalidParameterError{Parameter: "date_field", Reason: "must not be empty"}
	}

	buckets := make(map[string]*domain.PeriodBucket)
	undated := 0

	for _, line := range lines {
		total, ok := line.ResolvedTotal()
		if !ok {
			continue
		}

		when, ok := resolveDate(line, dateField)
		if !ok {
			undated++
			continue
		}

		id, start, end := periodBounds(when, periodType)
		b, exists := buckets[id]
		if !exists {
			b = &domain.PeriodBucket{
				ID:            id,
				Start:         start,
				End:           end,
				BaselineTotal: decimal.Zero,
				ActualTotal:   decimal.Zero,
			}
			buckets[id] = b
		}

		if line.Kind == domain.LineKindBaseline {
			b.BaselineTotal = b.BaselineTotal.Add(total)
		} else {
			b.ActualTotal = b.ActualTotal.Add(total)
		}
		b.ItemCount++
	}

	ordered := make([]domain.PeriodBucket, 0, len(buckets))
	for _, b := range buckets {
		b.Variance = b.ActualTotal.Sub(b.BaselineTotal)
		ordered = append(ordered, *b)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start.Before(ordered[j].Start) })

	return Result{PeriodType: periodType, Buckets: ordered, UndatedLines: undated}, nil
}

func resolveDate(line domain.CostLine, dateField string) (time.Time, bool) {
	raw, ok := line.Attributes[dateField]
	if !ok || raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// periodBounds computes the period label and its [start, end) boundary in
// the line's stated timezone (UTC when the date carries no offset).
// Weekly periods are ISO weeks starting Monday.
func periodBounds(t time.Time, periodType domain.PeriodType) (string, time.Time, time.Time) {
	loc := t.Location()
	switch periodType {
	case domain.PeriodDaily:
		start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		return start.Format("2006-01-02"), start, start.AddDate(0, 0, 1)
	case domain.PeriodWeekly:
		start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		// Back up to Monday.
		offset := (int(start.Weekday()) + 6) % 7
		start = start.AddDate(0, 0, -offset)
		year, week := start.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week), start, start.AddDate(0, 0, 7)
	case domain.PeriodMonthly:
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
		return start.Format("2006-01"), start, start.AddDate(0, 1, 0)
	case domain.PeriodQuarterly:
		quarter := (int(t.Month()) - 1) / 3
		start := time.Date(t.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, loc)
		return fmt.Sprintf("%04d-Q%d", t.Year(), quarter+1), start, start.AddDate(0, 3, 0)
	default: // yearly
		start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return start.Format("2006"), start, start.AddDate(1, 0, 0)
	}
}
