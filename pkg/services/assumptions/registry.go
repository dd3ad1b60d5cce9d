// Package assumptions builds the serializable record of every
// configurable parameter and every explicitly-excluded behavior that
// shaped one analysis run. The set travels inside each evidence payload
// so evidence stays auditable on its own.
package assumptions

import (
	"strings"
	"time"

	"github.com/de-tools/cost-audit/pkg/models/domain"
	"github.com/de-tools/cost-audit/pkg/services/variance"
	"github.com/google/uuid"
)

// Exclusions is the fixed list of behaviors this core deliberately does
// not perform.
var Exclusions = []string{
	"no causality determination",
	"no decision-making",
	"no budget revision",
	"no cost-control enforcement",
}

// Params are the knobs of one analysis run.
type Params struct {
	IdentityFields []string
	Thresholds     variance.Thresholds
	PeriodType     domain.PeriodType
	DateField      string
}

// Build assembles the assumption set for one run, stamped with a fresh
// run id.
func Build(snapshotID string, params Params) domain.AssumptionSet {
	return BuildAt(snapshotID, uuid.NewString(), time.Now().UTC(), params)
}

// BuildAt is Build with the run identity pinned, for replay and tests.
func BuildAt(snapshotID, runID string, createdAt time.Time, params Params) domain.AssumptionSet {
	return domain.AssumptionSet{
		Assumptions: []domain.Assumption{
			{
				Category:    "matching",
				Description: "identity fields used to align baseline and actual lines",
				Source:      "caller configuration",
				Value:       strings.Join(params.IdentityFields, ","),
			},
			{
				Category:    "matching",
				Description: "same-key lines are pre-aggregated before pairing",
				Source:      "engine policy",
				Value:       "sum",
			},
			{
				Category:    "variance",
				Description: "variance_tolerance_threshold",
				Source:      "caller configuration",
				Value:       params.Thresholds.TolerancePct.String(),
			},
			{
				Category:    "variance",
				Description: "variance_minor_threshold",
				Source:      "caller configuration",
				Value:       params.Thresholds.MinorPct.String(),
			},
			{
				Category:    "variance",
				Description: "variance_moderate_threshold",
				Source:      "caller configuration",
				Value:       params.Thresholds.ModeratePct.String(),
			},
			{
				Category:    "variance",
				Description: "variance_major_threshold",
				Source:      "caller configuration",
				Value:       params.Thresholds.MajorPct.String(),
			},
			{
				Category:    "time_phasing",
				Description: "aggregation period type",
				Source:      "caller configuration",
				Value:       string(params.PeriodType),
			},
			{
				Category:    "time_phasing",
				Description: "attribute used to resolve line dates",
				Source:      "caller configuration",
				Value:       params.DateField,
			},
			{
				Category:    "currency",
				Description: "all inputs assumed in one unit of account; no conversion",
				Source:      "engine policy",
				Value:       "single-currency",
			},
		},
		Exclusions: append([]string(nil), Exclusions...),
		Scope: domain.ValidityScope{
			DatasetSnapshotID: snapshotID,
			RunID:             runID,
			CreatedAt:         createdAt,
		},
	}
}
