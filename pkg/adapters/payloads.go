package adapters

import (
	"github.com/de-tools/cost-audit/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// Payload shapes are the serialized form of analysis outputs inside
// evidence and finding records. Field order is fixed by the structs, so
// marshaling the same content always yields the same bytes.

type MatchedPairPayload struct {
	Key           string          `json:"key"`
	BaselineIDs   []string        `json:"baseline_ids"`
	ActualIDs     []string        `json:"actual_ids"`
	BaselineTotal decimal.Decimal `json:"baseline_total"`
	ActualTotal   decimal.Decimal `json:"actual_total"`
	Delta         decimal.Decimal `json:"delta"`
}

type UnmatchedPayload struct {
	Key   string          `json:"key"`
	IDs   []string        `json:"ids"`
	Total decimal.Decimal `json:"total"`
}

type VariancePayload struct {
	Key          string          `json:"key"`
	BaselineCost decimal.Decimal `json:"baseline_cost"`
	ActualCost   decimal.Decimal `json:"actual_cost"`
	Amount       decimal.Decimal `json:"variance_amount"`
	Percentage   decimal.Decimal `json:"variance_percentage"`
	Severity     string          `json:"severity"`
	Direction    string          `json:"direction"`
}

type ScopeDeviationPayload struct {
	Key        string          `json:"key"`
	SourceIDs  []string        `json:"source_ids"`
	ActualCost decimal.Decimal `json:"actual_cost"`
	Severity   string          `json:"severity"`
}

type DataQualityPayload struct {
	IncompleteBaseline    int `json:"incomplete_baseline"`
	IncompleteActual      int `json:"incomplete_actual"`
	DuplicateKeysBaseline int `json:"duplicate_keys_baseline"`
	DuplicateKeysActual   int `json:"duplicate_keys_actual"`
}

type VarianceAnalysisPayload struct {
	DatasetSnapshotID string                  `json:"dataset_snapshot_id"`
	IdentityFields    []string                `json:"identity_fields"`
	Matched           []MatchedPairPayload    `json:"matched"`
	UnmatchedBaseline []UnmatchedPayload      `json:"unmatched_baseline"`
	UnmatchedActual   []UnmatchedPayload      `json:"unmatched_actual"`
	Variances         []VariancePayload       `json:"variances"`
	ScopeDeviations   []ScopeDeviationPayload `json:"scope_deviations"`
	DataQuality       DataQualityPayload      `json:"data_quality"`
	Assumptions       domain.AssumptionSet    `json:"assumptions"`
}

type PeriodBucketPayload struct {
	ID            string          `json:"id"`
	Start         string          `json:"start"`
	End           string          `json:"end"`
	BaselineTotal decimal.Decimal `json:"baseline_total"`
	ActualTotal   decimal.Decimal `json:"actual_total"`
	Variance      decimal.Decimal `json:"variance"`
	ItemCount     int             `json:"item_count"`
}

type TimePhasedReportPayload struct {
	DatasetSnapshotID string                `json:"dataset_snapshot_id"`
	PeriodType        string                `json:"period_type"`
	DateField         string                `json:"date_field"`
	Buckets           []PeriodBucketPayload `json:"buckets"`
	UndatedLines      int                   `json:"undated_lines"`
	Assumptions       domain.AssumptionSet  `json:"assumptions"`
}

type FindingPayload struct {
	Key          string          `json:"key"`
	Severity     string          `json:"severity"`
	Direction    string          `json:"direction,omitempty"`
	BaselineCost decimal.Decimal `json:"baseline_cost"`
	ActualCost   decimal.Decimal `json:"actual_cost"`
	Amount       decimal.Decimal `json:"variance_amount"`
	Percentage   decimal.Decimal `json:"variance_percentage"`
	Detail       string          `json:"detail,omitempty"`
}
