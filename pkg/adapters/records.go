// Package adapters maps analysis outputs onto durable store records,
// deriving each record's content-addressed id on the way.
package adapters

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/de-tools/cost-audit/pkg/contentid"
	"github.com/de-tools/cost-audit/pkg/models/domain"
	"github.com/de-tools/cost-audit/pkg/models/store"
	"github.com/de-tools/cost-audit/pkg/services/timephase"
)

const (
	KindVarianceAnalysis = "variance_analysis"
	KindTimePhasedReport = "time_phased_report"
	KindVarianceFinding  = "variance_finding"
	KindScopeFinding     = "scope_deviation_finding"
	KindDataQuality      = "data_quality_finding"
	KindFindingEvidence  = "finding_evidence_link"
)

// MapComparisonToEvidence renders the full comparison (partitions,
// variances, scope deviations, data-quality counters) into one
// variance_analysis evidence record.
func MapComparisonToEvidence(
	componentID string,
	result domain.ComparisonResult,
	variances []domain.VarianceRecord,
	deviations []domain.ScopeDeviation,
	set domain.AssumptionSet,
) (store.EvidenceRecord, error) {
	payload := VarianceAnalysisPayload{
		DatasetSnapshotID: result.DatasetSnapshotID,
		IdentityFields:    result.IdentityFields,
		Matched:           make([]MatchedPairPayload, 0, len(result.Matched)),
		UnmatchedBaseline: make([]UnmatchedPayload, 0, len(result.UnmatchedBaseline)),
		UnmatchedActual:   make([]UnmatchedPayload, 0, len(result.UnmatchedActual)),
		Variances:         make([]VariancePayload, 0, len(variances)),
		ScopeDeviations:   make([]ScopeDeviationPayload, 0, len(deviations)),
		DataQuality: DataQualityPayload{
			IncompleteBaseline:    result.IncompleteBaseline,
			IncompleteActual:      result.IncompleteActual,
			DuplicateKeysBaseline: result.DuplicateKeysBaseline,
			DuplicateKeysActual:   result.DuplicateKeysActual,
		},
		Assumptions: set,
	}

	for _, p := range result.Matched {
		payload.Matched = append(payload.Matched, MatchedPairPayload{
			Key:           p.Key.Encoded(),
			BaselineIDs:   p.BaselineIDs,
			ActualIDs:     p.ActualIDs,
			BaselineTotal: p.BaselineTotal,
			ActualTotal:   p.ActualTotal,
			Delta:         p.Delta,
		})
	}
	for _, g := range result.UnmatchedBaseline {
		payload.UnmatchedBaseline = append(payload.UnmatchedBaseline, UnmatchedPayload{
			Key: g.Key.Encoded(), IDs: g.IDs, Total: g.Total,
		})
	}
	for _, g := range result.UnmatchedActual {
		payload.UnmatchedActual = append(payload.UnmatchedActual, UnmatchedPayload{
			Key: g.Key.Encoded(), IDs: g.IDs, Total: g.Total,
		})
	}
	for _, v := range variances {
		payload.Variances = append(payload.Variances, VariancePayload{
			Key:          v.Key.Encoded(),
			BaselineCost: v.BaselineCost,
			ActualCost:   v.ActualCost,
			Amount:       v.Amount,
			Percentage:   v.Percentage,
			Severity:     string(v.Severity),
			Direction:    string(v.Direction),
		})
	}
	for _, d := range deviations {
		payload.ScopeDeviations = append(payload.ScopeDeviations, ScopeDeviationPayload{
			Key:        d.Key.Encoded(),
			SourceIDs:  d.SourceIDs,
			ActualCost: d.ActualCost,
			Severity:   string(d.Severity),
		})
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return store.EvidenceRecord{}, fmt.Errorf("marshal variance analysis payload: %w", err)
	}

	return store.EvidenceRecord{
		ID:                contentid.Derive(result.DatasetSnapshotID, componentID, KindVarianceAnalysis, contentid.ComparisonKey(result)),
		DatasetSnapshotID: result.DatasetSnapshotID,
		ComponentID:       componentID,
		Kind:              KindVarianceAnalysis,
		Payload:           raw,
	}, nil
}

// MapPeriodsToEvidence renders a bucket set into one time_phased_report
// evidence record.
func MapPeriodsToEvidence(
	snapshotID, componentID, dateField string,
	phased timephase.Result,
	set domain.AssumptionSet,
) (store.EvidenceRecord, error) {
	payload := TimePhasedReportPayload{
		DatasetSnapshotID: snapshotID,
		PeriodType:        string(phased.PeriodType),
		DateField:         dateField,
		Buckets:           make([]PeriodBucketPayload, 0, len(phased.Buckets)),
		UndatedLines:      phased.UndatedLines,
		Assumptions:       set,
	}
	for _, b := range phased.Buckets {
		payload.Buckets = append(payload.Buckets, PeriodBucketPayload{
			ID:            b.ID,
			Start:         b.Start.UTC().Format(time.RFC3339),
			End:           b.End.UTC().Format(time.RFC3339),
			BaselineTotal: b.BaselineTotal,
			ActualTotal:   b.ActualTotal,
			Variance:      b.Variance,
			ItemCount:     b.ItemCount,
		})
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return store.EvidenceRecord{}, fmt.Errorf("marshal time phased payload: %w", err)
	}

	return store.EvidenceRecord{
		ID:                contentid.Derive(snapshotID, componentID, KindTimePhasedReport, contentid.PeriodKey(phased.PeriodType, phased.Buckets)),
		DatasetSnapshotID: snapshotID,
		ComponentID:       componentID,
		Kind:              KindTimePhasedReport,
		Payload:           raw,
	}, nil
}

// MapVarianceToFinding derives a finding from one classified variance.
// sourceID is the id of the actual-side line the observation concerns.
func MapVarianceToFinding(snapshotID, componentID, sourceID string, v domain.VarianceRecord) (store.FindingRecord, error) {
	payload := FindingPayload{
		Key:          v.Key.Encoded(),
		Severity:     string(v.Severity),
		Direction:    string(v.Direction),
		BaselineCost: v.BaselineCost,
		ActualCost:   v.ActualCost,
		Amount:       v.Amount,
		Percentage:   v.Percentage,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return store.FindingRecord{}, fmt.Errorf("marshal variance finding payload: %w", err)
	}

	return store.FindingRecord{
		ID:                contentid.Derive(snapshotID, componentID, KindVarianceFinding, v.Key.Encoded()),
		DatasetSnapshotID: snapshotID,
		SourceRecordID:    sourceID,
		Kind:              KindVarianceFinding,
		Payload:           raw,
	}, nil
}

// MapScopeDeviationToFinding derives a finding from one scope deviation.
func MapScopeDeviationToFinding(snapshotID, componentID string, d domain.ScopeDeviation) (store.FindingRecord, error) {
	sourceID := ""
	if len(d.SourceIDs) > 0 {
		sourceID = d.SourceIDs[0]
	}
	payload := FindingPayload{
		Key:        d.Key.Encoded(),
		Severity:   string(d.Severity),
		ActualCost: d.ActualCost,
		Detail:     "actual-side line with no baseline counterpart",
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return store.FindingRecord{}, fmt.Errorf("marshal scope finding payload: %w", err)
	}

	return store.FindingRecord{
		ID:                contentid.Derive(snapshotID, componentID, KindScopeFinding, d.Key.Encoded()),
		DatasetSnapshotID: snapshotID,
		SourceRecordID:    sourceID,
		Kind:              KindScopeFinding,
		Payload:           raw,
	}, nil
}

// MapDataQualityToFinding surfaces silently-summed duplicate keys as a
// finding so duplicate-entry issues stay visible.
func MapDataQualityToFinding(snapshotID, componentID string, result domain.ComparisonResult) (store.FindingRecord, error) {
	payload := DataQualityPayload{
		IncompleteBaseline:    result.IncompleteBaseline,
		IncompleteActual:      result.IncompleteActual,
		DuplicateKeysBaseline: result.DuplicateKeysBaseline,
		DuplicateKeysActual:   result.DuplicateKeysActual,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return store.FindingRecord{}, fmt.Errorf("marshal data quality payload: %w", err)
	}

	stableKey := fmt.Sprintf("incomplete=%d,%d;duplicates=%d,%d",
		result.IncompleteBaseline, result.IncompleteActual,
		result.DuplicateKeysBaseline, result.DuplicateKeysActual)

	return store.FindingRecord{
		ID:                contentid.Derive(snapshotID, componentID, KindDataQuality, stableKey),
		DatasetSnapshotID: snapshotID,
		SourceRecordID:    snapshotID,
		Kind:              KindDataQuality,
		Payload:           raw,
	}, nil
}

// MapLink builds the association record between a finding and the
// evidence supporting it.
func MapLink(snapshotID, componentID, findingID, evidenceID string) store.FindingEvidenceLink {
	return store.FindingEvidenceLink{
		ID:                contentid.Derive(snapshotID, componentID, KindFindingEvidence, contentid.LinkKey(findingID, evidenceID)),
		DatasetSnapshotID: snapshotID,
		FindingID:         findingID,
		EvidenceID:        evidenceID,
	}
}
