// Package report drives one full analysis run for a snapshot pair:
// match, classify, detect scope creep, time-phase, then emit evidence,
// findings and links through the ledger. Computation is pure; only the
// ledger calls touch the store, and each emitted record is independently
// content-addressed, so an aborted run is safe to repeat.
package report

import (
	"context"

	"github.com/de-tools/cost-audit/pkg/adapters"
	"github.com/de-tools/cost-audit/pkg/models/domain"
	"github.com/de-tools/cost-audit/pkg/models/store"
	"github.com/de-tools/cost-audit/pkg/services/assumptions"
	"github.com/de-tools/cost-audit/pkg/services/ledger"
	"github.com/de-tools/cost-audit/pkg/services/matching"
	"github.com/de-tools/cost-audit/pkg/services/timephase"
	"github.com/de-tools/cost-audit/pkg/services/variance"
	"github.com/rs/zerolog"
)

// LineSource is the ingestion collaborator contract: it yields normalized
// cost lines for a dataset snapshot and a raw-input reference.
type LineSource interface {
	Lines(ctx context.Context, snapshotID, ref string) ([]domain.CostLine, error)
}

// Config holds every knob of one run. No ambient defaults: hosts build a
// Config explicitly, usually starting from DefaultConfig.
type Config struct {
	ComponentID    string
	IdentityFields []string
	Thresholds     variance.Thresholds
	PeriodType     domain.PeriodType
	DateField      string
}

func DefaultConfig() Config {
	return Config{
		ComponentID: "cost-audit/comparison",
		Thresholds:  variance.DefaultThresholds(),
		PeriodType:  domain.PeriodMonthly,
		DateField:   "date",
	}
}

type Service struct {
	ledger *ledger.Ledger
}

func NewService(l *ledger.Ledger) (*Service, error) {
	if l == nil {
		return nil, &domain.InvalidParameterError{Parameter: "ledger", Reason: "must not be nil"}
	}
	return &Service{ledger: l}, nil
}

// Generate runs the whole pipeline and returns the analysis plus the ids
// of every record it produced or confirmed. A persistence conflict aborts
// the run; records settled before the conflict stay in place and a rerun
// settles the rest.
func (s *Service) Generate(ctx context.Context, baseline, actual []domain.CostLine, cfg Config) (domain.AnalysisReport, error) {
	logger := zerolog.Ctx(ctx)

	if cfg.ComponentID == "" {
		return domain.AnalysisReport{}, &domain.InvalidParameterError{Parameter: "component_id", Reason: "must not be empty"}
	}
	if len(baseline) == 0 && len(actual) == 0 {
		return domain.AnalysisReport{}, &domain.InvalidParameterError{Parameter: "lines", Reason: "no input lines"}
	}

	result, err := matching.Match(baseline, actual, cfg.IdentityFields)
	if err != nil {
		return domain.AnalysisReport{}, err
	}

	variances, err := variance.Classify(result, cfg.Thresholds)
	if err != nil {
		return domain.AnalysisReport{}, err
	}
	deviations := variance.DetectScopeDeviations(result)

	allLines := make([]domain.CostLine, 0, len(baseline)+len(actual))
	allLines = append(allLines, baseline...)
	allLines = append(allLines, actual...)
	phased, err := timephase.Aggregate(allLines, cfg.PeriodType, cfg.DateField)
	if err != nil {
		return domain.AnalysisReport{}, err
	}

	set := assumptions.Build(result.DatasetSnapshotID, assumptions.Params{
		IdentityFields: cfg.IdentityFields,
		Thresholds:     cfg.Thresholds,
		PeriodType:     cfg.PeriodType,
		DateField:      cfg.DateField,
	})

	report := domain.AnalysisReport{
		DatasetSnapshotID: result.DatasetSnapshotID,
		Comparison:        result,
		Variances:         variances,
		ScopeDeviations:   deviations,
		Periods:           phased.Buckets,
		UndatedLines:      phased.UndatedLines,
		Assumptions:       set,
	}

	varianceEvidence, err := adapters.MapComparisonToEvidence(cfg.ComponentID, result, variances, deviations, set)
	if err != nil {
		return domain.AnalysisReport{}, err
	}
	storedVariance, err := s.ledger.CreateEvidence(ctx, varianceEvidence)
	if err != nil {
		return domain.AnalysisReport{}, err
	}
	report.EvidenceIDs = append(report.EvidenceIDs, storedVariance.ID)

	phasedEvidence, err := adapters.MapPeriodsToEvidence(result.DatasetSnapshotID, cfg.ComponentID, cfg.DateField, phased, set)
	if err != nil {
		return domain.AnalysisReport{}, err
	}
	storedPhased, err := s.ledger.CreateEvidence(ctx, phasedEvidence)
	if err != nil {
		return domain.AnalysisReport{}, err
	}
	report.EvidenceIDs = append(report.EvidenceIDs, storedPhased.ID)

	findings, err := s.deriveFindings(result, variances, deviations, cfg)
	if err != nil {
		return domain.AnalysisReport{}, err
	}

	for _, finding := range findings {
		stored, err := s.ledger.CreateFinding(ctx, finding)
		if err != nil {
			return domain.AnalysisReport{}, err
		}
		report.FindingIDs = append(report.FindingIDs, stored.ID)

		link := adapters.MapLink(result.DatasetSnapshotID, cfg.ComponentID, stored.ID, storedVariance.ID)
		storedLink, err := s.ledger.LinkFindingToEvidence(ctx, link)
		if err != nil {
			return domain.AnalysisReport{}, err
		}
		report.LinkIDs = append(report.LinkIDs, storedLink.ID)
	}

	logger.Info().
		Str("dataset_snapshot_id", result.DatasetSnapshotID).
		Int("matched", len(result.Matched)).
		Int("scope_deviations", len(deviations)).
		Int("evidence", len(report.EvidenceIDs)).
		Int("findings", len(report.FindingIDs)).
		Msg("analysis run settled")

	return report, nil
}

// deriveFindings turns the notable observations into finding records:
// every major or critical variance, every scope deviation, and one
// data-quality finding when duplicate keys were summed or lines were
// incomplete.
func (s *Service) deriveFindings(
	result domain.ComparisonResult,
	variances []domain.VarianceRecord,
	deviations []domain.ScopeDeviation,
	cfg Config,
) ([]store.FindingRecord, error) {
	actualSource := make(map[string]string, len(result.Matched))
	for _, pair := range result.Matched {
		if len(pair.ActualIDs) > 0 {
			actualSource[pair.Key.Encoded()] = pair.ActualIDs[0]
		}
	}

	var findings []store.FindingRecord
	for _, v := range variances {
		if v.Severity != domain.SeverityMajor && v.Severity != domain.SeverityCritical {
			continue
		}
		finding, err := adapters.MapVarianceToFinding(result.DatasetSnapshotID, cfg.ComponentID, actualSource[v.Key.Encoded()], v)
		if err != nil {
			return nil, err
		}
		findings = append(findings, finding)
	}

	for _, d := range deviations {
		finding, err := adapters.MapScopeDeviationToFinding(result.DatasetSnapshotID, cfg.ComponentID, d)
		if err != nil {
			return nil, err
		}
		findings = append(findings, finding)
	}

	dirty := result.DuplicateKeysBaseline > 0 || result.DuplicateKeysActual > 0 ||
		result.IncompleteBaseline > 0 || result.IncompleteActual > 0
	if dirty {
		finding, err := adapters.MapDataQualityToFinding(result.DatasetSnapshotID, cfg.ComponentID, result)
		if err != nil {
			return nil, err
		}
		findings = append(findings, finding)
	}

	return findings, nil
}
