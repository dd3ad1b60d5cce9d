package variance

import "github.com/de-tools/cost-audit/pkg/models/domain"

// DetectScopeDeviations flags every unmatched-actual group as an
// out-of-baseline addition. Runs alongside classification, not as a
// fallback: scope deviations never pass through the variance thresholds,
// so reporting can keep "threshold variance" and "scope creep" apart.
func DetectScopeDeviations(result domain.ComparisonResult) []domain.ScopeDeviation {
	deviations := make([]domain.ScopeDeviation, 0, len(result.UnmatchedActual))
	for _, g := range result.UnmatchedActual {
		deviations = append(deviations, domain.ScopeDeviation{
			Key:        g.Key,
			SourceIDs:  g.IDs,
			ActualCost: g.Total,
			Severity:   domain.SeverityScopeCreep,
		})
	}
	return deviations
}
