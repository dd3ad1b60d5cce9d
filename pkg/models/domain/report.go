package domain

// AnalysisReport is what the report-assembly collaborator receives: the
// raw analysis outputs plus the ids of every durable record this run
// produced or confirmed. Formatting and redaction happen downstream.
type AnalysisReport struct {
	DatasetSnapshotID string
	Comparison        ComparisonResult
	Variances         []VarianceRecord
	ScopeDeviations   []ScopeDeviation
	Periods           []PeriodBucket
	UndatedLines      int
	Assumptions       AssumptionSet
	EvidenceIDs       []string
	FindingIDs        []string
	LinkIDs           []string
}
