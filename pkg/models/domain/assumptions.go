package domain

import "time"

// Assumption records one configurable parameter that shaped a computation.
type Assumption struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Value       string `json:"value"`
}

// ValidityScope pins an assumption set to one snapshot and one run.
type ValidityScope struct {
	DatasetSnapshotID string    `json:"dataset_snapshot_id"`
	RunID             string    `json:"run_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// AssumptionSet is attached verbatim to every evidence payload so a
// consumer can recover exactly which configuration produced it without
// re-reading run parameters elsewhere.
type AssumptionSet struct {
	Assumptions []Assumption  `json:"assumptions"`
	Exclusions  []string      `json:"exclusions"`
	Scope       ValidityScope `json:"validity_scope"`
}
