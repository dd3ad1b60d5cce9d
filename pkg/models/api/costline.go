package api

import "github.com/shopspring/decimal"

// CostLine is the wire shape hosts feed into the core. Identity values
// arrive already normalized by the ingestion side.
type CostLine struct {
	ID                string            `json:"id"`
	DatasetSnapshotID string            `json:"dataset_snapshot_id"`
	Kind              string            `json:"kind"`
	Identity          map[string]string `json:"identity"`
	Quantity          *decimal.Decimal  `json:"quantity,omitempty"`
	UnitCost          *decimal.Decimal  `json:"unit_cost,omitempty"`
	TotalCost         *decimal.Decimal  `json:"total_cost,omitempty"`
	Attributes        map[string]string `json:"attributes,omitempty"`
}
