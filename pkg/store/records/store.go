// Package records defines the append-only lookup/insert contract of the
// evidence store. Implementations only need get-by-id and insert; all
// conflict handling lives in the ledger service on top of this contract.
package records

import (
	"context"

	"github.com/de-tools/cost-audit/pkg/models/store"
)

// Store is the persistence contract for evidence, finding and link
// records, scoped by dataset snapshot id. Get methods return (nil, nil)
// when no record exists.
type Store interface {
	GetEvidence(ctx context.Context, snapshotID, id string) (*store.EvidenceRecord, error)
	InsertEvidence(ctx context.Context, record store.EvidenceRecord) error

	GetFinding(ctx context.Context, snapshotID, id string) (*store.FindingRecord, error)
	InsertFinding(ctx context.Context, record store.FindingRecord) error

	GetLink(ctx context.Context, snapshotID, id string) (*store.FindingEvidenceLink, error)
	InsertLink(ctx context.Context, record store.FindingEvidenceLink) error
}
