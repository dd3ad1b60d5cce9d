// Package ledger is the only path to the record store for evidence,
// finding and link writes. Every write is a read-before-write compare:
// an existing record with identical content is returned as-is, an
// existing record with divergent content is a hard conflict. No write
// here ever overwrites anything.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/cost-audit/pkg/models/domain"
	"github.com/de-tools/cost-audit/pkg/models/store"
	"github.com/de-tools/cost-audit/pkg/store/records"
	"github.com/rs/zerolog"
)

type Ledger struct {
	store records.Store
	now   func() time.Time
}

func New(recordStore records.Store) (*Ledger, error) {
	if recordStore == nil {
		return nil, fmt.Errorf("record store is nil")
	}
	return &Ledger{store: recordStore, now: time.Now}, nil
}

// createOrVerify is the content-addressed upsert shared by all record
// kinds: look up by id, insert when absent, verify semantic equality when
// present. diff returns the name of the first mismatched field, or ""
// when the existing record matches.
func createOrVerify[T any](
	ctx context.Context,
	id, snapshotID string,
	get func(context.Context) (*T, error),
	insert func(context.Context) (T, error),
	diff func(existing T) string,
) (T, error) {
	var zero T

	existing, err := get(ctx)
	if err != nil {
		return zero, err
	}
	if existing == nil {
		return insert(ctx)
	}

	if field := diff(*existing); field != "" {
		zerolog.Ctx(ctx).Warn().
			Str("record_id", id).
			Str("dataset_snapshot_id", snapshotID).
			Str("field", field).
			Msg("stored record content disagrees with recomputed content")
		return zero, &domain.ImmutableConflictError{
			RecordID:          id,
			DatasetSnapshotID: snapshotID,
			Field:             field,
		}
	}
	return *existing, nil
}

// CreateEvidence persists an evidence record under its content-derived id.
// A zero CreatedAt is stamped (UTC) at insert time; a caller-pinned
// timestamp participates in the equality check, normalized to UTC.
func (l *Ledger) CreateEvidence(ctx context.Context, record store.EvidenceRecord) (store.EvidenceRecord, error) {
	if err := requireIdentity(record.ID, record.DatasetSnapshotID); err != nil {
		return store.EvidenceRecord{}, err
	}

	pinned := !record.CreatedAt.IsZero()
	return createOrVerify(ctx, record.ID, record.DatasetSnapshotID,
		func(ctx context.Context) (*store.EvidenceRecord, error) {
			return l.store.GetEvidence(ctx, record.DatasetSnapshotID, record.ID)
		},
		func(ctx context.Context) (store.EvidenceRecord, error) {
			if !pinned {
				record.CreatedAt = l.now().UTC()
			} else {
				record.CreatedAt = record.CreatedAt.UTC()
			}
			if err := l.store.InsertEvidence(ctx, record); err != nil {
				return store.EvidenceRecord{}, err
			}
			return record, nil
		},
		func(existing store.EvidenceRecord) string {
			switch {
			case existing.ComponentID != record.ComponentID:
				return "component_id"
			case existing.Kind != record.Kind:
				return "kind"
			case !payloadsEqual(existing.Payload, record.Payload):
				return "payload"
			case pinned && !existing.CreatedAt.UTC().Equal(record.CreatedAt.UTC()):
				return "created_at"
			}
			return ""
		},
	)
}

// CreateFinding persists a finding record, same contract as evidence.
func (l *Ledger) CreateFinding(ctx context.Context, record store.FindingRecord) (store.FindingRecord, error) {
	if err := requireIdentity(record.ID, record.DatasetSnapshotID); err != nil {
		return store.FindingRecord{}, err
	}

	return createOrVerify(ctx, record.ID, record.DatasetSnapshotID,
		func(ctx context.Context) (*store.FindingRecord, error) {
			return l.store.GetFinding(ctx, record.DatasetSnapshotID, record.ID)
		},
		func(ctx context.Context) (store.FindingRecord, error) {
			if err := l.store.InsertFinding(ctx, record); err != nil {
				return store.FindingRecord{}, err
			}
			return record, nil
		},
		func(existing store.FindingRecord) string {
			switch {
			case existing.SourceRecordID != record.SourceRecordID:
				return "source_record_id"
			case existing.Kind != record.Kind:
				return "kind"
			case !payloadsEqual(existing.Payload, record.Payload):
				return "payload"
			}
			return ""
		},
	)
}

// LinkFindingToEvidence persists the association record.
func (l *Ledger) LinkFindingToEvidence(ctx context.Context, record store.FindingEvidenceLink) (store.FindingEvidenceLink, error) {
	if err := requireIdentity(record.ID, record.DatasetSnapshotID); err != nil {
		return store.FindingEvidenceLink{}, err
	}

	return createOrVerify(ctx, record.ID, record.DatasetSnapshotID,
		func(ctx context.Context) (*store.FindingEvidenceLink, error) {
			return l.store.GetLink(ctx, record.DatasetSnapshotID, record.ID)
		},
		func(ctx context.Context) (store.FindingEvidenceLink, error) {
			if err := l.store.InsertLink(ctx, record); err != nil {
				return store.FindingEvidenceLink{}, err
			}
			return record, nil
		},
		func(existing store.FindingEvidenceLink) string {
			switch {
			case existing.FindingID != record.FindingID:
				return "finding_id"
			case existing.EvidenceID != record.EvidenceID:
				return "evidence_id"
			}
			return ""
		},
	)
}

func requireIdentity(id, snapshotID string) error {
	if id == "" {
		return &domain.InvalidParameterError{Parameter: "id", Reason: "must not be empty"}
	}
	if snapshotID == "" {
		return &domain.InvalidParameterError{Parameter: "dataset_snapshot_id", Reason: "must not be empty"}
	}
	return nil
}
