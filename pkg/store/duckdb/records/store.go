// Package records implements the record store on DuckDB. Inserts honor a
// transaction carried in the context; lookups go straight to the pool.
package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/cost-audit/pkg/models/store"
	"github.com/de-tools/cost-audit/pkg/store/duckdb"
	"github.com/de-tools/cost-audit/pkg/store/records"
)

type recordStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (records.Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &recordStore{db: db}, nil
}

func (s *recordStore) GetEvidence(ctx context.Context, snapshotID, id string) (*store.EvidenceRecord, error) {
	query := `
		SELECT id, dataset_snapshot_id, component_id, kind, created_at, payload
		FROM evidence_records
		WHERE dataset_snapshot_id = ? AND id = ?
	`
	var record store.EvidenceRecord
	err := s.db.QueryRowContext(ctx, query, snapshotID, id).Scan(
		&record.ID,
		&record.DatasetSnapshotID,
		&record.ComponentID,
		&record.Kind,
		&record.CreatedAt,
		&record.Payload,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get evidence: %w", err)
	}
	return &record, nil
}

func (s *recordStore) InsertEvidence(ctx context.Context, record store.EvidenceRecord) error {
	query := `
		INSERT INTO evidence_records (
			id, dataset_snapshot_id, component_id, kind, created_at, payload
		) VALUES (?, ?, ?, ?, ?, ?)
	`
	err := s.exec(ctx, query,
		record.ID,
		record.DatasetSnapshotID,
		record.ComponentID,
		record.Kind,
		record.CreatedAt,
		record.Payload,
	)
	if err != nil {
		return fmt.Errorf("insert evidence: %w", err)
	}
	return nil
}

func (s *recordStore) GetFinding(ctx context.Context, snapshotID, id string) (*store.FindingRecord, error) {
	query := `
		SELECT id, dataset_snapshot_id, source_record_id, kind, payload
		FROM finding_records
		WHERE dataset_snapshot_id = ? AND id = ?
	`
	var record store.FindingRecord
	err := s.db.QueryRowContext(ctx, query, snapshotID, id).Scan(
		&record.ID,
		&record.DatasetSnapshotID,
		&record.SourceRecordID,
		&record.Kind,
		&record.Payload,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get finding: %w", err)
	}
	return &record, nil
}

func (s *recordStore) InsertFinding(ctx context.Context, record store.FindingRecord) error {
	query := `
		INSERT INTO finding_records (
			id, dataset_snapshot_id, source_record_id, kind, payload
		) VALUES (?, ?, ?, ?, ?)
	`
	err := s.exec(ctx, query,
		record.ID,
		record.DatasetSnapshotID,
		record.SourceRecordID,
		record.Kind,
		record.Payload,
	)
	if err != nil {
		return fmt.Errorf("insert finding: %w", err)
	}
	return nil
}

func (s *recordStore) GetLink(ctx context.Context, snapshotID, id string) (*store.FindingEvidenceLink, error) {
	query := `
		SELECT id, dataset_snapshot_id, finding_id, evidence_id
		FROM finding_evidence_links
		WHERE dataset_snapshot_id = ? AND id = ?
	`
	var record store.FindingEvidenceLink
	err := s.db.QueryRowContext(ctx, query, snapshotID, id).Scan(
		&record.ID,
		&record.DatasetSnapshotID,
		&record.FindingID,
		&record.EvidenceID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get link: %w", err)
	}
	return &record, nil
}

func (s *recordStore) InsertLink(ctx context.Context, record store.FindingEvidenceLink) error {
	query := `
		INSERT INTO finding_evidence_links (
			id, dataset_snapshot_id, finding_id, evidence_id
		) VALUES (?, ?, ?, ?)
	`
	err := s.exec(ctx, query,
		record.ID,
		record.DatasetSnapshotID,
		record.FindingID,
		record.EvidenceID,
	)
	if err != nil {
		return fmt.Errorf("insert link: %w", err)
	}
	return nil
}

func (s *recordStore) exec(ctx context.Context, query string, args ...any) error {
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	}
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}
