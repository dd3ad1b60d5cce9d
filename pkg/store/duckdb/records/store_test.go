package records

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/cost-audit/pkg/models/store"
	"github.com/de-tools/cost-audit/pkg/store/duckdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_NilDB(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}

func TestGetEvidence_Found(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM evidence_records")).
		WithArgs("snap-1", "ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "dataset_snapshot_id", "component_id", "kind", "created_at", "payload"}).
			AddRow("ev-1", "snap-1", "comp", "variance_analysis", created, []byte(`{"a":1}`)))

	s, err := NewStore(db)
	require.NoError(t, err)

	record, err := s.GetEvidence(context.Background(), "snap-1", "ev-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "ev-1", record.ID)
	assert.Equal(t, "variance_analysis", record.Kind)
	assert.JSONEq(t, `{"a":1}`, string(record.Payload))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEvidence_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM evidence_records")).
		WithArgs("snap-1", "ev-404").
		WillReturnRows(sqlmock.NewRows([]string{"id", "dataset_snapshot_id", "component_id", "kind", "created_at", "payload"}))

	s, err := NewStore(db)
	require.NoError(t, err)

	record, err := s.GetEvidence(context.Background(), "snap-1", "ev-404")
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertEvidence(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO evidence_records")).
		WithArgs("ev-1", "snap-1", "comp", "variance_analysis", created, []byte(`{"a":1}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s, err := NewStore(db)
	require.NoError(t, err)

	err = s.InsertEvidence(context.Background(), store.EvidenceRecord{
		ID:                "ev-1",
		DatasetSnapshotID: "snap-1",
		ComponentID:       "comp",
		Kind:              "variance_analysis",
		CreatedAt:         created,
		Payload:           []byte(`{"a":1}`),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertFinding_UsesContextTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO finding_records")).
		WithArgs("f-1", "snap-1", "a2", "scope_deviation_finding", []byte(`{}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := duckdb.WithTransaction(context.Background(), tx)

	s, err := NewStore(db)
	require.NoError(t, err)

	err = s.InsertFinding(ctx, store.FindingRecord{
		ID:                "f-1",
		DatasetSnapshotID: "snap-1",
		SourceRecordID:    "a2",
		Kind:              "scope_deviation_finding",
		Payload:           []byte(`{}`),
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLink_Found(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM finding_evidence_links")).
		WithArgs("snap-1", "l-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "dataset_snapshot_id", "finding_id", "evidence_id"}).
			AddRow("l-1", "snap-1", "f-1", "ev-1"))

	s, err := NewStore(db)
	require.NoError(t, err)

	record, err := s.GetLink(context.Background(), "snap-1", "l-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "f-1", record.FindingID)
	assert.Equal(t, "ev-1", record.EvidenceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
