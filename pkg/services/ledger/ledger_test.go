package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/de-tools/cost-audit/pkg/models/domain"
	"github.com/de-tools/cost-audit/pkg/models/store"
	"github.com/de-tools/cost-audit/pkg/store/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore tracks underlying inserts so tests can prove a re-emission
// performed no second write.
type countingStore struct {
	records.Store
	evidenceInserts int
	findingInserts  int
	linkInserts     int
}

func newCountingStore() *countingStore {
	return &countingStore{Store: records.NewMemoryStore()}
}

func (c *countingStore) InsertEvidence(ctx context.Context, record store.EvidenceRecord) error {
	c.evidenceInserts++
	return c.Store.InsertEvidence(ctx, record)
}

func (c *countingStore) InsertFinding(ctx context.Context, record store.FindingRecord) error {
	c.findingInserts++
	return c.Store.InsertFinding(ctx, record)
}

func (c *countingStore) InsertLink(ctx context.Context, record store.FindingEvidenceLink) error {
	c.linkInserts++
	return c.Store.InsertLink(ctx, record)
}

func evidence(payload string) store.EvidenceRecord {
	return store.EvidenceRecord{
		ID:                "ev-1",
		DatasetSnapshotID: "snap-1",
		ComponentID:       "comp",
		Kind:              "variance_analysis",
		Payload:           []byte(payload),
	}
}

func TestCreateEvidence_IdempotentEmission(t *testing.T) {
	ctx := context.Background()
	counting := newCountingStore()
	l, err := New(counting)
	require.NoError(t, err)

	first, err := l.CreateEvidence(ctx, evidence(`{"value":1}`))
	require.NoError(t, err)
	second, err := l.CreateEvidence(ctx, evidence(`{"value":1}`))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, 1, counting.evidenceInserts)
}

func TestCreateEvidence_PayloadKeyOrderDoesNotConflict(t *testing.T) {
	ctx := context.Background()
	l, err := New(newCountingStore())
	require.NoError(t, err)

	_, err = l.CreateEvidence(ctx, evidence(`{"a":1,"b":2}`))
	require.NoError(t, err)
	_, err = l.CreateEvidence(ctx, evidence(`{"b":2,"a":1}`))
	assert.NoError(t, err)
}

func TestCreateEvidence_VolatileScopeFieldsMasked(t *testing.T) {
	ctx := context.Background()
	l, err := New(newCountingStore())
	require.NoError(t, err)

	run1 := `{"totals":{"a":1},"assumptions":{"validity_scope":{"dataset_snapshot_id":"snap-1","run_id":"r1","created_at":"2024-01-01T00:00:00Z"}}}`
	run2 := `{"totals":{"a":1},"assumptions":{"validity_scope":{"dataset_snapshot_id":"snap-1","run_id":"r2","created_at":"2024-02-02T00:00:00Z"}}}`

	_, err = l.CreateEvidence(ctx, evidence(run1))
	require.NoError(t, err)
	_, err = l.CreateEvidence(ctx, evidence(run2))
	assert.NoError(t, err, "a rerun differs only in run id and creation time")
}

func TestCreateEvidence_ConflictNamesField(t *testing.T) {
	ctx := context.Background()
	l, err := New(newCountingStore())
	require.NoError(t, err)

	_, err = l.CreateEvidence(ctx, evidence(`{"value":1}`))
	require.NoError(t, err)

	_, err = l.CreateEvidence(ctx, evidence(`{"value":2}`))
	var conflict *domain.ImmutableConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "payload", conflict.Field)
	assert.Equal(t, "ev-1", conflict.RecordID)
	assert.Equal(t, "snap-1", conflict.DatasetSnapshotID)

	divergentKind := evidence(`{"value":1}`)
	divergentKind.Kind = "time_phased_report"
	_, err = l.CreateEvidence(ctx, divergentKind)
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "kind", conflict.Field)
}

func TestCreateEvidence_StampsCreatedAtUTC(t *testing.T) {
	ctx := context.Background()
	counting := newCountingStore()
	l, err := New(counting)
	require.NoError(t, err)
	pinned := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	l.now = func() time.Time { return pinned }

	created, err := l.CreateEvidence(ctx, evidence(`{"value":1}`))
	require.NoError(t, err)

	assert.Equal(t, time.UTC, created.CreatedAt.Location())
	assert.True(t, created.CreatedAt.Equal(pinned))
}

func TestCreateEvidence_PinnedTimestampConflicts(t *testing.T) {
	ctx := context.Background()
	l, err := New(newCountingStore())
	require.NoError(t, err)

	first := evidence(`{"value":1}`)
	first.CreatedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err = l.CreateEvidence(ctx, first)
	require.NoError(t, err)

	// Same instant in another zone is not a conflict.
	sameInstant := evidence(`{"value":1}`)
	sameInstant.CreatedAt = time.Date(2024, 3, 1, 13, 0, 0, 0, time.FixedZone("CET", 3600))
	_, err = l.CreateEvidence(ctx, sameInstant)
	assert.NoError(t, err)

	divergent := evidence(`{"value":1}`)
	divergent.CreatedAt = time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)
	_, err = l.CreateEvidence(ctx, divergent)
	var conflict *domain.ImmutableConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "created_at", conflict.Field)
}

func TestCreateFinding_IdempotentAndConflict(t *testing.T) {
	ctx := context.Background()
	counting := newCountingStore()
	l, err := New(counting)
	require.NoError(t, err)

	finding := store.FindingRecord{
		ID:                "f-1",
		DatasetSnapshotID: "snap-1",
		SourceRecordID:    "a2",
		Kind:              "scope_deviation_finding",
		Payload:           []byte(`{"severity":"scope_creep"}`),
	}

	_, err = l.CreateFinding(ctx, finding)
	require.NoError(t, err)
	_, err = l.CreateFinding(ctx, finding)
	require.NoError(t, err)
	assert.Equal(t, 1, counting.findingInserts)

	divergent := finding
	divergent.SourceRecordID = "a3"
	_, err = l.CreateFinding(ctx, divergent)
	var conflict *domain.ImmutableConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "source_record_id", conflict.Field)
}

func TestLinkFindingToEvidence_IdempotentAndConflict(t *testing.T) {
	ctx := context.Background()
	counting := newCountingStore()
	l, err := New(counting)
	require.NoError(t, err)

	link := store.FindingEvidenceLink{
		ID:                "l-1",
		DatasetSnapshotID: "snap-1",
		FindingID:         "f-1",
		EvidenceID:        "ev-1",
	}

	_, err = l.LinkFindingToEvidence(ctx, link)
	require.NoError(t, err)
	_, err = l.LinkFindingToEvidence(ctx, link)
	require.NoError(t, err)
	assert.Equal(t, 1, counting.linkInserts)

	divergent := link
	divergent.EvidenceID = "ev-2"
	_, err = l.LinkFindingToEvidence(ctx, divergent)
	var conflict *domain.ImmutableConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "evidence_id", conflict.Field)
}

func TestCreate_RequiresIdentity(t *testing.T) {
	ctx := context.Background()
	l, err := New(newCountingStore())
	require.NoError(t, err)

	missing := evidence(`{}`)
	missing.ID = ""
	_, err = l.CreateEvidence(ctx, missing)

	var paramErr *domain.InvalidParameterError
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, "id", paramErr.Parameter)
}
