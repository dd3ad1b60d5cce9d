package records

import (
	"context"
	"sync"

	"github.com/de-tools/cost-audit/pkg/models/store"
)

// MemoryStore is an in-process Store for embedding hosts and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	evidence map[string]store.EvidenceRecord
	findings map[string]store.FindingRecord
	links    map[string]store.FindingEvidenceLink
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		evidence: make(map[string]store.EvidenceRecord),
		findings: make(map[string]store.FindingRecord),
		links:    make(map[string]store.FindingEvidenceLink),
	}
}

func scopedKey(snapshotID, id string) string {
	return snapshotID + "\x1f" + id
}

func (m *MemoryStore) GetEvidence(_ context.Context, snapshotID, id string) (*store.EvidenceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if record, ok := m.evidence[scopedKey(snapshotID, id)]; ok {
		record.Payload = append([]byte(nil), record.Payload...)
		return &record, nil
	}
	return nil, nil
}

func (m *MemoryStore) InsertEvidence(_ context.Context, record store.EvidenceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record.Payload = append([]byte(nil), record.Payload...)
	m.evidence[scopedKey(record.DatasetSnapshotID, record.ID)] = record
	return nil
}

func (m *MemoryStore) GetFinding(_ context.Context, snapshotID, id string) (*store.FindingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if record, ok := m.findings[scopedKey(snapshotID, id)]; ok {
		record.Payload = append([]byte(nil), record.Payload...)
		return &record, nil
	}
	return nil, nil
}

func (m *MemoryStore) InsertFinding(_ context.Context, record store.FindingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record.Payload = append([]byte(nil), record.Payload...)
	m.findings[scopedKey(record.DatasetSnapshotID, record.ID)] = record
	return nil
}

func (m *MemoryStore) GetLink(_ context.Context, snapshotID, id string) (*store.FindingEvidenceLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if record, ok := m.links[scopedKey(snapshotID, id)]; ok {
		return &record, nil
	}
	return nil, nil
}

func (m *MemoryStore) InsertLink(_ context.Context, record store.FindingEvidenceLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[scopedKey(record.DatasetSnapshotID, record.ID)] = record
	return nil
}
