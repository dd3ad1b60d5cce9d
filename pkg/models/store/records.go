package store

import "time"

// EvidenceRecord is a durable, content-addressed artifact. Append-only:
// once an id exists with a payload, the record is never altered.
type EvidenceRecord struct {
	ID                string
	DatasetSnapshotID string
	ComponentID       string
	Kind              string
	CreatedAt         time.Time
	Payload           []byte
}

// FindingRecord is one durable analytical observation tied to the input
// record it concerns. Same append-only contract as evidence.
type FindingRecord struct {
	ID                string
	DatasetSnapshotID string
	SourceRecordID    string
	Kind              string
	Payload           []byte
}

// FindingEvidenceLink associates a finding with the evidence supporting it.
type FindingEvidenceLink struct {
	ID                string
	DatasetSnapshotID string
	FindingID         string
	EvidenceID        string
}
