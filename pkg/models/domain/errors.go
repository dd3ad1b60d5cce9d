package domain

import "fmt"

// IdentityInvalidError reports a broken matching configuration. Fatal: the
// caller must fix the identity field list before anything can run.
type IdentityInvalidError struct {
	Reason string
}

func (e *IdentityInvalidError) Error() string {
	return fmt.Sprintf("identity invalid: %s", e.Reason)
}

// CostLineInvalidError reports a line that fails structural validation,
// e.g. a missing identity field.
type CostLineInvalidError struct {
	LineID string
	Field  string
	Reason string
}

func (e *CostLineInvalidError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("cost line %q invalid: field %q: %s", e.LineID, e.Field, e.Reason)
	}
	return fmt.Sprintf("cost line %q invalid: %s", e.LineID, e.Reason)
}

// InvalidParameterError reports a bad call parameter, e.g. threshold
// ordering or an unsupported period type. Raised before any computation.
type InvalidParameterError struct {
	Parameter string
	Reason    string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Parameter, e.Reason)
}

// SnapshotMismatchError reports inputs bound to different dataset snapshots.
type SnapshotMismatchError struct {
	Want string
	Got  string
}

func (e *SnapshotMismatchError) Error() string {
	return fmt.Sprintf("dataset snapshot mismatch: want %q, got %q", e.Want, e.Got)
}

// ImmutableConflictError reports a persisted record whose content disagrees
// with freshly computed content for the same content-derived id. Never
// auto-resolved: it indicates a non-deterministic upstream bug.
type ImmutableConflictError struct {
	RecordID          string
	DatasetSnapshotID string
	Field             string
}

func (e *ImmutableConflictError) Error() string {
	return fmt.Sprintf("immutable conflict on record %q (snapshot %q): field %q differs from stored content",
		e.RecordID, e.DatasetSnapshotID, e.Field)
}
