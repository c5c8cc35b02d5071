package types

import (
	"time"

	"github.com/google/uuid"
)

// FormID identifies a form. UUIDv7 string alias for type safety with plain
// JSON string serialization; time-ordering clusters inserts in B-tree pages.
type FormID string

// StepID identifies a step within a schema, stable across edits.
type StepID string

// FieldID identifies a field; unique across the whole schema so conditional
// rules can reference any field regardless of section.
type FieldID string

// SubmissionID identifies a persisted submission record.
type SubmissionID string

// NewFormID generates a UUIDv7 form identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewFormID() FormID {
	return FormID(uuid.Must(uuid.NewV7()).String())
}

// NewStepID generates a UUIDv7 step identifier.
func NewStepID() StepID {
	return StepID(uuid.Must(uuid.NewV7()).String())
}

// NewFieldID generates a UUIDv7 field identifier.
func NewFieldID() FieldID {
	return FieldID(uuid.Must(uuid.NewV7()).String())
}

// NewSubmissionID generates a UUIDv7 submission identifier.
func NewSubmissionID() SubmissionID {
	return SubmissionID(uuid.Must(uuid.NewV7()).String())
}

// ParseFormID validates and converts a string to FormID.
// Rejects malformed UUIDs to prevent invalid IDs from entering the system.
func ParseFormID(s string) (FormID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", err
	}
	return FormID(s), nil
}

// ParseSubmissionID validates and converts a string to SubmissionID.
func ParseSubmissionID(s string) (SubmissionID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", err
	}
	return SubmissionID(s), nil
}

// SubmissionIDTime extracts the timestamp embedded in a UUIDv7 ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func SubmissionIDTime(id SubmissionID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
