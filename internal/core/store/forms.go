// Package store implements SQL persistence for forms, submissions, and
// newsletter subscriptions on top of the named-query layer in core/db.
//
// Draft saves use an optimistic version check: the UPDATE carries the
// version the caller read, and zero affected rows means someone else saved
// in between (ErrVersionConflict). Unique-constraint violations from either
// driver are classified into the duplicate sentinels so callers never see
// driver error types.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/formward/formward/internal/core/db"
	"github.com/formward/formward/internal/types"
)

// FormRow is the full forms table row.
type FormRow struct {
	FormID           string         `db:"form_id"`
	FormKey          string         `db:"form_key"`
	Title            string         `db:"title"`
	DraftSchema      []byte         `db:"draft_schema"`
	DraftVersion     int            `db:"draft_version"`
	PublishedSchema  []byte         `db:"published_schema"`
	PublishedVersion sql.NullInt64  `db:"published_version"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

// FormSummary is the list view of a form.
type FormSummary struct {
	FormID           string        `db:"form_id"`
	FormKey          string        `db:"form_key"`
	Title            string        `db:"title"`
	DraftVersion     int           `db:"draft_version"`
	PublishedVersion sql.NullInt64 `db:"published_version"`
	CreatedAt        time.Time     `db:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at"`
}

// Draft is a decoded draft schema with its optimistic version.
type Draft struct {
	FormID  types.FormID
	FormKey string
	Title   string
	Schema  *types.FormSchema
	Version int
}

// Published is a decoded published schema.
type Published struct {
	FormID  types.FormID
	Schema  *types.FormSchema
	Version int
}

// FormStore persists form schemas.
type FormStore struct {
	q *db.Queries
}

// NewFormStore wraps the named-query layer.
func NewFormStore(q *db.Queries) *FormStore {
	return &FormStore{q: q}
}

// Create inserts a new form with the given draft schema at version 1.
func (s *FormStore) Create(ctx context.Context, formKey, title string, schema *types.FormSchema) (types.FormID, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("encoding draft schema: %w", err)
	}

	id := types.NewFormID()
	now := time.Now().UTC()
	if _, err := s.q.Exec("create-form", string(id), formKey, title, raw, now, now); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%w: form key %q", types.ErrFormKeyTaken, formKey)
		}
		return "", fmt.Errorf("creating form %q: %w", formKey, err)
	}
	return id, nil
}

// GetDraft loads the draft schema and its version for editing.
func (s *FormStore) GetDraft(ctx context.Context, formKey string) (*Draft, error) {
	var row FormRow
	if err := s.q.Get("get-form-by-key", &row, formKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", types.ErrFormNotFound, formKey)
		}
		return nil, fmt.Errorf("loading form %q: %w", formKey, err)
	}

	var schema types.FormSchema
	if err := json.Unmarshal(row.DraftSchema, &schema); err != nil {
		return nil, fmt.Errorf("decoding draft schema of %q: %w", formKey, err)
	}

	return &Draft{
		FormID:  types.FormID(row.FormID),
		FormKey: row.FormKey,
		Title:   row.Title,
		Schema:  &schema,
		Version: row.DraftVersion,
	}, nil
}

// SaveDraft writes a new draft revision. expectedVersion is the draft
// version the caller read; a stale version yields ErrVersionConflict and no
// write. Returns the new version on success.
func (s *FormStore) SaveDraft(ctx context.Context, formKey, title string, schema *types.FormSchema, expectedVersion int) (int, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return 0, fmt.Errorf("encoding draft schema: %w", err)
	}

	newVersion := expectedVersion + 1
	res, err := s.q.Exec("save-draft", title, raw, newVersion, time.Now().UTC(), formKey, expectedVersion)
	if err != nil {
		return 0, fmt.Errorf("saving draft of %q: %w", formKey, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("saving draft of %q: %w", formKey, err)
	}
	if affected == 0 {
		// Either the form is gone or the version moved under us.
		if _, getErr := s.GetDraft(ctx, formKey); getErr != nil {
			return 0, getErr
		}
		return 0, fmt.Errorf("%w: form %q version %d", types.ErrVersionConflict, formKey, expectedVersion)
	}
	return newVersion, nil
}

// Publish promotes the current draft to the published schema.
func (s *FormStore) Publish(ctx context.Context, formKey string) error {
	res, err := s.q.Exec("publish-form", time.Now().UTC(), formKey)
	if err != nil {
		return fmt.Errorf("publishing %q: %w", formKey, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("publishing %q: %w", formKey, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %q", types.ErrFormNotFound, formKey)
	}
	return nil
}

// GetPublished loads the published schema served to visitors.
func (s *FormStore) GetPublished(ctx context.Context, formKey string) (*Published, error) {
	var row struct {
		FormID           string        `db:"form_id"`
		PublishedSchema  []byte        `db:"published_schema"`
		PublishedVersion sql.NullInt64 `db:"published_version"`
	}
	if err := s.q.Get("get-published", &row, formKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", types.ErrFormNotFound, formKey)
		}
		return nil, fmt.Errorf("loading published form %q: %w", formKey, err)
	}
	if len(row.PublishedSchema) == 0 || !row.PublishedVersion.Valid {
		return nil, fmt.Errorf("%w: %q", types.ErrNotPublished, formKey)
	}

	var schema types.FormSchema
	if err := json.Unmarshal(row.PublishedSchema, &schema); err != nil {
		return nil, fmt.Errorf("decoding published schema of %q: %w", formKey, err)
	}

	return &Published{
		FormID:  types.FormID(row.FormID),
		Schema:  &schema,
		Version: int(row.PublishedVersion.Int64),
	}, nil
}

// List returns summaries of all forms in creation order.
func (s *FormStore) List(ctx context.Context) ([]FormSummary, error) {
	var rows []FormSummary
	if err := s.q.Select("list-forms", &rows); err != nil {
		return nil, fmt.Errorf("listing forms: %w", err)
	}
	return rows, nil
}
