package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/formward/formward/internal/core/db"
	"github.com/formward/formward/internal/types"
)

// SubmissionRow is the flat submissions table row.
type SubmissionRow struct {
	SubmissionID       string         `db:"submission_id"`
	FormID             string         `db:"form_id"`
	ContactName        string         `db:"contact_name"`
	ContactEmail       string         `db:"contact_email"`
	ContactPhone       sql.NullString `db:"contact_phone"`
	CompanyName        string         `db:"company_name"`
	CompanySize        sql.NullString `db:"company_size"`
	Industry           sql.NullString `db:"industry"`
	CurrentChallenges  []byte         `db:"current_challenges"`
	AutomationInterest []byte         `db:"automation_interest"`
	CurrentTools       []byte         `db:"current_tools"`
	BudgetRange        sql.NullString `db:"budget_range"`
	Timeline           sql.NullString `db:"timeline"`
	Goals              sql.NullString `db:"goals"`
	AdditionalInfo     sql.NullString `db:"additional_info"`
	Answers            []byte         `db:"answers"`
	CreatedAt          time.Time      `db:"created_at"`
}

// SubmissionStore persists assessment submissions and newsletter signups.
// Implements submission.Store.
type SubmissionStore struct {
	q *db.Queries
}

// NewSubmissionStore wraps the named-query layer.
func NewSubmissionStore(q *db.Queries) *SubmissionStore {
	return &SubmissionStore{q: q}
}

// InsertSubmission writes one flat record plus the raw answer JSON. A
// unique violation on (form_id, contact_email) is classified as
// ErrDuplicateSubmission for the handler to treat as already-exists.
func (s *SubmissionStore) InsertSubmission(ctx context.Context, formID types.FormID, id types.SubmissionID, rec *types.SubmissionRecord, rawAnswers []byte) error {
	challenges, err := json.Marshal(rec.CurrentChallenges)
	if err != nil {
		return fmt.Errorf("encoding challenges: %w", err)
	}
	interests, err := json.Marshal(rec.AutomationInterest)
	if err != nil {
		return fmt.Errorf("encoding automation interest: %w", err)
	}
	tools, err := json.Marshal(rec.CurrentTools)
	if err != nil {
		return fmt.Errorf("encoding current tools: %w", err)
	}

	_, err = s.q.Exec("insert-submission",
		string(id), string(formID),
		rec.ContactName, rec.ContactEmail, rec.ContactPhone,
		rec.CompanyName, rec.CompanySize, rec.Industry,
		challenges, interests, tools,
		rec.BudgetRange, rec.Timeline, rec.Goals, rec.AdditionalInfo,
		rawAnswers, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s on form %s", types.ErrDuplicateSubmission, rec.ContactEmail, formID)
		}
		return fmt.Errorf("inserting submission %s: %w", id, err)
	}
	return nil
}

// GetSubmission loads one submission of a form.
func (s *SubmissionStore) GetSubmission(ctx context.Context, formID types.FormID, id types.SubmissionID) (*SubmissionRow, error) {
	var row SubmissionRow
	if err := s.q.Get("get-submission", &row, string(formID), string(id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("submission %s: %w", id, sql.ErrNoRows)
		}
		return nil, fmt.Errorf("loading submission %s: %w", id, err)
	}
	return &row, nil
}

// SubscribeNewsletter records an email signup. A duplicate email is
// classified as ErrDuplicateSubmission; callers treat it as success.
func (s *SubmissionStore) SubscribeNewsletter(ctx context.Context, email string) error {
	if _, err := s.q.Exec("subscribe-newsletter", email, time.Now().UTC()); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", types.ErrDuplicateSubmission, email)
		}
		return fmt.Errorf("subscribing %s: %w", email, err)
	}
	return nil
}

// isUniqueViolation recognizes unique-constraint errors from both drivers.
// Postgres class 23505 = unique_violation.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
