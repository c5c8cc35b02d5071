// Package submission maps a completed answer map to the flat persistence
// record and delegates it to the storage collaborator.
//
// The handler is the boundary of the error taxonomy: collaborator errors
// are classified and wrapped, never thrown past it. A duplicate-key result
// from the store counts as already-exists, equivalent to success.
package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/formward/formward/internal/types"
	"github.com/formward/formward/internal/validate"
)

// Store persists submission records.
type Store interface {
	InsertSubmission(ctx context.Context, formID types.FormID, id types.SubmissionID, rec *types.SubmissionRecord, rawAnswers []byte) error
}

// Cache revalidates cached views of assessment data after a new submission.
type Cache interface {
	InvalidateAssessments(ctx context.Context, formID types.FormID) error
}

// Notifier tells sales about a new lead. Best-effort.
type Notifier interface {
	SubmissionReceived(ctx context.Context, formID types.FormID, rec *types.SubmissionRecord) error
}

// Handler implements runtime.Submitter for one form.
type Handler struct {
	formID   types.FormID
	store    Store
	cache    Cache
	notifier Notifier
}

// NewHandler wires the submission pipeline. cache and notifier may be nil.
func NewHandler(formID types.FormID, store Store, cache Cache, notifier Notifier) *Handler {
	return &Handler{formID: formID, store: store, cache: cache, notifier: notifier}
}

// Well-known identity and profile field ids of the assessment form.
const (
	fieldFullName           = "full_name"
	fieldEmail              = "email"
	fieldPhone              = "phone"
	fieldCompany            = "company"
	fieldCompanySize        = "company_size"
	fieldIndustry           = "industry"
	fieldCurrentChallenges  = "current_challenges"
	fieldAutomationInterest = "automation_interest"
	fieldCurrentTools       = "current_tools"
	fieldBudgetRange        = "budget_range"
	fieldTimeline           = "timeline"
	fieldGoals              = "goals"
	fieldAdditionalInfo     = "additional_info"
)

// Submit validates identity fields, derives the submission record, and
// delegates to the store exactly once. Returns a wrapped sentinel from
// internal/types for every failure mode.
func (h *Handler) Submit(ctx context.Context, answers types.AnswerMap) error {
	rec, err := BuildRecord(answers)
	if err != nil {
		return err
	}

	raw, err := types.RawAnswers(answers)
	if err != nil {
		return fmt.Errorf("%w: encoding answers: %v", types.ErrPersistenceFailure, err)
	}

	id := types.NewSubmissionID()
	if err := h.store.InsertSubmission(ctx, h.formID, id, rec, raw); err != nil {
		if errors.Is(err, types.ErrDuplicateSubmission) {
			// Same contact re-submitting is not a failure; the original
			// record stands.
			slog.Info("duplicate submission ignored",
				slog.String("formID", string(h.formID)),
				slog.String("contactEmail", rec.ContactEmail))
			return nil
		}
		return fmt.Errorf("%w: %v", types.ErrPersistenceFailure, err)
	}

	// Revalidation and notification are collaborator side effects; their
	// failure must not fail an already-persisted submission.
	if h.cache != nil {
		if err := h.cache.InvalidateAssessments(ctx, h.formID); err != nil {
			slog.Warn("assessment cache revalidation failed",
				slog.String("formID", string(h.formID)),
				slog.String("error", err.Error()))
		}
	}
	if h.notifier != nil {
		if err := h.notifier.SubmissionReceived(ctx, h.formID, rec); err != nil {
			slog.Warn("submission notification failed",
				slog.String("formID", string(h.formID)),
				slog.String("error", err.Error()))
		}
	}

	return nil
}

// BuildRecord derives the immutable flat record from an answer map.
// One-way mapping: created once at submit time, never mutated after.
func BuildRecord(answers types.AnswerMap) (*types.SubmissionRecord, error) {
	fullName := answerString(answers, fieldFullName)
	email := answerString(answers, fieldEmail)
	company := answerString(answers, fieldCompany)

	switch {
	case strings.TrimSpace(fullName) == "":
		return nil, fmt.Errorf("%w: full_name", types.ErrMissingRequiredField)
	case strings.TrimSpace(email) == "":
		return nil, fmt.Errorf("%w: email", types.ErrMissingRequiredField)
	case strings.TrimSpace(company) == "":
		return nil, fmt.Errorf("%w: company", types.ErrMissingRequiredField)
	}

	if !validate.Email(email) {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidEmail, email)
	}

	phone := answerString(answers, fieldPhone)
	if phone != "" && !validate.Phone(phone) {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidPhone, phone)
	}

	return &types.SubmissionRecord{
		ContactName:        fullName,
		ContactEmail:       email,
		ContactPhone:       phone,
		CompanyName:        company,
		CompanySize:        answerString(answers, fieldCompanySize),
		Industry:           answerString(answers, fieldIndustry),
		CurrentChallenges:  answerStrings(answers, fieldCurrentChallenges),
		AutomationInterest: answerStrings(answers, fieldAutomationInterest),
		CurrentTools:       answerStrings(answers, fieldCurrentTools),
		BudgetRange:        answerString(answers, fieldBudgetRange),
		Timeline:           answerString(answers, fieldTimeline),
		Goals:              answerString(answers, fieldGoals),
		AdditionalInfo:     answerString(answers, fieldAdditionalInfo),
	}, nil
}

func answerString(answers types.AnswerMap, id types.FieldID) string {
	s, _ := answers[id].(string)
	return s
}

func answerStrings(answers types.AnswerMap, id types.FieldID) []string {
	switch v := answers[id].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
