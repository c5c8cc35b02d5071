// Package runtime drives one assessment form session.
//
// A Session is a state machine over a published schema: current step,
// answer map, and submission status. Validation and visibility recompute
// are synchronous so visibility/validity state is never observably stale;
// the only suspending operation is Submit, guarded against duplicate
// delivery by the submitting status rather than a lock. Each session is
// owned by a single goroutine and its answer map is never shared.
package runtime

import (
	"context"
	"fmt"

	"github.com/formward/formward/internal/logic"
	"github.com/formward/formward/internal/schema"
	"github.com/formward/formward/internal/types"
	"github.com/formward/formward/internal/validate"
)

// Status is the submission lifecycle of a session.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// Submitter persists a completed answer map. Implemented by
// internal/submission.Handler.
type Submitter interface {
	Submit(ctx context.Context, answers types.AnswerMap) error
}

// Session renders a schema step by step and collects answers.
type Session struct {
	schema    *types.FormSchema
	submitter Submitter

	stepIdx   int // len(schema.Steps) means past the last step, ready to submit
	answers   types.AnswerMap
	status    Status
	lastErr   string
	fieldErrs []validate.FieldError
}

// New starts a session at step 0 with defaults applied.
func New(s *types.FormSchema, submitter Submitter) *Session {
	return &Session{
		schema:    s,
		submitter: submitter,
		answers:   schema.Defaults(s),
		status:    StatusIdle,
	}
}

// Status returns the submission lifecycle state.
func (s *Session) Status() Status { return s.status }

// LastError returns the retained message of the last failed submit.
func (s *Session) LastError() string { return s.lastErr }

// FieldErrors returns per-field validation state from the last Next attempt.
func (s *Session) FieldErrors() []validate.FieldError { return s.fieldErrs }

// Answers exposes the current answer map for read-only use (rendering,
// conditional previews). Callers must not mutate it.
func (s *Session) Answers() types.AnswerMap { return s.answers }

// StepIndex returns the current step index; len(steps) means every visible
// step is behind us and the session is submission-ready.
func (s *Session) StepIndex() int { return s.stepIdx }

// CurrentStep returns the step under the cursor, or false when the session
// is submission-ready.
func (s *Session) CurrentStep() (*types.FormStep, bool) {
	if s.stepIdx >= len(s.schema.Steps) {
		return nil, false
	}
	return &s.schema.Steps[s.stepIdx], true
}

// known adapts the schema to the evaluator's dangling-reference check.
func (s *Session) known(id types.FieldID) bool {
	_, ok := s.schema.Field(id)
	return ok
}

// StepVisible evaluates a step's conditional logic against current answers.
func (s *Session) StepVisible(step *types.FormStep) bool {
	return logic.Visible(step.Logic, s.answers, s.known)
}

// FieldVisible evaluates a field's conditional logic against current
// answers. A field inside a hidden step is hidden regardless of its own
// logic.
func (s *Session) FieldVisible(step *types.FormStep, f *types.FormField) bool {
	if !s.StepVisible(step) {
		return false
	}
	return logic.Visible(f.Logic, s.answers, s.known)
}

// SetAnswer records a value and synchronously reconciles visibility:
// answers of fields hidden by the change are cleared, cascading until
// stable, so a hidden field can never retain a stale value that would
// block or leak into submission.
func (s *Session) SetAnswer(id types.FieldID, value any) error {
	if s.status == StatusSucceeded {
		return types.ErrSessionReadOnly
	}
	if s.status == StatusSubmitting {
		return types.ErrSubmitInFlight
	}
	if _, ok := s.schema.Field(id); !ok {
		return fmt.Errorf("%w: %q", types.ErrUnknownField, id)
	}

	if value == nil {
		delete(s.answers, id)
	} else {
		s.answers[id] = value
	}
	s.reconcileHidden()
	return nil
}

// reconcileHidden clears answers of invisible fields until a fixpoint;
// clearing one answer can hide further dependents, so iterate. Bounded by
// the field count because each pass either clears something or stops.
func (s *Session) reconcileHidden() {
	for {
		cleared := false
		for si := range s.schema.Steps {
			step := &s.schema.Steps[si]
			for fi := range step.Fields {
				f := &step.Fields[fi]
				if _, answered := s.answers[f.ID]; !answered {
					continue
				}
				if !s.FieldVisible(step, f) {
					delete(s.answers, f.ID)
					cleared = true
				}
			}
		}
		if !cleared {
			return
		}
	}
}

// visibleFieldErrors validates the visible fields of one step. Fields (or
// the whole step) hidden by conditional logic are exempt.
func (s *Session) visibleFieldErrors(step *types.FormStep) []validate.FieldError {
	if !s.StepVisible(step) {
		return nil
	}
	var errs []validate.FieldError
	for fi := range step.Fields {
		f := &step.Fields[fi]
		if !s.FieldVisible(step, f) {
			continue
		}
		if ferr := validate.Field(f, s.answers[f.ID]); ferr != nil {
			errs = append(errs, *ferr)
		}
	}
	return errs
}

// Next validates the visible fields of the current step and advances past
// it, skipping hidden steps until the next visible one (or submission-ready
// state). Hidden-but-required fields never block advancement: visibility is
// evaluated first and invisible fields are exempt from validation. On
// validation failure the session stays put and FieldErrors carries the
// per-field state.
func (s *Session) Next() ([]validate.FieldError, error) {
	if s.status == StatusSucceeded {
		return nil, types.ErrSessionReadOnly
	}
	if s.status == StatusSubmitting {
		return nil, types.ErrSubmitInFlight
	}

	step, ok := s.CurrentStep()
	if !ok {
		return nil, nil
	}

	errs := s.visibleFieldErrors(step)
	if len(errs) > 0 {
		s.fieldErrs = errs
		return errs, nil
	}
	s.fieldErrs = nil

	// Repeat-skip: every consecutive hidden step is passed over, not just
	// the first one.
	idx := s.stepIdx + 1
	for idx < len(s.schema.Steps) && !s.StepVisible(&s.schema.Steps[idx]) {
		idx++
	}
	s.stepIdx = idx
	return nil, nil
}

// Back retreats to the previous visible step. Answers already entered are
// retained; nothing is reset.
func (s *Session) Back() error {
	if s.status == StatusSucceeded {
		return types.ErrSessionReadOnly
	}
	if s.status == StatusSubmitting {
		return types.ErrSubmitInFlight
	}
	for idx := s.stepIdx - 1; idx >= 0; idx-- {
		if s.StepVisible(&s.schema.Steps[idx]) {
			s.stepIdx = idx
			return nil
		}
	}
	return nil
}

// lastVisibleIndex returns the index of the last visible step, or -1.
func (s *Session) lastVisibleIndex() int {
	for idx := len(s.schema.Steps) - 1; idx >= 0; idx-- {
		if s.StepVisible(&s.schema.Steps[idx]) {
			return idx
		}
	}
	return -1
}

// Submit delegates the answer map to the submitter exactly once per
// attempt. Only reachable from the last visible step (or past it); when the
// cursor still sits on the last visible step its fields are validated here,
// so a submit button on that step cannot bypass the checks Next applies.
// A second Submit while one is in flight returns ErrSubmitInFlight without
// a second delegated call. Success makes the session read-only; failure
// retains the error and entered data for retry.
func (s *Session) Submit(ctx context.Context) error {
	switch s.status {
	case StatusSucceeded:
		return types.ErrSessionReadOnly
	case StatusSubmitting:
		return types.ErrSubmitInFlight
	}

	if s.stepIdx < len(s.schema.Steps) {
		if s.stepIdx != s.lastVisibleIndex() {
			return types.ErrNotLastStep
		}
		if errs := s.visibleFieldErrors(&s.schema.Steps[s.stepIdx]); len(errs) > 0 {
			s.fieldErrs = errs
			return types.ErrInvalidAnswers
		}
		s.fieldErrs = nil
	}

	s.status = StatusSubmitting
	err := s.submitter.Submit(ctx, s.answers.Clone())
	if err != nil {
		s.status = StatusFailed
		s.lastErr = err.Error()
		return err
	}

	s.status = StatusSucceeded
	s.lastErr = ""
	return nil
}
