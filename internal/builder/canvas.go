// Package builder implements the admin form-builder canvas.
//
// The canvas is a state machine over one schema draft and is the sole
// writer of schema structure. Every structural mutation leaves the draft in
// a state the assessment runtime can render without special-casing; Save
// additionally runs full integrity validation so a broken draft (dangling
// rule references, duplicate ids, cycles) is blocked rather than persisted.
package builder

import (
	"fmt"

	"github.com/formward/formward/internal/schema"
	"github.com/formward/formward/internal/types"
)

// Selection identifies what the operator currently has focused.
type Selection struct {
	StepID  types.StepID  // empty means nothing selected
	FieldID types.FieldID // empty means a whole section is selected
}

// None reports whether nothing is selected.
func (s Selection) None() bool { return s.StepID == "" }

// Canvas edits a single schema draft.
type Canvas struct {
	draft     *types.FormSchema
	selection Selection
}

// New wraps a draft for editing. The canvas takes ownership of the schema;
// callers must not mutate it directly while the canvas is live.
func New(draft *types.FormSchema) *Canvas {
	if draft == nil {
		draft = &types.FormSchema{}
	}
	schema.Normalize(draft)
	return &Canvas{draft: draft}
}

// Draft exposes the schema being edited (for rendering and save).
func (c *Canvas) Draft() *types.FormSchema { return c.draft }

// Selection returns the current selection state.
func (c *Canvas) Selection() Selection { return c.selection }

// Empty reports whether the canvas has no sections; callers render a
// call-to-action placeholder instead of a sortable list.
func (c *Canvas) Empty() bool { return len(c.draft.Steps) == 0 }

// SelectSection focuses a whole section.
func (c *Canvas) SelectSection(id types.StepID) error {
	if _, ok := c.step(id); !ok {
		return fmt.Errorf("select section: %w: %q", types.ErrUnknownField, id)
	}
	c.selection = Selection{StepID: id}
	return nil
}

// SelectQuestion focuses one question within its section.
func (c *Canvas) SelectQuestion(stepID types.StepID, fieldID types.FieldID) error {
	step, ok := c.step(stepID)
	if !ok {
		return fmt.Errorf("select question: %w: step %q", types.ErrUnknownField, stepID)
	}
	for i := range step.Fields {
		if step.Fields[i].ID == fieldID {
			c.selection = Selection{StepID: stepID, FieldID: fieldID}
			return nil
		}
	}
	return fmt.Errorf("select question: %w: %q", types.ErrUnknownField, fieldID)
}

// AddSection appends an empty section and selects it.
func (c *Canvas) AddSection(title string) types.StepID {
	id := types.NewStepID()
	c.draft.Steps = append(c.draft.Steps, types.FormStep{
		ID:    id,
		Title: title,
		Order: len(c.draft.Steps),
	})
	c.selection = Selection{StepID: id}
	return id
}

// AddQuestion appends a question of the given type to a section, with a
// generated id and the type's default validation, and selects it.
func (c *Canvas) AddQuestion(stepID types.StepID, t types.FieldType, label string) (types.FieldID, error) {
	if !types.KnownFieldType(t) {
		return "", fmt.Errorf("add question: %w: %q", types.ErrUnknownFieldType, t)
	}
	step, ok := c.step(stepID)
	if !ok {
		return "", fmt.Errorf("add question: %w: step %q", types.ErrUnknownField, stepID)
	}

	id := types.NewFieldID()
	step.Fields = append(step.Fields, types.FormField{
		ID:         id,
		Type:       t,
		Label:      label,
		Validation: schema.DefaultValidation(t),
		Order:      len(step.Fields),
	})
	c.selection = Selection{StepID: stepID, FieldID: id}
	return id, nil
}

// DeleteQuestion removes a question from its section. Selection pointing at
// the deleted question falls back to its section.
func (c *Canvas) DeleteQuestion(stepID types.StepID, fieldID types.FieldID) error {
	step, ok := c.step(stepID)
	if !ok {
		return fmt.Errorf("delete question: %w: step %q", types.ErrUnknownField, stepID)
	}
	for i := range step.Fields {
		if step.Fields[i].ID == fieldID {
			step.Fields = append(step.Fields[:i], step.Fields[i+1:]...)
			c.renumber(step)
			if c.selection.FieldID == fieldID {
				c.selection = Selection{StepID: stepID}
			}
			return nil
		}
	}
	return fmt.Errorf("delete question: %w: %q", types.ErrUnknownField, fieldID)
}

// DeleteSection removes a section and every question it contains.
// Selection pointing anywhere inside is cleared.
func (c *Canvas) DeleteSection(stepID types.StepID) error {
	for i := range c.draft.Steps {
		if c.draft.Steps[i].ID == stepID {
			c.draft.Steps = append(c.draft.Steps[:i], c.draft.Steps[i+1:]...)
			for si := range c.draft.Steps {
				c.draft.Steps[si].Order = si
			}
			if c.selection.StepID == stepID {
				c.selection = Selection{}
			}
			return nil
		}
	}
	return fmt.Errorf("delete section: %w: %q", types.ErrUnknownField, stepID)
}

// MoveSection reorders sections: remove at from, insert at to.
// Order values are rewritten contiguously; ids are untouched.
func (c *Canvas) MoveSection(from, to int) error {
	n := len(c.draft.Steps)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move section: index out of range (%d -> %d of %d)", from, to, n)
	}
	if from == to {
		return nil
	}
	step := c.draft.Steps[from]
	rest := append(c.draft.Steps[:from], c.draft.Steps[from+1:]...)
	c.draft.Steps = append(rest[:to], append([]types.FormStep{step}, rest[to:]...)...)
	for si := range c.draft.Steps {
		c.draft.Steps[si].Order = si
	}
	return nil
}

// MoveQuestion reorders questions within one section.
func (c *Canvas) MoveQuestion(stepID types.StepID, from, to int) error {
	step, ok := c.step(stepID)
	if !ok {
		return fmt.Errorf("move question: %w: step %q", types.ErrUnknownField, stepID)
	}
	n := len(step.Fields)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move question: index out of range (%d -> %d of %d)", from, to, n)
	}
	if from == to {
		return nil
	}
	f := step.Fields[from]
	rest := append(step.Fields[:from], step.Fields[from+1:]...)
	step.Fields = append(rest[:to], append([]types.FormField{f}, rest[to:]...)...)
	c.renumber(step)
	return nil
}

// Validate runs full integrity checking on the draft. The save path must
// call this and refuse to persist on error.
func (c *Canvas) Validate() error {
	return schema.Validate(c.draft)
}

func (c *Canvas) step(id types.StepID) (*types.FormStep, bool) {
	for i := range c.draft.Steps {
		if c.draft.Steps[i].ID == id {
			return &c.draft.Steps[i], true
		}
	}
	return nil, false
}

func (c *Canvas) renumber(step *types.FormStep) {
	for i := range step.Fields {
		step.Fields[i].Order = i
	}
}
