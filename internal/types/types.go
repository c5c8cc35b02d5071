// Package types provides domain models shared across Formward components.
//
// The form schema model is a closed, tagged enumeration of field types with
// declarative validation and conditional-logic rules. Schemas are authored by
// the builder canvas, validated by internal/schema, rendered step-by-step by
// internal/runtime, and stored as JSON by internal/core/store.
package types

import "encoding/json"

// FieldType enumerates the supported question input kinds.
// Closed union: schema validation rejects unknown values instead of passing
// them through to the runtime.
type FieldType string

const (
	FieldText          FieldType = "text"
	FieldEmail         FieldType = "email"
	FieldPhone         FieldType = "phone"
	FieldNumber        FieldType = "number"
	FieldTextarea      FieldType = "textarea"
	FieldSelect        FieldType = "select"
	FieldMultiSelect   FieldType = "multi_select"
	FieldCheckboxGroup FieldType = "checkbox_group"
	FieldRadio         FieldType = "radio"
)

// KnownFieldType reports whether t is part of the closed field-type union.
func KnownFieldType(t FieldType) bool {
	switch t {
	case FieldText, FieldEmail, FieldPhone, FieldNumber, FieldTextarea,
		FieldSelect, FieldMultiSelect, FieldCheckboxGroup, FieldRadio:
		return true
	}
	return false
}

// HasOptions reports whether the field type renders from an option list.
func (t FieldType) HasOptions() bool {
	switch t {
	case FieldSelect, FieldMultiSelect, FieldCheckboxGroup, FieldRadio:
		return true
	}
	return false
}

// Multi reports whether answers for the field type are collections.
func (t FieldType) Multi() bool {
	return t == FieldMultiSelect || t == FieldCheckboxGroup
}

// RuleOperator enumerates conditional-rule comparison operators.
type RuleOperator string

const (
	OpEquals      RuleOperator = "equals"
	OpNotEquals   RuleOperator = "not_equals"
	OpContains    RuleOperator = "contains"
	OpNotContains RuleOperator = "not_contains"
	OpGreaterThan RuleOperator = "greater_than"
	OpLessThan    RuleOperator = "less_than"
)

// KnownRuleOperator reports whether op is a supported comparison operator.
func KnownRuleOperator(op RuleOperator) bool {
	switch op {
	case OpEquals, OpNotEquals, OpContains, OpNotContains, OpGreaterThan, OpLessThan:
		return true
	}
	return false
}

// LogicAction determines whether matching rules show or hide the target.
type LogicAction string

const (
	ActionShow LogicAction = "show"
	ActionHide LogicAction = "hide"
)

// LogicCombinator combines per-rule results.
type LogicCombinator string

const (
	CombineAnd LogicCombinator = "and"
	CombineOr  LogicCombinator = "or"
)

// ConditionalRule references another field by id and compares its answer.
// A rule must not reference the field it is attached to; internal/schema
// rejects self-cycles and longer dependency cycles at validation time.
type ConditionalRule struct {
	FieldID  FieldID      `json:"field"`
	Operator RuleOperator `json:"operator"`
	Value    any          `json:"value"`
}

// ConditionalLogic is the show/hide rule set attached to a field or step.
type ConditionalLogic struct {
	Action   LogicAction       `json:"action"`
	Operator LogicCombinator   `json:"operator"`
	Rules    []ConditionalRule `json:"rules"`
}

// FieldValidation declares generic constraints applied by the runtime.
// Min/Max mean value bounds for number fields, length bounds for text-like
// fields, and selected-count bounds for multi-value fields.
type FieldValidation struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
}

// FieldOption is one selectable choice of an option-carrying field.
type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FormField is one question within a step.
// IDs are unique across the whole schema, not just within the owning step,
// so conditional rules can reference any field regardless of section.
type FormField struct {
	ID           FieldID           `json:"id"`
	Type         FieldType         `json:"type"`
	Label        string            `json:"label"`
	Placeholder  string            `json:"placeholder,omitempty"`
	Required     bool              `json:"required"`
	Options      []FieldOption     `json:"options,omitempty"`
	DefaultValue any               `json:"default_value,omitempty"`
	Validation   *FieldValidation  `json:"validation,omitempty"`
	Logic        *ConditionalLogic `json:"conditional_logic,omitempty"`
	Order        int               `json:"order"`
}

// FormStep is one page of the multi-step form.
// ID stays stable across edits so in-progress sessions referencing a step
// survive unrelated schema changes.
type FormStep struct {
	ID          StepID            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Fields      []FormField       `json:"fields"`
	Logic       *ConditionalLogic `json:"conditional_logic,omitempty"`
	Order       int               `json:"order"`
}

// FormSettings carries presentation and behavior toggles for a form.
type FormSettings struct {
	SubmitLabel        string `json:"submit_label,omitempty"`
	SuccessMessage     string `json:"success_message,omitempty"`
	AllowSaveAndResume bool   `json:"allow_save_and_resume,omitempty"`
}

// FormSchema is the declarative description of an assessment form.
// Version increments on publish; published snapshots stay stable while the
// draft is edited.
type FormSchema struct {
	Steps    []FormStep   `json:"steps"`
	Settings FormSettings `json:"settings"`
	Version  int          `json:"version"`
}

// Field returns the field with the given id, searching every step.
func (s *FormSchema) Field(id FieldID) (*FormField, bool) {
	for si := range s.Steps {
		for fi := range s.Steps[si].Fields {
			if s.Steps[si].Fields[fi].ID == id {
				return &s.Steps[si].Fields[fi], true
			}
		}
	}
	return nil, false
}

// AnswerMap maps field id to the visitor's current value.
// Values are strings, []string collections, booleans, float64 numbers, or
// nil. Owned exclusively by one runtime session; validators and the logic
// evaluator only read it.
type AnswerMap map[FieldID]any

// Clone returns a shallow-value copy safe for snapshotting at submit time.
func (a AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(a))
	for k, v := range a {
		if ss, ok := v.([]string); ok {
			cp := make([]string, len(ss))
			copy(cp, ss)
			out[k] = cp
			continue
		}
		out[k] = v
	}
	return out
}

// SubmissionRecord is the flat persistence shape derived from an AnswerMap
// plus identity fields. Created once at submit time, never mutated after.
type SubmissionRecord struct {
	ContactName        string   `json:"contact_name" db:"contact_name"`
	ContactEmail       string   `json:"contact_email" db:"contact_email"`
	ContactPhone       string   `json:"contact_phone" db:"contact_phone"`
	CompanyName        string   `json:"company_name" db:"company_name"`
	CompanySize        string   `json:"company_size" db:"company_size"`
	Industry           string   `json:"industry" db:"industry"`
	CurrentChallenges  []string `json:"current_challenges" db:"-"`
	AutomationInterest []string `json:"automation_interest" db:"-"`
	CurrentTools       []string `json:"current_tools" db:"-"`
	BudgetRange        string   `json:"budget_range" db:"budget_range"`
	Timeline           string   `json:"timeline" db:"timeline"`
	Goals              string   `json:"goals" db:"goals"`
	AdditionalInfo     string   `json:"additional_info" db:"additional_info"`
}

// RawAnswers serializes an answer map for audit storage alongside the flat
// record columns.
func RawAnswers(a AnswerMap) (json.RawMessage, error) {
	return json.Marshal(a)
}

// Resource limits enforced at schema validation time.
const (
	// MaxStepsPerForm bounds schema size; assessment flows are short.
	MaxStepsPerForm = 32

	// MaxFieldsPerStep keeps a single page renderable and validation cheap.
	MaxFieldsPerStep = 64

	// MaxOptionsPerField bounds option lists for select-like fields.
	MaxOptionsPerField = 128

	// MaxRulesPerLogic bounds rule sets so visibility recompute stays within
	// a single UI event tick.
	MaxRulesPerLogic = 16

	// MaxUploadBytes is the ceiling for admin image uploads (5 MB).
	MaxUploadBytes = 5 * 1024 * 1024
)
