// Package schema validates and normalizes form schemas.
//
// Integrity is enforced at save time rather than render time: the builder
// blocks persistence of a schema that fails Validate, so the runtime never
// has to special-case duplicate ids, unknown field types, dangling rule
// references, or rule cycles.
package schema

import (
	"fmt"
	"sort"

	"github.com/formward/formward/internal/logic"
	"github.com/formward/formward/internal/types"
)

// Validate checks structural integrity of a schema draft.
// Returns the first violation as a wrapped sentinel from internal/types.
func Validate(s *types.FormSchema) error {
	if len(s.Steps) > types.MaxStepsPerForm {
		return fmt.Errorf("%w: %d steps (max %d)", types.ErrSchemaTooLarge, len(s.Steps), types.MaxStepsPerForm)
	}

	stepIDs := make(map[types.StepID]bool, len(s.Steps))
	fieldIDs := make(map[types.FieldID]bool)

	for si := range s.Steps {
		step := &s.Steps[si]
		if stepIDs[step.ID] {
			return fmt.Errorf("%w: %q", types.ErrDuplicateStepID, step.ID)
		}
		stepIDs[step.ID] = true

		if len(step.Fields) > types.MaxFieldsPerStep {
			return fmt.Errorf("%w: step %q has %d fields (max %d)", types.ErrSchemaTooLarge, step.ID, len(step.Fields), types.MaxFieldsPerStep)
		}

		for fi := range step.Fields {
			f := &step.Fields[fi]
			if fieldIDs[f.ID] {
				return fmt.Errorf("%w: %q", types.ErrDuplicateFieldID, f.ID)
			}
			fieldIDs[f.ID] = true

			if !types.KnownFieldType(f.Type) {
				return fmt.Errorf("%w: %q on field %q", types.ErrUnknownFieldType, f.Type, f.ID)
			}
			if f.Type.HasOptions() && len(f.Options) == 0 {
				return fmt.Errorf("%w: field %q of type %q", types.ErrMissingOptions, f.ID, f.Type)
			}
			if len(f.Options) > types.MaxOptionsPerField {
				return fmt.Errorf("%w: field %q has %d options (max %d)", types.ErrSchemaTooLarge, f.ID, len(f.Options), types.MaxOptionsPerField)
			}
		}
	}

	// Rule references resolve against the full field set: conditional logic
	// may reach across sections.
	for si := range s.Steps {
		step := &s.Steps[si]
		if err := checkLogic(step.Logic, "", fieldIDs); err != nil {
			return fmt.Errorf("step %q: %w", step.ID, err)
		}
		for fi := range step.Fields {
			f := &step.Fields[fi]
			if err := checkLogic(f.Logic, f.ID, fieldIDs); err != nil {
				return fmt.Errorf("field %q: %w", f.ID, err)
			}
		}
	}

	return logic.DetectCycles(s)
}

// checkLogic validates a single rule set: known operators, resolvable
// references, and no direct self-reference. owner is empty for step-level
// logic. Longer cycles are caught by logic.DetectCycles.
func checkLogic(lg *types.ConditionalLogic, owner types.FieldID, known map[types.FieldID]bool) error {
	if lg == nil {
		return nil
	}
	if len(lg.Rules) > types.MaxRulesPerLogic {
		return fmt.Errorf("%w: %d rules (max %d)", types.ErrSchemaTooLarge, len(lg.Rules), types.MaxRulesPerLogic)
	}
	for _, r := range lg.Rules {
		if !types.KnownRuleOperator(r.Operator) {
			return fmt.Errorf("%w: %q", types.ErrUnknownOperator, r.Operator)
		}
		if !known[r.FieldID] {
			return fmt.Errorf("%w: %q", types.ErrDanglingRuleRef, r.FieldID)
		}
		if owner != "" && r.FieldID == owner {
			return fmt.Errorf("%w: field %q references itself", types.ErrRuleCycle, owner)
		}
	}
	return nil
}

// Normalize sorts steps and fields by their order values and rewrites the
// values to a contiguous 0..n-1 sequence. Stable sort preserves relative
// position of entries that share an order value (fresh inserts).
func Normalize(s *types.FormSchema) {
	sort.SliceStable(s.Steps, func(i, j int) bool {
		return s.Steps[i].Order < s.Steps[j].Order
	})
	for si := range s.Steps {
		s.Steps[si].Order = si
		fields := s.Steps[si].Fields
		sort.SliceStable(fields, func(i, j int) bool {
			return fields[i].Order < fields[j].Order
		})
		for fi := range fields {
			fields[fi].Order = fi
		}
	}
}

// Defaults returns an initial answer map seeded from field default values.
func Defaults(s *types.FormSchema) types.AnswerMap {
	answers := make(types.AnswerMap)
	for si := range s.Steps {
		for fi := range s.Steps[si].Fields {
			f := &s.Steps[si].Fields[fi]
			if f.DefaultValue != nil {
				answers[f.ID] = f.DefaultValue
			}
		}
	}
	return answers
}

// DefaultValidation returns the validation block a freshly added question
// of the given type starts with in the builder.
func DefaultValidation(t types.FieldType) *types.FieldValidation {
	switch t {
	case types.FieldText:
		max := 255.0
		return &types.FieldValidation{Max: &max}
	case types.FieldTextarea:
		max := 5000.0
		return &types.FieldValidation{Max: &max}
	case types.FieldMultiSelect, types.FieldCheckboxGroup:
		max := 10.0
		return &types.FieldValidation{Max: &max}
	default:
		return nil
	}
}
