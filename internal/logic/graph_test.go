package logic

import (
	"errors"
	"testing"

	"github.com/formward/formward/internal/types"
)

func fieldWithRules(id types.FieldID, refs ...types.FieldID) types.FormField {
	f := types.FormField{ID: id, Type: types.FieldText, Label: string(id)}
	if len(refs) == 0 {
		return f
	}
	lg := &types.ConditionalLogic{Action: types.ActionShow, Operator: types.CombineAnd}
	for _, ref := range refs {
		lg.Rules = append(lg.Rules, types.ConditionalRule{FieldID: ref, Operator: types.OpEquals, Value: "x"})
	}
	f.Logic = lg
	return f
}

func schemaOf(fields ...types.FormField) *types.FormSchema {
	return &types.FormSchema{Steps: []types.FormStep{{ID: "s1", Title: "Step", Fields: fields}}}
}

func TestDetectCycles(t *testing.T) {
	tests := []struct {
		name    string
		schema  *types.FormSchema
		wantErr bool
	}{
		{
			name:    "no logic",
			schema:  schemaOf(fieldWithRules("a"), fieldWithRules("b")),
			wantErr: false,
		},
		{
			name:    "linear chain",
			schema:  schemaOf(fieldWithRules("a"), fieldWithRules("b", "a"), fieldWithRules("c", "b")),
			wantErr: false,
		},
		{
			name:    "diamond is not a cycle",
			schema:  schemaOf(fieldWithRules("a"), fieldWithRules("b", "a"), fieldWithRules("c", "a"), fieldWithRules("d", "b", "c")),
			wantErr: false,
		},
		{
			name:    "self reference",
			schema:  schemaOf(fieldWithRules("a", "a")),
			wantErr: true,
		},
		{
			name:    "two-field cycle",
			schema:  schemaOf(fieldWithRules("a", "b"), fieldWithRules("b", "a")),
			wantErr: true,
		},
		{
			name:    "longer cycle",
			schema:  schemaOf(fieldWithRules("a", "b"), fieldWithRules("b", "c"), fieldWithRules("c", "a")),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DetectCycles(tt.schema)
			if tt.wantErr {
				if !errors.Is(err, types.ErrRuleCycle) {
					t.Errorf("DetectCycles() error = %v, want ErrRuleCycle", err)
				}
				return
			}
			if err != nil {
				t.Errorf("DetectCycles() error = %v, want nil", err)
			}
		})
	}
}

func TestDependents(t *testing.T) {
	schema := schemaOf(
		fieldWithRules("industry"),
		fieldWithRules("retail_detail", "industry"),
		fieldWithRules("tech_detail", "industry"),
		fieldWithRules("unrelated"),
	)

	deps := Dependents(schema, "industry")
	if len(deps) != 2 {
		t.Fatalf("Dependents(industry) = %v, want 2 entries", deps)
	}
	seen := map[types.FieldID]bool{}
	for _, d := range deps {
		seen[d] = true
	}
	if !seen["retail_detail"] || !seen["tech_detail"] {
		t.Errorf("Dependents(industry) = %v, want retail_detail and tech_detail", deps)
	}

	if got := Dependents(schema, "unrelated"); len(got) != 0 {
		t.Errorf("Dependents(unrelated) = %v, want none", got)
	}
}
