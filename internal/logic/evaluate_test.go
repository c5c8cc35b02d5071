package logic

import (
	"testing"

	"github.com/formward/formward/internal/types"
)

func show(op types.LogicCombinator, rules ...types.ConditionalRule) *types.ConditionalLogic {
	return &types.ConditionalLogic{Action: types.ActionShow, Operator: op, Rules: rules}
}

func TestVisible_Equals(t *testing.T) {
	lg := show(types.CombineAnd, types.ConditionalRule{FieldID: "industry", Operator: types.OpEquals, Value: "retail"})

	if !Visible(lg, types.AnswerMap{"industry": "retail"}, nil) {
		t.Error("Visible(industry=retail) = false, want true")
	}
	if Visible(lg, types.AnswerMap{"industry": "tech"}, nil) {
		t.Error("Visible(industry=tech) = true, want false")
	}
	if Visible(lg, types.AnswerMap{}, nil) {
		t.Error("Visible(unanswered) = true, want false")
	}
}

func TestVisible_Operators(t *testing.T) {
	tests := []struct {
		name    string
		rule    types.ConditionalRule
		answers types.AnswerMap
		want    bool
	}{
		{
			name:    "not_equals with different value",
			rule:    types.ConditionalRule{FieldID: "size", Operator: types.OpNotEquals, Value: "1-10"},
			answers: types.AnswerMap{"size": "50-100"},
			want:    true,
		},
		{
			name:    "not_equals with unanswered field",
			rule:    types.ConditionalRule{FieldID: "size", Operator: types.OpNotEquals, Value: "1-10"},
			answers: types.AnswerMap{},
			want:    true,
		},
		{
			name:    "equals compares numerically across representations",
			rule:    types.ConditionalRule{FieldID: "seats", Operator: types.OpEquals, Value: float64(10)},
			answers: types.AnswerMap{"seats": "10.0"},
			want:    true,
		},
		{
			name:    "contains on collection member",
			rule:    types.ConditionalRule{FieldID: "tools", Operator: types.OpContains, Value: "crm"},
			answers: types.AnswerMap{"tools": []string{"crm", "erp"}},
			want:    true,
		},
		{
			name:    "contains on collection non-member",
			rule:    types.ConditionalRule{FieldID: "tools", Operator: types.OpContains, Value: "sheets"},
			answers: types.AnswerMap{"tools": []string{"crm"}},
			want:    false,
		},
		{
			name:    "contains on scalar fails closed",
			rule:    types.ConditionalRule{FieldID: "tools", Operator: types.OpContains, Value: "crm"},
			answers: types.AnswerMap{"tools": "crm"},
			want:    false,
		},
		{
			name:    "not_contains on collection without member",
			rule:    types.ConditionalRule{FieldID: "tools", Operator: types.OpNotContains, Value: "sheets"},
			answers: types.AnswerMap{"tools": []string{"crm"}},
			want:    true,
		},
		{
			name:    "not_contains on scalar fails closed",
			rule:    types.ConditionalRule{FieldID: "tools", Operator: types.OpNotContains, Value: "sheets"},
			answers: types.AnswerMap{"tools": "crm"},
			want:    false,
		},
		{
			name:    "greater_than numeric strings",
			rule:    types.ConditionalRule{FieldID: "budget", Operator: types.OpGreaterThan, Value: "5000"},
			answers: types.AnswerMap{"budget": "7500"},
			want:    true,
		},
		{
			name:    "greater_than non-coercible fails closed",
			rule:    types.ConditionalRule{FieldID: "budget", Operator: types.OpGreaterThan, Value: "5000"},
			answers: types.AnswerMap{"budget": "a lot"},
			want:    false,
		},
		{
			name:    "less_than with missing answer fails closed",
			rule:    types.ConditionalRule{FieldID: "budget", Operator: types.OpLessThan, Value: float64(100)},
			answers: types.AnswerMap{},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg := show(types.CombineAnd, tt.rule)
			if got := Visible(lg, tt.answers, nil); got != tt.want {
				t.Errorf("Visible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisible_Combinators(t *testing.T) {
	r1 := types.ConditionalRule{FieldID: "industry", Operator: types.OpEquals, Value: "retail"}
	r2 := types.ConditionalRule{FieldID: "size", Operator: types.OpEquals, Value: "50-100"}

	answers := types.AnswerMap{"industry": "retail", "size": "1-10"}

	if Visible(show(types.CombineAnd, r1, r2), answers, nil) {
		t.Error("and with one failing rule = true, want false")
	}
	if !Visible(show(types.CombineOr, r1, r2), answers, nil) {
		t.Error("or with one passing rule = false, want true")
	}
}

func TestVisible_HideInverts(t *testing.T) {
	lg := &types.ConditionalLogic{
		Action:   types.ActionHide,
		Operator: types.CombineAnd,
		Rules:    []types.ConditionalRule{{FieldID: "industry", Operator: types.OpEquals, Value: "retail"}},
	}

	if Visible(lg, types.AnswerMap{"industry": "retail"}, nil) {
		t.Error("hide with matching rule = visible, want hidden")
	}
	if !Visible(lg, types.AnswerMap{"industry": "tech"}, nil) {
		t.Error("hide with non-matching rule = hidden, want visible")
	}
}

func TestVisible_EmptyAndNilLogic(t *testing.T) {
	if !Visible(nil, types.AnswerMap{}, nil) {
		t.Error("nil logic = hidden, want visible")
	}
	if !Visible(&types.ConditionalLogic{Action: types.ActionShow, Operator: types.CombineAnd}, types.AnswerMap{}, nil) {
		t.Error("empty rule set = hidden, want visible")
	}
}

func TestVisible_DanglingReferenceFailsClosedToVisible(t *testing.T) {
	lg := show(types.CombineAnd, types.ConditionalRule{FieldID: "ghost", Operator: types.OpEquals, Value: "x"})
	known := func(id types.FieldID) bool { return id == "industry" }

	if !Visible(lg, types.AnswerMap{}, known) {
		t.Error("dangling reference = hidden, want visible (fail closed to visible)")
	}

	// Same rule set without the known-field check evaluates normally.
	if Visible(lg, types.AnswerMap{}, nil) {
		t.Error("unanswered equals rule = visible, want hidden")
	}
}
