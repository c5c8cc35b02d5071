// Package logic implements the conditional show/hide evaluator.
//
// Evaluation is pure and synchronous: given a rule set and the current
// answer map it produces a visibility boolean within a single UI event tick.
// Malformed input never errors out of the evaluator; rules fail closed
// (non-matching), and a rule referencing a field that does not exist in the
// schema fails the whole rule set closed to "visible" so a broken stored
// schema can never permanently hide a form.
package logic

import (
	"strconv"
	"strings"

	"github.com/formward/formward/internal/types"
)

// KnownField reports whether a field id exists in the schema. Passing nil
// skips the dangling-reference check (used by tests and by schema
// validation, which guarantees references upfront).
type KnownField func(types.FieldID) bool

// Visible evaluates a conditional rule set against the answer map.
// nil logic or an empty rule set means unconditionally visible.
func Visible(lg *types.ConditionalLogic, answers types.AnswerMap, known KnownField) bool {
	if lg == nil || len(lg.Rules) == 0 {
		return true
	}

	if known != nil {
		for _, r := range lg.Rules {
			if !known(r.FieldID) {
				return true
			}
		}
	}

	matched := combine(lg, answers)

	if lg.Action == types.ActionHide {
		return !matched
	}
	return matched
}

// combine folds per-rule results with the declared combinator.
// and = all rules match, or = any rule matches. Short-circuits.
func combine(lg *types.ConditionalLogic, answers types.AnswerMap) bool {
	if lg.Operator == types.CombineOr {
		for _, r := range lg.Rules {
			if evalRule(r, answers) {
				return true
			}
		}
		return false
	}
	for _, r := range lg.Rules {
		if !evalRule(r, answers) {
			return false
		}
	}
	return true
}

// evalRule compares the referenced answer against the rule value.
func evalRule(r types.ConditionalRule, answers types.AnswerMap) bool {
	value := answers[r.FieldID]

	switch r.Operator {
	case types.OpEquals:
		return valuesEqual(value, r.Value)
	case types.OpNotEquals:
		return !valuesEqual(value, r.Value)
	case types.OpContains:
		ok, member := membership(value, r.Value)
		return ok && member
	case types.OpNotContains:
		// Defined only for collection answers; fails closed otherwise.
		ok, member := membership(value, r.Value)
		return ok && !member
	case types.OpGreaterThan:
		a, okA := toNumber(value)
		b, okB := toNumber(r.Value)
		return okA && okB && a > b
	case types.OpLessThan:
		a, okA := toNumber(value)
		b, okB := toNumber(r.Value)
		return okA && okB && a < b
	default:
		return false
	}
}

// valuesEqual is type-aware strict equality: when both sides coerce to
// numbers they compare numerically, otherwise both compare as strings.
// nil never equals a concrete value.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if na, okA := toNumber(a); okA {
		if nb, okB := toNumber(b); okB {
			return na == nb
		}
	}
	return stringify(a) == stringify(b)
}

// membership reports (isCollection, contains) for a collection answer.
func membership(value, needle any) (bool, bool) {
	target := stringify(needle)
	switch v := value.(type) {
	case []string:
		for _, e := range v {
			if e == target {
				return true, true
			}
		}
		return true, false
	case []any:
		for _, e := range v {
			if stringify(e) == target {
				return true, true
			}
		}
		return true, false
	default:
		return false, false
	}
}

// toNumber converts comparison operands to float64.
// Accepts JSON number types and trimmed numeric strings; everything else
// (booleans included) is not coercible.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// stringify renders scalar answer values for string comparison.
func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		if s {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return ""
	}
}
