// Package validate implements pure field validators for assessment answers.
//
// Every validator is a predicate over a primitive answer value: no side
// effects, and expected-invalid input (including an absent value) is a normal
// false result, never an error or panic.
package validate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/formward/formward/internal/types"
)

// EmailPattern is the exact shape accepted for email answers.
const EmailPattern = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`

var emailRe = regexp.MustCompile(EmailPattern)

// Required reports whether a value counts as answered.
// False for nil, all-whitespace strings, empty collections, and boolean
// false: an unchecked checkbox is unanswered, not an answer of "no".
func Required(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case []string:
		return len(v) > 0
	case []any:
		return len(v) > 0
	case bool:
		return v
	default:
		return true
	}
}

// Email reports whether s matches the accepted email shape.
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// Phone reports whether s is a plausible phone number: at least 6 digits and
// no characters outside digits, whitespace, parentheses, '+', '-'.
func Phone(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '(' || r == ')' || r == '+' || r == '-' || r == ' ' || r == '\t':
		default:
			return false
		}
	}
	return digits >= 6
}

// MaxChecked reports whether the selected count is within the limit.
func MaxChecked(selected []string, max int) bool {
	return len(selected) <= max
}

// FieldError is a user-correctable, field-scoped validation failure.
// Never fatal: it blocks step advancement only and is re-checked on the
// next input.
type FieldError struct {
	FieldID types.FieldID `json:"field"`
	Message string        `json:"message"`
}

func (e FieldError) Error() string {
	return string(e.FieldID) + ": " + e.Message
}

// Field runs the full validation set for one field against its current
// value: requiredness, type shape, and declared generic constraints.
// Returns nil when the value is acceptable.
func Field(f *types.FormField, value any) *FieldError {
	if !Required(value) {
		if f.Required {
			return &FieldError{FieldID: f.ID, Message: "this field is required"}
		}
		// Absent and optional: declared constraints do not apply.
		return nil
	}

	switch f.Type {
	case types.FieldEmail:
		s, ok := value.(string)
		if !ok || !Email(s) {
			return &FieldError{FieldID: f.ID, Message: "enter a valid email address"}
		}
	case types.FieldPhone:
		s, ok := value.(string)
		if !ok || !Phone(s) {
			return &FieldError{FieldID: f.ID, Message: "enter a valid phone number"}
		}
	}

	return constraints(f, value)
}

// constraints applies declared min/max/pattern generically.
// Min/Max mean value bounds for number fields, selected-count bounds for
// multi-value fields, and length bounds for text-like fields. The dispatch
// on field type is the only type awareness here.
func constraints(f *types.FormField, value any) *FieldError {
	v := f.Validation
	if v == nil {
		return nil
	}

	switch f.Type {
	case types.FieldNumber:
		n, ok := toNumber(value)
		if !ok {
			return &FieldError{FieldID: f.ID, Message: "enter a number"}
		}
		if v.Min != nil && n < *v.Min {
			return &FieldError{FieldID: f.ID, Message: "value is below the minimum"}
		}
		if v.Max != nil && n > *v.Max {
			return &FieldError{FieldID: f.ID, Message: "value is above the maximum"}
		}
	case types.FieldMultiSelect, types.FieldCheckboxGroup:
		sel := toStrings(value)
		if v.Min != nil && float64(len(sel)) < *v.Min {
			return &FieldError{FieldID: f.ID, Message: "select more options"}
		}
		if v.Max != nil && !MaxChecked(sel, int(*v.Max)) {
			return &FieldError{FieldID: f.ID, Message: "too many options selected"}
		}
	default:
		s, _ := value.(string)
		if v.Min != nil && len(strings.TrimSpace(s)) < int(*v.Min) {
			return &FieldError{FieldID: f.ID, Message: "answer is too short"}
		}
		if v.Max != nil && len(s) > int(*v.Max) {
			return &FieldError{FieldID: f.ID, Message: "answer is too long"}
		}
	}

	if v.Pattern != "" {
		s, ok := value.(string)
		if ok {
			re, err := regexp.Compile(v.Pattern)
			// An uncompilable pattern fails open: a broken schema must not
			// make a field impossible to answer.
			if err == nil && !re.MatchString(s) {
				return &FieldError{FieldID: f.ID, Message: "answer does not match the expected format"}
			}
		}
	}

	return nil
}

// toNumber converts an answer value to float64 for numeric checks.
// Accepts float64/int/int64 and numeric strings (trimmed).
func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		s := strings.TrimSpace(v)
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

// toStrings normalizes collection answers to []string.
func toStrings(value any) []string {
	switch v := value.(type) {
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
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}
