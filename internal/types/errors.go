package types

import "errors"

// Sentinel errors for Formward operations.
var (
	// Schema integrity (builder-side; block save rather than persist broken schemas).

	// ErrDuplicateFieldID indicates two fields share an id anywhere in the schema.
	ErrDuplicateFieldID = errors.New("duplicate field id in schema")

	// ErrDuplicateStepID indicates two steps share an id.
	ErrDuplicateStepID = errors.New("duplicate step id in schema")

	// ErrUnknownFieldType indicates a field type outside the closed union.
	ErrUnknownFieldType = errors.New("unknown field type")

	// ErrUnknownOperator indicates a conditional rule with an unsupported operator.
	ErrUnknownOperator = errors.New("unknown conditional operator")

	// ErrDanglingRuleRef indicates a conditional rule referencing a field id
	// that does not exist in the schema.
	ErrDanglingRuleRef = errors.New("conditional rule references unknown field")

	// ErrRuleCycle indicates a conditional dependency cycle, including a rule
	// referencing its own field.
	ErrRuleCycle = errors.New("conditional rule dependency cycle")

	// ErrMissingOptions indicates an option-carrying field with no options.
	ErrMissingOptions = errors.New("field type requires options")

	// ErrSchemaTooLarge indicates a schema exceeding step/field/rule limits.
	ErrSchemaTooLarge = errors.New("schema exceeds size limits")

	// Runtime/session.

	// ErrSessionReadOnly indicates mutation of a session after successful submit.
	ErrSessionReadOnly = errors.New("session is read-only after successful submit")

	// ErrSubmitInFlight indicates a duplicate submit while one is in progress.
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrNotLastStep indicates submit attempted before the last visible step.
	ErrNotLastStep = errors.New("submit only allowed from last visible step")

	// ErrInvalidAnswers indicates submit attempted while the current step has
	// validation errors; Session.FieldErrors carries the per-field state.
	ErrInvalidAnswers = errors.New("current step has invalid answers")

	// ErrUnknownField indicates an answer for a field id not in the schema.
	ErrUnknownField = errors.New("unknown field id")

	// Submission handler taxonomy.

	// ErrMissingRequiredField indicates absent identity fields at submit time.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidEmail indicates a malformed contact email.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidPhone indicates a malformed contact phone number.
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrPersistenceFailure wraps storage collaborator errors; never thrown
	// past the submission boundary.
	ErrPersistenceFailure = errors.New("persistence failure")

	// Storage.

	// ErrFormNotFound indicates no form exists for the given key.
	ErrFormNotFound = errors.New("form not found")

	// ErrFormKeyTaken indicates a create with an already-used form key.
	ErrFormKeyTaken = errors.New("form key already taken")

	// ErrNotPublished indicates the form has no published schema version.
	ErrNotPublished = errors.New("form has no published version")

	// ErrVersionConflict indicates an optimistic draft-version check failed
	// (concurrent admin edit).
	ErrVersionConflict = errors.New("draft version conflict")

	// ErrDuplicateSubmission indicates a unique-key violation; callers treat
	// it as already-exists rather than failure.
	ErrDuplicateSubmission = errors.New("submission already exists")
)
