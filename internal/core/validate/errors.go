package validate

import "errors"

var (
	ErrInvalidSyntax   = errors.New("completion is not valid JSON")
	ErrSchemaViolation = errors.New("filter does not match the movie schema")
)

// Error is a rejected completion. Raw is kept for server-side logs only and
// must never be returned to callers.
type Error struct {
	Kind   error
	Raw    string
	Reason string
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Reason
}

func (e *Error) Unwrap() error { return e.Kind }
