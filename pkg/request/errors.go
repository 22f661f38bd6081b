package request

import "fmt"

// InvalidRequestError is returned when request parameters are missing or
// malformed.
type InvalidRequestError struct {
	Field   string // Offending parameter
	Message string // Human-readable error message
	Cause   error  // Underlying error (if any)
}

func (e *InvalidRequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid request %s: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid request %s: %s", e.Field, e.Message)
}

func (e *InvalidRequestError) Unwrap() error {
	return e.Cause
}
