package encoding

import "fmt"

// EncodingError is returned when a value does not fit the fixed-width
// encoding it is being written into, or when encoded input is malformed.
type EncodingError struct {
	Message string // Human-readable error message
	Cause   error  // Underlying decode error (if any)
}

func (e *EncodingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("encoding error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("encoding error: %s", e.Message)
}

func (e *EncodingError) Unwrap() error {
	return e.Cause
}
