package pack

import (
	"fmt"

	"github.com/renproject/darknode-command-center/pkg/encoding"
)

// Error types returned by the Pack codec.
//
// Every error carries the path of the offending value within the enclosing
// structure ("fees[2].amount"), with the empty path denoting the root. A
// failure anywhere aborts the whole decode or encode: there is no partial
// result.

// EncodingError is returned when an integer or byte string does not fit
// the fixed width declared by its type. It is always wrapped in a
// ValueError that carries the path.
type EncodingError = encoding.EncodingError

// SchemaError is returned when a type definition is malformed: a struct
// field entry with zero or several keys, an empty or duplicate field name,
// or a definition that is neither a tag nor an object.
type SchemaError struct {
	Path    string // Location of the malformed definition
	Message string // Human-readable error message
	Cause   error  // Underlying JSON error (if any)
}

func (e *SchemaError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pack schema error at %s: %s: %v", displayPath(e.Path), e.Message, e.Cause)
	}
	return fmt.Sprintf("pack schema error at %s: %s", displayPath(e.Path), e.Message)
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// MissingFieldError is returned when a struct value lacks a field its type
// declares.
type MissingFieldError struct {
	Path  string // Location of the struct value
	Field string // Name of the missing field
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("pack value at %s: missing field %q", displayPath(e.Path), e.Field)
}

// UnknownTypeError is returned for a type tag outside the closed set of
// Pack types. Types built in Go can only hit this through a nil Type or an
// out-of-range Primitive; wire definitions hit it through unknown tags.
type UnknownTypeError struct {
	Path string // Location of the type
	Tag  string // Offending tag
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("pack type at %s: unknown type %q", displayPath(e.Path), e.Tag)
}

// DepthExceededError is returned when nesting goes deeper than the codec's
// MaxDepth.
type DepthExceededError struct {
	Path     string // Location where the limit was crossed
	MaxDepth int    // Configured limit
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("pack value at %s: nesting exceeds maximum depth %d", displayPath(e.Path), e.MaxDepth)
}

// ValueError is returned when a value does not match the shape of its
// type: a string where a list is declared, a number that is not a decimal
// string, a byte string of the wrong length.
type ValueError struct {
	Path    string // Location of the value
	Type    string // Declared type
	Message string // Human-readable error message
	Cause   error  // Underlying error (if any)
}

func (e *ValueError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pack value at %s (%s): %s: %v", displayPath(e.Path), e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("pack value at %s (%s): %s", displayPath(e.Path), e.Type, e.Message)
}

func (e *ValueError) Unwrap() error {
	return e.Cause
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}

func fieldPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
