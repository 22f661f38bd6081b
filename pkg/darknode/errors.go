package darknode

import "fmt"

// InvalidIdentifierError is returned when an identifier string is not
// well-formed in the form it claims to be (bad prefix, bad length, bad
// alphabet, bad padding).
type InvalidIdentifierError struct {
	Input   string // Offending input
	Message string // Human-readable error message
	Cause   error  // Underlying decode error (if any)
}

func (e *InvalidIdentifierError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid darknode identifier %q: %s: %v", e.Input, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid darknode identifier %q: %s", e.Input, e.Message)
}

func (e *InvalidIdentifierError) Unwrap() error {
	return e.Cause
}

// ChecksumMismatchError is returned when an identifier is well-formed but
// its integrity data does not match: the multihash header of a base58 ID,
// or the EIP-55 casing of a hex address.
type ChecksumMismatchError struct {
	Input    string // Offending input
	Expected string // Expected header or checksummed form
	Actual   string // Header or casing found in the input
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("darknode identifier %q checksum mismatch: expected %s, got %s", e.Input, e.Expected, e.Actual)
}
