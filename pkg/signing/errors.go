package signing

import "fmt"

// SignatureError is returned for malformed keys, digests and signatures,
// and for signatures from which no public key can be recovered.
type SignatureError struct {
	Message string // Human-readable error message
	Cause   error  // Underlying error (if any)
}

func (e *SignatureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("signature error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("signature error: %s", e.Message)
}

func (e *SignatureError) Unwrap() error {
	return e.Cause
}
