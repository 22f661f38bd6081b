// Package encoding implements the byte and string encodings shared by the
// darknode wire format.
//
// Byte data on the wire is carried as "sanitized" base64: the URL-safe
// alphabet (`-` and `_` instead of `+` and `/`) with trailing `=` padding
// removed. Decoders in this package accept both alphabets, padded or not,
// so values produced by older peers that still emit standard base64 are
// understood.
//
// Integers are carried as big-endian byte strings left-padded with zero
// bytes to a fixed width (32 bytes for every U256-sized quantity), and
// short labels are carried as base64 text right-padded with `A`, the
// base64 symbol for six zero bits.
package encoding

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

const (
	// NetworkIDLength is the length of a sanitized base64 string encoding
	// 32 bytes.
	NetworkIDLength = 43

	// labelPadding is the base64 symbol for a zero sextet.
	labelPadding = 'A'
)

// DecodeBase64 decodes standard or URL-safe base64, with or without
// trailing padding. Unused bits in the final symbol must be zero, so every
// byte string has exactly one accepted encoding per alphabet.
func DecodeBase64(s string) ([]byte, error) {
	// Normalise to the unpadded URL-safe alphabet first so a single
	// decoder handles every accepted form.
	normalised := Sanitize(s)

	decoded, err := base64.RawURLEncoding.Strict().DecodeString(normalised)
	if err != nil {
		return nil, &EncodingError{
			Message: fmt.Sprintf("invalid base64 %q", s),
			Cause:   errors.WithStack(err),
		}
	}
	return decoded, nil
}

// DecodeBase64OrPassthrough returns raw byte input unchanged and decodes
// string input as base64.
func DecodeBase64OrPassthrough(in interface{}) ([]byte, error) {
	switch v := in.(type) {
	case []byte:
		return v, nil
	case string:
		return DecodeBase64(v)
	default:
		return nil, &EncodingError{Message: fmt.Sprintf("expected bytes or base64 string, got %T", in)}
	}
}

// Sanitize converts a base64 string to the wire form: `+` becomes `-`,
// `/` becomes `_`, and trailing `=` padding is removed. Padding characters
// in the middle of the string are left alone.
func Sanitize(s string) string {
	s = strings.NewReplacer("+", "-", "/", "_").Replace(s)
	return strings.TrimRight(s, "=")
}

// ToURLBase64 encodes b as sanitized base64.
func ToURLBase64(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// LeftPad encodes n as a big-endian buffer of exactly size bytes and
// returns it as sanitized base64.
func LeftPad(n *uint256.Int, size int) (string, error) {
	buf, err := LeftPadBytes(n, size)
	if err != nil {
		return "", err
	}
	return ToURLBase64(buf), nil
}

// LeftPadBytes is LeftPad without the base64 step.
func LeftPadBytes(n *uint256.Int, size int) ([]byte, error) {
	if n == nil {
		return nil, &EncodingError{Message: "nil integer"}
	}
	if size < 0 {
		return nil, &EncodingError{Message: fmt.Sprintf("negative width %d", size)}
	}

	minimal := n.Bytes()
	if len(minimal) > size {
		return nil, &EncodingError{
			Message: fmt.Sprintf("integer needs %d bytes, exceeds width of %d", len(minimal), size),
		}
	}

	buf := make([]byte, size)
	copy(buf[size-len(minimal):], minimal)
	return buf, nil
}

// LeftPadDecimal is LeftPad for a decimal string.
func LeftPadDecimal(decimal string, size int) (string, error) {
	n, err := ParseDecimal(decimal)
	if err != nil {
		return "", err
	}
	return LeftPad(n, size)
}

// ParseDecimal parses an unsigned decimal integer of at most 256 bits.
//
// Only ASCII digits are accepted: signs, whitespace and underscores are
// rejected so that a single canonical text form exists for every value
// (leading zeros aside).
func ParseDecimal(decimal string) (*uint256.Int, error) {
	if decimal == "" {
		return nil, &EncodingError{Message: "empty decimal string"}
	}
	for i := 0; i < len(decimal); i++ {
		if decimal[i] < '0' || decimal[i] > '9' {
			return nil, &EncodingError{Message: fmt.Sprintf("invalid decimal %q", decimal)}
		}
	}

	n, err := uint256.FromDecimal(decimal)
	if err != nil {
		return nil, &EncodingError{
			Message: fmt.Sprintf("decimal %q exceeds 256 bits", decimal),
			Cause:   errors.WithStack(err),
		}
	}
	return n, nil
}

// PadString right-pads s with zero bytes to exactly size bytes.
func PadString(s string, size int) ([]byte, error) {
	if len(s) > size {
		return nil, &EncodingError{
			Message: fmt.Sprintf("string of %d bytes exceeds width of %d", len(s), size),
		}
	}

	buf := make([]byte, size)
	copy(buf, s)
	return buf, nil
}

// PadBase64Label right-pads a short label with `A` to NetworkIDLength
// characters, producing a base64 string that decodes to the label's bits
// followed by zero bits:
//
//	PadBase64Label("testnet") == "testnetAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
func PadBase64Label(label string) (string, error) {
	if len(label) > NetworkIDLength {
		return "", &EncodingError{
			Message: fmt.Sprintf("label of %d characters exceeds %d", len(label), NetworkIDLength),
		}
	}
	return label + strings.Repeat(string(labelPadding), NetworkIDLength-len(label)), nil
}

// Base64ToHex re-encodes base64 input as 0x-prefixed lower-case hex.
func Base64ToHex(s string) (string, error) {
	b, err := DecodeBase64(s)
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(b), nil
}
