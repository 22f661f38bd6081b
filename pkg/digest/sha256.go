// Package digest implements the SHA-256 helpers used to derive request
// digests from wire-encoded values.
//
// Every digest is surfaced as sanitized base64 (see package encoding), the
// form in which it is carried on the wire and handed to signers. Inputs
// given as base64 are decoded before hashing, so a digest always commits
// to raw bytes rather than to one textual rendering of them.
//
// Chained digests hash the concatenation of two decoded inputs. The
// combinator is not commutative: callers must pass operands in the order
// the protocol defines.
package digest

import (
	sha256 "github.com/minio/sha256-simd"

	"github.com/renproject/darknode-command-center/pkg/encoding"
)

// Size is the length of a raw digest.
const Size = sha256.Size

// Sum256 returns the SHA-256 digest of b.
func Sum256(b []byte) [Size]byte {
	return sha256.Sum256(b)
}

// FromBytes returns the sanitized base64 SHA-256 digest of b.
func FromBytes(b []byte) string {
	sum := Sum256(b)
	return encoding.ToURLBase64(sum[:])
}

// FromUTF8String returns the sanitized base64 SHA-256 digest of the UTF-8
// bytes of s.
func FromUTF8String(s string) string {
	return FromBytes([]byte(s))
}

// FromBase64String returns the sanitized base64 SHA-256 digest of the
// bytes encoded by b64. Standard and URL-safe input are both accepted.
func FromBase64String(b64 string) (string, error) {
	raw, err := encoding.DecodeBase64(b64)
	if err != nil {
		return "", err
	}
	return FromBytes(raw), nil
}

// Chained returns SHA-256(decode(a) || decode(b)) as sanitized base64.
func Chained(a, b string) (string, error) {
	rawA, err := encoding.DecodeBase64(a)
	if err != nil {
		return "", err
	}
	rawB, err := encoding.DecodeBase64(b)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write(rawA)
	h.Write(rawB)
	return encoding.ToURLBase64(h.Sum(nil)), nil
}

// Fold reduces parts from the left with Chained:
//
//	Fold(a, b, c) == Chained(Chained(a, b), c)
//
// A single part is hashed on its own and an empty fold is the digest of
// the empty input, so every fold yields a full-length digest.
func Fold(parts ...string) (string, error) {
	switch len(parts) {
	case 0:
		return FromBytes(nil), nil
	case 1:
		return FromBase64String(parts[0])
	}

	acc, err := Chained(parts[0], parts[1])
	if err != nil {
		return "", err
	}
	for _, part := range parts[2:] {
		if acc, err = Chained(acc, part); err != nil {
			return "", err
		}
	}
	return acc, nil
}
