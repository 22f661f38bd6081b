// Package signing implements the secp256k1 signatures darknode operators
// attach to fee claims.
//
// Claims are signed the way an Ethereum wallet signs with personal_sign:
// the message is prefixed with "\x19Ethereum Signed Message:\n" and its
// decimal length, hashed with Keccak-256, and signed with a recoverable
// ECDSA signature.
//
// Key formats:
//   - Private keys: raw 32 bytes, or 64 hex characters with optional 0x
//   - Addresses: last 20 bytes of Keccak-256 over the uncompressed public
//     key without its 0x04 prefix, returned as a darknode.ID
//   - Signatures: 65 bytes, r || s || v with v in {27, 28}, travelling as
//     sanitized base64
package signing

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"

	"github.com/renproject/darknode-command-center/pkg/darknode"
	"github.com/renproject/darknode-command-center/pkg/encoding"
)

const (
	// SignatureLength is the size of an r || s || v signature.
	SignatureLength = 65

	// DigestLength is the size of a signable digest.
	DigestLength = 32

	privateKeyLength = 32
	recoveryBase     = 27
	messagePrefix    = "\x19Ethereum Signed Message:\n"
)

// PrivateKey wraps a secp256k1 private key
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// PublicKey wraps a secp256k1 public key
type PublicKey struct {
	key *secp256k1.PublicKey
}

// GenerateKey creates a random private key
func GenerateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, &SignatureError{Message: "failed to generate key", Cause: err}
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes creates a private key from raw bytes
func PrivateKeyFromBytes(keyBytes []byte) (*PrivateKey, error) {
	if len(keyBytes) != privateKeyLength {
		return nil, &SignatureError{
			Message: fmt.Sprintf("private key must be %d bytes, got %d", privateKeyLength, len(keyBytes)),
		}
	}

	key := secp256k1.PrivKeyFromBytes(keyBytes)
	if key.Key.IsZero() {
		return nil, &SignatureError{Message: "private key is zero modulo the curve order"}
	}
	return &PrivateKey{key: key}, nil
}

// ParsePrivateKeyHex parses a hex private key, with or without 0x
func ParsePrivateKeyHex(s string) (*PrivateKey, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, &SignatureError{Message: "invalid private key hex", Cause: err}
	}
	return PrivateKeyFromBytes(raw)
}

// PublicKey derives the public key
func (pk *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{key: pk.key.PubKey()}
}

// Address returns the address of the key's public key
func (pk *PrivateKey) Address() darknode.ID {
	return pk.PublicKey().Address()
}

// Bytes returns the raw 32-byte private key
func (pk *PrivateKey) Bytes() []byte {
	return pk.key.Serialize()
}

// SignMessage signs msg with the personal message prefix
func (pk *PrivateKey) SignMessage(msg []byte) [SignatureLength]byte {
	hash := MessageHash(msg)

	// SignCompact returns v || r || s with v = 27 + recovery id for
	// uncompressed keys
	compact := ecdsa.SignCompact(pk.key, hash[:], false)

	var sig [SignatureLength]byte
	copy(sig[:64], compact[1:])
	sig[64] = compact[0]
	return sig
}

// SignDigest signs a base64 digest and returns the signature as sanitized
// base64. The digest must decode to 32 bytes.
func (pk *PrivateKey) SignDigest(b64Digest string) (string, error) {
	digest, err := decodeDigest(b64Digest)
	if err != nil {
		return "", err
	}
	sig := pk.SignMessage(digest)
	return encoding.ToURLBase64(sig[:]), nil
}

// Bytes returns the 65-byte uncompressed public key
func (pub *PublicKey) Bytes() []byte {
	return pub.key.SerializeUncompressed()
}

// Address returns the Ethereum-style address of the public key
func (pub *PublicKey) Address() darknode.ID {
	uncompressed := pub.key.SerializeUncompressed()
	hash := Keccak256(uncompressed[1:])

	var id darknode.ID
	copy(id[:], hash[len(hash)-darknode.AddressLength:])
	return id
}

// RecoverMessageSigner returns the address that produced sig over msg.
// A recovery byte of 0 or 1 is accepted in place of 27 or 28.
func RecoverMessageSigner(msg []byte, sig []byte) (darknode.ID, error) {
	if len(sig) != SignatureLength {
		return darknode.ID{}, &SignatureError{
			Message: fmt.Sprintf("signature must be %d bytes, got %d", SignatureLength, len(sig)),
		}
	}

	v := sig[64]
	if v < recoveryBase {
		v += recoveryBase
	}
	if v != recoveryBase && v != recoveryBase+1 {
		return darknode.ID{}, &SignatureError{Message: fmt.Sprintf("invalid recovery byte %d", sig[64])}
	}

	compact := make([]byte, SignatureLength)
	compact[0] = v
	copy(compact[1:], sig[:64])

	hash := MessageHash(msg)
	pub, _, err := ecdsa.RecoverCompact(compact, hash[:])
	if err != nil {
		return darknode.ID{}, &SignatureError{Message: "failed to recover public key", Cause: err}
	}
	return (&PublicKey{key: pub}).Address(), nil
}

// RecoverSigner is RecoverMessageSigner for a base64 digest and signature
func RecoverSigner(b64Digest, b64Sig string) (darknode.ID, error) {
	digest, err := decodeDigest(b64Digest)
	if err != nil {
		return darknode.ID{}, err
	}
	sig, err := encoding.DecodeBase64(b64Sig)
	if err != nil {
		return darknode.ID{}, &SignatureError{Message: "invalid signature encoding", Cause: err}
	}
	return RecoverMessageSigner(digest, sig)
}

// MessageHash returns Keccak-256 of msg behind the personal message prefix
func MessageHash(msg []byte) [32]byte {
	return Keccak256([]byte(messagePrefix), []byte(strconv.Itoa(len(msg))), msg)
}

// Keccak256 hashes the concatenation of data with legacy Keccak-256
func Keccak256(data ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}

	var out [32]byte
	h.Sum(out[:0])
	return out
}

func decodeDigest(b64Digest string) ([]byte, error) {
	digest, err := encoding.DecodeBase64(b64Digest)
	if err != nil {
		return nil, &SignatureError{Message: "invalid digest encoding", Cause: err}
	}
	if len(digest) != DigestLength {
		return nil, &SignatureError{
			Message: fmt.Sprintf("digest must be %d bytes, got %d", DigestLength, len(digest)),
		}
	}
	return digest, nil
}
