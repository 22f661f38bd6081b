// Package darknode implements the darknode identifier codec.
//
// A darknode is identified by a 20-byte Ethereum-style address. The same
// address travels in three textual forms:
//
//   - Hex: "0x" + 40 hex characters, EIP-55 checksum-cased. Used by the
//     Ethereum-facing contracts.
//   - Base58: the address wrapped in a keccak-256 multihash header
//     (0x1B code, 0x14 length) and base58-encoded with the Bitcoin
//     alphabet. Always 30 characters. Used for display and lookup keys.
//   - Network ID: the address followed by 12 zero bytes, as 43 characters
//     of sanitized base64. Used by the RenVM RPC layer.
//
// All conversions are pure functions and go through the ID value type, so
// every form round-trips losslessly through every other.
package darknode

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/multiformats/go-multihash"

	"github.com/renproject/darknode-command-center/pkg/encoding"
)

// Identifier layout constants.
const (
	AddressLength   = 20 // Raw address bytes
	NetworkIDBytes  = 32 // Address + zero padding
	NetworkIDLength = encoding.NetworkIDLength
	Base58Length    = 30 // Characters in a base58 ID

	// HeaderCode is the multihash function code prefixed to base58 IDs.
	HeaderCode = multihash.KECCAK_256

	headerLength = 2
	hexPrefix    = "0x"
)

// header is the two-byte multihash prefix of every base58 ID.
var header = []byte{byte(HeaderCode), AddressLength}

// ID is a darknode address.
type ID [AddressLength]byte

// ParseHex parses a 0x-prefixed hex address. Input in a single case is
// accepted as is; mixed-case input must be EIP-55 checksummed.
func ParseHex(s string) (ID, error) {
	var id ID

	if !strings.HasPrefix(s, hexPrefix) {
		return id, &InvalidIdentifierError{Input: s, Message: "missing 0x prefix"}
	}
	body := s[len(hexPrefix):]
	if len(body) != 2*AddressLength {
		return id, &InvalidIdentifierError{
			Input:   s,
			Message: fmt.Sprintf("expected %d hex characters, got %d", 2*AddressLength, len(body)),
		}
	}

	raw, err := hex.DecodeString(body)
	if err != nil {
		return id, &InvalidIdentifierError{Input: s, Message: "invalid hex", Cause: err}
	}
	copy(id[:], raw)

	if isMixedCase(body) {
		if checksummed := id.Hex(); checksummed != s {
			return ID{}, &ChecksumMismatchError{Input: s, Expected: checksummed, Actual: s}
		}
	}

	return id, nil
}

// ParseBase58 parses a base58 darknode ID.
func ParseBase58(s string) (ID, error) {
	var id ID

	if s == "" {
		return id, &InvalidIdentifierError{Input: s, Message: "empty base58 string"}
	}

	// base58.Decode returns an empty slice for characters outside the
	// alphabet
	decoded := base58.Decode(s)
	if len(decoded) == 0 {
		return id, &InvalidIdentifierError{Input: s, Message: "invalid base58"}
	}
	if len(decoded) != headerLength+AddressLength {
		return id, &InvalidIdentifierError{
			Input:   s,
			Message: fmt.Sprintf("expected %d decoded bytes, got %d", headerLength+AddressLength, len(decoded)),
		}
	}

	dm, err := multihash.Decode(decoded)
	if err != nil || dm.Code != HeaderCode || dm.Length != AddressLength {
		return id, &ChecksumMismatchError{
			Input:    s,
			Expected: hex.EncodeToString(header),
			Actual:   hex.EncodeToString(decoded[:headerLength]),
		}
	}

	copy(id[:], dm.Digest)
	return id, nil
}

// ParseNetworkID parses a 43-character network ID. The 12 padding bytes
// must be zero.
func ParseNetworkID(s string) (ID, error) {
	var id ID

	raw, err := encoding.DecodeBase64(s)
	if err != nil {
		return id, &InvalidIdentifierError{Input: s, Message: "invalid base64", Cause: err}
	}
	if len(raw) != NetworkIDBytes {
		return id, &InvalidIdentifierError{
			Input:   s,
			Message: fmt.Sprintf("expected %d bytes, got %d", NetworkIDBytes, len(raw)),
		}
	}
	if !bytes.Equal(raw[AddressLength:], make([]byte, NetworkIDBytes-AddressLength)) {
		return id, &InvalidIdentifierError{Input: s, Message: "non-zero padding"}
	}

	copy(id[:], raw[:AddressLength])
	return id, nil
}

// Parse accepts any of the three forms: 0x-prefixed input is hex,
// 43-character input is a network ID, anything else is base58.
func Parse(s string) (ID, error) {
	switch {
	case strings.HasPrefix(s, hexPrefix):
		return ParseHex(s)
	case len(s) == NetworkIDLength:
		return ParseNetworkID(s)
	default:
		return ParseBase58(s)
	}
}

// Hex returns the EIP-55 checksummed hex form.
func (id ID) Hex() string {
	return ethcommon.BytesToAddress(id[:]).Hex()
}

// Base58 returns the base58 form.
func (id ID) Base58() string {
	// Encode never fails: the error return is legacy
	mh, _ := multihash.Encode(id[:], HeaderCode)
	return base58.Encode(mh)
}

// NetworkID returns the 43-character network ID form.
func (id ID) NetworkID() string {
	buf := make([]byte, NetworkIDBytes)
	copy(buf, id[:])
	return encoding.ToURLBase64(buf)
}

// Bytes returns a copy of the raw address.
func (id ID) Bytes() []byte {
	return append([]byte(nil), id[:]...)
}

func (id ID) String() string {
	return id.Base58()
}

// MarshalText implements encoding.TextMarshaler using the base58 form.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.Base58()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler and accepts any form.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// HexToBase58 converts a hex address to its base58 ID.
func HexToBase58(s string) (string, error) {
	id, err := ParseHex(s)
	if err != nil {
		return "", err
	}
	return id.Base58(), nil
}

// Base58ToHex converts a base58 ID to its checksummed hex address.
func Base58ToHex(s string) (string, error) {
	id, err := ParseBase58(s)
	if err != nil {
		return "", err
	}
	return id.Hex(), nil
}

// Base58ToNetworkID converts a base58 ID to its network ID.
func Base58ToNetworkID(s string) (string, error) {
	id, err := ParseBase58(s)
	if err != nil {
		return "", err
	}
	return id.NetworkID(), nil
}

// NetworkIDToBase58 converts a network ID to its base58 ID.
func NetworkIDToBase58(s string) (string, error) {
	id, err := ParseNetworkID(s)
	if err != nil {
		return "", err
	}
	return id.Base58(), nil
}

func isMixedCase(s string) bool {
	return strings.ToLower(s) != s && strings.ToUpper(s) != s
}
