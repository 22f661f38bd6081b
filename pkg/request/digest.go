// Package request builds and signs darknode operator requests such as fee
// claims.
//
// The digest scheme below is defined by this package. It is built from the
// digest package primitives but has not been checked against RenVM's own
// request hashing, so signatures produced here verify with VerifyClaimFees
// and are not guaranteed to be accepted by a RenVM node.
//
// Every request is a Pack struct. Its digest is computed over the canonical
// wire form of the value, so two values that marshal to the same wire
// value always share a digest:
//
//	string           FromUTF8String(s)
//	bytes, bytes32.. FromBase64String(b64)
//	u8 .. u256       FromBase64String(LeftPad(n, 32))
//	bool             digest of the single byte 0x00 or 0x01
//	nil              digest of the empty input
//	list, struct     Fold of the element or field digests, in order
//
// The request digest mixes in the network selector with Chained, so a
// request signed for one network does not verify on another.
package request

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/renproject/darknode-command-center/pkg/digest"
	"github.com/renproject/darknode-command-center/pkg/encoding"
	"github.com/renproject/darknode-command-center/pkg/pack"
)

// integerWidth is the padded width of integers in digests.
const integerWidth = 32

// Digest returns the canonical digest of a native Pack value, marshalling
// it with the default codec first.
func Digest(t pack.Type, native interface{}) (string, error) {
	return DigestWithCodec(pack.Codec{}, t, native)
}

// DigestWithCodec is Digest with an explicit codec.
func DigestWithCodec(codec pack.Codec, t pack.Type, native interface{}) (string, error) {
	wire, err := codec.Marshal(t, native)
	if err != nil {
		return "", err
	}
	return DigestWire(t, wire)
}

// DigestWire returns the digest of a value already in canonical wire form,
// as produced by pack.Marshal.
func DigestWire(t pack.Type, wire interface{}) (string, error) {
	switch tt := t.(type) {
	case pack.NilType:
		return digest.FromBytes(nil), nil

	case pack.ListType:
		elems, ok := wire.([]interface{})
		if !ok {
			return "", errors.Errorf("digest: expected list for %v, got %T", tt, wire)
		}
		parts := make([]string, len(elems))
		for i, elem := range elems {
			d, err := DigestWire(tt.Elem, elem)
			if err != nil {
				return "", err
			}
			parts[i] = d
		}
		return digest.Fold(parts...)

	case pack.StructType:
		obj, ok := wire.(pack.Object)
		if !ok {
			return "", errors.Errorf("digest: expected object for %v, got %T", tt, wire)
		}
		parts := make([]string, 0, len(tt.Fields))
		for _, f := range tt.Fields {
			v, ok := obj.Get(f.Name)
			if !ok {
				return "", &pack.MissingFieldError{Field: f.Name}
			}
			d, err := DigestWire(f.Type, v)
			if err != nil {
				return "", err
			}
			parts = append(parts, d)
		}
		return digest.Fold(parts...)

	case pack.Primitive:
		return digestPrimitive(tt, wire)

	default:
		return "", &pack.UnknownTypeError{Tag: fmt.Sprintf("%T", t)}
	}
}

func digestPrimitive(p pack.Primitive, wire interface{}) (string, error) {
	switch {
	case p == pack.Bool:
		b, ok := wire.(bool)
		if !ok {
			return "", errors.Errorf("digest: expected bool, got %T", wire)
		}
		if b {
			return digest.FromBytes([]byte{1}), nil
		}
		return digest.FromBytes([]byte{0}), nil

	case p == pack.Str:
		s, ok := wire.(string)
		if !ok {
			return "", errors.Errorf("digest: expected string, got %T", wire)
		}
		return digest.FromUTF8String(s), nil

	case p.IsInteger():
		s, ok := wire.(string)
		if !ok {
			return "", errors.Errorf("digest: expected decimal string, got %T", wire)
		}
		padded, err := encoding.LeftPadDecimal(s, integerWidth)
		if err != nil {
			return "", err
		}
		return digest.FromBase64String(padded)

	case p.IsBytes():
		s, ok := wire.(string)
		if !ok {
			return "", errors.Errorf("digest: expected base64 string, got %T", wire)
		}
		return digest.FromBase64String(s)

	default:
		return "", &pack.UnknownTypeError{Tag: p.String()}
	}
}
