// Package pack implements Pack, the typed value format exchanged with the
// RenVM RPC layer.
//
// Every value on the wire travels with its type as a `{t, v}` pair:
//
//	{"t": {"struct": [{"amount": "u256"}, {"to": "string"}]},
//	 "v": {"amount": "3500000", "to": "3BXVSSgpDzN79JLyUwcWtCTVCG48D35s2t"}}
//
// Types form a closed set: eleven primitives, Nil, homogeneous lists and
// structs with ordered fields. Wire values are JSON-shaped: booleans are
// booleans, integers are decimal strings, byte strings are base64 and
// structs are objects keyed by field name. The field order of a struct is
// the order of its type definition, never the order of the keys in a value
// object.
//
// Unmarshal turns a wire value into native Go values (see Unmarshal for the
// mapping) and Marshal is its structural inverse. Both are pure functions
// and safe for concurrent use.
package pack

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type is a Pack type. The set of implementations is closed: Primitive,
// NilType, ListType and StructType.
type Type interface {
	fmt.Stringer
	json.Marshaler

	isType()
}

// Primitive is a scalar Pack type.
type Primitive uint8

// Primitive types.
const (
	Bool    Primitive = iota + 1 // JSON boolean
	U8                           // 8-bit unsigned integer
	U16                          // 16-bit unsigned integer
	U32                          // 32-bit unsigned integer
	U64                          // 64-bit unsigned integer
	U128                         // 128-bit unsigned integer
	U256                         // 256-bit unsigned integer
	Str                          // UTF-8 string
	Bytes                        // Variable-length byte string
	Bytes32                      // Exactly 32 bytes
	Bytes65                      // Exactly 65 bytes (recoverable ECDSA signature)
)

// Wire tags of the primitive types.
var primitiveTags = map[Primitive]string{
	Bool:    "bool",
	U8:      "u8",
	U16:     "u16",
	U32:     "u32",
	U64:     "u64",
	U128:    "u128",
	U256:    "u256",
	Str:     "string",
	Bytes:   "bytes",
	Bytes32: "bytes32",
	Bytes65: "bytes65",
}

// Tag returns the wire tag of p and whether p is a known primitive.
func (p Primitive) Tag() (string, bool) {
	tag, ok := primitiveTags[p]
	return tag, ok
}

func (p Primitive) String() string {
	if tag, ok := p.Tag(); ok {
		return tag
	}
	return fmt.Sprintf("primitive(%d)", uint8(p))
}

// Bits returns the width of an integer primitive, or 0 for non-integers.
func (p Primitive) Bits() int {
	switch p {
	case U8:
		return 8
	case U16:
		return 16
	case U32:
		return 32
	case U64:
		return 64
	case U128:
		return 128
	case U256:
		return 256
	default:
		return 0
	}
}

// Size returns the exact length of a fixed-size byte primitive, or 0.
func (p Primitive) Size() int {
	switch p {
	case Bytes32:
		return 32
	case Bytes65:
		return 65
	default:
		return 0
	}
}

// IsInteger reports whether p is one of U8 through U256.
func (p Primitive) IsInteger() bool {
	return p.Bits() > 0
}

// IsBytes reports whether p is Bytes, Bytes32 or Bytes65.
func (p Primitive) IsBytes() bool {
	return p == Bytes || p == Bytes32 || p == Bytes65
}

func (p Primitive) MarshalJSON() ([]byte, error) {
	return marshalTypeJSON(p)
}

func (Primitive) isType() {}

// NilType is the type of the absent value.
type NilType struct{}

// Nil is the Nil type.
var Nil = NilType{}

const nilTag = "nil"

func (NilType) String() string {
	return nilTag
}

func (n NilType) MarshalJSON() ([]byte, error) {
	return marshalTypeJSON(n)
}

func (NilType) isType() {}

// ListType is a homogeneous list.
type ListType struct {
	Elem Type
}

// List returns the type of lists of elem.
func List(elem Type) ListType {
	return ListType{Elem: elem}
}

func (l ListType) String() string {
	return fmt.Sprintf("list<%v>", l.Elem)
}

func (l ListType) MarshalJSON() ([]byte, error) {
	return marshalTypeJSON(l)
}

func (ListType) isType() {}

// StructField is one named, typed field of a struct.
type StructField struct {
	Name string
	Type Type
}

// Field returns a struct field.
func Field(name string, t Type) StructField {
	return StructField{Name: name, Type: t}
}

// StructType is a struct with ordered fields. Field order is the canonical
// order on the wire and in digests.
type StructType struct {
	Fields []StructField
}

// Struct returns the struct type with the given fields, in order.
func Struct(fields ...StructField) StructType {
	return StructType{Fields: fields}
}

// Lookup returns the type of the named field.
func (s StructType) Lookup(name string) (Type, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

func (s StructType) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = fmt.Sprintf("%s: %v", f.Name, f.Type)
	}
	return "struct{" + strings.Join(parts, ", ") + "}"
}

func (s StructType) MarshalJSON() ([]byte, error) {
	return marshalTypeJSON(s)
}

func (StructType) isType() {}

// validate checks the field names of s. Field types are checked as they
// are visited.
func (s StructType) validate(path string) error {
	seen := make(map[string]struct{}, len(s.Fields))
	for i, f := range s.Fields {
		if f.Name == "" {
			return &SchemaError{Path: path, Message: fmt.Sprintf("field %d has an empty name", i)}
		}
		if _, ok := seen[f.Name]; ok {
			return &SchemaError{Path: path, Message: fmt.Sprintf("duplicate field %q", f.Name)}
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}
