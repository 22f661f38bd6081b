package pack

import (
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/renproject/darknode-command-center/pkg/encoding"
)

// DefaultMaxDepth bounds the nesting of lists and structs when no explicit
// limit is configured.
const DefaultMaxDepth = 64

// Codec converts between wire and native Pack values. The zero value uses
// DefaultMaxDepth.
type Codec struct {
	// MaxDepth is the deepest list or struct nesting accepted. Values of
	// zero or below select DefaultMaxDepth.
	MaxDepth int
}

func (c Codec) maxDepth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}

// Unmarshal decodes a wire value with the default codec.
func Unmarshal(t Type, wire interface{}) (interface{}, error) {
	return Codec{}.Unmarshal(t, wire)
}

// Marshal encodes a native value with the default codec.
func Marshal(t Type, native interface{}) (interface{}, error) {
	return Codec{}.Marshal(t, native)
}

// Unmarshal decodes a wire value, as produced by encoding/json, into its
// native form:
//
//	Bool             bool
//	U8 .. U256       *uint256.Int  (wire: decimal string or json.Number)
//	Str              string
//	Bytes*           []byte        (wire: base64, either alphabet)
//	Nil              Absent        (whatever the wire value)
//	List             []interface{}
//	Struct           Object        (fields in type order)
//
// Struct values may be a map[string]interface{} or an Object; keys that the
// type does not declare are ignored.
func (c Codec) Unmarshal(t Type, wire interface{}) (interface{}, error) {
	return c.unmarshal(t, wire, 0, "")
}

func (c Codec) unmarshal(t Type, wire interface{}, depth int, path string) (interface{}, error) {
	if depth > c.maxDepth() {
		return nil, &DepthExceededError{Path: path, MaxDepth: c.maxDepth()}
	}

	if _, ok := t.(NilType); ok {
		return Absent{}, nil
	}

	// Arrays dispatch on the value before the type, so an array given for a
	// non-list type is reported as such rather than as a bad scalar.
	if elems, ok := wire.([]interface{}); ok {
		lt, ok := t.(ListType)
		if !ok {
			return nil, &ValueError{Path: path, Type: typeName(t), Message: "unexpected list value"}
		}
		return c.unmarshalList(lt, elems, depth, path)
	}

	switch tt := t.(type) {
	case ListType:
		return nil, &ValueError{Path: path, Type: tt.String(), Message: fmt.Sprintf("expected list, got %T", wire)}
	case StructType:
		return c.unmarshalStruct(tt, wire, depth, path)
	case Primitive:
		return unmarshalPrimitive(tt, wire, path)
	default:
		return nil, &UnknownTypeError{Path: path, Tag: typeName(t)}
	}
}

func (c Codec) unmarshalList(lt ListType, elems []interface{}, depth int, path string) (interface{}, error) {
	out := make([]interface{}, len(elems))
	for i, elem := range elems {
		v, err := c.unmarshal(lt.Elem, elem, depth+1, indexPath(path, i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (c Codec) unmarshalStruct(st StructType, wire interface{}, depth int, path string) (interface{}, error) {
	if err := st.validate(path); err != nil {
		return nil, err
	}

	lookup, ok := lookupFunc(wire)
	if !ok {
		return nil, &ValueError{Path: path, Type: st.String(), Message: fmt.Sprintf("expected object, got %T", wire)}
	}

	out := make(Object, 0, len(st.Fields))
	for _, f := range st.Fields {
		raw, ok := lookup(f.Name)
		if !ok {
			return nil, &MissingFieldError{Path: path, Field: f.Name}
		}
		v, err := c.unmarshal(f.Type, raw, depth+1, fieldPath(path, f.Name))
		if err != nil {
			return nil, err
		}
		out = append(out, Member{Name: f.Name, Value: v})
	}
	return out, nil
}

func unmarshalPrimitive(p Primitive, wire interface{}, path string) (interface{}, error) {
	switch {
	case p == Bool:
		b, ok := wire.(bool)
		if !ok {
			return nil, &ValueError{Path: path, Type: p.String(), Message: fmt.Sprintf("expected boolean, got %T", wire)}
		}
		return b, nil

	case p.IsInteger():
		var decimal string
		switch v := wire.(type) {
		case string:
			decimal = v
		case json.Number:
			decimal = v.String()
		default:
			return nil, &ValueError{Path: path, Type: p.String(), Message: fmt.Sprintf("expected decimal string, got %T", wire)}
		}
		n, err := encoding.ParseDecimal(decimal)
		if err != nil {
			return nil, &ValueError{Path: path, Type: p.String(), Message: "invalid integer", Cause: err}
		}
		if err := checkWidth(p, n); err != nil {
			return nil, &ValueError{Path: path, Type: p.String(), Message: "integer out of range", Cause: err}
		}
		return n, nil

	case p == Str:
		s, ok := wire.(string)
		if !ok {
			return nil, &ValueError{Path: path, Type: p.String(), Message: fmt.Sprintf("expected string, got %T", wire)}
		}
		return s, nil

	case p.IsBytes():
		b, err := encoding.DecodeBase64OrPassthrough(wire)
		if err != nil {
			return nil, &ValueError{Path: path, Type: p.String(), Message: "invalid bytes", Cause: err}
		}
		if err := checkSize(p, b); err != nil {
			return nil, &ValueError{Path: path, Type: p.String(), Message: "wrong length", Cause: err}
		}
		return b, nil

	default:
		return nil, &UnknownTypeError{Path: path, Tag: p.String()}
	}
}

// Marshal encodes a native value into its wire form, the inverse of
// Unmarshal up to canonical representation: integers lose leading zeros,
// byte strings come out in sanitized base64, structs come out as an Object
// in type order with undeclared members dropped, and Nil comes out as nil.
//
// Besides the native forms Unmarshal produces, Marshal accepts Go unsigned
// integers and non-negative ints for integer types, uint256.Int values,
// [32]byte for Bytes32, [65]byte for Bytes65, map[string]interface{} for
// structs, and nil for Nil.
func (c Codec) Marshal(t Type, native interface{}) (interface{}, error) {
	return c.marshal(t, native, 0, "")
}

func (c Codec) marshal(t Type, native interface{}, depth int, path string) (interface{}, error) {
	if depth > c.maxDepth() {
		return nil, &DepthExceededError{Path: path, MaxDepth: c.maxDepth()}
	}

	switch tt := t.(type) {
	case NilType:
		switch native.(type) {
		case nil, Absent:
			return nil, nil
		default:
			return nil, &ValueError{Path: path, Type: tt.String(), Message: fmt.Sprintf("expected absent value, got %T", native)}
		}

	case ListType:
		elems, ok := native.([]interface{})
		if !ok {
			return nil, &ValueError{Path: path, Type: tt.String(), Message: fmt.Sprintf("expected list, got %T", native)}
		}
		out := make([]interface{}, len(elems))
		for i, elem := range elems {
			v, err := c.marshal(tt.Elem, elem, depth+1, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case StructType:
		if err := tt.validate(path); err != nil {
			return nil, err
		}
		lookup, ok := lookupFunc(native)
		if !ok {
			return nil, &ValueError{Path: path, Type: tt.String(), Message: fmt.Sprintf("expected object, got %T", native)}
		}
		out := make(Object, 0, len(tt.Fields))
		for _, f := range tt.Fields {
			raw, ok := lookup(f.Name)
			if !ok {
				return nil, &MissingFieldError{Path: path, Field: f.Name}
			}
			v, err := c.marshal(f.Type, raw, depth+1, fieldPath(path, f.Name))
			if err != nil {
				return nil, err
			}
			out = append(out, Member{Name: f.Name, Value: v})
		}
		return out, nil

	case Primitive:
		return marshalPrimitive(tt, native, path)

	default:
		return nil, &UnknownTypeError{Path: path, Tag: typeName(t)}
	}
}

func marshalPrimitive(p Primitive, native interface{}, path string) (interface{}, error) {
	switch {
	case p == Bool:
		b, ok := native.(bool)
		if !ok {
			return nil, &ValueError{Path: path, Type: p.String(), Message: fmt.Sprintf("expected bool, got %T", native)}
		}
		return b, nil

	case p.IsInteger():
		n, err := toUint256(native)
		if err != nil {
			return nil, &ValueError{Path: path, Type: p.String(), Message: "invalid integer", Cause: err}
		}
		if err := checkWidth(p, n); err != nil {
			return nil, &ValueError{Path: path, Type: p.String(), Message: "integer out of range", Cause: err}
		}
		return n.Dec(), nil

	case p == Str:
		s, ok := native.(string)
		if !ok {
			return nil, &ValueError{Path: path, Type: p.String(), Message: fmt.Sprintf("expected string, got %T", native)}
		}
		return s, nil

	case p.IsBytes():
		var b []byte
		switch v := native.(type) {
		case []byte:
			b = v
		case [32]byte:
			b = v[:]
		case [65]byte:
			b = v[:]
		default:
			return nil, &ValueError{Path: path, Type: p.String(), Message: fmt.Sprintf("expected []byte, got %T", native)}
		}
		if err := checkSize(p, b); err != nil {
			return nil, &ValueError{Path: path, Type: p.String(), Message: "wrong length", Cause: err}
		}
		return encoding.ToURLBase64(b), nil

	default:
		return nil, &UnknownTypeError{Path: path, Tag: p.String()}
	}
}

func toUint256(native interface{}) (*uint256.Int, error) {
	switch v := native.(type) {
	case *uint256.Int:
		if v == nil {
			return nil, &EncodingError{Message: "nil integer"}
		}
		return v, nil
	case uint256.Int:
		return &v, nil
	case uint8:
		return uint256.NewInt(uint64(v)), nil
	case uint16:
		return uint256.NewInt(uint64(v)), nil
	case uint32:
		return uint256.NewInt(uint64(v)), nil
	case uint64:
		return uint256.NewInt(v), nil
	case uint:
		return uint256.NewInt(uint64(v)), nil
	case int:
		if v < 0 {
			return nil, &EncodingError{Message: fmt.Sprintf("negative integer %d", v)}
		}
		return uint256.NewInt(uint64(v)), nil
	case int64:
		if v < 0 {
			return nil, &EncodingError{Message: fmt.Sprintf("negative integer %d", v)}
		}
		return uint256.NewInt(uint64(v)), nil
	default:
		return nil, &EncodingError{Message: fmt.Sprintf("unsupported integer type %T", native)}
	}
}

func checkWidth(p Primitive, n *uint256.Int) error {
	if bits := n.BitLen(); bits > p.Bits() {
		return &EncodingError{Message: fmt.Sprintf("value %s needs %d bits, exceeds %s", n.Dec(), bits, p)}
	}
	return nil
}

func checkSize(p Primitive, b []byte) error {
	if size := p.Size(); size > 0 && len(b) != size {
		return &EncodingError{Message: fmt.Sprintf("expected %d bytes, got %d", size, len(b))}
	}
	return nil
}

func typeName(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
