package pack

import (
	"bytes"
	"encoding/json"
)

// TypedValue is a wire value paired with its type, encoded as
// `{"t": <type>, "v": <value>}`.
type TypedValue struct {
	Type  Type
	Value interface{}
}

// NewTypedValue marshals native under t.
func NewTypedValue(t Type, native interface{}) (TypedValue, error) {
	return Codec{}.NewTypedValue(t, native)
}

// NewTypedValue marshals native under t.
func (c Codec) NewTypedValue(t Type, native interface{}) (TypedValue, error) {
	wire, err := c.Marshal(t, native)
	if err != nil {
		return TypedValue{}, err
	}
	return TypedValue{Type: t, Value: wire}, nil
}

// Decode unmarshals the value with the default codec.
func (tv TypedValue) Decode() (interface{}, error) {
	return Codec{}.Unmarshal(tv.Type, tv.Value)
}

type typedValueJSON struct {
	T json.RawMessage `json:"t"`
	V json.RawMessage `json:"v"`
}

func (tv TypedValue) MarshalJSON() ([]byte, error) {
	if tv.Type == nil {
		return nil, &SchemaError{Message: "typed value without a type"}
	}
	t, err := tv.Type.MarshalJSON()
	if err != nil {
		return nil, err
	}
	v, err := json.Marshal(tv.Value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(typedValueJSON{T: t, V: v})
}

// UnmarshalJSON parses the type definition with the default depth limit and
// keeps the value in wire form, with numbers as json.Number. Use
// Codec.UnmarshalTypedValue for a different limit.
func (tv *TypedValue) UnmarshalJSON(data []byte) error {
	parsed, err := Codec{}.UnmarshalTypedValue(data)
	if err != nil {
		return err
	}
	*tv = parsed
	return nil
}

// UnmarshalTypedValue parses a `{t, v}` document.
func (c Codec) UnmarshalTypedValue(data []byte) (TypedValue, error) {
	var raw typedValueJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return TypedValue{}, &SchemaError{Message: "invalid typed value", Cause: err}
	}
	if len(raw.T) == 0 {
		return TypedValue{}, &SchemaError{Message: `typed value is missing "t"`}
	}

	t, err := c.ParseType(raw.T)
	if err != nil {
		return TypedValue{}, err
	}

	var value interface{}
	if len(raw.V) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw.V))
		dec.UseNumber()
		if err := dec.Decode(&value); err != nil {
			return TypedValue{}, &ValueError{Type: t.String(), Message: "invalid value", Cause: err}
		}
	}
	return TypedValue{Type: t, Value: value}, nil
}

// DecodeTypedValue unmarshals the value of tv.
func (c Codec) DecodeTypedValue(tv TypedValue) (interface{}, error) {
	return c.Unmarshal(tv.Type, tv.Value)
}
