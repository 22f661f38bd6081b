package pack

import (
	"bytes"
	"encoding/json"
)

// Absent is the native value of the Nil type.
type Absent struct{}

// Member is a named value within an Object.
type Member struct {
	Name  string
	Value interface{}
}

// Object is an ordered set of named values. Unmarshal produces an Object
// for every struct, in the field order of the struct type, and Marshal
// produces one as the wire value of a struct so that the JSON encoding
// keeps that order.
type Object []Member

// Get returns the value of the first member with the given name.
func (o Object) Get(name string) (interface{}, bool) {
	for _, m := range o {
		if m.Name == name {
			return m.Value, true
		}
	}
	return nil, false
}

// Names returns the member names in order.
func (o Object) Names() []string {
	names := make([]string, len(o))
	for i, m := range o {
		names[i] = m.Name
	}
	return names
}

// MarshalJSON encodes o as a JSON object with its keys in member order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// lookupFunc returns a member lookup over a wire struct value.
func lookupFunc(wire interface{}) (func(string) (interface{}, bool), bool) {
	switch v := wire.(type) {
	case map[string]interface{}:
		return func(name string) (interface{}, bool) {
			value, ok := v[name]
			return value, ok
		}, true
	case Object:
		return v.Get, true
	default:
		return nil, false
	}
}
