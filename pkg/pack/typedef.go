package pack

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Type definitions on the wire:
//
//	"u256"                                   primitive tag
//	"nil"                                    Nil
//	{"list": <type>}                         ListType
//	{"struct": [{"a": <type>}, {"b": <type>}]} StructType, fields in order

const (
	listKey   = "list"
	structKey = "struct"
)

var tagPrimitives = func() map[string]Primitive {
	m := make(map[string]Primitive, len(primitiveTags))
	for p, tag := range primitiveTags {
		m[tag] = p
	}
	return m
}()

// ParseType parses a JSON type definition with the default depth limit.
func ParseType(data []byte) (Type, error) {
	return Codec{}.ParseType(data)
}

// ParseType parses a JSON type definition.
func (c Codec) ParseType(data []byte) (Type, error) {
	return c.parseType(data, 0, "")
}

func (c Codec) parseType(raw json.RawMessage, depth int, path string) (Type, error) {
	if depth > c.maxDepth() {
		return nil, &DepthExceededError{Path: path, MaxDepth: c.maxDepth()}
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, &SchemaError{Path: path, Message: "empty type definition"}
	}

	switch trimmed[0] {
	case '"':
		var tag string
		if err := json.Unmarshal(trimmed, &tag); err != nil {
			return nil, &SchemaError{Path: path, Message: "invalid type tag", Cause: err}
		}
		return parseTag(tag, path)

	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, &SchemaError{Path: path, Message: "invalid type object", Cause: err}
		}
		if len(obj) != 1 {
			return nil, &SchemaError{
				Path:    path,
				Message: fmt.Sprintf("type object must have exactly one key, got %d", len(obj)),
			}
		}
		if elem, ok := obj[listKey]; ok {
			elemType, err := c.parseType(elem, depth+1, path+"[]")
			if err != nil {
				return nil, err
			}
			return List(elemType), nil
		}
		if fields, ok := obj[structKey]; ok {
			return c.parseStruct(fields, depth, path)
		}
		for key := range obj {
			return nil, &UnknownTypeError{Path: path, Tag: key}
		}
	}

	return nil, &SchemaError{Path: path, Message: "type definition must be a tag or an object"}
}

func (c Codec) parseStruct(raw json.RawMessage, depth int, path string) (Type, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &SchemaError{Path: path, Message: "struct fields must be an array", Cause: err}
	}

	st := StructType{Fields: make([]StructField, 0, len(entries))}
	for i, entry := range entries {
		var field map[string]json.RawMessage
		if err := json.Unmarshal(entry, &field); err != nil {
			return nil, &SchemaError{Path: path, Message: fmt.Sprintf("field %d must be an object", i), Cause: err}
		}
		if len(field) != 1 {
			return nil, &SchemaError{
				Path:    path,
				Message: fmt.Sprintf("field %d must have exactly one key, got %d", i, len(field)),
			}
		}

		for name, def := range field {
			t, err := c.parseType(def, depth+1, fieldPath(path, name))
			if err != nil {
				return nil, err
			}
			st.Fields = append(st.Fields, Field(name, t))
		}
	}

	if err := st.validate(path); err != nil {
		return nil, err
	}
	return st, nil
}

func parseTag(tag, path string) (Type, error) {
	if p, ok := tagPrimitives[tag]; ok {
		return p, nil
	}
	switch tag {
	case nilTag:
		return Nil, nil
	case listKey, structKey:
		return nil, &SchemaError{Path: path, Message: fmt.Sprintf("%q must be an object definition", tag)}
	default:
		return nil, &UnknownTypeError{Path: path, Tag: tag}
	}
}

// marshalTypeJSON renders t in the wire grammar, bounded by the default
// depth.
func marshalTypeJSON(t Type) ([]byte, error) {
	def, err := Codec{}.typeDefinition(t, 0, "")
	if err != nil {
		return nil, err
	}
	return json.Marshal(def)
}

// typeDefinition returns a value whose JSON encoding is the definition of t.
// Struct fields are emitted as an array of single-key objects, which keeps
// them in order.
func (c Codec) typeDefinition(t Type, depth int, path string) (interface{}, error) {
	if depth > c.maxDepth() {
		return nil, &DepthExceededError{Path: path, MaxDepth: c.maxDepth()}
	}

	switch tt := t.(type) {
	case Primitive:
		tag, ok := tt.Tag()
		if !ok {
			return nil, &UnknownTypeError{Path: path, Tag: tt.String()}
		}
		return tag, nil

	case NilType:
		return nilTag, nil

	case ListType:
		elem, err := c.typeDefinition(tt.Elem, depth+1, path+"[]")
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{listKey: elem}, nil

	case StructType:
		if err := tt.validate(path); err != nil {
			return nil, err
		}
		fields := make([]interface{}, len(tt.Fields))
		for i, f := range tt.Fields {
			def, err := c.typeDefinition(f.Type, depth+1, fieldPath(path, f.Name))
			if err != nil {
				return nil, err
			}
			fields[i] = map[string]interface{}{f.Name: def}
		}
		return map[string]interface{}{structKey: fields}, nil

	default:
		return nil, &UnknownTypeError{Path: path, Tag: fmt.Sprintf("%T", t)}
	}
}
