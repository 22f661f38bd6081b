package pack

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStructOrder checks that struct output follows the type, not the value
func TestStructOrder(t *testing.T) {
	typ := Struct(Field("b", U8), Field("a", Str))
	wire := decodeJSON(t, `{"a": "x", "b": "5"}`)

	native, err := Unmarshal(typ, wire)
	require.NoError(t, err)

	obj, ok := native.(Object)
	require.True(t, ok, "expected Object, got %T", native)
	assert.Equal(t, []string{"b", "a"}, obj.Names())

	b, _ := obj.Get("b")
	assert.Equal(t, uint256.NewInt(5), b)
	a, _ := obj.Get("a")
	assert.Equal(t, "x", a)

	out, err := Marshal(typ, native)
	require.NoError(t, err)
	encoded, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Equal(t, `{"b":"5","a":"x"}`, string(encoded))
}

func TestUnmarshalPrimitives(t *testing.T) {
	tests := []struct {
		name     string
		typ      Type
		wire     string
		expected interface{}
	}{
		{"bool", Bool, `true`, true},
		{"u8", U8, `"255"`, uint256.NewInt(255)},
		{"u64 max", U64, `"18446744073709551615"`, uint256.NewInt(math.MaxUint64)},
		{"u256 leading zeros", U256, `"0003500000"`, uint256.NewInt(3500000)},
		{"json number", U32, `7`, uint256.NewInt(7)},
		{"string", Str, `"hello"`, "hello"},
		{"bytes url", Bytes, `"-_8"`, []byte{0xfb, 0xff}},
		{"bytes std", Bytes, `"+/8="`, []byte{0xfb, 0xff}},
		{"bytes32", Bytes32, `"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA1Z-A"`, append(make([]byte, 29), 0x35, 0x67, 0xe0)},
		{"nil from null", Nil, `null`, Absent{}},
		{"nil from string", Nil, `"ignored"`, Absent{}},
		{"nil from list", Nil, `[1, 2]`, Absent{}},
		{"empty list", List(U8), `[]`, []interface{}{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			native, err := Unmarshal(tc.typ, decodeJSON(t, tc.wire))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, native)
		})
	}
}

func TestUnmarshalMissingField(t *testing.T) {
	typ := Struct(Field("b", U8), Field("a", Str))

	_, err := Unmarshal(typ, decodeJSON(t, `{"b": "5"}`))
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing), "%v", err)
	assert.Equal(t, "a", missing.Field)
	assert.Equal(t, "", missing.Path)

	nested := Struct(Field("inner", typ))
	_, err = Unmarshal(nested, decodeJSON(t, `{"inner": {"a": "x"}}`))
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "b", missing.Field)
	assert.Equal(t, "inner", missing.Path)
}

func TestUnmarshalWidth(t *testing.T) {
	tests := []struct {
		typ  Primitive
		wire string
	}{
		{U8, "256"},
		{U16, "65536"},
		{U32, "4294967296"},
		{U64, "18446744073709551616"},
		{U128, "340282366920938463463374607431768211456"},
		{U256, "115792089237316195423570985008687907853269984665640564039457584007913129639936"},
	}

	for _, tc := range tests {
		t.Run(tc.typ.String(), func(t *testing.T) {
			_, err := Unmarshal(tc.typ, tc.wire)
			require.Error(t, err)

			var encErr *EncodingError
			assert.True(t, errors.As(err, &encErr), "%v", err)
			var valueErr *ValueError
			assert.True(t, errors.As(err, &valueErr), "%v", err)
		})
	}

	_, err := Unmarshal(Bytes32, "AAAA")
	var encErr *EncodingError
	assert.True(t, errors.As(err, &encErr))

	_, err = Unmarshal(Bytes65, encodeURL(make([]byte, 64)))
	assert.True(t, errors.As(err, &encErr))
}

func TestUnmarshalShapeMismatch(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		wire string
	}{
		{"string for list", List(U8), `"1"`},
		{"list for integer", U8, `["1"]`},
		{"list for struct", Struct(Field("a", U8)), `[]`},
		{"string for struct", Struct(Field("a", U8)), `"a"`},
		{"float for integer", U8, `1.5`},
		{"negative integer", U8, `"-1"`},
		{"hex integer", U256, `"0x10"`},
		{"string for bool", Bool, `"true"`},
		{"number for string", Str, `1`},
		{"bad base64", Bytes, `"***"`},
		{"null for bytes", Bytes, `null`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Unmarshal(tc.typ, decodeJSON(t, tc.wire))
			require.Error(t, err)

			var valueErr *ValueError
			assert.True(t, errors.As(err, &valueErr), "%v", err)
		})
	}
}

func TestUnmarshalErrorPath(t *testing.T) {
	typ := Struct(Field("fees", List(Struct(Field("amount", U8)))))
	wire := decodeJSON(t, `{"fees": [{"amount": "1"}, {"amount": "300"}]}`)

	_, err := Unmarshal(typ, wire)
	var valueErr *ValueError
	require.True(t, errors.As(err, &valueErr), "%v", err)
	assert.Equal(t, "fees[1].amount", valueErr.Path)
	assert.Contains(t, err.Error(), "fees[1].amount")
}

func TestUnmarshalUnknownType(t *testing.T) {
	_, err := Unmarshal(List(Primitive(99)), []interface{}{"1"})
	var unknown *UnknownTypeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "[0]", unknown.Path)

	_, err = Unmarshal(nil, "1")
	assert.True(t, errors.As(err, &unknown))

	// Nothing to visit, nothing to reject
	_, err = Unmarshal(List(Primitive(99)), []interface{}{})
	assert.NoError(t, err)
}

func TestUnmarshalDepth(t *testing.T) {
	codec := Codec{MaxDepth: 2}
	typ := List(List(List(U8)))

	_, err := codec.Unmarshal(typ, decodeJSON(t, `[[[]]]`))
	require.NoError(t, err)

	_, err = codec.Unmarshal(typ, decodeJSON(t, `[[["1"]]]`))
	var tooDeep *DepthExceededError
	require.True(t, errors.As(err, &tooDeep), "%v", err)
	assert.Equal(t, 2, tooDeep.MaxDepth)
	assert.Equal(t, "[0][0][0]", tooDeep.Path)

	_, err = codec.Marshal(typ, []interface{}{[]interface{}{[]interface{}{uint64(1)}}})
	assert.True(t, errors.As(err, &tooDeep))
}

func TestMarshalCanonicalForm(t *testing.T) {
	typ := Struct(Field("a", U16), Field("b", Bytes), Field("c", Nil))
	wire := decodeJSON(t, `{"extra": "dropped", "c": "anything", "b": "+/8=", "a": "007"}`)

	native, err := Unmarshal(typ, wire)
	require.NoError(t, err)
	out, err := Marshal(typ, native)
	require.NoError(t, err)

	expected := Object{{"a", "7"}, {"b", "-_8"}, {"c", nil}}
	assert.Equal(t, expected, out)
}

func TestMarshalNativeForms(t *testing.T) {
	typ := Struct(
		Field("n8", U8),
		Field("n64", U64),
		Field("big", U256),
		Field("hash", Bytes32),
		Field("sig", Bytes65),
		Field("none", Nil),
	)
	native := map[string]interface{}{
		"n8":   uint8(255),
		"n64":  int64(1 << 40),
		"big":  *uint256.NewInt(10),
		"hash": [32]byte{0xff},
		"sig":  [65]byte{},
		"none": nil,
	}

	out, err := Marshal(typ, native)
	require.NoError(t, err)

	encoded, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Equal(t,
		`{"n8":"255","n64":"1099511627776","big":"10",`+
			`"hash":"_wAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",`+
			`"sig":"`+encodeURL(make([]byte, 65))+`","none":null}`,
		string(encoded))
}

func TestMarshalErrors(t *testing.T) {
	tests := []struct {
		name   string
		typ    Type
		native interface{}
		target interface{}
	}{
		{"u8 overflow", U8, 256, new(*EncodingError)},
		{"negative int", U64, -1, new(*EncodingError)},
		{"nil pointer", U256, (*uint256.Int)(nil), new(*EncodingError)},
		{"float", U64, 1.0, new(*ValueError)},
		{"wrong array size", Bytes32, [65]byte{}, new(*EncodingError)},
		{"string for bytes", Bytes, "AAAA", new(*ValueError)},
		{"value for nil", Nil, "x", new(*ValueError)},
		{"typed list", List(Str), []string{"a"}, new(*ValueError)},
		{"missing field", Struct(Field("a", Str)), map[string]interface{}{}, new(*MissingFieldError)},
		{"duplicate field", Struct(Field("a", Str), Field("a", Str)), Object{}, new(*SchemaError)},
		{"unknown type", Primitive(0), "x", new(*UnknownTypeError)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Marshal(tc.typ, tc.native)
			require.Error(t, err)
			assert.True(t, errors.As(err, tc.target), "%v", err)
		})
	}
}

func TestRoundTripNested(t *testing.T) {
	fee := Struct(Field("asset", Str), Field("amount", U256))
	typ := Struct(
		Field("enabled", Bool),
		Field("epoch", U64),
		Field("node", Bytes),
		Field("hash", Bytes32),
		Field("sig", Bytes65),
		Field("fees", List(fee)),
		Field("tags", List(List(Str))),
		Field("reserved", Nil),
	)

	sig := make([]byte, 65)
	for i := range sig {
		sig[i] = byte(i)
	}

	native := Object{
		{"enabled", true},
		{"epoch", uint256.NewInt(1 << 33)},
		{"node", []byte{0xdf, 0x88, 0xbc}},
		{"hash", bytes.Repeat([]byte{0xab}, 32)},
		{"sig", sig},
		{"fees", []interface{}{
			Object{{"asset", "BTC"}, {"amount", uint256.NewInt(3500000)}},
			Object{{"asset", "ZEC"}, {"amount", new(uint256.Int).SetAllOne()}},
		}},
		{"tags", []interface{}{[]interface{}{}, []interface{}{"a", "b"}}},
		{"reserved", Absent{}},
	}

	checkRoundTrip(t, typ, native)
}

// checkRoundTrip pushes native through Marshal, JSON, and Unmarshal and
// expects it back unchanged
func checkRoundTrip(t *testing.T, typ Type, native interface{}) {
	t.Helper()

	tv, err := NewTypedValue(typ, native)
	if err != nil {
		t.Fatalf("NewTypedValue failed: %v", err)
	}

	data, err := json.Marshal(tv)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var decoded TypedValue
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(decoded.Type, typ) {
		t.Fatalf("type mismatch:\n got  %v\n want %v", decoded.Type, typ)
	}

	result, err := decoded.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(result, native) {
		t.Errorf("round trip mismatch:\n got  %#v\n want %#v", result, native)
	}

	// A second pass must reproduce the same bytes
	again, err := NewTypedValue(decoded.Type, result)
	if err != nil {
		t.Fatalf("NewTypedValue failed: %v", err)
	}
	data2, err := json.Marshal(again)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if !bytes.Equal(data, data2) {
		t.Errorf("encoding not stable:\n %s\n %s", data, data2)
	}
}

func decodeJSON(t *testing.T, s string) interface{} {
	t.Helper()

	var v interface{}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&v))
	return v
}

func encodeURL(b []byte) string {
	wire, err := Marshal(Bytes, b)
	if err != nil {
		panic(err)
	}
	return wire.(string)
}
