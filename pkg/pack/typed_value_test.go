package pack

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mintDocument = `{"t":{"struct":[{"amount":"u256"},{"to":"string"}]},"v":{"to":"3BXVSSgpDzN79JLyUwcWtCTVCG48D35s2t","amount":"3500000"}}`

func TestTypedValueDecode(t *testing.T) {
	var tv TypedValue
	require.NoError(t, json.Unmarshal([]byte(mintDocument), &tv))

	assert.Equal(t, Struct(Field("amount", U256), Field("to", Str)), tv.Type)

	native, err := tv.Decode()
	require.NoError(t, err)
	assert.Equal(t, Object{
		{"amount", uint256.NewInt(3500000)},
		{"to", "3BXVSSgpDzN79JLyUwcWtCTVCG48D35s2t"},
	}, native)
}

func TestTypedValueEncode(t *testing.T) {
	typ := Struct(Field("to", Str), Field("amount", U256))
	tv, err := NewTypedValue(typ, map[string]interface{}{
		"amount": uint256.NewInt(3500000),
		"to":     "3BXVSSgpDzN79JLyUwcWtCTVCG48D35s2t",
	})
	require.NoError(t, err)

	data, err := json.Marshal(tv)
	require.NoError(t, err)
	assert.Equal(t,
		`{"t":{"struct":[{"to":"string"},{"amount":"u256"}]},"v":{"to":"3BXVSSgpDzN79JLyUwcWtCTVCG48D35s2t","amount":"3500000"}}`,
		string(data))
}

func TestTypedValueNumbers(t *testing.T) {
	var tv TypedValue
	require.NoError(t, json.Unmarshal([]byte(`{"t":"u64","v":12}`), &tv))
	assert.Equal(t, json.Number("12"), tv.Value)

	native, err := tv.Decode()
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(12), native)
}

func TestTypedValueMissingParts(t *testing.T) {
	var tv TypedValue
	err := json.Unmarshal([]byte(`{"v":"1"}`), &tv)
	var schema *SchemaError
	require.True(t, errors.As(err, &schema), "%v", err)

	// A missing value is only acceptable for Nil
	require.NoError(t, json.Unmarshal([]byte(`{"t":"nil"}`), &tv))
	native, err := tv.Decode()
	require.NoError(t, err)
	assert.Equal(t, Absent{}, native)

	require.NoError(t, json.Unmarshal([]byte(`{"t":"string"}`), &tv))
	_, err = tv.Decode()
	var valueErr *ValueError
	assert.True(t, errors.As(err, &valueErr))

	_, err = json.Marshal(TypedValue{Value: "x"})
	assert.Error(t, err)
}

func TestTypedValueCodecDepth(t *testing.T) {
	codec := Codec{MaxDepth: 1}

	_, err := codec.UnmarshalTypedValue([]byte(`{"t":{"list":{"list":"u8"}},"v":[]}`))
	var tooDeep *DepthExceededError
	require.True(t, errors.As(err, &tooDeep), "%v", err)

	tv, err := codec.UnmarshalTypedValue([]byte(`{"t":{"list":"u8"},"v":["1","2"]}`))
	require.NoError(t, err)
	native, err := codec.DecodeTypedValue(tv)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{uint256.NewInt(1), uint256.NewInt(2)}, native)
}
