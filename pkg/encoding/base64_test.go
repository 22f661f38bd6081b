package encoding

import (
	"errors"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	result := Sanitize("4nUltv8WR1cYvAkz-+=/-G0lHwAAAAAAAAAAAAAAAA=")
	assert.Equal(t, "4nUltv8WR1cYvAkz--=_-G0lHwAAAAAAAAAAAAAAAA", result)

	// Already sanitized input is a fixed point
	assert.Equal(t, "MDAwMGFiY2RlZg", Sanitize("MDAwMGFiY2RlZg"))
	assert.Equal(t, "", Sanitize("=="))
}

func TestToURLBase64(t *testing.T) {
	assert.Equal(t, "MDAwMGFiY2RlZg", ToURLBase64([]byte("0000abcdef")))
}

func TestDecodeBase64AcceptsBothAlphabets(t *testing.T) {
	raw := []byte{0xfb, 0xff, 0xbf, 0x00, 0x01}

	for _, in := range []string{
		"+/+/AAE=", // standard, padded
		"+/+/AAE",  // standard, unpadded
		"-_-_AAE=", // url-safe, padded
		"-_-_AAE",  // url-safe, unpadded
	} {
		decoded, err := DecodeBase64(in)
		require.NoError(t, err, in)
		assert.Equal(t, raw, decoded, in)
	}
}

func TestDecodeBase64Invalid(t *testing.T) {
	_, err := DecodeBase64("not*base64")
	require.Error(t, err)

	var encErr *EncodingError
	assert.True(t, errors.As(err, &encErr))
}

func TestDecodeBase64RejectsNonZeroTrailingBits(t *testing.T) {
	// "AQI" and "AQJ" differ only in bits below the last whole byte
	decoded, err := DecodeBase64("AQI")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, decoded)

	for _, in := range []string{"AQJ", "AQL", "AQ_", "AR", "AQJ="} {
		_, err := DecodeBase64(in)
		var encErr *EncodingError
		assert.True(t, errors.As(err, &encErr), "%q: %v", in, err)
	}
}

func TestDecodeBase64OrPassthrough(t *testing.T) {
	raw := []byte{1, 2, 3}

	out, err := DecodeBase64OrPassthrough(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, out)

	out, err = DecodeBase64OrPassthrough("AQID")
	require.NoError(t, err)
	assert.Equal(t, raw, out)

	_, err = DecodeBase64OrPassthrough(42)
	assert.Error(t, err)
}

func TestLeftPad(t *testing.T) {
	result, err := LeftPad(uint256.NewInt(3500000), 32)
	require.NoError(t, err)
	assert.Equal(t, "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA1Z-A", result)

	result, err = LeftPadDecimal("3500000", 32)
	require.NoError(t, err)
	assert.Equal(t, "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA1Z-A", result)
}

func TestLeftPadZero(t *testing.T) {
	buf, err := LeftPadBytes(uint256.NewInt(0), 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)
}

func TestLeftPadOverflow(t *testing.T) {
	_, err := LeftPad(uint256.NewInt(0x1_0000), 2)
	require.Error(t, err)

	var encErr *EncodingError
	require.True(t, errors.As(err, &encErr))
	assert.Contains(t, encErr.Message, "exceeds width")

	// Exactly fitting values are fine
	buf, err := LeftPadBytes(uint256.NewInt(0xffff), 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xff}, buf)
}

func TestParseDecimal(t *testing.T) {
	n, err := ParseDecimal("007")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), n.Uint64())

	max := "115792089237316195423570985008687907853269984665640564039457584007913129639935"
	n, err = ParseDecimal(max)
	require.NoError(t, err)
	assert.Equal(t, max, n.Dec())

	for _, bad := range []string{
		"",
		"-1",
		"+1",
		"1_000",
		" 1",
		"0x10",
		"115792089237316195423570985008687907853269984665640564039457584007913129639936",
	} {
		_, err := ParseDecimal(bad)
		assert.Error(t, err, "%q", bad)
	}
}

func TestPadString(t *testing.T) {
	buf, err := PadString("ren", 6)
	require.NoError(t, err)
	assert.Equal(t, []byte{'r', 'e', 'n', 0, 0, 0}, buf)

	buf, err = PadString("exact", 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("exact"), buf)

	_, err = PadString("too long", 3)
	assert.Error(t, err)
}

func TestPadBase64Label(t *testing.T) {
	result, err := PadBase64Label("testnet")
	require.NoError(t, err)
	assert.Equal(t, "testnetAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", result)
	assert.Len(t, result, NetworkIDLength)

	_, err = PadBase64Label(strings.Repeat("x", NetworkIDLength+1))
	assert.Error(t, err)
}

func TestBase64ToHex(t *testing.T) {
	result, err := Base64ToHex("MDAwMGFiY2RlZg")
	require.NoError(t, err)
	assert.Equal(t, "0x30303030616263646566", result)
}
