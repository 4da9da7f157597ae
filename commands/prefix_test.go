package commands

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type customRawable struct {
	raw []byte
}

func (r customRawable) Raw() []byte {
	return r.raw
}

func TestRawableFrom(t *testing.T) {
	testCases := [][]byte{
		{},
		[]byte("key"),
		{0x00, 0xff, 0x10},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase, RawableFrom(testCase).Raw())
	}
}

func TestRawableFromValues(t *testing.T) {
	testCases := []struct {
		rawable  Rawable
		expected string
	}{
		{RawableFromString("abc"), "abc"},
		{RawableFromInt(-12), "-12"},
		{RawableFromInt64(1 << 40), "1099511627776"},
		{RawableFromUint64(18446744073709551615), "18446744073709551615"},
		{RawableFromFloat64(1.5), "1.5"},
		{RawableFromFloat64(3), "3"},
		{RawableFromFloat64(math.Inf(1)), "+inf"},
		{RawableFromFloat64(math.Inf(-1)), "-inf"},
		{RawableFromBool(true), "1"},
		{RawableFromBool(false), "0"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, string(testCase.rawable.Raw()))
	}
}

func TestNewKey(t *testing.T) {
	rawable := customRawable{raw: []byte("r")}
	testCases := []struct {
		value interface{}
		shape KeyShape
		valid bool
	}{
		{value: "text", shape: KeyShapeText, valid: true},
		{value: []byte("bytes"), shape: KeyShapeBytes, valid: true},
		{value: rawable, shape: KeyShapeWrapped, valid: true},
		{value: TextKey("already"), shape: KeyShapeText, valid: true},
		{value: 1, valid: false},
		{value: nil, valid: false},
		{value: 1.5, valid: false},
		{value: struct{}{}, valid: false},
	}
	for _, testCase := range testCases {
		key, err := NewKey(testCase.value)
		if testCase.valid {
			assert.Nil(t, err)
			assert.Equal(t, testCase.shape, key.Shape())
		} else {
			assert.ErrorIs(t, err, ErrInvalidKey)
			assert.Nil(t, key)
		}
	}
}

func TestPrefixKeyPreservesShape(t *testing.T) {
	prefix := NewPrefix("tenant1:")
	rawable := customRawable{raw: []byte("raw")}

	key, err := prefix.PrefixKey(TextKey("user"))
	assert.Nil(t, err)
	assert.Equal(t, TextKey("tenant1:user"), key)

	key, err = prefix.PrefixKey(BytesKey{0x01, 0x02})
	assert.Nil(t, err)
	assert.Equal(t, BytesKey(append([]byte("tenant1:"), 0x01, 0x02)), key)

	key, err = prefix.PrefixKey(WrappedKey{Value: rawable})
	assert.Nil(t, err)
	assert.Equal(t, KeyShapeWrapped, key.Shape())
	assert.Equal(t, []byte("tenant1:raw"), key.Raw())
	// the wrapped value is left alone
	assert.Equal(t, []byte("raw"), rawable.raw)
}

func TestPrefixValue(t *testing.T) {
	prefix := NewPrefix("tenant1:")
	testCases := []struct {
		value    interface{}
		expected interface{}
		valid    bool
	}{
		{value: "user", expected: "tenant1:user", valid: true},
		{value: "", expected: "tenant1:", valid: true},
		{value: []byte{}, expected: []byte("tenant1:"), valid: true},
		{value: []byte("k"), expected: []byte("tenant1:k"), valid: true},
		{value: 42, valid: false},
		{value: nil, valid: false},
	}
	for _, testCase := range testCases {
		result, err := prefix.PrefixValue(testCase.value)
		if testCase.valid {
			assert.Nil(t, err)
			assert.Equal(t, testCase.expected, result)
		} else {
			assert.ErrorIs(t, err, ErrInvalidKey)
			assert.Nil(t, result)
		}
	}

	rawable := customRawable{raw: []byte("k")}
	result, err := prefix.PrefixValue(rawable)
	assert.Nil(t, err)
	assert.Implements(t, (*Rawable)(nil), result)
	assert.Equal(t, []byte("tenant1:k"), result.(Rawable).Raw())
}

func TestPrefixRejectionNamesValue(t *testing.T) {
	_, err := NewPrefix("p:").PrefixValue(3.25)
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.Contains(t, err.Error(), "3.25")
}

func TestPrefixTextAndBytesAreByteIdentical(t *testing.T) {
	prefixes := []string{"tenant1:", "名前:", "\xff\x00:", ""}
	keys := []string{"user", "ключ", "{tag}x", ""}
	for _, p := range prefixes {
		for _, k := range keys {
			textPrefix := NewPrefix(p)
			bytesPrefix := NewBinaryPrefix([]byte(p))
			textKey, err := textPrefix.PrefixKey(TextKey(k))
			assert.Nil(t, err)
			bytesKey, err := bytesPrefix.PrefixKey(BytesKey(k))
			assert.Nil(t, err)
			assert.Equal(t, textKey.Raw(), bytesKey.Raw())
			assert.Equal(t, []byte(p+k), bytesKey.Raw())
		}
	}
}

func TestPrefixDoesNotAliasInput(t *testing.T) {
	prefix := NewPrefix("p:")
	input := make([]byte, 1, 16)
	input[0] = 'k'
	key, err := prefix.PrefixKey(BytesKey(input))
	assert.Nil(t, err)
	input[0] = 'z'
	assert.Equal(t, []byte("p:k"), key.Raw())
}

func TestNewBinaryPrefixCopies(t *testing.T) {
	raw := []byte("ns:")
	prefix := NewBinaryPrefix(raw)
	raw[0] = 'x'
	assert.Equal(t, "ns:", prefix.String())
	assert.Equal(t, []byte("ns:"), prefix.Bytes())
	assert.False(t, prefix.IsEmpty())
	assert.True(t, NewPrefix("").IsEmpty())
	assert.Nil(t, NewPrefix("").KeyTransform())
}

func TestChainKeyTransforms(t *testing.T) {
	assert.Nil(t, ChainKeyTransforms(nil, nil))

	outer := NewPrefix("a:").KeyTransform()
	inner := NewPrefix("b:").KeyTransform()
	chained := ChainKeyTransforms(inner, nil, outer)
	key, err := chained(TextKey("k"))
	assert.Nil(t, err)
	assert.Equal(t, TextKey("a:b:k"), key)

	failing := func(Key) (Key, error) { return nil, ErrInvalidKey }
	key, err = ChainKeyTransforms(inner, failing, outer)(TextKey("k"))
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.Nil(t, key)
}

func TestPrefixCheckPattern(t *testing.T) {
	for _, prefix := range []string{"tenant1:", "app.v2|", "{tenant1}:", ""} {
		assert.Nil(t, NewPrefix(prefix).CheckPattern(), prefix)
	}
	for _, prefix := range []string{"t*:", "t?:", "t[12]:", `t\:`} {
		err := NewPrefix(prefix).CheckPattern()
		assert.ErrorIs(t, err, ErrInvalidPrefix, prefix)
	}
}
