package commands

import (
	"bytes"
	"fmt"
)

const globMetaCharacters = `*?[]\`

// KeyTransform rewrites a key before it is appended to Arguments. It is only
// ever applied to key-tagged arguments.
type KeyTransform func(Key) (Key, error)

// ChainKeyTransforms applies transforms in order. Nil entries are skipped.
func ChainKeyTransforms(transforms ...KeyTransform) KeyTransform {
	active := make([]KeyTransform, 0, len(transforms))
	for _, transform := range transforms {
		if transform != nil {
			active = append(active, transform)
		}
	}
	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	}
	return func(key Key) (Key, error) {
		var err error
		for _, transform := range active {
			if key, err = transform(key); err != nil {
				return nil, err
			}
		}
		return key, nil
	}
}

// Prefix is a key namespace. The text and byte forms always hold the same
// bytes, so prefixing a TextKey and a BytesKey of equal content gives
// byte-identical results whatever characters the prefix contains.
type Prefix struct {
	text string
	raw  []byte
}

func NewPrefix(prefix string) Prefix {
	return Prefix{text: prefix, raw: []byte(prefix)}
}

func NewBinaryPrefix(prefix []byte) Prefix {
	raw := make([]byte, len(prefix))
	copy(raw, prefix)
	return Prefix{text: string(raw), raw: raw}
}

func (prefix Prefix) String() string {
	return prefix.text
}

func (prefix Prefix) Bytes() []byte {
	raw := make([]byte, len(prefix.raw))
	copy(raw, prefix.raw)
	return raw
}

func (prefix Prefix) IsEmpty() bool {
	return len(prefix.raw) == 0
}

// CheckPattern rejects prefixes holding glob metacharacters. KEYS and SCAN
// patterns are prefixed as they are, so such a prefix would match keys of
// other namespaces.
func (prefix Prefix) CheckPattern() error {
	if bytes.ContainsAny(prefix.raw, globMetaCharacters) {
		return fmt.Errorf("%w: prefix %q contains one of %q", ErrInvalidPrefix, prefix.text, globMetaCharacters)
	}
	return nil
}

// PrefixKey prepends the prefix to key and keeps its shape. The key's own
// bytes are never modified.
func (prefix Prefix) PrefixKey(key Key) (Key, error) {
	switch k := key.(type) {
	case TextKey:
		return TextKey(prefix.text + string(k)), nil
	case BytesKey:
		return BytesKey(prefix.concat(k)), nil
	case WrappedKey:
		return WrappedKey{Value: RawableFrom(prefix.concat(k.Value.Raw()))}, nil
	default:
		return nil, newInvalidKeyError(key)
	}
}

// PrefixValue is PrefixKey for dynamically typed keys: a string yields a
// string, a []byte a []byte and a Rawable a Rawable. Other values are rejected.
func (prefix Prefix) PrefixValue(value interface{}) (interface{}, error) {
	key, err := NewKey(value)
	if err != nil {
		return nil, err
	}
	prefixed, err := prefix.PrefixKey(key)
	if err != nil {
		return nil, err
	}
	return keyValue(prefixed), nil
}

func (prefix Prefix) KeyTransform() KeyTransform {
	if prefix.IsEmpty() {
		return nil
	}
	return prefix.PrefixKey
}

func (prefix Prefix) concat(key []byte) []byte {
	namespaced := make([]byte, 0, len(prefix.raw)+len(key))
	namespaced = append(namespaced, prefix.raw...)
	return append(namespaced, key...)
}
