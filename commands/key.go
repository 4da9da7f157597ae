package commands

// KeyShape names the representation a key was supplied in. Prefixing keeps it.
type KeyShape int

const (
	KeyShapeText KeyShape = iota
	KeyShapeBytes
	KeyShapeWrapped
)

func (shape KeyShape) String() string {
	switch shape {
	case KeyShapeText:
		return "text"
	case KeyShapeBytes:
		return "bytes"
	case KeyShapeWrapped:
		return "wrapped"
	default:
		return "unknown"
	}
}

// Key is a Redis key in one of exactly three shapes: TextKey, BytesKey or
// WrappedKey. The interface is sealed so a switch over the variants is complete.
type Key interface {
	Rawable
	Shape() KeyShape
	isKey()
}

type TextKey string

func (key TextKey) Raw() []byte     { return []byte(key) }
func (key TextKey) Shape() KeyShape { return KeyShapeText }
func (key TextKey) String() string  { return string(key) }
func (TextKey) isKey()              {}

type BytesKey []byte

func (key BytesKey) Raw() []byte     { return key }
func (key BytesKey) Shape() KeyShape { return KeyShapeBytes }
func (key BytesKey) String() string  { return string(key) }
func (BytesKey) isKey()              {}

// WrappedKey carries a caller-defined Rawable as a key.
type WrappedKey struct {
	Value Rawable
}

func (key WrappedKey) Raw() []byte     { return key.Value.Raw() }
func (key WrappedKey) Shape() KeyShape { return KeyShapeWrapped }
func (key WrappedKey) String() string  { return string(key.Value.Raw()) }
func (WrappedKey) isKey()              {}

// NewKey converts a dynamically typed key into a Key. A string, a []byte, a
// Rawable or an existing Key are accepted; any other value, nil included, is
// rejected with an error wrapping ErrInvalidKey.
func NewKey(value interface{}) (Key, error) {
	switch v := value.(type) {
	case Key:
		return v, nil
	case string:
		return TextKey(v), nil
	case []byte:
		return BytesKey(v), nil
	case Rawable:
		return WrappedKey{Value: v}, nil
	default:
		return nil, newInvalidKeyError(value)
	}
}

// keyValue returns the key in the shape it was supplied in: string, []byte or Rawable.
func keyValue(key Key) interface{} {
	switch k := key.(type) {
	case TextKey:
		return string(k)
	case BytesKey:
		return []byte(k)
	case WrappedKey:
		return k.Value
	}
	return nil
}

func TextKeys(keys ...string) []Key {
	result := make([]Key, 0, len(keys))
	for _, key := range keys {
		result = append(result, TextKey(key))
	}
	return result
}

func BytesKeys(keys ...[]byte) []Key {
	result := make([]Key, 0, len(keys))
	for _, key := range keys {
		result = append(result, BytesKey(key))
	}
	return result
}
