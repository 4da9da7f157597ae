package commands

import (
	"fmt"
	"sort"
	"strings"
)

// Argument is one token after the command: its bytes and whether it is a key.
type Argument struct {
	raw   []byte
	isKey bool
}

func (arg Argument) Raw() []byte {
	return arg.raw
}

func (arg Argument) IsKey() bool {
	return arg.isKey
}

func (arg Argument) String() string {
	return string(arg.raw)
}

// Arguments is one command invocation under construction: the command token
// followed by ordered arguments, each tagged key or plain.
//
// Builder methods chain. The first failing append is remembered and returned
// by Err; the failing value is not appended and later appends are ignored.
type Arguments struct {
	command   string
	args      []Argument
	slotKeys  [][]byte
	transform KeyTransform
	blocking  bool
	err       error
}

func NewArguments(command string) *Arguments {
	return &Arguments{command: command}
}

// newArgumentsWithTransform is the single place a KeyTransform gets attached.
func newArgumentsWithTransform(command string, transform KeyTransform) *Arguments {
	return &Arguments{command: command, transform: transform}
}

func (arguments *Arguments) Command() string {
	return arguments.command
}

func (arguments *Arguments) Err() error {
	return arguments.err
}

func (arguments *Arguments) setErr(err error) *Arguments {
	if arguments.err == nil {
		arguments.err = err
	}
	return arguments
}

// Add appends a plain argument. Strings, []byte, Rawable, integers, floats,
// booleans and fmt.Stringer values are accepted; nil is rejected.
func (arguments *Arguments) Add(arg interface{}) *Arguments {
	if arguments.err != nil {
		return arguments
	}
	raw, err := encodeArgument(arg)
	if err != nil {
		return arguments.setErr(err)
	}
	arguments.args = append(arguments.args, Argument{raw: raw})
	return arguments
}

func (arguments *Arguments) AddObjects(args ...interface{}) *Arguments {
	for _, arg := range args {
		arguments.Add(arg)
	}
	return arguments
}

// Key appends a key-tagged argument after running it through the key
// transform. value must be a string, a []byte, a Rawable or a Key.
func (arguments *Arguments) Key(value interface{}) *Arguments {
	if arguments.err != nil {
		return arguments
	}
	key, err := NewKey(value)
	if err != nil {
		return arguments.setErr(err)
	}
	if arguments.transform != nil {
		if key, err = arguments.transform(key); err != nil {
			return arguments.setErr(err)
		}
	}
	raw := key.Raw()
	arguments.args = append(arguments.args, Argument{raw: raw, isKey: true})
	arguments.slotKeys = append(arguments.slotKeys, raw)
	return arguments
}

func (arguments *Arguments) Keys(values ...interface{}) *Arguments {
	for _, value := range values {
		arguments.Key(value)
	}
	return arguments
}

func (arguments *Arguments) KeyList(keys []Key) *Arguments {
	for _, key := range keys {
		arguments.Key(key)
	}
	return arguments
}

// AddHashSlotKey makes value count for slot computation without appending a
// token. The key transform is applied, as for Key.
func (arguments *Arguments) AddHashSlotKey(value interface{}) *Arguments {
	if arguments.err != nil {
		return arguments
	}
	key, err := NewKey(value)
	if err != nil {
		return arguments.setErr(err)
	}
	if arguments.transform != nil {
		if key, err = arguments.transform(key); err != nil {
			return arguments.setErr(err)
		}
	}
	arguments.slotKeys = append(arguments.slotKeys, key.Raw())
	return arguments
}

func (arguments *Arguments) Blocking() *Arguments {
	arguments.blocking = true
	return arguments
}

func (arguments *Arguments) IsBlocking() bool {
	return arguments.blocking
}

// Len counts the command token and every argument.
func (arguments *Arguments) Len() int {
	return len(arguments.args) + 1
}

// Get returns the argument at index, where index 0 is the first argument after the command.
func (arguments *Arguments) Get(index int) Argument {
	return arguments.args[index]
}

func (arguments *Arguments) Args() []Argument {
	args := make([]Argument, len(arguments.args))
	copy(args, arguments.args)
	return args
}

// KeyArgs returns the raw bytes of every key-tagged argument, in order.
func (arguments *Arguments) KeyArgs() [][]byte {
	keys := make([][]byte, 0, len(arguments.args))
	for _, arg := range arguments.args {
		if arg.isKey {
			keys = append(keys, arg.raw)
		}
	}
	return keys
}

func (arguments *Arguments) IsKeyless() bool {
	return len(arguments.slotKeys) == 0
}

// HashSlots returns the distinct slots of the key-tagged values, sorted.
func (arguments *Arguments) HashSlots() []int {
	seen := make(map[int]struct{}, len(arguments.slotKeys))
	slots := make([]int, 0, len(arguments.slotKeys))
	for _, key := range arguments.slotKeys {
		slot := Slot(key)
		if _, ok := seen[slot]; ok {
			continue
		}
		seen[slot] = struct{}{}
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	return slots
}

// HashSlot returns the one slot every key hashes to.
func (arguments *Arguments) HashSlot() (int, error) {
	slots := arguments.HashSlots()
	switch len(slots) {
	case 0:
		return 0, ErrKeyless
	case 1:
		return slots[0], nil
	default:
		return 0, ErrCrossSlot
	}
}

// Interfaces returns the invocation in the form go-redis commands take.
// Every argument is a string: go-redis writes strings byte for byte and its
// cluster router only hashes string arguments as they are.
func (arguments *Arguments) Interfaces() []interface{} {
	result := make([]interface{}, 0, arguments.Len())
	result = append(result, arguments.command)
	for _, arg := range arguments.args {
		result = append(result, string(arg.raw))
	}
	return result
}

func (arguments *Arguments) String() string {
	parts := make([]string, 0, arguments.Len())
	parts = append(parts, arguments.command)
	for _, arg := range arguments.args {
		parts = append(parts, string(arg.raw))
	}
	return strings.Join(parts, " ")
}

func encodeArgument(arg interface{}) ([]byte, error) {
	switch v := arg.(type) {
	case nil:
		return nil, errNullArgument
	case Rawable:
		return v.Raw(), nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case bool:
		return RawableFromBool(v).Raw(), nil
	case int:
		return RawableFromInt(v).Raw(), nil
	case int8:
		return RawableFromInt64(int64(v)).Raw(), nil
	case int16:
		return RawableFromInt64(int64(v)).Raw(), nil
	case int32:
		return RawableFromInt64(int64(v)).Raw(), nil
	case int64:
		return RawableFromInt64(v).Raw(), nil
	case uint:
		return RawableFromUint64(uint64(v)).Raw(), nil
	case uint8:
		return RawableFromUint64(uint64(v)).Raw(), nil
	case uint16:
		return RawableFromUint64(uint64(v)).Raw(), nil
	case uint32:
		return RawableFromUint64(uint64(v)).Raw(), nil
	case uint64:
		return RawableFromUint64(v).Raw(), nil
	case float32:
		return RawableFromFloat64(float64(v)).Raw(), nil
	case float64:
		return RawableFromFloat64(v).Raw(), nil
	case fmt.Stringer:
		return []byte(v.String()), nil
	default:
		return nil, fmt.Errorf("%w: \"%v\" of type %T", ErrInvalidArgument, arg, arg)
	}
}
