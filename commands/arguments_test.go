package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestArgumentsAppendsInOrder(t *testing.T) {
	arguments := NewArguments("SET").Key("key").Add("value").Add(10).Add(1.5).Add(true).Add([]byte{0x00})
	assert.Nil(t, arguments.Err())
	assert.Equal(t, "SET", arguments.Command())
	assert.Equal(t, 7, arguments.Len())
	expected := []struct {
		raw   string
		isKey bool
	}{
		{"key", true},
		{"value", false},
		{"10", false},
		{"1.5", false},
		{"1", false},
		{"\x00", false},
	}
	for index, item := range expected {
		assert.Equal(t, item.raw, string(arguments.Get(index).Raw()))
		assert.Equal(t, item.isKey, arguments.Get(index).IsKey())
	}
	assert.Equal(t, [][]byte{[]byte("key")}, arguments.KeyArgs())
}

func TestArgumentsAcceptsStringer(t *testing.T) {
	arguments := NewArguments("EXPIRE").Key("k").Add(time.Second)
	assert.Nil(t, arguments.Err())
	assert.Equal(t, "1s", arguments.Get(1).String())
}

func TestArgumentsRejectsWithoutMutation(t *testing.T) {
	arguments := NewArguments("DEL").Key("a")
	arguments.Key(12)
	assert.ErrorIs(t, arguments.Err(), ErrInvalidKey)
	assert.Equal(t, 2, arguments.Len())

	// later appends are ignored and the first error stays
	arguments.Add(nil).Key("b")
	assert.ErrorIs(t, arguments.Err(), ErrInvalidKey)
	assert.Equal(t, 2, arguments.Len())

	plain := NewArguments("ECHO").Add(nil)
	assert.ErrorIs(t, plain.Err(), ErrInvalidArgument)
	assert.Equal(t, 1, plain.Len())

	plain = NewArguments("ECHO").Add(map[string]string{})
	assert.ErrorIs(t, plain.Err(), ErrInvalidArgument)
	assert.Equal(t, 1, plain.Len())
}

func TestArgumentsKeyTransformOnlyTouchesKeys(t *testing.T) {
	arguments := newArgumentsWithTransform("SET", NewPrefix("tenant1:").KeyTransform()).Key("key").Add("key")
	assert.Nil(t, arguments.Err())
	assert.Equal(t, "SET tenant1:key key", arguments.String())
	assert.Equal(t, []interface{}{"SET", "tenant1:key", "key"}, arguments.Interfaces())
}

func TestArgumentsHashSlots(t *testing.T) {
	keyless := NewArguments("PING")
	assert.True(t, keyless.IsKeyless())
	_, err := keyless.HashSlot()
	assert.ErrorIs(t, err, ErrKeyless)

	single := NewArguments("MGET").Keys("{a}1", []byte("{a}2"))
	slot, err := single.HashSlot()
	assert.Nil(t, err)
	assert.Equal(t, Slot([]byte("a")), slot)
	assert.Equal(t, []int{slot}, single.HashSlots())

	cross := NewArguments("MGET").Keys("foo", "somekey")
	assert.Equal(t, []int{11058, 12182}, cross.HashSlots())
	_, err = cross.HashSlot()
	assert.ErrorIs(t, err, ErrCrossSlot)
}

func TestArgumentsAddHashSlotKey(t *testing.T) {
	arguments := NewArguments("PING").AddHashSlotKey("foo")
	assert.False(t, arguments.IsKeyless())
	assert.Equal(t, 1, arguments.Len())
	assert.Equal(t, []int{12182}, arguments.HashSlots())

	prefixed := newArgumentsWithTransform("PING", NewPrefix("{hash_tag}").KeyTransform()).AddHashSlotKey("foo")
	assert.Equal(t, []int{2515}, prefixed.HashSlots())

	invalid := NewArguments("PING").AddHashSlotKey(1)
	assert.ErrorIs(t, invalid.Err(), ErrInvalidKey)
}

func TestArgumentsArgsIsACopy(t *testing.T) {
	arguments := NewArguments("GET").Key("k")
	args := arguments.Args()
	args[0] = Argument{raw: []byte("other")}
	assert.Equal(t, "GET k", arguments.String())
	assert.False(t, arguments.IsBlocking())
	assert.True(t, arguments.Blocking().IsBlocking())
}
