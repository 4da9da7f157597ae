package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClusterBuilderKeys(t *testing.T) {
	builder := NewClusterBuilder()
	object, err := builder.Keys(TextKey("{user}:*"))
	assertCommandLine(t, "KEYS {user}:*", object, err)

	_, err = builder.Keys(TextKey("user:*"))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// the check runs on the prefixed pattern
	prefixed := NewClusterBuilder(WithKeyPrefix(NewPrefix("{tenant1}:")))
	object, err = prefixed.Keys(TextKey("*"))
	assertCommandLine(t, "KEYS {tenant1}:*", object, err)
}

func TestClusterBuilderScan(t *testing.T) {
	builder := NewClusterBuilder()
	_, err := builder.Scan("0", ScanOptions{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = builder.Scan("0", ScanOptions{Match: TextKey("*")})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	object, err := builder.Scan("0", ScanOptions{Match: TextKey("{a}*"), Count: 5})
	assertCommandLine(t, "SCAN 0 MATCH {a}* COUNT 5", object, err)
}

func TestClusterBuilderInheritsBuilder(t *testing.T) {
	builder := NewClusterBuilder(WithKeyPrefix(NewPrefix("p:")))
	object, err := builder.Get(TextKey("k"))
	assertCommandLine(t, "GET p:k", object, err)
}

func TestClusterBuilderMultiShard(t *testing.T) {
	builder := NewClusterBuilder()
	objects, err := builder.DelMultiShard(TextKey("{a}1"), TextKey("{b}1"), TextKey("{a}2"), TextKey("{b}2"), TextKey("{c}"))
	assert.Nil(t, err)
	if assert.Len(t, objects, 3) {
		assert.Equal(t, "DEL {a}1 {a}2", objects[0].String())
		assert.Equal(t, "DEL {b}1 {b}2", objects[1].String())
		assert.Equal(t, "DEL {c}", objects[2].String())
	}
	for _, object := range objects {
		_, err := object.Arguments().HashSlot()
		assert.Nil(t, err)
	}

	objects, err = builder.ExistsMultiShard()
	assert.Nil(t, err)
	assert.Len(t, objects, 0)

	_, err = builder.UnlinkMultiShard(TextKey("a"), nil)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestClusterBuilderMultiShardGroupsByPrefixedSlot(t *testing.T) {
	// with a hash-tagged prefix every key lands in the prefix slot
	builder := NewClusterBuilder(WithKeyPrefix(NewPrefix("{tenant}:")))
	objects, err := builder.TouchMultiShard(TextKey("foo"), TextKey("somekey"))
	assert.Nil(t, err)
	if assert.Len(t, objects, 1) {
		assert.Equal(t, "TOUCH {tenant}:foo {tenant}:somekey", objects[0].String())
	}

	plain := NewClusterBuilder(WithKeyPrefix(NewPrefix("tenant:")))
	objects, err = plain.TouchMultiShard(TextKey("{x}1"), TextKey("{y}1"))
	assert.Nil(t, err)
	assert.Len(t, objects, 2)
}

func TestClusterBuilderMSetMultiShard(t *testing.T) {
	builder := NewClusterBuilder(WithKeyPrefix(NewPrefix("p:")))
	objects, err := builder.MSetMultiShard("{a}1", "v1", "{b}1", 2, []byte("{a}2"), "v3")
	assert.Nil(t, err)
	if assert.Len(t, objects, 2) {
		assert.Equal(t, "MSET p:{a}1 v1 p:{a}2 v3", objects[0].String())
		assert.Equal(t, "MSET p:{b}1 2", objects[1].String())
	}

	_, err = builder.MSetMultiShard("a", "v", "b")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = builder.MSetMultiShard(1, "v")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestCheckClusterCommand(t *testing.T) {
	cases := []struct {
		prefix string
		line   string
		err    error
	}{
		{"t:", "get a", nil},
		{"t:", "ping", nil},
		{"t:", "mget {x}a {x}b", nil},
		{"t:", "mget a b", ErrCrossSlot},
		{"{t}:", "mget a b", nil},
		{"t:", "keys {user}:*", nil},
		{"t:", "keys user:*", errKeysPatternNotCompliant},
		{"{t}:", "keys user:*", nil},
		{"t:", "scan 0", errScanPatternNotCompliant},
		{"t:", "scan 0 count 10 match {user}:*", nil},
		{"t:", "scan 0 match user:*", errScanPatternNotCompliant},
	}
	for _, c := range cases {
		command, err := ParseCommand(NewBuilder(WithKeyPrefix(NewPrefix(c.prefix))), toArgs(c.line))
		if assert.Nil(t, err, c.line) {
			assert.Equal(t, c.err, CheckClusterCommand(command), c.line)
		}
	}
}
