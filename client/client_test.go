package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"bytepower_keyspace/base"
	"bytepower_keyspace/base/log"
	"bytepower_keyspace/commands"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPrefix = commands.NewPrefix("tenant1:")

func newTestClient(t *testing.T, options ...Option) (*Client, *miniredis.Miniredis) {
	server := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { redisClient.Close() })
	dep := base.Dependency{
		Redis:  redisClient,
		Logger: log.NewNopLogger(),
		Metric: base.NewMutedMetricClient(),
	}
	client, err := NewClient(commands.NewBuilder(commands.WithKeyPrefix(testPrefix)), dep, options...)
	require.Nil(t, err)
	return client, server
}

type failingProcessor struct {
	err   error
	calls int
}

func (processor *failingProcessor) Process(ctx context.Context, cmd redis.Cmder) error {
	processor.calls++
	cmd.SetErr(processor.err)
	return processor.err
}

type recordingProcessor struct {
	args []interface{}
}

func (processor *recordingProcessor) Process(ctx context.Context, cmd redis.Cmder) error {
	processor.args = cmd.Args()
	cmd.SetErr(redis.Nil)
	return redis.Nil
}

func TestExecuteSendsKeysAsStrings(t *testing.T) {
	processor := &recordingProcessor{}
	builder := commands.NewBuilder(commands.WithKeyPrefix(testPrefix))
	cases := []struct {
		object   func() (*commands.CommandObject[string], error)
		expected []interface{}
		slotKey  string
	}{
		{
			func() (*commands.CommandObject[string], error) { return builder.Get(commands.TextKey("user:42")) },
			[]interface{}{"GET", "tenant1:user:42"}, "tenant1:user:42",
		},
		{
			func() (*commands.CommandObject[string], error) { return builder.Get(commands.BytesKey("{user}:42")) },
			[]interface{}{"GET", "tenant1:{user}:42"}, "user",
		},
	}
	for _, c := range cases {
		object, err := c.object()
		require.Nil(t, err)
		_, err = Execute(context.Background(), processor, object)
		assert.Equal(t, redis.Nil, err)
		assert.Equal(t, c.expected, processor.args)
		// cluster routing hashes the text of the first key argument
		key, ok := processor.args[1].(string)
		if assert.True(t, ok) {
			assert.Equal(t, commands.Slot([]byte(c.slotKey)), commands.Slot([]byte(key)))
			assert.Equal(t, commands.KeySlot(commands.TextKey(c.expected[1].(string))), commands.Slot([]byte(key)))
		}
	}
}

func TestNewClientChecksDependency(t *testing.T) {
	_, err := NewClient(commands.NewBuilder(), base.Dependency{})
	assert.Equal(t, base.ErrDepRedisNull, err)
}

func TestClientStoresKeysUnderPrefix(t *testing.T) {
	client, server := newTestClient(t)
	ctx := context.Background()

	ok, err := client.Set(ctx, commands.TextKey("key"), "value", commands.SetOptions{})
	assert.Nil(t, err)
	assert.True(t, ok)
	stored, err := server.Get("tenant1:key")
	assert.Nil(t, err)
	assert.Equal(t, "value", stored)
	assert.False(t, server.Exists("key"))

	value, err := client.Get(ctx, commands.TextKey("key"))
	assert.Nil(t, err)
	assert.Equal(t, "value", value)

	_, err = client.Get(ctx, commands.TextKey("missing"))
	assert.Equal(t, redis.Nil, err)

	value, err = client.Get(ctx, commands.BytesKey("key"))
	assert.Nil(t, err)
	assert.Equal(t, "value", value)
}

func TestClientSetOptions(t *testing.T) {
	client, server := newTestClient(t)
	ctx := context.Background()

	ok, err := client.Set(ctx, commands.TextKey("k"), "1", commands.SetOptions{ExistMode: commands.KeyExistModeNX, Expiration: time.Minute})
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, server.TTL("tenant1:k"))

	ok, err = client.Set(ctx, commands.TextKey("k"), "2", commands.SetOptions{ExistMode: commands.KeyExistModeNX})
	assert.Nil(t, err)
	assert.False(t, ok)

	ttl, err := client.TTL(ctx, commands.TextKey("k"))
	assert.Nil(t, err)
	assert.Equal(t, int64(60), ttl)
}

func TestClientServerErrorIsDecoded(t *testing.T) {
	client, server := newTestClient(t)
	ctx := context.Background()
	require.Nil(t, server.Set("tenant1:text", "abc"))

	_, err := client.Incr(ctx, commands.TextKey("text"))
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "not an integer")

	count, err := client.Incr(ctx, commands.TextKey("counter"))
	assert.Nil(t, err)
	assert.Equal(t, int64(1), count)
}

func TestExecuteReturnsTransportError(t *testing.T) {
	transportErr := errors.New("dial tcp: connection refused")
	processor := &failingProcessor{err: transportErr}
	decoded := false
	arguments := commands.NewBuilder(commands.WithKeyPrefix(testPrefix)).Arguments("GET").Key("k")
	object, err := commands.NewCommandObject(arguments, func(reply commands.RESPData) (string, error) {
		decoded = true
		return "", nil
	})
	require.Nil(t, err)

	_, err = Execute(context.Background(), processor, object)
	assert.Equal(t, transportErr, err)
	assert.Equal(t, 1, processor.calls)
	assert.False(t, decoded)
}

func TestClientBuilderErrorSkipsProcessor(t *testing.T) {
	client, _ := newTestClient(t)
	processor := &failingProcessor{err: errors.New("should not be called")}
	client.processor = processor

	_, err := client.RPush(context.Background(), commands.TextKey("list"))
	assert.NotNil(t, err)
	assert.Equal(t, 0, processor.calls)
}

func TestClientMultiKeyCommands(t *testing.T) {
	client, server := newTestClient(t)
	ctx := context.Background()

	status, err := client.MSet(ctx, "a", "1", commands.BytesKey("b"), "2")
	assert.Nil(t, err)
	assert.Equal(t, "OK", status)
	assert.True(t, server.Exists("tenant1:a"))
	assert.True(t, server.Exists("tenant1:b"))

	values, err := client.MGet(ctx, commands.TextKeys("a", "b", "c")...)
	assert.Nil(t, err)
	assert.Equal(t, []string{"1", "2", ""}, values)

	count, err := client.Exists(ctx, commands.TextKeys("a", "b", "c")...)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), count)

	keys, err := client.Keys(ctx, commands.TextKey("*"))
	assert.Nil(t, err)
	assert.ElementsMatch(t, []string{"tenant1:a", "tenant1:b"}, keys)

	count, err = client.Del(ctx, commands.TextKeys("a", "b")...)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), count)
}

func TestClientScanStaysInNamespace(t *testing.T) {
	client, server := newTestClient(t)
	ctx := context.Background()
	require.Nil(t, server.Set("tenant1:user:1", "a"))
	require.Nil(t, server.Set("tenant1:user:2", "b"))
	require.Nil(t, server.Set("tenant2:user:3", "c"))
	require.Nil(t, server.Set("user:4", "d"))

	result, err := client.Scan(ctx, "0", commands.ScanOptions{Match: commands.TextKey("user:*"), Count: 100})
	assert.Nil(t, err)
	assert.Equal(t, "0", result.Cursor)
	assert.ElementsMatch(t, []string{"tenant1:user:1", "tenant1:user:2"}, result.Items)
}

func TestClientCollections(t *testing.T) {
	client, server := newTestClient(t)
	ctx := context.Background()

	n, err := client.HSet(ctx, commands.TextKey("h"), "f1", "v1", "f2", "v2")
	assert.Nil(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, "v1", server.HGet("tenant1:h", "f1"))
	hash, err := client.HGetAll(ctx, commands.TextKey("h"))
	assert.Nil(t, err)
	assert.Equal(t, map[string]string{"f1": "v1", "f2": "v2"}, hash)

	n, err = client.RPush(ctx, commands.TextKey("l"), "x", "y")
	assert.Nil(t, err)
	assert.Equal(t, int64(2), n)
	list, err := client.LRange(ctx, commands.TextKey("l"), 0, -1)
	assert.Nil(t, err)
	assert.Equal(t, []string{"x", "y"}, list)

	popped, err := client.BLPop(ctx, time.Second, commands.TextKeys("empty", "l")...)
	assert.Nil(t, err)
	assert.Equal(t, &commands.KeyedString{Key: "tenant1:l", Value: "x"}, popped)

	n, err = client.SAdd(ctx, commands.TextKey("s"), "m1", "m2", "m1")
	assert.Nil(t, err)
	assert.Equal(t, int64(2), n)
	members, err := client.SMembers(ctx, commands.TextKey("s"))
	assert.Nil(t, err)
	assert.Equal(t, map[string]struct{}{"m1": {}, "m2": {}}, members)

	n, err = client.ZAdd(ctx, commands.TextKey("z"), commands.Z{Member: "b", Score: 2}, commands.Z{Member: "a", Score: 1.5})
	assert.Nil(t, err)
	assert.Equal(t, int64(2), n)
	zs, err := client.ZRangeWithScores(ctx, commands.TextKey("z"), 0, -1)
	assert.Nil(t, err)
	assert.Equal(t, []commands.Z{{Member: "a", Score: 1.5}, {Member: "b", Score: 2}}, zs)
}

func TestClientEvalPrefixesKeysOnly(t *testing.T) {
	client, server := newTestClient(t)
	ctx := context.Background()
	require.Nil(t, server.Set("tenant1:k", "v"))

	reply, err := client.Eval(ctx, "return {KEYS[1], ARGV[1], redis.call('GET', KEYS[1])}", commands.TextKeys("k"), "arg")
	assert.Nil(t, err)
	assert.Equal(t, commands.NewArray(
		commands.NewBulkString("tenant1:k"),
		commands.NewBulkString("arg"),
		commands.NewBulkString("v"),
	), reply)
}

func TestClientDo(t *testing.T) {
	client, server := newTestClient(t)
	ctx := context.Background()

	reply, err := client.Do(ctx, "SET", "k", "v")
	assert.Nil(t, err)
	assert.Equal(t, commands.NewSimpleString("OK"), reply)
	assert.True(t, server.Exists("tenant1:k"))

	reply, err = client.Do(ctx, "get", "k")
	assert.Nil(t, err)
	assert.Equal(t, commands.NewBulkString("v"), reply)

	reply, err = client.Do(ctx, "get", "missing")
	assert.Nil(t, err)
	assert.Equal(t, commands.NewNil(), reply)

	reply, err = client.Do(ctx, "type", "k")
	assert.Nil(t, err)
	assert.Equal(t, commands.NewSimpleString("string"), reply)

	reply, err = client.Do(ctx, "lpush", "k", "x")
	assert.Nil(t, err)
	assert.Equal(t, commands.ErrorRespType, reply.DataType)
	assert.Contains(t, reply.Err().Error(), "WRONGTYPE")

	_, err = client.Do(ctx, "flushall")
	assert.NotNil(t, err)
	assert.True(t, server.Exists("tenant1:k"))

	_, err = client.Do(ctx, "get")
	assert.NotNil(t, err)
}

func TestClientDelMultiShard(t *testing.T) {
	client, server := newTestClient(t)
	ctx := context.Background()
	for _, key := range []string{"a", "b", "c", "{tag}1", "{tag}2"} {
		require.Nil(t, server.Set("tenant1:"+key, "1"))
	}
	builder := commands.NewClusterBuilder(commands.WithKeyPrefix(testPrefix))

	total, err := client.DelMultiShard(ctx, builder, commands.TextKeys("a", "b", "c", "{tag}1", "{tag}2", "missing")...)
	assert.Nil(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, server.Keys())
}

func TestExecuteAllCollectsErrors(t *testing.T) {
	transportErr := errors.New("connection reset")
	builder := commands.NewClusterBuilder(commands.WithKeyPrefix(testPrefix))
	objects, err := builder.ExistsMultiShard(commands.TextKeys("a", "b")...)
	require.Nil(t, err)
	processor := &failingProcessor{err: transportErr}

	results, err := ExecuteAll(context.Background(), processor, objects)
	assert.NotNil(t, err)
	assert.Len(t, results, len(objects))
	assert.Equal(t, len(objects), processor.calls)
}
