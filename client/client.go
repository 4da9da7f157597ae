package client

import (
	"context"
	"strings"
	"time"

	"bytepower_keyspace/base"
	"bytepower_keyspace/base/log"
	"bytepower_keyspace/commands"

	"github.com/go-redis/redis/v8"
	"go.uber.org/multierr"
)

const (
	clientCommandDurationMetricKey = "client.command.duration"
	clientCommandErrorMetricKey    = "client.command.error"
)

// Processor sends one command upstream. go-redis v8 clients satisfy it.
type Processor interface {
	Process(ctx context.Context, cmd redis.Cmder) error
}

// Execute sends object and decodes its reply once. Error replies and nil
// replies reach the decoder; transport errors are returned as they are.
func Execute[T any](ctx context.Context, processor Processor, object *commands.CommandObject[T]) (T, error) {
	cmd := redis.NewCmd(ctx, object.Arguments().Interfaces()...)
	if err := processor.Process(ctx, cmd); err != nil && !commands.IsServerError(err) {
		var zero T
		return zero, err
	}
	return object.Decode(commands.ConvertCmdResultToRESPData(cmd))
}

// ExecuteAll runs every object even when some fail. The result at index i
// belongs to objects[i] and is the zero value when that object failed.
func ExecuteAll[T any](ctx context.Context, processor Processor, objects []*commands.CommandObject[T]) ([]T, error) {
	results := make([]T, len(objects))
	var errs error
	for i, object := range objects {
		result, err := Execute(ctx, processor, object)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		results[i] = result
	}
	return results, errs
}

type Option func(*Client)

// WithCommandInfoSource lets Do accept commands outside the built-in table.
func WithCommandInfoSource(source commands.CommandInfoSource) Option {
	return func(client *Client) {
		client.infoSource = source
	}
}

// WithBlockingProcessor routes blocking commands such as BLPOP to processor,
// usually a client configured without a read timeout.
func WithBlockingProcessor(processor Processor) Option {
	return func(client *Client) {
		client.blockingProcessor = processor
	}
}

// Client executes commands built by its builder, so every key it sends is
// inside the builder's namespace.
type Client struct {
	builder           *commands.Builder
	parser            *commands.Parser
	infoSource        commands.CommandInfoSource
	processor         Processor
	blockingProcessor Processor
	logger            *log.Logger
	metric            *base.MetricClient
}

func NewClient(builder *commands.Builder, dep base.Dependency, options ...Option) (*Client, error) {
	if err := dep.Check(); err != nil {
		return nil, err
	}
	client := &Client{
		builder:   builder,
		processor: dep.Redis,
		logger:    dep.Logger,
		metric:    dep.Metric,
	}
	for _, option := range options {
		option(client)
	}
	client.parser = commands.NewParser(builder, client.infoSource)
	return client, nil
}

func (client *Client) Builder() *commands.Builder {
	return client.builder
}

func run[T any](ctx context.Context, client *Client, object *commands.CommandObject[T], err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	processor := client.processor
	if object.Arguments().IsBlocking() && client.blockingProcessor != nil {
		processor = client.blockingProcessor
	}
	startTime := time.Now()
	result, err := Execute(ctx, processor, object)
	duration := time.Since(startTime)
	client.metric.MetricTimeDuration(clientCommandDurationMetricKey, duration)
	if err != nil && err != redis.Nil {
		client.metric.MetricIncrease(clientCommandErrorMetricKey)
	}
	if client.logger.Enabled(log.LevelDebug) {
		client.logger.Debug(
			"execute command",
			log.String("command", object.String()),
			log.Duration("duration", duration),
			log.Error(err),
		)
	}
	return result, err
}

// Do parses a raw command line, prefixes its keys and returns the reply
// without decoding it.
func (client *Client) Do(ctx context.Context, args ...string) (commands.RESPData, error) {
	raw := make([][]byte, 0, len(args))
	for _, arg := range args {
		raw = append(raw, []byte(arg))
	}
	command, err := client.Parse(ctx, raw)
	if err != nil {
		return commands.RESPData{}, err
	}
	return client.RunCommand(ctx, command)
}

func (client *Client) Parse(ctx context.Context, args [][]byte) (*commands.Command, error) {
	return client.parser.Parse(ctx, args)
}

// RunCommand executes a parsed command line. Error replies come back as
// RESPData; only transport errors are returned as errors.
func (client *Client) RunCommand(ctx context.Context, command *commands.Command) (commands.RESPData, error) {
	object, err := commands.NewCommandObject(command.Arguments, commands.RawDecoder)
	reply, err := run(ctx, client, object, err)
	if err != nil {
		return reply, err
	}
	return command.WireReply(reply), nil
}

func (client *Client) Ping(ctx context.Context) (string, error) {
	object, err := client.builder.Ping()
	return run(ctx, client, object, err)
}

func (client *Client) Get(ctx context.Context, key commands.Key) (string, error) {
	object, err := client.builder.Get(key)
	return run(ctx, client, object, err)
}

func (client *Client) Set(ctx context.Context, key commands.Key, value interface{}, options commands.SetOptions) (bool, error) {
	object, err := client.builder.Set(key, value, options)
	return run(ctx, client, object, err)
}

func (client *Client) Incr(ctx context.Context, key commands.Key) (int64, error) {
	object, err := client.builder.Incr(key)
	return run(ctx, client, object, err)
}

func (client *Client) MGet(ctx context.Context, keys ...commands.Key) ([]string, error) {
	object, err := client.builder.MGet(keys...)
	return run(ctx, client, object, err)
}

func (client *Client) MSet(ctx context.Context, keysValues ...interface{}) (string, error) {
	object, err := client.builder.MSet(keysValues...)
	return run(ctx, client, object, err)
}

func (client *Client) Del(ctx context.Context, keys ...commands.Key) (int64, error) {
	object, err := client.builder.Del(keys...)
	return run(ctx, client, object, err)
}

func (client *Client) Exists(ctx context.Context, keys ...commands.Key) (int64, error) {
	object, err := client.builder.Exists(keys...)
	return run(ctx, client, object, err)
}

func (client *Client) Expire(ctx context.Context, key commands.Key, expiration time.Duration) (bool, error) {
	object, err := client.builder.Expire(key, expiration)
	return run(ctx, client, object, err)
}

func (client *Client) TTL(ctx context.Context, key commands.Key) (int64, error) {
	object, err := client.builder.TTL(key)
	return run(ctx, client, object, err)
}

// Keys returns the matching keys as stored, prefix included.
func (client *Client) Keys(ctx context.Context, pattern commands.Key) ([]string, error) {
	object, err := client.builder.Keys(pattern)
	return run(ctx, client, object, err)
}

func (client *Client) Scan(ctx context.Context, cursor string, options commands.ScanOptions) (commands.ScanResult, error) {
	object, err := client.builder.Scan(cursor, options)
	return run(ctx, client, object, err)
}

func (client *Client) HSet(ctx context.Context, key commands.Key, fieldsValues ...interface{}) (int64, error) {
	object, err := client.builder.HSet(key, fieldsValues...)
	return run(ctx, client, object, err)
}

func (client *Client) HGetAll(ctx context.Context, key commands.Key) (map[string]string, error) {
	object, err := client.builder.HGetAll(key)
	return run(ctx, client, object, err)
}

func (client *Client) RPush(ctx context.Context, key commands.Key, elements ...interface{}) (int64, error) {
	object, err := client.builder.RPush(key, elements...)
	return run(ctx, client, object, err)
}

func (client *Client) LRange(ctx context.Context, key commands.Key, start, stop int64) ([]string, error) {
	object, err := client.builder.LRange(key, start, stop)
	return run(ctx, client, object, err)
}

func (client *Client) BLPop(ctx context.Context, timeout time.Duration, keys ...commands.Key) (*commands.KeyedString, error) {
	object, err := client.builder.BLPop(timeout, keys...)
	return run(ctx, client, object, err)
}

func (client *Client) SAdd(ctx context.Context, key commands.Key, members ...interface{}) (int64, error) {
	object, err := client.builder.SAdd(key, members...)
	return run(ctx, client, object, err)
}

func (client *Client) SMembers(ctx context.Context, key commands.Key) (map[string]struct{}, error) {
	object, err := client.builder.SMembers(key)
	return run(ctx, client, object, err)
}

func (client *Client) ZAdd(ctx context.Context, key commands.Key, members ...commands.Z) (int64, error) {
	object, err := client.builder.ZAdd(key, members...)
	return run(ctx, client, object, err)
}

func (client *Client) ZRangeWithScores(ctx context.Context, key commands.Key, start, stop int64) ([]commands.Z, error) {
	object, err := client.builder.ZRangeWithScores(key, start, stop)
	return run(ctx, client, object, err)
}

func (client *Client) Eval(ctx context.Context, script string, keys []commands.Key, args ...interface{}) (commands.RESPData, error) {
	object, err := client.builder.Eval(script, keys, args...)
	return run(ctx, client, object, err)
}

// DelMultiShard deletes keys spread over several slots with one DEL per
// slot and returns the total number of removed keys.
func (client *Client) DelMultiShard(ctx context.Context, builder *commands.ClusterBuilder, keys ...commands.Key) (int64, error) {
	objects, err := builder.DelMultiShard(keys...)
	if err != nil {
		return 0, err
	}
	counts, err := ExecuteAll(ctx, client.processor, objects)
	var total int64
	for _, count := range counts {
		total += count
	}
	if err != nil {
		client.logger.Warn(
			"multi shard del partially failed",
			log.String("keys", strings.Join(keyStrings(keys), " ")),
			log.Error(err),
		)
	}
	return total, err
}

func keyStrings(keys []commands.Key) []string {
	result := make([]string, 0, len(keys))
	for _, key := range keys {
		if key != nil {
			result = append(result, string(key.Raw()))
		}
	}
	return result
}
