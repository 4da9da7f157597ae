package base

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bytepower_keyspace/base/log"
	"bytepower_keyspace/utility"

	redisotel "github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
)

const (
	RedisModeStandalone = "standalone"
	RedisModeCluster    = "cluster"
)

type RedisConfig struct {
	Mode       string           `yaml:"mode"`
	Addrs      []string         `yaml:"addrs"`
	Username   string           `yaml:"username"`
	Password   string           `yaml:"password"`
	DB         int              `yaml:"db"`
	Connection connectionConfig `yaml:",inline"`
}

func (config RedisConfig) IsCluster() bool {
	return config.Mode == RedisModeCluster
}

func (config RedisConfig) check() error {
	if !utility.StringSliceContains([]string{RedisModeStandalone, RedisModeCluster}, config.Mode) {
		return fmt.Errorf("mode=%s, it should be %s or %s", config.Mode, RedisModeStandalone, RedisModeCluster)
	}
	if len(config.Addrs) == 0 {
		return errors.New("addrs should not be empty")
	}
	for _, addr := range config.Addrs {
		if addr == "" {
			return errors.New("address in addrs should not be empty")
		}
	}
	if config.Mode == RedisModeStandalone && len(config.Addrs) != 1 {
		return fmt.Errorf("addrs has %d addresses, standalone mode takes exactly one", len(config.Addrs))
	}
	if config.Mode == RedisModeCluster && config.DB != 0 {
		return errors.New("db should be 0 in cluster mode")
	}
	return config.Connection.check()
}

type connectionConfig struct {
	PoolSize int `yaml:"pool_size"`

	DialTimeoutMS     int `yaml:"dial_timeout_ms"`
	ReadTimeoutMS     int `yaml:"read_timeout_ms"`
	WriteTimeoutMS    int `yaml:"write_timeout_ms"`
	IdleTimeoutSecond int `yaml:"idle_timeout_second"`
	PoolTimeoutMS     int `yaml:"pool_timeout_ms"`

	MaxRetries        int `yaml:"max_retries"`
	MaxConnAgeSeconds int `yaml:"max_conn_age_second"`
	MinIdleConns      int `yaml:"min_idle_conns"`
	MinRetryBackoffMS int `yaml:"min_retry_backoff_ms"`
	MaxRetryBackoffMS int `yaml:"max_retry_backoff_ms"`
}

func (config connectionConfig) check() error {
	if v := config.PoolSize; v <= 0 {
		return fmt.Errorf("pool_size=%d, it should be > 0", v)
	}
	nonNegative := []struct {
		name  string
		value int
	}{
		{"dial_timeout_ms", config.DialTimeoutMS},
		{"pool_timeout_ms", config.PoolTimeoutMS},
		{"max_retries", config.MaxRetries},
		{"max_conn_age_second", config.MaxConnAgeSeconds},
		{"min_idle_conns", config.MinIdleConns},
	}
	for _, item := range nonNegative {
		if item.value < 0 {
			return fmt.Errorf("%s=%d, it should be >= 0", item.name, item.value)
		}
	}
	// -1 disables the setting in go-redis
	if v := config.ReadTimeoutMS; v < -1 {
		return fmt.Errorf("read_timeout_ms=%d, it should be >= -1", v)
	}
	if v := config.WriteTimeoutMS; v < -1 {
		return fmt.Errorf("write_timeout_ms=%d, it should be >= -1", v)
	}
	if v := config.IdleTimeoutSecond; v < -1 {
		return fmt.Errorf("idle_timeout_second=%d, it should be >= -1", v)
	}
	if v := config.MinRetryBackoffMS; v < -1 {
		return fmt.Errorf("min_retry_backoff_ms=%d, it should be >= -1", v)
	}
	if v := config.MaxRetryBackoffMS; v < -1 {
		return fmt.Errorf("max_retry_backoff_ms=%d, it should be >= -1", v)
	}
	if config.MinRetryBackoffMS > config.MaxRetryBackoffMS {
		return fmt.Errorf(
			"min_retry_backoff_ms=%d, max_retry_backoff_ms=%d, min_retry_backoff_ms should be less than or equal to max_retry_backoff_ms",
			config.MinRetryBackoffMS, config.MaxRetryBackoffMS)
	}
	return nil
}

func millisecondsOrDisabled(v int) time.Duration {
	if v == -1 {
		return -1
	}
	return time.Duration(v) * time.Millisecond
}

func secondsOrDisabled(v int) time.Duration {
	if v == -1 {
		return -1
	}
	return time.Duration(v) * time.Second
}

// NewRedisClientFromConfig returns a cluster client or a single node client
// depending on config.Mode. Every node records durations and traces commands.
func NewRedisClientFromConfig(config RedisConfig, logger *log.Logger, metric *MetricClient) (redis.UniversalClient, error) {
	if err := config.check(); err != nil {
		return nil, err
	}
	hook := newRedisRecordHook(metric, logger)
	conn := config.Connection
	if config.IsCluster() {
		client := redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:           config.Addrs,
			Username:        config.Username,
			Password:        config.Password,
			PoolSize:        conn.PoolSize,
			DialTimeout:     time.Duration(conn.DialTimeoutMS) * time.Millisecond,
			ReadTimeout:     millisecondsOrDisabled(conn.ReadTimeoutMS),
			WriteTimeout:    millisecondsOrDisabled(conn.WriteTimeoutMS),
			PoolTimeout:     time.Duration(conn.PoolTimeoutMS) * time.Millisecond,
			IdleTimeout:     secondsOrDisabled(conn.IdleTimeoutSecond),
			MaxRetries:      conn.MaxRetries,
			MaxConnAge:      time.Duration(conn.MaxConnAgeSeconds) * time.Second,
			MinIdleConns:    conn.MinIdleConns,
			MinRetryBackoff: millisecondsOrDisabled(conn.MinRetryBackoffMS),
			MaxRetryBackoff: millisecondsOrDisabled(conn.MaxRetryBackoffMS),
			NewClient: func(opt *redis.Options) *redis.Client {
				node := redis.NewClient(opt)
				node.AddHook(redisotel.NewTracingHook())
				return node
			},
		})
		client.AddHook(hook)
		client.AddHook(redisotel.NewTracingHook())
		return client, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:            config.Addrs[0],
		Username:        config.Username,
		Password:        config.Password,
		DB:              config.DB,
		PoolSize:        conn.PoolSize,
		DialTimeout:     time.Duration(conn.DialTimeoutMS) * time.Millisecond,
		ReadTimeout:     millisecondsOrDisabled(conn.ReadTimeoutMS),
		WriteTimeout:    millisecondsOrDisabled(conn.WriteTimeoutMS),
		PoolTimeout:     time.Duration(conn.PoolTimeoutMS) * time.Millisecond,
		IdleTimeout:     secondsOrDisabled(conn.IdleTimeoutSecond),
		MaxRetries:      conn.MaxRetries,
		MaxConnAge:      time.Duration(conn.MaxConnAgeSeconds) * time.Second,
		MinIdleConns:    conn.MinIdleConns,
		MinRetryBackoff: millisecondsOrDisabled(conn.MinRetryBackoffMS),
		MaxRetryBackoff: millisecondsOrDisabled(conn.MaxRetryBackoffMS),
	})
	client.AddHook(hook)
	client.AddHook(redisotel.NewTracingHook())
	return client, nil
}

type redisContextKey string

const (
	redisCommandStartTimeContextKey  redisContextKey = "command_start_time"
	redisPipelineStartTimeContextKey redisContextKey = "pipeline_start_time"

	redisCommandDurationMetricKey  = "redis.command.duration"
	redisCommandErrorMetricKey     = "redis.command.error"
	redisPipelineDurationMetricKey = "redis.pipeline.duration"
)

// redisRecordHook logs and times every command sent upstream.
type redisRecordHook struct {
	metricClient *MetricClient
	logger       *log.Logger
}

func newRedisRecordHook(metricClient *MetricClient, logger *log.Logger) redisRecordHook {
	return redisRecordHook{metricClient: metricClient, logger: logger}
}

func (hook redisRecordHook) BeforeProcess(ctx context.Context, cmd redis.Cmder) (context.Context, error) {
	return context.WithValue(ctx, redisCommandStartTimeContextKey, time.Now()), nil
}

func (hook redisRecordHook) AfterProcess(ctx context.Context, cmd redis.Cmder) error {
	startTime, ok := ctx.Value(redisCommandStartTimeContextKey).(time.Time)
	if !ok {
		return nil
	}
	duration := time.Since(startTime)
	if err := cmd.Err(); err != nil && err != redis.Nil {
		hook.metricClient.MetricIncrease(redisCommandErrorMetricKey)
	}
	if hook.logger.Enabled(log.LevelDebug) {
		hook.logger.Debug(
			"execute redis command",
			log.String("command", cmd.String()),
			log.Duration("duration", duration),
		)
	}
	hook.metricClient.MetricTimeDuration(redisCommandDurationMetricKey, duration)
	return nil
}

func (hook redisRecordHook) BeforeProcessPipeline(ctx context.Context, cmds []redis.Cmder) (context.Context, error) {
	return context.WithValue(ctx, redisPipelineStartTimeContextKey, time.Now()), nil
}

// AfterProcessPipeline only fires for go-redis internal pipelines, such as
// cluster slot reloads.
func (hook redisRecordHook) AfterProcessPipeline(ctx context.Context, cmds []redis.Cmder) error {
	if startTime, ok := ctx.Value(redisPipelineStartTimeContextKey).(time.Time); ok {
		duration := time.Since(startTime)
		hook.logger.Debug(
			"execute redis pipeline",
			log.Int("commands", len(cmds)),
			log.Duration("duration", duration),
		)
		hook.metricClient.MetricTimeDuration(redisPipelineDurationMetricKey, duration)
	}
	return nil
}
