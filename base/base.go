package base

import (
	"context"
	"errors"

	"bytepower_keyspace/base/log"
	"bytepower_keyspace/base/opentelemetry"

	"github.com/go-redis/redis/v8"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/multierr"
)

var (
	serverConfig Config
	loggers      map[string]*log.Logger
	metricClient *MetricClient
	redisClient  redis.UniversalClient
	otelClient   *opentelemetry.Otel
)

var requiredLoggerNames = []string{"server", "client"}

// InitServer loads the config at configPath and builds every shared
// dependency from it.
func InitServer(configPath string) error {
	config, err := NewConfigFromFile(configPath)
	if err != nil {
		return pkgerrors.Wrapf(err, "load config %s", configPath)
	}
	return InitWithConfig(config)
}

func InitWithConfig(config Config) error {
	serverConfig = config

	parsed, err := parseLoggers(config.Log)
	if err != nil {
		return pkgerrors.Wrap(err, "init loggers")
	}
	loggers = parsed

	metric, err := NewMetricClient(config.Metric)
	if err != nil {
		return pkgerrors.Wrap(err, "init metric")
	}
	metricClient = metric

	if config.Otel != nil {
		client, err := NewOtelClientWithConfig(context.Background(), *config.Otel)
		if err != nil {
			return pkgerrors.Wrap(err, "init otel")
		}
		otelClient = client
	}

	client, err := NewRedisClientFromConfig(config.Redis, GetClientLogger(), metricClient)
	if err != nil {
		return pkgerrors.Wrap(err, "init redis")
	}
	redisClient = client
	GetServerLogger().Info(
		"init redis client",
		log.String("mode", config.Redis.Mode),
		log.Any("addrs", config.Redis.Addrs),
	)
	return nil
}

func parseLoggers(config map[string]map[string]interface{}) (map[string]*log.Logger, error) {
	for _, name := range requiredLoggerNames {
		if _, ok := config[name]; !ok {
			return nil, errors.New("not all required loggers are configured")
		}
	}
	result := make(map[string]*log.Logger, len(config))
	for name, value := range config {
		logger, err := parseLogger(name, value)
		if err != nil {
			return nil, err
		}
		result[name] = logger
	}
	return result, nil
}

// Stop releases what InitServer created. Errors are collected, not short-circuited.
func Stop(ctx context.Context) error {
	var err error
	if redisClient != nil {
		err = multierr.Append(err, redisClient.Close())
	}
	if otelClient != nil {
		err = multierr.Append(err, otelClient.Shutdown(ctx))
	}
	if metricClient != nil {
		metricClient.Close()
	}
	for _, logger := range loggers {
		// syncing a console on some platforms fails with EINVAL
		_ = logger.Sync()
	}
	return err
}

func GetServerConfig() Config {
	return serverConfig
}

func GetRedisClient() redis.UniversalClient {
	return redisClient
}

func GetMetricClient() *MetricClient {
	return metricClient
}

func GetServerLogger() *log.Logger {
	return loggers["server"]
}

func GetClientLogger() *log.Logger {
	return loggers["client"]
}

type Dependency struct {
	Redis  redis.UniversalClient
	Logger *log.Logger
	Metric *MetricClient
}

var (
	ErrDepRedisNull  = errors.New("redis client is null")
	ErrDepLoggerNull = errors.New("logger is null")
	ErrDepMetricNull = errors.New("metric client is null")
)

func (dep Dependency) Check() error {
	if dep.Redis == nil {
		return ErrDepRedisNull
	}
	if dep.Logger == nil {
		return ErrDepLoggerNull
	}
	if dep.Metric == nil {
		return ErrDepMetricNull
	}
	return nil
}

func GetServerDependency() Dependency {
	return Dependency{
		Redis:  GetRedisClient(),
		Logger: GetServerLogger(),
		Metric: GetMetricClient(),
	}
}

func GetClientDependency() Dependency {
	return Dependency{
		Redis:  GetRedisClient(),
		Logger: GetClientLogger(),
		Metric: GetMetricClient(),
	}
}
