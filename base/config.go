package base

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"bytepower_keyspace/commands"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Name        string                            `yaml:"name"`
	Namespace   NamespaceConfig                   `yaml:"namespace"`
	Server      ServerConfig                      `yaml:"server"`
	Redis       RedisConfig                       `yaml:"redis"`
	CommandInfo CommandInfoConfig                 `yaml:"command_info"`
	Metric      MetricConfig                      `yaml:"metric"`
	Log         map[string]map[string]interface{} `yaml:"log"`
	Otel        *OtelConfig                       `yaml:"otel"`
}

func (config Config) check() error {
	if config.Name == "" {
		return errors.New("config.name should not be empty")
	}
	if err := config.Namespace.check(); err != nil {
		return fmt.Errorf("config.%w", err)
	}
	if err := config.Server.check(); err != nil {
		return fmt.Errorf("config.%w", err)
	}
	if err := config.Redis.check(); err != nil {
		return fmt.Errorf("config.redis.%w", err)
	}
	if err := config.CommandInfo.check(); err != nil {
		return fmt.Errorf("config.%w", err)
	}
	if err := config.Metric.check(); err != nil {
		return fmt.Errorf("config.%w", err)
	}
	if len(config.Log) == 0 {
		return errors.New("config.log should not be empty")
	}
	if config.Otel != nil {
		if err := config.Otel.check(); err != nil {
			return fmt.Errorf("config.otel.%w", err)
		}
	}
	return nil
}

// NamespaceConfig holds the prefix every key of this deployment lives under.
type NamespaceConfig struct {
	Prefix string `yaml:"prefix"`
}

func (config NamespaceConfig) check() error {
	if config.Prefix == "" {
		return errors.New("namespace.prefix should not be empty")
	}
	if err := commands.NewPrefix(config.Prefix).CheckPattern(); err != nil {
		return fmt.Errorf("namespace.prefix should not contain glob characters: %w", err)
	}
	return nil
}

type ServerConfig struct {
	URL                     string `yaml:"url"`
	PProfURL                string `yaml:"pprof_url"`
	RateLimitPerSecond      int    `yaml:"rate_limit_per_second"`
	RawGracefulShutdownWait string `yaml:"graceful_shutdown_wait"`
	gracefulShutdownWait    time.Duration
}

func (config ServerConfig) check() error {
	if config.URL == "" {
		return errors.New("server.url should not be empty")
	}
	if config.RateLimitPerSecond < 0 {
		return fmt.Errorf("server.rate_limit_per_second=%d, it should be >= 0", config.RateLimitPerSecond)
	}
	if config.RawGracefulShutdownWait != "" {
		d, err := time.ParseDuration(config.RawGracefulShutdownWait)
		if err != nil {
			return fmt.Errorf("server.graceful_shutdown_wait=%s, should be in valid duration format", config.RawGracefulShutdownWait)
		}
		if d < 0 {
			return fmt.Errorf("server.graceful_shutdown_wait=%s, duration should not be negative", config.RawGracefulShutdownWait)
		}
	}
	return nil
}

func (config ServerConfig) GracefulShutdownWait() time.Duration {
	return config.gracefulShutdownWait
}

// CommandInfoConfig enables looking up commands missing from the built-in
// table through COMMAND on the upstream server.
type CommandInfoConfig struct {
	Enabled            bool   `yaml:"enabled"`
	RawCacheExpiration string `yaml:"cache_expiration"`
	cacheExpiration    time.Duration
}

func (config CommandInfoConfig) check() error {
	if !config.Enabled {
		return nil
	}
	d, err := time.ParseDuration(config.RawCacheExpiration)
	if err != nil {
		return fmt.Errorf("command_info.cache_expiration=%s, should be in valid duration format", config.RawCacheExpiration)
	}
	if d <= 0 {
		return fmt.Errorf("command_info.cache_expiration=%s, duration should be positive", config.RawCacheExpiration)
	}
	return nil
}

func (config CommandInfoConfig) CacheExpiration() time.Duration {
	return config.cacheExpiration
}

// NewConfigFromFile reads and validates a yaml config file.
func NewConfigFromFile(filePath string) (Config, error) {
	bs, err := readFileFromPath(filePath)
	if err != nil {
		return Config{}, err
	}
	return NewConfigFromBytes(bs)
}

func NewConfigFromBytes(bs []byte) (Config, error) {
	config := Config{}
	decoder := yaml.NewDecoder(bytes.NewReader(bs))
	if err := decoder.Decode(&config); err != nil {
		return config, err
	}
	if err := config.check(); err != nil {
		return config, err
	}
	// durations were validated by check
	if config.Server.RawGracefulShutdownWait != "" {
		config.Server.gracefulShutdownWait, _ = time.ParseDuration(config.Server.RawGracefulShutdownWait)
	}
	if config.CommandInfo.Enabled {
		config.CommandInfo.cacheExpiration, _ = time.ParseDuration(config.CommandInfo.RawCacheExpiration)
	}
	return config, nil
}

func readFileFromPath(path string) ([]byte, error) {
	fp, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, fp); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
