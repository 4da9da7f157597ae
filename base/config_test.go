package base

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testConfig = `
name: keyspace
namespace:
  prefix: "tenant1:"
server:
  url: 127.0.0.1:6380
  rate_limit_per_second: 1000
  graceful_shutdown_wait: 2s
redis:
  mode: standalone
  addrs: ["127.0.0.1:6379"]
  pool_size: 10
command_info:
  enabled: true
  cache_expiration: 10m
metric:
  mute: true
log:
  server:
    console:
      level: info
      format: text
  client:
    console:
      level: debug
`

func TestNewConfigFromBytes(t *testing.T) {
	config, err := NewConfigFromBytes([]byte(testConfig))
	assert.Nil(t, err)
	assert.Equal(t, "keyspace", config.Name)
	assert.Equal(t, "tenant1:", config.Namespace.Prefix)
	assert.Equal(t, 2*time.Second, config.Server.GracefulShutdownWait())
	assert.Equal(t, 10*time.Minute, config.CommandInfo.CacheExpiration())
	assert.False(t, config.Redis.IsCluster())
	assert.Equal(t, 10, config.Redis.Connection.PoolSize)
	assert.True(t, config.Metric.Mute)
	assert.Nil(t, config.Otel)
}

func TestConfigCheck(t *testing.T) {
	cases := []struct {
		description string
		old         string
		new         string
		errContains string
	}{
		{"empty name", "name: keyspace", "name: ''", "config.name"},
		{"empty prefix", `prefix: "tenant1:"`, `prefix: ""`, "namespace.prefix"},
		{"glob prefix", `prefix: "tenant1:"`, `prefix: "t*:"`, "glob characters"},
		{"bracket prefix", `prefix: "tenant1:"`, `prefix: "t[1]:"`, "glob characters"},
		{"bad mode", "mode: standalone", "mode: sentinel", "config.redis.mode"},
		{"standalone with two addrs", `addrs: ["127.0.0.1:6379"]`, `addrs: ["a:1", "b:2"]`, "standalone"},
		{"zero pool size", "pool_size: 10", "pool_size: 0", "pool_size"},
		{"bad expiration", "cache_expiration: 10m", "cache_expiration: soon", "command_info.cache_expiration"},
		{"bad shutdown wait", "graceful_shutdown_wait: 2s", "graceful_shutdown_wait: -2s", "graceful_shutdown_wait"},
		{"negative rate limit", "rate_limit_per_second: 1000", "rate_limit_per_second: -1", "rate_limit_per_second"},
		{"metric host", "mute: true", "mute: false", "metric.host"},
	}
	for _, c := range cases {
		content := strings.Replace(testConfig, c.old, c.new, 1)
		_, err := NewConfigFromBytes([]byte(content))
		if assert.NotNil(t, err, c.description) {
			assert.Contains(t, err.Error(), c.errContains, c.description)
		}
	}
}

func TestOtelConfigCheck(t *testing.T) {
	config := OtelConfig{ServiceName: "keyspace"}
	config.Exporter.Type = "stdout"
	assert.Nil(t, config.check())

	config.Exporter.Type = "jaeger"
	assert.NotNil(t, config.check())
	config.Exporter.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	assert.Nil(t, config.check())

	config.Exporter.Type = "otlp"
	assert.NotNil(t, config.check())
}

func TestParseLoggers(t *testing.T) {
	config, err := NewConfigFromBytes([]byte(testConfig))
	assert.Nil(t, err)
	loggers, err := parseLoggers(config.Log)
	assert.Nil(t, err)
	assert.Len(t, loggers, 2)

	_, err = parseLoggers(map[string]map[string]interface{}{"server": {}})
	assert.NotNil(t, err)

	_, err = parseLogger("server", map[string]interface{}{"syslog": map[interface{}]interface{}{}})
	assert.NotNil(t, err)

	_, err = parseLogger("server", map[string]interface{}{"file": map[interface{}]interface{}{"level": "info"}})
	assert.NotNil(t, err)

	logger, err := parseLogger("server", map[string]interface{}{
		"file": map[interface{}]interface{}{
			"location": t.TempDir() + "/server.{pid}.log",
			"rotation": map[interface{}]interface{}{"max_size": 10},
		},
	})
	assert.Nil(t, err)
	logger.Info("file logger works")
}
