package base

import (
	"errors"
	"time"

	"gopkg.in/alexcesaro/statsd.v2"
)

const (
	counterMetricPrefix = "counter."
	timeMetricPrefix    = "time."
	gaugeMetricPrefix   = "gauge."
)

type MetricConfig struct {
	Prefix             string   `yaml:"prefix"`
	Host               string   `yaml:"host"`
	Network            string   `yaml:"network"`
	MaxPacketSize      int      `yaml:"max_packet_size"`
	FlushPeriodSeconds int64    `yaml:"flush_period_seconds"`
	SampleRate         float32  `yaml:"sample_rate"`
	Tags               []string `yaml:"tags"`
	// Mute drops every metric without connecting, for tests and local runs.
	Mute bool `yaml:"mute"`
}

func (config MetricConfig) check() error {
	if config.Host == "" && !config.Mute {
		return errors.New("metric.host should not be empty")
	}
	if len(config.Tags)%2 != 0 {
		return errors.New("metric.tags count should be even")
	}
	return nil
}

type MetricClient struct {
	*statsd.Client
}

func NewMetricClient(config MetricConfig) (*MetricClient, error) {
	if err := config.check(); err != nil {
		return nil, err
	}
	opts := []statsd.Option{statsd.Mute(config.Mute)}
	if config.Host != "" {
		opts = append(opts, statsd.Address(config.Host))
	}
	if config.Prefix != "" {
		opts = append(opts, statsd.Prefix(config.Prefix))
	}
	if config.MaxPacketSize > 0 {
		opts = append(opts, statsd.MaxPacketSize(config.MaxPacketSize))
	}
	if config.FlushPeriodSeconds > 0 {
		opts = append(opts, statsd.FlushPeriod(time.Second*time.Duration(config.FlushPeriodSeconds)))
	}
	if config.Network != "" {
		opts = append(opts, statsd.Network(config.Network))
	}
	if config.SampleRate > 0 {
		opts = append(opts, statsd.SampleRate(config.SampleRate))
	}
	if len(config.Tags) > 0 {
		opts = append(opts, statsd.Tags(config.Tags...))
	}
	client, err := statsd.New(opts...)
	if err != nil {
		return nil, err
	}
	return &MetricClient{Client: client}, nil
}

// NewMutedMetricClient never sends anything.
func NewMutedMetricClient() *MetricClient {
	client, _ := statsd.New(statsd.Mute(true))
	return &MetricClient{Client: client}
}

func (mc *MetricClient) MetricCount(key string, num interface{}) *MetricClient {
	mc.Count(counterMetricPrefix+key, num)
	return mc
}

func (mc *MetricClient) MetricIncrease(key string) *MetricClient {
	mc.Increment(counterMetricPrefix + key)
	return mc
}

// MetricTimeDuration records duration in milliseconds.
func (mc *MetricClient) MetricTimeDuration(key string, duration time.Duration) *MetricClient {
	mc.Timing(timeMetricPrefix+key, float64(duration)/float64(time.Millisecond))
	return mc
}

func (mc *MetricClient) MetricGauge(key string, value interface{}) *MetricClient {
	mc.Gauge(gaugeMetricPrefix+key, value)
	return mc
}
