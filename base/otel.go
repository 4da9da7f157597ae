package base

import (
	"context"
	"errors"
	"fmt"

	"bytepower_keyspace/base/opentelemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const otelLibraryName = "bytepower_keyspace"

type OtelConfig struct {
	ServiceName    string         `yaml:"service_name"`
	ServiceVersion string         `yaml:"service_version"`
	Exporter       ExporterConfig `yaml:"exporter"`
}

type ExporterConfig struct {
	Type   string `yaml:"type"`
	Jaeger struct {
		Endpoint string `yaml:"endpoint"`
	} `yaml:"jaeger"`
}

func (config OtelConfig) check() error {
	if config.ServiceName == "" {
		return errors.New("service_name should not be empty")
	}
	switch config.Exporter.Type {
	case opentelemetry.ExporterJaeger:
		if config.Exporter.Jaeger.Endpoint == "" {
			return errors.New("exporter.jaeger.endpoint should not be empty")
		}
	case opentelemetry.ExporterStdout:
	default:
		return fmt.Errorf("exporter.type=%s is not supported", config.Exporter.Type)
	}
	return nil
}

// NewOtelClientWithConfig installs a global tracer provider exporting to
// the configured backend.
func NewOtelClientWithConfig(ctx context.Context, config OtelConfig) (*opentelemetry.Otel, error) {
	if err := config.check(); err != nil {
		return nil, err
	}
	exporter, err := opentelemetry.NewSpanExporter(config.Exporter.Type, config.Exporter.Jaeger.Endpoint, nil)
	if err != nil {
		return nil, err
	}
	return opentelemetry.NewOtelClient(ctx, config.ServiceName, config.ServiceVersion, exporter)
}

func GetTracer() trace.Tracer {
	return otel.Tracer(otelLibraryName)
}
