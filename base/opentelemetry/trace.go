package opentelemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

const (
	ExporterJaeger = "jaeger"
	ExporterStdout = "stdout"
)

// NewSpanExporter returns the exporter called kind. endpoint is the jaeger
// collector url; stdout spans go to out, or os.Stdout when out is nil.
func NewSpanExporter(kind, endpoint string, out io.Writer) (sdktrace.SpanExporter, error) {
	switch kind {
	case ExporterJaeger:
		return jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(endpoint)))
	case ExporterStdout:
		if out == nil {
			out = os.Stdout
		}
		return stdouttrace.New(stdouttrace.WithWriter(out))
	}
	return nil, fmt.Errorf("exporter %q is not supported", kind)
}

// Otel owns the global tracer provider.
type Otel struct {
	tracerProvider *sdktrace.TracerProvider
}

func NewOtelClient(ctx context.Context, serviceName, serviceVersion string, exporter sdktrace.SpanExporter) (*Otel, error) {
	r, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(r),
	)
	otel.SetTracerProvider(provider)
	return &Otel{tracerProvider: provider}, nil
}

// Shutdown flushes pending spans.
func (o *Otel) Shutdown(ctx context.Context) error {
	return o.tracerProvider.Shutdown(ctx)
}
