package opentelemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNewSpanExporter(t *testing.T) {
	_, err := NewSpanExporter(ExporterJaeger, "http://127.0.0.1:14268/api/traces", nil)
	assert.Nil(t, err)

	_, err = NewSpanExporter("zipkin", "", nil)
	assert.NotNil(t, err)
}

func TestOtelClientExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	exporter, err := NewSpanExporter(ExporterStdout, "", &buf)
	require.Nil(t, err)
	ctx := context.Background()
	client, err := NewOtelClient(ctx, "keyspace_test", "v0", exporter)
	require.Nil(t, err)

	_, span := otel.Tracer("test").Start(ctx, "keyspace.command")
	span.End()
	assert.Nil(t, client.Shutdown(ctx))

	assert.Contains(t, buf.String(), "keyspace.command")
	assert.Contains(t, buf.String(), "keyspace_test")
}
