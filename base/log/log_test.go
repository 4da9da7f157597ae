package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoggerWritesPairs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(NewWriterOutput("server", NewFormat("json"), LevelInfo, &buf))

	logger.Debug("hidden")
	logger.With(String("address", "127.0.0.1:1")).Info(
		"command executed",
		Int("argc", 3),
		Duration("duration", time.Millisecond),
		Error(errors.New("boom")),
	)

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.Contains(t, out, `"msg":"command executed"`)
	assert.Contains(t, out, `"logger":"server"`)
	assert.Contains(t, out, `"address":"127.0.0.1:1"`)
	assert.Contains(t, out, `"argc":3`)
	assert.Contains(t, out, `"duration":"1ms"`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestLoggerEnabled(t *testing.T) {
	logger := NewLogger(NewWriterOutput("", NewFormat("text"), LevelWarn, &bytes.Buffer{}))
	assert.False(t, logger.Enabled(LevelInfo))
	assert.True(t, logger.Enabled(LevelError))
	assert.False(t, NewNopLogger().Enabled(LevelError))
	NewNopLogger().Error("dropped")
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		name  string
		level Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelDebug},
	}
	for _, c := range cases {
		assert.Equal(t, c.level, ParseLevel(c.name))
	}
	assert.Equal(t, "warn", LevelWarn.String())
}

func TestErrorPairWithNil(t *testing.T) {
	pair := Error(nil)
	assert.Equal(t, "error", pair.Key())
	assert.Equal(t, "error_is_nil", pair.Value())
}

func TestNewFileOutputRejectsBadPeriod(t *testing.T) {
	_, err := NewFileOutput("f", NewFormat("json"), LevelInfo, t.TempDir()+"/x.log", FileRotation{RotateEvery: "daily"})
	assert.NotNil(t, err)
}
