package log

import (
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

type Level int

const (
	LevelDebug Level = iota + 1
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel falls back to debug for unknown names.
func ParseLevel(name string) Level {
	switch strings.ToLower(name) {
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelDebug
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Format controls how records are encoded. Text is zap's console encoding.
type Format struct {
	JSON       bool
	MessageKey string
	TimeKey    string
	LevelKey   string
	NameKey    string
	CallerKey  string
	// TimeFormat is any name zapcore.TimeEncoder understands, such as
	// rfc3339, iso8601, millis or nanos.
	TimeFormat string
}

func NewFormat(name string) Format {
	return Format{
		JSON:       !strings.EqualFold(name, "text"),
		MessageKey: "msg",
		TimeKey:    "ts",
		LevelKey:   "level",
		NameKey:    "logger",
		CallerKey:  "caller",
		TimeFormat: "rfc3339",
	}
}

func (f Format) encoder() zapcore.Encoder {
	config := zapcore.EncoderConfig{
		MessageKey:     f.MessageKey,
		TimeKey:        f.TimeKey,
		LevelKey:       f.LevelKey,
		NameKey:        f.NameKey,
		CallerKey:      f.CallerKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if f.TimeFormat != "" {
		_ = config.EncodeTime.UnmarshalText([]byte(f.TimeFormat))
	}
	if f.JSON {
		return zapcore.NewJSONEncoder(config)
	}
	return zapcore.NewConsoleEncoder(config)
}

func consoleStream(name string) *os.File {
	if strings.EqualFold(name, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}

// FileRotation configures lumberjack. With RotateEvery set the file is also
// rotated on that period regardless of its size.
type FileRotation struct {
	MaxSizeMB   int
	MaxAgeDays  int
	MaxBackups  int
	Compress    bool
	LocalTime   bool
	RotateEvery string
}
