package log

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// Output writes records at or above its level.
type Output interface {
	Level() Level
	Write(level Level, subject string, pairs []LogPair)
	Sync() error
}

// Logger fans every record out to its outputs. Pairs added with With are
// attached to every record.
type Logger struct {
	outputs []Output
	fields  []LogPair
}

func NewLogger(outputs ...Output) *Logger {
	return &Logger{outputs: outputs}
}

// NewNopLogger drops everything.
func NewNopLogger() *Logger {
	return &Logger{}
}

func (l *Logger) With(pairs ...LogPair) *Logger {
	fields := make([]LogPair, 0, len(l.fields)+len(pairs))
	fields = append(fields, l.fields...)
	fields = append(fields, pairs...)
	return &Logger{outputs: l.outputs, fields: fields}
}

func (l *Logger) Debug(subject string, pairs ...LogPair) {
	l.log(LevelDebug, subject, pairs)
}

func (l *Logger) Info(subject string, pairs ...LogPair) {
	l.log(LevelInfo, subject, pairs)
}

func (l *Logger) Warn(subject string, pairs ...LogPair) {
	l.log(LevelWarn, subject, pairs)
}

func (l *Logger) Error(subject string, pairs ...LogPair) {
	l.log(LevelError, subject, pairs)
}

func (l *Logger) Log(level Level, subject string, pairs ...LogPair) {
	l.log(level, subject, pairs)
}

// Enabled reports whether any output accepts level, so callers can skip
// building expensive pairs.
func (l *Logger) Enabled(level Level) bool {
	for _, output := range l.outputs {
		if level >= output.Level() {
			return true
		}
	}
	return false
}

func (l *Logger) Sync() error {
	var err error
	for _, output := range l.outputs {
		err = multierr.Append(err, output.Sync())
	}
	return err
}

func (l *Logger) log(level Level, subject string, pairs []LogPair) {
	if len(l.outputs) == 0 {
		return
	}
	if len(l.fields) > 0 {
		pairs = append(append(make([]LogPair, 0, len(l.fields)+len(pairs)), l.fields...), pairs...)
	}
	for _, output := range l.outputs {
		if level >= output.Level() {
			output.Write(level, subject, pairs)
		}
	}
}

type LogPair struct {
	key   string
	value interface{}
}

func (pair LogPair) Key() string {
	return pair.key
}

func (pair LogPair) Value() interface{} {
	return pair.value
}

func String(k, v string) LogPair {
	return LogPair{key: k, value: v}
}

// Bytes logs raw bytes as text, which is how keys are shown.
func Bytes(k string, v []byte) LogPair {
	return LogPair{key: k, value: string(v)}
}

func Int(k string, v int) LogPair {
	return LogPair{key: k, value: v}
}

func Int64(k string, v int64) LogPair {
	return LogPair{key: k, value: v}
}

func Bool(k string, v bool) LogPair {
	return LogPair{key: k, value: v}
}

func Duration(k string, v time.Duration) LogPair {
	return LogPair{key: k, value: v.String()}
}

func Any(k string, v interface{}) LogPair {
	return LogPair{key: k, value: fmt.Sprintf("%v", v)}
}

func Error(err error) LogPair {
	pair := LogPair{key: "error"}
	if err == nil {
		pair.value = "error_is_nil"
	} else {
		pair.value = err.Error()
	}
	return pair
}
