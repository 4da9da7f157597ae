package log

import (
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Logger.log, Logger.Info and zapOutput.Write sit between the caller and zap.
const callerSkip = 3

var _ Output = (*zapOutput)(nil)

type zapOutput struct {
	level  Level
	logger *zap.SugaredLogger
}

func NewConsoleOutput(name string, format Format, level Level, stream string) Output {
	return newZapOutput(name, format, level, zapcore.Lock(consoleStream(stream)))
}

func NewFileOutput(name string, format Format, level Level, location string, rotation FileRotation) (Output, error) {
	fileLogger := &lumberjack.Logger{
		Filename:   location,
		MaxSize:    rotation.MaxSizeMB,
		MaxAge:     rotation.MaxAgeDays,
		MaxBackups: rotation.MaxBackups,
		Compress:   rotation.Compress,
		LocalTime:  rotation.LocalTime,
	}
	if rotation.RotateEvery != "" {
		period, err := time.ParseDuration(rotation.RotateEvery)
		if err != nil {
			return nil, err
		}
		go rotatePeriodically(fileLogger, period)
	}
	return newZapOutput(name, format, level, zapcore.AddSync(fileLogger)), nil
}

// NewWriterOutput logs to w. Tests use it to capture records.
func NewWriterOutput(name string, format Format, level Level, w io.Writer) Output {
	return newZapOutput(name, format, level, zapcore.AddSync(w))
}

func rotatePeriodically(fileLogger *lumberjack.Logger, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for range ticker.C {
		_ = fileLogger.Rotate()
	}
}

func newZapOutput(name string, format Format, level Level, writer zapcore.WriteSyncer) *zapOutput {
	core := zapcore.NewCore(format.encoder(), writer, level.zapLevel())
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(callerSkip)).Sugar()
	if name != "" {
		logger = logger.Named(name)
	}
	return &zapOutput{level: level, logger: logger}
}

func (o *zapOutput) Level() Level {
	return o.level
}

func (o *zapOutput) Write(level Level, subject string, pairs []LogPair) {
	keysAndValues := make([]interface{}, 0, len(pairs)*2)
	for _, pair := range pairs {
		keysAndValues = append(keysAndValues, pair.key, pair.value)
	}
	switch level {
	case LevelDebug:
		o.logger.Debugw(subject, keysAndValues...)
	case LevelInfo:
		o.logger.Infow(subject, keysAndValues...)
	case LevelWarn:
		o.logger.Warnw(subject, keysAndValues...)
	default:
		o.logger.Errorw(subject, keysAndValues...)
	}
}

func (o *zapOutput) Sync() error {
	return o.logger.Sync()
}
