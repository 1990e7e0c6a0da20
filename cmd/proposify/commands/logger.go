package commands

import (
	"slices"

	"github.com/fivetwenty-io/proposify/pkg/proposify"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newZapLogger builds the JSON logger shared by all commands. Logs go to
// stderr so command output on stdout stays machine readable.
func newZapLogger(verbose bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	return zap.Config{
		Encoding:    "json",
		Level:       zap.NewAtomicLevelAt(level),
		OutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:   "message",
			LevelKey:     "level",
			EncodeLevel:  zapcore.CapitalLevelEncoder,
			TimeKey:      "time",
			EncodeTime:   zapcore.ISO8601TimeEncoder,
			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}.Build()
}

// zapLogger adapts a zap logger to proposify.Logger.
type zapLogger struct {
	log *zap.Logger
}

// NewLogger wraps log so it can be passed as proposify.Config.Logger.
func NewLogger(log *zap.Logger) proposify.Logger {
	return &zapLogger{log: log.WithOptions(zap.AddCallerSkip(1))}
}

func (l *zapLogger) Debug(msg string, fields map[string]interface{}) {
	l.log.Debug(msg, zapFields(fields)...)
}

func (l *zapLogger) Info(msg string, fields map[string]interface{}) {
	l.log.Info(msg, zapFields(fields)...)
}

func (l *zapLogger) Warn(msg string, fields map[string]interface{}) {
	l.log.Warn(msg, zapFields(fields)...)
}

func (l *zapLogger) Error(msg string, fields map[string]interface{}) {
	l.log.Error(msg, zapFields(fields)...)
}

func zapFields(fields map[string]interface{}) []zap.Field {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, key := range keys {
		out = append(out, zap.Any(key, fields[key]))
	}

	return out
}
