// Package logger provides a global, Sugared Zap logger. It supports configuring
// the log level via functional options, emits JSON logs to stdout, and lets
// callers attach key/value fields to a context so that every log line written
// with that context carries them (e.g. the current stream session id).
//
// When telemetry is running, entries are also forwarded to its OpenTelemetry
// LoggerProvider through the otelzap bridge.
package logger

import (
	"context"
	"os"
	"sync"

	"github.com/gabapcia/txingest/internal/pkg/telemetry"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// logger is the global SugaredLogger instance. It is a no-op logger until Init runs.
	logger = zap.NewNop().Sugar()

	// initOnce ensures the logger is only configured a single time.
	initOnce sync.Once
)

// scopeName is the instrumentation scope of bridged log records.
const scopeName = "github.com/gabapcia/txingest"

// fieldsKey is the context key under which log fields are stored.
type fieldsKey struct{}

// config holds configuration options for the logger.
type config struct {
	level string       // the minimum log level (debug, info, warn, error, panic, fatal)
	core  zapcore.Core // optional core replacing the default stdout JSON core
}

// Option configures the logger before initialization.
type Option func(*config)

// WithLevel sets the minimum log level for the global logger.
// Example levels: "debug", "info", "warn", "error", "panic", "fatal".
func WithLevel(l string) Option {
	return func(c *config) {
		c.level = l
	}
}

// WithCore replaces the default stdout JSON core. Mostly useful in tests
// (e.g. with zaptest/observer) to capture log output.
func WithCore(core zapcore.Core) Option {
	return func(c *config) {
		c.core = core
	}
}

// Init configures the global logger. By default, it logs JSON to stdout at
// the "info" level. Calling Init multiple times has no effect after the
// first successful initialization.
//
// Returns an error if parsing the log level fails.
func Init(opts ...Option) error {
	cfg := config{level: "info"}
	for _, opt := range opts {
		opt(&cfg)
	}

	level, err := zapcore.ParseLevel(cfg.level)
	if err != nil {
		return err
	}

	initOnce.Do(func() {
		core := cfg.core
		if core == nil {
			core = zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				level,
			)
		}

		if lp := telemetry.LoggerProvider(); lp != nil {
			core = zapcore.NewTee(core, bridgeCore(lp, level))
		}

		logger = zap.New(core).Sugar()
	})

	return nil
}

// bridgeCore forwards entries at or above level to lp.
func bridgeCore(lp log.LoggerProvider, level zapcore.Level) zapcore.Core {
	var core zapcore.Core = otelzap.NewCore(scopeName, otelzap.WithLoggerProvider(lp))

	if leveled, err := zapcore.NewIncreaseLevelCore(core, level); err == nil {
		core = leveled
	}
	return core
}

// Sync flushes any buffered log entries. It should be called on application
// shutdown to ensure all logs are written out.
func Sync() error {
	return logger.Sync()
}

// WithFields returns a copy of ctx carrying the given key/value pairs in
// addition to any fields already attached to ctx.
func WithFields(ctx context.Context, keysAndValues ...any) context.Context {
	fields := append(fieldsFrom(ctx), keysAndValues...)
	return context.WithValue(ctx, fieldsKey{}, fields)
}

// fieldsFrom returns a copy of the fields attached to ctx.
func fieldsFrom(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	fields, _ := ctx.Value(fieldsKey{}).([]any)
	return append([]any(nil), fields...)
}

// with merges the context fields, and the active span identifiers if any,
// in front of the call-site key/value pairs.
func with(ctx context.Context, keysAndValues []any) []any {
	fields := fieldsFrom(ctx)

	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields, "trace.id", sc.TraceID().String(), "span.id", sc.SpanID().String())
		}
	}

	if len(fields) == 0 {
		return keysAndValues
	}

	return append(fields, keysAndValues...)
}

// Debug logs a debug-level message with optional key/value context.
func Debug(ctx context.Context, msg string, keysAndValues ...any) {
	logger.Debugw(msg, with(ctx, keysAndValues)...)
}

// Info logs an info-level message with optional key/value context.
func Info(ctx context.Context, msg string, keysAndValues ...any) {
	logger.Infow(msg, with(ctx, keysAndValues)...)
}

// Warn logs a warn-level message with optional key/value context.
func Warn(ctx context.Context, msg string, keysAndValues ...any) {
	logger.Warnw(msg, with(ctx, keysAndValues)...)
}

// Error logs an error-level message with optional key/value context.
func Error(ctx context.Context, msg string, keysAndValues ...any) {
	logger.Errorw(msg, with(ctx, keysAndValues)...)
}

// Fatal logs a fatal-level message (and then exits) with optional key/value context.
func Fatal(ctx context.Context, msg string, keysAndValues ...any) {
	logger.Fatalw(msg, with(ctx, keysAndValues)...)
}
