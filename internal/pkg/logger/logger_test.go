package logger

import (
	"context"
	"sync"
	"testing"

	"github.com/gabapcia/txingest/internal/pkg/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// resetLogger resets the global logger state for testing
func resetLogger() {
	logger = zap.NewNop().Sugar()
	initOnce = sync.Once{}
}

// observe initializes the global logger with an in-memory core.
func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	resetLogger()

	core, logs := observer.New(level)
	require.NoError(t, Init(WithCore(core)))
	t.Cleanup(resetLogger)

	return logs
}

func TestInit(t *testing.T) {
	t.Run("successful initialization with valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			resetLogger()
			err := Init(WithLevel(level))
			require.NoError(t, err)
			assert.NotNil(t, logger)
		}
		resetLogger()
	})

	t.Run("error with invalid level", func(t *testing.T) {
		resetLogger()
		err := Init(WithLevel("invalid"))
		assert.Error(t, err)
	})

	t.Run("init only once", func(t *testing.T) {
		resetLogger()

		require.NoError(t, Init(WithLevel("debug")))
		firstLogger := logger

		require.NoError(t, Init(WithLevel("error")))
		assert.Same(t, firstLogger, logger, "Init() should only initialize once")
		resetLogger()
	})
}

func TestLogging(t *testing.T) {
	t.Run("should log without init", func(t *testing.T) {
		resetLogger()

		assert.NotPanics(t, func() {
			Info(t.Context(), "no-op logger", "key", "value")
			_ = Sync()
		})
	})

	t.Run("should write message and fields", func(t *testing.T) {
		logs := observe(t, zapcore.DebugLevel)

		Debug(t.Context(), "debug message", "a", 1)
		Info(t.Context(), "info message", "b", 2)
		Warn(t.Context(), "warn message", "c", 3)
		Error(t.Context(), "error message", "d", 4)

		entries := logs.All()
		require.Len(t, entries, 4)
		assert.Equal(t, "debug message", entries[0].Message)
		assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
		assert.Equal(t, int64(2), entries[1].ContextMap()["b"])
	})

	t.Run("should respect core level", func(t *testing.T) {
		logs := observe(t, zapcore.WarnLevel)

		Info(t.Context(), "dropped")
		Warn(t.Context(), "kept")

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "kept", logs.All()[0].Message)
	})
}

func TestWithFields(t *testing.T) {
	t.Run("should prepend context fields", func(t *testing.T) {
		logs := observe(t, zapcore.InfoLevel)

		ctx := WithFields(t.Context(), "session.id", "abc")
		ctx = WithFields(ctx, "attempt", 2)
		Info(ctx, "connected", "endpoint", "wss://feed")

		fields := logs.All()[0].ContextMap()
		assert.Equal(t, "abc", fields["session.id"])
		assert.Equal(t, int64(2), fields["attempt"])
		assert.Equal(t, "wss://feed", fields["endpoint"])
	})

	t.Run("should not leak fields between derived contexts", func(t *testing.T) {
		logs := observe(t, zapcore.InfoLevel)

		parent := WithFields(t.Context(), "parent", true)
		_ = WithFields(parent, "child", true)
		Info(parent, "parent only")

		fields := logs.All()[0].ContextMap()
		assert.Contains(t, fields, "parent")
		assert.NotContains(t, fields, "child")
	})

	t.Run("should add span identifiers when a span is active", func(t *testing.T) {
		logs := observe(t, zapcore.InfoLevel)

		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: trace.TraceID{1, 2, 3},
			SpanID:  trace.SpanID{4, 5, 6},
		})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)

		Info(ctx, "traced")

		fields := logs.All()[0].ContextMap()
		assert.Equal(t, sc.TraceID().String(), fields["trace.id"])
		assert.Equal(t, sc.SpanID().String(), fields["span.id"])
	})
}

// recordSink is an sdklog.Exporter keeping the body of every exported record.
type recordSink struct {
	mu     sync.Mutex
	bodies []string
}

func (s *recordSink) Export(_ context.Context, records []sdklog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		s.bodies = append(s.bodies, r.Body().AsString())
	}
	return nil
}

func (s *recordSink) Shutdown(context.Context) error   { return nil }
func (s *recordSink) ForceFlush(context.Context) error { return nil }

func (s *recordSink) seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.bodies...)
}

func TestTelemetryBridge(t *testing.T) {
	t.Run("should forward entries to the telemetry logger provider", func(t *testing.T) {
		tp, mp, prop := otel.GetTracerProvider(), otel.GetMeterProvider(), otel.GetTextMapPropagator()
		t.Cleanup(func() {
			otel.SetTracerProvider(tp)
			otel.SetMeterProvider(mp)
			otel.SetTextMapPropagator(prop)
		})

		records := &recordSink{}
		shutdown, err := telemetry.Init(t.Context(), "txingest",
			telemetry.WithSpanExporter(tracetest.NewInMemoryExporter()),
			telemetry.WithMetricReader(sdkmetric.NewManualReader()),
			telemetry.WithLogExporter(records),
		)
		require.NoError(t, err)

		logs := observe(t, zapcore.InfoLevel)

		Debug(t.Context(), "below level")
		Info(t.Context(), "stream state changed", "to", "subscribed")

		require.NoError(t, shutdown(t.Context()))

		assert.Equal(t, 1, logs.Len())
		assert.Equal(t, []string{"stream state changed"}, records.seen())
	})
}
