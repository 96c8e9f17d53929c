// Package telemetry initializes OpenTelemetry metrics, tracing and logs with
// OTLP exporters over gRPC. Endpoints and headers come from the standard
// OTEL_EXPORTER_OTLP_* environment variables.
package telemetry

import (
	"context"
	"errors"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// loggerProvider is set by Init and cleared on shutdown.
var loggerProvider atomic.Pointer[sdklog.LoggerProvider]

// LoggerProvider returns the provider registered by Init, or nil when
// telemetry is not running. The logger package bridges zap into it.
func LoggerProvider() *sdklog.LoggerProvider {
	return loggerProvider.Load()
}

// config holds the telemetry options.
type config struct {
	serviceVersion string
	spanExporter   sdktrace.SpanExporter
	metricReader   sdkmetric.Reader
	logExporter    sdklog.Exporter
}

// Option configures Init.
type Option func(*config)

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(v string) Option {
	return func(c *config) {
		c.serviceVersion = v
	}
}

// WithSpanExporter replaces the OTLP trace exporter, e.g. with an in-memory
// exporter in tests.
func WithSpanExporter(e sdktrace.SpanExporter) Option {
	return func(c *config) {
		c.spanExporter = e
	}
}

// WithMetricReader replaces the periodic OTLP metric reader.
func WithMetricReader(r sdkmetric.Reader) Option {
	return func(c *config) {
		c.metricReader = r
	}
}

// WithLogExporter replaces the OTLP log exporter.
func WithLogExporter(e sdklog.Exporter) Option {
	return func(c *config) {
		c.logExporter = e
	}
}

// initLoggerProvider sets up a batching LoggerProvider with the given
// exporter. A nil exporter means OTLP over gRPC.
func initLoggerProvider(ctx context.Context, res *sdkresource.Resource, exporter sdklog.Exporter) (*sdklog.LoggerProvider, error) {
	if exporter == nil {
		var err error
		if exporter, err = otlploggrpc.New(ctx); err != nil {
			return nil, err
		}
	}

	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(res),
	)

	loggerProvider.Store(lp)
	return lp, nil
}

// initMeterProvider sets up a MeterProvider with the given reader and
// registers it as the global MeterProvider. A nil reader means a periodic
// OTLP gRPC reader.
func initMeterProvider(ctx context.Context, res *sdkresource.Resource, reader sdkmetric.Reader) (*sdkmetric.MeterProvider, error) {
	if reader == nil {
		exporter, err := otlpmetricgrpc.New(ctx)
		if err != nil {
			return nil, err
		}
		reader = sdkmetric.NewPeriodicReader(exporter)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)
	return mp, nil
}

// initTracerProvider sets up a batching TracerProvider with the given
// exporter and registers it as the global TracerProvider. A nil exporter
// means OTLP over gRPC.
func initTracerProvider(ctx context.Context, res *sdkresource.Resource, exporter sdktrace.SpanExporter) (*sdktrace.TracerProvider, error) {
	if exporter == nil {
		var err error
		if exporter, err = otlptracegrpc.New(ctx); err != nil {
			return nil, err
		}
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	return tp, nil
}

// newResource merges the default system resource with the service identity.
func newResource(serviceName, serviceVersion string) (*sdkresource.Resource, error) {
	attrs := []sdkresource.Option{
		sdkresource.WithAttributes(semconv.ServiceName(serviceName)),
	}
	if serviceVersion != "" {
		attrs = append(attrs, sdkresource.WithAttributes(semconv.ServiceVersion(serviceVersion)))
	}

	res, err := sdkresource.New(context.Background(), append(attrs, sdkresource.WithSchemaURL(semconv.SchemaURL))...)
	if err != nil {
		return nil, err
	}

	return sdkresource.Merge(sdkresource.Default(), res)
}

// ShutdownFunc flushes and stops all telemetry providers.
// Call this function at application shutdown to ensure all telemetry is sent.
type ShutdownFunc func(ctx context.Context) error

// Init configures OpenTelemetry metrics, traces and logs for serviceName and
// sets the W3C trace context propagator. Call it before logger.Init so that
// log entries are also exported.
//
// The returned ShutdownFunc must be called on exit so that buffered spans,
// metrics and log records are exported.
func Init(ctx context.Context, serviceName string, opts ...Option) (ShutdownFunc, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	res, err := newResource(serviceName, cfg.serviceVersion)
	if err != nil {
		return nil, err
	}

	mp, err := initMeterProvider(ctx, res, cfg.metricReader)
	if err != nil {
		return nil, err
	}

	tp, err := initTracerProvider(ctx, res, cfg.spanExporter)
	if err != nil {
		return nil, errors.Join(err, mp.Shutdown(ctx))
	}

	lp, err := initLoggerProvider(ctx, res, cfg.logExporter)
	if err != nil {
		return nil, errors.Join(err, tp.Shutdown(ctx), mp.Shutdown(ctx))
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		loggerProvider.CompareAndSwap(lp, nil)

		return errors.Join(
			lp.Shutdown(ctx),
			tp.Shutdown(ctx),
			mp.Shutdown(ctx),
		)
	}, nil
}
