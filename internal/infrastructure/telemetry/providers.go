// Package telemetry wires OpenTelemetry traces, metrics and logs for the
// catalog sync service.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultMetricInterval = time.Minute

// Settings describes the OTLP collector and which signals are exported.
// All signals share one gRPC endpoint.
type Settings struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Insecure       bool

	Traces        bool
	SamplingRatio float64

	Metrics        bool
	MetricInterval time.Duration

	Logs bool
}

// Providers owns the SDK providers started for the process. Signals that are
// disabled, or failed to start, stay nil and their accessors fall back to
// no-op behaviour.
type Providers struct {
	settings Settings
	logger   *zap.Logger

	traces  *sdktrace.TracerProvider
	metrics *sdkmetric.MeterProvider
	logs    *sdklog.LoggerProvider
}

// Start builds a provider for every enabled signal and installs it globally.
// A failing signal is left disabled; the returned error joins every failure
// while the returned Providers is always usable.
func Start(ctx context.Context, s Settings, logger *zap.Logger) (*Providers, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Providers{settings: s, logger: logger}
	if !s.Traces && !s.Metrics && !s.Logs {
		return p, nil
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(s.ServiceName),
		semconv.ServiceVersion(s.ServiceVersion),
	))
	if err != nil {
		return p, fmt.Errorf("telemetry resource: %w", err)
	}

	var errs []error
	if s.Traces {
		if err := p.startTraces(ctx, res); err != nil {
			errs = append(errs, err)
		}
	}
	if s.Metrics {
		if err := p.startMetrics(ctx, res); err != nil {
			errs = append(errs, err)
		}
	}
	if s.Logs {
		if err := p.startLogs(ctx, res); err != nil {
			errs = append(errs, err)
		}
	}

	logger.Info("Telemetry started",
		zap.String("endpoint", s.Endpoint),
		zap.Bool("traces", p.traces != nil),
		zap.Bool("metrics", p.metrics != nil),
		zap.Bool("logs", p.logs != nil),
	)
	return p, errors.Join(errs...)
}

func (p *Providers) startTraces(ctx context.Context, res *resource.Resource) error {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(p.settings.Endpoint)}
	if p.settings.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("trace exporter: %w", err)
	}

	p.traces = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(Sampler(p.settings.SamplingRatio)),
	)
	otel.SetTracerProvider(p.traces)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return nil
}

func (p *Providers) startMetrics(ctx context.Context, res *resource.Resource) error {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(p.settings.Endpoint)}
	if p.settings.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("metric exporter: %w", err)
	}

	interval := p.settings.MetricInterval
	if interval <= 0 {
		interval = defaultMetricInterval
	}
	p.metrics = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(p.metrics)
	return nil
}

func (p *Providers) startLogs(ctx context.Context, res *resource.Resource) error {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(p.settings.Endpoint)}
	if p.settings.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("log exporter: %w", err)
	}

	p.logs = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(p.logs)
	return nil
}

// Sampler maps a ratio onto a sampler. Ratios at or above 1 sample every
// trace, at or below 0 none; anything between respects the parent decision.
func Sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

// TracingEnabled reports whether spans are exported.
func (p *Providers) TracingEnabled() bool { return p != nil && p.traces != nil }

// MetricsEnabled reports whether metrics are exported.
func (p *Providers) MetricsEnabled() bool { return p != nil && p.metrics != nil }

// LogsEnabled reports whether log records are exported.
func (p *Providers) LogsEnabled() bool { return p != nil && p.logs != nil }

// Meter returns the service meter, or nil when metrics are not exported.
func (p *Providers) Meter() metric.Meter {
	if !p.MetricsEnabled() {
		return nil
	}
	return p.metrics.Meter(TracerName)
}

// Logger tees base into the OTLP log pipeline for entries at or above level.
// base is returned unchanged when log export is off.
func (p *Providers) Logger(base *zap.Logger, level zapcore.Level) *zap.Logger {
	if !p.LogsEnabled() {
		return base
	}
	exported := &minLevelCore{
		Core: otelzap.NewCore(p.settings.ServiceName, otelzap.WithLoggerProvider(p.logs)),
		min:  level,
	}
	return base.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, exported)
	}))
}

// Shutdown flushes and stops the providers in reverse start order.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.logs != nil {
		if err := p.logs.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("log provider: %w", err))
		}
	}
	if p.metrics != nil {
		if err := p.metrics.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}
	if p.traces != nil {
		if err := p.traces.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	return errors.Join(errs...)
}

// minLevelCore drops entries below min before they reach the exporter.
type minLevelCore struct {
	zapcore.Core
	min zapcore.Level
}

func (c *minLevelCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.min && c.Core.Enabled(lvl)
}

func (c *minLevelCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *minLevelCore) With(fields []zapcore.Field) zapcore.Core {
	return &minLevelCore{Core: c.Core.With(fields), min: c.min}
}
