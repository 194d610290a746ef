package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"dqcli/internal/config"
)

const meterName = "dqcli"

// Telemetry holds the OpenTelemetry providers for the process.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	logger         *slog.Logger
}

// InitTelemetry configures tracing (stdout exporter, development use) and
// metrics (Prometheus exporter) according to configuration. Disabled signals
// leave the corresponding provider nil.
func InitTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironmentName(cfg.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create otel resource: %w", err)
	}

	t := &Telemetry{logger: logger}

	if cfg.EnableTracing {
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.TracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(t.TracerProvider)
		t.Tracer = t.TracerProvider.Tracer(meterName)
	}

	if cfg.EnableMetrics {
		exporter, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		t.MeterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(exporter),
			sdkmetric.WithResource(res),
		)
		otel.SetMeterProvider(t.MeterProvider)
		t.Meter = t.MeterProvider.Meter(meterName)
		t.PrometheusHTTP = promhttp.Handler()
	}

	logger.Info("telemetry initialized",
		slog.String("service", cfg.ServiceName),
		slog.Bool("tracing", cfg.EnableTracing),
		slog.Bool("metrics", cfg.EnableMetrics))
	return t, nil
}

// Shutdown flushes and stops the providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var firstErr error
	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// RunMetrics are the validation-run instruments recorded by the service
// layer.
type RunMetrics struct {
	Runs     metric.Int64Counter
	Defects  metric.Int64Counter
	Duration metric.Float64Histogram
}

// NewRunMetrics registers the validation run instruments on a meter.
func NewRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	runs, err := meter.Int64Counter("validation_runs_total",
		metric.WithDescription("Total number of validation runs"))
	if err != nil {
		return nil, fmt.Errorf("failed to create runs counter: %w", err)
	}
	defects, err := meter.Int64Counter("validation_defects_total",
		metric.WithDescription("Total number of row-level defects reported"))
	if err != nil {
		return nil, fmt.Errorf("failed to create defects counter: %w", err)
	}
	duration, err := meter.Float64Histogram("validation_run_duration_seconds",
		metric.WithDescription("Validation run duration in seconds"))
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	return &RunMetrics{Runs: runs, Defects: defects, Duration: duration}, nil
}

// RecordRun records one completed validation run. Safe to call on a nil
// receiver so callers without telemetry skip instrumentation.
func (m *RunMetrics) RecordRun(ctx context.Context, source string, defects int, duration time.Duration, valid bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.Bool("valid", valid),
	)
	m.Runs.Add(ctx, 1, attrs)
	m.Defects.Add(ctx, int64(defects), attrs)
	m.Duration.Record(ctx, duration.Seconds(), attrs)
}
