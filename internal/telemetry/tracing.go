package telemetry

import (
	"context"
	"fmt"

	"github.com/iwvelando/finplan/internal/config"
	"github.com/iwvelando/finplan/pkg/constants"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TracerName is the instrumentation name used for spans.
const TracerName = "github.com/iwvelando/finplan"

// Tracer returns the tracer of the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// InitTracing installs an OTLP/HTTP exporting tracer provider when an
// endpoint is configured. Without one the global no-op provider stays in
// place. The returned function flushes and stops the provider.
func InitTracing(ctx context.Context, logger *zap.Logger, cfg config.TelemetryConfig, version string) (func(context.Context) error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.OTLPEndpoint == "" {
		logger.Debug("tracing disabled, no OTLP endpoint configured",
			zap.String("op", "telemetry.InitTracing"),
		)
		return func(context.Context) error { return nil }, nil
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = constants.DefaultServiceName
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logger.Info("tracing enabled",
		zap.String("op", "telemetry.InitTracing"),
		zap.String("endpoint", cfg.OTLPEndpoint),
		zap.String("service", serviceName),
	)
	return tp.Shutdown, nil
}
