// Package telemetry wires optional OpenTelemetry trace export for the
// deltastep coordinator's bucket-phase spans.
//
// The coordinator always starts spans against the global TracerProvider;
// with none installed that's a no-op. Init installs a real one, exporting
// via OTLP/gRPC, gated by DELTASTEP_OTEL_ENABLED so a library consumer
// that never calls Init pays nothing for tracing.
//
// Usage:
//
//	shutdown, err := telemetry.Init(ctx, telemetry.LoadFromEnv())
//	if err != nil {
//	    log.Printf("telemetry: %v", err)
//	}
//	defer shutdown(ctx)
package telemetry

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// ShutdownFunc flushes and shuts down the TracerProvider Init installed.
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// Config controls how Init wires tracing.
type Config struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	OTLPInsecure bool
}

// LoadFromEnv reads DELTASTEP_OTEL_* environment variables into a Config.
// Unset variables fall back to sane defaults; tracing is disabled unless
// DELTASTEP_OTEL_ENABLED is exactly "true".
func LoadFromEnv() Config {
	cfg := Config{
		Enabled:      os.Getenv("DELTASTEP_OTEL_ENABLED") == "true",
		ServiceName:  os.Getenv("DELTASTEP_OTEL_SERVICE_NAME"),
		OTLPEndpoint: os.Getenv("DELTASTEP_OTEL_ENDPOINT"),
		OTLPInsecure: os.Getenv("DELTASTEP_OTEL_INSECURE") == "true",
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "deltastep"
	}
	return cfg
}

// Init installs a TracerProvider built from cfg as the global provider. If
// cfg.Enabled is false, Init leaves the default no-op provider in place
// and returns a no-op shutdown.
func Init(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return noopShutdown, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.OTLPInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	client := otlptracegrpc.NewClient(opts...)
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return noopShutdown, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
	))
	if err != nil {
		return noopShutdown, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
