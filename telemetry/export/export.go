// Package export installs a global otel tracer provider backed by one of the
// supported exporters.
package export

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// Exporter names.
const (
	None   = "none"
	Jaeger = "jaeger"
	OTLP   = "otlp"
)

// TracerShutdown flushes and stops the installed exporter.
type TracerShutdown func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Install installs the named exporter. The endpoints are read from the
// standard OTEL_EXPORTER_* environment variables. DISABLE_TRACING=true
// installs nothing.
func Install(ctx context.Context, exporter, serviceName string) (TracerShutdown, error) {
	if tracingDisabled() {
		return noopShutdown, nil
	}
	switch exporter {
	case None, "":
		return noopShutdown, nil
	case Jaeger:
		return InstallJaegerExporter(serviceName)
	case OTLP:
		return InstallOTLPExporter(ctx, serviceName)
	}
	return nil, fmt.Errorf("unknown tracing exporter %q", exporter)
}

// installProvider sets a batching tracer provider for exp as the global
// provider.
func installProvider(serviceName, exporter string, exp sdktrace.SpanExporter) TracerShutdown {
	res := resource.NewWithAttributes(semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
		semconv.TelemetrySDKNameKey.String("opentelemetry"),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exp),
	)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to stop %s tracer provider: %w", exporter, err)
		}
		return nil
	}
}
