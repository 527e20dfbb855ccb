package export

import (
	"context"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
)

// InstallOTLPExporter installs an opentelemetry exporter for an OTLP
// collector over gRPC. Without options the endpoint is read from
// OTEL_EXPORTER_OTLP_ENDPOINT.
func InstallOTLPExporter(ctx context.Context, serviceName string, opts ...otlptracegrpc.Option) (TracerShutdown, error) {
	exp, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return installProvider(serviceName, OTLP, exp), nil
}
