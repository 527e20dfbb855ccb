package export

import (
	"go.opentelemetry.io/otel/exporters/jaeger"
)

// InstallJaegerExporter installs an opentelemetry exporter for Jaeger with
// the given service name. Without endpoint options the collector endpoint is
// read from OTEL_EXPORTER_JAEGER_ENDPOINT.
func InstallJaegerExporter(serviceName string, opts ...jaeger.CollectorEndpointOption) (TracerShutdown, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(opts...))
	if err != nil {
		return nil, err
	}
	return installProvider(serviceName, Jaeger, exp), nil
}
