package telemetry

import (
	"context"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/darkowlzz/cloudsecret-operator/telemetry/tracing"
)

// Name of the logger library key.
const logLibraryKey = "library"

// Instrumentation provides a tracer and a logger for a component. Metrics
// are served by the prometheus collectors of the metrics package.
type Instrumentation struct {
	trace trace.Tracer
	log   logr.Logger
}

// NewInstrumentationWithProviders constructs and returns a new
// Instrumentation based on the given tracer provider and logger. A nil
// provider and a zero logger select the global defaults.
func NewInstrumentationWithProviders(name string, tp trace.TracerProvider, log logr.Logger) *Instrumentation {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if log.GetSink() == nil {
		log = ctrl.Log
	}
	return &Instrumentation{
		trace: tp.Tracer(name),
		log:   log.WithValues(logLibraryKey, name),
	}
}

// NewInstrumentation constructs and returns a new Instrumentation with the
// default providers.
func NewInstrumentation(name string) *Instrumentation {
	return NewInstrumentationWithProviders(name, nil, logr.Logger{})
}

// Start creates and returns a span and a tracing logger that records every
// log line as a span event.
func (i *Instrumentation) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span, logr.Logger) {
	ctx, span := i.trace.Start(ctx, name, opts...)
	tl := tracing.NewLogger(i.log.WithValues("spanName", name), span)
	return ctx, span, tl
}
