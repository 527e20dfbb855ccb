package telemetry

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInstrumentationStart(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	inst := NewInstrumentationWithProviders("cloudsecret", tp, logr.Discard())
	_, span, log := inst.Start(context.TODO(), "reconcile")
	log.Info("planned", "steps", 1)
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "reconcile", ended[0].Name())
	assert.Equal(t, "cloudsecret", ended[0].InstrumentationLibrary().Name)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "info", ended[0].Events()[0].Name)
}

func TestNewInstrumentationDefaults(t *testing.T) {
	inst := NewInstrumentation("cloudsecret")
	assert.NotNil(t, inst.trace)
	assert.NotNil(t, inst.log.GetSink())
}
