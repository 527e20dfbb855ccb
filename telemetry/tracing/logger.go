package tracing

import (
	"fmt"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Trace event names.
	infoEventName  = "info"
	errorEventName = "error"

	// Trace event attribute keys.
	messageKey   = "message"
	eventTypeKey = "event.type"
	levelKey     = "log.level"
	nonStringKey = "non-string"

	// Value of the event type of a log line.
	logEventTypeValue = "log"
)

// sink is a logr.LogSink that forwards to another sink and adds every log
// line as an event of a span.
type sink struct {
	next logr.LogSink
	span trace.Span
}

var _ logr.LogSink = &sink{}

// NewLogger returns a logger writing to logger and to span.
func NewLogger(logger logr.Logger, span trace.Span) logr.Logger {
	next := logger.GetSink()
	if cd, ok := next.(logr.CallDepthLogSink); ok {
		next = cd.WithCallDepth(1)
	}
	return logr.New(&sink{next: next, span: span})
}

// Init doesn't forward; the wrapped sink is already initialized.
func (s *sink) Init(logr.RuntimeInfo) {}

// Enabled reports true so that verbose lines still reach the span. The
// wrapped sink is asked before forwarding.
func (s *sink) Enabled(int) bool {
	return true
}

func (s *sink) Info(level int, msg string, keysAndValues ...interface{}) {
	if s.next != nil && s.next.Enabled(level) {
		s.next.Info(level, msg, keysAndValues...)
	}
	attrs := append([]attribute.KeyValue{
		attribute.String(messageKey, msg),
		attribute.String(eventTypeKey, logEventTypeValue),
		attribute.Int(levelKey, level),
	}, keyValues(keysAndValues...)...)
	s.span.AddEvent(infoEventName, trace.WithAttributes(attrs...))
}

func (s *sink) Error(err error, msg string, keysAndValues ...interface{}) {
	if s.next != nil {
		s.next.Error(err, msg, keysAndValues...)
	}
	attrs := append([]attribute.KeyValue{
		attribute.String(messageKey, msg),
		attribute.String(eventTypeKey, logEventTypeValue),
	}, keyValues(keysAndValues...)...)
	s.span.AddEvent(errorEventName, trace.WithAttributes(attrs...))
	if err != nil {
		s.span.RecordError(err)
	}
	s.span.SetStatus(codes.Error, msg)
}

func (s *sink) WithValues(keysAndValues ...interface{}) logr.LogSink {
	s.span.SetAttributes(keyValues(keysAndValues...)...)
	out := &sink{span: s.span}
	if s.next != nil {
		out.next = s.next.WithValues(keysAndValues...)
	}
	return out
}

func (s *sink) WithName(name string) logr.LogSink {
	s.span.SetAttributes(attribute.String("name", name))
	out := &sink{span: s.span}
	if s.next != nil {
		out.next = s.next.WithName(name)
	}
	return out
}

// keyValues converts the keysAndValues input from logger into a slice of
// opentelemetry attributes.
func keyValues(keysAndValues ...interface{}) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = nonStringKey
		}
		attrs = append(attrs, toAttribute(key, keysAndValues[i+1]))
	}
	return attrs
}

func toAttribute(key string, v interface{}) attribute.KeyValue {
	switch val := v.(type) {
	case string:
		return attribute.String(key, val)
	case bool:
		return attribute.Bool(key, val)
	case int:
		return attribute.Int(key, val)
	case int64:
		return attribute.Int64(key, val)
	case float64:
		return attribute.Float64(key, val)
	case []string:
		return attribute.StringSlice(key, val)
	case error:
		return attribute.String(key, val.Error())
	case fmt.Stringer:
		return attribute.Stringer(key, val)
	}
	return attribute.String(key, fmt.Sprint(v))
}
