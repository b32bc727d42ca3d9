// Package oteladapters implements the observe collector interfaces with
// OpenTelemetry, so advice hooks can emit spans, metrics and correlated logs
// without further glue.
package oteladapters

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/junioryono/advice/observe"
)

// TracingCollector implements observe.TracingCollector using the
// OpenTelemetry tracing API.
type TracingCollector struct {
	tracer trace.Tracer
}

// NewTracingCollector creates a tracing collector from a tracer obtained
// from your TracerProvider.
func NewTracingCollector(tracer trace.Tracer) *TracingCollector {
	return &TracingCollector{tracer: tracer}
}

// StartSpan starts a span with the given name and attributes.
func (t *TracingCollector) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, observe.SpanContext) {
	spanCtx, span := t.tracer.Start(ctx, name, trace.WithAttributes(toAttributes(attrs)...))
	return spanCtx, &OTelSpanContext{span: span}
}

// FinishSpan sets the final attributes and status and ends the span.
func (t *TracingCollector) FinishSpan(spanCtx observe.SpanContext, status string, attrs map[string]string) {
	otelSpanCtx, ok := spanCtx.(*OTelSpanContext)
	if !ok {
		return
	}

	otelSpanCtx.span.SetAttributes(toAttributes(attrs)...)
	if msg, failed := attrs[observe.LabelError]; failed && msg != "" {
		otelSpanCtx.span.SetStatus(codes.Error, msg)
	} else {
		otelSpanCtx.setSpanStatus(status)
	}
	otelSpanCtx.span.End()
}

var _ observe.TracingCollector = (*TracingCollector)(nil)

// OTelSpanContext implements observe.SpanContext by wrapping an
// OpenTelemetry span.
type OTelSpanContext struct {
	span trace.Span
}

// SetStatus maps a status string to an OpenTelemetry status code.
func (s *OTelSpanContext) SetStatus(status string) {
	s.setSpanStatus(status)
}

// AddAttribute adds a string attribute to the span.
func (s *OTelSpanContext) AddAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

func (s *OTelSpanContext) setSpanStatus(status string) {
	switch status {
	case observe.StatusSuccess, "ok", "completed":
		s.span.SetStatus(codes.Ok, "")
	case observe.StatusFailure, "error", "failed":
		s.span.SetStatus(codes.Error, "call failed")
	default:
		s.span.SetAttributes(attribute.String("status", status))
	}
}

var _ observe.SpanContext = (*OTelSpanContext)(nil)

func toAttributes(labels map[string]string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for key, value := range labels {
		attrs = append(attrs, attribute.String(key, value))
	}
	return attrs
}
