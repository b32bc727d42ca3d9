// Package observe provides ready-made advice hooks for tracing call stacks,
// logging, timing, span creation, failure notification and call recording.
//
// The collector interfaces in this package are dependency-free so that any
// backend can be plugged in; package oteladapters implements them with
// OpenTelemetry.
package observe

import (
	"context"
	"time"
)

// Logger is the basic structured logger used by the hooks. *slog.Logger
// satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger is a Logger that accepts the call's context for trace
// correlation. Hooks use it when the configured Logger implements it.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector receives call durations and counters.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// ContextualMetricsCollector extends MetricsCollector with context-aware
// methods. It is optional; hooks fall back to MetricsCollector.
type ContextualMetricsCollector interface {
	MetricsCollector
	RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
	IncrementCounterContext(ctx context.Context, metric string, labels map[string]string)
	RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string)
}

// SpanContext is an active tracing span.
type SpanContext interface {
	SetStatus(status string)
	AddAttribute(key, value string)
}

// TracingCollector starts and finishes spans around wrapped calls.
type TracingCollector interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext)
	FinishSpan(spanCtx SpanContext, status string, attrs map[string]string)
}

// Metric names and label keys recorded by the hooks.
const (
	CallDurationMetric = "advice_call_duration_seconds"
	CallsMetric        = "advice_calls_total"
	CallDepthMetric    = "advice_call_depth"

	LabelName   = "name"
	LabelStatus = "status"
	LabelCallID = "call_id"
	LabelError  = "error"
)

// Call status values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)
