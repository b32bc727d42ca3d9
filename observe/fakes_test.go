package observe_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/junioryono/advice/observe"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }

type plainLogger struct {
	lines []string
}

func (l *plainLogger) Debug(msg string, _ ...any) { l.lines = append(l.lines, "debug:"+msg) }
func (l *plainLogger) Info(msg string, _ ...any)  { l.lines = append(l.lines, "info:"+msg) }
func (l *plainLogger) Warn(msg string, _ ...any)  { l.lines = append(l.lines, "warn:"+msg) }
func (l *plainLogger) Error(msg string, _ ...any) { l.lines = append(l.lines, "error:"+msg) }

type metricCall struct {
	name     string
	duration time.Duration
	value    float64
	labels   map[string]string
}

type fakeMetrics struct {
	mu        sync.Mutex
	durations []metricCall
	counters  []metricCall
	values    []metricCall
}

var _ observe.MetricsCollector = (*fakeMetrics)(nil)

func (m *fakeMetrics) RecordDuration(name string, d time.Duration, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations = append(m.durations, metricCall{name: name, duration: d, labels: labels})
}

func (m *fakeMetrics) IncrementCounter(name string, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = append(m.counters, metricCall{name: name, labels: labels})
}

func (m *fakeMetrics) RecordValue(name string, v float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = append(m.values, metricCall{name: name, value: v, labels: labels})
}

func (m *fakeMetrics) durationsOf(name string) []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []time.Duration
	for _, c := range m.durations {
		if c.name == name {
			out = append(out, c.duration)
		}
	}
	return out
}

func (m *fakeMetrics) countersOf(name string) []map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []map[string]string
	for _, c := range m.counters {
		if c.name == name {
			out = append(out, c.labels)
		}
	}
	return out
}

func (m *fakeMetrics) valuesOf(name string) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []float64
	for _, c := range m.values {
		if c.name == name {
			out = append(out, c.value)
		}
	}
	return out
}

type fakeSpan struct {
	name   string
	status string
	attrs  map[string]string
}

func (s *fakeSpan) SetStatus(status string)        { s.status = status }
func (s *fakeSpan) AddAttribute(key, value string) { s.attrs[key] = value }

type fakeTracing struct {
	spans []*fakeSpan
}

var _ observe.TracingCollector = (*fakeTracing)(nil)

func (f *fakeTracing) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, observe.SpanContext) {
	span := &fakeSpan{name: name, attrs: map[string]string{}}
	for k, v := range attrs {
		span.attrs[k] = v
	}
	f.spans = append(f.spans, span)
	return ctx, span
}

func (f *fakeTracing) FinishSpan(spanCtx observe.SpanContext, status string, attrs map[string]string) {
	span := spanCtx.(*fakeSpan)
	span.SetStatus(status)
	for k, v := range attrs {
		span.AddAttribute(k, v)
	}
}
