package observe

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/junioryono/advice"
)

// Tracer prints the call stack as calls enter and leave:
//
//	started running Manager.Main
//	started running Manager.Main -> Manager.Run
//	finished running Manager.Main -> Manager.Run
//	failed on running Manager.Main
//
// The stack is shared by every call the Tracer observes and is guarded by a
// mutex; calls on several goroutines interleave on the one stack.
type Tracer struct {
	mu    sync.Mutex
	stack []string
	out   io.Writer

	metrics MetricsCollector
}

var _ advice.Hooks = (*Tracer)(nil)

// TracerOption configures a Tracer.
type TracerOption func(*Tracer)

// WithOutput sets where trace lines are written. The default is os.Stdout.
func WithOutput(w io.Writer) TracerOption {
	return func(t *Tracer) {
		if w != nil {
			t.out = w
		}
	}
}

// WithDepthMetrics records the stack depth on every push.
func WithDepthMetrics(m MetricsCollector) TracerOption {
	return func(t *Tracer) {
		t.metrics = m
	}
}

// NewTracer creates a Tracer.
func NewTracer(opts ...TracerOption) *Tracer {
	t := &Tracer{out: os.Stdout}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracer) Before(c *advice.Context) error {
	t.mu.Lock()
	t.stack = append(t.stack, c.Name)
	line, depth := t.line("started running"), len(t.stack)
	t.mu.Unlock()

	if t.metrics != nil {
		labels := map[string]string{LabelName: c.Name}
		if cm, ok := t.metrics.(ContextualMetricsCollector); ok {
			cm.RecordValueContext(c.Ctx(), CallDepthMetric, float64(depth), labels)
		} else {
			t.metrics.RecordValue(CallDepthMetric, float64(depth), labels)
		}
	}

	if err := t.write(line); err != nil {
		// After does not run when Before fails
		_ = t.After(c)
		return err
	}
	return nil
}

func (t *Tracer) OnSuccess(*advice.Context) error {
	return t.write(t.lockedLine("finished running"))
}

func (t *Tracer) OnFailure(*advice.Context) error {
	return t.write(t.lockedLine("failed on running"))
}

func (t *Tracer) After(*advice.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n := len(t.stack); n > 0 {
		t.stack = t.stack[:n-1]
	}
	return nil
}

// Snapshot returns a copy of the current stack, outermost call first.
func (t *Tracer) Snapshot() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.stack))
	copy(out, t.stack)
	return out
}

// Depth returns the number of calls currently on the stack.
func (t *Tracer) Depth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.stack)
}

func (t *Tracer) lockedLine(prefix string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.line(prefix)
}

// line must be called with mu held.
func (t *Tracer) line(prefix string) string {
	return prefix + " " + strings.Join(t.stack, " -> ")
}

func (t *Tracer) write(line string) error {
	_, err := fmt.Fprintln(t.out, line)
	return err
}
