package observe

import (
	"fmt"

	"github.com/junioryono/advice"
)

// Timer reports how long each call spent in its target.
//
// Every finished call is reported as "name(args) | 0.1234 sec" to the
// report function, when set, and recorded as a duration and a counter on
// the metrics collector, when set.
type Timer struct {
	advice.NopHooks

	metrics MetricsCollector
	report  func(line string)
}

var _ advice.Hooks = (*Timer)(nil)

// NewTimer creates a Timer. Either argument may be nil.
func NewTimer(metrics MetricsCollector, report func(line string)) *Timer {
	return &Timer{metrics: metrics, report: report}
}

func (t *Timer) After(c *advice.Context) error {
	if t.report != nil {
		t.report(fmt.Sprintf("%s | %.4f sec", c, c.Elapsed.Seconds()))
	}

	if t.metrics == nil {
		return nil
	}

	labels := map[string]string{
		LabelName:   c.Name,
		LabelStatus: status(c),
	}

	if cm, ok := t.metrics.(ContextualMetricsCollector); ok {
		ctx := c.Ctx()
		cm.RecordDurationContext(ctx, CallDurationMetric, c.Elapsed, labels)
		cm.IncrementCounterContext(ctx, CallsMetric, labels)
		return nil
	}

	t.metrics.RecordDuration(CallDurationMetric, c.Elapsed, labels)
	t.metrics.IncrementCounter(CallsMetric, labels)
	return nil
}

func status(c *advice.Context) string {
	if c.Succeeded() {
		return StatusSuccess
	}
	return StatusFailure
}
