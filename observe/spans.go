package observe

import (
	"github.com/junioryono/advice"
)

// Spans returns hooks that open a span named after the target before each
// call and finish it after, with status "success" or "failure". The parent
// span is taken from the first context.Context argument of the call.
func Spans(tracing TracingCollector) advice.Hooks {
	return advice.Around(func(c *advice.Context) (func(), error) {
		_, span := tracing.StartSpan(c.Ctx(), c.Name, map[string]string{
			LabelCallID: c.ID,
			"call":      c.String(),
		})

		return func() {
			attrs := map[string]string{}
			if c.Failed() && c.Err != nil {
				attrs[LabelError] = c.Err.Error()
			}
			tracing.FinishSpan(span, status(c), attrs)
		}, nil
	})
}
