package observe

import (
	"context"
	"log/slog"

	"github.com/junioryono/advice"
)

// CallLogger logs the lifecycle of every call: start at debug level,
// success at info level and failure at error level.
type CallLogger struct {
	advice.NopHooks

	logger           Logger
	contextualLogger ContextualLogger
}

var _ advice.Hooks = (*CallLogger)(nil)

// NewCallLogger creates a CallLogger. When logger also implements
// ContextualLogger, entries carry the call's context. A nil logger uses
// slog.Default.
func NewCallLogger(logger Logger) *CallLogger {
	if logger == nil {
		logger = slog.Default()
	}
	l := &CallLogger{logger: logger}
	if cl, ok := logger.(ContextualLogger); ok {
		l.contextualLogger = cl
	}
	return l
}

func (l *CallLogger) Before(c *advice.Context) error {
	l.logDebug(c.Ctx(), "call started",
		LabelName, c.Name,
		LabelCallID, c.ID,
		"call", c.String(),
	)
	return nil
}

func (l *CallLogger) OnSuccess(c *advice.Context) error {
	l.logInfo(c.Ctx(), "call succeeded",
		LabelName, c.Name,
		LabelCallID, c.ID,
		"duration_ms", c.Elapsed.Milliseconds(),
	)
	return nil
}

func (l *CallLogger) OnFailure(c *advice.Context) error {
	l.logError(c.Ctx(), "call failed",
		LabelName, c.Name,
		LabelCallID, c.ID,
		LabelError, c.Err,
		"panicked", c.Panicked(),
		"propagate", c.Propagate,
		"duration_ms", c.Elapsed.Milliseconds(),
	)
	return nil
}

func (l *CallLogger) logDebug(ctx context.Context, msg string, args ...any) {
	if l.contextualLogger != nil {
		l.contextualLogger.DebugContext(ctx, msg, args...)
		return
	}
	l.logger.Debug(msg, args...)
}

func (l *CallLogger) logInfo(ctx context.Context, msg string, args ...any) {
	if l.contextualLogger != nil {
		l.contextualLogger.InfoContext(ctx, msg, args...)
		return
	}
	l.logger.Info(msg, args...)
}

func (l *CallLogger) logError(ctx context.Context, msg string, args ...any) {
	if l.contextualLogger != nil {
		l.contextualLogger.ErrorContext(ctx, msg, args...)
		return
	}
	l.logger.Error(msg, args...)
}
