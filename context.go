package advice

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle position of one invocation.
type State int

const (
	// Pending means the context was created and no hook has run yet.
	Pending State = iota
	// Running means Before completed and the target is executing.
	Running
	// Succeeded means the target returned without failure.
	Succeeded
	// Failed means the target returned an error or panicked.
	Failed
	// Closed means After has run.
	Closed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Running:
		return "Running"
	case Succeeded:
		return "Succeeded"
	case Failed:
		return "Failed"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}

type outcome int8

const (
	unset outcome = iota
	success
	failure
)

// Context describes one in-flight call through a wrapped function.
// A new Context is created for every call and is only valid until the
// call returns; hooks must not retain it.
type Context struct {
	// ID uniquely identifies the invocation.
	ID string

	// Name is the display name of the target, e.g. "Service.Run".
	Name string

	// Target is the original, unwrapped callable.
	Target reflect.Value

	// Args holds the positional arguments. A variadic tail is expanded.
	Args []any

	// Named maps parameter names to argument values when parameter
	// names were supplied with WithParams.
	Named map[string]any

	// Results holds the non-error return values once the call succeeded.
	Results []any

	// Err holds the failure once the call failed. A panicking target is
	// captured as *PanicError.
	Err error

	// Propagate controls whether a failure reaches the caller.
	// Hooks may change it for the current call.
	Propagate bool

	// Started is the time the context was created.
	Started time.Time

	// Elapsed is the time spent in the target.
	Elapsed time.Duration

	state   State
	outcome outcome
	values  map[any]any
	locals  map[any]any
	params  []string
}

func newContext(name string, target reflect.Value, in []reflect.Value, variadic bool, cfg *bindConfig) *Context {
	c := &Context{
		ID:        uuid.NewString(),
		Name:      name,
		Target:    target,
		Args:      flattenArgs(in, variadic),
		Propagate: cfg.propagate,
		Started:   time.Now(),
		values:    cfg.values,
		params:    cfg.params,
	}

	if len(cfg.params) > 0 {
		c.Named = make(map[string]any, len(cfg.params))
		for i, p := range cfg.params {
			if i < len(c.Args) {
				c.Named[p] = c.Args[i]
			}
		}
	}

	return c
}

// flattenArgs converts call arguments to interface values, expanding a
// variadic slice so hooks see the arguments as written at the call site.
func flattenArgs(in []reflect.Value, variadic bool) []any {
	args := make([]any, 0, len(in))
	for i, v := range in {
		if variadic && i == len(in)-1 {
			for j := 0; j < v.Len(); j++ {
				args = append(args, v.Index(j).Interface())
			}
			continue
		}
		args = append(args, v.Interface())
	}
	return args
}

// State returns the current lifecycle state.
func (c *Context) State() State {
	return c.state
}

// Done reports whether the target has finished, successfully or not.
func (c *Context) Done() bool {
	return c.outcome != unset
}

// Succeeded reports whether the target returned without failure.
func (c *Context) Succeeded() bool {
	return c.outcome == success
}

// Failed reports whether the target returned an error or panicked.
func (c *Context) Failed() bool {
	return c.outcome == failure
}

// Result returns the first non-error return value, or nil.
func (c *Context) Result() any {
	if len(c.Results) == 0 {
		return nil
	}
	return c.Results[0]
}

// Panicked reports whether the failure was a panic.
func (c *Context) Panicked() bool {
	var pe *PanicError
	return errors.As(c.Err, &pe)
}

// Traceback returns a printable description of the failure. For panics it
// includes the goroutine stack captured at the panic site.
func (c *Context) Traceback() string {
	if c.Err == nil {
		return ""
	}
	var pe *PanicError
	if errors.As(c.Err, &pe) && len(pe.Stack) > 0 {
		return pe.Error() + "\n\n" + string(pe.Stack)
	}
	return c.Err.Error()
}

// Value returns the hook configuration value stored under key with WithValue.
func (c *Context) Value(key any) any {
	if c.values == nil {
		return nil
	}
	return c.values[key]
}

// Ctx returns the first context.Context argument of the call, or
// context.Background when the target takes none.
func (c *Context) Ctx() context.Context {
	for _, arg := range c.Args {
		if ctx, ok := arg.(context.Context); ok && ctx != nil {
			return ctx
		}
	}
	return context.Background()
}

// String describes the call as name(arg, ...).
func (c *Context) String() string {
	return describeCall(c.Name, c.Args, c.params)
}

// setLocal stores per-call hook state.
func (c *Context) setLocal(key, value any) {
	if c.locals == nil {
		c.locals = make(map[any]any)
	}
	if value == nil {
		delete(c.locals, key)
		return
	}
	c.locals[key] = value
}

func (c *Context) local(key any) any {
	return c.locals[key]
}

func (c *Context) succeed(results []any) {
	c.Results = results
	c.Err = nil
	c.outcome = success
	c.state = Succeeded
}

func (c *Context) fail(err error) {
	c.Results = nil
	c.Err = err
	c.outcome = failure
	c.state = Failed
}
