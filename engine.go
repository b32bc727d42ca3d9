package advice

import (
	"errors"
	"reflect"
	"runtime/debug"
	"time"

	"github.com/junioryono/advice/internal/reflection"
)

// wrapValue builds a function of fn's exact type that runs the lifecycle
// around every call.
func (a *Advice) wrapValue(fn reflect.Value, name string, cfg *bindConfig) (reflect.Value, error) {
	sig, err := a.analyzer.Analyze(fn.Type())
	if err != nil {
		return reflect.Value{}, ConfigurationError{Target: fn.Type(), Operation: "bind", Cause: err}
	}

	wrapped := reflect.MakeFunc(fn.Type(), func(in []reflect.Value) []reflect.Value {
		c := newContext(name, fn, in, sig.Variadic, cfg)
		out, hookErr := a.execute(c, fn, in, sig)
		return finish(c, out, hookErr, sig)
	})

	return wrapped, nil
}

// execute runs one call through the state machine:
//
//	Pending -> Running -> {Succeeded, Failed} -> Closed
//
// Before runs outside the guarded region: if it fails, neither the target
// nor After runs. After is deferred so it runs once even if OnSuccess or
// OnFailure fail or panic. The first hook error wins.
func (a *Advice) execute(c *Context, fn reflect.Value, in []reflect.Value, sig *reflection.Signature) (out []reflect.Value, hookErr error) {
	if err := a.hooks.Before(c); err != nil {
		return nil, &HookError{Phase: PhaseBefore, Name: c.Name, Err: err}
	}
	c.state = Running

	defer func() {
		err := a.hooks.After(c)
		c.state = Closed
		if err != nil && hookErr == nil {
			hookErr = &HookError{Phase: PhaseAfter, Name: c.Name, Err: err}
		}
	}()

	out = invoke(c, fn, in, sig)

	if c.Succeeded() {
		if err := a.hooks.OnSuccess(c); err != nil {
			return out, &HookError{Phase: PhaseOnSuccess, Name: c.Name, Err: err}
		}
		return out, nil
	}

	if err := a.hooks.OnFailure(c); err != nil {
		return out, &HookError{Phase: PhaseOnFailure, Name: c.Name, Err: err}
	}
	return out, nil
}

// invoke calls the target and records its outcome on the context.
// A panic is recovered into *PanicError; out is nil in that case.
func invoke(c *Context, fn reflect.Value, in []reflect.Value, sig *reflection.Signature) (out []reflect.Value) {
	start := time.Now()

	defer func() {
		c.Elapsed = time.Since(start)
		if r := recover(); r != nil {
			c.fail(&PanicError{Value: r, Stack: debug.Stack()})
			out = nil
		}
	}()

	if sig.Variadic {
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}

	results := make([]any, 0, len(out))
	for i, v := range out {
		if i == sig.ErrorIndex {
			continue
		}
		results = append(results, v.Interface())
	}

	if sig.HasErrorReturn() {
		if errVal := out[sig.ErrorIndex]; !errVal.IsNil() {
			c.fail(errVal.Interface().(error))
			return out
		}
	}

	c.succeed(results)
	return out
}

// finish turns the final context into the values handed back to the caller.
func finish(c *Context, out []reflect.Value, hookErr error, sig *reflection.Signature) []reflect.Value {
	if hookErr != nil {
		if sig.HasErrorReturn() {
			zero := sig.ZeroResults()
			zero[sig.ErrorIndex] = reflect.ValueOf(&hookErr).Elem()
			return zero
		}
		panic(hookErr)
	}

	if c.Succeeded() {
		return out
	}

	if !c.Propagate || c.Err == nil {
		return sig.ZeroResults()
	}

	var pe *PanicError
	if errors.As(c.Err, &pe) {
		panic(pe.Value)
	}

	if !sig.HasErrorReturn() {
		panic(c.Err)
	}

	// Hand back the target's own values when the failure is unchanged
	if out != nil && sameError(out[sig.ErrorIndex], c.Err) {
		return out
	}

	zero := sig.ZeroResults()
	zero[sig.ErrorIndex] = reflect.ValueOf(&c.Err).Elem()
	return zero
}

func sameError(v reflect.Value, err error) (same bool) {
	if v.IsNil() {
		return false
	}
	got, ok := v.Interface().(error)
	if !ok {
		return false
	}
	if !isComparable(got) || !isComparable(err) {
		return false
	}

	// A comparable struct error can still hold an uncomparable value in an
	// interface field; == panics on it.
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return got == err
}

// isComparable guards == on error values whose dynamic type is not comparable.
func isComparable(err error) bool {
	return reflect.TypeOf(err).Comparable()
}
