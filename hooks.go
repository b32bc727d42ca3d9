package advice

// Phase names a hook slot.
type Phase string

const (
	PhaseBefore    Phase = "before"
	PhaseAfter     Phase = "after"
	PhaseOnSuccess Phase = "on-success"
	PhaseOnFailure Phase = "on-failure"
)

// Hooks are the four extension points around a wrapped call.
//
// For a successful call the order is Before, target, OnSuccess, After.
// For a failed call it is Before, target, OnFailure, After.
//
// After runs exactly once for every call whose Before completed, even when
// OnSuccess or OnFailure return an error or panic. A hook fails by
// returning an error or by panicking; either supersedes the target's
// outcome and reaches the caller.
//
// A Hooks value may be shared by many bindings and nested calls. Hooks
// that keep state, such as a call stack, must push in Before and pop in
// After, and must synchronize if calls happen on several goroutines.
type Hooks interface {
	Before(c *Context) error
	After(c *Context) error
	OnSuccess(c *Context) error
	OnFailure(c *Context) error
}

// NopHooks is a no-op Hooks implementation.
// Embed it to override only the slots you need.
type NopHooks struct{}

// Before does nothing.
func (NopHooks) Before(*Context) error { return nil }

// After does nothing.
func (NopHooks) After(*Context) error { return nil }

// OnSuccess does nothing.
func (NopHooks) OnSuccess(*Context) error { return nil }

// OnFailure does nothing.
func (NopHooks) OnFailure(*Context) error { return nil }

var (
	_ Hooks = NopHooks{}
	_ Hooks = HookFuncs{}
	_ Hooks = (*aroundHooks)(nil)
	_ Hooks = (*chain)(nil)
)

// HookFuncs adapts plain functions to Hooks. Nil slots are no-ops.
type HookFuncs struct {
	BeforeFunc    func(c *Context) error
	AfterFunc     func(c *Context) error
	OnSuccessFunc func(c *Context) error
	OnFailureFunc func(c *Context) error
}

// Before calls BeforeFunc.
func (h HookFuncs) Before(c *Context) error { return call(h.BeforeFunc, c) }

// After calls AfterFunc.
func (h HookFuncs) After(c *Context) error { return call(h.AfterFunc, c) }

// OnSuccess calls OnSuccessFunc.
func (h HookFuncs) OnSuccess(c *Context) error { return call(h.OnSuccessFunc, c) }

// OnFailure calls OnFailureFunc.
func (h HookFuncs) OnFailure(c *Context) error { return call(h.OnFailureFunc, c) }

func call(fn func(*Context) error, c *Context) error {
	if fn == nil {
		return nil
	}
	return fn(c)
}

// AroundFunc is a single-function hook. Its body up to the return runs
// before the target; the returned exit function runs once after the
// target, with the context populated. A nil exit is allowed.
//
//	func trace(c *advice.Context) (func(), error) {
//	    start := time.Now()
//	    return func() {
//	        log.Printf("%s took %v (ok=%v)", c.Name, time.Since(start), c.Succeeded())
//	    }, nil
//	}
type AroundFunc func(c *Context) (exit func(), err error)

// Around adapts an AroundFunc to Hooks.
func Around(fn AroundFunc) Hooks {
	return &aroundHooks{fn: fn}
}

type aroundHooks struct {
	fn AroundFunc
}

// Per-call state is kept as a stack per hook value, so the same hook may
// appear more than once in a composition.
type exitKey struct{ h *aroundHooks }

// Before runs fn and keeps its exit for After.
func (h *aroundHooks) Before(c *Context) error {
	exit, err := h.fn(c)
	if err != nil {
		return err
	}
	exits, _ := c.local(exitKey{h}).([]func())
	c.setLocal(exitKey{h}, append(exits, exit))
	return nil
}

// After runs the exit saved by the matching Before.
func (h *aroundHooks) After(c *Context) error {
	exits, _ := c.local(exitKey{h}).([]func())
	if len(exits) == 0 {
		return nil
	}
	exit := exits[len(exits)-1]
	c.setLocal(exitKey{h}, exits[:len(exits)-1])
	if exit != nil {
		exit()
	}
	return nil
}

// OnSuccess does nothing; the exit function sees the outcome.
func (h *aroundHooks) OnSuccess(*Context) error { return nil }

// OnFailure does nothing; the exit function sees the outcome.
func (h *aroundHooks) OnFailure(*Context) error { return nil }

// Chain combines hooks into one. Before runs in order; OnSuccess,
// OnFailure and After run in reverse order, like deferred calls.
// Each hook's After runs only if its own Before completed.
func Chain(hooks ...Hooks) Hooks {
	ch := &chain{hooks: make([]Hooks, 0, len(hooks))}
	for _, h := range hooks {
		if h != nil {
			ch.hooks = append(ch.hooks, h)
		}
	}
	return ch
}

type chain struct {
	hooks []Hooks
}

// enteredKey holds, per active entry of a chain, how many of its hooks
// completed Before.
type enteredKey struct{ ch *chain }

func (ch *chain) entered(c *Context) []int {
	entered, _ := c.local(enteredKey{ch}).([]int)
	return entered
}

// Before runs every hook's Before in order. If one fails, the hooks that
// already entered are unwound before the error is returned.
func (ch *chain) Before(c *Context) error {
	slot := len(ch.entered(c))
	c.setLocal(enteredKey{ch}, append(ch.entered(c), 0))

	for i, h := range ch.hooks {
		if err := h.Before(c); err != nil {
			_ = ch.After(c)
			return err
		}
		ch.entered(c)[slot] = i + 1
	}
	return nil
}

// After runs After in reverse order for the hooks whose Before completed.
// The first error is returned.
func (ch *chain) After(c *Context) error {
	entered := ch.entered(c)
	if len(entered) == 0 {
		return nil
	}
	n := entered[len(entered)-1]
	c.setLocal(enteredKey{ch}, entered[:len(entered)-1])

	var first error
	for i := n - 1; i >= 0; i-- {
		if err := ch.hooks[i].After(c); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OnSuccess runs OnSuccess in reverse order and stops at the first error.
func (ch *chain) OnSuccess(c *Context) error {
	for i := len(ch.hooks) - 1; i >= 0; i-- {
		if err := ch.hooks[i].OnSuccess(c); err != nil {
			return err
		}
	}
	return nil
}

// OnFailure runs OnFailure in reverse order and stops at the first error.
func (ch *chain) OnFailure(c *Context) error {
	for i := len(ch.hooks) - 1; i >= 0; i-- {
		if err := ch.hooks[i].OnFailure(c); err != nil {
			return err
		}
	}
	return nil
}
