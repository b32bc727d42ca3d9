// Package advice runs user-defined hooks around function and method calls.
//
// # Overview
//
// An Advice carries four hooks, Before, OnSuccess, OnFailure and After, and
// binds them to functions, to classes or to individual objects. Every call
// through a bound target creates a fresh Context, runs the hooks around the
// target and hands the target's results back to the caller unchanged.
//
//   - Functions are wrapped with Bind; the result has the exact type of the input
//   - Classes are wrapped once at declaration time with BindClass
//   - Every object a constructor builds is wrapped with BindInstances
//   - Single objects are wrapped in place with Advice.Instrument
//   - Failures propagate by default and can be suppressed per binding or per call
//
// # Basic Usage
//
//	hooks := advice.HookFuncs{
//	    BeforeFunc: func(c *advice.Context) error {
//	        log.Printf("started running %s", c.Name)
//	        return nil
//	    },
//	    AfterFunc: func(c *advice.Context) error {
//	        log.Printf("finished running %s", c.Name)
//	        return nil
//	    },
//	}
//
//	a := advice.New(hooks)
//	fetch, err := advice.Bind(a, client.Fetch)
//
// # Call Lifecycle
//
// Each call moves through the states Pending, Running, Succeeded or Failed,
// and Closed. For a successful call the hooks run in the order
//
//	Before, target, OnSuccess, After
//
// and for a failed call
//
//	Before, target, OnFailure, After
//
// A target fails by returning a non-nil error as its last result or by
// panicking. After runs exactly once for every call whose Before completed,
// even when OnSuccess or OnFailure fail.
//
// # Failure Propagation
//
// With propagation enabled, which is the default, the caller receives the
// identical error the target returned, or the original panic is raised
// again. With propagation disabled the hooks observe the failure and the
// caller receives zero values:
//
//	quiet, _ := advice.Bind(a, job.Run, advice.Suppress())
//
// Hooks may set Context.Propagate or replace Context.Err during OnFailure
// to decide per call.
//
// # Hook Errors
//
// A hook that returns an error supersedes the target's outcome. The error
// is wrapped in *HookError and returned through the target's error result,
// or raised as a panic when the target has none. Before failing skips the
// target and After.
//
// # Classes
//
// A class is a struct whose rebindable methods are exported func-typed
// fields, built by a constructor. Embedding one class in another gives
// inheritance with Go's promotion rules: a field declared on the outer
// struct shadows a promoted one.
//
//	type Service struct {
//	    Fetch func(ctx context.Context, id string) (*Item, error)
//	    Close func() error
//	}
//
//	newService, err := advice.BindClass(a, NewService, advice.Except("Close"))
//
// BindClass discovers members once, against the declared type, so classes
// that embed a bound class keep only the wrappers they inherit.
// BindInstances discovers members on the runtime type of every constructed
// object, so members added by embedding types are covered too.
//
// Fields tagged `advice:"-"` are never wrapped.
//
// # Single-Function Hooks
//
// Around adapts a function whose body runs before the target and whose
// returned closure runs after it:
//
//	a := advice.NewAround(func(c *advice.Context) (func(), error) {
//	    start := time.Now()
//	    return func() { metrics.Observe(c.Name, time.Since(start)) }, nil
//	})
//
// Chain combines several Hooks; their exits run in reverse order.
package advice
