// Package demo holds the scenarios run by the advicedemo command: a call
// tracer over an embedding class hierarchy and a failure notifier for a
// scheduled task. Each scenario can be built from four-slot hooks or from a
// single Around function.
package demo

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/junioryono/advice"
	"github.com/junioryono/advice/observe"
)

// ErrExpected is the failure raised on purpose by both scenarios.
var ErrExpected = errors.New("expected error")

// Base is a class with a single method that prints the kind of the object.
type Base struct {
	Kind string
	Out  io.Writer

	Run func()
}

// NewBase builds a Base printing kind to out.
func NewBase(out io.Writer, kind string) *Base {
	b := &Base{Kind: kind, Out: out}
	b.Run = func() { fmt.Fprintln(b.Out, b.Kind) }
	return b
}

// Derived embeds Base and adds Main, which calls Run and then fails.
type Derived struct {
	*Base

	Main func() error
}

// NewDerived builds a Derived on top of the given base constructor.
func NewDerived(newBase func(io.Writer, string) *Base, out io.Writer) *Derived {
	d := &Derived{Base: newBase(out, "Derived")}
	d.Main = func() error {
		d.Run()
		return ErrExpected
	}
	return d
}

// Env carries what every scenario needs besides its own hooks.
type Env struct {
	Out     io.Writer
	Config  *Config
	Options []advice.Option
	Extra   []advice.Hooks
}

func (e *Env) newAdvice(h advice.Hooks) *advice.Advice {
	hooks := append([]advice.Hooks{h}, e.Extra...)
	opts := append([]advice.Option{advice.WithPropagate(e.Config.Propagate)}, e.Options...)
	return advice.New(advice.Chain(hooks...), opts...)
}

// RunTrace runs the call tracer scenario.
//
// With hook-style tracing every object Derived builds is instrumented, so
// the stack reads Derived.Main -> Derived.Run. With Around-style tracing only
// Base is bound at declaration time and Main is instrumented on the object,
// so the stack reads Derived.Main -> Base.Run.
func RunTrace(env *Env) error {
	if env.Config.Style == StyleAround {
		return runTraceAround(env)
	}

	a := env.newAdvice(observe.NewTracer(observe.WithOutput(env.Out)))

	newDerived, err := advice.BindInstances(a, NewDerived)
	if err != nil {
		return err
	}
	return newDerived(NewBase, env.Out).Main()
}

func runTraceAround(env *Env) error {
	var stack []string
	a := env.newAdvice(advice.Around(func(c *advice.Context) (func(), error) {
		stack = append(stack, c.Name)
		line := strings.Join(stack, " -> ")
		fmt.Fprintf(env.Out, "started running %s\n", line)

		return func() {
			if c.Succeeded() {
				fmt.Fprintf(env.Out, "finished running %s\n", line)
			} else {
				fmt.Fprintf(env.Out, "failed on running %s\n", line)
			}
			stack = stack[:len(stack)-1]
		}, nil
	}))

	newBase, err := advice.BindClass(a, NewBase)
	if err != nil {
		return err
	}

	d := NewDerived(newBase, env.Out)
	if err := a.Instrument(d, advice.Select("Main")); err != nil {
		return err
	}
	return d.Main()
}

// Task is a scheduled job.
type Task func() error

// FailingTask is a job that always fails.
func FailingTask() error {
	return fmt.Errorf("task_main: %w", ErrExpected)
}

// RunNotify runs the scheduled task scenario: the task fails and a report
// is sent to the configured recipients instead of crashing the scheduler.
func RunNotify(env *Env, task Task) error {
	var hooks advice.Hooks
	if env.Config.Style == StyleAround {
		hooks = advice.Around(func(c *advice.Context) (func(), error) {
			return func() {
				if c.Failed() {
					fmt.Fprintf(env.Out, "exception sent to %s\n%s\n", strings.Join(env.Config.EmailTo, ", "), c.Traceback())
				}
			}, nil
		})
	} else {
		hooks = observe.NewNotifier(observe.WriterSender(env.Out), env.Config.EmailTo, env.Config.EmailCc...)
	}

	a := env.newAdvice(hooks)
	bound, err := advice.Bind(a, task, advice.WithName("task_main"))
	if err != nil {
		return err
	}
	return bound()
}
