// Package digadvice connects advice to a go.uber.org/dig container: objects
// provided through it are instrumented as they are built, and invoked
// functions run through the advice lifecycle.
package digadvice

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/junioryono/advice"
)

// Option configures Provide, Decorate and Invoke.
type Option interface {
	apply(*options)
}

type options struct {
	advice  []advice.Option
	provide []dig.ProvideOption
	invoke  []dig.InvokeOption
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) { f(o) }

// WithAdvice passes binding options, such as selectors, to advice.
func WithAdvice(opts ...advice.Option) Option {
	return optionFunc(func(o *options) {
		o.advice = append(o.advice, opts...)
	})
}

// WithProvideOptions passes options to dig.Container.Provide.
func WithProvideOptions(opts ...dig.ProvideOption) Option {
	return optionFunc(func(o *options) {
		o.provide = append(o.provide, opts...)
	})
}

// WithInvokeOptions passes options to dig.Container.Invoke.
func WithInvokeOptions(opts ...dig.InvokeOption) Option {
	return optionFunc(func(o *options) {
		o.invoke = append(o.invoke, opts...)
	})
}

func collect(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(o)
		}
	}
	return o
}

// Provide registers ctor with c so that every object it builds has its
// members bound to a, as advice.BindInstances does. ctor must return a
// pointer to a struct or an interface holding one, optionally followed by
// an error.
func Provide(c *dig.Container, a *advice.Advice, ctor any, opts ...Option) error {
	o := collect(opts)

	bound, err := advice.BindInstances(a, ctor, o.advice...)
	if err != nil {
		return err
	}

	if err := c.Provide(bound, o.provide...); err != nil {
		return fmt.Errorf("digadvice: provide: %w", err)
	}
	return nil
}

// Decorate instruments every T that c resolves, including values provided
// without digadvice. T must be a pointer to a struct or an interface
// holding one.
func Decorate[T any](c *dig.Container, a *advice.Advice, opts ...Option) error {
	o := collect(opts)

	decorator := func(v T) (T, error) {
		if err := a.Instrument(v, o.advice...); err != nil {
			var zero T
			return zero, err
		}
		return v, nil
	}

	if err := c.Decorate(decorator); err != nil {
		return fmt.Errorf("digadvice: decorate %T: %w", *new(T), err)
	}
	return nil
}

// Invoke binds fn to a and invokes it through c. fn's dependencies are
// resolved by dig; the call itself runs through the advice lifecycle.
func Invoke(c *dig.Container, a *advice.Advice, fn any, opts ...Option) error {
	o := collect(opts)

	wrapped, err := a.Wrap(fn, o.advice...)
	if err != nil {
		return err
	}

	return c.Invoke(wrapped, o.invoke...)
}
