package advice

import (
	"fmt"
)

// Bind wraps fn so every call runs through the lifecycle of a.
// The returned function has exactly the type of fn.
//
//	tracer := advice.New(&Tracer{})
//	fetch, err := advice.Bind(tracer, client.Fetch)
//
// Bind fails with a ConfigurationError when fn is nil or not a function.
func Bind[F any](a *Advice, fn F, opts ...Option) (F, error) {
	var zero F

	wrapped, err := a.Wrap(fn, opts...)
	if err != nil {
		return zero, err
	}

	typed, ok := wrapped.(F)
	if !ok {
		return zero, ConfigurationError{
			Operation: "bind",
			Cause:     fmt.Errorf("%w: wrapped value is %T", ErrNotCallable, wrapped),
		}
	}

	return typed, nil
}

// MustBind is like Bind but panics on error. It suits package-level
// variables initialized with known-good functions.
func MustBind[F any](a *Advice, fn F, opts ...Option) F {
	wrapped, err := Bind(a, fn, opts...)
	if err != nil {
		panic(err)
	}
	return wrapped
}
