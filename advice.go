package advice

import (
	"reflect"

	"github.com/junioryono/advice/internal/reflection"
)

// Advice ties one set of Hooks to any number of bound functions, classes
// and instances. It is immutable after construction and safe for
// concurrent use; the Hooks it carries are responsible for their own state.
type Advice struct {
	hooks    Hooks
	defaults *bindConfig
	analyzer *reflection.Analyzer
}

// New creates an Advice running the given hooks around every bound call.
// A nil hooks value behaves like NopHooks.
func New(hooks Hooks, opts ...Option) *Advice {
	if hooks == nil {
		hooks = NopHooks{}
	}

	cfg := newBindConfig()
	for _, opt := range opts {
		if opt != nil {
			opt.apply(cfg)
		}
	}

	return &Advice{
		hooks:    hooks,
		defaults: cfg,
		analyzer: reflection.New(),
	}
}

// NewAround creates an Advice from a single-function hook.
func NewAround(fn AroundFunc, opts ...Option) *Advice {
	if fn == nil {
		return New(nil, opts...)
	}
	return New(Around(fn), opts...)
}

// Hooks returns the hooks run by this Advice.
func (a *Advice) Hooks() Hooks {
	return a.hooks
}

// config resolves the defaults plus per-binding options.
func (a *Advice) config(opts []Option) *bindConfig {
	cfg := a.defaults.clone()
	for _, opt := range opts {
		if opt != nil {
			opt.apply(cfg)
		}
	}
	return cfg
}

// Wrap is the untyped form of Bind. It returns a function of the same
// type as fn.
func (a *Advice) Wrap(fn any, opts ...Option) (any, error) {
	cfg := a.config(opts)

	v := reflect.ValueOf(fn)
	if err := validateFunc(v, "bind"); err != nil {
		return nil, err
	}

	name := cfg.name
	if name == "" {
		name = reflection.FuncName(v)
	}

	wrapped, err := a.wrapValue(v, name, cfg)
	if err != nil {
		return nil, err
	}

	cfg.logger.Debug("advice bound function", "name", name, "type", formatType(v.Type()), "propagate", cfg.propagate)

	return wrapped.Interface(), nil
}

func validateFunc(v reflect.Value, operation string) error {
	if !v.IsValid() {
		return ConfigurationError{Operation: operation, Cause: ErrNilTarget}
	}
	if v.Kind() != reflect.Func {
		return ConfigurationError{Target: v.Type(), Operation: operation, Cause: ErrNotCallable}
	}
	if v.IsNil() {
		return ConfigurationError{Target: v.Type(), Operation: operation, Cause: ErrNilTarget}
	}
	return nil
}
