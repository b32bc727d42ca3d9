package advice

import (
	"log/slog"
)

// Option configures an Advice or a single binding.
// Options given to New become defaults for every binding made with that
// Advice; options given to a binding override them.
type Option interface {
	apply(*bindConfig)
}

// bindConfig holds binding configuration.
type bindConfig struct {
	propagate bool
	name      string
	params    []string
	values    map[any]any
	selector  Selector
	logger    *slog.Logger
}

func newBindConfig() *bindConfig {
	return &bindConfig{
		propagate: true,
		logger:    slog.New(slog.DiscardHandler),
	}
}

// clone copies the config so per-binding options never leak into defaults.
func (c *bindConfig) clone() *bindConfig {
	out := *c
	out.params = append([]string(nil), c.params...)
	if c.values != nil {
		out.values = make(map[any]any, len(c.values))
		for k, v := range c.values {
			out.values[k] = v
		}
	}
	out.selector = Selector{
		Selection: append([]string(nil), c.selector.Selection...),
		Exception: append([]string(nil), c.selector.Exception...),
	}
	return &out
}

// optionFunc adapts a function to Option.
type optionFunc func(*bindConfig)

func (f optionFunc) apply(cfg *bindConfig) {
	f(cfg)
}

// WithPropagate sets whether a target failure reaches the caller.
// The default is true. Hooks may still override it per call through
// Context.Propagate.
func WithPropagate(propagate bool) Option {
	return optionFunc(func(cfg *bindConfig) {
		cfg.propagate = propagate
	})
}

// Suppress is shorthand for WithPropagate(false): failures are observed by
// the hooks and the caller receives zero values.
func Suppress() Option {
	return WithPropagate(false)
}

// WithName overrides the display name recorded in Context.Name.
// It only applies to function bindings.
func WithName(name string) Option {
	return optionFunc(func(cfg *bindConfig) {
		cfg.name = name
	})
}

// WithParams names the target's parameters in order, populating
// Context.Named and the call description.
func WithParams(names ...string) Option {
	return optionFunc(func(cfg *bindConfig) {
		cfg.params = append([]string(nil), names...)
	})
}

// WithValue attaches hook configuration, readable with Context.Value.
func WithValue(key, value any) Option {
	return optionFunc(func(cfg *bindConfig) {
		if cfg.values == nil {
			cfg.values = make(map[any]any)
		}
		cfg.values[key] = value
	})
}

// WithSelector sets the member selection policy for class and instance bindings.
func WithSelector(sel Selector) Option {
	return optionFunc(func(cfg *bindConfig) {
		cfg.selector = sel
	})
}

// Select restricts class and instance bindings to the named members.
func Select(names ...string) Option {
	return optionFunc(func(cfg *bindConfig) {
		cfg.selector.Selection = append([]string(nil), names...)
	})
}

// Except binds every eligible member except the named ones.
func Except(names ...string) Option {
	return optionFunc(func(cfg *bindConfig) {
		cfg.selector.Exception = append([]string(nil), names...)
	})
}

// WithLogger sets the logger used to report binding decisions at debug level.
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(cfg *bindConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	})
}
