package demo

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Hook styles a scenario can be built with.
const (
	StyleHooks  = "hooks"
	StyleAround = "around"
)

// Config holds the demo settings, read from flags, ADVICE_* environment
// variables and an optional config file.
type Config struct {
	Style     string   `mapstructure:"style"`
	Propagate bool     `mapstructure:"propagate"`
	LogLevel  string   `mapstructure:"log_level"`
	Record    bool     `mapstructure:"record"`
	Timing    bool     `mapstructure:"timing"`
	EmailTo   []string `mapstructure:"email_to"`
	EmailCc   []string `mapstructure:"email_cc"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Style:     StyleHooks,
		Propagate: false,
		LogLevel:  "warn",
		EmailTo:   []string{"maintainers@example.com"},
	}
}

// NewViper returns a viper instance with defaults and environment binding
// set up.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("ADVICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers Default on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("style", d.Style)
	v.SetDefault("propagate", d.Propagate)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("record", d.Record)
	v.SetDefault("timing", d.Timing)
	v.SetDefault("email_to", d.EmailTo)
	v.SetDefault("email_cc", d.EmailCc)
}

// Load reads the settings from v and validates them.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	switch c.Style {
	case StyleHooks, StyleAround:
	default:
		return fmt.Errorf("invalid style %q: must be %q or %q", c.Style, StyleHooks, StyleAround)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
