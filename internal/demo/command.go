package demo

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/junioryono/advice"
	"github.com/junioryono/advice/observe"
)

// NewRootCommand builds the advicedemo command tree. Scenario output goes to
// the command's output stream; logs, timings and call records go to its
// error stream.
func NewRootCommand() *cobra.Command {
	v := NewViper()

	root := &cobra.Command{
		Use:   "advicedemo",
		Short: "Run the advice lifecycle demos",
		Long: `advicedemo shows hooks running around function and method calls.

Scenarios:
  trace   print the call stack as methods of an embedding class run
  notify  report a failing scheduled task to its maintainers`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return readConfigFile(v)
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file")
	flags.String("style", StyleHooks, `hook style: "hooks" or "around"`)
	flags.Bool("propagate", false, "let failures reach the caller")
	flags.String("log-level", "warn", "log level for call logging")
	flags.Bool("record", false, "write a JSON record per call")
	flags.Bool("timing", false, "print how long each call took")

	_ = v.BindPFlag("config", flags.Lookup("config"))
	_ = v.BindPFlag("style", flags.Lookup("style"))
	_ = v.BindPFlag("propagate", flags.Lookup("propagate"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = v.BindPFlag("record", flags.Lookup("record"))
	_ = v.BindPFlag("timing", flags.Lookup("timing"))

	root.AddCommand(newTraceCommand(v), newNotifyCommand(v))
	return root
}

func newTraceCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "trace",
		Short: "Trace nested method calls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, v)
			if err != nil {
				return err
			}
			return RunTrace(env)
		},
	}
}

func newNotifyCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Report a failing scheduled task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, v)
			if err != nil {
				return err
			}
			return RunNotify(env, FailingTask)
		},
	}

	cmd.Flags().StringSlice("to", Default().EmailTo, "report recipients")
	cmd.Flags().StringSlice("cc", nil, "report copy recipients")
	_ = v.BindPFlag("email_to", cmd.Flags().Lookup("to"))
	_ = v.BindPFlag("email_cc", cmd.Flags().Lookup("cc"))
	return cmd
}

func readConfigFile(v *viper.Viper) error {
	file := v.GetString("config")
	if file == "" {
		return nil
	}
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", file, err)
	}
	return nil
}

// newEnv resolves the config and assembles the ambient hooks it asks for.
func newEnv(cmd *cobra.Command, v *viper.Viper) (*Env, error) {
	cfg, err := Load(v)
	if err != nil {
		return nil, err
	}

	level, _ := cfg.Level()
	errOut := cmd.ErrOrStderr()
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	env := &Env{
		Out:     cmd.OutOrStdout(),
		Config:  cfg,
		Options: []advice.Option{advice.WithLogger(logger)},
		Extra:   []advice.Hooks{observe.NewCallLogger(logger)},
	}

	if cfg.Timing {
		env.Extra = append(env.Extra, observe.NewTimer(nil, func(line string) {
			fmt.Fprintln(errOut, line)
		}))
	}
	if cfg.Record {
		env.Extra = append(env.Extra, observe.NewRecorder(errOut))
	}

	return env, nil
}

// Execute runs the command tree against the process arguments and exits
// non-zero on failure.
func Execute(out, errOut io.Writer) {
	root := NewRootCommand()
	root.SetOut(out)
	root.SetErr(errOut)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
