package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/finder/internal/config"
	"github.com/roach88/finder/internal/logger"
)

// RootOptions holds global flags for all commands, and the configuration
// and logger resolved from them before a command runs.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	LogLevel   string

	cfg *config.Config
	log *logger.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the finder CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "finder",
		Short: "Compile repository method names into query plans",
		Long: `finder reads entity and repository declarations written in CUE and
compiles each method name (findByLastNameOrderByAgeDesc, countByStatusNot, ...)
into a structured query plan, reporting every method it cannot compile.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ./finder.yaml when present)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewExplainCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// resolve loads the configuration and builds the logger. Flags win over
// the file and the environment.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	wd, err := os.Getwd()
	if err != nil {
		return WrapExitError(ExitCommandError, "resolving working directory", err)
	}
	cfg, err := config.Load(o.ConfigPath, wd)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeUsage+": loading configuration", err)
	}

	if o.LogLevel != "" {
		if !logger.ValidLevel(o.LogLevel) {
			return NewExitError(ExitCommandError, fmt.Sprintf("%s: invalid log level %q", ErrCodeUsage, o.LogLevel))
		}
		cfg.Log.Level = o.LogLevel
	}
	if o.Verbose {
		cfg.Log.Level = logger.LevelDebug
	}

	log := logger.NewWithWriter(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	o.cfg = cfg
	o.log = &log
	return nil
}

// config returns the resolved configuration, or the defaults when the
// command runs without the root (as in tests).
func (o *RootOptions) config() *config.Config {
	if o.cfg == nil {
		return config.DefaultConfig()
	}
	return o.cfg
}

func (o *RootOptions) logger() logger.Logger {
	if o.log == nil {
		return logger.NewTestLogger()
	}
	return *o.log
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
