package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruoyi-fastapi/ruoyi-go/internal/cmd/output"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/constants"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/errors"
)

// Execute runs the ruoyi CLI with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(a.stdin())
	rootCmd.SetOut(a.stdout())
	rootCmd.SetErr(a.stderr())

	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ruoyi",
		Short:   "RuoYi-FastAPI notify and system API client",
		Version: a.version,
		Long: `ruoyi talks to a RuoYi-FastAPI backend: manage notify channels, keys,
platforms and delivery logs, push notifications through an API key, and
manage the system audio, book, demo, student and TTS config records.

Every command is a single HTTP request. The backend address and login
token come from --base-url/--token, RUOYI_BASE_URL/RUOYI_TOKEN, .env
files or ~/.ruoyi.yaml.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "notify",
		Title: "Notify Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "system",
		Title: "System Commands:",
	})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.ruoyi.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "output format: table, json, yaml, wide (default: table on a terminal, json otherwise)")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.String("base-url", "", "backend root, e.g. "+constants.DefaultBaseURL+" or https://host/prod-api")
	flags.String("token", "", "login token sent as a Bearer header")
	flags.Duration("timeout", 0, "per-request timeout, 0 to disable (default "+constants.DefaultHTTPTimeout.String()+")")
	flags.String("metrics-file", "", "write Prometheus metrics for this run to a textfile")

	rootCmd.SetVersionTemplate("ruoyi {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs. It reloads the config
// file named by --config, applies explicit flags and rebuilds the logger.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if path := mustGetString(cmd, "config"); path != "" {
		config, err := LoadConfig(path)
		if err != nil {
			return err
		}
		a.config = config
	}

	if err := a.config.UpdateFromFlags(cmd.Flags()); err != nil {
		return errors.WrapValidation("flags", err)
	}
	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}
	if a.config.Timeout < 0 {
		return errors.NewValidationError("timeout", a.config.Timeout, "must not be negative")
	}

	if !a.loggerFixed {
		logger := NewLogger(a.config, cmd.ErrOrStderr())
		a.logger = &logger
	}

	if a.config.MetricsFile != "" {
		a.enableMetrics()
	}

	a.logger.Debug().
		Str("command", cmd.CommandPath()).
		Str("config_file", a.config.ConfigFile).
		Msg("starting")
	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		if hint := hintFor(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
}

// hintFor suggests a fix for common failures.
func hintFor(err error) string {
	switch {
	case errors.IsUnauthorized(err):
		return "Hint: set a login token with --token or RUOYI_TOKEN"
	case errors.IsTimeout(err):
		return "Hint: raise the limit with --timeout"
	case errors.IsTransport(err):
		return "Hint: check that the backend is reachable at --base-url or RUOYI_BASE_URL"
	default:
		return ""
	}
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
