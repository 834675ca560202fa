package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ruoyi-fastapi/ruoyi-go/pkg/logging"
)

// NewLogger creates a configured logger based on the application configuration.
// Log level precedence (highest to lowest):
//  1. --log-level flag or LOG_LEVEL
//  2. -q/--quiet (warn), which wins over -v when both are set
//  3. -v/--verbose (debug)
//  4. Default (info)
//
// Warnings about conflicting or invalid settings go to warnings.
func NewLogger(config *Config, warnings io.Writer) zerolog.Logger {
	level := determineLogLevel(config, warnings)

	return logging.NewLoggerFromConfig(&logging.Config{
		Level:     level,
		Format:    config.LogFormat,
		Output:    config.LogOutput,
		NoColor:   config.NoColor,
		AddCaller: level == "trace",
	})
}

func determineLogLevel(config *Config, warnings io.Writer) string {
	if config.LogLevel != "" {
		level, ok := validateLogLevel(config.LogLevel)
		if !ok {
			fmt.Fprintf(warnings, "Warning: invalid log level %q, using %q\n", config.LogLevel, level)
		}
		return level
	}

	switch {
	case config.Verbose && config.Quiet:
		fmt.Fprintf(warnings, "Warning: both --verbose and --quiet specified, using --quiet\n")
		return "warn"
	case config.Quiet:
		return "warn"
	case config.Verbose:
		return "debug"
	default:
		return "info"
	}
}

// validateLogLevel normalizes level, falling back to info for unknown input.
func validateLogLevel(level string) (string, bool) {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return level, true
	case "warning":
		return "warn", true
	default:
		return "info", false
	}
}
