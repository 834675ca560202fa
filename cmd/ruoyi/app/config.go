package app

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ruoyi-fastapi/ruoyi-go/internal/config"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Backend connection
	BaseURL string
	Token   string
	Timeout time.Duration

	// Prometheus textfile written after each command, empty to disable
	MetricsFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. RUOYI_* environment variables
// 3. .env and .env.local files
// 4. Config file (configFile, or ~/.ruoyi.yaml and ./.ruoyi.yaml)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := config.NewViper()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".ruoyi")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit file must exist; the search locations are optional
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.WrapConfig("config file", err)
		}
	}

	timeout, err := config.GetDuration(v, config.KeyTimeout)
	if err != nil {
		return nil, err
	}

	return &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		BaseURL: config.GetString(v, config.KeyBaseURL),
		Token:   config.GetString(v, config.KeyToken),
		Timeout: timeout,

		MetricsFile: v.GetString("metrics_file"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", v.GetString("log_level")),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// Only flags the user actually set override file and environment values.
func (c *Config) UpdateFromFlags(flags *pflag.FlagSet) error {
	var err error
	set := func(name string, apply func()) {
		if err == nil && flags.Changed(name) {
			apply()
		}
	}

	set("verbose", func() { c.Verbose, err = flags.GetBool("verbose") })
	set("quiet", func() { c.Quiet, err = flags.GetBool("quiet") })
	set("no-color", func() { c.NoColor, err = flags.GetBool("no-color") })
	set("format", func() { c.Format, err = flags.GetString("format") })
	set("log-level", func() { c.LogLevel, err = flags.GetString("log-level") })
	set("base-url", func() { c.BaseURL, err = flags.GetString("base-url") })
	set("token", func() { c.Token, err = flags.GetString("token") })
	set("timeout", func() { c.Timeout, err = flags.GetDuration("timeout") })
	set("metrics-file", func() { c.MetricsFile, err = flags.GetString("metrics-file") })

	return err
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// godotenv never overrides variables that are already set, so the
	// first file wins for each key
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
