// Package config provides viper-backed lookups shared by the CLI.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ruoyi-fastapi/ruoyi-go/pkg/constants"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/errors"
)

// Keys read from the config file or RUOYI_* environment variables.
const (
	KeyBaseURL = "base_url"
	KeyToken   = "token"
	KeyTimeout = "timeout"
)

// NewViper returns a viper instance that reads RUOYI_* variables, so
// "base_url" resolves from RUOYI_BASE_URL.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyBaseURL, constants.DefaultBaseURL)
	v.SetDefault(KeyTimeout, constants.DefaultHTTPTimeout.String())
	return v
}

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(v *viper.Viper, key string) string {
	viperValue := strings.TrimSpace(v.GetString(key))
	if viperValue != "" {
		return viperValue
	}
	// Unprefixed variables, e.g. from a plain .env file
	return strings.TrimSpace(os.Getenv(strings.ToUpper(key)))
}

// GetDuration parses a duration value. Bare numbers are seconds.
func GetDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := GetString(v, key)
	if raw == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	if d, err := time.ParseDuration(raw + "s"); err == nil {
		return d, nil
	}
	return 0, errors.NewConfigError(key, "invalid duration "+raw, nil)
}
