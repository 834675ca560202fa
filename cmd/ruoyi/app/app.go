// Package app provides the application context and dependency management
// for the ruoyi CLI: configuration, logging, the lazily built API client
// and the optional metrics textfile.
package app

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/ruoyi-fastapi/ruoyi-go"
	"github.com/ruoyi-fastapi/ruoyi-go/cmd/application"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/errors"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/metrics"
)

// App represents the ruoyi CLI with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config      *Config
	logger      *zerolog.Logger
	loggerFixed bool // Set by WithLogger; flags do not rebuild it

	// Standard streams; nil means the process streams
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// Extra client options, e.g. a custom HTTP client
	clientOpts []ruoyi.Option

	// Client (lazy-initialized, singleton)
	mu       sync.RWMutex
	client   *ruoyi.Client
	registry *prometheus.Registry
	metrics  *metrics.Manager
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		logger := NewLogger(app.config, app.stderr())
		app.logger = &logger
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the --format value, empty for auto-detection.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Client returns the API client, creating it on first use from the
// configuration resolved for the running command.
func (a *App) Client() (*ruoyi.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	client, err := ruoyi.New(a.clientOptions()...)
	if err != nil {
		return nil, err
	}

	a.logger.Debug().
		Str("base_url", client.BaseURL()).
		Bool("token", a.config.Token != "").
		Dur("timeout", a.config.Timeout).
		Msg("client ready")

	a.client = client
	return client, nil
}

func (a *App) clientOptions() []ruoyi.Option {
	opts := []ruoyi.Option{
		ruoyi.WithBaseURL(a.config.BaseURL),
		ruoyi.WithTimeout(a.config.Timeout),
		ruoyi.WithUserAgent("ruoyi-cli/" + a.version),
		ruoyi.WithLogger(a.logger),
	}
	if a.config.Token != "" {
		opts = append(opts, ruoyi.WithToken(a.config.Token))
	}
	if a.metrics != nil {
		opts = append(opts, ruoyi.WithMetrics(a.metrics))
	}
	return append(opts, a.clientOpts...)
}

// enableMetrics starts recording dispatches for the metrics textfile.
func (a *App) enableMetrics() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.metrics != nil {
		return
	}
	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.NewManager(
		metrics.WithRegistry(a.registry),
		metrics.WithConstLabels(map[string]string{"cli_version": a.version}),
	)
}

// Shutdown flushes the metrics textfile when one is configured.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.RLock()
	registry := a.registry
	a.mu.RUnlock()

	if registry == nil || a.config.MetricsFile == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(a.config.MetricsFile, registry); err != nil {
		return errors.WrapIO("write", a.config.MetricsFile, err)
	}
	a.logger.Debug().Str("path", a.config.MetricsFile).Msg("metrics written")
	return nil
}

func (a *App) stdin() io.Reader {
	if a.in != nil {
		return a.in
	}
	return os.Stdin
}

func (a *App) stdout() io.Writer {
	if a.out != nil {
		return a.out
	}
	return os.Stdout
}

func (a *App) stderr() io.Writer {
	if a.errOut != nil {
		return a.errOut
	}
	return os.Stderr
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "must not be nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		a.loggerFixed = logger != nil
		return nil
	}
}

// WithIO replaces the standard streams (useful for testing).
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *App) error {
		a.in, a.out, a.errOut = in, out, errOut
		return nil
	}
}

// WithClientOptions appends options applied when the client is built,
// after those derived from configuration.
func WithClientOptions(opts ...ruoyi.Option) Option {
	return func(a *App) error {
		a.clientOpts = append(a.clientOpts, opts...)
		return nil
	}
}

var _ application.Application = (*App)(nil)
