package ruoyi

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/ruoyi-fastapi/ruoyi-go/internal/transport"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/constants"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/errors"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/metrics"
)

// Option is a function that configures a Client
type Option func(*options) error

// options holds the configuration for a Client
type options struct {
	baseURL    string
	token      string
	timeout    time.Duration
	userAgent  string
	httpClient transport.HTTPDoer
	dispatcher transport.Dispatcher
	logger     *zerolog.Logger
	recorder   metrics.Recorder
	tracer     trace.Tracer
}

func defaults() *options {
	return &options{
		baseURL:   constants.DefaultBaseURL,
		timeout:   constants.DefaultHTTPTimeout,
		userAgent: constants.DefaultUserAgent,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithBaseURL sets the backend root, e.g. "http://localhost:9099" or a
// reverse proxy prefix such as "https://admin.example.com/prod-api".
func WithBaseURL(url string) Option {
	return func(o *options) error {
		url = strings.TrimSpace(url)
		if url == "" {
			return errors.NewValidationError("baseURL", url, "must not be empty")
		}
		o.baseURL = url
		return nil
	}
}

// WithToken sets the login token sent as a Bearer Authorization header.
func WithToken(token string) Option {
	return func(o *options) error {
		o.token = strings.TrimPrefix(strings.TrimSpace(token), "Bearer ")
		return nil
	}
}

// WithTimeout bounds each request. Zero disables the client-side deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.NewValidationError("timeout", d, "must not be negative")
		}
		o.timeout = d
		return nil
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) error {
		o.userAgent = ua
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for requests
func WithHTTPClient(doer HTTPDoer) Option {
	return func(o *options) error {
		o.httpClient = doer
		return nil
	}
}

// WithDispatcher replaces the HTTP dispatcher entirely. Base URL, token,
// timeout and HTTP client options are ignored when set.
func WithDispatcher(d Dispatcher) Option {
	return func(o *options) error {
		o.dispatcher = d
		return nil
	}
}

// WithLogger sets the logger for request logging
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithMetrics records request metrics, typically a *metrics.Manager.
func WithMetrics(r metrics.Recorder) Option {
	return func(o *options) error {
		o.recorder = r
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer. The global provider is used otherwise.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) error {
		o.tracer = t
		return nil
	}
}
