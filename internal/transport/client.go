// Package transport implements the request dispatcher shared by every API
// adapter. A dispatch performs exactly one HTTP round trip: no retries, no
// caching and no deduplication.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ruoyi-fastapi/ruoyi-go/pkg/constants"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/errors"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/logging"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/metrics"
)

const tracerName = "github.com/ruoyi-fastapi/ruoyi-go/internal/transport"

// Dispatcher sends one described request. Adapters depend on this interface
// so tests can substitute a recorder.
type Dispatcher interface {
	Send(ctx context.Context, d *Descriptor) (*Response, error)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, d *Descriptor) (*Response, error)

// Send implements Dispatcher.
func (f DispatcherFunc) Send(ctx context.Context, d *Descriptor) (*Response, error) {
	return f(ctx, d)
}

// HTTPDoer executes HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the HTTP Dispatcher. It is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	http      HTTPDoer
	auth      Authenticator
	timeout   time.Duration
	userAgent string
	logger    *zerolog.Logger
	recorder  metrics.Recorder
	tracer    trace.Tracer
	requestID func() string
}

// Compile-time interface check.
var _ Dispatcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// WithAuthenticator sets how credentials are attached.
func WithAuthenticator(auth Authenticator) Option {
	return func(c *Client) {
		if auth != nil {
			c.auth = auth
		}
	}
}

// WithTimeout bounds each dispatch. Zero disables the per-dispatch deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithTracer sets the OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithRequestIDFunc overrides request ID generation for contexts that carry
// no ID of their own.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.requestID = fn
		}
	}
}

// New creates a dispatcher rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, errors.NewConfigError("transport", "invalid base URL "+baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.NewConfigError("transport", "base URL must be http or https: "+baseURL, nil)
	}
	if u.Host == "" {
		return nil, errors.NewConfigError("transport", "base URL has no host: "+baseURL, nil)
	}

	c := &Client{
		baseURL:   u,
		http:      &http.Client{},
		auth:      NoAuth{},
		timeout:   constants.DefaultHTTPTimeout,
		userAgent: constants.DefaultUserAgent,
		recorder:  metrics.Nop{},
		tracer:    otel.Tracer(tracerName),
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Send implements Dispatcher.
func (c *Client) Send(ctx context.Context, d *Descriptor) (*Response, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	endpoint, err := c.resolve(d)
	if err != nil {
		return nil, err
	}

	if c.appliesTimeout(ctx, d) {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	requestID := logging.RequestID(ctx)
	if requestID == "" {
		requestID = c.requestID()
	}
	logger := c.loggerFor(ctx).With().
		Str("request_id", requestID).
		Str("resource", d.Resource).
		Str("method", string(d.Method)).
		Str("path", d.Path).
		Logger()

	ctx, span := c.tracer.Start(ctx, "ruoyi "+string(d.Method)+" "+d.Resource,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", string(d.Method)),
			attribute.String("url.path", d.Path),
			attribute.String("ruoyi.resource", d.Resource),
			attribute.String("ruoyi.request_id", requestID),
		),
	)
	defer span.End()

	req, err := c.newRequest(ctx, d, endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	req.Header.Set(constants.HeaderRequestID, requestID)

	start := time.Now()
	logger.Debug().Msg("dispatching request")

	httpResp, err := c.http.Do(req)
	if err != nil {
		terr := transportError(ctx, d, endpoint, err)
		c.finish(span, logger, d, 0, metrics.OutcomeTransport, time.Since(start), terr)
		return nil, terr
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		terr := transportError(ctx, d, endpoint, err)
		c.finish(span, logger, d, httpResp.StatusCode, metrics.OutcomeTransport, time.Since(start), terr)
		return nil, terr
	}
	if m, ok := c.recorder.(interface{ ObserveBytes(string, int) }); ok {
		m.ObserveBytes(d.Resource, len(body))
	}

	resp, err := classify(d, endpoint, httpResp.StatusCode, httpResp.Header, body)
	outcome := metrics.OutcomeSuccess
	switch {
	case errors.IsDecode(err):
		outcome = metrics.OutcomeDecode
	case err != nil:
		outcome = metrics.OutcomeApplication
	}
	c.finish(span, logger, d, httpResp.StatusCode, outcome, time.Since(start), err)
	return resp, err
}

// appliesTimeout reports whether the client timeout bounds this dispatch.
// Binary transfers honour a caller deadline that is later than the client
// timeout, so downloads and exports can run longer than ordinary calls.
func (c *Client) appliesTimeout(ctx context.Context, d *Descriptor) bool {
	if c.timeout <= 0 {
		return false
	}
	if d.ResponseType != ResponseTypeBinary {
		return true
	}
	deadline, ok := ctx.Deadline()
	return !ok || time.Until(deadline) <= c.timeout
}

// resolve joins the base URL, path and encoded query.
func (c *Client) resolve(d *Descriptor) (string, error) {
	path := d.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	unescaped, err := url.PathUnescape(path)
	if err != nil {
		return "", errors.NewValidationError("path", d.Path, err.Error())
	}
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + unescaped
	u.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + path

	rawQuery, err := d.Query.Encode()
	if err != nil {
		return "", err
	}
	u.RawQuery = rawQuery
	return u.String(), nil
}

func (c *Client) newRequest(ctx context.Context, d *Descriptor, endpoint string) (*http.Request, error) {
	var body io.Reader
	contentType := constants.ContentTypeJSON + ";charset=utf-8"
	switch {
	case d.Form != nil:
		form, err := d.Form.Encode()
		if err != nil {
			return nil, err
		}
		body = strings.NewReader(form)
		contentType = constants.ContentTypeForm
	case d.Body != nil:
		data, err := json.Marshal(d.Body)
		if err != nil {
			return nil, errors.NewValidationError("body", d.Body, "not JSON serializable: "+err.Error())
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, string(d.Method), endpoint, body)
	if err != nil {
		return nil, errors.NewValidationError("endpoint", endpoint, err.Error())
	}

	if d.ResponseType == ResponseTypeBinary {
		req.Header.Set(constants.HeaderAccept, "*/*")
	} else {
		req.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	}
	if body != nil {
		req.Header.Set(constants.HeaderContentType, contentType)
	}
	req.Header.Set(constants.HeaderUserAgent, c.userAgent)
	c.auth.Apply(req)
	return req, nil
}

func (c *Client) finish(span trace.Span, logger zerolog.Logger, d *Descriptor, status int, outcome string, elapsed time.Duration, err error) {
	c.recorder.ObserveDispatch(d.Resource, string(d.Method), status, outcome, elapsed)
	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}

	event := logger.Debug()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		event = event.Err(err)
	}
	event.Int("status", status).
		Str("outcome", outcome).
		Dur("elapsed", elapsed).
		Msg("request finished")
}

func (c *Client) loggerFor(ctx context.Context) *zerolog.Logger {
	if c.logger != nil && logging.FromContext(ctx) == logging.Default() {
		return c.logger
	}
	return logging.FromContext(ctx)
}

// transportError classifies a failed round trip.
func transportError(ctx context.Context, d *Descriptor, endpoint string, err error) error {
	terr := errors.NewTransportError(string(d.Method), endpoint, err)

	var netErr net.Error
	switch {
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(ctx.Err(), context.DeadlineExceeded):
		terr.Timeout = true
	case stderrors.Is(err, context.Canceled), stderrors.Is(ctx.Err(), context.Canceled):
		terr.Canceled = true
	case stderrors.As(err, &netErr) && netErr.Timeout():
		terr.Timeout = true
	}
	return terr
}
