// Package ruoyi provides a typed client for the RuoYi-FastAPI notify and
// system APIs.
//
// Every method maps to exactly one HTTP request. The client holds no cache
// and never retries; failures surface as *errors.TransportError,
// *errors.APIError or *errors.DecodeError from pkg/errors.
//
// Example usage:
//
//	client, err := ruoyi.New(
//	    ruoyi.WithBaseURL("http://localhost:9099"),
//	    ruoyi.WithToken(os.Getenv("RUOYI_TOKEN")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	page, err := client.Channels.List(ctx, &api.NotifyChannelQuery{Status: "0"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, ch := range page.Rows {
//	    fmt.Println(ch.ChannelID, ch.ChannelName)
//	}
//
//	// Push through the public endpoint with an API key
//	result, err := client.Send.SendText(ctx, apiKey, "deploy finished")
package ruoyi

import (
	"github.com/ruoyi-fastapi/ruoyi-go/internal/transport"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/api"
)

// Dispatcher sends one request descriptor. Substitute it with WithDispatcher
// to test code that uses the client.
type Dispatcher = transport.Dispatcher

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc = transport.DispatcherFunc

// Descriptor describes one HTTP request.
type Descriptor = transport.Descriptor

// Response is the result of one dispatch.
type Response = transport.Response

// HTTPDoer executes HTTP requests. *http.Client satisfies it.
type HTTPDoer = transport.HTTPDoer

// Client exposes every resource adapter.
type Client struct {
	*api.Client

	dispatcher transport.Dispatcher
	baseURL    string
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	d := o.dispatcher
	baseURL := ""
	if d == nil {
		httpClient, err := transport.New(o.baseURL, o.transportOptions()...)
		if err != nil {
			return nil, err
		}
		d = httpClient
		baseURL = httpClient.BaseURL()
	}

	return &Client{
		Client:     api.New(d),
		dispatcher: d,
		baseURL:    baseURL,
	}, nil
}

// Dispatcher returns the dispatcher all adapters share.
func (c *Client) Dispatcher() Dispatcher {
	return c.dispatcher
}

// BaseURL returns the backend root, or "" when a custom dispatcher is in use.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (o *options) transportOptions() []transport.Option {
	opts := []transport.Option{
		transport.WithTimeout(o.timeout),
		transport.WithUserAgent(o.userAgent),
		transport.WithHTTPClient(o.httpClient),
		transport.WithRecorder(o.recorder),
		transport.WithTracer(o.tracer),
	}
	if o.token != "" {
		opts = append(opts, transport.WithAuthenticator(transport.BearerAuth{Token: o.token}))
	}
	if o.logger != nil {
		opts = append(opts, transport.WithLogger(o.logger))
	}
	return opts
}
