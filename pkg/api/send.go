package api

import (
	"context"
	"encoding/json"

	"github.com/ruoyi-fastapi/ruoyi-go/internal/transport"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/errors"
)

const sendBase = "/notify/send"

// Message types accepted by the send endpoints.
const (
	MsgTypeText     = "text"
	MsgTypeMarkdown = "markdown"
)

// SendRequest is a notification pushed through an API key. The key decides
// which channels receive it unless ChannelID narrows delivery to one.
type SendRequest struct {
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Content   string `json:"content,omitempty" yaml:"content,omitempty"`
	MsgType   string `json:"msg_type,omitempty" yaml:"msg_type,omitempty"`
	ChannelID int64  `json:"channel_id,omitempty" yaml:"channel_id,omitempty"`
}

// SendResult summarizes delivery across the key's channels.
type SendResult struct {
	Success      bool            `json:"success" yaml:"success"`
	Total        int             `json:"total" yaml:"total"`
	SuccessCount int             `json:"success_count" yaml:"success_count"`
	FailCount    int             `json:"fail_count" yaml:"fail_count"`
	Results      []ChannelResult `json:"results" yaml:"results"`
}

// ChannelResult is the delivery outcome for one channel.
type ChannelResult struct {
	Success     bool   `json:"success" yaml:"success"`
	ChannelID   int64  `json:"channel_id" yaml:"channel_id"`
	ChannelName string `json:"channel_name" yaml:"channel_name"`
	Platform    string `json:"platform,omitempty" yaml:"platform,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
	CostTime    int64  `json:"cost_time,omitempty" yaml:"cost_time,omitempty"` // Milliseconds
}

// SendService pushes notifications through the public, key-authenticated
// endpoints. No login token is needed.
type SendService struct {
	endpoint
}

// NewSendService creates the send adapter.
func NewSendService(d transport.Dispatcher) *SendService {
	return &SendService{endpoint: endpoint{resource: "notify.send", dispatcher: d}}
}

// Send posts req as a JSON body. When some channels fail the result is
// returned alongside the error.
func (s *SendService) Send(ctx context.Context, apiKey string, req *SendRequest) (*SendResult, error) {
	return s.result(ctx, &transport.Descriptor{
		Path:   transport.JoinPath(sendBase, apiKey),
		Method: transport.MethodPost,
		Body:   req,
	})
}

// SendQuery sends req as query parameters, the form webhook-style callers use.
func (s *SendService) SendQuery(ctx context.Context, apiKey string, req *SendRequest) (*SendResult, error) {
	query := transport.Query{}
	if req != nil {
		query["title"] = omitEmpty(req.Title)
		query["text"] = omitEmpty(req.Content)
		query["msg_type"] = omitEmpty(req.MsgType)
		if req.ChannelID != 0 {
			query["channel_id"] = req.ChannelID
		}
	}
	return s.result(ctx, &transport.Descriptor{
		Path:   transport.JoinPath(sendBase, apiKey),
		Method: transport.MethodGet,
		Query:  query,
	})
}

// SendText sends content as plain text embedded in the path.
func (s *SendService) SendText(ctx context.Context, apiKey, content string) (*SendResult, error) {
	return s.result(ctx, &transport.Descriptor{
		Path:   transport.JoinPath(sendBase, apiKey, content),
		Method: transport.MethodGet,
	})
}

// result decodes the delivery summary. A failed delivery is reported as an
// APIError that still carries the per-channel results; those are returned
// together with the error.
func (s *SendService) result(ctx context.Context, d *transport.Descriptor) (*SendResult, error) {
	resp, err := s.send(ctx, d)
	if err != nil {
		var apiErr *errors.APIError
		if errors.As(err, &apiErr) && len(apiErr.Data) > 0 {
			var result SendResult
			if json.Unmarshal(apiErr.Data, &result) == nil {
				return &result, err
			}
		}
		return nil, err
	}
	return decodeData[SendResult](resp)
}

// omitEmpty maps "" to nil so the parameter is left out.
func omitEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
