package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/ruoyi-fastapi/ruoyi-go/pkg/constants"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/errors"
)

// maxMessageBytes caps how much of a non-JSON error body lands in an APIError.
const maxMessageBytes = 512

// Envelope is the RuoYi response wrapper. Detail and action endpoints fill
// Data; page lists spread rows/total/pageNum/pageSize/hasNext at top level.
type Envelope struct {
	Code     *int            `json:"code,omitempty"`
	Msg      string          `json:"msg,omitempty"`
	Success  *bool           `json:"success,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	Rows     json.RawMessage `json:"rows,omitempty"`
	Total    int64           `json:"total,omitempty"`
	PageNum  int             `json:"pageNum,omitempty"`
	PageSize int             `json:"pageSize,omitempty"`
	HasNext  bool            `json:"hasNext,omitempty"`
}

// OK reports whether the envelope signals success. The code decides when
// present; otherwise an explicit success flag does, and bodies with neither
// are treated as successful.
func (e *Envelope) OK() bool {
	switch {
	case e.Code != nil:
		return *e.Code == constants.CodeSuccess
	case e.Success != nil:
		return *e.Success
	default:
		return true
	}
}

// failure builds the APIError for an envelope that is not OK, keeping its
// data payload.
func (e *Envelope) failure(d *Descriptor, endpoint string, status int) *errors.APIError {
	apiErr := errors.NewAPIError(string(d.Method), endpoint, status, e.CodeValue(), e.Msg)
	if !isNull(e.Data) {
		apiErr.Data = e.Data
	}
	return apiErr
}

// CodeValue returns the envelope code, or zero when absent.
func (e *Envelope) CodeValue() int {
	if e.Code == nil {
		return 0
	}
	return *e.Code
}

// Response is the result of one dispatch.
type Response struct {
	Method     Method
	Endpoint   string
	StatusCode int
	Header     http.Header
	Body       []byte
	// Envelope is nil for binary responses.
	Envelope *Envelope
}

// Message returns the server message, if any.
func (r *Response) Message() string {
	if r.Envelope == nil {
		return ""
	}
	return r.Envelope.Msg
}

// ContentType returns the media type of the response without parameters.
func (r *Response) ContentType() string {
	return mediaType(r.Header.Get(constants.HeaderContentType))
}

// Filename returns the attachment filename from Content-Disposition, if any.
func (r *Response) Filename() string {
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Disposition"))
	if err != nil {
		return ""
	}
	return params["filename"]
}

// DecodeData decodes the envelope data field into target. Bodies that are
// not RuoYi envelopes are decoded whole. A missing data field leaves target
// untouched.
func (r *Response) DecodeData(target any) error {
	raw := json.RawMessage(r.Body)
	if r.Envelope != nil && (len(r.Envelope.Data) > 0 || r.Envelope.Code != nil) {
		raw = r.Envelope.Data
	}
	return r.decode(raw, target)
}

// DecodeRows decodes the page rows into target and returns the total.
// Unpaged lists carry their rows in data instead.
func (r *Response) DecodeRows(target any) (int64, error) {
	if r.Envelope == nil {
		return 0, errors.NewDecodeError("json", r.Endpoint, typeName(target), r.Body, fmt.Errorf("response has no envelope"))
	}
	rows := r.Envelope.Rows
	if len(rows) == 0 {
		rows = r.Envelope.Data
	}
	if len(rows) == 0 {
		rows = json.RawMessage("[]")
	}
	if err := r.decode(rows, target); err != nil {
		return 0, err
	}
	return r.Envelope.Total, nil
}

func (r *Response) decode(raw json.RawMessage, target any) error {
	if isNull(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return errors.NewDecodeError("json", r.Endpoint, typeName(target), raw, err)
	}
	return nil
}

// classify turns a raw HTTP exchange into a Response or one of the three
// dispatch errors.
func classify(d *Descriptor, endpoint string, status int, header http.Header, body []byte) (*Response, error) {
	resp := &Response{
		Method:     d.Method,
		Endpoint:   endpoint,
		StatusCode: status,
		Header:     header,
		Body:       body,
	}
	isJSON := mediaType(header.Get(constants.HeaderContentType)) == constants.ContentTypeJSON

	if status < 200 || status > 299 {
		return nil, applicationError(d, endpoint, status, body)
	}

	if d.ResponseType == ResponseTypeBinary {
		// Download endpoints answer missing files with a JSON failure envelope.
		if isJSON {
			var env Envelope
			if err := json.Unmarshal(body, &env); err == nil && !env.OK() {
				return nil, env.failure(d, endpoint, status)
			}
		}
		return resp, nil
	}

	if len(bytes.TrimSpace(body)) == 0 {
		resp.Envelope = &Envelope{}
		return resp, nil
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if !isObject(body) {
			// A bare JSON value (array, string) is data without an envelope.
			var probe any
			if json.Unmarshal(body, &probe) == nil {
				resp.Envelope = &Envelope{Data: body}
				return resp, nil
			}
		}
		return nil, errors.NewDecodeError("json", endpoint, "envelope", body, err)
	}
	if !env.OK() {
		return nil, env.failure(d, endpoint, status)
	}
	resp.Envelope = &env
	return resp, nil
}

// applicationError builds an APIError for a non-2xx response, preferring the
// envelope message when the body carries one.
func applicationError(d *Descriptor, endpoint string, status int, body []byte) error {
	var env Envelope
	if err := json.Unmarshal(body, &env); err == nil && (env.Msg != "" || env.Code != nil) {
		return env.failure(d, endpoint, status)
	}
	// FastAPI validation errors use {"detail": ...}.
	var detail struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != nil {
		return errors.NewAPIError(string(d.Method), endpoint, status, 0, fmt.Sprint(detail.Detail))
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > maxMessageBytes {
		msg = msg[:maxMessageBytes] + "..."
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return errors.NewAPIError(string(d.Method), endpoint, status, 0, msg)
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return mt
}

func isObject(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func typeName(v any) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", v), "*")
}
