// Package api provides typed adapters for the RuoYi-FastAPI notify and system
// endpoints. Every adapter call builds one request descriptor and hands it to
// a transport.Dispatcher; no adapter holds state or applies business rules.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/ruoyi-fastapi/ruoyi-go/internal/transport"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/errors"
)

// ID identifies a record. It is substituted into the path unvalidated.
type ID string

// IntID formats a numeric primary key.
func IntID(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return string(id)
}

// Spec declares one CRUD resource.
type Spec struct {
	Name    string // Resource name used in logs and metrics, e.g. "notify.channel"
	Title   string // Human readable name
	Base    string // Base path, e.g. "/notify/channel"
	IDField string // JSON name of the primary key
}

// Page is one page of a list call.
type Page[T any] struct {
	Total    int64 `json:"total" yaml:"total"`
	Rows     []T   `json:"rows" yaml:"rows"`
	PageNum  int   `json:"pageNum,omitempty" yaml:"pageNum,omitempty"`
	PageSize int   `json:"pageSize,omitempty" yaml:"pageSize,omitempty"`
	HasNext  bool  `json:"hasNext,omitempty" yaml:"hasNext,omitempty"`
}

// PageQuery holds the paging and time-window filters every list endpoint accepts.
type PageQuery struct {
	PageNum   int    `json:"pageNum,omitempty" yaml:"pageNum,omitempty"`
	PageSize  int    `json:"pageSize,omitempty" yaml:"pageSize,omitempty"`
	BeginTime string `json:"beginTime,omitempty" yaml:"beginTime,omitempty"` // "2006-01-02 15:04:05" or "2006-01-02"
	EndTime   string `json:"endTime,omitempty" yaml:"endTime,omitempty"`
}

// Result is the outcome of a write call that returns only a message.
type Result struct {
	Message string `json:"msg" yaml:"msg"`
}

// File is a downloaded binary payload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// endpoint stamps the resource name on descriptors and forwards them.
type endpoint struct {
	resource   string
	dispatcher transport.Dispatcher
}

func (e endpoint) send(ctx context.Context, d *transport.Descriptor) (*transport.Response, error) {
	d.Resource = e.resource
	return e.dispatcher.Send(ctx, d)
}

func (e endpoint) message(ctx context.Context, d *transport.Descriptor) (*Result, error) {
	resp, err := e.send(ctx, d)
	if err != nil {
		return nil, err
	}
	return &Result{Message: resp.Message()}, nil
}

func (e endpoint) download(ctx context.Context, d *transport.Descriptor) (*File, error) {
	d.ResponseType = transport.ResponseTypeBinary
	resp, err := e.send(ctx, d)
	if err != nil {
		return nil, err
	}
	return &File{
		Name:        resp.Filename(),
		ContentType: resp.ContentType(),
		Data:        resp.Body,
	}, nil
}

func decodeData[V any](resp *transport.Response) (*V, error) {
	var v V
	if err := resp.DecodeData(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// joinIDs escapes each id and joins them with commas, the form the delete
// endpoints accept.
func joinIDs(ids []ID) string {
	return strings.Join(lo.Map(ids, func(id ID, _ int) string {
		return strings.TrimPrefix(transport.JoinPath("", string(id)), "/")
	}), ",")
}

// toQuery flattens a query struct into query parameters using its JSON field names.
func toQuery(v any) (transport.Query, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.NewValidationError("query", v, err.Error())
	}
	var q transport.Query
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&q); err != nil {
		return nil, errors.NewValidationError("query", v, "must encode to a JSON object: "+err.Error())
	}
	return q, nil
}
