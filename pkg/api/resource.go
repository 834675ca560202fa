package api

import (
	"context"

	"github.com/ruoyi-fastapi/ruoyi-go/internal/transport"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/errors"
)

// Resource implements list/get/add/update/delete for one entity type T with
// page query type Q.
type Resource[T any, Q any] struct {
	spec Spec
	endpoint
}

// NewResource creates the CRUD adapter described by spec.
func NewResource[T any, Q any](d transport.Dispatcher, spec Spec) *Resource[T, Q] {
	return &Resource[T, Q]{
		spec:     spec,
		endpoint: endpoint{resource: spec.Name, dispatcher: d},
	}
}

// Spec returns the resource declaration.
func (r *Resource[T, Q]) Spec() Spec {
	return r.spec
}

// List fetches one page. A nil query sends no parameters and the server
// applies its defaults.
func (r *Resource[T, Q]) List(ctx context.Context, query *Q) (*Page[T], error) {
	var params transport.Query
	if query != nil {
		var err error
		if params, err = toQuery(query); err != nil {
			return nil, err
		}
	}

	resp, err := r.send(ctx, &transport.Descriptor{
		Path:   transport.JoinPath(r.spec.Base, "list"),
		Method: transport.MethodGet,
		Query:  params,
	})
	if err != nil {
		return nil, err
	}

	page := &Page[T]{}
	if page.Total, err = resp.DecodeRows(&page.Rows); err != nil {
		return nil, err
	}
	if page.Rows == nil {
		page.Rows = []T{}
	}
	if env := resp.Envelope; env != nil {
		page.PageNum = env.PageNum
		page.PageSize = env.PageSize
		page.HasNext = env.HasNext
	}
	if page.Total == 0 {
		page.Total = int64(len(page.Rows))
	}
	return page, nil
}

// Get fetches one record by id.
func (r *Resource[T, Q]) Get(ctx context.Context, id ID) (*T, error) {
	resp, err := r.send(ctx, &transport.Descriptor{
		Path:   transport.JoinPath(r.spec.Base, string(id)),
		Method: transport.MethodGet,
	})
	if err != nil {
		return nil, err
	}
	return decodeData[T](resp)
}

// Add creates a record.
func (r *Resource[T, Q]) Add(ctx context.Context, item *T) (*Result, error) {
	return r.message(ctx, &transport.Descriptor{
		Path:   r.spec.Base,
		Method: transport.MethodPost,
		Body:   item,
	})
}

// Update replaces a record. The primary key travels in the body.
func (r *Resource[T, Q]) Update(ctx context.Context, item *T) (*Result, error) {
	return r.message(ctx, &transport.Descriptor{
		Path:   r.spec.Base,
		Method: transport.MethodPut,
		Body:   item,
	})
}

// Delete removes one or more records in a single call.
func (r *Resource[T, Q]) Delete(ctx context.Context, ids ...ID) (*Result, error) {
	if len(ids) == 0 {
		return nil, errors.NewValidationError("ids", ids, "at least one id is required")
	}
	return r.message(ctx, &transport.Descriptor{
		Path:   r.spec.Base + "/" + joinIDs(ids),
		Method: transport.MethodDelete,
	})
}
