package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Resource is the CRUD API of one collection, e.g. /api/brands. It satisfies
// listctl.Remote.
type Resource[T interface{ GetID() int64 }] struct {
	c     *Client
	path  string
	query url.Values
}

// NewResource returns the resource mounted at /api/<name>.
func NewResource[T interface{ GetID() int64 }](c *Client, name string) *Resource[T] {
	return &Resource[T]{c: c, path: "/api/" + name}
}

// Filter returns a copy whose List adds the given query parameter.
func (r *Resource[T]) Filter(key, value string) *Resource[T] {
	q := url.Values{}
	for k, v := range r.query {
		q[k] = append([]string(nil), v...)
	}
	q.Set(key, value)
	return &Resource[T]{c: r.c, path: r.path, query: q}
}

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	path := r.path
	if len(r.query) > 0 {
		path += "?" + r.query.Encode()
	}
	var out []T
	if err := r.c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[T]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodGet, r.item(id), nil, &out)
	return out, err
}

func (r *Resource[T]) Create(ctx context.Context, record T) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPost, r.path, record, &out)
	return out, err
}

func (r *Resource[T]) Update(ctx context.Context, record T) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPut, r.item(record.GetID()), record, &out)
	return out, err
}

func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.c.do(ctx, http.MethodDelete, r.item(id), nil, nil)
}

func (r *Resource[T]) item(id int64) string {
	return fmt.Sprintf("%s/%d", r.path, id)
}
