package client

import (
	"context"
	"fmt"
)

// Resource is a REST collection at a fixed path supporting
// GET/POST on the path and GET/PUT/DELETE on path/:id.
type Resource[E any, P any] struct {
	c    *Client
	path string
}

// NewResource binds a collection path to the client.
func NewResource[E any, P any](c *Client, path string) *Resource[E, P] {
	return &Resource[E, P]{c: c, path: path}
}

func (r *Resource[E, P]) List(ctx context.Context) ([]E, error) {
	var resp []E
	if err := r.c.do(ctx, "GET", r.path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (r *Resource[E, P]) Get(ctx context.Context, id int64) (*E, error) {
	var resp E
	if err := r.c.do(ctx, "GET", fmt.Sprintf("%s/%d", r.path, id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *Resource[E, P]) Create(ctx context.Context, p P) error {
	return r.c.do(ctx, "POST", r.path, p, nil)
}

func (r *Resource[E, P]) Update(ctx context.Context, id int64, p P) error {
	return r.c.do(ctx, "PUT", fmt.Sprintf("%s/%d", r.path, id), p, nil)
}

func (r *Resource[E, P]) Delete(ctx context.Context, id int64) error {
	return r.c.do(ctx, "DELETE", fmt.Sprintf("%s/%d", r.path, id), nil, nil)
}
