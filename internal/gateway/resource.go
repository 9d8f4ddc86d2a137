package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/erazemk/cruisedesk/internal/model"
)

// Resource is a paged entity collection on the backend with the
// list/add/update/delete convention every cruise entity follows.
type Resource[T any] struct {
	client *Client
	route  string
	loaded func(*T)
}

// NewResource binds a collection route such as /api/CruiseLines.
func NewResource[T any](c *Client, route string) *Resource[T] {
	return &Resource[T]{client: c, route: route}
}

// List fetches one page.
func (r *Resource[T]) List(ctx context.Context, page, size int) (model.Page[T], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(size))
	p, err := GetResult[model.Page[T]](ctx, r.client, r.route, q)
	if err != nil {
		return p, fmt.Errorf("listing %s: %w", r.route, err)
	}
	if r.loaded != nil {
		for i := range p.Items {
			r.loaded(&p.Items[i])
		}
	}
	return p, nil
}

// Create adds a record.
func (r *Resource[T]) Create(ctx context.Context, rec T) error {
	if _, err := r.client.Post(ctx, r.route, rec); err != nil {
		return fmt.Errorf("creating in %s: %w", r.route, err)
	}
	return nil
}

// Update replaces a record.
func (r *Resource[T]) Update(ctx context.Context, rec T) error {
	if _, err := r.client.Post(ctx, r.route+"/update", rec); err != nil {
		return fmt.Errorf("updating in %s: %w", r.route, err)
	}
	return nil
}

// Delete removes the record with the given key.
func (r *Resource[T]) Delete(ctx context.Context, key string) error {
	if _, err := r.client.Delete(ctx, r.route+"/"+url.PathEscape(key)); err != nil {
		return fmt.Errorf("deleting %s from %s: %w", key, r.route, err)
	}
	return nil
}
