package query

import (
	"context"
	"fmt"
)

// Fetcher loads one key's data from the API. The cache invokes it for
// synchronous fetches with the caller's context and for background
// revalidation with the client's own context.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Resource is a typed view over the client's cache. A key must always
// be fetched as the same T; list and record reads of one collection
// use distinct keys, so they never collide.
type Resource[T any] struct {
	client *Client
}

// NewResource binds a record type to a cache client.
func NewResource[T any](client *Client) *Resource[T] {
	return &Resource[T]{client: client}
}

// Fetch returns the cached value for key when it is fresh. A stale
// value is returned immediately while a background worker revalidates
// it. A missing or errored key fetches synchronously, and concurrent
// fetches of one key share a single call and its outcome.
func (r *Resource[T]) Fetch(ctx context.Context, key Key, fetch Fetcher[T]) (T, error) {
	var zero T
	c := r.client
	e := c.entry(key)

	for {
		e.mu.Lock()
		switch e.state {
		case StateSuccess:
			data, ok := e.data.(T)
			if !ok {
				e.mu.Unlock()
				return zero, fmt.Errorf("cache entry %s holds %T, fetched as %T", key, e.data, zero)
			}
			if !c.fresh(e.fetchedAt) {
				c.revalidate(e, func(ctx context.Context) (any, error) {
					v, err := fetch(ctx)
					return v, err
				})
			}
			e.mu.Unlock()
			return data, nil

		case StateLoading:
			done := e.done
			e.mu.Unlock()
			select {
			case <-done:
			case <-ctx.Done():
				return zero, ctx.Err()
			}
			e.mu.Lock()
			if e.state == StateError {
				err := e.err
				e.mu.Unlock()
				return zero, err
			}
			e.mu.Unlock()
			// Settled into success; the next pass returns it.

		default: // idle, or retrying out of the error state
			e.state = StateLoading
			e.err = nil
			e.done = make(chan struct{})
			e.mu.Unlock()

			data, err := fetch(ctx)
			c.settle(e, data, err)
			if err != nil {
				return zero, err
			}
			return data, nil
		}
	}
}
