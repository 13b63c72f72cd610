package query

import (
	"context"
	"errors"
	"sync"
)

// ErrMutationPending is returned by Do while an earlier Do on the same
// mutation has not settled. Interfaces disable their controls on
// IsPending; this sentinel is the backstop for the paths they miss.
var ErrMutationPending = errors.New("mutation already in flight")

// Mutation runs one kind of write and tracks its lifecycle. It never
// retries: a write that failed may have been applied, so retrying is
// the operator's call. On success it invalidates the declared
// resources and runs OnSuccess hooks, all before Do returns.
type Mutation[In, Out any] struct {
	client      *Client
	mutate      func(ctx context.Context, in In) (Out, error)
	invalidates []string
	onSuccess   []func(Out)

	mu        sync.Mutex
	pending   bool
	err       error
	result    Out
	hasResult bool
}

// NewMutation wires a mutator to the cache client. The client may be
// nil when there is no cache to invalidate.
func NewMutation[In, Out any](client *Client, mutate func(ctx context.Context, in In) (Out, error)) *Mutation[In, Out] {
	return &Mutation[In, Out]{client: client, mutate: mutate}
}

// Invalidates declares the resources this mutation touches. A
// relationship mutation declares both sides of the link.
func (m *Mutation[In, Out]) Invalidates(resources ...string) *Mutation[In, Out] {
	m.invalidates = append(m.invalidates, resources...)
	return m
}

// OnSuccess registers a hook that runs with the result after the
// cache has been invalidated, before Do returns.
func (m *Mutation[In, Out]) OnSuccess(hook func(Out)) *Mutation[In, Out] {
	m.onSuccess = append(m.onSuccess, hook)
	return m
}

// Do runs the mutator once. A second Do while the first is pending is
// rejected with ErrMutationPending and does not reach the API.
func (m *Mutation[In, Out]) Do(ctx context.Context, in In) (Out, error) {
	var zero Out

	m.mu.Lock()
	if m.pending {
		m.mu.Unlock()
		return zero, ErrMutationPending
	}
	m.pending = true
	m.mu.Unlock()

	out, err := m.mutate(ctx, in)

	m.mu.Lock()
	m.err = err
	if err == nil {
		m.result = out
		m.hasResult = true
	}
	m.mu.Unlock()

	if err == nil {
		if m.client != nil && len(m.invalidates) > 0 {
			m.client.Invalidate(m.invalidates...)
		}
		for _, hook := range m.onSuccess {
			hook(out)
		}
	}

	m.mu.Lock()
	m.pending = false
	m.mu.Unlock()

	if err != nil {
		return zero, err
	}
	return out, nil
}

// IsPending reports whether a Do is in flight, hooks included.
func (m *Mutation[In, Out]) IsPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// IsError reports whether the last Do failed.
func (m *Mutation[In, Out]) IsError() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err != nil
}

// Err returns the last Do's error, if any.
func (m *Mutation[In, Out]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Result returns the last successful output. The second return is
// false until a Do has succeeded.
func (m *Mutation[In, Out]) Result() (Out, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result, m.hasResult
}
