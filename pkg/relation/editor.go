// Package relation manages the linked/available record sets behind
// relationship editing (experiment samples, groups, users, feed
// components). The editor never mutates its own snapshots: a link
// mutation goes to the API, the query cache invalidates and refetches,
// and the caller rebuilds the editor from the fresh snapshot.
package relation

import (
	"context"
	"errors"
)

var (
	// ErrPending is returned while a link mutation is in flight.
	// Controls stay disabled until the caller's mutation settles, so
	// two concurrent link edits against the same parent cannot race.
	ErrPending = errors.New("a link mutation is already in flight")

	// ErrAlreadyLinked is returned when adding a record that is
	// already in the linked set.
	ErrAlreadyLinked = errors.New("record is already linked")

	// ErrNotLinked is returned when removing a record that is not in
	// the linked set.
	ErrNotLinked = errors.New("record is not linked")

	// ErrNotAvailable is returned when adding a record that is not in
	// the available set.
	ErrNotAvailable = errors.New("record is not available to link")

	// ErrNoOps is returned when the editor was built without mutation
	// callbacks, which makes it a read-only view.
	ErrNoOps = errors.New("editor has no link operations configured")
)

// Identifiable is the identity facet records expose to the editor.
type Identifiable interface {
	GetID() int64
}

// Ops carries the caller's link mutations and pending state. Add and
// Remove are invoked exactly once per editor call; errors propagate
// back unchanged with no retry. Pending reflects the caller's mutation
// object and gates both operations while true.
type Ops struct {
	Add     func(ctx context.Context, id int64) error
	Remove  func(ctx context.Context, id int64) error
	Pending func() bool
}

// Editor presents one parent record's link collection: the linked
// snapshot, the complement still available for adding, and gated
// add/remove operations.
type Editor[T Identifiable] struct {
	linked    []T
	available []T
	ops       Ops
}

// NewEditor builds an editor over the linked and available snapshots.
// Both slices are the caller's denormalized fetch results; the editor
// copies neither and treats them as read-only.
func NewEditor[T Identifiable](linked, available []T, ops Ops) *Editor[T] {
	return &Editor[T]{linked: linked, available: available, ops: ops}
}

// Linked returns the currently linked records.
func (e *Editor[T]) Linked() []T {
	return e.linked
}

// Selectable returns the available records minus the linked ones, by
// id. A record is never offered for adding while it is linked.
func (e *Editor[T]) Selectable() []T {
	linked := make(map[int64]struct{}, len(e.linked))
	for _, r := range e.linked {
		linked[r.GetID()] = struct{}{}
	}

	var out []T
	for _, r := range e.available {
		if _, ok := linked[r.GetID()]; !ok {
			out = append(out, r)
		}
	}
	return out
}

// IsLinked reports whether the record id is in the linked set.
func (e *Editor[T]) IsLinked(id int64) bool {
	for _, r := range e.linked {
		if r.GetID() == id {
			return true
		}
	}
	return false
}

// Pending reports whether a link mutation is in flight.
func (e *Editor[T]) Pending() bool {
	return e.ops.Pending != nil && e.ops.Pending()
}

// Add links the record with the given id. It refuses to fire while a
// mutation is pending, and validates that the id is selectable before
// invoking the caller's Add exactly once. The linked snapshot is not
// updated here: the caller refetches and rebuilds after the mutation
// settles.
func (e *Editor[T]) Add(ctx context.Context, id int64) error {
	if e.Pending() {
		return ErrPending
	}
	if e.IsLinked(id) {
		return ErrAlreadyLinked
	}
	if !e.isAvailable(id) {
		return ErrNotAvailable
	}
	if e.ops.Add == nil {
		return ErrNoOps
	}
	return e.ops.Add(ctx, id)
}

// Remove unlinks the record with the given id, with the same pending
// gate and single-invocation contract as Add.
func (e *Editor[T]) Remove(ctx context.Context, id int64) error {
	if e.Pending() {
		return ErrPending
	}
	if !e.IsLinked(id) {
		return ErrNotLinked
	}
	if e.ops.Remove == nil {
		return ErrNoOps
	}
	return e.ops.Remove(ctx, id)
}

func (e *Editor[T]) isAvailable(id int64) bool {
	for _, r := range e.available {
		if r.GetID() == id {
			return true
		}
	}
	return false
}
