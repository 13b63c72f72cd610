// Package query caches reads from the LIMS API and tracks the
// lifecycle of writes against it. Reads stay fresh for a configurable
// window; a stale entry is served immediately while a worker
// revalidates it behind the scenes, and concurrent fetches of one key
// collapse into a single call. Mutations invalidate the keys they
// touch on success, which is the only way cached data changes: there
// is no optimistic update and no client-side persistence.
package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
)

// Policy defaults. Mirrored by the LIMS_STALE_TTL and LIMS_WORKERS
// environment knobs.
const (
	DefaultStaleTTL = 5 * time.Minute
	DefaultWorkers  = 4
)

// State tracks where a cache entry is in its lifecycle. Entries move
// idle -> loading -> success or error; a later refetch from the error
// state goes through loading again.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Snapshot is a point-in-time view of one cache entry, used by
// interfaces to render loading and error placeholders without forcing
// a fetch.
type Snapshot struct {
	Data      any
	State     State
	Err       error
	FetchedAt time.Time
}

// Client owns the cache and the revalidation workers. Construct one
// with NewClient and inject it; there is no package-level instance.
type Client struct {
	entries        *haxmap.Map[string, *entry]
	pool           *ants.Pool
	staleTTL       time.Duration
	refetchOnFocus bool
	logger         zerolog.Logger

	// Background revalidation outlives the caller's request context.
	ctx    context.Context
	cancel context.CancelFunc
}

type entry struct {
	mu           sync.Mutex
	key          Key
	state        State
	data         any
	err          error
	fetchedAt    time.Time
	done         chan struct{} // open while a synchronous fetch is in flight
	revalidating bool
}

// Option adjusts a Client at construction.
type Option func(*options)

type options struct {
	staleTTL       time.Duration
	workers        int
	refetchOnFocus bool
	logger         zerolog.Logger
}

// WithStaleTTL sets how long a fetched entry is served without
// revalidation. Non-positive values are ignored.
func WithStaleTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.staleTTL = d
		}
	}
}

// WithWorkers sets the size of the background revalidation pool.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithRefetchOnFocus enables marking every entry stale when the
// application regains focus. Off by default: a terminal regains focus
// far too often for window events to drive refetching.
func WithRefetchOnFocus(enabled bool) Option {
	return func(o *options) { o.refetchOnFocus = enabled }
}

// WithLogger attaches a logger for cache traffic. Defaults to a no-op.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// NewClient builds a cache client with the given policy.
func NewClient(opts ...Option) (*Client, error) {
	o := options{
		staleTTL: DefaultStaleTTL,
		workers:  DefaultWorkers,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	pool, err := ants.NewPool(o.workers)
	if err != nil {
		return nil, fmt.Errorf("create revalidation pool: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		entries:        haxmap.New[string, *entry](),
		pool:           pool,
		staleTTL:       o.staleTTL,
		refetchOnFocus: o.refetchOnFocus,
		logger:         o.logger,
		ctx:            ctx,
		cancel:         cancel,
	}, nil
}

// Close stops background revalidation. Cached data remains readable.
func (c *Client) Close() {
	c.cancel()
	c.pool.Release()
}

// Inspect reports the current lifecycle of a key without fetching.
// Unknown keys are idle.
func (c *Client) Inspect(key Key) Snapshot {
	e, ok := c.entries.Get(key.String())
	if !ok {
		return Snapshot{State: StateIdle}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{Data: e.data, State: e.state, Err: e.err, FetchedAt: e.fetchedAt}
}

// Invalidate drops every cached key that reads one of the given
// resources, directly or through an include. It returns the number of
// entries dropped. In-flight fetches settle into the orphaned entries
// and are refetched on next access.
func (c *Client) Invalidate(resources ...string) int {
	if len(resources) == 0 {
		return 0
	}

	var dropped []string
	c.entries.ForEach(func(k string, e *entry) bool {
		for _, resource := range resources {
			if e.key.References(resource) {
				dropped = append(dropped, k)
				break
			}
		}
		return true
	})
	for _, k := range dropped {
		c.entries.Del(k)
	}

	if len(dropped) > 0 {
		c.logger.Debug().
			Strs("resources", resources).
			Int("dropped", len(dropped)).
			Msg("cache invalidated")
	}
	return len(dropped)
}

// OnFocus marks every entry stale so the next read revalidates. A
// no-op unless the client was built with WithRefetchOnFocus(true).
func (c *Client) OnFocus() {
	if !c.refetchOnFocus {
		return
	}
	c.entries.ForEach(func(_ string, e *entry) bool {
		e.mu.Lock()
		e.fetchedAt = time.Time{}
		e.mu.Unlock()
		return true
	})
}

func (c *Client) entry(key Key) *entry {
	e, _ := c.entries.GetOrSet(key.String(), &entry{key: key, state: StateIdle})
	return e
}

func (c *Client) fresh(fetchedAt time.Time) bool {
	return time.Since(fetchedAt) < c.staleTTL
}

// settle records a synchronous fetch result and releases any waiters.
func (c *Client) settle(e *entry, data any, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		e.state = StateError
		e.err = err
		e.data = nil
	} else {
		e.state = StateSuccess
		e.data = data
		e.err = nil
		e.fetchedAt = time.Now()
	}
	if e.done != nil {
		close(e.done)
		e.done = nil
	}
}

// revalidate refreshes a stale entry on the worker pool. The caller
// must hold e.mu. The entry keeps serving its last good data while the
// refetch runs, and keeps it even if the refetch fails; the failure is
// recorded for Inspect and the next read tries again.
func (c *Client) revalidate(e *entry, fetch func(ctx context.Context) (any, error)) {
	if e.revalidating {
		return
	}
	e.revalidating = true

	err := c.pool.Submit(func() {
		data, err := fetch(c.ctx)

		e.mu.Lock()
		e.revalidating = false
		if err != nil {
			e.err = err
			e.mu.Unlock()
			c.logger.Debug().Err(err).Str("key", e.key.String()).Msg("revalidation failed")
			return
		}
		e.data = data
		e.err = nil
		e.fetchedAt = time.Now()
		e.mu.Unlock()
	})
	if err != nil {
		e.revalidating = false
		c.logger.Debug().Err(err).Str("key", e.key.String()).Msg("revalidation not scheduled")
	}
}
