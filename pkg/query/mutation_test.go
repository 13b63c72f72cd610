package query

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestMutationDo(t *testing.T) {
	c := newTestClient(t)
	res := NewResource[string](c)
	expKey := Key{Resource: "experiments"}
	userKey := Key{Resource: "users"}

	ctx := context.Background()
	seed := func(key Key) {
		t.Helper()
		if _, err := res.Fetch(ctx, key, func(ctx context.Context) (string, error) {
			return "seeded", nil
		}); err != nil {
			t.Fatalf("seeding %s failed: %v", key, err)
		}
	}
	seed(expKey)
	seed(userKey)

	var hookRan bool
	m := NewMutation(c, func(ctx context.Context, name string) (string, error) {
		return "created " + name, nil
	}).Invalidates("experiments").OnSuccess(func(out string) {
		hookRan = true
		// Invalidation precedes hooks so a hook sees the cold cache.
		if snap := c.Inspect(expKey); snap.State != StateIdle {
			t.Errorf("hook observed %s cache state %q, want idle", expKey, snap.State)
		}
	})

	out, err := m.Do(ctx, "run 7")
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if out != "created run 7" {
		t.Errorf("Do = %q", out)
	}
	if !hookRan {
		t.Error("OnSuccess hook never ran")
	}

	if snap := c.Inspect(userKey); snap.State != StateSuccess {
		t.Errorf("undeclared resource was invalidated: %+v", snap)
	}
	if got, ok := m.Result(); !ok || got != "created run 7" {
		t.Errorf("Result = %q, %v", got, ok)
	}
	if m.IsPending() || m.IsError() || m.Err() != nil {
		t.Errorf("settled mutation reports pending=%v error=%v", m.IsPending(), m.Err())
	}
}

func TestMutationRejectsWhilePending(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	m := NewMutation(nil, func(ctx context.Context, in int) (int, error) {
		calls.Add(1)
		<-release
		return in * 2, nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := m.Do(context.Background(), 21); err != nil {
			t.Errorf("first Do failed: %v", err)
		}
	}()

	eventually(t, m.IsPending, "mutation never became pending")

	if _, err := m.Do(context.Background(), 1); !errors.Is(err, ErrMutationPending) {
		t.Fatalf("second Do = %v, want ErrMutationPending", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("mutator ran %d times while pending", calls.Load())
	}

	close(release)
	<-done

	// Settled mutations accept another Do.
	out, err := m.Do(context.Background(), 3)
	if err != nil || out != 6 {
		t.Errorf("Do after settle = %d, %v", out, err)
	}
}

func TestMutationFailureRecorded(t *testing.T) {
	boom := errors.New("validation failed")
	var calls atomic.Int32
	var hookRan bool
	m := NewMutation(nil, func(ctx context.Context, in string) (string, error) {
		calls.Add(1)
		return "", boom
	}).OnSuccess(func(string) { hookRan = true })

	_, err := m.Do(context.Background(), "bad")
	if !errors.Is(err, boom) {
		t.Fatalf("Do = %v, want the mutator's error unchanged", err)
	}

	if calls.Load() != 1 {
		t.Errorf("mutator ran %d times, want exactly one attempt", calls.Load())
	}
	if hookRan {
		t.Error("OnSuccess hook ran on failure")
	}
	if !m.IsError() || !errors.Is(m.Err(), boom) {
		t.Errorf("IsError = %v, Err = %v", m.IsError(), m.Err())
	}
	if _, ok := m.Result(); ok {
		t.Error("failed mutation should not expose a result")
	}
	if m.IsPending() {
		t.Error("failed mutation still pending")
	}
}

func TestMutationFailureSkipsInvalidation(t *testing.T) {
	c := newTestClient(t)
	res := NewResource[string](c)
	key := Key{Resource: "samples"}

	ctx := context.Background()
	if _, err := res.Fetch(ctx, key, func(ctx context.Context) (string, error) {
		return "cached", nil
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	m := NewMutation(c, func(ctx context.Context, in string) (string, error) {
		return "", errors.New("rejected")
	}).Invalidates("samples")

	if _, err := m.Do(ctx, "x"); err == nil {
		t.Fatal("expected Do to fail")
	}
	if snap := c.Inspect(key); snap.State != StateSuccess {
		t.Errorf("failed mutation invalidated the cache: %+v", snap)
	}
}

func TestMutationPendingCoversHooks(t *testing.T) {
	var sawPending bool
	var m *Mutation[int, int]
	m = NewMutation(nil, func(ctx context.Context, in int) (int, error) {
		return in, nil
	}).OnSuccess(func(int) {
		sawPending = m.IsPending()
	})

	if _, err := m.Do(context.Background(), 1); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if !sawPending {
		t.Error("hooks should run inside the pending window")
	}
	if m.IsPending() {
		t.Error("pending should clear once Do returns")
	}
}
