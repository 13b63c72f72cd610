package relation

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type linkRec struct {
	ID   int64
	Name string
}

func (r linkRec) GetID() int64 { return r.ID }

func recs(ids ...int64) []linkRec {
	out := make([]linkRec, len(ids))
	for i, id := range ids {
		out[i] = linkRec{ID: id}
	}
	return out
}

func ids(records []linkRec) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestEditor_SelectableExcludesLinked(t *testing.T) {
	tests := []struct {
		name      string
		linked    []int64
		available []int64
		want      []int64
	}{
		{"disjoint", []int64{1}, []int64{2, 3}, []int64{2, 3}},
		{"overlap", []int64{1, 3}, []int64{1, 2, 3, 4}, []int64{2, 4}},
		{"all linked", []int64{1, 2}, []int64{1, 2}, nil},
		{"nothing linked", nil, []int64{5, 6}, []int64{5, 6}},
		{"nothing available", []int64{1}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEditor(recs(tt.linked...), recs(tt.available...), Ops{})

			got := ids(e.Selectable())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Selectable() = %v, want %v", got, tt.want)
			}

			// A record must never appear in both sets.
			for _, s := range e.Selectable() {
				if e.IsLinked(s.GetID()) {
					t.Errorf("id %d is both linked and selectable", s.GetID())
				}
			}
		})
	}
}

func TestEditor_PendingGatesMutations(t *testing.T) {
	pending := true
	calls := 0
	ops := Ops{
		Add:     func(context.Context, int64) error { calls++; return nil },
		Remove:  func(context.Context, int64) error { calls++; return nil },
		Pending: func() bool { return pending },
	}
	e := NewEditor(recs(1), recs(1, 2), ops)

	ctx := context.Background()
	if err := e.Add(ctx, 2); !errors.Is(err, ErrPending) {
		t.Fatalf("Add while pending = %v, want ErrPending", err)
	}
	if err := e.Remove(ctx, 1); !errors.Is(err, ErrPending) {
		t.Fatalf("Remove while pending = %v, want ErrPending", err)
	}
	if calls != 0 {
		t.Fatalf("ops invoked %d times while pending, want 0", calls)
	}

	// Controls re-enable once the mutation settles.
	pending = false
	if err := e.Add(ctx, 2); err != nil {
		t.Fatalf("Add after pending cleared = %v", err)
	}
	if err := e.Remove(ctx, 1); err != nil {
		t.Fatalf("Remove after pending cleared = %v", err)
	}
	if calls != 2 {
		t.Fatalf("ops invoked %d times, want 2", calls)
	}
}

func TestEditor_AddValidation(t *testing.T) {
	e := NewEditor(recs(1), recs(1, 2), Ops{
		Add: func(context.Context, int64) error { return nil },
	})
	ctx := context.Background()

	if err := e.Add(ctx, 1); !errors.Is(err, ErrAlreadyLinked) {
		t.Errorf("Add linked id = %v, want ErrAlreadyLinked", err)
	}
	if err := e.Add(ctx, 99); !errors.Is(err, ErrNotAvailable) {
		t.Errorf("Add unknown id = %v, want ErrNotAvailable", err)
	}
	if err := e.Add(ctx, 2); err != nil {
		t.Errorf("Add selectable id = %v, want nil", err)
	}
}

func TestEditor_RemoveValidation(t *testing.T) {
	e := NewEditor(recs(1), recs(1, 2), Ops{
		Remove: func(context.Context, int64) error { return nil },
	})
	ctx := context.Background()

	if err := e.Remove(ctx, 2); !errors.Is(err, ErrNotLinked) {
		t.Errorf("Remove unlinked id = %v, want ErrNotLinked", err)
	}
	if err := e.Remove(ctx, 1); err != nil {
		t.Errorf("Remove linked id = %v, want nil", err)
	}
}

func TestEditor_ErrorsPropagateWithoutRetry(t *testing.T) {
	boom := errors.New("api rejected the link")
	calls := 0
	e := NewEditor(recs(), recs(1), Ops{
		Add: func(context.Context, int64) error { calls++; return boom },
	})

	err := e.Add(context.Background(), 1)
	if !errors.Is(err, boom) {
		t.Fatalf("Add error = %v, want the ops error unchanged", err)
	}
	if calls != 1 {
		t.Fatalf("ops.Add invoked %d times, want exactly 1 (no retry)", calls)
	}

	// The linked snapshot is untouched by a failed (or successful)
	// mutation; only a refetch updates it.
	if len(e.Linked()) != 0 {
		t.Error("editor mutated its linked snapshot")
	}
}

func TestEditor_ReadOnlyWithoutOps(t *testing.T) {
	e := NewEditor(recs(1), recs(1, 2), Ops{})
	if err := e.Add(context.Background(), 2); !errors.Is(err, ErrNoOps) {
		t.Errorf("Add without ops = %v, want ErrNoOps", err)
	}
	if err := e.Remove(context.Background(), 1); !errors.Is(err, ErrNoOps) {
		t.Errorf("Remove without ops = %v, want ErrNoOps", err)
	}
}

func TestEditor_Plan(t *testing.T) {
	e := NewEditor(recs(1, 2, 3), recs(1, 2, 3, 4, 5), Ops{})

	tests := []struct {
		name       string
		desired    []int64
		wantAdd    []int64
		wantRemove []int64
	}{
		{"no changes", []int64{1, 2, 3}, nil, nil},
		{"pure additions", []int64{1, 2, 3, 4}, []int64{4}, nil},
		{"pure removals", []int64{1}, nil, []int64{2, 3}},
		{"swap", []int64{1, 2, 5}, []int64{5}, []int64{3}},
		{"clear all", nil, nil, []int64{1, 2, 3}},
		{"duplicates collapse", []int64{4, 4, 1, 2, 3}, []int64{4}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := e.Plan(tt.desired)
			if !reflect.DeepEqual(plan.Add, tt.wantAdd) {
				t.Errorf("Plan.Add = %v, want %v", plan.Add, tt.wantAdd)
			}
			if !reflect.DeepEqual(plan.Remove, tt.wantRemove) {
				t.Errorf("Plan.Remove = %v, want %v", plan.Remove, tt.wantRemove)
			}
			if plan.HasChanges() != (len(tt.wantAdd)+len(tt.wantRemove) > 0) {
				t.Errorf("HasChanges() = %v", plan.HasChanges())
			}
		})
	}
}

func TestEditor_Apply(t *testing.T) {
	var log []string
	e := NewEditor(recs(1, 2), recs(1, 2, 3), Ops{
		Add: func(_ context.Context, id int64) error {
			log = append(log, "add")
			return nil
		},
		Remove: func(_ context.Context, id int64) error {
			log = append(log, "remove")
			return nil
		},
	})

	plan := e.Plan([]int64{1, 3})
	if err := e.Apply(context.Background(), plan); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// Removals run before additions.
	if !reflect.DeepEqual(log, []string{"remove", "add"}) {
		t.Errorf("Apply order = %v, want [remove add]", log)
	}
}

func TestEditor_ApplyStopsOnFirstError(t *testing.T) {
	boom := errors.New("unlink failed")
	adds := 0
	e := NewEditor(recs(1, 2), recs(1, 2, 3), Ops{
		Add:    func(context.Context, int64) error { adds++; return nil },
		Remove: func(context.Context, int64) error { return boom },
	})

	err := e.Apply(context.Background(), e.Plan([]int64{3}))
	if !errors.Is(err, boom) {
		t.Fatalf("Apply error = %v, want the remove error", err)
	}
	if adds != 0 {
		t.Errorf("Apply continued past a failed removal (%d adds)", adds)
	}
}
