package relation

import (
	"context"
	"fmt"
)

// Plan is the operation set that reconciles the current linked ids
// with a desired set: ids to add and ids to remove. Used by the CLI's
// --set flag to edit a whole link collection in one command.
type Plan struct {
	Add    []int64
	Remove []int64
}

// HasChanges reports whether the plan contains any operations.
func (p Plan) HasChanges() bool {
	return len(p.Add) > 0 || len(p.Remove) > 0
}

// Plan diffs the linked set against the desired ids. Adds come out in
// desired order, removes in linked order; duplicate desired ids
// collapse to one.
func (e *Editor[T]) Plan(desired []int64) Plan {
	want := make(map[int64]struct{}, len(desired))
	var plan Plan

	for _, id := range desired {
		if _, dup := want[id]; dup {
			continue
		}
		want[id] = struct{}{}
		if !e.IsLinked(id) {
			plan.Add = append(plan.Add, id)
		}
	}

	for _, r := range e.linked {
		if _, keep := want[r.GetID()]; !keep {
			plan.Remove = append(plan.Remove, r.GetID())
		}
	}

	return plan
}

// Apply runs the plan's removals then additions through the editor's
// operations, stopping at the first failure. Each operation passes the
// same gating as Add and Remove, so a pending mutation aborts the
// whole apply.
func (e *Editor[T]) Apply(ctx context.Context, plan Plan) error {
	for _, id := range plan.Remove {
		if err := e.Remove(ctx, id); err != nil {
			return fmt.Errorf("unlink %d: %w", id, err)
		}
	}
	for _, id := range plan.Add {
		if err := e.Add(ctx, id); err != nil {
			return fmt.Errorf("link %d: %w", id, err)
		}
	}
	return nil
}
