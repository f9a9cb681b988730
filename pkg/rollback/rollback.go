// Package rollback executes a dynamically accumulated inverse plan against
// the object store. It is deliberately separate from
// pkg/plan's diff computation: the ledger it executes is built by the
// executor from steps that actually completed, not from a fresh diff, so a
// step that never ran is never "undone".
package rollback

import (
	"context"
	"fmt"

	"boatswain.sh/boatswain/pkg/object"
	"boatswain.sh/boatswain/pkg/objectstore"
	"boatswain.sh/boatswain/pkg/plan"
	"boatswain.sh/boatswain/pkg/tags"
)

// Error reports that a rollback step itself failed. This is final: the
// Rollback Engine is never itself rolled back, and its failure is surfaced
// to the operator as-is.
type Error struct {
	Action objectstore.Action
	Object object.Identifier
	Cause  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("rollback: %s %s: %v", e.Action, e.Object, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Execute replays ledger's creations, then upgrades, then deletions against
// store. It stops at the first error and reports it as *Error; the ledger
// itself is not retried or further compensated.
func Execute(ctx context.Context, store objectstore.Interface, namespace string, ledger plan.Plan) error {
	for _, c := range ledger.Creates {
		if _, err := store.Create(ctx, c.New.Descriptor, namespace, c.New); err != nil {
			return &Error{Action: objectstore.ActionCreate, Object: c.New.Identifier(), Cause: err}
		}
	}
	for _, u := range ledger.Upgrades {
		if _, err := store.Apply(ctx, u.New.Descriptor, namespace, u.New, tags.FieldManager, true); err != nil {
			return &Error{Action: objectstore.ActionApply, Object: u.New.Identifier(), Cause: err}
		}
	}
	for _, d := range ledger.Deletes {
		if err := store.Delete(ctx, d.Old.Descriptor, namespace, d.Old.GetName()); err != nil {
			return &Error{Action: objectstore.ActionDelete, Object: d.Old.Identifier(), Cause: err}
		}
	}
	return nil
}
