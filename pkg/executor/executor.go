// Package executor applies a plan in order (creations, upgrades,
// deletions), recording the inverse of each successful step, and triggers
// a compensating rollback on the first failure.
package executor

import (
	"context"
	"errors"

	"boatswain.sh/boatswain/pkg/objectstore"
	"boatswain.sh/boatswain/pkg/plan"
	"boatswain.sh/boatswain/pkg/rollback"
	"boatswain.sh/boatswain/pkg/tags"
)

// Execute runs p against store in namespace. On full success it returns the
// accumulated rollback ledger (useful only for inspection/testing) and a
// nil error. On the first step failure it replays the ledger built so far
// via pkg/rollback and returns *ActionError or *RollbackError.
//
// There are no executor-level retries; retry policy belongs to the
// transport.
func Execute(ctx context.Context, store objectstore.Interface, namespace string, p plan.Plan) (plan.Plan, error) {
	var ledger plan.Plan

	for _, c := range p.Creates {
		if _, err := store.Create(ctx, c.New.Descriptor, namespace, c.New); err != nil {
			return ledger, fail(ctx, store, namespace, ledger, err)
		}
		// Successful create: the inverse is a delete of the same object.
		ledger.Deletes = append(ledger.Deletes, plan.Delete{Old: c.New})
	}

	for _, u := range p.Upgrades {
		if _, err := store.Apply(ctx, u.New.Descriptor, namespace, u.New, tags.FieldManager, true); err != nil {
			return ledger, fail(ctx, store, namespace, ledger, err)
		}
		// Successful upgrade: the inverse is applying the pre-image.
		ledger.Upgrades = append(ledger.Upgrades, plan.Upgrade{New: u.Old, Old: u.New})
	}

	for _, d := range p.Deletes {
		if err := store.Delete(ctx, d.Old.Descriptor, namespace, d.Old.GetName()); err != nil {
			return ledger, fail(ctx, store, namespace, ledger, err)
		}
		// Successful delete: the inverse is recreating the object.
		ledger.Creates = append(ledger.Creates, plan.Create{New: d.Old})
	}

	return ledger, nil
}

func fail(ctx context.Context, store objectstore.Interface, namespace string, ledger plan.Plan, cause error) error {
	if rbErr := rollback.Execute(ctx, store, namespace, ledger); rbErr != nil {
		return &RollbackError{Cause: cause, RollbackCause: rbErr}
	}
	return &ActionError{Cause: cause}
}

// IsActionError reports whether err is (or wraps) an *ActionError.
func IsActionError(err error) bool {
	var ae *ActionError
	return errors.As(err, &ae)
}

// IsRollbackError reports whether err is (or wraps) a *RollbackError.
func IsRollbackError(err error) bool {
	var re *RollbackError
	return errors.As(err, &re)
}
