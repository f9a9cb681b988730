package executor

import "fmt"

// ActionError reports that a forward plan step failed and the cluster was
// successfully rolled back to its pre-plan state.
type ActionError struct {
	Cause error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("executor: step failed, rolled back: %v", e.Cause)
}

func (e *ActionError) Unwrap() error { return e.Cause }

// RollbackError reports that a forward plan step failed AND the
// compensating rollback itself failed. Both the original cause and the
// rollback failure are preserved; this is the only case where the cluster
// may be left in an inconsistent state.
type RollbackError struct {
	Cause         error
	RollbackCause error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("executor: step failed (%v) AND rollback failed (%v)", e.Cause, e.RollbackCause)
}

func (e *RollbackError) Unwrap() []error { return []error{e.Cause, e.RollbackCause} }
