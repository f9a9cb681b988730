package objectstore

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel a transport wraps when an object does not
// exist. Consumed by pkg/storage.Get (mapped to an absent state), by
// pkg/storage.Delete (mapped to success), and by the lock's disposal path
// (mapped to a clean release); surfaced otherwise.
var ErrNotFound = errors.New("objectstore: not found")

// ErrConflict is the sentinel a transport wraps when Create fails because
// an object of that name already exists. Consumed by the lock's acquire
// loop; a TransportError to every other caller.
var ErrConflict = errors.New("objectstore: already exists")

// Action names the operation a TransportError was attempting.
type Action string

const (
	ActionGet    Action = "get"
	ActionCreate Action = "create"
	ActionApply  Action = "apply"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
	ActionWatch  Action = "watch"
)

// TransportError wraps any object-store failure with the action and object
// name that was being attempted.
type TransportError struct {
	Action Action
	Name   string
	Cause  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("objectstore: %s %q: %v", e.Action, e.Name, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// NewTransportError builds a TransportError, preserving the sentinel the
// cause carries (ErrNotFound, ErrConflict) for errors.Is checks upstream.
func NewTransportError(action Action, name string, cause error) error {
	return &TransportError{Action: action, Name: name, Cause: cause}
}
