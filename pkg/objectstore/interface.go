// Package objectstore describes the transport contract the core consumes
// to address a Kubernetes-style declarative object API. Discovery,
// list/watch, and the actual wire protocol are external collaborators; this
// package only names the operations (see pkg/kube for a concrete
// client-go-backed implementation).
package objectstore

import (
	"context"
	"time"

	"boatswain.sh/boatswain/pkg/object"
)

// EventType classifies a Watch notification.
type EventType string

const (
	EventAdded    EventType = "added"
	EventModified EventType = "modified"
	EventDeleted  EventType = "deleted"
)

// Event is a single notification delivered by a Watch stream.
type Event struct {
	Type   EventType
	Object object.Object
}

// Interface is the set of namespaced operations the core's components
// (lock, storage, executor, verifier) are built against. A namespace is
// chosen once by the caller (CLI flag or transport default) and threaded
// through every call.
type Interface interface {
	// Get fetches a single object by name. It returns an error satisfying
	// errors.Is(err, ErrNotFound) when absent.
	Get(ctx context.Context, descriptor object.Descriptor, namespace, name string) (object.Object, error)

	// Create issues a creation. It returns an error satisfying
	// errors.Is(err, ErrConflict) when an object of that name already exists.
	Create(ctx context.Context, descriptor object.Descriptor, namespace string, obj object.Object) (object.Object, error)

	// Apply issues a server-side merge PATCH under the given field manager.
	Apply(ctx context.Context, descriptor object.Descriptor, namespace string, obj object.Object, fieldManager string, force bool) (object.Object, error)

	// Delete removes an object by name. It returns an error satisfying
	// errors.Is(err, ErrNotFound) when already absent.
	Delete(ctx context.Context, descriptor object.Descriptor, namespace, name string) error

	// List returns every object of the given type matching the label
	// selector (standard "key=value,key=value" syntax).
	List(ctx context.Context, descriptor object.Descriptor, namespace, labelSelector string) ([]object.Object, error)

	// Watch streams change events for objects of the given type matching
	// the label selector, for at most timeout before the channel closes.
	Watch(ctx context.Context, descriptor object.Descriptor, namespace, labelSelector string, timeout time.Duration) (<-chan Event, error)

	// DiscoverResources enumerates resource types supporting Get and List.
	DiscoverResources(ctx context.Context) ([]object.Descriptor, error)
}
