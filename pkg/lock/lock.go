// Package lock implements the advisory mutex against a shared cluster
// registry: a named object whose creation conflict is the contention
// signal, and whose deletion is the release signal.
package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"boatswain.sh/boatswain/internal/logging"
	"boatswain.sh/boatswain/pkg/object"
	"boatswain.sh/boatswain/pkg/objectstore"
	"boatswain.sh/boatswain/pkg/tags"
)

// WatchTimeout bounds each slice of the conflict-wait loop. Chosen for
// server-side tolerance of long-lived watches; retuning is safe.
const WatchTimeout = 10 * time.Second

// ErrAlreadyReleased is returned by Release when called on a handle that
// has already released its lock.
var ErrAlreadyReleased = errors.New("lock: already released")

// Handle represents exclusive ownership of a named lock until Release or
// Close is called. It is not re-entrant: acquiring the same name twice
// from the same process deadlocks by design, waiting on its own deletion.
type Handle struct {
	store     objectstore.Interface
	namespace string
	name      string
	released  bool
	logging.LogHolder
}

// Acquire blocks until it holds the lock named name within namespace,
// retrying on creation conflict by watching for the holder's deletion.
func Acquire(ctx context.Context, store objectstore.Interface, namespace, name string, opts ...Option) (*Handle, error) {
	h := &Handle{store: store, namespace: namespace, name: tags.LockName(name)}
	for _, o := range opts {
		o(h)
	}

	for {
		obj, err := object.New(map[string]interface{}{
			"apiVersion": tags.ConfigDescriptor.APIVersion(),
			"kind":       tags.ConfigDescriptor.Kind,
			"metadata":   map[string]interface{}{"name": h.name},
		}, &tags.ConfigDescriptor)
		if err != nil {
			return nil, fmt.Errorf("lock: building lock object: %w", err)
		}
		obj.SetLabel(tags.LabelType, tags.TypeLock)

		_, err = store.Create(ctx, tags.ConfigDescriptor, namespace, obj)
		if err == nil {
			h.Logger().Debug("lock acquired", slog.String("name", h.name))
			return h, nil
		}

		if !errors.Is(err, objectstore.ErrConflict) {
			return nil, fmt.Errorf("lock: acquiring %q: %w", h.name, err)
		}

		h.Logger().Debug("lock held by another process, waiting", slog.String("name", h.name))
		if err := h.waitForDeletion(ctx); err != nil {
			return nil, err
		}
	}
}

// waitForDeletion watches type=lock objects for one WatchTimeout slice,
// returning when a deletion event for this lock's name arrives or the
// slice elapses unconditionally (either way, the caller retries Create).
func (h *Handle) waitForDeletion(ctx context.Context) error {
	events, err := h.store.Watch(ctx, tags.ConfigDescriptor, h.namespace, tags.LabelType+"="+tags.TypeLock, WatchTimeout)
	if err != nil {
		return fmt.Errorf("lock: watching %q: %w", h.name, err)
	}

	for event := range events {
		if event.Type == objectstore.EventDeleted && event.Object.GetName() == h.name {
			return nil
		}
	}
	// Stream closed (timeout or context cancellation) without seeing our
	// deletion: retry unconditionally.
	return nil
}

// Release explicitly deletes the lock object. It is idempotent-safe to
// call at most once; calling it again returns ErrAlreadyReleased.
func (h *Handle) Release(ctx context.Context) error {
	if h.released {
		return ErrAlreadyReleased
	}
	h.released = true

	if err := h.store.Delete(ctx, tags.ConfigDescriptor, h.namespace, h.name); err != nil {
		return fmt.Errorf("lock: releasing %q: %w", h.name, err)
	}
	h.Logger().Debug("lock released", slog.String("name", h.name))
	return nil
}

// Close performs a best-effort release for use on every exit path
// (including early returns and panics), via defer. Unlike Release, it
// never returns an error: a deletion failure here is logged and swallowed,
// since the process is exiting or the caller has already surfaced a
// primary error.
func (h *Handle) Close(ctx context.Context) {
	if h.released {
		return
	}
	if err := h.Release(ctx); err != nil && !errors.Is(err, ErrAlreadyReleased) && !errors.Is(err, objectstore.ErrNotFound) {
		h.Logger().Warn("failed to release lock on disposal", slog.String("name", h.name), slog.Any("error", err))
	}
}

// Option configures a Handle at Acquire time.
type Option func(*Handle)

// WithLogger overrides the handle's logging handler.
func WithLogger(handler slog.Handler) Option {
	return func(h *Handle) { h.SetLogger(handler) }
}
