// Package storage is the durable, cluster-side record of each release's
// current and historical object sets.
package storage

import (
	"context"
	"errors"
	"fmt"

	"boatswain.sh/boatswain/internal/logging"
	"boatswain.sh/boatswain/pkg/object"
	"boatswain.sh/boatswain/pkg/objectstore"
	"boatswain.sh/boatswain/pkg/release"
	"boatswain.sh/boatswain/pkg/tags"
)

// DefaultMaxHistory caps the number of prior generations Apply retains,
// so the release-state record cannot grow without bound.
const DefaultMaxHistory = 10

const dataKey = "release_state"

// Storage reads and writes ReleaseState records as configuration objects.
type Storage struct {
	store      objectstore.Interface
	namespace  string
	MaxHistory int
	logging.LogHolder
}

// New returns a Storage backed by store, scoped to namespace.
func New(store objectstore.Interface, namespace string) *Storage {
	return &Storage{store: store, namespace: namespace, MaxHistory: DefaultMaxHistory}
}

// Get returns the persisted State for name, or (nil, nil) if no
// release-state record exists. Any other transport error is surfaced;
// a record that exists but cannot be decoded surfaces ErrCorruptState.
func (s *Storage) Get(ctx context.Context, name string) (*release.State, error) {
	obj, err := s.store.Get(ctx, tags.ConfigDescriptor, s.namespace, name)
	if err != nil {
		if errors.Is(err, objectstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("storage: getting release state %q: %w", name, err)
	}

	raw, err := dataString(obj, dataKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptState, name, err)
	}

	state, err := release.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptState, name, err)
	}
	return &state, nil
}

// Apply persists state as the release-state record for name, creating or
// updating it via server-side apply. History beyond MaxHistory entries is
// trimmed (oldest first) before encoding.
func (s *Storage) Apply(ctx context.Context, name string, state release.State) error {
	if s.MaxHistory > 0 && len(state.History) > s.MaxHistory {
		state.History = state.History[:s.MaxHistory]
	}

	encoded, err := release.Encode(state)
	if err != nil {
		return fmt.Errorf("storage: encoding release state %q: %w", name, err)
	}

	obj, err := object.New(map[string]interface{}{
		"apiVersion": tags.ConfigDescriptor.APIVersion(),
		"kind":       tags.ConfigDescriptor.Kind,
		"metadata":   map[string]interface{}{"name": name},
		"data":       map[string]interface{}{dataKey: encoded},
	}, &tags.ConfigDescriptor)
	if err != nil {
		return fmt.Errorf("storage: building release state object %q: %w", name, err)
	}
	obj.SetLabel(tags.LabelType, tags.TypeReleaseState)
	obj.SetLabel(tags.LabelRelease, name)
	obj.SetAnnotation(tags.AnnotationVersion, tags.Version)

	if _, err := s.store.Apply(ctx, tags.ConfigDescriptor, s.namespace, obj, tags.FieldManager, true); err != nil {
		return fmt.Errorf("storage: applying release state %q: %w", name, err)
	}
	return nil
}

// Delete removes the release-state record for name. Used by `delete
// release` once the cluster's object set has been torn down.
func (s *Storage) Delete(ctx context.Context, name string) error {
	if err := s.store.Delete(ctx, tags.ConfigDescriptor, s.namespace, name); err != nil {
		if errors.Is(err, objectstore.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("storage: deleting release state %q: %w", name, err)
	}
	return nil
}

// List enumerates the names of every persisted release in the namespace.
// Backs the `list` CLI verb.
func (s *Storage) List(ctx context.Context) ([]string, error) {
	objs, err := s.store.List(ctx, tags.ConfigDescriptor, s.namespace, tags.LabelType+"="+tags.TypeReleaseState)
	if err != nil {
		return nil, fmt.Errorf("storage: listing release states: %w", err)
	}
	names := make([]string, 0, len(objs))
	for _, obj := range objs {
		names = append(names, obj.GetName())
	}
	return names, nil
}

func dataString(obj object.Object, key string) (string, error) {
	data, ok := obj.Body["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("missing data field")
	}
	raw, ok := data[key]
	if !ok {
		return "", fmt.Errorf("missing data[%q]", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("data[%q] is not a string", key)
	}
	return s, nil
}
