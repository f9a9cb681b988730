// Package verify reconciles a release's persisted desired state against
// cluster reality without mutating anything.
package verify

import (
	"context"
	"fmt"

	"boatswain.sh/boatswain/pkg/object"
	"boatswain.sh/boatswain/pkg/objectstore"
	"boatswain.sh/boatswain/pkg/plan"
	"boatswain.sh/boatswain/pkg/storage"
	"boatswain.sh/boatswain/pkg/tags"
)

// Verifier checks a named release's persisted desired state against what
// the cluster currently shows.
type Verifier struct {
	store     objectstore.Interface
	storage   *storage.Storage
	namespace string
}

// New returns a Verifier backed by store and storage, scoped to namespace.
func New(store objectstore.Interface, storage *storage.Storage, namespace string) *Verifier {
	return &Verifier{store: store, storage: storage, namespace: namespace}
}

// Verify loads the persisted release-state for name and checks every
// desired object against the live cluster, in deterministic identifier
// order. It returns the first divergence found (nil if none), as one of
// MissingObjectError, MismatchingLabelsError, MismatchingAnnotationsError,
// or MismatchingDataError, or ErrNoDeployedRelease if the release was never
// deployed.
func (v *Verifier) Verify(ctx context.Context, name string) error {
	state, err := v.storage.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if state == nil {
		return ErrNoDeployedRelease
	}

	descriptors, err := v.store.DiscoverResources(ctx)
	if err != nil {
		return fmt.Errorf("verify: discovering resources: %w", err)
	}

	live, err := v.collectLive(ctx, name, descriptors)
	if err != nil {
		return err
	}

	for _, id := range state.Current.SortedIdentifiers() {
		desired := plan.Tag(name, state.Current[id])

		liveObj, ok := live[id]
		if !ok {
			return &MissingObjectError{Identifier: id}
		}

		if err := compareLabels(id, desired.GetLabels(), liveObj.GetLabels()); err != nil {
			return err
		}
		if err := compareAnnotations(id, desired.GetAnnotations(), liveObj.GetAnnotations()); err != nil {
			return err
		}
		if err := CheckValue("", desired.Body, liveObj.Body); err != nil {
			return &MismatchingDataError{Identifier: id, Path: err.Error()}
		}
	}

	return nil
}

// collectLive lists every tagged object across the discovered resource
// types and indexes it by Identifier.
func (v *Verifier) collectLive(ctx context.Context, name string, descriptors []object.Descriptor) (map[object.Identifier]object.Object, error) {
	selector := fmt.Sprintf("%s=%s,%s=%s", tags.LabelType, tags.TypeManaged, tags.LabelRelease, name)

	live := map[object.Identifier]object.Object{}
	for _, d := range descriptors {
		objs, err := v.store.List(ctx, d, v.namespace, selector)
		if err != nil {
			return nil, fmt.Errorf("verify: listing %s: %w", d, err)
		}
		for _, obj := range objs {
			live[obj.Identifier()] = obj
		}
	}
	return live, nil
}

func compareLabels(id object.Identifier, desired, live map[string]string) error {
	for k, v := range desired {
		if live[k] != v {
			return &MismatchingLabelsError{Identifier: id, Desired: desired, Live: live}
		}
	}
	return nil
}

func compareAnnotations(id object.Identifier, desired, live map[string]string) error {
	for k, v := range desired {
		if live[k] != v {
			return &MismatchingAnnotationsError{Identifier: id, Desired: desired, Live: live}
		}
	}
	return nil
}
