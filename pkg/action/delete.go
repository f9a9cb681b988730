package action

import (
	"context"
	"fmt"
	"log/slog"

	"boatswain.sh/boatswain/pkg/executor"
	"boatswain.sh/boatswain/pkg/lock"
	"boatswain.sh/boatswain/pkg/object"
	"boatswain.sh/boatswain/pkg/plan"
)

// Delete tears down every object belonging to the named release and
// removes its persisted state. It returns (nil, nil) if the release does
// not exist.
func (cfg *Configuration) Delete(ctx context.Context, name string) (*plan.Plan, error) {
	if name == "" {
		return nil, ErrMissingRelease
	}

	handle, err := lock.Acquire(ctx, cfg.Store, cfg.Namespace, name)
	if err != nil {
		return nil, fmt.Errorf("action: acquiring lock for %q: %w", name, err)
	}
	defer handle.Close(ctx)

	result, err := cfg.deleteLocked(ctx, name)

	if relErr := handle.Release(ctx); relErr != nil {
		cfg.Logger().Warn("failed to release lock", slog.String("release", name), slog.Any("error", relErr))
	}

	return result, err
}

func (cfg *Configuration) deleteLocked(ctx context.Context, name string) (*plan.Plan, error) {
	state, err := cfg.Releases.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("action: loading state for %q: %w", name, err)
	}
	if state == nil {
		return nil, nil
	}

	p := plan.Build(name, object.Set{}, state.Current)

	if _, err := executor.Execute(ctx, cfg.Store, cfg.Namespace, p); err != nil {
		return nil, &ReleaseError{State: state, Cause: err}
	}

	if err := cfg.Releases.Delete(ctx, name); err != nil {
		return nil, fmt.Errorf("action: deleting state for %q: %w", name, err)
	}

	return &p, nil
}
