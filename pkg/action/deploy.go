package action

import (
	"context"
	"fmt"
	"log/slog"

	"boatswain.sh/boatswain/pkg/executor"
	"boatswain.sh/boatswain/pkg/lock"
	"boatswain.sh/boatswain/pkg/object"
	"boatswain.sh/boatswain/pkg/plan"
	"boatswain.sh/boatswain/pkg/release"
	"boatswain.sh/boatswain/pkg/rollback"
)

// DeployStatus classifies the outcome of a successful Deploy.
type DeployStatus string

const (
	StatusInstalled DeployStatus = "installed"
	StatusUpgraded  DeployStatus = "upgraded"
	StatusUnchanged DeployStatus = "unchanged"
)

// DeployResult is Deploy's success outcome. Plan is nil for StatusUnchanged.
type DeployResult struct {
	Status DeployStatus
	Plan   *plan.Plan
}

// Deploy installs or upgrades rel as an atomic unit, serialized against
// other deploys of the same release by the mutex lock:
//
//  1. Acquire the lock.
//  2. Load the persisted state.
//  3. If absent, install: diff against an empty previous set, execute, and
//     persist {current: rel.Objects, history: []}.
//  4. Otherwise, upgrade: if the content hash is unchanged, return
//     StatusUnchanged without touching the cluster; else diff against the
//     persisted current set, execute, and persist with current pushed onto
//     history.
//  5. Release the lock explicitly; a deferred best-effort close backstops
//     every other exit path (including panics).
//
// On any execution failure the cluster is already rolled back by the
// executor; Deploy returns a *ReleaseError wrapping the executor's error.
// On a persistence failure after a successful plan, Deploy undoes the plan
// and surfaces the persistence error (itself wrapped with the undo failure,
// if any, as an *executor.RollbackError).
func (cfg *Configuration) Deploy(ctx context.Context, rel release.Release) (*DeployResult, error) {
	if rel.Name == "" {
		return nil, ErrMissingRelease
	}

	handle, err := lock.Acquire(ctx, cfg.Store, cfg.Namespace, rel.Name)
	if err != nil {
		return nil, fmt.Errorf("action: acquiring lock for %q: %w", rel.Name, err)
	}
	defer handle.Close(ctx)

	result, err := cfg.deployLocked(ctx, rel)

	if relErr := handle.Release(ctx); relErr != nil {
		cfg.Logger().Warn("failed to release lock", slog.String("release", rel.Name), slog.Any("error", relErr))
	}

	return result, err
}

func (cfg *Configuration) deployLocked(ctx context.Context, rel release.Release) (*DeployResult, error) {
	state, err := cfg.Releases.Get(ctx, rel.Name)
	if err != nil {
		return nil, fmt.Errorf("action: loading state for %q: %w", rel.Name, err)
	}

	if state == nil {
		return cfg.install(ctx, rel)
	}
	return cfg.upgrade(ctx, rel, state)
}

func (cfg *Configuration) install(ctx context.Context, rel release.Release) (*DeployResult, error) {
	p := plan.Build(rel.Name, rel.Objects, object.Set{})

	if _, err := executor.Execute(ctx, cfg.Store, cfg.Namespace, p); err != nil {
		return nil, &ReleaseError{State: &release.State{Current: rel.Objects}, Cause: err}
	}

	newState := release.State{Current: rel.Objects}
	if err := cfg.persistOrUndo(ctx, rel.Name, newState, p); err != nil {
		return nil, err
	}

	return &DeployResult{Status: StatusInstalled, Plan: &p}, nil
}

func (cfg *Configuration) upgrade(ctx context.Context, rel release.Release, state *release.State) (*DeployResult, error) {
	oldRelease := release.Release{Name: rel.Name, Objects: state.Current}

	oldHash, err := oldRelease.Hash()
	if err != nil {
		return nil, fmt.Errorf("action: hashing persisted state for %q: %w", rel.Name, err)
	}
	newHash, err := rel.Hash()
	if err != nil {
		return nil, fmt.Errorf("action: hashing desired release %q: %w", rel.Name, err)
	}
	if oldHash == newHash {
		return &DeployResult{Status: StatusUnchanged}, nil
	}

	p := plan.Build(rel.Name, rel.Objects, state.Current)

	if _, err := executor.Execute(ctx, cfg.Store, cfg.Namespace, p); err != nil {
		return nil, &ReleaseError{State: state, Cause: err}
	}

	newState := release.State{
		Current: rel.Objects,
		History: append([]object.Set{state.Current}, state.History...),
	}
	if err := cfg.persistOrUndo(ctx, rel.Name, newState, p); err != nil {
		return nil, err
	}

	return &DeployResult{Status: StatusUpgraded, Plan: &p}, nil
}

// persistOrUndo persists newState; on failure it undoes p against the
// cluster and surfaces the persistence error, wrapping in the undo's own
// failure (if any) so both are visible.
func (cfg *Configuration) persistOrUndo(ctx context.Context, name string, newState release.State, p plan.Plan) error {
	if err := cfg.Releases.Apply(ctx, name, newState); err != nil {
		if undoErr := rollback.Execute(ctx, cfg.Store, cfg.Namespace, p.Undo()); undoErr != nil {
			return &ReleaseError{State: &newState, Cause: &executor.RollbackError{Cause: fmt.Errorf("persisting state: %w", err), RollbackCause: undoErr}}
		}
		return &ReleaseError{State: &newState, Cause: fmt.Errorf("persisting state: %w", err)}
	}
	return nil
}
