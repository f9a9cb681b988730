package action_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boatswain.sh/boatswain/pkg/action"
	"boatswain.sh/boatswain/pkg/object"
	"boatswain.sh/boatswain/pkg/objectstore"
	"boatswain.sh/boatswain/pkg/objectstore/fake"
	"boatswain.sh/boatswain/pkg/release"
	"boatswain.sh/boatswain/pkg/tags"
)

var configMapDescriptor = object.Descriptor{Version: "v1", Kind: "ConfigMap", Plural: "configmaps"}

func configMap(t *testing.T, name string, data map[string]interface{}) object.Object {
	t.Helper()
	body := map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "ConfigMap",
		"metadata":   map[string]interface{}{"name": name},
	}
	if data != nil {
		body["data"] = data
	}
	obj, err := object.New(body, nil)
	require.NoError(t, err)
	return obj
}

func releaseFrom(t *testing.T, name string, objs ...object.Object) release.Release {
	t.Helper()
	b := release.NewBuilder(name)
	for _, o := range objs {
		require.NoError(t, b.Add(o))
	}
	return b.Finish()
}

// TestDeployInstallThenVerify: a fresh deploy creates every object and a
// follow-up verify reports no drift.
func TestDeployInstallThenVerify(t *testing.T) {
	ctx := context.Background()
	store := fake.New(configMapDescriptor)
	cfg := action.NewConfiguration(store, "ns")

	rel := releaseFrom(t, "demo", configMap(t, "a", nil), configMap(t, "b", nil))

	result, err := cfg.Deploy(ctx, rel)
	require.NoError(t, err)
	assert.Equal(t, action.StatusInstalled, result.Status)
	assert.Len(t, result.Plan.Creates, 2)

	assert.NoError(t, cfg.Verify(ctx, "demo"))
}

// TestDeployTwiceUnchangedSkipsCluster: a redeploy of byte-identical
// content reports StatusUnchanged and performs no cluster mutation.
func TestDeployTwiceUnchangedSkipsCluster(t *testing.T) {
	ctx := context.Background()
	store := fake.New(configMapDescriptor)
	cfg := action.NewConfiguration(store, "ns")

	rel := releaseFrom(t, "demo", configMap(t, "a", nil))

	_, err := cfg.Deploy(ctx, rel)
	require.NoError(t, err)

	result, err := cfg.Deploy(ctx, rel)
	require.NoError(t, err)
	assert.Equal(t, action.StatusUnchanged, result.Status)
	assert.Nil(t, result.Plan)
}

// TestDeployUpgradeAppliesDiffAndHistory: a changed redeploy upgrades the
// shared object, creates the new one, deletes the dropped one, and pushes
// the prior generation onto history.
func TestDeployUpgradeAppliesDiffAndHistory(t *testing.T) {
	ctx := context.Background()
	store := fake.New(configMapDescriptor)
	cfg := action.NewConfiguration(store, "ns")

	first := releaseFrom(t, "demo", configMap(t, "a", map[string]interface{}{"k": "v1"}), configMap(t, "gone", nil))
	_, err := cfg.Deploy(ctx, first)
	require.NoError(t, err)

	second := releaseFrom(t, "demo", configMap(t, "a", map[string]interface{}{"k": "v2"}), configMap(t, "new", nil))
	result, err := cfg.Deploy(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, action.StatusUpgraded, result.Status)
	assert.Len(t, result.Plan.Creates, 1)
	assert.Len(t, result.Plan.Upgrades, 1)
	assert.Len(t, result.Plan.Deletes, 1)

	state, err := cfg.Releases.Get(ctx, "demo")
	require.NoError(t, err)
	assert.Len(t, state.History, 1)

	assert.NoError(t, cfg.Verify(ctx, "demo"))
}

// TestDeployFailureRollsBackAndReturnsReleaseError: a transport failure
// partway through install rolls the cluster back and the error is surfaced
// as an *action.ReleaseError, not silently swallowed.
func TestDeployFailureRollsBackAndReturnsReleaseError(t *testing.T) {
	ctx := context.Background()
	store := fake.New(configMapDescriptor)

	// The lock object itself is created first, so allow=1 lets the lock and
	// the plan's first create through and the failure lands on its second.
	guarded := &failCreateAfter{Client: store, allow: 1}
	cfg := action.NewConfiguration(guarded, "ns")

	rel := releaseFrom(t, "demo", configMap(t, "a", nil), configMap(t, "b", nil))
	_, err := cfg.Deploy(ctx, rel)
	require.Error(t, err)
	assert.True(t, action.IsReleaseError(err))

	// the successful first create was rolled back
	_, getErr := store.Get(ctx, configMapDescriptor, "ns", "a")
	assert.ErrorIs(t, getErr, objectstore.ErrNotFound)

	// no release-state was ever persisted
	state, getErr := cfg.Releases.Get(ctx, "demo")
	require.NoError(t, getErr)
	assert.Nil(t, state)
}

// failCreateAfter passes through the first allow+1 Create calls and fails
// every one after that.
type failCreateAfter struct {
	*fake.Client
	allow   int
	creates int
}

func (f *failCreateAfter) Create(ctx context.Context, descriptor object.Descriptor, namespace string, obj object.Object) (object.Object, error) {
	f.creates++
	if f.creates > f.allow+1 {
		return object.Object{}, objectstore.NewTransportError(objectstore.ActionCreate, obj.GetName(), assert.AnError)
	}
	return f.Client.Create(ctx, descriptor, namespace, obj)
}

// TestDeleteTearsDownReleaseAndState: deleting a deployed release removes
// every object and the release-state record, and a later verify reports
// ErrNoDeployedRelease.
func TestDeleteTearsDownReleaseAndState(t *testing.T) {
	ctx := context.Background()
	store := fake.New(configMapDescriptor)
	cfg := action.NewConfiguration(store, "ns")

	rel := releaseFrom(t, "demo", configMap(t, "a", nil))
	_, err := cfg.Deploy(ctx, rel)
	require.NoError(t, err)

	p, err := cfg.Delete(ctx, "demo")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Len(t, p.Deletes, 1)

	_, getErr := store.Get(ctx, configMapDescriptor, "ns", "a")
	assert.ErrorIs(t, getErr, objectstore.ErrNotFound)

	assert.ErrorContains(t, cfg.Verify(ctx, "demo"), "no deployed release")
}

func TestDeleteAbsentReleaseReturnsNilPlan(t *testing.T) {
	ctx := context.Background()
	store := fake.New(configMapDescriptor)
	cfg := action.NewConfiguration(store, "ns")

	p, err := cfg.Delete(ctx, "never-deployed")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestDeployRequiresReleaseName(t *testing.T) {
	store := fake.New(configMapDescriptor)
	cfg := action.NewConfiguration(store, "ns")

	_, err := cfg.Deploy(context.Background(), release.Release{})
	assert.ErrorIs(t, err, action.ErrMissingRelease)
}

func TestListReflectsDeployedReleases(t *testing.T) {
	ctx := context.Background()
	store := fake.New(configMapDescriptor)
	cfg := action.NewConfiguration(store, "ns")

	_, err := cfg.Deploy(ctx, releaseFrom(t, "one", configMap(t, "a", nil)))
	require.NoError(t, err)
	_, err = cfg.Deploy(ctx, releaseFrom(t, "two", configMap(t, "b", nil)))
	require.NoError(t, err)

	names, err := cfg.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, names)
}

func TestLockPreventsConcurrentDeploysOfSameRelease(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	store := fake.New(configMapDescriptor)
	cfg := action.NewConfiguration(store, "ns")

	// the lock object for "demo" is held externally for the duration of
	// this check, forcing a concurrent deploy to contend. It carries the
	// same type=lock label a competing holder's handle would have set, so
	// its deletion is visible to the waiter's watch.
	lockObj, err := object.New(map[string]interface{}{
		"apiVersion": tags.ConfigDescriptor.APIVersion(),
		"kind":       tags.ConfigDescriptor.Kind,
		"metadata":   map[string]interface{}{"name": tags.LockName("demo")},
	}, &tags.ConfigDescriptor)
	require.NoError(t, err)
	lockObj.SetLabel(tags.LabelType, tags.TypeLock)
	_, err = store.Create(ctx, tags.ConfigDescriptor, "ns", lockObj)
	require.NoError(t, err)

	deployErr := make(chan error, 1)
	go func() {
		_, err := cfg.Deploy(ctx, releaseFrom(t, "demo", configMap(t, "a", nil)))
		deployErr <- err
	}()

	// give the deploy goroutine a moment to observe the conflict and start
	// watching before releasing the external holder.
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, store.Delete(ctx, tags.ConfigDescriptor, "ns", tags.LockName("demo")))

	select {
	case err := <-deployErr:
		assert.NoError(t, err)
	case <-time.After(25 * time.Second):
		t.Fatal("deploy never completed")
	}
}
