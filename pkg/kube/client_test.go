package kube_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	dynamicfake "k8s.io/client-go/dynamic/fake"

	"boatswain.sh/boatswain/pkg/kube"
	"boatswain.sh/boatswain/pkg/object"
	"boatswain.sh/boatswain/pkg/objectstore"
)

var configMapGVR = schema.GroupVersionResource{Version: "v1", Resource: "configmaps"}
var configMapDescriptor = object.Descriptor{Version: "v1", Kind: "ConfigMap", Plural: "configmaps"}

func newFakeDynamicClient() dynamic.Interface {
	scheme := runtime.NewScheme()
	listKinds := map[schema.GroupVersionResource]string{configMapGVR: "ConfigMapList"}
	return dynamicfake.NewSimpleDynamicClientWithCustomListKinds(scheme, listKinds)
}

func configMap(t *testing.T, name string) object.Object {
	t.Helper()
	obj, err := object.New(map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "ConfigMap",
		"metadata":   map[string]interface{}{"name": name},
	}, nil)
	require.NoError(t, err)
	return obj
}

func TestClientCreateGetDelete(t *testing.T) {
	ctx := context.Background()
	dyn := newFakeDynamicClient()
	c := kube.New(dyn, nil, nil)

	_, err := c.Create(ctx, configMapDescriptor, "ns", configMap(t, "a"))
	require.NoError(t, err)

	got, err := c.Get(ctx, configMapDescriptor, "ns", "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.GetName())

	require.NoError(t, c.Delete(ctx, configMapDescriptor, "ns", "a"))

	_, err = c.Get(ctx, configMapDescriptor, "ns", "a")
	assert.ErrorIs(t, err, objectstore.ErrNotFound)
}

func TestClientGetMissingReturnsErrNotFound(t *testing.T) {
	c := kube.New(newFakeDynamicClient(), nil, nil)
	_, err := c.Get(context.Background(), configMapDescriptor, "ns", "missing")
	assert.ErrorIs(t, err, objectstore.ErrNotFound)
}

func TestClientCreateConflictReturnsErrConflict(t *testing.T) {
	ctx := context.Background()
	c := kube.New(newFakeDynamicClient(), nil, nil)

	_, err := c.Create(ctx, configMapDescriptor, "ns", configMap(t, "a"))
	require.NoError(t, err)
	_, err = c.Create(ctx, configMapDescriptor, "ns", configMap(t, "a"))
	assert.ErrorIs(t, err, objectstore.ErrConflict)
}

func TestClientListFiltersByLabelSelector(t *testing.T) {
	ctx := context.Background()
	c := kube.New(newFakeDynamicClient(), nil, nil)

	a := configMap(t, "a")
	a.SetLabel("team", "x")
	b := configMap(t, "b")
	b.SetLabel("team", "y")

	_, err := c.Create(ctx, configMapDescriptor, "ns", a)
	require.NoError(t, err)
	_, err = c.Create(ctx, configMapDescriptor, "ns", b)
	require.NoError(t, err)

	objs, err := c.List(ctx, configMapDescriptor, "ns", "team=x")
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "a", objs[0].GetName())
}

// Apply is not covered here: client-go's fake object tracker rejects
// ApplyPatchType patches outright, so server-side apply can only be
// exercised against a real API server. The apply path's behavior is
// covered through pkg/objectstore/fake in the executor and action tests.
func TestClientWatchStopsOnContextCancel(t *testing.T) {
	dyn := newFakeDynamicClient()
	c := kube.New(dyn, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := c.Watch(ctx, configMapDescriptor, "ns", "", 5*time.Second)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("watch channel never closed after context cancellation")
	}
}
