package object_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boatswain.sh/boatswain/pkg/object"
)

func configMap(name string) object.Object {
	obj, err := object.New(map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "ConfigMap",
		"metadata":   map[string]interface{}{"name": name},
	}, nil)
	if err != nil {
		panic(err)
	}
	return obj
}

func TestNewSetRejectsDuplicates(t *testing.T) {
	_, err := object.NewSet(configMap("a"), configMap("a"))
	require.ErrorIs(t, err, object.ErrDuplicateIdentifier)
}

func TestSetAddRejectsDuplicates(t *testing.T) {
	s, err := object.NewSet(configMap("a"))
	require.NoError(t, err)
	require.ErrorIs(t, s.Add(configMap("a")), object.ErrDuplicateIdentifier)
}

func TestSortedIdentifiersIsDeterministic(t *testing.T) {
	s, err := object.NewSet(configMap("c"), configMap("a"), configMap("b"))
	require.NoError(t, err)

	ids := s.SortedIdentifiers()
	names := []string{ids[0].Name, ids[1].Name, ids[2].Name}
	assert.Equal(t, []string{"a", "b", "c"}, names)

	// repeated calls yield the same order regardless of map iteration
	for i := 0; i < 5; i++ {
		again := s.SortedIdentifiers()
		assert.Equal(t, ids, again)
	}
}

func TestSetDeepCopyIndependence(t *testing.T) {
	s, err := object.NewSet(configMap("a"))
	require.NoError(t, err)

	clone := s.DeepCopy()
	for id, o := range clone {
		o.SetLabel("x", "y")
		clone[id] = o
	}

	for _, o := range s {
		assert.Nil(t, o.GetLabels())
	}
}
