package tags_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"boatswain.sh/boatswain/pkg/tags"
)

func TestLockNameDerivation(t *testing.T) {
	assert.Equal(t, "demo-lock", tags.LockName("demo"))
}

func TestLabelKeysAreNamespaced(t *testing.T) {
	assert.Equal(t, "boatswain.sh/type", tags.LabelType)
	assert.Equal(t, "boatswain.sh/release", tags.LabelRelease)
	assert.Equal(t, "boatswain.sh/version", tags.AnnotationVersion)
}
