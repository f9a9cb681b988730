package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"boatswain.sh/boatswain/pkg/object"
	"boatswain.sh/boatswain/pkg/verify"
)

func TestExitCodeForNoDeployedRelease(t *testing.T) {
	assert.Equal(t, 2, exitCodeFor(verify.ErrNoDeployedRelease))
	assert.Equal(t, 2, exitCodeFor(fmt.Errorf("wrapped: %w", verify.ErrNoDeployedRelease)))
}

func TestExitCodeForVerificationDrift(t *testing.T) {
	id := object.Identifier{Version: "v1", Kind: "ConfigMap", Name: "a"}
	assert.Equal(t, 3, exitCodeFor(&verify.MissingObjectError{Identifier: id}))
	assert.Equal(t, 3, exitCodeFor(&verify.MismatchingLabelsError{Identifier: id}))
	assert.Equal(t, 3, exitCodeFor(&verify.MismatchingAnnotationsError{Identifier: id}))
	assert.Equal(t, 3, exitCodeFor(&verify.MismatchingDataError{Identifier: id, Path: "x"}))
}

func TestExitCodeForGenericFailure(t *testing.T) {
	assert.Equal(t, 1, exitCodeFor(errors.New("boom")))
}
