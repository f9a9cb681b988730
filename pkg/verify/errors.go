package verify

import (
	"errors"
	"fmt"

	"boatswain.sh/boatswain/pkg/object"
)

// ErrNoDeployedRelease is returned when no release-state record exists for
// the named release.
var ErrNoDeployedRelease = errors.New("verify: no deployed release")

// MissingObjectError reports that a desired object is absent from the live
// cluster entirely.
type MissingObjectError struct {
	Identifier object.Identifier
}

func (e *MissingObjectError) Error() string {
	return fmt.Sprintf("verify: missing object %s", e.Identifier)
}

// MismatchingLabelsError reports that the live object's labels diverge from
// the desired object's labels.
type MismatchingLabelsError struct {
	Identifier object.Identifier
	Desired    map[string]string
	Live       map[string]string
}

func (e *MismatchingLabelsError) Error() string {
	return fmt.Sprintf("verify: mismatching labels on %s: desired=%v live=%v", e.Identifier, e.Desired, e.Live)
}

// MismatchingAnnotationsError reports that the live object's annotations
// diverge from the desired object's annotations.
type MismatchingAnnotationsError struct {
	Identifier object.Identifier
	Desired    map[string]string
	Live       map[string]string
}

func (e *MismatchingAnnotationsError) Error() string {
	return fmt.Sprintf("verify: mismatching annotations on %s: desired=%v live=%v", e.Identifier, e.Desired, e.Live)
}

// MismatchingDataError reports the path of first structural divergence
// between a desired object's body and the live object's body.
type MismatchingDataError struct {
	Identifier object.Identifier
	Path       string
}

func (e *MismatchingDataError) Error() string {
	return fmt.Sprintf("verify: mismatching data on %s at %s", e.Identifier, e.Path)
}
