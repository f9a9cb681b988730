package action

import (
	"errors"
	"fmt"

	"boatswain.sh/boatswain/pkg/release"
)

// ErrMissingRelease is returned when a release name was not provided.
var ErrMissingRelease = errors.New("action: no release name provided")

// ReleaseError reports that a deploy or delete failed; it is always paired
// with the ReleaseState the attempt was working from, so a caller can
// inspect what the cluster was expected to look like.
type ReleaseError struct {
	State *release.State
	Cause error
}

func (e *ReleaseError) Error() string {
	return fmt.Sprintf("action: %v", e.Cause)
}

func (e *ReleaseError) Unwrap() error { return e.Cause }

// IsReleaseError reports whether err is (or wraps) a *ReleaseError.
func IsReleaseError(err error) bool {
	var re *ReleaseError
	return errors.As(err, &re)
}
