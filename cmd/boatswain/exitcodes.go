package main

import (
	"errors"

	"boatswain.sh/boatswain/pkg/verify"
)

// exitCodeFor distinguishes "no deployed release" (2) and verification
// drift (3) from generic failures (1) at the process boundary, so scripts
// can branch on why a verify failed.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, verify.ErrNoDeployedRelease):
		return 2
	case isVerificationError(err):
		return 3
	default:
		return 1
	}
}

func isVerificationError(err error) bool {
	var missing *verify.MissingObjectError
	var labels *verify.MismatchingLabelsError
	var annotations *verify.MismatchingAnnotationsError
	var data *verify.MismatchingDataError
	return errors.As(err, &missing) || errors.As(err, &labels) || errors.As(err, &annotations) || errors.As(err, &data)
}
