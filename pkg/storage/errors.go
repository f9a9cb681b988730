package storage

import "errors"

// ErrCorruptState is returned by Get when the release-state record exists
// but data["release_state"] is missing or undecodable.
var ErrCorruptState = errors.New("storage: corrupt release state")
