// Package action ties the lock, storage, plan, executor, and verifier
// together into the Deploy, Delete, and Verify operations, all methods on
// a shared Configuration.
package action

import (
	"boatswain.sh/boatswain/internal/logging"
	"boatswain.sh/boatswain/pkg/objectstore"
	"boatswain.sh/boatswain/pkg/storage"
	"boatswain.sh/boatswain/pkg/verify"
)

// Configuration injects the dependencies every action shares: the object
// store transport, the namespace operations are scoped to, and the release
// state store built on top of the transport.
type Configuration struct {
	Store     objectstore.Interface
	Namespace string
	Releases  *storage.Storage
	Verifier  *verify.Verifier

	logging.LogHolder
}

// NewConfiguration wires a Configuration against store, scoped to
// namespace.
func NewConfiguration(store objectstore.Interface, namespace string) *Configuration {
	releases := storage.New(store, namespace)
	return &Configuration{
		Store:     store,
		Namespace: namespace,
		Releases:  releases,
		Verifier:  verify.New(store, releases, namespace),
	}
}
