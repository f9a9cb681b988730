// Package tags carries the well-known label/annotation keys and the
// default descriptor used to address the tool's own configuration objects
// (lock objects and release-state records), per the wire contract.
package tags

import "boatswain.sh/boatswain/pkg/object"

const (
	// Prefix namespaces every label and annotation key this tool writes.
	Prefix = "boatswain.sh/"

	// LabelType distinguishes lock, release-state, and managed objects.
	LabelType = Prefix + "type"
	// LabelRelease carries the owning release's name.
	LabelRelease = Prefix + "release"
	// AnnotationVersion records the tool version that last wrote an object.
	AnnotationVersion = Prefix + "version"

	TypeLock         = "lock"
	TypeReleaseState = "release-state"
	TypeManaged      = "managed"

	// FieldManager identifies this tool's writes to the cluster for
	// server-side-apply conflict accounting.
	FieldManager = "boatswain"
)

// Version is the tool version string written to AnnotationVersion. Builds
// override it with -ldflags "-X boatswain.sh/boatswain/pkg/tags.Version=...".
var Version = "dev"

// ConfigDescriptor is the resource type backing both lock objects and
// release-state records: a generic namespaced configuration object,
// addressed the way a Kubernetes ConfigMap is.
var ConfigDescriptor = object.Descriptor{Version: "v1", Kind: "ConfigMap", Plural: "configmaps"}

// LockName derives the well-known lock object name for a release.
func LockName(release string) string {
	return release + "-lock"
}
