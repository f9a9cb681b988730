// Package object defines the stable identifier and typed wrapper used to
// address declarative API objects independent of any particular transport.
package object

import "fmt"

// Descriptor is the resource type an Object belongs to: enough information
// for the object-store transport to pick the right endpoint.
type Descriptor struct {
	Group   string
	Version string
	Kind    string
	Plural  string
}

// String renders the descriptor as group/version/Kind, omitting the group
// when it is empty (the "core" group convention).
func (d Descriptor) String() string {
	if d.Group == "" {
		return fmt.Sprintf("%s/%s", d.Version, d.Kind)
	}
	return fmt.Sprintf("%s/%s/%s", d.Group, d.Version, d.Kind)
}

// Identifier uniquely identifies an object within a namespace. Two objects
// with the same Kind but different Group or Version are distinct members of
// the same ObjectSet.
type Identifier struct {
	Group   string
	Version string
	Kind    string
	Name    string
}

// String renders the identifier as group/version/Kind/name.
func (id Identifier) String() string {
	return fmt.Sprintf("%s/%s", Descriptor{Group: id.Group, Version: id.Version, Kind: id.Kind}, id.Name)
}

// Less provides a total order over identifiers so ObjectSet iteration (and
// therefore content hashing) is deterministic.
func (id Identifier) Less(other Identifier) bool {
	if id.Group != other.Group {
		return id.Group < other.Group
	}
	if id.Version != other.Version {
		return id.Version < other.Version
	}
	if id.Kind != other.Kind {
		return id.Kind < other.Kind
	}
	return id.Name < other.Name
}
