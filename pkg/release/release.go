// Package release models a named, versioned bundle of declarative objects
// and its durable state as persisted across deploys.
package release

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"boatswain.sh/boatswain/pkg/object"
)

// Release is a named set of objects deployed atomically.
type Release struct {
	Name    string
	Objects object.Set
}

// Hash returns a content hash of the release: a hash of the release name
// together with the canonical JSON of every object, iterated in a stable
// identifier order. Two releases built from the same objects hash equal
// regardless of insertion order; this is what action.Configuration.Deploy
// uses to detect an unchanged redeploy.
func (r Release) Hash() (string, error) {
	h := sha256.New()
	if _, err := h.Write([]byte(r.Name)); err != nil {
		return "", err
	}
	for _, id := range r.Objects.SortedIdentifiers() {
		obj := r.Objects[id]
		canon, err := canonicalJSON(obj.Body)
		if err != nil {
			return "", fmt.Errorf("hashing %s: %w", id, err)
		}
		if _, err := fmt.Fprintf(h, "%s\x00%s\x00", id, canon); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// canonicalJSON re-marshals a decoded value through json.Marshal, which
// sorts object keys, giving a stable byte representation independent of the
// original map iteration order.
func canonicalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Builder accumulates objects into a Release. A Release is mutated only
// through its Builder; after Finish returns, the Release must be treated as
// immutable.
type Builder struct {
	name    string
	objects object.Set
}

// NewBuilder starts a Builder for the named release.
func NewBuilder(name string) *Builder {
	return &Builder{name: name, objects: object.Set{}}
}

// Add inserts an object into the release under construction.
func (b *Builder) Add(o object.Object) error {
	return b.objects.Add(o)
}

// Finish produces the immutable Release.
func (b *Builder) Finish() Release {
	return Release{Name: b.name, Objects: b.objects}
}
