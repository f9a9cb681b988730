// Package plan computes the categorized diff between a release's desired
// and previously persisted object sets.
package plan

import (
	"boatswain.sh/boatswain/pkg/object"
	"boatswain.sh/boatswain/pkg/tags"
)

// Create is a new-in-desired action.
type Create struct {
	New object.Object
}

// Upgrade carries both generations of an object present in both sets.
type Upgrade struct {
	New object.Object
	Old object.Object
}

// Delete is a gone-from-desired action.
type Delete struct {
	Old object.Object
}

// Plan is the categorized diff of two object sets: creations, upgrades,
// and deletions. Every object carried inside an action has already been
// tagged (see Tag).
type Plan struct {
	Creates  []Create
	Upgrades []Upgrade
	Deletes  []Delete
}

// Tag returns a deep copy of obj augmented with the managed label, the
// release-name label, and the tool version annotation. The caller's
// original object is never mutated.
func Tag(releaseName string, obj object.Object) object.Object {
	tagged := obj.DeepCopy()
	tagged.SetLabel(tags.LabelType, tags.TypeManaged)
	tagged.SetLabel(tags.LabelRelease, releaseName)
	tagged.SetAnnotation(tags.AnnotationVersion, tags.Version)
	return tagged
}

// Build categorizes desired against previous by Identifier membership:
// Create when only in desired, Upgrade when in both, Delete when only in
// previous. Every carried object is tagged. Iteration is over the sorted
// union of identifiers so phase member order is deterministic.
func Build(releaseName string, desired, previous object.Set) Plan {
	var p Plan

	seen := map[object.Identifier]bool{}
	ids := desired.SortedIdentifiers()
	for _, id := range previous.SortedIdentifiers() {
		if _, ok := desired[id]; !ok {
			ids = append(ids, id)
		}
	}
	// Re-sort the combined slice; desired's ids are already sorted but the
	// appended previous-only ids are not interleaved correctly otherwise.
	ids = sortedUnique(ids)

	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		newObj, inDesired := desired[id]
		oldObj, inPrevious := previous[id]

		switch {
		case inDesired && inPrevious:
			p.Upgrades = append(p.Upgrades, Upgrade{New: Tag(releaseName, newObj), Old: Tag(releaseName, oldObj)})
		case inDesired:
			p.Creates = append(p.Creates, Create{New: Tag(releaseName, newObj)})
		case inPrevious:
			p.Deletes = append(p.Deletes, Delete{Old: Tag(releaseName, oldObj)})
		}
	}

	return p
}

// Undo returns the compensating plan that, executed against the post-plan
// cluster, restores the pre-plan cluster: creates become deletes, deletes
// become creates, and each upgrade's new/old are swapped.
func (p Plan) Undo() Plan {
	var undo Plan
	for _, c := range p.Creates {
		undo.Deletes = append(undo.Deletes, Delete{Old: c.New})
	}
	for _, d := range p.Deletes {
		undo.Creates = append(undo.Creates, Create{New: d.Old})
	}
	for _, u := range p.Upgrades {
		undo.Upgrades = append(undo.Upgrades, Upgrade{New: u.Old, Old: u.New})
	}
	return undo
}

func sortedUnique(ids []object.Identifier) []object.Identifier {
	dedup := map[object.Identifier]bool{}
	out := ids[:0:0]
	for _, id := range ids {
		if !dedup[id] {
			dedup[id] = true
			out = append(out, id)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Less(out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
