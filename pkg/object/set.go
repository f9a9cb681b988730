package object

import "sort"

// Set is a mapping from Identifier to Object. Insertion order is
// irrelevant; identifiers are unique. Use SortedIdentifiers for any
// operation that must be deterministic (hashing, plan phase ordering).
type Set map[Identifier]Object

// NewSet builds a Set from a slice of objects, failing with
// ErrDuplicateIdentifier if two objects share an Identifier.
func NewSet(objects ...Object) (Set, error) {
	s := make(Set, len(objects))
	for _, o := range objects {
		id := o.Identifier()
		if _, exists := s[id]; exists {
			return nil, ErrDuplicateIdentifier
		}
		s[id] = o
	}
	return s, nil
}

// Add inserts an object, failing with ErrDuplicateIdentifier if its
// identifier is already present.
func (s Set) Add(o Object) error {
	id := o.Identifier()
	if _, exists := s[id]; exists {
		return ErrDuplicateIdentifier
	}
	s[id] = o
	return nil
}

// SortedIdentifiers returns every identifier in the set in a stable,
// deterministic order.
func (s Set) SortedIdentifiers() []Identifier {
	ids := make([]Identifier, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// DeepCopy returns a Set whose Objects share no mutable state with the
// receiver.
func (s Set) DeepCopy() Set {
	out := make(Set, len(s))
	for id, o := range s {
		out[id] = o.DeepCopy()
	}
	return out
}
