package release

import (
	"encoding/json"
	"fmt"

	"boatswain.sh/boatswain/pkg/object"
)

// State is the durable record of a release: its current object set and a
// LIFO history of prior generations (most recent previous generation
// first). Depth is unbounded at this type's level; pkg/storage may cap it.
type State struct {
	Current object.Set
	History []object.Set
}

// entry is the wire shape of a single ObjectSet member. ObjectSets are
// serialized as an ordered list of entries, not as a JSON object keyed by
// identifier, because Identifier is itself a compound structure that a
// plain map key cannot carry through a round-trip.
type entry struct {
	Identifier object.Identifier      `json:"identifier"`
	Object     map[string]interface{} `json:"object"`
}

// wireState is the JSON shape stored in the release-state object's
// data["release_state"] field.
type wireState struct {
	Current []entry   `json:"current"`
	History [][]entry `json:"history"`
}

func setToEntries(s object.Set) []entry {
	ids := s.SortedIdentifiers()
	entries := make([]entry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, entry{Identifier: id, Object: s[id].Body})
	}
	return entries
}

func entriesToSet(entries []entry) (object.Set, error) {
	s := make(object.Set, len(entries))
	for _, e := range entries {
		descriptor := object.Descriptor{Group: e.Identifier.Group, Version: e.Identifier.Version, Kind: e.Identifier.Kind}
		obj := object.Object{Descriptor: descriptor, Body: e.Object}
		if err := s.Add(obj); err != nil {
			return nil, fmt.Errorf("decoding entry %s: %w", e.Identifier, err)
		}
	}
	return s, nil
}

// Encode serializes the State into the JSON string persisted at
// data["release_state"].
func Encode(s State) (string, error) {
	w := wireState{
		Current: setToEntries(s.Current),
		History: make([][]entry, 0, len(s.History)),
	}
	for _, gen := range s.History {
		w.History = append(w.History, setToEntries(gen))
	}
	b, err := json.Marshal(w)
	if err != nil {
		return "", fmt.Errorf("encoding release state: %w", err)
	}
	return string(b), nil
}

// Decode parses the JSON string stored at data["release_state"]. It returns
// a wrapped error (suitable for the CorruptState taxonomy entry) when the
// string is not valid wireState JSON.
func Decode(raw string) (State, error) {
	var w wireState
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return State{}, fmt.Errorf("decoding release state: %w", err)
	}

	current, err := entriesToSet(w.Current)
	if err != nil {
		return State{}, fmt.Errorf("decoding release state: %w", err)
	}

	history := make([]object.Set, 0, len(w.History))
	for _, gen := range w.History {
		s, err := entriesToSet(gen)
		if err != nil {
			return State{}, fmt.Errorf("decoding release state: %w", err)
		}
		history = append(history, s)
	}

	return State{Current: current, History: history}, nil
}
