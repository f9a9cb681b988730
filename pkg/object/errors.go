package object

import "errors"

// ErrMissingTypeInfo is returned when an object body carries neither an
// apiVersion/kind pair nor was given an explicit Descriptor.
var ErrMissingTypeInfo = errors.New("object: missing apiVersion/kind and no descriptor supplied")

// ErrMissingName is returned when an object body has no metadata.name.
var ErrMissingName = errors.New("object: missing metadata.name")

// ErrDuplicateIdentifier is returned by Set.Add and NewSet when an
// identifier is already present in the set.
var ErrDuplicateIdentifier = errors.New("object: duplicate identifier in set")
