package repository

import (
	"fmt"
	"strings"
)

const pathSeparator = "."

// Attribute is the handle of one column to filter, sort or project on.
type Attribute struct {
	Path   string // dotted property path, e.g. "email.address"
	Column string // column the leaf is stored in
}

// ResolvePath resolves a dotted property path against the schema root.
//
// For N segments, the first N-1 must be embedded fields, walked from the root,
// and the last one names the scalar leaf to constrain.
func ResolvePath(schema Schema, path string) (Attribute, error) {
	if schema.IsZero() {
		return Attribute{}, fmt.Errorf("%w: %q on an empty schema", ErrUnknownProperty, path)
	}

	segments := strings.Split(path, pathSeparator)
	fields := schema.fields
	container := schema.entityName

	for i, segment := range segments {
		field, ok := lookupField(fields, segment)
		if !ok {
			return Attribute{}, fmt.Errorf("%w: %q has no property %q (path %q)", ErrUnknownProperty, container, segment, path)
		}

		isLeaf := i == len(segments)-1

		switch {
		case isLeaf && field.IsEmbedded():
			return Attribute{}, fmt.Errorf("%w: %q is embedded and cannot be used as a leaf (path %q)", ErrUnknownProperty, segment, path)

		case isLeaf:
			return Attribute{Path: path, Column: field.column}, nil

		case !field.IsEmbedded():
			return Attribute{}, fmt.Errorf("%w: %q is not embedded and has no property %q (path %q)", ErrUnknownProperty, segment, segments[i+1], path)
		}

		fields = field.embedded
		container = segment
	}

	// unreachable: strings.Split always yields at least one segment
	return Attribute{}, fmt.Errorf("%w: %q", ErrUnknownProperty, path)
}
