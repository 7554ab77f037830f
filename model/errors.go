package model

import "errors"

var (
	// ErrInvalidCoordinate reports a latitude, longitude or planar coordinate
	// outside its valid range (or NaN).
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrNoFaceFound reports a point that lies outside every face of a
	// polyhedron or net. For points on the unit sphere this indicates a
	// construction bug.
	ErrNoFaceFound = errors.New("no face found")
	// ErrUnsupportedConfiguration reports an unknown polyhedron, net or
	// projection variant, or an unusable ellipsoid.
	ErrUnsupportedConfiguration = errors.New("unsupported configuration")
)
