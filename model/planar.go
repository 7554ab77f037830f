package model

import (
	"fmt"
	"math"
)

// NoFace marks a planar point whose owning face is unknown.
const NoFace = -1

// PlanarPoint is a position in the net's global plane. Units are those of
// the unit sphere (the net of a polyhedron has total area 4π).
//
// Face is the index of the face the point was projected from, or NoFace.
// Inverse conversion looks the face up from X/Y when it is NoFace.
type PlanarPoint struct {
	X    float64
	Y    float64
	Face int
}

// NewPlanarPoint returns a point with no face association.
func NewPlanarPoint(x, y float64) PlanarPoint {
	return PlanarPoint{X: x, Y: y, Face: NoFace}
}

// Validate reports ErrInvalidCoordinate for NaN or infinite components.
func (p PlanarPoint) Validate() error {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		return fmt.Errorf("%w: planar point (%v, %v)", ErrInvalidCoordinate, p.X, p.Y)
	}
	return nil
}

// ApproxEqual compares coordinates within tol; Face is ignored.
func (p PlanarPoint) ApproxEqual(o PlanarPoint, tol float64) bool {
	return math.Abs(p.X-o.X) <= tol && math.Abs(p.Y-o.Y) <= tol
}
