package layout

import (
	"math"

	"github.com/golang/geo/r2"
)

// Placement is the rigid transform taking a face's local planar frame into
// the net plane: rotate by Angle, then translate by Offset.
type Placement struct {
	Face   int
	Angle  float64
	Offset r2.Point

	cos, sin float64
}

// Identity returns the placement of a root face.
func Identity(face int) Placement {
	return NewPlacement(face, 0, r2.Point{})
}

// NewPlacement builds a placement and caches the rotation.
func NewPlacement(face int, angle float64, offset r2.Point) Placement {
	return Placement{Face: face, Angle: angle, Offset: offset, cos: math.Cos(angle), sin: math.Sin(angle)}
}

// Apply maps a face-local point into the net plane.
func (p Placement) Apply(q r2.Point) r2.Point {
	return r2.Point{
		X: p.cos*q.X - p.sin*q.Y + p.Offset.X,
		Y: p.sin*q.X + p.cos*q.Y + p.Offset.Y,
	}
}

// Invert maps a net-plane point back into the face-local frame.
func (p Placement) Invert(q r2.Point) r2.Point {
	d := q.Sub(p.Offset)
	return r2.Point{
		X: p.cos*d.X + p.sin*d.Y,
		Y: -p.sin*d.X + p.cos*d.Y,
	}
}

// edgeMatch returns the placement carrying local edge (lb, la) onto the
// global edge (gb, ga) with lb landing on gb.
func edgeMatch(face int, ga, gb, la, lb r2.Point) Placement {
	g := ga.Sub(gb)
	l := la.Sub(lb)
	angle := math.Atan2(g.Y, g.X) - math.Atan2(l.Y, l.X)
	p := NewPlacement(face, angle, r2.Point{})
	p.Offset = gb.Sub(p.Apply(lb))
	return p
}
