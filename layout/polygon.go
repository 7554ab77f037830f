package layout

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/paulmach/orb"
)

// overlapTolerance lets polygons that share an edge or vertex count as
// disjoint.
const overlapTolerance = 1e-9

// convexOverlap reports whether two convex CCW polygons share interior area.
func convexOverlap(a, b []r2.Point) bool {
	return !hasSeparatingAxis(a, b) && !hasSeparatingAxis(b, a)
}

func hasSeparatingAxis(poly, other []r2.Point) bool {
	n := len(poly)
	for i := 0; i < n; i++ {
		edge := poly[(i+1)%n].Sub(poly[i])
		axis := edge.Ortho().Normalize()
		minA, maxA := project(poly, axis)
		minB, maxB := project(other, axis)
		if maxA <= minB+overlapTolerance || maxB <= minA+overlapTolerance {
			return true
		}
	}
	return false
}

func project(poly []r2.Point, axis r2.Point) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range poly {
		d := p.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

// convexContains reports whether q lies in the CCW polygon, boundary
// included within tol.
func convexContains(poly []r2.Point, q r2.Point, tol float64) bool {
	n := len(poly)
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[(i+1)%n]
		edge := b.Sub(a)
		if edge.Cross(q.Sub(a)) < -tol*edge.Norm() {
			return false
		}
	}
	return true
}

// ring converts a polygon to a closed orb.Ring.
func ring(poly []r2.Point) orb.Ring {
	r := make(orb.Ring, 0, len(poly)+1)
	for _, p := range poly {
		r = append(r, orb.Point{p.X, p.Y})
	}
	return append(r, r[0])
}
