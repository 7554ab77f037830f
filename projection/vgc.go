package projection

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/signalsfoundry/polynet/polyhedron"
	"github.com/signalsfoundry/polynet/sphere"
)

const (
	centerEpsilon  = 1e-12
	bisectionSteps = 64
)

// vgc splits each face into triangles (center, Vk, Vk+1) and maps each one
// onto its planar counterpart. Great circles through the center become
// straight lines through the origin. The fraction of sub-triangle area on
// either side of such a line and the cap area below a point are both kept,
// which makes the mapping equal-area.
type vgc struct{}

func (vgc) Variant() Variant { return VGC }

func (vgc) FaceForward(f *polyhedron.Face, p s2.Point) (r2.Point, error) {
	cp := f.Center.Distance(p)
	if cp < centerEpsilon {
		return r2.Point{}, nil
	}

	k := f.Sector(p)
	a, b := f.Edge(k)
	d := edgeCrossing(f.Center, p, a, b, f.EdgeNormals[k])

	t := sphere.Clamp(s2.PointArea(f.Center, a, d)/s2.PointArea(f.Center, a, b), 0, 1)
	s := math.Sin(cp.Radians()/2) / math.Sin(f.Center.Distance(d).Radians()/2)

	pa, pb := f.PlanarVertex(k), f.PlanarVertex(k+1)
	return pa.Add(pb.Sub(pa).Mul(t)).Mul(s), nil
}

func (vgc) FaceInverse(f *polyhedron.Face, q r2.Point) (s2.Point, error) {
	if q.Norm() < centerEpsilon {
		return f.Center, nil
	}

	k := f.PlanarSector(q)
	pa := f.PlanarVertex(k)
	edge := f.PlanarVertex(k + 1).Sub(pa)
	t := sphere.Clamp(pa.Cross(q)/q.Cross(edge), 0, 1)
	s := q.Norm() / pa.Add(edge.Mul(t)).Norm()

	a, b := f.Edge(k)
	d := pointAtAreaFraction(f.Center, a, b, t)
	cd := f.Center.Distance(d)
	cp := 2 * math.Asin(sphere.Clamp(s*math.Sin(cd.Radians()/2), -1, 1))
	return s2.InterpolateAtDistance(s1.Angle(cp), f.Center, d), nil
}

// edgeCrossing returns where the great circle from c through p meets the
// arc a-b, whose plane has unit normal n.
func edgeCrossing(c, p, a, b s2.Point, n r3.Vector) s2.Point {
	d := c.Cross(p.Vector).Cross(n).Normalize()
	if d.Dot(a.Add(b.Vector)) < 0 {
		d = d.Mul(-1)
	}
	return s2.Point{Vector: d}
}

// pointAtAreaFraction finds D on arc a-b with area(c, a, D) = t·area(c, a, b)
// by bisection; the area grows monotonically along the arc.
func pointAtAreaFraction(c, a, b s2.Point, t float64) s2.Point {
	switch {
	case t <= 0:
		return a
	case t >= 1:
		return b
	}
	target := t * s2.PointArea(c, a, b)
	lo, hi := 0.0, 1.0
	for i := 0; i < bisectionSteps; i++ {
		mid := (lo + hi) / 2
		if s2.PointArea(c, a, s2.Interpolate(mid, a, b)) < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return s2.Interpolate((lo+hi)/2, a, b)
}
