package projection

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"

	"github.com/signalsfoundry/polynet/model"
	"github.com/signalsfoundry/polynet/polyhedron"
)

// gnomonic projects from the sphere center onto the plane tangent at the
// face center, scaled so face vertices land on the planar polygon. It is
// neither equal-area nor conformal.
type gnomonic struct{}

func (gnomonic) Variant() Variant { return Gnomonic }

func (gnomonic) FaceForward(f *polyhedron.Face, p s2.Point) (r2.Point, error) {
	pc := p.Dot(f.Center.Vector)
	if pc <= 0 {
		return r2.Point{}, fmt.Errorf("%w: point %v is on the far side of face %d", model.ErrInvalidCoordinate, p.Vector, f.Index)
	}
	k := scale(f)
	return r2.Point{X: k * p.Dot(f.U.Vector) / pc, Y: k * p.Dot(f.V.Vector) / pc}, nil
}

func (gnomonic) FaceInverse(f *polyhedron.Face, q r2.Point) (s2.Point, error) {
	k := scale(f)
	v := f.Center.Add(f.U.Mul(q.X / k)).Add(f.V.Mul(q.Y / k))
	return s2.Point{Vector: v.Normalize()}, nil
}

func scale(f *polyhedron.Face) float64 {
	return f.PlanarRadius / math.Tan(f.Radius.Radians())
}
