// Package polyhedron builds regular polyhedra inscribed in the unit sphere
// and locates the face containing a sphere point.
package polyhedron

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"

	"github.com/signalsfoundry/polynet/model"
	"github.com/signalsfoundry/polynet/sphere"
)

const (
	// containmentTolerance is applied to every dot-product sign test so
	// that points on shared edges and vertices are accepted by each face
	// touching them.
	containmentTolerance = 1e-12
	unitTolerance        = 1e-9
)

// Polyhedron is an immutable regular polyhedron. It is safe for concurrent
// use.
type Polyhedron struct {
	variant  Variant
	vertices []s2.Point
	faces    []*Face
	edges    int
}

// New constructs the named polyhedron and checks its topology.
func New(variant Variant) (*Polyhedron, error) {
	vertices, err := vertexSet(variant)
	if err != nil {
		return nil, err
	}
	return build(variant, vertices)
}

func (p *Polyhedron) Variant() Variant       { return p.variant }
func (p *Polyhedron) NumFaces() int          { return len(p.faces) }
func (p *Polyhedron) NumVertices() int       { return len(p.vertices) }
func (p *Polyhedron) NumEdges() int          { return p.edges }
func (p *Polyhedron) Faces() []*Face         { return p.faces }
func (p *Polyhedron) Vertex(id int) s2.Point { return p.vertices[id] }

// Face returns face i.
func (p *Polyhedron) Face(i int) (*Face, error) {
	if i < 0 || i >= len(p.faces) {
		return nil, fmt.Errorf("%w: face %d not in [0, %d)", model.ErrNoFaceFound, i, len(p.faces))
	}
	return p.faces[i], nil
}

// FaceFrame returns the center and tangent basis of face i.
func (p *Polyhedron) FaceFrame(i int) (center, u, v s2.Point, err error) {
	f, err := p.Face(i)
	if err != nil {
		return s2.Point{}, s2.Point{}, s2.Point{}, err
	}
	return f.Center, f.U, f.V, nil
}

// Neighbors returns the faces adjacent to face i, one per edge.
func (p *Polyhedron) Neighbors(i int) ([]int, error) {
	f, err := p.Face(i)
	if err != nil {
		return nil, err
	}
	return append([]int(nil), f.Neighbors...), nil
}

// FaceContaining returns the index of the face containing v. Faces are
// tested in index order, so a point on a shared edge or vertex resolves to
// the lowest-indexed face touching it.
func (p *Polyhedron) FaceContaining(v s2.Point) (int, error) {
	if !sphere.IsUnit(v.Vector, unitTolerance) {
		return model.NoFace, fmt.Errorf("%w: vector %v is not unit length", model.ErrInvalidCoordinate, v.Vector)
	}
	for _, f := range p.faces {
		if f.Contains(v) {
			return f.Index, nil
		}
	}
	return model.NoFace, fmt.Errorf("%w: %v", model.ErrNoFaceFound, v.Vector)
}

// FaceArea returns the common spherical area of every face, 4π/F.
func (p *Polyhedron) FaceArea() float64 {
	return 4 * math.Pi / float64(len(p.faces))
}
