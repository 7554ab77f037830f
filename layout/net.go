// Package layout unfolds a polyhedron into a planar net and maps points
// between face-local frames and the net plane.
package layout

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/signalsfoundry/polynet/model"
	"github.com/signalsfoundry/polynet/polyhedron"
)

// Variant selects the unfolding traversal.
type Variant string

const (
	// Standard unfolds breadth-first from the root face.
	Standard Variant = "standard"
	// DepthFirst follows each branch to its end before backtracking.
	DepthFirst Variant = "depthfirst"
)

// containsTolerance widens face outlines so that points on shared edges
// are found.
const containsTolerance = 1e-9

// Variants lists the supported net layouts.
func Variants() []Variant { return []Variant{Standard, DepthFirst} }

// ParseVariant accepts a layout name in any case.
func ParseVariant(name string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Variants() {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: unknown net layout %q", model.ErrUnsupportedConfiguration, name)
}

// Net is an immutable, non-overlapping unfolding of a polyhedron. It is safe
// for concurrent use.
type Net struct {
	poly       *polyhedron.Polyhedron
	variant    Variant
	root       int
	placements []Placement
	parents    []int
	order      []int
	polygons   [][]r2.Point
	bounds     []orb.Bound
	bound      orb.Bound
}

// New unfolds p starting at root. If some face cannot be attached without
// overlap the following faces are tried as root in turn.
func New(p *polyhedron.Polyhedron, variant Variant, root int) (*Net, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil polyhedron", model.ErrUnsupportedConfiguration)
	}
	if _, err := ParseVariant(string(variant)); err != nil {
		return nil, err
	}
	nf := p.NumFaces()
	if root < 0 || root >= nf {
		return nil, fmt.Errorf("%w: root face %d not in [0, %d)", model.ErrUnsupportedConfiguration, root, nf)
	}

	var lastErr error
	for i := 0; i < nf; i++ {
		r := (root + i) % nf
		n, err := unfold(p, variant, r)
		if err == nil {
			return n, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: no root yields a %s net of the %s: %v", model.ErrUnsupportedConfiguration, variant, p.Variant(), lastErr)
}

func (n *Net) Variant() Variant                   { return n.variant }
func (n *Net) Root() int                          { return n.root }
func (n *Net) Polyhedron() *polyhedron.Polyhedron { return n.poly }
func (n *Net) Bound() orb.Bound                   { return n.bound }
func (n *Net) NumFaces() int                      { return len(n.placements) }

// Order returns faces in the order they were attached.
func (n *Net) Order() []int { return append([]int(nil), n.order...) }

// Parent returns the face that face was attached to, or -1 for the root.
func (n *Net) Parent(face int) int {
	if face < 0 || face >= len(n.parents) {
		return -1
	}
	return n.parents[face]
}

// PlacementFor returns the transform of face into the net plane.
func (n *Net) PlacementFor(face int) (Placement, error) {
	if face < 0 || face >= len(n.placements) {
		return Placement{}, fmt.Errorf("%w: face %d not in net", model.ErrNoFaceFound, face)
	}
	return n.placements[face], nil
}

// Outline returns the closed, counter-clockwise outline of face in the net
// plane.
func (n *Net) Outline(face int) (orb.Ring, error) {
	if face < 0 || face >= len(n.polygons) {
		return nil, fmt.Errorf("%w: face %d not in net", model.ErrNoFaceFound, face)
	}
	return ring(n.polygons[face]), nil
}

// Contains reports whether q lies on face's outline or inside it.
func (n *Net) Contains(face int, q r2.Point) bool {
	if face < 0 || face >= len(n.polygons) {
		return false
	}
	if !n.bounds[face].Pad(containsTolerance).Contains(orb.Point{q.X, q.Y}) {
		return false
	}
	return convexContains(n.polygons[face], q, containsTolerance)
}

// FaceAt returns the face whose outline contains q. Faces are tested in
// index order so points on shared edges resolve to the lowest index.
func (n *Net) FaceAt(q r2.Point) (int, bool) {
	for face := range n.polygons {
		if n.Contains(face, q) {
			return face, true
		}
	}
	return model.NoFace, false
}

// Overlaps reports whether the outlines of faces a and b share interior.
func (n *Net) Overlaps(a, b int) bool {
	if a == b || a < 0 || b < 0 || a >= len(n.polygons) || b >= len(n.polygons) {
		return false
	}
	if !n.bounds[a].Intersects(n.bounds[b]) {
		return false
	}
	return convexOverlap(n.polygons[a], n.polygons[b])
}

// FeatureCollection exports the net as GeoJSON polygons in net-plane
// coordinates, one feature per face.
func (n *Net) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for face, poly := range n.polygons {
		f := geojson.NewFeature(orb.Polygon{ring(poly)})
		f.Properties["face"] = face
		f.Properties["parent"] = n.parents[face]
		f.Properties["angle"] = n.placements[face].Angle
		fc.Append(f)
	}
	return fc
}
