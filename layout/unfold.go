package layout

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/paulmach/orb"

	"github.com/signalsfoundry/polynet/model"
	"github.com/signalsfoundry/polynet/polyhedron"
)

type unfolder struct {
	poly       *polyhedron.Polyhedron
	placements []Placement
	parents    []int
	placed     []bool
	order      []int
	polygons   [][]r2.Point
	bounds     []orb.Bound
}

type frame struct {
	face, next int
}

func unfold(p *polyhedron.Polyhedron, variant Variant, root int) (*Net, error) {
	nf := p.NumFaces()
	u := &unfolder{
		poly:       p,
		placements: make([]Placement, nf),
		parents:    make([]int, nf),
		placed:     make([]bool, nf),
		polygons:   make([][]r2.Point, nf),
		bounds:     make([]orb.Bound, nf),
	}
	u.place(root, -1, Identity(root))

	switch variant {
	case DepthFirst:
		stack := []frame{{face: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			f := p.Faces()[top.face]
			if top.next >= f.Sides() {
				stack = stack[:len(stack)-1]
				continue
			}
			k := top.next
			top.next++
			if child, ok := u.attach(top.face, k); ok {
				stack = append(stack, frame{face: child})
			}
		}
	default:
		queue := []int{root}
		for len(queue) > 0 {
			face := queue[0]
			queue = queue[1:]
			for k := range p.Faces()[face].Neighbors {
				if child, ok := u.attach(face, k); ok {
					queue = append(queue, child)
				}
			}
		}
	}

	// Faces deferred because of overlap get another chance from any
	// neighbour placed later.
	for progress := true; progress && len(u.order) < nf; {
		progress = false
		for _, face := range append([]int(nil), u.order...) {
			for k := range p.Faces()[face].Neighbors {
				if _, ok := u.attach(face, k); ok {
					progress = true
				}
			}
		}
	}
	if len(u.order) < nf {
		return nil, fmt.Errorf("%w: root %d places %d of %d faces", model.ErrUnsupportedConfiguration, root, len(u.order), nf)
	}

	bound := u.bounds[root]
	for _, b := range u.bounds {
		bound = bound.Union(b)
	}
	return &Net{
		poly:       p,
		variant:    variant,
		root:       root,
		placements: u.placements,
		parents:    u.parents,
		order:      u.order,
		polygons:   u.polygons,
		bounds:     u.bounds,
		bound:      bound,
	}, nil
}

// attach places the neighbour across edge k of parent if it is still
// unplaced and fits without overlap.
func (u *unfolder) attach(parent, k int) (int, bool) {
	pf := u.poly.Faces()[parent]
	child := pf.Neighbors[k]
	if u.placed[child] {
		return child, false
	}
	cf := u.poly.Faces()[child]
	j := cf.EdgeTo(parent)
	if j < 0 {
		return child, false
	}

	// Parent edge k runs a->b; the child's edge j runs b->a.
	ga := u.polygons[parent][k]
	gb := u.polygons[parent][(k+1)%pf.Sides()]
	lb := cf.PlanarVertex(j)
	la := cf.PlanarVertex(j + 1)
	pl := edgeMatch(child, ga, gb, la, lb)

	poly := transform(cf, pl)
	b := ring(poly).Bound()
	for _, other := range u.order {
		if !b.Intersects(u.bounds[other]) {
			continue
		}
		if convexOverlap(poly, u.polygons[other]) {
			return child, false
		}
	}
	u.place(child, parent, pl)
	return child, true
}

func (u *unfolder) place(face, parent int, pl Placement) {
	f := u.poly.Faces()[face]
	poly := transform(f, pl)
	u.placements[face] = pl
	u.parents[face] = parent
	u.placed[face] = true
	u.polygons[face] = poly
	u.bounds[face] = ring(poly).Bound()
	u.order = append(u.order, face)
}

func transform(f *polyhedron.Face, pl Placement) []r2.Point {
	poly := make([]r2.Point, f.Sides())
	for k := range poly {
		poly[k] = pl.Apply(f.PlanarVertex(k))
	}
	return poly
}
