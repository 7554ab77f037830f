package polyhedron

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/signalsfoundry/polynet/model"
)

const (
	coplanarTolerance = 1e-9
	orderTolerance    = 1e-9
	areaTolerance     = 1e-9
)

type directedEdge struct{ from, to int }

type edgeRef struct{ face, edge int }

// build derives faces from the vertex set: every plane through three
// vertices with all other vertices on its inner side supports a face.
func build(variant Variant, vertices []s2.Point) (*Polyhedron, error) {
	faceSets, err := supportingFaces(vertices)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", variant, err)
	}

	faces := make([]*Face, 0, len(faceSets))
	for _, ids := range faceSets {
		faces = append(faces, newFace(ids, vertices))
	}
	sortFaces(faces)
	for i, f := range faces {
		f.Index = i
	}

	edges, err := linkNeighbors(faces)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", variant, err)
	}
	if chi := len(vertices) - edges + len(faces); chi != 2 {
		return nil, fmt.Errorf("%w: %s has Euler characteristic %d", model.ErrUnsupportedConfiguration, variant, chi)
	}

	sides := faces[0].Sides()
	radius := planarRadius(len(faces), sides)
	want := 4 * math.Pi / float64(len(faces))
	for _, f := range faces {
		if f.Sides() != sides {
			return nil, fmt.Errorf("%w: %s face %d has %d sides, want %d", model.ErrUnsupportedConfiguration, variant, f.Index, f.Sides(), sides)
		}
		if got := f.Area(); math.Abs(got-want) > areaTolerance {
			return nil, fmt.Errorf("%w: %s face %d area %v, want %v", model.ErrUnsupportedConfiguration, variant, f.Index, got, want)
		}
		f.PlanarRadius = radius
		f.planar = regularPolygon(sides, radius)
	}

	return &Polyhedron{
		variant:  variant,
		vertices: vertices,
		faces:    faces,
		edges:    edges,
	}, nil
}

func supportingFaces(vertices []s2.Point) ([][]int, error) {
	seen := make(map[string]bool)
	var out [][]int
	n := len(vertices)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				normal := vertices[j].Sub(vertices[i].Vector).Cross(vertices[k].Sub(vertices[i].Vector))
				if normal.Norm() < coplanarTolerance {
					continue
				}
				normal = normal.Normalize()
				d := normal.Dot(vertices[i].Vector)
				if d < 0 {
					normal, d = normal.Mul(-1), -d
				}

				var onPlane []int
				supporting := true
				for m, v := range vertices {
					dist := normal.Dot(v.Vector) - d
					if dist > coplanarTolerance {
						supporting = false
						break
					}
					if dist >= -coplanarTolerance {
						onPlane = append(onPlane, m)
					}
				}
				if !supporting {
					continue
				}
				key := faceKey(onPlane)
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, onPlane)
			}
		}
	}
	if len(out) < 4 {
		return nil, fmt.Errorf("%w: only %d faces found", model.ErrUnsupportedConfiguration, len(out))
	}
	return out, nil
}

func faceKey(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// newFace orders ids counter-clockwise around the face center starting from
// the lowest id and fills in the frame. ids arrive ascending.
func newFace(ids []int, vertices []s2.Point) *Face {
	var sum r3.Vector
	for _, id := range ids {
		sum = sum.Add(vertices[id].Vector)
	}
	center := s2.Point{Vector: sum.Normalize()}
	u := tangentToward(center, vertices[ids[0]])
	v := s2.Point{Vector: center.Cross(u.Vector)}

	angle := func(id int) float64 {
		p := vertices[id]
		a := math.Atan2(p.Dot(v.Vector), p.Dot(u.Vector))
		if a < -orderTolerance {
			a += 2 * math.Pi
		}
		return a
	}
	ordered := append([]int(nil), ids...)
	sort.SliceStable(ordered, func(a, b int) bool { return angle(ordered[a]) < angle(ordered[b]) })

	f := &Face{
		VertexIDs:   ordered,
		Vertices:    make([]s2.Point, len(ordered)),
		Center:      center,
		U:           u,
		V:           v,
		EdgeNormals: make([]r3.Vector, len(ordered)),
		Neighbors:   make([]int, len(ordered)),
	}
	for k, id := range ordered {
		f.Vertices[k] = vertices[id]
	}
	for k := range ordered {
		a, b := f.Edge(k)
		f.EdgeNormals[k] = a.Cross(b.Vector).Normalize()
		f.Neighbors[k] = -1
	}
	f.cosRadius = center.Dot(f.Vertices[0].Vector)
	f.Radius = s1.Angle(math.Acos(math.Max(-1, math.Min(1, f.cosRadius))))
	return f
}

func tangentToward(center, p s2.Point) s2.Point {
	t := p.Sub(center.Mul(center.Dot(p.Vector)))
	return s2.Point{Vector: t.Normalize()}
}

// sortFaces orders faces north to south by center, then by longitude.
func sortFaces(faces []*Face) {
	sort.SliceStable(faces, func(i, j int) bool {
		zi, zj := faces[i].Center.Z, faces[j].Center.Z
		if math.Abs(zi-zj) > orderTolerance {
			return zi > zj
		}
		return longitude(faces[i].Center) < longitude(faces[j].Center)
	})
}

func longitude(p s2.Point) float64 {
	if math.Abs(p.X) < orderTolerance && math.Abs(p.Y) < orderTolerance {
		return 0
	}
	return math.Atan2(p.Y, p.X)
}

// linkNeighbors fills Face.Neighbors from directed edges and returns the
// undirected edge count. Each directed edge must occur once and its reverse
// must belong to another face.
func linkNeighbors(faces []*Face) (int, error) {
	directed := make(map[directedEdge]edgeRef)
	for _, f := range faces {
		n := f.Sides()
		for k := 0; k < n; k++ {
			e := directedEdge{from: f.VertexIDs[k], to: f.VertexIDs[(k+1)%n]}
			if prev, dup := directed[e]; dup {
				return 0, fmt.Errorf("%w: edge %d->%d used by faces %d and %d", model.ErrUnsupportedConfiguration, e.from, e.to, prev.face, f.Index)
			}
			directed[e] = edgeRef{face: f.Index, edge: k}
		}
	}
	for e, ref := range directed {
		rev, ok := directed[directedEdge{from: e.to, to: e.from}]
		if !ok {
			return 0, fmt.Errorf("%w: edge %d->%d of face %d has no opposite", model.ErrUnsupportedConfiguration, e.from, e.to, ref.face)
		}
		faces[ref.face].Neighbors[ref.edge] = rev.face
	}
	return len(directed) / 2, nil
}
