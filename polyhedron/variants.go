package polyhedron

import (
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"

	"github.com/signalsfoundry/polynet/model"
)

// Variant names a regular polyhedron.
type Variant string

const (
	Tetrahedron  Variant = "tetrahedron"
	Cube         Variant = "cube"
	Octahedron   Variant = "octahedron"
	Dodecahedron Variant = "dodecahedron"
	Icosahedron  Variant = "icosahedron"
)

// Variants lists the supported polyhedra in order of increasing face count
// where that is unambiguous.
func Variants() []Variant {
	return []Variant{Tetrahedron, Cube, Octahedron, Dodecahedron, Icosahedron}
}

// ParseVariant accepts a variant name in any case.
func ParseVariant(name string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Variants() {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: unknown polyhedron %q", model.ErrUnsupportedConfiguration, name)
}

// vertexSet returns the unit vertices of a variant, ids given by position.
func vertexSet(v Variant) ([]s2.Point, error) {
	switch v {
	case Tetrahedron:
		return unitPoints(
			r3.Vector{X: 1, Y: 1, Z: 1},
			r3.Vector{X: 1, Y: -1, Z: -1},
			r3.Vector{X: -1, Y: 1, Z: -1},
			r3.Vector{X: -1, Y: -1, Z: 1},
		), nil
	case Cube:
		var vs []r3.Vector
		for _, z := range []float64{1, -1} {
			for _, y := range []float64{1, -1} {
				for _, x := range []float64{1, -1} {
					vs = append(vs, r3.Vector{X: x, Y: y, Z: z})
				}
			}
		}
		return unitPoints(vs...), nil
	case Octahedron:
		return unitPoints(
			r3.Vector{Z: 1},
			r3.Vector{X: 1},
			r3.Vector{Y: 1},
			r3.Vector{X: -1},
			r3.Vector{Y: -1},
			r3.Vector{Z: -1},
		), nil
	case Icosahedron:
		return icosahedronVertices(), nil
	case Dodecahedron:
		// Dual of the icosahedron: one vertex per icosahedron face center.
		ico, err := build(Icosahedron, icosahedronVertices())
		if err != nil {
			return nil, err
		}
		centers := make([]s2.Point, 0, len(ico.faces))
		for _, f := range ico.faces {
			centers = append(centers, f.Center)
		}
		return centers, nil
	default:
		return nil, fmt.Errorf("%w: unknown polyhedron %q", model.ErrUnsupportedConfiguration, string(v))
	}
}

// icosahedronVertices places a vertex on each pole and two rings of five at
// z = ±1/√5, the lower ring rotated by 36°.
func icosahedronVertices() []s2.Point {
	z := 1 / math.Sqrt(5)
	r := 2 / math.Sqrt(5)
	pts := make([]s2.Point, 0, 12)
	pts = append(pts, s2.Point{Vector: r3.Vector{Z: 1}})
	for i := 0; i < 5; i++ {
		a := float64(i) * 2 * math.Pi / 5
		pts = append(pts, s2.Point{Vector: r3.Vector{X: r * math.Cos(a), Y: r * math.Sin(a), Z: z}})
	}
	for i := 0; i < 5; i++ {
		a := float64(i)*2*math.Pi/5 + math.Pi/5
		pts = append(pts, s2.Point{Vector: r3.Vector{X: r * math.Cos(a), Y: r * math.Sin(a), Z: -z}})
	}
	pts = append(pts, s2.Point{Vector: r3.Vector{Z: -1}})
	return pts
}

func unitPoints(vs ...r3.Vector) []s2.Point {
	pts := make([]s2.Point, len(vs))
	for i, v := range vs {
		pts[i] = s2.Point{Vector: v.Normalize()}
	}
	return pts
}
