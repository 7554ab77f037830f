package polyhedron

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Face is one face of a Polyhedron together with the precomputed frame used
// by face-local projections. Vertices are counter-clockwise seen from
// outside the solid, starting with the lowest vertex id.
type Face struct {
	Index     int
	VertexIDs []int
	Vertices  []s2.Point
	Center    s2.Point
	// U points from the center toward vertex 0 in the tangent plane;
	// V = Center × U completes the right-handed frame.
	U, V s2.Point
	// Radius is the angular distance from the center to every vertex.
	Radius s1.Angle
	// EdgeNormals[k] is the unit normal Vk × Vk+1 of edge k. Interior
	// points have a non-negative dot product with every normal.
	EdgeNormals []r3.Vector
	// Neighbors[k] is the face across edge k.
	Neighbors []int
	// PlanarRadius is the circumradius of the face's planar polygon.
	PlanarRadius float64

	cosRadius float64
	planar    []r2.Point
}

// Sides returns the number of vertices.
func (f *Face) Sides() int { return len(f.VertexIDs) }

// Edge returns the endpoints of edge k, which runs from vertex k to k+1.
func (f *Face) Edge(k int) (a, b s2.Point) {
	n := len(f.Vertices)
	k = ((k % n) + n) % n
	return f.Vertices[k], f.Vertices[(k+1)%n]
}

// EdgeTo returns the index of the edge shared with neighbor, or -1.
func (f *Face) EdgeTo(neighbor int) int {
	for k, nb := range f.Neighbors {
		if nb == neighbor {
			return k
		}
	}
	return -1
}

// PlanarVertex returns vertex k of the face-local regular polygon, which is
// centred on the origin with vertex 0 on the +x axis.
func (f *Face) PlanarVertex(k int) r2.Point {
	n := len(f.planar)
	return f.planar[((k%n)+n)%n]
}

// PlanarVertices returns a copy of the face-local polygon.
func (f *Face) PlanarVertices() []r2.Point {
	out := make([]r2.Point, len(f.planar))
	copy(out, f.planar)
	return out
}

// Contains reports whether p lies in the face, boundary included.
func (f *Face) Contains(p s2.Point) bool {
	if p.Dot(f.Center.Vector) < f.cosRadius-containmentTolerance {
		return false
	}
	for _, n := range f.EdgeNormals {
		if p.Dot(n) < -containmentTolerance {
			return false
		}
	}
	return true
}

// Azimuth returns the direction of p around the face center, measured from
// U toward V in [0, 2π).
func (f *Face) Azimuth(p s2.Point) s1.Angle {
	a := math.Atan2(p.Dot(f.V.Vector), p.Dot(f.U.Vector))
	if a < 0 {
		a += 2 * math.Pi
	}
	return s1.Angle(a)
}

// Sector returns k such that p lies in the sub-triangle (center, Vk, Vk+1).
func (f *Face) Sector(p s2.Point) int {
	return sectorOf(f.Azimuth(p).Radians(), len(f.Vertices))
}

// PlanarSector is the planar counterpart of Sector for a face-local point.
func (f *Face) PlanarSector(q r2.Point) int {
	a := math.Atan2(q.Y, q.X)
	if a < 0 {
		a += 2 * math.Pi
	}
	return sectorOf(a, len(f.planar))
}

// Area returns the spherical area of the face on the unit sphere.
func (f *Face) Area() float64 {
	var area float64
	for k := range f.Vertices {
		a, b := f.Edge(k)
		area += s2.PointArea(f.Center, a, b)
	}
	return area
}

// PlanarArea returns the area of the face-local polygon.
func (f *Face) PlanarArea() float64 {
	n := float64(len(f.planar))
	return n / 2 * f.PlanarRadius * f.PlanarRadius * math.Sin(2*math.Pi/n)
}

func sectorOf(azimuth float64, n int) int {
	k := int(math.Floor(azimuth / (2 * math.Pi / float64(n))))
	if k >= n {
		k = n - 1
	}
	if k < 0 {
		k = 0
	}
	return k
}

// planarRadius gives every face of an f-faced solid planar area 4π/f.
func planarRadius(faces, sides int) float64 {
	n := float64(sides)
	return math.Sqrt(8 * math.Pi / (float64(faces) * n * math.Sin(2*math.Pi/n)))
}

func regularPolygon(sides int, radius float64) []r2.Point {
	pts := make([]r2.Point, sides)
	for k := range pts {
		a := 2 * math.Pi * float64(k) / float64(sides)
		pts[k] = r2.Point{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	return pts
}
