// Package sphere maps latitude/longitude on the unit sphere to and from
// unit vectors.
package sphere

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// poleEpsilon is the horizontal extent below which a vector is treated as
// lying on the polar axis.
const poleEpsilon = 1e-15

// ToUnitVector returns (cos φ cos λ, cos φ sin λ, sin φ).
func ToUnitVector(lat, lon s1.Angle) s2.Point {
	cosLat := math.Cos(lat.Radians())
	return s2.Point{Vector: r3.Vector{
		X: cosLat * math.Cos(lon.Radians()),
		Y: cosLat * math.Sin(lon.Radians()),
		Z: math.Sin(lat.Radians()),
	}}
}

// FromUnitVector returns the latitude and longitude of v. Longitude is 0 on
// the poles and for the zero vector.
func FromUnitVector(v s2.Point) (lat, lon s1.Angle) {
	lat = s1.Angle(math.Asin(Clamp(v.Z, -1, 1)))
	if math.Abs(v.X) < poleEpsilon && math.Abs(v.Y) < poleEpsilon {
		return lat, 0
	}
	return lat, s1.Angle(math.Atan2(v.Y, v.X))
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// Angle returns the angle between u and v, computed as atan2(|u×v|, u·v)
// which stays accurate for nearly parallel vectors.
func Angle(u, v r3.Vector) s1.Angle {
	return s1.Angle(math.Atan2(u.Cross(v).Norm(), u.Dot(v)))
}

// IsUnit reports whether v is finite and has length 1 within tol.
func IsUnit(v r3.Vector, tol float64) bool {
	n := v.Norm()
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return false
	}
	return math.Abs(n-1) <= tol
}
