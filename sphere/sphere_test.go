package sphere

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestToUnitVectorAxes(t *testing.T) {
	cases := []struct {
		lat, lon float64
		want     r3.Vector
	}{
		{0, 0, r3.Vector{X: 1}},
		{0, 90, r3.Vector{Y: 1}},
		{90, 0, r3.Vector{Z: 1}},
		{-90, 45, r3.Vector{Z: -1}},
		{0, 180, r3.Vector{X: -1}},
	}
	for _, c := range cases {
		got := ToUnitVector(s1.Angle(c.lat)*s1.Degree, s1.Angle(c.lon)*s1.Degree)
		if got.Sub(c.want).Norm() > 1e-15 {
			t.Errorf("ToUnitVector(%v, %v) = %v, want %v", c.lat, c.lon, got, c.want)
		}
		if !IsUnit(got.Vector, 1e-12) {
			t.Errorf("ToUnitVector(%v, %v) not unit: |v| = %v", c.lat, c.lon, got.Norm())
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for lat := -89.5; lat <= 89.5; lat += 8.5 {
		for lon := -179.5; lon <= 180; lon += 11 {
			v := ToUnitVector(s1.Angle(lat)*s1.Degree, s1.Angle(lon)*s1.Degree)
			gotLat, gotLon := FromUnitVector(v)
			if !scalar.EqualWithinAbs(gotLat.Degrees(), lat, 1e-12) || !scalar.EqualWithinAbs(gotLon.Degrees(), lon, 1e-12) {
				t.Fatalf("round trip (%v, %v) -> (%v, %v)", lat, lon, gotLat.Degrees(), gotLon.Degrees())
			}
		}
	}
}

func TestFromUnitVectorPolesAndClamp(t *testing.T) {
	lat, lon := FromUnitVector(ToUnitVector(s1.Angle(math.Pi/2), 2))
	if !scalar.EqualWithinAbs(lat.Degrees(), 90, 1e-12) || lon != 0 {
		t.Fatalf("north pole = (%v, %v), want (90, 0)", lat.Degrees(), lon.Degrees())
	}

	// Slightly over-long z must not produce NaN.
	lat, _ = FromUnitVector(s2Point(0, 0, 1+1e-15))
	if math.IsNaN(lat.Radians()) || !scalar.EqualWithinAbs(lat.Degrees(), 90, 1e-12) {
		t.Fatalf("clamped latitude = %v", lat.Degrees())
	}

	lat, lon = FromUnitVector(s2Point(0, 0, 0))
	if lat != 0 || lon != 0 {
		t.Fatalf("zero vector = (%v, %v), want (0, 0)", lat, lon)
	}
}

func TestAngle(t *testing.T) {
	x := r3.Vector{X: 1}
	if got := Angle(x, r3.Vector{Y: 1}); !scalar.EqualWithinAbs(got.Radians(), math.Pi/2, 1e-15) {
		t.Errorf("Angle(x, y) = %v", got)
	}
	if got := Angle(x, r3.Vector{X: -1}); !scalar.EqualWithinAbs(got.Radians(), math.Pi, 1e-15) {
		t.Errorf("Angle(x, -x) = %v", got)
	}
	tiny := r3.Vector{X: 1, Y: 1e-9}.Normalize()
	if got := Angle(x, tiny); !scalar.EqualWithinRel(got.Radians(), 1e-9, 1e-6) {
		t.Errorf("Angle for nearly parallel vectors = %v, want 1e-9", got.Radians())
	}
}

func TestIsUnit(t *testing.T) {
	if IsUnit(r3.Vector{X: 2}, 1e-9) {
		t.Fatal("length-2 vector reported as unit")
	}
	if IsUnit(r3.Vector{X: math.NaN()}, 1e-9) {
		t.Fatal("NaN vector reported as unit")
	}
	if !IsUnit(r3.Vector{X: 1, Y: 1e-10}, 1e-9) {
		t.Fatal("near-unit vector rejected")
	}
}

func s2Point(x, y, z float64) s2.Point { return s2.Point{Vector: r3.Vector{X: x, Y: y, Z: z}} }
