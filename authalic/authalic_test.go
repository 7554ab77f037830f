package authalic

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/s1"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/signalsfoundry/polynet/model"
)

func TestFourierCoefficientsLeadingTerms(t *testing.T) {
	f := WGS84.Flattening
	n := ThirdFlattening(f)

	fwd, err := FourierCoefficients(f, GeodeticToAuthalic)
	if err != nil {
		t.Fatalf("FourierCoefficients: %v", err)
	}
	inv, err := FourierCoefficients(f, AuthalicToGeodetic)
	if err != nil {
		t.Fatalf("FourierCoefficients: %v", err)
	}

	// c1 through n², c2 to leading order.
	wantFwd := -4.0/3*n - 4.0/45*n*n
	wantInv := 4.0/3*n + 4.0/45*n*n
	if !scalar.EqualWithinRel(fwd[0], wantFwd, 1e-5) {
		t.Errorf("fwd[0] = %v, want ≈ %v", fwd[0], wantFwd)
	}
	if !scalar.EqualWithinRel(inv[0], wantInv, 1e-5) {
		t.Errorf("inv[0] = %v, want ≈ %v", inv[0], wantInv)
	}
	if !scalar.EqualWithinRel(fwd[1], 34.0/45*n*n, 1e-3) {
		t.Errorf("fwd[1] = %v, want ≈ %v", fwd[1], 34.0/45*n*n)
	}
	if !scalar.EqualWithinRel(inv[1], 46.0/45*n*n, 1e-3) {
		t.Errorf("inv[1] = %v, want ≈ %v", inv[1], 46.0/45*n*n)
	}
}

func TestFourierCoefficientsSphereIsZero(t *testing.T) {
	c, err := FourierCoefficients(0, GeodeticToAuthalic)
	if err != nil {
		t.Fatalf("FourierCoefficients: %v", err)
	}
	for k, v := range c {
		if v != 0 {
			t.Fatalf("c[%d] = %v, want 0 for a sphere", k, v)
		}
	}
}

func TestFourierCoefficientsRejectsBadFlattening(t *testing.T) {
	for _, f := range []float64{-0.1, 1, 2, math.NaN()} {
		if _, err := FourierCoefficients(f, GeodeticToAuthalic); !errors.Is(err, model.ErrUnsupportedConfiguration) {
			t.Errorf("FourierCoefficients(%v) err = %v, want ErrUnsupportedConfiguration", f, err)
		}
	}
	if _, err := NewConverter(1.5); !errors.Is(err, model.ErrUnsupportedConfiguration) {
		t.Errorf("NewConverter(1.5) err = %v, want ErrUnsupportedConfiguration", err)
	}
}

func TestClenshawMatchesDirectSum(t *testing.T) {
	c := Coefficients{0.3, -0.2, 0.1, 0.05, -0.025, 0.0125}
	for deg := -90.0; deg <= 90; deg += 7.5 {
		x := s1.Angle(deg) * s1.Degree
		var direct float64
		for k := 1; k <= Order; k++ {
			direct += c[k-1] * math.Sin(2*float64(k)*x.Radians())
		}
		if got := Clenshaw(c, x); !scalar.EqualWithinAbs(got, direct, 1e-14) {
			t.Fatalf("Clenshaw(%v°) = %v, direct = %v", deg, got, direct)
		}
	}
}

func TestGeodeticToAuthalicKnownValue(t *testing.T) {
	conv, err := WGS84.Converter()
	if err != nil {
		t.Fatalf("Converter: %v", err)
	}

	xi, err := conv.ToAuthalic(45 * s1.Degree)
	if err != nil {
		t.Fatalf("ToAuthalic: %v", err)
	}
	if !scalar.EqualWithinAbs(xi.Degrees(), 44.871704, 1e-5) {
		t.Fatalf("authalic(45°) = %v°, want ≈ 44.871704°", xi.Degrees())
	}

	for _, deg := range []float64{-90, 0, 90} {
		xi, err := conv.ToAuthalic(s1.Angle(deg) * s1.Degree)
		if err != nil {
			t.Fatalf("ToAuthalic(%v): %v", deg, err)
		}
		if !scalar.EqualWithinAbs(xi.Degrees(), deg, 1e-12) {
			t.Errorf("authalic(%v°) = %v°, want fixed point", deg, xi.Degrees())
		}
	}
}

func TestAuthalicRoundTrip(t *testing.T) {
	for _, e := range []Ellipsoid{WGS84, GRS80, Sphere} {
		conv, err := e.Converter()
		if err != nil {
			t.Fatalf("%s: Converter: %v", e.Name, err)
		}
		for deg := -90.0; deg <= 90; deg += 0.25 {
			lat := s1.Angle(deg) * s1.Degree
			xi, err := conv.ToAuthalic(lat)
			if err != nil {
				t.Fatalf("%s: ToAuthalic(%v): %v", e.Name, deg, err)
			}
			back, err := conv.ToGeodetic(xi)
			if err != nil {
				t.Fatalf("%s: ToGeodetic(%v): %v", e.Name, xi, err)
			}
			if !scalar.EqualWithinAbs(back.Degrees(), deg, 1e-10) {
				t.Fatalf("%s: round trip %v° -> %v° -> %v°", e.Name, deg, xi.Degrees(), back.Degrees())
			}
		}
	}
}

func TestOneShotFunctionsMatchConverter(t *testing.T) {
	conv, err := NewConverter(GRS80.Flattening)
	if err != nil {
		t.Fatalf("NewConverter: %v", err)
	}
	lat := 33.3 * s1.Degree
	want, _ := conv.ToAuthalic(lat)
	got, err := GeodeticToAuthalicLatitude(lat, GRS80.Flattening)
	if err != nil {
		t.Fatalf("GeodeticToAuthalicLatitude: %v", err)
	}
	if got != want {
		t.Fatalf("one-shot = %v, converter = %v", got, want)
	}
	back, err := AuthalicToGeodeticLatitude(got, GRS80.Flattening)
	if err != nil {
		t.Fatalf("AuthalicToGeodeticLatitude: %v", err)
	}
	if !scalar.EqualWithinAbs(back.Degrees(), 33.3, 1e-10) {
		t.Fatalf("one-shot round trip = %v°", back.Degrees())
	}
}

func TestInvalidLatitude(t *testing.T) {
	conv, err := NewConverter(WGS84.Flattening)
	if err != nil {
		t.Fatalf("NewConverter: %v", err)
	}
	for _, deg := range []float64{90.5, -120, math.NaN()} {
		if _, err := conv.ToAuthalic(s1.Angle(deg) * s1.Degree); !errors.Is(err, model.ErrInvalidCoordinate) {
			t.Errorf("ToAuthalic(%v°) err = %v, want ErrInvalidCoordinate", deg, err)
		}
		if _, err := conv.ToGeodetic(s1.Angle(deg) * s1.Degree); !errors.Is(err, model.ErrInvalidCoordinate) {
			t.Errorf("ToGeodetic(%v°) err = %v, want ErrInvalidCoordinate", deg, err)
		}
	}
}

func TestEllipsoidPresets(t *testing.T) {
	if r := WGS84.AuthalicRadius(); !scalar.EqualWithinAbs(r, 6371007.1809, 1e-2) {
		t.Errorf("WGS84 authalic radius = %v, want ≈ 6371007.1809", r)
	}
	if r := Sphere.AuthalicRadius(); r != Sphere.SemiMajor {
		t.Errorf("sphere authalic radius = %v, want %v", r, Sphere.SemiMajor)
	}
	if b := WGS84.SemiMinor(); !scalar.EqualWithinAbs(b, 6356752.314245, 1e-3) {
		t.Errorf("WGS84 semi-minor = %v", b)
	}

	e, err := EllipsoidByName(" WGS84 ")
	if err != nil || e != WGS84 {
		t.Fatalf("EllipsoidByName(WGS84) = %+v, %v", e, err)
	}
	if _, err := EllipsoidByName("bessel"); !errors.Is(err, model.ErrUnsupportedConfiguration) {
		t.Fatalf("EllipsoidByName(bessel) err = %v, want ErrUnsupportedConfiguration", err)
	}
}
