// Package authalic converts between geodetic and authalic latitude.
//
// The conversion is a sine series in latitude whose coefficients are
// polynomials in the ellipsoid's third flattening n = f/(2-f), taken from
// Karney, "On auxiliary latitudes" (2023), eqs. A19 and A20. The series is
// truncated at order 6 and evaluated with Clenshaw summation.
package authalic

import (
	"fmt"
	"math"

	"github.com/golang/geo/s1"

	"github.com/signalsfoundry/polynet/model"
)

// Order is the truncation order of the latitude series.
const Order = 6

// latitudeTolerance admits latitudes that overshoot ±90° by rounding only.
const latitudeTolerance = 1e-12

// Direction selects which way a coefficient set converts.
type Direction int

const (
	// GeodeticToAuthalic converts geodetic latitude φ to authalic latitude ξ.
	GeodeticToAuthalic Direction = iota
	// AuthalicToGeodetic converts authalic latitude ξ back to geodetic φ.
	AuthalicToGeodetic
)

func (d Direction) String() string {
	switch d {
	case GeodeticToAuthalic:
		return "geodetic-to-authalic"
	case AuthalicToGeodetic:
		return "authalic-to-geodetic"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Coefficients holds c_1..c_Order of the series Σ c_k sin(2kx).
type Coefficients [Order]float64

// Polynomial rows, one per series order k, each in ascending powers of n
// starting at n^k. Row k has Order-k+1 entries.
var (
	// Cξφ, Karney (2023) A19.
	xiFromPhi = [...]float64{
		-4.0 / 3, -4.0 / 45, 88.0 / 315, 538.0 / 4725, 20824.0 / 467775, -44732.0 / 2837835,
		34.0 / 45, 8.0 / 105, -2482.0 / 14175, -37192.0 / 467775, -12467764.0 / 212837625,
		-1532.0 / 2835, -898.0 / 14175, 54968.0 / 467775, 100320856.0 / 1915538625,
		6007.0 / 14175, 24496.0 / 467775, -5884124.0 / 70945875,
		-23356.0 / 66825, -839792.0 / 19348875,
		570284222.0 / 1915538625,
	}
	// Cφξ, Karney (2023) A20.
	phiFromXi = [...]float64{
		4.0 / 3, 4.0 / 45, -16.0 / 35, -2582.0 / 14175, 60136.0 / 467775, 28112932.0 / 212837625,
		46.0 / 45, 152.0 / 945, -11966.0 / 14175, -21016.0 / 51975, 251310128.0 / 638512875,
		3044.0 / 2835, 3802.0 / 14175, -94388.0 / 66825, -8797648.0 / 10945935,
		6059.0 / 4725, 41072.0 / 93555, -1472637812.0 / 638512875,
		768272.0 / 467775, -455935736.0 / 638512875,
		4210684958.0 / 1915538625,
	}
)

// ThirdFlattening returns n = f / (2 - f).
func ThirdFlattening(flattening float64) float64 {
	return flattening / (2 - flattening)
}

// FourierCoefficients evaluates the series coefficients for an ellipsoid of
// the given flattening. Flattening must lie in [0, 1).
func FourierCoefficients(flattening float64, dir Direction) (Coefficients, error) {
	if math.IsNaN(flattening) || flattening < 0 || flattening >= 1 {
		return Coefficients{}, fmt.Errorf("%w: flattening %v outside [0, 1)", model.ErrUnsupportedConfiguration, flattening)
	}

	var table []float64
	switch dir {
	case GeodeticToAuthalic:
		table = xiFromPhi[:]
	case AuthalicToGeodetic:
		table = phiFromXi[:]
	default:
		return Coefficients{}, fmt.Errorf("%w: %v", model.ErrUnsupportedConfiguration, dir)
	}

	n := ThirdFlattening(flattening)
	var c Coefficients
	nk := 1.0
	offset := 0
	for k := 1; k <= Order; k++ {
		nk *= n
		row := table[offset : offset+Order-k+1]
		offset += len(row)

		// Horner, highest power first.
		var poly float64
		for j := len(row) - 1; j >= 0; j-- {
			poly = poly*n + row[j]
		}
		c[k-1] = nk * poly
	}
	return c, nil
}

// Clenshaw evaluates Σ_{k=1..Order} c_k sin(2kx) with Clenshaw's recurrence.
func Clenshaw(c Coefficients, x s1.Angle) float64 {
	theta := 2 * x.Radians()
	twoCos := 2 * math.Cos(theta)
	var b1, b2 float64
	for k := Order - 1; k >= 0; k-- {
		b1, b2 = c[k]+twoCos*b1-b2, b1
	}
	return b1 * math.Sin(theta)
}

// Converter holds both coefficient sets for one ellipsoid. It is immutable
// and safe for concurrent use.
type Converter struct {
	flattening float64
	toAuthalic Coefficients
	toGeodetic Coefficients
}

// NewConverter precomputes the forward and inverse coefficients.
func NewConverter(flattening float64) (*Converter, error) {
	fwd, err := FourierCoefficients(flattening, GeodeticToAuthalic)
	if err != nil {
		return nil, err
	}
	inv, err := FourierCoefficients(flattening, AuthalicToGeodetic)
	if err != nil {
		return nil, err
	}
	return &Converter{flattening: flattening, toAuthalic: fwd, toGeodetic: inv}, nil
}

// Flattening returns the ellipsoid flattening the converter was built for.
func (c *Converter) Flattening() float64 { return c.flattening }

// Coefficients returns the coefficient set for dir.
func (c *Converter) Coefficients(dir Direction) Coefficients {
	if dir == AuthalicToGeodetic {
		return c.toGeodetic
	}
	return c.toAuthalic
}

// ToAuthalic converts geodetic latitude to authalic latitude.
func (c *Converter) ToAuthalic(lat s1.Angle) (s1.Angle, error) {
	return evaluate(c.toAuthalic, lat)
}

// ToGeodetic converts authalic latitude to geodetic latitude.
func (c *Converter) ToGeodetic(xi s1.Angle) (s1.Angle, error) {
	return evaluate(c.toGeodetic, xi)
}

// GeodeticToAuthalicLatitude is the one-shot form of Converter.ToAuthalic.
func GeodeticToAuthalicLatitude(lat s1.Angle, flattening float64) (s1.Angle, error) {
	c, err := FourierCoefficients(flattening, GeodeticToAuthalic)
	if err != nil {
		return 0, err
	}
	return evaluate(c, lat)
}

// AuthalicToGeodeticLatitude is the one-shot form of Converter.ToGeodetic.
func AuthalicToGeodeticLatitude(xi s1.Angle, flattening float64) (s1.Angle, error) {
	c, err := FourierCoefficients(flattening, AuthalicToGeodetic)
	if err != nil {
		return 0, err
	}
	return evaluate(c, xi)
}

func evaluate(c Coefficients, lat s1.Angle) (s1.Angle, error) {
	r := lat.Radians()
	if math.IsNaN(r) || math.Abs(r) > math.Pi/2+latitudeTolerance {
		return 0, fmt.Errorf("%w: latitude %v° outside [-90, 90]", model.ErrInvalidCoordinate, lat.Degrees())
	}
	r = clampLatitude(r)
	return s1.Angle(clampLatitude(r + Clenshaw(c, s1.Angle(r)))), nil
}

func clampLatitude(r float64) float64 {
	return math.Max(-math.Pi/2, math.Min(math.Pi/2, r))
}
