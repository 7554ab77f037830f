package authalic

import (
	"fmt"
	"math"
	"strings"

	"github.com/signalsfoundry/polynet/model"
)

// Ellipsoid is a reference ellipsoid of revolution.
type Ellipsoid struct {
	Name       string
	SemiMajor  float64 // metres
	Flattening float64
}

var (
	WGS84  = Ellipsoid{Name: "wgs84", SemiMajor: 6378137.0, Flattening: 1 / 298.257223563}
	GRS80  = Ellipsoid{Name: "grs80", SemiMajor: 6378137.0, Flattening: 1 / 298.257222101}
	Sphere = Ellipsoid{Name: "sphere", SemiMajor: 6371007.1809184747, Flattening: 0}
)

// EllipsoidByName looks up a preset, ignoring case.
func EllipsoidByName(name string) (Ellipsoid, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case WGS84.Name:
		return WGS84, nil
	case GRS80.Name:
		return GRS80, nil
	case Sphere.Name:
		return Sphere, nil
	default:
		return Ellipsoid{}, fmt.Errorf("%w: unknown ellipsoid %q", model.ErrUnsupportedConfiguration, name)
	}
}

// SemiMinor returns b = a(1 - f).
func (e Ellipsoid) SemiMinor() float64 {
	return e.SemiMajor * (1 - e.Flattening)
}

// Eccentricity returns the first eccentricity.
func (e Ellipsoid) Eccentricity() float64 {
	return math.Sqrt(e.Flattening * (2 - e.Flattening))
}

// AuthalicRadius returns the radius of the sphere with the same surface
// area as the ellipsoid. Planar net coordinates are multiplied by this to
// obtain metres.
func (e Ellipsoid) AuthalicRadius() float64 {
	ecc := e.Eccentricity()
	if ecc == 0 {
		return e.SemiMajor
	}
	q := 1 + (1-ecc*ecc)/ecc*math.Atanh(ecc)
	return e.SemiMajor * math.Sqrt(q/2)
}

// Converter builds a latitude converter for the ellipsoid.
func (e Ellipsoid) Converter() (*Converter, error) {
	return NewConverter(e.Flattening)
}
