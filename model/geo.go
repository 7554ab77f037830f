package model

import (
	"fmt"
	"math"
)

// GeoPosition is a geographic position on the reference ellipsoid.
// Both fields are in degrees: Lat in [-90, 90], Lon in [-180, 180].
type GeoPosition struct {
	Lat float64
	Lon float64
}

// NewGeoPosition returns a validated position.
func NewGeoPosition(lat, lon float64) (GeoPosition, error) {
	p := GeoPosition{Lat: lat, Lon: lon}
	if err := p.Validate(); err != nil {
		return GeoPosition{}, err
	}
	return p, nil
}

// Validate reports ErrInvalidCoordinate when either component is NaN or out
// of range.
func (p GeoPosition) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidCoordinate, p.Lat)
	}
	if math.IsNaN(p.Lon) || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalidCoordinate, p.Lon)
	}
	return nil
}

// ApproxEqual compares two positions component-wise within tol degrees.
// Longitudes are compared modulo 360 and ignored at the poles, where every
// longitude names the same point.
func (p GeoPosition) ApproxEqual(o GeoPosition, tol float64) bool {
	if math.Abs(p.Lat-o.Lat) > tol {
		return false
	}
	if 90-math.Abs(p.Lat) <= tol {
		return true
	}
	return math.Abs(NormalizeLongitude(p.Lon-o.Lon)) <= tol
}

func (p GeoPosition) String() string {
	return fmt.Sprintf("(%.9f, %.9f)", p.Lat, p.Lon)
}

// NormalizeLongitude wraps lon (degrees) into (-180, 180].
func NormalizeLongitude(lon float64) float64 {
	l := math.Mod(lon, 360)
	if l > 180 {
		l -= 360
	} else if l <= -180 {
		l += 360
	}
	return l
}
