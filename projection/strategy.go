// Package projection maps sphere points to planar net coordinates and back.
//
// A Strategy handles one face in its local frame; a Projector chains the
// authalic latitude conversion, face selection, the strategy and the net
// placement into the full geodetic <-> planar pipeline.
package projection

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"

	"github.com/signalsfoundry/polynet/model"
	"github.com/signalsfoundry/polynet/polyhedron"
)

// Variant names a face projection.
type Variant string

const (
	// VGC is the vertex-oriented great circle projection. It is equal-area.
	VGC Variant = "vgc"
	// Gnomonic is the central projection onto the face plane.
	Gnomonic Variant = "gnomonic"
)

// Variants lists the supported strategies, default first.
func Variants() []Variant { return []Variant{VGC, Gnomonic} }

// ParseVariant accepts a strategy name in any case.
func ParseVariant(name string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Variants() {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: unknown projection %q", model.ErrUnsupportedConfiguration, name)
}

// Strategy projects between a face and its face-local plane. Face-local
// coordinates put the face center at the origin and vertex k at
// f.PlanarVertex(k). Implementations are stateless.
type Strategy interface {
	Variant() Variant
	FaceForward(f *polyhedron.Face, p s2.Point) (r2.Point, error)
	FaceInverse(f *polyhedron.Face, q r2.Point) (s2.Point, error)
}

// NewStrategy returns the strategy for v.
func NewStrategy(v Variant) (Strategy, error) {
	switch v {
	case VGC:
		return vgc{}, nil
	case Gnomonic:
		return gnomonic{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown projection %q", model.ErrUnsupportedConfiguration, string(v))
	}
}
