package projection

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"

	"github.com/signalsfoundry/polynet/authalic"
	"github.com/signalsfoundry/polynet/layout"
	"github.com/signalsfoundry/polynet/model"
	"github.com/signalsfoundry/polynet/polyhedron"
	"github.com/signalsfoundry/polynet/sphere"
)

// Projector runs the full pipeline between geodetic positions and net
// coordinates. It holds only immutable parts and is safe for concurrent
// use.
type Projector struct {
	conv     *authalic.Converter
	poly     *polyhedron.Polyhedron
	net      *layout.Net
	strategy Strategy
}

// NewProjector wires the pipeline. The net must be an unfolding of poly.
func NewProjector(conv *authalic.Converter, poly *polyhedron.Polyhedron, net *layout.Net, strategy Strategy) (*Projector, error) {
	switch {
	case conv == nil:
		return nil, fmt.Errorf("%w: nil converter", model.ErrUnsupportedConfiguration)
	case poly == nil:
		return nil, fmt.Errorf("%w: nil polyhedron", model.ErrUnsupportedConfiguration)
	case net == nil:
		return nil, fmt.Errorf("%w: nil net", model.ErrUnsupportedConfiguration)
	case strategy == nil:
		return nil, fmt.Errorf("%w: nil strategy", model.ErrUnsupportedConfiguration)
	case net.Polyhedron() != poly:
		return nil, fmt.Errorf("%w: net unfolds a different polyhedron", model.ErrUnsupportedConfiguration)
	}
	return &Projector{conv: conv, poly: poly, net: net, strategy: strategy}, nil
}

func (p *Projector) Converter() *authalic.Converter     { return p.conv }
func (p *Projector) Polyhedron() *polyhedron.Polyhedron { return p.poly }
func (p *Projector) Net() *layout.Net                   { return p.net }
func (p *Projector) Strategy() Strategy                 { return p.strategy }

// ForwardPoint projects one geodetic position onto the net.
func (p *Projector) ForwardPoint(pos model.GeoPosition) (model.PlanarPoint, error) {
	if err := pos.Validate(); err != nil {
		return model.PlanarPoint{Face: model.NoFace}, err
	}
	xi, err := p.conv.ToAuthalic(s1.Angle(pos.Lat) * s1.Degree)
	if err != nil {
		return model.PlanarPoint{Face: model.NoFace}, err
	}
	v := sphere.ToUnitVector(xi, s1.Angle(pos.Lon)*s1.Degree)

	face, err := p.poly.FaceContaining(v)
	if err != nil {
		return model.PlanarPoint{Face: model.NoFace}, fmt.Errorf("locate %v: %w", pos, err)
	}
	f := p.poly.Faces()[face]
	local, err := p.strategy.FaceForward(f, v)
	if err != nil {
		return model.PlanarPoint{Face: model.NoFace}, fmt.Errorf("project %v on face %d: %w", pos, face, err)
	}
	pl, err := p.net.PlacementFor(face)
	if err != nil {
		return model.PlanarPoint{Face: model.NoFace}, err
	}
	g := pl.Apply(local)
	return model.PlanarPoint{X: g.X, Y: g.Y, Face: face}, nil
}

// InversePoint maps a net point back to a geodetic position. pt.Face is
// used when pt lies on that face's outline; otherwise the face is looked up
// from the coordinates.
func (p *Projector) InversePoint(pt model.PlanarPoint) (model.GeoPosition, error) {
	if err := pt.Validate(); err != nil {
		return model.GeoPosition{}, err
	}
	q := r2.Point{X: pt.X, Y: pt.Y}

	face := pt.Face
	if !p.net.Contains(face, q) {
		var ok bool
		if face, ok = p.net.FaceAt(q); !ok {
			return model.GeoPosition{}, fmt.Errorf("%w: (%v, %v) is outside the net", model.ErrNoFaceFound, pt.X, pt.Y)
		}
	}

	pl, err := p.net.PlacementFor(face)
	if err != nil {
		return model.GeoPosition{}, err
	}
	f := p.poly.Faces()[face]
	v, err := p.strategy.FaceInverse(f, pl.Invert(q))
	if err != nil {
		return model.GeoPosition{}, fmt.Errorf("unproject (%v, %v) on face %d: %w", pt.X, pt.Y, face, err)
	}

	xi, lon := sphere.FromUnitVector(v)
	lat, err := p.conv.ToGeodetic(xi)
	if err != nil {
		return model.GeoPosition{}, err
	}
	return model.GeoPosition{Lat: lat.Degrees(), Lon: model.NormalizeLongitude(lon.Degrees())}, nil
}
