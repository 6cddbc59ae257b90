// seehuhn.de/go/rangelimit - range limits for 2D visibility polygons
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package scene reads and writes descriptions of range-limiting regions
// and viewers as YAML documents.
//
// A minimal scene looks like this:
//
//	regions:
//	  - id: fog
//	    limit: 60
//	    shape:
//	      polygon: [[-100, -100], [100, -100], [100, 100], [-100, 100]]
//	viewer:
//	  origin: [0, 0]
//	  closed: true
//	  sweep: [[150, 150], [-150, 150], [-150, -150], [150, -150]]
//
// Regions without a limit lift the limit inside their shape.  Regions
// without an id are given a random one when they are added to an engine.
package scene

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/rangelimit"
)

// ErrInvalid is returned for scene documents which are well-formed YAML
// but do not describe a valid scene.
var ErrInvalid = errors.New("invalid scene")

// Scene is a set of regions, optionally together with a viewer.
type Scene struct {
	Regions []RegionSpec `yaml:"regions"`
	Viewer  *Viewer      `yaml:"viewer,omitempty"`
}

// RegionSpec describes one region.
type RegionSpec struct {
	ID    string     `yaml:"id,omitempty"`
	Shape ShapeSpec  `yaml:"shape"`
	Mask  *ShapeSpec `yaml:"mask,omitempty"`

	// Limit is the range inside the region.  Nil means unlimited.
	Limit *float64 `yaml:"limit,omitempty"`

	// Mode is one of "set", "min", "max", "add" or "sub".  The default
	// is "set".
	Mode string `yaml:"mode,omitempty"`

	Priority  int     `yaml:"priority,omitempty"`
	Elevation float64 `yaml:"elevation,omitempty"`
	Sort      int     `yaml:"sort,omitempty"`
	Disabled  bool    `yaml:"disabled,omitempty"`
}

// ShapeSpec describes a shape.  Exactly one of Polygon, Contours and
// Ellipse must be set.  Points are written as [x, y] pairs.
type ShapeSpec struct {
	Polygon  [][]float64   `yaml:"polygon,omitempty,flow"`
	Contours [][][]float64 `yaml:"contours,omitempty,flow"`
	Ellipse  *EllipseSpec  `yaml:"ellipse,omitempty"`

	// Transform, if set, is an affine map [a, b, c, d, e, f] applied to
	// the shape.
	Transform []float64 `yaml:"transform,omitempty,flow"`
}

// EllipseSpec describes an ellipse.
type EllipseSpec struct {
	Center []float64 `yaml:"center,flow"`
	RX     float64   `yaml:"rx"`
	RY     float64   `yaml:"ry"`

	// Rotation is the counter-clockwise rotation in degrees.
	Rotation float64 `yaml:"rotation,omitempty"`
}

// Viewer describes a point of view together with its unlimited visibility
// polygon.
type Viewer struct {
	Origin []float64 `yaml:"origin,flow"`
	RNear  float64   `yaml:"r_near,omitempty"`
	ZSlope float64   `yaml:"z_slope,omitempty"`

	// Precision is the chord error of the limited polygon.  Zero selects
	// [rangelimit.DefaultPrecision].
	Precision float64 `yaml:"precision,omitempty"`

	// Sweep lists the boundary of the visibility polygon, ordered by angle.
	Sweep  [][]float64 `yaml:"sweep,flow"`
	Closed bool        `yaml:"closed,omitempty"`
}

// Load reads a scene from r.  Unknown fields are reported as errors.
func Load(r io.Reader) (*Scene, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	s := &Scene{}
	if err := dec.Decode(s); err != nil {
		if errors.Is(err, io.EOF) {
			return s, nil
		}
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFile reads a scene from the named file.
func LoadFile(name string) (s *Scene, err error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	s, err = Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

// Write writes the scene to w as a YAML document.
func (s *Scene) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks that all points, modes and limits in the scene are well
// formed.  Shapes which are merely degenerate are accepted, since they are
// ignored by the engine.
func (s *Scene) Validate() error {
	for i := range s.Regions {
		if _, err := s.Regions[i].region(); err != nil {
			return fmt.Errorf("%w: region %d: %w", ErrInvalid, i, err)
		}
	}
	if s.Viewer != nil {
		if _, _, err := s.Viewer.Points(); err != nil {
			return fmt.Errorf("%w: viewer: %w", ErrInvalid, err)
		}
	}
	return nil
}

// Apply adds all regions of the scene to e and returns their ids.  Regions
// without an id are assigned a random UUID.  If a region is rejected, the
// regions added so far are left in the engine.
func (s *Scene) Apply(e *rangelimit.Engine) ([]string, error) {
	ids := make([]string, 0, len(s.Regions))
	for i := range s.Regions {
		spec := &s.Regions[i]
		r, err := spec.region()
		if err != nil {
			return ids, fmt.Errorf("%w: region %d: %w", ErrInvalid, i, err)
		}
		id := spec.ID
		if id == "" {
			id = uuid.NewString()
		}
		if err := e.Add(id, r); err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Engine returns a new engine containing the regions of the scene.
func (s *Scene) Engine() (*rangelimit.Engine, error) {
	e := rangelimit.NewEngine()
	if _, err := s.Apply(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Limit computes the range-limited visibility polygon of the scene's
// viewer.
func (s *Scene) Limit() ([]vec.Vec2, error) {
	if s.Viewer == nil {
		return nil, fmt.Errorf("%w: no viewer", ErrInvalid)
	}
	origin, sweep, err := s.Viewer.Points()
	if err != nil {
		return nil, fmt.Errorf("%w: viewer: %w", ErrInvalid, err)
	}
	e, err := s.Engine()
	if err != nil {
		return nil, err
	}

	sampler := rangelimit.NewSampler(e)
	if s.Viewer.Precision > 0 {
		sampler.Precision = s.Viewer.Precision
	}
	sampler.ZSlope = s.Viewer.ZSlope
	return sampler.Limit(origin, s.Viewer.RNear, sweep, s.Viewer.Closed), nil
}

// Points returns the origin and the sweep of the viewer.
func (v *Viewer) Points() (origin vec.Vec2, sweep []vec.Vec2, err error) {
	origin, err = point(v.Origin)
	if err != nil {
		return vec.Vec2{}, nil, fmt.Errorf("origin: %w", err)
	}
	sweep, err = points(v.Sweep)
	if err != nil {
		return vec.Vec2{}, nil, fmt.Errorf("sweep: %w", err)
	}
	return origin, sweep, nil
}

func (spec *RegionSpec) region() (rangelimit.Region, error) {
	shape, err := spec.Shape.Shape()
	if err != nil {
		return rangelimit.Region{}, fmt.Errorf("shape: %w", err)
	}
	r := rangelimit.Region{
		Shape: shape,
		Limit: math.Inf(1),
		Key: rangelimit.SortKey{
			Priority:  spec.Priority,
			Elevation: spec.Elevation,
			Sort:      spec.Sort,
		},
		Disabled: spec.Disabled,
	}
	if spec.Mask != nil {
		mask, err := spec.Mask.Shape()
		if err != nil {
			return rangelimit.Region{}, fmt.Errorf("mask: %w", err)
		}
		r.Mask = &mask
	}
	if spec.Limit != nil {
		if !(*spec.Limit > 0) {
			return rangelimit.Region{}, fmt.Errorf("%w (got %g)", rangelimit.ErrInvalidLimit, *spec.Limit)
		}
		r.Limit = *spec.Limit
	}
	if spec.Mode != "" {
		r.Mode, err = rangelimit.ParseMode(spec.Mode)
		if err != nil {
			return rangelimit.Region{}, err
		}
	}
	return r, nil
}

// Shape converts the description into a shape.
func (spec *ShapeSpec) Shape() (rangelimit.Shape, error) {
	n := 0
	if spec.Polygon != nil {
		n++
	}
	if spec.Contours != nil {
		n++
	}
	if spec.Ellipse != nil {
		n++
	}
	if n != 1 {
		return rangelimit.Shape{}, errors.New("need exactly one of polygon, contours, ellipse")
	}

	var s rangelimit.Shape
	switch {
	case spec.Polygon != nil:
		pts, err := points(spec.Polygon)
		if err != nil {
			return rangelimit.Shape{}, fmt.Errorf("polygon: %w", err)
		}
		s = rangelimit.NewPolygon(pts)
	case spec.Contours != nil:
		contours := make([][]vec.Vec2, len(spec.Contours))
		for i, c := range spec.Contours {
			pts, err := points(c)
			if err != nil {
				return rangelimit.Shape{}, fmt.Errorf("contour %d: %w", i, err)
			}
			contours[i] = pts
		}
		s = rangelimit.NewContours(contours)
	default:
		c, err := point(spec.Ellipse.Center)
		if err != nil {
			return rangelimit.Shape{}, fmt.Errorf("ellipse center: %w", err)
		}
		rot := spec.Ellipse.Rotation * math.Pi / 180
		s = rangelimit.NewEllipse(c, spec.Ellipse.RX, spec.Ellipse.RY, rot)
	}

	if spec.Transform != nil {
		if len(spec.Transform) != 6 {
			return rangelimit.Shape{}, fmt.Errorf("transform needs 6 values, got %d", len(spec.Transform))
		}
		var m matrix.Matrix
		copy(m[:], spec.Transform)
		s = s.Transform(m)
	}
	return s, nil
}

// ShapeSpecFromPolygon returns the description of a single contour.
func ShapeSpecFromPolygon(pts []vec.Vec2) ShapeSpec {
	return ShapeSpec{Polygon: Pairs(pts)}
}

// ShapeSpecFromEllipse returns the description of an ellipse.  The
// rotation is given in degrees.
func ShapeSpecFromEllipse(center vec.Vec2, rx, ry, rotation float64) ShapeSpec {
	return ShapeSpec{Ellipse: &EllipseSpec{
		Center:   []float64{center.X, center.Y},
		RX:       rx,
		RY:       ry,
		Rotation: rotation,
	}}
}

// Pairs converts points into the [x, y] form used in scene documents.
func Pairs(pts []vec.Vec2) [][]float64 {
	res := make([][]float64, len(pts))
	for i, p := range pts {
		res[i] = []float64{p.X, p.Y}
	}
	return res
}

func point(xy []float64) (vec.Vec2, error) {
	if len(xy) != 2 {
		return vec.Vec2{}, fmt.Errorf("point needs 2 coordinates, got %d", len(xy))
	}
	return vec.Vec2{X: xy[0], Y: xy[1]}, nil
}

func points(xys [][]float64) ([]vec.Vec2, error) {
	res := make([]vec.Vec2, len(xys))
	for i, xy := range xys {
		p, err := point(xy)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		res[i] = p
	}
	return res, nil
}
