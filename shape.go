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

package rangelimit

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

type shapeKind uint8

const (
	shapeEmpty shapeKind = iota
	shapePolygon
	shapeEllipse
)

// Shape is a closed area in the plane.  A Shape is either a polygon,
// consisting of one or more closed contours combined with the even-odd rule,
// or an ellipse, given as an affine image of the unit circle.
//
// The zero value is the empty shape.  Degenerate input (fewer than three
// vertices, zero area, a singular ellipse map, or non-finite coordinates)
// also results in the empty shape.  Shapes are immutable.
type Shape struct {
	kind     shapeKind
	contours [][]vec.Vec2

	// m maps the unit circle onto the ellipse, inv maps it back.
	m, inv matrix.Matrix
}

// NewPolygon returns a polygon shape with a single contour.
// The contour is closed implicitly.
func NewPolygon(pts []vec.Vec2) Shape {
	return NewContours([][]vec.Vec2{pts})
}

// NewContours returns a polygon shape made of several contours.  A point
// is inside the shape if it is enclosed by an odd number of contours, so
// that contours nested inside other contours describe holes.
func NewContours(contours [][]vec.Vec2) Shape {
	var kept [][]vec.Vec2
	area := 0.0
	for _, c := range contours {
		n := len(c)
		if n > 1 && c[0] == c[n-1] {
			n-- // drop explicit closing point
		}
		if n < 3 {
			continue
		}
		cc := make([]vec.Vec2, n)
		copy(cc, c[:n])
		for _, p := range cc {
			if !isFiniteVec(p) {
				return Shape{}
			}
		}
		a := math.Abs(signedArea(cc))
		if a < degenerateAreaThreshold {
			continue
		}
		area += a
		kept = append(kept, cc)
	}
	if len(kept) == 0 || area < degenerateAreaThreshold {
		return Shape{}
	}
	return Shape{kind: shapePolygon, contours: kept}
}

// NewPath returns a polygon shape from a path.  Every subpath is closed
// implicitly and becomes one contour.  Quadratic and cubic Bézier segments
// are replaced by line segments deviating at most flatness from the curve.
func NewPath(p path.Path, flatness float64) Shape {
	if !(flatness > 0) {
		flatness = DefaultFlatness
	}

	var contours [][]vec.Vec2
	var cur []vec.Vec2
	var current vec.Vec2
	addPoint := func(pt vec.Vec2) {
		cur = append(cur, pt)
		current = pt
	}
	endSubpath := func() {
		if len(cur) > 0 {
			contours = append(contours, cur)
		}
		cur = nil
	}

	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			endSubpath()
			addPoint(pts[0])
		case path.CmdLineTo:
			addPoint(pts[0])
		case path.CmdQuadTo:
			flattenQuadratic(current, pts[0], pts[1], flatness, addPoint)
		case path.CmdCubeTo:
			flattenCubic(current, pts[0], pts[1], pts[2], flatness, addPoint)
		case path.CmdClose:
			endSubpath()
		}
	}
	endSubpath()

	return NewContours(contours)
}

// NewEllipse returns an ellipse with the given centre and radii.  The
// ellipse is rotated counter-clockwise by rotation (in radians).
func NewEllipse(center vec.Vec2, rx, ry, rotation float64) Shape {
	s, c := math.Sincos(rotation)
	return NewUnitCircleImage(matrix.Matrix{
		rx * c, rx * s,
		-ry * s, ry * c,
		center.X, center.Y,
	})
}

// NewCircle returns a circle with the given centre and radius.
func NewCircle(center vec.Vec2, radius float64) Shape {
	return NewEllipse(center, radius, radius, 0)
}

// NewUnitCircleImage returns the image of the unit disc under the affine
// map m.
func NewUnitCircleImage(m matrix.Matrix) Shape {
	for _, x := range m {
		if !isFinite(x) {
			return Shape{}
		}
	}
	inv, ok := invert(m)
	if !ok {
		return Shape{}
	}
	return Shape{kind: shapeEllipse, m: m, inv: inv}
}

// IsEmpty reports whether the shape contains no area.
func (s Shape) IsEmpty() bool {
	return s.kind == shapeEmpty
}

// IsEllipse reports whether the shape is an ellipse.
func (s Shape) IsEllipse() bool {
	return s.kind == shapeEllipse
}

// Transform returns the image of the shape under the affine map m.
func (s Shape) Transform(m matrix.Matrix) Shape {
	switch s.kind {
	case shapePolygon:
		contours := make([][]vec.Vec2, len(s.contours))
		for i, c := range s.contours {
			cc := make([]vec.Vec2, len(c))
			for j, p := range c {
				cc[j] = apply(m, p)
			}
			contours[i] = cc
		}
		return NewContours(contours)
	case shapeEllipse:
		return NewUnitCircleImage(concat(s.m, m))
	default:
		return Shape{}
	}
}

// Bounds returns the smallest axis-aligned rectangle enclosing the shape.
// The empty shape has zero bounds.
func (s Shape) Bounds() rect.Rect {
	switch s.kind {
	case shapePolygon:
		first := s.contours[0][0]
		b := rect.Rect{LLx: first.X, LLy: first.Y, URx: first.X, URy: first.Y}
		for _, c := range s.contours {
			for _, p := range c {
				b.LLx = min(b.LLx, p.X)
				b.LLy = min(b.LLy, p.Y)
				b.URx = max(b.URx, p.X)
				b.URy = max(b.URy, p.Y)
			}
		}
		return b
	case shapeEllipse:
		hw := math.Hypot(s.m[0], s.m[2])
		hh := math.Hypot(s.m[1], s.m[3])
		return rect.Rect{
			LLx: s.m[4] - hw,
			LLy: s.m[5] - hh,
			URx: s.m[4] + hw,
			URy: s.m[5] + hh,
		}
	default:
		return rect.Rect{}
	}
}

// Contains reports whether p lies in the interior of the shape.
func (s Shape) Contains(p vec.Vec2) bool {
	switch s.kind {
	case shapePolygon:
		inside := false
		for _, c := range s.contours {
			a := c[len(c)-1]
			for _, b := range c {
				if crossesRight(a, b, p) {
					inside = !inside
				}
				a = b
			}
		}
		return inside
	case shapeEllipse:
		q := apply(s.inv, p)
		return q.X*q.X+q.Y*q.Y < 1
	default:
		return false
	}
}

// crossesRight reports whether the edge a–b crosses the horizontal half
// line starting at p and extending to the right.
func crossesRight(a, b, p vec.Vec2) bool {
	if (a.Y > p.Y) == (b.Y > p.Y) {
		return false
	}
	x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
	return p.X < x
}

// Path returns the outline of the shape.  Ellipses are approximated by
// four cubic Bézier segments.
func (s Shape) Path() path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		var buf [3]vec.Vec2
		switch s.kind {
		case shapePolygon:
			for _, c := range s.contours {
				buf[0] = c[0]
				if !yield(path.CmdMoveTo, buf[:1]) {
					return
				}
				for _, p := range c[1:] {
					buf[0] = p
					if !yield(path.CmdLineTo, buf[:1]) {
						return
					}
				}
				if !yield(path.CmdClose, nil) {
					return
				}
			}
		case shapeEllipse:
			// magic number for circular arc approximation with cubic Bézier
			const k = 0.5522847498
			pt := func(x, y float64) vec.Vec2 { return apply(s.m, vec.Vec2{X: x, Y: y}) }
			buf[0] = pt(1, 0)
			if !yield(path.CmdMoveTo, buf[:1]) {
				return
			}
			quarters := [4][3][2]float64{
				{{1, k}, {k, 1}, {0, 1}},
				{{-k, 1}, {-1, k}, {-1, 0}},
				{{-1, -k}, {-k, -1}, {0, -1}},
				{{k, -1}, {1, -k}, {1, 0}},
			}
			for _, q := range quarters {
				for i, c := range q {
					buf[i] = pt(c[0], c[1])
				}
				if !yield(path.CmdCubeTo, buf[:3]) {
					return
				}
			}
			yield(path.CmdClose, nil)
		}
	}
}

// signedArea returns the signed area enclosed by a closed contour.
// Counter-clockwise contours have positive area.
func signedArea(c []vec.Vec2) float64 {
	sum := 0.0
	a := c[len(c)-1]
	for _, b := range c {
		sum += cross(a, b)
		a = b
	}
	return sum / 2
}

// PolygonArea returns the area enclosed by the closed polygon pts.
func PolygonArea(pts []vec.Vec2) float64 {
	if len(pts) < 3 {
		return 0
	}
	return math.Abs(signedArea(pts))
}

// PolygonPath converts a closed polygon, for example the output of
// [Sampler.Limit], into a path.
func PolygonPath(pts []vec.Vec2) *path.Data {
	p := &path.Data{}
	if len(pts) == 0 {
		return p
	}
	p = p.MoveTo(pts[0])
	for _, pt := range pts[1:] {
		p = p.LineTo(pt)
	}
	return p.Close()
}

// flattenQuadratic flattens a quadratic Bézier and calls emit for the end
// point of each line segment.  p0 is the start point, p1 is the control
// point, p2 is the end point.
func flattenQuadratic(p0, p1, p2 vec.Vec2, flatness float64, emit func(vec.Vec2)) {
	// e = (P0 - 2*P1 + P2) / 4 bounds the deviation from the chord
	e := p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)

	n := 1
	if errLen := e.Length(); errLen > flatness {
		n = int(math.Ceil(math.Sqrt(errLen / flatness)))
	}

	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		emit(p0.Mul(omt * omt).Add(p1.Mul(2 * omt * t)).Add(p2.Mul(t * t)))
	}
}

// flattenCubic flattens a cubic Bézier and calls emit for the end point of
// each line segment.  The number of segments is chosen using Wang's formula.
func flattenCubic(p0, p1, p2, p3 vec.Vec2, flatness float64, emit func(vec.Vec2)) {
	d1 := p0.Sub(p1.Mul(2)).Add(p2)
	d2 := p1.Sub(p2.Mul(2)).Add(p3)

	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 {
		// n = ceil(sqrt(3 * m / (4 * ε)))
		if nFloat := math.Sqrt(3 * m / (4 * flatness)); nFloat > 1 {
			n = int(math.Ceil(nFloat))
		}
	}

	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		omt2 := omt * omt
		t2 := t * t
		emit(p0.Mul(omt2 * omt).Add(p1.Mul(3 * omt2 * t)).Add(p2.Mul(3 * omt * t2)).Add(p3.Mul(t2 * t)))
	}
}
