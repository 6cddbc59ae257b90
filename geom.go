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
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Matrices use the PDF convention: a point (x, y) is mapped to
// (m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]).

// apply maps the point p using m.
func apply(m matrix.Matrix, p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// applyLinear applies only the 2×2 linear part of m to a vector.
func applyLinear(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y,
		Y: m[1]*v.X + m[3]*v.Y,
	}
}

// concat returns the map which first applies a and then b.
func concat(a, b matrix.Matrix) matrix.Matrix {
	return matrix.Matrix{
		a[0]*b[0] + a[1]*b[2],
		a[0]*b[1] + a[1]*b[3],
		a[2]*b[0] + a[3]*b[2],
		a[2]*b[1] + a[3]*b[3],
		a[4]*b[0] + a[5]*b[2] + b[4],
		a[4]*b[1] + a[5]*b[3] + b[5],
	}
}

// invert returns the inverse of m.  The second return value is false if m
// is (numerically) singular.
func invert(m matrix.Matrix) (matrix.Matrix, bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if math.Abs(det) < singularThreshold || !isFinite(det) {
		return matrix.Matrix{}, false
	}
	i0 := m[3] / det
	i1 := -m[1] / det
	i2 := -m[2] / det
	i3 := m[0] / det
	return matrix.Matrix{
		i0, i1, i2, i3,
		-(m[4]*i0 + m[5]*i2),
		-(m[4]*i1 + m[5]*i3),
	}, true
}

// cross returns the z-component of the cross product of a and b.
func cross(a, b vec.Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// angleBetween returns the signed angle from a to b, in (-π, π].
func angleBetween(a, b vec.Vec2) float64 {
	return math.Atan2(cross(a, b), a.Dot(b))
}

// unit returns the unit vector at angle phi.
func unit(phi float64) vec.Vec2 {
	s, c := math.Sincos(phi)
	return vec.Vec2{X: c, Y: s}
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func isFiniteVec(v vec.Vec2) bool {
	return isFinite(v.X) && isFinite(v.Y)
}

// quantize rounds both coordinates of v to the ray grid.
func quantize(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: math.Round(v.X/quantum) * quantum,
		Y: math.Round(v.Y/quantum) * quantum,
	}
}

// squareAround returns the axis-aligned square with the given half side
// length, centred at p.
func squareAround(p vec.Vec2, half float64) rect.Rect {
	return rect.Rect{
		LLx: p.X - half,
		LLy: p.Y - half,
		URx: p.X + half,
		URy: p.Y + half,
	}
}

// overlaps reports whether the closed rectangles a and b have a point in
// common.
func overlaps(a, b rect.Rect) bool {
	return a.LLx <= b.URx && b.LLx <= a.URx && a.LLy <= b.URy && b.LLy <= a.URy
}

// intersect returns the intersection of a and b.  The second return value
// is false if the intersection is empty.
func intersect(a, b rect.Rect) (rect.Rect, bool) {
	r := rect.Rect{
		LLx: max(a.LLx, b.LLx),
		LLy: max(a.LLy, b.LLy),
		URx: min(a.URx, b.URx),
		URy: min(a.URy, b.URy),
	}
	return r, r.LLx <= r.URx && r.LLy <= r.URy
}

// corners returns the four corners of b.
func corners(b rect.Rect) [4]vec.Vec2 {
	return [4]vec.Vec2{
		{X: b.LLx, Y: b.LLy},
		{X: b.URx, Y: b.LLy},
		{X: b.URx, Y: b.URy},
		{X: b.LLx, Y: b.URy},
	}
}

// clipSegment clips the segment p + t*d, t ∈ [0, 1], against the closed
// rectangle b, using the Liang–Barsky algorithm.  If any part of the segment
// lies inside b, the parameter range of this part is returned.
func clipSegment(p, d vec.Vec2, b rect.Rect) (t0, t1 float64, ok bool) {
	t0, t1 = 0, 1
	if !clipEdge(-d.X, p.X-b.LLx, &t0, &t1) ||
		!clipEdge(d.X, b.URx-p.X, &t0, &t1) ||
		!clipEdge(-d.Y, p.Y-b.LLy, &t0, &t1) ||
		!clipEdge(d.Y, b.URy-p.Y, &t0, &t1) {
		return 0, 0, false
	}
	return t0, t1, true
}

// clipEdge restricts [t0, t1] to the half line p*t <= q.
func clipEdge(p, q float64, t0, t1 *float64) bool {
	if p == 0 {
		return q >= 0
	}
	r := q / p
	if p < 0 {
		if r > *t1 {
			return false
		}
		if r > *t0 {
			*t0 = r
		}
	} else {
		if r < *t0 {
			return false
		}
		if r < *t1 {
			*t1 = r
		}
	}
	return true
}

// distanceToChord returns the distance of q from the segment a–b,
// measured perpendicular to the chord.
func distanceToChord(q, a, b vec.Vec2) float64 {
	e := b.Sub(a)
	l := e.Length()
	if l < coincideThreshold {
		return q.Sub(a).Length()
	}
	return math.Abs(cross(e, q.Sub(a))) / l
}
