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

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Sampler converts the boundary of an unlimited visibility polygon into a
// range-limited polygon.  Create one instance and reuse it; the internal
// work list grows as needed but never shrinks.
//
// A Sampler is not safe for concurrent use.
type Sampler struct {
	// Engine answers the range queries.
	Engine *Engine

	// Precision is the maximum distance, in scene units, between a polygon
	// edge and the limit boundary it approximates.  Must be positive.
	Precision float64

	// MinChord stops subdivision of an interval once its chord is at most
	// this long.  Zero means Precision.
	MinChord float64

	// MaxDepth bounds the number of times an interval between two sweep
	// rays is bisected.
	MaxDepth int

	// ZSlope is passed on to [Engine.CastRay].
	ZSlope float64

	// Exact disables the shortcut for scenes with a single constant limit
	// around the origin, where the sweep is clipped against a circle
	// instead of casting rays.
	Exact bool

	work     []interval
	capped   int // intervals left unresolved because of MaxDepth
	cs       *compiledSet
	origin   vec.Vec2
	rNear    float64
	vertices []vec.Vec2
}

// interval is an angular interval between two rays.
type interval struct {
	phi0, phi1 float64  // ray angles
	p0, p1     vec.Vec2 // limited end points
	cut0, cut1 bool     // whether p0 and p1 were cut short by a limit
	w0, w1     vec.Vec2 // wall chord of the enclosing sweep interval
	depth      int
}

// NewSampler returns a Sampler with default parameters.
func NewSampler(e *Engine) *Sampler {
	return &Sampler{
		Engine:    e,
		Precision: DefaultPrecision,
		MaxDepth:  DefaultMaxDepth,
	}
}

// Limit returns the range-limited version of a visibility polygon.
//
// The sweep lists the unobstructed boundary points seen from origin,
// ordered by angle; consecutive points must be less than 180° apart as seen
// from the origin, and the boundary between them is taken to be a straight
// wall.  If closed is true, the sweep covers the full circle and the last
// point connects to the first.  Otherwise the origin is added as a vertex,
// as for a limited-angle source.  rNear is the distance from the origin
// over which the range is not consumed.
//
// Every sweep point is moved towards the origin as far as its range
// requires, and intervals whose limit boundary curves are subdivided until
// the chord error is at most Precision.  Consecutive vertices which
// coincide are merged.  The returned slice is newly allocated.
func (s *Sampler) Limit(origin vec.Vec2, rNear float64, sweep []vec.Vec2, closed bool) []vec.Vec2 {
	s.cs = s.Engine.compiled()
	s.origin = origin
	s.rNear = rNear
	s.vertices = nil
	s.capped = 0

	if len(sweep) == 0 {
		return nil
	}
	if !closed {
		s.vertices = append(s.vertices, origin)
	}

	if radius, ok := s.fixedRadius(sweep); ok {
		s.clipCircle(radius, sweep, closed)
	} else {
		s.refineSweep(sweep, closed)
	}

	if s.capped > 0 {
		Logger().Debug("rangelimit: subdivision limit reached",
			"intervals", s.capped, "maxDepth", s.MaxDepth)
	}

	res := s.vertices
	s.vertices = nil
	s.cs = nil
	return res
}

// fixedRadius checks whether the combined rate is constant throughout the
// area reached by the sweep, and if so returns the resulting range.
func (s *Sampler) fixedRadius(sweep []vec.Vec2) (float64, bool) {
	if s.Exact || !s.cs.uniform {
		return 0, false
	}
	rFar := 0.0
	for _, w := range sweep {
		rFar = max(rFar, w.Sub(s.origin).Length())
	}
	lo, hi := s.cs.rateBracket(s.origin, rFar+quantum)
	if lo != hi {
		return 0, false
	}
	if hi == 0 {
		return math.Inf(1), true
	}
	z := s.ZSlope
	if !isFinite(z) {
		z = 0
	}
	return max(s.rNear, 0) + 1/(hi*math.Hypot(z, 1)), true
}

// refineSweep casts one ray per sweep point and subdivides the intervals
// between them.
func (s *Sampler) refineSweep(sweep []vec.Vec2, closed bool) {
	first, firstCut := s.limitPoint(sweep[0])
	start := len(s.vertices)
	s.emit(first)

	prev, prevCut := first, firstCut
	n := len(sweep)
	last := n - 1
	if closed {
		last = n
	}
	for i := 0; i < last; i++ {
		w0 := sweep[i]
		w1 := sweep[(i+1)%n]
		var p1 vec.Vec2
		var cut1 bool
		if i+1 == n {
			p1, cut1 = first, firstCut
		} else {
			p1, cut1 = s.limitPoint(w1)
		}

		d0 := w0.Sub(s.origin)
		phi0 := math.Atan2(d0.Y, d0.X)
		phi1 := phi0 + angleBetween(d0, w1.Sub(s.origin))
		s.refine(interval{
			phi0: phi0, phi1: phi1,
			p0: prev, p1: p1,
			cut0: prevCut, cut1: cut1,
			w0: w0, w1: w1,
		})
		prev, prevCut = p1, cut1
	}

	if closed && len(s.vertices)-start > 1 && coincide(s.vertices[len(s.vertices)-1], s.vertices[start]) {
		s.vertices = s.vertices[:len(s.vertices)-1]
	}
}

// refine emits the vertices of one sweep interval, excluding its start
// point.  The interval is bisected in angle, using an explicit work list,
// until the limited point on the middle ray is within Precision of the
// chord.
func (s *Sampler) refine(root interval) {
	minChord := s.MinChord
	if minChord <= 0 {
		minChord = s.Precision
	}

	s.work = append(s.work[:0], root)
	for len(s.work) > 0 {
		iv := s.work[len(s.work)-1]
		s.work = s.work[:len(s.work)-1]

		chord := iv.p1.Sub(iv.p0)
		if s.mayCurve(&iv) && chord.Dot(chord) > minChord*minChord {
			if iv.depth >= s.MaxDepth {
				s.capped++
			} else {
				phi := (iv.phi0 + iv.phi1) / 2
				q, cut := s.limitAlong(phi, iv.w0, iv.w1)
				if distanceToChord(q, iv.p0, iv.p1) > s.Precision {
					// push the second half first, so that vertices are
					// emitted in angular order
					s.work = append(s.work,
						interval{
							phi0: phi, phi1: iv.phi1,
							p0: q, p1: iv.p1,
							cut0: cut, cut1: iv.cut1,
							w0: iv.w0, w1: iv.w1,
							depth: iv.depth + 1,
						},
						interval{
							phi0: iv.phi0, phi1: phi,
							p0: iv.p0, p1: q,
							cut0: iv.cut0, cut1: cut,
							w0: iv.w0, w1: iv.w1,
							depth: iv.depth + 1,
						})
					continue
				}
			}
		}
		s.emit(iv.p1)
	}
}

// mayCurve reports whether the limit boundary can deviate from the chord
// of the interval.  This is the case if one of the end points was cut short,
// or if a region reaches into the triangle spanned by the origin and the
// wall chord.
func (s *Sampler) mayCurve(iv *interval) bool {
	if iv.cut0 || iv.cut1 {
		return true
	}
	o := s.origin
	b := rect.Rect{
		LLx: min(o.X, iv.p0.X, iv.p1.X),
		LLy: min(o.Y, iv.p0.Y, iv.p1.Y),
		URx: max(o.X, iv.p0.X, iv.p1.X),
		URy: max(o.Y, iv.p0.Y, iv.p1.Y),
	}
	return s.cs.touches(b)
}

// limitPoint returns the limited end point of the ray from the origin to w.
// The second return value reports whether the ray was cut short.
func (s *Sampler) limitPoint(w vec.Vec2) (vec.Vec2, bool) {
	d := w.Sub(s.origin)
	l := d.Length()
	if l == 0 {
		return w, false
	}
	t := s.Engine.CastRay(s.origin, d, s.ZSlope, s.rNear, l)
	if t >= 1 {
		return w, false
	}
	return s.origin.Add(d.Mul(t)), true
}

// limitAlong casts a ray from the origin at angle phi towards the wall
// chord w0–w1 and returns its limited end point.
func (s *Sampler) limitAlong(phi float64, w0, w1 vec.Vec2) (vec.Vec2, bool) {
	u := unit(phi)
	l := wallDistance(s.origin, u, w0, w1)
	if !(l > 0) {
		return s.origin, false
	}
	t := s.Engine.CastRay(s.origin, u, s.ZSlope, s.rNear, l)
	return s.origin.Add(u.Mul(t * l)), t < 1
}

// wallDistance returns the distance from o along the unit vector u to the
// line through w0 and w1.  If the ray does not meet the line, the mean
// distance of the two chord end points is used instead.
func wallDistance(o, u, w0, w1 vec.Vec2) float64 {
	e := w1.Sub(w0)
	den := cross(u, e)
	if math.Abs(den) > parallelThreshold*e.Length() {
		if l := cross(w0.Sub(o), e) / den; l > 0 {
			return l
		}
	}
	return (w0.Sub(o).Length() + w1.Sub(o).Length()) / 2
}

// clipCircle emits the intersection of the sweep polygon with the circle of
// the given radius around the origin.  Parts of walls outside the circle
// are replaced by circular arcs with chord error at most Precision.
func (s *Sampler) clipCircle(radius float64, sweep []vec.Vec2, closed bool) {
	start := len(s.vertices)
	if math.IsInf(radius, 1) {
		for _, w := range sweep {
			s.emit(w)
		}
	} else {
		s.emit(s.clampToCircle(sweep[0], radius))
		n := len(sweep)
		last := n - 1
		if closed {
			last = n
		}
		for i := 0; i < last; i++ {
			s.clipWall(sweep[i], sweep[(i+1)%n], radius)
		}
	}

	if closed && len(s.vertices)-start > 1 && coincide(s.vertices[len(s.vertices)-1], s.vertices[start]) {
		s.vertices = s.vertices[:len(s.vertices)-1]
	}
}

// clipWall emits the vertices of the wall w0–w1 clipped to the circle,
// excluding the start point.
func (s *Sampler) clipWall(w0, w1 vec.Vec2, radius float64) {
	// |f + u*e|² = radius²
	e := w1.Sub(w0)
	f := w0.Sub(s.origin)
	a := e.Dot(e)
	b := f.Dot(e)
	c := f.Dot(f) - radius*radius

	var us [4]float64
	n := 1
	if a > 0 {
		if disc := b*b - a*c; disc > 0 {
			sq := math.Sqrt(disc)
			for _, u := range [2]float64{(-b - sq) / a, (-b + sq) / a} {
				if u > 0 && u < 1 {
					us[n] = u
					n++
				}
			}
		}
	}
	us[n] = 1
	n++

	for k := 1; k < n; k++ {
		pa := w0.Add(e.Mul(us[k-1]))
		pb := w0.Add(e.Mul(us[k]))
		mid := w0.Add(e.Mul((us[k-1] + us[k]) / 2)).Sub(s.origin)
		if mid.Dot(mid) <= radius*radius {
			s.emit(pb)
			continue
		}
		s.emitArc(pa.Sub(s.origin), pb.Sub(s.origin), radius)
	}
}

// emitArc emits points on the circle around the origin, from the direction
// of from to the direction of to, excluding the start point.
func (s *Sampler) emitArc(from, to vec.Vec2, radius float64) {
	delta := angleBetween(from, to)
	phi0 := math.Atan2(from.Y, from.X)

	step := math.Pi / 2
	if s.Precision < radius {
		step = min(step, 2*math.Acos(1-s.Precision/radius))
	}
	n := max(int(math.Ceil(math.Abs(delta)/step)), 1)
	for k := 1; k <= n; k++ {
		phi := phi0 + delta*float64(k)/float64(n)
		s.emit(s.origin.Add(unit(phi).Mul(radius)))
	}
}

// clampToCircle moves w onto the circle around the origin, if it is outside.
func (s *Sampler) clampToCircle(w vec.Vec2, radius float64) vec.Vec2 {
	d := w.Sub(s.origin)
	l := d.Length()
	if l <= radius {
		return w
	}
	return s.origin.Add(d.Mul(radius / l))
}

// emit appends a vertex, unless it coincides with the previous one.
func (s *Sampler) emit(p vec.Vec2) {
	if n := len(s.vertices); n > 0 && coincide(s.vertices[n-1], p) {
		return
	}
	s.vertices = append(s.vertices, p)
}

func coincide(a, b vec.Vec2) bool {
	return a.Sub(b).Length() <= coincideThreshold
}
