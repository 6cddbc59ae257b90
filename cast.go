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

	"seehuhn.de/go/geom/vec"
)

// CastRay follows a ray from origin in the given direction for rMax units
// and returns the fraction t ∈ [0, 1] of the ray which can be travelled
// before the range is used up.  The result 1 means that the ray is not cut
// short.
//
// Travelling consumes a budget of 1 at the combined rate of all regions
// containing the current position.  The first rMin units of the ray are
// free.  zSlope is the change of elevation per unit of planar distance; the
// rate is scaled by sqrt(zSlope² + 1) to account for the true distance
// travelled.
//
// Origin and ray vector are rounded to a 1/256 grid, so that repeated
// queries from the same point give identical results.  Rays too short for
// this grid are used unrounded.  An engine without regions gives 1.
// Otherwise, a zero direction or a non-positive rMax gives 0.
func (e *Engine) CastRay(origin, dir vec.Vec2, zSlope, rMin, rMax float64) float64 {
	cs := e.compiled()
	if cs.len() == 0 {
		return 1
	}

	n := dir.Length()
	if !(n > 0) || !isFinite(n) || !(rMax > 0) || !isFiniteVec(origin) {
		return 0
	}
	if math.IsInf(rMax, 1) {
		// no finite ray to parametrise; clamp far beyond any sane scene
		rMax = math.MaxFloat32
	}
	o := quantize(origin)
	d := rayVector(dir, n, rMax)
	length := d.Length()
	if !(length > 0) {
		return 0
	}
	if !(rMin > 0) {
		rMin = 0
	}
	tMin := rMin / length
	if tMin >= 1 {
		return 1
	}
	if !isFinite(zSlope) {
		zSlope = 0
	}
	scale := length * math.Hypot(zSlope, 1)

	e.collectHits(cs, o, d)
	if len(e.hits) == 0 {
		return 1
	}

	// The part of the ray before tMin only changes the containment state.
	for len(e.heap) > 0 && e.heap[0].t <= tMin {
		e.toggle(e.heap.pop())
	}

	t := tMin
	budget := 1.0
	rate := e.combinedRate(cs) * scale
	for len(e.heap) > 0 {
		ev := e.heap.pop()
		if rate > 0 {
			if need := budget / rate; t+need <= ev.t {
				return t + need
			}
			budget -= rate * (ev.t - t)
		}
		t = ev.t
		e.toggle(ev)
		for len(e.heap) > 0 && e.heap[0].t == t {
			e.toggle(e.heap.pop())
		}
		rate = e.combinedRate(cs) * scale
	}

	if rate <= 0 {
		return 1
	}
	return min(1, t+max(budget, 0)/rate)
}

// rayVector returns the ray vector of length rMax in direction dir, where
// n = |dir|, rounded to the quantisation grid unless this would make it
// vanish.
func rayVector(dir vec.Vec2, n, rMax float64) vec.Vec2 {
	v := dir.Mul(rMax / n)
	if d := quantize(v); d != (vec.Vec2{}) {
		return d
	}
	return v
}

// collectHits finds all regions whose bounds meet the ray o + t*d,
// t ∈ [0, 1], records their containment state just after t = 0, and
// pushes all boundary crossings with 0 < t < 1 onto the event heap.
func (e *Engine) collectHits(cs *compiledSet, o, d vec.Vec2) {
	e.hits = e.hits[:0]
	e.inShape = e.inShape[:0]
	e.inMask = e.inMask[:0]
	e.heap = e.heap[:0]

	for i := range cs.len() {
		if _, _, ok := clipSegment(o, d, cs.bounds[i]); !ok {
			continue
		}
		hit := int32(len(e.hits))
		e.hits = append(e.hits, i)
		cs.pushCrossings(&e.heap, &cs.shape[i], o, d, hit, false)
		if cs.mask[i].kind != shapeEmpty {
			cs.pushCrossings(&e.heap, &cs.mask[i], o, d, hit, true)
		}
	}

	// Containment is tested halfway to the first crossing, rather than at
	// o itself, so that an origin on a boundary gets the state of the side
	// the ray moves into.  Crossings at t = 0 are never pushed.
	tFirst := 1.0
	if len(e.heap) > 0 {
		tFirst = e.heap[0].t
	}
	p := o.Add(d.Mul(tFirst / 2))
	for _, i := range e.hits {
		e.inShape = append(e.inShape, cs.contains(&cs.shape[i], p))
		mask := &cs.mask[i]
		e.inMask = append(e.inMask, mask.kind == shapeEmpty || cs.contains(mask, p))
	}
}

// pushCrossings adds an event for every crossing of the boundary of s by
// the ray o + t*d with 0 < t < 1.
func (cs *compiledSet) pushCrossings(h *eventHeap, s *compiledShape, o, d vec.Vec2, hit int32, onMask bool) {
	switch s.kind {
	case shapePolygon:
		for _, edge := range cs.edges[s.lo:s.hi] {
			// Endpoints on the ray count as being on the left, so that a
			// ray through a vertex crosses exactly one of the two edges.
			sa := cross(d, edge.a.Sub(o))
			sb := cross(d, edge.b.Sub(o))
			if (sa >= 0) == (sb >= 0) {
				continue
			}
			ab := edge.b.Sub(edge.a)
			t := cross(edge.a.Sub(o), ab) / cross(d, ab)
			if t > 0 && t < 1 {
				h.push(event{t: t, hit: hit, mask: onMask})
			}
		}

	case shapeEllipse:
		// In the coordinates of the unit circle: |q + t*v|² = 1.
		q := apply(s.inv, o)
		v := applyLinear(s.inv, d)
		a := v.Dot(v)
		b := q.Dot(v)
		c := q.Dot(q) - 1
		disc := b*b - a*c
		if !(a > 0) || !(disc > 0) {
			return // miss, or a tangent which does not change containment
		}
		sq := math.Sqrt(disc)
		for _, t := range [2]float64{(-b - sq) / a, (-b + sq) / a} {
			if t > 0 && t < 1 {
				h.push(event{t: t, hit: hit, mask: onMask})
			}
		}
	}
}

// toggle flips the containment state recorded for an event.
func (e *Engine) toggle(ev event) {
	if ev.mask {
		e.inMask[ev.hit] = !e.inMask[ev.hit]
	} else {
		e.inShape[ev.hit] = !e.inShape[ev.hit]
	}
}

// combinedRate folds the rates of all regions containing the current ray
// position, in combination order.
func (e *Engine) combinedRate(cs *compiledSet) float64 {
	rate := 0.0
	for k, i := range e.hits {
		if e.inShape[k] && e.inMask[k] {
			rate = cs.mode[i].fold(rate, cs.rate[i])
		}
	}
	return rate
}
