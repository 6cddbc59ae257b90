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
	"seehuhn.de/go/geom/vec"
)

// EstimateLimits returns a range [lower, upper] which contains the limited
// distance of every level ray (zSlope 0) leaving p with range rNear..rFar,
// as computed by [Engine.CastRay].  The limited distance is measured from p
// and never exceeds rFar.
//
// The estimate only looks at region bounds, so it costs O(n) and is meant
// to be called once per origin, for example to size a visibility sweep.
// For an engine without regions, the result is [rFar, rFar].
func (e *Engine) EstimateLimits(p vec.Vec2, rNear, rFar float64) (lower, upper float64) {
	if !(rFar > 0) {
		return 0, 0
	}
	rNear = max(rNear, 0)

	// Quantised rays may reach slightly outside the square.
	lo, hi := e.compiled().rateBracket(p, rFar+quantum)
	return limitDistance(rNear, hi, rFar), limitDistance(rNear, lo, rFar)
}

// rateBracket returns an interval which contains the combined rate at
// every point of the square p ± half.
//
// Regions are folded in combination order.  A region which covers the
// whole square is applied exactly; a region which only meets the square may
// or may not apply, so the interval is widened to include both outcomes.
// This is sound because every fold is monotone in the accumulated rate.
func (cs *compiledSet) rateBracket(p vec.Vec2, half float64) (lo, hi float64) {
	box := squareAround(p, half)
	for i := range cs.len() {
		if !overlaps(cs.bounds[i], box) {
			continue
		}
		r := cs.rate[i]
		m := cs.mode[i]
		if cs.regionCovers(i, box) {
			lo, hi = m.fold(lo, r), m.fold(hi, r)
			continue
		}
		switch m {
		case ModeSet:
			lo, hi = min(lo, r), max(hi, r)
		case ModeMin:
			lo = min(lo, r)
		case ModeMax:
			hi = max(hi, r)
		case ModeAdd:
			hi += r
		case ModeSub:
			lo = max(lo-r, 0)
		}
	}
	return lo, hi
}

// limitDistance returns the distance at which a ray exhausts its range
// under a constant rate, capped at rFar.
func limitDistance(rNear, rate, rFar float64) float64 {
	if rate <= 0 {
		return rFar
	}
	return min(rFar, rNear+1/rate)
}
