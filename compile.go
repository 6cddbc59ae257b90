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
	"slices"
	"strings"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// segment is a polygon edge.
type segment struct {
	a, b vec.Vec2
}

// compiledShape refers to the geometry of a shape inside a compiledSet.
type compiledShape struct {
	kind   shapeKind
	lo, hi int           // edge range in compiledSet.edges (polygons)
	inv    matrix.Matrix // maps the ellipse onto the unit circle (ellipses)
}

// compiledSet is a read-only snapshot of all regions which can affect a
// query, in combination order.  Per-region data is stored in parallel
// slices, indexed by the position of the region in the order.
type compiledSet struct {
	ids    []string
	bounds []rect.Rect // shape bounds, intersected with the mask bounds
	rate   []float64
	mode   []Mode
	shape  []compiledShape
	mask   []compiledShape // kind shapeEmpty means "no mask"

	edges []segment // polygon edges of all shapes and masks

	rMin, rMax float64 // smallest and largest finite limit
	uniform    bool    // all rates are equal and there are no masks
}

// compile builds the compiled set for the given registry contents.
// Disabled regions and regions with an empty shape or mask are dropped.
func compile(regions map[string]Region) *compiledSet {
	ids := make([]string, 0, len(regions))
	for id := range regions {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		ra, rb := regions[a], regions[b]
		if c := ra.Key.Compare(rb.Key); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	cs := &compiledSet{
		rMin:    math.Inf(1),
		rMax:    math.Inf(1),
		uniform: true,
	}
	dropped := 0
	for _, id := range ids {
		r := regions[id]
		if r.Disabled {
			continue
		}
		if r.Shape.IsEmpty() || (r.Mask != nil && r.Mask.IsEmpty()) {
			dropped++
			continue
		}
		bounds := r.Shape.Bounds()
		if r.Mask != nil {
			var ok bool
			bounds, ok = intersect(bounds, r.Mask.Bounds())
			if !ok {
				dropped++
				continue
			}
		}

		rate := r.Rate()
		if len(cs.rate) > 0 && rate != cs.rate[0] {
			cs.uniform = false
		}

		cs.ids = append(cs.ids, id)
		cs.bounds = append(cs.bounds, bounds)
		cs.rate = append(cs.rate, rate)
		cs.mode = append(cs.mode, r.Mode)
		cs.shape = append(cs.shape, cs.addShape(r.Shape))
		if r.Mask != nil {
			cs.mask = append(cs.mask, cs.addShape(*r.Mask))
			cs.uniform = false
		} else {
			cs.mask = append(cs.mask, compiledShape{})
		}

		if !math.IsInf(r.Limit, 1) {
			if math.IsInf(cs.rMin, 1) {
				cs.rMin, cs.rMax = r.Limit, r.Limit
			} else {
				cs.rMin = min(cs.rMin, r.Limit)
				cs.rMax = max(cs.rMax, r.Limit)
			}
		}
	}

	Logger().Debug("rangelimit: compiled regions",
		"regions", len(cs.ids), "dropped", dropped,
		"rMin", cs.rMin, "rMax", cs.rMax)
	return cs
}

// addShape appends the geometry of s to the set.
func (cs *compiledSet) addShape(s Shape) compiledShape {
	switch s.kind {
	case shapePolygon:
		lo := len(cs.edges)
		for _, c := range s.contours {
			a := c[len(c)-1]
			for _, b := range c {
				cs.edges = append(cs.edges, segment{a: a, b: b})
				a = b
			}
		}
		return compiledShape{kind: shapePolygon, lo: lo, hi: len(cs.edges)}
	case shapeEllipse:
		return compiledShape{kind: shapeEllipse, inv: s.inv}
	default:
		return compiledShape{}
	}
}

// len returns the number of regions in the set.
func (cs *compiledSet) len() int {
	return len(cs.rate)
}

// contains reports whether p is inside the shape s.  The empty shape
// contains nothing.
func (cs *compiledSet) contains(s *compiledShape, p vec.Vec2) bool {
	switch s.kind {
	case shapePolygon:
		inside := false
		for _, e := range cs.edges[s.lo:s.hi] {
			if crossesRight(e.a, e.b, p) {
				inside = !inside
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

// covers reports whether every point of the closed rectangle b is inside
// the shape s.
func (cs *compiledSet) covers(s *compiledShape, b rect.Rect) bool {
	switch s.kind {
	case shapePolygon:
		for _, c := range corners(b) {
			if !cs.contains(s, c) {
				return false
			}
		}
		// With no edge meeting b, the even-odd parity is the same
		// everywhere in b.
		for _, e := range cs.edges[s.lo:s.hi] {
			if _, _, ok := clipSegment(e.a, e.b.Sub(e.a), b); ok {
				return false
			}
		}
		return true
	case shapeEllipse:
		// ellipses are convex
		for _, c := range corners(b) {
			if !cs.contains(s, c) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// regionCovers reports whether region i applies everywhere in b.
func (cs *compiledSet) regionCovers(i int, b rect.Rect) bool {
	if !cs.covers(&cs.shape[i], b) {
		return false
	}
	return cs.mask[i].kind == shapeEmpty || cs.covers(&cs.mask[i], b)
}

// touches reports whether the bounds of any region meet b.
func (cs *compiledSet) touches(b rect.Rect) bool {
	for _, rb := range cs.bounds {
		if overlaps(rb, b) {
			return true
		}
	}
	return false
}
