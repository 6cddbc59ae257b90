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
	"testing"

	"seehuhn.de/go/geom/vec"
)

// room returns the corners of a square room around the origin, in
// counter-clockwise order.
func room(half float64) []vec.Vec2 {
	return []vec.Vec2{
		{X: half, Y: half},
		{X: -half, Y: half},
		{X: -half, Y: -half},
		{X: half, Y: -half},
	}
}

func TestLimitEmptyEngine(t *testing.T) {
	sweep := room(200)
	for _, exact := range []bool{false, true} {
		s := NewSampler(NewEngine())
		s.Exact = exact
		if got := s.Limit(vec.Vec2{}, 0, sweep, true); !slices.Equal(got, sweep) {
			t.Errorf("exact=%t: got %v, want %v", exact, got, sweep)
		}
	}

	s := NewSampler(NewEngine())
	if got := s.Limit(vec.Vec2{}, 0, nil, true); len(got) != 0 {
		t.Errorf("empty sweep: got %v", got)
	}
	got := s.Limit(vec.Vec2{}, 0, sweep[:2], false)
	if want := []vec.Vec2{{}, sweep[0], sweep[1]}; !slices.Equal(got, want) {
		t.Errorf("open sweep: got %v, want %v", got, want)
	}
}

// TestLimitUniform compares the circle clipping shortcut with ray casting
// for a scene with a single limit.
func TestLimitUniform(t *testing.T) {
	e := NewEngine()
	mustAdd(t, e, "a", Region{Shape: everywhere, Limit: 50})

	for _, rNear := range []float64{0, 10} {
		radius := rNear + 50
		for _, exact := range []bool{false, true} {
			s := NewSampler(e)
			s.Exact = exact
			poly := s.Limit(vec.Vec2{}, rNear, room(200), true)

			for _, p := range poly {
				if d := p.Length(); math.Abs(d-radius) > 0.01 {
					t.Errorf("rNear=%g exact=%t: vertex %v at distance %g, want %g", rNear, exact, p, d, radius)
				}
			}
			area := PolygonArea(poly)
			if want := math.Pi * radius * radius; area > want || area < 0.98*want {
				t.Errorf("rNear=%g exact=%t: area %g, want about %g", rNear, exact, area, want)
			}
			assertChordError(t, e, rNear, 200, poly, s.Precision)
		}
	}
}

// TestLimitPartialWall checks a room whose walls are partly within range.
func TestLimitPartialWall(t *testing.T) {
	e := NewEngine()
	mustAdd(t, e, "a", Region{Shape: everywhere, Limit: 120})

	sweep := room(100)
	for _, exact := range []bool{false, true} {
		s := NewSampler(e)
		s.Exact = exact
		poly := s.Limit(vec.Vec2{}, 0, sweep, true)
		for _, p := range poly {
			if p.Length() > 120+0.01 || math.Abs(p.X) > 100+1e-9 || math.Abs(p.Y) > 100+1e-9 {
				t.Errorf("exact=%t: vertex %v outside room or range", exact, p)
			}
		}
		// the corners where the range boundary meets the walls
		k := math.Sqrt(120*120 - 100*100)
		for _, c := range []vec.Vec2{
			{X: 100, Y: k}, {X: k, Y: 100}, {X: -k, Y: 100}, {X: -100, Y: k},
			{X: -100, Y: -k}, {X: -k, Y: -100}, {X: k, Y: -100}, {X: 100, Y: -k},
		} {
			if !slices.ContainsFunc(poly, func(p vec.Vec2) bool { return p.Sub(c).Length() < 5 }) {
				t.Errorf("exact=%t: no vertex near %v", exact, c)
			}
		}
	}
}

func TestLimitOpenSweep(t *testing.T) {
	e := NewEngine()
	mustAdd(t, e, "a", Region{Shape: everywhere, Limit: 50})
	sweep := []vec.Vec2{{X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}
	origin := vec.Vec2{X: 0, Y: 0}

	for _, exact := range []bool{false, true} {
		s := NewSampler(e)
		s.Exact = exact
		poly := s.Limit(origin, 0, sweep, false)
		if len(poly) < 4 || poly[0] != origin {
			t.Fatalf("exact=%t: got %v", exact, poly)
		}
		if p := poly[1]; p.Sub(vec.Vec2{X: 50}).Length() > 0.01 {
			t.Errorf("exact=%t: first limited vertex %v, want (50, 0)", exact, p)
		}
		if p := poly[len(poly)-1]; p.Sub(vec.Vec2{Y: 50}).Length() > 0.01 {
			t.Errorf("exact=%t: last vertex %v, want (0, 50)", exact, p)
		}
	}
}

// TestLimitChordError checks the chord error of every edge of a polygon
// limited by a curved region.
func TestLimitChordError(t *testing.T) {
	e := NewEngine()
	mustAdd(t, e, "a", Region{Shape: everywhere, Limit: 100})
	mustAdd(t, e, "b", Region{Shape: NewCircle(vec.Vec2{X: 80}, 40), Limit: 50, Mode: ModeAdd, Key: SortKey{Sort: 1}})
	mustAdd(t, e, "c", Region{Shape: NewEllipse(vec.Vec2{X: -40, Y: 60}, 50, 20, 0.5), Limit: 30, Mode: ModeMax, Key: SortKey{Sort: 2}})

	for _, precision := range []float64{2, 0.5, 0.1} {
		s := NewSampler(e)
		s.Precision = precision
		s.MaxDepth = 20
		poly := s.Limit(vec.Vec2{}, 0, room(150), true)
		if len(poly) < 8 {
			t.Fatalf("precision %g: only %d vertices", precision, len(poly))
		}
		assertChordError(t, e, 0, 150, poly, precision)
	}
}

// assertChordError checks that the limit point halfway (in angle) between
// any two consecutive vertices of poly is within tol of the edge joining
// them.  The polygon must be centred at the origin of a square room with
// the given half width.
func assertChordError(t *testing.T, e *Engine, rNear, half float64, poly []vec.Vec2, tol float64) {
	t.Helper()
	for i, p0 := range poly {
		p1 := poly[(i+1)%len(poly)]
		if p1.Sub(p0).Length() <= tol {
			continue
		}
		phi := math.Atan2(p0.Y, p0.X) + angleBetween(p0, p1)/2
		u := unit(phi)
		l := half / max(math.Abs(u.X), math.Abs(u.Y))
		q := u.Mul(e.CastRay(vec.Vec2{}, u, 0, rNear, l) * l)
		if d := distanceToChord(q, p0, p1); d > tol+0.01 {
			t.Errorf("edge %v–%v: chord error %g > %g", p0, p1, d, tol)
		}
	}
}

func BenchmarkLimit(b *testing.B) {
	e := NewEngine()
	if err := e.Add("a", Region{Shape: everywhere, Limit: 100}); err != nil {
		b.Fatal(err)
	}
	if err := e.Add("b", Region{Shape: NewCircle(vec.Vec2{X: 80}, 40), Limit: 50, Mode: ModeAdd}); err != nil {
		b.Fatal(err)
	}
	sweep := room(150)

	for _, exact := range []bool{false, true} {
		name := "shortcut"
		if exact {
			name = "exact"
		}
		b.Run(name, func(b *testing.B) {
			s := NewSampler(e)
			s.Exact = exact
			b.ReportAllocs()
			for b.Loop() {
				s.Limit(vec.Vec2{}, 0, sweep, true)
			}
		})
	}
}
