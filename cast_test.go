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
	"testing"

	"seehuhn.de/go/geom/vec"
)

var xAxis = vec.Vec2{X: 1}

func square(cx, cy, half float64) Shape {
	return NewPolygon([]vec.Vec2{
		{X: cx - half, Y: cy - half},
		{X: cx + half, Y: cy - half},
		{X: cx + half, Y: cy + half},
		{X: cx - half, Y: cy + half},
	})
}

// everywhere covers everything the tests look at.
var everywhere = square(0, 0, 1e4)

func mustAdd(t *testing.T, e *Engine, id string, r Region) {
	t.Helper()
	if err := e.Add(id, r); err != nil {
		t.Fatalf("Add(%q): %v", id, err)
	}
}

func TestCastRayEmpty(t *testing.T) {
	e := NewEngine()
	if got := e.CastRay(vec.Vec2{X: 3, Y: 4}, xAxis, 0, 0, 100); got != 1 {
		t.Errorf("empty engine: got %g, want 1", got)
	}
}

// TestCastRayShortRay checks rays shorter than the quantisation grid.
func TestCastRayShortRay(t *testing.T) {
	e := NewEngine()
	for _, dir := range []vec.Vec2{xAxis, {}} {
		if got := e.CastRay(vec.Vec2{}, dir, 0, 0, 0.001); got != 1 {
			t.Errorf("empty engine, dir %v: got %g, want 1", dir, got)
		}
	}

	mustAdd(t, e, "a", Region{Shape: everywhere, Limit: 50})
	if got := e.CastRay(vec.Vec2{}, xAxis, 0, 0, 0.001); got != 1 {
		t.Errorf("long range: got %g, want 1", got)
	}

	e.Reset()
	mustAdd(t, e, "b", Region{Shape: everywhere, Limit: 0.0005})
	if got := e.CastRay(vec.Vec2{}, xAxis, 0, 0, 0.001); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("short range: got %g, want 0.5", got)
	}
}

func TestCastRayDegenerate(t *testing.T) {
	e := NewEngine()
	mustAdd(t, e, "a", Region{Shape: everywhere, Limit: 50})

	cases := []struct {
		name   string
		origin vec.Vec2
		dir    vec.Vec2
		rMax   float64
	}{
		{"zero direction", vec.Vec2{}, vec.Vec2{}, 100},
		{"NaN direction", vec.Vec2{}, vec.Vec2{X: math.NaN()}, 100},
		{"zero length", vec.Vec2{}, xAxis, 0},
		{"negative length", vec.Vec2{}, xAxis, -5},
		{"NaN length", vec.Vec2{}, xAxis, math.NaN()},
		{"NaN origin", vec.Vec2{X: math.NaN()}, xAxis, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.CastRay(tc.origin, tc.dir, 0, 0, tc.rMax); got != 0 {
				t.Errorf("got %g, want 0", got)
			}
		})
	}
}

func TestCastRayInfiniteLength(t *testing.T) {
	e := NewEngine()
	mustAdd(t, e, "a", Region{Shape: everywhere, Limit: 50})
	got := e.CastRay(vec.Vec2{}, xAxis, 0, 0, math.Inf(1))
	if math.IsNaN(got) || got < 0 || got > 1 {
		t.Errorf("got %g, want a value in [0, 1]", got)
	}
}

func TestCastRaySingleSet(t *testing.T) {
	e := NewEngine()
	mustAdd(t, e, "a", Region{Shape: everywhere, Limit: 50, Mode: ModeSet})

	for _, dir := range []vec.Vec2{xAxis, {X: -3, Y: 4}, {X: 0, Y: -0.001}} {
		if got := e.CastRay(vec.Vec2{X: 1, Y: 2}, dir, 0, 0, 100); math.Abs(got-0.5) > 1e-9 {
			t.Errorf("dir %v: got %g, want 0.5", dir, got)
		}
	}
}

func TestCastRayModes(t *testing.T) {
	cases := []struct {
		name string
		mode Mode
		want float64
	}{
		{"set", ModeSet, 0.25},                 // rate 1/25
		{"min", ModeMin, 0.5},                  // min(1/50, 1/25)
		{"max", ModeMax, 0.25},                 // max(1/50, 1/25)
		{"add", ModeAdd, 1.0 / (100 * 0.06)},   // 1/50 + 1/25
		{"sub", ModeSub, 1.0 / (100 * 0.0175)}, // 1/50 - 1/400, below
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEngine()
			mustAdd(t, e, "a", Region{Shape: everywhere, Limit: 50})
			limit := 25.0
			if tc.mode == ModeSub {
				limit = 400
			}
			mustAdd(t, e, "b", Region{Shape: everywhere, Limit: limit, Mode: tc.mode, Key: SortKey{Priority: 1}})

			if got := e.CastRay(vec.Vec2{}, xAxis, 0, 0, 100); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("got %g, want %g", got, tc.want)
			}
		})
	}
}

func TestCastRaySubCancelsAdd(t *testing.T) {
	e := NewEngine()
	circle := NewCircle(vec.Vec2{X: 50}, 40)
	mustAdd(t, e, "a", Region{Shape: circle, Limit: 20, Mode: ModeAdd})
	mustAdd(t, e, "b", Region{Shape: circle, Limit: 20, Mode: ModeSub, Key: SortKey{Sort: 1}})

	if got := e.CastRay(vec.Vec2{}, xAxis, 0, 0, 200); got != 1 {
		t.Errorf("got %g, want 1", got)
	}
}

func TestCastRayOrder(t *testing.T) {
	// SET after ADD discards the ADD; ADD after SET adds to it.
	e := NewEngine()
	mustAdd(t, e, "a", Region{Shape: everywhere, Limit: 25, Mode: ModeAdd})
	mustAdd(t, e, "b", Region{Shape: everywhere, Limit: 50, Mode: ModeSet, Key: SortKey{Elevation: 1}})
	if got := e.CastRay(vec.Vec2{}, xAxis, 0, 0, 100); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("ADD then SET: got %g, want 0.5", got)
	}

	elevation := -1.0
	if err := e.Update("b", RegionUpdate{Key: &SortKey{Elevation: elevation}}); err != nil {
		t.Fatal(err)
	}
	if got := e.CastRay(vec.Vec2{}, xAxis, 0, 0, 100); math.Abs(got-1.0/6) > 1e-9 {
		t.Errorf("SET then ADD: got %g, want 1/6", got)
	}
}

func TestCastRayOriginInsideOutside(t *testing.T) {
	e := NewEngine()
	mustAdd(t, e, "c", Region{Shape: NewCircle(vec.Vec2{}, 10), Limit: 5})

	cases := []struct {
		name   string
		origin vec.Vec2
		want   float64
	}{
		{"inside", vec.Vec2{}, 0.05},
		{"before", vec.Vec2{X: -20}, 0.15},
		{"behind", vec.Vec2{X: 20}, 1},
		{"beside", vec.Vec2{X: -20, Y: 11}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.CastRay(tc.origin, xAxis, 0, 0, 100); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("got %g, want %g", got, tc.want)
			}
		})
	}

	// the same for a polygon
	e.Reset()
	mustAdd(t, e, "s", Region{Shape: square(0, 0, 10), Limit: 5})
	if got := e.CastRay(vec.Vec2{X: -20, Y: 3}, xAxis, 0, 0, 100); math.Abs(got-0.15) > 1e-9 {
		t.Errorf("polygon, origin outside: got %g, want 0.15", got)
	}
	if got := e.CastRay(vec.Vec2{X: 20, Y: 3}, xAxis, 0, 0, 100); got != 1 {
		t.Errorf("polygon, origin behind: got %g, want 1", got)
	}
}

// TestCastRayOriginOnBoundary starts rays exactly on the boundary of a
// region.  The region applies if and only if the ray moves into it.
func TestCastRayOriginOnBoundary(t *testing.T) {
	sq := square(0, 0, 50)
	circle := NewCircle(vec.Vec2{}, 50)
	flat := NewEllipse(vec.Vec2{}, 50, 25, 0)

	cases := []struct {
		name   string
		region Region
		origin vec.Vec2
		dir    vec.Vec2
		rMax   float64
		want   float64
	}{
		{"edge inward", Region{Shape: sq}, vec.Vec2{X: 50}, vec.Vec2{X: -1}, 200, 0.2},
		{"edge outward", Region{Shape: sq}, vec.Vec2{X: 50}, xAxis, 200, 1},
		{"left edge inward", Region{Shape: sq}, vec.Vec2{X: -50}, xAxis, 200, 0.2},
		{"vertex inward", Region{Shape: sq}, vec.Vec2{X: 50, Y: 50}, vec.Vec2{X: -1, Y: -1}, 400, 0.1},
		{"vertex outward", Region{Shape: sq}, vec.Vec2{X: 50, Y: 50}, vec.Vec2{X: 1, Y: 1}, 400, 1},
		{"circle inward", Region{Shape: circle}, vec.Vec2{X: 50}, vec.Vec2{X: -1}, 200, 0.2},
		{"circle outward", Region{Shape: circle}, vec.Vec2{X: 50}, xAxis, 200, 1},
		{"circle tangent", Region{Shape: circle}, vec.Vec2{X: 50}, vec.Vec2{Y: 1}, 200, 1},
		{"ellipse inward", Region{Shape: flat}, vec.Vec2{Y: 25}, vec.Vec2{Y: -1}, 200, 0.2},
		{"ellipse outward", Region{Shape: flat}, vec.Vec2{Y: 25}, vec.Vec2{Y: 1}, 200, 1},
		{"mask inward", Region{Shape: everywhere, Mask: &sq}, vec.Vec2{X: 50}, vec.Vec2{X: -1}, 200, 0.2},
		{"mask outward", Region{Shape: everywhere, Mask: &sq}, vec.Vec2{X: 50}, xAxis, 200, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEngine()
			r := tc.region
			r.Limit = 40
			mustAdd(t, e, "a", r)

			got := e.CastRay(tc.origin, tc.dir, 0, 0, tc.rMax)
			if math.Abs(got-tc.want) > 1e-4 {
				t.Errorf("got %g, want %g", got, tc.want)
			}
			want := oracleCast(e, tc.origin, tc.dir, 0, 0, tc.rMax, 100000)
			if math.Abs(got-want) > 1e-3 {
				t.Errorf("got %g, oracle %g", got, want)
			}
		})
	}
}

func TestCastRayRMin(t *testing.T) {
	e := NewEngine()
	mustAdd(t, e, "a", Region{Shape: everywhere, Limit: 50})

	if got := e.CastRay(vec.Vec2{}, xAxis, 0, 20, 100); math.Abs(got-0.7) > 1e-9 {
		t.Errorf("got %g, want 0.7", got)
	}
	if got := e.CastRay(vec.Vec2{}, xAxis, 0, 150, 100); got != 1 {
		t.Errorf("rMin beyond rMax: got %g, want 1", got)
	}

	// crossings inside the free part only change the state
	e.Reset()
	mustAdd(t, e, "c", Region{Shape: NewCircle(vec.Vec2{X: 20}, 10), Limit: 5})
	if got := e.CastRay(vec.Vec2{}, xAxis, 0, 15, 100); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("free start inside region: got %g, want 0.2", got)
	}
	if got := e.CastRay(vec.Vec2{}, xAxis, 0, 40, 100); got != 1 {
		t.Errorf("region inside free part: got %g, want 1", got)
	}
}

func TestCastRayZSlope(t *testing.T) {
	e := NewEngine()
	mustAdd(t, e, "a", Region{Shape: everywhere, Limit: 50})

	// sqrt(3² + 1) = 2
	if got := e.CastRay(vec.Vec2{}, xAxis, math.Sqrt(3), 0, 100); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("got %g, want 0.25", got)
	}
	if got := e.CastRay(vec.Vec2{}, xAxis, -math.Sqrt(3), 0, 100); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("negative slope: got %g, want 0.25", got)
	}
}

func TestCastRayUnlimitedRegion(t *testing.T) {
	e := NewEngine()
	mustAdd(t, e, "a", Region{Shape: everywhere, Limit: 10})
	mustAdd(t, e, "b", Region{Shape: square(0, 0, 10), Limit: math.Inf(1), Key: SortKey{Priority: 1}})

	if got := e.CastRay(vec.Vec2{}, xAxis, 0, 0, 100); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("got %g, want 0.2", got)
	}
}

func TestCastRayMaskHole(t *testing.T) {
	ring := NewContours([][]vec.Vec2{
		{{X: -100, Y: -100}, {X: 100, Y: -100}, {X: 100, Y: 100}, {X: -100, Y: 100}},
		{{X: -30, Y: -30}, {X: 30, Y: -30}, {X: 30, Y: 30}, {X: -30, Y: 30}},
	})
	e := NewEngine()
	mustAdd(t, e, "a", Region{Shape: square(0, 0, 100), Mask: &ring, Limit: 10})

	if got := e.CastRay(vec.Vec2{}, xAxis, 0, 0, 100); math.Abs(got-0.4) > 1e-9 {
		t.Errorf("got %g, want 0.4", got)
	}

	// an empty mask disables the region
	empty := Shape{}
	if err := e.Update("a", RegionUpdate{Mask: &empty}); err != nil {
		t.Fatal(err)
	}
	if got := e.CastRay(vec.Vec2{}, xAxis, 0, 0, 100); got != 1 {
		t.Errorf("empty mask: got %g, want 1", got)
	}

	if err := e.Update("a", RegionUpdate{ClearMask: true}); err != nil {
		t.Fatal(err)
	}
	if got := e.CastRay(vec.Vec2{}, xAxis, 0, 0, 100); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("without mask: got %g, want 0.1", got)
	}
}

func TestCastRayDisabled(t *testing.T) {
	e := NewEngine()
	mustAdd(t, e, "a", Region{Shape: everywhere, Limit: 50, Disabled: true})
	if got := e.CastRay(vec.Vec2{}, xAxis, 0, 0, 100); got != 1 {
		t.Errorf("got %g, want 1", got)
	}

	enabled := false
	if err := e.Update("a", RegionUpdate{Disabled: &enabled}); err != nil {
		t.Fatal(err)
	}
	if got := e.CastRay(vec.Vec2{}, xAxis, 0, 0, 100); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("after enabling: got %g, want 0.5", got)
	}
}

func TestCastRayDeletion(t *testing.T) {
	regions := map[string]Region{
		"a": {Shape: square(0, 0, 60), Limit: 80},
		"b": {Shape: NewEllipse(vec.Vec2{X: 40, Y: 10}, 30, 15, 0.3), Limit: 20, Mode: ModeAdd, Key: SortKey{Sort: 1}},
		"c": {Shape: NewCircle(vec.Vec2{X: -30, Y: 30}, 25), Limit: 40, Mode: ModeMax, Key: SortKey{Sort: 2}},
	}

	e1 := NewEngine()
	e2 := NewEngine()
	for _, id := range []string{"a", "b", "c"} {
		mustAdd(t, e1, id, regions[id])
		if id != "b" {
			mustAdd(t, e2, id, regions[id])
		}
	}
	e1.Compile()
	if !e1.Delete("b") {
		t.Fatal("Delete returned false")
	}
	if e1.Delete("b") {
		t.Error("second Delete returned true")
	}

	for k := range 32 {
		dir := unit(2 * math.Pi * float64(k) / 32)
		o := vec.Vec2{X: 5, Y: -7}
		if t1, t2 := e1.CastRay(o, dir, 0.1, 3, 150), e2.CastRay(o, dir, 0.1, 3, 150); t1 != t2 {
			t.Errorf("direction %d: %g != %g", k, t1, t2)
		}
	}
}

func TestCastRayRepeatable(t *testing.T) {
	e := NewEngine()
	mustAdd(t, e, "a", Region{Shape: NewCircle(vec.Vec2{X: 40}, 30), Limit: 20})

	// origins closer than the grid size give identical results
	t1 := e.CastRay(vec.Vec2{X: 0.0001}, xAxis, 0, 0, 100)
	t2 := e.CastRay(vec.Vec2{X: -0.0001}, xAxis, 0, 0, 100)
	if t1 != t2 {
		t.Errorf("%g != %g", t1, t2)
	}
}

// TestCastRayScenario checks a square SET region followed by a circular ADD
// region further along the ray.  Combination is per point, so the square's
// rate does not carry over to the circle: 0.1 of the budget is used up in
// the square (x ∈ [0, 50]), the remaining 0.9 at rate 1/100 from x = 250 on.
func TestCastRayScenario(t *testing.T) {
	e := NewEngine()
	mustAdd(t, e, "A", Region{Shape: square(0, 0, 50), Limit: 500, Mode: ModeSet})
	mustAdd(t, e, "B", Region{Shape: NewCircle(vec.Vec2{X: 300}, 50), Limit: 100, Mode: ModeAdd, Key: SortKey{Sort: 1}})

	got := e.CastRay(vec.Vec2{}, xAxis, 0, 0, 1000)
	if math.Abs(got-0.34) > 1e-9 {
		t.Errorf("got %g, want 0.34", got)
	}
	want := oracleCast(e, vec.Vec2{}, xAxis, 0, 0, 1000, 200000)
	if math.Abs(got-want) > 1e-3 {
		t.Errorf("got %g, oracle %g", got, want)
	}
}

func TestCastRayNeverNaN(t *testing.T) {
	e := NewEngine()
	mustAdd(t, e, "a", Region{Shape: square(0, 0, 10), Limit: 1e-300})
	mustAdd(t, e, "b", Region{Shape: NewCircle(vec.Vec2{}, 5), Limit: 1e300, Mode: ModeAdd, Key: SortKey{Sort: 1}})

	for _, zSlope := range []float64{0, math.Inf(1), math.NaN(), 1e200} {
		for _, rMin := range []float64{math.Inf(-1), -1, 0, 5, math.NaN()} {
			got := e.CastRay(vec.Vec2{X: -20}, xAxis, zSlope, rMin, 100)
			if math.IsNaN(got) || got < 0 || got > 1 {
				t.Errorf("zSlope=%g rMin=%g: got %g", zSlope, rMin, got)
			}
		}
	}
}

func BenchmarkCastRay(b *testing.B) {
	e := NewEngine()
	for i := range 20 {
		phi := 2 * math.Pi * float64(i) / 20
		c := unit(phi).Mul(150)
		var s Shape
		if i%2 == 0 {
			s = NewCircle(c, 40)
		} else {
			s = square(c.X, c.Y, 35)
		}
		if err := e.Add(string(rune('a'+i)), Region{Shape: s, Limit: 60 + float64(i), Mode: Mode(i % 5), Key: SortKey{Sort: i}}); err != nil {
			b.Fatal(err)
		}
	}
	e.Compile()

	b.ReportAllocs()
	k := 0
	for b.Loop() {
		e.CastRay(vec.Vec2{X: 3, Y: 1}, unit(float64(k)*0.01), 0, 5, 400)
		k++
	}
}
