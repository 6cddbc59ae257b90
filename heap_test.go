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
	"math/rand/v2"
	"testing"
)

func TestEventHeap(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	var h eventHeap
	for range 500 {
		// few distinct times, so that ties are common
		h.push(event{
			t:    float64(rng.IntN(20)) / 20,
			hit:  int32(rng.IntN(10)),
			mask: rng.IntN(2) == 0,
		})
	}

	prev := h.pop()
	for len(h) > 0 {
		ev := h.pop()
		if ev.before(prev) {
			t.Fatalf("%+v popped after %+v", ev, prev)
		}
		prev = ev
	}
}

func TestEventOrder(t *testing.T) {
	events := []event{
		{t: 0.1, hit: 5, mask: true},
		{t: 0.2, hit: 0, mask: false},
		{t: 0.2, hit: 0, mask: true},
		{t: 0.2, hit: 1, mask: false},
	}
	for i, a := range events {
		for j, b := range events {
			if got, want := a.before(b), i < j; got != want {
				t.Errorf("%+v before %+v = %t, want %t", a, b, got, want)
			}
		}
	}
}
