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

package testcases

import (
	"seehuhn.de/go/rangelimit/scene"
)

var modeCases = []TestCase{
	{
		Name: "add_circle",
		Scene: &scene.Scene{
			Regions: []scene.RegionSpec{
				{ID: "base", Shape: everywhere, Limit: limit(100)},
				{ID: "smoke", Shape: circle(80, 0, 40), Limit: limit(50), Mode: "add", Sort: 1},
			},
			Viewer: &scene.Viewer{
				Origin: []float64{0, 0},
				Sweep:  room(150),
				Closed: true,
			},
		},
		Width:  160,
		Height: 160,
		Scale:  0.5,
	},
	{
		Name: "sub_circle",
		Scene: &scene.Scene{
			Regions: []scene.RegionSpec{
				{ID: "base", Shape: everywhere, Limit: limit(50)},
				{ID: "lantern", Shape: circle(0, 60, 40), Limit: limit(100), Mode: "sub", Sort: 1},
			},
			Viewer: &scene.Viewer{
				Origin: []float64{0, 0},
				Sweep:  room(150),
				Closed: true,
			},
		},
		Width:  160,
		Height: 160,
		Scale:  0.5,
	},
	{
		Name: "min_max",
		Scene: &scene.Scene{
			Regions: []scene.RegionSpec{
				{ID: "base", Shape: everywhere, Limit: limit(80)},
				{ID: "dark", Shape: scene.ShapeSpecFromEllipse(pt(-60, 20), 50, 25, 30), Limit: limit(30), Mode: "max", Sort: 1},
				{ID: "clear", Shape: scene.ShapeSpecFromPolygon(box(20, -80, 90, -10)), Limit: limit(200), Mode: "min", Sort: 2},
			},
			Viewer: &scene.Viewer{
				Origin: []float64{0, 0},
				Sweep:  room(120),
				Closed: true,
			},
		},
		Width:  128,
		Height: 128,
		Scale:  0.5,
	},
	{
		// The square uses a tenth of the range, the circle the rest, so
		// that rays along the x-axis end at x = 340.
		Name: "square_then_circle",
		Scene: &scene.Scene{
			Regions: []scene.RegionSpec{
				{ID: "A", Shape: scene.ShapeSpecFromPolygon(box(-50, -50, 50, 50)), Limit: limit(500)},
				{ID: "B", Shape: circle(300, 0, 50), Limit: limit(100), Mode: "add", Sort: 1},
			},
			Viewer: &scene.Viewer{
				Origin: []float64{0, 0},
				Sweep:  [][]float64{{1000, -30}, {1000, 30}},
			},
		},
		Width:  200,
		Height: 64,
		Scale:  0.25,
	},
	{
		Name: "priority_order",
		Scene: &scene.Scene{
			Regions: []scene.RegionSpec{
				// applied last despite coming first
				{ID: "top", Shape: circle(40, 40, 50), Limit: limit(20), Priority: 1},
				{ID: "base", Shape: everywhere, Limit: limit(90)},
				{ID: "haze", Shape: circle(-40, -40, 50), Limit: limit(60), Mode: "add", Elevation: 2},
			},
			Viewer: &scene.Viewer{
				Origin: []float64{0, 0},
				Sweep:  room(120),
				Closed: true,
			},
		},
		Width:  128,
		Height: 128,
		Scale:  0.5,
	},
}
