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

var basicCases = []TestCase{
	{
		Name: "uniform_room",
		Scene: &scene.Scene{
			Regions: []scene.RegionSpec{
				{ID: "fog", Shape: everywhere, Limit: limit(60)},
			},
			Viewer: &scene.Viewer{
				Origin: []float64{0, 0},
				Sweep:  room(100),
				Closed: true,
			},
		},
		Width:  128,
		Height: 128,
		Scale:  0.5,
	},
	{
		Name: "partial_wall",
		Scene: &scene.Scene{
			Regions: []scene.RegionSpec{
				{ID: "fog", Shape: everywhere, Limit: limit(120)},
			},
			Viewer: &scene.Viewer{
				Origin: []float64{0, 0},
				Sweep:  room(100),
				Closed: true,
			},
		},
		Width:  128,
		Height: 128,
		Scale:  0.5,
	},
	{
		Name: "near_radius",
		Scene: &scene.Scene{
			Regions: []scene.RegionSpec{
				{ID: "fog", Shape: everywhere, Limit: limit(40)},
			},
			Viewer: &scene.Viewer{
				Origin: []float64{0, 0},
				RNear:  25,
				Sweep:  room(100),
				Closed: true,
			},
		},
		Width:  128,
		Height: 128,
		Scale:  0.5,
	},
	{
		Name: "cone",
		Scene: &scene.Scene{
			Regions: []scene.RegionSpec{
				{ID: "fog", Shape: everywhere, Limit: limit(80)},
			},
			Viewer: &scene.Viewer{
				Origin: []float64{-50, -50},
				Sweep: [][]float64{
					{100, -50}, {100, 20}, {60, 100}, {-50, 100},
				},
			},
		},
		Width:  128,
		Height: 128,
		Scale:  0.5,
	},
	{
		Name: "cave",
		Scene: &scene.Scene{
			Regions: []scene.RegionSpec{
				{ID: "fog", Shape: everywhere, Limit: limit(70)},
			},
			Viewer: &scene.Viewer{
				Origin: []float64{0, 0},
				Sweep:  cave(48, 80, 0.3),
				Closed: true,
			},
		},
		Width:  128,
		Height: 128,
		Scale:  0.5,
	},
	{
		Name: "no_regions",
		Scene: &scene.Scene{
			Viewer: &scene.Viewer{
				Origin: []float64{0, 0},
				Sweep:  cave(12, 80, 0.3),
				Closed: true,
			},
		},
		Width:  128,
		Height: 128,
		Scale:  0.5,
	},
}
