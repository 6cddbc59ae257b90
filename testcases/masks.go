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

var maskCases = []TestCase{
	{
		Name: "ring_mask",
		Scene: &scene.Scene{
			Regions: []scene.RegionSpec{
				{ID: "base", Shape: everywhere, Limit: limit(110)},
				{
					ID:    "swamp",
					Shape: everywhere,
					Mask: &scene.ShapeSpec{Contours: [][][]float64{
						scene.Pairs(box(-70, -70, 70, 70)),
						scene.Pairs(box(-30, -30, 30, 30)),
					}},
					Limit: limit(40),
					Sort:  1,
				},
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
		Name: "unlimited_patch",
		Scene: &scene.Scene{
			Regions: []scene.RegionSpec{
				{ID: "night", Shape: everywhere, Limit: limit(40)},
				{ID: "torch", Shape: circle(60, 0, 30), Sort: 1},
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
		Name: "disabled",
		Scene: &scene.Scene{
			Regions: []scene.RegionSpec{
				{ID: "base", Shape: everywhere, Limit: limit(70)},
				{ID: "off", Shape: circle(30, 30, 60), Limit: limit(5), Disabled: true, Sort: 1},
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
		Name: "empty_mask",
		Scene: &scene.Scene{
			Regions: []scene.RegionSpec{
				{ID: "base", Shape: everywhere, Limit: limit(70)},
				{
					ID:    "hidden",
					Shape: everywhere,
					Mask:  &scene.ShapeSpec{Polygon: [][]float64{{0, 0}, {10, 10}}},
					Limit: limit(5),
					Sort:  1,
				},
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
}
