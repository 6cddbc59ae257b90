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

var curvedCases = []TestCase{
	{
		Name: "rotated_ellipse",
		Scene: &scene.Scene{
			Regions: []scene.RegionSpec{
				{ID: "base", Shape: everywhere, Limit: limit(90)},
				{ID: "mist", Shape: scene.ShapeSpecFromEllipse(pt(40, 10), 60, 15, 60), Limit: limit(25), Mode: "add", Sort: 1},
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
		Name: "transformed_square",
		Scene: &scene.Scene{
			Regions: []scene.RegionSpec{
				{ID: "base", Shape: everywhere, Limit: limit(100)},
				{
					ID: "sheared",
					Shape: scene.ShapeSpec{
						Polygon:   scene.Pairs(box(-1, -1, 1, 1)),
						Transform: []float64{30, 10, 20, 40, -40, 30},
					},
					Limit: limit(30),
					Mode:  "min",
					Sort:  1,
				},
			},
			Viewer: &scene.Viewer{
				Origin: []float64{0, 0},
				Sweep:  cave(40, 110, 0.2),
				Closed: true,
			},
		},
		Width:  160,
		Height: 160,
		Scale:  0.5,
	},
	{
		Name: "elevated_viewer",
		Scene: &scene.Scene{
			Regions: []scene.RegionSpec{
				{ID: "base", Shape: everywhere, Limit: limit(80)},
				{ID: "pool", Shape: circle(-50, 0, 35), Limit: limit(20), Mode: "sub", Sort: 1},
			},
			Viewer: &scene.Viewer{
				Origin: []float64{0, 0},
				ZSlope: 0.75,
				Sweep:  room(100),
				Closed: true,
			},
		},
		Width:  128,
		Height: 128,
		Scale:  0.5,
	},
	{
		Name: "coarse",
		Scene: &scene.Scene{
			Regions: []scene.RegionSpec{
				{ID: "base", Shape: everywhere, Limit: limit(90)},
				{ID: "fog", Shape: circle(50, -30, 45), Limit: limit(40), Mode: "add", Sort: 1},
			},
			Viewer: &scene.Viewer{
				Origin:    []float64{0, 0},
				Precision: 4,
				Sweep:     cave(24, 100, 0.15),
				Closed:    true,
			},
		},
		Width:  128,
		Height: 128,
		Scale:  0.5,
	},
}
