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

// Package testcases holds example scenes for tests, benchmarks and the
// image generators under this directory.
package testcases

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/rangelimit/scene"
)

// TestCase defines a single range-limiting scene.
type TestCase struct {
	Name   string       // lowercase a-z and _ only
	Scene  *scene.Scene // regions and viewer
	Width  int          // canvas width in pixels
	Height int          // canvas height in pixels

	// Scale is the number of pixels per scene unit.  The viewer origin is
	// drawn at the centre of the canvas.
	Scale float64
}

// CTM returns the map from scene coordinates to pixel coordinates, with
// the y-axis pointing up.
func (tc *TestCase) CTM() matrix.Matrix {
	var o vec.Vec2
	if v := tc.Scene.Viewer; v != nil && len(v.Origin) == 2 {
		o = vec.Vec2{X: v.Origin[0], Y: v.Origin[1]}
	}
	s := tc.Scale
	if s == 0 {
		s = 1
	}
	return matrix.Matrix{
		s, 0,
		0, -s,
		float64(tc.Width)/2 - s*o.X, float64(tc.Height)/2 + s*o.Y,
	}
}

func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

func limit(l float64) *float64 {
	return &l
}

// box returns the corners of an axis-aligned rectangle in counter-clockwise
// order.
func box(x0, y0, x1, y1 float64) []vec.Vec2 {
	return []vec.Vec2{pt(x0, y0), pt(x1, y0), pt(x1, y1), pt(x0, y1)}
}

// room returns the sweep of a viewer at the centre of a square room.
func room(half float64) [][]float64 {
	return scene.Pairs([]vec.Vec2{
		pt(half, half), pt(-half, half), pt(-half, -half), pt(half, -half),
	})
}

// cave returns the sweep of a viewer in a star-shaped cave with n
// corners, whose walls vary in distance between r(1-bump) and r(1+bump).
func cave(n int, r, bump float64) [][]float64 {
	pts := make([]vec.Vec2, n)
	for i := range pts {
		phi := 2 * math.Pi * float64(i) / float64(n)
		d := r * (1 + bump*math.Cos(3*phi) + bump/2*math.Sin(7*phi))
		pts[i] = pt(d*math.Cos(phi), d*math.Sin(phi))
	}
	return scene.Pairs(pts)
}

// everywhere is a region shape covering all test canvases.
var everywhere = scene.ShapeSpecFromPolygon(box(-1000, -1000, 1000, 1000))

func circle(cx, cy, r float64) scene.ShapeSpec {
	return scene.ShapeSpecFromEllipse(pt(cx, cy), r, r, 0)
}
