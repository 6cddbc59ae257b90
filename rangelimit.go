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

// Package rangelimit computes how far sight or light may travel along a ray
// through a 2D scene made of overlapping range-limiting regions.
//
// Each [Region] imposes a maximum travel distance (its limit) wherever its
// shape, and optionally its mask, contains a point. Overlapping regions are
// combined in the order of their [SortKey] using a [Mode]. An [Engine] holds
// the regions and answers two kinds of queries: [Engine.EstimateLimits]
// returns a cheap, conservative bracket for all rays leaving a point, and
// [Engine.CastRay] returns the exact point at which a single ray runs out of
// range. A [Sampler] uses these queries to bend the output of a visibility
// sweep into a range-limited polygon.
//
// None of the types in this package are safe for concurrent use.
package rangelimit

//go:generate go run ./testcases/export

// Numerical tolerances.
const (
	// quantum is the grid size to which ray origins and ray vectors are
	// rounded, so that repeated queries from the same logical point give
	// bit-identical results.
	quantum = 1.0 / 256

	// degenerateAreaThreshold is the minimum absolute area of a polygon.
	// Smaller polygons are treated as empty.
	degenerateAreaThreshold = 1e-10

	// singularThreshold is the minimum absolute determinant of the affine
	// map describing an ellipse.
	singularThreshold = 1e-12

	// coincideThreshold is the distance below which two consecutive output
	// vertices are considered to be the same point.
	coincideThreshold = 1e-9

	// parallelThreshold is used to detect rays parallel to a wall chord.
	parallelThreshold = 1e-12
)

// Default values for sampler parameters.
const (
	// DefaultPrecision is the default maximum chord error of a limited
	// polygon, in scene units.
	DefaultPrecision = 0.5

	// DefaultMaxDepth is the default maximum number of times an angular
	// interval between two sweep rays is bisected.
	DefaultMaxDepth = 10

	// DefaultFlatness is the default tolerance used when curved paths are
	// converted into polygon shapes.
	DefaultFlatness = 0.25
)
