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

// Command genmask writes the reveal masks of the example scenes, or of
// scene files given on the command line, as PNG images.
//
// Usage:
//
//	genmask [-o dir] [-vector] [scene.yaml ...]
//
// With -vector, masks are drawn using golang.org/x/image/vector instead of
// the mask package, for comparison.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/rangelimit/mask"
	"seehuhn.de/go/rangelimit/scene"
	"seehuhn.de/go/rangelimit/testcases"
)

var (
	outDir    = flag.String("o", "testdata/masks", "output directory")
	useVector = flag.Bool("vector", false, "rasterise using golang.org/x/image/vector")
	size      = flag.Int("size", 256, "image size for scene files")
)

func main() {
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var cases []testcases.TestCase
	var names []string
	if flag.NArg() == 0 {
		for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
			for _, tc := range testcases.All[category] {
				cases = append(cases, tc)
				names = append(names, category+"_"+tc.Name)
			}
		}
	} else {
		for _, fname := range flag.Args() {
			s, err := scene.LoadFile(fname)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			tc, err := fitCase(s, *size)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", fname, err)
				os.Exit(1)
			}
			cases = append(cases, tc)
			names = append(names, strings.TrimSuffix(filepath.Base(fname), filepath.Ext(fname)))
		}
	}

	for i, tc := range cases {
		if err := writeMask(tc, filepath.Join(*outDir, names[i]+".png")); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", names[i], err)
			os.Exit(1)
		}
	}
}

// fitCase wraps a scene file into a square test case, scaled so that the
// whole sweep is visible.
func fitCase(s *scene.Scene, size int) (testcases.TestCase, error) {
	if s.Viewer == nil {
		return testcases.TestCase{}, fmt.Errorf("%w: no viewer", scene.ErrInvalid)
	}
	origin, sweep, err := s.Viewer.Points()
	if err != nil {
		return testcases.TestCase{}, err
	}
	reach := 0.0
	for _, w := range sweep {
		reach = max(reach, w.Sub(origin).Length())
	}
	scale := 1.0
	if reach > 0 {
		scale = float64(size) / (2 * reach)
	}
	return testcases.TestCase{Scene: s, Width: size, Height: size, Scale: scale}, nil
}

func writeMask(tc testcases.TestCase, fname string) (err error) {
	poly, err := tc.Scene.Limit()
	if err != nil {
		return err
	}

	img := image.NewAlpha(image.Rect(0, 0, tc.Width, tc.Height))
	if *useVector {
		drawVector(img, tc.CTM(), poly)
	} else {
		r := mask.NewRasteriser(rect.Rect{URx: float64(tc.Width), URy: float64(tc.Height)})
		r.CTM = tc.CTM()
		r.Reveal(img, poly)
	}

	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img)
}

func drawVector(img *image.Alpha, m matrix.Matrix, poly []vec.Vec2) {
	if len(poly) < 3 {
		return
	}
	b := img.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	for i, p := range poly {
		x := float32(m[0]*p.X + m[2]*p.Y + m[4])
		y := float32(m[1]*p.X + m[3]*p.Y + m[5])
		if i == 0 {
			r.MoveTo(x, y)
		} else {
			r.LineTo(x, y)
		}
	}
	r.ClosePath()
	r.Draw(img, b, image.Opaque, image.Point{})
}
