// Copyright 2018 Fabian Wenzelmann
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package colormosaic

import (
	"context"
	"errors"
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultPalette contains the sixteen basic colors of HTML 4.
var DefaultPalette = MustParsePalette(
	"#000000", "#c0c0c0", "#808080", "#ffffff",
	"#800000", "#ff0000", "#800080", "#ff00ff",
	"#008000", "#00ff00", "#808000", "#ffff00",
	"#000080", "#0000ff", "#008080", "#00ffff",
)

// ParsePalette parses a list of hex colors ("#rrggbb").
func ParsePalette(colors ...string) ([]RGBA, error) {
	res := make([]RGBA, len(colors))
	for i, s := range colors {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("Invalid palette entry %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		res[i] = RGBA{R: r, G: g, B: b, A: 255}
	}
	return res, nil
}

// MustParsePalette is like ParsePalette but panics on error. It should only
// be used for package level variables.
func MustParsePalette(colors ...string) []RGBA {
	res, err := ParsePalette(colors...)
	if err != nil {
		panic(err)
	}
	return res
}

// PaletteResolver replaces each color by the closest palette color and then
// resolves the result with Next. The alpha of the average color is kept.
//
// The cost is proportional to the size of the palette.
type PaletteResolver struct {
	Palette []RGBA
	Metric  ColorMetric
	Next    ColorResolver
}

// NewPaletteResolver returns a new palette resolver. If metric is nil
// LabDistance is used.
func NewPaletteResolver(palette []RGBA, metric ColorMetric, next ColorResolver) *PaletteResolver {
	if metric == nil {
		metric = LabDistance
	}
	return &PaletteResolver{Palette: palette, Metric: metric, Next: next}
}

// Nearest returns the palette color with the smallest distance to c.
func (resolver *PaletteResolver) Nearest(c AverageColor) AverageColor {
	best := math.MaxFloat64
	var res RGBA
	for _, candidate := range resolver.Palette {
		dist := resolver.Metric(RGBA(c), candidate)
		if dist < best {
			best = dist
			res = candidate
		}
	}
	res.A = c.A
	return AverageColor(res)
}

// Resolve implements ColorResolver.
func (resolver *PaletteResolver) Resolve(ctx context.Context, colors []AverageColor) ([]ResolvedTile, error) {
	if len(resolver.Palette) == 0 {
		return nil, errors.New("Empty palette")
	}
	snapped := make([]AverageColor, len(colors))
	for i, c := range colors {
		snapped[i] = resolver.Nearest(c)
	}
	return resolver.Next.Resolve(ctx, snapped)
}
