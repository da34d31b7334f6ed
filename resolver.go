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
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"

	"github.com/gookit/color"
)

// ResolvedTile is the renderable unit for one tile, for example a markup
// fragment.
type ResolvedTile string

// MosaicRow is one row of resolved tiles.
type MosaicRow []ResolvedTile

// String joins all tiles in the row.
func (row MosaicRow) String() string {
	var b strings.Builder
	for _, tile := range row {
		b.WriteString(string(tile))
	}
	return b.String()
}

// ColorResolver maps average colors to resolved tiles.
//
// Resolve must return a slice of exactly the same length as colors where
// result[i] belongs to colors[i]. How this is achieved (one batch or each color
// on its own) is up to the implementation. If any color can't be resolved an
// error must be returned, partial results are not allowed.
//
// Implementations must be safe for concurrent use.
type ColorResolver interface {
	Resolve(ctx context.Context, colors []AverageColor) ([]ResolvedTile, error)
}

// ResolverFunc is a function that implements ColorResolver.
type ResolverFunc func(ctx context.Context, colors []AverageColor) ([]ResolvedTile, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, colors []AverageColor) ([]ResolvedTile, error) {
	return f(ctx, colors)
}

// TileFunc renders the tile for a single color without latency.
type TileFunc func(c AverageColor) (ResolvedTile, error)

// LocalResolver is a ColorResolver that applies a TileFunc to each color.
type LocalResolver struct {
	Render TileFunc
}

// NewLocalResolver returns a new LocalResolver.
func NewLocalResolver(render TileFunc) LocalResolver {
	return LocalResolver{Render: render}
}

// Resolve implements ColorResolver.
func (resolver LocalResolver) Resolve(ctx context.Context, colors []AverageColor) ([]ResolvedTile, error) {
	res := make([]ResolvedTile, len(colors))
	for i, c := range colors {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		tile, err := resolver.Render(c)
		if err != nil {
			return nil, fmt.Errorf("Can't render color %s (tile %d): %w", c.Hex(), i, err)
		}
		res[i] = tile
	}
	return res, nil
}

// SVGTile returns the svg markup of a tile: an ellipse filling the tile.
func SVGTile(spec TileSpec, c AverageColor) ResolvedTile {
	return ResolvedTile(fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><ellipse cx="50%%" cy="50%%" rx="50%%" ry="50%%" fill="%s"></ellipse></svg>`,
		spec.Width, spec.Height, c.Hex()))
}

// NewSVGResolver returns a resolver rendering each color as svg tile.
func NewSVGResolver(spec TileSpec) LocalResolver {
	return NewLocalResolver(func(c AverageColor) (ResolvedTile, error) {
		return SVGTile(spec, c), nil
	})
}

// EncodePNG encodes the image as base64 png.
func EncodePNG(img image.Image) (string, error) {
	var w strings.Builder
	encoder := base64.NewEncoder(base64.StdEncoding, &w)
	err := png.Encode(encoder, img)
	if err != nil {
		return "", err
	}
	err = encoder.Close()
	if err != nil {
		return "", err
	}
	return w.String(), nil
}

// PNGTile returns an img element with a solid png of the tile size as data
// uri.
func PNGTile(spec TileSpec, c AverageColor) (ResolvedTile, error) {
	img := image.NewNRGBA(image.Rect(0, 0, spec.Width, spec.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(RGBA(c).NRGBA()), image.Point{}, draw.Src)
	enc, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return ResolvedTile(fmt.Sprintf(`<img src="data:image/png;base64,%s" width="%d" height="%d">`,
		enc, spec.Width, spec.Height)), nil
}

// NewPNGResolver returns a resolver rendering each color as png data uri.
func NewPNGResolver(spec TileSpec) LocalResolver {
	return NewLocalResolver(func(c AverageColor) (ResolvedTile, error) {
		return PNGTile(spec, c)
	})
}

// ANSIBlock is the text printed for each tile by the ANSI resolver. Two
// spaces are roughly a square in most terminal fonts.
var ANSIBlock = "  "

// ANSITile returns a block with the color as 24-bit background color.
func ANSITile(c AverageColor) ResolvedTile {
	bg := color.RGB(c.R, c.G, c.B, true)
	return ResolvedTile(fmt.Sprintf("\x1b[%sm%s\x1b[0m", bg.Code(), ANSIBlock))
}

// NewANSIResolver returns a resolver rendering each color as colored block for
// terminals.
func NewANSIResolver() LocalResolver {
	return NewLocalResolver(func(c AverageColor) (ResolvedTile, error) {
		return ANSITile(c), nil
	})
}
