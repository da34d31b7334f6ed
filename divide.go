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
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/clone"
	log "github.com/sirupsen/logrus"
)

// TileSpec describes the fixed size of the tiles in a mosaic. It is a
// configuration constant and not derived from the image.
type TileSpec struct {
	Width, Height int
}

// NewTileSpec returns a new TileSpec.
func NewTileSpec(width, height int) TileSpec {
	return TileSpec{Width: width, Height: height}
}

// Validate returns an error wrapping ErrInvalidDimension if one of the tile
// dimensions is not positive.
func (spec TileSpec) Validate() error {
	if spec.Width <= 0 || spec.Height <= 0 {
		return fmt.Errorf("%w: tile size must be positive, got %dx%d",
			ErrInvalidDimension, spec.Width, spec.Height)
	}
	return nil
}

func (spec TileSpec) String() string {
	return fmt.Sprintf("%dx%d", spec.Width, spec.Height)
}

// GridSize computes the number of columns and rows for an image of the given
// size. Both are rounded to the nearest integer, thus the grid may cover a
// bit less or a bit more than the image. The result may be zero in one
// dimension, in this case the grid is empty.
func (spec TileSpec) GridSize(width, height int) (numCols, numRows int) {
	numCols = int(math.Round(float64(width) / float64(spec.Width)))
	numRows = int(math.Round(float64(height) / float64(spec.Height)))
	return
}

// ImagePiece is one cell of the grid: its position and the pixels of the
// image in that cell. Bounds is already clipped to the image bounds, for edge
// tiles it might be smaller than the tile size or even empty.
type ImagePiece struct {
	Row, Col int
	Bounds   image.Rectangle
	Pixels   image.Image
}

// Empty returns true if the piece contains no pixels.
func (piece ImagePiece) Empty() bool {
	return piece.Pixels == nil || piece.Bounds.Empty()
}

// Grid is the result of partitioning an image.
//
// Pieces are stored in row-major order: All pieces of row 0 from left to right,
// then row 1 and so on. That is the piece k is in row k / NumCols and column
// k % NumCols. This order is preserved through all later stages.
type Grid struct {
	NumCols, NumRows int
	Pieces           []ImagePiece
}

// Len returns the number of tiles in the grid.
func (grid *Grid) Len() int {
	return grid.NumCols * grid.NumRows
}

// Empty returns true if the grid has no tiles.
func (grid *Grid) Empty() bool {
	return grid.NumCols == 0 || grid.NumRows == 0
}

// Get returns the piece in row and column col.
func (grid *Grid) Get(row, col int) ImagePiece {
	return grid.Pieces[row*grid.NumCols+col]
}

// Divide computes the tile rectangles for an image with the given bounds in
// row-major order. Rectangles are clipped to bounds. The rectangles are
// relative to bounds.Min.
func (spec TileSpec) Divide(bounds image.Rectangle) (numCols, numRows int, rects []image.Rectangle, err error) {
	if err = spec.Validate(); err != nil {
		return
	}
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		err = fmt.Errorf("%w: image size must be positive, got %dx%d",
			ErrInvalidDimension, bounds.Dx(), bounds.Dy())
		return
	}
	numCols, numRows = spec.GridSize(bounds.Dx(), bounds.Dy())
	rects = make([]image.Rectangle, 0, numCols*numRows)
	for i := 0; i < numRows; i++ {
		for j := 0; j < numCols; j++ {
			x0 := bounds.Min.X + j*spec.Width
			y0 := bounds.Min.Y + i*spec.Height
			r := image.Rect(x0, y0, x0+spec.Width, y0+spec.Height)
			// clip, don't pad
			rects = append(rects, r.Intersect(bounds))
		}
	}
	return
}

// Partition divides the image into tiles of the given size and returns the
// grid with the pieces in row-major order.
//
// Images without a SubImage method are copied into an RGBA image first. An
// error wrapping ErrInvalidDimension is returned if the image or the tile size
// is not positive, no other error is possible.
func Partition(img image.Image, spec TileSpec) (*Grid, error) {
	numCols, numRows, rects, err := spec.Divide(img.Bounds())
	if err != nil {
		return nil, err
	}
	if _, ok := img.(SubImager); !ok {
		img = clone.AsRGBA(img)
	}
	pieces := make([]ImagePiece, len(rects))
	for k, r := range rects {
		piece := ImagePiece{Row: k / numCols, Col: k % numCols, Bounds: r}
		if !r.Empty() {
			subImg, subErr := SubImage(img, r)
			if subErr != nil {
				return nil, subErr
			}
			piece.Pixels = subImg
		}
		pieces[k] = piece
	}
	log.WithFields(log.Fields{
		"cols": numCols,
		"rows": numRows,
		"tile": spec.String(),
	}).Debug("Partitioned image")
	return &Grid{NumCols: numCols, NumRows: numRows, Pieces: pieces}, nil
}
