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
)

// RowSink receives the rows of a mosaic. row is the index of the row, rows
// are always delivered in ascending order starting with 0.
// Returning an error stops the streaming.
type RowSink func(row int, tiles MosaicRow) error

// Stream slices tiles into numRows rows of numCols tiles and calls emit once
// for each row, top to bottom.
//
// If emit returns an error no further rows are emitted and an error wrapping
// ErrStreamSinkFailure is returned. Rows already emitted stay emitted.
// len(tiles) must be numCols * numRows.
func Stream(numCols, numRows int, tiles []ResolvedTile, emit RowSink) error {
	if numCols < 0 || numRows < 0 {
		return fmt.Errorf("%w: grid size must not be negative, got %dx%d",
			ErrInvalidDimension, numCols, numRows)
	}
	if len(tiles) != numCols*numRows {
		return fmt.Errorf("%w: expected %d tiles for %dx%d grid, got %d",
			ErrTileCountMismatch, numCols*numRows, numCols, numRows, len(tiles))
	}
	if numCols == 0 {
		return nil
	}
	for row := 0; row < numRows; row++ {
		start := row * numCols
		// full slice expression: the sink can't append into the next row
		rowTiles := MosaicRow(tiles[start : start+numCols : start+numCols])
		if err := emit(row, rowTiles); err != nil {
			return fmt.Errorf("%w: row %d: %w", ErrStreamSinkFailure, row, err)
		}
	}
	return nil
}
