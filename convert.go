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
	"image"
	"runtime"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ConversionID identifies a single conversion, it is used in log messages.
type ConversionID uuid.UUID

// GenConversionID returns a new random id.
func GenConversionID() (ConversionID, error) {
	id, idErr := uuid.NewRandom()
	return ConversionID(id), idErr
}

func (id ConversionID) String() string {
	return uuid.UUID(id).String()
}

// Conversion holds everything derived while converting one image. It is
// created by Converter.Convert and discarded afterwards.
type Conversion struct {
	ID      ConversionID
	Started time.Time
	Grid    *Grid
	Colors  []AverageColor
	Tiles   []ResolvedTile
	// RowsEmitted is the number of rows accepted by the sink.
	RowsEmitted int
}

// NumCols returns the number of columns of the mosaic.
func (c *Conversion) NumCols() int {
	return c.Grid.NumCols
}

// NumRows returns the number of rows of the mosaic.
func (c *Conversion) NumRows() int {
	return c.Grid.NumRows
}

// Converter converts images into mosaics. The resolution step is run through
// the Coordinator.
//
// A Converter keeps no state between conversions and may be used for several
// conversions at the same time; the coordinator decides whether resolutions
// run one after another.
type Converter struct {
	Tiles       TileSpec
	Coordinator Coordinator
	// NumRoutines is the number of goroutines computing average colors.
	NumRoutines int
	// Progress is called after each emitted row with the number of emitted
	// rows, nil is the same as ProgressIgnore.
	Progress ProgressFunc
}

// NewConverter returns a new converter. NumRoutines is set to the number of
// CPUs.
func NewConverter(tiles TileSpec, coordinator Coordinator) *Converter {
	numRoutines := runtime.NumCPU()
	if numRoutines <= 0 {
		numRoutines = 4
	}
	return &Converter{
		Tiles:       tiles,
		Coordinator: coordinator,
		NumRoutines: numRoutines,
		Progress:    ProgressIgnore,
	}
}

// Convert partitions the image, computes the average colors, resolves them
// and streams the rows of resolved tiles to sink, top to bottom.
//
// If the grid is empty the resolver is not called and no row is emitted.
// Errors wrap ErrInvalidDimension, ErrResolverFailure or ErrStreamSinkFailure.
// On a resolver error sink is never called. The returned conversion is nil on
// error, everything computed is discarded.
func (converter *Converter) Convert(ctx context.Context, img image.Image, sink RowSink) (*Conversion, error) {
	id, idErr := GenConversionID()
	if idErr != nil {
		return nil, idErr
	}
	conversion := &Conversion{ID: id, Started: time.Now()}
	logger := log.WithField("conversion", id.String())

	grid, err := Partition(img, converter.Tiles)
	if err != nil {
		return nil, err
	}
	conversion.Grid = grid
	logger = logger.WithFields(log.Fields{
		"cols": grid.NumCols,
		"rows": grid.NumRows,
	})
	if grid.Empty() {
		logger.Debug("Empty grid, nothing to resolve")
		return conversion, nil
	}

	conversion.Colors = ComputeAverageColors(grid.Pieces, converter.NumRoutines)
	logger.WithField("tiles", len(conversion.Colors)).Debug("Resolving average colors")

	tiles, err := converter.Coordinator.Run(ctx, conversion.Colors)
	if err != nil {
		return nil, err
	}
	conversion.Tiles = tiles

	progress := converter.Progress
	if progress == nil {
		progress = ProgressIgnore
	}
	emit := func(row int, rowTiles MosaicRow) error {
		if sinkErr := sink(row, rowTiles); sinkErr != nil {
			return sinkErr
		}
		conversion.RowsEmitted++
		progress(conversion.RowsEmitted)
		return nil
	}
	if err := Stream(grid.NumCols, grid.NumRows, tiles, emit); err != nil {
		return nil, err
	}
	logger.WithField("took", time.Since(conversion.Started)).Debug("Mosaic streamed")
	return conversion, nil
}
