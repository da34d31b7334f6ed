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

package main

import (
	"fmt"
	"strings"

	"github.com/FabianWe/colormosaic"
	"github.com/spf13/cobra"
)

var colorsCmd = &cobra.Command{
	Use:   "colors <image>",
	Short: "Print the average colour of each tile, one row per line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		img, err := loadImage(cfg, args[0])
		if err != nil {
			return err
		}
		grid, err := colormosaic.Partition(img, colormosaic.NewTileSpec(cfg.Tile.Width, cfg.Tile.Height))
		if err != nil {
			return err
		}
		colors := colormosaic.ComputeAverageColors(grid.Pieces, cfg.Worker.Routines)
		out := cmd.OutOrStdout()
		for row := 0; row < grid.NumRows; row++ {
			hexes := make([]string, grid.NumCols)
			for col := range hexes {
				hexes[col] = colors[row*grid.NumCols+col].Hex()
			}
			fmt.Fprintln(out, strings.Join(hexes, " "))
		}
		return nil
	},
}
