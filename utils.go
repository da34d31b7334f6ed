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
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	// BufferSize is the (default) size of buffers. Some methods create buffered
	// channels, this parameter controls how big such buffers might be.
	// Usually such buffers store no big data (ints, bools etc.).
	BufferSize = 1000
)

// ProgressFunc is a function that is used to inform a caller about the progress
// of a called function.
// The called method calls the process function after each iteration.
type ProgressFunc func(num int)

// ProgressIgnore is a ProgressFunc that does nothing.
func ProgressIgnore(num int) {}

// StdProgressFunc is a parameterized ProgressFunc that writes to w.
// The output describes the progress (how many of how many objects processed).
// Lines may have an addition prefix. max is the total number of elements
// to process and step describes how often to print (for example
// step = 100 every 100 items, step < 0 on every item).
func StdProgressFunc(w io.Writer, prefix string, max, step int) ProgressFunc {
	return func(num int) {
		if !shouldReport(num, max, step) {
			return
		}
		percent := progressPercent(num, max)
		if prefix == "" {
			fmt.Fprintf(w, "Progress: %d of %d (%.1f%%)\n", num, max, percent)
		} else {
			fmt.Fprintf(w, "%s: %d of %d (%.1f%%)\n", prefix, num, max, percent)
		}
	}
}

func shouldReport(num, max, step int) bool {
	if step == 0 || max == 0 {
		return false
	}
	return step < 0 || num%step == 0
}

func progressPercent(num, max int) float64 {
	percent := (float64(num) / float64(max)) * 100.0
	if percent > 100.0 {
		percent = 100.0
	}
	return percent
}

// ParseDimensions parses a string of the form "AxB" where A and B are positive
// integers.
func ParseDimensions(s string) (int, int, error) {
	split := strings.Split(s, "x")
	if len(split) != 2 {
		return -1, -1, fmt.Errorf("Invalid dimension format: %s. Expect \"AxB\"", s)
	}
	first, second := strings.TrimSpace(split[0]), strings.TrimSpace(split[1])
	firstInt, firstErr := strconv.Atoi(first)
	if firstErr != nil {
		return -1, -1, firstErr
	}
	secondInt, secondErr := strconv.Atoi(second)
	if secondErr != nil {
		return -1, -1, secondErr
	}
	if firstInt <= 0 || secondInt <= 0 {
		return -1, -1, fmt.Errorf("%w: dimensions must be positive, got %d and %d",
			ErrInvalidDimension, firstInt, secondInt)
	}
	return firstInt, secondInt, nil
}

// ParseTileSpec parses a tile size of the form "AxB".
func ParseTileSpec(s string) (TileSpec, error) {
	width, height, err := ParseDimensions(s)
	if err != nil {
		return TileSpec{}, err
	}
	return NewTileSpec(width, height), nil
}

// KeepRatioHeight computes the new height given the original width and height
// s.t. the ration remains unchanged. The original values must be > 0.
func KeepRatioHeight(originalWidth, originalHeight, width int) int {
	ratio := float64(originalHeight) / float64(originalWidth)
	return int(math.Round(ratio * float64(width)))
}

// KeepRatioWidth computes the new width given the original width and height
// s.t. the ration remains unchanged. The original values must be > 0.
func KeepRatioWidth(originalWidth, originalHeight, height int) int {
	ratio := float64(originalWidth) / float64(originalHeight)
	return int(math.Round(ratio * float64(height)))
}
