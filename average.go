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
	"image"
	"sync"
)

// AverageColor describes the average of the colors in one tile.
type AverageColor RGBA

// SentinelColor is the average color of a tile without any pixels: fully
// transparent black.
var SentinelColor = AverageColor{}

// RGBA returns the average as an RGBA color.
func (c AverageColor) RGBA() RGBA {
	return RGBA(c)
}

// Hex returns the average color as "#rrggbb".
func (c AverageColor) Hex() string {
	return RGBA(c).Hex()
}

// Dist returns the distance between the two average color vectors given the
// metric for the component vectors. Alpha is ignored.
func (c AverageColor) Dist(other AverageColor, metric VectorMetric) float64 {
	v1 := []float64{float64(c.R), float64(c.G), float64(c.B)}
	v2 := []float64{float64(other.R), float64(other.G), float64(other.B)}
	return metric(v1, v2)
}

// meanChannel returns sum / n rounded to the nearest integer and clamped to
// the range of a channel. n must be > 0.
func meanChannel(sum, n uint64) uint8 {
	res := (sum + n/2) / n
	if res > 255 {
		res = 255
	}
	return uint8(res)
}

// ComputeAverageColor computes the average color of an image. Each channel is
// the arithmetic mean over all pixels, rounded to the nearest integer.
// For empty images SentinelColor is returned.
func ComputeAverageColor(img image.Image) AverageColor {
	if img == nil {
		return SentinelColor
	}
	bounds := img.Bounds()

	// don't do anything for empty images
	if bounds.Empty() {
		return SentinelColor
	}
	// use big integers, otherwise large tiles might overflow
	var r, g, b, a uint64
	numPixels := uint64(bounds.Dx() * bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := ConvertRGBA(img.At(x, y))
			r += uint64(c.R)
			g += uint64(c.G)
			b += uint64(c.B)
			a += uint64(c.A)
		}
	}
	return AverageColor{
		R: meanChannel(r, numPixels),
		G: meanChannel(g, numPixels),
		B: meanChannel(b, numPixels),
		A: meanChannel(a, numPixels),
	}
}

// PieceAverageColor computes the average color of one piece.
func PieceAverageColor(piece ImagePiece) AverageColor {
	if piece.Empty() {
		return SentinelColor
	}
	return ComputeAverageColor(piece.Pixels)
}

// ComputeAverageColors computes the average colors of all pieces using
// numRoutines goroutines. The result has the same order as pieces.
func ComputeAverageColors(pieces []ImagePiece, numRoutines int) []AverageColor {
	if numRoutines <= 0 {
		numRoutines = 1
	}
	res := make([]AverageColor, len(pieces))
	if len(pieces) == 0 {
		return res
	}
	// each worker writes only res[k] for the jobs it got, so no locking
	jobs := make(chan int, BufferSize)
	var wg sync.WaitGroup
	wg.Add(len(pieces))

	for w := 0; w < numRoutines; w++ {
		go func() {
			for k := range jobs {
				res[k] = PieceAverageColor(pieces[k])
				wg.Done()
			}
		}()
	}

	go func() {
		for k := range pieces {
			jobs <- k
		}
		close(jobs)
	}()

	wg.Wait()
	return res
}
