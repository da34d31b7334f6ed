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
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComputeAverageColor_Uniform(t *testing.T) {
	img := createUniformImage(16, 16, color.RGBA{10, 20, 30, 255})
	got := ComputeAverageColor(img)
	want := AverageColor{R: 10, G: 20, B: 30, A: 255}
	if got != want {
		t.Errorf("average: got %+v, want %+v", got, want)
	}
	if got.Hex() != "#0a141e" {
		t.Errorf("hex: got %s, want #0a141e", got.Hex())
	}
}

func TestComputeAverageColor_Rounding(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{0, 0, 0, 255})
	img.Set(1, 0, color.RGBA{1, 2, 255, 255})
	// means: 0.5, 1, 127.5
	got := ComputeAverageColor(img)
	want := AverageColor{R: 1, G: 1, B: 128, A: 255}
	if got != want {
		t.Errorf("average: got %+v, want %+v", got, want)
	}

	img = image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{1, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 0, 0, 255})
	img.Set(2, 0, color.RGBA{0, 0, 0, 255})
	// 1/3 rounds down
	if got := ComputeAverageColor(img); got.R != 0 {
		t.Errorf("R: got %d, want 0", got.R)
	}
}

func TestComputeAverageColor_Empty(t *testing.T) {
	empty := image.NewRGBA(image.Rect(3, 3, 3, 3))
	if got := ComputeAverageColor(empty); got != SentinelColor {
		t.Errorf("empty image: got %+v, want sentinel", got)
	}
	if got := ComputeAverageColor(nil); got != SentinelColor {
		t.Errorf("nil image: got %+v, want sentinel", got)
	}
	if got := PieceAverageColor(ImagePiece{}); got != SentinelColor {
		t.Errorf("empty piece: got %+v, want sentinel", got)
	}
}

func TestComputeAverageColor_Transparent(t *testing.T) {
	img := createUniformImage(4, 4, color.NRGBA{200, 100, 50, 128})
	got := ComputeAverageColor(img)
	if got.A != 128 {
		t.Errorf("alpha: got %d, want 128", got.A)
	}
	// the channels are not premultiplied, allow a rounding error from the
	// premultiplied storage
	for name, pair := range map[string][2]uint8{
		"R": {got.R, 200}, "G": {got.G, 100}, "B": {got.B, 50},
	} {
		diff := int(pair[0]) - int(pair[1])
		if diff < -1 || diff > 1 {
			t.Errorf("%s: got %d, want about %d", name, pair[0], pair[1])
		}
	}
}

func TestComputeAverageColors_Order(t *testing.T) {
	img := createPixelImage(16, 8)
	grid, err := Partition(img, NewTileSpec(1, 1))
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	want := make([]AverageColor, len(grid.Pieces))
	for k := range want {
		want[k] = AverageColor{R: uint8(k), A: 255}
	}
	for _, routines := range []int{0, 1, 3, 16} {
		got := ComputeAverageColors(grid.Pieces, routines)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("routines %d: colors mismatch (-want +got):\n%s", routines, diff)
		}
	}
	if got := ComputeAverageColors(nil, 4); len(got) != 0 {
		t.Errorf("nil pieces: got %d colors", len(got))
	}
}

func TestAverageColor_Dist(t *testing.T) {
	a := AverageColor{R: 0, G: 0, B: 0}
	b := AverageColor{R: 3, G: 4, B: 0, A: 255}
	if got := a.Dist(b, EuclideanDistance); got != 5 {
		t.Errorf("euclid: got %f, want 5", got)
	}
	if got := a.Dist(b, Manhattan); got != 7 {
		t.Errorf("manhattan: got %f, want 7", got)
	}
	if got := a.Dist(b, ChessboardDistance); got != 4 {
		t.Errorf("chessboard: got %f, want 4", got)
	}
}
