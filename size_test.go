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
	"image/color"
	"testing"
)

func TestPreferredSize(t *testing.T) {
	tests := []struct {
		name             string
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{"fits", 100, 50, 200, 200, 100, 50},
		{"too wide", 400, 100, 200, 200, 200, 50},
		{"too high", 100, 400, 200, 200, 50, 200},
		{"both", 1000, 500, 200, 200, 200, 100},
		{"unbounded", 5000, 3000, 0, 0, 5000, 3000},
		{"width only", 400, 300, 200, 0, 200, 150},
		{"tiny", 1000, 1, 10, 10, 10, 1},
		{"invalid", 0, 10, 100, 100, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := PreferredSize(tt.w, tt.h, tt.maxW, tt.maxH)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFitImage(t *testing.T) {
	img := createUniformImage(40, 20, color.White)
	if got := FitImage(img, 100, 100, nil); got != img {
		t.Error("image that fits should be returned unchanged")
	}
	imagingResizer, err := GetResizer("imaging", 1)
	if err != nil {
		t.Fatalf("GetResizer failed: %v", err)
	}
	for _, resizer := range []ImageResizer{nil, imagingResizer, NewNfntResizer(GetInterP(0))} {
		got := FitImage(img, 10, 10, resizer)
		if b := got.Bounds(); b.Dx() != 10 || b.Dy() != 5 {
			t.Errorf("resizer %T: got %dx%d, want 10x5", resizer, b.Dx(), b.Dy())
		}
	}
}

func TestGetResizer(t *testing.T) {
	for _, name := range []string{"", "nfnt", "imaging", "IMAGING"} {
		if _, err := GetResizer(name, 3); err != nil {
			t.Errorf("%q: unexpected error %v", name, err)
		}
	}
	if _, err := GetResizer("magic", 3); err == nil {
		t.Error("expected error for unknown resizer")
	}
}
