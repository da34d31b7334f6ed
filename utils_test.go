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
	"bytes"
	"errors"
	"testing"
)

func TestParseDimensions(t *testing.T) {
	width, height, err := ParseDimensions("16x32")
	if err != nil {
		t.Fatalf("ParseDimensions failed: %v", err)
	}
	if width != 16 || height != 32 {
		t.Errorf("got %dx%d, want 16x32", width, height)
	}
	if _, _, err := ParseDimensions(" 8 x 4 "); err != nil {
		t.Errorf("spaces: unexpected error %v", err)
	}
	for _, s := range []string{"16", "axb", "16x", "1x2x3"} {
		if _, _, err := ParseDimensions(s); err == nil {
			t.Errorf("%q: expected error", s)
		}
	}
	for _, s := range []string{"0x16", "16x-1"} {
		if _, _, err := ParseDimensions(s); !errors.Is(err, ErrInvalidDimension) {
			t.Errorf("%q: expected ErrInvalidDimension, got %v", s, err)
		}
	}
}

func TestParseTileSpec(t *testing.T) {
	spec, err := ParseTileSpec("10x20")
	if err != nil {
		t.Fatalf("ParseTileSpec failed: %v", err)
	}
	if spec != NewTileSpec(10, 20) {
		t.Errorf("got %s, want 10x20", spec)
	}
	if spec.String() != "10x20" {
		t.Errorf("String: got %s", spec.String())
	}
}

func TestKeepRatio(t *testing.T) {
	if got := KeepRatioHeight(200, 100, 50); got != 25 {
		t.Errorf("KeepRatioHeight: got %d, want 25", got)
	}
	if got := KeepRatioWidth(200, 100, 50); got != 100 {
		t.Errorf("KeepRatioWidth: got %d, want 100", got)
	}
	if got := KeepRatioHeight(3, 2, 4); got != 3 {
		t.Errorf("KeepRatioHeight rounding: got %d, want 3", got)
	}
}

func TestStdProgressFunc(t *testing.T) {
	var buf bytes.Buffer
	progress := StdProgressFunc(&buf, "rows", 4, 2)
	for i := 1; i <= 4; i++ {
		progress(i)
	}
	want := "rows: 2 of 4 (50.0%)\nrows: 4 of 4 (100.0%)\n"
	if buf.String() != want {
		t.Errorf("output: got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	StdProgressFunc(&buf, "", 4, 0)(4)
	if buf.Len() != 0 {
		t.Errorf("step 0 should not report, got %q", buf.String())
	}
}

func TestDecodableImage(t *testing.T) {
	for _, ext := range []string{".jpg", ".JPEG", ".png", ".gif", ".webp"} {
		if !DecodableImage(ext) {
			t.Errorf("%s should be supported", ext)
		}
	}
	if DecodableImage(".txt") {
		t.Error(".txt should not be supported")
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#FF8000")
	if err != nil {
		t.Fatalf("ParseHex failed: %v", err)
	}
	if c != NewRGBA(255, 128, 0, 255) {
		t.Errorf("got %+v", c)
	}
	if c.Hex() != "#ff8000" {
		t.Errorf("Hex: got %s", c.Hex())
	}
	if _, err := ParseHex("00ff00"); err != nil {
		t.Errorf("without #: %v", err)
	}
	for _, s := range []string{"", "#fff", "#gg0000", "#12345678"} {
		if _, err := ParseHex(s); err == nil {
			t.Errorf("%q: expected error", s)
		}
	}
}
