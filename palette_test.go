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
	"testing"

	"github.com/google/go-cmp/cmp"
)

// hexResolver resolves each color to its hex value.
var hexResolver = NewLocalResolver(func(c AverageColor) (ResolvedTile, error) {
	return ResolvedTile(c.Hex()), nil
})

func TestParsePalette(t *testing.T) {
	palette, err := ParsePalette("#ff0000", "#00FF00")
	if err != nil {
		t.Fatalf("ParsePalette failed: %v", err)
	}
	want := []RGBA{{255, 0, 0, 255}, {0, 255, 0, 255}}
	if diff := cmp.Diff(want, palette); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}
	if _, err := ParsePalette("#ff0000", "red"); err == nil {
		t.Error("expected error for invalid entry")
	}
	if len(DefaultPalette) != 16 {
		t.Errorf("DefaultPalette: got %d colors", len(DefaultPalette))
	}
}

func TestPaletteResolver_Nearest(t *testing.T) {
	palette := MustParsePalette("#000000", "#ffffff", "#ff0000")
	for _, metric := range []ColorMetric{nil, VectorColorMetric(EuclideanDistance), CIEDE2000Distance} {
		resolver := NewPaletteResolver(palette, metric, hexResolver)
		tests := []struct {
			in   AverageColor
			want string
		}{
			{AverageColor{R: 10, G: 10, B: 10, A: 255}, "#000000"},
			{AverageColor{R: 240, G: 240, B: 250, A: 255}, "#ffffff"},
			{AverageColor{R: 220, G: 30, B: 20, A: 255}, "#ff0000"},
		}
		for _, tt := range tests {
			if got := resolver.Nearest(tt.in).Hex(); got != tt.want {
				t.Errorf("Nearest(%s): got %s, want %s", tt.in.Hex(), got, tt.want)
			}
		}
	}
}

func TestPaletteResolver_KeepsAlpha(t *testing.T) {
	resolver := NewPaletteResolver(DefaultPalette, nil, hexResolver)
	if got := resolver.Nearest(AverageColor{R: 250, A: 7}); got.A != 7 {
		t.Errorf("alpha: got %d, want 7", got.A)
	}
}

func TestPaletteResolver_Resolve(t *testing.T) {
	resolver := NewPaletteResolver(MustParsePalette("#000000", "#ffffff"), nil, hexResolver)
	tiles, err := resolver.Resolve(context.Background(), []AverageColor{
		{R: 250, G: 250, B: 250, A: 255},
		{R: 5, G: 5, B: 5, A: 255},
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if diff := cmp.Diff([]ResolvedTile{"#ffffff", "#000000"}, tiles); diff != "" {
		t.Errorf("tiles mismatch (-want +got):\n%s", diff)
	}

	empty := NewPaletteResolver(nil, nil, hexResolver)
	if _, err := empty.Resolve(context.Background(), []AverageColor{red}); err == nil {
		t.Error("expected error for empty palette")
	}
}
