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
	"image/color"
	"reflect"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// SupportedImageFunc is a function that takes a file extension and decides if
// this file extension is supported.
//
// The extension passed to this function could be for example ".txt" or ".jpg".
type SupportedImageFunc func(ext string) bool

// DecodableImage is an implementation of SupportedImageFunc accepting the
// extensions of all formats LoadImage decodes: jpg, png, gif and webp.
func DecodableImage(ext string) bool {
	ext = strings.ToLower(ext)
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	default:
		return false
	}
}

// RGBA is a color containing r, g, b and alpha components. The components are
// not alpha-premultiplied.
type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// NewRGBA returns a new RGBA color.
func NewRGBA(r, g, b, a uint8) RGBA {
	return RGBA{R: r, G: g, B: b, A: a}
}

// ConvertRGBA converts a generic color into the internal RGBA representation.
func ConvertRGBA(c color.Color) RGBA {
	nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{R: nrgba.R, G: nrgba.G, B: nrgba.B, A: nrgba.A}
}

// Hex returns the color as "#rrggbb", alpha is ignored.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// NRGBA converts the color to a color.NRGBA.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// ParseHex parses a color of the form "rrggbb" or "#rrggbb". The result is
// fully opaque.
func ParseHex(s string) (RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGBA{}, fmt.Errorf("Invalid hex color %q: expected 6 hex digits", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.ToLower(s), "%02x%02x%02x", &r, &g, &b); err != nil {
		return RGBA{}, fmt.Errorf("Invalid hex color %q: %w", s, err)
	}
	return RGBA{R: r, G: g, B: b, A: 255}, nil
}

// SubImager is a type that can produce a sub image from an original image.
type SubImager interface {
	SubImage(r image.Rectangle) image.Image
}

// SubImage returns a subimage of img given the boundaries r.
// The rectangle should be a valid area in the image. If the image type does
// not have a sub image method an error is returned.
func SubImage(img image.Image, r image.Rectangle) (image.Image, error) {
	imager, ok := img.(SubImager)
	if !ok {
		return nil, fmt.Errorf("Can't create sub image from type %v", reflect.TypeOf(img))
	}
	return imager.SubImage(r), nil
}

// ImageResizer resizes an image to the given width and height.
type ImageResizer interface {
	Resize(width, height uint, img image.Image) image.Image
}

// NfntResizer uses the nfnt/resize package to resize an image.
type NfntResizer struct {
	// InterP is the interpolation function to use.
	InterP resize.InterpolationFunction
}

// NewNfntResizer returns a new resizer given the interpolation function.
func NewNfntResizer(interP resize.InterpolationFunction) NfntResizer {
	return NfntResizer{interP}
}

// GetInterP returns an interpolation function given a desired quality.
// The higher the quality the better the interpolation should be, but execution
// time is higher. Currently supported are values between 0 and 4, each
// selecting a different interpolation function. Values greater than 4 are
// treated as 4.
func GetInterP(quality uint) resize.InterpolationFunction {
	switch quality {
	case 0:
		return resize.NearestNeighbor
	case 1:
		return resize.Bilinear
	case 2:
		return resize.Bicubic
	case 3:
		return resize.MitchellNetravali
	case 4:
		return resize.Lanczos2
	default:
		return resize.Lanczos3
	}
}

// Resize calls nfnt/resize methods.
func (resizer NfntResizer) Resize(width, height uint, img image.Image) image.Image {
	return resize.Resize(width, height, img, resizer.InterP)
}

// ImagingResizer uses disintegration/imaging to resize an image.
type ImagingResizer struct {
	Filter imaging.ResampleFilter
}

// NewImagingResizer returns a new resizer given the resample filter.
func NewImagingResizer(filter imaging.ResampleFilter) ImagingResizer {
	return ImagingResizer{Filter: filter}
}

// Resize calls imaging.Resize.
func (resizer ImagingResizer) Resize(width, height uint, img image.Image) image.Image {
	return imaging.Resize(img, int(width), int(height), resizer.Filter)
}

var (
	// DefaultResizer is the resizer that is used by default, if you're
	// looking for a resizer default argument this seems useful.
	DefaultResizer = NewNfntResizer(resize.MitchellNetravali)
)

// GetResizer returns a resizer by name, "nfnt" or "imaging". quality selects
// the interpolation (see GetInterP), for imaging it is mapped to a similar
// filter.
func GetResizer(name string, quality uint) (ImageResizer, error) {
	switch strings.ToLower(name) {
	case "", "nfnt":
		return NewNfntResizer(GetInterP(quality)), nil
	case "imaging":
		var filter imaging.ResampleFilter
		switch quality {
		case 0:
			filter = imaging.NearestNeighbor
		case 1:
			filter = imaging.Linear
		case 2:
			filter = imaging.CatmullRom
		case 3:
			filter = imaging.MitchellNetravali
		default:
			filter = imaging.Lanczos
		}
		return NewImagingResizer(filter), nil
	default:
		return nil, fmt.Errorf("Unknown resizer %q", name)
	}
}
