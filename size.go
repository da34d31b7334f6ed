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
)

// PreferredSize returns the size an image with the given natural size should
// be displayed in: the natural size if it fits into maxWidth x maxHeight,
// otherwise the largest size with the same aspect ratio that fits. A max
// value ≤ 0 means that there is no bound in that direction. Both values of the
// result are at least 1 if the natural size is positive.
func PreferredSize(naturalWidth, naturalHeight, maxWidth, maxHeight int) (int, int) {
	if naturalWidth <= 0 || naturalHeight <= 0 {
		return 0, 0
	}
	width, height := naturalWidth, naturalHeight
	if maxWidth > 0 && width > maxWidth {
		width = maxWidth
		height = KeepRatioHeight(naturalWidth, naturalHeight, width)
	}
	if maxHeight > 0 && height > maxHeight {
		height = maxHeight
		width = KeepRatioWidth(naturalWidth, naturalHeight, height)
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

// FitImage resizes img to its PreferredSize. If the image already fits it is
// returned unchanged. If resizer is nil DefaultResizer is used.
func FitImage(img image.Image, maxWidth, maxHeight int, resizer ImageResizer) image.Image {
	bounds := img.Bounds()
	width, height := PreferredSize(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)
	if width == bounds.Dx() && height == bounds.Dy() {
		return img
	}
	if resizer == nil {
		resizer = DefaultResizer
	}
	return resizer.Resize(uint(width), uint(height), img)
}
