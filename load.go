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
	"fmt"
	"image"
	// register the decoders for the formats accepted by LoadImage
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/anthonynsimon/bild/clone"
	// webp as well
	_ "golang.org/x/image/webp"
)

// DefaultMaxImageBytes is the default ceiling for encoded images.
const DefaultMaxImageBytes int64 = 256000

// LoadImage decodes an image of at most maxBytes bytes (maxBytes ≤ 0 means no
// limit) and returns it as RGBA image with bounds starting at (0, 0).
// If the input is larger an error wrapping ErrImageTooLarge is returned.
func LoadImage(r io.Reader, maxBytes int64) (*image.RGBA, error) {
	if maxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
		if err != nil {
			return nil, err
		}
		if int64(len(data)) > maxBytes {
			return nil, fmt.Errorf("%w: image exceeds %d bytes", ErrImageTooLarge, maxBytes)
		}
		r = bytes.NewReader(data)
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("Can't decode image: %w", err)
	}
	return clone.AsRGBA(img), nil
}
