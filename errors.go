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
	"errors"
)

var (
	// ErrInvalidDimension is returned if the image or tile dimensions are not
	// positive.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrResolverFailure is returned if a ColorResolver could not produce a
	// result for the whole sequence of colors. No partial mosaic is produced
	// in this case.
	ErrResolverFailure = errors.New("resolver failure")

	// ErrStreamSinkFailure is returned if the sink rejected a row. Rows after
	// the failed one are not delivered.
	ErrStreamSinkFailure = errors.New("stream sink failure")

	// ErrTileCountMismatch is returned if the number of resolved tiles does
	// not match the number of tiles in the grid.
	ErrTileCountMismatch = errors.New("tile count mismatch")

	// ErrCoordinatorClosed is returned if a request is sent to a closed
	// WorkerCoordinator.
	ErrCoordinatorClosed = errors.New("coordinator closed")

	// ErrImageTooLarge is returned by LoadImage if the encoded image exceeds
	// the configured byte ceiling.
	ErrImageTooLarge = errors.New("image too large")
)
