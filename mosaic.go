// Copyright 2025 The PixelPlay Authors
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

package pixelplay

import (
	"image"

	log "github.com/sirupsen/logrus"
)

// BuildMosaic builds a photomosaic of the source image from the tiles in the
// library.
//
// The source image is quantized with the configured color depth and, if the
// image scale is ≠ 1, resized. For every resolution with a non-empty bucket
// the processed image is partitioned into boxes and matched against that
// bucket; all resulting boxes are pooled and composed onto one canvas in a
// single pass. The result has the pixel dimensions of the scaled source;
// pixels never written by any tile remain fully transparent.
//
// The call either completes or fails atomically, a partially composed canvas
// is never returned. Possible failures are *ConfigError (invalid config or
// empty library), *InvalidImageError (source with zero dimensions) and
// *ResolutionMismatchError (no resolution with a non-empty bucket).
//
// The library is only read, it can be shared by concurrent builds.
func BuildMosaic(img image.Image, library *TileLibrary, config MosaicConfig) (*image.RGBA, error) {
	if validateErr := config.Validate(); validateErr != nil {
		return nil, validateErr
	}
	if img == nil || img.Bounds().Empty() {
		return nil, NewInvalidImageError("source image has zero dimensions")
	}
	if library == nil || library.NumTiles() == 0 {
		return nil, NewConfigError("tile library is empty")
	}

	processed := QuantizeImage(img, config.ColorDepth)
	if config.ImageScale != 1.0 {
		scaled := ScaleImage(processed, config.ImageScale, config.Resizer)
		if scaled.Bounds().Empty() {
			return nil, NewInvalidImageError(
				"source image of size %dx%d collapses to zero pixels at scale %.5f",
				img.Bounds().Dx(), img.Bounds().Dy(), config.ImageScale)
		}
		processed = ToRGBA(scaled)
	}

	resolutions := library.Resolutions()
	if len(resolutions) == 0 {
		return nil, NewResolutionMismatchError("library contains no non-empty tile bucket")
	}

	mapper := NewMapper(config.NumRoutines)
	metric := config.metric()
	pool := make([]Box, 0)
	for _, res := range resolutions {
		boxes := DivideBoxes(processed, res, config.PixelShift)
		MatchBoxes(boxes, library.Bucket(res), metric, mapper)
		pool = append(pool, boxes...)
		log.WithFields(log.Fields{
			"resolution": res,
			"boxes":      len(boxes),
		}).Debug("Matched boxes for resolution")
	}

	log.WithFields(log.Fields{
		"boxes":       len(pool),
		"resolutions": len(resolutions),
		"overlap":     config.OverlapTiles,
	}).Info("Composing mosaic")
	return CreateTiledImage(pool, processed.Bounds(), config.OverlapTiles), nil
}
