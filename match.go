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
	"math"
)

// MostSimilarTile finds the tile inside a non-empty bucket that minimizes
// the frequency weighted color distance
//
//	(1 + metric(mode.Color, tile.Mode)) / mode.RelFreq
//
// and returns its pixel buffer together with the distance. Ties are resolved
// in favor of the tile that comes first in the bucket, so the result only
// depends on bucket order.
func MostSimilarTile(mode DominantColor, bucket TileBucket, metric ColorMetric) (float64, *image.RGBA) {
	minDistance := math.MaxFloat64
	var minTile *image.RGBA
	for i := range bucket {
		tile := &bucket[i]
		dist := (1.0 + metric(mode.Color, tile.Mode)) / mode.RelFreq
		if dist < minDistance {
			minDistance = dist
			minTile = tile.Image
		}
	}
	return minDistance, minTile
}

// MatchBoxes matches a set of boxes of one resolution against the tile
// bucket of that resolution. It fills in the dominant color, the matched tile
// and the match distance of every box, in place.
//
// Both steps (per-box dominant color computation and per-box tile search) are
// pure per box and run through the given mapper; no shared mutable state is
// touched, so any worker count produces identical results.
//
// A fully transparent box has no dominant color and skips the search: its
// tile is a zero-filled placeholder of the bucket's resolution with distance
// 0. The placeholder is transparent everywhere, making it a guaranteed no-op
// during compositing. The placeholder borrows its shape from the first bucket
// entry; this relies on the invariant that every tile inside a bucket has
// exactly the bucket's resolution.
//
// The bucket must not be empty, the engine validates this before dispatching.
func MatchBoxes(boxes []Box, bucket TileBucket, metric ColorMetric, mapper Mapper) {
	if mapper == nil {
		mapper = SequentialMapper{}
	}
	if metric == nil {
		metric = EuclideanColorDistance
	}
	mapper.Map(len(boxes), func(i int) {
		box := &boxes[i]
		box.Mode, box.HasMode = ComputeDominantColor(box.Image)
	})
	placeholderBounds := bucket[0].Image.Bounds()
	mapper.Map(len(boxes), func(i int) {
		box := &boxes[i]
		if !box.HasMode {
			box.Distance = 0.0
			box.Tile = image.NewRGBA(placeholderBounds)
			return
		}
		box.Distance, box.Tile = MostSimilarTile(box.Mode, bucket, metric)
	})
}
