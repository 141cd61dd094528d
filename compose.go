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
	"sort"
)

// canPlace reports whether the canvas region the tile would cover is still
// entirely unwritten under the tile's transparency mask. The canvas starts
// out fully transparent and every placement writes pixels with alpha ≠ 0, so
// checking the alpha channel is sufficient.
func canPlace(canvas *image.RGBA, tile *image.RGBA, region image.Rectangle) bool {
	tileBounds := tile.Bounds()
	for y := 0; y < region.Dy(); y++ {
		canvasRow := canvas.Pix[canvas.PixOffset(region.Min.X, region.Min.Y+y):]
		tileRow := tile.Pix[tile.PixOffset(tileBounds.Min.X, tileBounds.Min.Y+y):]
		for x := 0; x < region.Dx(); x++ {
			if tileRow[x*4+3] != 0 && canvasRow[x*4+3] != 0 {
				return false
			}
		}
	}
	return true
}

// placeTile writes the tile pixels of one matched box onto the canvas.
// Only pixels where the tile's alpha channel is non-zero are written; the
// tile is clipped to the box's (possibly edge-clipped) region. If overlap is
// false the tile is only placed if the covered region is entirely unwritten.
func placeTile(canvas *image.RGBA, box Box, overlap bool) {
	region := box.Image.Bounds().Intersect(canvas.Bounds())
	if region.Empty() || box.Tile == nil {
		return
	}
	tile := box.Tile
	tileBounds := tile.Bounds()
	if !overlap && !canPlace(canvas, tile, region) {
		return
	}
	for y := 0; y < region.Dy(); y++ {
		canvasRow := canvas.Pix[canvas.PixOffset(region.Min.X, region.Min.Y+y):]
		tileRow := tile.Pix[tile.PixOffset(tileBounds.Min.X, tileBounds.Min.Y+y):]
		for x := 0; x < region.Dx(); x++ {
			if tileRow[x*4+3] == 0 {
				continue
			}
			copy(canvasRow[x*4:x*4+4], tileRow[x*4:x*4+4])
		}
	}
}

// CreateTiledImage merges all matched boxes, across all requested
// resolutions, onto one output canvas of the given bounds.
//
// The collision policy is controlled by overlap:
//
// If overlap is false boxes are placed in ascending match distance order and
// a tile is only placed where the canvas is still entirely unwritten. Best
// matches claim territory first, worse matches (often from coarser
// resolutions) only fill leftover gaps.
//
// If overlap is true boxes are placed in descending match distance order and
// a tile's non-transparent pixels always overwrite what is already there, so
// the best match wins every overlap.
//
// Sorting is stable: boxes with equal distances keep their pool order, which
// makes composition deterministic. Compositing is strictly sequential, this
// is required for the first-fit / overwrite semantics to be well defined.
// The boxes slice is sorted in place.
func CreateTiledImage(boxes []Box, bounds image.Rectangle, overlap bool) *image.RGBA {
	canvas := image.NewRGBA(bounds)
	sort.SliceStable(boxes, func(i, j int) bool {
		if overlap {
			return boxes[i].Distance > boxes[j].Distance
		}
		return boxes[i].Distance < boxes[j].Distance
	})
	for _, box := range boxes {
		placeTile(canvas, box, overlap)
	}
	return canvas
}
