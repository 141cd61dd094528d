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
	"fmt"
	"image"
)

// PixelShift is the spacing between successive box origins in x and y
// direction. The zero value means "auto": the shift equals the tile
// resolution, yielding a non-overlapping tiling.
type PixelShift struct {
	X, Y int
}

// AutoShift is the PixelShift that follows the tile resolution.
var AutoShift = PixelShift{}

// IsAuto returns true if the shift should be derived from the tile
// resolution. A shift counts as auto unless both components are positive.
func (shift PixelShift) IsAuto() bool {
	return shift.X <= 0 || shift.Y <= 0
}

func (shift PixelShift) String() string {
	if shift.IsAuto() {
		return "auto"
	}
	return fmt.Sprintf("%dx%d", shift.X, shift.Y)
}

// Box is one rectangular partition of the source image at one resolution.
// It carries its top-left position in source coordinates, the (possibly
// clipped) sub-buffer of the source and, once the matcher ran, the dominant
// color, the matched tile pixels and the match distance.
type Box struct {
	// Pos is the top-left corner of the box in source coordinates.
	Pos image.Point

	// Image is the sub-buffer of the source covered by the box. Edge boxes
	// are clipped so the buffer may be smaller than the box resolution.
	Image *image.RGBA

	// Mode is the dominant color of the box, valid only if HasMode is true.
	// A box without a dominant color is fully transparent.
	Mode    DominantColor
	HasMode bool

	// Tile is the matched tile pixel buffer, set by the matcher.
	Tile *image.RGBA

	// Distance is the weighted color distance of the matched tile.
	Distance float64
}

// DivideBoxes divides an image into a covering grid of boxes of the given
// resolution. Boxes are produced row-major (y outer, x inner), starting at
// the top-left corner of the image and advancing by shift (by the resolution
// itself if shift is auto). Boxes at the right and bottom edge are clipped to
// the image, never padded.
//
// For a non-empty image the division covers every pixel of the image on both
// axes. The image bounds should start at (0, 0), which holds for every
// buffer produced by ToRGBA and QuantizeImage.
func DivideBoxes(img *image.RGBA, res Resolution, shift PixelShift) []Box {
	bounds := img.Bounds()
	// no division possible if bounds are empty or the resolution is invalid
	if bounds.Empty() || res.Height <= 0 || res.Width <= 0 {
		return nil
	}
	if shift.IsAuto() {
		shift = PixelShift{X: res.Width, Y: res.Height}
	}
	numRows := (bounds.Dy() + shift.Y - 1) / shift.Y
	numCols := (bounds.Dx() + shift.X - 1) / shift.X
	boxes := make([]Box, 0, numRows*numCols)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += shift.Y {
		for x := bounds.Min.X; x < bounds.Max.X; x += shift.X {
			r := image.Rect(x, y, x+res.Width, y+res.Height).Intersect(bounds)
			boxes = append(boxes, Box{
				Pos:   image.Pt(x, y),
				Image: img.SubImage(r).(*image.RGBA),
			})
		}
	}
	return boxes
}
