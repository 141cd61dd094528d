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

// DominantColor describes the most frequent non-transparent RGB value within
// a pixel region together with its relative frequency. The relative frequency
// is the fraction of all pixels in the region (fully transparent pixels
// included) that share the dominant color, so 0 < RelFreq ≤ 1.
type DominantColor struct {
	Color   RGB
	RelFreq float64
}

// String returns a readable representation, mostly for log messages.
func (c DominantColor) String() string {
	return fmt.Sprintf("(%d, %d, %d) ρ=%.4f", c.Color.R, c.Color.G, c.Color.B, c.RelFreq)
}

// colorCount is one entry of the counting reduction in ComputeDominantColor.
// order is the position at which the color was first seen, it breaks ties
// between colors with equal counts so that results don't depend on map
// iteration order.
type colorCount struct {
	count int
	order int
}

// packRGB packs an RGB triple into one map key.
func packRGB(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// ComputeDominantColor computes the dominant color of an RGBA pixel region in
// one bulk counting pass.
//
// All pixels with alpha ≠ 0 are counted by their exact RGB value. Pixels with
// alpha = 0 are counted under a separate transparent bucket: they contribute
// to the total the relative frequency is computed against but can never
// become the dominant color. If the region contains only fully transparent
// pixels (or no pixels at all) there is no dominant color and the second
// return value is false.
//
// Ties between colors with equal counts are resolved in favor of the color
// that appears first in row-major pixel order, the result is therefore
// deterministic.
func ComputeDominantColor(img *image.RGBA) (DominantColor, bool) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return DominantColor{}, false
	}
	counter := make(map[uint32]colorCount)
	transparent := 0
	total := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[img.PixOffset(bounds.Min.X, y):img.PixOffset(bounds.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			total++
			if row[i+3] == 0 {
				transparent++
				continue
			}
			key := packRGB(row[i], row[i+1], row[i+2])
			entry, seen := counter[key]
			if !seen {
				entry.order = total
			}
			entry.count++
			counter[key] = entry
		}
	}
	if len(counter) == 0 {
		// only the transparent bucket is populated
		return DominantColor{}, false
	}
	var bestKey uint32
	best := colorCount{}
	for key, entry := range counter {
		if entry.count > best.count ||
			(entry.count == best.count && entry.order < best.order) {
			best = entry
			bestKey = key
		}
	}
	res := DominantColor{
		Color: RGB{
			R: uint8(bestKey >> 16),
			G: uint8(bestKey >> 8),
			B: uint8(bestKey),
		},
		RelFreq: float64(best.count) / float64(total),
	}
	return res, true
}
