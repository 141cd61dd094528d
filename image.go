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
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/nfnt/resize"
)

// SupportedImageFunc is a function that takes a file extension and decides if
// this file extension is supported. Usually our library should support jpg
// and png files, but this may change depending on what image protocols are
// loaded.
//
// The extension passed to this function could be for example ".txt" or ".jpg".
// JPGAndPNG is an implementation accepting jpg and png files.
type SupportedImageFunc func(ext string) bool

// JPGAndPNG is an implementation of SupportedImageFunc accepting jpg and png
// file extensions.
func JPGAndPNG(ext string) bool {
	ext = strings.ToLower(ext)
	switch ext {
	case ".jpg", ".jpeg", ".png":
		return true
	default:
		return false
	}
}

const (
	// MaxColorDepth is the largest number of quantization levels per channel.
	MaxColorDepth uint = 256
)

// QuantizeC quantizes the color component c to levels values per channel.
// That is it returns round(round(c / 255 * levels) / levels * 255).
// levels must be a number between 1 and 256.
//
// Rounding back to the nearest component value (instead of truncating) makes
// quantization idempotent for every valid levels value.
func QuantizeC(c uint8, levels uint) uint8 {
	step := math.Round(float64(c) / 255.0 * float64(levels))
	return uint8(math.Round(step / float64(levels) * 255.0))
}

// RGB is a color containing r, g and b components.
type RGB struct {
	R, G, B uint8
}

// NewRGB returns a new RGB color.
func NewRGB(r, g, b uint8) RGB {
	return RGB{R: r, G: g, B: b}
}

// ConvertRGB converts a generic color into the internal RGB representation.
func ConvertRGB(c color.Color) RGB {
	// convert to rgba model
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	// convert to internal rgb representation
	return RGB{R: rgba.R, G: rgba.G, B: rgba.B}
}

// Quantize quantizes the RGB color (levels sub-divisions in each direction).
// levels must be a number between 1 and 256.
func (c RGB) Quantize(levels uint) RGB {
	return RGB{
		R: QuantizeC(c.R, levels),
		G: QuantizeC(c.G, levels),
		B: QuantizeC(c.B, levels)}
}

// ToRGBA converts an arbitrary image into an RGBA pixel buffer with the
// origin moved to (0, 0). If the image already is an RGBA image with origin
// (0, 0) it is returned unchanged.
func ToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && bounds.Min == image.Pt(0, 0) {
		return rgba
	}
	res := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(res, res.Bounds(), img, bounds.Min, draw.Src)
	return res
}

// QuantizeImage reduces the per-channel color precision of an image to levels
// values per channel, see QuantizeC. The result is a new RGBA buffer, the
// input image is never modified. All four channels are quantized, the alpha
// channel included.
//
// Instead of quantizing pixel by pixel the mapping for all 256 component
// values is computed once and applied to the raw buffer.
func QuantizeImage(img image.Image, levels uint) *image.RGBA {
	src := ToRGBA(img)
	var table [256]uint8
	for i := 0; i < 256; i++ {
		table[i] = QuantizeC(uint8(i), levels)
	}
	bounds := src.Bounds()
	res := image.NewRGBA(bounds)
	for i, v := range src.Pix {
		res.Pix[i] = table[v]
	}
	return res
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
//
// This method assumes that the interpolation functions provided by nfnt/resize
// can be sorted according to their quality. This should be a reasonable
// assumption.
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

// InterPString returns a readable name for an interpolation function.
func InterPString(interP resize.InterpolationFunction) string {
	switch interP {
	case resize.NearestNeighbor:
		return "nearest-neighbor"
	case resize.Bilinear:
		return "bilinear"
	case resize.Bicubic:
		return "bicubic"
	case resize.MitchellNetravali:
		return "mitchell-netravali"
	case resize.Lanczos2:
		return "lanczos2"
	case resize.Lanczos3:
		return "lanczos3"
	default:
		return fmt.Sprintf("InterpolationFunction(%d)", interP)
	}
}

// InterPFromString parses an interpolation function from its readable name,
// see InterPString.
func InterPFromString(name string) (resize.InterpolationFunction, error) {
	switch strings.ToLower(name) {
	case "nearest-neighbor":
		return resize.NearestNeighbor, nil
	case "bilinear":
		return resize.Bilinear, nil
	case "bicubic":
		return resize.Bicubic, nil
	case "mitchell-netravali":
		return resize.MitchellNetravali, nil
	case "lanczos2":
		return resize.Lanczos2, nil
	case "lanczos3":
		return resize.Lanczos3, nil
	default:
		return resize.NearestNeighbor, fmt.Errorf("invalid interpolation function name: %s", name)
	}
}

var (
	// DefaultResizer is the resizer that is used by default, if you're
	// looking for a resizer default argument this seems useful.
	DefaultResizer = NewNfntResizer(resize.MitchellNetravali)

	// TileResizer is the resizer used for tile variants. Nearest neighbor
	// interpolation never blends neighboring pixels and thus never introduces
	// new fully transparent pixels inside an opaque region.
	TileResizer = NewNfntResizer(resize.NearestNeighbor)
)

// Resize calls nfnt/resize methods.
func (resizer NfntResizer) Resize(width, height uint, img image.Image) image.Image {
	return resize.Resize(width, height, img, resizer.InterP)
}

// ScaleImage resizes an image by the given positive scale factor, keeping the
// aspect ratio. The result dimensions are the original dimensions multiplied
// by scale and truncated. An empty image is returned if the scaled dimensions
// collapse to zero.
func ScaleImage(img image.Image, scale float64, resizer ImageResizer) image.Image {
	if resizer == nil {
		resizer = DefaultResizer
	}
	bounds := img.Bounds()
	width := int(float64(bounds.Dx()) * scale)
	height := int(float64(bounds.Dy()) * scale)
	if width <= 0 || height <= 0 {
		return image.NewRGBA(image.Rectangle{})
	}
	return resizer.Resize(uint(width), uint(height), img)
}
