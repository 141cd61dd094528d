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

// Package filter contains the one-shot image operations of the editor:
// grayscale, blur, edge detection, sharpening, brightness / contrast
// adjustment and the common geometry operations. They are thin wrappers
// around the bild and imaging packages and carry no state; the mosaic core
// never calls them.
package filter

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// Func transforms an image into a new image, the input is never modified.
type Func func(img image.Image) image.Image

// Grayscale converts the image to grayscale.
func Grayscale(img image.Image) image.Image {
	return effect.Grayscale(img)
}

// Blur applies a gaussian blur with the given radius.
func Blur(img image.Image, radius float64) image.Image {
	return blur.Gaussian(img, radius)
}

// EdgeDetect highlights the edges of the image.
func EdgeDetect(img image.Image) image.Image {
	return effect.EdgeDetection(img, 1.0)
}

// Sharpen sharpens the image.
func Sharpen(img image.Image) image.Image {
	return effect.Sharpen(img)
}

// Sepia applies a sepia tone.
func Sepia(img image.Image) image.Image {
	return effect.Sepia(img)
}

// Invert inverts all colors of the image.
func Invert(img image.Image) image.Image {
	return effect.Invert(img)
}

// Brightness adjusts the brightness. change is relative: 0 keeps the image
// unchanged, 0.5 brightens by 50%, -0.5 darkens by 50%.
func Brightness(img image.Image, change float64) image.Image {
	return adjust.Brightness(img, change)
}

// Contrast adjusts the contrast, change works as in Brightness.
func Contrast(img image.Image, change float64) image.Image {
	return adjust.Contrast(img, change)
}

// Saturation adjusts the saturation, change works as in Brightness.
func Saturation(img image.Image, change float64) image.Image {
	return adjust.Saturation(img, change)
}

// Resize resizes the image to the given dimensions, ignoring the aspect
// ratio. If one of width / height is 0 the dimension is computed from the
// other one keeping the ratio.
func Resize(img image.Image, width, height int) image.Image {
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// Rotate rotates the image counter-clockwise by the given angle in degrees.
// The right angles 90, 180 and 270 are lossless, other angles fill the
// corners with transparent pixels.
func Rotate(img image.Image, angle float64) image.Image {
	switch angle {
	case 90.0:
		return imaging.Rotate90(img)
	case 180.0:
		return imaging.Rotate180(img)
	case 270.0:
		return imaging.Rotate270(img)
	default:
		return imaging.Rotate(img, angle, color.Transparent)
	}
}

// FlipH flips the image horizontally (left to right).
func FlipH(img image.Image) image.Image {
	return imaging.FlipH(img)
}

// FlipV flips the image vertically (top to bottom).
func FlipV(img image.Image) image.Image {
	return imaging.FlipV(img)
}

// Crop cuts out the given rectangle of the image.
func Crop(img image.Image, r image.Rectangle) image.Image {
	return imaging.Crop(img, r)
}

// Parse parses a filter specification of the form "name" or "name:arg" into
// a filter function. Supported names are grayscale, blur, edges, sharpen,
// sepia, invert, brightness, contrast, saturation, fliph, flipv and rotate.
// blur takes the radius as argument, brightness / contrast / saturation the
// relative change and rotate the angle in degrees.
func Parse(spec string) (Func, error) {
	name, arg := spec, ""
	if idx := strings.IndexByte(spec, ':'); idx >= 0 {
		name, arg = spec[:idx], spec[idx+1:]
	}
	name = strings.ToLower(strings.TrimSpace(name))

	parseArg := func(defaultValue float64) (float64, error) {
		if arg == "" {
			return defaultValue, nil
		}
		return strconv.ParseFloat(strings.TrimSpace(arg), 64)
	}

	switch name {
	case "grayscale":
		return Grayscale, nil
	case "edges":
		return EdgeDetect, nil
	case "sharpen":
		return Sharpen, nil
	case "sepia":
		return Sepia, nil
	case "invert":
		return Invert, nil
	case "fliph":
		return FlipH, nil
	case "flipv":
		return FlipV, nil
	case "blur":
		radius, argErr := parseArg(2.0)
		if argErr != nil {
			return nil, argErr
		}
		return func(img image.Image) image.Image {
			return Blur(img, radius)
		}, nil
	case "brightness":
		change, argErr := parseArg(0.0)
		if argErr != nil {
			return nil, argErr
		}
		return func(img image.Image) image.Image {
			return Brightness(img, change)
		}, nil
	case "contrast":
		change, argErr := parseArg(0.0)
		if argErr != nil {
			return nil, argErr
		}
		return func(img image.Image) image.Image {
			return Contrast(img, change)
		}, nil
	case "saturation":
		change, argErr := parseArg(0.0)
		if argErr != nil {
			return nil, argErr
		}
		return func(img image.Image) image.Image {
			return Saturation(img, change)
		}, nil
	case "rotate":
		angle, argErr := parseArg(90.0)
		if argErr != nil {
			return nil, argErr
		}
		return func(img image.Image) image.Image {
			return Rotate(img, angle)
		}, nil
	default:
		return nil, fmt.Errorf("unknown filter name %q", name)
	}
}

// ParseChain parses multiple filter specifications (see Parse) into one
// filter applying them in order.
func ParseChain(specs []string) (Func, error) {
	funcs := make([]Func, 0, len(specs))
	for _, spec := range specs {
		f, parseErr := Parse(spec)
		if parseErr != nil {
			return nil, parseErr
		}
		funcs = append(funcs, f)
	}
	return func(img image.Image) image.Image {
		for _, f := range funcs {
			img = f(img)
		}
		return img
	}, nil
}
