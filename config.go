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

// MosaicConfig contains all user tunable parameters of one mosaic build.
// A config is an immutable value: it is constructed once per build call and
// passed explicitly through the pipeline, there is no shared mutable
// configuration state.
type MosaicConfig struct {
	// ColorDepth is the number of quantization levels per color channel,
	// it must be between 1 and 256.
	ColorDepth uint

	// ImageScale is a positive factor the source image is scaled by before
	// the mosaic is built. 1 leaves the source unchanged.
	ImageScale float64

	// ResizingScales are the positive scale factors tile variants are created
	// with, the list must not be empty. They're part of the config so that
	// callers can key memoized tile libraries by it.
	ResizingScales []float64

	// PixelShift is the spacing between successive box origins. The zero
	// value (auto) uses the tile resolution, see PixelShift.
	PixelShift PixelShift

	// OverlapTiles selects the collision policy during compositing: if false
	// the best matches claim territory first and worse matches only fill
	// gaps, if true better matches overwrite worse ones.
	OverlapTiles bool

	// NumRoutines is the number of worker routines for the data parallel
	// matching steps. Values ≤ 1 run sequentially; any worker count yields
	// byte-identical output.
	NumRoutines int

	// Metric is the name of the registered color metric used for tile
	// matching, see RegisterColorMetric. The default "euclid" gives the
	// canonical frequency weighted euclidean matching.
	Metric string

	// Resizer scales the source image if ImageScale ≠ 1. If nil the
	// DefaultResizer is used.
	Resizer ImageResizer
}

// DefaultMosaicConfig returns the default configuration: color depth 32,
// image scale 0.5, tile scales 0.5 … 0.1, automatic pixel shift, no
// overlapping tiles and a single worker routine.
func DefaultMosaicConfig() MosaicConfig {
	return MosaicConfig{
		ColorDepth:     32,
		ImageScale:     0.5,
		ResizingScales: []float64{0.5, 0.4, 0.3, 0.2, 0.1},
		PixelShift:     AutoShift,
		OverlapTiles:   false,
		NumRoutines:    1,
		Metric:         "euclid",
	}
}

// Validate checks all config values and returns a *ConfigError describing the
// first violation, nil if the config is valid.
func (config MosaicConfig) Validate() error {
	if config.ColorDepth < 1 || config.ColorDepth > MaxColorDepth {
		return NewConfigError("color depth must be between 1 and %d, got %d",
			MaxColorDepth, config.ColorDepth)
	}
	if config.ImageScale <= 0.0 {
		return NewConfigError("image scale must be > 0, got %.5f", config.ImageScale)
	}
	if len(config.ResizingScales) == 0 {
		return NewConfigError("no resizing scales given")
	}
	for _, scale := range config.ResizingScales {
		if scale <= 0.0 {
			return NewConfigError("resizing scales must be > 0, got %.5f", scale)
		}
	}
	if config.NumRoutines < 1 {
		return NewConfigError("worker count must be ≥ 1, got %d", config.NumRoutines)
	}
	if _, has := GetColorMetric(config.Metric); !has {
		return NewConfigError("unknown color metric %q, registered metrics: %v",
			config.Metric, GetColorMetricNames())
	}
	return nil
}

// metric returns the registered color metric of the config. Validate ensures
// the name is registered.
func (config MosaicConfig) metric() ColorMetric {
	metric, has := GetColorMetric(config.Metric)
	if !has {
		return EuclideanColorDistance
	}
	return metric
}
