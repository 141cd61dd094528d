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
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"
)

// Resolution is an exact pixel shape, it is the key tiles are bucketed by.
type Resolution struct {
	Height, Width int
}

// String returns the resolution in the form "HxW".
func (res Resolution) String() string {
	return fmt.Sprintf("%dx%d", res.Height, res.Width)
}

// ResolutionOf returns the resolution of an image.
func ResolutionOf(img image.Image) Resolution {
	bounds := img.Bounds()
	return Resolution{Height: bounds.Dy(), Width: bounds.Dx()}
}

// Tile is one resized, quantized tile image together with its dominant color
// and the relative frequency of that color. Tiles are immutable once created,
// they're owned by the library for its whole lifetime.
//
// The dominant color is computed once on the full-size tile and shared by all
// resized variants of it.
type Tile struct {
	Image   *image.RGBA
	Mode    RGB
	RelFreq float64
}

// TileBucket contains all tile variants sharing one exact resolution.
// Every tile inside a bucket keyed (h, w) has exactly that pixel shape.
// Buckets are built once at load time and read-only during matching.
type TileBucket []Tile

// TileLibrary contains all tile buckets from one load operation, keyed by
// resolution. A library is treated as immutable after loading: it can be
// shared across concurrent matching passes and across repeated mosaic builds.
type TileLibrary struct {
	Buckets map[Resolution]TileBucket
}

// NewTileLibrary returns a new empty tile library.
func NewTileLibrary() *TileLibrary {
	return &TileLibrary{Buckets: make(map[Resolution]TileBucket)}
}

// Add inserts a tile into the bucket for the given resolution.
// The tile image must have exactly that resolution.
func (library *TileLibrary) Add(res Resolution, tile Tile) {
	library.Buckets[res] = append(library.Buckets[res], tile)
}

// Bucket returns the bucket for the given resolution, nil if no tile with
// that resolution was loaded.
func (library *TileLibrary) Bucket(res Resolution) TileBucket {
	return library.Buckets[res]
}

// NumTiles returns the total number of tile variants over all buckets.
func (library *TileLibrary) NumTiles() int {
	res := 0
	for _, bucket := range library.Buckets {
		res += len(bucket)
	}
	return res
}

// Resolutions returns all resolutions with a non-empty bucket, sorted in
// descending order (largest tiles first). Iterating resolutions in this fixed
// order keeps the order boxes are pooled in reproducible, which in turn keeps
// mosaic builds deterministic.
func (library *TileLibrary) Resolutions() []Resolution {
	res := make([]Resolution, 0, len(library.Buckets))
	for key, bucket := range library.Buckets {
		if len(bucket) == 0 {
			continue
		}
		res = append(res, key)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Height != res[j].Height {
			return res[i].Height > res[j].Height
		}
		return res[i].Width > res[j].Width
	})
	return res
}

// listTileFiles returns the paths of all supported image files directly
// inside root, sorted by file name.
func listTileFiles(root string, filter SupportedImageFunc) ([]string, error) {
	files, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	res := make([]string, 0, len(files))
	for _, file := range files {
		if !file.IsDir() && filter(filepath.Ext(file.Name())) {
			res = append(res, filepath.Join(root, file.Name()))
		}
	}
	return res, nil
}

// scaledTile is one resized variant of a loaded tile file together with the
// bucket resolution it belongs into.
type scaledTile struct {
	res  Resolution
	tile Tile
}

// loadTileFile reads one tile image, quantizes it and produces one resized
// variant per scale factor. The returned slice is empty if the tile is
// unusable (decode failure or no dominant color).
func loadTileFile(path string, scales []float64, colorDepth uint) []scaledTile {
	r, openErr := os.Open(path)
	if openErr != nil {
		log.WithError(openErr).WithField("file", path).Warn("Can't open tile image, skipping it")
		return nil
	}
	img, _, decodeErr := image.Decode(r)
	r.Close()
	if decodeErr != nil {
		log.WithError(decodeErr).WithField("file", path).Warn("Can't decode tile image, skipping it")
		return nil
	}
	quantized := QuantizeImage(img, colorDepth)
	mode, hasMode := ComputeDominantColor(quantized)
	if !hasMode {
		// fully transparent tiles have no defined dominant color
		return nil
	}
	res := make([]scaledTile, 0, len(scales))
	for _, scale := range scales {
		scaled := ToRGBA(ScaleImage(quantized, scale, TileResizer))
		if scaled.Bounds().Empty() {
			continue
		}
		res = append(res, scaledTile{
			res:  ResolutionOf(scaled),
			tile: Tile{Image: scaled, Mode: mode.Color, RelFreq: mode.RelFreq},
		})
	}
	return res
}

// LoadTileLibrary loads all tile images from the given source directories.
// Each image file is decoded, quantized with colorDepth levels per channel
// and resized once per scale factor; every resized variant is inserted into
// the bucket of its exact resulting resolution. Tiles whose pixels are all
// fully transparent have no dominant color and are discarded, so are files
// that cannot be decoded.
//
// Tiles are processed with numRoutines worker routines; the resulting bucket
// order follows the source / file name order regardless of the worker count.
// progress (may be nil) is called once per processed file, possibly from
// multiple routines.
//
// A *ConfigError is returned if none of the source directories exists or if
// the sources yield zero usable tiles.
func LoadTileLibrary(sources []string, scales []float64, colorDepth uint,
	numRoutines int, progress ProgressFunc) (*TileLibrary, error) {
	if len(scales) == 0 {
		return nil, NewConfigError("no resizing scales given")
	}
	if colorDepth < 1 || colorDepth > MaxColorDepth {
		return nil, NewConfigError("color depth must be between 1 and %d, got %d",
			MaxColorDepth, colorDepth)
	}
	files := make([]string, 0)
	numSources := 0
	for _, source := range sources {
		sourceFiles, listErr := listTileFiles(source, JPGAndPNG)
		if listErr != nil {
			log.WithError(listErr).WithField("source", source).Warn("Can't read tile source directory")
			continue
		}
		numSources++
		files = append(files, sourceFiles...)
	}
	if numSources == 0 {
		return nil, NewConfigError("no tile source directory exists (sources: %v)", sources)
	}

	// results are collected per file and inserted in file order afterwards so
	// that bucket order never depends on scheduling
	results := make([][]scaledTile, len(files))
	mapper := NewMapper(numRoutines)
	mapper.Map(len(files), func(i int) {
		results[i] = loadTileFile(files[i], scales, colorDepth)
		if progress != nil {
			progress(i)
		}
	})

	library := NewTileLibrary()
	for _, entries := range results {
		for _, entry := range entries {
			library.Add(entry.res, entry.tile)
		}
	}
	if library.NumTiles() == 0 {
		return nil, NewConfigError("tile sources %v yield zero usable tiles", sources)
	}
	log.WithFields(log.Fields{
		"tiles":   library.NumTiles(),
		"buckets": len(library.Buckets),
		"files":   len(files),
	}).Info("Loaded tile library")
	return library, nil
}
