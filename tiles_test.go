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
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writePNG writes an image as png into dir.
func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, createErr := os.Create(path)
	if createErr != nil {
		t.Fatalf("can't create %s: %v", path, createErr)
	}
	defer f.Close()
	if encodeErr := png.Encode(f, img); encodeErr != nil {
		t.Fatalf("can't encode %s: %v", path, encodeErr)
	}
	return path
}

func TestResolutionString(t *testing.T) {
	res := Resolution{Height: 20, Width: 30}
	if res.String() != "20x30" {
		t.Errorf("String() = %q, want \"20x30\"", res.String())
	}
}

func TestResolutionOf(t *testing.T) {
	img := uniformRGBA(6, 4, color.RGBA{A: 255})
	if got := ResolutionOf(img); got != (Resolution{Height: 4, Width: 6}) {
		t.Errorf("ResolutionOf = %v, want {4 6}", got)
	}
}

func TestTileLibraryResolutionsDescending(t *testing.T) {
	library := NewTileLibrary()
	library.Add(Resolution{Height: 2, Width: 2}, testTile(2, 2, NewRGB(0, 0, 0)))
	library.Add(Resolution{Height: 8, Width: 4}, testTile(4, 8, NewRGB(0, 0, 0)))
	library.Add(Resolution{Height: 8, Width: 8}, testTile(8, 8, NewRGB(0, 0, 0)))

	resolutions := library.Resolutions()
	want := []Resolution{
		{Height: 8, Width: 8},
		{Height: 8, Width: 4},
		{Height: 2, Width: 2},
	}
	if len(resolutions) != len(want) {
		t.Fatalf("got %d resolutions, want %d", len(resolutions), len(want))
	}
	for i := range want {
		if resolutions[i] != want[i] {
			t.Errorf("resolution %d = %v, want %v (descending order)", i, resolutions[i], want[i])
		}
	}
}

func TestLoadTileLibrary(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "red.png", uniformRGBA(8, 8, color.RGBA{R: 255, A: 255}))
	writePNG(t, dir, "green.png", uniformRGBA(8, 8, color.RGBA{G: 255, A: 255}))
	// an unsupported file that must be ignored
	if writeErr := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0644); writeErr != nil {
		t.Fatal(writeErr)
	}

	library, err := LoadTileLibrary([]string{dir}, []float64{0.5, 0.25}, 256, 1, nil)
	if err != nil {
		t.Fatalf("LoadTileLibrary failed: %v", err)
	}
	if got := library.NumTiles(); got != 4 {
		t.Fatalf("NumTiles = %d, want 2 files x 2 scales", got)
	}
	for _, res := range []Resolution{{Height: 4, Width: 4}, {Height: 2, Width: 2}} {
		bucket := library.Bucket(res)
		if len(bucket) != 2 {
			t.Errorf("bucket %v holds %d tiles, want 2", res, len(bucket))
		}
		for _, tile := range bucket {
			if got := ResolutionOf(tile.Image); got != res {
				t.Errorf("tile in bucket %v has shape %v", res, got)
			}
			if tile.RelFreq <= 0 || tile.RelFreq > 1 {
				t.Errorf("tile relative frequency = %f, want (0, 1]", tile.RelFreq)
			}
		}
	}
}

// Bucket order must follow file name order, independent of the worker count.
func TestLoadTileLibraryOrderDeterministic(t *testing.T) {
	dir := t.TempDir()
	colors := []color.RGBA{
		{R: 255, A: 255}, {G: 255, A: 255}, {B: 255, A: 255},
		{R: 255, G: 255, A: 255}, {R: 128, G: 64, B: 32, A: 255},
	}
	names := []string{"a.png", "b.png", "c.png", "d.png", "e.png"}
	for i, name := range names {
		writePNG(t, dir, name, uniformRGBA(4, 4, colors[i]))
	}

	seq, seqErr := LoadTileLibrary([]string{dir}, []float64{0.5}, 256, 1, nil)
	if seqErr != nil {
		t.Fatal(seqErr)
	}
	par, parErr := LoadTileLibrary([]string{dir}, []float64{0.5}, 256, 8, nil)
	if parErr != nil {
		t.Fatal(parErr)
	}
	res := Resolution{Height: 2, Width: 2}
	seqBucket, parBucket := seq.Bucket(res), par.Bucket(res)
	if len(seqBucket) != len(names) || len(parBucket) != len(names) {
		t.Fatalf("bucket sizes %d / %d, want %d", len(seqBucket), len(parBucket), len(names))
	}
	for i := range seqBucket {
		if seqBucket[i].Mode != parBucket[i].Mode {
			t.Fatalf("bucket entry %d differs between worker counts", i)
		}
	}
}

// Fully transparent tile images have no dominant color and must be dropped.
func TestLoadTileLibrarySkipsTransparentTiles(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "empty.png", uniformRGBA(8, 8, color.RGBA{}))
	writePNG(t, dir, "red.png", uniformRGBA(8, 8, color.RGBA{R: 255, A: 255}))

	library, err := LoadTileLibrary([]string{dir}, []float64{0.5}, 256, 1, nil)
	if err != nil {
		t.Fatalf("LoadTileLibrary failed: %v", err)
	}
	if got := library.NumTiles(); got != 1 {
		t.Errorf("NumTiles = %d, want only the opaque tile", got)
	}
}

func TestLoadTileLibraryErrors(t *testing.T) {
	t.Run("no existing source", func(t *testing.T) {
		_, err := LoadTileLibrary([]string{"/does/not/exist"}, []float64{0.5}, 256, 1, nil)
		if _, ok := err.(*ConfigError); !ok {
			t.Errorf("got %T (%v), want *ConfigError", err, err)
		}
	})
	t.Run("zero usable tiles", func(t *testing.T) {
		dir := t.TempDir()
		writePNG(t, dir, "empty.png", uniformRGBA(8, 8, color.RGBA{}))
		_, err := LoadTileLibrary([]string{dir}, []float64{0.5}, 256, 1, nil)
		if _, ok := err.(*ConfigError); !ok {
			t.Errorf("got %T (%v), want *ConfigError", err, err)
		}
	})
	t.Run("no scales", func(t *testing.T) {
		_, err := LoadTileLibrary([]string{t.TempDir()}, nil, 256, 1, nil)
		if _, ok := err.(*ConfigError); !ok {
			t.Errorf("got %T (%v), want *ConfigError", err, err)
		}
	})
	t.Run("invalid color depth", func(t *testing.T) {
		_, err := LoadTileLibrary([]string{t.TempDir()}, []float64{0.5}, 0, 1, nil)
		if _, ok := err.(*ConfigError); !ok {
			t.Errorf("got %T (%v), want *ConfigError", err, err)
		}
	})
	t.Run("one of several sources missing", func(t *testing.T) {
		dir := t.TempDir()
		writePNG(t, dir, "red.png", uniformRGBA(8, 8, color.RGBA{R: 255, A: 255}))
		library, err := LoadTileLibrary([]string{dir, "/does/not/exist"}, []float64{0.5}, 256, 1, nil)
		if err != nil {
			t.Fatalf("a missing source next to an existing one must only warn, got %v", err)
		}
		if library.NumTiles() != 1 {
			t.Errorf("NumTiles = %d, want 1", library.NumTiles())
		}
	})
}
