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
	"image/color"
	"testing"
)

func TestLibraryKey(t *testing.T) {
	key := LibraryKey([]string{"/a", "/b"}, []float64{0.5, 0.25}, 32)
	same := LibraryKey([]string{"/a", "/b"}, []float64{0.5, 0.25}, 32)
	if key != same {
		t.Error("equal load parameters must produce equal keys")
	}
	variations := []string{
		LibraryKey([]string{"/b", "/a"}, []float64{0.5, 0.25}, 32),
		LibraryKey([]string{"/a", "/b"}, []float64{0.25, 0.5}, 32),
		LibraryKey([]string{"/a", "/b"}, []float64{0.5, 0.25}, 64),
		LibraryKey([]string{"/a"}, []float64{0.5, 0.25}, 32),
	}
	for i, other := range variations {
		if key == other {
			t.Errorf("variation %d must produce a different key", i)
		}
	}
}

func TestLibraryCachePutGet(t *testing.T) {
	cache := NewLibraryCache(2)
	library := NewTileLibrary()
	cache.Put("a", library)
	if got := cache.Get("a"); got != library {
		t.Error("Get must return the stored library")
	}
	if got := cache.Get("missing"); got != nil {
		t.Errorf("Get for an unknown key = %v, want nil", got)
	}
}

func TestLibraryCacheEviction(t *testing.T) {
	cache := NewLibraryCache(2)
	first, second, third := NewTileLibrary(), NewTileLibrary(), NewTileLibrary()
	cache.Put("first", first)
	cache.Put("second", second)
	cache.Put("third", third)
	if cache.Get("first") != nil {
		t.Error("the oldest entry must be evicted when the cache is full")
	}
	if cache.Get("second") != second || cache.Get("third") != third {
		t.Error("newer entries must survive the eviction")
	}
}

func TestLibraryCacheLoadMemoizes(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "red.png", uniformRGBA(8, 8, color.RGBA{R: 255, A: 255}))

	cache := NewLibraryCache(2)
	first, firstErr := cache.Load([]string{dir}, []float64{0.5}, 256, 1, nil)
	if firstErr != nil {
		t.Fatalf("first load failed: %v", firstErr)
	}
	second, secondErr := cache.Load([]string{dir}, []float64{0.5}, 256, 1, nil)
	if secondErr != nil {
		t.Fatalf("second load failed: %v", secondErr)
	}
	if first != second {
		t.Error("the second load must return the cached library")
	}
	other, otherErr := cache.Load([]string{dir}, []float64{0.25}, 256, 1, nil)
	if otherErr != nil {
		t.Fatalf("load with different scales failed: %v", otherErr)
	}
	if other == first {
		t.Error("different load parameters must not share a cache entry")
	}
}

func TestLibraryCacheLoadError(t *testing.T) {
	cache := NewLibraryCache(2)
	if _, err := cache.Load([]string{"/does/not/exist"}, []float64{0.5}, 256, 1, nil); err == nil {
		t.Error("expected the load error to pass through")
	}
}
