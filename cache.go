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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
)

var (
	// LibraryCacheSize is the default size of library caches. Loading a tile
	// library reads and resizes every tile file, so callers building several
	// mosaics with the same sources should memoize loaded libraries.
	LibraryCacheSize = 8
)

// LibraryKey computes the cache key for a tile library load: a digest of the
// source directories, the resizing scales and the color depth. Loads with the
// same key produce the same library (as long as the files on disk don't
// change, which the cache cannot detect).
func LibraryKey(sources []string, scales []float64, colorDepth uint) string {
	var b strings.Builder
	for _, source := range sources {
		fmt.Fprintf(&b, "%s\x00", source)
	}
	b.WriteString("|")
	for _, scale := range scales {
		fmt.Fprintf(&b, "%.10f\x00", scale)
	}
	fmt.Fprintf(&b, "|%d", colorDepth)
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// LibraryCache memoizes loaded tile libraries keyed by LibraryKey. It
// replaces any on-disk tile cache: the core itself never persists tiles, a
// caller owns the cache and decides its lifetime.
//
// Caches are safe for concurrent use. When the cache is full the oldest
// entry is evicted.
type LibraryCache struct {
	m           *sync.Mutex
	size        int
	content     map[string]*TileLibrary
	insertOrder []string
}

// NewLibraryCache returns an empty library cache. size is the number of
// libraries that will be cached, it must be ≥ 1.
func NewLibraryCache(size int) *LibraryCache {
	if size <= 0 {
		size = 1
	}
	var m sync.Mutex
	return &LibraryCache{
		m:           &m,
		size:        size,
		content:     make(map[string]*TileLibrary, size),
		insertOrder: make([]string, 0, size),
	}
}

// Get returns the library cached under the given key. If the return value is
// nil the library was not found in the cache and should be loaded and added
// via Put.
func (cache *LibraryCache) Get(key string) *TileLibrary {
	cache.m.Lock()
	defer cache.m.Unlock()
	return cache.content[key]
}

// Put adds a library to the cache. Usually Put is called after Get: if the
// library was not found in the cache it is loaded and then added via Put.
func (cache *LibraryCache) Put(key string, library *TileLibrary) {
	cache.m.Lock()
	defer cache.m.Unlock()
	// first check if the library already is in the cache, if yes do nothing
	if _, has := cache.content[key]; has {
		return
	}
	// check if cache is full
	if len(cache.insertOrder) < cache.size {
		cache.insertOrder = append(cache.insertOrder, key)
		cache.content[key] = library
	} else {
		// cache full, remove first element from cache
		// since size must be >= 1 this should be fine
		fst := cache.insertOrder[0]
		cache.insertOrder = cache.insertOrder[1:]
		cache.insertOrder = append(cache.insertOrder, key)
		delete(cache.content, fst)
		cache.content[key] = library
	}
}

// Load returns the library for the given load parameters, loading and
// caching it on a miss. It is a shortcut around Get, LoadTileLibrary
// and Put.
func (cache *LibraryCache) Load(sources []string, scales []float64, colorDepth uint,
	numRoutines int, progress ProgressFunc) (*TileLibrary, error) {
	key := LibraryKey(sources, scales, colorDepth)
	if library := cache.Get(key); library != nil {
		return library, nil
	}
	library, loadErr := LoadTileLibrary(sources, scales, colorDepth, numRoutines, progress)
	if loadErr != nil {
		return nil, loadErr
	}
	cache.Put(key, library)
	return library, nil
}
