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

// Package pixelplay provides methods for generating photomosaic images given
// a library of small tile images. It takes a source image and reconstructs it
// as a grid of tiles chosen, at multiple candidate resolutions, to approximate
// local color regions.
//
// Tiles are loaded from directories on the filesystem, quantized and bucketed
// by exact pixel resolution. The source image is partitioned into boxes at
// each resolution, each box is matched against the bucket of that resolution
// using a frequency weighted color distance and all matched boxes are merged
// onto one canvas.
//
// It ships with an executable program for batch mosaic generation and a web
// backend for the interactive editor.
package pixelplay
