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

import "fmt"

// ConfigError is the error returned for invalid configurations and for tile
// library loads that yield no usable tiles. It is raised at load / validation
// time, never in the middle of a build.
type ConfigError struct {
	Message string
}

// NewConfigError returns a new ConfigError, the message is formatted as in
// fmt.Sprintf.
func NewConfigError(format string, a ...interface{}) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, a...)}
}

func (err *ConfigError) Error() string {
	return "invalid configuration: " + err.Message
}

// InvalidImageError is the error returned if a source image has zero
// dimensions or can otherwise not be processed.
type InvalidImageError struct {
	Message string
}

// NewInvalidImageError returns a new InvalidImageError, the message is
// formatted as in fmt.Sprintf.
func NewInvalidImageError(format string, a ...interface{}) *InvalidImageError {
	return &InvalidImageError{Message: fmt.Sprintf(format, a...)}
}

func (err *InvalidImageError) Error() string {
	return "invalid image: " + err.Message
}

// ResolutionMismatchError is the error returned if a mosaic build finds no
// resolution with a non-empty tile bucket to match against.
type ResolutionMismatchError struct {
	Message string
}

// NewResolutionMismatchError returns a new ResolutionMismatchError, the
// message is formatted as in fmt.Sprintf.
func NewResolutionMismatchError(format string, a ...interface{}) *ResolutionMismatchError {
	return &ResolutionMismatchError{Message: fmt.Sprintf(format, a...)}
}

func (err *ResolutionMismatchError) Error() string {
	return "resolution mismatch: " + err.Message
}
