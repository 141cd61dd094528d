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
	"strings"
	"testing"
)

func TestDefaultMosaicConfigValid(t *testing.T) {
	if err := DefaultMosaicConfig().Validate(); err != nil {
		t.Errorf("default config must be valid, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(config *MosaicConfig)
	}{
		{"zero color depth", func(c *MosaicConfig) { c.ColorDepth = 0 }},
		{"color depth too large", func(c *MosaicConfig) { c.ColorDepth = 257 }},
		{"zero image scale", func(c *MosaicConfig) { c.ImageScale = 0 }},
		{"negative image scale", func(c *MosaicConfig) { c.ImageScale = -0.5 }},
		{"no resizing scales", func(c *MosaicConfig) { c.ResizingScales = nil }},
		{"negative resizing scale", func(c *MosaicConfig) { c.ResizingScales = []float64{0.5, -0.1} }},
		{"zero routines", func(c *MosaicConfig) { c.NumRoutines = 0 }},
		{"unknown metric", func(c *MosaicConfig) { c.Metric = "nope" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultMosaicConfig()
			tt.modify(&config)
			err := config.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if _, ok := err.(*ConfigError); !ok {
				t.Errorf("got %T, want *ConfigError", err)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewConfigError("depth %d", 0), "depth 0"},
		{NewInvalidImageError("empty image"), "empty image"},
		{NewResolutionMismatchError("no bucket for %s", "4x4"), "no bucket for 4x4"},
	}
	for _, tt := range tests {
		if !strings.Contains(tt.err.Error(), tt.want) {
			t.Errorf("Error() = %q, want it to contain %q", tt.err.Error(), tt.want)
		}
	}
}
