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

package web

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/raku1chi/pixelplay"
)

func testServer(t *testing.T) (*httptest.Server, *Context) {
	t.Helper()
	context := NewContext(NewMemStorage())
	mux := http.NewServeMux()
	RegisterHandlers(mux, context)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, context
}

func postJSON(t *testing.T, url string, body map[string]interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	data, marshalErr := json.Marshal(body)
	if marshalErr != nil {
		t.Fatal(marshalErr)
	}
	resp, postErr := http.Post(url, "application/json", bytes.NewReader(data))
	if postErr != nil {
		t.Fatal(postErr)
	}
	defer resp.Body.Close()
	res := make(map[string]interface{})
	if resp.StatusCode == 200 {
		if decodeErr := json.NewDecoder(resp.Body).Decode(&res); decodeErr != nil {
			t.Fatalf("can't decode response: %v", decodeErr)
		}
	}
	return resp, res
}

func initConnection(t *testing.T, serverURL string) string {
	t.Helper()
	resp, body := postJSON(t, serverURL+"/init", map[string]interface{}{})
	if resp.StatusCode != 200 {
		t.Fatalf("/init returned status %d", resp.StatusCode)
	}
	id, ok := body["connection"].(string)
	if !ok || id == "" {
		t.Fatal("/init returned no connection id")
	}
	return id
}

func TestJSONMapGetters(t *testing.T) {
	m := JSONMap{
		"str":   "hello",
		"int":   float64(42),
		"frac":  0.5,
		"flag":  true,
		"list":  []interface{}{"a", "b"},
		"mixed": []interface{}{"a", 1.0},
	}
	if got, err := m.GetString("str"); err != nil || got != "hello" {
		t.Errorf("GetString = (%q, %v)", got, err)
	}
	if got, err := m.GetInt("int"); err != nil || got != 42 {
		t.Errorf("GetInt = (%d, %v)", got, err)
	}
	if _, err := m.GetInt("frac"); err == nil {
		t.Error("GetInt must reject non-integral numbers")
	}
	if got, err := m.GetFloat("frac"); err != nil || got != 0.5 {
		t.Errorf("GetFloat = (%f, %v)", got, err)
	}
	if got, err := m.GetBool("flag"); err != nil || !got {
		t.Errorf("GetBool = (%v, %v)", got, err)
	}
	if got, err := m.GetStringList("list"); err != nil || len(got) != 2 {
		t.Errorf("GetStringList = (%v, %v)", got, err)
	}
	if _, err := m.GetStringList("mixed"); err == nil {
		t.Error("GetStringList must reject mixed lists")
	}
	if _, err := m.GetString("missing"); err == nil {
		t.Error("missing keys must be an error")
	}
	if _, err := m.GetString("int"); err == nil {
		t.Error("type mismatches must be an error")
	}
}

func TestInitHandler(t *testing.T) {
	server, context := testServer(t)
	id := initConnection(t, server.URL)
	// the returned id must be known to the storage
	resp, _ := postJSON(t, server.URL+"/vars/get", map[string]interface{}{
		"connection": id,
	})
	if resp.StatusCode != 200 {
		t.Errorf("/vars/get for a fresh connection returned status %d", resp.StatusCode)
	}
	if context.NumRoutines <= 0 {
		t.Error("context must have a positive routine count")
	}
}

func TestUnknownConnection(t *testing.T) {
	server, _ := testServer(t)
	resp, _ := postJSON(t, server.URL+"/vars/get", map[string]interface{}{
		"connection": "83b41ba3-2d47-4a98-9ae1-ee3386d5a7b8",
	})
	if resp.StatusCode != 400 {
		t.Errorf("unknown connection returned status %d, want 400", resp.StatusCode)
	}
}

func TestSetVarHandler(t *testing.T) {
	server, context := testServer(t)
	id := initConnection(t, server.URL)

	tests := []struct {
		name  string
		value interface{}
		check func(state *State) bool
	}{
		{"color-depth", float64(64), func(s *State) bool { return s.config.ColorDepth == 64 }},
		{"image-scale", 0.25, func(s *State) bool { return s.config.ImageScale == 0.25 }},
		{"scales", "0.5, 0.25", func(s *State) bool { return len(s.config.ResizingScales) == 2 }},
		{"pixel-shift", "4x4", func(s *State) bool { return s.config.PixelShift == pixelplay.PixelShift{X: 4, Y: 4} }},
		{"pixel-shift", "auto", func(s *State) bool { return s.config.PixelShift.IsAuto() }},
		{"overlap", true, func(s *State) bool { return s.config.OverlapTiles }},
		{"metric", "manhattan", func(s *State) bool { return s.config.Metric == "manhattan" }},
		{"jpeg-quality", float64(80), func(s *State) bool { return s.jpgQuality == 80 }},
	}
	for _, tt := range tests {
		resp, body := postJSON(t, server.URL+"/vars/set", map[string]interface{}{
			"connection": id,
			VarKey:       tt.name,
			ValueKey:     tt.value,
		})
		if resp.StatusCode != 200 {
			t.Fatalf("set %s returned status %d", tt.name, resp.StatusCode)
		}
		if success, _ := body["success"].(bool); !success {
			t.Fatalf("set %s not successful", tt.name)
		}
		uid, parseErr := uuid.Parse(id)
		if parseErr != nil {
			t.Fatal(parseErr)
		}
		state, stateErr := context.Storage.Get(ConnectionID(uid))
		if stateErr != nil {
			t.Fatal(stateErr)
		}
		if !tt.check(state) {
			t.Errorf("set %s did not update the state", tt.name)
		}
	}
}

func TestSetVarHandlerRejectsInvalid(t *testing.T) {
	server, _ := testServer(t)
	id := initConnection(t, server.URL)

	invalid := []struct {
		name  string
		value interface{}
	}{
		{"color-depth", float64(0)},
		{"color-depth", 1.5},
		{"image-scale", -1.0},
		{"scales", "abc"},
		{"pixel-shift", "4by4"},
		{"metric", "nope"},
		{"jpeg-quality", float64(0)},
		{"no-such-var", "x"},
	}
	for _, tt := range invalid {
		resp, _ := postJSON(t, server.URL+"/vars/set", map[string]interface{}{
			"connection": id,
			VarKey:       tt.name,
			ValueKey:     tt.value,
		})
		if resp.StatusCode != 400 {
			t.Errorf("set %s=%v returned status %d, want 400", tt.name, tt.value, resp.StatusCode)
		}
	}
}

func TestTilesAndMosaicHandlers(t *testing.T) {
	server, _ := testServer(t)
	id := initConnection(t, server.URL)

	// one red tile image on disk
	dir := t.TempDir()
	tileImg := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			tileImg.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	f, createErr := os.Create(filepath.Join(dir, "red.png"))
	if createErr != nil {
		t.Fatal(createErr)
	}
	if encodeErr := png.Encode(f, tileImg); encodeErr != nil {
		t.Fatal(encodeErr)
	}
	f.Close()

	// build the mosaic at full size so the small test image survives
	for name, value := range map[string]interface{}{
		"image-scale": 1.0,
		"scales":      "0.5",
	} {
		resp, _ := postJSON(t, server.URL+"/vars/set", map[string]interface{}{
			"connection": id, VarKey: name, ValueKey: value,
		})
		if resp.StatusCode != 200 {
			t.Fatalf("set %s failed with status %d", name, resp.StatusCode)
		}
	}

	resp, body := postJSON(t, server.URL+"/tiles", map[string]interface{}{
		"connection": id,
		"sources":    []interface{}{dir},
	})
	if resp.StatusCode != 200 {
		t.Fatalf("/tiles returned status %d", resp.StatusCode)
	}
	if tiles, _ := body["tiles"].(float64); tiles != 1 {
		t.Fatalf("loaded %v tiles, want 1", body["tiles"])
	}

	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}
	encoded, encodeErr := EncodePNG(src)
	if encodeErr != nil {
		t.Fatal(encodeErr)
	}
	resp, body = postJSON(t, server.URL+"/mosaic", map[string]interface{}{
		"connection": id,
		"image":      encoded,
	})
	if resp.StatusCode != 200 {
		t.Fatalf("/mosaic returned status %d", resp.StatusCode)
	}
	resultStr, _ := body["image"].(string)
	result, decodeErr := DecodeImage(resultStr)
	if decodeErr != nil {
		t.Fatalf("can't decode mosaic response: %v", decodeErr)
	}
	if result.Bounds().Dx() != 8 || result.Bounds().Dy() != 8 {
		t.Errorf("mosaic dimensions = %v, want 8x8", result.Bounds())
	}
	r, _, _, a := result.At(0, 0).RGBA()
	if r>>8 != 255 || a>>8 != 255 {
		t.Errorf("mosaic pixel = (%d, alpha %d), want the opaque red tile", r>>8, a>>8)
	}
}

func TestMosaicHandlerWithoutLibrary(t *testing.T) {
	server, _ := testServer(t)
	id := initConnection(t, server.URL)
	resp, _ := postJSON(t, server.URL+"/mosaic", map[string]interface{}{
		"connection": id,
		"image":      "aaaa",
	})
	if resp.StatusCode != 400 {
		t.Errorf("/mosaic without a library returned status %d, want 400", resp.StatusCode)
	}
}

func TestFilterHandler(t *testing.T) {
	server, _ := testServer(t)
	id := initConnection(t, server.URL)

	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetRGBA(x, y, color.RGBA{R: 200, G: 50, B: 10, A: 255})
		}
	}
	encoded, encodeErr := EncodePNG(src)
	if encodeErr != nil {
		t.Fatal(encodeErr)
	}
	resp, body := postJSON(t, server.URL+"/filter", map[string]interface{}{
		"connection": id,
		"image":      encoded,
		"filters":    []interface{}{"grayscale"},
	})
	if resp.StatusCode != 200 {
		t.Fatalf("/filter returned status %d", resp.StatusCode)
	}
	result, decodeErr := DecodeImage(body["image"].(string))
	if decodeErr != nil {
		t.Fatalf("can't decode filter response: %v", decodeErr)
	}
	r, g, b, _ := result.At(1, 1).RGBA()
	if r != g || g != b {
		t.Errorf("filtered pixel (%d, %d, %d) is not gray", r>>8, g>>8, b>>8)
	}

	resp, _ = postJSON(t, server.URL+"/filter", map[string]interface{}{
		"connection": id,
		"image":      encoded,
		"filters":    []interface{}{"nope"},
	})
	if resp.StatusCode != 400 {
		t.Errorf("unknown filter returned status %d, want 400", resp.StatusCode)
	}
}

func TestImageEncodeDecodeRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 3))
	src.SetRGBA(1, 1, color.RGBA{R: 12, G: 34, B: 56, A: 255})

	encoded, encodeErr := EncodePNG(src)
	if encodeErr != nil {
		t.Fatalf("EncodePNG failed: %v", encodeErr)
	}
	decoded, decodeErr := DecodeImage(encoded)
	if decodeErr != nil {
		t.Fatalf("DecodeImage failed: %v", decodeErr)
	}
	r, g, b, _ := decoded.At(1, 1).RGBA()
	if r>>8 != 12 || g>>8 != 34 || b>>8 != 56 {
		t.Errorf("round trip pixel = (%d, %d, %d), want (12, 34, 56)", r>>8, g>>8, b>>8)
	}

	if _, jpgErr := EncodeJPEG(src, 90); jpgErr != nil {
		t.Errorf("EncodeJPEG failed: %v", jpgErr)
	}
	if _, badErr := DecodeImage("definitely-not-base64-image-data"); badErr == nil {
		t.Error("DecodeImage must fail for garbage input")
	}
}
