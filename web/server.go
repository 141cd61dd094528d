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

// Package web implements the JSON backend of the interactive editor. Every
// editor session first calls /init to receive a connection id; all further
// requests carry that id and operate on the per-connection state (loaded
// tile library, mosaic variables). Images travel base64 encoded inside the
// JSON bodies.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"github.com/google/uuid"
	"github.com/raku1chi/pixelplay"
	"github.com/raku1chi/pixelplay/filter"

	log "github.com/sirupsen/logrus"
)

var (
	ErrAlreadyHandled = errors.New("error was already handled")
)

const (
	VarKey   = "var"
	ValueKey = "value"
)

// Context holds everything shared between all connections: the connection
// storage and the library cache. Tile libraries are immutable once loaded,
// so connections with the same sources share one library through the cache.
type Context struct {
	Storage     ConnectionStorage
	Cache       *pixelplay.LibraryCache
	NumRoutines int
}

// NewContext returns a new context given the connection storage.
func NewContext(storage ConnectionStorage) *Context {
	initialRoutines := runtime.NumCPU() * 2
	if initialRoutines <= 0 {
		// don't know if this can happen, better safe than sorry
		initialRoutines = 4
	}
	return &Context{
		Storage:     storage,
		Cache:       pixelplay.NewLibraryCache(pixelplay.LibraryCacheSize),
		NumRoutines: initialRoutines,
	}
}

// HandlerFunc is a handler that returns a json serializable result or an
// error. If the error is ErrAlreadyHandled an error response was already
// written.
type HandlerFunc func(context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error)

// ToHTTPFunc wraps a HandlerFunc into a http.HandlerFunc that serializes the
// result as json.
func ToHTTPFunc(context *Context, handler HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if jsonData, err := handler(context, w, r); err != nil {
			if err != ErrAlreadyHandled {
				log.WithError(err).Error("Error in request")
				http.Error(w, "Internal Server Error", 500)
			}
		} else {
			jData, jErr := json.Marshal(jsonData)
			if jErr != nil {
				log.WithError(jErr).Error("Internal error: Can't marshal json")
				http.Error(w, "Internal Server Error", 500)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write(jData)
		}
	}
}

// JSONMap is a decoded json request body.
type JSONMap map[string]interface{}

func (m JSONMap) GetString(key string) (string, error) {
	val, has := m[key]
	if !has {
		return "", fmt.Errorf("key not found: %s", key)
	}
	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("entry for %s not of type string", key)
	}
	return str, nil
}

// GetInt reads an integer entry. Numbers arrive as json float64 values, so
// the value is only accepted if it is integral.
func (m JSONMap) GetInt(key string) (int, error) {
	asFloat, floatErr := m.GetFloat(key)
	if floatErr != nil {
		return -1, floatErr
	}
	asInt := int(asFloat)
	if float64(asInt) != asFloat {
		return -1, fmt.Errorf("entry for %s not of type int", key)
	}
	return asInt, nil
}

func (m JSONMap) GetFloat(key string) (float64, error) {
	val, has := m[key]
	if !has {
		return -1.0, fmt.Errorf("key not found: %s", key)
	}
	asFloat, ok := val.(float64)
	if !ok {
		return -1.0, fmt.Errorf("entry for %s not of type float", key)
	}
	return asFloat, nil
}

func (m JSONMap) GetBool(key string) (bool, error) {
	val, has := m[key]
	if !has {
		return false, fmt.Errorf("key not found: %s", key)
	}
	asBool, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("entry for %s not of type bool", key)
	}
	return asBool, nil
}

func (m JSONMap) GetStringList(key string) ([]string, error) {
	val, has := m[key]
	if !has {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	asList, ok := val.([]interface{})
	if !ok {
		return nil, fmt.Errorf("entry for %s not of type list", key)
	}
	res := make([]string, len(asList))
	for i, entry := range asList {
		str, strOk := entry.(string)
		if !strOk {
			return nil, fmt.Errorf("entry for %s not a list of strings", key)
		}
		res[i] = str
	}
	return res, nil
}

func (m JSONMap) GetConnection() (ConnectionID, error) {
	str, lookupErr := m.GetString("connection")
	var id ConnectionID
	if lookupErr != nil {
		return id, lookupErr
	}
	uid, parseErr := uuid.Parse(str)
	if parseErr != nil {
		return id, parseErr
	}
	id = ConnectionID(uid)
	return id, nil
}

// ProcessRequest decodes the json body of a request.
func ProcessRequest(w http.ResponseWriter, r *http.Request) (JSONMap, error) {
	if r.Body == nil {
		http.Error(w, "No request body given", 400)
		return nil, ErrAlreadyHandled
	}
	dec := json.NewDecoder(r.Body)
	m := make(map[string]interface{})
	err := dec.Decode(&m)
	if err != nil {
		http.Error(w,
			fmt.Sprintf("Invalid request, expected valid JSON, got: %s", err.Error()),
			400)
		return nil, ErrAlreadyHandled
	}
	return m, nil
}

// StateHandlerFunc is a handler that already received the decoded request
// body and the connection state for the connection id inside it.
type StateHandlerFunc func(state *State, context *Context, w http.ResponseWriter, jsonMap JSONMap) (interface{}, error)

// StateHandlerToHTTPFunc wraps a StateHandlerFunc: it decodes the body,
// looks up the connection and delegates.
func StateHandlerToHTTPFunc(context *Context, handler StateHandlerFunc) http.HandlerFunc {
	stateHandler := func(context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error) {
		// first get json data
		jsonMap, jsonErr := ProcessRequest(w, r)
		if jsonErr != nil {
			return nil, jsonErr
		}
		// get connection from json dict
		connectionID, connectionKeyErr := jsonMap.GetConnection()
		if connectionKeyErr != nil {
			http.Error(w, connectionKeyErr.Error(), 400)
			return nil, ErrAlreadyHandled
		}
		// get connection from context
		state, connErr := context.Storage.Get(connectionID)
		if connErr != nil {
			http.Error(w, connErr.Error(), 400)
			return nil, ErrAlreadyHandled
		}
		state.Touch()
		return handler(state, context, w, jsonMap)
	}
	return ToHTTPFunc(context, stateHandler)
}

// InitHandler creates a new connection and returns its id.
func InitHandler(context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error) {
	id, idErr := GenConnectionID()
	if idErr != nil {
		return nil, idErr
	}
	if setErr := context.Storage.Set(id, NewState(context.NumRoutines)); setErr != nil {
		return nil, setErr
	}
	res := map[string]string{
		"connection": id.String(),
	}
	return res, nil
}

// GetVarHandler returns all mosaic variables of the connection.
func GetVarHandler(state *State, context *Context, w http.ResponseWriter, jsonMap JSONMap) (interface{}, error) {
	res := map[string]interface{}{
		"color-depth":  state.config.ColorDepth,
		"image-scale":  state.config.ImageScale,
		"scales":       state.config.ResizingScales,
		"pixel-shift":  state.config.PixelShift.String(),
		"overlap":      state.config.OverlapTiles,
		"metric":       state.config.Metric,
		"jpeg-quality": state.jpgQuality,
	}
	return res, nil
}

// SetVarHandler sets one mosaic variable of the connection.
func SetVarHandler(state *State, context *Context, w http.ResponseWriter, jsonMap JSONMap) (interface{}, error) {
	varName, varErr := jsonMap.GetString(VarKey)
	if varErr != nil {
		http.Error(w, varErr.Error(), 400)
		return nil, ErrAlreadyHandled
	}
	config := state.config
	var argErr error
	switch varName {
	case "color-depth":
		var depth int
		depth, argErr = jsonMap.GetInt(ValueKey)
		if argErr == nil {
			config.ColorDepth = uint(depth)
		}
	case "image-scale":
		var scale float64
		scale, argErr = jsonMap.GetFloat(ValueKey)
		if argErr == nil {
			config.ImageScale = scale
		}
	case "scales":
		var scalesStr string
		scalesStr, argErr = jsonMap.GetString(ValueKey)
		if argErr != nil {
			break
		}
		var scales []float64
		scales, argErr = pixelplay.ParseScales(scalesStr)
		if argErr == nil {
			config.ResizingScales = scales
		}
	case "pixel-shift":
		var shiftStr string
		shiftStr, argErr = jsonMap.GetString(ValueKey)
		if argErr != nil {
			break
		}
		if shiftStr == "auto" {
			config.PixelShift = pixelplay.AutoShift
		} else {
			var x, y int
			x, y, argErr = pixelplay.ParseDimensions(shiftStr)
			if argErr == nil {
				config.PixelShift = pixelplay.PixelShift{X: x, Y: y}
			}
		}
	case "overlap":
		var overlap bool
		overlap, argErr = jsonMap.GetBool(ValueKey)
		if argErr == nil {
			config.OverlapTiles = overlap
		}
	case "metric":
		var metricName string
		metricName, argErr = jsonMap.GetString(ValueKey)
		if argErr == nil {
			config.Metric = metricName
		}
	case "jpeg-quality":
		var newQuality int
		newQuality, argErr = jsonMap.GetInt(ValueKey)
		if argErr != nil {
			break
		}
		if newQuality < 1 || newQuality > 100 {
			argErr = fmt.Errorf("jpeg-quality must be a value between 1 and 100, got %d", newQuality)
			break
		}
		state.jpgQuality = newQuality
		res := map[string]bool{"success": true}
		return res, nil
	default:
		http.Error(w, fmt.Sprintf("Invalid variable name %s", varName), 400)
		return nil, ErrAlreadyHandled
	}
	if argErr == nil {
		argErr = config.Validate()
	}
	if argErr != nil {
		http.Error(w, argErr.Error(), 400)
		return nil, ErrAlreadyHandled
	}
	state.config = config
	res := map[string]bool{"success": true}
	return res, nil
}

// TilesHandler loads a tile library for the connection. The library is
// memoized in the shared cache, keyed by sources, scales and color depth.
func TilesHandler(state *State, context *Context, w http.ResponseWriter, jsonMap JSONMap) (interface{}, error) {
	sources, sourcesErr := jsonMap.GetStringList("sources")
	if sourcesErr != nil {
		http.Error(w, sourcesErr.Error(), 400)
		return nil, ErrAlreadyHandled
	}
	library, loadErr := context.Cache.Load(sources, state.config.ResizingScales,
		state.config.ColorDepth, context.NumRoutines, nil)
	if loadErr != nil {
		if confErr, ok := loadErr.(*pixelplay.ConfigError); ok {
			http.Error(w, confErr.Error(), 400)
			return nil, ErrAlreadyHandled
		}
		return nil, loadErr
	}
	state.library = library
	res := map[string]interface{}{
		"tiles":   library.NumTiles(),
		"buckets": len(library.Buckets),
	}
	return res, nil
}

// MosaicHandler builds a mosaic of the image inside the request body using
// the connection's tile library and variables. The result is returned base64
// encoded, as png by default or jpg if requested.
func MosaicHandler(state *State, context *Context, w http.ResponseWriter, jsonMap JSONMap) (interface{}, error) {
	if state.library == nil {
		http.Error(w, "no tile library loaded for this connection", 400)
		return nil, ErrAlreadyHandled
	}
	imgStr, imgErr := jsonMap.GetString("image")
	if imgErr != nil {
		http.Error(w, imgErr.Error(), 400)
		return nil, ErrAlreadyHandled
	}
	img, decodeErr := DecodeImage(imgStr)
	if decodeErr != nil {
		http.Error(w, fmt.Sprintf("can't decode image: %s", decodeErr.Error()), 400)
		return nil, ErrAlreadyHandled
	}
	mosaic, buildErr := pixelplay.BuildMosaic(img, state.library, state.config)
	if buildErr != nil {
		switch buildErr.(type) {
		case *pixelplay.ConfigError, *pixelplay.InvalidImageError, *pixelplay.ResolutionMismatchError:
			http.Error(w, buildErr.Error(), 400)
			return nil, ErrAlreadyHandled
		default:
			return nil, buildErr
		}
	}
	format, formatErr := jsonMap.GetString("format")
	if formatErr != nil {
		format = "png"
	}
	var encoded string
	var encodeErr error
	switch format {
	case "jpg", "jpeg":
		encoded, encodeErr = EncodeJPEG(mosaic, state.jpgQuality)
	default:
		encoded, encodeErr = EncodePNG(mosaic)
	}
	if encodeErr != nil {
		return nil, encodeErr
	}
	res := map[string]string{
		"image":  encoded,
		"format": format,
	}
	return res, nil
}

// FilterHandler applies a chain of one-shot filters (see the filter package)
// to the image inside the request body and returns the result base64
// encoded as png.
func FilterHandler(state *State, context *Context, w http.ResponseWriter, jsonMap JSONMap) (interface{}, error) {
	specs, specsErr := jsonMap.GetStringList("filters")
	if specsErr != nil {
		http.Error(w, specsErr.Error(), 400)
		return nil, ErrAlreadyHandled
	}
	chain, parseErr := filter.ParseChain(specs)
	if parseErr != nil {
		http.Error(w, parseErr.Error(), 400)
		return nil, ErrAlreadyHandled
	}
	imgStr, imgErr := jsonMap.GetString("image")
	if imgErr != nil {
		http.Error(w, imgErr.Error(), 400)
		return nil, ErrAlreadyHandled
	}
	img, decodeErr := DecodeImage(imgStr)
	if decodeErr != nil {
		http.Error(w, fmt.Sprintf("can't decode image: %s", decodeErr.Error()), 400)
		return nil, ErrAlreadyHandled
	}
	encoded, encodeErr := EncodePNG(chain(img))
	if encodeErr != nil {
		return nil, encodeErr
	}
	res := map[string]string{
		"image":  encoded,
		"format": "png",
	}
	return res, nil
}

// RegisterHandlers registers all backend handlers on the given mux.
func RegisterHandlers(mux *http.ServeMux, context *Context) {
	mux.HandleFunc("/init", ToHTTPFunc(context, InitHandler))
	mux.HandleFunc("/vars/get", StateHandlerToHTTPFunc(context, GetVarHandler))
	mux.HandleFunc("/vars/set", StateHandlerToHTTPFunc(context, SetVarHandler))
	mux.HandleFunc("/tiles", StateHandlerToHTTPFunc(context, TilesHandler))
	mux.HandleFunc("/mosaic", StateHandlerToHTTPFunc(context, MosaicHandler))
	mux.HandleFunc("/filter", StateHandlerToHTTPFunc(context, FilterHandler))
}
