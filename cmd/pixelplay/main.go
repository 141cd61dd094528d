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

package main

import (
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/raku1chi/pixelplay"
	"github.com/raku1chi/pixelplay/filter"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
)

func expandPath(path string) (string, error) {
	// first extend with homedir
	expanded, expandErr := homedir.Expand(path)
	if expandErr != nil {
		return "", expandErr
	}
	return filepath.Abs(expanded)
}

func openImage(file string) (image.Image, error) {
	f, openErr := os.Open(file)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()
	img, _, decodeErr := image.Decode(f)
	return img, decodeErr
}

func saveImage(file string, img image.Image, jpgQuality int) error {
	outFile, outErr := os.Create(file)
	if outErr != nil {
		return outErr
	}
	defer outFile.Close()
	var encErr error
	ext := filepath.Ext(file)
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		encErr = jpeg.Encode(outFile, img, &jpeg.Options{Quality: jpgQuality})
	case ".png":
		encErr = png.Encode(outFile, img)
	default:
		return fmt.Errorf("Unsupported file type: %s, expected .jpg or .png", ext)
	}
	return encErr
}

func main() {
	var (
		inPath     = flag.String("in", "", "Input image (.jpg or .png)")
		outPath    = flag.String("out", "mosaic.png", "Output image (.jpg or .png)")
		tileDirs   = flag.String("tiles", "", "Comma separated list of tile directories")
		scalesStr  = flag.String("scales", "0.5, 0.4, 0.3, 0.2, 0.1", "Comma separated list of tile scale factors")
		depth      = flag.Uint("depth", 32, "Color depth (number of levels per channel, 1 to 256)")
		imageScale = flag.Float64("image-scale", 0.5, "Scale factor applied to the input image before tiling")
		shiftStr   = flag.String("shift", "auto", "Pixel shift between boxes: \"auto\" or WIDTHxHEIGHT")
		overlap    = flag.Bool("overlap", false, "Allow tiles to overwrite already covered pixels (best match wins)")
		metricName = flag.String("metric", "euclid", "Color metric, one of: "+strings.Join(pixelplay.GetColorMetricNames(), ", "))
		routines   = flag.Int("routines", runtime.NumCPU(), "Number of worker routines")
		filtersStr = flag.String("filter", "", "Comma separated filter chain applied to the input image, e.g. \"gray,blur:2.5\"")
		jpgQuality = flag.Int("jpg-quality", 100, "Quality for jpg output between 1 and 100")
		verbose    = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if *inPath == "" || *tileDirs == "" {
		flag.Usage()
		os.Exit(2)
	}

	config := pixelplay.DefaultMosaicConfig()
	config.ColorDepth = *depth
	config.ImageScale = *imageScale
	config.OverlapTiles = *overlap
	config.Metric = *metricName
	config.NumRoutines = *routines
	scales, scalesErr := pixelplay.ParseScales(*scalesStr)
	if scalesErr != nil {
		log.WithError(scalesErr).Fatal("Invalid -scales")
	}
	config.ResizingScales = scales
	if *shiftStr != "auto" {
		x, y, shiftErr := pixelplay.ParseDimensions(*shiftStr)
		if shiftErr != nil {
			log.WithError(shiftErr).Fatal("Invalid -shift, expected \"auto\" or WIDTHxHEIGHT")
		}
		config.PixelShift = pixelplay.PixelShift{X: x, Y: y}
	}
	if validateErr := config.Validate(); validateErr != nil {
		log.WithError(validateErr).Fatal("Invalid configuration")
	}

	var sources []string
	for _, dir := range strings.Split(*tileDirs, ",") {
		expanded, pathErr := expandPath(strings.TrimSpace(dir))
		if pathErr != nil {
			log.WithError(pathErr).WithField("dir", dir).Fatal("Invalid tile directory")
		}
		sources = append(sources, expanded)
	}

	in, inPathErr := expandPath(*inPath)
	if inPathErr != nil {
		log.WithError(inPathErr).Fatal("Invalid -in path")
	}
	out, outPathErr := expandPath(*outPath)
	if outPathErr != nil {
		log.WithError(outPathErr).Fatal("Invalid -out path")
	}
	if !pixelplay.JPGAndPNG(filepath.Ext(out)) {
		log.WithField("file", out).Fatal("Supported output files are .jpg and .png")
	}

	img, imgErr := openImage(in)
	if imgErr != nil {
		log.WithError(imgErr).WithField("file", in).Fatal("Can't read input image")
	}

	if *filtersStr != "" {
		chain, chainErr := filter.ParseChain(strings.Split(*filtersStr, ","))
		if chainErr != nil {
			log.WithError(chainErr).Fatal("Invalid -filter")
		}
		img = chain(img)
	}

	library, libErr := pixelplay.LoadTileLibrary(sources, config.ResizingScales,
		config.ColorDepth, config.NumRoutines, nil)
	if libErr != nil {
		log.WithError(libErr).Fatal("Can't load tile library")
	}

	mosaic, mosaicErr := pixelplay.BuildMosaic(img, library, config)
	if mosaicErr != nil {
		log.WithError(mosaicErr).Fatal("Can't compose mosaic")
	}

	if saveErr := saveImage(out, mosaic, *jpgQuality); saveErr != nil {
		log.WithError(saveErr).WithField("file", out).Fatal("Can't write output image")
	}
	log.WithField("file", out).Info("Mosaic written")
}
