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
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorMetric is any function that compares two RGB colors.
// The smaller the metric value is the more equal the colors are considered.
// Metric values should be ≥ 0.
type ColorMetric func(a, b RGB) float64

// EuclideanColorDistance returns the euclidean distance of two colors over
// the three RGB channels, that is sqrt( (r1-r2)² + (g1-g2)² + (b1-b2)² ).
//
// This is the metric the tile matching is defined with, all other metrics are
// alternatives.
func EuclideanColorDistance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// ManhattanColorDistance returns the manhattan distance of two colors, that
// is |r1-r2| + |g1-g2| + |b1-b2|.
func ManhattanColorDistance(a, b RGB) float64 {
	return math.Abs(float64(a.R)-float64(b.R)) +
		math.Abs(float64(a.G)-float64(b.G)) +
		math.Abs(float64(a.B)-float64(b.B))
}

// ChessboardColorDistance is the max over the absolute channel distances,
// see https://reference.wolfram.com/language/ref/ChessboardDistance.html
func ChessboardColorDistance(a, b RGB) float64 {
	res := math.Abs(float64(a.R) - float64(b.R))
	res = math.Max(res, math.Abs(float64(a.G)-float64(b.G)))
	return math.Max(res, math.Abs(float64(a.B)-float64(b.B)))
}

func toColorful(c RGB) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// LabColorDistance returns the distance of the two colors in the
// perceptually uniform CIE-L*a*b* space.
func LabColorDistance(a, b RGB) float64 {
	return toColorful(a).DistanceLab(toColorful(b))
}

// LuvColorDistance returns the distance of the two colors in the
// CIE-L*u*v* space.
func LuvColorDistance(a, b RGB) float64 {
	return toColorful(a).DistanceLuv(toColorful(b))
}

// The following variables are used for registering named metrics.

var (
	colorMetrics map[string]ColorMetric
)

// RegisterColorMetric is used to register a named color metric. It will only
// add the metric if the name does not exist yet. The result is true if the
// metric was successfully registered and false otherwise.
// Some metrics are registered by default.
// All names must be lowercase strings, the register and get methods will
// always transform a string to lowercase.
//
// All metrics should be registered by an init method.
func RegisterColorMetric(name string, metric ColorMetric) bool {
	name = strings.ToLower(name)
	if _, has := colorMetrics[name]; has {
		return false
	}
	colorMetrics[name] = metric
	return true
}

// GetColorMetricNames returns a list of all registered named color metrics.
// See RegisterColorMetric for details.
func GetColorMetricNames() []string {
	res := make([]string, 0, len(colorMetrics))
	for key := range colorMetrics {
		res = append(res, key)
	}
	return res
}

// GetColorMetric returns a registered color metric.
// Returns the metric and true on success and nil and false otherwise.
// See RegisterColorMetric for details.
func GetColorMetric(name string) (ColorMetric, bool) {
	name = strings.ToLower(name)
	if metric, has := colorMetrics[name]; has {
		return metric, true
	}
	return nil, false
}

func init() {
	colorMetrics = make(map[string]ColorMetric)
	RegisterColorMetric("euclid", EuclideanColorDistance)
	RegisterColorMetric("manhattan", ManhattanColorDistance)
	RegisterColorMetric("chessboard", ChessboardColorDistance)
	RegisterColorMetric("lab", LabColorDistance)
	RegisterColorMetric("luv", LuvColorDistance)
}
