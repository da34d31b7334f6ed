// Copyright 2018 Fabian Wenzelmann
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

package colormosaic

import (
	"fmt"
	"math"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// VectorMetric is a function that takes two vectors of the same length and
// returns a metric value ("distance") of the two.
type VectorMetric func(p, q []float64) float64

// Manhattan returns the manhattan distance of two vectors, that is
// |p1 - q1| + ... + |pn - qn|.
func Manhattan(p, q []float64) float64 {
	var result float64
	for i, e1 := range p {
		result += math.Abs(e1 - q[i])
	}
	return result
}

// EuclideanDistance returns the euclidean distance of two
// vectors, that is sqrt( (p1 - q1)² + ... + (pn - qn)² ).
func EuclideanDistance(p, q []float64) float64 {
	var sum float64
	for i, e1 := range p {
		e2 := q[i]
		diff := (e1 - e2)
		sum += (diff * diff)
	}
	return math.Sqrt(sum)
}

// ChessboardDistance is the max over all absolute distances,
// see https://reference.wolfram.com/language/ref/ChessboardDistance.html
func ChessboardDistance(p, q []float64) float64 {
	res := 0.0
	for i, e1 := range p {
		e2 := q[i]
		res = math.Max(res, math.Abs(e1-e2))
	}
	return res
}

// ColorMetric compares two colors. The smaller the value is the more equal
// the colors are considered. Values should be ≥ 0.
type ColorMetric func(a, b RGBA) float64

// VectorColorMetric converts a vector metric on the r, g, b components to a
// color metric.
func VectorColorMetric(vm VectorMetric) ColorMetric {
	return func(a, b RGBA) float64 {
		return AverageColor(a).Dist(AverageColor(b), vm)
	}
}

// Colorful returns the color as a go-colorful color, alpha is ignored.
func (c RGBA) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// LabDistance is the euclidean distance in the CIE L*a*b* space.
func LabDistance(a, b RGBA) float64 {
	return a.Colorful().DistanceLab(b.Colorful())
}

// LuvDistance is the euclidean distance in the CIE L*u*v* space.
func LuvDistance(a, b RGBA) float64 {
	return a.Colorful().DistanceLuv(b.Colorful())
}

// CIEDE2000Distance is the CIEDE2000 color difference.
func CIEDE2000Distance(a, b RGBA) float64 {
	return a.Colorful().DistanceCIEDE2000(b.Colorful())
}

var (
	colorMetrics map[string]ColorMetric
)

// RegisterColorMetric is used to register a named color metric. It will only
// add the metric if the name does not exist yet. The result is true if the
// metric was successfully registered and false otherwise.
// All names are transformed to lowercase.
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

// GetColorMetric returns the metric registered under name.
func GetColorMetric(name string) (ColorMetric, error) {
	metric, has := colorMetrics[strings.ToLower(name)]
	if !has {
		return nil, fmt.Errorf("Unknown color metric %q, known metrics: %s",
			name, strings.Join(GetColorMetricNames(), ", "))
	}
	return metric, nil
}

// GetColorMetricNames returns a sorted list of all registered color metrics.
func GetColorMetricNames() []string {
	res := make([]string, 0, len(colorMetrics))
	for key := range colorMetrics {
		res = append(res, key)
	}
	sort.Strings(res)
	return res
}

func init() {
	colorMetrics = make(map[string]ColorMetric, 10)
	RegisterColorMetric("euclid", VectorColorMetric(EuclideanDistance))
	RegisterColorMetric("manhattan", VectorColorMetric(Manhattan))
	RegisterColorMetric("chessboard", VectorColorMetric(ChessboardDistance))
	RegisterColorMetric("lab", LabDistance)
	RegisterColorMetric("luv", LuvDistance)
	RegisterColorMetric("ciede2000", CIEDE2000Distance)
}
