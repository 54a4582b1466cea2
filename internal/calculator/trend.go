package calculator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// LinearTrendSlope fits values against their 0-based index by least squares
// and returns the slope. Fewer than two points yield NaN.
func LinearTrendSlope(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	x := make([]float64, len(values))
	for i := range x {
		x[i] = float64(i)
	}
	_, beta := stat.LinearRegression(x, values, nil, false)
	return beta
}

// TrendDirection classifies each trailing window as +1 when its last value
// exceeds its first and -1 otherwise.
func TrendDirection(values []float64, window int) []float64 {
	return rolling(values, window, func(w []float64) float64 {
		if w[len(w)-1] > w[0] {
			return 1
		}
		return -1
	})
}
