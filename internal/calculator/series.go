// Package calculator implements the indicator library: pure, look-backward
// functions over price and volume columns.
//
// Series functions return a slice aligned with their input. Positions whose
// trailing window is not yet full hold NaN.
package calculator

import "math"

// IsDefined reports whether v is a usable number (not NaN, not ±Inf).
func IsDefined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Last returns the final element of values, or NaN when empty.
func Last(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// leadingUndefined counts the undefined values at the head of values.
// Derived columns (diffs, returns, rolling outputs) only carry NaN in their
// warm-up prefix.
func leadingUndefined(values []float64) int {
	for i, v := range values {
		if IsDefined(v) {
			return i
		}
	}
	return len(values)
}

// rolling applies a window reducer to every full trailing window that starts
// after the undefined prefix of values.
func rolling(values []float64, window int, reduce func(w []float64) float64) []float64 {
	out := nanSlice(len(values))
	if window <= 0 {
		return out
	}
	start := leadingUndefined(values)
	for i := start + window - 1; i < len(values); i++ {
		out[i] = reduce(values[i-window+1 : i+1])
	}
	return out
}

// LastDefined returns the final defined element of values and its index,
// or (NaN, -1) when none is defined.
func LastDefined(values []float64) (float64, int) {
	for i := len(values) - 1; i >= 0; i-- {
		if IsDefined(values[i]) {
			return values[i], i
		}
	}
	return math.NaN(), -1
}
