package calculator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear annualizes daily statistics.
const TradingDaysPerYear = 252

// PctChange returns (v[t]-v[t-lag])/v[t-lag]. A zero base is undefined.
func PctChange(values []float64, lag int) []float64 {
	out := nanSlice(len(values))
	if lag <= 0 {
		return out
	}
	for i := lag; i < len(values); i++ {
		base := values[i-lag]
		if base == 0 || !IsDefined(base) {
			continue
		}
		out[i] = (values[i] - base) / base
	}
	return out
}

// Lag shifts values forward by n rows; the first n rows are NaN.
func Lag(values []float64, n int) []float64 {
	out := nanSlice(len(values))
	for i := n; i < len(values); i++ {
		out[i] = values[i-n]
	}
	return out
}

// AnnualizedVolatility is the sample std of daily returns scaled by √252.
func AnnualizedVolatility(closes []float64) float64 {
	returns := PctChange(closes, 1)
	defined := make([]float64, 0, len(returns))
	for _, r := range returns {
		if IsDefined(r) {
			defined = append(defined, r)
		}
	}
	if len(defined) < 2 {
		return 0
	}
	return stat.StdDev(defined, nil) * math.Sqrt(TradingDaysPerYear)
}
