package calculator

import (
	"errors"
	"math"

	"github.com/markcheno/go-talib"

	"StockSentinel/internal/model"
)

// RollingMax returns the trailing maximum of values.
func RollingMax(values []float64, window int) []float64 {
	return talibWindow(values, window, talib.Max)
}

// RollingMin returns the trailing minimum of values.
func RollingMin(values []float64, window int) []float64 {
	return talibWindow(values, window, talib.Min)
}

func talibWindow(values []float64, window int, fn func([]float64, int) []float64) []float64 {
	out := nanSlice(len(values))
	start := leadingUndefined(values)
	if window <= 0 || len(values)-start < window {
		return out
	}
	if window == 1 {
		copy(out[start:], values[start:])
		return out
	}
	res := fn(values[start:], window)
	for i := window - 1; i < len(res); i++ {
		out[start+i] = res[i]
	}
	return out
}

// SupportResistance returns the rolling low of lows and high of highs.
func SupportResistance(highs, lows []float64, window int) (support, resistance []float64) {
	return RollingMin(lows, window), RollingMax(highs, window)
}

// TrailingRange scans the most recent n bars and returns the highest high and lowest low.
func TrailingRange(bars []model.OHLCV, n int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	start := len(bars) - n
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < len(bars); i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return high, low, nil
}
