package calculator

import (
	"errors"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"

	"StockSentinel/internal/model"
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	return stat.Mean(prices[len(prices)-period:], nil), nil
}

// RollingMean returns the trailing simple moving average of values.
func RollingMean(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	start := leadingUndefined(values)
	if window <= 0 || len(values)-start < window {
		return out
	}
	if window == 1 {
		copy(out[start:], values[start:])
		return out
	}
	// talib leaves its lookback prefix at zero; only the full windows are copied.
	sma := talib.Sma(values[start:], window)
	for i := window - 1; i < len(sma); i++ {
		out[start+i] = sma[i]
	}
	return out
}

// RollingStd returns the trailing sample standard deviation (n-1 denominator).
func RollingStd(values []float64, window int) []float64 {
	if window < 2 {
		return nanSlice(len(values))
	}
	return rolling(values, window, func(w []float64) float64 {
		return stat.StdDev(w, nil)
	})
}

// ExtractCloses returns the close column of bars.
func ExtractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
