package calculator

import "gonum.org/v1/gonum/floats"

// RSI returns the relative strength index of closes over window periods,
// using plain rolling means of gains and of loss magnitudes.
//
// A zero average loss saturates: RSI is 100 when the window gained and 50
// when it did not move at all. Only the warm-up prefix (first window rows)
// is NaN.
func RSI(closes []float64, window int) []float64 {
	n := len(closes)
	out := nanSlice(n)
	if window <= 0 || n <= window {
		return out
	}

	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	w := float64(window)
	for i := window; i < n; i++ {
		avgGain := floats.Sum(gains[i-window+1:i+1]) / w
		avgLoss := floats.Sum(losses[i-window+1:i+1]) / w
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}
	return out
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
