package calculator

// BollingerBands holds the middle band and the ±k·σ envelopes.
type BollingerBands struct {
	Mid   []float64
	Upper []float64
	Lower []float64
}

// Bollinger returns window-period bands at k sample standard deviations.
func Bollinger(closes []float64, window int, k float64) BollingerBands {
	mid := RollingMean(closes, window)
	std := RollingStd(closes, window)

	upper := make([]float64, len(closes))
	lower := make([]float64, len(closes))
	for i := range closes {
		upper[i] = mid[i] + k*std[i]
		lower[i] = mid[i] - k*std[i]
	}
	return BollingerBands{Mid: mid, Upper: upper, Lower: lower}
}

// Width returns (upper-lower)/mid per row.
func (b BollingerBands) Width() []float64 {
	out := make([]float64, len(b.Mid))
	for i := range out {
		out[i] = (b.Upper[i] - b.Lower[i]) / b.Mid[i]
	}
	return out
}

// Position returns where each close sits inside the band, 0 at lower and 1 at upper.
// Collapsed bands yield NaN.
func (b BollingerBands) Position(closes []float64) []float64 {
	out := nanSlice(len(closes))
	for i := range closes {
		width := b.Upper[i] - b.Lower[i]
		if width == 0 {
			continue
		}
		out[i] = (closes[i] - b.Lower[i]) / width
	}
	return out
}
