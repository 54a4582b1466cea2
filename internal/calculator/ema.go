package calculator

// EMA returns the exponentially weighted mean of values with span-based
// smoothing α = 2/(span+1).
//
// Weights are bias-adjusted: row t is Σ(1-α)^i·x[t-i] / Σ(1-α)^i over all
// earlier rows, so the average is defined from the first observation and
// early rows are not dragged towards a zero seed.
func EMA(values []float64, span int) []float64 {
	out := nanSlice(len(values))
	if span < 1 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	decay := 1.0 - alpha

	var num, den float64
	for i := leadingUndefined(values); i < len(values); i++ {
		num = values[i] + decay*num
		den = 1 + decay*den
		out[i] = num / den
	}
	return out
}
