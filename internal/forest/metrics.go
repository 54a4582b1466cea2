package forest

import "gonum.org/v1/gonum/floats"

// MAE returns the mean absolute error between actual and predicted values.
func MAE(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	return floats.Distance(actual, predicted, 1) / float64(len(actual))
}
