package forest

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrNotFitted is returned when a scaler is used before Fit.
var ErrNotFitted = errors.New("scaler not fitted")

// Scaler normalizes feature columns using statistics learned by Fit.
type Scaler interface {
	Fit(X [][]float64) error
	Transform(X [][]float64) ([][]float64, error)
	TransformRow(row []float64) ([]float64, error)
}

// StandardScaler centers on the population mean and divides by the
// population standard deviation. Constant columns keep a scale of 1.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

func (s *StandardScaler) Fit(X [][]float64) error {
	cols, err := columns(X)
	if err != nil {
		return err
	}
	s.Mean = make([]float64, len(cols))
	s.Scale = make([]float64, len(cols))
	for j, col := range cols {
		mean, std := stat.PopMeanStdDev(col, nil)
		s.Mean[j] = mean
		s.Scale[j] = nonZero(std)
	}
	return nil
}

func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	return transformAll(X, s.TransformRow)
}

func (s *StandardScaler) TransformRow(row []float64) ([]float64, error) {
	return affine(row, s.Mean, s.Scale)
}

// RobustScaler centers on the median and divides by the interquartile range.
// A zero IQR keeps a scale of 1.
type RobustScaler struct {
	Center []float64
	Scale  []float64
}

func (s *RobustScaler) Fit(X [][]float64) error {
	cols, err := columns(X)
	if err != nil {
		return err
	}
	s.Center = make([]float64, len(cols))
	s.Scale = make([]float64, len(cols))
	for j, col := range cols {
		sort.Float64s(col)
		q1 := stat.Quantile(0.25, stat.LinInterp, col, nil)
		q3 := stat.Quantile(0.75, stat.LinInterp, col, nil)
		s.Center[j] = stat.Quantile(0.5, stat.LinInterp, col, nil)
		s.Scale[j] = nonZero(q3 - q1)
	}
	return nil
}

func (s *RobustScaler) Transform(X [][]float64) ([][]float64, error) {
	return transformAll(X, s.TransformRow)
}

func (s *RobustScaler) TransformRow(row []float64) ([]float64, error) {
	return affine(row, s.Center, s.Scale)
}

// columns copies X into column-major slices.
func columns(X [][]float64) ([][]float64, error) {
	if len(X) == 0 || len(X[0]) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	width := len(X[0])
	cols := make([][]float64, width)
	for j := range cols {
		cols[j] = make([]float64, len(X))
	}
	for i, row := range X {
		if len(row) != width {
			return nil, ErrShape
		}
		for j, v := range row {
			cols[j][i] = v
		}
	}
	return cols, nil
}

func affine(row, center, scale []float64) ([]float64, error) {
	if center == nil {
		return nil, ErrNotFitted
	}
	if len(row) != len(center) {
		return nil, ErrShape
	}
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - center[j]) / scale[j]
	}
	return out, nil
}

func transformAll(X [][]float64, fn func([]float64) ([]float64, error)) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, row := range X {
		r, err := fn(row)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
