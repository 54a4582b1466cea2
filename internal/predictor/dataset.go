package predictor

import (
	"fmt"

	"StockSentinel/internal/features"
	"StockSentinel/internal/model"
)

// dataset is a supervised view of a feature table. Targets are the open and
// close h sessions ahead, expressed as returns on the row's close.
type dataset struct {
	X         [][]float64
	openRet   []float64
	closeRet  []float64
	base      []float64 // close of each labelled row
	openNext  []float64 // realized open h sessions ahead
	closeNext []float64 // realized close h sessions ahead

	forecast     []float64 // most recent feature row, unlabelled
	forecastBase float64
}

func (d *dataset) Len() int { return len(d.X) }

// newDataset labels every table row whose source position has a value h
// sessions ahead. Labels come from raw series positions, so rows dropped
// during warm-up never shift a target onto the wrong date.
func newDataset(tbl *features.Table, series *model.Series, cols []string, horizon int) (*dataset, error) {
	if tbl.Len() == 0 {
		return &dataset{}, nil
	}
	matrix, err := tbl.Matrix(cols)
	if err != nil {
		return nil, fmt.Errorf("feature matrix: %w", err)
	}

	bars := series.Bars
	d := &dataset{}
	for row, pos := range tbl.Index {
		ahead := pos + horizon
		if ahead >= len(bars) {
			continue
		}
		c := bars[pos].Close
		if c == 0 {
			continue
		}
		d.X = append(d.X, matrix[row])
		d.base = append(d.base, c)
		d.openNext = append(d.openNext, bars[ahead].Open)
		d.closeNext = append(d.closeNext, bars[ahead].Close)
		d.openRet = append(d.openRet, bars[ahead].Open/c-1)
		d.closeRet = append(d.closeRet, bars[ahead].Close/c-1)
	}

	last := tbl.Len() - 1
	d.forecast = matrix[last]
	d.forecastBase = bars[tbl.Index[last]].Close
	return d, nil
}

// toPrice maps a predicted return back to a price level.
func toPrice(base, ret float64) float64 {
	return base * (1 + ret)
}

// LastSessions summarizes the final n bars of series, oldest first.
func LastSessions(series *model.Series, n int) []model.SessionSummary {
	tail := series.Tail(n)
	out := make([]model.SessionSummary, len(tail))
	for i, b := range tail {
		out[i] = model.SessionSummary{
			Date:   b.Time.Format("2006-01-02"),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: int64(b.Volume),
		}
	}
	return out
}
