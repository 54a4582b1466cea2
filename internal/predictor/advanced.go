package predictor

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"StockSentinel/internal/features"
	"StockSentinel/internal/forest"
	"StockSentinel/internal/fundamental"
	"StockSentinel/internal/model"
)

const (
	advancedMinHistory = 150
	advancedMinRows    = 100

	advancedMaxDepth = 20
	advancedMinSplit = 8
	advancedMinLeaf  = 4

	// bounds are hard-clamped to current price × [floor, ceiling]
	rangeFloor   = 0.7
	rangeCeiling = 1.3
)

// Advanced trains on every labelled row with robust scaling and a deeper
// ensemble. The range comes from member dispersion, narrowed as the
// fundamental score rises.
func (p *Predictor) Advanced(ctx context.Context, series *model.Series, fundamentals model.Fundamentals) (*model.PredictionResult, error) {
	if series.Len() < advancedMinHistory {
		return nil, fmt.Errorf("%w: %d rows, need %d", ErrInsufficientHistory, series.Len(), advancedMinHistory)
	}

	score := fundamental.Score(fundamentals)
	tbl, err := features.BuildComprehensive(series, fundamentals, score)
	if err != nil {
		return nil, err
	}
	cols := tbl.FeatureColumns(features.BaseColumns...)
	ds, err := newDataset(tbl, series, cols, p.cfg.Horizon)
	if err != nil {
		return nil, err
	}
	if ds.Len() < advancedMinRows {
		return nil, fmt.Errorf("%w: %d rows, need %d", ErrInsufficientFeatureRows, ds.Len(), advancedMinRows)
	}

	scaler := &forest.RobustScaler{}
	if err := scaler.Fit(ds.X); err != nil {
		return nil, fmt.Errorf("fit scaler: %w", err)
	}
	X, err := scaler.Transform(ds.X)
	if err != nil {
		return nil, err
	}

	cfg := p.forestConfig(p.cfg.AdvancedTrees)
	cfg.MaxDepth = advancedMaxDepth
	cfg.MinSamplesSplit = advancedMinSplit
	cfg.MinSamplesLeaf = advancedMinLeaf
	cfg.MaxFeatures = forest.SqrtFeatures

	openModel, closeModel, err := fitPair(ctx, X, ds.openRet, ds.closeRet, cfg)
	if err != nil {
		return nil, err
	}

	row, err := scaler.TransformRow(ds.forecast)
	if err != nil {
		return nil, err
	}

	current := series.LastClose()
	mult := confidenceMultiplier(score)
	predOpen, openRange := dispersionRange(openModel.PredictEach(row), ds.forecastBase, current, mult)
	predClose, closeRange := dispersionRange(closeModel.PredictEach(row), ds.forecastBase, current, mult)

	adj := fundamentalAdjustment(score)
	predOpen *= adj
	predClose *= adj

	p.log.Debug().
		Str("symbol", series.Symbol).
		Int("rows", ds.Len()).
		Int("features", len(cols)).
		Int("fundamental_score", score).
		Float64("multiplier", mult).
		Float64("adjustment", adj).
		Msg("advanced model fitted")

	return &model.PredictionResult{
		CurrentPrice:     current,
		PredictedOpen:    predOpen,
		OpenRange:        openRange,
		PredictedClose:   predClose,
		CloseRange:       closeRange,
		Volatility:       volatility(series),
		ModelType:        model.ModelAdvanced,
		Horizon:          p.cfg.Horizon,
		FundamentalScore: &score,
	}, nil
}

// dispersionRange converts member returns to prices and returns their mean
// with a band of mult population standard deviations, clamped to the
// allowed band around current.
func dispersionRange(memberReturns []float64, base, current, mult float64) (float64, model.Range) {
	prices := make([]float64, len(memberReturns))
	for i, r := range memberReturns {
		prices[i] = toPrice(base, r)
	}
	mean, std := stat.Mean(prices, nil), stat.PopStdDev(prices, nil)

	lo := clamp(mean-mult*std, current*rangeFloor, current*rangeCeiling)
	hi := clamp(mean+mult*std, current*rangeFloor, current*rangeCeiling)
	return mean, model.Range{lo, hi}
}

// confidenceMultiplier is the z-score for 95% shrunk by fundamental quality.
func confidenceMultiplier(score int) float64 {
	return 1.96 * (1 - float64(score)/200)
}

// fundamentalAdjustment nudges strong names up and weak names down, by at most 3%.
func fundamentalAdjustment(score int) float64 {
	switch {
	case score > 70:
		return 1 + float64(score-70)/1000
	case score < 40:
		return 1 - float64(40-score)/1000
	}
	return 1
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
