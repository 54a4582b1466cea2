package predictor

import (
	"context"
	"fmt"

	"StockSentinel/internal/features"
	"StockSentinel/internal/forest"
	"StockSentinel/internal/model"
)

const (
	basicMinHistory = 100
	basicMinRows    = 50
	basicTrainShare = 0.8
)

// Basic trains on the first 80% of labelled rows and measures MAE on the
// remaining chronological slice. The reported range is the point estimate
// ± that MAE: a fixed-width heuristic band, not a calibrated interval.
func (p *Predictor) Basic(ctx context.Context, series *model.Series) (*model.PredictionResult, error) {
	if series.Len() < basicMinHistory {
		return nil, fmt.Errorf("%w: %d rows, need %d", ErrInsufficientHistory, series.Len(), basicMinHistory)
	}

	tbl, err := features.BuildBasic(series)
	if err != nil {
		return nil, err
	}
	ds, err := newDataset(tbl, series, features.BasicColumns, p.cfg.Horizon)
	if err != nil {
		return nil, err
	}
	if ds.Len() < basicMinRows {
		return nil, fmt.Errorf("%w: %d rows, need %d", ErrInsufficientFeatureRows, ds.Len(), basicMinRows)
	}

	split := int(float64(ds.Len()) * basicTrainShare)
	scaler := &forest.StandardScaler{}
	if err := scaler.Fit(ds.X[:split]); err != nil {
		return nil, fmt.Errorf("fit scaler: %w", err)
	}
	train, err := scaler.Transform(ds.X[:split])
	if err != nil {
		return nil, err
	}
	test, err := scaler.Transform(ds.X[split:])
	if err != nil {
		return nil, err
	}

	openModel, closeModel, err := fitPair(ctx, train, ds.openRet[:split], ds.closeRet[:split], p.forestConfig(p.cfg.BasicTrees))
	if err != nil {
		return nil, err
	}

	openMAE := forest.MAE(ds.openNext[split:], pricePredictions(openModel, test, ds.base[split:]))
	closeMAE := forest.MAE(ds.closeNext[split:], pricePredictions(closeModel, test, ds.base[split:]))

	row, err := scaler.TransformRow(ds.forecast)
	if err != nil {
		return nil, err
	}
	predOpen := toPrice(ds.forecastBase, openModel.Predict(row))
	predClose := toPrice(ds.forecastBase, closeModel.Predict(row))

	p.log.Debug().
		Str("symbol", series.Symbol).
		Int("train_rows", split).
		Int("test_rows", ds.Len()-split).
		Float64("open_mae", openMAE).
		Float64("close_mae", closeMAE).
		Msg("basic model fitted")

	return &model.PredictionResult{
		CurrentPrice:   series.LastClose(),
		PredictedOpen:  predOpen,
		OpenRange:      model.Range{predOpen - openMAE, predOpen + openMAE},
		PredictedClose: predClose,
		CloseRange:     model.Range{predClose - closeMAE, predClose + closeMAE},
		Volatility:     volatility(series),
		ModelType:      model.ModelBasic,
		Horizon:        p.cfg.Horizon,
	}, nil
}

func pricePredictions(f *forest.Forest, X [][]float64, base []float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = toPrice(base[i], f.Predict(row))
	}
	return out
}
