// Package predictor forecasts the next session's open and close with
// random-forest ensembles trained on engineered features.
package predictor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"StockSentinel/internal/calculator"
	"StockSentinel/internal/forest"
	"StockSentinel/internal/model"
)

// Config controls both pipelines.
type Config struct {
	Horizon       int
	Seed          uint64
	Workers       int
	BasicTrees    int
	AdvancedTrees int
}

// DefaultConfig returns the production hyperparameters.
func DefaultConfig() Config {
	return Config{
		Horizon:       1,
		Seed:          42,
		BasicTrees:    60,
		AdvancedTrees: 200,
	}
}

// Predictor runs the basic and advanced pipelines. It holds no state between
// calls; every call retrains from scratch.
type Predictor struct {
	cfg Config
	log zerolog.Logger
}

// New creates a Predictor. Zero fields of cfg take their defaults.
func New(cfg Config, log zerolog.Logger) *Predictor {
	def := DefaultConfig()
	if cfg.Horizon <= 0 {
		cfg.Horizon = def.Horizon
	}
	if cfg.BasicTrees <= 0 {
		cfg.BasicTrees = def.BasicTrees
	}
	if cfg.AdvancedTrees <= 0 {
		cfg.AdvancedTrees = def.AdvancedTrees
	}
	return &Predictor{cfg: cfg, log: log.With().Str("component", "predictor").Logger()}
}

// WithHorizon returns a copy of p predicting h sessions ahead.
func (p *Predictor) WithHorizon(h int) *Predictor {
	cp := *p
	if h > 0 {
		cp.cfg.Horizon = h
	}
	return &cp
}

// Predict dispatches to the pipeline named by mt.
func (p *Predictor) Predict(ctx context.Context, mt model.ModelType, series *model.Series, fundamentals model.Fundamentals) (*model.PredictionResult, error) {
	switch mt {
	case model.ModelBasic:
		return p.Basic(ctx, series)
	case model.ModelAdvanced:
		return p.Advanced(ctx, series, fundamentals)
	default:
		return nil, fmt.Errorf("unknown model type %q", mt)
	}
}

func (p *Predictor) forestConfig(trees int) forest.Config {
	return forest.Config{
		NTrees:  trees,
		Seed:    p.cfg.Seed,
		Workers: p.cfg.Workers,
	}
}

// fitPair trains the open and close regressors on the same matrix.
func fitPair(ctx context.Context, X [][]float64, openY, closeY []float64, cfg forest.Config) (*forest.Forest, *forest.Forest, error) {
	openModel, err := forest.Fit(ctx, X, openY, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("fit open model: %w", err)
	}
	closeModel, err := forest.Fit(ctx, X, closeY, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("fit close model: %w", err)
	}
	return openModel, closeModel, nil
}

func volatility(series *model.Series) float64 {
	v := calculator.AnnualizedVolatility(series.Closes())
	if !calculator.IsDefined(v) {
		return 0
	}
	return v
}
