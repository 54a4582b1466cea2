// Package runner wires data collection, forecasting, technical scoring and
// run logging into the operations shared by the CLI, the scheduler and the
// Telegram command handler.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"StockSentinel/internal/collector"
	"StockSentinel/internal/metrics"
	"StockSentinel/internal/model"
	"StockSentinel/internal/predictor"
	"StockSentinel/internal/recorder"
	"StockSentinel/internal/strategy"
)

// LastSessionCount is the number of recent sessions attached to each prediction.
const LastSessionCount = 3

// Periods selects how much history each operation requests.
type Periods struct {
	Basic    string
	Advanced string
	Analysis string
}

// DefaultPeriods returns the history windows used by each operation.
func DefaultPeriods() Periods {
	return Periods{Basic: "2y", Advanced: "3y", Analysis: "2y"}
}

func (p Periods) forModel(mt model.ModelType) string {
	if mt == model.ModelAdvanced {
		return p.Advanced
	}
	return p.Basic
}

// PredictRequest describes one forecast.
type PredictRequest struct {
	Symbol  string
	Model   model.ModelType
	Horizon int
	Force   bool
}

// PredictOutcome is a completed forecast with the context it was made in.
type PredictOutcome struct {
	RunID        string                  `json:"run_id"`
	Symbol       string                  `json:"symbol"`
	Result       *model.PredictionResult `json:"prediction"`
	LastSessions []model.SessionSummary  `json:"last_3_days"`
	Fundamentals model.Fundamentals      `json:"fundamental,omitempty"`
	Freshness    collector.Freshness     `json:"data_freshness"`
}

// AnalysisOutcome is a completed technical analysis.
type AnalysisOutcome struct {
	RunID     string                   `json:"run_id"`
	Analysis  *model.TechnicalAnalysis `json:"analysis"`
	Freshness collector.Freshness      `json:"data_freshness"`
}

// Runner executes forecasts and analyses end to end.
type Runner struct {
	collector *collector.Collector
	predictor *predictor.Predictor
	recorder  recorder.Recorder
	metrics   *metrics.Metrics
	periods   Periods
	log       zerolog.Logger
	now       func() time.Time
}

// New creates a Runner. rec and m may be nil.
func New(col *collector.Collector, pred *predictor.Predictor, rec recorder.Recorder, m *metrics.Metrics, periods Periods, log zerolog.Logger) *Runner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	def := DefaultPeriods()
	if periods.Basic == "" {
		periods.Basic = def.Basic
	}
	if periods.Advanced == "" {
		periods.Advanced = def.Advanced
	}
	if periods.Analysis == "" {
		periods.Analysis = def.Analysis
	}
	return &Runner{
		collector: col,
		predictor: pred,
		recorder:  rec,
		metrics:   m,
		periods:   periods,
		log:       log.With().Str("component", "runner").Logger(),
		now:       time.Now,
	}
}

// Predict fetches history (and fundamentals for the advanced model), runs the
// requested pipeline and logs the result.
func (r *Runner) Predict(ctx context.Context, req PredictRequest) (*PredictOutcome, error) {
	start := r.now()
	if req.Model == "" {
		req.Model = model.ModelBasic
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	out, err := r.predict(ctx, symbol, req)

	var predicted float64
	if out != nil {
		predicted = out.Result.PredictedClose
	}
	r.metrics.ObservePrediction(symbol, string(req.Model), start, predicted, err)
	return out, err
}

func (r *Runner) predict(ctx context.Context, symbol string, req PredictRequest) (*PredictOutcome, error) {
	if symbol == "" {
		return nil, errors.New("symbol is required")
	}
	if req.Model != model.ModelBasic && req.Model != model.ModelAdvanced {
		return nil, fmt.Errorf("unknown model type %q", req.Model)
	}
	runID := uuid.NewString()
	log := r.log.With().Str("run_id", runID).Str("symbol", symbol).Str("model", string(req.Model)).Logger()

	series, fr, err := r.collector.Prices(ctx, symbol, r.periods.forModel(req.Model), req.Force)
	r.metrics.ObserveRead("prices", fr.String())
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}

	var fundamentals model.Fundamentals
	if req.Model == model.ModelAdvanced {
		fundamentals = r.loadFundamentals(ctx, symbol, req.Force, log)
	}

	res, err := r.predictor.WithHorizon(req.Horizon).Predict(ctx, req.Model, series, fundamentals)
	if err != nil {
		log.Warn().Err(err).Int("bars", series.Len()).Msg("prediction failed")
		return nil, fmt.Errorf("predict %s: %w", symbol, err)
	}

	out := &PredictOutcome{
		RunID:        runID,
		Symbol:       symbol,
		Result:       res,
		LastSessions: predictor.LastSessions(series, LastSessionCount),
		Fundamentals: fundamentals,
		Freshness:    fr,
	}
	if err := r.recorder.RecordPrediction(ctx, &recorder.PredictionRecord{
		RunID:        runID,
		Timestamp:    r.now(),
		Symbol:       symbol,
		Prediction:   res,
		LastSessions: out.LastSessions,
		Fundamentals: fundamentals,
	}); err != nil {
		log.Error().Err(err).Msg("record prediction")
	}

	log.Info().
		Float64("current", res.CurrentPrice).
		Float64("open", res.PredictedOpen).
		Float64("close", res.PredictedClose).
		Str("freshness", fr.String()).
		Msg("prediction complete")
	return out, nil
}

// loadFundamentals degrades to no fundamentals when none can be had.
func (r *Runner) loadFundamentals(ctx context.Context, symbol string, force bool, log zerolog.Logger) model.Fundamentals {
	f, fr, err := r.collector.Fundamentals(ctx, symbol, force)
	r.metrics.ObserveRead("fundamentals", fr.String())
	if err != nil {
		log.Warn().Err(err).Msg("fundamentals unavailable, scoring as neutral")
		return nil
	}
	return f
}

// Analyze scores the technical state of symbol and logs the result.
func (r *Runner) Analyze(ctx context.Context, symbol string, force bool) (*AnalysisOutcome, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	out, err := r.analyze(ctx, symbol, force)

	score := 0
	if out != nil {
		score = out.Analysis.TechnicalScore
	}
	r.metrics.ObserveAnalysis(symbol, score, err)
	return out, err
}

func (r *Runner) analyze(ctx context.Context, symbol string, force bool) (*AnalysisOutcome, error) {
	if symbol == "" {
		return nil, errors.New("symbol is required")
	}
	runID := uuid.NewString()

	series, fr, err := r.collector.Prices(ctx, symbol, r.periods.Analysis, force)
	r.metrics.ObserveRead("prices", fr.String())
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}

	ta, err := strategy.Analyze(symbol, series)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", symbol, err)
	}

	if err := r.recorder.RecordAnalysis(ctx, &recorder.AnalysisRecord{
		RunID:     runID,
		Timestamp: r.now(),
		Symbol:    symbol,
		Analysis:  ta,
	}); err != nil {
		r.log.Error().Err(err).Str("run_id", runID).Msg("record analysis")
	}

	r.log.Info().
		Str("run_id", runID).
		Str("symbol", symbol).
		Int("score", ta.TechnicalScore).
		Str("recommendation", string(ta.Recommendation)).
		Msg("analysis complete")
	return &AnalysisOutcome{RunID: runID, Analysis: ta, Freshness: fr}, nil
}

// History returns up to limit logged predictions, oldest first.
func (r *Runner) History(ctx context.Context, limit int) ([]recorder.PredictionRecord, error) {
	return r.recorder.RecentPredictions(ctx, limit)
}

// CachedSymbols lists symbols with cached market data.
func (r *Runner) CachedSymbols(ctx context.Context) ([]string, error) {
	return r.collector.CachedSymbols(ctx)
}

// ClearCache drops cached market data for symbol, or all of it when symbol is empty.
func (r *Runner) ClearCache(ctx context.Context, symbol string) (int64, error) {
	return r.collector.ClearCache(ctx, symbol)
}
