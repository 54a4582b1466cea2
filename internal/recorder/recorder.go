package recorder

import (
	"context"
	"time"

	"StockSentinel/internal/model"
)

// DefaultHistoryLimit is the number of predictions returned when no limit is given.
const DefaultHistoryLimit = 50

// PredictionRecord is one logged prediction run.
type PredictionRecord struct {
	RunID        string                  `json:"run_id"`
	Timestamp    time.Time               `json:"timestamp"`
	Symbol       string                  `json:"symbol"`
	Prediction   *model.PredictionResult `json:"prediction"`
	LastSessions []model.SessionSummary  `json:"last_3_days"`
	Fundamentals model.Fundamentals      `json:"fundamental,omitempty"`
}

// AnalysisRecord is one logged technical analysis run.
type AnalysisRecord struct {
	RunID     string                   `json:"run_id"`
	Timestamp time.Time                `json:"timestamp"`
	Symbol    string                   `json:"symbol"`
	Analysis  *model.TechnicalAnalysis `json:"analysis"`
}

// Recorder persists run history for later review.
type Recorder interface {
	RecordPrediction(ctx context.Context, rec *PredictionRecord) error
	RecordAnalysis(ctx context.Context, rec *AnalysisRecord) error
	// RecentPredictions returns up to limit records, oldest first.
	RecentPredictions(ctx context.Context, limit int) ([]PredictionRecord, error)
	Close() error
}
