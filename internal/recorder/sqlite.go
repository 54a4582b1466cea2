package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	// WAL mode so report readers don't block the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL,
			timestamp       INTEGER NOT NULL,
			symbol          TEXT NOT NULL,
			model_type      TEXT,
			current_price   REAL,
			predicted_open  REAL,
			predicted_close REAL,
			volatility      REAL,
			payload         TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_ts ON predictions(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_symbol ON predictions(symbol)`,

		`CREATE TABLE IF NOT EXISTS analyses (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL,
			timestamp       INTEGER NOT NULL,
			symbol          TEXT NOT NULL,
			technical_score INTEGER,
			recommendation  TEXT,
			ma_signal       TEXT,
			rsi             REAL,
			payload         TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_ts ON analyses(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordPrediction(ctx context.Context, rec *PredictionRecord) error {
	if rec.Prediction == nil {
		return fmt.Errorf("record prediction: nil result")
	}
	stamp(&rec.RunID, &rec.Timestamp)
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode prediction: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p := rec.Prediction
	_, err = r.db.ExecContext(ctx, `INSERT INTO predictions
		(run_id, timestamp, symbol, model_type, current_price, predicted_open, predicted_close, volatility, payload)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		rec.RunID, rec.Timestamp.Unix(), rec.Symbol, string(p.ModelType),
		p.CurrentPrice, p.PredictedOpen, p.PredictedClose, p.Volatility, string(payload),
	)
	return err
}

func (r *SQLiteRecorder) RecordAnalysis(ctx context.Context, rec *AnalysisRecord) error {
	if rec.Analysis == nil {
		return fmt.Errorf("record analysis: nil result")
	}
	stamp(&rec.RunID, &rec.Timestamp)
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a := rec.Analysis
	_, err = r.db.ExecContext(ctx, `INSERT INTO analyses
		(run_id, timestamp, symbol, technical_score, recommendation, ma_signal, rsi, payload)
		VALUES (?,?,?,?,?,?,?,?)`,
		rec.RunID, rec.Timestamp.Unix(), rec.Symbol, a.TechnicalScore,
		string(a.Recommendation), string(a.MASignal), a.RSI, string(payload),
	)
	return err
}

func (r *SQLiteRecorder) RecentPredictions(ctx context.Context, limit int) ([]PredictionRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM predictions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	var out []PredictionRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var rec PredictionRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			r.log.Warn().Err(err).Msg("skipping unreadable prediction record")
			continue
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// oldest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

func stamp(runID *string, ts *time.Time) {
	if *runID == "" {
		*runID = uuid.NewString()
	}
	if ts.IsZero() {
		*ts = time.Now().UTC()
	}
}
