package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"StockSentinel/internal/collector"
	"StockSentinel/internal/config"
	"StockSentinel/internal/logger"
	"StockSentinel/internal/metrics"
	"StockSentinel/internal/predictor"
	"StockSentinel/internal/recorder"
	"StockSentinel/internal/runner"
)

// app holds the wired components shared by every command.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	cache    *collector.SQLiteCache
	recorder recorder.Recorder
	metrics  *metrics.Metrics
	runner   *runner.Runner
}

func newApp(cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		return nil, err
	}

	var fetcher collector.Fetcher
	switch cfg.Data.Provider {
	case "mock":
		fetcher = &collector.MockFetcher{Price: 100}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Data.Proxy, cfg.Data.Timeout)
	}

	if err := ensureDir(cfg.Data.CachePath); err != nil {
		return nil, err
	}
	cache, err := collector.NewSQLiteCache(cfg.Data.CachePath)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := openRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			rec = sr
		}
	}

	m := metrics.NewMetrics(prometheus.NewRegistry())
	col := collector.New(fetcher, cache, cfg.CollectorOptions(), log)
	pred := predictor.New(cfg.PredictorConfig(), log)

	return &app{
		cfg:      cfg,
		log:      log,
		cache:    cache,
		recorder: rec,
		metrics:  m,
		runner:   runner.New(col, pred, rec, m, cfg.Periods(), log),
	}, nil
}

func openRecorder(path string, log zerolog.Logger) (*recorder.SQLiteRecorder, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	return recorder.NewSQLiteRecorder(path, log)
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close recorder")
	}
	if err := a.cache.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close cache")
	}
}

func ensureDir(dbPath string) error {
	if dbPath == ":memory:" {
		return nil
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}
