package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSentinel/internal/collector"
	"StockSentinel/internal/model"
	"StockSentinel/internal/predictor"
	"StockSentinel/internal/recorder"
	"StockSentinel/internal/runner"
	"StockSentinel/internal/testutil"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func newTestScheduler(t *testing.T, fetcher *collector.MockFetcher) (*Scheduler, *fakeSender) {
	t.Helper()
	cache, err := collector.NewSQLiteCache(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	rec, err := recorder.NewSQLiteRecorder(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })

	col := collector.New(fetcher, cache, collector.Options{}, zerolog.Nop())
	pred := predictor.New(predictor.Config{BasicTrees: 8, AdvancedTrees: 8}, zerolog.Nop())
	r := runner.New(col, pred, rec, nil, runner.Periods{}, zerolog.Nop())

	sender := &fakeSender{}
	return NewScheduler(context.Background(), r, sender, nil, "aapl", model.ModelBasic, zerolog.Nop()), sender
}

func uptrend() *collector.MockFetcher {
	return &collector.MockFetcher{DailyData: testutil.LinearSeries("AAPL", 260, 100, 0.5).Bars}
}

func TestHandleCommand_Predict(t *testing.T) {
	s, _ := newTestScheduler(t, uptrend())
	ctx := context.Background()

	reply := s.HandleCommand(ctx, "/predict")
	assert.Contains(t, reply, "AAPL forecast")
	assert.Contains(t, reply, "basic model")

	reply = s.HandleCommand(ctx, "/predict@sentinel_bot advanced msft")
	assert.Contains(t, reply, "MSFT forecast")
	assert.Contains(t, reply, "advanced model")
	assert.Contains(t, reply, "Fundamental score: 50/100")
}

func TestHandleCommand_AnalyzeAndHistory(t *testing.T) {
	s, _ := newTestScheduler(t, uptrend())
	ctx := context.Background()

	assert.Contains(t, s.HandleCommand(ctx, "/analyze"), "AAPL technical analysis")
	assert.Equal(t, "No predictions logged yet.", s.HandleCommand(ctx, "/history"))

	s.HandleCommand(ctx, "/predict")
	assert.Contains(t, s.HandleCommand(ctx, "/history 5"), "Prediction log</b> (1)")
	assert.Equal(t, "Usage: /history [count]", s.HandleCommand(ctx, "/history zero"))
	assert.Equal(t, "Cached symbols: AAPL", s.HandleCommand(ctx, "/cache"))
}

func TestHandleCommand_Errors(t *testing.T) {
	s, _ := newTestScheduler(t, &collector.MockFetcher{Err: errors.New("offline")})

	reply := s.HandleCommand(context.Background(), "/predict")
	assert.Contains(t, reply, "Prediction failed")
	assert.Contains(t, reply, "offline")
}

func TestHandleCommand_Help(t *testing.T) {
	s, _ := newTestScheduler(t, uptrend())

	assert.Equal(t, helpText, s.HandleCommand(context.Background(), "hello"))
	assert.Equal(t, helpText, s.HandleCommand(context.Background(), "   "))
	assert.Equal(t, "Cache is empty.", s.HandleCommand(context.Background(), "/cache"))
}

func TestRunDailyNow(t *testing.T) {
	s, sender := newTestScheduler(t, uptrend())

	s.RunDailyNow()
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "AAPL forecast")
	assert.Contains(t, sender.sent[0], "AAPL technical analysis")
}

func TestRunDailyNow_ReportsFailure(t *testing.T) {
	s, sender := newTestScheduler(t, &collector.MockFetcher{DailyData: testutil.LinearSeries("AAPL", 40, 100, 1).Bars})

	s.RunDailyNow()
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "Daily forecast for AAPL failed")
}

func TestRegister_InvalidCron(t *testing.T) {
	s, _ := newTestScheduler(t, uptrend())
	assert.Error(t, s.Register("not a cron"))
	assert.NoError(t, s.Register("0 30 16 * * 1-5"))
}
