package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSentinel/internal/model"
	"StockSentinel/internal/recorder"
)

func newTestNotifier(t *testing.T, handler http.HandlerFunc) *TelegramNotifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	n := NewTelegramNotifier("TOKEN", "42", "", zerolog.Nop())
	n.BaseURL = srv.URL
	n.pollInterval = 10 * time.Millisecond
	return n
}

func TestSend(t *testing.T) {
	var got map[string]string
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	})

	require.NoError(t, n.Send(context.Background(), "hello"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestSend_APIError(t *testing.T) {
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusBadRequest)
	})

	err := n.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestSendWithRetry_RecoversAfterFailure(t *testing.T) {
	var calls atomic.Int32
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
		}
	})

	require.NoError(t, n.SendWithRetry(context.Background(), "hello", 2))
	assert.Equal(t, int32(2), calls.Load())
}

func TestSendWithRetry_ContextCancelled(t *testing.T) {
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := n.SendWithRetry(ctx, "hello", 3)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestStartPolling_DispatchesCommands(t *testing.T) {
	replies := make(chan string, 1)
	var polled atomic.Int32
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/botTOKEN/getUpdates":
			if polled.Add(1) == 1 {
				w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /analyze AAPL "}}]}`))
				return
			}
			w.Write([]byte(`{"ok":true,"result":[]}`))
		case "/botTOKEN/sendMessage":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			replies <- body["text"]
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.StartPolling(ctx, func(_ context.Context, cmd string) string {
		return "got " + cmd
	})

	select {
	case reply := <-replies:
		assert.Equal(t, "got /analyze AAPL", reply)
	case <-time.After(2 * time.Second):
		t.Fatal("no reply sent")
	}
}

func TestFormatPrediction(t *testing.T) {
	score := 80
	res := &model.PredictionResult{
		CurrentPrice:     100,
		PredictedOpen:    101,
		OpenRange:        model.Range{99, 103},
		PredictedClose:   102,
		CloseRange:       model.Range{98, 106},
		Volatility:       0.25,
		ModelType:        model.ModelAdvanced,
		Horizon:          1,
		FundamentalScore: &score,
	}
	out := FormatPrediction("AAPL", res, []model.SessionSummary{{Date: "2024-03-01", Close: 100, Volume: 12345}})

	assert.Contains(t, out, "AAPL forecast")
	assert.Contains(t, out, "advanced")
	assert.Contains(t, out, "102.00")
	assert.Contains(t, out, "+2.00%")
	assert.Contains(t, out, "Fundamental score: 80/100")
	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, "25.0%")
}

func TestFormatAnalysis(t *testing.T) {
	target := 130.0
	ta := &model.TechnicalAnalysis{
		Symbol:         "MSFT",
		TechnicalScore: 65,
		Recommendation: model.RecBuy,
		MASignal:       model.MASignalNeutral,
		Factors:        []model.FactorScore{{Name: "RSI", Points: 10, Commentary: "neutral zone"}},
		Triangle:       model.TrianglePattern{Detected: true, Resistance: 115, Target: &target},
		TriangleTarget: &target,
	}
	out := FormatAnalysis(ta)

	assert.Contains(t, out, "MSFT technical analysis")
	assert.Contains(t, out, "RSI: +10")
	assert.Contains(t, out, "65/100")
	assert.Contains(t, out, "BUY")
	assert.Contains(t, out, "target 130.00")
}

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, "No predictions logged yet.", FormatHistory(nil))

	out := FormatHistory([]recorder.PredictionRecord{{
		Timestamp:  time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Symbol:     "AAPL",
		Prediction: &model.PredictionResult{CurrentPrice: 100, PredictedClose: 99, ModelType: model.ModelBasic},
	}})
	assert.Contains(t, out, "2024-03-01 09:30 AAPL [basic]")
	assert.Contains(t, out, "-1.00%")
}
