package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestObservePrediction(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObservePrediction("AAPL", "basic", time.Now(), 191.5, nil)
	m.ObservePrediction("AAPL", "basic", time.Now(), 0, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PredictionsTotal.WithLabelValues("basic", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PredictionsTotal.WithLabelValues("basic", "error")))
	assert.Equal(t, 191.5, testutil.ToFloat64(m.PredictedClose.WithLabelValues("AAPL", "basic")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObservePrediction("X", "basic", time.Now(), 1, nil)
		m.ObserveAnalysis("X", 50, nil)
		m.ObserveRead("prices", "fresh")
		m.ObserveScheduledRun(nil)
	})
}

func TestHandler(t *testing.T) {
	m := NewMetrics(nil)
	m.ObserveAnalysis("MSFT", 72, nil)
	m.ObserveRead("prices", "stale")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `sentinel_technical_score{symbol="MSFT"} 72`)
	assert.Contains(t, body, `sentinel_data_reads_total{freshness="stale",kind="prices"} 1`)
}

func TestServer_Routes(t *testing.T) {
	m := NewMetrics(nil)
	srv := NewServer(":0", m, zerolog.Nop())

	rec := httptest.NewRecorder()
	srv.srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())

	rec = httptest.NewRecorder()
	srv.srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
}
