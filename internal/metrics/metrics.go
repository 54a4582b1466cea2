// Package metrics exposes Prometheus instrumentation for prediction runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the sentinel. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	PredictionsTotal   *prometheus.CounterVec   // labels: model, outcome
	PredictionDur      *prometheus.HistogramVec // labels: model
	AnalysesTotal      *prometheus.CounterVec   // labels: outcome
	DataReadsTotal     *prometheus.CounterVec   // labels: kind, freshness
	PredictedClose     *prometheus.GaugeVec     // labels: symbol, model
	TechnicalScore     *prometheus.GaugeVec     // labels: symbol
	ScheduledRunsTotal *prometheus.CounterVec   // labels: outcome

	gatherer prometheus.Gatherer
}

// NewMetrics registers and returns all metrics on reg. A nil reg uses a
// fresh private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		PredictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_predictions_total",
			Help: "Prediction runs by model and outcome",
		}, []string{"model", "outcome"}),
		PredictionDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sentinel_prediction_duration_seconds",
			Help:    "End-to-end prediction latency including model fitting",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"model"}),
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_analyses_total",
			Help: "Technical analysis runs by outcome",
		}, []string{"outcome"}),
		DataReadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_data_reads_total",
			Help: "Market data reads by kind and freshness",
		}, []string{"kind", "freshness"}),
		PredictedClose: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sentinel_predicted_close",
			Help: "Most recent predicted close per symbol",
		}, []string{"symbol", "model"}),
		TechnicalScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sentinel_technical_score",
			Help: "Most recent technical score per symbol",
		}, []string{"symbol"}),
		ScheduledRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_scheduled_runs_total",
			Help: "Cron-triggered forecasts by outcome",
		}, []string{"outcome"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.PredictionsTotal,
		m.PredictionDur,
		m.AnalysesTotal,
		m.DataReadsTotal,
		m.PredictedClose,
		m.TechnicalScore,
		m.ScheduledRunsTotal,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObservePrediction records one prediction run.
func (m *Metrics) ObservePrediction(symbol, model string, start time.Time, predictedClose float64, err error) {
	if m == nil {
		return
	}
	m.PredictionsTotal.WithLabelValues(model, outcome(err)).Inc()
	m.PredictionDur.WithLabelValues(model).Observe(time.Since(start).Seconds())
	if err == nil {
		m.PredictedClose.WithLabelValues(symbol, model).Set(predictedClose)
	}
}

// ObserveAnalysis records one technical analysis run.
func (m *Metrics) ObserveAnalysis(symbol string, score int, err error) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		m.TechnicalScore.WithLabelValues(symbol).Set(float64(score))
	}
}

// ObserveRead records where a data read was served from.
func (m *Metrics) ObserveRead(kind, freshness string) {
	if m == nil {
		return
	}
	m.DataReadsTotal.WithLabelValues(kind, freshness).Inc()
}

// ObserveScheduledRun records a cron-triggered run.
func (m *Metrics) ObserveScheduledRun(err error) {
	if m == nil {
		return
	}
	m.ScheduledRunsTotal.WithLabelValues(outcome(err)).Inc()
}
