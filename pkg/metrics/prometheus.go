package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	scoresComputed *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	lastFScore     *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		scoresComputed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_scores_computed_total",
				Help: "Total number of scores computed, by model",
			},
			[]string{"model", "ticker"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastFScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "finsight_last_fscore",
				Help: "Last computed F-Score for a ticker",
			},
			[]string{"ticker"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finsight_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordScoreComputed records one completed score computation.
func (r *Recorder) RecordScoreComputed(model, ticker string) {
	r.scoresComputed.WithLabelValues(model, ticker).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastFScore records the most recent F-Score for a ticker.
func (r *Recorder) RecordLastFScore(ticker string, score float64) {
	r.lastFScore.WithLabelValues(ticker).Set(score)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
