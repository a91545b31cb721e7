package metrics

import (
	"CapLens/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	scoringCalls      *prometheus.CounterVec
	stanceTransitions *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	latency           *prometheus.HistogramVec
	catalogSize       *prometheus.GaugeVec
}

// New registers the recorder on the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the recorder on reg. Tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		scoringCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caplens_scoring_calls_total",
				Help: "Scoring and event engine calls by operation",
			},
			[]string{"op"},
		),
		stanceTransitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caplens_stance_transitions_total",
				Help: "Decision stance changes",
			},
			[]string{"from", "to"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caplens_errors_total",
				Help: "Errors by kind",
			},
			[]string{"kind"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "caplens_operation_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		catalogSize: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "caplens_catalog_entries",
				Help: "Entries loaded from the catalog",
			},
			[]string{"kind"},
		),
	}
}

func (r *Recorder) RecordScoring(op string) {
	r.scoringCalls.WithLabelValues(op).Inc()
}

func (r *Recorder) RecordStanceTransition(from, to models.Stance) {
	r.stanceTransitions.WithLabelValues(string(from), string(to)).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordCatalog publishes how many companies and events were loaded.
func (r *Recorder) RecordCatalog(companies, events int) {
	r.catalogSize.WithLabelValues("companies").Set(float64(companies))
	r.catalogSize.WithLabelValues("events").Set(float64(events))
}
