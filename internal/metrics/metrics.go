package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for catalog loading and prediction traffic.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	catalogLoads       *prometheus.CounterVec
	catalogSize        prometheus.Gauge
	predictions        *prometheus.CounterVec
	predictionsActive  prometheus.Gauge
	predictionDuration prometheus.Histogram
	rejected           *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		catalogLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "estimator_catalog_loads_total",
				Help: "Location catalog load attempts by result",
			},
			[]string{"result"},
		),
		catalogSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "estimator_catalog_locations",
			Help: "Number of locations in the loaded catalog",
		}),
		predictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "estimator_predictions_total",
				Help: "Prediction submissions by outcome",
			},
			[]string{"outcome"},
		),
		predictionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "estimator_predictions_in_flight",
			Help: "Prediction requests currently awaiting the backend",
		}),
		predictionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "estimator_prediction_duration_seconds",
			Help:    "Backend round-trip time for prediction requests",
			Buckets: prometheus.DefBuckets,
		}),
		rejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "estimator_submissions_ignored_total",
				Help: "Submissions ignored because the form was busy or unavailable",
			},
			[]string{"reason"},
		),
	}
}

func (m *Metrics) CatalogLoaded(size int) {
	if m == nil {
		return
	}
	m.catalogLoads.WithLabelValues("success").Inc()
	m.catalogSize.Set(float64(size))
}

func (m *Metrics) CatalogFailed(kind string) {
	if m == nil {
		return
	}
	m.catalogLoads.WithLabelValues(kind).Inc()
	m.catalogSize.Set(0)
}

func (m *Metrics) PredictionStarted() {
	if m == nil {
		return
	}
	m.predictionsActive.Inc()
}

// PredictionFinished closes a request opened by PredictionStarted.
func (m *Metrics) PredictionFinished(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.predictionsActive.Dec()
	m.predictionDuration.Observe(elapsed.Seconds())
	m.predictions.WithLabelValues(outcome).Inc()
}

// PredictionRejected counts submissions that never reached the backend.
func (m *Metrics) PredictionRejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}
