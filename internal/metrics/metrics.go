package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Причины неудачных предсказаний
const (
	ReasonValidation = "validation"
	ReasonScoring    = "scoring"
)

var (
	PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadrisk_predictions_total",
		Help: "Total number of successful predictions by risk level.",
	}, []string{"risk_level"})
	PredictionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadrisk_prediction_failures_total",
		Help: "Total number of failed predictions by reason.",
	}, []string{"reason"})
	ScoringDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "roadrisk_scoring_duration_seconds",
		Help:    "Duration of a single model scoring call.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
	})
)

// Handler отдает метрики в формате Prometheus
func Handler() http.Handler {
	return promhttp.Handler()
}
