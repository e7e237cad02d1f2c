package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Analysis metrics
	AnalysisAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aperture_analysis_attempts_total",
			Help: "Total number of analysis HTTP attempts",
		},
		[]string{"provider", "outcome"}, // outcome: success|upstream_error|transport_error
	)

	AnalysisResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aperture_analysis_results_total",
			Help: "Total number of completed analysis calls",
		},
		[]string{"provider", "status"}, // status: succeeded|failed
	)

	AnalysisRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aperture_analysis_retries_total",
			Help: "Total number of retried analysis attempts",
		},
		[]string{"provider"},
	)

	AnalysisLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aperture_analysis_latency_seconds",
			Help:    "Wall-clock duration of one analysis call including retries",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider"},
	)

	// Batch metrics
	BatchPhotos = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aperture_batch_photos_total",
			Help: "Total number of photos processed in batches",
		},
		[]string{"status"}, // status: succeeded|failed
	)

	BatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aperture_batch_duration_seconds",
			Help:    "Wall-clock duration of one batch including pacing delays",
			Buckets: []float64{1, 5, 10, 30, 60, 300, 600, 1800},
		},
	)
)

// Register registers all collectors with the default registry. Call once
// from main.
func Register() {
	prometheus.MustRegister(
		AnalysisAttempts,
		AnalysisResults,
		AnalysisRetries,
		AnalysisLatency,
		BatchPhotos,
		BatchDuration,
	)
}

// Handler returns the HTTP handler exposing the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
