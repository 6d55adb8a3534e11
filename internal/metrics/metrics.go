package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal は HTTP リクエスト数です。
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hyperreal",
			Subsystem: "studio",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hyperreal",
			Subsystem: "studio",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
		[]string{"method", "endpoint"},
	)

	// GenerationsTotal は生成の結果ごとの件数です。
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hyperreal",
			Subsystem: "studio",
			Name:      "generations_total",
			Help:      "Total image generations by outcome",
		},
		[]string{"image_size", "status"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hyperreal",
			Subsystem: "studio",
			Name:      "generation_duration_seconds",
			Help:      "Image generation duration in seconds",
			Buckets:   []float64{1, 5, 10, 20, 40, 60, 120},
		},
		[]string{"image_size"},
	)

	ReferencesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hyperreal",
			Subsystem: "studio",
			Name:      "references_total",
			Help:      "Total reference images added",
		},
		[]string{"source", "status"},
	)

	ReferenceBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hyperreal",
			Subsystem: "studio",
			Name:      "reference_bytes_total",
			Help:      "Total bytes of reference images added",
		},
		[]string{"source"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordGeneration records a generation attempt
func RecordGeneration(imageSize, status string, durationSec float64) {
	GenerationsTotal.WithLabelValues(imageSize, status).Inc()
	if status == "success" {
		GenerationDuration.WithLabelValues(imageSize).Observe(durationSec)
	}
}

// RecordReference records a reference image upload or fetch
func RecordReference(source, status string, bytes int64) {
	ReferencesTotal.WithLabelValues(source, status).Inc()
	if status == "success" {
		ReferenceBytesTotal.WithLabelValues(source).Add(float64(bytes))
	}
}
