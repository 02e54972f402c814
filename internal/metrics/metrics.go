// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overhang_analyses_total",
			Help: "Total number of overhang analyses computed",
		},
		[]string{"scenario"},
	)

	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overhang_exports_total",
			Help: "Total number of exported files by format",
		},
		[]string{"format"},
	)

	RequestFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overhang_request_failures_total",
			Help: "Total number of failed API requests",
		},
		[]string{"endpoint", "status"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "overhang_analysis_duration_seconds",
			Help:    "Duration of analysis requests in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"endpoint"},
	)
)
