package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "screener_submissions_scored_total",
			Help: "Total number of submissions scored",
		},
	)

	SubmissionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_submissions_rejected_total",
			Help: "Total number of submissions rejected before scoring",
		},
		[]string{"error_code"},
	)

	AssessmentsRecommended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_assessments_recommended_total",
			Help: "Total number of times each assessment was recommended",
		},
		[]string{"assessment"},
	)

	ResponsesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_responses_recorded_total",
			Help: "Audit record outcomes by status (ok, failed, dropped)",
		},
		[]string{"status"},
	)

	RecorderQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "screener_recorder_queue_depth",
			Help: "Audit records waiting to be written",
		},
	)

	ReferenceLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_reference_loads_total",
			Help: "Reference data loads by source (cache, store) and status",
		},
		[]string{"source", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "screener_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)
)
