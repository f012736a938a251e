package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_submissions_total",
			Help: "Total number of answer submissions handled",
		},
		[]string{"status"},
	)

	CatalogFetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_fetch_failures_total",
			Help: "Total number of failed course catalog fetches",
		},
	)

	GroupGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "group_generations_total",
			Help: "Per subject group recommendation generation outcomes",
		},
		[]string{"outcome"},
	)

	ModelCallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "model_call_duration_seconds",
			Help:    "Generative model call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
