package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RetrievalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_retrievals_total",
			Help: "Total number of product retrievals by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	RetrievalDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "product_retrieval_duration_seconds",
			Help: "End-to-end duration of a product retrieval in seconds",
		},
		[]string{"mode"},
	)

	InferenceAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inference_attempts_total",
			Help: "Total number of calls made to the inference service",
		},
	)

	InferenceRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inference_retries_total",
			Help: "Total number of inference calls retried after a transient failure",
		},
	)
)
