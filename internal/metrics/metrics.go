// Package metrics exposes Prometheus collectors for the generation pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "docgen"
)

var (
	DocumentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "total",
			Help:      "Document generation requests by outcome",
		},
		[]string{"outcome"}, // ok, validation, upstream, render, internal
	)

	DocumentBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "size_bytes",
			Help:      "Size of generated PDFs in bytes",
			Buckets:   prometheus.ExponentialBuckets(4096, 2, 10),
		},
	)

	DocumentPages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "pages",
			Help:      "Page count of generated PDFs",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		},
	)

	LLMCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "Text-completion call duration in seconds",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"status"},
	)

	LLMTokensUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_used_total",
			Help:      "Total tokens reported by the completion API",
		},
		[]string{"model"},
	)

	RenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pdf",
			Name:      "render_duration_seconds",
			Help:      "PDF render and verification duration in seconds",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)
)

// RecordOutcome counts one finished request.
func RecordOutcome(outcome string) {
	DocumentsTotal.WithLabelValues(outcome).Inc()
}

// RecordDocument observes a successfully produced PDF.
func RecordDocument(sizeBytes, pages int) {
	DocumentBytes.Observe(float64(sizeBytes))
	DocumentPages.Observe(float64(pages))
}
