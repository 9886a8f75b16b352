// Package metrics holds the Prometheus collectors of the service. Collectors
// are package globals; main registers them once on the default registry.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace          = "lostaf"
	embeddingSubsystem = "embedding"
)

var (
	// EmbeddingRequestsTotal counts provider calls by model and "ok"/"error".
	EmbeddingRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: embeddingSubsystem,
		Name:      "requests_total",
		Help:      "Image embedding requests sent to the provider",
	}, []string{"model", "status"})

	// EmbeddingRequestDuration observes provider latency. CLIP on a remote
	// endpoint is slow, so buckets reach 30s.
	EmbeddingRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: embeddingSubsystem,
		Name:      "request_duration_seconds",
		Help:      "Image embedding request duration in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"model"})

	// EmbeddingErrorsTotal classifies failed calls (timeout, rate_limit, api_error, ...).
	EmbeddingErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: embeddingSubsystem,
		Name:      "errors_total",
		Help:      "Failed image embedding requests by error type",
	}, []string{"model", "error_type"})

	// EmbeddingCacheTotal counts cache lookups as "hit" or "miss".
	EmbeddingCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: embeddingSubsystem,
		Name:      "cache_total",
		Help:      "Embedding cache lookups by result",
	}, []string{"result"})
)

var registerEmbedding sync.Once

// RegisterEmbeddingMetrics registers the embedding collectors. Repeated calls are no-ops.
func RegisterEmbeddingMetrics() {
	registerEmbedding.Do(func() {
		prometheus.MustRegister(
			EmbeddingRequestsTotal,
			EmbeddingRequestDuration,
			EmbeddingErrorsTotal,
			EmbeddingCacheTotal,
		)
	})
}
