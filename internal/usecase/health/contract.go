package health

import "context"

// StorePinger is the report store; reports cannot be filed without it.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker probes the image embedding provider.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
