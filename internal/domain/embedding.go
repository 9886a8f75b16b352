package domain

import "context"

// Embedder is the shared image vectorization contract between layers.
// Implementations must be safe for concurrent use: one instance is built at
// startup and shared by every request and background unit.
type Embedder interface {
	EmbedImage(ctx context.Context, image []byte) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding   []float32
	TotalTokens int
	Cached      bool
}
