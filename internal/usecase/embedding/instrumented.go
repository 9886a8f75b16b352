package embedding

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/lostaf-io/lostaf/internal/domain"
)

// InstrumentedEmbedder wraps an Embedder with logging and vector sanity checks.
// Transport metrics (requests, duration, errors) are recorded in transport/openai.
// A vector that cannot take part in cosine scoring (zero norm, NaN, Inf) is
// rejected here so it is never persisted on a report.
type InstrumentedEmbedder struct {
	inner  domain.Embedder
	model  string
	logger *zap.Logger
}

// NewInstrumentedEmbedder wraps an embedder with observability.
func NewInstrumentedEmbedder(inner domain.Embedder, model string, logger *zap.Logger) *InstrumentedEmbedder {
	return &InstrumentedEmbedder{
		inner:  inner,
		model:  model,
		logger: logger,
	}
}

// EmbedImage delegates to the inner embedder and validates the result.
func (p *InstrumentedEmbedder) EmbedImage(ctx context.Context, image []byte) (domain.EmbeddingResult, error) {
	log := p.logger

	start := time.Now()

	result, err := p.inner.EmbedImage(ctx, image)

	duration := time.Since(start)

	if err != nil {
		log.Error("Embedding request failed",
			zap.String("model", p.model),
			zap.Int("image_bytes", len(image)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	if err := validate(result.Embedding); err != nil {
		log.Error("Embedding rejected",
			zap.String("model", p.model),
			zap.Int("dimensions", len(result.Embedding)),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, err
	}

	log.Debug("Embedding request completed",
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Bool("cached", result.Cached),
	)

	return result, nil
}

func validate(vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("empty vector: %w", domain.ErrInvalidEmbedding)
	}
	var norm float64
	for _, v := range vec {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("non-finite component: %w", domain.ErrInvalidEmbedding)
		}
		norm += f * f
	}
	if norm == 0 {
		return fmt.Errorf("zero norm: %w", domain.ErrInvalidEmbedding)
	}
	return nil
}
