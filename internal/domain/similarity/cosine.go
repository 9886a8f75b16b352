// Package similarity scores pairs of image embeddings.
package similarity

import (
	"fmt"
	"math"

	"github.com/lostaf-io/lostaf/internal/domain"
)

// DefaultThreshold is the score a pair must strictly exceed to count as a match.
const DefaultThreshold = 0.70

// Cosine returns dot(a,b) / (|a| * |b|), clamped to [-1, 1].
//
// Vectors of different length, empty vectors, vectors with a zero norm and
// vectors holding NaN or Inf are rejected with domain.ErrInvalidEmbedding
// instead of producing an undefined score.
func Cosine(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("empty vector: %w", domain.ErrInvalidEmbedding)
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch %d != %d: %w", len(a), len(b), domain.ErrInvalidEmbedding)
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if math.IsNaN(dot) || math.IsInf(dot, 0) || math.IsNaN(normA+normB) || math.IsInf(normA+normB, 0) {
		return 0, fmt.Errorf("non-finite component: %w", domain.ErrInvalidEmbedding)
	}
	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("zero norm: %w", domain.ErrInvalidEmbedding)
	}

	s := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return max(-1, min(1, s)), nil
}

// Exceeds reports whether score passes threshold. The comparison is strict:
// a score equal to the threshold is not a match.
func Exceeds(score, threshold float64) bool {
	return score > threshold
}

// Percent renders a score as a whole percentage, rounded to nearest.
func Percent(score float64) int {
	return int(math.Round(score * 100))
}
