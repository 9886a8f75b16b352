// Package embcache memoizes image embeddings in Redis, keyed by the
// normalized image bytes, so a photo is sent to the provider once.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/lostaf-io/lostaf/internal/db"
	"github.com/lostaf-io/lostaf/internal/domain"
)

const keyPrefix = domain.KeyPrefix + "emb_cache:"

type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedEmbedder wraps a domain.Embedder with a read-through cache.
// Cache failures are logged and fall through to the provider.
type CachedEmbedder struct {
	next   domain.Embedder
	store  store
	model  string
	logger *zap.Logger

	dims    int
	ttl     time.Duration
	lookups *prometheus.CounterVec
}

// Option configures a CachedEmbedder.
type Option func(*CachedEmbedder)

// WithTTL expires cached vectors after ttl. Zero or negative keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(c *CachedEmbedder) { c.ttl = ttl }
}

// WithDimensions treats cached vectors of any other length as a miss.
func WithDimensions(n int) Option {
	return func(c *CachedEmbedder) { c.dims = n }
}

// WithCacheCounter counts lookups under label "result" ("hit"/"miss").
func WithCacheCounter(cv *prometheus.CounterVec) Option {
	return func(c *CachedEmbedder) { c.lookups = cv }
}

// New wraps next. Keys include model, so switching models never serves old vectors.
func New(next domain.Embedder, s store, model string, logger *zap.Logger, opts ...Option) *CachedEmbedder {
	c := &CachedEmbedder{next: next, store: s, model: model, logger: logger}
	for _, o := range opts {
		o(c)
	}
	return c
}

// EmbedImage serves a cached vector when one exists, otherwise embeds and stores the result.
// Hits come back with Cached set and no token usage.
func (c *CachedEmbedder) EmbedImage(ctx context.Context, image []byte) (domain.EmbeddingResult, error) {
	key := c.cacheKey(image)

	if vec := c.lookup(ctx, key); vec != nil {
		c.count("hit")
		return domain.EmbeddingResult{Embedding: vec, Cached: true}, nil
	}
	c.count("miss")

	res, err := c.next.EmbedImage(ctx, image)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed image: %w", err)
	}
	if len(res.Embedding) > 0 {
		c.save(ctx, key, res.Embedding)
	}
	return res, nil
}

func (c *CachedEmbedder) cacheKey(image []byte) string {
	sum := sha256.Sum256(image)
	return keyPrefix + c.model + ":" + hex.EncodeToString(sum[:])
}

// lookup returns nil on a miss, a read error or an unusable entry.
func (c *CachedEmbedder) lookup(ctx context.Context, key string) []float32 {
	data, err := c.store.Get(ctx, key)
	switch {
	case errors.Is(err, db.ErrKeyNotFound):
		return nil
	case err != nil:
		c.logger.Warn("Embedding cache read failed", zap.String("key", key), zap.Error(err))
		return nil
	}

	vec, err := decodeVector(data)
	if err != nil {
		c.logger.Warn("Discarding corrupt cached embedding", zap.String("key", key), zap.Error(err))
		return nil
	}
	if c.dims > 0 && len(vec) != c.dims {
		c.logger.Warn("Discarding cached embedding with wrong dimension",
			zap.String("key", key), zap.Int("got", len(vec)), zap.Int("want", c.dims))
		return nil
	}
	return vec
}

func (c *CachedEmbedder) save(ctx context.Context, key string, vec []float32) {
	data := encodeVector(vec)
	var err error
	if c.ttl > 0 {
		err = c.store.SetWithTTL(ctx, key, data, c.ttl)
	} else {
		err = c.store.Set(ctx, key, data)
	}
	if err != nil {
		c.logger.Warn("Embedding cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *CachedEmbedder) count(result string) {
	if c.lookups != nil {
		c.lookups.WithLabelValues(result).Inc()
	}
}
