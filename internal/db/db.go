// Package db defines the storage contracts repositories are written against.
// internal/db/redis implements them on Redis with the JSON and Search modules.
package db

import (
	"context"
	"time"
)

// Pinger reports connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Documents stores JSON documents (reports, match records, users) by key.
type Documents interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Values stores opaque string values: sessions, cached embeddings,
// pair reservations and notification claims.
type Values interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetNX writes value only if key is absent and reports whether it did.
	// A zero ttl means no expiry.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
}

// Indexes manages FT index lifecycle.
type Indexes interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher queries FT indexes.
type Searcher interface {
	SearchList(ctx context.Context, q *ListQuery) (*SearchResult, error)
	SearchCount(ctx context.Context, index string, f Filter) (int, error)
}
