package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lostaf-io/lostaf/internal/db"
	"github.com/lostaf-io/lostaf/internal/domain"
	dommatch "github.com/lostaf-io/lostaf/internal/domain/match"
)

// store is the consumer interface for match records (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index string, f db.Filter) (int, error)
}

// Repo stores match records as RedisJSON documents.
type Repo struct {
	store store
}

// New creates a match repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// EnsureIndex creates the match index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	if err := r.store.CreateIndex(ctx, IndexDefinition()); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", indexName, err)
	}
	return nil
}

// Insert persists a new record. The pair key is reserved first, so a second
// record for the same unordered pair fails with ErrAlreadyExists.
func (r *Repo) Insert(ctx context.Context, rec *dommatch.Record) error {
	data, err := json.Marshal(toJSON(rec))
	if err != nil {
		return fmt.Errorf("marshal match: %w", err)
	}

	pk := pairKey(rec.ReportAID(), rec.ReportBID())
	acquired, err := r.store.SetNX(ctx, pk, []byte(rec.ID()), 0)
	if err != nil {
		return fmt.Errorf("reserve pair %s: %w: %w", pk, domain.ErrStoreUnavailable, err)
	}
	if !acquired {
		return domain.ErrAlreadyExists
	}

	key := recordKey(rec.ID())
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		// Release the pair so a later run can record it.
		_ = r.store.Del(ctx, pk)
		return fmt.Errorf("json.set %s: %w: %w", key, domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Get returns a record by ID.
func (r *Repo) Get(ctx context.Context, id string) (dommatch.Record, error) {
	key := recordKey(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return dommatch.Record{}, domain.ErrNotFound
		}
		return dommatch.Record{}, fmt.Errorf("json.get %s: %w: %w", key, domain.ErrStoreUnavailable, err)
	}
	return parseDocument(string(raw))
}

// ClaimNotification takes the one-time right to notify about a record.
// Returns false when another unit already claimed it.
func (r *Repo) ClaimNotification(ctx context.Context, id string) (bool, error) {
	ok, err := r.store.SetNX(ctx, claimKey(id), []byte("1"), 0)
	if err != nil {
		return false, fmt.Errorf("claim notification %s: %w: %w", id, domain.ErrStoreUnavailable, err)
	}
	return ok, nil
}

// MarkNotified sets the notified flag on a stored record.
func (r *Repo) MarkNotified(ctx context.Context, id string) error {
	key := recordKey(id)
	if err := r.store.JSONSet(ctx, key, "$.notified", []byte("true")); err != nil {
		return fmt.Errorf("json.set %s: %w: %w", key, domain.ErrStoreUnavailable, err)
	}
	return nil
}

// ListForReport returns records that involve reportID, best score first.
func (r *Repo) ListForReport(ctx context.Context, reportID string, limit int) ([]dommatch.Record, error) {
	if limit <= 0 {
		limit = 10
	}
	result, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName:    indexName,
		Filter:       db.Filter{}.Tag(fieldReports, reportID),
		SortBy:       fieldScore,
		SortDesc:     true,
		Limit:        limit,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return nil, fmt.Errorf("list matches of %s: %w: %w", reportID, domain.ErrStoreUnavailable, err)
	}
	if result == nil {
		return nil, nil
	}

	records := make([]dommatch.Record, 0, len(result.Entries))
	for _, entry := range result.Entries {
		rec, err := parseDocument(entry.Fields["$"])
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Count returns the total number of match records.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, indexName, db.Filter{})
	if err != nil {
		return 0, fmt.Errorf("count matches: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return n, nil
}
