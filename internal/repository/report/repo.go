package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lostaf-io/lostaf/internal/db"
	"github.com/lostaf-io/lostaf/internal/domain"
	domreport "github.com/lostaf-io/lostaf/internal/domain/report"
)

// MaxListLimit caps every listing query.
const MaxListLimit = 100

// store is the consumer interface for reports (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index string, f db.Filter) (int, error)
}

// Repo stores reports as RedisJSON documents.
type Repo struct {
	store store
}

// New creates a report repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// EnsureIndex creates the report index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	if err := r.store.CreateIndex(ctx, IndexDefinition()); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", indexName, err)
	}
	return nil
}

// Create persists a new report.
func (r *Repo) Create(ctx context.Context, rep *domreport.Report) error {
	key := reportKey(rep.ID())
	data, err := json.Marshal(toJSON(rep))
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w: %w", key, domain.ErrStoreUnavailable, err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w: %w", key, domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Get returns a report by ID.
func (r *Repo) Get(ctx context.Context, id string) (domreport.Report, error) {
	key := reportKey(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domreport.Report{}, domain.ErrNotFound
		}
		return domreport.Report{}, fmt.Errorf("json.get %s: %w: %w", key, domain.ErrStoreUnavailable, err)
	}
	return parseDocument(string(raw))
}

// QueryActive returns active reports of the given kind, newest first.
// With requireEmbedding only reports carrying an embedding are returned.
func (r *Repo) QueryActive(
	ctx context.Context, kind domreport.Kind, requireEmbedding bool, limit int,
) ([]domreport.Report, error) {
	f := db.Filter{}.
		Tag(fieldKind, string(kind)).
		Tag(fieldStatus, string(domreport.StatusActive))
	if requireEmbedding {
		f = f.Tag(fieldHasEmbedding, "true")
	}
	reports, err := r.search(ctx, f, limit)
	if err != nil {
		return nil, fmt.Errorf("query active %s: %w", kind, err)
	}
	return reports, nil
}

// List returns active reports matching the filter, newest first.
func (r *Repo) List(ctx context.Context, lf domreport.Filter) ([]domreport.Report, error) {
	f := db.Filter{}.
		Tag(fieldStatus, string(domreport.StatusActive)).
		Tag(fieldKind, string(lf.Kind)).
		Tag(fieldCategory, lf.Category).
		Tag(fieldLocation, lf.Location)
	if lf.Search != "" {
		f = f.Match(lf.Search, fieldTitle, fieldDescription)
	}
	reports, err := r.search(ctx, f, lf.Limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// ListByOwner returns every report filed by ownerID regardless of status, newest first.
func (r *Repo) ListByOwner(ctx context.Context, ownerID string, limit int) ([]domreport.Report, error) {
	reports, err := r.search(ctx, db.Filter{}.Tag(fieldOwnerID, ownerID), limit)
	if err != nil {
		return nil, fmt.Errorf("list reports of %s: %w", ownerID, err)
	}
	return reports, nil
}

// UpdateStatus sets the status of an existing report.
func (r *Repo) UpdateStatus(ctx context.Context, id string, status domreport.Status) error {
	key := reportKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w: %w", key, domain.ErrStoreUnavailable, err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	data, err := json.Marshal(string(status))
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	if err := r.store.JSONSet(ctx, key, "$.status", data); err != nil {
		return fmt.Errorf("json.set %s: %w: %w", key, domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Count returns the number of reports with the given status, optionally of one kind.
func (r *Repo) Count(ctx context.Context, kind domreport.Kind, status domreport.Status) (int, error) {
	f := db.Filter{}.
		Tag(fieldStatus, string(status)).
		Tag(fieldKind, string(kind))
	n, err := r.store.SearchCount(ctx, indexName, f)
	if err != nil {
		return 0, fmt.Errorf("count reports: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return n, nil
}

func (r *Repo) search(ctx context.Context, f db.Filter, limit int) ([]domreport.Report, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	result, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName:    indexName,
		Filter:       f,
		SortBy:       fieldCreatedAt,
		SortDesc:     true,
		Limit:        limit,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	if result == nil {
		return nil, nil
	}

	reports := make([]domreport.Report, 0, len(result.Entries))
	for _, entry := range result.Entries {
		raw := entry.Fields["$"]
		if raw == "" {
			continue
		}
		rep, err := parseDocument(raw)
		if err != nil {
			continue
		}
		reports = append(reports, rep)
	}
	return reports, nil
}
