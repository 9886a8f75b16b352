package report

import (
	"context"
	"testing"
	"time"

	"github.com/lostaf-io/lostaf/internal/db"
	domreport "github.com/lostaf-io/lostaf/internal/domain/report"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonSetFn     func(ctx context.Context, key, path string, data []byte) error
	jsonGetFn     func(ctx context.Context, key string, paths ...string) ([]byte, error)
	existsFn      func(ctx context.Context, key string) (bool, error)
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	searchListFn  func(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	searchCountFn func(ctx context.Context, index string, f db.Filter) (int, error)
}

func (m *mockStore) JSONSet(ctx context.Context, key, path string, data []byte) error {
	if m.jsonSetFn != nil {
		return m.jsonSetFn(ctx, key, path, data)
	}
	return nil
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	if m.searchListFn != nil {
		return m.searchListFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, index string, f db.Filter) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, index, f)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testReport(t *testing.T, id string, kind domreport.Kind, emb []float32) domreport.Report {
	t.Helper()
	r, err := domreport.New(id, domreport.Draft{
		Kind:        kind,
		Title:       "Black wallet",
		Category:    "Accessories",
		Location:    "Library, 2nd floor",
		Date:        "2026-10-01",
		Description: "Leather wallet with a red stripe",
		ImageURL:    "data:image/jpeg;base64,AAAA",
		Embedding:   emb,
		Owner:       domreport.Owner{ID: "u1", Name: "Alex", Email: "alex@example.com"},
	}, time.UnixMilli(1_700_000_000_000))
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	return r
}

// tagValues returns the values of the first tag condition on field.
func tagValues(f db.Filter, field string) ([]string, bool) {
	for _, c := range f.Tags {
		if c.Field == field {
			return c.Values, true
		}
	}
	return nil, false
}
