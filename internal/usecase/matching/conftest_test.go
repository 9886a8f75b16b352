package matching

import (
	"context"
	"fmt"
	"testing"
	"time"

	dommatch "github.com/lostaf-io/lostaf/internal/domain/match"
	domreport "github.com/lostaf-io/lostaf/internal/domain/report"
)

type mockReports struct {
	queryFn func(ctx context.Context, kind domreport.Kind, requireEmbedding bool, limit int) ([]domreport.Report, error)
	calls   int
}

func (m *mockReports) QueryActive(
	ctx context.Context, kind domreport.Kind, requireEmbedding bool, limit int,
) ([]domreport.Report, error) {
	m.calls++
	if m.queryFn != nil {
		return m.queryFn(ctx, kind, requireEmbedding, limit)
	}
	return nil, nil
}

type mockMatches struct {
	insertFn func(ctx context.Context, rec *dommatch.Record) error
	inserted []dommatch.Record
}

func (m *mockMatches) Insert(ctx context.Context, rec *dommatch.Record) error {
	if m.insertFn != nil {
		if err := m.insertFn(ctx, rec); err != nil {
			return err
		}
	}
	m.inserted = append(m.inserted, *rec)
	return nil
}

type dispatched struct {
	rec  dommatch.Record
	a, b domreport.Report
}

type mockNotifier struct {
	calls []dispatched
	err   error
}

func (m *mockNotifier) Dispatch(_ context.Context, rec dommatch.Record, a, b domreport.Report) error {
	m.calls = append(m.calls, dispatched{rec: rec, a: a, b: b})
	return m.err
}

// syncScheduler runs units inline and records their names.
type syncScheduler struct {
	names []string
}

func (s *syncScheduler) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	s.names = append(s.names, name)
	_ = fn(ctx)
}

func newReport(t *testing.T, id string, kind domreport.Kind, emb []float32) domreport.Report {
	t.Helper()
	r, err := domreport.New(id, domreport.Draft{
		Kind:        kind,
		Title:       "Item " + id,
		Category:    "Electronics",
		Location:    "Cafeteria",
		Date:        "2026-10-10",
		Description: "Description of " + id,
		Embedding:   emb,
		Owner:       domreport.Owner{ID: "owner-" + id, Email: id + "@example.com"},
	}, time.Now())
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	return r
}

func newTestEngine(reports ReportStore, matches MatchStore, opts ...Option) *Engine {
	e := New(reports, matches, opts...)
	seq := 0
	e.newID = func() string {
		seq++
		return fmt.Sprintf("m%d", seq)
	}
	e.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return e
}
