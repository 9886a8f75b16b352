package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lostaf-io/lostaf/internal/domain"
	dommatch "github.com/lostaf-io/lostaf/internal/domain/match"
	domreport "github.com/lostaf-io/lostaf/internal/domain/report"
)

type mockMatches struct {
	claimFn  func(ctx context.Context, id string) (bool, error)
	markFn   func(ctx context.Context, id string) error
	marked   []string
	claimed  map[string]bool
	claimsMu sync.Mutex
}

func (m *mockMatches) ClaimNotification(ctx context.Context, id string) (bool, error) {
	if m.claimFn != nil {
		return m.claimFn(ctx, id)
	}
	m.claimsMu.Lock()
	defer m.claimsMu.Unlock()
	if m.claimed == nil {
		m.claimed = map[string]bool{}
	}
	if m.claimed[id] {
		return false, nil
	}
	m.claimed[id] = true
	return true, nil
}

func (m *mockMatches) MarkNotified(ctx context.Context, id string) error {
	m.marked = append(m.marked, id)
	if m.markFn != nil {
		return m.markFn(ctx, id)
	}
	return nil
}

type mockMailer struct {
	mu     sync.Mutex
	sent   []domain.Email
	sendFn func(ctx context.Context, msg domain.Email) error
}

func (m *mockMailer) Send(ctx context.Context, msg domain.Email) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	if m.sendFn != nil {
		return m.sendFn(ctx, msg)
	}
	return nil
}

type reportOpts struct {
	anonymous bool
	email     string
}

func newReport(t *testing.T, id string, kind domreport.Kind, title string, o reportOpts) domreport.Report {
	t.Helper()
	email := o.email
	if email == "" {
		email = id + "@example.com"
	}
	r, err := domreport.New(id, domreport.Draft{
		Kind:        kind,
		Title:       title,
		Category:    "Electronics",
		Location:    "Main Library",
		Date:        "2026-10-12",
		Description: "desc",
		Embedding:   []float32{1, 0},
		Owner:       domreport.Owner{ID: "owner-" + id, Name: "Owner " + id, Email: email},
		Anonymous:   o.anonymous,
	}, time.Now())
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	return r
}

func newRecord(t *testing.T, score float64) dommatch.Record {
	t.Helper()
	rec, err := dommatch.New("m1", "lost-1", "found-1", score, time.Now())
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	return rec
}
