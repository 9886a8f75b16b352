package report

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sort"
	"testing"
	"time"

	"github.com/lostaf-io/lostaf/internal/domain"
	dommatch "github.com/lostaf-io/lostaf/internal/domain/match"
	domreport "github.com/lostaf-io/lostaf/internal/domain/report"
)

// memRepo is an in-memory Repository.
type memRepo struct {
	reports   map[string]domreport.Report
	createErr error
	lastList  domreport.Filter
}

func newMemRepo(reports ...domreport.Report) *memRepo {
	m := &memRepo{reports: map[string]domreport.Report{}}
	for _, r := range reports {
		m.reports[r.ID()] = r
	}
	return m
}

func (m *memRepo) Create(_ context.Context, r *domreport.Report) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.reports[r.ID()] = *r
	return nil
}

func (m *memRepo) Get(_ context.Context, id string) (domreport.Report, error) {
	r, ok := m.reports[id]
	if !ok {
		return domreport.Report{}, domain.ErrNotFound
	}
	return r, nil
}

func (m *memRepo) List(_ context.Context, f domreport.Filter) ([]domreport.Report, error) {
	m.lastList = f
	var out []domreport.Report
	for _, r := range m.reports {
		if r.IsActive() && (f.Kind == "" || r.Kind() == f.Kind) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt() > out[j].CreatedAt() })
	return out, nil
}

func (m *memRepo) ListByOwner(_ context.Context, ownerID string, _ int) ([]domreport.Report, error) {
	var out []domreport.Report
	for _, r := range m.reports {
		if r.OwnedBy(ownerID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id string, status domreport.Status) error {
	r, ok := m.reports[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.reports[id] = r.WithStatus(status)
	return nil
}

func (m *memRepo) Count(_ context.Context, kind domreport.Kind, status domreport.Status) (int, error) {
	n := 0
	for _, r := range m.reports {
		if r.Status() == status && (kind == "" || r.Kind() == kind) {
			n++
		}
	}
	return n, nil
}

type mockMatches struct {
	records []dommatch.Record
	listErr error
}

func (m *mockMatches) ListForReport(_ context.Context, reportID string, limit int) ([]dommatch.Record, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []dommatch.Record
	for _, r := range m.records {
		if r.Counterpart(reportID) != "" {
			out = append(out, r)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockMatches) Count(context.Context) (int, error) { return len(m.records), nil }

type mockEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (m *mockEmbedder) EmbedImage(_ context.Context, img []byte) (domain.EmbeddingResult, error) {
	m.calls++
	if len(img) == 0 {
		return domain.EmbeddingResult{}, domain.ErrInvalidImage
	}
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type mockMatcher struct {
	ran  []string
	recs []dommatch.Record
	err  error
}

func (m *mockMatcher) RunMatching(_ context.Context, r *domreport.Report) ([]dommatch.Record, error) {
	m.ran = append(m.ran, r.ID())
	return m.recs, m.err
}

type syncScheduler struct {
	names []string
}

func (s *syncScheduler) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	s.names = append(s.names, name)
	_ = fn(ctx)
}

type fixture struct {
	svc       *Service
	repo      *memRepo
	matches   *mockMatches
	embedder  *mockEmbedder
	matcher   *mockMatcher
	scheduler *syncScheduler
}

func newFixture(t *testing.T, reports ...domreport.Report) *fixture {
	t.Helper()
	f := &fixture{
		repo:      newMemRepo(reports...),
		matches:   &mockMatches{},
		embedder:  &mockEmbedder{vec: []float32{0.1, 0.2, 0.3}},
		matcher:   &mockMatcher{},
		scheduler: &syncScheduler{},
	}
	f.svc = New(f.repo, f.matches, f.embedder, f.matcher, f.scheduler)
	seq := 0
	f.svc.newID = func() string {
		seq++
		return fmt.Sprintf("r%d", seq)
	}
	f.svc.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return f
}

func testDraft() domreport.Draft {
	return domreport.Draft{
		Kind:        domreport.KindLost,
		Title:       "Silver watch",
		Category:    "Jewelry",
		Location:    "Parking lot B",
		Date:        "2026-10-15",
		Description: "Casio with a scratched face",
		Owner:       domreport.Owner{ID: "u1", Name: "Dana", Email: "dana@example.com"},
	}
}

func stored(t *testing.T, id string, kind domreport.Kind, owner string, anonymous bool, createdAt int64) domreport.Report {
	t.Helper()
	return domreport.Reconstruct(id, domreport.StatusActive, domreport.Draft{
		Kind:        kind,
		Title:       "Title " + id,
		Category:    "Bags",
		Location:    "Gym",
		Date:        "2026-10-01",
		Description: "d",
		ImageURL:    "data:image/jpeg;base64,xx",
		Owner:       domreport.Owner{ID: owner, Email: owner + "@example.com"},
		Anonymous:   anonymous,
	}, createdAt)
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := range 40 {
		for y := range 20 {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: 100, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func newMatch(t *testing.T, id, a, b string, score float64) dommatch.Record {
	t.Helper()
	rec, err := dommatch.New(id, a, b, score, time.Now())
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	return rec
}
