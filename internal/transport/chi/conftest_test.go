package chi

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lostaf-io/lostaf/internal/domain"
	domreport "github.com/lostaf-io/lostaf/internal/domain/report"
	"github.com/lostaf-io/lostaf/internal/domain/user"
	healthuc "github.com/lostaf-io/lostaf/internal/usecase/health"
	reportuc "github.com/lostaf-io/lostaf/internal/usecase/report"
)

const testToken = "tok-1"

var testUser = user.User{ID: "u1", Email: "alice@example.com", Name: "Alice"}

// --- sessions ---

type mockSessions struct {
	users   map[string]user.User
	revoked []string
	err     error
}

func newMockSessions() *mockSessions {
	return &mockSessions{users: map[string]user.User{testToken: testUser}}
}

func (m *mockSessions) Lookup(_ context.Context, token string) (user.User, error) {
	if m.err != nil {
		return user.User{}, m.err
	}
	u, ok := m.users[token]
	if !ok {
		return user.User{}, domain.ErrUnauthorized
	}
	return u, nil
}

func (m *mockSessions) Revoke(_ context.Context, token string) error {
	m.revoked = append(m.revoked, token)
	delete(m.users, token)
	return nil
}

// --- reports ---

type mockReports struct {
	createFn       func(ctx context.Context, d domreport.Draft, image []byte) (domreport.Report, error)
	getFn          func(ctx context.Context, id string) (reportuc.Detail, error)
	listFn         func(ctx context.Context, f domreport.Filter) ([]reportuc.Listed, error)
	listMineFn     func(ctx context.Context, ownerID string) ([]domreport.Report, error)
	updateStatusFn func(ctx context.Context, id, userID string, status domreport.Status) error
	statsFn        func(ctx context.Context) (reportuc.Stats, error)
}

func (m *mockReports) Create(ctx context.Context, d domreport.Draft, image []byte) (domreport.Report, error) {
	return m.createFn(ctx, d, image)
}

func (m *mockReports) Get(ctx context.Context, id string) (reportuc.Detail, error) {
	return m.getFn(ctx, id)
}

func (m *mockReports) List(ctx context.Context, f domreport.Filter) ([]reportuc.Listed, error) {
	return m.listFn(ctx, f)
}

func (m *mockReports) ListMine(ctx context.Context, ownerID string) ([]domreport.Report, error) {
	return m.listMineFn(ctx, ownerID)
}

func (m *mockReports) UpdateStatus(ctx context.Context, id, userID string, status domreport.Status) error {
	return m.updateStatusFn(ctx, id, userID, status)
}

func (m *mockReports) Stats(ctx context.Context) (reportuc.Stats, error) {
	return m.statsFn(ctx)
}

// --- health ---

type mockHealth struct{ report healthuc.Report }

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func newTestRouter(t *testing.T, reports ReportService, sessions SessionStore) http.Handler {
	t.Helper()
	h := &mockHealth{report: healthuc.Report{
		Status: healthuc.Healthy,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
	}}
	return newTestRouterWithHealth(reports, sessions, h)
}

func newTestRouterWithHealth(reports ReportService, sessions SessionStore, h HealthChecker) http.Handler {
	r := chi.NewRouter()
	NewServer(reports, sessions, h, WithMaxUploadBytes(1<<20)).Routes(r)
	return r
}

func authed(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: testToken})
	return req
}

func newReport(t *testing.T, id string, kind domreport.Kind, owner domreport.Owner, anonymous bool) domreport.Report {
	t.Helper()
	r, err := domreport.New(id, domreport.Draft{
		Kind:        kind,
		Title:       "Blue backpack",
		Category:    "bags",
		Location:    "Library",
		Date:        "2024-05-01",
		Description: "Blue with a red zipper",
		Owner:       owner,
		Anonymous:   anonymous,
	}, time.UnixMilli(1714550400000))
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	return r
}

// multipartBody builds an item submission, attaching image when non-nil.
func multipartBody(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "photo.jpg")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(image); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
