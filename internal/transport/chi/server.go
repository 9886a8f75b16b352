// Package chi exposes the lost & found HTTP API on a chi router.
package chi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domreport "github.com/lostaf-io/lostaf/internal/domain/report"
	healthuc "github.com/lostaf-io/lostaf/internal/usecase/health"
	reportuc "github.com/lostaf-io/lostaf/internal/usecase/report"
)

const (
	// DefaultMaxUploadBytes caps a multipart item submission.
	DefaultMaxUploadBytes int64 = 10 << 20
	multipartMemory       int64 = 8 << 20
)

// ReportService is the report use case as consumed by the API.
type ReportService interface {
	Create(ctx context.Context, d domreport.Draft, image []byte) (domreport.Report, error)
	Get(ctx context.Context, id string) (reportuc.Detail, error)
	List(ctx context.Context, f domreport.Filter) ([]reportuc.Listed, error)
	ListMine(ctx context.Context, ownerID string) ([]domreport.Report, error)
	UpdateStatus(ctx context.Context, id, userID string, status domreport.Status) error
	Stats(ctx context.Context) (reportuc.Stats, error)
}

// HealthChecker reports the health of the service dependencies.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server holds the HTTP handlers of the API.
type Server struct {
	reports        ReportService
	sessions       SessionStore
	health         HealthChecker
	maxUploadBytes int64
	secureCookie   bool
}

// Option configures a Server.
type Option func(*Server)

// WithMaxUploadBytes limits the size of an item submission.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithSecureCookie marks cookies written by the server as Secure.
func WithSecureCookie(secure bool) Option {
	return func(s *Server) { s.secureCookie = secure }
}

// NewServer creates an HTTP API server.
func NewServer(reports ReportService, sessions SessionStore, health HealthChecker, opts ...Option) *Server {
	s := &Server{
		reports:        reports,
		sessions:       sessions,
		health:         health,
		maxUploadBytes: DefaultMaxUploadBytes,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Routes mounts the API on r. Everything under /api except the banner needs a session.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", s.Root)

		r.Group(func(r chi.Router) {
			r.Use(SessionAuthMiddleware(s.sessions))

			r.Get("/auth/me", s.Me)
			r.Post("/auth/logout", s.Logout)

			r.Post("/items", s.CreateItem)
			r.Get("/items", s.ListItems)
			r.Get("/items/user/my-items", s.ListMyItems)
			r.Get("/items/{id}", s.GetItem)
			r.Patch("/items/{id}/status", s.UpdateItemStatus)

			r.Get("/admin/stats", s.Stats)
		})
	})
}

// Root handles GET /api/.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "LostAF API"})
}

// Me handles GET /api/auth/me.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, u)
}

// Logout handles POST /api/auth/logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := s.sessions.Revoke(r.Context(), token); err != nil {
			handleDomainError(w, r, err)
			return
		}
	}
	sameSite := http.SameSiteLaxMode
	if s.secureCookie {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: sameSite,
	})
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// CreateItem handles POST /api/items (multipart/form-data).
func (s *Server) CreateItem(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeBadRequest,
				fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	anonymous, err := parseFormBool(r.FormValue("is_anonymous"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "is_anonymous must be a boolean")
		return
	}

	image, err := readImage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "cannot read image upload")
		return
	}

	draft := domreport.Draft{
		Kind:        domreport.Kind(r.FormValue("type")),
		Title:       r.FormValue("title"),
		Category:    r.FormValue("category"),
		Location:    r.FormValue("location"),
		Date:        r.FormValue("date"),
		Description: r.FormValue("description"),
		Owner:       domreport.Owner{ID: u.ID, Name: u.Name, Email: u.Email},
		Anonymous:   anonymous,
	}

	rep, err := s.reports.Create(r.Context(), draft, image)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, createItemResponse{ID: rep.ID(), Message: "Item created successfully"})
}

// ListItems handles GET /api/items.
func (s *Server) ListItems(w http.ResponseWriter, r *http.Request) {
	params, err := bindListItemsParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	items, err := s.reports.List(r.Context(), domreport.Filter{
		Kind:     domreport.Kind(deref(params.Type)),
		Category: deref(params.Category),
		Location: deref(params.Location),
		Search:   deref(params.Search),
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	u, _ := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, listedToResponse(items, u))
}

// GetItem handles GET /api/items/{id}.
func (s *Server) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := bindItemID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	detail, err := s.reports.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	u, _ := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, detailToResponse(detail, u))
}

// UpdateItemStatus handles PATCH /api/items/{id}/status?status=.
func (s *Server) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	id, err := bindItemID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	params, err := bindUpdateStatusParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	u, _ := UserFromContext(r.Context())
	if err := s.reports.UpdateStatus(r.Context(), id, u.ID, domreport.Status(params.Status)); err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Status updated"})
}

// ListMyItems handles GET /api/items/user/my-items.
func (s *Server) ListMyItems(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromContext(r.Context())

	items, err := s.reports.ListMine(r.Context(), u.ID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	out := make([]itemResponse, 0, len(items))
	for i := range items {
		out = append(out, itemToResponse(&items[i], u))
	}
	writeJSON(w, http.StatusOK, out)
}

// Stats handles GET /api/admin/stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.reports.Stats(r.Context())
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsToResponse(st))
}

// HealthCheck handles GET /health. A degraded service still answers 200.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func parseFormBool(v string) (bool, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "":
		return false, nil
	case "on":
		return true, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse bool %q: %w", v, err)
	}
	return b, nil
}

// readImage returns the optional "image" upload, nil when none was sent.
func readImage(r *http.Request) ([]byte, error) {
	f, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}
