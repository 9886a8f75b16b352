package report

import (
	"context"

	dommatch "github.com/lostaf-io/lostaf/internal/domain/match"
	domreport "github.com/lostaf-io/lostaf/internal/domain/report"
)

// Repository defines the storage contract for reports.
type Repository interface {
	Create(ctx context.Context, r *domreport.Report) error
	Get(ctx context.Context, id string) (domreport.Report, error)
	List(ctx context.Context, f domreport.Filter) ([]domreport.Report, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]domreport.Report, error)
	UpdateStatus(ctx context.Context, id string, status domreport.Status) error
	Count(ctx context.Context, kind domreport.Kind, status domreport.Status) (int, error)
}

// MatchReader reads recorded matches.
type MatchReader interface {
	ListForReport(ctx context.Context, reportID string, limit int) ([]dommatch.Record, error)
	Count(ctx context.Context) (int, error)
}

// Matcher runs matching for a report.
type Matcher interface {
	RunMatching(ctx context.Context, r *domreport.Report) ([]dommatch.Record, error)
}

// Scheduler runs a unit in the background.
type Scheduler interface {
	Go(ctx context.Context, name string, fn func(ctx context.Context) error)
}
