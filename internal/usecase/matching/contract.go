package matching

import (
	"context"

	dommatch "github.com/lostaf-io/lostaf/internal/domain/match"
	domreport "github.com/lostaf-io/lostaf/internal/domain/report"
)

// ReportStore reads match candidates.
type ReportStore interface {
	QueryActive(ctx context.Context, kind domreport.Kind, requireEmbedding bool, limit int) ([]domreport.Report, error)
}

// MatchStore persists match records. Insert returns domain.ErrAlreadyExists
// when the unordered pair is already recorded.
type MatchStore interface {
	Insert(ctx context.Context, rec *dommatch.Record) error
}

// Notifier tells both parties about a new match.
type Notifier interface {
	Dispatch(ctx context.Context, rec dommatch.Record, a, b domreport.Report) error
}

// Scheduler runs a unit in the background.
type Scheduler interface {
	Go(ctx context.Context, name string, fn func(ctx context.Context) error)
}
