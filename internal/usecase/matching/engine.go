// Package matching scores a report against active reports of the opposite
// kind and records every pair above the similarity threshold.
package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lostaf-io/lostaf/internal/domain"
	dommatch "github.com/lostaf-io/lostaf/internal/domain/match"
	domreport "github.com/lostaf-io/lostaf/internal/domain/report"
	"github.com/lostaf-io/lostaf/internal/domain/similarity"
	"github.com/lostaf-io/lostaf/internal/logger"
	"github.com/lostaf-io/lostaf/internal/metrics"
)

// DefaultCandidateLimit bounds the linear scan of a single run.
const DefaultCandidateLimit = 100

// Engine runs matching for one report at a time. Runs for different reports
// may overlap; pair uniqueness in the MatchStore keeps them consistent.
type Engine struct {
	reports   ReportStore
	matches   MatchStore
	notifier  Notifier
	scheduler Scheduler
	threshold float64
	limit     int
	newID     func() string
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithThreshold sets the score a pair must strictly exceed.
func WithThreshold(t float64) Option {
	return func(e *Engine) { e.threshold = t }
}

// WithCandidateLimit caps the number of candidates scored per run.
func WithCandidateLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.limit = n
		}
	}
}

// WithNotifier hands every new record to n through s.
func WithNotifier(n Notifier, s Scheduler) Option {
	return func(e *Engine) {
		e.notifier = n
		e.scheduler = s
	}
}

// New creates a matching engine.
func New(reports ReportStore, matches MatchStore, opts ...Option) *Engine {
	e := &Engine{
		reports:   reports,
		matches:   matches,
		threshold: similarity.DefaultThreshold,
		limit:     DefaultCandidateLimit,
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// RunMatching scores rep against active reports of the opposite kind and
// returns the records it created. A report without an embedding yields none.
// Only a failed candidate query aborts the run.
func (e *Engine) RunMatching(ctx context.Context, rep *domreport.Report) ([]dommatch.Record, error) {
	if !rep.HasEmbedding() {
		metrics.MatchingRunsTotal.WithLabelValues("skipped").Inc()
		return nil, nil
	}

	log := logger.FromContext(ctx).With(zap.String("report_id", rep.ID()))
	start := time.Now()
	defer func() { metrics.MatchingRunDuration.Observe(time.Since(start).Seconds()) }()

	candidates, err := e.reports.QueryActive(ctx, rep.Kind().Opposite(), true, e.limit)
	if err != nil {
		metrics.MatchingRunsTotal.WithLabelValues("error").Inc()
		if !errors.Is(err, domain.ErrStoreUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		return nil, fmt.Errorf("query candidates: %w", err)
	}

	var created []dommatch.Record
	for i := range candidates {
		cand := &candidates[i]
		rec, ok := e.score(ctx, log, rep, cand)
		if !ok {
			continue
		}
		created = append(created, rec)
		e.notify(ctx, rec, *rep, *cand)
	}

	metrics.MatchingRunsTotal.WithLabelValues("ok").Inc()
	log.Info("Matching completed",
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(created)),
		zap.Duration("duration", time.Since(start)),
	)
	return created, nil
}

// score evaluates one candidate and persists a record when it passes.
func (e *Engine) score(
	ctx context.Context, log *zap.Logger, rep, cand *domreport.Report,
) (dommatch.Record, bool) {
	if cand.ID() == rep.ID() || !cand.IsActive() || cand.Kind() == rep.Kind() {
		return dommatch.Record{}, false
	}

	s, err := similarity.Cosine(rep.Embedding(), cand.Embedding())
	if err != nil {
		metrics.MatchingCandidatesTotal.WithLabelValues("invalid").Inc()
		log.Debug("Candidate skipped", zap.String("candidate_id", cand.ID()), zap.Error(err))
		return dommatch.Record{}, false
	}
	if !similarity.Exceeds(s, e.threshold) {
		metrics.MatchingCandidatesTotal.WithLabelValues("below_threshold").Inc()
		return dommatch.Record{}, false
	}

	rec, err := dommatch.New(e.newID(), rep.ID(), cand.ID(), s, e.now())
	if err != nil {
		metrics.MatchingCandidatesTotal.WithLabelValues("invalid").Inc()
		log.Warn("Match record rejected", zap.String("candidate_id", cand.ID()), zap.Error(err))
		return dommatch.Record{}, false
	}

	if err := e.matches.Insert(ctx, &rec); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			metrics.MatchingCandidatesTotal.WithLabelValues("duplicate").Inc()
			return dommatch.Record{}, false
		}
		metrics.MatchingCandidatesTotal.WithLabelValues("insert_error").Inc()
		log.Warn("Match insert failed", zap.String("candidate_id", cand.ID()), zap.Error(err))
		return dommatch.Record{}, false
	}

	metrics.MatchingCandidatesTotal.WithLabelValues("matched").Inc()
	metrics.MatchesCreatedTotal.Inc()
	log.Info("Match recorded",
		zap.String("match_id", rec.ID()),
		zap.String("candidate_id", cand.ID()),
		zap.Float64("score", s),
	)
	return rec, true
}

func (e *Engine) notify(ctx context.Context, rec dommatch.Record, a, b domreport.Report) {
	if e.notifier == nil {
		return
	}
	unit := func(ctx context.Context) error { return e.notifier.Dispatch(ctx, rec, a, b) }
	if e.scheduler == nil {
		if err := unit(ctx); err != nil {
			logger.FromContext(ctx).Error("Notification failed", zap.String("match_id", rec.ID()), zap.Error(err))
		}
		return
	}
	e.scheduler.Go(ctx, "notify", unit)
}
