// Package report implements filing, browsing and closing lost/found reports.
package report

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
	"github.com/lostaf-io/lostaf/internal/imaging"
	"github.com/lostaf-io/lostaf/internal/logger"
)

const (
	maxListed  = 100
	maxMatches = 10
)

// Service handles report operations and schedules matching for new reports.
type Service struct {
	repo      Repository
	matches   MatchReader
	embedder  domain.Embedder
	matcher   Matcher
	scheduler Scheduler
	imageOpts imaging.Options
	newID     func() string
	now       func() time.Time
}

// New creates a report service.
func New(repo Repository, matches MatchReader, embedder domain.Embedder, matcher Matcher, scheduler Scheduler) *Service {
	return &Service{
		repo:      repo,
		matches:   matches,
		embedder:  embedder,
		matcher:   matcher,
		scheduler: scheduler,
		imageOpts: imaging.DefaultOptions(),
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// WithImageOptions overrides image normalization settings.
func (s *Service) WithImageOptions(o imaging.Options) *Service {
	if o.MaxSide > 0 {
		s.imageOpts.MaxSide = o.MaxSide
	}
	if o.Quality > 0 {
		s.imageOpts.Quality = o.Quality
	}
	return s
}

// Create files a report. An attached image is normalized and embedded; if
// embedding fails the report is kept without one and never takes part in matching.
// Matching for the new report runs in the background.
func (s *Service) Create(ctx context.Context, d domreport.Draft, image []byte) (domreport.Report, error) {
	d.ImageURL = ""
	d.Embedding = nil
	if err := d.Validate(); err != nil {
		return domreport.Report{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	if len(image) > 0 {
		img, err := imaging.Normalize(image, s.imageOpts)
		if err != nil {
			return domreport.Report{}, fmt.Errorf("normalize image: %w", err)
		}
		d.ImageURL = img.DataURL()

		res, err := s.embedder.EmbedImage(ctx, img.JPEG)
		if err != nil {
			logger.FromContext(ctx).Warn("Image embedding failed, report will not be matched", zap.Error(err))
		} else {
			d.Embedding = res.Embedding
		}
	}

	rep, err := domreport.New(s.newID(), d, s.now())
	if err != nil {
		return domreport.Report{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if err := s.repo.Create(ctx, &rep); err != nil {
		return domreport.Report{}, fmt.Errorf("create report: %w", err)
	}

	if rep.HasEmbedding() && s.matcher != nil {
		s.scheduler.Go(ctx, "match", func(ctx context.Context) error {
			_, err := s.matcher.RunMatching(ctx, &rep)
			return err
		})
	}
	return rep, nil
}

// Get returns a report with up to ten matches.
func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	rep, err := s.repo.Get(ctx, id)
	if err != nil {
		return Detail{}, fmt.Errorf("get report: %w", err)
	}

	details := []MatchDetail{}
	err = s.eachCounterpart(ctx, id, func(rec *dommatch.Record, other *domreport.Report) {
		details = append(details, MatchDetail{
			ID:         other.ID(),
			Title:      other.Title(),
			Category:   other.Category(),
			Location:   other.Location(),
			ImageURL:   other.ImageURL(),
			Contact:    other.Contact(),
			Similarity: rec.Score(),
		})
	})
	if err != nil {
		return Detail{}, err
	}
	return Detail{Report: rep, Matches: details}, nil
}

// List returns active reports matching f, newest first, each with match summaries.
func (s *Service) List(ctx context.Context, f domreport.Filter) ([]Listed, error) {
	if f.Kind != "" && !f.Kind.IsValid() {
		return nil, fmt.Errorf("invalid report type %q: %w", f.Kind, domain.ErrInvalidInput)
	}
	if f.Limit <= 0 || f.Limit > maxListed {
		f.Limit = maxListed
	}

	reports, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	out := make([]Listed, 0, len(reports))
	for _, rep := range reports {
		summaries := []MatchSummary{}
		err := s.eachCounterpart(ctx, rep.ID(), func(rec *dommatch.Record, other *domreport.Report) {
			summaries = append(summaries, MatchSummary{ID: other.ID(), Title: other.Title(), Similarity: rec.Score()})
		})
		if err != nil {
			return nil, err
		}
		out = append(out, Listed{Report: rep, Matches: summaries})
	}
	return out, nil
}

// ListMine returns every report filed by ownerID, newest first.
func (s *Service) ListMine(ctx context.Context, ownerID string) ([]domreport.Report, error) {
	reports, err := s.repo.ListByOwner(ctx, ownerID, maxListed)
	if err != nil {
		return nil, fmt.Errorf("list own reports: %w", err)
	}
	return reports, nil
}

// UpdateStatus changes the status of a report. Only its owner may do so.
func (s *Service) UpdateStatus(ctx context.Context, id, userID string, status domreport.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid status %q: %w", status, domain.ErrInvalidInput)
	}
	rep, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get report: %w", err)
	}
	if !rep.OwnedBy(userID) {
		return domain.ErrForbidden
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// Stats returns portal-wide counters.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error
	if st.ActiveLost, err = s.repo.Count(ctx, domreport.KindLost, domreport.StatusActive); err != nil {
		return Stats{}, fmt.Errorf("count lost: %w", err)
	}
	if st.ActiveFound, err = s.repo.Count(ctx, domreport.KindFound, domreport.StatusActive); err != nil {
		return Stats{}, fmt.Errorf("count found: %w", err)
	}
	if st.Resolved, err = s.repo.Count(ctx, "", domreport.StatusResolved); err != nil {
		return Stats{}, fmt.Errorf("count resolved: %w", err)
	}
	if st.Matches, err = s.matches.Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count matches: %w", err)
	}
	return st, nil
}

// Rematch runs matching again for an existing report and waits for it.
// Pairs already recorded are skipped, so nobody is notified twice.
func (s *Service) Rematch(ctx context.Context, id string) ([]dommatch.Record, error) {
	rep, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	if !rep.IsActive() {
		return nil, fmt.Errorf("report %s is %s: %w", id, rep.Status(), domain.ErrInvalidInput)
	}
	recs, err := s.matcher.RunMatching(ctx, &rep)
	if err != nil {
		return nil, fmt.Errorf("run matching: %w", err)
	}
	return recs, nil
}

// eachCounterpart calls fn for every match of reportID whose counterpart still exists.
func (s *Service) eachCounterpart(
	ctx context.Context, reportID string, fn func(rec *dommatch.Record, other *domreport.Report),
) error {
	recs, err := s.matches.ListForReport(ctx, reportID, maxMatches)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	for i := range recs {
		rec := &recs[i]
		other, err := s.repo.Get(ctx, rec.Counterpart(reportID))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return fmt.Errorf("get counterpart: %w", err)
		}
		fn(rec, &other)
	}
	return nil
}
