// Package notification emails both parties of a new match.
package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lostaf-io/lostaf/internal/domain"
	dommatch "github.com/lostaf-io/lostaf/internal/domain/match"
	domreport "github.com/lostaf-io/lostaf/internal/domain/report"
	"github.com/lostaf-io/lostaf/internal/domain/similarity"
	"github.com/lostaf-io/lostaf/internal/logger"
	"github.com/lostaf-io/lostaf/internal/metrics"
)

const defaultSendTimeout = 10 * time.Second

// Dispatcher sends match notifications. Delivery failures are logged and
// counted; they never undo the match.
type Dispatcher struct {
	matches     MatchStore
	mailer      domain.Mailer
	portalURL   string
	sendTimeout time.Duration
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithPortalURL links the portal from message bodies.
func WithPortalURL(u string) Option {
	return func(d *Dispatcher) { d.portalURL = u }
}

// WithSendTimeout bounds each delivery attempt.
func WithSendTimeout(t time.Duration) Option {
	return func(d *Dispatcher) {
		if t > 0 {
			d.sendTimeout = t
		}
	}
}

// New creates a dispatcher.
func New(matches MatchStore, mailer domain.Mailer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		matches:     matches,
		mailer:      mailer,
		sendTimeout: defaultSendTimeout,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Dispatch notifies the owners of a and b about rec. Only the first call
// for a record sends anything. The returned error covers the claim only.
func (d *Dispatcher) Dispatch(ctx context.Context, rec dommatch.Record, a, b domreport.Report) error {
	log := logger.FromContext(ctx).With(zap.String("match_id", rec.ID()))

	claimed, err := d.matches.ClaimNotification(ctx, rec.ID())
	if err != nil {
		return fmt.Errorf("claim notification: %w", err)
	}
	if !claimed {
		metrics.NotificationsTotal.WithLabelValues("already_claimed").Inc()
		log.Debug("Notification already claimed")
		return nil
	}
	if err := d.matches.MarkNotified(ctx, rec.ID()); err != nil {
		log.Warn("Failed to flag match as notified", zap.Error(err))
	}

	d.notify(ctx, log, &a, &b, rec.Score())
	d.notify(ctx, log, &b, &a, rec.Score())
	return nil
}

// notify tells the owner of recipient about counterpart.
func (d *Dispatcher) notify(
	ctx context.Context, log *zap.Logger, recipient, counterpart *domreport.Report, score float64,
) {
	if recipient.Anonymous() {
		metrics.NotificationsTotal.WithLabelValues("skipped_anonymous").Inc()
		return
	}
	owner := recipient.Owner()
	if owner.Email == "" {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		log.Warn("Report owner has no email", zap.String("report_id", recipient.ID()))
		return
	}

	msg, err := d.compose(recipient, counterpart, score)
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		log.Error("Failed to compose notification", zap.String("report_id", recipient.ID()), zap.Error(err))
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()
	if err := d.mailer.Send(sendCtx, msg); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		log.Warn("Notification delivery failed",
			zap.String("report_id", recipient.ID()),
			zap.Error(err),
		)
		return
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	log.Info("Notification sent", zap.String("report_id", recipient.ID()))
}

func (d *Dispatcher) compose(recipient, counterpart *domreport.Report, score float64) (domain.Email, error) {
	contact := counterpart.Contact()
	if contact == "" {
		contact = anonymousContact
	}
	kind := string(recipient.Kind())

	text, html, err := render(view{
		Kind:              kind,
		Title:             recipient.Title(),
		MatchTitle:        counterpart.Title(),
		MatchCategory:     counterpart.Category(),
		MatchLocation:     counterpart.Location(),
		Contact:           contact,
		SimilarityPercent: similarity.Percent(score),
		PortalURL:         d.portalURL,
	})
	if err != nil {
		return domain.Email{}, err
	}
	owner := recipient.Owner()
	return domain.Email{
		To:      owner.Email,
		ToName:  owner.Name,
		Subject: subject(kind),
		Text:    text,
		HTML:    html,
	}, nil
}
