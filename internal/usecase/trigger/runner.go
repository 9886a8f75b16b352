// Package trigger runs fire-and-forget background units that outlive the
// request which scheduled them.
package trigger

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/lostaf-io/lostaf/internal/logger"
)

// Runner schedules background units. A unit runs once: errors and panics
// are logged and counted, never retried.
type Runner struct {
	wg       sync.WaitGroup
	logger   *zap.Logger
	inFlight prometheus.Gauge
	failures *prometheus.CounterVec
}

// Option configures a Runner.
type Option func(*Runner)

// WithMetrics reports in-flight units and failures (labels "unit", "reason").
func WithMetrics(inFlight prometheus.Gauge, failures *prometheus.CounterVec) Option {
	return func(r *Runner) {
		r.inFlight = inFlight
		r.failures = failures
	}
}

// New creates a Runner. log is used when the scheduling context carries no logger.
func New(log *zap.Logger, opts ...Option) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runner{logger: log}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Go runs fn in its own goroutine. The unit keeps the values of ctx (request
// logger included) but not its cancellation, so it survives the response.
func (r *Runner) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	log := logger.FromContextOr(ctx, r.logger).With(zap.String("unit", name))
	unitCtx := logger.ContextWithLogger(context.WithoutCancel(ctx), log)

	r.wg.Add(1)
	if r.inFlight != nil {
		r.inFlight.Inc()
	}
	go func() {
		defer r.wg.Done()
		if r.inFlight != nil {
			defer r.inFlight.Dec()
		}
		if err := r.run(unitCtx, name, fn); err != nil {
			log.Error("background unit failed", zap.Error(err))
		}
	}()
}

func (r *Runner) run(ctx context.Context, name string, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.fail(name, "panic")
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	if err := fn(ctx); err != nil {
		r.fail(name, "error")
		return err
	}
	return nil
}

func (r *Runner) fail(name, reason string) {
	if r.failures == nil {
		return
	}
	r.failures.WithLabelValues(name, reason).Inc()
}

// Wait blocks until every scheduled unit has finished or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for background units: %w", ctx.Err())
	}
}
