package health

import (
	"context"
	"sync"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded means an optional dependency is down; reports can still be filed.
	Degraded Status = "degraded"
	// Unhealthy means the database is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

const defaultCheckTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type check struct {
	name     string
	critical bool
	fn       func(ctx context.Context) error
}

// Service coordinates health checks.
type Service struct {
	checks  []check
	timeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithEmbedding adds the embedding provider as a non-critical check.
func WithEmbedding(e EmbeddingChecker) Option {
	return func(s *Service) {
		if e != nil {
			s.checks = append(s.checks, check{name: "embedding", fn: e.HealthCheck})
		}
	}
}

// WithTimeout bounds every individual check.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a Service. The database check is always critical.
func New(db StorePinger, opts ...Option) *Service {
	s := &Service{
		checks:  []check{{name: "database", critical: true, fn: db.Ping}},
		timeout: defaultCheckTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Check runs all checks concurrently.
func (s *Service) Check(ctx context.Context) Report {
	results := make([]CheckResult, len(s.checks))

	var wg sync.WaitGroup
	for i, c := range s.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			if err := c.fn(cctx); err != nil {
				results[i] = CheckError
				return
			}
			results[i] = CheckOK
		}()
	}
	wg.Wait()

	status := Healthy
	checks := make(map[string]CheckResult, len(s.checks))
	for i, c := range s.checks {
		checks[c.name] = results[i]
		if results[i] != CheckError {
			continue
		}
		if c.critical {
			status = Unhealthy
		} else if status == Healthy {
			status = Degraded
		}
	}

	return Report{Status: status, Checks: checks}
}
