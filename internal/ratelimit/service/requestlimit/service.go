// Package requestlimit budgets requests per endpoint class and identifier
// with sliding-window buckets.
package requestlimit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lotolink/internal/ratelimit/metrics"
	"lotolink/internal/ratelimit/models"
	dErrors "lotolink/pkg/domain-errors"
	"lotolink/pkg/requestcontext"
)

// unconfiguredRetry is returned to callers of a class with no limit.
const unconfiguredRetry = time.Minute

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// Store counts requests in sliding windows. Allow must be atomic per key.
type Store interface {
	Allow(ctx context.Context, key string, limit models.Limit, now time.Time) (*models.RateLimitResult, error)
}

type Service struct {
	buckets Store
	limits  map[models.EndpointClass]models.Limit
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLimit sets the budget for class. Non-positive limits are ignored.
func WithLimit(class models.EndpointClass, limit models.Limit) Option {
	return func(s *Service) {
		if limit.Requests > 0 && limit.Window > 0 {
			s.limits[class] = limit
		}
	}
}

func New(buckets Store, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, errors.New("bucket store is required")
	}
	s := &Service{buckets: buckets, limits: make(map[models.EndpointClass]models.Limit)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) Limit(class models.EndpointClass) (models.Limit, bool) {
	l, ok := s.limits[class]
	return l, ok
}

// Check counts one request for identifier under class. A class without a
// configured limit is denied.
func (s *Service) Check(ctx context.Context, class models.EndpointClass, identifier string) (*models.RateLimitResult, error) {
	now := requestcontext.Now(ctx)
	limit, ok := s.limits[class]
	if !ok {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "rate limit not configured", "class", string(class))
		}
		return &models.RateLimitResult{Allowed: false, ResetAt: now.Add(unconfiguredRetry)}, nil
	}

	res, err := s.buckets.Allow(ctx, models.RequestKey(class, identifier), limit, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check request limit")
	}
	if !res.Allowed {
		if s.metrics != nil {
			s.metrics.IncrementRequestRejected(string(class))
		}
		if s.logger != nil {
			s.logger.WarnContext(ctx, "request limit exceeded",
				"class", string(class),
				"request_id", requestcontext.RequestID(ctx),
				"reset_at", res.ResetAt,
			)
		}
	}
	return res, nil
}

// Run sweeps idle buckets every interval until ctx is cancelled. Stores
// that expire keys themselves are left alone.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	sw, ok := s.buckets.(interface {
		Sweep(ctx context.Context, now time.Time) (int, error)
	})
	if !ok {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := sw.Sweep(ctx, time.Now())
			if err != nil {
				if s.logger != nil {
					s.logger.WarnContext(ctx, "request bucket sweep failed", "error", err)
				}
				continue
			}
			if s.logger != nil && removed > 0 {
				s.logger.DebugContext(ctx, "request bucket sweep", "removed", removed)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
