// Package service implements the admin-code attempt limiter.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lotolink/internal/ratelimit/metrics"
	"lotolink/internal/ratelimit/models"
	"lotolink/internal/ratelimit/store/attempts"
	"lotolink/pkg/attrs"
	dErrors "lotolink/pkg/domain-errors"
	"lotolink/pkg/platform/audit"
	"lotolink/pkg/requestcontext"
)

// Store holds attempt records. Update must be atomic per user.
type Store interface {
	Update(ctx context.Context, userID string, fn attempts.UpdateFunc) error
	Delete(ctx context.Context, userID string) error
	Sweep(ctx context.Context, now time.Time, lockout time.Duration) (int, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Limiter counts admin-code attempts per user and locks users out after
// repeated attempts inside the window.
type Limiter struct {
	store          Store
	policy         models.Policy
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
}

type Option func(*Limiter)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		l.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(l *Limiter) {
		l.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Limiter) {
		l.metrics = m
	}
}

// WithPolicy overrides the default 3 attempts / 5 minutes / 15 minute lock.
// Zero fields keep their defaults.
func WithPolicy(p models.Policy) Option {
	return func(l *Limiter) {
		if p.MaxAttempts > 0 {
			l.policy.MaxAttempts = p.MaxAttempts
		}
		if p.Window > 0 {
			l.policy.Window = p.Window
		}
		if p.Lockout > 0 {
			l.policy.Lockout = p.Lockout
		}
	}
}

func New(store Store, opts ...Option) (*Limiter, error) {
	if store == nil {
		return nil, errors.New("attempt store is required")
	}
	l := &Limiter{store: store, policy: models.DefaultPolicy()}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *Limiter) Policy() models.Policy {
	return l.policy
}

// Check counts one attempt for userID. A locked user gets Allowed=false
// and the stored record is not modified.
func (l *Limiter) Check(ctx context.Context, userID string) (models.Decision, error) {
	now := requestcontext.Now(ctx)
	var decision models.Decision
	err := l.store.Update(ctx, userID, func(current *models.AdminCodeAttempt) *models.AdminCodeAttempt {
		next, d := models.Evaluate(current, userID, now, l.policy)
		decision = d
		return next
	})
	if err != nil {
		return models.Decision{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record admin code attempt")
	}

	if l.metrics != nil {
		l.metrics.IncrementAttempts()
		switch {
		case decision.NewlyLocked:
			l.metrics.IncrementLockouts()
		case !decision.Allowed:
			l.metrics.IncrementRejected()
		}
	}
	if decision.NewlyLocked {
		l.logAudit(ctx, audit.EventAdminCodeLocked,
			"user_id", userID,
			"attempts", decision.Attempts,
			"locked_until", decision.LockedUntil,
		)
	}
	return decision, nil
}

// Clear forgets userID's attempts after a successful validation.
func (l *Limiter) Clear(ctx context.Context, userID string) error {
	if err := l.store.Delete(ctx, userID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear admin code attempts")
	}
	l.logAudit(ctx, audit.EventAdminCodeCleared, "user_id", userID)
	return nil
}

// SweepAt purges records whose last attempt is older than the lockout.
func (l *Limiter) SweepAt(ctx context.Context, now time.Time) (int, error) {
	removed, err := l.store.Sweep(ctx, now, l.policy.Lockout)
	if l.metrics != nil && removed > 0 {
		l.metrics.AddSwept(removed)
	}
	return removed, err
}

// Run sweeps every interval until ctx is cancelled. Sweep errors are
// logged and the loop continues.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := l.SweepAt(ctx, time.Now())
			if err != nil {
				if l.logger != nil {
					l.logger.WarnContext(ctx, "admin code sweep failed", "removed", removed, "error", err)
				}
				continue
			}
			if l.logger != nil && removed > 0 {
				l.logger.DebugContext(ctx, "admin code sweep", "removed", removed)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (l *Limiter) logAudit(ctx context.Context, event audit.AuditEvent, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "log_type", "audit")
	if l.logger != nil {
		l.logger.InfoContext(ctx, string(event), args...)
	}
	if l.auditPublisher == nil {
		return
	}
	if err := l.auditPublisher.Emit(ctx, audit.Event{
		Subject:   attrs.ExtractString(attributes, "user_id"),
		Action:    string(event),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
	}); err != nil && l.logger != nil {
		l.logger.WarnContext(ctx, "audit emit failed", "event", string(event), "error", err)
	}
}
