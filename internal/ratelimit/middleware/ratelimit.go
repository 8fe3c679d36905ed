// Package middleware applies request budgets to HTTP routes.
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lotolink/internal/ratelimit/metrics"
	"lotolink/internal/ratelimit/models"
	"lotolink/pkg/platform/circuit"
	"lotolink/pkg/platform/httputil"
	"lotolink/pkg/requestcontext"
)

// maxPeekBytes bounds how much of a sign-in body is read to find the phone.
const maxPeekBytes = 64 << 10

// Limiter is implemented by the requestlimit service.
type Limiter interface {
	Check(ctx context.Context, class models.EndpointClass, identifier string) (*models.RateLimitResult, error)
}

type Middleware struct {
	limiter  Limiter
	fallback Limiter
	breaker  *circuit.Breaker
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithDisabled turns every check into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// WithFallback answers checks while the primary limiter's breaker is open.
func WithFallback(fallback Limiter) Option {
	return func(m *Middleware) {
		m.fallback = fallback
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(m *Middleware) {
		m.breaker = b
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

func New(limiter Limiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		limiter: limiter,
		logger:  logger,
		breaker: circuit.New("ratelimit"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimitAuth budgets sign-in routes per client IP and, when the JSON
// body names a phone, per phone as well. Limiter errors without a usable
// fallback let the request through.
func (m *Middleware) RateLimitAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			if !m.enforce(w, r, models.ClassAuth, requestcontext.ClientIP(ctx)) {
				return
			}
			if phone := peekPhone(r); phone != "" {
				if !m.enforce(w, r, models.ClassLogin, phone) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// enforce checks one bucket and writes the 429 when it is exhausted.
func (m *Middleware) enforce(w http.ResponseWriter, r *http.Request, class models.EndpointClass, identifier string) bool {
	ctx := r.Context()
	res, degraded, err := m.check(ctx, class, identifier)
	if err != nil {
		m.logger.ErrorContext(ctx, "rate limit check failed",
			"class", string(class),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return true
	}
	if degraded {
		w.Header().Set("X-RateLimit-Status", "degraded")
	}
	addRateLimitHeaders(w, res)
	if !res.Allowed {
		writeRateLimitExceeded(w, res, requestcontext.Now(ctx))
		return false
	}
	return true
}

// check asks the primary limiter and lets the breaker decide whether its
// answer or the fallback's is used.
func (m *Middleware) check(ctx context.Context, class models.EndpointClass, identifier string) (*models.RateLimitResult, bool, error) {
	res, err := m.limiter.Check(ctx, class, identifier)
	if err != nil {
		useFallback, change := m.breaker.RecordFailure()
		if change.Opened {
			m.logger.WarnContext(ctx, "rate limit store unavailable, using fallback", "breaker", m.breaker.Name())
		}
		if !useFallback || m.fallback == nil {
			return nil, false, err
		}
		return m.checkFallback(ctx, class, identifier)
	}

	usePrimary, change := m.breaker.RecordSuccess()
	if change.Closed {
		m.logger.InfoContext(ctx, "rate limit store recovered", "breaker", m.breaker.Name())
	}
	if usePrimary || m.fallback == nil {
		return res, false, nil
	}
	return m.checkFallback(ctx, class, identifier)
}

func (m *Middleware) checkFallback(ctx context.Context, class models.EndpointClass, identifier string) (*models.RateLimitResult, bool, error) {
	if m.metrics != nil {
		m.metrics.IncrementDegraded()
	}
	res, err := m.fallback.Check(ctx, class, identifier)
	return res, true, err
}

// peekPhone reads the phone field of a JSON POST body and restores the
// body for the handler.
func peekPhone(r *http.Request) string {
	if r.Method != http.MethodPost || r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBytes))
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))
	if err != nil || len(body) == 0 {
		return ""
	}
	var payload struct {
		Phone string `json:"phone"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	return strings.TrimSpace(payload.Phone)
}

func addRateLimitHeaders(w http.ResponseWriter, res *models.RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, res *models.RateLimitResult, now time.Time) {
	retry := int(res.RetryAfter(now).Seconds())
	w.Header().Set("Retry-After", strconv.Itoa(retry))
	httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.ErrorResponse{
		Error:            "rate_limit_exceeded",
		ErrorDescription: "too many attempts, retry in " + strconv.Itoa(retry) + " seconds",
	})
}
