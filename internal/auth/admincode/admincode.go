// Package admincode validates admin codes against the external validation
// service, behind the per-user attempt limiter.
package admincode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lotolink/internal/ratelimit/models"
	dErrors "lotolink/pkg/domain-errors"
	"lotolink/pkg/requestcontext"
)

// Outcome tags a Result.
type Outcome int

const (
	OutcomeValid Outcome = iota
	OutcomeLockedOut
	OutcomeNotConfigured
	OutcomeInvalidCode
	OutcomeUpstreamError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeValid:
		return "valid"
	case OutcomeLockedOut:
		return "locked_out"
	case OutcomeNotConfigured:
		return "not_configured"
	case OutcomeInvalidCode:
		return "invalid_code"
	case OutcomeUpstreamError:
		return "upstream_error"
	default:
		return "unknown"
	}
}

// Result is the outcome of one validation. Remaining is set for LockedOut.
type Result struct {
	Outcome   Outcome
	Remaining time.Duration
}

func (r Result) Valid() bool {
	return r.Outcome == OutcomeValid
}

// Err maps the outcome to a domain error; nil for Valid.
func (r Result) Err() error {
	switch r.Outcome {
	case OutcomeValid:
		return nil
	case OutcomeLockedOut:
		return dErrors.New(dErrors.CodeUnauthorized,
			fmt.Sprintf("too many admin code attempts, try again in %d minutes", remainingMinutes(r.Remaining)))
	case OutcomeNotConfigured:
		return dErrors.New(dErrors.CodeBadRequest, "admin authentication is not available")
	case OutcomeInvalidCode:
		return dErrors.New(dErrors.CodeUnauthorized, "invalid admin code")
	default:
		return dErrors.New(dErrors.CodeBadRequest, "unable to verify admin code at this time")
	}
}

// remainingMinutes rounds up, never below one.
func remainingMinutes(d time.Duration) int {
	m := int((d + time.Minute - 1) / time.Minute)
	return max(m, 1)
}

type Limiter interface {
	Check(ctx context.Context, userID string) (models.Decision, error)
	Clear(ctx context.Context, userID string) error
}

type Verifier interface {
	Configured() bool
	Verify(ctx context.Context, userID, code string, now time.Time) error
}

type Validator struct {
	limiter  Limiter
	verifier Verifier
	logger   *slog.Logger
}

type Option func(*Validator)

func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

func NewValidator(limiter Limiter, verifier Verifier, opts ...Option) *Validator {
	v := &Validator{limiter: limiter, verifier: verifier}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate counts the attempt, then asks the validation service. Locked
// users never reach the service. A valid code clears the user's attempts.
func (v *Validator) Validate(ctx context.Context, userID, code string) Result {
	now := requestcontext.Now(ctx)

	decision, err := v.limiter.Check(ctx, userID)
	if err != nil {
		v.warn(ctx, "admin code limiter unavailable", userID, err)
		return Result{Outcome: OutcomeUpstreamError}
	}
	if !decision.Allowed {
		return Result{Outcome: OutcomeLockedOut, Remaining: decision.RetryAfter(now)}
	}

	if v.verifier == nil || !v.verifier.Configured() {
		return Result{Outcome: OutcomeNotConfigured}
	}

	if err := v.verifier.Verify(ctx, userID, code, now); err != nil {
		if errors.Is(err, ErrUpstream) {
			v.warn(ctx, "admin validation service error", userID, err)
			return Result{Outcome: OutcomeUpstreamError}
		}
		return Result{Outcome: OutcomeInvalidCode}
	}

	if err := v.limiter.Clear(ctx, userID); err != nil {
		v.warn(ctx, "failed to clear admin code attempts", userID, err)
	}
	return Result{Outcome: OutcomeValid}
}

func (v *Validator) warn(ctx context.Context, msg, userID string, err error) {
	if v.logger != nil {
		v.logger.WarnContext(ctx, msg, "user_id", userID, "error", err)
	}
}
