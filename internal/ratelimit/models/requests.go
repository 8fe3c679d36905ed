package models

import "time"

// EndpointClass groups routes that share a request budget.
type EndpointClass string

const (
	// ClassAuth budgets public sign-in routes per client IP.
	ClassAuth EndpointClass = "auth"
	// ClassLogin budgets sign-in attempts per phone number, across IPs.
	ClassLogin EndpointClass = "login"
)

// Limit allows Requests inside any sliding Window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// RateLimitResult is the outcome of one request against a bucket.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetAt is when the oldest counted request leaves the window.
	ResetAt time.Time
}

// RetryAfter returns how long a rejected caller should wait, rounded up to
// whole seconds for the Retry-After header.
func (r RateLimitResult) RetryAfter(now time.Time) time.Duration {
	if r.Allowed {
		return 0
	}
	d := max(r.ResetAt.Sub(now), 0)
	if rem := d % time.Second; rem != 0 {
		d += time.Second - rem
	}
	return d
}
