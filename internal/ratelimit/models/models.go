package models

import (
	"time"
)

// Default admin-code policy.
const (
	DefaultMaxAttempts = 3
	DefaultWindow      = 5 * time.Minute
	DefaultLockout     = 15 * time.Minute
)

// Policy bounds how often a user may try an admin code.
type Policy struct {
	MaxAttempts int
	// Window is how long since the last attempt before the counter resets.
	Window  time.Duration
	Lockout time.Duration
}

func DefaultPolicy() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, Window: DefaultWindow, Lockout: DefaultLockout}
}

// AdminCodeAttempt tracks admin-code attempts for one user.
type AdminCodeAttempt struct {
	UserID      string     `json:"user_id"`
	Attempts    int        `json:"attempts"`
	LastAttempt time.Time  `json:"last_attempt"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
}

// IsLockedAt reports whether the lock is still in force at now.
func (a *AdminCodeAttempt) IsLockedAt(now time.Time) bool {
	return a.LockedUntil != nil && a.LockedUntil.After(now)
}

// IsStaleAt reports whether the record can be purged: its last attempt is
// older than the lockout duration and no lock is pending.
func (a *AdminCodeAttempt) IsStaleAt(now time.Time, lockout time.Duration) bool {
	return now.Sub(a.LastAttempt) > lockout && !a.IsLockedAt(now)
}

// Decision is the outcome of counting one attempt.
type Decision struct {
	Allowed bool
	// LockedUntil is set when Allowed is false.
	LockedUntil time.Time
	// NewlyLocked is true only on the attempt that triggered the lock.
	NewlyLocked bool
	Attempts    int
}

// RetryAfter returns how long until the lock expires.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if d.Allowed {
		return 0
	}
	return max(d.LockedUntil.Sub(now), 0)
}

// Evaluate counts one attempt against current and returns the record to store.
// A nil result means the stored record must be left untouched.
//
//   - no record: first attempt, allowed
//   - locked: rejected, record untouched
//   - last attempt older than the window: counter restarts at 1, allowed
//   - otherwise the counter grows; reaching MaxAttempts locks for Lockout
func Evaluate(current *AdminCodeAttempt, userID string, now time.Time, p Policy) (*AdminCodeAttempt, Decision) {
	if current == nil {
		return &AdminCodeAttempt{UserID: userID, Attempts: 1, LastAttempt: now}, Decision{Allowed: true, Attempts: 1}
	}
	if current.IsLockedAt(now) {
		return nil, Decision{Allowed: false, LockedUntil: *current.LockedUntil, Attempts: current.Attempts}
	}
	if now.Sub(current.LastAttempt) > p.Window {
		return &AdminCodeAttempt{UserID: userID, Attempts: 1, LastAttempt: now}, Decision{Allowed: true, Attempts: 1}
	}

	next := *current
	next.UserID = userID
	next.Attempts++
	next.LastAttempt = now
	if next.Attempts >= p.MaxAttempts {
		until := now.Add(p.Lockout)
		next.LockedUntil = &until
		return &next, Decision{Allowed: false, LockedUntil: until, NewlyLocked: true, Attempts: next.Attempts}
	}
	next.LockedUntil = nil
	return &next, Decision{Allowed: true, Attempts: next.Attempts}
}
