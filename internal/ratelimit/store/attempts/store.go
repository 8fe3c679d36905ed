// Package attempts stores admin-code attempt records in process memory or Redis.
package attempts

import (
	"errors"

	"lotolink/internal/ratelimit/models"
)

// ErrContention is returned when an optimistic update kept losing races.
var ErrContention = errors.New("attempt record contention")

// UpdateFunc receives the current record (nil when absent) and returns the
// record to persist. Returning nil leaves storage unchanged. It may be called
// more than once when an optimistic transaction retries.
type UpdateFunc func(current *models.AdminCodeAttempt) *models.AdminCodeAttempt

func clone(a *models.AdminCodeAttempt) *models.AdminCodeAttempt {
	if a == nil {
		return nil
	}
	c := *a
	if a.LockedUntil != nil {
		until := *a.LockedUntil
		c.LockedUntil = &until
	}
	return &c
}
