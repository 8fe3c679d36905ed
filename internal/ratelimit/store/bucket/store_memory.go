// Package bucket stores sliding-window request counters.
package bucket

import (
	"context"
	"sync"
	"time"

	"lotolink/internal/ratelimit/models"
)

// InMemoryStore keeps a sliding window of request timestamps per key. It is
// process-local, so each instance enforces its own budget.
type InMemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*slidingWindow
}

type slidingWindow struct {
	timestamps []time.Time
	window     time.Duration
}

func New() *InMemoryStore {
	return &InMemoryStore{buckets: make(map[string]*slidingWindow)}
}

// Allow counts one request for key at now unless the window is full.
// Rejected requests are not counted.
func (s *InMemoryStore) Allow(_ context.Context, key string, limit models.Limit, now time.Time) (*models.RateLimitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.buckets[key]
	if w == nil {
		w = &slidingWindow{}
		s.buckets[key] = w
	}
	w.window = limit.Window
	w.prune(now)

	allowed := len(w.timestamps) < limit.Requests
	if allowed {
		w.timestamps = append(w.timestamps, now)
	}
	resetAt := now.Add(limit.Window)
	if len(w.timestamps) > 0 {
		resetAt = w.timestamps[0].Add(limit.Window)
	}
	return &models.RateLimitResult{
		Allowed:   allowed,
		Limit:     limit.Requests,
		Remaining: max(limit.Requests-len(w.timestamps), 0),
		ResetAt:   resetAt,
	}, nil
}

// Sweep drops buckets whose every request has left the window.
func (s *InMemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, w := range s.buckets {
		w.prune(now)
		if len(w.timestamps) == 0 {
			delete(s.buckets, key)
			removed++
		}
	}
	return removed, nil
}

func (s *InMemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

func (w *slidingWindow) prune(now time.Time) {
	cutoff := now.Add(-w.window)
	i := 0
	for i < len(w.timestamps) && !w.timestamps[i].After(cutoff) {
		i++
	}
	w.timestamps = w.timestamps[i:]
}
