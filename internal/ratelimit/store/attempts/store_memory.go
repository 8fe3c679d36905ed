package attempts

import (
	"context"
	"sync"
	"time"

	"lotolink/internal/ratelimit/models"
)

// InMemoryStore keeps attempt records per process. Limits are not shared
// across instances.
type InMemoryStore struct {
	mu      sync.Mutex
	records map[string]*models.AdminCodeAttempt
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]*models.AdminCodeAttempt)}
}

func (s *InMemoryStore) Get(_ context.Context, userID string) (*models.AdminCodeAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.records[models.AttemptKey(userID)]), nil
}

func (s *InMemoryStore) Update(_ context.Context, userID string, fn UpdateFunc) error {
	key := models.AttemptKey(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if next := fn(clone(s.records[key])); next != nil {
		s.records[key] = clone(next)
	}
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, models.AttemptKey(userID))
	return nil
}

// Sweep removes records whose last attempt is older than lockout.
func (s *InMemoryStore) Sweep(_ context.Context, now time.Time, lockout time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, rec := range s.records {
		if rec.IsStaleAt(now, lockout) {
			delete(s.records, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of tracked users.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
