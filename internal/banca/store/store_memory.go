package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"lotolink/internal/banca/models"
	id "lotolink/pkg/domain"
	"lotolink/pkg/platform/sentinel"
)

// InMemoryStore keeps Bancas in a map guarded by a single mutex.
type InMemoryStore struct {
	mu     sync.RWMutex
	bancas map[id.BancaID]*models.Banca
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{bancas: make(map[id.BancaID]*models.Banca)}
}

func clone(b *models.Banca) *models.Banca {
	c := *b
	return &c
}

// conflictLocked reports a uniqueness clash with any Banca other than b.
func (s *InMemoryStore) conflictLocked(b *models.Banca) error {
	for otherID, other := range s.bancas {
		if otherID == b.ID {
			continue
		}
		if strings.EqualFold(other.Name, b.Name) {
			return ErrNameTaken
		}
	}
	for otherID, other := range s.bancas {
		if otherID == b.ID {
			continue
		}
		if strings.EqualFold(other.Email, b.Email) {
			return ErrEmailTaken
		}
	}
	return nil
}

func (s *InMemoryStore) Create(_ context.Context, b *models.Banca) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bancas[b.ID]; exists {
		return fmt.Errorf("banca %s: %w", b.ID, sentinel.ErrAlreadyUsed)
	}
	if err := s.conflictLocked(b); err != nil {
		return err
	}
	s.bancas[b.ID] = clone(b)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, bancaID id.BancaID) (*models.Banca, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bancas[bancaID]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(b), nil
}

func (s *InMemoryStore) FindByClientID(_ context.Context, clientID string) (*models.Banca, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bancas {
		if b.ClientID != "" && b.ClientID == clientID {
			return clone(b), nil
		}
	}
	return nil, ErrNotFound
}

// List returns Bancas newest first. A nil status matches every status.
func (s *InMemoryStore) List(_ context.Context, filter ListFilter) ([]*models.Banca, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Banca, 0, len(s.bancas))
	for _, b := range s.bancas {
		if filter.ActiveOnly && !b.IsActive {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		out = append(out, clone(b))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Execute runs validate and mutate on a copy while holding the write lock,
// then commits the copy if it still satisfies uniqueness.
func (s *InMemoryStore) Execute(_ context.Context, bancaID id.BancaID, validate func(*models.Banca) error, mutate func(*models.Banca)) (*models.Banca, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.bancas[bancaID]
	if !ok {
		return nil, ErrNotFound
	}
	working := clone(current)
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	if err := s.conflictLocked(working); err != nil {
		return nil, err
	}
	s.bancas[bancaID] = working
	return clone(working), nil
}
