package store

import (
	"context"
	"sort"
	"sync"

	"lotolink/internal/sucursal/models"
	id "lotolink/pkg/domain"
)

// InMemoryStore keeps Sucursales in a map guarded by a single mutex.
type InMemoryStore struct {
	mu         sync.RWMutex
	sucursales map[id.SucursalID]*models.Sucursal
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sucursales: make(map[id.SucursalID]*models.Sucursal)}
}

func (s *InMemoryStore) codeTakenLocked(sucursal *models.Sucursal) bool {
	for otherID, other := range s.sucursales {
		if otherID != sucursal.ID && other.BancaID == sucursal.BancaID && other.Code == sucursal.Code {
			return true
		}
	}
	return false
}

func (s *InMemoryStore) Create(_ context.Context, sucursal *models.Sucursal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codeTakenLocked(sucursal) {
		return ErrCodeTaken
	}
	s.sucursales[sucursal.ID] = sucursal.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, sucursalID id.SucursalID) (*models.Sucursal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	found, ok := s.sucursales[sucursalID]
	if !ok {
		return nil, ErrNotFound
	}
	return found.Clone(), nil
}

// ListByBanca returns the Banca's branches ordered by code.
func (s *InMemoryStore) ListByBanca(_ context.Context, bancaID id.BancaID) ([]*models.Sucursal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Sucursal, 0)
	for _, sucursal := range s.sucursales {
		if sucursal.BancaID == bancaID {
			out = append(out, sucursal.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// Execute runs validate and mutate on a copy under the write lock and
// commits it if the (banca, code) pair is still unique.
func (s *InMemoryStore) Execute(_ context.Context, sucursalID id.SucursalID, validate func(*models.Sucursal) error, mutate func(*models.Sucursal)) (*models.Sucursal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.sucursales[sucursalID]
	if !ok {
		return nil, ErrNotFound
	}
	working := current.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	if s.codeTakenLocked(working) {
		return nil, ErrCodeTaken
	}
	s.sucursales[sucursalID] = working
	return working.Clone(), nil
}

func (s *InMemoryStore) Delete(_ context.Context, sucursalID id.SucursalID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sucursales[sucursalID]; !ok {
		return ErrNotFound
	}
	delete(s.sucursales, sucursalID)
	return nil
}
