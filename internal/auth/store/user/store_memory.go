package user

import (
	"context"
	"sync"

	"lotolink/internal/auth/models"
	id "lotolink/pkg/domain"
)

// InMemoryUserStore keeps users in a map with phone and OAuth identity
// indexes. All lookups return copies.
type InMemoryUserStore struct {
	mu         sync.RWMutex
	users      map[id.UserID]*models.User
	byPhone    map[string]id.UserID
	byIdentity map[string]id.UserID
}

func New() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:      make(map[id.UserID]*models.User),
		byPhone:    make(map[string]id.UserID),
		byIdentity: make(map[string]id.UserID),
	}
}

func identityKey(provider, subject string) string {
	return provider + "\x00" + subject
}

func (s *InMemoryUserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byPhone[u.Phone]; ok {
		return ErrPhoneTaken
	}
	var key string
	if u.OAuthProvider != "" {
		key = identityKey(u.OAuthProvider, u.OAuthSubject)
		if _, ok := s.byIdentity[key]; ok {
			return ErrIdentityTaken
		}
	}
	s.users[u.ID] = u.Clone()
	s.byPhone[u.Phone] = u.ID
	if key != "" {
		s.byIdentity[key] = u.ID
	}
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

func (s *InMemoryUserStore) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byPhone[phone]
	if !ok {
		return nil, ErrNotFound
	}
	return s.users[userID].Clone(), nil
}

func (s *InMemoryUserStore) FindByOAuth(_ context.Context, provider, subject string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byIdentity[identityKey(provider, subject)]
	if !ok {
		return nil, ErrNotFound
	}
	return s.users[userID].Clone(), nil
}
