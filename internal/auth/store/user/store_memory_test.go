package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"lotolink/internal/auth/models"
	id "lotolink/pkg/domain"
	"lotolink/pkg/platform/sentinel"
)

type InMemoryUserStoreSuite struct {
	suite.Suite
	store *InMemoryUserStore
	ctx   context.Context
}

func TestInMemoryUserStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryUserStoreSuite))
}

func (s *InMemoryUserStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func newUser(phone string) *models.User {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	dob := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	return &models.User{
		ID:          id.UserID(uuid.New()),
		Phone:       phone,
		Email:       "jane.doe@example.com",
		Role:        models.RoleUser,
		DateOfBirth: &dob,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *InMemoryUserStoreSuite) TestLookup() {
	u := newUser("+18095550101")
	u.LinkOAuth("google", "g-1")
	s.Require().NoError(s.store.Create(s.ctx, u))

	s.Run("by id", func() {
		found, err := s.store.FindByID(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Equal(u, found)
	})

	s.Run("by phone", func() {
		found, err := s.store.FindByPhone(s.ctx, u.Phone)
		s.Require().NoError(err)
		s.Equal(u.ID, found.ID)
	})

	s.Run("by oauth identity", func() {
		found, err := s.store.FindByOAuth(s.ctx, "google", "g-1")
		s.Require().NoError(err)
		s.Equal(u.ID, found.ID)

		_, err = s.store.FindByOAuth(s.ctx, "apple", "g-1")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("missing id", func() {
		_, err := s.store.FindByID(s.ctx, id.UserID(uuid.New()))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryUserStoreSuite) TestUniqueness() {
	first := newUser("+18095550102")
	first.LinkOAuth("apple", "a-1")
	s.Require().NoError(s.store.Create(s.ctx, first))

	err := s.store.Create(s.ctx, newUser("+18095550102"))
	s.Require().ErrorIs(err, ErrPhoneTaken)
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)

	other := newUser("+18095550103")
	other.LinkOAuth("apple", "a-1")
	s.Require().ErrorIs(s.store.Create(s.ctx, other), ErrIdentityTaken)

	_, err = s.store.FindByPhone(s.ctx, "+18095550103")
	s.Require().ErrorIs(err, ErrNotFound, "failed create must not leave a phone index entry")
}

func (s *InMemoryUserStoreSuite) TestReturnsDetachedCopies() {
	u := newUser("+18095550104")
	s.Require().NoError(s.store.Create(s.ctx, u))

	found, err := s.store.FindByID(s.ctx, u.ID)
	s.Require().NoError(err)
	found.Role = models.RoleAdmin
	*found.DateOfBirth = time.Time{}

	again, err := s.store.FindByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(models.RoleUser, again.Role)
	s.False(again.DateOfBirth.IsZero())
}
