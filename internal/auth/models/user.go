package models

import (
	"time"

	id "lotolink/pkg/domain"
	dErrors "lotolink/pkg/domain-errors"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is an account that can sign in with a password, an OAuth identity,
// or both. Phone is unique across users.
type User struct {
	ID            id.UserID
	Phone         string
	Email         string
	Name          string
	PasswordHash  string
	Role          Role
	DateOfBirth   *time.Time
	OAuthProvider string
	OAuthSubject  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewUser(userID id.UserID, phone string, role Role, now time.Time) (*User, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user id is required")
	}
	if phone == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "phone is required")
	}
	if !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid role")
	}
	return &User{ID: userID, Phone: phone, Role: role, CreatedAt: now, UpdatedAt: now}, nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// LinkOAuth records the provider identity the user signed up with.
func (u *User) LinkOAuth(provider, subject string) {
	u.OAuthProvider = provider
	u.OAuthSubject = subject
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.DateOfBirth != nil {
		dob := *u.DateOfBirth
		c.DateOfBirth = &dob
	}
	return &c
}
