package models

import (
	"strings"

	dErrors "lotolink/pkg/domain-errors"
	"lotolink/pkg/email"
	"lotolink/pkg/platform/validation"
)

type RegisterRequest struct {
	Phone       string `json:"phone" validate:"required,phone"`
	Email       string `json:"email" validate:"omitempty,email,max=254"`
	Name        string `json:"name" validate:"max=128"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	DateOfBirth string `json:"date_of_birth" validate:"required"`
}

func (r *RegisterRequest) Normalize() {
	if r == nil {
		return
	}
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = email.Normalize(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	r.DateOfBirth = strings.TrimSpace(r.DateOfBirth)
}

func (r *RegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return validation.Struct(r)
}

// LoginRequest signs a user in by phone. AdminCode, when present, asks for
// an admin-elevated session.
type LoginRequest struct {
	Phone     string `json:"phone" validate:"required"`
	Password  string `json:"password" validate:"required"`
	AdminCode string `json:"admin_code" validate:"max=64"`
}

func (r *LoginRequest) Normalize() {
	if r == nil {
		return
	}
	r.Phone = strings.TrimSpace(r.Phone)
	r.AdminCode = strings.TrimSpace(r.AdminCode)
}

func (r *LoginRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return validation.Struct(r)
}

// OAuthLoginRequest signs in with a provider token. Phone and date of birth
// are only required the first time a provider identity is seen.
type OAuthLoginRequest struct {
	Provider    string `json:"provider" validate:"required,oneof=google apple facebook"`
	Token       string `json:"token" validate:"required"`
	Phone       string `json:"phone" validate:"omitempty,phone"`
	DateOfBirth string `json:"date_of_birth"`
}

func (r *OAuthLoginRequest) Normalize() {
	if r == nil {
		return
	}
	r.Provider = strings.ToLower(strings.TrimSpace(r.Provider))
	r.Token = strings.TrimSpace(r.Token)
	r.Phone = strings.TrimSpace(r.Phone)
	r.DateOfBirth = strings.TrimSpace(r.DateOfBirth)
}

func (r *OAuthLoginRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return validation.Struct(r)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (r *RefreshRequest) Normalize() {
	if r != nil {
		r.RefreshToken = strings.TrimSpace(r.RefreshToken)
	}
}

func (r *RefreshRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return validation.Struct(r)
}

type AdminLoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *AdminLoginRequest) Normalize() {
	if r != nil {
		r.Phone = strings.TrimSpace(r.Phone)
	}
}

func (r *AdminLoginRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return validation.Struct(r)
}

// CreateAdminRequest registers a new admin account. Admins skip age checks.
type CreateAdminRequest struct {
	Phone    string `json:"phone" validate:"required,phone"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Name     string `json:"name" validate:"max=128"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

func (r *CreateAdminRequest) Normalize() {
	if r == nil {
		return
	}
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = email.Normalize(r.Email)
	r.Name = strings.TrimSpace(r.Name)
}

func (r *CreateAdminRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return validation.Struct(r)
}
