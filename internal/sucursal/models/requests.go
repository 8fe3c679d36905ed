package models

import (
	"strings"
	"time"

	dErrors "lotolink/pkg/domain-errors"
	"lotolink/pkg/platform/validation"
)

type CreateSucursalRequest struct {
	Name           string             `json:"name" validate:"required,max=128"`
	Code           string             `json:"code" validate:"required,max=32"`
	Address        string             `json:"address" validate:"max=256"`
	City           string             `json:"city" validate:"max=128"`
	Phone          string             `json:"phone" validate:"omitempty,phone"`
	OperatorPrefix string             `json:"operator_prefix" validate:"max=16"`
	TicketConfig   *TicketConfigPatch `json:"ticket_config"`
}

func (r *CreateSucursalRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Code = strings.TrimSpace(r.Code)
	r.Address = strings.TrimSpace(r.Address)
	r.City = strings.TrimSpace(r.City)
	r.Phone = strings.TrimSpace(r.Phone)
	r.OperatorPrefix = strings.TrimSpace(r.OperatorPrefix)
}

func (r *CreateSucursalRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.TicketConfig != nil {
		return validation.Struct(r.TicketConfig)
	}
	return nil
}

// UpdateSucursalRequest is a partial update. A nil field is left untouched;
// an empty string clears an optional field.
type UpdateSucursalRequest struct {
	Name           *string `json:"name" validate:"omitempty,max=128"`
	Code           *string `json:"code" validate:"omitempty,max=32"`
	Address        *string `json:"address" validate:"omitempty,max=256"`
	City           *string `json:"city" validate:"omitempty,max=128"`
	Phone          *string `json:"phone" validate:"omitempty,max=20"`
	OperatorPrefix *string `json:"operator_prefix" validate:"omitempty,max=16"`
}

func (r *UpdateSucursalRequest) Normalize() {
	if r == nil {
		return
	}
	for _, f := range []*string{r.Name, r.Code, r.Address, r.City, r.Phone, r.OperatorPrefix} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

func (r *UpdateSucursalRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Name != nil && *r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name cannot be empty")
	}
	if r.Code != nil && *r.Code == "" {
		return dErrors.New(dErrors.CodeValidation, "code cannot be empty")
	}
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.Phone != nil && *r.Phone != "" {
		return validation.Var("phone", *r.Phone, "phone")
	}
	return nil
}

// Apply merges the provided fields into s and bumps UpdatedAt.
func (r *UpdateSucursalRequest) Apply(s *Sucursal, now time.Time) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.Name, r.Name)
	set(&s.Code, r.Code)
	set(&s.Address, r.Address)
	set(&s.City, r.City)
	set(&s.Phone, r.Phone)
	set(&s.OperatorPrefix, r.OperatorPrefix)
	s.UpdatedAt = now
}

// UpdateTicketConfigRequest is the body of PATCH /sucursales/{id}/ticket-config.
type UpdateTicketConfigRequest struct {
	TicketConfigPatch
}

func (r *UpdateTicketConfigRequest) Normalize() {
	if r == nil {
		return
	}
	if r.HeaderLogo != nil {
		*r.HeaderLogo = strings.TrimSpace(*r.HeaderLogo)
	}
	if r.FooterText != nil {
		*r.FooterText = strings.TrimSpace(*r.FooterText)
	}
}

func (r *UpdateTicketConfigRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return validation.Struct(&r.TicketConfigPatch)
}
