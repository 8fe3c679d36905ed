package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	dErrors "lotolink/pkg/domain-errors"
	"lotolink/pkg/platform/validation"
)

var hundred = decimal.NewFromInt(100)

// CreateBancaRequest is the payload for registering a new Banca.
type CreateBancaRequest struct {
	Name                      string           `json:"name" validate:"required,max=128"`
	Email                     string           `json:"email" validate:"required,email,max=254"`
	RNC                       string           `json:"rnc" validate:"max=32"`
	Address                   string           `json:"address" validate:"max=256"`
	Phone                     string           `json:"phone" validate:"omitempty,phone"`
	IntegrationType           string           `json:"integration_type" validate:"required,oneof=api white_label middleware"`
	AuthType                  string           `json:"auth_type" validate:"omitempty,oneof=oauth2 hmac mtls none"`
	Endpoint                  string           `json:"endpoint" validate:"omitempty,http_url,max=2048"`
	CommissionPercentage      *decimal.Decimal `json:"commission_percentage"`
	CommissionStripeAccountID string           `json:"commission_stripe_account_id" validate:"max=128"`
	CardProcessingAccountID   string           `json:"card_processing_account_id" validate:"max=128"`
	SlaMs                     *int             `json:"sla_ms" validate:"omitempty,gt=0,lte=600000"`
}

func (r *CreateBancaRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.RNC = strings.TrimSpace(r.RNC)
	r.Address = strings.TrimSpace(r.Address)
	r.Phone = strings.TrimSpace(r.Phone)
	r.IntegrationType = strings.ToLower(strings.TrimSpace(r.IntegrationType))
	r.AuthType = strings.ToLower(strings.TrimSpace(r.AuthType))
	r.Endpoint = strings.TrimSpace(r.Endpoint)
	r.CommissionStripeAccountID = strings.TrimSpace(r.CommissionStripeAccountID)
	r.CardProcessingAccountID = strings.TrimSpace(r.CardProcessingAccountID)
}

func (r *CreateBancaRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := validation.Struct(r); err != nil {
		return err
	}
	return validateCommission(r.CommissionPercentage)
}

// UpdateBancaRequest is a partial update. A nil field is left untouched;
// an empty string clears an optional field. Name, email, integration type
// and auth type cannot be cleared.
type UpdateBancaRequest struct {
	Name                      *string          `json:"name" validate:"omitempty,max=128"`
	Email                     *string          `json:"email" validate:"omitempty,email,max=254"`
	RNC                       *string          `json:"rnc" validate:"omitempty,max=32"`
	Address                   *string          `json:"address" validate:"omitempty,max=256"`
	Phone                     *string          `json:"phone" validate:"omitempty,max=20"`
	IntegrationType           *string          `json:"integration_type" validate:"omitempty,oneof=api white_label middleware"`
	AuthType                  *string          `json:"auth_type" validate:"omitempty,oneof=oauth2 hmac mtls none"`
	Endpoint                  *string          `json:"endpoint" validate:"omitempty,max=2048"`
	CommissionPercentage      *decimal.Decimal `json:"commission_percentage"`
	CommissionStripeAccountID *string          `json:"commission_stripe_account_id" validate:"omitempty,max=128"`
	CardProcessingAccountID   *string          `json:"card_processing_account_id" validate:"omitempty,max=128"`
	SlaMs                     *int             `json:"sla_ms" validate:"omitempty,gt=0,lte=600000"`
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func (r *UpdateBancaRequest) Normalize() {
	if r == nil {
		return
	}
	for _, f := range []*string{r.Name, r.RNC, r.Address, r.Phone, r.Endpoint, r.CommissionStripeAccountID, r.CardProcessingAccountID} {
		trimPtr(f)
	}
	if r.Email != nil {
		*r.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.IntegrationType != nil {
		*r.IntegrationType = strings.ToLower(strings.TrimSpace(*r.IntegrationType))
	}
	if r.AuthType != nil {
		*r.AuthType = strings.ToLower(strings.TrimSpace(*r.AuthType))
	}
}

func (r *UpdateBancaRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Name != nil && *r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name cannot be empty")
	}
	if r.Email != nil && *r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email cannot be empty")
	}
	if r.IntegrationType != nil && *r.IntegrationType == "" {
		return dErrors.New(dErrors.CodeValidation, "integration_type cannot be empty")
	}
	if r.AuthType != nil && *r.AuthType == "" {
		return dErrors.New(dErrors.CodeValidation, "auth_type cannot be empty")
	}
	if err := validation.Struct(r); err != nil {
		return err
	}
	// Empty strings clear these fields, so formats are only checked when set.
	if r.Phone != nil && *r.Phone != "" {
		if err := validation.Var("phone", *r.Phone, "phone"); err != nil {
			return err
		}
	}
	if r.Endpoint != nil && *r.Endpoint != "" {
		if err := validation.Var("endpoint", *r.Endpoint, "http_url"); err != nil {
			return err
		}
	}
	return validateCommission(r.CommissionPercentage)
}

// Apply merges the provided fields into b and bumps UpdatedAt.
func (r *UpdateBancaRequest) Apply(b *Banca, now time.Time) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&b.Name, r.Name)
	set(&b.Email, r.Email)
	set(&b.RNC, r.RNC)
	set(&b.Address, r.Address)
	set(&b.Phone, r.Phone)
	set(&b.Endpoint, r.Endpoint)
	set(&b.CommissionStripeAccountID, r.CommissionStripeAccountID)
	set(&b.CardProcessingAccountID, r.CardProcessingAccountID)
	if r.IntegrationType != nil {
		b.IntegrationType = IntegrationType(*r.IntegrationType)
	}
	if r.AuthType != nil {
		b.AuthType = AuthType(*r.AuthType)
	}
	if r.CommissionPercentage != nil {
		b.CommissionPercentage = decimal.NewNullDecimal(*r.CommissionPercentage)
	}
	if r.SlaMs != nil {
		b.SlaMs = *r.SlaMs
	}
	b.UpdatedAt = now
}

// ApproveBancaRequest optionally sets the integration endpoint on approval.
type ApproveBancaRequest struct {
	Endpoint string `json:"endpoint" validate:"omitempty,http_url,max=2048"`
}

func (r *ApproveBancaRequest) Normalize() {
	if r != nil {
		r.Endpoint = strings.TrimSpace(r.Endpoint)
	}
}

func (r *ApproveBancaRequest) Validate() error {
	if r == nil {
		return nil
	}
	return validation.Struct(r)
}

func validateCommission(pct *decimal.Decimal) error {
	if pct == nil {
		return nil
	}
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return dErrors.New(dErrors.CodeValidation, "commission_percentage must be between 0 and 100")
	}
	return nil
}
