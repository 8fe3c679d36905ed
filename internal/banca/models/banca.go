package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	id "lotolink/pkg/domain"
	dErrors "lotolink/pkg/domain-errors"
)

// Status is the lifecycle state of a Banca.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusActive, StatusSuspended:
		return true
	}
	return false
}

// ParseStatus parses a lowercase status name.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "status must be one of [pending approved rejected active suspended]")
	}
	return s, nil
}

// IntegrationType describes how a Banca connects to the platform.
type IntegrationType string

const (
	IntegrationAPI        IntegrationType = "api"
	IntegrationWhiteLabel IntegrationType = "white_label"
	IntegrationMiddleware IntegrationType = "middleware"
)

func (t IntegrationType) IsValid() bool {
	switch t {
	case IntegrationAPI, IntegrationWhiteLabel, IntegrationMiddleware:
		return true
	}
	return false
}

// AuthType is the scheme a Banca integration uses to authenticate its calls.
type AuthType string

const (
	AuthOAuth2 AuthType = "oauth2"
	AuthHMAC   AuthType = "hmac"
	AuthMTLS   AuthType = "mtls"
	AuthNone   AuthType = "none"
)

func (t AuthType) IsValid() bool {
	switch t {
	case AuthOAuth2, AuthHMAC, AuthMTLS, AuthNone:
		return true
	}
	return false
}

// DefaultSlaMs is the response-time commitment assigned to new Bancas.
const DefaultSlaMs = 5000

// Banca is the aggregate root for a lottery-agent partner.
//
// Invariants:
//   - Name and Email are unique across all Bancas (case-insensitive, enforced by the store)
//   - ClientID, ClientSecretHash and HMACSecret are empty while Status is pending
//   - Approve and Reject are only valid from pending
//   - IsActive is an independent override: Activate and Deactivate flip it
//     without touching Status, so a suspended Banca can be active
//   - CreatedAt is immutable; UpdatedAt moves on every mutation
type Banca struct {
	ID                        id.BancaID          `json:"id"`
	Name                      string              `json:"name"`
	Email                     string              `json:"email"`
	RNC                       string              `json:"rnc,omitempty"`
	Address                   string              `json:"address,omitempty"`
	Phone                     string              `json:"phone,omitempty"`
	IntegrationType           IntegrationType     `json:"integration_type"`
	AuthType                  AuthType            `json:"auth_type"`
	Endpoint                  string              `json:"endpoint,omitempty"`
	ClientID                  string              `json:"client_id,omitempty"`
	ClientSecretHash          string              `json:"-"`
	HMACSecret                string              `json:"-"`
	Status                    Status              `json:"status"`
	IsActive                  bool                `json:"is_active"`
	CommissionPercentage      decimal.NullDecimal `json:"commission_percentage"`
	CommissionStripeAccountID string              `json:"commission_stripe_account_id,omitempty"`
	CardProcessingAccountID   string              `json:"card_processing_account_id,omitempty"`
	SlaMs                     int                 `json:"sla_ms"`
	CreatedAt                 time.Time           `json:"created_at"`
	UpdatedAt                 time.Time           `json:"updated_at"`
}

// NewBanca builds a pending, inactive Banca. An empty authType defaults to hmac.
func NewBanca(bancaID id.BancaID, name, email string, integration IntegrationType, authType AuthType, now time.Time) (*Banca, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "banca name cannot be empty")
	}
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "banca email cannot be empty")
	}
	if !integration.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid integration type")
	}
	if authType == "" {
		authType = AuthHMAC
	}
	if !authType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid auth type")
	}
	return &Banca{
		ID:              bancaID,
		Name:            name,
		Email:           email,
		IntegrationType: integration,
		AuthType:        authType,
		Status:          StatusPending,
		IsActive:        false,
		SlaMs:           DefaultSlaMs,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (b *Banca) HasCredentials() bool {
	return b.ClientID != ""
}

// CanApprove reports whether the Banca may be approved.
func (b *Banca) CanApprove() error {
	if b.Status != StatusPending {
		return dErrors.New(dErrors.CodeInvariantViolation, "banca is not in pending status")
	}
	return nil
}

// ApplyApproval stores the issued credentials and activates the Banca.
// Approved is never observable: approval and activation happen in one step.
// Must only be called after CanApprove returns nil.
func (b *Banca) ApplyApproval(clientID, secretHash, hmacSecret, endpoint string, now time.Time) {
	b.ClientID = clientID
	b.ClientSecretHash = secretHash
	b.HMACSecret = hmacSecret
	if endpoint != "" {
		b.Endpoint = endpoint
	}
	b.Status = StatusActive
	b.IsActive = true
	b.UpdatedAt = now
}

// CanReject reports whether the Banca may be rejected.
func (b *Banca) CanReject() error {
	if b.Status != StatusPending {
		return dErrors.New(dErrors.CodeInvariantViolation, "banca is not in pending status")
	}
	return nil
}

func (b *Banca) ApplyRejection(now time.Time) {
	b.Status = StatusRejected
	b.IsActive = false
	b.UpdatedAt = now
}

// ApplySuspension is valid from any status.
func (b *Banca) ApplySuspension(now time.Time) {
	b.Status = StatusSuspended
	b.IsActive = false
	b.UpdatedAt = now
}

// ApplyActivation sets the IsActive override. Status is left as is.
func (b *Banca) ApplyActivation(now time.Time) {
	b.IsActive = true
	b.UpdatedAt = now
}

// ApplyDeactivation clears the IsActive override. Status is left as is.
func (b *Banca) ApplyDeactivation(now time.Time) {
	b.IsActive = false
	b.UpdatedAt = now
}

// CanRotateCredentials requires credentials to have been issued before.
func (b *Banca) CanRotateCredentials() error {
	if !b.HasCredentials() {
		return dErrors.New(dErrors.CodeInvariantViolation, "banca has no issued credentials")
	}
	if b.Status != StatusActive && b.Status != StatusSuspended {
		return dErrors.New(dErrors.CodeInvariantViolation, "banca credentials cannot be rotated in status "+string(b.Status))
	}
	return nil
}

func (b *Banca) ApplyCredentialRotation(clientID, secretHash, hmacSecret string, now time.Time) {
	b.ClientID = clientID
	b.ClientSecretHash = secretHash
	b.HMACSecret = hmacSecret
	b.UpdatedAt = now
}

// CanServeClients reports whether integration calls from this Banca are accepted.
func (b *Banca) CanServeClients() bool {
	return b.IsActive && b.Status == StatusActive
}
