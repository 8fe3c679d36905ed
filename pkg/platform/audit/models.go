package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events for routing and retention.
type EventCategory string

const (
	// CategoryCompliance covers partner onboarding and account creation.
	CategoryCompliance EventCategory = "compliance"
	// CategorySecurity covers authentication failures, lockouts and credential changes.
	CategorySecurity EventCategory = "security"
	// CategoryOperations covers routine activity such as token issuance.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from services to capture key actions. It is
// transport-agnostic so sinks (memory, Kafka) can fan it out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	// Subject is the entity acted upon: a banca, sucursal or user id.
	Subject string `json:"subject"`
	Action  string `json:"action"`
	// ActorID is the authenticated user who performed the action, when known.
	ActorID   string `json:"actor_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
	Device    string `json:"device,omitempty"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

type AuditEvent string

const (
	// Banca lifecycle
	EventBancaCreated            AuditEvent = "banca_created"
	EventBancaUpdated            AuditEvent = "banca_updated"
	EventBancaApproved           AuditEvent = "banca_approved"
	EventBancaRejected           AuditEvent = "banca_rejected"
	EventBancaSuspended          AuditEvent = "banca_suspended"
	EventBancaActivated          AuditEvent = "banca_activated"
	EventBancaDeactivated        AuditEvent = "banca_deactivated"
	EventBancaCredentialsRotated AuditEvent = "banca_credentials_rotated"
	EventBancaClientAuthFailed   AuditEvent = "banca_client_auth_failed"

	// Sucursal management
	EventSucursalCreated     AuditEvent = "sucursal_created"
	EventSucursalUpdated     AuditEvent = "sucursal_updated"
	EventSucursalActivated   AuditEvent = "sucursal_activated"
	EventSucursalDeactivated AuditEvent = "sucursal_deactivated"
	EventSucursalDeleted     AuditEvent = "sucursal_deleted"
	EventTicketConfigUpdated AuditEvent = "sucursal_ticket_config_updated"

	// Authentication
	EventUserRegistered   AuditEvent = "user_registered"
	EventAdminCreated     AuditEvent = "admin_created"
	EventLoginSucceeded   AuditEvent = "login_succeeded"
	EventLoginFailed      AuditEvent = "login_failed"
	EventAdminElevated    AuditEvent = "admin_elevated"
	EventOAuthLogin       AuditEvent = "oauth_login"
	EventTokenRefreshed   AuditEvent = "token_refreshed"
	EventAdminCodeLocked  AuditEvent = "admin_code_lockout_triggered"
	EventAdminCodeCleared AuditEvent = "admin_code_attempts_cleared"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventBancaCreated:   CategoryCompliance,
	EventBancaApproved:  CategoryCompliance,
	EventBancaRejected:  CategoryCompliance,
	EventUserRegistered: CategoryCompliance,
	EventAdminCreated:   CategoryCompliance,

	EventBancaSuspended:          CategorySecurity,
	EventBancaDeactivated:        CategorySecurity,
	EventBancaCredentialsRotated: CategorySecurity,
	EventBancaClientAuthFailed:   CategorySecurity,
	EventLoginFailed:             CategorySecurity,
	EventAdminElevated:           CategorySecurity,
	EventAdminCodeLocked:         CategorySecurity,
	EventAdminCodeCleared:        CategorySecurity,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
