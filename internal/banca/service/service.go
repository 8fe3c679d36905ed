package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"lotolink/internal/banca/credentials"
	"lotolink/internal/banca/metrics"
	"lotolink/internal/banca/models"
	"lotolink/internal/banca/store"
	"lotolink/pkg/attrs"
	id "lotolink/pkg/domain"
	dErrors "lotolink/pkg/domain-errors"
	"lotolink/pkg/platform/audit"
	"lotolink/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// Store is the persistence contract for Bancas.
type Store interface {
	Create(ctx context.Context, b *models.Banca) error
	FindByID(ctx context.Context, bancaID id.BancaID) (*models.Banca, error)
	FindByClientID(ctx context.Context, clientID string) (*models.Banca, error)
	List(ctx context.Context, filter store.ListFilter) ([]*models.Banca, error)
	Execute(ctx context.Context, bancaID id.BancaID, validate func(*models.Banca) error, mutate func(*models.Banca)) (*models.Banca, error)
}

// CredentialGenerator issues client credential triples.
type CredentialGenerator interface {
	Generate() (credentials.Credentials, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// IssuedCredentials pairs a Banca with the plaintext credentials issued to it.
// The secrets are not retrievable afterwards.
type IssuedCredentials struct {
	Banca       *models.Banca
	Credentials credentials.Credentials
}

// Service drives the Banca lifecycle.
type Service struct {
	bancas         Store
	generator      CredentialGenerator
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCredentialGenerator replaces the crypto/rand backed generator.
func WithCredentialGenerator(g CredentialGenerator) Option {
	return func(s *Service) {
		s.generator = g
	}
}

// New constructs a Service.
func New(bancas Store, opts ...Option) *Service {
	s := &Service{bancas: bancas, generator: credentials.NewGenerator()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBanca registers a new pending Banca.
func (s *Service) CreateBanca(ctx context.Context, req *models.CreateBancaRequest) (*models.Banca, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b, err := models.NewBanca(id.BancaID(uuid.New()), req.Name, req.Email,
		models.IntegrationType(req.IntegrationType), models.AuthType(req.AuthType), requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}
	b.RNC = req.RNC
	b.Address = req.Address
	b.Phone = req.Phone
	b.Endpoint = req.Endpoint
	b.CommissionStripeAccountID = req.CommissionStripeAccountID
	b.CardProcessingAccountID = req.CardProcessingAccountID
	if req.CommissionPercentage != nil {
		b.CommissionPercentage.Decimal = *req.CommissionPercentage
		b.CommissionPercentage.Valid = true
	}
	if req.SlaMs != nil {
		b.SlaMs = *req.SlaMs
	}

	if err := s.bancas.Create(ctx, b); err != nil {
		return nil, wrapBancaErr(err, "failed to create banca")
	}

	s.logAudit(ctx, audit.EventBancaCreated, "banca_id", b.ID, "name", b.Name)
	if s.metrics != nil {
		s.metrics.IncrementCreated()
	}
	return b, nil
}

func (s *Service) GetBancaByID(ctx context.Context, bancaID id.BancaID) (*models.Banca, error) {
	b, err := s.bancas.FindByID(ctx, bancaID)
	if err != nil {
		return nil, wrapBancaErr(err, "failed to load banca")
	}
	return b, nil
}

// GetAllBancas lists Bancas newest first, optionally only those with IsActive set.
func (s *Service) GetAllBancas(ctx context.Context, activeOnly bool) ([]*models.Banca, error) {
	list, err := s.bancas.List(ctx, store.ListFilter{ActiveOnly: activeOnly})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list bancas")
	}
	return list, nil
}

func (s *Service) GetBancasByStatus(ctx context.Context, status models.Status) ([]*models.Banca, error) {
	if !status.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid banca status")
	}
	list, err := s.bancas.List(ctx, store.ListFilter{Status: &status})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list bancas")
	}
	return list, nil
}

// UpdateBanca merges the provided fields. Renames and email changes are
// re-checked for uniqueness by the store.
func (s *Service) UpdateBanca(ctx context.Context, bancaID id.BancaID, req *models.UpdateBancaRequest) (*models.Banca, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	b, err := s.bancas.Execute(ctx, bancaID,
		func(*models.Banca) error { return nil },
		func(b *models.Banca) { req.Apply(b, now) },
	)
	if err != nil {
		return nil, wrapBancaErr(err, "failed to update banca")
	}
	s.logAudit(ctx, audit.EventBancaUpdated, "banca_id", b.ID)
	return b, nil
}

// ApproveBanca issues credentials and activates a pending Banca.
// Only one of several concurrent approvals can succeed.
func (s *Service) ApproveBanca(ctx context.Context, bancaID id.BancaID, endpoint string) (*IssuedCredentials, error) {
	start := time.Now()
	creds, hash, err := s.issue()
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	b, err := s.bancas.Execute(ctx, bancaID,
		func(b *models.Banca) error { return b.CanApprove() },
		func(b *models.Banca) {
			b.ApplyApproval(creds.ClientID, hash, creds.HMACSecret, strings.TrimSpace(endpoint), now)
		},
	)
	if err != nil {
		return nil, wrapBancaErr(err, "failed to approve banca")
	}

	s.logAudit(ctx, audit.EventBancaApproved, "banca_id", b.ID, "client_id", creds.ClientID)
	if s.metrics != nil {
		s.metrics.IncrementTransition("approve")
		s.metrics.ObserveApprove(start)
	}
	return &IssuedCredentials{Banca: b, Credentials: creds}, nil
}

func (s *Service) RejectBanca(ctx context.Context, bancaID id.BancaID) (*models.Banca, error) {
	now := requestcontext.Now(ctx)
	return s.transition(ctx, bancaID, "reject", audit.EventBancaRejected,
		func(b *models.Banca) error { return b.CanReject() },
		func(b *models.Banca) { b.ApplyRejection(now) },
	)
}

// SuspendBanca is an emergency override valid from any status.
func (s *Service) SuspendBanca(ctx context.Context, bancaID id.BancaID) (*models.Banca, error) {
	now := requestcontext.Now(ctx)
	return s.transition(ctx, bancaID, "suspend", audit.EventBancaSuspended,
		func(*models.Banca) error { return nil },
		func(b *models.Banca) { b.ApplySuspension(now) },
	)
}

// ActivateBanca sets IsActive without changing Status. A suspended Banca
// stays suspended.
func (s *Service) ActivateBanca(ctx context.Context, bancaID id.BancaID) (*models.Banca, error) {
	now := requestcontext.Now(ctx)
	return s.transition(ctx, bancaID, "activate", audit.EventBancaActivated,
		func(*models.Banca) error { return nil },
		func(b *models.Banca) { b.ApplyActivation(now) },
	)
}

// DeactivateBanca clears IsActive without changing Status.
func (s *Service) DeactivateBanca(ctx context.Context, bancaID id.BancaID) (*models.Banca, error) {
	now := requestcontext.Now(ctx)
	return s.transition(ctx, bancaID, "deactivate", audit.EventBancaDeactivated,
		func(*models.Banca) error { return nil },
		func(b *models.Banca) { b.ApplyDeactivation(now) },
	)
}

// RotateCredentials replaces the credential triple of a Banca that already
// holds credentials. The previous client id stops resolving immediately.
func (s *Service) RotateCredentials(ctx context.Context, bancaID id.BancaID) (*IssuedCredentials, error) {
	creds, hash, err := s.issue()
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	b, err := s.bancas.Execute(ctx, bancaID,
		func(b *models.Banca) error { return b.CanRotateCredentials() },
		func(b *models.Banca) { b.ApplyCredentialRotation(creds.ClientID, hash, creds.HMACSecret, now) },
	)
	if err != nil {
		return nil, wrapBancaErr(err, "failed to rotate banca credentials")
	}
	s.logAudit(ctx, audit.EventBancaCredentialsRotated, "banca_id", b.ID, "client_id", creds.ClientID)
	if s.metrics != nil {
		s.metrics.IncrementTransition("rotate_credentials")
	}
	return &IssuedCredentials{Banca: b, Credentials: creds}, nil
}

// AuthenticateClient resolves an integration client by its credentials.
// Unknown ids and wrong secrets are indistinguishable to the caller.
func (s *Service) AuthenticateClient(ctx context.Context, clientID, clientSecret string) (*models.Banca, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" || clientSecret == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid client credentials")
	}

	b, err := s.bancas.FindByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.clientAuthFailed(ctx, "", "unknown_client")
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid client credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve client")
	}
	if err := credentials.Verify(clientSecret, b.ClientSecretHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			s.clientAuthFailed(ctx, b.ID.String(), "bad_secret")
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid client credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify client secret")
	}
	if !b.CanServeClients() {
		s.clientAuthFailed(ctx, b.ID.String(), "inactive")
		return nil, dErrors.New(dErrors.CodeForbidden, "banca is not active")
	}
	return b, nil
}

func (s *Service) transition(
	ctx context.Context,
	bancaID id.BancaID,
	action string,
	event audit.AuditEvent,
	validate func(*models.Banca) error,
	mutate func(*models.Banca),
) (*models.Banca, error) {
	b, err := s.bancas.Execute(ctx, bancaID, validate, mutate)
	if err != nil {
		return nil, wrapBancaErr(err, "failed to "+action+" banca")
	}
	s.logAudit(ctx, event, "banca_id", b.ID, "status", string(b.Status))
	if s.metrics != nil {
		s.metrics.IncrementTransition(action)
	}
	return b, nil
}

func (s *Service) issue() (credentials.Credentials, string, error) {
	creds, err := s.generator.Generate()
	if err != nil {
		return credentials.Credentials{}, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate credentials")
	}
	hash, err := credentials.Hash(creds.ClientSecret)
	if err != nil {
		return credentials.Credentials{}, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash client secret")
	}
	return creds, hash, nil
}

func (s *Service) clientAuthFailed(ctx context.Context, bancaID, reason string) {
	s.logAudit(ctx, audit.EventBancaClientAuthFailed, "banca_id", bancaID, "reason", reason)
	if s.metrics != nil {
		s.metrics.IncrementClientAuthFailure(reason)
	}
}

func wrapBancaErr(err error, msg string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "banca not found")
	case errors.Is(err, store.ErrNameTaken):
		return dErrors.New(dErrors.CodeConflict, "banca name already exists")
	case errors.Is(err, store.ErrEmailTaken):
		return dErrors.New(dErrors.CodeConflict, "banca email already exists")
	case dErrors.HasCode(err, dErrors.CodeInvariantViolation):
		var de *dErrors.Error
		if errors.As(err, &de) {
			return dErrors.New(dErrors.CodeConflict, de.Message)
		}
		return dErrors.New(dErrors.CodeConflict, msg)
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event), args...)
	}
	if s.auditPublisher == nil {
		return
	}
	actor := requestcontext.UserID(ctx)
	actorID := ""
	if !actor.IsNil() {
		actorID = actor.String()
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Subject:   attrs.ExtractString(attributes, "banca_id"),
		Action:    string(event),
		ActorID:   actorID,
		Reason:    attrs.ExtractString(attributes, "reason"),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
	}); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "event", string(event), "error", err)
	}
}
