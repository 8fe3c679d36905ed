package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	bancamodels "lotolink/internal/banca/models"
	"lotolink/internal/sucursal/models"
	"lotolink/internal/sucursal/store"
	"lotolink/pkg/attrs"
	id "lotolink/pkg/domain"
	dErrors "lotolink/pkg/domain-errors"
	"lotolink/pkg/platform/audit"
	"lotolink/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// Store is the persistence contract for Sucursales.
type Store interface {
	Create(ctx context.Context, s *models.Sucursal) error
	FindByID(ctx context.Context, sucursalID id.SucursalID) (*models.Sucursal, error)
	ListByBanca(ctx context.Context, bancaID id.BancaID) ([]*models.Sucursal, error)
	Execute(ctx context.Context, sucursalID id.SucursalID, validate func(*models.Sucursal) error, mutate func(*models.Sucursal)) (*models.Sucursal, error)
	Delete(ctx context.Context, sucursalID id.SucursalID) error
}

// BancaReader resolves the owning Banca. The banca service satisfies it.
type BancaReader interface {
	GetBancaByID(ctx context.Context, bancaID id.BancaID) (*bancamodels.Banca, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service manages branch offices and their ticket configuration.
type Service struct {
	sucursales     Store
	bancas         BancaReader
	logger         *slog.Logger
	auditPublisher AuditPublisher
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

func New(sucursales Store, bancas BancaReader, opts ...Option) *Service {
	s := &Service{sucursales: sucursales, bancas: bancas}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSucursal adds a branch to an existing Banca. Codes are unique per Banca.
func (s *Service) CreateSucursal(ctx context.Context, bancaID id.BancaID, req *models.CreateSucursalRequest) (*models.Sucursal, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.bancas.GetBancaByID(ctx, bancaID); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	sucursal, err := models.NewSucursal(id.SucursalID(uuid.New()), bancaID, req.Name, req.Code, now)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, err.Error())
	}
	sucursal.Address = req.Address
	sucursal.City = req.City
	sucursal.Phone = req.Phone
	sucursal.OperatorPrefix = req.OperatorPrefix
	if req.TicketConfig != nil {
		sucursal.TicketConfig = req.TicketConfig.MergeInto(sucursal.TicketConfig)
	}

	if err := s.sucursales.Create(ctx, sucursal); err != nil {
		return nil, wrapSucursalErr(err, "failed to create sucursal")
	}
	s.logAudit(ctx, audit.EventSucursalCreated, "sucursal_id", sucursal.ID, "banca_id", bancaID, "code", sucursal.Code)
	return sucursal, nil
}

func (s *Service) GetSucursalByID(ctx context.Context, sucursalID id.SucursalID) (*models.Sucursal, error) {
	sucursal, err := s.sucursales.FindByID(ctx, sucursalID)
	if err != nil {
		return nil, wrapSucursalErr(err, "failed to load sucursal")
	}
	return sucursal, nil
}

// GetSucursalesByBancaID lists a Banca's branches ordered by code.
// An unknown Banca is NotFound rather than an empty list.
func (s *Service) GetSucursalesByBancaID(ctx context.Context, bancaID id.BancaID) ([]*models.Sucursal, error) {
	if _, err := s.bancas.GetBancaByID(ctx, bancaID); err != nil {
		return nil, err
	}
	list, err := s.sucursales.ListByBanca(ctx, bancaID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sucursales")
	}
	return list, nil
}

func (s *Service) UpdateSucursal(ctx context.Context, sucursalID id.SucursalID, req *models.UpdateSucursalRequest) (*models.Sucursal, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	sucursal, err := s.sucursales.Execute(ctx, sucursalID,
		func(*models.Sucursal) error { return nil },
		func(sc *models.Sucursal) { req.Apply(sc, now) },
	)
	if err != nil {
		return nil, wrapSucursalErr(err, "failed to update sucursal")
	}
	s.logAudit(ctx, audit.EventSucursalUpdated, "sucursal_id", sucursal.ID, "banca_id", sucursal.BancaID)
	return sucursal, nil
}

// UpdateTicketConfig merges a partial ticket config into the stored one.
func (s *Service) UpdateTicketConfig(ctx context.Context, sucursalID id.SucursalID, req *models.UpdateTicketConfigRequest) (*models.Sucursal, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	sucursal, err := s.sucursales.Execute(ctx, sucursalID,
		func(*models.Sucursal) error { return nil },
		func(sc *models.Sucursal) { sc.ApplyTicketConfig(req.TicketConfigPatch, now) },
	)
	if err != nil {
		return nil, wrapSucursalErr(err, "failed to update ticket config")
	}
	s.logAudit(ctx, audit.EventTicketConfigUpdated, "sucursal_id", sucursal.ID, "banca_id", sucursal.BancaID)
	return sucursal, nil
}

func (s *Service) ActivateSucursal(ctx context.Context, sucursalID id.SucursalID) (*models.Sucursal, error) {
	now := requestcontext.Now(ctx)
	sucursal, err := s.sucursales.Execute(ctx, sucursalID,
		func(*models.Sucursal) error { return nil },
		func(sc *models.Sucursal) { sc.ApplyActivation(now) },
	)
	if err != nil {
		return nil, wrapSucursalErr(err, "failed to activate sucursal")
	}
	s.logAudit(ctx, audit.EventSucursalActivated, "sucursal_id", sucursal.ID, "banca_id", sucursal.BancaID)
	return sucursal, nil
}

func (s *Service) DeactivateSucursal(ctx context.Context, sucursalID id.SucursalID) (*models.Sucursal, error) {
	now := requestcontext.Now(ctx)
	sucursal, err := s.sucursales.Execute(ctx, sucursalID,
		func(*models.Sucursal) error { return nil },
		func(sc *models.Sucursal) { sc.ApplyDeactivation(now) },
	)
	if err != nil {
		return nil, wrapSucursalErr(err, "failed to deactivate sucursal")
	}
	s.logAudit(ctx, audit.EventSucursalDeactivated, "sucursal_id", sucursal.ID, "banca_id", sucursal.BancaID)
	return sucursal, nil
}

func (s *Service) DeleteSucursal(ctx context.Context, sucursalID id.SucursalID) error {
	if err := s.sucursales.Delete(ctx, sucursalID); err != nil {
		return wrapSucursalErr(err, "failed to delete sucursal")
	}
	s.logAudit(ctx, audit.EventSucursalDeleted, "sucursal_id", sucursalID)
	return nil
}

func wrapSucursalErr(err error, msg string) error {
	switch {
	case errors.Is(err, store.ErrBancaMissing):
		return dErrors.New(dErrors.CodeNotFound, "banca not found")
	case errors.Is(err, store.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "sucursal not found")
	case errors.Is(err, store.ErrCodeTaken):
		return dErrors.New(dErrors.CodeConflict, "sucursal code already exists for this banca")
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
		Subject:   attrs.ExtractString(attributes, "sucursal_id"),
		Action:    string(event),
		ActorID:   actorID,
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
	}); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "event", string(event), "error", err)
	}
}
