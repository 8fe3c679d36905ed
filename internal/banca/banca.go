// Package banca manages lottery-agent partners: registration, approval with
// credential issuance, suspension and the IsActive override.
package banca

import (
	"log/slog"

	"lotolink/internal/banca/handler"
	"lotolink/internal/banca/service"
)

// Service exposes the banca lifecycle.
type Service = service.Service

// Handler wires HTTP endpoints to the banca service.
type Handler = handler.Handler

// NewService constructs the banca service with required dependencies.
func NewService(bancas service.Store, opts ...service.Option) *Service {
	return service.New(bancas, opts...)
}

// NewHandler constructs an HTTP handler for admin-facing banca routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
