// Package sucursal manages branch offices under a Banca and their ticket
// printing configuration.
package sucursal

import (
	"log/slog"

	"lotolink/internal/sucursal/handler"
	"lotolink/internal/sucursal/service"
)

type Service = service.Service

type Handler = handler.Handler

func NewService(sucursales service.Store, bancas service.BancaReader, opts ...service.Option) *Service {
	return service.New(sucursales, bancas, opts...)
}

func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
