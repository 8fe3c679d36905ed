package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lotolink/internal/sucursal/models"
	id "lotolink/pkg/domain"
	dErrors "lotolink/pkg/domain-errors"
	"lotolink/pkg/platform/httputil"
	"lotolink/pkg/requestcontext"
)

// Service defines the sucursal operations exposed over HTTP.
type Service interface {
	CreateSucursal(ctx context.Context, bancaID id.BancaID, req *models.CreateSucursalRequest) (*models.Sucursal, error)
	GetSucursalByID(ctx context.Context, sucursalID id.SucursalID) (*models.Sucursal, error)
	GetSucursalesByBancaID(ctx context.Context, bancaID id.BancaID) ([]*models.Sucursal, error)
	UpdateSucursal(ctx context.Context, sucursalID id.SucursalID, req *models.UpdateSucursalRequest) (*models.Sucursal, error)
	UpdateTicketConfig(ctx context.Context, sucursalID id.SucursalID, req *models.UpdateTicketConfigRequest) (*models.Sucursal, error)
	ActivateSucursal(ctx context.Context, sucursalID id.SucursalID) (*models.Sucursal, error)
	DeactivateSucursal(ctx context.Context, sucursalID id.SucursalID) (*models.Sucursal, error)
	DeleteSucursal(ctx context.Context, sucursalID id.SucursalID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// ListResponse wraps a Banca's branches.
type ListResponse struct {
	Sucursales []*models.Sucursal `json:"sucursales"`
	Total      int                `json:"total"`
}

// RegisterRead mounts the endpoints open to any authenticated caller.
func (h *Handler) RegisterRead(r chi.Router) {
	r.Get("/bancas/{bancaId}/sucursales", h.HandleList)
	r.Get("/sucursales/{id}", h.HandleGet)
}

// RegisterAdmin mounts the mutating endpoints. Callers must mount them
// behind the admin role middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/bancas/{bancaId}/sucursales", h.HandleCreate)
	r.Patch("/sucursales/{id}", h.HandleUpdate)
	r.Delete("/sucursales/{id}", h.HandleDelete)
	r.Patch("/sucursales/{id}/ticket-config", h.HandleUpdateTicketConfig)
	r.Patch("/sucursales/{id}/activate", h.toggle("activate", Service.ActivateSucursal))
	r.Patch("/sucursales/{id}/deactivate", h.toggle("deactivate", Service.DeactivateSucursal))
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	bancaID, err := id.ParseBancaID(chi.URLParam(r, "bancaId"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid banca id"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.CreateSucursalRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	sucursal, err := h.service.CreateSucursal(ctx, bancaID, req)
	if err != nil {
		h.logger.WarnContext(ctx, "create sucursal failed", "request_id", requestID, "banca_id", bancaID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, sucursal)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bancaID, err := id.ParseBancaID(chi.URLParam(r, "bancaId"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid banca id"))
		return
	}
	list, err := h.service.GetSucursalesByBancaID(ctx, bancaID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Sucursales: list, Total: len(list)})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sucursalID, ok := parseSucursalID(w, r)
	if !ok {
		return
	}
	sucursal, err := h.service.GetSucursalByID(r.Context(), sucursalID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sucursal)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	sucursalID, ok := parseSucursalID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateSucursalRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	sucursal, err := h.service.UpdateSucursal(ctx, sucursalID, req)
	if err != nil {
		h.logger.WarnContext(ctx, "update sucursal failed", "request_id", requestID, "sucursal_id", sucursalID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sucursal)
}

func (h *Handler) HandleUpdateTicketConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	sucursalID, ok := parseSucursalID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateTicketConfigRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	sucursal, err := h.service.UpdateTicketConfig(ctx, sucursalID, req)
	if err != nil {
		h.logger.WarnContext(ctx, "update ticket config failed", "request_id", requestID, "sucursal_id", sucursalID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sucursal)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sucursalID, ok := parseSucursalID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteSucursal(ctx, sucursalID); err != nil {
		h.logger.WarnContext(ctx, "delete sucursal failed",
			"request_id", requestcontext.RequestID(ctx),
			"sucursal_id", sucursalID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) toggle(action string, op func(Service, context.Context, id.SucursalID) (*models.Sucursal, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sucursalID, ok := parseSucursalID(w, r)
		if !ok {
			return
		}
		sucursal, err := op(h.service, ctx, sucursalID)
		if err != nil {
			h.logger.WarnContext(ctx, action+" sucursal failed",
				"request_id", requestcontext.RequestID(ctx),
				"sucursal_id", sucursalID,
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, sucursal)
	}
}

func parseSucursalID(w http.ResponseWriter, r *http.Request) (id.SucursalID, bool) {
	sucursalID, err := id.ParseSucursalID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid sucursal id"))
		return id.SucursalID{}, false
	}
	return sucursalID, true
}
