package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lotolink/internal/banca/models"
	"lotolink/internal/banca/service"
	id "lotolink/pkg/domain"
	dErrors "lotolink/pkg/domain-errors"
	"lotolink/pkg/platform/httputil"
	"lotolink/pkg/requestcontext"
)

// Service defines the banca operations exposed over HTTP.
type Service interface {
	CreateBanca(ctx context.Context, req *models.CreateBancaRequest) (*models.Banca, error)
	GetBancaByID(ctx context.Context, bancaID id.BancaID) (*models.Banca, error)
	GetAllBancas(ctx context.Context, activeOnly bool) ([]*models.Banca, error)
	GetBancasByStatus(ctx context.Context, status models.Status) ([]*models.Banca, error)
	UpdateBanca(ctx context.Context, bancaID id.BancaID, req *models.UpdateBancaRequest) (*models.Banca, error)
	ApproveBanca(ctx context.Context, bancaID id.BancaID, endpoint string) (*service.IssuedCredentials, error)
	RejectBanca(ctx context.Context, bancaID id.BancaID) (*models.Banca, error)
	SuspendBanca(ctx context.Context, bancaID id.BancaID) (*models.Banca, error)
	ActivateBanca(ctx context.Context, bancaID id.BancaID) (*models.Banca, error)
	DeactivateBanca(ctx context.Context, bancaID id.BancaID) (*models.Banca, error)
	RotateCredentials(ctx context.Context, bancaID id.BancaID) (*service.IssuedCredentials, error)
	AuthenticateClient(ctx context.Context, clientID, clientSecret string) (*models.Banca, error)
}

// Handler serves the banca routes. Register must be mounted behind the admin
// role middleware; RegisterIntegration carries its own client auth.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts banca endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/bancas", h.HandleCreate)
	r.Get("/admin/bancas", h.HandleList)
	r.Get("/admin/bancas/pending", h.HandleListPending)
	r.Get("/admin/bancas/{id}", h.HandleGet)
	r.Put("/admin/bancas/{id}", h.HandleUpdate)
	r.Post("/admin/bancas/{id}/approve", h.HandleApprove)
	r.Post("/admin/bancas/{id}/reject", h.transition("reject", Service.RejectBanca))
	r.Post("/admin/bancas/{id}/suspend", h.transition("suspend", Service.SuspendBanca))
	r.Post("/admin/bancas/{id}/activate", h.transition("activate", Service.ActivateBanca))
	r.Post("/admin/bancas/{id}/deactivate", h.transition("deactivate", Service.DeactivateBanca))
	r.Post("/admin/bancas/{id}/rotate-credentials", h.HandleRotateCredentials)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateBancaRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	b, err := h.service.CreateBanca(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "create banca failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, b)
}

// HandleList serves GET /admin/bancas?activeOnly=true|&status=pending.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		h.writeList(w, r, func() ([]*models.Banca, error) { return h.service.GetBancasByStatus(ctx, status) })
		return
	}

	activeOnly := false
	if raw := q.Get("activeOnly"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "activeOnly must be a boolean"))
			return
		}
		activeOnly = parsed
	}
	h.writeList(w, r, func() ([]*models.Banca, error) { return h.service.GetAllBancas(ctx, activeOnly) })
}

func (h *Handler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, func() ([]*models.Banca, error) {
		return h.service.GetBancasByStatus(r.Context(), models.StatusPending)
	})
}

func (h *Handler) writeList(w http.ResponseWriter, r *http.Request, list func() ([]*models.Banca, error)) {
	bancas, err := list()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list bancas failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Bancas: bancas, Total: len(bancas)})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	bancaID, ok := parseBancaID(w, r)
	if !ok {
		return
	}
	b, err := h.service.GetBancaByID(r.Context(), bancaID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	bancaID, ok := parseBancaID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateBancaRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	b, err := h.service.UpdateBanca(ctx, bancaID, req)
	if err != nil {
		h.logger.WarnContext(ctx, "update banca failed", "request_id", requestID, "banca_id", bancaID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, b)
}

// HandleApprove accepts an optional JSON body carrying the endpoint.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	bancaID, ok := parseBancaID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeOptionalAndPrepare[models.ApproveBancaRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.ApproveBanca(ctx, bancaID, req.Endpoint)
	if err != nil {
		h.logger.WarnContext(ctx, "approve banca failed", "request_id", requestID, "banca_id", bancaID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "banca approved", "request_id", requestID, "banca_id", bancaID)
	httputil.WriteJSON(w, http.StatusOK, toCredentialsResponse(res))
}

func (h *Handler) HandleRotateCredentials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bancaID, ok := parseBancaID(w, r)
	if !ok {
		return
	}
	res, err := h.service.RotateCredentials(ctx, bancaID)
	if err != nil {
		h.logger.WarnContext(ctx, "rotate credentials failed",
			"request_id", requestcontext.RequestID(ctx),
			"banca_id", bancaID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCredentialsResponse(res))
}

func (h *Handler) transition(action string, op func(Service, context.Context, id.BancaID) (*models.Banca, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		bancaID, ok := parseBancaID(w, r)
		if !ok {
			return
		}
		b, err := op(h.service, ctx, bancaID)
		if err != nil {
			h.logger.WarnContext(ctx, action+" banca failed",
				"request_id", requestcontext.RequestID(ctx),
				"banca_id", bancaID,
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, b)
	}
}

func parseBancaID(w http.ResponseWriter, r *http.Request) (id.BancaID, bool) {
	bancaID, err := id.ParseBancaID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid banca id"))
		return id.BancaID{}, false
	}
	return bancaID, true
}
