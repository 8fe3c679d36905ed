package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lotolink/internal/auth/models"
	"lotolink/internal/auth/token"
	"lotolink/pkg/platform/httputil"
	"lotolink/pkg/requestcontext"
)

type Service interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.SessionResult, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.SessionResult, error)
	LoginWithOAuth(ctx context.Context, req *models.OAuthLoginRequest) (*models.SessionResult, error)
	Refresh(ctx context.Context, req *models.RefreshRequest) (*token.Pair, error)
	AdminLogin(ctx context.Context, req *models.AdminLoginRequest) (*models.SessionResult, error)
	CreateAdmin(ctx context.Context, req *models.CreateAdminRequest) (*models.User, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the sign-in routes that need no token.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/api/v1/auth/register", h.HandleRegister)
	r.Post("/api/v1/auth/login", h.HandleLogin)
	r.Post("/api/v1/auth/oauth", h.HandleOAuthLogin)
	r.Post("/api/v1/auth/refresh", h.HandleRefresh)
	r.Post("/admin/auth/login", h.HandleAdminLogin)
}

// RegisterAuthenticated mounts routes that need a valid access token. The
// service checks the caller's stored role itself.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Post("/admin/auth/create-admin", h.HandleCreateAdmin)
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, "register", http.StatusCreated, h.service.Register)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, "login", http.StatusOK, h.service.Login)
}

func (h *Handler) HandleOAuthLogin(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, "oauth login", http.StatusOK, h.service.LoginWithOAuth)
}

func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, "refresh", http.StatusOK, h.service.Refresh)
}

func (h *Handler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, "admin login", http.StatusOK, h.service.AdminLogin)
}

func (h *Handler) HandleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateAdminRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	admin, err := h.service.CreateAdmin(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "create admin failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, models.Summarize(admin))
}

// serve decodes T, calls op and writes its result with status.
func serve[T, R any](h *Handler, w http.ResponseWriter, r *http.Request, name string, status int, op func(context.Context, *T) (R, error)) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[T](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	result, err := op(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, name+" failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, status, result)
}
