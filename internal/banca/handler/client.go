package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lotolink/internal/banca/models"
	dErrors "lotolink/pkg/domain-errors"
	"lotolink/pkg/platform/httputil"
	"lotolink/pkg/requestcontext"
)

const clientRealm = `Basic realm="lotolink-integration"`

type clientKey struct{}

// ClientFromContext returns the banca authenticated by RequireClient.
func ClientFromContext(ctx context.Context) (*models.Banca, bool) {
	b, ok := ctx.Value(clientKey{}).(*models.Banca)
	return b, ok
}

// RegisterIntegration mounts the routes banca integrations call with their
// client credentials. They sit outside bearer-token auth.
func (h *Handler) RegisterIntegration(r chi.Router) {
	r.With(h.RequireClient).Get("/api/v1/integration/banca", h.HandleClientProfile)
}

// RequireClient authenticates the request with HTTP Basic client_id and
// client_secret issued on approval. Only active bancas get through.
func (h *Handler) RequireClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, secret, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", clientRealm)
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "client credentials required"))
			return
		}
		b, err := h.service.AuthenticateClient(ctx, clientID, secret)
		if err != nil {
			h.logger.WarnContext(ctx, "client authentication failed",
				"request_id", requestcontext.RequestID(ctx),
				"client_id", clientID,
				"error", err,
			)
			if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
				w.Header().Set("WWW-Authenticate", clientRealm)
			}
			httputil.WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, clientKey{}, b)))
	})
}

// HandleClientProfile returns the calling banca. Secrets are never part of
// the Banca JSON.
func (h *Handler) HandleClientProfile(w http.ResponseWriter, r *http.Request) {
	b, ok := ClientFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "client credentials required"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, b)
}
