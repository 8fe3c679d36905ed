package admin

import (
	"log/slog"
	"net/http"

	request "lotolink/pkg/platform/middleware/request"
	"lotolink/pkg/requestcontext"
)

// RoleAdmin is the token role allowed through RequireAdmin.
const RoleAdmin = "admin"

// RequireAdmin must run after auth.RequireAuth. Callers without a principal
// get 401; authenticated callers without the admin role get 403.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if requestcontext.UserID(ctx).IsNil() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"authentication required"}`))
				return
			}
			if requestcontext.Role(ctx) != RoleAdmin {
				logger.WarnContext(ctx, "admin role required",
					"request_id", request.GetRequestID(ctx),
					"user_id", requestcontext.UserID(ctx).String(),
					"role", requestcontext.Role(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"admin role required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
