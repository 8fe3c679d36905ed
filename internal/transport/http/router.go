package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lotolink/internal/platform/metrics"
	ratelimitmw "lotolink/internal/ratelimit/middleware"
	adminmw "lotolink/pkg/platform/middleware/admin"
	authmw "lotolink/pkg/platform/middleware/auth"
	"lotolink/pkg/platform/middleware/metadata"
	request "lotolink/pkg/platform/middleware/request"
	"lotolink/pkg/platform/middleware/requesttime"
)

// AuthRoutes is implemented by the auth handler.
type AuthRoutes interface {
	RegisterPublic(r chi.Router)
	RegisterAuthenticated(r chi.Router)
}

// BancaRoutes is implemented by the banca handler.
type BancaRoutes interface {
	Register(r chi.Router)
	RegisterIntegration(r chi.Router)
}

// SucursalRoutes is implemented by the sucursal handler.
type SucursalRoutes interface {
	RegisterRead(r chi.Router)
	RegisterAdmin(r chi.Router)
}

// Deps groups everything the router mounts.
type Deps struct {
	Logger     *slog.Logger
	Tokens     authmw.JWTValidator
	Auth       AuthRoutes
	Bancas     BancaRoutes
	Sucursales SucursalRoutes
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	Health     *Health
	// RateLimit, when set, budgets the public sign-in routes.
	RateLimit  *ratelimitmw.Middleware
}

// NewRouter builds the HTTP surface.
//
// Public: auth sign-in routes (rate limited), /health and /metrics.
// Client credentials: banca integration routes.
// Bearer token: admin creation and sucursal reads.
// Bearer token with admin role: banca administration and sucursal writes.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	r := chi.NewRouter()

	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(logger))
	r.Use(request.Recovery(logger))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	health := d.Health
	if health == nil {
		health = NewHealth()
	}
	r.Get("/health", health.ServeHTTP)
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if d.RateLimit != nil {
			r.Use(d.RateLimit.RateLimitAuth())
		}
		d.Auth.RegisterPublic(r)
	})
	d.Bancas.RegisterIntegration(r)

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(d.Tokens, logger))

		r.Group(func(r chi.Router) {
			r.Use(adminmw.RequireAdmin(logger))
			d.Auth.RegisterAuthenticated(r)
			d.Bancas.Register(r)
		})

		r.Route("/api/v1", func(r chi.Router) {
			d.Sucursales.RegisterRead(r)
			r.Group(func(r chi.Router) {
				r.Use(adminmw.RequireAdmin(logger))
				d.Sucursales.RegisterAdmin(r)
			})
		})
	})

	return r
}
