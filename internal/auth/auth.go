// Package auth assembles the sign-in stack: session tokens, password and
// age checks, the admin-code limiter and validator, and OAuth providers.
package auth

import (
	"log/slog"

	"lotolink/internal/auth/admincode"
	"lotolink/internal/auth/age"
	"lotolink/internal/auth/handler"
	"lotolink/internal/auth/oauth"
	"lotolink/internal/auth/password"
	"lotolink/internal/auth/service"
	"lotolink/internal/auth/token"
	"lotolink/internal/platform/config"
	ratelimitmodels "lotolink/internal/ratelimit/models"
	ratelimit "lotolink/internal/ratelimit/service"
)

type (
	Service   = service.Service
	Handler   = handler.Handler
	UserStore = service.UserStore
)

// Module is the assembled auth stack.
type Module struct {
	Tokens  *token.Service
	Limiter *ratelimit.Limiter
	Service *Service
	Handler *Handler
}

// Deps carries what the auth stack needs from the process.
type Deps struct {
	Users    UserStore
	Attempts ratelimit.Store
	Logger   *slog.Logger
	Audit    service.AuditPublisher
	// LimiterOptions are appended after the policy built from config.
	LimiterOptions []ratelimit.Option
}

func New(cfg config.Server, deps Deps) (*Module, error) {
	tokens := token.New(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)

	limiterOpts := append([]ratelimit.Option{
		ratelimit.WithLogger(deps.Logger),
		ratelimit.WithPolicy(ratelimitmodels.Policy{
			MaxAttempts: cfg.Admin.MaxAttempts,
			Window:      cfg.Admin.Window,
			Lockout:     cfg.Admin.Lockout,
		}),
	}, deps.LimiterOptions...)
	if deps.Audit != nil {
		limiterOpts = append(limiterOpts, ratelimit.WithAuditPublisher(deps.Audit))
	}
	limiter, err := ratelimit.New(deps.Attempts, limiterOpts...)
	if err != nil {
		return nil, err
	}

	adminCodes := admincode.NewValidator(limiter,
		admincode.NewClient(cfg.Admin.ServiceURL, cfg.Admin.ServiceKey, cfg.Admin.Timeout),
		admincode.WithLogger(deps.Logger),
	)
	providers := oauth.NewValidator(oauth.Config{
		GoogleUserInfoURL: cfg.OAuth.GoogleUserInfoURL,
		AppleKeysURL:      cfg.OAuth.AppleKeysURL,
		AppleClientID:     cfg.OAuth.AppleClientID,
		FacebookGraphURL:  cfg.OAuth.FacebookGraphURL,
		FacebookAppID:     cfg.OAuth.FacebookAppID,
		FacebookAppSecret: cfg.OAuth.FacebookAppSecret,
		Timeout:           cfg.OAuth.Timeout,
		AppleKeysRefresh:  cfg.OAuth.AppleKeysRefresh,
	}, oauth.WithLogger(deps.Logger))

	svcOpts := []service.Option{
		service.WithLogger(deps.Logger),
		service.WithPasswordHasher(password.New()),
		service.WithAgeVerifier(age.NewVerifier(age.WithMinimum(cfg.Auth.MinimumAge))),
		service.WithAdminCodeValidator(adminCodes),
		service.WithOAuthValidator(providers),
	}
	if deps.Audit != nil {
		svcOpts = append(svcOpts, service.WithAuditPublisher(deps.Audit))
	}
	svc, err := service.New(deps.Users, tokens, svcOpts...)
	if err != nil {
		return nil, err
	}

	return &Module{
		Tokens:  tokens,
		Limiter: limiter,
		Service: svc,
		Handler: handler.New(svc, deps.Logger),
	}, nil
}
