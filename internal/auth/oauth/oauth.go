// Package oauth exchanges third-party provider tokens for user info.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	dErrors "lotolink/pkg/domain-errors"
)

type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderApple    Provider = "apple"
	ProviderFacebook Provider = "facebook"
)

const maxResponseBytes = 1 << 20

// UserInfo is the normalized identity returned by every provider.
type UserInfo struct {
	Provider Provider `json:"provider"`
	ID       string   `json:"id"`
	Email    string   `json:"email,omitempty"`
	Name     string   `json:"name,omitempty"`
}

type Config struct {
	GoogleUserInfoURL string
	AppleKeysURL      string
	AppleClientID     string
	FacebookGraphURL  string
	FacebookAppID     string
	FacebookAppSecret string
	Timeout           time.Duration
	// AppleKeysRefresh is the minimum gap between two JWKS fetches.
	AppleKeysRefresh  time.Duration
}

// Validator dispatches token validation by provider.
type Validator struct {
	cfg        Config
	httpClient *http.Client
	apple      *appleKeySet
	tracer     trace.Tracer
	logger     *slog.Logger
}

type Option func(*Validator)

func WithHTTPClient(c *http.Client) Option {
	return func(v *Validator) {
		v.httpClient = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

func NewValidator(cfg Config, opts ...Option) *Validator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.AppleKeysRefresh <= 0 {
		cfg.AppleKeysRefresh = time.Minute
	}
	v := &Validator{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		tracer:     otel.Tracer("lotolink/internal/auth/oauth"),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.apple = newAppleKeySet(cfg.AppleKeysURL, v.httpClient, cfg.Timeout, cfg.AppleKeysRefresh)
	return v
}

// ValidateToken verifies token with provider and returns the user it
// belongs to. Every failure is Unauthorized.
func (v *Validator) ValidateToken(ctx context.Context, provider, token string) (*UserInfo, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(provider)))
	ctx, span := v.tracer.Start(ctx, "oauth.validate_token",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("oauth.provider", string(p))),
	)
	defer span.End()

	var (
		info *UserInfo
		err  error
	)
	switch p {
	case ProviderGoogle:
		info, err = v.validateGoogle(ctx, token)
	case ProviderApple:
		info, err = v.validateApple(ctx, token)
	case ProviderFacebook:
		info, err = v.validateFacebook(ctx, token)
	default:
		err = dErrors.New(dErrors.CodeUnauthorized, "unsupported provider")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token rejected")
		return nil, err
	}
	return info, nil
}

func (v *Validator) reject(ctx context.Context, p Provider, cause error) error {
	if v.logger != nil {
		v.logger.WarnContext(ctx, "oauth token rejected", "provider", string(p), "error", cause)
	}
	return dErrors.New(dErrors.CodeUnauthorized, fmt.Sprintf("invalid %s token", p))
}

// getJSON issues a GET and decodes a 2xx JSON body into out.
func getJSON(ctx context.Context, client *http.Client, url string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	for k, vals := range header {
		for _, val := range vals {
			req.Header.Add(k, val)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.Unmarshal(body, out)
}
