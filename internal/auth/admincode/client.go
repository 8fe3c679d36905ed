package admincode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTimeout bounds one call to the validation service.
const DefaultTimeout = 5 * time.Second

var (
	// ErrRejected means the service answered and the code is not valid,
	// or the call could not complete.
	ErrRejected = errors.New("admin code rejected")
	// ErrUpstream means the service answered with an unexpected status.
	ErrUpstream = errors.New("admin validation service error")
)

type validateRequest struct {
	UserID    string `json:"userId"`
	AdminCode string `json:"adminCode"`
	Timestamp string `json:"timestamp"`
}

type validateResponse struct {
	Valid bool `json:"valid"`
}

// Client calls the external admin validation service.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	tracer     trace.Tracer
}

type ClientOption func(*Client)

func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func NewClient(baseURL, serviceKey string, timeout time.Duration, opts ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: timeout},
		tracer:     otel.Tracer("lotolink/internal/auth/admincode"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a service URL is set.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

// Verify asks the service whether code is valid for userID. A nil error
// means the code is valid.
func (c *Client) Verify(ctx context.Context, userID, code string, now time.Time) error {
	ctx, span := c.tracer.Start(ctx, "admincode.verify", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	err := c.verify(ctx, userID, code, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "admin code not verified")
	}
	return err
}

func (c *Client) verify(ctx context.Context, userID, code string, now time.Time) error {
	payload, err := json.Marshal(validateRequest{
		UserID:    userID,
		AdminCode: code,
		Timestamp: now.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", ErrUpstream, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/validate-admin", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Key", c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}
	defer resp.Body.Close()
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var body validateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrRejected, err)
	}
	if !body.Valid {
		return ErrRejected
	}
	return nil
}
