// Package token issues and verifies HS256 session tokens.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "lotolink/pkg/domain"
	dErrors "lotolink/pkg/domain-errors"
	authmw "lotolink/pkg/platform/middleware/auth"
)

type Use string

const (
	UseAccess  Use = "access"
	UseRefresh Use = "refresh"
)

// Claims carried by both access and refresh tokens. Subject is the user id.
type Claims struct {
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	TokenUse Use    `json:"token_use"`
	jwt.RegisteredClaims
}

// Principal is the identity a token is issued for.
type Principal struct {
	UserID id.UserID
	Phone  string
	Email  string
	Role   string
}

// Pair is returned to clients after a successful login.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

type Service struct {
	signingKey []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type Option func(*Service)

// WithClock sets the time used when verifying expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(signingKey, issuer string, accessTTL, refreshTTL time.Duration, opts ...Option) *Service {
	s := &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) AccessTTL() time.Duration { return s.accessTTL }

func (s *Service) sign(p Principal, use Use, ttl time.Duration, now time.Time) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Phone:    p.Phone,
		Email:    p.Email,
		Role:     p.Role,
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	})
	signed, err := t.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return signed, nil
}

// IssueAccess signs an access token only.
func (s *Service) IssueAccess(p Principal, now time.Time) (*Pair, error) {
	access, err := s.sign(p, UseAccess, s.accessTTL, now)
	if err != nil {
		return nil, err
	}
	return &Pair{AccessToken: access, TokenType: "Bearer", ExpiresIn: int(s.accessTTL.Seconds())}, nil
}

// IssuePair signs an access and a refresh token for p.
func (s *Service) IssuePair(p Principal, now time.Time) (*Pair, error) {
	pair, err := s.IssueAccess(p, now)
	if err != nil {
		return nil, err
	}
	if pair.RefreshToken, err = s.sign(p, UseRefresh, s.refreshTTL, now); err != nil {
		return nil, err
	}
	return pair, nil
}

// Parse verifies signature, issuer, expiry and token_use.
func (s *Service) Parse(tokenString string, use Use) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if claims.TokenUse != use {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token type")
	}
	return claims, nil
}

// Principal rebuilds the identity from verified claims.
func (c *Claims) Principal() (Principal, error) {
	userID, err := id.ParseUserID(c.Subject)
	if err != nil {
		return Principal{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject")
	}
	return Principal{UserID: userID, Phone: c.Phone, Email: c.Email, Role: c.Role}, nil
}

// ValidateAccessToken adapts Parse to the HTTP auth middleware.
func (s *Service) ValidateAccessToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := s.Parse(tokenString, UseAccess)
	if err != nil {
		return nil, err
	}
	return &authmw.JWTClaims{UserID: claims.Subject, Role: claims.Role}, nil
}
