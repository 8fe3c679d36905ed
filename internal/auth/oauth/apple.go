package oauth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

const appleIssuer = "https://appleid.apple.com"

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

// appleKeySet caches Apple's signing keys by kid. An unknown kid triggers a
// refetch, at most once per minRefresh; concurrent misses share one request.
// Between refetches unknown kids are rejected from the cache.
type appleKeySet struct {
	url        string
	client     *http.Client
	timeout    time.Duration
	minRefresh time.Duration
	now        func() time.Time

	mu          sync.RWMutex
	keys        map[string]*rsa.PublicKey
	lastAttempt time.Time

	group singleflight.Group
}

func newAppleKeySet(url string, client *http.Client, timeout, minRefresh time.Duration) *appleKeySet {
	return &appleKeySet{
		url:        url,
		client:     client,
		timeout:    timeout,
		minRefresh: minRefresh,
		now:        time.Now,
		keys:       map[string]*rsa.PublicKey{},
	}
}

func (s *appleKeySet) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	s.mu.RLock()
	k, ok := s.keys[kid]
	throttled := !s.lastAttempt.IsZero() && s.now().Sub(s.lastAttempt) < s.minRefresh
	s.mu.RUnlock()
	if ok {
		return k, nil
	}
	if throttled {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}

	// The fetch is shared by every waiter, so it must not die with the
	// caller that happened to start it.
	if _, err, _ := s.group.Do("refresh", func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return nil, s.refresh(fetchCtx)
	}); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if k, ok := s.keys[kid]; ok {
		return k, nil
	}
	return nil, fmt.Errorf("unknown key id %q", kid)
}

func (s *appleKeySet) refresh(ctx context.Context) error {
	if s.url == "" {
		return errors.New("apple keys url is not configured")
	}
	s.mu.Lock()
	s.lastAttempt = s.now()
	s.mu.Unlock()

	var set jwkSet
	if err := getJSON(ctx, s.client, s.url, nil, &set); err != nil {
		return fmt.Errorf("fetch apple keys: %w", err)
	}
	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		pub, err := rsaKeyFromJWK(k)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}
	s.mu.Lock()
	s.keys = keys
	s.mu.Unlock()
	return nil
}

func rsaKeyFromJWK(k jwk) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("decode modulus: %w", err)
	}
	eb, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("decode exponent: %w", err)
	}
	e := new(big.Int).SetBytes(eb)
	if !e.IsInt64() || e.Int64() < 3 {
		return nil, errors.New("invalid exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: int(e.Int64())}, nil
}

type appleClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// validateApple verifies an identity token signed by Apple for our client id.
func (v *Validator) validateApple(ctx context.Context, token string) (*UserInfo, error) {
	if token == "" {
		return nil, v.reject(ctx, ProviderApple, errors.New("empty token"))
	}
	if v.cfg.AppleClientID == "" {
		return nil, v.reject(ctx, ProviderApple, errors.New("apple client id is not configured"))
	}

	claims := &appleClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing kid header")
		}
		return v.apple.key(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(appleIssuer),
		jwt.WithAudience(v.cfg.AppleClientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("token not valid")
		}
		return nil, v.reject(ctx, ProviderApple, err)
	}
	if claims.Subject == "" {
		return nil, v.reject(ctx, ProviderApple, errors.New("token missing subject"))
	}
	return &UserInfo{Provider: ProviderApple, ID: claims.Subject, Email: claims.Email}, nil
}
