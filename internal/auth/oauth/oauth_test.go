package oauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	dErrors "lotolink/pkg/domain-errors"
)

const appleClientID = "do.lotolink.app"

type OAuthSuite struct {
	suite.Suite
	server     *httptest.Server
	appleKey   *rsa.PrivateKey
	keyFetches atomic.Int32
	clock      time.Time
	validator  *Validator
}

func TestOAuthSuite(t *testing.T) {
	suite.Run(t, new(OAuthSuite))
}

func (s *OAuthSuite) SetupTest() {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	s.Require().NoError(err)
	s.appleKey = key
	s.keyFetches.Store(0)

	mux := http.NewServeMux()
	mux.HandleFunc("/google/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-google" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]string{"sub": "g-123", "email": "ana@gmail.com", "name": "Ana"})
	})
	mux.HandleFunc("/apple/keys", func(w http.ResponseWriter, _ *http.Request) {
		s.keyFetches.Add(1)
		writeJSON(w, map[string]any{"keys": []map[string]string{{
			"kty": "RSA",
			"kid": "apple-kid-1",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(s.appleKey.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(s.appleKey.E)).Bytes()),
		}}})
	})
	mux.HandleFunc("/graph/debug_token", func(w http.ResponseWriter, r *http.Request) {
		valid := r.URL.Query().Get("input_token") == "good-fb" &&
			r.URL.Query().Get("access_token") == "fb-app|fb-secret"
		writeJSON(w, map[string]any{"data": map[string]any{"is_valid": valid, "app_id": "fb-app"}})
	})
	mux.HandleFunc("/graph/me", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fields") != "id,name,email" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]string{"id": "fb-42", "name": "Luis", "email": "luis@fb.com"})
	})
	s.server = httptest.NewServer(mux)

	s.validator = NewValidator(Config{
		GoogleUserInfoURL: s.server.URL + "/google/userinfo",
		AppleKeysURL:      s.server.URL + "/apple/keys",
		AppleClientID:     appleClientID,
		FacebookGraphURL:  s.server.URL + "/graph",
		FacebookAppID:     "fb-app",
		FacebookAppSecret: "fb-secret",
		Timeout:           2 * time.Second,
	})
	s.clock = time.Now()
	s.validator.apple.now = func() time.Time { return s.clock }
}

func (s *OAuthSuite) TearDownTest() {
	s.server.Close()
}

func (s *OAuthSuite) appleToken(key *rsa.PrivateKey, kid string, mutate func(*appleClaims)) string {
	now := time.Now()
	claims := &appleClaims{
		Email: "ana@privaterelay.appleid.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    appleIssuer,
			Subject:   "apple-sub-1",
			Audience:  jwt.ClaimStrings{appleClientID},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		},
	}
	if mutate != nil {
		mutate(claims)
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	signed, err := tok.SignedString(key)
	s.Require().NoError(err)
	return signed
}

func (s *OAuthSuite) TestGoogle() {
	ctx := context.Background()

	s.Run("valid token returns normalized user info", func() {
		info, err := s.validator.ValidateToken(ctx, "google", "good-google")
		s.Require().NoError(err)
		s.Equal(&UserInfo{Provider: ProviderGoogle, ID: "g-123", Email: "ana@gmail.com", Name: "Ana"}, info)
	})

	s.Run("rejected token is unauthorized", func() {
		_, err := s.validator.ValidateToken(ctx, "google", "stale")
		s.Require().ErrorIs(err, dErrors.New(dErrors.CodeUnauthorized, "invalid google token"))
	})
}

func (s *OAuthSuite) TestApple() {
	ctx := context.Background()

	s.Run("valid identity token", func() {
		info, err := s.validator.ValidateToken(ctx, "apple", s.appleToken(s.appleKey, "apple-kid-1", nil))
		s.Require().NoError(err)
		s.Equal("apple-sub-1", info.ID)
		s.Equal(ProviderApple, info.Provider)
		s.Equal("ana@privaterelay.appleid.com", info.Email)
	})

	s.Run("keys are cached between validations", func() {
		_, err := s.validator.ValidateToken(ctx, "apple", s.appleToken(s.appleKey, "apple-kid-1", nil))
		s.Require().NoError(err)
		s.Equal(int32(1), s.keyFetches.Load())
	})

	s.Run("bad signature is rejected", func() {
		other, err := rsa.GenerateKey(rand.Reader, 2048)
		s.Require().NoError(err)
		_, err = s.validator.ValidateToken(ctx, "apple", s.appleToken(other, "apple-kid-1", nil))
		s.Require().ErrorIs(err, dErrors.New(dErrors.CodeUnauthorized, "invalid apple token"))
	})

	s.Run("wrong audience is rejected", func() {
		tok := s.appleToken(s.appleKey, "apple-kid-1", func(c *appleClaims) {
			c.Audience = jwt.ClaimStrings{"someone.else"}
		})
		_, err := s.validator.ValidateToken(ctx, "apple", tok)
		s.Require().Error(err)
	})

	s.Run("wrong issuer is rejected", func() {
		tok := s.appleToken(s.appleKey, "apple-kid-1", func(c *appleClaims) {
			c.Issuer = "https://evil.example"
		})
		_, err := s.validator.ValidateToken(ctx, "apple", tok)
		s.Require().Error(err)
	})

	s.Run("expired token is rejected", func() {
		tok := s.appleToken(s.appleKey, "apple-kid-1", func(c *appleClaims) {
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		})
		_, err := s.validator.ValidateToken(ctx, "apple", tok)
		s.Require().Error(err)
	})

	s.Run("unknown kid refetches once the refresh interval passed", func() {
		s.clock = s.clock.Add(2 * time.Minute)
		before := s.keyFetches.Load()
		_, err := s.validator.ValidateToken(ctx, "apple", s.appleToken(s.appleKey, "rotated-kid", nil))
		s.Require().Error(err)
		s.Equal(before+1, s.keyFetches.Load())
	})
}

func (s *OAuthSuite) TestAppleUnknownKidsDoNotHammerKeyEndpoint() {
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		kid := "unknown-" + strconv.Itoa(i)
		_, err := s.validator.ValidateToken(ctx, "apple", s.appleToken(s.appleKey, kid, nil))
		s.Require().Error(err)
	}
	s.Equal(int32(1), s.keyFetches.Load())

	s.clock = s.clock.Add(30 * time.Second)
	_, err := s.validator.ValidateToken(ctx, "apple", s.appleToken(s.appleKey, "unknown-late", nil))
	s.Require().Error(err)
	s.Equal(int32(1), s.keyFetches.Load(), "still inside the refresh interval")

	s.clock = s.clock.Add(time.Minute)
	_, err = s.validator.ValidateToken(ctx, "apple", s.appleToken(s.appleKey, "unknown-later", nil))
	s.Require().Error(err)
	s.Equal(int32(2), s.keyFetches.Load())

	info, err := s.validator.ValidateToken(ctx, "apple", s.appleToken(s.appleKey, "apple-kid-1", nil))
	s.Require().NoError(err, "known keys keep validating while unknown kids are throttled")
	s.Equal("apple-sub-1", info.ID)
}

func (s *OAuthSuite) TestAppleKeyFetchIgnoresCallerCancellation() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	info, err := s.validator.ValidateToken(ctx, "apple", s.appleToken(s.appleKey, "apple-kid-1", nil))
	s.Require().NoError(err)
	s.Equal("apple-sub-1", info.ID)
	s.Equal(int32(1), s.keyFetches.Load())
}

func (s *OAuthSuite) TestFacebook() {
	ctx := context.Background()

	s.Run("valid token loads profile", func() {
		info, err := s.validator.ValidateToken(ctx, "facebook", "good-fb")
		s.Require().NoError(err)
		s.Equal(&UserInfo{Provider: ProviderFacebook, ID: "fb-42", Email: "luis@fb.com", Name: "Luis"}, info)
	})

	s.Run("debug_token says invalid", func() {
		_, err := s.validator.ValidateToken(ctx, "facebook", "revoked")
		s.Require().ErrorIs(err, dErrors.New(dErrors.CodeUnauthorized, "invalid facebook token"))
	})
}

func (s *OAuthSuite) TestUnsupportedProvider() {
	_, err := s.validator.ValidateToken(context.Background(), "twitter", "tok")
	s.Require().ErrorIs(err, dErrors.New(dErrors.CodeUnauthorized, "unsupported provider"))
}

func TestProviderNameIsCaseInsensitive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"sub": "g-1"})
	}))
	defer srv.Close()

	v := NewValidator(Config{GoogleUserInfoURL: srv.URL})
	info, err := v.ValidateToken(context.Background(), " Google ", "tok")
	require.NoError(t, err)
	assert.Equal(t, "g-1", info.ID)
}

func TestGoogleRequiresSubject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"email": "x@y.com"})
	}))
	defer srv.Close()

	v := NewValidator(Config{GoogleUserInfoURL: srv.URL})
	_, err := v.ValidateToken(context.Background(), "google", "tok")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
