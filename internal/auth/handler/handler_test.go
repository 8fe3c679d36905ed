package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"lotolink/internal/auth/age"
	"lotolink/internal/auth/models"
	"lotolink/internal/auth/password"
	"lotolink/internal/auth/service"
	"lotolink/internal/auth/store/user"
	"lotolink/internal/auth/token"
	id "lotolink/pkg/domain"
	"lotolink/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	users  *user.InMemoryUserStore
	hasher *password.Hasher
	router http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.users = user.New()
	s.hasher = password.New(password.WithIterations(1000))
	svc, err := service.New(s.users, token.New("handler-key", "lotolink", time.Hour, 24*time.Hour),
		service.WithPasswordHasher(s.hasher),
		service.WithAgeVerifier(age.NewVerifier()),
	)
	s.Require().NoError(err)

	r := chi.NewRouter()
	h := New(svc, logger)
	h.RegisterPublic(r)
	h.RegisterAuthenticated(r)
	s.router = r
}

func (s *HandlerSuite) register(phone string) *models.SessionResult {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/auth/register", map[string]string{
		"phone":         phone,
		"password":      "s3cret-pass",
		"date_of_birth": "1988-09-30",
	}))
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	return testutil.UnmarshalResponse[models.SessionResult](s.T(), rr)
}

func (s *HandlerSuite) TestRegisterAndLogin() {
	reg := s.register("+18095551000")
	s.NotEmpty(reg.AccessToken)
	s.NotEmpty(reg.RefreshToken)
	s.Equal(3600, reg.ExpiresIn)
	s.True(reg.IsNewUser)

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/auth/login", map[string]string{
		"phone": "+18095551000", "password": "s3cret-pass",
	}))
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	s.NotContains(rr.Body.String(), "password")

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/auth/login", map[string]string{
		"phone": "+18095551000", "password": "wrong-pass",
	}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
}

func (s *HandlerSuite) TestRegisterErrors() {
	s.register("+18095551001")

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/auth/register", map[string]string{
		"phone": "+18095551001", "password": "s3cret-pass", "date_of_birth": "1988-09-30",
	}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/auth/register", map[string]string{
		"phone": "+18095551002", "password": "s3cret-pass", "date_of_birth": "2099-01-01",
	}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/auth/register", nil))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}

func (s *HandlerSuite) TestRefresh() {
	reg := s.register("+18095551003")

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": reg.RefreshToken,
	}))
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	pair := testutil.UnmarshalResponse[token.Pair](s.T(), rr)
	s.NotEmpty(pair.AccessToken)
	s.Empty(pair.RefreshToken)

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": "garbage",
	}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
}

func (s *HandlerSuite) TestOAuthWithoutProviders() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/auth/oauth", map[string]string{
		"provider": "google", "token": "tok",
	}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/auth/oauth", map[string]string{
		"provider": "myspace", "token": "tok",
	}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
}

func (s *HandlerSuite) TestAdminRoutes() {
	hash, err := s.hasher.Hash("admin-pass-1")
	s.Require().NoError(err)
	admin, err := models.NewUser(id.UserID(uuid.New()), "+18095551100", models.RoleAdmin, time.Now())
	s.Require().NoError(err)
	admin.PasswordHash = hash
	s.Require().NoError(s.users.Create(context.Background(), admin))

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/auth/login", map[string]string{
		"phone": "+18095551100", "password": "admin-pass-1",
	}))
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	session := testutil.UnmarshalResponse[models.SessionResult](s.T(), rr)
	s.Equal(models.RoleAdmin, session.Role)

	body := map[string]string{"phone": "+18095551101", "password": "another-pass"}

	req := testutil.WithPrincipal(testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/auth/create-admin", body), admin.ID.String(), "admin")
	rr = testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	created := testutil.UnmarshalResponse[models.UserSummary](s.T(), rr)
	s.Equal(models.RoleAdmin, created.Role)

	regular := s.register("+18095551102")
	body["phone"] = "+18095551103"
	req = testutil.WithPrincipal(testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/auth/create-admin", body), regular.User.ID, "admin")
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
}
