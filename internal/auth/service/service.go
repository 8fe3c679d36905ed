// Package service orchestrates sign-in: password registration and login,
// admin-code elevation, OAuth login, token refresh and admin accounts.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lotolink/internal/auth/admincode"
	"lotolink/internal/auth/device"
	"lotolink/internal/auth/models"
	"lotolink/internal/auth/oauth"
	"lotolink/internal/auth/store/user"
	"lotolink/internal/auth/token"
	"lotolink/pkg/attrs"
	id "lotolink/pkg/domain"
	dErrors "lotolink/pkg/domain-errors"
	"lotolink/pkg/email"
	"lotolink/pkg/platform/audit"
	"lotolink/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	FindByOAuth(ctx context.Context, provider, subject string) (*models.User, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, stored string) error
}

type AgeVerifier interface {
	ValidateAge(ctx context.Context, dateOfBirth string) (time.Time, error)
}

type AdminCodeValidator interface {
	Validate(ctx context.Context, userID, code string) admincode.Result
}

type OAuthValidator interface {
	ValidateToken(ctx context.Context, provider, token string) (*oauth.UserInfo, error)
}

type TokenIssuer interface {
	IssueAccess(p token.Principal, now time.Time) (*token.Pair, error)
	IssuePair(p token.Principal, now time.Time) (*token.Pair, error)
	Parse(tokenString string, use token.Use) (*token.Claims, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

type Service struct {
	users          UserStore
	tokens         TokenIssuer
	hasher         PasswordHasher
	ages           AgeVerifier
	adminCodes     AdminCodeValidator
	oauth          OAuthValidator
	logger         *slog.Logger
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithPasswordHasher(h PasswordHasher) Option {
	return func(s *Service) {
		s.hasher = h
	}
}

func WithAgeVerifier(v AgeVerifier) Option {
	return func(s *Service) {
		s.ages = v
	}
}

// WithAdminCodeValidator enables admin-code elevation on Login.
func WithAdminCodeValidator(v AdminCodeValidator) Option {
	return func(s *Service) {
		s.adminCodes = v
	}
}

func WithOAuthValidator(v OAuthValidator) Option {
	return func(s *Service) {
		s.oauth = v
	}
}

func New(users UserStore, tokens TokenIssuer, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if tokens == nil {
		return nil, errors.New("token issuer is required")
	}
	s := &Service{users: users, tokens: tokens}
	for _, opt := range opts {
		opt(s)
	}
	if s.hasher == nil {
		return nil, errors.New("password hasher is required")
	}
	if s.ages == nil {
		return nil, errors.New("age verifier is required")
	}
	return s, nil
}

var (
	errInvalidCredentials      = dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	errInvalidAdminCredentials = dErrors.New(dErrors.CodeUnauthorized, "invalid admin credentials")
	errPhoneTaken              = dErrors.New(dErrors.CodeConflict, "phone already registered")
)

// Register creates a password account for an adult and signs it in.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.SessionResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	dob, err := s.ages.ValidateAge(ctx, req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePhoneAvailable(ctx, req.Phone); err != nil {
		return nil, err
	}

	u, err := s.newPasswordUser(ctx, req.Phone, req.Password, models.RoleUser)
	if err != nil {
		return nil, err
	}
	u.Email = req.Email
	u.Name = req.Name
	u.DateOfBirth = &dob
	if err := s.users.Create(ctx, u); err != nil {
		return nil, wrapUserErr(err, "failed to create user")
	}

	s.logAudit(ctx, audit.EventUserRegistered, "user_id", u.ID)
	return s.issueSession(ctx, u, u.Role, true)
}

// Login signs a user in with phone and password. A non-empty admin code
// must validate, and then the issued tokens carry the admin role. The
// stored role is not changed.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.SessionResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	u, err := s.authenticate(ctx, req.Phone, req.Password, errInvalidCredentials)
	if err != nil {
		return nil, err
	}

	role := u.Role
	if req.AdminCode != "" {
		if s.adminCodes == nil {
			return nil, admincode.Result{Outcome: admincode.OutcomeNotConfigured}.Err()
		}
		result := s.adminCodes.Validate(ctx, u.ID.String(), req.AdminCode)
		if !result.Valid() {
			s.logAudit(ctx, audit.EventLoginFailed, "user_id", u.ID, "reason", "admin_code_"+result.Outcome.String())
			return nil, result.Err()
		}
		role = models.RoleAdmin
		s.logAudit(ctx, audit.EventAdminElevated, "user_id", u.ID)
	}

	s.logAudit(ctx, audit.EventLoginSucceeded, "user_id", u.ID, "role", string(role))
	return s.issueSession(ctx, u, role, false)
}

// LoginWithOAuth signs in with a provider token. An unseen provider
// identity creates an account, which needs a phone and an adult date of
// birth.
func (s *Service) LoginWithOAuth(ctx context.Context, req *models.OAuthLoginRequest) (*models.SessionResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.oauth == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "oauth login is not available")
	}
	info, err := s.oauth.ValidateToken(ctx, req.Provider, req.Token)
	if err != nil {
		return nil, err
	}
	provider := string(info.Provider)

	existing, err := s.users.FindByOAuth(ctx, provider, info.ID)
	if err == nil {
		s.logAudit(ctx, audit.EventOAuthLogin, "user_id", existing.ID, "provider", provider)
		return s.issueSession(ctx, existing, existing.Role, false)
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, wrapUserErr(err, "failed to load user")
	}

	if req.Phone == "" || req.DateOfBirth == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "phone and date_of_birth are required for new accounts")
	}
	dob, err := s.ages.ValidateAge(ctx, req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePhoneAvailable(ctx, req.Phone); err != nil {
		return nil, err
	}

	u, err := models.NewUser(id.UserID(uuid.New()), req.Phone, models.RoleUser, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build user")
	}
	u.Email = email.Normalize(info.Email)
	u.Name = info.Name
	if u.Name == "" {
		u.Name = email.DisplayName(u.Email)
	}
	u.DateOfBirth = &dob
	u.LinkOAuth(provider, info.ID)
	if err := s.users.Create(ctx, u); err != nil {
		return nil, wrapUserErr(err, "failed to create user")
	}

	s.logAudit(ctx, audit.EventUserRegistered, "user_id", u.ID, "provider", provider)
	s.logAudit(ctx, audit.EventOAuthLogin, "user_id", u.ID, "provider", provider)
	return s.issueSession(ctx, u, u.Role, true)
}

// Refresh issues a new access token carrying the refresh token's claims.
// The role is not re-read from the store.
func (s *Service) Refresh(ctx context.Context, req *models.RefreshRequest) (*token.Pair, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	claims, err := s.tokens.Parse(req.RefreshToken, token.UseRefresh)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid refresh token")
	}
	principal, err := claims.Principal()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid refresh token")
	}
	pair, err := s.tokens.IssueAccess(principal, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	s.logAudit(ctx, audit.EventTokenRefreshed, "user_id", principal.UserID)
	return pair, nil
}

// AdminLogin signs in an account whose stored role is admin.
func (s *Service) AdminLogin(ctx context.Context, req *models.AdminLoginRequest) (*models.SessionResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	u, err := s.authenticate(ctx, req.Phone, req.Password, errInvalidAdminCredentials)
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin() {
		s.logAudit(ctx, audit.EventLoginFailed, "user_id", u.ID, "reason", "not_admin")
		return nil, errInvalidAdminCredentials
	}
	s.logAudit(ctx, audit.EventLoginSucceeded, "user_id", u.ID, "role", string(u.Role))
	return s.issueSession(ctx, u, u.Role, false)
}

// CreateAdmin registers an admin account. The caller must be an admin
// according to the store, not only according to its token.
func (s *Service) CreateAdmin(ctx context.Context, req *models.CreateAdminRequest) (*models.User, error) {
	actorID := requestcontext.UserID(ctx)
	if actorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return nil, wrapUserErr(err, "failed to load user")
	}
	if actor == nil || !actor.IsAdmin() {
		return nil, dErrors.New(dErrors.CodeForbidden, "only admins can create new admins")
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensurePhoneAvailable(ctx, req.Phone); err != nil {
		return nil, err
	}
	u, err := s.newPasswordUser(ctx, req.Phone, req.Password, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	u.Email = req.Email
	u.Name = req.Name
	if err := s.users.Create(ctx, u); err != nil {
		return nil, wrapUserErr(err, "failed to create admin")
	}

	s.logAudit(ctx, audit.EventAdminCreated, "user_id", u.ID, "actor_id", actorID)
	return u, nil
}

// authenticate checks phone and password. Every failure that would tell
// the caller whether the phone exists returns failErr.
func (s *Service) authenticate(ctx context.Context, phone, password string, failErr error) (*models.User, error) {
	u, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.logAudit(ctx, audit.EventLoginFailed, "phone", phone, "reason", "unknown_phone")
			return nil, failErr
		}
		return nil, wrapUserErr(err, "failed to load user")
	}
	if !u.HasPassword() {
		s.logAudit(ctx, audit.EventLoginFailed, "user_id", u.ID, "reason", "no_password")
		return nil, failErr
	}
	if err := s.hasher.Verify(password, u.PasswordHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			s.logAudit(ctx, audit.EventLoginFailed, "user_id", u.ID, "reason", "bad_password")
			return nil, failErr
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) ensurePhoneAvailable(ctx context.Context, phone string) error {
	_, err := s.users.FindByPhone(ctx, phone)
	switch {
	case err == nil:
		return errPhoneTaken
	case errors.Is(err, user.ErrNotFound):
		return nil
	default:
		return wrapUserErr(err, "failed to load user")
	}
}

func (s *Service) newPasswordUser(ctx context.Context, phone, password string, role models.Role) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	u, err := models.NewUser(id.UserID(uuid.New()), phone, role, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build user")
	}
	u.PasswordHash = hash
	return u, nil
}

func (s *Service) issueSession(ctx context.Context, u *models.User, role models.Role, isNew bool) (*models.SessionResult, error) {
	pair, err := s.tokens.IssuePair(token.Principal{
		UserID: u.ID,
		Phone:  u.Phone,
		Email:  u.Email,
		Role:   string(role),
	}, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue tokens")
	}
	return &models.SessionResult{
		User:         models.Summarize(u),
		Role:         role,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
		IsNewUser:    isNew,
	}, nil
}

func wrapUserErr(err error, msg string) error {
	switch {
	case errors.Is(err, user.ErrPhoneTaken):
		return errPhoneTaken
	case errors.Is(err, user.ErrIdentityTaken):
		return dErrors.New(dErrors.CodeConflict, "oauth identity already linked")
	case errors.Is(err, user.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event), args...)
	}
	if s.auditPublisher == nil {
		return
	}
	subject := attrs.ExtractString(attributes, "user_id")
	if subject == "" {
		subject = attrs.ExtractString(attributes, "phone")
	}
	actor := attrs.ExtractString(attributes, "actor_id")
	if actor == "" {
		actor = subject
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Subject:   subject,
		Action:    string(event),
		ActorID:   actor,
		Reason:    attrs.ExtractString(attributes, "reason"),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Device:    device.ParseUserAgent(requestcontext.UserAgent(ctx)),
	}); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "event", string(event), "error", err)
	}
}
