package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"lotolink/internal/auth/models"
	"lotolink/internal/platform/postgres"
	id "lotolink/pkg/domain"
)

const (
	phoneConstraint    = "users_phone_key"
	identityConstraint = "users_oauth_identity_idx"
)

const selectColumns = `
	id, phone,
	COALESCE(email, '') AS email,
	COALESCE(name, '') AS name,
	COALESCE(password_hash, '') AS password_hash,
	role, date_of_birth,
	COALESCE(oauth_provider, '') AS oauth_provider,
	COALESCE(oauth_subject, '') AS oauth_subject,
	created_at, updated_at`

type userRow struct {
	ID            id.UserID    `db:"id"`
	Phone         string       `db:"phone"`
	Email         string       `db:"email"`
	Name          string       `db:"name"`
	PasswordHash  string       `db:"password_hash"`
	Role          string       `db:"role"`
	DateOfBirth   sql.NullTime `db:"date_of_birth"`
	OAuthProvider string       `db:"oauth_provider"`
	OAuthSubject  string       `db:"oauth_subject"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

func (r userRow) toModel() *models.User {
	u := &models.User{
		ID:            r.ID,
		Phone:         r.Phone,
		Email:         r.Email,
		Name:          r.Name,
		PasswordHash:  r.PasswordHash,
		Role:          models.Role(r.Role),
		OAuthProvider: r.OAuthProvider,
		OAuthSubject:  r.OAuthSubject,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.DateOfBirth.Valid {
		dob := r.DateOfBirth.Time.UTC()
		u.DateOfBirth = &dob
	}
	return u
}

// PostgresUserStore persists users in the users table.
type PostgresUserStore struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Create(ctx context.Context, u *models.User) error {
	var dob sql.NullTime
	if u.DateOfBirth != nil {
		dob = sql.NullTime{Time: *u.DateOfBirth, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (
			id, phone, email, name, password_hash, role, date_of_birth,
			oauth_provider, oauth_subject, created_at, updated_at
		) VALUES (
			$1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7,
			NULLIF($8, ''), NULLIF($9, ''), $10, $11
		)`,
		u.ID, u.Phone, u.Email, u.Name, u.PasswordHash, string(u.Role), dob,
		u.OAuthProvider, u.OAuthSubject, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := postgres.UniqueViolation(err); ok {
			switch constraint {
			case phoneConstraint:
				return ErrPhoneTaken
			case identityConstraint:
				return ErrIdentityTaken
			}
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) findOne(ctx context.Context, where string, args ...any) (*models.User, error) {
	var row userRow
	if err := s.db.GetContext(ctx, &row, `SELECT `+selectColumns+` FROM users WHERE `+where, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return row.toModel(), nil
}

func (s *PostgresUserStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.findOne(ctx, `id = $1`, userID)
}

func (s *PostgresUserStore) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.findOne(ctx, `phone = $1`, phone)
}

func (s *PostgresUserStore) FindByOAuth(ctx context.Context, provider, subject string) (*models.User, error) {
	return s.findOne(ctx, `oauth_provider = $1 AND oauth_subject = $2`, provider, subject)
}
