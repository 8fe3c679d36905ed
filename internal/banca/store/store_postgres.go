package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"lotolink/internal/banca/models"
	"lotolink/internal/platform/postgres"
	id "lotolink/pkg/domain"
	"lotolink/pkg/platform/sentinel"
	"lotolink/pkg/platform/tx"
)

const (
	nameIndex     = "bancas_name_lower_idx"
	emailIndex    = "bancas_email_lower_idx"
	clientIDIndex = "bancas_client_id_key"
)

const selectColumns = `
	id, name, email,
	COALESCE(rnc, '') AS rnc,
	COALESCE(address, '') AS address,
	COALESCE(phone, '') AS phone,
	integration_type, auth_type,
	COALESCE(endpoint, '') AS endpoint,
	COALESCE(client_id, '') AS client_id,
	COALESCE(client_secret_hash, '') AS client_secret_hash,
	COALESCE(hmac_secret, '') AS hmac_secret,
	status, is_active, commission_percentage,
	COALESCE(commission_stripe_account_id, '') AS commission_stripe_account_id,
	COALESCE(card_processing_account_id, '') AS card_processing_account_id,
	sla_ms, created_at, updated_at`

type bancaRow struct {
	ID                        id.BancaID          `db:"id"`
	Name                      string              `db:"name"`
	Email                     string              `db:"email"`
	RNC                       string              `db:"rnc"`
	Address                   string              `db:"address"`
	Phone                     string              `db:"phone"`
	IntegrationType           string              `db:"integration_type"`
	AuthType                  string              `db:"auth_type"`
	Endpoint                  string              `db:"endpoint"`
	ClientID                  string              `db:"client_id"`
	ClientSecretHash          string              `db:"client_secret_hash"`
	HMACSecret                string              `db:"hmac_secret"`
	Status                    string              `db:"status"`
	IsActive                  bool                `db:"is_active"`
	CommissionPercentage      decimal.NullDecimal `db:"commission_percentage"`
	CommissionStripeAccountID string              `db:"commission_stripe_account_id"`
	CardProcessingAccountID   string              `db:"card_processing_account_id"`
	SlaMs                     int                 `db:"sla_ms"`
	CreatedAt                 time.Time           `db:"created_at"`
	UpdatedAt                 time.Time           `db:"updated_at"`
}

func toRow(b *models.Banca) bancaRow {
	return bancaRow{
		ID:                        b.ID,
		Name:                      b.Name,
		Email:                     b.Email,
		RNC:                       b.RNC,
		Address:                   b.Address,
		Phone:                     b.Phone,
		IntegrationType:           string(b.IntegrationType),
		AuthType:                  string(b.AuthType),
		Endpoint:                  b.Endpoint,
		ClientID:                  b.ClientID,
		ClientSecretHash:          b.ClientSecretHash,
		HMACSecret:                b.HMACSecret,
		Status:                    string(b.Status),
		IsActive:                  b.IsActive,
		CommissionPercentage:      b.CommissionPercentage,
		CommissionStripeAccountID: b.CommissionStripeAccountID,
		CardProcessingAccountID:   b.CardProcessingAccountID,
		SlaMs:                     b.SlaMs,
		CreatedAt:                 b.CreatedAt,
		UpdatedAt:                 b.UpdatedAt,
	}
}

func (r bancaRow) toModel() *models.Banca {
	return &models.Banca{
		ID:                        r.ID,
		Name:                      r.Name,
		Email:                     r.Email,
		RNC:                       r.RNC,
		Address:                   r.Address,
		Phone:                     r.Phone,
		IntegrationType:           models.IntegrationType(r.IntegrationType),
		AuthType:                  models.AuthType(r.AuthType),
		Endpoint:                  r.Endpoint,
		ClientID:                  r.ClientID,
		ClientSecretHash:          r.ClientSecretHash,
		HMACSecret:                r.HMACSecret,
		Status:                    models.Status(r.Status),
		IsActive:                  r.IsActive,
		CommissionPercentage:      r.CommissionPercentage,
		CommissionStripeAccountID: r.CommissionStripeAccountID,
		CardProcessingAccountID:   r.CardProcessingAccountID,
		SlaMs:                     r.SlaMs,
		CreatedAt:                 r.CreatedAt,
		UpdatedAt:                 r.UpdatedAt,
	}
}

// PostgresStore persists Bancas in PostgreSQL via sqlx.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// mapWriteErr converts unique index violations into store sentinels.
func mapWriteErr(op string, err error) error {
	if constraint, ok := postgres.UniqueViolation(err); ok {
		switch constraint {
		case nameIndex:
			return ErrNameTaken
		case emailIndex:
			return ErrEmailTaken
		case clientIDIndex:
			return fmt.Errorf("%s: client id: %w", op, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("%s: %w", op, sentinel.ErrAlreadyUsed)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Create inserts b. Name is checked before email so that a request clashing
// on both reports the name, matching the in-memory store.
func (s *PostgresStore) Create(ctx context.Context, b *models.Banca) error {
	return tx.Run(ctx, s.db, func(ctx context.Context, t *sqlx.Tx) error {
		if err := checkTaken(ctx, t, `SELECT EXISTS (SELECT 1 FROM bancas WHERE LOWER(name) = LOWER($1))`, b.Name, ErrNameTaken); err != nil {
			return err
		}
		if err := checkTaken(ctx, t, `SELECT EXISTS (SELECT 1 FROM bancas WHERE LOWER(email) = LOWER($1))`, b.Email, ErrEmailTaken); err != nil {
			return err
		}
		_, err := t.NamedExecContext(ctx, `
			INSERT INTO bancas (
				id, name, email, rnc, address, phone, integration_type, auth_type,
				endpoint, client_id, client_secret_hash, hmac_secret, status, is_active,
				commission_percentage, commission_stripe_account_id, card_processing_account_id,
				sla_ms, created_at, updated_at
			) VALUES (
				:id, :name, :email, NULLIF(:rnc, ''), NULLIF(:address, ''), NULLIF(:phone, ''),
				:integration_type, :auth_type, NULLIF(:endpoint, ''), NULLIF(:client_id, ''),
				NULLIF(:client_secret_hash, ''), NULLIF(:hmac_secret, ''), :status, :is_active,
				:commission_percentage, NULLIF(:commission_stripe_account_id, ''),
				NULLIF(:card_processing_account_id, ''), :sla_ms, :created_at, :updated_at
			)`, toRow(b))
		if err != nil {
			return mapWriteErr("insert banca", err)
		}
		return nil
	})
}

func checkTaken(ctx context.Context, t *sqlx.Tx, query, value string, taken error) error {
	var exists bool
	if err := t.GetContext(ctx, &exists, query, value); err != nil {
		return fmt.Errorf("check banca uniqueness: %w", err)
	}
	if exists {
		return taken
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, bancaID id.BancaID) (*models.Banca, error) {
	return s.findOne(ctx, `SELECT `+selectColumns+` FROM bancas WHERE id = $1`, bancaID)
}

func (s *PostgresStore) FindByClientID(ctx context.Context, clientID string) (*models.Banca, error) {
	return s.findOne(ctx, `SELECT `+selectColumns+` FROM bancas WHERE client_id = $1`, clientID)
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg any) (*models.Banca, error) {
	var row bancaRow
	if err := s.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find banca: %w", err)
	}
	return row.toModel(), nil
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]*models.Banca, error) {
	var status sql.NullString
	if filter.Status != nil {
		status = sql.NullString{String: string(*filter.Status), Valid: true}
	}
	var rows []bancaRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+selectColumns+`
		FROM bancas
		WHERE ($1 = FALSE OR is_active)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC`, filter.ActiveOnly, status)
	if err != nil {
		return nil, fmt.Errorf("list bancas: %w", err)
	}
	out := make([]*models.Banca, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

// Execute locks the row with SELECT ... FOR UPDATE, runs validate and mutate,
// and writes the result back in the same transaction.
func (s *PostgresStore) Execute(ctx context.Context, bancaID id.BancaID, validate func(*models.Banca) error, mutate func(*models.Banca)) (*models.Banca, error) {
	var result *models.Banca
	err := tx.Run(ctx, s.db, func(ctx context.Context, t *sqlx.Tx) error {
		var row bancaRow
		if err := t.GetContext(ctx, &row, `SELECT `+selectColumns+` FROM bancas WHERE id = $1 FOR UPDATE`, bancaID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("lock banca: %w", err)
		}
		b := row.toModel()
		if err := validate(b); err != nil {
			return err
		}
		mutate(b)
		_, err := t.NamedExecContext(ctx, `
			UPDATE bancas SET
				name = :name,
				email = :email,
				rnc = NULLIF(:rnc, ''),
				address = NULLIF(:address, ''),
				phone = NULLIF(:phone, ''),
				integration_type = :integration_type,
				auth_type = :auth_type,
				endpoint = NULLIF(:endpoint, ''),
				client_id = NULLIF(:client_id, ''),
				client_secret_hash = NULLIF(:client_secret_hash, ''),
				hmac_secret = NULLIF(:hmac_secret, ''),
				status = :status,
				is_active = :is_active,
				commission_percentage = :commission_percentage,
				commission_stripe_account_id = NULLIF(:commission_stripe_account_id, ''),
				card_processing_account_id = NULLIF(:card_processing_account_id, ''),
				sla_ms = :sla_ms,
				updated_at = :updated_at
			WHERE id = :id`, toRow(b))
		if err != nil {
			return mapWriteErr("update banca", err)
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
