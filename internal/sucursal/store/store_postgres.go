package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"lotolink/internal/platform/postgres"
	"lotolink/internal/sucursal/models"
	id "lotolink/pkg/domain"
	"lotolink/pkg/platform/tx"
)

const codeConstraint = "sucursales_banca_code_key"

const selectColumns = `
	id, banca_id, name, code,
	COALESCE(address, '') AS address,
	COALESCE(city, '') AS city,
	COALESCE(phone, '') AS phone,
	COALESCE(operator_prefix, '') AS operator_prefix,
	is_active, ticket_config, created_at, updated_at`

type sucursalRow struct {
	ID             id.SucursalID       `db:"id"`
	BancaID        id.BancaID          `db:"banca_id"`
	Name           string              `db:"name"`
	Code           string              `db:"code"`
	Address        string              `db:"address"`
	City           string              `db:"city"`
	Phone          string              `db:"phone"`
	OperatorPrefix string              `db:"operator_prefix"`
	IsActive       bool                `db:"is_active"`
	TicketConfig   models.TicketConfig `db:"ticket_config"`
	CreatedAt      time.Time           `db:"created_at"`
	UpdatedAt      time.Time           `db:"updated_at"`
}

func toRow(s *models.Sucursal) sucursalRow {
	return sucursalRow{
		ID:             s.ID,
		BancaID:        s.BancaID,
		Name:           s.Name,
		Code:           s.Code,
		Address:        s.Address,
		City:           s.City,
		Phone:          s.Phone,
		OperatorPrefix: s.OperatorPrefix,
		IsActive:       s.IsActive,
		TicketConfig:   s.TicketConfig,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func (r sucursalRow) toModel() *models.Sucursal {
	return &models.Sucursal{
		ID:             r.ID,
		BancaID:        r.BancaID,
		Name:           r.Name,
		Code:           r.Code,
		Address:        r.Address,
		City:           r.City,
		Phone:          r.Phone,
		OperatorPrefix: r.OperatorPrefix,
		IsActive:       r.IsActive,
		TicketConfig:   r.TicketConfig,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// PostgresStore persists Sucursales in PostgreSQL via sqlx.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func mapWriteErr(op string, err error) error {
	if constraint, ok := postgres.UniqueViolation(err); ok && constraint == codeConstraint {
		return ErrCodeTaken
	}
	if postgres.ForeignKeyViolation(err) {
		return ErrBancaMissing
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *PostgresStore) Create(ctx context.Context, sucursal *models.Sucursal) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO sucursales (
			id, banca_id, name, code, address, city, phone, operator_prefix,
			is_active, ticket_config, created_at, updated_at
		) VALUES (
			:id, :banca_id, :name, :code, NULLIF(:address, ''), NULLIF(:city, ''),
			NULLIF(:phone, ''), NULLIF(:operator_prefix, ''), :is_active, :ticket_config,
			:created_at, :updated_at
		)`, toRow(sucursal))
	if err != nil {
		return mapWriteErr("insert sucursal", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, sucursalID id.SucursalID) (*models.Sucursal, error) {
	var row sucursalRow
	if err := s.db.GetContext(ctx, &row, `SELECT `+selectColumns+` FROM sucursales WHERE id = $1`, sucursalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find sucursal: %w", err)
	}
	return row.toModel(), nil
}

func (s *PostgresStore) ListByBanca(ctx context.Context, bancaID id.BancaID) ([]*models.Sucursal, error) {
	var rows []sucursalRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+selectColumns+` FROM sucursales WHERE banca_id = $1 ORDER BY code`, bancaID); err != nil {
		return nil, fmt.Errorf("list sucursales: %w", err)
	}
	out := make([]*models.Sucursal, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

// Execute locks the row with SELECT ... FOR UPDATE, runs validate and mutate,
// and writes the result back in the same transaction.
func (s *PostgresStore) Execute(ctx context.Context, sucursalID id.SucursalID, validate func(*models.Sucursal) error, mutate func(*models.Sucursal)) (*models.Sucursal, error) {
	var result *models.Sucursal
	err := tx.Run(ctx, s.db, func(ctx context.Context, t *sqlx.Tx) error {
		var row sucursalRow
		if err := t.GetContext(ctx, &row, `SELECT `+selectColumns+` FROM sucursales WHERE id = $1 FOR UPDATE`, sucursalID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("lock sucursal: %w", err)
		}
		sucursal := row.toModel()
		if err := validate(sucursal); err != nil {
			return err
		}
		mutate(sucursal)
		_, err := t.NamedExecContext(ctx, `
			UPDATE sucursales SET
				name = :name,
				code = :code,
				address = NULLIF(:address, ''),
				city = NULLIF(:city, ''),
				phone = NULLIF(:phone, ''),
				operator_prefix = NULLIF(:operator_prefix, ''),
				is_active = :is_active,
				ticket_config = :ticket_config,
				updated_at = :updated_at
			WHERE id = :id`, toRow(sucursal))
		if err != nil {
			return mapWriteErr("update sucursal", err)
		}
		result = sucursal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PostgresStore) Delete(ctx context.Context, sucursalID id.SucursalID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sucursales WHERE id = $1`, sucursalID)
	if err != nil {
		return fmt.Errorf("delete sucursal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete sucursal: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
