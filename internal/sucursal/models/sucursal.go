package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"maps"
	"time"

	id "lotolink/pkg/domain"
	dErrors "lotolink/pkg/domain-errors"
)

// Ticket printing defaults applied to new branches.
const (
	DefaultShowBarcode  = true
	DefaultShowQR       = false
	DefaultValidityDays = 60
)

// TicketConfig controls how a branch prints tickets.
type TicketConfig struct {
	HeaderLogo   string            `json:"header_logo,omitempty"`
	FooterText   string            `json:"footer_text,omitempty"`
	ShowBarcode  bool              `json:"show_barcode"`
	ShowQR       bool              `json:"show_qr"`
	ValidityDays int               `json:"validity_days"`
	CustomFields map[string]string `json:"custom_fields,omitempty"`
}

func DefaultTicketConfig() TicketConfig {
	return TicketConfig{
		ShowBarcode:  DefaultShowBarcode,
		ShowQR:       DefaultShowQR,
		ValidityDays: DefaultValidityDays,
	}
}

// Value stores the config as JSONB.
func (c TicketConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *TicketConfig) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*c = DefaultTicketConfig()
		return nil
	default:
		return errors.New("ticket config: unsupported column type")
	}
	cfg := DefaultTicketConfig()
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return err
	}
	*c = cfg
	return nil
}

// Sucursal is a branch office owned by a Banca.
//
// Invariants:
//   - BancaID references an existing Banca and never changes
//   - (BancaID, Code) is unique; the same code may repeat under other Bancas
//   - CreatedAt is immutable; UpdatedAt moves on every mutation
type Sucursal struct {
	ID             id.SucursalID `json:"id"`
	BancaID        id.BancaID    `json:"banca_id"`
	Name           string        `json:"name"`
	Code           string        `json:"code"`
	Address        string        `json:"address,omitempty"`
	City           string        `json:"city,omitempty"`
	Phone          string        `json:"phone,omitempty"`
	OperatorPrefix string        `json:"operator_prefix,omitempty"`
	IsActive       bool          `json:"is_active"`
	TicketConfig   TicketConfig  `json:"ticket_config"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func NewSucursal(sucursalID id.SucursalID, bancaID id.BancaID, name, code string, now time.Time) (*Sucursal, error) {
	if bancaID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "banca id is required")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "sucursal name cannot be empty")
	}
	if code == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "sucursal code cannot be empty")
	}
	return &Sucursal{
		ID:           sucursalID,
		BancaID:      bancaID,
		Name:         name,
		Code:         code,
		IsActive:     true,
		TicketConfig: DefaultTicketConfig(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *Sucursal) ApplyActivation(now time.Time) {
	s.IsActive = true
	s.UpdatedAt = now
}

func (s *Sucursal) ApplyDeactivation(now time.Time) {
	s.IsActive = false
	s.UpdatedAt = now
}

// TicketConfigPatch carries a partial ticket config. Nil fields keep their
// current value. A non-nil CustomFields replaces the whole map.
type TicketConfigPatch struct {
	HeaderLogo   *string           `json:"header_logo" validate:"omitempty,max=2048"`
	FooterText   *string           `json:"footer_text" validate:"omitempty,max=512"`
	ShowBarcode  *bool             `json:"show_barcode"`
	ShowQR       *bool             `json:"show_qr"`
	ValidityDays *int              `json:"validity_days" validate:"omitempty,gte=1,lte=365"`
	CustomFields map[string]string `json:"custom_fields" validate:"omitempty,max=20,dive,keys,max=64,endkeys,max=256"`
}

// MergeInto returns cfg with the patch applied.
func (p TicketConfigPatch) MergeInto(cfg TicketConfig) TicketConfig {
	if p.HeaderLogo != nil {
		cfg.HeaderLogo = *p.HeaderLogo
	}
	if p.FooterText != nil {
		cfg.FooterText = *p.FooterText
	}
	if p.ShowBarcode != nil {
		cfg.ShowBarcode = *p.ShowBarcode
	}
	if p.ShowQR != nil {
		cfg.ShowQR = *p.ShowQR
	}
	if p.ValidityDays != nil {
		cfg.ValidityDays = *p.ValidityDays
	}
	if p.CustomFields != nil {
		cfg.CustomFields = maps.Clone(p.CustomFields)
	}
	return cfg
}

// ApplyTicketConfig merges p into the current config.
func (s *Sucursal) ApplyTicketConfig(p TicketConfigPatch, now time.Time) {
	s.TicketConfig = p.MergeInto(s.TicketConfig)
	s.UpdatedAt = now
}

// Clone returns a deep copy safe to hand out of a store.
func (s *Sucursal) Clone() *Sucursal {
	c := *s
	c.TicketConfig.CustomFields = maps.Clone(s.TicketConfig.CustomFields)
	return &c
}
