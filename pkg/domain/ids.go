package domain

import (
	"database/sql/driver"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "lotolink/pkg/domain-errors"
)

// Typed identifiers. Each wraps a UUID so the compiler rejects passing a
// BancaID where a SucursalID is expected.
type (
	UserID     uuid.UUID
	BancaID    uuid.UUID
	SucursalID uuid.UUID
)

const maxIDLength = 64

// parseUUID enforces the shared invariant for all typed IDs:
// valid UTF-8, bounded length, parseable, and not the nil UUID.
func parseUUID(kind, s string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) > maxIDLength || !utf8.ValidString(s) {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return parsed, nil
}

// ParseUserID parses a user identifier from untrusted input.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID("user id", s)
	return UserID(u), err
}

// ParseBancaID parses a banca identifier from untrusted input.
func ParseBancaID(s string) (BancaID, error) {
	u, err := parseUUID("banca id", s)
	return BancaID(u), err
}

// ParseSucursalID parses a sucursal identifier from untrusted input.
func ParseSucursalID(s string) (SucursalID, error) {
	u, err := parseUUID("sucursal id", s)
	return SucursalID(u), err
}

func (id UserID) String() string     { return uuid.UUID(id).String() }
func (id BancaID) String() string    { return uuid.UUID(id).String() }
func (id SucursalID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id BancaID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id SucursalID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id UserID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id BancaID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id SucursalID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error     { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *BancaID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *SucursalID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

// Value and Scan let typed IDs travel through database/sql and sqlx unchanged.

func (id UserID) Value() (driver.Value, error)     { return uuid.UUID(id).Value() }
func (id BancaID) Value() (driver.Value, error)    { return uuid.UUID(id).Value() }
func (id SucursalID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }

func (id *UserID) Scan(src any) error     { return (*uuid.UUID)(id).Scan(src) }
func (id *BancaID) Scan(src any) error    { return (*uuid.UUID)(id).Scan(src) }
func (id *SucursalID) Scan(src any) error { return (*uuid.UUID)(id).Scan(src) }
