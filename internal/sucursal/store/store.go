// Package store persists Sucursales in memory or PostgreSQL.
package store

import (
	"fmt"

	"lotolink/pkg/platform/sentinel"
)

var (
	ErrNotFound  = sentinel.ErrNotFound
	ErrCodeTaken = fmt.Errorf("sucursal code: %w", sentinel.ErrAlreadyUsed)
	// ErrBancaMissing is returned when the owning Banca row disappeared
	// between the existence check and the insert.
	ErrBancaMissing = fmt.Errorf("owning banca: %w", sentinel.ErrNotFound)
)
