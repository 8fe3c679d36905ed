// Package store persists Bancas in memory or PostgreSQL.
//
// Both stores enforce case-insensitive name and email uniqueness, checking
// name before email, and run Execute callbacks while holding the record lock.
package store

import (
	"fmt"

	"lotolink/internal/banca/models"
	"lotolink/pkg/platform/sentinel"
)

var (
	ErrNotFound   = sentinel.ErrNotFound
	ErrNameTaken  = fmt.Errorf("banca name: %w", sentinel.ErrAlreadyUsed)
	ErrEmailTaken = fmt.Errorf("banca email: %w", sentinel.ErrAlreadyUsed)
)

// ListFilter narrows List results.
type ListFilter struct {
	ActiveOnly bool
	Status     *models.Status
}
