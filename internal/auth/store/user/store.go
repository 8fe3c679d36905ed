// Package user persists user accounts.
package user

import (
	"fmt"

	"lotolink/pkg/platform/sentinel"
)

var (
	ErrNotFound      = sentinel.ErrNotFound
	ErrPhoneTaken    = fmt.Errorf("user phone: %w", sentinel.ErrAlreadyUsed)
	ErrIdentityTaken = fmt.Errorf("oauth identity: %w", sentinel.ErrAlreadyUsed)
)
