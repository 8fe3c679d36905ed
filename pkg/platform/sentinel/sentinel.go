// Package sentinel holds the infrastructure-level errors returned by stores.
//
// Stores wrap these with fmt.Errorf("...: %w") and services translate them
// into pkg/domain-errors codes. They describe facts about stored records:
//   - ErrNotFound: no record for the key
//   - ErrAlreadyUsed: a unique attribute (name, email, phone, code) is taken
//   - ErrInvalidState: the record cannot take the requested transition
//   - ErrUnavailable: the backing store could not be reached
package sentinel

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
