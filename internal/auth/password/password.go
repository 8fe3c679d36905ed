// Package password hashes user passwords with PBKDF2-SHA512.
//
// Stored format is "<salt hex>:<derived key hex>".
package password

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	dErrors "lotolink/pkg/domain-errors"
)

const (
	Iterations = 100_000
	SaltBytes  = 16
	KeyBytes   = 64
	MinLength  = 8
)

// Hasher derives password hashes. The zero value is not usable; use New.
type Hasher struct {
	rand       io.Reader
	iterations int
}

type Option func(*Hasher)

// WithRandReader replaces crypto/rand as the salt source.
func WithRandReader(r io.Reader) Option {
	return func(h *Hasher) {
		h.rand = r
	}
}

// WithIterations lowers the work factor. Tests only.
func WithIterations(n int) Option {
	return func(h *Hasher) {
		if n > 0 {
			h.iterations = n
		}
	}
}

func New(opts ...Option) *Hasher {
	h := &Hasher{rand: rand.Reader, iterations: Iterations}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hasher) Hash(plain string) (string, error) {
	salt := make([]byte, SaltBytes)
	if _, err := io.ReadFull(h.rand, salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key := pbkdf2.Key([]byte(plain), salt, h.iterations, KeyBytes, sha512.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// Verify compares plain against a stored hash in constant time.
// A malformed stored hash is an internal error, a mismatch is invalid input.
func (h *Hasher) Verify(plain, stored string) error {
	saltHex, keyHex, ok := strings.Cut(stored, ":")
	if !ok {
		return dErrors.New(dErrors.CodeInternal, "malformed password hash")
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "malformed password salt")
	}
	want, err := hex.DecodeString(keyHex)
	if err != nil || len(want) == 0 {
		return dErrors.New(dErrors.CodeInternal, "malformed password key")
	}
	got := pbkdf2.Key([]byte(plain), salt, h.iterations, len(want), sha512.New)
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return dErrors.New(dErrors.CodeInvalidInput, "password mismatch")
	}
	return nil
}
