// Package credentials issues and verifies the client credentials handed to
// approved Bancas.
package credentials

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/bcrypt"

	dErrors "lotolink/pkg/domain-errors"
)

const (
	ClientIDPrefix = "client_"
	clientIDBytes  = 16
	secretBytes    = 32
)

// Credentials is the plaintext triple returned once on approval or rotation.
type Credentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	HMACSecret   string `json:"hmac_secret"`
}

// Generator draws credentials from a random source.
type Generator struct {
	random io.Reader
}

// NewGenerator returns a Generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{random: rand.Reader}
}

// NewGeneratorWithReader is used by tests to make output deterministic.
func NewGeneratorWithReader(r io.Reader) *Generator {
	return &Generator{random: r}
}

// Generate returns a fresh, independent credential triple.
func (g *Generator) Generate() (Credentials, error) {
	idRaw, err := g.read(clientIDBytes)
	if err != nil {
		return Credentials{}, err
	}
	secretRaw, err := g.read(secretBytes)
	if err != nil {
		return Credentials{}, err
	}
	hmacRaw, err := g.read(secretBytes)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{
		ClientID:     ClientIDPrefix + hex.EncodeToString(idRaw),
		ClientSecret: base64.StdEncoding.EncodeToString(secretRaw),
		HMACSecret:   base64.StdEncoding.EncodeToString(hmacRaw),
	}, nil
}

func (g *Generator) read(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(g.random, buf); err != nil {
		return nil, fmt.Errorf("could not read random bytes: %w", err)
	}
	return buf, nil
}

// Hash creates a bcrypt hash of the client secret for storage.
func Hash(secret string) (string, error) {
	if secret == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "secret cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "secret is too long")
		}
		return "", fmt.Errorf("could not hash secret: %w", err)
	}
	return string(hashed), nil
}

// Verify checks if a plaintext secret matches a bcrypt hash.
func Verify(secret, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dErrors.New(dErrors.CodeInvalidInput, "invalid secret")
		}
		return fmt.Errorf("could not verify secret: %w", err)
	}
	return nil
}
