// Package age enforces the minimum age for account holders.
package age

import (
	"context"
	"fmt"
	"strings"
	"time"

	dErrors "lotolink/pkg/domain-errors"
	"lotolink/pkg/requestcontext"
)

const DefaultMinimum = 18

const dateLayout = "2006-01-02"

type Verifier struct {
	minimum int
}

type Option func(*Verifier)

func WithMinimum(years int) Option {
	return func(v *Verifier) {
		if years > 0 {
			v.minimum = years
		}
	}
}

func NewVerifier(opts ...Option) *Verifier {
	v := &Verifier{minimum: DefaultMinimum}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ParseDateOfBirth accepts YYYY-MM-DD or an RFC 3339 timestamp and returns
// the calendar date at UTC midnight.
func ParseDateOfBirth(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "date of birth is required")
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "invalid date of birth format")
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// YearsAt returns whole years elapsed between dob and now. The birthday
// itself counts as completed.
func YearsAt(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

// ValidateAge parses dateOfBirth and checks the holder is at least the
// minimum age on the request date. It returns the parsed date.
func (v *Verifier) ValidateAge(ctx context.Context, dateOfBirth string) (time.Time, error) {
	dob, err := ParseDateOfBirth(dateOfBirth)
	if err != nil {
		return time.Time{}, err
	}
	now := requestcontext.Now(ctx).UTC()
	if dob.After(now) {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "date of birth cannot be in the future")
	}
	if YearsAt(dob, now) < v.minimum {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("you must be at least %d years old", v.minimum))
	}
	return dob, nil
}
