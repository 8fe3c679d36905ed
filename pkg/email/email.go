// Package email holds small helpers for user-supplied addresses.
package email

import (
	"strings"
	"unicode"
)

// Normalize trims and lowercases an address.
func Normalize(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// DisplayName builds a readable name from the local part of an address,
// e.g. "maria.perez+loto@example.com" becomes "Maria Perez Loto". Returns ""
// when nothing usable remains.
func DisplayName(addr string) string {
	local := addr
	if at := strings.IndexByte(addr, '@'); at >= 0 {
		local = addr[:at]
	}

	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+' || unicode.IsDigit(r)
	})
	for i, p := range parts {
		parts[i] = capitalize(strings.ToLower(p))
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
