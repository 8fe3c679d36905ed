//go:build go1.18

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseBancaID checks that parsing never panics and valid IDs round-trip.
func FuzzParseBancaID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("'; DROP TABLE bancas;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("550e8400-e29b-41d4-a716-446655440000\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseBancaID(input)

		if err == nil {
			roundTrip, err2 := ParseBancaID(id.String())
			if err2 != nil {
				t.Errorf("valid ID failed round-trip: %v", err2)
			}
			if roundTrip != id {
				t.Error("round-trip changed ID value")
			}
		}

		if !utf8.ValidString(input) && err == nil {
			t.Error("non-UTF8 input was accepted")
		}
	})
}

// FuzzParseAllIDs ensures all ID types accept and reject the same inputs.
func FuzzParseAllIDs(f *testing.F) {
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("")
	f.Add("invalid")

	f.Fuzz(func(t *testing.T, input string) {
		_, errUser := ParseUserID(input)
		_, errBanca := ParseBancaID(input)
		_, errSucursal := ParseSucursalID(input)

		if (errUser == nil) != (errBanca == nil) || (errUser == nil) != (errSucursal == nil) {
			t.Error("inconsistent parsing across ID types")
		}
	})
}
