package attrs

import "fmt"

// ExtractString returns the value for key from a slog-style attribute slice
// ([key1, value1, key2, value2, ...]). Typed IDs and other fmt.Stringer
// values are rendered with String(). Returns "" when the key is absent.
func ExtractString(attrs []any, key string) string {
	for i := 0; i < len(attrs)-1; i += 2 {
		k, ok := attrs[i].(string)
		if !ok || k != key {
			continue
		}
		switch v := attrs[i+1].(type) {
		case string:
			return v
		case fmt.Stringer:
			return v.String()
		}
	}
	return ""
}
