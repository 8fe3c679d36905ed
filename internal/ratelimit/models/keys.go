package models

import "strings"

const (
	attemptKeyPrefix = "admin_code:attempts:"
	requestKeyPrefix = "ratelimit:"
)

// SanitizeKeySegment escapes delimiter characters in key segments so a
// user-controlled identifier containing ':' cannot address another key.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// AttemptKey is the storage key for a user's attempt record.
func AttemptKey(userID string) string {
	return attemptKeyPrefix + SanitizeKeySegment(userID)
}

// AttemptKeyPattern matches every attempt key, for SCAN.
func AttemptKeyPattern() string {
	return attemptKeyPrefix + "*"
}

// RequestKey is the bucket key for identifier under class.
func RequestKey(class EndpointClass, identifier string) string {
	return requestKeyPrefix + string(class) + ":" + SanitizeKeySegment(identifier)
}
