package errors

import (
	"strings"
	"unicode"
)

// Length limits for user-supplied identifiers. Maven Central coordinate
// parts are typically well under 100 characters; 200 is a conservative,
// documented cap. Free-text search queries get a larger budget.
const (
	MaxCoordinatePartLen = 200
	MaxQueryLen          = 1000
)

// ValidateCoordinatePart validates a single Maven coordinate field (group
// id, artifact id, or version) for safety and correctness. It rejects
// values that could be used for path traversal when the part is embedded
// in a repository URL.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only values
//   - No control characters or null bytes
//   - No path separators or traversal sequences (/, \, ..)
//   - Maximum length of 200 characters
//
// The name parameter is used in error messages (e.g. "group_id").
func ValidateCoordinatePart(name, value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return New(ErrCodeInvalidCoordinate, "%s must be non-empty", name)
	}

	if len(v) > MaxCoordinatePartLen {
		return New(ErrCodeInvalidCoordinate, "%s exceeds maximum length %d", name, MaxCoordinatePartLen)
	}

	for _, r := range v {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCoordinate, "%s contains control characters", name)
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(v, pattern) {
			return New(ErrCodeInvalidCoordinate, "%s contains illegal characters: %q", name, pattern)
		}
	}

	return nil
}

// ValidateQuery validates a free-text search query.
// Empty and oversized queries are rejected before any network call.
func ValidateQuery(query string) error {
	q := strings.TrimSpace(query)
	if q == "" {
		return New(ErrCodeInvalidInput, "query must be non-empty")
	}
	if len(q) > MaxQueryLen {
		return New(ErrCodeInvalidInput, "query exceeds maximum length %d", MaxQueryLen)
	}
	return nil
}
