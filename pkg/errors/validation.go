package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// assignmentRegex matches BRIDGES assignment identifiers such as "1", "1.0" or "12.3".
var assignmentRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ValidateAssignment validates an assignment identifier.
// Assignments are a number with an optional sub-assignment ("3" or "3.1").
func ValidateAssignment(assignment string) error {
	if assignment == "" {
		return New(ErrCodeInvalidAssignment, "assignment cannot be empty")
	}
	if !assignmentRegex.MatchString(assignment) {
		return New(ErrCodeInvalidAssignment, "invalid assignment %q (want N or N.M)", assignment)
	}
	return nil
}

// ValidateUserName validates a user name for use in URLs, object keys and subjects.
//
// The rules are conservative:
//   - No empty names
//   - No control characters or whitespace
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateUserName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "user name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "user name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "user name contains invalid characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "user name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
