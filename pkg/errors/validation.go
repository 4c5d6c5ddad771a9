package errors

import (
	"strings"
	"unicode"
)

// ValidateScenePath validates a scene file path before it is handed to
// external tools (usdcat, deadlinecommand). It rejects values that could be
// used for argument injection or that cannot be a usable file path.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - Maximum length of 4096 characters
//
// Existence of the file is checked separately by the caller.
func ValidateScenePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "scene path cannot be empty")
	}

	if len(path) > 4096 {
		return New(ErrCodeInvalidPath, "scene path too long (max 4096 characters)")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "scene path contains control characters")
		}
	}

	if strings.Contains(path, "\x00") {
		return New(ErrCodeInvalidPath, "scene path contains null byte")
	}

	return nil
}

// ValidatePrimPattern validates a prim path or selection pattern supplied by
// the user. Wildcards (*) are allowed; segment characters are otherwise
// unconstrained apart from control characters, matching the looseness of
// the scene-description format itself.
func ValidatePrimPattern(pattern string) error {
	if pattern == "" {
		return New(ErrCodeInvalidPattern, "prim pattern cannot be empty")
	}

	if len(pattern) > 1024 {
		return New(ErrCodeInvalidPattern, "prim pattern too long (max 1024 characters)")
	}

	for _, r := range pattern {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPattern, "prim pattern contains control characters")
		}
	}

	return nil
}
