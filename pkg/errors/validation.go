package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..) once cleaned
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Relative paths may not climb out of the working directory
	if !filepath.IsAbs(path) {
		clean := filepath.ToSlash(filepath.Clean(path))
		if clean == ".." || strings.HasPrefix(clean, "../") {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// ValidateCoords checks that coords has exactly dim finite components.
func ValidateCoords(coords []float64, dim int) error {
	if len(coords) != dim {
		return New(ErrCodeInvalidArgument, "expected %d coordinates, got %d", dim, len(coords))
	}
	for i, c := range coords {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return New(ErrCodeInvalidArgument, "coordinate %d is not finite: %v", i, c)
		}
	}
	return nil
}

// ValidateExponent checks that an exponent is finite and non-negative.
func ValidateExponent(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return New(ErrCodeInvalidArgument, "%s must be a finite non-negative number, got %v", name, v)
	}
	return nil
}
