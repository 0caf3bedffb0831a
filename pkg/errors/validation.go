package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateOutputPath validates a user supplied output path before any file is written.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - Maximum length of 500 characters
//   - The path must not resolve to a directory marker ("." or "/")
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	if len(path) > 500 {
		return New(ErrCodeInvalidPath, "output path too long (max 500 characters)")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid control characters")
		}
	}

	clean := filepath.Clean(path)
	if clean == "." || clean == string(filepath.Separator) || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path %q names a directory", path)
	}

	return nil
}

// ValidateDimension checks that a viewport dimension is a finite number.
// Zero and negative values pass: the layout engine clamps them to a safe minimum.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidViewport, "%s must be a finite number", name)
	}
	if v > 100_000 {
		return New(ErrCodeInvalidViewport, "%s too large (max 100000)", name)
	}
	return nil
}
