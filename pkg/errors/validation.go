package errors

import (
	"math"
	"unicode"
)

// maxIDLength bounds element identifiers.
const maxIDLength = 256

// ValidateID checks an element identifier. what names the element kind in
// the message ("node", "port", ...).
//
// Rules:
//   - No empty IDs
//   - No control characters
//   - Maximum length of 256 bytes
func ValidateID(what, id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "%s id cannot be empty", what)
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "%s id too long (max %d characters)", what, maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "%s id %q contains control characters", what, id)
		}
	}
	return nil
}

// ValidateGridSize checks a spatial grid cell size. It must be a finite
// positive number; zero and negative sizes are rejected, never coerced.
func ValidateGridSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) {
		return New(ErrCodeInvalidConfig, "grid size must be finite, got %v", size)
	}
	if size <= 0 {
		return New(ErrCodeInvalidConfig, "grid size must be positive, got %v", size)
	}
	return nil
}
