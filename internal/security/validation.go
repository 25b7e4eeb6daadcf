// Package security provides input limits and helpers for handling sensitive data.
package security

import (
	"errors"
	"fmt"
)

// Size limits. They guard against resource exhaustion only; any vault that
// fits in MaxInputSize is accepted.
const (
	// MaxInputSize caps each JSON argument, in bytes.
	MaxInputSize = 64 << 20

	// MaxFieldLength caps a single string field. A string decoded from an
	// argument within MaxInputSize never exceeds it.
	MaxFieldLength = MaxInputSize
)

// ErrInputTooLarge is returned when an argument exceeds MaxInputSize.
var ErrInputTooLarge = errors.New("input too large")

// ValidateInputSize checks the byte length of a raw argument.
func ValidateInputSize(n int) error {
	if n > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, n, MaxInputSize)
	}
	return nil
}

// ValidateStringLength validates that a string is within allowed length.
func ValidateStringLength(s string, maxLen int, fieldName string) error {
	if len(s) > maxLen {
		return fmt.Errorf("%s exceeds maximum length of %d bytes", fieldName, maxLen)
	}
	return nil
}

// ValidateOptionalString is ValidateStringLength for fields that may be absent.
func ValidateOptionalString(s *string, maxLen int, fieldName string) error {
	if s == nil {
		return nil
	}
	return ValidateStringLength(*s, maxLen, fieldName)
}
