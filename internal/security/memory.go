package security

import (
	"crypto/subtle"
)

// SecureBytes wraps a byte slice and ensures it's zeroed when no longer needed.
type SecureBytes struct {
	data []byte
}

// FromString copies s into a new SecureBytes.
// The string itself cannot be cleared; only the copy is managed.
func FromString(s string) *SecureBytes {
	return &SecureBytes{data: []byte(s)}
}

// FromBytes creates a SecureBytes from existing bytes and clears the source.
func FromBytes(data []byte) *SecureBytes {
	s := &SecureBytes{
		data: make([]byte, len(data)),
	}
	copy(s.data, data)
	Clear(data)
	return s
}

// Bytes returns the underlying byte slice. Caller must not retain this reference.
func (s *SecureBytes) Bytes() []byte {
	if s == nil {
		return nil
	}
	return s.data
}

// Len returns the length of the secure bytes.
func (s *SecureBytes) Len() int {
	if s == nil {
		return 0
	}
	return len(s.data)
}

// Zero clears the bytes and releases the slice.
func (s *SecureBytes) Zero() {
	if s == nil || s.data == nil {
		return
	}
	Clear(s.data)
	s.data = nil
}

// Clear overwrites b with zeros.
func Clear(b []byte) {
	for i := range b {
		b[i] = 0
	}
	// Keeps the compiler from eliding the loop above.
	if len(b) > 0 {
		subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
	}
}

// Wipe is a convenience method to zero and nil out a slice.
// This should be called via defer to ensure cleanup.
func Wipe(data *[]byte) {
	if data == nil || *data == nil {
		return
	}
	Clear(*data)
	*data = nil
}
