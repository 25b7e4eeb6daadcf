package input

import (
	"errors"
	"fmt"
)

// Common decoding errors.
var (
	// ErrNotArray is returned when the top-level JSON value is not an array.
	ErrNotArray = errors.New("expected a JSON array")

	// ErrMissingField is returned when a required field is absent or null.
	ErrMissingField = errors.New("missing required field")
)

// MalformedInputError indicates that one of the JSON arguments does not match
// its schema. The whole argument is rejected.
type MalformedInputError struct {
	Input   string // Argument name: "folders" or "ciphers"
	Index   int    // Offending element, or -1 for the whole document
	Details string // What was wrong
	Err     error  // Underlying error, if any
}

func (e *MalformedInputError) Error() string {
	where := e.Input
	if e.Index >= 0 {
		where = fmt.Sprintf("%s[%d]", e.Input, e.Index)
	}

	msg := "malformed " + where
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// IsMalformedInput returns true if the error is a malformed input error.
func IsMalformedInput(err error) bool {
	var malformed *MalformedInputError
	return errors.As(err, &malformed)
}
