package export

import (
	"errors"
	"fmt"
)

// Export errors.
var (
	ErrEmptyPassword      = errors.New("password is required")
	ErrInvalidKDF         = errors.New("invalid KDF parameters")
	ErrUnsupportedFormat  = errors.New("unsupported export format")
	ErrInvalidEncString   = errors.New("invalid encrypted string")
	ErrUnsupportedEncType = errors.New("unsupported encryption type")
	ErrMACMismatch        = errors.New("MAC verification failed")
	ErrInvalidPadding     = errors.New("invalid padding")
	ErrWrongPassword      = errors.New("wrong password or corrupted export")
	ErrNotEncrypted       = errors.New("export is not password protected")
)

// ExportError reports a failure of the export engine. Op names the stage
// that failed.
type ExportError struct {
	Op  string
	Err error
}

func (e *ExportError) Error() string {
	if e.Err == nil {
		return "export failed: " + e.Op
	}
	return fmt.Sprintf("export failed: %s: %v", e.Op, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// IsExportFailure returns true if the error is an export engine error.
func IsExportFailure(err error) bool {
	var exportErr *ExportError
	return errors.As(err, &exportErr)
}

func opError(op string, err error) error {
	return &ExportError{Op: op, Err: err}
}
