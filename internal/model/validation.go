package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nvinuesa/bwexporter/internal/security"
)

// Validation errors.
var (
	ErrNilCipherID         = errors.New("cipher ID must not be nil UUID")
	ErrUnsupportedType     = errors.New("only login ciphers are supported")
	ErrMissingLogin        = errors.New("login cipher has no login payload")
	ErrMissingURI          = errors.New("login URI has no value")
	ErrInvalidReprompt     = errors.New("reprompt must be none or password")
	ErrMissingCreationDate = errors.New("creation date is required")
	ErrMissingRevisionDate = errors.New("revision date is required")
	ErrDuplicateFolder     = errors.New("duplicate folder ID")
	ErrUnknownFolder       = errors.New("cipher references unknown folder")
)

// Validate validates a folder.
func (f *Folder) Validate() error {
	return security.ValidateStringLength(f.Name, security.MaxFieldLength, "folder name")
}

// Validate validates the cipher based on its type.
func (c *Cipher) Validate() error {
	if c.ID == uuid.Nil {
		return ErrNilCipherID
	}

	if err := security.ValidateStringLength(c.Name, security.MaxFieldLength, "name"); err != nil {
		return err
	}
	if err := security.ValidateOptionalString(c.Notes, security.MaxFieldLength, "notes"); err != nil {
		return err
	}

	if c.Reprompt != RepromptNone && c.Reprompt != RepromptPassword {
		return ErrInvalidReprompt
	}
	if c.CreationDate.IsZero() {
		return ErrMissingCreationDate
	}
	if c.RevisionDate.IsZero() {
		return ErrMissingRevisionDate
	}

	switch c.Type {
	case CipherTypeLogin:
		return c.validateLogin()
	default:
		return fmt.Errorf("%w: got %s", ErrUnsupportedType, c.Type)
	}
}

func (c *Cipher) validateLogin() error {
	if c.Login == nil {
		return ErrMissingLogin
	}
	return ValidateLogin(c.Login)
}

// ValidateLogin validates a login payload.
func ValidateLogin(l *Login) error {
	if l == nil {
		return ErrMissingLogin
	}

	if err := security.ValidateOptionalString(l.Username, security.MaxFieldLength, "username"); err != nil {
		return err
	}
	if err := security.ValidateOptionalString(l.Password, security.MaxFieldLength, "password"); err != nil {
		return err
	}

	for i, u := range l.URIs {
		if u.URI == nil {
			return fmt.Errorf("uri %d: %w", i, ErrMissingURI)
		}
		if err := security.ValidateStringLength(*u.URI, security.MaxFieldLength, "URI"); err != nil {
			return fmt.Errorf("uri %d: %w", i, err)
		}
	}

	return nil
}

// ValidateReferences checks that folder IDs are unique and that every cipher
// folder reference resolves to one of the given folders.
func ValidateReferences(folders []Folder, ciphers []Cipher) error {
	known := make(map[uuid.UUID]struct{}, len(folders))
	for _, f := range folders {
		if _, ok := known[f.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateFolder, f.ID)
		}
		known[f.ID] = struct{}{}
	}

	for i, c := range ciphers {
		if c.FolderID == nil {
			continue
		}
		if _, ok := known[*c.FolderID]; !ok {
			return fmt.Errorf("cipher %d (%s): %w: %s", i, c.Name, ErrUnknownFolder, *c.FolderID)
		}
	}

	return nil
}

// ValidateAll validates every folder and cipher and returns all errors.
func ValidateAll(folders []Folder, ciphers []Cipher) []error {
	var errs []error
	for i := range folders {
		if err := folders[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("folder %d (%s): %w", i, folders[i].Name, err))
		}
	}
	for i := range ciphers {
		if err := ciphers[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("cipher %d (%s): %w", i, ciphers[i].Name, err))
		}
	}
	return errs
}
