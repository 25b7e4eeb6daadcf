package model

import (
	"time"

	"github.com/google/uuid"
)

// Folder is a named container that ciphers reference by ID.
type Folder struct {
	ID   uuid.UUID
	Name string
}

// Cipher is a single vault item in its canonical export shape.
type Cipher struct {
	// ID is generated on conversion and never derived from input.
	ID uuid.UUID

	// FolderID references a Folder.ID from the same export, or nil.
	FolderID *uuid.UUID

	Name  string
	Notes *string

	// Type selects which payload is set. Only CipherTypeLogin is produced.
	Type  CipherType
	Login *Login

	Favorite bool
	Reprompt RepromptType

	// Fields holds custom fields. Empty, never nil, for converted records.
	Fields []Field

	CreationDate time.Time
	RevisionDate time.Time

	// DeletedDate is set only for soft-deleted items.
	DeletedDate *time.Time
}

// Login is the payload of a CipherTypeLogin item.
type Login struct {
	Username *string
	Password *string
	URIs     []LoginURI
	TOTP     *string
}

// LoginURI is one URI of a login together with an optional match override.
type LoginURI struct {
	URI   *string
	Match *URIMatchType
}

// Field is a custom name/value pair on a cipher.
type Field struct {
	Name  *string
	Value *string
	Type  FieldType
}

// IsDeleted reports whether the cipher is soft-deleted.
func (c *Cipher) IsDeleted() bool {
	return c != nil && c.DeletedDate != nil
}
