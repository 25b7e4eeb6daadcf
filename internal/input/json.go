// Package input decodes the folder and credential JSON arrays passed on the
// command line.
package input

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nvinuesa/bwexporter/internal/security"
)

// Argument names used in error messages.
const (
	InputFolders = "folders"
	InputCiphers = "ciphers"
)

// Folder is a decoded folder object.
type Folder struct {
	ID   uuid.UUID
	Name string
}

// Cipher is a decoded login credential object.
type Cipher struct {
	FolderID  *uuid.UUID
	Name      string
	Notes     *string
	Username  *string
	Password  *string
	LoginURIs []string
}

// folderJSON holds the folder schema fields. Pointers distinguish absent or
// null fields from zero values.
type folderJSON struct {
	ID   *uuid.UUID
	Name *string
}

// cipherJSON holds the credential schema fields.
type cipherJSON struct {
	FolderID  *uuid.UUID
	Name      *string
	Notes     *string
	Username  *string
	Password  *string
	LoginURIs *[]*string
}

// object is one array element keyed by its exact field names. Keys that
// differ from the schema only in case are treated as unknown and ignored.
type object map[string]json.RawMessage

// field decodes the value under key into v. A missing key leaves v untouched
// and a JSON null sets the target pointer to nil.
func (o object) field(key string, v any) error {
	raw, ok := o[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("field %s: %w", key, err)
	}
	return nil
}

// binding pairs a schema key with its decode target.
type binding struct {
	key string
	v   any
}

// bind decodes each binding in order and stops at the first error.
func (o object) bind(bindings ...binding) error {
	for _, b := range bindings {
		if err := o.field(b.key, b.v); err != nil {
			return err
		}
	}
	return nil
}

// ParseFolders decodes a JSON array of {"id", "name"} objects.
func ParseFolders(data string) ([]Folder, error) {
	objs, err := decodeArray(InputFolders, data)
	if err != nil {
		return nil, err
	}

	folders := make([]Folder, 0, len(objs))
	for i, o := range objs {
		var r folderJSON
		if err := o.bind(binding{"id", &r.ID}, binding{"name", &r.Name}); err != nil {
			return nil, schemaError(InputFolders, i, err)
		}

		f, err := r.toFolder()
		if err != nil {
			return nil, &MalformedInputError{Input: InputFolders, Index: i, Err: err}
		}
		folders = append(folders, f)
	}

	return folders, nil
}

// ParseCiphers decodes a JSON array of login credential objects.
func ParseCiphers(data string) ([]Cipher, error) {
	objs, err := decodeArray(InputCiphers, data)
	if err != nil {
		return nil, err
	}

	ciphers := make([]Cipher, 0, len(objs))
	for i, o := range objs {
		var r cipherJSON
		err := o.bind(
			binding{"folderId", &r.FolderID},
			binding{"name", &r.Name},
			binding{"notes", &r.Notes},
			binding{"username", &r.Username},
			binding{"password", &r.Password},
			binding{"loginUris", &r.LoginURIs},
		)
		if err != nil {
			return nil, schemaError(InputCiphers, i, err)
		}

		c, err := r.toCipher()
		if err != nil {
			return nil, &MalformedInputError{Input: InputCiphers, Index: i, Err: err}
		}
		ciphers = append(ciphers, c)
	}

	return ciphers, nil
}

// decodeArray splits a top-level JSON array into its objects.
func decodeArray(name, data string) ([]object, error) {
	if err := security.ValidateInputSize(len(data)); err != nil {
		return nil, &MalformedInputError{Input: name, Index: -1, Err: err}
	}

	trimmed := bytes.TrimSpace([]byte(data))

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		details := "does not match schema"
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			details = "invalid JSON"
		}
		return nil, &MalformedInputError{Input: name, Index: -1, Details: details, Err: err}
	}

	// A slice also accepts a bare null.
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, &MalformedInputError{Input: name, Index: -1, Err: ErrNotArray}
	}

	objs := make([]object, len(elems))
	for i, e := range elems {
		if err := json.Unmarshal(e, &objs[i]); err != nil {
			return nil, schemaError(name, i, err)
		}
	}

	return objs, nil
}

func schemaError(name string, index int, err error) *MalformedInputError {
	return &MalformedInputError{Input: name, Index: index, Details: "does not match schema", Err: err}
}

func (r folderJSON) toFolder() (Folder, error) {
	if r.ID == nil {
		return Folder{}, fmt.Errorf("%w: id", ErrMissingField)
	}
	if r.Name == nil {
		return Folder{}, fmt.Errorf("%w: name", ErrMissingField)
	}

	return Folder{ID: *r.ID, Name: *r.Name}, nil
}

func (r cipherJSON) toCipher() (Cipher, error) {
	if r.Name == nil {
		return Cipher{}, fmt.Errorf("%w: name", ErrMissingField)
	}
	if r.LoginURIs == nil {
		return Cipher{}, fmt.Errorf("%w: loginUris", ErrMissingField)
	}

	uris := make([]string, 0, len(*r.LoginURIs))
	for i, u := range *r.LoginURIs {
		if u == nil {
			return Cipher{}, fmt.Errorf("%w: loginUris[%d] is null", ErrMissingField, i)
		}
		uris = append(uris, *u)
	}

	return Cipher{
		FolderID:  r.FolderID,
		Name:      *r.Name,
		Notes:     r.Notes,
		Username:  r.Username,
		Password:  r.Password,
		LoginURIs: uris,
	}, nil
}
