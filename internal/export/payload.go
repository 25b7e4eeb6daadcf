package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nvinuesa/bwexporter/internal/model"
)

// DateLayout is the timestamp format of payload dates.
const DateLayout = "2006-01-02T15:04:05.000Z"

// Payload is the plaintext vault document that gets encrypted into the
// envelope's data field.
type Payload struct {
	Encrypted bool            `json:"encrypted"`
	Folders   []PayloadFolder `json:"folders"`
	Items     []PayloadItem   `json:"items"`
}

// PayloadFolder is a folder in the plaintext document.
type PayloadFolder struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// PayloadItem is a cipher in the plaintext document.
type PayloadItem struct {
	ID             uuid.UUID      `json:"id"`
	OrganizationID *uuid.UUID     `json:"organizationId"`
	FolderID       *uuid.UUID     `json:"folderId"`
	Type           int            `json:"type"`
	Reprompt       int            `json:"reprompt"`
	Name           string         `json:"name"`
	Notes          *string        `json:"notes"`
	Favorite       bool           `json:"favorite"`
	Fields         []PayloadField `json:"fields,omitempty"`
	Login          *PayloadLogin  `json:"login,omitempty"`
	CollectionIDs  []uuid.UUID    `json:"collectionIds"`
	RevisionDate   string         `json:"revisionDate"`
	CreationDate   string         `json:"creationDate"`
	DeletedDate    *string        `json:"deletedDate"`
}

// PayloadLogin is the login part of an item.
type PayloadLogin struct {
	Username *string           `json:"username"`
	Password *string           `json:"password"`
	URIs     []PayloadLoginURI `json:"uris"`
	TOTP     *string           `json:"totp"`
}

// PayloadLoginURI is one login URI.
type PayloadLoginURI struct {
	Match *int    `json:"match"`
	URI   *string `json:"uri"`
}

// PayloadField is a custom field.
type PayloadField struct {
	Name  *string `json:"name"`
	Value *string `json:"value"`
	Type  int     `json:"type"`
}

// NewPayload builds the plaintext document from canonical records.
func NewPayload(folders []model.Folder, ciphers []model.Cipher) *Payload {
	p := &Payload{
		Encrypted: false,
		Folders:   make([]PayloadFolder, 0, len(folders)),
		Items:     make([]PayloadItem, 0, len(ciphers)),
	}

	for _, f := range folders {
		p.Folders = append(p.Folders, PayloadFolder{ID: f.ID, Name: f.Name})
	}
	for i := range ciphers {
		p.Items = append(p.Items, mapItem(&ciphers[i]))
	}

	return p
}

// mapItem converts a model.Cipher into its plaintext form.
func mapItem(c *model.Cipher) PayloadItem {
	item := PayloadItem{
		ID:           c.ID,
		FolderID:     c.FolderID,
		Type:         int(c.Type),
		Reprompt:     int(c.Reprompt),
		Name:         c.Name,
		Notes:        c.Notes,
		Favorite:     c.Favorite,
		RevisionDate: formatDate(c.RevisionDate),
		CreationDate: formatDate(c.CreationDate),
	}

	if c.DeletedDate != nil {
		deleted := formatDate(*c.DeletedDate)
		item.DeletedDate = &deleted
	}

	for _, f := range c.Fields {
		item.Fields = append(item.Fields, PayloadField{
			Name:  f.Name,
			Value: f.Value,
			Type:  int(f.Type),
		})
	}

	if c.Login != nil {
		login := &PayloadLogin{
			Username: c.Login.Username,
			Password: c.Login.Password,
			URIs:     make([]PayloadLoginURI, 0, len(c.Login.URIs)),
			TOTP:     c.Login.TOTP,
		}
		for _, u := range c.Login.URIs {
			entry := PayloadLoginURI{URI: u.URI}
			if u.Match != nil {
				m := int(*u.Match)
				entry.Match = &m
			}
			login.URIs = append(login.URIs, entry)
		}
		item.Login = login
	}

	return item
}

func formatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Marshal serializes the payload as indented JSON without HTML escaping.
func (p *Payload) Marshal() ([]byte, error) {
	return marshalIndent(p)
}

// ParsePayload decodes a plaintext document.
func ParsePayload(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse payload: %w", err)
	}
	return &p, nil
}

// marshalIndent encodes v with two-space indentation and no trailing newline.
func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
