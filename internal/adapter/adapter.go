// Package adapter converts decoded input records into canonical export records.
package adapter

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nvinuesa/bwexporter/internal/input"
	"github.com/nvinuesa/bwexporter/internal/model"
)

// Options configures record conversion.
type Options struct {
	// Now returns the timestamp used for creation and revision dates.
	Now func() time.Time
	// NewID returns the identifier of each converted cipher.
	NewID func() uuid.UUID
	// Logger receives conversion warnings.
	Logger *zap.Logger
}

// DefaultOptions returns Options backed by the wall clock and random UUIDs.
func DefaultOptions() Options {
	return Options{
		Now:    time.Now,
		NewID:  uuid.New,
		Logger: zap.NewNop(),
	}
}

// Adapter maps input records to model records.
type Adapter struct {
	now    func() time.Time
	newID  func() uuid.UUID
	logger *zap.Logger
}

// New creates an Adapter. Unset options fall back to DefaultOptions.
func New(opts Options) *Adapter {
	defaults := DefaultOptions()
	if opts.Now == nil {
		opts.Now = defaults.Now
	}
	if opts.NewID == nil {
		opts.NewID = defaults.NewID
	}
	if opts.Logger == nil {
		opts.Logger = defaults.Logger
	}

	return &Adapter{
		now:    opts.Now,
		newID:  opts.NewID,
		logger: opts.Logger,
	}
}

// Folders copies each input folder into a model.Folder, preserving order.
func (a *Adapter) Folders(in []input.Folder) []model.Folder {
	folders := make([]model.Folder, 0, len(in))
	for _, f := range in {
		folders = append(folders, model.Folder{
			ID:   f.ID,
			Name: f.Name,
		})
	}
	return folders
}

// Ciphers converts each input credential into a login model.Cipher,
// preserving order. The clock is read once so every record of a call
// carries the same timestamp.
func (a *Adapter) Ciphers(in []input.Cipher) []model.Cipher {
	now := a.timestamp()

	ciphers := make([]model.Cipher, 0, len(in))
	for i := range in {
		ciphers = append(ciphers, a.mapCipher(&in[i], now))
	}

	a.logger.Debug("converted ciphers", zap.Int("count", len(ciphers)))
	return ciphers
}

// mapCipher converts a single input credential.
func (a *Adapter) mapCipher(c *input.Cipher, now time.Time) model.Cipher {
	return model.Cipher{
		ID:           a.newID(),
		FolderID:     cloneUUID(c.FolderID),
		Name:         c.Name,
		Notes:        cloneString(c.Notes),
		Type:         model.CipherTypeLogin,
		Login:        a.mapLogin(c),
		Favorite:     false,
		Reprompt:     model.RepromptNone,
		Fields:       []model.Field{},
		CreationDate: now,
		RevisionDate: now,
		DeletedDate:  nil,
	}
}

// mapLogin wraps the credential's secrets and URIs into a login payload.
func (a *Adapter) mapLogin(c *input.Cipher) *model.Login {
	uris := make([]model.LoginURI, 0, len(c.LoginURIs))
	for _, raw := range c.LoginURIs {
		if !looksLikeURL(raw) {
			a.logger.Warn("login URI is not an absolute URL, keeping it verbatim",
				zap.String("cipher", c.Name),
				zap.String("uri", raw),
			)
		}
		uri := raw
		uris = append(uris, model.LoginURI{URI: &uri})
	}

	return &model.Login{
		Username: cloneString(c.Username),
		Password: cloneString(c.Password),
		URIs:     uris,
	}
}

// timestamp returns the current time in UTC at millisecond precision, the
// resolution of the export's date format.
func (a *Adapter) timestamp() time.Time {
	return a.now().UTC().Truncate(time.Millisecond)
}
