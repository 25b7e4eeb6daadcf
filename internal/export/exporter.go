// Package export produces password-protected encrypted JSON vault exports.
//
// Key derivation:
//   - PBKDF2-HMAC-SHA256 (default, 600000 iterations) or Argon2id
//   - 16-byte random salt, stored base64 in the envelope
//   - master key stretched with HKDF-Expand into encryption and MAC keys
//
// Encryption:
//   - AES-256-CBC with a random IV per value, PKCS#7 padding
//   - HMAC-SHA256 over IV and ciphertext, checked before decryption
//   - values serialized as "2.<iv>|<ciphertext>|<mac>"
//
// Key layout follows Bitwarden's password-protected export: there is no
// separate wrapped key. encKeyValidation_DO_NOT_EDIT is a random UUID
// encrypted under the password-derived key, and data is encrypted under
// that same key.
package export

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nvinuesa/bwexporter/internal/model"
	"github.com/nvinuesa/bwexporter/internal/security"
)

// Exporter turns canonical records into an export document.
type Exporter interface {
	Export(folders []model.Folder, ciphers []model.Cipher, password string) ([]byte, error)
}

// Format selects the export document format.
type Format int

const (
	// FormatEncryptedJSON is the password-protected JSON envelope.
	FormatEncryptedJSON Format = iota
)

// String returns the string representation of the Format.
func (f Format) String() string {
	switch f {
	case FormatEncryptedJSON:
		return "encrypted_json"
	default:
		return fmt.Sprintf("unknown(%d)", f)
	}
}

// Options configures export behavior.
type Options struct {
	// Format of the produced document. Only FormatEncryptedJSON is supported.
	Format Format
	// KDF selects the password key-derivation function.
	KDF KDF
	// Rand is the source of salts, IVs and the validation value.
	Rand io.Reader
	// Logger receives debug events.
	Logger *zap.Logger
}

// DefaultOptions returns encrypted JSON with PBKDF2 and crypto/rand.
func DefaultOptions() Options {
	return Options{
		Format: FormatEncryptedJSON,
		KDF:    DefaultKDF(),
		Rand:   rand.Reader,
		Logger: zap.NewNop(),
	}
}

// EncryptedJSONExporter implements Exporter for FormatEncryptedJSON.
type EncryptedJSONExporter struct {
	format Format
	kdf    KDF
	rand   io.Reader
	logger *zap.Logger
}

// NewEncryptedJSONExporter creates an exporter. A zero KDF, Rand or Logger
// falls back to the defaults.
func NewEncryptedJSONExporter(opts Options) *EncryptedJSONExporter {
	if opts.KDF == (KDF{}) {
		opts.KDF = DefaultKDF()
	}
	if opts.Rand == nil {
		opts.Rand = rand.Reader
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &EncryptedJSONExporter{
		format: opts.Format,
		kdf:    opts.KDF,
		rand:   opts.Rand,
		logger: opts.Logger,
	}
}

// Export is a shortcut for NewEncryptedJSONExporter(opts).Export.
func Export(folders []model.Folder, ciphers []model.Cipher, password string, opts Options) ([]byte, error) {
	return NewEncryptedJSONExporter(opts).Export(folders, ciphers, password)
}

// Export validates the records, derives a key from password and returns the
// serialized envelope without a trailing newline.
func (e *EncryptedJSONExporter) Export(folders []model.Folder, ciphers []model.Cipher, password string) ([]byte, error) {
	if err := e.validate(folders, ciphers, password); err != nil {
		return nil, opError("validate", err)
	}

	e.logger.Debug("exporting vault",
		zap.Stringer("format", e.format),
		zap.Stringer("kdf", e.kdf.Type),
		zap.Uint32("iterations", e.kdf.Iterations),
		zap.Int("folders", len(folders)),
		zap.Int("items", len(ciphers)),
	)

	saltBytes := make([]byte, saltSize)
	if _, err := io.ReadFull(e.rand, saltBytes); err != nil {
		return nil, opError("generate salt", err)
	}
	salt := base64.StdEncoding.EncodeToString(saltBytes)

	secret := security.FromString(password)
	defer secret.Zero()

	key, err := e.kdf.deriveKey(secret.Bytes(), []byte(salt))
	if err != nil {
		return nil, opError("derive key", err)
	}
	defer key.zero()

	validationID, err := uuid.NewRandomFromReader(e.rand)
	if err != nil {
		return nil, opError("generate validation value", err)
	}
	validation, err := encrypt(key, []byte(validationID.String()), e.rand)
	if err != nil {
		return nil, opError("encrypt validation value", err)
	}

	plaintext, err := NewPayload(folders, ciphers).Marshal()
	if err != nil {
		return nil, opError("serialize payload", err)
	}
	defer security.Wipe(&plaintext)

	data, err := encrypt(key, plaintext, e.rand)
	if err != nil {
		return nil, opError("encrypt payload", err)
	}

	out, err := newEnvelope(salt, e.kdf, validation, data).Marshal()
	if err != nil {
		return nil, opError("serialize envelope", err)
	}

	e.logger.Debug("export complete",
		zap.Int("plaintext_bytes", len(plaintext)),
		zap.Int("envelope_bytes", len(out)),
	)

	return out, nil
}

// validate checks everything that can be rejected before key derivation.
func (e *EncryptedJSONExporter) validate(folders []model.Folder, ciphers []model.Cipher, password string) error {
	if e.format != FormatEncryptedJSON {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, e.format)
	}
	if password == "" {
		return ErrEmptyPassword
	}
	if err := e.kdf.Validate(); err != nil {
		return err
	}
	if errs := model.ValidateAll(folders, ciphers); len(errs) > 0 {
		return errors.Join(errs...)
	}
	return model.ValidateReferences(folders, ciphers)
}

// Decrypt verifies password against the envelope's validation value and
// returns the plaintext payload.
func Decrypt(envelope []byte, password string) ([]byte, error) {
	env, err := ParseEnvelope(envelope)
	if err != nil {
		return nil, opError("parse envelope", err)
	}

	validation, err := ParseEncString(env.EncKeyValidation)
	if err != nil {
		return nil, opError("parse validation value", err)
	}
	data, err := ParseEncString(env.Data)
	if err != nil {
		return nil, opError("parse data", err)
	}

	secret := security.FromString(password)
	defer secret.Zero()

	key, err := env.KDF().deriveKey(secret.Bytes(), []byte(env.Salt))
	if err != nil {
		return nil, opError("derive key", err)
	}
	defer key.zero()

	if _, err := validation.decrypt(key); err != nil {
		if errors.Is(err, ErrMACMismatch) {
			return nil, opError("check password", ErrWrongPassword)
		}
		return nil, opError("check password", err)
	}

	plaintext, err := data.decrypt(key)
	if err != nil {
		return nil, opError("decrypt data", err)
	}

	return plaintext, nil
}

// DecryptPayload decrypts envelope and decodes the plaintext document.
func DecryptPayload(envelope []byte, password string) (*Payload, error) {
	plaintext, err := Decrypt(envelope, password)
	if err != nil {
		return nil, err
	}

	p, err := ParsePayload(plaintext)
	if err != nil {
		return nil, opError("parse payload", err)
	}
	return p, nil
}

var _ Exporter = (*EncryptedJSONExporter)(nil)
