package export

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"

	"github.com/nvinuesa/bwexporter/internal/security"
)

// KDFType identifies the password key-derivation function. Values match the
// envelope's kdfType codes.
type KDFType int

const (
	// KDFTypePBKDF2 is PBKDF2-HMAC-SHA256.
	KDFTypePBKDF2 KDFType = 0
	// KDFTypeArgon2id is Argon2id over the SHA-256 of the salt.
	KDFTypeArgon2id KDFType = 1
)

// String returns the string representation of the KDFType.
func (t KDFType) String() string {
	switch t {
	case KDFTypePBKDF2:
		return "pbkdf2-sha256"
	case KDFTypeArgon2id:
		return "argon2id"
	default:
		return fmt.Sprintf("unknown(%d)", t)
	}
}

// KDF parameter defaults and limits.
const (
	DefaultPBKDF2Iterations = 600000
	MinPBKDF2Iterations     = 5000
	MaxPBKDF2Iterations     = 2000000

	DefaultArgon2Iterations  = 3
	DefaultArgon2Memory      = 64 // MiB
	DefaultArgon2Parallelism = 4
	MinArgon2Iterations      = 2
	MaxArgon2Iterations      = 10
	MinArgon2Memory          = 16
	MaxArgon2Memory          = 1024
	MinArgon2Parallelism     = 1
	MaxArgon2Parallelism     = 16
)

const (
	keySize  = 32
	saltSize = 16
)

// KDF holds the key-derivation parameters written to the envelope.
// Memory (MiB) and Parallelism only apply to Argon2id.
type KDF struct {
	Type        KDFType
	Iterations  uint32
	Memory      uint32
	Parallelism uint32
}

// DefaultKDF returns PBKDF2-SHA256 with 600000 iterations.
func DefaultKDF() KDF {
	return KDF{
		Type:       KDFTypePBKDF2,
		Iterations: DefaultPBKDF2Iterations,
	}
}

// DefaultArgon2idKDF returns Argon2id with the recommended parameters.
func DefaultArgon2idKDF() KDF {
	return KDF{
		Type:        KDFTypeArgon2id,
		Iterations:  DefaultArgon2Iterations,
		Memory:      DefaultArgon2Memory,
		Parallelism: DefaultArgon2Parallelism,
	}
}

// Validate checks the parameters against the supported ranges.
func (k KDF) Validate() error {
	switch k.Type {
	case KDFTypePBKDF2:
		if k.Iterations < MinPBKDF2Iterations || k.Iterations > MaxPBKDF2Iterations {
			return fmt.Errorf("%w: pbkdf2 iterations must be %d-%d, got %d",
				ErrInvalidKDF, MinPBKDF2Iterations, MaxPBKDF2Iterations, k.Iterations)
		}
		if k.Memory != 0 || k.Parallelism != 0 {
			return fmt.Errorf("%w: pbkdf2 takes no memory or parallelism", ErrInvalidKDF)
		}
	case KDFTypeArgon2id:
		if k.Iterations < MinArgon2Iterations || k.Iterations > MaxArgon2Iterations {
			return fmt.Errorf("%w: argon2id iterations must be %d-%d, got %d",
				ErrInvalidKDF, MinArgon2Iterations, MaxArgon2Iterations, k.Iterations)
		}
		if k.Memory < MinArgon2Memory || k.Memory > MaxArgon2Memory {
			return fmt.Errorf("%w: argon2id memory must be %d-%d MiB, got %d",
				ErrInvalidKDF, MinArgon2Memory, MaxArgon2Memory, k.Memory)
		}
		if k.Parallelism < MinArgon2Parallelism || k.Parallelism > MaxArgon2Parallelism {
			return fmt.Errorf("%w: argon2id parallelism must be %d-%d, got %d",
				ErrInvalidKDF, MinArgon2Parallelism, MaxArgon2Parallelism, k.Parallelism)
		}
	default:
		return fmt.Errorf("%w: unknown type %d", ErrInvalidKDF, k.Type)
	}
	return nil
}

// symmetricKey is a stretched key pair for AES-256-CBC with HMAC-SHA256.
type symmetricKey struct {
	encKey []byte
	macKey []byte
}

// zero wipes both halves of the key.
func (k *symmetricKey) zero() {
	security.Wipe(&k.encKey)
	security.Wipe(&k.macKey)
}

// deriveKey derives the master key from password and salt, then stretches it
// into separate encryption and MAC keys.
func (k KDF) deriveKey(password, salt []byte) (*symmetricKey, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}

	var master []byte
	switch k.Type {
	case KDFTypePBKDF2:
		master = pbkdf2.Key(password, salt, int(k.Iterations), keySize, sha256.New)
	case KDFTypeArgon2id:
		saltHash := sha256.Sum256(salt)
		master = argon2.IDKey(password, saltHash[:], k.Iterations, k.Memory*1024, uint8(k.Parallelism), keySize)
	}
	defer security.Wipe(&master)

	return stretchKey(master)
}

// stretchKey expands a 32-byte key into an encryption key and a MAC key with
// HKDF-Expand-SHA256, using the key itself as the pseudorandom key.
func stretchKey(master []byte) (*symmetricKey, error) {
	encKey := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.Expand(sha256.New, master, []byte("enc")), encKey); err != nil {
		return nil, fmt.Errorf("failed to stretch encryption key: %w", err)
	}

	macKey := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.Expand(sha256.New, master, []byte("mac")), macKey); err != nil {
		return nil, fmt.Errorf("failed to stretch MAC key: %w", err)
	}

	return &symmetricKey{encKey: encKey, macKey: macKey}, nil
}
