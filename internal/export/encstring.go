package export

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// encTypeAesCbc256HmacSha256 is the version tag of encrypted strings written
// by this package.
const encTypeAesCbc256HmacSha256 = 2

// EncString is an AES-256-CBC ciphertext authenticated with HMAC-SHA256.
// Its text form is "2.<iv>|<data>|<mac>" with standard base64 parts.
type EncString struct {
	IV   []byte
	Data []byte
	MAC  []byte
}

// String returns the serialized form.
func (e EncString) String() string {
	return fmt.Sprintf("%d.%s|%s|%s",
		encTypeAesCbc256HmacSha256,
		base64.StdEncoding.EncodeToString(e.IV),
		base64.StdEncoding.EncodeToString(e.Data),
		base64.StdEncoding.EncodeToString(e.MAC),
	)
}

// ParseEncString parses the serialized form produced by String.
func ParseEncString(s string) (EncString, error) {
	typ, body, ok := strings.Cut(s, ".")
	if !ok {
		return EncString{}, fmt.Errorf("%w: missing type prefix", ErrInvalidEncString)
	}

	n, err := strconv.Atoi(typ)
	if err != nil {
		return EncString{}, fmt.Errorf("%w: bad type %q", ErrInvalidEncString, typ)
	}
	if n != encTypeAesCbc256HmacSha256 {
		return EncString{}, fmt.Errorf("%w: %d", ErrUnsupportedEncType, n)
	}

	parts := strings.Split(body, "|")
	if len(parts) != 3 {
		return EncString{}, fmt.Errorf("%w: expected 3 parts, got %d", ErrInvalidEncString, len(parts))
	}

	decoded := make([][]byte, len(parts))
	for i, p := range parts {
		decoded[i], err = base64.StdEncoding.DecodeString(p)
		if err != nil {
			return EncString{}, fmt.Errorf("%w: part %d: %v", ErrInvalidEncString, i, err)
		}
	}

	e := EncString{IV: decoded[0], Data: decoded[1], MAC: decoded[2]}
	if len(e.IV) != aes.BlockSize {
		return EncString{}, fmt.Errorf("%w: iv must be %d bytes", ErrInvalidEncString, aes.BlockSize)
	}
	if len(e.Data) == 0 || len(e.Data)%aes.BlockSize != 0 {
		return EncString{}, fmt.Errorf("%w: data is not a multiple of the block size", ErrInvalidEncString)
	}
	if len(e.MAC) != sha256.Size {
		return EncString{}, fmt.Errorf("%w: mac must be %d bytes", ErrInvalidEncString, sha256.Size)
	}

	return e, nil
}

// encrypt encrypts plaintext under key with a random IV read from rnd.
func encrypt(key *symmetricKey, plaintext []byte, rnd io.Reader) (EncString, error) {
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rnd, iv); err != nil {
		return EncString{}, fmt.Errorf("failed to generate IV: %w", err)
	}

	block, err := aes.NewCipher(key.encKey)
	if err != nil {
		return EncString{}, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	data := pkcs7Pad(plaintext, aes.BlockSize)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(data, data)

	return EncString{
		IV:   iv,
		Data: data,
		MAC:  computeMAC(key.macKey, iv, data),
	}, nil
}

// decrypt verifies the MAC and returns the plaintext.
func (e EncString) decrypt(key *symmetricKey) ([]byte, error) {
	if !hmac.Equal(e.MAC, computeMAC(key.macKey, e.IV, e.Data)) {
		return nil, ErrMACMismatch
	}

	block, err := aes.NewCipher(key.encKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	plaintext := make([]byte, len(e.Data))
	cipher.NewCBCDecrypter(block, e.IV).CryptBlocks(plaintext, e.Data)

	return pkcs7Unpad(plaintext, aes.BlockSize)
}

// computeMAC returns HMAC-SHA256(macKey, iv || data).
func computeMAC(macKey, iv, data []byte) []byte {
	mac := hmac.New(sha256.New, macKey)
	mac.Write(iv)
	mac.Write(data)
	return mac.Sum(nil)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data), len(data)+padding)
	copy(padded, data)
	return append(padded, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}

	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, ErrInvalidPadding
		}
	}

	return data[:len(data)-padding], nil
}
