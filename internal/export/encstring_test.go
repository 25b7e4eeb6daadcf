package export

import (
	"bytes"
	"crypto/rand"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) *symmetricKey {
	t.Helper()
	key, err := stretchKey(bytes.Repeat([]byte{0x07}, keySize))
	require.NoError(t, err)
	return key
}

func TestEncString_RoundTrip(t *testing.T) {
	key := testKey(t)

	tests := []struct {
		name      string
		plaintext []byte
	}{
		{"Empty", []byte{}},
		{"Short", []byte("hello")},
		{"Block sized", bytes.Repeat([]byte("a"), 16)},
		{"Multi block", bytes.Repeat([]byte("secret "), 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := encrypt(key, tt.plaintext, rand.Reader)
			require.NoError(t, err)

			s := enc.String()
			assert.True(t, strings.HasPrefix(s, "2."), "got %q", s)
			assert.Equal(t, 2, strings.Count(s, "|"))

			parsed, err := ParseEncString(s)
			require.NoError(t, err)
			assert.Equal(t, enc, parsed)

			got, err := parsed.decrypt(key)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, got)
		})
	}
}

func TestEncString_FreshIV(t *testing.T) {
	key := testKey(t)

	a, err := encrypt(key, []byte("same"), rand.Reader)
	require.NoError(t, err)
	b, err := encrypt(key, []byte("same"), rand.Reader)
	require.NoError(t, err)

	assert.NotEqual(t, a.IV, b.IV)
	assert.NotEqual(t, a.String(), b.String())
}

func TestEncString_Tampered(t *testing.T) {
	key := testKey(t)
	enc, err := encrypt(key, []byte("payload"), rand.Reader)
	require.NoError(t, err)

	t.Run("Data", func(t *testing.T) {
		tampered := enc
		tampered.Data = append([]byte(nil), enc.Data...)
		tampered.Data[0] ^= 0xff
		_, err := tampered.decrypt(key)
		assert.ErrorIs(t, err, ErrMACMismatch)
	})

	t.Run("IV", func(t *testing.T) {
		tampered := enc
		tampered.IV = append([]byte(nil), enc.IV...)
		tampered.IV[0] ^= 0xff
		_, err := tampered.decrypt(key)
		assert.ErrorIs(t, err, ErrMACMismatch)
	})

	t.Run("Wrong key", func(t *testing.T) {
		other, err := stretchKey(bytes.Repeat([]byte{0x08}, keySize))
		require.NoError(t, err)
		_, err = enc.decrypt(other)
		assert.ErrorIs(t, err, ErrMACMismatch)
	})
}

func TestParseEncString_Invalid(t *testing.T) {
	iv := "AAAAAAAAAAAAAAAAAAAAAA=="
	data := "AAAAAAAAAAAAAAAAAAAAAA=="
	mac := "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"No prefix", iv + "|" + data + "|" + mac, ErrInvalidEncString},
		{"Bad type", "x." + iv + "|" + data + "|" + mac, ErrInvalidEncString},
		{"Type 0", "0." + iv + "|" + data, ErrUnsupportedEncType},
		{"Missing MAC", "2." + iv + "|" + data, ErrInvalidEncString},
		{"Bad base64", "2." + iv + "|!!!|" + mac, ErrInvalidEncString},
		{"Short IV", "2.AAAA|" + data + "|" + mac, ErrInvalidEncString},
		{"Unaligned data", "2." + iv + "|AAAA|" + mac, ErrInvalidEncString},
		{"Short MAC", "2." + iv + "|" + data + "|AAAA", ErrInvalidEncString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEncString(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	_, err := ParseEncString("2." + iv + "|" + data + "|" + mac)
	assert.NoError(t, err)
}

func TestPKCS7(t *testing.T) {
	for n := 0; n <= 33; n++ {
		data := bytes.Repeat([]byte{0xaa}, n)
		padded := pkcs7Pad(data, 16)
		assert.Zero(t, len(padded)%16)
		assert.Greater(t, len(padded), n)

		unpadded, err := pkcs7Unpad(padded, 16)
		require.NoError(t, err)
		assert.Equal(t, data, unpadded)
	}

	bad := [][]byte{
		{},
		bytes.Repeat([]byte{0x00}, 16),
		bytes.Repeat([]byte{0x11}, 16),
		append(bytes.Repeat([]byte{0x01}, 14), 0x03, 0x02),
		bytes.Repeat([]byte{0x01}, 15),
	}
	for _, b := range bad {
		_, err := pkcs7Unpad(b, 16)
		assert.ErrorIs(t, err, ErrInvalidPadding)
	}
}
