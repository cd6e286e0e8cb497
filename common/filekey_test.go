package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeUploadKey(t *testing.T) {
	key, err := EncodeUploadKey("0123456789abcdef", "book.pdf")
	require.NoError(t, err)
	assert.Equal(t, "uploads/0123456789abcdef/book.pdf", key)
}

func TestEncodeUploadKeyEscapesFileName(t *testing.T) {
	key, err := EncodeUploadKey("0123456789abcdef", "my book/v1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "uploads/0123456789abcdef/my%20book%2Fv1.pdf", key)

	sig, name, err := DecodeUploadKey(key)
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef", sig)
	assert.Equal(t, "my book/v1.pdf", name)
}

func TestEncodeUploadKeyTooLong(t *testing.T) {
	_, err := EncodeUploadKey("0123456789abcdef", strings.Repeat("a", MaxKeyLength))
	assert.ErrorIs(t, err, ErrKeyTooLong)
}

func TestEncodeUploadKeyAtCeiling(t *testing.T) {
	// Prefix (8) + signature (16) + separator (1) leaves this much room for
	// the encoded name.
	room := MaxKeyLength - len(UploadKeyPrefix) - SignatureLength - 1
	key, err := EncodeUploadKey("0123456789abcdef", strings.Repeat("a", room))
	require.NoError(t, err)
	assert.Len(t, key, MaxKeyLength)

	_, err = EncodeUploadKey("0123456789abcdef", strings.Repeat("a", room+1))
	assert.ErrorIs(t, err, ErrKeyTooLong)
}

func TestDecodeUploadKeyRoundTrip(t *testing.T) {
	names := []string{
		"book.pdf",
		"a b c.pdf",
		"100%_effort.pdf",
		"日本語の本.pdf",
		"semi;colon&more.pdf",
	}

	for _, name := range names {
		key, err := EncodeUploadKey("feedface01234567", name)
		require.NoError(t, err, "encode %q", name)

		sig, decoded, err := DecodeUploadKey(key)
		require.NoError(t, err, "decode %q", key)
		assert.Equal(t, "feedface01234567", sig)
		assert.Equal(t, name, decoded)
	}
}

func TestIsValidSignature(t *testing.T) {
	assert.True(t, IsValidSignature("0123456789abcdef"))
	assert.True(t, IsValidSignature("ffffffffffffffff"))

	assert.False(t, IsValidSignature(""))
	assert.False(t, IsValidSignature("0123456789abcde"))
	assert.False(t, IsValidSignature("0123456789abcdef0"))
	assert.False(t, IsValidSignature("0123456789ABCDEF"))
	assert.False(t, IsValidSignature("0123456789abcdeg"))
}

func TestDecodeUploadKeyMalformed(t *testing.T) {
	keys := []string{
		"",
		"book.pdf",
		"files/0123456789abcdef/book.pdf",
		"uploads/0123456789abcdef",
		"uploads/0123456789abcdef/a/b.pdf",
		"uploads/short/book.pdf",
		"uploads/0123456789ABCDEF/book.pdf",
		"uploads/0123456789abcdef/",
		"uploads/0123456789abcdef/bad%zzescape.pdf",
	}

	for _, key := range keys {
		_, _, err := DecodeUploadKey(key)
		assert.ErrorIs(t, err, ErrMalformedKey, "key %q", key)
	}
}
