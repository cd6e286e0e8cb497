package common

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	// UploadKeyPrefix scopes every upload object key
	UploadKeyPrefix = "uploads/"

	// MaxKeyLength object-key ceiling imposed by the storage backend (bytes)
	MaxKeyLength = 1024
)

var (
	ErrKeyTooLong   = errors.New("object key exceeds maximum length")
	ErrMalformedKey = errors.New("malformed upload key")
)

// EncodeUploadKey build the object key for a file upload:
// uploads/{signature}/{urlEncodedFileName}. The encoded file name never
// contains a raw slash, so the key always splits into exactly three segments.
func EncodeUploadKey(signature, fileName string) (string, error) {
	key := UploadKeyPrefix + signature + "/" + url.PathEscape(fileName)
	if len(key) > MaxKeyLength {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrKeyTooLong, len(key), MaxKeyLength)
	}
	return key, nil
}

// DecodeUploadKey split an upload key back into its signature and the decoded
// file name. Keys that were not produced by EncodeUploadKey are rejected.
func DecodeUploadKey(key string) (signature string, fileName string, err error) {
	segments := strings.Split(key, "/")
	if len(segments) != 3 || segments[0] != "uploads" {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}
	if !IsValidSignature(segments[1]) {
		return "", "", fmt.Errorf("%w: bad signature segment in %q", ErrMalformedKey, key)
	}
	if segments[2] == "" {
		return "", "", fmt.Errorf("%w: empty file name in %q", ErrMalformedKey, key)
	}
	fileName, err = url.PathUnescape(segments[2])
	if err != nil {
		return "", "", fmt.Errorf("%w: %q: %v", ErrMalformedKey, key, err)
	}
	return segments[1], fileName, nil
}

// IsValidSignature report whether s looks like a file signature: exactly
// SignatureLength lowercase hex characters
func IsValidSignature(s string) bool {
	if len(s) != SignatureLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
