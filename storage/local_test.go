package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()

	stor, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return stor
}

func TestLocalStorageSaveGetDelete(t *testing.T) {
	stor := newTestLocalStorage(t)

	key := "uploads/0123456789abcdef/book.pdf"
	require.NoError(t, stor.Save(key, []byte("hello")))
	assert.True(t, stor.Exists(key))

	data, err := stor.Get(key)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	require.NoError(t, stor.Delete(key))
	assert.False(t, stor.Exists(key))

	_, err = stor.Get(key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorageMultipartLifecycle(t *testing.T) {
	stor := newTestLocalStorage(t)
	key := "uploads/0123456789abcdef/book.pdf"

	uploadId, err := stor.InitiateMultipartUpload(key)
	require.NoError(t, err)
	require.NotEmpty(t, uploadId)

	uploads, err := stor.ListMultipartUploads("uploads/")
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, key, uploads[0].Key)
	assert.Equal(t, uploadId, uploads[0].UploadId)
	assert.WithinDuration(t, time.Now().UTC(), uploads[0].Initiated, time.Minute)

	first := bytes.Repeat([]byte("a"), 64)
	second := bytes.Repeat([]byte("b"), 32)
	_, err = stor.UploadPart(key, uploadId, 1, first)
	require.NoError(t, err)
	_, err = stor.UploadPart(key, uploadId, 2, second)
	require.NoError(t, err)

	parts, err := stor.ListParts(key, uploadId)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, 1, parts[0].PartNumber)
	assert.Equal(t, int64(64), parts[0].Size)
	assert.Equal(t, 2, parts[1].PartNumber)
	assert.Equal(t, int64(32), parts[1].Size)

	finalKey, err := stor.CompleteMultipartUpload(key, uploadId, parts)
	require.NoError(t, err)
	assert.Equal(t, key, finalKey)

	data, err := stor.Get(key)
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte{}, first...), second...), data)

	// The staged upload is gone once completed
	uploads, err = stor.ListMultipartUploads("uploads/")
	require.NoError(t, err)
	assert.Empty(t, uploads)

	_, err = stor.ListParts(key, uploadId)
	assert.ErrorIs(t, err, ErrUploadNotFound)
}

func TestLocalStorageUploadPartOverwrite(t *testing.T) {
	stor := newTestLocalStorage(t)
	key := "uploads/0123456789abcdef/book.pdf"

	uploadId, err := stor.InitiateMultipartUpload(key)
	require.NoError(t, err)

	_, err = stor.UploadPart(key, uploadId, 1, bytes.Repeat([]byte("x"), 100))
	require.NoError(t, err)
	_, err = stor.UploadPart(key, uploadId, 1, bytes.Repeat([]byte("y"), 50))
	require.NoError(t, err)

	parts, err := stor.ListParts(key, uploadId)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, 1, parts[0].PartNumber)
	assert.Equal(t, int64(50), parts[0].Size)
}

func TestLocalStorageListPartsOrder(t *testing.T) {
	stor := newTestLocalStorage(t)
	key := "uploads/0123456789abcdef/book.pdf"

	uploadId, err := stor.InitiateMultipartUpload(key)
	require.NoError(t, err)

	// part_10 sorts before part_2 lexicographically; the listing must not
	for _, n := range []int{10, 2, 7} {
		_, err = stor.UploadPart(key, uploadId, n, []byte("data"))
		require.NoError(t, err)
	}

	parts, err := stor.ListParts(key, uploadId)
	require.NoError(t, err)
	require.Len(t, parts, 3)
	assert.Equal(t, 2, parts[0].PartNumber)
	assert.Equal(t, 7, parts[1].PartNumber)
	assert.Equal(t, 10, parts[2].PartNumber)
}

func TestLocalStorageListMultipartUploadsPrefix(t *testing.T) {
	stor := newTestLocalStorage(t)

	_, err := stor.InitiateMultipartUpload("uploads/aaaaaaaaaaaaaaaa/a.pdf")
	require.NoError(t, err)
	_, err = stor.InitiateMultipartUpload("uploads/bbbbbbbbbbbbbbbb/b.pdf")
	require.NoError(t, err)

	uploads, err := stor.ListMultipartUploads("uploads/aaaaaaaaaaaaaaaa/")
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, "uploads/aaaaaaaaaaaaaaaa/a.pdf", uploads[0].Key)

	uploads, err = stor.ListMultipartUploads("uploads/")
	require.NoError(t, err)
	assert.Len(t, uploads, 2)
}

func TestLocalStorageAbort(t *testing.T) {
	stor := newTestLocalStorage(t)
	key := "uploads/0123456789abcdef/book.pdf"

	uploadId, err := stor.InitiateMultipartUpload(key)
	require.NoError(t, err)
	_, err = stor.UploadPart(key, uploadId, 1, []byte("data"))
	require.NoError(t, err)

	require.NoError(t, stor.AbortMultipartUpload(key, uploadId))

	_, err = stor.ListParts(key, uploadId)
	assert.ErrorIs(t, err, ErrUploadNotFound)

	uploads, err := stor.ListMultipartUploads("uploads/")
	require.NoError(t, err)
	assert.Empty(t, uploads)

	// Aborting twice is harmless
	assert.NoError(t, stor.AbortMultipartUpload(key, uploadId))
}

func TestLocalStorageCompleteUnknownUpload(t *testing.T) {
	stor := newTestLocalStorage(t)

	_, err := stor.CompleteMultipartUpload("uploads/0123456789abcdef/book.pdf", "upload_missing", nil)
	assert.ErrorIs(t, err, ErrUploadNotFound)
}

func TestLocalStorageCompleteRejectsStaleETag(t *testing.T) {
	stor := newTestLocalStorage(t)
	key := "uploads/0123456789abcdef/book.pdf"

	uploadId, err := stor.InitiateMultipartUpload(key)
	require.NoError(t, err)
	etag, err := stor.UploadPart(key, uploadId, 1, []byte("original"))
	require.NoError(t, err)

	// Overwrite after the manifest was built
	_, err = stor.UploadPart(key, uploadId, 1, []byte("rewritten longer content"))
	require.NoError(t, err)

	_, err = stor.CompleteMultipartUpload(key, uploadId, []PartInfo{{PartNumber: 1, ETag: etag}})
	require.Error(t, err)

	// The failed attempt never touches the destination object
	assert.False(t, stor.Exists(key))

	// The staging dir is still there for a retry with a fresh manifest
	parts, err := stor.ListParts(key, uploadId)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	_, err = stor.CompleteMultipartUpload(key, uploadId, parts)
	assert.NoError(t, err)
}

func TestLocalStorageUploadPartUnknownUpload(t *testing.T) {
	stor := newTestLocalStorage(t)

	_, err := stor.UploadPart("uploads/0123456789abcdef/book.pdf", "upload_missing", 1, []byte("data"))
	assert.ErrorIs(t, err, ErrUploadNotFound)
}

func TestLocalStorageSkipsForeignStagingEntries(t *testing.T) {
	base := t.TempDir()
	stor, err := NewLocalStorage(base)
	require.NoError(t, err)

	// A stray directory without metadata must not break the listing
	require.NoError(t, os.MkdirAll(filepath.Join(base, ".uploads", "junk"), 0755))

	uploads, err := stor.ListMultipartUploads("uploads/")
	require.NoError(t, err)
	assert.Empty(t, uploads)
}
