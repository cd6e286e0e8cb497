package upload_service

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-upload-service/storage"
)

// fakeStorage in-memory Storage with the same multipart semantics the real
// backends expose: parts overwrite by number, completion validates etags and
// drops the session, finished or aborted sessions report ErrUploadNotFound.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	uploads map[string]*fakeUpload
	seq     int

	listUploadsCalls int
	initiateCalls    int
	failUploadPart   bool
	failAbort        map[string]bool
}

type fakeUpload struct {
	key       string
	initiated time.Time
	parts     map[int][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		objects:   make(map[string][]byte),
		uploads:   make(map[string]*fakeUpload),
		failAbort: make(map[string]bool),
	}
}

func fakeETag(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:8])
}

func (f *fakeStorage) Save(key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = append([]byte(nil), data...)
	return nil
}

func (f *fakeStorage) Get(key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (f *fakeStorage) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) Exists(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *fakeStorage) InitiateMultipartUpload(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initiateCalls++
	f.seq++
	uploadId := fmt.Sprintf("fake-upload-%d", f.seq)
	f.uploads[uploadId] = &fakeUpload{
		key:       key,
		initiated: time.Now(),
		parts:     make(map[int][]byte),
	}
	return uploadId, nil
}

func (f *fakeStorage) ListMultipartUploads(prefix string) ([]storage.MultipartUpload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listUploadsCalls++
	var uploads []storage.MultipartUpload
	for uploadId, u := range f.uploads {
		if !strings.HasPrefix(u.key, prefix) {
			continue
		}
		uploads = append(uploads, storage.MultipartUpload{
			Key:       u.key,
			UploadId:  uploadId,
			Initiated: u.initiated,
		})
	}
	return uploads, nil
}

func (f *fakeStorage) UploadPart(key, uploadId string, partNumber int, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUploadPart {
		return "", errors.New("injected backend failure")
	}
	u, ok := f.uploads[uploadId]
	if !ok || u.key != key {
		return "", fmt.Errorf("upload part: %w", storage.ErrUploadNotFound)
	}
	u.parts[partNumber] = append([]byte(nil), data...)
	return fakeETag(data), nil
}

func (f *fakeStorage) ListParts(key, uploadId string) ([]storage.PartInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.uploads[uploadId]
	if !ok || u.key != key {
		return nil, fmt.Errorf("list parts: %w", storage.ErrUploadNotFound)
	}
	var parts []storage.PartInfo
	for partNumber, data := range u.parts {
		parts = append(parts, storage.PartInfo{
			PartNumber: partNumber,
			ETag:       fakeETag(data),
			Size:       int64(len(data)),
		})
	}
	return parts, nil
}

func (f *fakeStorage) CompleteMultipartUpload(key, uploadId string, parts []storage.PartInfo) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.uploads[uploadId]
	if !ok || u.key != key {
		return "", fmt.Errorf("complete multipart upload: %w", storage.ErrUploadNotFound)
	}
	var assembled []byte
	for _, p := range parts {
		data, ok := u.parts[p.PartNumber]
		if !ok {
			return "", fmt.Errorf("part %d not uploaded", p.PartNumber)
		}
		if p.ETag != "" && p.ETag != fakeETag(data) {
			return "", fmt.Errorf("etag mismatch for part %d", p.PartNumber)
		}
		assembled = append(assembled, data...)
	}
	f.objects[key] = assembled
	delete(f.uploads, uploadId)
	return key, nil
}

func (f *fakeStorage) AbortMultipartUpload(key, uploadId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAbort[uploadId] {
		return errors.New("injected abort failure")
	}
	u, ok := f.uploads[uploadId]
	if !ok || u.key != key {
		return fmt.Errorf("abort multipart upload: %w", storage.ErrUploadNotFound)
	}
	delete(f.uploads, uploadId)
	return nil
}

func (f *fakeStorage) setInitiated(uploadId string, initiated time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.uploads[uploadId]; ok {
		u.initiated = initiated
	}
}

func (f *fakeStorage) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

var _ storage.Storage = (*fakeStorage)(nil)

const testSignature = "24a7d564de30e1fd"

func newTestService(chunkSize int64) (*ResumableUploadService, *fakeStorage) {
	st := newFakeStorage()
	return NewResumableUploadService(st, chunkSize), st
}

func TestInitStartsNewSession(t *testing.T) {
	svc, st := newTestService(0)

	result, err := svc.InitOrResumeUpload(testSignature, "book.pdf", 52428800)
	require.NoError(t, err)

	assert.Equal(t, "uploads/"+testSignature+"/book.pdf", result.Key)
	assert.Equal(t, int64(5242880), result.ChunkSize)
	assert.Equal(t, 10, result.TotalChunks)
	assert.Equal(t, 0, result.CompletedChunks)
	assert.NotEmpty(t, result.UploadId)
	assert.Equal(t, 1, st.uploadCount())
}

func TestInitValidatesArguments(t *testing.T) {
	svc, _ := newTestService(1024)

	_, err := svc.InitOrResumeUpload(testSignature, "book.pdf", 0)
	assert.ErrorContains(t, err, "file size")

	_, err = svc.InitOrResumeUpload("not-hex!", "book.pdf", 100)
	assert.ErrorContains(t, err, "signature")

	_, err = svc.InitOrResumeUpload(testSignature, "", 100)
	assert.ErrorContains(t, err, "file name")
}

func TestInitRejectsOversizedFilesBeforeBackend(t *testing.T) {
	svc, st := newTestService(0)

	_, err := svc.InitOrResumeUpload(testSignature, "huge.pdf", MaxObjectSize+1)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	// A 5 MiB chunk cannot cover this file in 10000 parts
	_, err = svc.InitOrResumeUpload(testSignature, "big.pdf", DefaultChunkSize*MaxPartCount+1)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	assert.Equal(t, 0, st.listUploadsCalls)
	assert.Equal(t, 0, st.initiateCalls)
}

func TestInitResumesSessionWithNoParts(t *testing.T) {
	svc, _ := newTestService(4096)

	first, err := svc.InitOrResumeUpload(testSignature, "book.pdf", 40960)
	require.NoError(t, err)

	second, err := svc.InitOrResumeUpload(testSignature, "book.pdf", 40960)
	require.NoError(t, err)

	assert.Equal(t, first.UploadId, second.UploadId)
	assert.Equal(t, int64(4096), second.ChunkSize)
	assert.Equal(t, 10, second.TotalChunks)
	assert.Equal(t, 0, second.CompletedChunks)
}

func TestResumeAcrossRestart(t *testing.T) {
	st := newFakeStorage()
	svc := NewResumableUploadService(st, 4096)

	content := make([]byte, 40960)
	for i := range content {
		content[i] = byte(i % 251)
	}
	chunk := func(n int) []byte { return content[(n-1)*4096 : n*4096] }

	first, err := svc.InitOrResumeUpload(testSignature, "book.pdf", int64(len(content)))
	require.NoError(t, err)
	require.Equal(t, 10, first.TotalChunks)

	for n := 1; n <= 5; n++ {
		_, err := svc.UploadPart(first.UploadId, first.Key, n, chunk(n))
		require.NoError(t, err)
	}

	// A fresh instance over the same backend sees the half-finished session
	restarted := NewResumableUploadService(st, DefaultChunkSize)
	resumed, err := restarted.InitOrResumeUpload(testSignature, "book.pdf", int64(len(content)))
	require.NoError(t, err)

	assert.Equal(t, first.UploadId, resumed.UploadId)
	assert.Equal(t, int64(4096), resumed.ChunkSize, "chunk size comes from the uploaded parts, not the default")
	assert.Equal(t, 10, resumed.TotalChunks)
	assert.Equal(t, 5, resumed.CompletedChunks)

	for n := 6; n <= 10; n++ {
		_, err := restarted.UploadPart(resumed.UploadId, resumed.Key, n, chunk(n))
		require.NoError(t, err)
	}

	result, err := restarted.CompleteUpload(resumed.UploadId, resumed.Key)
	require.NoError(t, err)
	assert.Equal(t, resumed.Key, result.Key)
	assert.Equal(t, "book.pdf", result.FileName)

	final, err := st.Get(resumed.Key)
	require.NoError(t, err)
	assert.Equal(t, content, final)

	pending, err := restarted.ListPendingUploads()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestResumeRechecksCapacityWithPinnedChunkSize(t *testing.T) {
	svc, _ := newTestService(2048)

	result, err := svc.InitOrResumeUpload(testSignature, "book.pdf", 15000000)
	require.NoError(t, err)

	// Pin the chunk size at 1024 bytes; 1024*10000 no longer covers the file
	_, err = svc.UploadPart(result.UploadId, result.Key, 1, make([]byte, 1024))
	require.NoError(t, err)

	_, err = svc.InitOrResumeUpload(testSignature, "book.pdf", 15000000)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestUploadPartOverwritesAndStatusReflectsIt(t *testing.T) {
	svc, _ := newTestService(100)

	result, err := svc.InitOrResumeUpload(testSignature, "book.pdf", 240)
	require.NoError(t, err)

	_, err = svc.UploadPart(result.UploadId, result.Key, 1, make([]byte, 100))
	require.NoError(t, err)
	_, err = svc.UploadPart(result.UploadId, result.Key, 3, make([]byte, 40))
	require.NoError(t, err)

	// Retrying a part replaces it instead of adding a duplicate
	_, err = svc.UploadPart(result.UploadId, result.Key, 3, make([]byte, 41))
	require.NoError(t, err)

	status, err := svc.GetUploadStatus(result.UploadId)
	require.NoError(t, err)
	assert.Equal(t, 2, status.CompletedChunks)
	assert.Equal(t, int64(141), status.BytesUploaded)
	assert.Equal(t, int64(100), status.ChunkSize)
	assert.Equal(t, testSignature, status.Signature)
	assert.Equal(t, "book.pdf", status.FileName)
}

func TestUploadPartValidatesPartNumber(t *testing.T) {
	svc, _ := newTestService(1024)

	result, err := svc.InitOrResumeUpload(testSignature, "book.pdf", 2048)
	require.NoError(t, err)

	_, err = svc.UploadPart(result.UploadId, result.Key, 0, []byte("x"))
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = svc.UploadPart(result.UploadId, result.Key, MaxPartCount+1, []byte("x"))
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = svc.UploadPart(result.UploadId, result.Key, 1, nil)
	assert.ErrorContains(t, err, "empty")
}

func TestUploadPartToUnknownSession(t *testing.T) {
	svc, _ := newTestService(1024)

	_, err := svc.UploadPart("no-such-upload", "uploads/"+testSignature+"/book.pdf", 1, []byte("x"))
	assert.ErrorIs(t, err, ErrExpiredSession)
}

func TestUploadPartBackendFailure(t *testing.T) {
	svc, st := newTestService(1024)

	result, err := svc.InitOrResumeUpload(testSignature, "book.pdf", 2048)
	require.NoError(t, err)

	st.failUploadPart = true
	_, err = svc.UploadPart(result.UploadId, result.Key, 1, []byte("x"))
	assert.ErrorIs(t, err, ErrPartUploadFailed)
}

func TestCompleteAssemblesContiguousParts(t *testing.T) {
	svc, st := newTestService(10)

	result, err := svc.InitOrResumeUpload(testSignature, "report (final).pdf", 25)
	require.NoError(t, err)

	_, err = svc.UploadPart(result.UploadId, result.Key, 2, []byte("bbbbbbbbbb"))
	require.NoError(t, err)
	_, err = svc.UploadPart(result.UploadId, result.Key, 1, []byte("aaaaaaaaaa"))
	require.NoError(t, err)
	_, err = svc.UploadPart(result.UploadId, result.Key, 3, []byte("ccccc"))
	require.NoError(t, err)

	completed, err := svc.CompleteUpload(result.UploadId, result.Key)
	require.NoError(t, err)
	assert.Equal(t, result.Key, completed.Key)
	assert.Equal(t, "report (final).pdf", completed.FileName)

	final, err := st.Get(result.Key)
	require.NoError(t, err)
	assert.Equal(t, []byte("aaaaaaaaaabbbbbbbbbbccccc"), final)
	assert.Equal(t, 0, st.uploadCount())
}

func TestCompleteWithGapLeavesSessionOpen(t *testing.T) {
	svc, st := newTestService(10)

	result, err := svc.InitOrResumeUpload(testSignature, "book.pdf", 25)
	require.NoError(t, err)

	_, err = svc.UploadPart(result.UploadId, result.Key, 1, []byte("aaaaaaaaaa"))
	require.NoError(t, err)
	_, err = svc.UploadPart(result.UploadId, result.Key, 3, []byte("ccccc"))
	require.NoError(t, err)

	_, err = svc.CompleteUpload(result.UploadId, result.Key)
	assert.ErrorIs(t, err, ErrCompletionFailed)

	// The session survives the failed attempt and the gap can be filled
	assert.Equal(t, 1, st.uploadCount())
	_, err = svc.UploadPart(result.UploadId, result.Key, 2, []byte("bbbbbbbbbb"))
	require.NoError(t, err)
	_, err = svc.CompleteUpload(result.UploadId, result.Key)
	assert.NoError(t, err)
}

func TestCompleteWithNoParts(t *testing.T) {
	svc, _ := newTestService(10)

	result, err := svc.InitOrResumeUpload(testSignature, "book.pdf", 25)
	require.NoError(t, err)

	_, err = svc.CompleteUpload(result.UploadId, result.Key)
	assert.ErrorIs(t, err, ErrCompletionFailed)
}

func TestCompleteTwiceReportsSessionNotFound(t *testing.T) {
	svc, _ := newTestService(10)

	result, err := svc.InitOrResumeUpload(testSignature, "book.pdf", 5)
	require.NoError(t, err)

	_, err = svc.UploadPart(result.UploadId, result.Key, 1, []byte("aaaaa"))
	require.NoError(t, err)

	_, err = svc.CompleteUpload(result.UploadId, result.Key)
	require.NoError(t, err)

	_, err = svc.CompleteUpload(result.UploadId, result.Key)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestConcurrentSessionsLastCompletionWins(t *testing.T) {
	svc, st := newTestService(10)
	key := "uploads/" + testSignature + "/book.pdf"

	// Two clients raced init for the same file and each got its own session
	idA, err := st.InitiateMultipartUpload(key)
	require.NoError(t, err)
	idB, err := st.InitiateMultipartUpload(key)
	require.NoError(t, err)

	_, err = svc.UploadPart(idA, key, 1, []byte("from-A"))
	require.NoError(t, err)
	_, err = svc.UploadPart(idB, key, 1, []byte("from-B"))
	require.NoError(t, err)

	_, err = svc.CompleteUpload(idA, key)
	require.NoError(t, err)

	// The second session is still completable and overwrites the object
	_, err = svc.CompleteUpload(idB, key)
	require.NoError(t, err)

	final, err := st.Get(key)
	require.NoError(t, err)
	assert.Equal(t, []byte("from-B"), final)

	// Re-completing an already finished session is terminal, not fatal
	_, err = svc.CompleteUpload(idA, key)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAbortIsIdempotent(t *testing.T) {
	svc, st := newTestService(1024)

	result, err := svc.InitOrResumeUpload(testSignature, "book.pdf", 2048)
	require.NoError(t, err)

	require.NoError(t, svc.AbortUpload(result.UploadId, result.Key))
	assert.Equal(t, 0, st.uploadCount())

	pending, err := svc.ListPendingUploads()
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Aborting again, or aborting a session that never existed, succeeds
	assert.NoError(t, svc.AbortUpload(result.UploadId, result.Key))
	assert.NoError(t, svc.AbortUpload("no-such-upload", result.Key))
}

func TestListPendingSortedAndFiltered(t *testing.T) {
	svc, st := newTestService(1024)
	now := time.Now()

	oldest, err := st.InitiateMultipartUpload("uploads/aaaaaaaaaaaaaaaa/old.pdf")
	require.NoError(t, err)
	st.setInitiated(oldest, now.Add(-3*time.Hour))

	newest, err := st.InitiateMultipartUpload("uploads/bbbbbbbbbbbbbbbb/new.pdf")
	require.NoError(t, err)
	st.setInitiated(newest, now.Add(-1*time.Hour))

	middle, err := st.InitiateMultipartUpload("uploads/cccccccccccccccc/mid.pdf")
	require.NoError(t, err)
	st.setInitiated(middle, now.Add(-2*time.Hour))

	// A foreign object under the prefix is not one of ours
	foreign, err := st.InitiateMultipartUpload("uploads/not-a-signature/x.bin")
	require.NoError(t, err)
	st.setInitiated(foreign, now)

	pending, err := svc.ListPendingUploads()
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, newest, pending[0].UploadId)
	assert.Equal(t, middle, pending[1].UploadId)
	assert.Equal(t, oldest, pending[2].UploadId)
	assert.Equal(t, "new.pdf", pending[0].FileName)
	assert.Equal(t, "bbbbbbbbbbbbbbbb", pending[0].Signature)
}

func TestGetUploadStatusUnknownSession(t *testing.T) {
	svc, _ := newTestService(1024)

	_, err := svc.GetUploadStatus("no-such-upload")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCleanupExpiredAbortsOnlyOldSessions(t *testing.T) {
	svc, st := newTestService(1024)
	now := time.Now()

	expired, err := st.InitiateMultipartUpload("uploads/aaaaaaaaaaaaaaaa/old.pdf")
	require.NoError(t, err)
	st.setInitiated(expired, now.Add(-25*time.Hour))

	fresh, err := st.InitiateMultipartUpload("uploads/bbbbbbbbbbbbbbbb/new.pdf")
	require.NoError(t, err)
	st.setInitiated(fresh, now.Add(-1*time.Hour))

	stuck, err := st.InitiateMultipartUpload("uploads/cccccccccccccccc/stuck.pdf")
	require.NoError(t, err)
	st.setInitiated(stuck, now.Add(-30*time.Hour))
	st.failAbort[stuck] = true

	count, err := svc.CleanupExpired(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// The fresh session survives; the failing one is skipped, not fatal
	assert.Equal(t, 2, st.uploadCount())
	_, err = svc.GetUploadStatus(fresh)
	assert.NoError(t, err)
	_, err = svc.GetUploadStatus(expired)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
