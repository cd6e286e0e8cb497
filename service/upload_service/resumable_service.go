package upload_service

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"pdf-upload-service/common"
	"pdf-upload-service/storage"
)

const (
	// DefaultChunkSize the smallest part size the backends accept for any
	// part except the last one (5 MiB)
	DefaultChunkSize int64 = 5 * 1024 * 1024

	// MaxPartSize largest single part the backends accept (5 GiB)
	MaxPartSize int64 = 5 * 1024 * 1024 * 1024

	// MaxPartCount most parts a single upload may carry
	MaxPartCount = 10000

	// MaxObjectSize largest completed object the backends accept (5 TiB)
	MaxObjectSize int64 = 5 * 1024 * 1024 * 1024 * 1024
)

var (
	ErrSessionNotFound  = errors.New("upload session not found")
	ErrExpiredSession   = errors.New("upload session expired")
	ErrCapacityExceeded = errors.New("upload exceeds backend capacity limits")
	ErrPartUploadFailed = errors.New("part upload failed")
	ErrCompletionFailed = errors.New("upload completion failed")
	ErrAbortFailed      = errors.New("upload abort failed")
)

// ResumableUploadService coordinates chunked uploads purely through the
// storage backend's own multipart bookkeeping. It holds no session state, so
// a restarted process (or a second instance) resumes any upload the backend
// still tracks.
type ResumableUploadService struct {
	storage          storage.Storage
	defaultChunkSize int64
}

// NewResumableUploadService create resumable upload service instance.
// A non-positive chunk size falls back to DefaultChunkSize.
func NewResumableUploadService(stor storage.Storage, defaultChunkSize int64) *ResumableUploadService {
	if defaultChunkSize <= 0 {
		defaultChunkSize = DefaultChunkSize
	}
	return &ResumableUploadService{
		storage:          stor,
		defaultChunkSize: defaultChunkSize,
	}
}

// InitUploadResult session view handed back to the client after init or resume
type InitUploadResult struct {
	UploadId        string `json:"uploadId"`
	Key             string `json:"key"`
	ChunkSize       int64  `json:"chunkSize"`
	TotalChunks     int    `json:"totalChunks"`
	CompletedChunks int    `json:"completedChunks"`
}

// PendingUpload read-only progress view of an in-progress session, derived
// entirely from what the backend reports
type PendingUpload struct {
	UploadId        string    `json:"uploadId"`
	Key             string    `json:"key"`
	Signature       string    `json:"signature"`
	FileName        string    `json:"fileName"`
	ChunkSize       int64     `json:"chunkSize"`
	CompletedChunks int       `json:"completedChunks"`
	BytesUploaded   int64     `json:"bytesUploaded"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CompleteUploadResult hand-off payload for the cataloging step
type CompleteUploadResult struct {
	Key      string `json:"key"`
	FileName string `json:"fileName"`
}

// InitOrResumeUpload start a new upload session for the file, or pick up the
// one the backend already tracks under the same signature. The file size
// comes fresh from the caller on every call; only the chunk size and the
// uploaded-part count come from the backend.
func (s *ResumableUploadService) InitOrResumeUpload(signature, fileName string, fileSize int64) (*InitUploadResult, error) {
	if fileSize <= 0 {
		return nil, fmt.Errorf("file size must be positive")
	}
	if !common.IsValidSignature(signature) {
		return nil, fmt.Errorf("invalid file signature %q", signature)
	}
	if fileName == "" {
		return nil, fmt.Errorf("file name is empty")
	}

	key, err := common.EncodeUploadKey(signature, fileName)
	if err != nil {
		return nil, err
	}

	// Reject impossible sizes before touching the backend
	if fileSize > MaxObjectSize {
		return nil, fmt.Errorf("%w: file size %d exceeds max object size %d", ErrCapacityExceeded, fileSize, MaxObjectSize)
	}
	if s.defaultChunkSize*MaxPartCount < fileSize {
		return nil, fmt.Errorf("%w: %d bytes cannot fit in %d parts of %d bytes",
			ErrCapacityExceeded, fileSize, MaxPartCount, s.defaultChunkSize)
	}

	uploads, err := s.storage.ListMultipartUploads(common.UploadKeyPrefix + signature + "/")
	if err != nil {
		return nil, fmt.Errorf("failed to look up in-progress uploads: %w", err)
	}
	if len(uploads) > 0 {
		return s.resumeUpload(&uploads[0], fileSize)
	}

	uploadId, err := s.storage.InitiateMultipartUpload(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initiate upload session: %w", err)
	}

	total := totalChunks(fileSize, s.defaultChunkSize)
	log.Printf("Started upload session %s for %s (%d bytes, %d chunks)", uploadId, key, fileSize, total)

	return &InitUploadResult{
		UploadId:        uploadId,
		Key:             key,
		ChunkSize:       s.defaultChunkSize,
		TotalChunks:     total,
		CompletedChunks: 0,
	}, nil
}

// resumeUpload rebuild the session view for an upload the backend already
// tracks. The chunk size is pinned by the first uploaded part; with no parts
// yet it falls back to the default.
func (s *ResumableUploadService) resumeUpload(upload *storage.MultipartUpload, fileSize int64) (*InitUploadResult, error) {
	parts, err := s.storage.ListParts(upload.Key, upload.UploadId)
	if err != nil {
		if errors.Is(err, storage.ErrUploadNotFound) {
			// Vanished between the two list calls; the next init starts fresh
			return nil, fmt.Errorf("%w: session %s disappeared during resume", ErrExpiredSession, upload.UploadId)
		}
		return nil, fmt.Errorf("failed to list parts for resume: %w", err)
	}

	sort.Slice(parts, func(i, j int) bool { return parts[i].PartNumber < parts[j].PartNumber })

	chunkSize := s.defaultChunkSize
	if len(parts) > 0 && parts[0].Size > 0 {
		chunkSize = parts[0].Size
	}
	if chunkSize*MaxPartCount < fileSize {
		return nil, fmt.Errorf("%w: %d bytes cannot fit in %d parts of %d bytes",
			ErrCapacityExceeded, fileSize, MaxPartCount, chunkSize)
	}

	log.Printf("Resumed upload session %s for %s (%d of %d chunks present)",
		upload.UploadId, upload.Key, len(parts), totalChunks(fileSize, chunkSize))

	return &InitUploadResult{
		UploadId:        upload.UploadId,
		Key:             upload.Key,
		ChunkSize:       chunkSize,
		TotalChunks:     totalChunks(fileSize, chunkSize),
		CompletedChunks: len(parts),
	}, nil
}

// UploadPart store one chunk. Chunks may arrive out of order and may be
// retried freely: the backend overwrites a part number in place, so the
// caller retries the identical chunk after a failure.
func (s *ResumableUploadService) UploadPart(uploadId, key string, partNumber int, data []byte) (string, error) {
	if partNumber < 1 || partNumber > MaxPartCount {
		return "", fmt.Errorf("%w: part number %d out of range 1..%d", ErrCapacityExceeded, partNumber, MaxPartCount)
	}
	if int64(len(data)) > MaxPartSize {
		return "", fmt.Errorf("%w: chunk of %d bytes exceeds max part size %d", ErrCapacityExceeded, len(data), MaxPartSize)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("chunk is empty")
	}

	etag, err := s.storage.UploadPart(key, uploadId, partNumber, data)
	if err != nil {
		if errors.Is(err, storage.ErrUploadNotFound) {
			return "", fmt.Errorf("%w: upload %s", ErrExpiredSession, uploadId)
		}
		return "", fmt.Errorf("%w: part %d of upload %s: %v", ErrPartUploadFailed, partNumber, uploadId, err)
	}

	return etag, nil
}

// CompleteUpload assemble the final object from the parts the backend
// reports. The parts must form a contiguous 1..N sequence. Completion is
// atomic backend-side: a failed attempt leaves the session open for retry
// and never touches the destination object.
func (s *ResumableUploadService) CompleteUpload(uploadId, key string) (*CompleteUploadResult, error) {
	parts, err := s.storage.ListParts(key, uploadId)
	if err != nil {
		if errors.Is(err, storage.ErrUploadNotFound) {
			return nil, fmt.Errorf("%w: upload %s already completed or expired", ErrSessionNotFound, uploadId)
		}
		return nil, fmt.Errorf("failed to list parts for completion: %w", err)
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: no parts uploaded", ErrCompletionFailed)
	}

	sort.Slice(parts, func(i, j int) bool { return parts[i].PartNumber < parts[j].PartNumber })

	// The manifest must cover 1..N without holes
	for i := range parts {
		if parts[i].PartNumber != i+1 {
			return nil, fmt.Errorf("%w: missing part %d (found part %d instead)", ErrCompletionFailed, i+1, parts[i].PartNumber)
		}
	}

	manifest := make([]storage.PartInfo, 0, len(parts))
	for _, p := range parts {
		manifest = append(manifest, storage.PartInfo{PartNumber: p.PartNumber, ETag: p.ETag})
	}

	finalKey, err := s.storage.CompleteMultipartUpload(key, uploadId, manifest)
	if err != nil {
		if errors.Is(err, storage.ErrUploadNotFound) {
			return nil, fmt.Errorf("%w: upload %s already completed or expired", ErrSessionNotFound, uploadId)
		}
		return nil, fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}

	_, fileName, err := common.DecodeUploadKey(finalKey)
	if err != nil {
		// The object landed fine; the decoded name only feeds the catalog hand-off
		log.Printf("Completed upload %s but could not decode file name from %s: %v", uploadId, finalKey, err)
		fileName = finalKey
	}

	log.Printf("Completed upload %s: %s (%d parts)", uploadId, finalKey, len(parts))

	return &CompleteUploadResult{
		Key:      finalKey,
		FileName: fileName,
	}, nil
}

// AbortUpload drop an in-progress session and the parts stored for it. A
// session the backend no longer tracks counts as aborted.
func (s *ResumableUploadService) AbortUpload(uploadId, key string) error {
	if err := s.storage.AbortMultipartUpload(key, uploadId); err != nil {
		if errors.Is(err, storage.ErrUploadNotFound) {
			return nil
		}
		return fmt.Errorf("%w: upload %s: %v", ErrAbortFailed, uploadId, err)
	}

	log.Printf("Aborted upload %s (%s)", uploadId, key)
	return nil
}

// ListPendingUploads every in-progress session under the uploads prefix,
// most recently started first. Keys that were not written by this service
// are skipped.
func (s *ResumableUploadService) ListPendingUploads() ([]*PendingUpload, error) {
	uploads, err := s.storage.ListMultipartUploads(common.UploadKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list multipart uploads: %w", err)
	}

	pending := make([]*PendingUpload, 0, len(uploads))
	for i := range uploads {
		u := &uploads[i]
		if u.UploadId == "" {
			continue
		}
		signature, fileName, err := common.DecodeUploadKey(u.Key)
		if err != nil {
			// Foreign object under the uploads prefix
			continue
		}
		pending = append(pending, s.buildPendingView(u, signature, fileName))
	}

	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.After(pending[j].CreatedAt) })

	return pending, nil
}

// GetUploadStatus the progress view for one session
func (s *ResumableUploadService) GetUploadStatus(uploadId string) (*PendingUpload, error) {
	uploads, err := s.storage.ListMultipartUploads(common.UploadKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list multipart uploads: %w", err)
	}

	for i := range uploads {
		u := &uploads[i]
		if u.UploadId != uploadId {
			continue
		}
		signature, fileName, err := common.DecodeUploadKey(u.Key)
		if err != nil {
			// Still report the session, just without the decoded identity
			signature, fileName = "", u.Key
		}
		return s.buildPendingView(u, signature, fileName), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, uploadId)
}

// buildPendingView derive chunk progress for one session from its parts. A
// session that vanishes mid-listing is reported with zero progress instead
// of failing the whole listing.
func (s *ResumableUploadService) buildPendingView(u *storage.MultipartUpload, signature, fileName string) *PendingUpload {
	view := &PendingUpload{
		UploadId:  u.UploadId,
		Key:       u.Key,
		Signature: signature,
		FileName:  fileName,
		ChunkSize: s.defaultChunkSize,
		CreatedAt: u.Initiated,
	}

	parts, err := s.storage.ListParts(u.Key, u.UploadId)
	if err != nil {
		log.Printf("Failed to list parts for pending upload %s: %v", u.UploadId, err)
		return view
	}

	sort.Slice(parts, func(i, j int) bool { return parts[i].PartNumber < parts[j].PartNumber })

	if len(parts) > 0 && parts[0].Size > 0 {
		view.ChunkSize = parts[0].Size
	}
	view.CompletedChunks = len(parts)
	for _, p := range parts {
		view.BytesUploaded += p.Size
	}

	return view
}

// CleanupExpired abort every session started more than maxAge ago and report
// how many were reclaimed. A failure on one session is logged and skipped so
// it cannot stall the rest of the sweep.
func (s *ResumableUploadService) CleanupExpired(maxAge time.Duration) (int, error) {
	uploads, err := s.storage.ListMultipartUploads(common.UploadKeyPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list multipart uploads: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	aborted := 0
	for i := range uploads {
		u := &uploads[i]
		if u.UploadId == "" || u.Initiated.IsZero() || !u.Initiated.Before(cutoff) {
			continue
		}
		if err := s.AbortUpload(u.UploadId, u.Key); err != nil {
			log.Printf("Failed to abort expired upload %s (%s): %v", u.UploadId, u.Key, err)
			continue
		}
		aborted++
	}

	return aborted, nil
}

// totalChunks number of chunks needed to cover fileSize
func totalChunks(fileSize, chunkSize int64) int {
	return int((fileSize + chunkSize - 1) / chunkSize)
}
