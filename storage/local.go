package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"
)

// LocalStorage local file system storage
type LocalStorage struct {
	basePath string
}

// uploadSeq disambiguates upload ids created within the same nanosecond
var uploadSeq int64

// uploadMeta staged-upload metadata persisted next to the part files
type uploadMeta struct {
	Key       string    `json:"key"`
	UploadId  string    `json:"uploadId"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewLocalStorage create local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "./data/files"
	}

	// Ensure directory exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

// Save save file
func (s *LocalStorage) Save(key string, data []byte) error {
	filePath := filepath.Join(s.basePath, key)

	// Ensure parent directory exists
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write file
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Get get file
func (s *LocalStorage) Get(key string) ([]byte, error) {
	filePath := filepath.Join(s.basePath, key)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return data, nil
}

// Delete delete file
func (s *LocalStorage) Delete(key string) error {
	filePath := filepath.Join(s.basePath, key)

	err := os.Remove(filePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// Exists check if file exists
func (s *LocalStorage) Exists(key string) bool {
	filePath := filepath.Join(s.basePath, key)

	_, err := os.Stat(filePath)
	return err == nil
}

// InitiateMultipartUpload initiate multipart upload (local storage implementation)
func (s *LocalStorage) InitiateMultipartUpload(key string) (string, error) {
	uploadId := fmt.Sprintf("upload_%d_%d", time.Now().UnixNano(), atomic.AddInt64(&uploadSeq, 1))
	uploadDir := filepath.Join(s.basePath, ".uploads", uploadId)

	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	// Store upload metadata
	meta := uploadMeta{
		Key:       key,
		UploadId:  uploadId,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to marshal upload metadata: %w", err)
	}
	metaPath := filepath.Join(uploadDir, "meta.json")
	if err := os.WriteFile(metaPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write upload metadata: %w", err)
	}

	return uploadId, nil
}

// readUploadMeta load the metadata of a staged upload
func (s *LocalStorage) readUploadMeta(uploadId string) (*uploadMeta, error) {
	metaPath := filepath.Join(s.basePath, ".uploads", uploadId, "meta.json")

	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta uploadMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// ListMultipartUploads list in-progress multipart uploads under a key prefix
// (local storage implementation: scans the staging directory)
func (s *LocalStorage) ListMultipartUploads(prefix string) ([]MultipartUpload, error) {
	uploadsDir := filepath.Join(s.basePath, ".uploads")

	entries, err := os.ReadDir(uploadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []MultipartUpload{}, nil
		}
		return nil, fmt.Errorf("failed to read uploads directory: %w", err)
	}

	uploads := make([]MultipartUpload, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.readUploadMeta(entry.Name())
		if err != nil {
			// Staging dir without readable metadata, skip it
			continue
		}
		if !strings.HasPrefix(meta.Key, prefix) {
			continue
		}

		uploads = append(uploads, MultipartUpload{
			Key:       meta.Key,
			UploadId:  meta.UploadId,
			Initiated: meta.CreatedAt,
		})
	}

	return uploads, nil
}

// UploadPart upload a part (local storage implementation)
func (s *LocalStorage) UploadPart(key, uploadId string, partNumber int, data []byte) (string, error) {
	uploadDir := filepath.Join(s.basePath, ".uploads", uploadId)
	partPath := filepath.Join(uploadDir, fmt.Sprintf("part_%d", partNumber))

	if err := os.WriteFile(partPath, data, 0644); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("upload part %d: %w", partNumber, ErrUploadNotFound)
		}
		return "", fmt.Errorf("failed to write part %d: %w", partNumber, err)
	}

	return partETag(partNumber, int64(len(data))), nil
}

// partETag cheap local stand-in for a content tag
func partETag(partNumber int, size int64) string {
	return fmt.Sprintf("%d_%d", partNumber, size)
}

// ListParts list uploaded parts (local storage implementation)
func (s *LocalStorage) ListParts(key, uploadId string) ([]PartInfo, error) {
	uploadDir := filepath.Join(s.basePath, ".uploads", uploadId)

	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("list parts: %w", ErrUploadNotFound)
		}
		return nil, fmt.Errorf("failed to read upload directory: %w", err)
	}

	parts := make([]PartInfo, 0)
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == "meta.json" {
			continue
		}

		var partNumber int
		if _, err := fmt.Sscanf(entry.Name(), "part_%d", &partNumber); err != nil {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		parts = append(parts, PartInfo{
			PartNumber: partNumber,
			ETag:       partETag(partNumber, info.Size()),
			Size:       info.Size(),
		})
	}

	// Directory order is lexicographic (part_10 before part_2); report in
	// part number order like the remote backends do
	sort.Slice(parts, func(i, j int) bool {
		return parts[i].PartNumber < parts[j].PartNumber
	})

	return parts, nil
}

// CompleteMultipartUpload complete multipart upload and return the final
// object key (local storage implementation)
func (s *LocalStorage) CompleteMultipartUpload(key, uploadId string, parts []PartInfo) (string, error) {
	uploadDir := filepath.Join(s.basePath, ".uploads", uploadId)

	if _, err := os.Stat(uploadDir); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("complete multipart upload: %w", ErrUploadNotFound)
		}
		return "", fmt.Errorf("failed to stat upload directory: %w", err)
	}

	filePath := filepath.Join(s.basePath, key)

	// Ensure parent directory exists
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	// Sort parts by part number
	sort.Slice(parts, func(i, j int) bool {
		return parts[i].PartNumber < parts[j].PartNumber
	})

	// Assemble into a temp file first so a failed completion never leaves a
	// partial object at the final key
	tmpFile, err := os.CreateTemp(dir, ".assembling_*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	for _, part := range parts {
		partPath := filepath.Join(uploadDir, fmt.Sprintf("part_%d", part.PartNumber))
		partData, err := os.ReadFile(partPath)
		if err != nil {
			return "", fmt.Errorf("failed to read part %d: %w", part.PartNumber, err)
		}

		// Reject a stale manifest the same way a remote backend would
		if part.ETag != "" && part.ETag != partETag(part.PartNumber, int64(len(partData))) {
			return "", fmt.Errorf("etag mismatch for part %d", part.PartNumber)
		}

		if _, err := tmpFile.Write(partData); err != nil {
			return "", fmt.Errorf("failed to write part %d: %w", part.PartNumber, err)
		}
	}

	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to flush assembled file: %w", err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		return "", fmt.Errorf("failed to move assembled file into place: %w", err)
	}

	// Clean up upload directory
	os.RemoveAll(uploadDir)

	return key, nil
}

// AbortMultipartUpload abort multipart upload (local storage implementation)
func (s *LocalStorage) AbortMultipartUpload(key, uploadId string) error {
	uploadDir := filepath.Join(s.basePath, ".uploads", uploadId)
	return os.RemoveAll(uploadDir)
}
