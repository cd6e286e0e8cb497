package storage

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// OSSStorage Alibaba Cloud OSS storage
type OSSStorage struct {
	bucket *oss.Bucket
}

// NewOSSStorage create OSS storage instance
func NewOSSStorage(endpoint, accessKey, secretKey, bucketName string) (*OSSStorage, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" || bucketName == "" {
		return nil, ErrInvalid
	}

	// Create OSS client instance
	client, err := oss.New(endpoint, accessKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create oss client: %w", err)
	}

	// Get storage bucket
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &OSSStorage{
		bucket: bucket,
	}, nil
}

// isOSSUploadGone reports whether OSS no longer tracks the upload id
func isOSSUploadGone(err error) bool {
	if ossErr, ok := err.(oss.ServiceError); ok {
		return ossErr.Code == "NoSuchUpload"
	}
	return false
}

// Save save file to OSS
func (s *OSSStorage) Save(key string, data []byte) error {
	err := s.bucket.PutObject(key, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to upload to oss: %w", err)
	}
	return nil
}

// Get get file from OSS
func (s *OSSStorage) Get(key string) ([]byte, error) {
	body, err := s.bucket.GetObject(key)
	if err != nil {
		if ossErr, ok := err.(oss.ServiceError); ok && ossErr.StatusCode == 404 {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get from oss: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read oss object: %w", err)
	}

	return data, nil
}

// Delete delete file from OSS
func (s *OSSStorage) Delete(key string) error {
	err := s.bucket.DeleteObject(key)
	if err != nil {
		return fmt.Errorf("failed to delete from oss: %w", err)
	}
	return nil
}

// Exists check if file exists in OSS
func (s *OSSStorage) Exists(key string) bool {
	exists, err := s.bucket.IsObjectExist(key)
	if err != nil {
		return false
	}
	return exists
}

// InitiateMultipartUpload initiate multipart upload
func (s *OSSStorage) InitiateMultipartUpload(key string) (string, error) {
	imur, err := s.bucket.InitiateMultipartUpload(key)
	if err != nil {
		return "", fmt.Errorf("failed to initiate multipart upload: %w", err)
	}
	return imur.UploadID, nil
}

// ListMultipartUploads list in-progress multipart uploads under a key prefix,
// following the backend's pagination markers until exhausted
func (s *OSSStorage) ListMultipartUploads(prefix string) ([]MultipartUpload, error) {
	uploads := make([]MultipartUpload, 0)

	keyMarker := ""
	uploadIdMarker := ""
	for {
		result, err := s.bucket.ListMultipartUploads(
			oss.Prefix(prefix),
			oss.KeyMarker(keyMarker),
			oss.UploadIDMarker(uploadIdMarker),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to list multipart uploads: %w", err)
		}

		for _, u := range result.Uploads {
			uploads = append(uploads, MultipartUpload{
				Key:       u.Key,
				UploadId:  u.UploadID,
				Initiated: u.Initiated,
			})
		}

		if !result.IsTruncated {
			break
		}
		keyMarker = result.NextKeyMarker
		uploadIdMarker = result.NextUploadIDMarker
	}

	return uploads, nil
}

// UploadPart upload a part
func (s *OSSStorage) UploadPart(key, uploadId string, partNumber int, data []byte) (string, error) {
	imur := oss.InitiateMultipartUploadResult{
		Key:      key,
		UploadID: uploadId,
	}

	part, err := s.bucket.UploadPart(imur, bytes.NewReader(data), int64(len(data)), partNumber)
	if err != nil {
		if isOSSUploadGone(err) {
			return "", fmt.Errorf("upload part %d: %w", partNumber, ErrUploadNotFound)
		}
		return "", fmt.Errorf("failed to upload part %d: %w", partNumber, err)
	}

	return part.ETag, nil
}

// ListParts list uploaded parts, aggregating every backend page
func (s *OSSStorage) ListParts(key, uploadId string) ([]PartInfo, error) {
	imur := oss.InitiateMultipartUploadResult{
		Key:      key,
		UploadID: uploadId,
	}

	result := make([]PartInfo, 0)

	marker := 0
	for {
		partsResult, err := s.bucket.ListUploadedParts(imur, oss.PartNumberMarker(marker))
		if err != nil {
			if isOSSUploadGone(err) {
				return nil, fmt.Errorf("list parts: %w", ErrUploadNotFound)
			}
			return nil, fmt.Errorf("failed to list parts: %w", err)
		}

		for _, p := range partsResult.UploadedParts {
			result = append(result, PartInfo{
				PartNumber: p.PartNumber,
				ETag:       p.ETag,
				Size:       int64(p.Size),
			})
		}

		if !partsResult.IsTruncated {
			break
		}
		marker, err = strconv.Atoi(partsResult.NextPartNumberMarker)
		if err != nil {
			return nil, fmt.Errorf("failed to parse part number marker %q: %w", partsResult.NextPartNumberMarker, err)
		}
	}

	return result, nil
}

// CompleteMultipartUpload complete multipart upload and return the final object key
func (s *OSSStorage) CompleteMultipartUpload(key, uploadId string, parts []PartInfo) (string, error) {
	imur := oss.InitiateMultipartUploadResult{
		Key:      key,
		UploadID: uploadId,
	}

	// Convert PartInfo to oss.UploadPart
	ossParts := make([]oss.UploadPart, 0, len(parts))
	for _, p := range parts {
		ossParts = append(ossParts, oss.UploadPart{
			PartNumber: p.PartNumber,
			ETag:       p.ETag,
		})
	}

	// Sort parts by part number
	sort.Slice(ossParts, func(i, j int) bool {
		return ossParts[i].PartNumber < ossParts[j].PartNumber
	})

	result, err := s.bucket.CompleteMultipartUpload(imur, ossParts)
	if err != nil {
		if isOSSUploadGone(err) {
			return "", fmt.Errorf("complete multipart upload: %w", ErrUploadNotFound)
		}
		return "", fmt.Errorf("failed to complete multipart upload: %w", err)
	}

	finalKey := key
	if result.Key != "" {
		finalKey = result.Key
	}
	return finalKey, nil
}

// AbortMultipartUpload abort multipart upload
func (s *OSSStorage) AbortMultipartUpload(key, uploadId string) error {
	imur := oss.InitiateMultipartUploadResult{
		Key:      key,
		UploadID: uploadId,
	}

	err := s.bucket.AbortMultipartUpload(imur)
	if err != nil {
		if isOSSUploadGone(err) {
			return fmt.Errorf("abort multipart upload: %w", ErrUploadNotFound)
		}
		return fmt.Errorf("failed to abort multipart upload: %w", err)
	}

	return nil
}
