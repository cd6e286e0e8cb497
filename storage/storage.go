package storage

import (
	"errors"
	"time"

	"pdf-upload-service/conf"
)

// Storage unified storage interface
type Storage interface {
	Save(key string, data []byte) error
	Get(key string) ([]byte, error)
	Delete(key string) error
	Exists(key string) bool

	// Multipart upload methods for large files. The backend is the only
	// record of an in-progress upload; nothing below is cached locally.
	InitiateMultipartUpload(key string) (string, error)                             // Returns uploadId
	ListMultipartUploads(prefix string) ([]MultipartUpload, error)                  // In-progress uploads under a key prefix
	UploadPart(key, uploadId string, partNumber int, data []byte) (string, error)   // Returns etag
	ListParts(key, uploadId string) ([]PartInfo, error)                             // All backend pages aggregated
	CompleteMultipartUpload(key, uploadId string, parts []PartInfo) (string, error) // Returns the final object key
	AbortMultipartUpload(key, uploadId string) error
}

// MultipartUpload an in-progress multipart upload as reported by the backend
type MultipartUpload struct {
	Key       string    `json:"key"`
	UploadId  string    `json:"uploadId"`
	Initiated time.Time `json:"initiated"`
}

// PartInfo part information for multipart upload
type PartInfo struct {
	PartNumber int    `json:"partNumber"`
	ETag       string `json:"etag"`
	Size       int64  `json:"size"`
}

var (
	ErrNotFound = errors.New("file not found")
	ErrInvalid  = errors.New("invalid storage configuration")

	// ErrUploadNotFound the backend no longer tracks the upload id: it was
	// completed, aborted, or expired backend-side.
	ErrUploadNotFound = errors.New("multipart upload not found")
)

// NewStorage create storage instance by configuration
func NewStorage() (Storage, error) {
	storageType := conf.Cfg.Storage.Type

	switch storageType {
	case "local":
		return NewLocalStorage(conf.Cfg.Storage.Local.BasePath)
	case "oss":
		return NewOSSStorage(conf.Cfg.Storage.OSS.Endpoint, conf.Cfg.Storage.OSS.AccessKey,
			conf.Cfg.Storage.OSS.SecretKey, conf.Cfg.Storage.OSS.Bucket)
	case "s3":
		return NewS3Storage(conf.Cfg.Storage.S3.Region, conf.Cfg.Storage.S3.Endpoint,
			conf.Cfg.Storage.S3.AccessKey, conf.Cfg.Storage.S3.SecretKey, conf.Cfg.Storage.S3.Bucket)
	case "minio":
		return NewMinIOStorage(conf.Cfg.Storage.MinIO.Endpoint, conf.Cfg.Storage.MinIO.AccessKey,
			conf.Cfg.Storage.MinIO.SecretKey, conf.Cfg.Storage.MinIO.Bucket)
	default:
		// Default to local storage
		return NewLocalStorage(conf.Cfg.Storage.Local.BasePath)
	}
}
