package conf

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config application configuration structure
type Config struct {
	// Network configuration
	Port string // Uploader service port

	// Storage configuration
	Storage StorageConfig

	// Upload coordination configuration
	Upload UploadConfig
}

// StorageConfig storage configuration
type StorageConfig struct {
	Type  string
	Local LocalStorageConfig
	OSS   OSSStorageConfig
	S3    S3StorageConfig
	MinIO MinIOStorageConfig
}

// LocalStorageConfig local storage configuration
type LocalStorageConfig struct {
	BasePath string
}

// OSSStorageConfig OSS storage configuration
type OSSStorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

// S3StorageConfig AWS S3 storage configuration
type S3StorageConfig struct {
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Endpoint  string // Optional custom endpoint
}

// MinIOStorageConfig MinIO storage configuration
type MinIOStorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

// UploadConfig upload coordination configuration
type UploadConfig struct {
	ChunkSize       int64  // Chunk size in bytes (configured in MB)
	CleanupInterval int    // Minutes between expired-session sweeps
	MaxSessionAge   int    // Hours before an unfinished session expires
	SwaggerBaseUrl  string // Swagger API base URL (e.g., "example.com:7280")
}

// Cfg global configuration instance
var Cfg *Config

// InitConfig initialize configuration
func InitConfig() error {
	viper.SetConfigFile(GetYaml())
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("Fatal error config file: %s", err)
	}

	// Create configuration instance
	Cfg = &Config{
		Port: viper.GetString("port"),

		Storage: StorageConfig{
			Type: viper.GetString("storage.type"),
			Local: LocalStorageConfig{
				BasePath: viper.GetString("storage.local.base_path"),
			},
			OSS: OSSStorageConfig{
				Endpoint:  viper.GetString("storage.oss.endpoint"),
				AccessKey: viper.GetString("storage.oss.access_key"),
				SecretKey: viper.GetString("storage.oss.secret_key"),
				Bucket:    viper.GetString("storage.oss.bucket"),
			},
			S3: S3StorageConfig{
				Region:    viper.GetString("storage.s3.region"),
				AccessKey: viper.GetString("storage.s3.access_key"),
				SecretKey: viper.GetString("storage.s3.secret_key"),
				Bucket:    viper.GetString("storage.s3.bucket"),
				Endpoint:  viper.GetString("storage.s3.endpoint"),
			},
			MinIO: MinIOStorageConfig{
				Endpoint:  viper.GetString("storage.minio.endpoint"),
				AccessKey: viper.GetString("storage.minio.access_key"),
				SecretKey: viper.GetString("storage.minio.secret_key"),
				Bucket:    viper.GetString("storage.minio.bucket"),
			},
		},

		Upload: UploadConfig{
			ChunkSize:       viper.GetInt64("upload.chunk_size") * 1024 * 1024, // MB to bytes
			CleanupInterval: viper.GetInt("upload.cleanup_interval"),
			MaxSessionAge:   viper.GetInt("upload.max_session_age"),
			SwaggerBaseUrl:  viper.GetString("upload.swagger_base_url"),
		},
	}

	// Set default values
	if Cfg.Port == "" {
		Cfg.Port = "7280"
	}
	if Cfg.Storage.Type == "" {
		Cfg.Storage.Type = "local"
	}
	if Cfg.Storage.Local.BasePath == "" {
		Cfg.Storage.Local.BasePath = "./data/files"
	}
	if Cfg.Upload.ChunkSize <= 0 {
		Cfg.Upload.ChunkSize = 5 * 1024 * 1024 // 5MB default
	}
	if Cfg.Upload.CleanupInterval <= 0 {
		Cfg.Upload.CleanupInterval = 60
	}
	if Cfg.Upload.MaxSessionAge <= 0 {
		Cfg.Upload.MaxSessionAge = 24
	}
	if Cfg.Upload.SwaggerBaseUrl == "" {
		Cfg.Upload.SwaggerBaseUrl = "localhost:" + Cfg.Port
	}

	return nil
}

// GetCleanupInterval sweep interval as a duration
func GetCleanupInterval() time.Duration {
	if Cfg == nil {
		return time.Hour
	}
	return time.Duration(Cfg.Upload.CleanupInterval) * time.Minute
}

// GetMaxSessionAge session age cutoff as a duration
func GetMaxSessionAge() time.Duration {
	if Cfg == nil {
		return 24 * time.Hour
	}
	return time.Duration(Cfg.Upload.MaxSessionAge) * time.Hour
}
