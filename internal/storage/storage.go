package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage - хранилище загруженных файлов (изображения каталога и блога)
type Storage interface {
	// Save сохраняет объект по ключу вида "<dir>/<name>"
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete удаляет объект; отсутствие объекта не ошибка
	Delete(ctx context.Context, key string) error

	// URL - публичный адрес объекта, который пишется в БД
	URL(key string) string
}

// Config holds storage configuration
type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // For local storage
	BaseURL    string // Public URL base
	Bucket     string // For S3/R2
	Region     string // For S3
	AccessKey  string // For S3/R2
	SecretKey  string // For S3/R2
	Endpoint   string // For R2 or custom S3
	AccountID  string // For R2 when Endpoint is empty
	PublicRead bool   // Make files public by default
}

// New creates a storage backend based on configuration
func New(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
