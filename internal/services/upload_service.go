package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/segmentio/ksuid"
	"gorm.io/gorm"

	"storefront_backend/internal/config"
	"storefront_backend/internal/imageprocessor"
	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/internal/storage"
	"storefront_backend/pkg/apperrors"
)

const (
	uploadsLimit    = 50
	uploadsMaxLimit = 200
)

// ============================================
// UPLOAD SERVICE
// ============================================

type UploadService interface {
	// Загрузка изображения каталога/блога
	UploadImage(ctx context.Context, db *gorm.DB, adminID string, req *dto.ImageUploadRequest) (*dto.UploadResponse, error)

	// Журнал загрузок
	List(ctx context.Context, db *gorm.DB, query *dto.UploadListQuery) (*dto.UploadListResponse, error)
	Delete(ctx context.Context, db *gorm.DB, id string) error
}

type uploadService struct {
	uploadRepo repositories.UploadRepository
	storage    storage.Storage
	processor  *imageprocessor.Processor
	config     *UploadConfig
}

// ============================================
// КОНФИГУРАЦИЯ
// ============================================

type UploadConfig struct {
	MaxFileSize  int64
	AllowedTypes []string
	// Provider пишется в журнал (local, s3, cloudflare_r2)
	Provider string
	Targets  map[string]config.UploadTarget
}

func GetDefaultUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxFileSize:  5 * 1024 * 1024,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		Provider:     "local",
		Targets:      config.UploadTargets,
	}
}

// ============================================
// КОНСТРУКТОР
// ============================================

func NewUploadService(
	uploadRepo repositories.UploadRepository,
	store storage.Storage,
	processor *imageprocessor.Processor,
	cfg *UploadConfig,
) UploadService {
	if cfg == nil {
		cfg = GetDefaultUploadConfig()
	}
	if cfg.Targets == nil {
		cfg.Targets = config.UploadTargets
	}
	return &uploadService{
		uploadRepo: uploadRepo,
		storage:    store,
		processor:  processor,
		config:     cfg,
	}
}

// ============================================
// ОСНОВНЫЕ МЕТОДЫ
// ============================================

func (s *uploadService) UploadImage(ctx context.Context, db *gorm.DB, adminID string, req *dto.ImageUploadRequest) (*dto.UploadResponse, error) {
	target, ok := s.config.Targets[req.Target]
	if !ok {
		return nil, apperrors.NewNotFoundError("upload", fmt.Sprintf("Unknown upload target: %s", req.Target))
	}
	if req.File == nil {
		return nil, apperrors.NewBadRequestError("No file uploaded")
	}
	if req.File.Size > s.config.MaxFileSize {
		return nil, apperrors.ErrFileTooLarge(s.config.MaxFileSize)
	}

	data, err := s.readFile(req)
	if err != nil {
		return nil, err
	}

	// тип определяется по содержимому, заголовок клиента не учитывается
	contentType := http.DetectContentType(data)
	if !s.isAllowed(contentType) {
		return nil, apperrors.ErrUnsupportedFileType(contentType)
	}

	resized := false
	if s.processor != nil {
		out, changed, err := s.processor.Downscale(data, contentType)
		if err != nil {
			return nil, apperrors.ValidationError(map[string]string{"image": "could not decode image"})
		}
		data, resized = out, changed
	}

	key := fmt.Sprintf("%s/%s-%s", target.Dir, ksuid.New().String(), sanitizeFileName(req.File.Filename))

	if err := s.storage.Save(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to save file to storage: %w", err))
	}

	upload := &models.Upload{
		AdminID:         adminID,
		Target:          req.Target,
		Key:             key,
		URL:             s.storage.URL(key),
		OriginalName:    req.File.Filename,
		ContentType:     contentType,
		Size:            int64(len(data)),
		Resized:         resized,
		StorageProvider: s.config.Provider,
	}
	if err := s.uploadRepo.Create(db, upload); err != nil {
		// без записи в журнале файл становится сиротой, убираем его
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.CtxWithError(ctx, "Failed to rollback stored file", delErr, "key", key)
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "File uploaded",
		"target", req.Target,
		"key", key,
		"size", upload.Size,
		"resized", resized,
	)

	return &dto.UploadResponse{
		URL:         upload.URL,
		Key:         key,
		ContentType: contentType,
		Size:        upload.Size,
		Resized:     resized,
	}, nil
}

func (s *uploadService) List(ctx context.Context, db *gorm.DB, query *dto.UploadListQuery) (*dto.UploadListResponse, error) {
	page, limit, offset := pageParams(query.Page, query.Limit, uploadsLimit, uploadsMaxLimit)

	uploads, total, err := s.uploadRepo.List(db, strings.TrimSpace(query.Target), limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.UploadRecordResponse, 0, len(uploads))
	for _, u := range uploads {
		out = append(out, &dto.UploadRecordResponse{
			ID:           u.ID,
			Target:       u.Target,
			Key:          u.Key,
			URL:          u.URL,
			OriginalName: u.OriginalName,
			ContentType:  u.ContentType,
			Size:         u.Size,
			Resized:      u.Resized,
			CreatedAt:    dto.ISOTime(u.CreatedAt),
		})
	}
	return &dto.UploadListResponse{Uploads: out, PageMeta: dto.NewPageMeta(total, page, limit)}, nil
}

// Delete удаляет запись, затем объект в хранилище
func (s *uploadService) Delete(ctx context.Context, db *gorm.DB, id string) error {
	upload, err := s.uploadRepo.FindByID(db, id)
	if err != nil {
		return handleUploadError(err)
	}
	if err := s.uploadRepo.Delete(db, id); err != nil {
		return handleUploadError(err)
	}

	// запись уже удалена, ошибку хранилища только логируем
	if err := s.storage.Delete(ctx, upload.Key); err != nil {
		logger.CtxWithError(ctx, "Failed to delete file from storage", err, "key", upload.Key)
	}
	return nil
}

// ============================================
// ВСПОМОГАТЕЛЬНЫЕ МЕТОДЫ
// ============================================

func (s *uploadService) readFile(req *dto.ImageUploadRequest) ([]byte, error) {
	src, err := req.File.Open()
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	// +1 байт, чтобы поймать файл длиннее заявленного размера
	data, err := io.ReadAll(io.LimitReader(src, s.config.MaxFileSize+1))
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to read uploaded file: %w", err))
	}
	if int64(len(data)) > s.config.MaxFileSize {
		return nil, apperrors.ErrFileTooLarge(s.config.MaxFileSize)
	}
	if len(data) == 0 {
		return nil, apperrors.NewBadRequestError("Uploaded file is empty")
	}
	return data, nil
}

func (s *uploadService) isAllowed(contentType string) bool {
	for _, allowed := range s.config.AllowedTypes {
		if allowed == contentType {
			return true
		}
	}
	return false
}

// sanitizeFileName оставляет латиницу, цифры, точку, дефис и подчеркивание
func sanitizeFileName(name string) string {
	name = strings.ToLower(filepath.Base(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-.")
	if len(out) > 80 {
		out = out[len(out)-80:]
	}
	if out == "" {
		out = "image"
	}
	return out
}

func handleUploadError(err error) error {
	if errors.Is(err, repositories.ErrUploadNotFound) {
		return apperrors.NewNotFoundError("upload", "Upload not found")
	}
	return apperrors.InternalError(err)
}
