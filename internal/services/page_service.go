package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"
)

// PageService - CMS-документы по ключу
type PageService interface {
	GetPublished(ctx context.Context, db *gorm.DB, key string) (*dto.PageResponse, error)
	AdminList(ctx context.Context, db *gorm.DB) ([]*dto.PageResponse, error)
	AdminGet(ctx context.Context, db *gorm.DB, key string) (*dto.PageResponse, error)
	Upsert(ctx context.Context, db *gorm.DB, key string, req *dto.UpsertPageRequest) (*dto.PageResponse, error)
}

type pageService struct {
	pageRepo repositories.PageRepository
}

func NewPageService(pageRepo repositories.PageRepository) PageService {
	return &pageService{pageRepo: pageRepo}
}

func pageNotFound(err error) error {
	if errors.Is(err, repositories.ErrPageNotFound) {
		return apperrors.NewNotFoundError("content", "Content not found")
	}
	return apperrors.InternalError(err)
}

func (s *pageService) GetPublished(ctx context.Context, db *gorm.DB, key string) (*dto.PageResponse, error) {
	page, err := s.pageRepo.FindBySlug(db, strings.TrimSpace(key), true)
	if err != nil {
		return nil, pageNotFound(err)
	}
	return toPageResponse(page), nil
}

func (s *pageService) AdminList(ctx context.Context, db *gorm.DB) ([]*dto.PageResponse, error) {
	pages, err := s.pageRepo.List(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]*dto.PageResponse, 0, len(pages))
	for i := range pages {
		out = append(out, toPageResponse(&pages[i]))
	}
	return out, nil
}

func (s *pageService) AdminGet(ctx context.Context, db *gorm.DB, key string) (*dto.PageResponse, error) {
	page, err := s.pageRepo.FindBySlug(db, strings.TrimSpace(key), false)
	if err != nil {
		return nil, pageNotFound(err)
	}
	return toPageResponse(page), nil
}

// Upsert: не переданные title/content сохраняют прежние значения,
// для новой страницы title по умолчанию равен ключу, статус - published
func (s *pageService) Upsert(ctx context.Context, db *gorm.DB, key string, req *dto.UpsertPageRequest) (*dto.PageResponse, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, apperrors.NewBadRequestError("Content key is required")
	}

	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	page := &models.Page{
		Slug:    key,
		Title:   key,
		Content: datatypes.JSON("null"),
		Status:  models.PublishStatusPublished,
	}

	existing, err := s.pageRepo.FindBySlug(tx, key, false)
	switch {
	case err == nil:
		page.Title = existing.Title
		page.Content = existing.Content
	case !errors.Is(err, repositories.ErrPageNotFound):
		return nil, apperrors.InternalError(err)
	}

	if title := optionalText(req.Title); title != nil {
		page.Title = *title
	}
	if len(req.Content) > 0 {
		page.Content = datatypes.JSON(req.Content)
	}
	if req.Status != "" {
		page.Status = models.PublishStatus(req.Status)
	}

	if err := s.pageRepo.Upsert(tx, page); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := commitTx(tx); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Content page saved", "key", key, "status", page.Status)
	return toPageResponse(page), nil
}
