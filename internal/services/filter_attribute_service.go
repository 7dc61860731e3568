package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"
)

const msgFilterCategoryTaken = "A category with this name/slug already exists."

// FilterAttributeService ведет словарь фасетов. Slug категории фасета
// всегда выводится из имени и должен совпадать с ключом фасета товара.
type FilterAttributeService interface {
	ListCategories(ctx context.Context, db *gorm.DB) ([]*dto.FilterCategoryResponse, error)
	GetCategory(ctx context.Context, db *gorm.DB, id string) (*dto.FilterCategoryResponse, error)
	CreateCategory(ctx context.Context, db *gorm.DB, req *dto.CreateFilterCategoryRequest) (*dto.FilterCategoryResponse, error)
	UpdateCategory(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateFilterCategoryRequest) (*dto.FilterCategoryResponse, error)
	DeleteCategory(ctx context.Context, db *gorm.DB, id string) error

	CreateAttribute(ctx context.Context, db *gorm.DB, req *dto.CreateFilterAttributeRequest) (*dto.FilterAttributeResponse, error)
	UpdateAttribute(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateFilterAttributeRequest) (*dto.FilterAttributeResponse, error)
	DeleteAttribute(ctx context.Context, db *gorm.DB, id string) error
}

type filterAttributeService struct {
	filterRepo repositories.FilterAttributeRepository
}

func NewFilterAttributeService(filterRepo repositories.FilterAttributeRepository) FilterAttributeService {
	return &filterAttributeService{filterRepo: filterRepo}
}

func filterNotFound(err error) error {
	switch {
	case errors.Is(err, repositories.ErrFilterCategoryNotFound):
		return apperrors.NewNotFoundError("filter", "Filter attribute category not found.")
	case errors.Is(err, repositories.ErrFilterAttributeNotFound):
		return apperrors.NewNotFoundError("filter", "Filter attribute not found.")
	}
	return apperrors.InternalError(err)
}

func (s *filterAttributeService) ListCategories(ctx context.Context, db *gorm.DB) ([]*dto.FilterCategoryResponse, error) {
	categories, err := s.filterRepo.ListCategories(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]*dto.FilterCategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, toFilterCategoryResponse(&categories[i]))
	}
	return out, nil
}

func (s *filterAttributeService) GetCategory(ctx context.Context, db *gorm.DB, id string) (*dto.FilterCategoryResponse, error) {
	category, err := s.filterRepo.FindCategoryByID(db, id)
	if err != nil {
		return nil, filterNotFound(err)
	}
	return toFilterCategoryResponse(category), nil
}

func (s *filterAttributeService) CreateCategory(ctx context.Context, db *gorm.DB, req *dto.CreateFilterCategoryRequest) (*dto.FilterCategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	slug := slugify(name)
	if slug == "" {
		return nil, apperrors.ValidationError(map[string]string{"name": "must contain letters or digits"})
	}

	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	taken, err := s.filterRepo.SlugExists(tx, slug, "")
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if taken {
		return nil, apperrors.ErrConflict(nil, "filter", msgFilterCategoryTaken)
	}

	category := &models.FilterAttributeCategory{
		Name:      name,
		Slug:      slug,
		SortOrder: orZero(req.SortOrder),
	}
	if err := s.filterRepo.CreateCategory(tx, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrConflict(err, "filter", msgFilterCategoryTaken)
		}
		return nil, apperrors.InternalError(err)
	}
	if err := commitTx(tx); err != nil {
		return nil, err
	}
	return toFilterCategoryResponse(category), nil
}

func (s *filterAttributeService) UpdateCategory(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateFilterCategoryRequest) (*dto.FilterCategoryResponse, error) {
	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current, err := s.filterRepo.FindCategoryByID(tx, id)
	if err != nil {
		return nil, filterNotFound(err)
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		fields["name"] = name
		// переименование меняет и slug
		if slug := slugify(name); slug != "" && slug != current.Slug {
			taken, err := s.filterRepo.SlugExists(tx, slug, id)
			if err != nil {
				return nil, apperrors.InternalError(err)
			}
			if taken {
				return nil, apperrors.ErrConflict(nil, "filter", msgFilterCategoryTaken)
			}
			fields["slug"] = slug
		}
	}
	if req.SortOrder != nil {
		fields["sort_order"] = *req.SortOrder
	}

	if err := s.filterRepo.UpdateCategory(tx, id, fields); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrConflict(err, "filter", msgFilterCategoryTaken)
		}
		return nil, filterNotFound(err)
	}
	if err := commitTx(tx); err != nil {
		return nil, err
	}
	return s.GetCategory(ctx, db, id)
}

func (s *filterAttributeService) DeleteCategory(ctx context.Context, db *gorm.DB, id string) error {
	tx, err := beginTx(db)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.filterRepo.DeleteCategory(tx, id); err != nil {
		return filterNotFound(err)
	}
	return commitTx(tx)
}

func (s *filterAttributeService) CreateAttribute(ctx context.Context, db *gorm.DB, req *dto.CreateFilterAttributeRequest) (*dto.FilterAttributeResponse, error) {
	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := s.filterRepo.FindCategoryByID(tx, req.CategoryID); err != nil {
		return nil, filterNotFound(err)
	}

	attr := &models.FilterAttribute{
		CategoryID: req.CategoryID,
		Name:       strings.TrimSpace(req.Name),
		SortOrder:  orZero(req.SortOrder),
	}
	if err := s.filterRepo.CreateAttribute(tx, attr); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := commitTx(tx); err != nil {
		return nil, err
	}
	return toFilterAttributeResponse(attr), nil
}

func (s *filterAttributeService) UpdateAttribute(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateFilterAttributeRequest) (*dto.FilterAttributeResponse, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.SortOrder != nil {
		fields["sort_order"] = *req.SortOrder
	}

	if err := s.filterRepo.UpdateAttribute(db, id, fields); err != nil {
		return nil, filterNotFound(err)
	}
	attr, err := s.filterRepo.FindAttributeByID(db, id)
	if err != nil {
		return nil, filterNotFound(err)
	}
	return toFilterAttributeResponse(attr), nil
}

func (s *filterAttributeService) DeleteAttribute(ctx context.Context, db *gorm.DB, id string) error {
	if err := s.filterRepo.DeleteAttribute(db, id); err != nil {
		return filterNotFound(err)
	}
	return nil
}
