package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"
)

const (
	msgCategorySlugTaken       = "A category with this slug already exists."
	msgSubCategorySlugTaken    = "A subcategory with this slug already exists in this category."
	msgSubSubCategorySlugTaken = "A sub-subcategory with this slug already exists in this subcategory."
)

type CategoryService interface {
	// Public
	ListPublic(ctx context.Context, db *gorm.DB, query *dto.CategoryListQuery) ([]*dto.CategoryResponse, error)
	GetPublicBySlug(ctx context.Context, db *gorm.DB, slug string) (*dto.CategoryResponse, error)

	// Admin: категории
	AdminList(ctx context.Context, db *gorm.DB, query *dto.CategoryListQuery) ([]*dto.CategoryResponse, error)
	AdminGet(ctx context.Context, db *gorm.DB, id string) (*dto.CategoryResponse, error)
	Create(ctx context.Context, db *gorm.DB, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	Update(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, db *gorm.DB, id string) error

	// Admin: подкатегории
	ListSubCategories(ctx context.Context, db *gorm.DB, categoryID string) ([]*dto.SubCategoryResponse, error)
	GetSubCategory(ctx context.Context, db *gorm.DB, id string) (*dto.SubCategoryResponse, error)
	CreateSubCategory(ctx context.Context, db *gorm.DB, categoryID string, req *dto.CreateSubCategoryRequest) (*dto.SubCategoryResponse, error)
	UpdateSubCategory(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateSubCategoryRequest) (*dto.SubCategoryResponse, error)
	DeleteSubCategory(ctx context.Context, db *gorm.DB, id string) error

	// Admin: под-подкатегории
	ListSubSubCategories(ctx context.Context, db *gorm.DB, subCategoryID string) ([]*dto.SubSubCategoryResponse, error)
	GetSubSubCategory(ctx context.Context, db *gorm.DB, id string) (*dto.SubSubCategoryResponse, error)
	CreateSubSubCategory(ctx context.Context, db *gorm.DB, subCategoryID string, req *dto.CreateSubCategoryRequest) (*dto.SubSubCategoryResponse, error)
	UpdateSubSubCategory(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateSubCategoryRequest) (*dto.SubSubCategoryResponse, error)
	DeleteSubSubCategory(ctx context.Context, db *gorm.DB, id string) error
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func categoryNotFound(err error) error {
	switch {
	case errors.Is(err, repositories.ErrCategoryNotFound):
		return apperrors.NewNotFoundError("category", "Category not found")
	case errors.Is(err, repositories.ErrSubCategoryNotFound):
		return apperrors.NewNotFoundError("category", "Subcategory not found")
	case errors.Is(err, repositories.ErrSubSubCategoryNotFound):
		return apperrors.NewNotFoundError("category", "Sub-subcategory not found")
	}
	return apperrors.InternalError(err)
}

func slugOrName(slug, name string) string {
	if s := strings.TrimSpace(slug); s != "" {
		return s
	}
	return slugify(name)
}

func orZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// --- Public ---

func (s *categoryService) ListPublic(ctx context.Context, db *gorm.DB, query *dto.CategoryListQuery) ([]*dto.CategoryResponse, error) {
	categoryType := models.CategoryType(query.Type)
	showInShop := query.ShowInShopSection == "true" || query.ShowInShopSection == "1"

	categories, err := s.categoryRepo.ListCategories(db, repositories.CategoryFilter{
		Type:              categoryType,
		Status:            models.CategoryStatusActive,
		ShowInShopSection: showInShop,
		// материалы отдаются плоским списком
		WithChildren:       categoryType != models.CategoryTypeMaterial,
		ActiveChildrenOnly: true,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, toCategoryResponse(&categories[i]))
	}
	return out, nil
}

func (s *categoryService) GetPublicBySlug(ctx context.Context, db *gorm.DB, slug string) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.FindCategoryBySlug(db, strings.TrimSpace(slug), true)
	if err != nil {
		return nil, categoryNotFound(err)
	}
	return toCategoryResponse(category), nil
}

// --- Categories ---

func (s *categoryService) AdminList(ctx context.Context, db *gorm.DB, query *dto.CategoryListQuery) ([]*dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.ListCategories(db, repositories.CategoryFilter{
		Type:         models.CategoryType(query.Type),
		WithChildren: true,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, toCategoryResponse(&categories[i]))
	}
	return out, nil
}

func (s *categoryService) AdminGet(ctx context.Context, db *gorm.DB, id string) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.FindCategoryByID(db, id, true)
	if err != nil {
		return nil, categoryNotFound(err)
	}
	return toCategoryResponse(category), nil
}

func (s *categoryService) Create(ctx context.Context, db *gorm.DB, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	slug := slugOrName(req.Slug, req.Name)
	if slug == "" {
		return nil, apperrors.ValidationError(map[string]string{"slug": "could not be derived from name"})
	}

	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	taken, err := s.categoryRepo.CategorySlugExists(tx, slug, "")
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if taken {
		return nil, apperrors.ErrConflict(nil, "category", msgCategorySlugTaken)
	}

	category := &models.Category{
		Slug:              slug,
		Name:              strings.TrimSpace(req.Name),
		Description:       optionalText(req.Description),
		Image:             optionalText(req.Image),
		Type:              models.CategoryTypeMain,
		Status:            models.CategoryStatusActive,
		ShowInShopSection: req.ShowInShopSection,
		SortOrder:         orZero(req.SortOrder),
		SEOTitle:          optionalText(req.SEOTitle),
		SEODescription:    optionalText(req.SEODescription),
	}
	if req.Type != "" {
		category.Type = models.CategoryType(req.Type)
	}
	if req.Status != "" {
		category.Status = models.CategoryStatus(req.Status)
	}

	if err := s.categoryRepo.CreateCategory(tx, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrConflict(err, "category", msgCategorySlugTaken)
		}
		return nil, apperrors.InternalError(err)
	}
	if err := commitTx(tx); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Category created", "category_id", category.ID, "slug", slug)
	return toCategoryResponse(category), nil
}

func (s *categoryService) Update(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current, err := s.categoryRepo.FindCategoryByID(tx, id, false)
	if err != nil {
		return nil, categoryNotFound(err)
	}

	fields := map[string]interface{}{}
	if req.Slug != nil {
		if slug := strings.TrimSpace(*req.Slug); slug != "" && slug != current.Slug {
			taken, err := s.categoryRepo.CategorySlugExists(tx, slug, id)
			if err != nil {
				return nil, apperrors.InternalError(err)
			}
			if taken {
				return nil, apperrors.ErrConflict(nil, "category", msgCategorySlugTaken)
			}
			fields["slug"] = slug
		}
	}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = patchText(*req.Description)
	}
	if req.Image != nil {
		fields["image"] = patchText(*req.Image)
	}
	if req.Type != nil {
		fields["type"] = models.CategoryType(*req.Type)
	}
	if req.Status != nil {
		fields["status"] = models.CategoryStatus(*req.Status)
	}
	if req.ShowInShopSection != nil {
		fields["show_in_shop_section"] = *req.ShowInShopSection
	}
	if req.SortOrder != nil {
		fields["sort_order"] = *req.SortOrder
	}
	if req.SEOTitle != nil {
		fields["seo_title"] = patchText(*req.SEOTitle)
	}
	if req.SEODescription != nil {
		fields["seo_description"] = patchText(*req.SEODescription)
	}

	if err := s.categoryRepo.UpdateCategory(tx, id, fields); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrConflict(err, "category", msgCategorySlugTaken)
		}
		return nil, categoryNotFound(err)
	}
	if err := commitTx(tx); err != nil {
		return nil, err
	}
	return s.AdminGet(ctx, db, id)
}

// Delete удаляет категорию вместе с потомками; категория с товарами не удаляется
func (s *categoryService) Delete(ctx context.Context, db *gorm.DB, id string) error {
	tx, err := beginTx(db)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	category, err := s.categoryRepo.FindCategoryByID(tx, id, true)
	if err != nil {
		return categoryNotFound(err)
	}

	products, err := s.categoryRepo.CountProducts(tx, id)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if products > 0 {
		return apperrors.ErrConflict(nil, "category", "Category has products. Move or delete them first.")
	}

	for _, sub := range category.SubCategories {
		for _, subSub := range sub.SubSubCategories {
			if err := s.categoryRepo.DeleteSubSubCategory(tx, subSub.ID); err != nil {
				return apperrors.InternalError(err)
			}
		}
		if err := s.categoryRepo.DeleteSubCategory(tx, sub.ID); err != nil {
			return apperrors.InternalError(err)
		}
	}
	if err := s.categoryRepo.DeleteCategory(tx, id); err != nil {
		return categoryNotFound(err)
	}
	if err := commitTx(tx); err != nil {
		return err
	}

	logger.CtxInfo(ctx, "Category deleted", "category_id", id, "slug", category.Slug)
	return nil
}

// --- SubCategories ---

func (s *categoryService) ListSubCategories(ctx context.Context, db *gorm.DB, categoryID string) ([]*dto.SubCategoryResponse, error) {
	if _, err := s.categoryRepo.FindCategoryByID(db, categoryID, false); err != nil {
		return nil, categoryNotFound(err)
	}
	subs, err := s.categoryRepo.ListSubCategories(db, categoryID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]*dto.SubCategoryResponse, 0, len(subs))
	for i := range subs {
		out = append(out, toSubCategoryResponse(&subs[i]))
	}
	return out, nil
}

func (s *categoryService) GetSubCategory(ctx context.Context, db *gorm.DB, id string) (*dto.SubCategoryResponse, error) {
	sub, err := s.categoryRepo.FindSubCategoryByID(db, id)
	if err != nil {
		return nil, categoryNotFound(err)
	}
	return toSubCategoryResponse(sub), nil
}

func (s *categoryService) CreateSubCategory(ctx context.Context, db *gorm.DB, categoryID string, req *dto.CreateSubCategoryRequest) (*dto.SubCategoryResponse, error) {
	slug := slugOrName(req.Slug, req.Name)
	if slug == "" {
		return nil, apperrors.ValidationError(map[string]string{"slug": "could not be derived from name"})
	}

	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := s.categoryRepo.FindCategoryByID(tx, categoryID, false); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, apperrors.NewNotFoundError("category", "Parent category not found.")
		}
		return nil, apperrors.InternalError(err)
	}

	taken, err := s.categoryRepo.SubCategorySlugExists(tx, categoryID, slug, "")
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if taken {
		return nil, apperrors.ErrConflict(nil, "category", msgSubCategorySlugTaken)
	}

	sub := &models.SubCategory{
		ParentID:    categoryID,
		Slug:        slug,
		Name:        strings.TrimSpace(req.Name),
		Description: optionalText(req.Description),
		Image:       optionalText(req.Image),
		Status:      models.CategoryStatusActive,
		SortOrder:   orZero(req.SortOrder),
	}
	if req.Status != "" {
		sub.Status = models.CategoryStatus(req.Status)
	}

	if err := s.categoryRepo.CreateSubCategory(tx, sub); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrConflict(err, "category", msgSubCategorySlugTaken)
		}
		return nil, apperrors.InternalError(err)
	}
	if err := commitTx(tx); err != nil {
		return nil, err
	}
	return toSubCategoryResponse(sub), nil
}

// UpdateSubCategory - уникальность slug проверяется в пределах итогового родителя
func (s *categoryService) UpdateSubCategory(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateSubCategoryRequest) (*dto.SubCategoryResponse, error) {
	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current, err := s.categoryRepo.FindSubCategoryByID(tx, id)
	if err != nil {
		return nil, categoryNotFound(err)
	}

	fields := map[string]interface{}{}
	parentID := current.ParentID
	if req.ParentID != nil && strings.TrimSpace(*req.ParentID) != "" && *req.ParentID != current.ParentID {
		parentID = strings.TrimSpace(*req.ParentID)
		if _, err := s.categoryRepo.FindCategoryByID(tx, parentID, false); err != nil {
			if errors.Is(err, repositories.ErrCategoryNotFound) {
				return nil, apperrors.NewNotFoundError("category", "Parent category not found.")
			}
			return nil, apperrors.InternalError(err)
		}
		fields["parent_id"] = parentID
	}

	slug := current.Slug
	if req.Slug != nil && strings.TrimSpace(*req.Slug) != "" {
		slug = strings.TrimSpace(*req.Slug)
		fields["slug"] = slug
	}
	if slug != current.Slug || parentID != current.ParentID {
		taken, err := s.categoryRepo.SubCategorySlugExists(tx, parentID, slug, id)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if taken {
			return nil, apperrors.ErrConflict(nil, "category", msgSubCategorySlugTaken)
		}
	}

	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = patchText(*req.Description)
	}
	if req.Image != nil {
		fields["image"] = patchText(*req.Image)
	}
	if req.Status != nil {
		fields["status"] = models.CategoryStatus(*req.Status)
	}
	if req.SortOrder != nil {
		fields["sort_order"] = *req.SortOrder
	}

	if err := s.categoryRepo.UpdateSubCategory(tx, id, fields); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrConflict(err, "category", msgSubCategorySlugTaken)
		}
		return nil, categoryNotFound(err)
	}
	if err := commitTx(tx); err != nil {
		return nil, err
	}
	return s.GetSubCategory(ctx, db, id)
}

func (s *categoryService) DeleteSubCategory(ctx context.Context, db *gorm.DB, id string) error {
	tx, err := beginTx(db)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	sub, err := s.categoryRepo.FindSubCategoryByID(tx, id)
	if err != nil {
		return categoryNotFound(err)
	}
	for _, subSub := range sub.SubSubCategories {
		if err := s.categoryRepo.DeleteSubSubCategory(tx, subSub.ID); err != nil {
			return apperrors.InternalError(err)
		}
	}
	if err := s.categoryRepo.DeleteSubCategory(tx, id); err != nil {
		return categoryNotFound(err)
	}
	return commitTx(tx)
}

// --- SubSubCategories ---

func (s *categoryService) ListSubSubCategories(ctx context.Context, db *gorm.DB, subCategoryID string) ([]*dto.SubSubCategoryResponse, error) {
	if _, err := s.categoryRepo.FindSubCategoryByID(db, subCategoryID); err != nil {
		return nil, categoryNotFound(err)
	}
	subs, err := s.categoryRepo.ListSubSubCategories(db, subCategoryID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]*dto.SubSubCategoryResponse, 0, len(subs))
	for i := range subs {
		out = append(out, toSubSubCategoryResponse(&subs[i]))
	}
	return out, nil
}

func (s *categoryService) GetSubSubCategory(ctx context.Context, db *gorm.DB, id string) (*dto.SubSubCategoryResponse, error) {
	sub, err := s.categoryRepo.FindSubSubCategoryByID(db, id)
	if err != nil {
		return nil, categoryNotFound(err)
	}
	return toSubSubCategoryResponse(sub), nil
}

func (s *categoryService) CreateSubSubCategory(ctx context.Context, db *gorm.DB, subCategoryID string, req *dto.CreateSubCategoryRequest) (*dto.SubSubCategoryResponse, error) {
	slug := slugOrName(req.Slug, req.Name)
	if slug == "" {
		return nil, apperrors.ValidationError(map[string]string{"slug": "could not be derived from name"})
	}

	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := s.categoryRepo.FindSubCategoryByID(tx, subCategoryID); err != nil {
		if errors.Is(err, repositories.ErrSubCategoryNotFound) {
			return nil, apperrors.NewNotFoundError("category", "Parent subcategory not found.")
		}
		return nil, apperrors.InternalError(err)
	}

	taken, err := s.categoryRepo.SubSubCategorySlugExists(tx, subCategoryID, slug, "")
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if taken {
		return nil, apperrors.ErrConflict(nil, "category", msgSubSubCategorySlugTaken)
	}

	sub := &models.SubSubCategory{
		ParentID:    subCategoryID,
		Slug:        slug,
		Name:        strings.TrimSpace(req.Name),
		Description: optionalText(req.Description),
		Image:       optionalText(req.Image),
		Status:      models.CategoryStatusActive,
		SortOrder:   orZero(req.SortOrder),
	}
	if req.Status != "" {
		sub.Status = models.CategoryStatus(req.Status)
	}

	if err := s.categoryRepo.CreateSubSubCategory(tx, sub); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrConflict(err, "category", msgSubSubCategorySlugTaken)
		}
		return nil, apperrors.InternalError(err)
	}
	if err := commitTx(tx); err != nil {
		return nil, err
	}
	return toSubSubCategoryResponse(sub), nil
}

func (s *categoryService) UpdateSubSubCategory(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateSubCategoryRequest) (*dto.SubSubCategoryResponse, error) {
	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current, err := s.categoryRepo.FindSubSubCategoryByID(tx, id)
	if err != nil {
		return nil, categoryNotFound(err)
	}

	fields := map[string]interface{}{}
	parentID := current.ParentID
	if req.ParentID != nil && strings.TrimSpace(*req.ParentID) != "" && *req.ParentID != current.ParentID {
		parentID = strings.TrimSpace(*req.ParentID)
		if _, err := s.categoryRepo.FindSubCategoryByID(tx, parentID); err != nil {
			if errors.Is(err, repositories.ErrSubCategoryNotFound) {
				return nil, apperrors.NewNotFoundError("category", "Parent subcategory not found.")
			}
			return nil, apperrors.InternalError(err)
		}
		fields["parent_id"] = parentID
	}

	slug := current.Slug
	if req.Slug != nil && strings.TrimSpace(*req.Slug) != "" {
		slug = strings.TrimSpace(*req.Slug)
		fields["slug"] = slug
	}
	if slug != current.Slug || parentID != current.ParentID {
		taken, err := s.categoryRepo.SubSubCategorySlugExists(tx, parentID, slug, id)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if taken {
			return nil, apperrors.ErrConflict(nil, "category", msgSubSubCategorySlugTaken)
		}
	}

	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = patchText(*req.Description)
	}
	if req.Image != nil {
		fields["image"] = patchText(*req.Image)
	}
	if req.Status != nil {
		fields["status"] = models.CategoryStatus(*req.Status)
	}
	if req.SortOrder != nil {
		fields["sort_order"] = *req.SortOrder
	}

	if err := s.categoryRepo.UpdateSubSubCategory(tx, id, fields); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrConflict(err, "category", msgSubSubCategorySlugTaken)
		}
		return nil, categoryNotFound(err)
	}
	if err := commitTx(tx); err != nil {
		return nil, err
	}
	return s.GetSubSubCategory(ctx, db, id)
}

func (s *categoryService) DeleteSubSubCategory(ctx context.Context, db *gorm.DB, id string) error {
	tx, err := beginTx(db)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.categoryRepo.DeleteSubSubCategory(tx, id); err != nil {
		return categoryNotFound(err)
	}
	return commitTx(tx)
}
