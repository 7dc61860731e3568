package repositories

import (
	"errors"

	"gorm.io/gorm"

	"storefront_backend/internal/models"
)

var (
	ErrCategoryNotFound       = errors.New("category not found")
	ErrSubCategoryNotFound    = errors.New("subcategory not found")
	ErrSubSubCategoryNotFound = errors.New("sub-subcategory not found")
)

type CategoryFilter struct {
	Type              models.CategoryType
	Status            models.CategoryStatus
	ShowInShopSection bool
	// WithChildren - подгрузить подкатегории и их дочерние
	WithChildren bool
	// ActiveChildrenOnly - только активные потомки (публичная витрина)
	ActiveChildrenOnly bool
}

type CategoryRepository interface {
	ListCategories(db *gorm.DB, filter CategoryFilter) ([]models.Category, error)
	FindCategoryByID(db *gorm.DB, id string, withChildren bool) (*models.Category, error)
	FindCategoryBySlug(db *gorm.DB, slug string, activeOnly bool) (*models.Category, error)
	CategorySlugExists(db *gorm.DB, slug, excludeID string) (bool, error)
	CreateCategory(db *gorm.DB, category *models.Category) error
	UpdateCategory(db *gorm.DB, id string, fields map[string]interface{}) error
	DeleteCategory(db *gorm.DB, id string) error
	CountProducts(db *gorm.DB, categoryID string) (int64, error)

	ListSubCategories(db *gorm.DB, parentID string) ([]models.SubCategory, error)
	FindSubCategoryByID(db *gorm.DB, id string) (*models.SubCategory, error)
	SubCategorySlugExists(db *gorm.DB, parentID, slug, excludeID string) (bool, error)
	CreateSubCategory(db *gorm.DB, sub *models.SubCategory) error
	UpdateSubCategory(db *gorm.DB, id string, fields map[string]interface{}) error
	DeleteSubCategory(db *gorm.DB, id string) error

	ListSubSubCategories(db *gorm.DB, parentID string) ([]models.SubSubCategory, error)
	FindSubSubCategoryByID(db *gorm.DB, id string) (*models.SubSubCategory, error)
	SubSubCategorySlugExists(db *gorm.DB, parentID, slug, excludeID string) (bool, error)
	CreateSubSubCategory(db *gorm.DB, sub *models.SubSubCategory) error
	UpdateSubSubCategory(db *gorm.DB, id string, fields map[string]interface{}) error
	DeleteSubSubCategory(db *gorm.DB, id string) error
}

type CategoryRepositoryImpl struct{}

func NewCategoryRepository() CategoryRepository {
	return &CategoryRepositoryImpl{}
}

func bySortOrder(q *gorm.DB) *gorm.DB {
	return q.Order("sort_order ASC").Order("created_at ASC")
}

func preloadChildren(q *gorm.DB, activeOnly bool) *gorm.DB {
	children := func(q *gorm.DB) *gorm.DB {
		if activeOnly {
			q = q.Where("status = ?", models.CategoryStatusActive)
		}
		return bySortOrder(q)
	}
	return q.Preload("SubCategories", children).Preload("SubCategories.SubSubCategories", children)
}

// --- Категории ---

func (r *CategoryRepositoryImpl) ListCategories(db *gorm.DB, filter CategoryFilter) ([]models.Category, error) {
	q := db.Model(&models.Category{})
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ShowInShopSection {
		q = q.Where("show_in_shop_section = ?", true)
	}
	if filter.WithChildren {
		q = preloadChildren(q, filter.ActiveChildrenOnly)
	}

	var categories []models.Category
	err := bySortOrder(q).Find(&categories).Error
	return categories, err
}

func (r *CategoryRepositoryImpl) FindCategoryByID(db *gorm.DB, id string, withChildren bool) (*models.Category, error) {
	q := db
	if withChildren {
		q = preloadChildren(q, false)
	}
	var category models.Category
	if err := q.First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrCategoryNotFound)
	}
	return &category, nil
}

func (r *CategoryRepositoryImpl) FindCategoryBySlug(db *gorm.DB, slug string, activeOnly bool) (*models.Category, error) {
	q := preloadChildren(db, activeOnly).Where("slug = ?", slug)
	if activeOnly {
		q = q.Where("status = ?", models.CategoryStatusActive)
	}
	var category models.Category
	if err := q.First(&category).Error; err != nil {
		return nil, translate(err, ErrCategoryNotFound)
	}
	return &category, nil
}

func (r *CategoryRepositoryImpl) CategorySlugExists(db *gorm.DB, slug, excludeID string) (bool, error) {
	return exists(db.Model(&models.Category{}).Where("slug = ?", slug), excludeID)
}

func (r *CategoryRepositoryImpl) CreateCategory(db *gorm.DB, category *models.Category) error {
	return translate(db.Create(category).Error, ErrCategoryNotFound)
}

func (r *CategoryRepositoryImpl) UpdateCategory(db *gorm.DB, id string, fields map[string]interface{}) error {
	return updateByID(db, &models.Category{}, id, fields, ErrCategoryNotFound)
}

func (r *CategoryRepositoryImpl) DeleteCategory(db *gorm.DB, id string) error {
	return deleteByID(db, &models.Category{}, id, ErrCategoryNotFound)
}

func (r *CategoryRepositoryImpl) CountProducts(db *gorm.DB, categoryID string) (int64, error) {
	var count int64
	err := db.Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// --- Подкатегории ---

func (r *CategoryRepositoryImpl) ListSubCategories(db *gorm.DB, parentID string) ([]models.SubCategory, error) {
	var subs []models.SubCategory
	err := bySortOrder(db.Where("parent_id = ?", parentID)).Find(&subs).Error
	return subs, err
}

func (r *CategoryRepositoryImpl) FindSubCategoryByID(db *gorm.DB, id string) (*models.SubCategory, error) {
	var sub models.SubCategory
	err := db.Preload("SubSubCategories", bySortOrder).First(&sub, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, ErrSubCategoryNotFound)
	}
	return &sub, nil
}

func (r *CategoryRepositoryImpl) SubCategorySlugExists(db *gorm.DB, parentID, slug, excludeID string) (bool, error) {
	return exists(db.Model(&models.SubCategory{}).Where("parent_id = ? AND slug = ?", parentID, slug), excludeID)
}

func (r *CategoryRepositoryImpl) CreateSubCategory(db *gorm.DB, sub *models.SubCategory) error {
	return translate(db.Create(sub).Error, ErrSubCategoryNotFound)
}

func (r *CategoryRepositoryImpl) UpdateSubCategory(db *gorm.DB, id string, fields map[string]interface{}) error {
	return updateByID(db, &models.SubCategory{}, id, fields, ErrSubCategoryNotFound)
}

func (r *CategoryRepositoryImpl) DeleteSubCategory(db *gorm.DB, id string) error {
	if err := db.Model(&models.Product{}).Where("sub_category_id = ?", id).
		Updates(map[string]interface{}{"sub_category_id": nil, "sub_sub_category_id": nil}).Error; err != nil {
		return err
	}
	return deleteByID(db, &models.SubCategory{}, id, ErrSubCategoryNotFound)
}

// --- Под-подкатегории ---

func (r *CategoryRepositoryImpl) ListSubSubCategories(db *gorm.DB, parentID string) ([]models.SubSubCategory, error) {
	var subs []models.SubSubCategory
	err := bySortOrder(db.Where("parent_id = ?", parentID)).Find(&subs).Error
	return subs, err
}

func (r *CategoryRepositoryImpl) FindSubSubCategoryByID(db *gorm.DB, id string) (*models.SubSubCategory, error) {
	var sub models.SubSubCategory
	if err := db.First(&sub, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrSubSubCategoryNotFound)
	}
	return &sub, nil
}

func (r *CategoryRepositoryImpl) SubSubCategorySlugExists(db *gorm.DB, parentID, slug, excludeID string) (bool, error) {
	return exists(db.Model(&models.SubSubCategory{}).Where("parent_id = ? AND slug = ?", parentID, slug), excludeID)
}

func (r *CategoryRepositoryImpl) CreateSubSubCategory(db *gorm.DB, sub *models.SubSubCategory) error {
	return translate(db.Create(sub).Error, ErrSubSubCategoryNotFound)
}

func (r *CategoryRepositoryImpl) UpdateSubSubCategory(db *gorm.DB, id string, fields map[string]interface{}) error {
	return updateByID(db, &models.SubSubCategory{}, id, fields, ErrSubSubCategoryNotFound)
}

func (r *CategoryRepositoryImpl) DeleteSubSubCategory(db *gorm.DB, id string) error {
	if err := db.Model(&models.Product{}).Where("sub_sub_category_id = ?", id).
		Update("sub_sub_category_id", nil).Error; err != nil {
		return err
	}
	return deleteByID(db, &models.SubSubCategory{}, id, ErrSubSubCategoryNotFound)
}
