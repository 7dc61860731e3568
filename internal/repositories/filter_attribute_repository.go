package repositories

import (
	"errors"

	"gorm.io/gorm"

	"storefront_backend/internal/models"
)

var (
	ErrFilterCategoryNotFound  = errors.New("filter category not found")
	ErrFilterAttributeNotFound = errors.New("filter attribute not found")
)

type FilterAttributeRepository interface {
	ListCategories(db *gorm.DB) ([]models.FilterAttributeCategory, error)
	FindCategoryByID(db *gorm.DB, id string) (*models.FilterAttributeCategory, error)
	SlugExists(db *gorm.DB, slug, excludeID string) (bool, error)
	CreateCategory(db *gorm.DB, category *models.FilterAttributeCategory) error
	UpdateCategory(db *gorm.DB, id string, fields map[string]interface{}) error
	DeleteCategory(db *gorm.DB, id string) error

	FindAttributeByID(db *gorm.DB, id string) (*models.FilterAttribute, error)
	CreateAttribute(db *gorm.DB, attr *models.FilterAttribute) error
	UpdateAttribute(db *gorm.DB, id string, fields map[string]interface{}) error
	DeleteAttribute(db *gorm.DB, id string) error

	// Vocabulary - допустимые значения по slug категории фасета
	Vocabulary(db *gorm.DB) (map[string]map[string]struct{}, error)
}

type FilterAttributeRepositoryImpl struct{}

func NewFilterAttributeRepository() FilterAttributeRepository {
	return &FilterAttributeRepositoryImpl{}
}

func (r *FilterAttributeRepositoryImpl) ListCategories(db *gorm.DB) ([]models.FilterAttributeCategory, error) {
	var categories []models.FilterAttributeCategory
	err := bySortOrder(db.Preload("Attributes", bySortOrder)).Find(&categories).Error
	return categories, err
}

func (r *FilterAttributeRepositoryImpl) FindCategoryByID(db *gorm.DB, id string) (*models.FilterAttributeCategory, error) {
	var category models.FilterAttributeCategory
	if err := db.Preload("Attributes", bySortOrder).First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrFilterCategoryNotFound)
	}
	return &category, nil
}

func (r *FilterAttributeRepositoryImpl) SlugExists(db *gorm.DB, slug, excludeID string) (bool, error) {
	return exists(db.Model(&models.FilterAttributeCategory{}).Where("slug = ?", slug), excludeID)
}

func (r *FilterAttributeRepositoryImpl) CreateCategory(db *gorm.DB, category *models.FilterAttributeCategory) error {
	return translate(db.Create(category).Error, ErrFilterCategoryNotFound)
}

func (r *FilterAttributeRepositoryImpl) UpdateCategory(db *gorm.DB, id string, fields map[string]interface{}) error {
	return updateByID(db, &models.FilterAttributeCategory{}, id, fields, ErrFilterCategoryNotFound)
}

func (r *FilterAttributeRepositoryImpl) DeleteCategory(db *gorm.DB, id string) error {
	if err := db.Where("category_id = ?", id).Delete(&models.FilterAttribute{}).Error; err != nil {
		return err
	}
	return deleteByID(db, &models.FilterAttributeCategory{}, id, ErrFilterCategoryNotFound)
}

func (r *FilterAttributeRepositoryImpl) FindAttributeByID(db *gorm.DB, id string) (*models.FilterAttribute, error) {
	var attr models.FilterAttribute
	if err := db.First(&attr, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrFilterAttributeNotFound)
	}
	return &attr, nil
}

func (r *FilterAttributeRepositoryImpl) CreateAttribute(db *gorm.DB, attr *models.FilterAttribute) error {
	return translate(db.Create(attr).Error, ErrFilterAttributeNotFound)
}

func (r *FilterAttributeRepositoryImpl) UpdateAttribute(db *gorm.DB, id string, fields map[string]interface{}) error {
	return updateByID(db, &models.FilterAttribute{}, id, fields, ErrFilterAttributeNotFound)
}

func (r *FilterAttributeRepositoryImpl) DeleteAttribute(db *gorm.DB, id string) error {
	return deleteByID(db, &models.FilterAttribute{}, id, ErrFilterAttributeNotFound)
}

func (r *FilterAttributeRepositoryImpl) Vocabulary(db *gorm.DB) (map[string]map[string]struct{}, error) {
	var rows []struct {
		Slug string
		Name string
	}
	err := db.Table("filter_attributes").
		Select("filter_attribute_categories.slug AS slug, filter_attributes.name AS name").
		Joins("JOIN filter_attribute_categories ON filter_attribute_categories.id = filter_attributes.category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	vocab := make(map[string]map[string]struct{})
	for _, row := range rows {
		if vocab[row.Slug] == nil {
			vocab[row.Slug] = make(map[string]struct{})
		}
		vocab[row.Slug][row.Name] = struct{}{}
	}
	return vocab, nil
}
