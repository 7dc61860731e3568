package repositories

import (
	"errors"

	"gorm.io/gorm"

	"storefront_backend/internal/models"
)

var ErrUploadNotFound = errors.New("upload not found")

type UploadRepository interface {
	Create(db *gorm.DB, upload *models.Upload) error
	FindByID(db *gorm.DB, id string) (*models.Upload, error)
	List(db *gorm.DB, target string, limit, offset int) ([]models.Upload, int64, error)
	Delete(db *gorm.DB, id string) error
}

type UploadRepositoryImpl struct{}

func NewUploadRepository() UploadRepository {
	return &UploadRepositoryImpl{}
}

func (r *UploadRepositoryImpl) Create(db *gorm.DB, upload *models.Upload) error {
	return translate(db.Create(upload).Error, ErrUploadNotFound)
}

func (r *UploadRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Upload, error) {
	var upload models.Upload
	if err := db.First(&upload, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrUploadNotFound)
	}
	return &upload, nil
}

func (r *UploadRepositoryImpl) List(db *gorm.DB, target string, limit, offset int) ([]models.Upload, int64, error) {
	q := db.Model(&models.Upload{})
	if target != "" {
		q = q.Where("target = ?", target)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var uploads []models.Upload
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&uploads).Error
	return uploads, total, err
}

func (r *UploadRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return deleteByID(db, &models.Upload{}, id, ErrUploadNotFound)
}
