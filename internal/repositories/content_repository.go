package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront_backend/internal/models"
)

var (
	ErrBlogNotFound = errors.New("blog post not found")
	ErrPageNotFound = errors.New("content not found")
)

type BlogFilter struct {
	Category      models.BlogCategory
	Status        models.PublishStatus
	PublishedOnly bool
	Search        string
	Limit         int
	Offset        int
}

type BlogRepository interface {
	List(db *gorm.DB, filter BlogFilter) ([]models.BlogPost, int64, error)
	FindByID(db *gorm.DB, id string) (*models.BlogPost, error)
	FindBySlug(db *gorm.DB, slug string, publishedOnly bool) (*models.BlogPost, error)
	SlugExists(db *gorm.DB, slug, excludeID string) (bool, error)
	Create(db *gorm.DB, post *models.BlogPost) error
	Update(db *gorm.DB, id string, fields map[string]interface{}) error
	Delete(db *gorm.DB, id string) error
	IncrementViews(db *gorm.DB, id string) error
}

type BlogRepositoryImpl struct{}

func NewBlogRepository() BlogRepository {
	return &BlogRepositoryImpl{}
}

func (r *BlogRepositoryImpl) List(db *gorm.DB, filter BlogFilter) ([]models.BlogPost, int64, error) {
	scope := func(q *gorm.DB) *gorm.DB {
		if filter.Category != "" {
			q = q.Where("category = ?", filter.Category)
		}
		if filter.PublishedOnly {
			q = q.Where("status = ?", models.PublishStatusPublished)
		} else if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.Search != "" {
			p := likePattern(filter.Search)
			q = q.Where("LOWER(title) LIKE ? OR LOWER(slug) LIKE ?", p, p)
		}
		return q
	}

	var total int64
	if err := db.Model(&models.BlogPost{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.Model(&models.BlogPost{}).Scopes(scope).
		Order("sort_order ASC").
		Order("published_at DESC").
		Order("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	var posts []models.BlogPost
	err := q.Find(&posts).Error
	return posts, total, err
}

func (r *BlogRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := db.First(&post, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrBlogNotFound)
	}
	return &post, nil
}

func (r *BlogRepositoryImpl) FindBySlug(db *gorm.DB, slug string, publishedOnly bool) (*models.BlogPost, error) {
	q := db.Where("slug = ?", slug)
	if publishedOnly {
		q = q.Where("status = ?", models.PublishStatusPublished)
	}
	var post models.BlogPost
	if err := q.First(&post).Error; err != nil {
		return nil, translate(err, ErrBlogNotFound)
	}
	return &post, nil
}

func (r *BlogRepositoryImpl) SlugExists(db *gorm.DB, slug, excludeID string) (bool, error) {
	return exists(db.Model(&models.BlogPost{}).Where("slug = ?", slug), excludeID)
}

func (r *BlogRepositoryImpl) Create(db *gorm.DB, post *models.BlogPost) error {
	return translate(db.Create(post).Error, ErrBlogNotFound)
}

func (r *BlogRepositoryImpl) Update(db *gorm.DB, id string, fields map[string]interface{}) error {
	return updateByID(db, &models.BlogPost{}, id, fields, ErrBlogNotFound)
}

func (r *BlogRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return deleteByID(db, &models.BlogPost{}, id, ErrBlogNotFound)
}

// IncrementViews не трогает updated_at
func (r *BlogRepositoryImpl) IncrementViews(db *gorm.DB, id string) error {
	return db.Model(&models.BlogPost{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

type PageRepository interface {
	List(db *gorm.DB) ([]models.Page, error)
	FindBySlug(db *gorm.DB, slug string, publishedOnly bool) (*models.Page, error)
	Upsert(db *gorm.DB, page *models.Page) error
}

type PageRepositoryImpl struct{}

func NewPageRepository() PageRepository {
	return &PageRepositoryImpl{}
}

func (r *PageRepositoryImpl) List(db *gorm.DB) ([]models.Page, error) {
	var pages []models.Page
	err := db.Order("slug ASC").Find(&pages).Error
	return pages, err
}

func (r *PageRepositoryImpl) FindBySlug(db *gorm.DB, slug string, publishedOnly bool) (*models.Page, error) {
	q := db.Where("slug = ?", slug)
	if publishedOnly {
		q = q.Where("status = ?", models.PublishStatusPublished)
	}
	var page models.Page
	if err := q.First(&page).Error; err != nil {
		return nil, translate(err, ErrPageNotFound)
	}
	return &page, nil
}

// Upsert создает страницу или перезаписывает title/content/status по slug
func (r *PageRepositoryImpl) Upsert(db *gorm.DB, page *models.Page) error {
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "content", "status", "updated_at"}),
	}).Create(page).Error
	if err != nil {
		return err
	}
	// при конфликте page.ID содержит несохраненный uuid, перечитываем
	var stored models.Page
	if err := db.Where("slug = ?", page.Slug).First(&stored).Error; err != nil {
		return translate(err, ErrPageNotFound)
	}
	*page = stored
	return nil
}
