package repositories

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront_backend/internal/models"
)

var ErrProductNotFound = errors.New("product not found")

type ProductSort string

const (
	SortPopular   ProductSort = "popular"
	SortNewest    ProductSort = "newest"
	SortPriceLow  ProductSort = "price-low"
	SortPriceHigh ProductSort = "price-high"
	// SortAdmin - порядок админского списка
	SortAdmin ProductSort = "admin"
)

// effectivePriceExpr - цена со скидкой, если она задана и положительна
const effectivePriceExpr = "(CASE WHEN products.discount_price IS NOT NULL AND products.discount_price > 0 THEN products.discount_price ELSE products.price END)"

type ProductFilter struct {
	Status          models.ProductStatus
	VisibleOnly     bool
	CategoryID      string
	SubCategoryID   string
	CategorySlug    string
	SubCategorySlug string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	Search          string
	// AdminSearch - поиск по name/slug/sku вместо name/описаний/slug
	AdminSearch bool
	// Facets - И между группами, ИЛИ внутри группы
	Facets models.FacetMap
	Sort   ProductSort
	Limit  int
	Offset int
}

type ProductRepository interface {
	List(db *gorm.DB, filter ProductFilter) ([]models.Product, int64, error)
	FindByID(db *gorm.DB, id string) (*models.Product, error)
	FindBySlug(db *gorm.DB, slug string, publicOnly bool) (*models.Product, error)
	SlugExists(db *gorm.DB, slug, excludeID string) (bool, error)
	Create(db *gorm.DB, product *models.Product) error
	Update(db *gorm.DB, id string, fields map[string]interface{}) error
	ReplaceFacets(db *gorm.DB, productID string, facets []models.ProductFacet) error
	Delete(db *gorm.DB, id string) error
}

type ProductRepositoryImpl struct{}

func NewProductRepository() ProductRepository {
	return &ProductRepositoryImpl{}
}

func withProductRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("Category").Preload("SubCategory").Preload("Facets")
}

func applyProductFilter(f ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.Status != "" {
			q = q.Where("products.status = ?", f.Status)
		}
		if f.VisibleOnly {
			q = q.Where("products.is_visible = ?", true)
		}
		if f.CategoryID != "" {
			q = q.Where("products.category_id = ?", f.CategoryID)
		}
		if f.SubCategoryID != "" {
			q = q.Where("products.sub_category_id = ?", f.SubCategoryID)
		}
		if f.CategorySlug != "" {
			q = q.Where("products.category_id IN (SELECT id FROM categories WHERE slug = ?)", f.CategorySlug)
		}
		if f.SubCategorySlug != "" {
			q = q.Where("products.sub_category_id IN (SELECT id FROM sub_categories WHERE slug = ?)", f.SubCategorySlug)
		}
		if f.MinPrice != nil {
			q = q.Where(effectivePriceExpr+" >= CAST(? AS DECIMAL(12,2))", *f.MinPrice)
		}
		if f.MaxPrice != nil {
			q = q.Where(effectivePriceExpr+" <= CAST(? AS DECIMAL(12,2))", *f.MaxPrice)
		}
		if f.Search != "" {
			p := likePattern(f.Search)
			if f.AdminSearch {
				q = q.Where("LOWER(products.name) LIKE ? OR LOWER(products.slug) LIKE ? OR LOWER(COALESCE(products.sku, '')) LIKE ?", p, p, p)
			} else {
				q = q.Where("LOWER(products.name) LIKE ? OR LOWER(COALESCE(products.short_description, '')) LIKE ? OR LOWER(COALESCE(products.full_description, '')) LIKE ? OR LOWER(products.slug) LIKE ?", p, p, p, p)
			}
		}
		for _, key := range models.FacetKeys {
			values := f.Facets[key]
			if len(values) == 0 {
				continue
			}
			q = q.Where("EXISTS (SELECT 1 FROM product_facets pf WHERE pf.product_id = products.id AND pf.facet_key = ? AND pf.value IN ?)", key, values)
		}
		return q
	}
}

func applyProductSort(q *gorm.DB, sort ProductSort) *gorm.DB {
	switch sort {
	case SortNewest:
		return q.Order("products.created_at DESC").Order("products.id DESC")
	case SortPriceLow:
		return q.Order(effectivePriceExpr + " ASC").Order("products.id ASC")
	case SortPriceHigh:
		return q.Order(effectivePriceExpr + " DESC").Order("products.id ASC")
	case SortAdmin:
		return q.Order("products.sort_order ASC").Order("products.created_at DESC")
	default:
		return q.Order("products.is_bestseller DESC").Order("products.sort_order ASC").Order("products.created_at DESC")
	}
}

func (r *ProductRepositoryImpl) List(db *gorm.DB, filter ProductFilter) ([]models.Product, int64, error) {
	scope := applyProductFilter(filter)

	var total int64
	if err := db.Model(&models.Product{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := withProductRelations(db.Model(&models.Product{}).Scopes(scope))
	q = applyProductSort(q, filter.Sort)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	var products []models.Product
	err := q.Find(&products).Error
	return products, total, err
}

func (r *ProductRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Product, error) {
	var product models.Product
	if err := withProductRelations(db).First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrProductNotFound)
	}
	return &product, nil
}

func (r *ProductRepositoryImpl) FindBySlug(db *gorm.DB, slug string, publicOnly bool) (*models.Product, error) {
	q := withProductRelations(db).Where("slug = ?", slug)
	if publicOnly {
		q = q.Where("status = ? AND is_visible = ?", models.ProductStatusActive, true)
	}
	var product models.Product
	if err := q.First(&product).Error; err != nil {
		return nil, translate(err, ErrProductNotFound)
	}
	return &product, nil
}

func (r *ProductRepositoryImpl) SlugExists(db *gorm.DB, slug, excludeID string) (bool, error) {
	return exists(db.Model(&models.Product{}).Where("slug = ?", slug), excludeID)
}

// Create сохраняет товар вместе с его фасетами
func (r *ProductRepositoryImpl) Create(db *gorm.DB, product *models.Product) error {
	return translate(db.Omit("Category", "SubCategory", "SubSubCategory").Create(product).Error, ErrProductNotFound)
}

func (r *ProductRepositoryImpl) Update(db *gorm.DB, id string, fields map[string]interface{}) error {
	return updateByID(db, &models.Product{}, id, fields, ErrProductNotFound)
}

func (r *ProductRepositoryImpl) ReplaceFacets(db *gorm.DB, productID string, facets []models.ProductFacet) error {
	if err := db.Where("product_id = ?", productID).Delete(&models.ProductFacet{}).Error; err != nil {
		return err
	}
	if len(facets) == 0 {
		return nil
	}
	for i := range facets {
		facets[i].ProductID = productID
	}
	return db.Create(&facets).Error
}

// Delete удаляет товар, его фасеты и упоминания в избранном
func (r *ProductRepositoryImpl) Delete(db *gorm.DB, id string) error {
	if err := db.Where("product_id = ?", id).Delete(&models.ProductFacet{}).Error; err != nil {
		return err
	}
	if err := db.Where("product_id = ?", id).Delete(&models.WishlistItem{}).Error; err != nil {
		return err
	}
	return deleteByID(db, &models.Product{}, id, ErrProductNotFound)
}
