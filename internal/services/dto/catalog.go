package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"storefront_backend/internal/models"
)

// =======================
// Products
// =======================

// ProductListQuery - публичный каталог; фасеты приходят списками через запятую
type ProductListQuery struct {
	CategorySlug    string `form:"categorySlug" validate:"max=120"`
	SubCategorySlug string `form:"subCategorySlug" validate:"max=120"`
	MinPrice        string `form:"minPrice"`
	MaxPrice        string `form:"maxPrice"`
	Purposes        string `form:"purposes"`
	Beads           string `form:"beads"`
	Mukhis          string `form:"mukhis"`
	Platings        string `form:"platings"`
	Sort            string `form:"sort" validate:"omitempty,oneof=popular newest price-low price-high"`
	Search          string `form:"search" validate:"max=200"`
	Page            int    `form:"page"`
	Limit           int    `form:"limit"`
}

// FacetParams - сырые значения фасетов по ключу
func (q ProductListQuery) FacetParams() map[models.FacetKey]string {
	return map[models.FacetKey]string{
		models.FacetPurposes: q.Purposes,
		models.FacetBeads:    q.Beads,
		models.FacetMukhis:   q.Mukhis,
		models.FacetPlatings: q.Platings,
	}
}

type AdminProductListQuery struct {
	CategoryID    string `form:"categoryId"`
	SubCategoryID string `form:"subCategoryId"`
	Status        string `form:"status" validate:"omitempty,is-product-status"`
	Search        string `form:"search" validate:"max=200"`
	Page          int    `form:"page"`
	Limit         int    `form:"limit"`
}

type CreateProductRequest struct {
	Name             string                  `json:"name" validate:"required,min=1,max=300"`
	Slug             string                  `json:"slug" validate:"omitempty,max=300,is-slug"`
	CategoryID       string                  `json:"categoryId" validate:"required"`
	SubCategoryID    *string                 `json:"subCategoryId"`
	SubSubCategoryID *string                 `json:"subSubCategoryId"`
	Price            *decimal.Decimal        `json:"price" validate:"required"`
	DiscountPrice    *decimal.Decimal        `json:"discountPrice"`
	Stock            *int                    `json:"stock" validate:"omitempty,min=0"`
	SKU              *string                 `json:"sku" validate:"omitempty,max=100"`
	ShortDescription *string                 `json:"shortDescription" validate:"omitempty,max=2000"`
	FullDescription  *string                 `json:"fullDescription"`
	Description      *string                 `json:"description"`
	Thumbnail        *string                 `json:"thumbnail" validate:"omitempty,max=500"`
	Images           []string                `json:"images" validate:"omitempty,dive,max=2000"`
	Tags             []string                `json:"tags" validate:"omitempty,dive,max=100"`
	Benefits         []string                `json:"benefits"`
	WhoShouldWear    []string                `json:"whoShouldWear"`
	WearingRules     []string                `json:"wearingRules"`
	Authenticity     json.RawMessage         `json:"authenticity"`
	Variants         []models.ProductVariant `json:"variants"`
	FilterAttributes models.FacetMap         `json:"filterAttributes" validate:"omitempty,dive,keys,is-facet-key,endkeys"`
	IsFeatured       bool                    `json:"isFeatured"`
	IsVisible        *bool                   `json:"isVisible"`
	IsBestseller     bool                    `json:"isBestseller"`
	IsNew            bool                    `json:"isNew"`
	Status           string                  `json:"status" validate:"omitempty,is-product-status"`
	Rating           *decimal.Decimal        `json:"rating"`
	ReviewCount      *int                    `json:"reviewCount" validate:"omitempty,min=0"`
	SortOrder        *int                    `json:"sortOrder" validate:"omitempty,min=0"`
}

// UpdateProductRequest - патч: nil / !Set означает "не менять"
type UpdateProductRequest struct {
	Name             *string                   `json:"name" validate:"omitempty,min=1,max=300"`
	Slug             *string                   `json:"slug" validate:"omitempty,max=300,is-slug"`
	CategoryID       *string                   `json:"categoryId"`
	SubCategoryID    Nullable[string]          `json:"subCategoryId"`
	SubSubCategoryID Nullable[string]          `json:"subSubCategoryId"`
	Price            *decimal.Decimal          `json:"price"`
	DiscountPrice    Nullable[decimal.Decimal] `json:"discountPrice"`
	Stock            *int                      `json:"stock" validate:"omitempty,min=0"`
	SKU              *string                   `json:"sku" validate:"omitempty,max=100"`
	ShortDescription *string                   `json:"shortDescription" validate:"omitempty,max=2000"`
	FullDescription  *string                   `json:"fullDescription"`
	Description      *string                   `json:"description"`
	Thumbnail        *string                   `json:"thumbnail" validate:"omitempty,max=500"`
	Images           *[]string                 `json:"images"`
	Tags             *[]string                 `json:"tags"`
	Benefits         *[]string                 `json:"benefits"`
	WhoShouldWear    *[]string                 `json:"whoShouldWear"`
	WearingRules     *[]string                 `json:"wearingRules"`
	Authenticity     json.RawMessage           `json:"authenticity"`
	Variants         *[]models.ProductVariant  `json:"variants"`
	FilterAttributes models.FacetMap           `json:"filterAttributes" validate:"omitempty,dive,keys,is-facet-key,endkeys"`
	IsFeatured       *bool                     `json:"isFeatured"`
	IsVisible        *bool                     `json:"isVisible"`
	IsBestseller     *bool                     `json:"isBestseller"`
	IsNew            *bool                     `json:"isNew"`
	Status           *string                   `json:"status" validate:"omitempty,is-product-status"`
	Rating           Nullable[decimal.Decimal] `json:"rating"`
	ReviewCount      *int                      `json:"reviewCount" validate:"omitempty,min=0"`
	SortOrder        *int                      `json:"sortOrder" validate:"omitempty,min=0"`
}

type ProductResponse struct {
	ID               string                  `json:"id"`
	Slug             string                  `json:"slug"`
	Name             string                  `json:"name"`
	CategoryID       string                  `json:"categoryId"`
	SubCategoryID    *string                 `json:"subCategoryId"`
	SubSubCategoryID *string                 `json:"subSubCategoryId"`
	CategorySlug     string                  `json:"categorySlug,omitempty"`
	SubCategorySlug  string                  `json:"subCategorySlug,omitempty"`
	Category         string                  `json:"category,omitempty"`
	Price            float64                 `json:"price"`
	OriginalPrice    float64                 `json:"originalPrice"`
	DiscountPrice    *float64                `json:"discountPrice"`
	Stock            int                     `json:"stock"`
	SKU              *string                 `json:"sku"`
	ShortDescription *string                 `json:"shortDescription"`
	Description      *string                 `json:"description"`
	FullDescription  *string                 `json:"fullDescription"`
	Thumbnail        *string                 `json:"thumbnail"`
	Images           []string                `json:"images"`
	Tags             []string                `json:"tags"`
	Benefits         []string                `json:"benefits"`
	WhoShouldWear    []string                `json:"whoShouldWear"`
	WearingRules     []string                `json:"wearingRules"`
	Authenticity     json.RawMessage         `json:"authenticity"`
	FilterAttributes models.FacetMap         `json:"filterAttributes"`
	Variants         []models.ProductVariant `json:"variants"`
	IsFeatured       bool                    `json:"isFeatured"`
	IsVisible        bool                    `json:"isVisible"`
	IsBestseller     bool                    `json:"isBestseller"`
	IsNew            bool                    `json:"isNew"`
	Status           string                  `json:"status"`
	Rating           *float64                `json:"rating"`
	ReviewCount      int                     `json:"reviewCount"`
	Reviews          int                     `json:"reviews"`
	SortOrder        int                     `json:"sortOrder"`
	CreatedAt        string                  `json:"createdAt"`
	UpdatedAt        string                  `json:"updatedAt"`
}

type ProductListResponse struct {
	Products []*ProductResponse `json:"products"`
	PageMeta
}

// =======================
// Categories
// =======================

type CategoryListQuery struct {
	Type              string `form:"type" validate:"omitempty,is-category-type"`
	ShowInShopSection string `form:"showInShopSection" validate:"omitempty,oneof=true false 1 0"`
}

type CreateCategoryRequest struct {
	Name              string  `json:"name" validate:"required,min=1,max=120"`
	Slug              string  `json:"slug" validate:"omitempty,max=120,is-slug"`
	Description       *string `json:"description" validate:"omitempty,max=5000"`
	Image             *string `json:"image" validate:"omitempty,max=2000"`
	Type              string  `json:"type" validate:"omitempty,is-category-type"`
	Status            string  `json:"status" validate:"omitempty,is-category-status"`
	ShowInShopSection bool    `json:"showInShopSection"`
	SortOrder         *int    `json:"sortOrder" validate:"omitempty,min=0"`
	SEOTitle          *string `json:"seoTitle" validate:"omitempty,max=200"`
	SEODescription    *string `json:"seoDescription" validate:"omitempty,max=500"`
}

// UpdateCategoryRequest - пустая строка в текстовых полях очищает значение
type UpdateCategoryRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=120"`
	Slug              *string `json:"slug" validate:"omitempty,max=120,is-slug"`
	Description       *string `json:"description" validate:"omitempty,max=5000"`
	Image             *string `json:"image" validate:"omitempty,max=2000"`
	Type              *string `json:"type" validate:"omitempty,is-category-type"`
	Status            *string `json:"status" validate:"omitempty,is-category-status"`
	ShowInShopSection *bool   `json:"showInShopSection"`
	SortOrder         *int    `json:"sortOrder" validate:"omitempty,min=0"`
	SEOTitle          *string `json:"seoTitle" validate:"omitempty,max=200"`
	SEODescription    *string `json:"seoDescription" validate:"omitempty,max=500"`
}

type CreateSubCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=120"`
	Slug        string  `json:"slug" validate:"omitempty,max=120,is-slug"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Image       *string `json:"image" validate:"omitempty,max=2000"`
	Status      string  `json:"status" validate:"omitempty,is-category-status"`
	SortOrder   *int    `json:"sortOrder" validate:"omitempty,min=0"`
}

// UpdateSubCategoryRequest - ParentID переносит узел к другому родителю
type UpdateSubCategoryRequest struct {
	ParentID    *string `json:"parentId"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Slug        *string `json:"slug" validate:"omitempty,max=120,is-slug"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Image       *string `json:"image" validate:"omitempty,max=2000"`
	Status      *string `json:"status" validate:"omitempty,is-category-status"`
	SortOrder   *int    `json:"sortOrder" validate:"omitempty,min=0"`
}

type CategoryResponse struct {
	ID                string                 `json:"id"`
	Slug              string                 `json:"slug"`
	Name              string                 `json:"name"`
	Description       *string                `json:"description"`
	Image             *string                `json:"image"`
	Type              string                 `json:"type"`
	Status            string                 `json:"status"`
	ShowInShopSection bool                   `json:"showInShopSection"`
	SortOrder         int                    `json:"sortOrder"`
	SEOTitle          *string                `json:"seoTitle"`
	SEODescription    *string                `json:"seoDescription"`
	SubCategories     []*SubCategoryResponse `json:"subCategories,omitempty"`
}

type SubCategoryResponse struct {
	ID               string                    `json:"id"`
	Slug             string                    `json:"slug"`
	Name             string                    `json:"name"`
	Description      *string                   `json:"description"`
	Image            *string                   `json:"image"`
	Status           string                    `json:"status"`
	SortOrder        int                       `json:"sortOrder"`
	ParentID         string                    `json:"parentId"`
	SubSubCategories []*SubSubCategoryResponse `json:"subSubCategories,omitempty"`
}

type SubSubCategoryResponse struct {
	ID          string  `json:"id"`
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Status      string  `json:"status"`
	SortOrder   int     `json:"sortOrder"`
	ParentID    string  `json:"parentId"`
}

// =======================
// Filter attributes
// =======================

type CreateFilterCategoryRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=120"`
	SortOrder *int   `json:"sortOrder" validate:"omitempty,min=0"`
}

type UpdateFilterCategoryRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=120"`
	SortOrder *int    `json:"sortOrder" validate:"omitempty,min=0"`
}

type CreateFilterAttributeRequest struct {
	CategoryID string `json:"categoryId" validate:"required"`
	Name       string `json:"name" validate:"required,min=1,max=120"`
	SortOrder  *int   `json:"sortOrder" validate:"omitempty,min=0"`
}

type UpdateFilterAttributeRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=120"`
	SortOrder *int    `json:"sortOrder" validate:"omitempty,min=0"`
}

type FilterCategoryResponse struct {
	ID         string                     `json:"id"`
	Slug       string                     `json:"slug"`
	Name       string                     `json:"name"`
	SortOrder  int                        `json:"sortOrder"`
	Attributes []*FilterAttributeResponse `json:"attributes"`
}

type FilterAttributeResponse struct {
	ID         string `json:"id"`
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	SortOrder  int    `json:"sortOrder"`
}
