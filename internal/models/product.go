package models

import (
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// FacetKey - фиксированный набор групп фасетов
type FacetKey string

const (
	FacetPurposes FacetKey = "purposes"
	FacetBeads    FacetKey = "beads"
	FacetMukhis   FacetKey = "mukhis"
	FacetPlatings FacetKey = "platings"
)

var FacetKeys = []FacetKey{FacetPurposes, FacetBeads, FacetMukhis, FacetPlatings}

func (k FacetKey) Valid() bool {
	for _, v := range FacetKeys {
		if v == k {
			return true
		}
	}
	return false
}

// FacetMap - группа фасета -> набор значений
type FacetMap map[FacetKey][]string

type ProductVariant struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

type Product struct {
	BaseModel
	Slug             string           `gorm:"type:varchar(300);uniqueIndex;not null"`
	Name             string           `gorm:"type:varchar(300);not null"`
	CategoryID       string           `gorm:"type:varchar(36);not null;index"`
	SubCategoryID    *string          `gorm:"type:varchar(36);index"`
	SubSubCategoryID *string          `gorm:"type:varchar(36);index"`
	Price            decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	DiscountPrice    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Stock            int              `gorm:"not null;default:0"`
	SKU              *string          `gorm:"column:sku;type:varchar(100)"`
	ShortDescription *string          `gorm:"type:varchar(2000)"`
	FullDescription  *string          `gorm:"type:text"`
	Thumbnail        *string          `gorm:"type:varchar(500)"`

	Images        datatypes.JSONSlice[string]
	Tags          datatypes.JSONSlice[string]
	Benefits      datatypes.JSONSlice[string]
	WhoShouldWear datatypes.JSONSlice[string]
	WearingRules  datatypes.JSONSlice[string]
	Variants      datatypes.JSONSlice[ProductVariant]
	Authenticity  datatypes.JSON

	IsFeatured   bool             `gorm:"not null;default:false"`
	IsBestseller bool             `gorm:"not null;default:false"`
	IsNew        bool             `gorm:"not null;default:false"`
	IsVisible    bool             `gorm:"not null"`
	Status       ProductStatus    `gorm:"type:varchar(20);not null;default:'active';index"`
	Rating       *decimal.Decimal `gorm:"type:decimal(3,2)"`
	ReviewCount  int              `gorm:"not null;default:0"`
	SortOrder    int              `gorm:"not null;default:0"`

	Category       *Category       `gorm:"foreignKey:CategoryID"`
	SubCategory    *SubCategory    `gorm:"foreignKey:SubCategoryID"`
	SubSubCategory *SubSubCategory `gorm:"foreignKey:SubSubCategoryID"`
	Facets         []ProductFacet  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// EffectivePrice - цена со скидкой, если она задана
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil && p.DiscountPrice.IsPositive() {
		return *p.DiscountPrice
	}
	return p.Price
}

// FacetMap собирает строки фасетов обратно в карту
func (p *Product) FacetMap() FacetMap {
	out := FacetMap{}
	for _, f := range p.Facets {
		out[f.FacetKey] = append(out[f.FacetKey], f.Value)
	}
	for k := range out {
		sort.Strings(out[k])
	}
	return out
}

// ProductFacet - одна пара (группа, значение) товара
type ProductFacet struct {
	ProductID string   `gorm:"type:varchar(36);primaryKey"`
	FacetKey  FacetKey `gorm:"type:varchar(20);primaryKey;index:idx_product_facet_lookup"`
	Value     string   `gorm:"type:varchar(120);primaryKey;index:idx_product_facet_lookup"`
}
