package models

type Category struct {
	BaseModel
	Slug              string         `gorm:"type:varchar(120);uniqueIndex;not null"`
	Name              string         `gorm:"type:varchar(120);not null"`
	Description       *string        `gorm:"type:text"`
	Image             *string        `gorm:"type:varchar(2000)"`
	Type              CategoryType   `gorm:"type:varchar(20);not null;default:'main';index"`
	Status            CategoryStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	ShowInShopSection bool           `gorm:"not null;default:false"`
	SortOrder         int            `gorm:"not null;default:0"`
	SEOTitle          *string        `gorm:"column:seo_title;type:varchar(200)"`
	SEODescription    *string        `gorm:"column:seo_description;type:varchar(500)"`

	SubCategories []SubCategory `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
}

// SubCategory - slug уникален в пределах родителя
type SubCategory struct {
	BaseModel
	ParentID    string         `gorm:"type:varchar(36);not null;uniqueIndex:idx_subcategory_parent_slug"`
	Slug        string         `gorm:"type:varchar(120);not null;uniqueIndex:idx_subcategory_parent_slug"`
	Name        string         `gorm:"type:varchar(120);not null"`
	Description *string        `gorm:"type:text"`
	Image       *string        `gorm:"type:varchar(2000)"`
	Status      CategoryStatus `gorm:"type:varchar(20);not null;default:'active'"`
	SortOrder   int            `gorm:"not null;default:0"`

	SubSubCategories []SubSubCategory `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
}

// SubSubCategory - ссылки на родителя нет: у SubCategory тоже есть ParentID,
// и gorm принял бы обратную ссылку за has-one со своим внешним ключом
type SubSubCategory struct {
	BaseModel
	ParentID    string         `gorm:"type:varchar(36);not null;uniqueIndex:idx_subsubcategory_parent_slug"`
	Slug        string         `gorm:"type:varchar(120);not null;uniqueIndex:idx_subsubcategory_parent_slug"`
	Name        string         `gorm:"type:varchar(120);not null"`
	Description *string        `gorm:"type:text"`
	Image       *string        `gorm:"type:varchar(2000)"`
	Status      CategoryStatus `gorm:"type:varchar(20);not null;default:'active'"`
	SortOrder   int            `gorm:"not null;default:0"`
}

// FilterAttributeCategory - словарь фасетов; slug совпадает с ключом фасета
type FilterAttributeCategory struct {
	BaseModel
	Name      string `gorm:"type:varchar(120);not null"`
	Slug      string `gorm:"type:varchar(120);uniqueIndex;not null"`
	SortOrder int    `gorm:"not null;default:0"`

	Attributes []FilterAttribute `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

type FilterAttribute struct {
	BaseModel
	CategoryID string `gorm:"type:varchar(36);not null;index"`
	Name       string `gorm:"type:varchar(120);not null"`
	SortOrder  int    `gorm:"not null;default:0"`
}
