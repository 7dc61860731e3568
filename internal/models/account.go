package models

// Address - не больше одного isDefault на пользователя (сбрасывается при записи)
type Address struct {
	BaseModel
	UserID    string  `gorm:"type:varchar(36);not null;index"`
	Slug      string  `gorm:"type:varchar(32);uniqueIndex;not null"`
	Type      string  `gorm:"type:varchar(30);not null;default:'Home'"`
	Name      string  `gorm:"type:varchar(120);not null"`
	Street    string  `gorm:"type:varchar(500);not null"`
	City      string  `gorm:"type:varchar(120);not null"`
	State     string  `gorm:"type:varchar(120);not null"`
	Pincode   string  `gorm:"type:varchar(12);not null"`
	Phone     *string `gorm:"type:varchar(20)"`
	IsDefault bool    `gorm:"not null;default:false"`
}

type WishlistItem struct {
	BaseModel
	UserID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_wishlist_user_product"`
	ProductID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_wishlist_user_product"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
