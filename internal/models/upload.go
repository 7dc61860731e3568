package models

// Upload - журнал загруженных администраторами файлов
type Upload struct {
	BaseModel
	AdminID         string `gorm:"type:varchar(36);index"`
	Target          string `gorm:"type:varchar(40);not null;index"` // image, blog-image, product-image, subcategory-image
	Key             string `gorm:"type:varchar(500);uniqueIndex;not null"`
	URL             string `gorm:"column:url;type:varchar(2000);not null"`
	OriginalName    string `gorm:"type:varchar(255)"`
	ContentType     string `gorm:"type:varchar(50);not null"`
	Size            int64  `gorm:"not null"`
	Resized         bool   `gorm:"not null;default:false"`
	StorageProvider string `gorm:"type:varchar(20);not null;default:'local'"` // local, s3, r2
}
