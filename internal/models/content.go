package models

import (
	"time"

	"gorm.io/datatypes"
)

type BlogPost struct {
	BaseModel
	Slug         string        `gorm:"type:varchar(300);uniqueIndex;not null"`
	Title        string        `gorm:"type:varchar(300);not null"`
	Excerpt      *string       `gorm:"type:varchar(1000)"`
	Content      *string       `gorm:"type:text"`
	Image        *string       `gorm:"type:varchar(2000)"`
	AuthorName   *string       `gorm:"type:varchar(120)"`
	AuthorAvatar *string       `gorm:"type:varchar(2000)"`
	AuthorRole   *string       `gorm:"type:varchar(120)"`
	Category     *BlogCategory `gorm:"type:varchar(30);index"`
	Tags         datatypes.JSONSlice[string]
	ReadTime     *string       `gorm:"type:varchar(50)"`
	IsMustRead   bool          `gorm:"not null;default:false"`
	IsPopular    bool          `gorm:"not null;default:false"`
	IsFeatured   bool          `gorm:"not null;default:false"`
	Status       PublishStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	PublishedAt  *time.Time
	Views        int `gorm:"not null;default:0"`
	SortOrder    int `gorm:"not null;default:0"`
}

// Page - CMS-документ по ключу (slug), контент - произвольный JSON
type Page struct {
	BaseModel
	Slug    string         `gorm:"type:varchar(120);uniqueIndex;not null"`
	Title   string         `gorm:"type:varchar(300);not null"`
	Content datatypes.JSON `gorm:"not null"`
	Status  PublishStatus  `gorm:"type:varchar(20);not null;default:'published'"`
}
