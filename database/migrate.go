package database

import (
	"fmt"

	"gorm.io/gorm"

	"storefront_backend/internal/models"
)

// Models - все таблицы приложения
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.AdminUser{},
		&models.Category{},
		&models.SubCategory{},
		&models.SubSubCategory{},
		&models.FilterAttributeCategory{},
		&models.FilterAttribute{},
		&models.Product{},
		&models.ProductFacet{},
		&models.Order{},
		&models.OrderItem{},
		&models.Address{},
		&models.WishlistItem{},
		&models.BlogPost{},
		&models.Page{},
		&models.Upload{},
	}
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
