package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront_backend/database"
	"storefront_backend/internal/models"
)

// NewTestDB - отдельная in-memory sqlite на каждый тест, со всеми миграциями
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := database.Open(database.Options{Driver: "sqlite", DSN: dsn})
	if err != nil {
		t.Fatalf("Не удалось открыть тестовую БД: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Не удалось выполнить AutoMigrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser создает активного пользователя; пароль хешируется, если передан в открытом виде
func CreateUser(t *testing.T, db *gorm.DB, email, password string, verified bool) *models.User {
	t.Helper()

	user := &models.User{
		Slug:          "user-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		Email:         email,
		Name:          "Test User",
		IsActive:      true,
		EmailVerified: verified,
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("Не удалось хешировать пароль: %v", err)
		}
		h := string(hash)
		user.PasswordHash = &h
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Не удалось создать пользователя %s: %v", email, err)
	}
	return user
}

// CreateAdmin создает активного администратора
func CreateAdmin(t *testing.T, db *gorm.DB, email, password string) *models.AdminUser {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Не удалось хешировать пароль: %v", err)
	}
	admin := &models.AdminUser{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Test Admin",
		Role:         models.AdminRoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("Не удалось создать администратора %s: %v", email, err)
	}
	return admin
}
