package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrDuplicate - нарушение уникального индекса (slug, email, пара user/product)
	ErrDuplicate = errors.New("duplicate key")
)

// translate приводит ошибки gorm к sentinel-ошибкам репозитория
func translate(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// likePattern - подстрока для регистронезависимого LIKE по LOWER(col)
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// supportsRowLocks - sqlite не знает SELECT ... FOR UPDATE
func supportsRowLocks(db *gorm.DB) bool {
	return db.Dialector.Name() != "sqlite"
}
