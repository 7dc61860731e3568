package services

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"unicode"

	"gorm.io/gorm"

	"storefront_backend/pkg/apperrors"
)

// slugify: "Rudraksha Mala (5 Mukhi)" -> "rudraksha-mala-5-mukhi"
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// randomSlug - "<prefix>-<hex>", n байт случайности
func randomSlug(prefix string, n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return prefix + "-" + hex.EncodeToString(buf)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// optionalText: nil -> nil, "" после trim -> nil
func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// patchText - значение для патча: "" очищает поле (NULL)
func patchText(s string) interface{} {
	v := strings.TrimSpace(s)
	if v == "" {
		return nil
	}
	return v
}

func strPtr(s string) *string {
	return &s
}

// pageParams - 1-based страница и лимит с ограничением сверху
func pageParams(page, limit, defaultLimit, maxLimit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit, (page - 1) * limit
}

// beginTx - начало транзакции в общем стиле сервисов
func beginTx(db *gorm.DB) (*gorm.DB, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	return tx, nil
}

func commitTx(tx *gorm.DB) error {
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
