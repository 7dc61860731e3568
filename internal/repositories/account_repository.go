package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront_backend/internal/models"
)

var (
	ErrAddressNotFound  = errors.New("address not found")
	ErrWishlistNotFound = errors.New("wishlist item not found")
)

type AddressRepository interface {
	ListByUser(db *gorm.DB, userID string) ([]models.Address, error)
	FindByUser(db *gorm.DB, userID, id string) (*models.Address, error)
	FindDefault(db *gorm.DB, userID string) (*models.Address, error)
	Create(db *gorm.DB, address *models.Address) error
	Update(db *gorm.DB, id string, fields map[string]interface{}) error
	// ClearDefault снимает isDefault со всех адресов пользователя, кроме exceptID
	ClearDefault(db *gorm.DB, userID, exceptID string) error
	Delete(db *gorm.DB, userID, id string) error
	CountByUser(db *gorm.DB, userID string) (int64, error)
	CountsByUsers(db *gorm.DB, userIDs []string) (map[string]int64, error)
}

type AddressRepositoryImpl struct{}

func NewAddressRepository() AddressRepository {
	return &AddressRepositoryImpl{}
}

func (r *AddressRepositoryImpl) ListByUser(db *gorm.DB, userID string) ([]models.Address, error) {
	var addresses []models.Address
	err := db.Where("user_id = ?", userID).
		Order("is_default DESC").Order("created_at DESC").
		Find(&addresses).Error
	return addresses, err
}

func (r *AddressRepositoryImpl) FindByUser(db *gorm.DB, userID, id string) (*models.Address, error) {
	var address models.Address
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&address).Error; err != nil {
		return nil, translate(err, ErrAddressNotFound)
	}
	return &address, nil
}

func (r *AddressRepositoryImpl) FindDefault(db *gorm.DB, userID string) (*models.Address, error) {
	var address models.Address
	err := db.Where("user_id = ? AND is_default = ?", userID, true).First(&address).Error
	if err != nil {
		return nil, translate(err, ErrAddressNotFound)
	}
	return &address, nil
}

func (r *AddressRepositoryImpl) Create(db *gorm.DB, address *models.Address) error {
	return translate(db.Create(address).Error, ErrAddressNotFound)
}

func (r *AddressRepositoryImpl) Update(db *gorm.DB, id string, fields map[string]interface{}) error {
	return updateByID(db, &models.Address{}, id, fields, ErrAddressNotFound)
}

func (r *AddressRepositoryImpl) ClearDefault(db *gorm.DB, userID, exceptID string) error {
	q := db.Model(&models.Address{}).Where("user_id = ? AND is_default = ?", userID, true)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	return q.Update("is_default", false).Error
}

func (r *AddressRepositoryImpl) Delete(db *gorm.DB, userID, id string) error {
	result := db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Address{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (r *AddressRepositoryImpl) CountByUser(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Address{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *AddressRepositoryImpl) CountsByUsers(db *gorm.DB, userIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		UserID string
		Total  int64
	}
	err := db.Model(&models.Address{}).
		Select("user_id, COUNT(*) AS total").
		Where("user_id IN ?", userIDs).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.UserID] = row.Total
	}
	return counts, nil
}

type WishlistRepository interface {
	ListByUser(db *gorm.DB, userID string, limit int) ([]models.WishlistItem, error)
	// Add идемпотентен: повторное добавление той же пары ничего не меняет
	Add(db *gorm.DB, userID, productID string) error
	Remove(db *gorm.DB, userID, productID string) error
	CountByUser(db *gorm.DB, userID string) (int64, error)
}

type WishlistRepositoryImpl struct{}

func NewWishlistRepository() WishlistRepository {
	return &WishlistRepositoryImpl{}
}

func (r *WishlistRepositoryImpl) ListByUser(db *gorm.DB, userID string, limit int) ([]models.WishlistItem, error) {
	q := db.Preload("Product").Preload("Product.Category").Preload("Product.Facets").
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var items []models.WishlistItem
	err := q.Find(&items).Error
	return items, err
}

func (r *WishlistRepositoryImpl) Add(db *gorm.DB, userID, productID string) error {
	item := models.WishlistItem{UserID: userID, ProductID: productID}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoNothing: true,
	}).Create(&item).Error
}

func (r *WishlistRepositoryImpl) Remove(db *gorm.DB, userID, productID string) error {
	result := db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.WishlistItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWishlistNotFound
	}
	return nil
}

func (r *WishlistRepositoryImpl) CountByUser(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.WishlistItem{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
