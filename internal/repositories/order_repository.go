package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront_backend/internal/models"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderFilter struct {
	UserID string
	Status models.OrderStatus
	// Search - по номеру заказа, имени или email покупателя
	Search string
	Limit  int
	Offset int
}

type OrderRepository interface {
	Create(db *gorm.DB, order *models.Order) error
	CreateItem(db *gorm.DB, item *models.OrderItem) error
	FindByID(db *gorm.DB, id string) (*models.Order, error)
	FindByNumber(db *gorm.DB, orderNumber string) (*models.Order, error)
	FindByUserAndNumber(db *gorm.DB, userID, orderNumber string) (*models.Order, error)
	// FindByGatewayOrderID блокирует строку заказа до конца транзакции
	FindByGatewayOrderID(db *gorm.DB, gatewayOrderID string) (*models.Order, error)
	UpdateFields(db *gorm.DB, id string, fields map[string]interface{}) error
	List(db *gorm.DB, filter OrderFilter) ([]models.Order, int64, error)
	ListForExport(db *gorm.DB, filter OrderFilter) ([]models.Order, error)
	CountByUser(db *gorm.DB, userID string) (int64, error)
	CountsByUsers(db *gorm.DB, userIDs []string) (map[string]int64, error)
}

type OrderRepositoryImpl struct{}

func NewOrderRepository() OrderRepository {
	return &OrderRepositoryImpl{}
}

// Create пишет только строку заказа, позиции добавляются через CreateItem
func (r *OrderRepositoryImpl) Create(db *gorm.DB, order *models.Order) error {
	return translate(db.Omit("Items", "User").Create(order).Error, ErrOrderNotFound)
}

func (r *OrderRepositoryImpl) CreateItem(db *gorm.DB, item *models.OrderItem) error {
	return translate(db.Create(item).Error, ErrOrderNotFound)
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(q *gorm.DB) *gorm.DB {
		return q.Order("created_at ASC").Order("id ASC")
	})
}

func (r *OrderRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Order, error) {
	var order models.Order
	if err := withItems(db).Preload("User").First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrOrderNotFound)
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) FindByNumber(db *gorm.DB, orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := withItems(db).First(&order, "order_number = ?", orderNumber).Error; err != nil {
		return nil, translate(err, ErrOrderNotFound)
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) FindByUserAndNumber(db *gorm.DB, userID, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := withItems(db).
		Where("user_id = ? AND order_number = ?", userID, orderNumber).
		First(&order).Error
	if err != nil {
		return nil, translate(err, ErrOrderNotFound)
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) FindByGatewayOrderID(db *gorm.DB, gatewayOrderID string) (*models.Order, error) {
	q := db.Where("razorpay_order_id = ?", gatewayOrderID)
	if supportsRowLocks(db) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var order models.Order
	if err := q.First(&order).Error; err != nil {
		return nil, translate(err, ErrOrderNotFound)
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) UpdateFields(db *gorm.DB, id string, fields map[string]interface{}) error {
	return updateByID(db, &models.Order{}, id, fields, ErrOrderNotFound)
}

func applyOrderFilter(f OrderFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.UserID != "" {
			q = q.Where("user_id = ?", f.UserID)
		}
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		if f.Search != "" {
			p := likePattern(f.Search)
			q = q.Where("LOWER(order_number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ?", p, p, p)
		}
		return q
	}
}

func (r *OrderRepositoryImpl) List(db *gorm.DB, filter OrderFilter) ([]models.Order, int64, error) {
	scope := applyOrderFilter(filter)

	var total int64
	if err := db.Model(&models.Order{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := withItems(db.Model(&models.Order{}).Scopes(scope)).
		Order("created_at DESC").Order("id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	var orders []models.Order
	err := q.Find(&orders).Error
	return orders, total, err
}

func (r *OrderRepositoryImpl) ListForExport(db *gorm.DB, filter OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	err := withItems(db.Model(&models.Order{}).Scopes(applyOrderFilter(filter))).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepositoryImpl) CountByUser(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *OrderRepositoryImpl) CountsByUsers(db *gorm.DB, userIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		UserID string
		Total  int64
	}
	err := db.Model(&models.Order{}).
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
