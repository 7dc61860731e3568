package repositories

import (
	"errors"

	"gorm.io/gorm"

	"storefront_backend/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrAdminNotFound = errors.New("admin not found")
)

type UserRepository interface {
	// Покупатели
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByGoogleIDOrEmail(db *gorm.DB, googleID, email string) (*models.User, error)
	Save(db *gorm.DB, user *models.User) error
	UpdateFields(db *gorm.DB, id string, fields map[string]interface{}) error
	List(db *gorm.DB, filter UserFilter) ([]models.User, int64, error)

	// Администраторы
	CreateAdmin(db *gorm.DB, admin *models.AdminUser) error
	FindAdminByID(db *gorm.DB, id string) (*models.AdminUser, error)
	FindAdminByEmail(db *gorm.DB, email string) (*models.AdminUser, error)
	CountAdmins(db *gorm.DB) (int64, error)
	TouchAdminLogin(db *gorm.DB, id string) error
}

type UserFilter struct {
	Search       string
	SignInMethod models.SignInMethod
	Limit        int
	Offset       int
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	return translate(db.Create(user).Error, ErrUserNotFound)
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	return &user, nil
}

// FindByGoogleIDOrEmail - сначала по googleId, затем по email
func (r *UserRepositoryImpl) FindByGoogleIDOrEmail(db *gorm.DB, googleID, email string) (*models.User, error) {
	var user models.User
	if googleID != "" {
		err := db.First(&user, "google_id = ?", googleID).Error
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return r.FindByEmail(db, email)
}

func (r *UserRepositoryImpl) Save(db *gorm.DB, user *models.User) error {
	return translate(db.Save(user).Error, ErrUserNotFound)
}

func (r *UserRepositoryImpl) UpdateFields(db *gorm.DB, id string, fields map[string]interface{}) error {
	result := db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return translate(result.Error, ErrUserNotFound)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) List(db *gorm.DB, filter UserFilter) ([]models.User, int64, error) {
	scope := func(q *gorm.DB) *gorm.DB {
		if filter.Search != "" {
			p := likePattern(filter.Search)
			q = q.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ? OR LOWER(COALESCE(phone, '')) LIKE ?", p, p, p)
		}
		switch filter.SignInMethod {
		case models.SignInMethodGoogle:
			q = q.Where("google_id IS NOT NULL AND google_id <> ''")
		case models.SignInMethodManual:
			q = q.Where("google_id IS NULL OR google_id = ''")
		}
		return q
	}

	var total int64
	if err := db.Model(&models.User{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := db.Model(&models.User{}).Scopes(scope).
		Order("created_at DESC").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&users).Error
	return users, total, err
}

// --- Администраторы ---

func (r *UserRepositoryImpl) CreateAdmin(db *gorm.DB, admin *models.AdminUser) error {
	return translate(db.Create(admin).Error, ErrAdminNotFound)
}

func (r *UserRepositoryImpl) FindAdminByID(db *gorm.DB, id string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := db.First(&admin, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrAdminNotFound)
	}
	return &admin, nil
}

func (r *UserRepositoryImpl) FindAdminByEmail(db *gorm.DB, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := db.First(&admin, "email = ?", email).Error; err != nil {
		return nil, translate(err, ErrAdminNotFound)
	}
	return &admin, nil
}

func (r *UserRepositoryImpl) CountAdmins(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.AdminUser{}).Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) TouchAdminLogin(db *gorm.DB, id string) error {
	return db.Model(&models.AdminUser{}).Where("id = ?", id).Update("last_login_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
