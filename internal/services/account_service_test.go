package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront_backend/internal/auth"
	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/internal/testutil"
)

func newAccountService() AccountService {
	return NewAccountService(
		repositories.NewUserRepository(),
		repositories.NewOrderRepository(),
		repositories.NewAddressRepository(),
		repositories.NewWishlistRepository(),
		repositories.NewProductRepository(),
	)
}

func addressReq(name string, isDefault bool) *dto.CreateAddressRequest {
	return &dto.CreateAddressRequest{
		Name:      name,
		Street:    "12 MG Road",
		City:      "Pune",
		State:     "Maharashtra",
		Pincode:   "411001",
		IsDefault: isDefault,
	}
}

func defaultAddresses(t *testing.T, db *gorm.DB, userID string) []string {
	t.Helper()
	var ids []string
	require.NoError(t, db.Model(&models.Address{}).Where("user_id = ? AND is_default = ?", userID, true).Pluck("id", &ids).Error)
	return ids
}

func TestAccountService_Addresses(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := newAccountService()
	user := testutil.CreateUser(t, db, "user@example.com", "secret123", true)
	other := testutil.CreateUser(t, db, "other@example.com", "secret123", true)

	home, err := svc.CreateAddress(ctx, db, user.ID, addressReq("Home", true))
	require.NoError(t, err)
	assert.Equal(t, "Home", home.Type)
	office, err := svc.CreateAddress(ctx, db, user.ID, addressReq("Office", true))
	require.NoError(t, err)

	// у пользователя один адрес по умолчанию
	assert.Equal(t, []string{office.ID}, defaultAddresses(t, db, user.ID))

	yes := true
	_, err = svc.UpdateAddress(ctx, db, user.ID, home.ID, &dto.UpdateAddressRequest{IsDefault: &yes})
	require.NoError(t, err)
	assert.Equal(t, []string{home.ID}, defaultAddresses(t, db, user.ID))

	// чужой адрес не виден
	_, err = svc.UpdateAddress(ctx, db, other.ID, home.ID, &dto.UpdateAddressRequest{IsDefault: &yes})
	requireAppError(t, err, http.StatusNotFound, "Address not found")
	err = svc.DeleteAddress(ctx, db, other.ID, home.ID)
	requireAppError(t, err, http.StatusNotFound, "Address not found")

	overview, err := svc.Overview(ctx, db, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, overview.Counts.AddressesCount)
	require.NotNil(t, overview.DefaultAddress)
	assert.Equal(t, home.ID, overview.DefaultAddress.ID)

	require.NoError(t, svc.DeleteAddress(ctx, db, user.ID, office.ID))
	list, err := svc.ListAddresses(ctx, db, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAccountService_Wishlist(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	svc := newAccountService()
	user := testutil.CreateUser(t, f.db, "user@example.com", "secret123", true)
	cat := f.category(t, "Rudraksha")
	p := f.product(t, &dto.CreateProductRequest{Name: "Gauri Shankar", CategoryID: cat.ID, Price: dec("2100"), DiscountPrice: dec("1900")})

	err := svc.AddToWishlist(ctx, f.db, user.ID, " ")
	requireAppError(t, err, http.StatusBadRequest, "Product ID is required")
	err = svc.AddToWishlist(ctx, f.db, user.ID, "missing")
	requireAppError(t, err, http.StatusNotFound, "Product not found")

	require.NoError(t, svc.AddToWishlist(ctx, f.db, user.ID, p.ID))
	require.NoError(t, svc.AddToWishlist(ctx, f.db, user.ID, p.ID), "adding twice is a no-op")

	items, err := svc.ListWishlist(ctx, f.db, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, p.ID, items[0].ProductID)
	assert.Equal(t, 1900.0, items[0].Price)
	assert.Equal(t, "Rudraksha", items[0].Category)

	require.NoError(t, svc.RemoveFromWishlist(ctx, f.db, user.ID, p.ID))
	err = svc.RemoveFromWishlist(ctx, f.db, user.ID, p.ID)
	requireAppError(t, err, http.StatusNotFound, "Wishlist item not found")
}

func TestAccountService_ChangePassword(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := newAccountService()
	user := testutil.CreateUser(t, db, "user@example.com", "secret123", true)

	err := svc.ChangePassword(ctx, db, user.ID, &dto.ChangePasswordRequest{NewPassword: "newsecret"})
	requireAppError(t, err, http.StatusBadRequest, "Validation failed")

	err = svc.ChangePassword(ctx, db, user.ID, &dto.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newsecret"})
	requireAppError(t, err, http.StatusBadRequest, "Current password is incorrect.")

	require.NoError(t, svc.ChangePassword(ctx, db, user.ID, &dto.ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "newsecret"}))

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	require.NotNil(t, stored.PasswordHash)
	assert.True(t, auth.CheckPasswordHash("newsecret", *stored.PasswordHash))

	// аккаунт без пароля (Google) задает его без текущего
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("password_hash", nil).Error)
	require.NoError(t, svc.ChangePassword(ctx, db, user.ID, &dto.ChangePasswordRequest{NewPassword: "fromgoogle"}))
}

func TestAccountService_ProfileAndDeactivate(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := newAccountService()
	user := testutil.CreateUser(t, db, "user@example.com", "secret123", true)

	name := "Asha"
	phone := ""
	updated, err := svc.UpdateProfile(ctx, db, user.ID, &dto.UpdateProfileRequest{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Asha", updated.Name)
	assert.Nil(t, updated.Phone)

	_, err = svc.UpdateProfile(ctx, db, "missing", &dto.UpdateProfileRequest{Name: &name})
	requireAppError(t, err, http.StatusNotFound, "User not found")

	gone, err := svc.Deactivate(ctx, db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", gone.Email)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.False(t, stored.IsActive)
	assert.False(t, stored.EmailVerified)

	_, err = svc.GetOrder(ctx, db, user.ID, "ORD-2026-1")
	requireAppError(t, err, http.StatusNotFound, "Order not found")
}
