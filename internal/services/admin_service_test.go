package services

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/internal/testutil"
)

func newUserService() UserService {
	return NewUserService(
		repositories.NewUserRepository(),
		repositories.NewOrderRepository(),
		repositories.NewAddressRepository(),
		repositories.NewWishlistRepository(),
	)
}

func TestOrderService_ListAndStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	checkout := NewCheckoutService(repositories.NewOrderRepository(), repositories.NewUserRepository(), &fakeGateway{}, newSnowflake(t))
	svc := NewOrderService(repositories.NewOrderRepository())

	first, err := checkout.CreateOrder(ctx, db, "", cartRequest("cod"))
	require.NoError(t, err)
	_, err = checkout.CreateOrder(ctx, db, "", cartRequest("cod"))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, db, first.OrderID, &dto.UpdateOrderStatusRequest{})
	requireAppError(t, err, http.StatusBadRequest, "Status is required")
	_, err = svc.UpdateStatus(ctx, db, first.OrderID, &dto.UpdateOrderStatusRequest{Status: "lost"})
	requireAppError(t, err, http.StatusBadRequest, "Invalid order status")
	_, err = svc.UpdateStatus(ctx, db, "missing", &dto.UpdateOrderStatusRequest{Status: "shipped"})
	requireAppError(t, err, http.StatusNotFound, "Order not found")

	shipped, err := svc.UpdateStatus(ctx, db, first.OrderID, &dto.UpdateOrderStatusRequest{Status: "shipped", PaymentStatus: "paid"})
	require.NoError(t, err)
	assert.Equal(t, string(models.OrderStatusShipped), shipped.Status)
	assert.Equal(t, "paid", shipped.PaymentStatus)
	assert.Len(t, shipped.Items, 3)

	all, err := svc.List(ctx, db, &dto.AdminOrderListQuery{Status: "all"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Pagination.Total)
	assert.Equal(t, adminOrdersLimit, all.Pagination.Limit)

	onlyShipped, err := svc.List(ctx, db, &dto.AdminOrderListQuery{Status: "shipped"})
	require.NoError(t, err)
	require.Len(t, onlyShipped.Data, 1)
	assert.Equal(t, first.OrderNumber, onlyShipped.Data[0].OrderNumber)

	byNumber, err := svc.List(ctx, db, &dto.AdminOrderListQuery{Search: first.OrderNumber})
	require.NoError(t, err)
	assert.EqualValues(t, 1, byNumber.Pagination.Total)

	byEmail, err := svc.List(ctx, db, &dto.AdminOrderListQuery{Search: "RAVI@"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, byEmail.Pagination.Total)

	// xlsx - это zip-архив
	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, db, &dto.AdminOrderListQuery{Status: "all"}, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}

func TestUserService_ListGetUpdate(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := newUserService()
	checkout := NewCheckoutService(repositories.NewOrderRepository(), repositories.NewUserRepository(), &fakeGateway{}, newSnowflake(t))

	asha := testutil.CreateUser(t, db, "asha@example.com", "secret123", true)
	googler := testutil.CreateUser(t, db, "g@example.com", "", true)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", googler.ID).Update("google_id", "google-sub-1").Error)

	_, err := checkout.CreateOrder(ctx, db, asha.ID, cartRequest("cod"))
	require.NoError(t, err)
	_, err = newAccountService().CreateAddress(ctx, db, asha.ID, addressReq("Home", true))
	require.NoError(t, err)

	all, err := svc.List(ctx, db, &dto.AdminUserListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	google, err := svc.List(ctx, db, &dto.AdminUserListQuery{SignInMethod: "google"})
	require.NoError(t, err)
	require.Len(t, google.Users, 1)
	assert.Equal(t, "google", google.Users[0].SignInMethod)
	require.NotNil(t, google.Users[0].GoogleID)
	assert.Equal(t, "***", *google.Users[0].GoogleID, "google id never leaves the server")

	found, err := svc.List(ctx, db, &dto.AdminUserListQuery{Search: "ASHA"})
	require.NoError(t, err)
	require.Len(t, found.Users, 1)
	assert.Equal(t, "manual", found.Users[0].SignInMethod)
	assert.EqualValues(t, 1, *found.Users[0].OrdersCount)
	assert.EqualValues(t, 1, *found.Users[0].AddressesCount)

	detail, err := svc.Get(ctx, db, asha.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Addresses, 1)
	assert.Len(t, detail.RecentOrders, 1)
	assert.EqualValues(t, 0, *detail.WishlistCount)

	_, err = svc.Get(ctx, db, "missing")
	requireAppError(t, err, http.StatusNotFound, "User not found")

	inactive := false
	empty := ""
	updated, err := svc.Update(ctx, db, asha.ID, &dto.AdminUpdateUserRequest{IsActive: &inactive, Phone: &empty})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Nil(t, updated.Phone)

	_, err = svc.Update(ctx, db, "missing", &dto.AdminUpdateUserRequest{IsActive: &inactive})
	requireAppError(t, err, http.StatusNotFound, "User not found")
}
