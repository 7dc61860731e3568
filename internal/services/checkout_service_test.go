package services

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront_backend/internal/models"
	"storefront_backend/internal/payment"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/internal/testutil"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{4}-\d+$`)

// failingItemRepo роняет вставку позиции заказа
type failingItemRepo struct {
	repositories.OrderRepository
}

func (r failingItemRepo) CreateItem(*gorm.DB, *models.OrderItem) error {
	return errors.New("disk full")
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func cartRequest(method string) *dto.CreateOrderRequest {
	return &dto.CreateOrderRequest{
		Items: []dto.CheckoutItem{
			{
				Product:  &dto.CartProduct{ID: "p-1", Name: "Rudraksha Mala", Price: dec("499.50"), Images: []string{"/uploads/products/mala.jpg"}},
				Quantity: 2,
			},
			{ProductID: "p-2", ProductName: "Yantra", Price: dec("250")},
			{ProductID: "p-3", ProductName: "Sphatik Bracelet", Price: dec("0"), Quantity: 3},
		},
		ShippingAddress: dto.ShippingAddressInput{Name: "Ravi", Email: "Ravi@Example.com", Phone: "9999999999", City: "Pune"},
		PaymentMethod:   method,
		Subtotal:        dec("1249"),
		Shipping:        dec("50"),
		Total:           dec("1299"),
	}
}

func countOrders(t *testing.T, db *gorm.DB) (orders, items int64) {
	t.Helper()
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&items).Error)
	return orders, items
}

// loadOrder читает заказ в новую структуру: gorm не обнуляет поля уже загруженной
func loadOrder(t *testing.T, db *gorm.DB, id string) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, db.First(&order, "id = ?", id).Error)
	return order
}

func TestCreateOrder_CashOnDelivery(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCheckoutService(repositories.NewOrderRepository(), repositories.NewUserRepository(), &fakeGateway{}, newSnowflake(t))
	ctx := context.Background()

	resp, err := svc.CreateOrder(ctx, db, "", cartRequest(""))
	require.NoError(t, err)
	assert.Regexp(t, orderNumberPattern, resp.OrderNumber)
	assert.Equal(t, string(models.PaymentStatusCOD), resp.PaymentStatus)
	assert.Nil(t, resp.RazorpayOrderID)

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, "id = ?", resp.OrderID).Error)
	assert.Nil(t, order.UserID, "guest checkout")
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.Equal(t, "ravi@example.com", order.CustomerEmail)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("1299")))
	assert.True(t, order.ShippingCost.Equal(decimal.RequireFromString("50")))
	require.Len(t, order.Items, 3)

	byName := map[string]models.OrderItem{}
	for _, it := range order.Items {
		byName[it.ProductName] = it
	}
	mala := byName["Rudraksha Mala"]
	assert.Equal(t, 2, mala.Quantity)
	assert.True(t, mala.Total.Equal(decimal.RequireFromString("999")))
	require.NotNil(t, mala.ProductImage)
	assert.Equal(t, "/uploads/products/mala.jpg", *mala.ProductImage)
	assert.Equal(t, 1, byName["Yantra"].Quantity, "missing quantity defaults to 1")
	for _, it := range order.Items {
		assert.True(t, it.Total.Equal(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))), it.ProductName)
	}

	orders, items := countOrders(t, db)
	assert.EqualValues(t, 1, orders)
	assert.EqualValues(t, 3, items)

	summary, err := svc.GetOrderByNumber(ctx, db, resp.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, resp.OrderID, summary.ID)
	assert.Len(t, summary.Items, 3)
}

func TestCreateOrder_AttachesExistingUserOnly(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCheckoutService(repositories.NewOrderRepository(), repositories.NewUserRepository(), &fakeGateway{}, newSnowflake(t))
	user := testutil.CreateUser(t, db, "buyer@example.com", "secret123", true)

	owned, err := svc.CreateOrder(context.Background(), db, user.ID, cartRequest("cod"))
	require.NoError(t, err)
	stale, err := svc.CreateOrder(context.Background(), db, "deleted-user-id", cartRequest("cod"))
	require.NoError(t, err)

	ownedOrder := loadOrder(t, db, owned.OrderID)
	require.NotNil(t, ownedOrder.UserID)
	assert.Equal(t, user.ID, *ownedOrder.UserID)

	assert.Nil(t, loadOrder(t, db, stale.OrderID).UserID)
}

func TestCreateOrder_Validation(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCheckoutService(repositories.NewOrderRepository(), repositories.NewUserRepository(), &fakeGateway{}, newSnowflake(t))
	ctx := context.Background()

	empty := cartRequest("cod")
	empty.Items = nil
	_, err := svc.CreateOrder(ctx, db, "", empty)
	requireAppError(t, err, http.StatusBadRequest, "Cart is empty")

	noEmail := cartRequest("cod")
	noEmail.ShippingAddress.Email = ""
	_, err = svc.CreateOrder(ctx, db, "", noEmail)
	requireAppError(t, err, http.StatusBadRequest, "Name and email are required")

	zero := cartRequest("cod")
	zero.Total = dec("0")
	_, err = svc.CreateOrder(ctx, db, "", zero)
	requireAppError(t, err, http.StatusBadRequest, "Invalid order total")

	// онлайн-оплата без ключей шлюза
	_, err = svc.CreateOrder(ctx, db, "", cartRequest("razorpay"))
	requireAppError(t, err, http.StatusServiceUnavailable, msgGatewayNotConfigured)

	orders, items := countOrders(t, db)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestCreateOrder_OnlinePayment(t *testing.T) {
	db := testutil.NewTestDB(t)
	gateway := &fakeGateway{secret: "rzp-secret"}
	svc := NewCheckoutService(repositories.NewOrderRepository(), repositories.NewUserRepository(), gateway, newSnowflake(t))

	resp, err := svc.CreateOrder(context.Background(), db, "", cartRequest("razorpay"))
	require.NoError(t, err)
	require.Len(t, gateway.orders, 1)
	assert.Equal(t, int64(129900), gateway.orders[0].AmountMinor)
	assert.Equal(t, resp.OrderNumber, gateway.orders[0].Receipt)
	// вызов шлюза ограничен сильнее, чем HTTP-клиент
	require.Len(t, gateway.deadlines, 1)
	assert.LessOrEqual(t, gateway.deadlines[0], gatewayCallTimeout)
	assert.Positive(t, gateway.deadlines[0])

	require.NotNil(t, resp.RazorpayOrderID)
	assert.Equal(t, int64(129900), *resp.RazorpayAmount)
	assert.Equal(t, "INR", *resp.RazorpayCurrency)
	assert.Equal(t, "rzp_test_key", *resp.RazorpayKeyID)
	assert.Equal(t, string(models.PaymentStatusPending), resp.PaymentStatus)

	var order models.Order
	require.NoError(t, db.First(&order, "id = ?", resp.OrderID).Error)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.NotNil(t, order.RazorpayOrderID)
	assert.Equal(t, *resp.RazorpayOrderID, *order.RazorpayOrderID)
}

func TestCreateOrder_RollsBackOnFailure(t *testing.T) {
	t.Run("gateway error", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		gateway := &fakeGateway{secret: "rzp-secret", createErr: payment.ErrGatewayFailure}
		svc := NewCheckoutService(repositories.NewOrderRepository(), repositories.NewUserRepository(), gateway, newSnowflake(t))

		_, err := svc.CreateOrder(context.Background(), db, "", cartRequest("razorpay"))
		requireAppError(t, err, http.StatusBadGateway, "")

		orders, items := countOrders(t, db)
		assert.Zero(t, orders)
		assert.Zero(t, items)
	})

	t.Run("item insert error", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		repo := failingItemRepo{OrderRepository: repositories.NewOrderRepository()}
		svc := NewCheckoutService(repo, repositories.NewUserRepository(), &fakeGateway{}, newSnowflake(t))

		_, err := svc.CreateOrder(context.Background(), db, "", cartRequest("cod"))
		requireAppError(t, err, http.StatusInternalServerError, "")

		orders, items := countOrders(t, db)
		assert.Zero(t, orders, "order row must not survive a failed item insert")
		assert.Zero(t, items)
	})
}

func TestVerifyPayment(t *testing.T) {
	db := testutil.NewTestDB(t)
	gateway := &fakeGateway{secret: "rzp-secret"}
	svc := NewCheckoutService(repositories.NewOrderRepository(), repositories.NewUserRepository(), gateway, newSnowflake(t))
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, db, "", cartRequest("upi"))
	require.NoError(t, err)
	gwOrderID := *created.RazorpayOrderID

	_, err = svc.VerifyPayment(ctx, db, &dto.VerifyPaymentRequest{RazorpayOrderID: gwOrderID})
	requireAppError(t, err, http.StatusBadRequest, "Missing Razorpay payment details")

	_, err = svc.VerifyPayment(ctx, db, &dto.VerifyPaymentRequest{
		RazorpayOrderID:   "order_unknown",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: payment.Sign("rzp-secret", "order_unknown", "pay_1"),
	})
	requireAppError(t, err, http.StatusNotFound, "Order not found")

	// подпись от другого paymentId
	_, err = svc.VerifyPayment(ctx, db, &dto.VerifyPaymentRequest{
		RazorpayOrderID:   gwOrderID,
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: payment.Sign("rzp-secret", gwOrderID, "pay_2"),
	})
	requireAppError(t, err, http.StatusBadRequest, "Invalid payment signature")

	order := loadOrder(t, db, created.OrderID)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Nil(t, order.RazorpayPaymentID)

	valid := &dto.VerifyPaymentRequest{
		RazorpayOrderID:   gwOrderID,
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: payment.Sign("rzp-secret", gwOrderID, "pay_1"),
	}
	resp, err := svc.VerifyPayment(ctx, db, valid)
	require.NoError(t, err)
	assert.Equal(t, "Payment verified", resp.Message)
	assert.Equal(t, created.OrderNumber, resp.OrderNumber)

	order = loadOrder(t, db, created.OrderID)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	require.NotNil(t, order.RazorpayPaymentID)
	assert.Equal(t, "pay_1", *order.RazorpayPaymentID)

	// повтор не меняет заказ
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", models.OrderStatusShipped).Error)
	again, err := svc.VerifyPayment(ctx, db, valid)
	require.NoError(t, err)
	assert.Equal(t, resp.OrderID, again.OrderID)
	assert.Equal(t, models.OrderStatusShipped, loadOrder(t, db, created.OrderID).Status)
}
