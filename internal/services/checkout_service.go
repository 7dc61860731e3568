package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"
	"storefront_backend/internal/payment"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"
)

const msgGatewayNotConfigured = "Payment gateway is not configured"

// gatewayCallTimeout - вызов шлюза идет внутри открытой транзакции заказа
// и держит соединение с БД, поэтому он короче таймаута HTTP-клиента
const gatewayCallTimeout = 8 * time.Second

type CheckoutService interface {
	CreateOrder(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, db *gorm.DB, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error)
	GetOrderByNumber(ctx context.Context, db *gorm.DB, orderNumber string) (*dto.OrderSummaryResponse, error)
}

type checkoutService struct {
	orderRepo repositories.OrderRepository
	userRepo  repositories.UserRepository
	gateway   payment.Gateway
	ids       *snowflake.Node
	now       func() time.Time
}

func NewCheckoutService(
	orderRepo repositories.OrderRepository,
	userRepo repositories.UserRepository,
	gateway payment.Gateway,
	ids *snowflake.Node,
) CheckoutService {
	return &checkoutService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		gateway:   gateway,
		ids:       ids,
		now:       time.Now,
	}
}

// orderNumber - ORD-<год>-<snowflake id>, уникальность дополнительно держит индекс
func (s *checkoutService) orderNumber() string {
	return fmt.Sprintf("ORD-%d-%s", s.now().Year(), s.ids.Generate().String())
}

func decimalOr(values ...*decimal.Decimal) decimal.Decimal {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return decimal.Zero
}

// CreateOrder материализует корзину в заказ. Заказ, позиции и заказ
// в платежном шлюзе создаются в одной транзакции: любая ошибка откатывает все.
func (s *checkoutService) CreateOrder(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.NewBadRequestError("Cart is empty")
	}
	address := req.ShippingAddress.ToModel()
	if address.Name == "" || address.Email == "" {
		return nil, apperrors.NewBadRequestError("Name and email are required")
	}
	total := decimalOr(req.Total)
	if !total.IsPositive() {
		return nil, apperrors.NewBadRequestError("Invalid order total")
	}

	method := models.PaymentMethod(strings.TrimSpace(req.PaymentMethod))
	if method == "" {
		method = models.PaymentMethodCOD
	}
	online := method != models.PaymentMethodCOD
	if online && (s.gateway == nil || !s.gateway.Configured()) {
		return nil, apperrors.NewServiceUnavailableError("checkout", msgGatewayNotConfigured)
	}

	items := make([]*models.OrderItem, 0, len(req.Items))
	itemsTotal := decimal.Zero
	for _, it := range req.Items {
		productID, name, price, image, quantity := it.Normalize()
		item := &models.OrderItem{
			Slug:         randomSlug("oi", 6),
			ProductID:    optionalText(&productID),
			ProductName:  name,
			ProductImage: optionalText(image),
			Quantity:     quantity,
			Price:        price,
			Total:        price.Mul(decimal.NewFromInt(int64(quantity))),
		}
		itemsTotal = itemsTotal.Add(item.Total)
		items = append(items, item)
	}

	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// привязываем к пользователю, только если он существует
	var owner *string
	if userID != "" {
		if _, err := s.userRepo.FindByID(tx, userID); err == nil {
			owner = &userID
		} else if !errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.InternalError(err)
		}
	}

	order := &models.Order{
		Slug:            randomSlug("ord", 8),
		OrderNumber:     s.orderNumber(),
		UserID:          owner,
		CustomerName:    address.Name,
		CustomerEmail:   normalizeEmail(address.Email),
		CustomerPhone:   optionalText(&address.Phone),
		ShippingAddress: datatypes.NewJSONType(address),
		Subtotal:        decimalOr(req.Subtotal, &itemsTotal),
		ShippingCost:    decimalOr(req.Shipping, req.ShippingCost),
		Tax:             decimal.Zero,
		Discount:        decimalOr(req.Discount),
		Total:           total,
		Status:          models.OrderStatusPending,
		PaymentMethod:   method,
		PaymentStatus:   models.PaymentStatusPending,
		CouponCode:      optionalText(req.CouponCode),
		IsGift:          req.IsGift,
		GiftMessage:     optionalText(req.GiftMessage),
	}
	if !online {
		order.Status = models.OrderStatusProcessing
		order.PaymentStatus = models.PaymentStatusCOD
	}

	if err := s.orderRepo.Create(tx, order); err != nil {
		return nil, apperrors.InternalError(err)
	}
	for _, item := range items {
		item.OrderID = order.ID
		if err := s.orderRepo.CreateItem(tx, item); err != nil {
			logger.CtxWithError(ctx, "Failed to create order item, rolling back", err, "order_number", order.OrderNumber)
			return nil, apperrors.InternalError(err)
		}
	}

	resp := &dto.CreateOrderResponse{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		PaymentStatus: string(order.PaymentStatus),
	}

	if online {
		gwCtx, cancel := context.WithTimeout(ctx, gatewayCallTimeout)
		gwOrder, err := s.gateway.CreateOrder(gwCtx, payment.CreateOrderInput{
			AmountMinor: payment.ToMinorUnits(total),
			Currency:    s.gateway.Currency(),
			Receipt:     order.OrderNumber,
			Notes: map[string]string{
				"orderId":     order.ID,
				"orderNumber": order.OrderNumber,
			},
		})
		cancel()
		if err != nil {
			if errors.Is(err, payment.ErrNotConfigured) {
				return nil, apperrors.NewServiceUnavailableError("checkout", msgGatewayNotConfigured)
			}
			return nil, apperrors.ExternalServiceError(err, "checkout", "Failed to create payment order")
		}
		if err := s.orderRepo.UpdateFields(tx, order.ID, map[string]interface{}{"razorpay_order_id": gwOrder.ID}); err != nil {
			return nil, apperrors.InternalError(err)
		}

		keyID := s.gateway.KeyID()
		resp.RazorpayOrderID = &gwOrder.ID
		resp.RazorpayAmount = &gwOrder.Amount
		resp.RazorpayCurrency = &gwOrder.Currency
		resp.RazorpayKeyID = &keyID
	}

	if err := commitTx(tx); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Order created",
		"order_number", order.OrderNumber,
		"payment_method", method,
		"items", len(items),
		"total", total.String(),
	)
	return resp, nil
}

func (s *checkoutService) VerifyPayment(ctx context.Context, db *gorm.DB, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	gatewayOrderID := strings.TrimSpace(req.RazorpayOrderID)
	paymentID := strings.TrimSpace(req.RazorpayPaymentID)
	signature := strings.TrimSpace(req.RazorpaySignature)
	if gatewayOrderID == "" || paymentID == "" || signature == "" {
		return nil, apperrors.NewBadRequestError("Missing Razorpay payment details")
	}
	if s.gateway == nil || !s.gateway.Configured() {
		return nil, apperrors.NewServiceUnavailableError("checkout", msgGatewayNotConfigured)
	}

	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	order, err := s.orderRepo.FindByGatewayOrderID(tx, gatewayOrderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.NewNotFoundError("order", "Order not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if !s.gateway.VerifySignature(gatewayOrderID, paymentID, signature) {
		logger.CtxWarn(ctx, "Invalid payment signature", "order_number", order.OrderNumber)
		return nil, apperrors.NewBadRequestError("Invalid payment signature")
	}

	resp := &dto.VerifyPaymentResponse{
		Message:     "Payment verified",
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
	}

	// повторная проверка уже оплаченного заказа ничего не меняет
	if order.PaymentStatus == models.PaymentStatusPaid {
		return resp, nil
	}

	err = s.orderRepo.UpdateFields(tx, order.ID, map[string]interface{}{
		"razorpay_payment_id": paymentID,
		"payment_status":      models.PaymentStatusPaid,
		"status":              models.OrderStatusProcessing,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := commitTx(tx); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Payment verified", "order_number", order.OrderNumber, "payment_id", paymentID)
	return resp, nil
}

func (s *checkoutService) GetOrderByNumber(ctx context.Context, db *gorm.DB, orderNumber string) (*dto.OrderSummaryResponse, error) {
	order, err := s.orderRepo.FindByNumber(db, strings.TrimSpace(orderNumber))
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.NewNotFoundError("order", "Order not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return toOrderSummaryResponse(order), nil
}
