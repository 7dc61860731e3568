package dto

import (
	"strings"

	"github.com/shopspring/decimal"

	"storefront_backend/internal/models"
)

// CartProduct - вложенная форма позиции корзины {product:{...}, quantity}
type CartProduct struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Price     *decimal.Decimal `json:"price"`
	Thumbnail *string          `json:"thumbnail"`
	Images    []string         `json:"images"`
}

// CheckoutItem принимает обе формы: вложенную и плоскую
type CheckoutItem struct {
	Product      *CartProduct     `json:"product"`
	ProductID    string           `json:"productId"`
	ProductName  string           `json:"productName"`
	Price        *decimal.Decimal `json:"price"`
	ProductImage *string          `json:"productImage"`
	Quantity     int              `json:"quantity" validate:"omitempty,min=1"`
}

// Normalize сводит позицию к плоской форме; вложенный product приоритетнее
func (i CheckoutItem) Normalize() (productID, name string, price decimal.Decimal, image *string, quantity int) {
	productID = i.ProductID
	name = i.ProductName
	if i.Price != nil {
		price = *i.Price
	}
	image = i.ProductImage

	if p := i.Product; p != nil {
		if p.ID != "" {
			productID = p.ID
		}
		if p.Name != "" {
			name = p.Name
		}
		if p.Price != nil {
			price = *p.Price
		}
		switch {
		case p.Thumbnail != nil && *p.Thumbnail != "":
			image = p.Thumbnail
		case len(p.Images) > 0 && p.Images[0] != "":
			img := p.Images[0]
			image = &img
		}
	}

	if strings.TrimSpace(name) == "" {
		name = "Product"
	}
	quantity = i.Quantity
	if quantity < 1 {
		quantity = 1
	}
	return productID, name, price, image, quantity
}

type ShippingAddressInput struct {
	Name    string `json:"name" validate:"max=200"`
	Email   string `json:"email" validate:"omitempty,email,max=255"`
	Phone   string `json:"phone" validate:"max=20"`
	Street  string `json:"street" validate:"max=500"`
	City    string `json:"city" validate:"max=120"`
	State   string `json:"state" validate:"max=120"`
	Pincode string `json:"pincode" validate:"max=12"`
	Country string `json:"country" validate:"max=80"`
}

func (a ShippingAddressInput) ToModel() models.ShippingAddress {
	return models.ShippingAddress{
		Name:    strings.TrimSpace(a.Name),
		Email:   strings.TrimSpace(a.Email),
		Phone:   strings.TrimSpace(a.Phone),
		Street:  strings.TrimSpace(a.Street),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		Pincode: strings.TrimSpace(a.Pincode),
		Country: strings.TrimSpace(a.Country),
	}
}

// CreateOrderRequest - суммы считает клиент, сервер проверяет только total > 0
type CreateOrderRequest struct {
	Items           []CheckoutItem       `json:"items" validate:"dive"`
	ShippingAddress ShippingAddressInput `json:"shippingAddress"`
	PaymentMethod   string               `json:"paymentMethod" validate:"omitempty,is-payment-method"`
	CouponCode      *string              `json:"couponCode" validate:"omitempty,max=50"`
	IsGift          bool                 `json:"isGift"`
	GiftMessage     *string              `json:"giftMessage" validate:"omitempty,max=500"`
	Subtotal        *decimal.Decimal     `json:"subtotal"`
	Shipping        *decimal.Decimal     `json:"shipping"`
	ShippingCost    *decimal.Decimal     `json:"shippingCost"`
	Discount        *decimal.Decimal     `json:"discount"`
	Total           *decimal.Decimal     `json:"total"`
}

type CreateOrderResponse struct {
	OrderID          string  `json:"orderId"`
	OrderNumber      string  `json:"orderNumber"`
	PaymentStatus    string  `json:"paymentStatus"`
	RazorpayOrderID  *string `json:"razorpayOrderId"`
	RazorpayAmount   *int64  `json:"razorpayAmount"`
	RazorpayCurrency *string `json:"razorpayCurrency"`
	RazorpayKeyID    *string `json:"razorpayKeyId"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type VerifyPaymentResponse struct {
	Message     string `json:"message"`
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}

type OrderItemResponse struct {
	ID           string  `json:"id"`
	ProductID    *string `json:"productId"`
	ProductName  string  `json:"productName"`
	ProductImage *string `json:"productImage"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	Total        float64 `json:"total"`
}

// OrderSummaryResponse - публичный статус заказа по номеру
type OrderSummaryResponse struct {
	ID            string               `json:"id"`
	OrderNumber   string               `json:"orderNumber"`
	CustomerName  string               `json:"customerName"`
	CustomerEmail string               `json:"customerEmail"`
	Total         float64              `json:"total"`
	Status        string               `json:"status"`
	PaymentStatus string               `json:"paymentStatus"`
	PaymentMethod string               `json:"paymentMethod"`
	CreatedAt     string               `json:"createdAt"`
	Items         []*OrderItemResponse `json:"items"`
}

// OrderResponse - полный заказ (личный кабинет и админка)
type OrderResponse struct {
	ID                string                 `json:"id"`
	OrderNumber       string                 `json:"orderNumber"`
	CustomerID        *string                `json:"customerId"`
	CustomerName      string                 `json:"customerName"`
	CustomerEmail     string                 `json:"customerEmail"`
	CustomerPhone     *string                `json:"customerPhone"`
	ShippingAddress   models.ShippingAddress `json:"shippingAddress"`
	Items             []*OrderItemResponse   `json:"items"`
	Subtotal          float64                `json:"subtotal"`
	ShippingCost      float64                `json:"shippingCost"`
	Tax               float64                `json:"tax"`
	Discount          float64                `json:"discount"`
	Total             float64                `json:"total"`
	Status            string                 `json:"status"`
	PaymentMethod     string                 `json:"paymentMethod"`
	PaymentStatus     string                 `json:"paymentStatus"`
	RazorpayOrderID   *string                `json:"razorpayOrderId"`
	RazorpayPaymentID *string                `json:"razorpayPaymentId"`
	CouponCode        *string                `json:"couponCode"`
	IsGift            bool                   `json:"isGift"`
	GiftMessage       *string                `json:"giftMessage"`
	CreatedAt         string                 `json:"createdAt"`
	UpdatedAt         string                 `json:"updatedAt"`
}
