package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ShippingAddress struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
	Country string `json:"country,omitempty"`
}

type Order struct {
	BaseModel
	Slug            string                              `gorm:"type:varchar(32);uniqueIndex;not null"`
	OrderNumber     string                              `gorm:"type:varchar(40);uniqueIndex;not null"`
	UserID          *string                             `gorm:"type:varchar(36);index"`
	CustomerName    string                              `gorm:"type:varchar(200);not null"`
	CustomerEmail   string                              `gorm:"type:varchar(255);not null;index"`
	CustomerPhone   *string                             `gorm:"type:varchar(20)"`
	ShippingAddress datatypes.JSONType[ShippingAddress] `gorm:"not null"`

	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Tax          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Discount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Status            OrderStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentMethod     PaymentMethod `gorm:"type:varchar(20);not null;default:'cod'"`
	PaymentStatus     PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	RazorpayOrderID   *string       `gorm:"type:varchar(64);uniqueIndex"`
	RazorpayPaymentID *string       `gorm:"type:varchar(64)"`

	CouponCode  *string `gorm:"type:varchar(50)"`
	IsGift      bool    `gorm:"not null;default:false"`
	GiftMessage *string `gorm:"type:varchar(500)"`

	User  *User       `gorm:"foreignKey:UserID"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem - снимок корзины на момент покупки, без пути обновления
type OrderItem struct {
	BaseModel
	OrderID      string          `gorm:"type:varchar(36);not null;index"`
	Slug         string          `gorm:"type:varchar(32);uniqueIndex;not null"`
	ProductID    *string         `gorm:"type:varchar(36);index"`
	ProductName  string          `gorm:"type:varchar(300);not null"`
	ProductImage *string         `gorm:"type:varchar(2000)"`
	Quantity     int             `gorm:"not null"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
