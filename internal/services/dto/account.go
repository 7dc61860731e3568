package dto

import "time"

// =======================
// Профиль
// =======================

// UpdateProfileRequest - патч профиля; "" в текстовых полях очищает значение
type UpdateProfileRequest struct {
	Name           *string             `json:"name" validate:"omitempty,min=1,max=120"`
	Phone          *string             `json:"phone" validate:"omitempty,max=20"`
	Avatar         *string             `json:"avatar" validate:"omitempty,max=2000"`
	DateOfBirth    Nullable[DateValue] `json:"dateOfBirth"`
	SpiritualLevel *string             `json:"spiritualLevel" validate:"omitempty,max=50"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=128"`
}

type DeactivatedAccountResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// =======================
// Адреса
// =======================

type CreateAddressRequest struct {
	Type      string  `json:"type" validate:"omitempty,max=30"`
	Name      string  `json:"name" validate:"required,min=1,max=120"`
	Street    string  `json:"street" validate:"required,min=1,max=500"`
	City      string  `json:"city" validate:"required,min=1,max=120"`
	State     string  `json:"state" validate:"required,min=1,max=120"`
	Pincode   string  `json:"pincode" validate:"required,min=1,max=12"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	IsDefault bool    `json:"isDefault"`
}

type UpdateAddressRequest struct {
	Type      *string `json:"type" validate:"omitempty,min=1,max=30"`
	Name      *string `json:"name" validate:"omitempty,min=1,max=120"`
	Street    *string `json:"street" validate:"omitempty,min=1,max=500"`
	City      *string `json:"city" validate:"omitempty,min=1,max=120"`
	State     *string `json:"state" validate:"omitempty,min=1,max=120"`
	Pincode   *string `json:"pincode" validate:"omitempty,min=1,max=12"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	IsDefault *bool   `json:"isDefault"`
}

type AddressResponse struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	Street    string  `json:"street"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Pincode   string  `json:"pincode"`
	Phone     *string `json:"phone"`
	IsDefault bool    `json:"isDefault"`
}

// =======================
// Избранное
// =======================

type AddWishlistRequest struct {
	ProductID string `json:"productId"`
}

type WishlistProductResponse struct {
	ID            string   `json:"id"`
	ProductID     string   `json:"productId"`
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"originalPrice"`
	DiscountPrice *float64 `json:"discountPrice"`
	Category      string   `json:"category"`
	Image         *string  `json:"image"`
}

// =======================
// Обзор и заказы
// =======================

type AccountCounts struct {
	OrdersCount    int64 `json:"ordersCount"`
	WishlistCount  int64 `json:"wishlistCount"`
	AddressesCount int64 `json:"addressesCount"`
}

type RecentOrderResponse struct {
	ID          string  `json:"id"`
	OrderNumber string  `json:"orderNumber"`
	Total       float64 `json:"total"`
	Status      string  `json:"status"`
	ItemCount   int     `json:"itemCount"`
	CreatedAt   string  `json:"createdAt"`
}

type AccountOverviewResponse struct {
	User           *UserResponse              `json:"user"`
	Counts         AccountCounts              `json:"counts"`
	RecentOrders   []*RecentOrderResponse     `json:"recentOrders"`
	Wishlist       []*WishlistProductResponse `json:"wishlist"`
	DefaultAddress *AddressResponse           `json:"defaultAddress"`
}

type AccountOrdersQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type OrderListResponse struct {
	Orders []*OrderResponse `json:"orders"`
	PageMeta
}

// DateValue - дата в формате YYYY-MM-DD или полный RFC3339
type DateValue struct {
	time.Time
}

func (d *DateValue) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return &time.ParseError{Layout: "2006-01-02", Value: s, Message: ": invalid date"}
}
