package dto

// =======================
// Заказы (админка)
// =======================

type AdminOrderListQuery struct {
	Status string `form:"status" validate:"omitempty,max=20"`
	Search string `form:"search" validate:"max=200"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type UpdateOrderStatusRequest struct {
	Status        string `json:"status" validate:"omitempty,is-order-status"`
	PaymentStatus string `json:"paymentStatus" validate:"omitempty,oneof=pending paid failed refunded cod"`
}

type AdminOrderListResponse struct {
	Data       []*OrderResponse `json:"data"`
	Pagination PageMeta         `json:"pagination"`
}

// =======================
// Пользователи (админка)
// =======================

type AdminUserListQuery struct {
	Search       string `form:"search" validate:"max=200"`
	SignInMethod string `form:"signInMethod" validate:"omitempty,is-sign-in-method"`
	Page         int    `form:"page"`
	Limit        int    `form:"limit"`
}

// AdminUpdateUserRequest - патч пользователя из админки
type AdminUpdateUserRequest struct {
	Name           *string             `json:"name" validate:"omitempty,min=1,max=120"`
	Phone          *string             `json:"phone" validate:"omitempty,max=20"`
	DateOfBirth    Nullable[DateValue] `json:"dateOfBirth"`
	SpiritualLevel *string             `json:"spiritualLevel" validate:"omitempty,max=50"`
	IsActive       *bool               `json:"isActive"`
}

type AdminUserResponse struct {
	ID             string  `json:"id"`
	Slug           string  `json:"slug"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	Phone          *string `json:"phone"`
	Avatar         *string `json:"avatar"`
	GoogleID       *string `json:"googleId"`
	SignInMethod   string  `json:"signInMethod"`
	DateOfBirth    *string `json:"dateOfBirth"`
	SpiritualLevel *string `json:"spiritualLevel"`
	EmailVerified  bool    `json:"emailVerified"`
	IsActive       bool    `json:"isActive"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`

	OrdersCount    *int64 `json:"ordersCount,omitempty"`
	AddressesCount *int64 `json:"addressesCount,omitempty"`
	WishlistCount  *int64 `json:"wishlistCount,omitempty"`
}

type AdminUserOrderResponse struct {
	ID          string  `json:"id"`
	OrderNumber string  `json:"orderNumber"`
	Subtotal    float64 `json:"subtotal"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
}

type AdminUserDetailResponse struct {
	*AdminUserResponse
	Addresses    []*AddressResponse        `json:"addresses"`
	RecentOrders []*AdminUserOrderResponse `json:"recentOrders"`
}

type AdminUserListResponse struct {
	Users []*AdminUserResponse `json:"users"`
	PageMeta
}
