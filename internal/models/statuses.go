package models

type OrderStatus string
type PaymentStatus string
type PaymentMethod string
type CategoryType string
type CategoryStatus string
type ProductStatus string
type PublishStatus string
type BlogCategory string
type AdminRole string
type SignInMethod string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusCOD      PaymentStatus = "cod"

	PaymentMethodCOD        PaymentMethod = "cod"
	PaymentMethodRazorpay   PaymentMethod = "razorpay"
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodNetBanking PaymentMethod = "netbanking"

	CategoryTypeMain     CategoryType = "main"
	CategoryTypeMaterial CategoryType = "material"

	CategoryStatusActive   CategoryStatus = "active"
	CategoryStatusInactive CategoryStatus = "inactive"

	ProductStatusDraft  ProductStatus = "draft"
	ProductStatusActive ProductStatus = "active"

	PublishStatusDraft     PublishStatus = "draft"
	PublishStatusPublished PublishStatus = "published"

	BlogCategoryRudraksha  BlogCategory = "rudraksha"
	BlogCategoryYantra     BlogCategory = "yantra"
	BlogCategoryCrystals   BlogCategory = "crystals"
	BlogCategoryMeditation BlogCategory = "meditation"
	BlogCategoryAstrology  BlogCategory = "astrology"
	BlogCategoryRituals    BlogCategory = "rituals"
	BlogCategoryWellness   BlogCategory = "wellness"

	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleSuperAdmin AdminRole = "superadmin"

	SignInMethodGoogle SignInMethod = "google"
	SignInMethodManual SignInMethod = "manual"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
}

var PaymentMethods = []PaymentMethod{
	PaymentMethodCOD, PaymentMethodRazorpay, PaymentMethodUPI, PaymentMethodCard, PaymentMethodNetBanking,
}

var BlogCategories = []BlogCategory{
	BlogCategoryRudraksha, BlogCategoryYantra, BlogCategoryCrystals, BlogCategoryMeditation,
	BlogCategoryAstrology, BlogCategoryRituals, BlogCategoryWellness,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (m PaymentMethod) Valid() bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}

func (c BlogCategory) Valid() bool {
	for _, v := range BlogCategories {
		if v == c {
			return true
		}
	}
	return false
}
