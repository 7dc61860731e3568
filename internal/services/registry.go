package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService            AuthService
	AccountService         AccountService
	ProductService         ProductService
	CategoryService        CategoryService
	FilterAttributeService FilterAttributeService
	BlogService            BlogService
	PageService            PageService
	CheckoutService        CheckoutService
	OrderService           OrderService
	UserService            UserService
	UploadService          UploadService
	EmailService           *EmailService
}
