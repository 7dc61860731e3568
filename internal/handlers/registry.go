package handlers

import (
	"github.com/gin-gonic/gin"

	"storefront_backend/internal/middleware"
)

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler            *AuthHandler
	CheckoutHandler        *CheckoutHandler
	ProductHandler         *ProductHandler
	CategoryHandler        *CategoryHandler
	FilterAttributeHandler *FilterAttributeHandler
	ContentHandler         *ContentHandler
	AccountHandler         *AccountHandler
	AdminHandler           *AdminHandler
	UploadHandler          *UploadHandler
}

// RouteRegistrar - любой хэндлер, умеющий повесить свои маршруты на группу
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup, guard *middleware.AuthMiddleware)
}

// All возвращает хэндлеры в порядке регистрации
func (h *AppHandlers) All() []RouteRegistrar {
	return []RouteRegistrar{
		h.AuthHandler,
		h.CheckoutHandler,
		h.ProductHandler,
		h.CategoryHandler,
		h.FilterAttributeHandler,
		h.ContentHandler,
		h.AccountHandler,
		h.AdminHandler,
		h.UploadHandler,
	}
}
