package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_backend/internal/middleware"
	"storefront_backend/internal/services"
	"storefront_backend/internal/services/dto"
)

// AccountHandler - личный кабинет; userID берется только из токена
type AccountHandler struct {
	*BaseHandler
	accountService services.AccountService
}

func NewAccountHandler(base *BaseHandler, accountService services.AccountService) *AccountHandler {
	return &AccountHandler{
		BaseHandler:    base,
		accountService: accountService,
	}
}

func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.AuthMiddleware) {
	account := rg.Group("/account", guard.Customer())
	{
		account.GET("/overview", h.Overview)
		account.GET("/orders", h.ListOrders)
		account.GET("/orders/:orderNumber", h.GetOrder)

		account.GET("/addresses", h.ListAddresses)
		account.POST("/addresses", h.CreateAddress)
		account.PUT("/addresses/:id", h.UpdateAddress)
		account.PATCH("/addresses/:id", h.UpdateAddress)
		account.DELETE("/addresses/:id", h.DeleteAddress)

		account.GET("/wishlist", h.ListWishlist)
		account.POST("/wishlist", h.AddToWishlist)
		account.DELETE("/wishlist/:productId", h.RemoveFromWishlist)

		account.PATCH("/profile", h.UpdateProfile)
		account.POST("/change-password", h.ChangePassword)
		account.DELETE("/account", h.Deactivate)
	}
}

// Overview godoc
// @Summary Сводка личного кабинета
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AccountOverviewResponse
// @Router /account/overview [get]
func (h *AccountHandler) Overview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.accountService.Overview(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{
		"user":           resp.User,
		"counts":         resp.Counts,
		"recentOrders":   resp.RecentOrders,
		"wishlist":       resp.Wishlist,
		"defaultAddress": resp.DefaultAddress,
	})
}

func (h *AccountHandler) ListOrders(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var query dto.AccountOrdersQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.accountService.ListOrders(c.Request.Context(), h.GetDB(c), userID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, withPage(gin.H{"orders": resp.Orders}, resp.PageMeta))
}

func (h *AccountHandler) GetOrder(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	orderNumber, ok := PathParam(c, "orderNumber")
	if !ok {
		return
	}

	order, err := h.accountService.GetOrder(c.Request.Context(), h.GetDB(c), userID, orderNumber)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"order": order})
}

// =======================
// Адреса
// =======================

func (h *AccountHandler) ListAddresses(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	addresses, err := h.accountService.ListAddresses(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"addresses": addresses})
}

func (h *AccountHandler) CreateAddress(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.CreateAddressRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	address, err := h.accountService.CreateAddress(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusCreated, gin.H{"address": address})
}

func (h *AccountHandler) UpdateAddress(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateAddressRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	address, err := h.accountService.UpdateAddress(c.Request.Context(), h.GetDB(c), userID, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"address": address})
}

func (h *AccountHandler) DeleteAddress(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}

	if err := h.accountService.DeleteAddress(c.Request.Context(), h.GetDB(c), userID, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"message": "Address deleted"})
}

// =======================
// Избранное
// =======================

func (h *AccountHandler) ListWishlist(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	wishlist, err := h.accountService.ListWishlist(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"wishlist": wishlist})
}

func (h *AccountHandler) AddToWishlist(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.AddWishlistRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.accountService.AddToWishlist(c.Request.Context(), h.GetDB(c), userID, req.ProductID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusCreated, gin.H{"message": "Added to wishlist"})
}

func (h *AccountHandler) RemoveFromWishlist(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	productID, ok := PathParam(c, "productId")
	if !ok {
		return
	}

	if err := h.accountService.RemoveFromWishlist(c.Request.Context(), h.GetDB(c), userID, productID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"message": "Removed from wishlist"})
}

// =======================
// Профиль
// =======================

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.accountService.UpdateProfile(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"user": user})
}

func (h *AccountHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.accountService.ChangePassword(c.Request.Context(), h.GetDB(c), userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func (h *AccountHandler) Deactivate(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.accountService.Deactivate(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"message": "Account deactivated successfully", "user": user})
}
