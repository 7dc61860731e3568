package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_backend/internal/middleware"
	"storefront_backend/internal/services"
	"storefront_backend/internal/services/dto"
)

// AdminHandler - заказы и покупатели в админке
type AdminHandler struct {
	*BaseHandler
	orderService services.OrderService
	userService  services.UserService
}

func NewAdminHandler(base *BaseHandler, orderService services.OrderService, userService services.UserService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  base,
		orderService: orderService,
		userService:  userService,
	}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.AuthMiddleware) {
	admin := rg.Group("/admin", guard.Admin())
	{
		admin.GET("/orders", h.ListOrders)
		admin.GET("/orders/export", h.ExportOrders)
		admin.GET("/orders/:id", h.GetOrder)
		admin.PATCH("/orders/:id/status", h.UpdateOrderStatus)

		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:id", h.GetUser)
		admin.PUT("/users/:id", h.UpdateUser)
	}
}

// =======================
// Заказы
// =======================

// ListOrders godoc
// @Summary Заказы с фильтром по статусу и поиском
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Статус или all"
// @Param search query string false "Номер заказа, имя или email"
// @Success 200 {object} dto.AdminOrderListResponse
// @Router /admin/orders [get]
func (h *AdminHandler) ListOrders(c *gin.Context) {
	var query dto.AdminOrderListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.orderService.List(c.Request.Context(), h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"data": resp.Data, "pagination": resp.Pagination})
}

func (h *AdminHandler) GetOrder(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"data": order})
}

func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), h.GetDB(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"message": "Order status updated successfully", "data": order})
}

func (h *AdminHandler) ExportOrders(c *gin.Context) {
	var query dto.AdminOrderListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	ctx, db := c.Request.Context(), h.GetDB(c)
	h.SendSpreadsheet(c, "orders", func(w io.Writer) error {
		return h.orderService.Export(ctx, db, &query, w)
	})
}

// =======================
// Покупатели
// =======================

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var query dto.AdminUserListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.userService.List(c.Request.Context(), h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, withPage(gin.H{"users": resp.Users}, resp.PageMeta))
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"user": user})
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}
	var req dto.AdminUpdateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), h.GetDB(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"user": user})
}
