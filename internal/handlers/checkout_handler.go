package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_backend/internal/middleware"
	"storefront_backend/internal/services"
	"storefront_backend/internal/services/dto"
)

type CheckoutHandler struct {
	*BaseHandler
	checkoutService services.CheckoutService
}

func NewCheckoutHandler(base *BaseHandler, checkoutService services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		BaseHandler:     base,
		checkoutService: checkoutService,
	}
}

// RegisterRoutes - /api/checkout; create-order доступен гостю
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.AuthMiddleware) {
	checkout := rg.Group("/checkout")
	{
		checkout.POST("/create-order", guard.Optional(), h.CreateOrder)
		checkout.POST("/verify-payment", h.VerifyPayment)
		checkout.GET("/order/:orderNumber", h.GetOrder)
	}
}

// CreateOrder godoc
// @Summary Создание заказа и платежного намерения
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body dto.CreateOrderRequest true "Корзина, адрес и итоги"
// @Success 201 {object} dto.CreateOrderResponse
// @Router /checkout/create-order [post]
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.checkoutService.CreateOrder(c.Request.Context(), h.GetDB(c), h.OptionalUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	payload := gin.H{
		"orderId":       resp.OrderID,
		"orderNumber":   resp.OrderNumber,
		"paymentStatus": resp.PaymentStatus,
	}
	if resp.RazorpayOrderID != nil {
		payload["razorpayOrderId"] = *resp.RazorpayOrderID
		payload["razorpayAmount"] = resp.RazorpayAmount
		payload["razorpayCurrency"] = resp.RazorpayCurrency
		payload["razorpayKeyId"] = resp.RazorpayKeyID
	}
	OK(c, http.StatusCreated, payload)
}

// VerifyPayment godoc
// @Summary Проверка подписи платежа
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body dto.VerifyPaymentRequest true "Данные платежа"
// @Success 200 {object} dto.VerifyPaymentResponse
// @Router /checkout/verify-payment [post]
func (h *CheckoutHandler) VerifyPayment(c *gin.Context) {
	var req dto.VerifyPaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.checkoutService.VerifyPayment(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{
		"message":     resp.Message,
		"orderId":     resp.OrderID,
		"orderNumber": resp.OrderNumber,
	})
}

func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	orderNumber, ok := PathParam(c, "orderNumber")
	if !ok {
		return
	}

	order, err := h.checkoutService.GetOrderByNumber(c.Request.Context(), h.GetDB(c), orderNumber)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"order": order})
}
