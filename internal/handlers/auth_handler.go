package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_backend/internal/middleware"
	"storefront_backend/internal/services"
	"storefront_backend/internal/services/dto"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// RegisterRoutes - /api/auth
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.AuthMiddleware) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/send-otp", h.SendOTP)
		auth.POST("/verify-otp", h.VerifyOTP)
		auth.POST("/login", h.Login)
		auth.POST("/google", h.GoogleLogin)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
		auth.GET("/me", guard.Customer(), h.Me)

		auth.POST("/admin/login", h.AdminLogin)
		auth.GET("/admin/me", guard.Admin(), h.AdminMe)
	}
}

func otpSentPayload(resp *dto.OTPSentResponse) gin.H {
	payload := gin.H{"message": resp.Message}
	if resp.Email != "" {
		payload["email"] = resp.Email
	}
	if resp.DevOTP != "" {
		payload["devOtp"] = resp.DevOTP
	}
	return payload
}

func authPayload(resp *dto.AuthResponse) gin.H {
	return gin.H{
		"message":     resp.Message,
		"user":        resp.User,
		"accessToken": resp.AccessToken,
	}
}

// Register godoc
// @Summary Регистрация покупателя, отправка OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные регистрации"
// @Success 201 {object} dto.OTPSentResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusCreated, otpSentPayload(resp))
}

func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req dto.SendOTPRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.SendOTP(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, otpSentPayload(resp))
}

// VerifyOTP godoc
// @Summary Подтверждение email кодом
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.VerifyOTPRequest true "Email и код"
// @Success 200 {object} dto.AuthResponse
// @Router /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.VerifyOTP(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, authPayload(resp))
}

// Login godoc
// @Summary Вход по email и паролю
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Учетные данные"
// @Success 200 {object} dto.AuthResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, authPayload(resp))
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.GoogleLogin(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, authPayload(resp))
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.ForgotPassword(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, otpSentPayload(resp))
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), h.GetDB(c), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"message": "Password has been reset. You can now sign in."})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"user": user})
}

// AdminLogin godoc
// @Summary Вход администратора
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Учетные данные"
// @Success 200 {object} dto.AdminAuthResponse
// @Router /auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req dto.AdminLoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.AdminLogin(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{
		"message":     resp.Message,
		"admin":       resp.Admin,
		"accessToken": resp.AccessToken,
	})
}

func (h *AuthHandler) AdminMe(c *gin.Context) {
	adminID, ok := h.GetAdminID(c)
	if !ok {
		return
	}

	admin, err := h.authService.AdminMe(c.Request.Context(), h.GetDB(c), adminID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"admin": admin})
}
