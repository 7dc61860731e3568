package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront_backend/internal/auth"
	"storefront_backend/internal/logger"
	"storefront_backend/pkg/apperrors"
	"storefront_backend/pkg/contextkeys"
)

// AuthMiddleware - проверка bearer-токенов покупателя и администратора.
// Токены разных аудиторий не взаимозаменяемы.
type AuthMiddleware struct {
	tokens *auth.TokenManager
}

func NewAuthMiddleware(tokens *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// Customer - обязательный access-токен покупателя
func (m *AuthMiddleware) Customer() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Access token is required"))
			return
		}

		claims, err := m.tokens.Parse(token, auth.TokenTypeAccess)
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "Customer token rejected", "error", err.Error(), "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.NewUnauthorizedError(tokenErrorMessage(err, "Invalid token")))
			return
		}

		setCustomer(c, claims)
		c.Next()
	}
}

// Admin - обязательный admin-токен
func (m *AuthMiddleware) Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Admin token is required"))
			return
		}

		claims, err := m.tokens.Parse(token, auth.TokenTypeAdmin)
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "Admin token rejected", "error", err.Error(), "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.NewUnauthorizedError(tokenErrorMessage(err, "Invalid admin token")))
			return
		}

		c.Set(string(contextkeys.AdminIDKey), claims.AdminID)
		c.Request = c.Request.WithContext(logger.WithAdminID(c.Request.Context(), claims.AdminID))
		c.Next()
	}
}

// Optional - гостевой checkout: валидный access-токен привязывает заказ к покупателю,
// любой другой токен молча игнорируется
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := m.tokens.Parse(token, auth.TokenTypeAccess); err == nil {
				setCustomer(c, claims)
			}
		}
		c.Next()
	}
}

func setCustomer(c *gin.Context, claims *auth.Claims) {
	c.Set(string(contextkeys.UserIDKey), claims.UserID)
	c.Set(string(contextkeys.UserEmailKey), claims.Email)
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
}

// tokenErrorMessage - чужая аудитория отдает сообщение своей группы маршрутов
func tokenErrorMessage(err error, wrongType string) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "Token expired"
	case errors.Is(err, auth.ErrWrongTokenType):
		return wrongType
	default:
		return "Invalid token"
	}
}
