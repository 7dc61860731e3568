package apperrors

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - конверт ответа об ошибке
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    ErrorCode   `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
	Error   string      `json:"error,omitempty"`
}

var debugMode atomic.Bool

// SetDebug включает вывод причины ошибки в ответе (не для production)
func SetDebug(enabled bool) {
	debugMode.Store(enabled)
}

// GinErrorHandler - обработчик ошибок для Gin
type GinErrorHandler struct {
	Debug bool
}

// HandleGinError пишет единый конверт {success:false, message, ...}
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= http.StatusInternalServerError {
		slog.Error("server error",
			slog.String("path", c.Request.URL.Path),
			slog.String("code", string(appErr.Code)),
			slog.Any("error", appErr.Unwrap()),
		)
	}

	resp := ErrorResponse{
		Success: false,
		Message: appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	}
	if h.Debug && appErr.Err != nil {
		resp.Error = appErr.Err.Error()
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, resp)
}

// HandleError - короткий вызов для хендлеров и middleware
func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: debugMode.Load()}
	handler.HandleGinError(c, err)
}

// RecoveryHandler - для gin.CustomRecovery: паника -> 500 в том же конверте
func RecoveryHandler(c *gin.Context, recovered interface{}) {
	slog.Error("panic recovered", slog.Any("panic", recovered), slog.String("path", c.Request.URL.Path))
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Success: false,
		Message: "Internal server error",
		Code:    CodeInternalError,
	})
}
