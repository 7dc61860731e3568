package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "storefront_backend/docs"
	"storefront_backend/internal/handlers"
	"storefront_backend/internal/logger"
	"storefront_backend/internal/middleware"
	"storefront_backend/pkg/apperrors"
)

// Options - необязательные части дерева маршрутов
type Options struct {
	// UploadsURL и UploadsDir - раздача локально сохраненных файлов; пусто = не раздаем
	UploadsURL string
	UploadsDir string
	// Swagger - включить /swagger/*any
	Swagger bool
}

// RegisterRoutes регистрирует все HTTP маршруты под /api.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	guard *middleware.AuthMiddleware,
	opts Options,
) {
	api := ginRouter.Group("/api")
	{
		api.GET("/health", Health)

		for _, h := range appHandlers.All() {
			h.RegisterRoutes(api, guard)
		}
	}

	if opts.UploadsURL != "" && opts.UploadsDir != "" {
		ginRouter.Static(opts.UploadsURL, opts.UploadsDir)
		logger.Info("Static uploads route registered", "url", opts.UploadsURL, "dir", opts.UploadsDir)
	}

	if opts.Swagger {
		ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	ginRouter.NoRoute(NotFound)
}

// Health godoc
// @Summary Liveness
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Storefront API",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// NotFound - ответ для неизвестного маршрута
func NotFound(c *gin.Context) {
	apperrors.HandleError(c, apperrors.NewNotFoundError("route",
		fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.Path)))
}
