package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_backend/internal/middleware"
	"storefront_backend/internal/services"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"
)

// ============================================
// UPLOAD HANDLER
// ============================================

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
	}
}

// ============================================
// ROUTES
// ============================================

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.AuthMiddleware) {
	admin := rg.Group("/admin", guard.Admin())
	{
		// image | blog-image | product-image | subcategory-image
		admin.POST("/upload/:target", h.UploadImage)

		admin.GET("/uploads", h.ListUploads)
		admin.DELETE("/uploads/:id", h.DeleteUpload)
	}
}

// ============================================
// HANDLERS
// ============================================

// UploadImage godoc
// @Summary Загрузка изображения
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param target path string true "image | blog-image | product-image | subcategory-image"
// @Param image formData file true "Файл изображения"
// @Success 200 {object} dto.UploadResponse
// @Router /admin/upload/{target} [post]
func (h *UploadHandler) UploadImage(c *gin.Context) {
	adminID, ok := h.GetAdminID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError(`No file uploaded. Use field name "image".`))
		return
	}

	req := dto.ImageUploadRequest{
		Target: c.Param("target"),
		File:   fileHeader,
	}

	resp, err := h.uploadService.UploadImage(c.Request.Context(), h.GetDB(c), adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"url": resp.URL})
}

func (h *UploadHandler) ListUploads(c *gin.Context) {
	var query dto.UploadListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.uploadService.List(c.Request.Context(), h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, withPage(gin.H{"uploads": resp.Uploads}, resp.PageMeta))
}

func (h *UploadHandler) DeleteUpload(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}

	if err := h.uploadService.Delete(c.Request.Context(), h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"message": "Upload deleted"})
}
