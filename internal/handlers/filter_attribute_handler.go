package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_backend/internal/middleware"
	"storefront_backend/internal/services"
	"storefront_backend/internal/services/dto"
)

type FilterAttributeHandler struct {
	*BaseHandler
	filterService services.FilterAttributeService
}

func NewFilterAttributeHandler(base *BaseHandler, filterService services.FilterAttributeService) *FilterAttributeHandler {
	return &FilterAttributeHandler{
		BaseHandler:   base,
		filterService: filterService,
	}
}

func (h *FilterAttributeHandler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.AuthMiddleware) {
	rg.GET("/filter-attributes", h.ListCategories)

	admin := rg.Group("/admin/filter-attributes", guard.Admin())
	{
		admin.GET("", h.ListCategories)
		admin.GET("/:id", h.GetCategory)
		admin.POST("", h.CreateCategory)
		admin.PUT("/:id", h.UpdateCategory)
		admin.DELETE("/:id", h.DeleteCategory)

		admin.POST("/attributes", h.CreateAttribute)
		admin.PUT("/attributes/:id", h.UpdateAttribute)
		admin.DELETE("/attributes/:id", h.DeleteAttribute)
	}
}

// ListCategories godoc
// @Summary Словарь фасетов каталога
// @Tags filters
// @Produce json
// @Success 200 {array} dto.FilterCategoryResponse
// @Router /filter-attributes [get]
func (h *FilterAttributeHandler) ListCategories(c *gin.Context) {
	categories, err := h.filterService.ListCategories(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"filterCategories": categories})
}

func (h *FilterAttributeHandler) GetCategory(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}

	category, err := h.filterService.GetCategory(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"filterCategory": category})
}

func (h *FilterAttributeHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateFilterCategoryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	category, err := h.filterService.CreateCategory(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusCreated, gin.H{"filterCategory": category})
}

func (h *FilterAttributeHandler) UpdateCategory(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateFilterCategoryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	category, err := h.filterService.UpdateCategory(c.Request.Context(), h.GetDB(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"filterCategory": category})
}

func (h *FilterAttributeHandler) DeleteCategory(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}

	if err := h.filterService.DeleteCategory(c.Request.Context(), h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"message": "Category deleted"})
}

func (h *FilterAttributeHandler) CreateAttribute(c *gin.Context) {
	var req dto.CreateFilterAttributeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	attribute, err := h.filterService.CreateAttribute(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusCreated, gin.H{"filterAttribute": attribute})
}

func (h *FilterAttributeHandler) UpdateAttribute(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateFilterAttributeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	attribute, err := h.filterService.UpdateAttribute(c.Request.Context(), h.GetDB(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"filterAttribute": attribute})
}

func (h *FilterAttributeHandler) DeleteAttribute(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}

	if err := h.filterService.DeleteAttribute(c.Request.Context(), h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"message": "Attribute deleted"})
}
