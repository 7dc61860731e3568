package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_backend/internal/middleware"
	"storefront_backend/internal/services"
	"storefront_backend/internal/services/dto"
)

// CategoryHandler - дерево категорий: категория -> подкатегория -> под-подкатегория
type CategoryHandler struct {
	*BaseHandler
	categoryService services.CategoryService
}

func NewCategoryHandler(base *BaseHandler, categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		BaseHandler:     base,
		categoryService: categoryService,
	}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.AuthMiddleware) {
	categories := rg.Group("/categories")
	{
		categories.GET("", h.ListPublic)
		categories.GET("/:slug", h.GetBySlug)
	}

	admin := rg.Group("/admin", guard.Admin())
	{
		admin.GET("/categories", h.AdminList)
		admin.GET("/categories/:id", h.AdminGet)
		admin.POST("/categories", h.Create)
		admin.PUT("/categories/:id", h.Update)
		admin.DELETE("/categories/:id", h.Delete)

		admin.GET("/categories/:id/subcategories", h.ListSubCategories)
		admin.POST("/categories/:id/subcategories", h.CreateSubCategory)
		admin.GET("/subcategories/:id", h.GetSubCategory)
		admin.PUT("/subcategories/:id", h.UpdateSubCategory)
		admin.DELETE("/subcategories/:id", h.DeleteSubCategory)

		admin.GET("/subcategories/:id/subsubcategories", h.ListSubSubCategories)
		admin.POST("/subcategories/:id/subsubcategories", h.CreateSubSubCategory)
		admin.GET("/subsubcategories/:id", h.GetSubSubCategory)
		admin.PUT("/subsubcategories/:id", h.UpdateSubSubCategory)
		admin.DELETE("/subsubcategories/:id", h.DeleteSubSubCategory)
	}
}

// ListPublic godoc
// @Summary Активные категории с вложенными подкатегориями
// @Tags categories
// @Produce json
// @Param type query string false "main | material"
// @Param showInShopSection query string false "true | false"
// @Success 200 {array} dto.CategoryResponse
// @Router /categories [get]
func (h *CategoryHandler) ListPublic(c *gin.Context) {
	var query dto.CategoryListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	categories, err := h.categoryService.ListPublic(c.Request.Context(), h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"categories": categories})
}

func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	slug, ok := PathParam(c, "slug")
	if !ok {
		return
	}

	category, err := h.categoryService.GetPublicBySlug(c.Request.Context(), h.GetDB(c), slug)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"category": category})
}

// =======================
// Категории
// =======================

func (h *CategoryHandler) AdminList(c *gin.Context) {
	var query dto.CategoryListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	categories, err := h.categoryService.AdminList(c.Request.Context(), h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"categories": categories})
}

func (h *CategoryHandler) AdminGet(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.AdminGet(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"category": category})
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusCreated, gin.H{"category": category})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCategoryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), h.GetDB(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"category": category})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"message": "Category deleted"})
}

// =======================
// Подкатегории
// =======================

func (h *CategoryHandler) ListSubCategories(c *gin.Context) {
	categoryID, ok := PathParam(c, "id")
	if !ok {
		return
	}

	subs, err := h.categoryService.ListSubCategories(c.Request.Context(), h.GetDB(c), categoryID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"subCategories": subs})
}

func (h *CategoryHandler) GetSubCategory(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}

	sub, err := h.categoryService.GetSubCategory(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"subCategory": sub})
}

func (h *CategoryHandler) CreateSubCategory(c *gin.Context) {
	categoryID, ok := PathParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreateSubCategoryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	sub, err := h.categoryService.CreateSubCategory(c.Request.Context(), h.GetDB(c), categoryID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusCreated, gin.H{"subCategory": sub})
}

func (h *CategoryHandler) UpdateSubCategory(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateSubCategoryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	sub, err := h.categoryService.UpdateSubCategory(c.Request.Context(), h.GetDB(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"subCategory": sub})
}

func (h *CategoryHandler) DeleteSubCategory(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteSubCategory(c.Request.Context(), h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"message": "Subcategory deleted"})
}

// =======================
// Под-подкатегории
// =======================

func (h *CategoryHandler) ListSubSubCategories(c *gin.Context) {
	subCategoryID, ok := PathParam(c, "id")
	if !ok {
		return
	}

	items, err := h.categoryService.ListSubSubCategories(c.Request.Context(), h.GetDB(c), subCategoryID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"subSubCategories": items})
}

func (h *CategoryHandler) GetSubSubCategory(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}

	item, err := h.categoryService.GetSubSubCategory(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"subSubCategory": item})
}

func (h *CategoryHandler) CreateSubSubCategory(c *gin.Context) {
	subCategoryID, ok := PathParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreateSubCategoryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	item, err := h.categoryService.CreateSubSubCategory(c.Request.Context(), h.GetDB(c), subCategoryID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusCreated, gin.H{"subSubCategory": item})
}

func (h *CategoryHandler) UpdateSubSubCategory(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateSubCategoryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	item, err := h.categoryService.UpdateSubSubCategory(c.Request.Context(), h.GetDB(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"subSubCategory": item})
}

func (h *CategoryHandler) DeleteSubSubCategory(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteSubSubCategory(c.Request.Context(), h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"message": "Sub-subcategory deleted"})
}
