package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_backend/internal/middleware"
	"storefront_backend/internal/services"
	"storefront_backend/internal/services/dto"
)

type ProductHandler struct {
	*BaseHandler
	productService services.ProductService
}

func NewProductHandler(base *BaseHandler, productService services.ProductService) *ProductHandler {
	return &ProductHandler{
		BaseHandler:    base,
		productService: productService,
	}
}

func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.AuthMiddleware) {
	products := rg.Group("/products")
	{
		products.GET("", h.ListPublic)
		products.GET("/:slug", h.GetBySlug)
	}

	admin := rg.Group("/admin/products", guard.Admin())
	{
		admin.GET("", h.AdminList)
		admin.GET("/export", h.Export)
		admin.GET("/:id", h.AdminGet)
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.PATCH("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}

// ListPublic godoc
// @Summary Каталог товаров с фасетами
// @Tags products
// @Produce json
// @Param categorySlug query string false "Категория"
// @Param purposes query string false "Назначения через запятую"
// @Param sort query string false "popular | newest | price-low | price-high"
// @Success 200 {object} dto.ProductListResponse
// @Router /products [get]
func (h *ProductHandler) ListPublic(c *gin.Context) {
	var query dto.ProductListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.productService.ListPublic(c.Request.Context(), h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, withPage(gin.H{"products": resp.Products}, resp.PageMeta))
}

func (h *ProductHandler) GetBySlug(c *gin.Context) {
	slug, ok := PathParam(c, "slug")
	if !ok {
		return
	}

	product, err := h.productService.GetPublicBySlug(c.Request.Context(), h.GetDB(c), slug)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"product": product})
}

// --- Админка ---

func (h *ProductHandler) AdminList(c *gin.Context) {
	var query dto.AdminProductListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.productService.AdminList(c.Request.Context(), h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, withPage(gin.H{"products": resp.Products}, resp.PageMeta))
}

func (h *ProductHandler) AdminGet(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.AdminGet(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"product": product})
}

// Create godoc
// @Summary Создание товара
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProductRequest true "Товар"
// @Success 201 {object} dto.ProductResponse
// @Router /admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusCreated, gin.H{"product": product})
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), h.GetDB(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"product": product})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"message": "Product deleted"})
}

func (h *ProductHandler) Export(c *gin.Context) {
	ctx, db := c.Request.Context(), h.GetDB(c)
	h.SendSpreadsheet(c, "products", func(w io.Writer) error {
		return h.productService.Export(ctx, db, w)
	})
}
