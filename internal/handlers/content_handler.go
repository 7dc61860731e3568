package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_backend/internal/middleware"
	"storefront_backend/internal/services"
	"storefront_backend/internal/services/dto"
)

// ContentHandler - блог и CMS-страницы
type ContentHandler struct {
	*BaseHandler
	blogService services.BlogService
	pageService services.PageService
}

func NewContentHandler(base *BaseHandler, blogService services.BlogService, pageService services.PageService) *ContentHandler {
	return &ContentHandler{
		BaseHandler: base,
		blogService: blogService,
		pageService: pageService,
	}
}

func (h *ContentHandler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.AuthMiddleware) {
	blogs := rg.Group("/blogs")
	{
		blogs.GET("", h.ListPosts)
		blogs.GET("/:slug", h.GetPostBySlug)
	}
	rg.GET("/content/:key", h.GetPage)

	adminBlogs := rg.Group("/admin/blogs", guard.Admin())
	{
		adminBlogs.GET("", h.AdminListPosts)
		adminBlogs.GET("/:id", h.AdminGetPost)
		adminBlogs.POST("", h.CreatePost)
		adminBlogs.PUT("/:id", h.UpdatePost)
		adminBlogs.DELETE("/:id", h.DeletePost)
	}

	adminContent := rg.Group("/admin/content", guard.Admin())
	{
		adminContent.GET("", h.AdminListPages)
		adminContent.GET("/:key", h.AdminGetPage)
		adminContent.PUT("/:key", h.UpsertPage)
	}
}

// =======================
// Блог
// =======================

// ListPosts godoc
// @Summary Опубликованные статьи блога
// @Tags blogs
// @Produce json
// @Param category query string false "Категория или all"
// @Success 200 {object} dto.BlogListResponse
// @Router /blogs [get]
func (h *ContentHandler) ListPosts(c *gin.Context) {
	var query dto.BlogListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.blogService.ListPublic(c.Request.Context(), h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, withPage(gin.H{"blogPosts": resp.BlogPosts}, resp.PageMeta))
}

func (h *ContentHandler) GetPostBySlug(c *gin.Context) {
	slug, ok := PathParam(c, "slug")
	if !ok {
		return
	}

	post, err := h.blogService.GetPublicBySlug(c.Request.Context(), h.GetDB(c), slug)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"blogPost": post})
}

func (h *ContentHandler) AdminListPosts(c *gin.Context) {
	var query dto.AdminBlogListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.blogService.AdminList(c.Request.Context(), h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, withPage(gin.H{"blogPosts": resp.BlogPosts}, resp.PageMeta))
}

func (h *ContentHandler) AdminGetPost(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}

	post, err := h.blogService.AdminGet(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"blogPost": post})
}

func (h *ContentHandler) CreatePost(c *gin.Context) {
	var req dto.CreateBlogPostRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	post, err := h.blogService.Create(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusCreated, gin.H{"blogPost": post})
}

func (h *ContentHandler) UpdatePost(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBlogPostRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	post, err := h.blogService.Update(c.Request.Context(), h.GetDB(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"blogPost": post})
}

func (h *ContentHandler) DeletePost(c *gin.Context) {
	id, ok := PathParam(c, "id")
	if !ok {
		return
	}

	if err := h.blogService.Delete(c.Request.Context(), h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"message": "Blog post deleted"})
}

// =======================
// CMS-страницы
// =======================

func (h *ContentHandler) GetPage(c *gin.Context) {
	key, ok := PathParam(c, "key")
	if !ok {
		return
	}

	page, err := h.pageService.GetPublished(c.Request.Context(), h.GetDB(c), key)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"page": page})
}

func (h *ContentHandler) AdminListPages(c *gin.Context) {
	pages, err := h.pageService.AdminList(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"pages": pages})
}

func (h *ContentHandler) AdminGetPage(c *gin.Context) {
	key, ok := PathParam(c, "key")
	if !ok {
		return
	}

	page, err := h.pageService.AdminGet(c.Request.Context(), h.GetDB(c), key)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"page": page})
}

// UpsertPage godoc
// @Summary Создание или обновление CMS-страницы
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Ключ страницы"
// @Param request body dto.UpsertPageRequest true "Заголовок, контент, статус"
// @Success 200 {object} dto.PageResponse
// @Router /admin/content/{key} [put]
func (h *ContentHandler) UpsertPage(c *gin.Context) {
	key, ok := PathParam(c, "key")
	if !ok {
		return
	}
	var req dto.UpsertPageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	page, err := h.pageService.Upsert(c.Request.Context(), h.GetDB(c), key, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	OK(c, http.StatusOK, gin.H{"page": page})
}
