package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"
)

const (
	publicBlogLimit = 12
	adminBlogLimit  = 50
	maxBlogLimit    = 100

	msgBlogSlugTaken = "A blog post with this slug already exists."
)

type BlogService interface {
	ListPublic(ctx context.Context, db *gorm.DB, query *dto.BlogListQuery) (*dto.BlogListResponse, error)
	// GetPublicBySlug отдает опубликованный пост и увеличивает счетчик просмотров
	GetPublicBySlug(ctx context.Context, db *gorm.DB, slug string) (*dto.BlogPostResponse, error)

	AdminList(ctx context.Context, db *gorm.DB, query *dto.AdminBlogListQuery) (*dto.BlogListResponse, error)
	AdminGet(ctx context.Context, db *gorm.DB, id string) (*dto.BlogPostResponse, error)
	Create(ctx context.Context, db *gorm.DB, req *dto.CreateBlogPostRequest) (*dto.BlogPostResponse, error)
	Update(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateBlogPostRequest) (*dto.BlogPostResponse, error)
	Delete(ctx context.Context, db *gorm.DB, id string) error
}

type blogService struct {
	blogRepo repositories.BlogRepository
	now      func() time.Time
}

func NewBlogService(blogRepo repositories.BlogRepository) BlogService {
	return &blogService{blogRepo: blogRepo, now: time.Now}
}

func blogNotFound(err error) error {
	if errors.Is(err, repositories.ErrBlogNotFound) {
		return apperrors.NewNotFoundError("blog", "Blog post not found")
	}
	return apperrors.InternalError(err)
}

// blogCategoryFilter - "all" и пустое значение означают "без фильтра"
func blogCategoryFilter(raw string) models.BlogCategory {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "all" {
		return ""
	}
	return models.BlogCategory(raw)
}

func toBlogPostResponses(posts []models.BlogPost) []*dto.BlogPostResponse {
	out := make([]*dto.BlogPostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, toBlogPostResponse(&posts[i]))
	}
	return out
}

func (s *blogService) ListPublic(ctx context.Context, db *gorm.DB, query *dto.BlogListQuery) (*dto.BlogListResponse, error) {
	page, limit, offset := pageParams(query.Page, query.Limit, publicBlogLimit, maxBlogLimit)

	posts, total, err := s.blogRepo.List(db, repositories.BlogFilter{
		Category:      blogCategoryFilter(query.Category),
		PublishedOnly: true,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.BlogListResponse{
		BlogPosts: toBlogPostResponses(posts),
		PageMeta:  dto.NewPageMeta(total, page, limit),
	}, nil
}

func (s *blogService) GetPublicBySlug(ctx context.Context, db *gorm.DB, slug string) (*dto.BlogPostResponse, error) {
	post, err := s.blogRepo.FindBySlug(db, strings.TrimSpace(slug), true)
	if err != nil {
		return nil, blogNotFound(err)
	}
	if err := s.blogRepo.IncrementViews(db, post.ID); err != nil {
		// просмотр не критичен для выдачи поста
		logger.CtxWithError(ctx, "Failed to increment blog views", err, "blog_id", post.ID)
	} else {
		post.Views++
	}
	return toBlogPostResponse(post), nil
}

func (s *blogService) AdminList(ctx context.Context, db *gorm.DB, query *dto.AdminBlogListQuery) (*dto.BlogListResponse, error) {
	page, limit, offset := pageParams(query.Page, query.Limit, adminBlogLimit, maxBlogLimit)

	posts, total, err := s.blogRepo.List(db, repositories.BlogFilter{
		Category: blogCategoryFilter(query.Category),
		Status:   models.PublishStatus(query.Status),
		Search:   strings.TrimSpace(query.Search),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.BlogListResponse{
		BlogPosts: toBlogPostResponses(posts),
		PageMeta:  dto.NewPageMeta(total, page, limit),
	}, nil
}

func (s *blogService) AdminGet(ctx context.Context, db *gorm.DB, id string) (*dto.BlogPostResponse, error) {
	post, err := s.blogRepo.FindByID(db, id)
	if err != nil {
		return nil, blogNotFound(err)
	}
	return toBlogPostResponse(post), nil
}

func (s *blogService) Create(ctx context.Context, db *gorm.DB, req *dto.CreateBlogPostRequest) (*dto.BlogPostResponse, error) {
	slug := slugOrName(req.Slug, req.Title)
	if slug == "" {
		return nil, apperrors.ValidationError(map[string]string{"slug": "could not be derived from title"})
	}

	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	taken, err := s.blogRepo.SlugExists(tx, slug, "")
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if taken {
		return nil, apperrors.ErrConflict(nil, "blog", msgBlogSlugTaken)
	}

	post := &models.BlogPost{
		Slug:         slug,
		Title:        strings.TrimSpace(req.Title),
		Excerpt:      optionalText(req.Excerpt),
		Content:      req.Content,
		Image:        optionalText(req.Image),
		AuthorName:   optionalText(req.AuthorName),
		AuthorAvatar: optionalText(req.AuthorAvatar),
		AuthorRole:   optionalText(req.AuthorRole),
		Tags:         datatypes.JSONSlice[string](nonNil(req.Tags)),
		ReadTime:     optionalText(req.ReadTime),
		IsMustRead:   req.IsMustRead,
		IsPopular:    req.IsPopular,
		IsFeatured:   req.IsFeatured,
		Status:       models.PublishStatusDraft,
		SortOrder:    orZero(req.SortOrder),
	}
	if c := optionalText(req.Category); c != nil {
		category := models.BlogCategory(*c)
		post.Category = &category
	}
	if req.Status == string(models.PublishStatusPublished) {
		publishedAt := s.now()
		post.Status = models.PublishStatusPublished
		post.PublishedAt = &publishedAt
	}

	if err := s.blogRepo.Create(tx, post); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrConflict(err, "blog", msgBlogSlugTaken)
		}
		return nil, apperrors.InternalError(err)
	}
	if err := commitTx(tx); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Blog post created", "blog_id", post.ID, "slug", slug, "status", post.Status)
	return toBlogPostResponse(post), nil
}

func (s *blogService) Update(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateBlogPostRequest) (*dto.BlogPostResponse, error) {
	tx, err := beginTx(db)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current, err := s.blogRepo.FindByID(tx, id)
	if err != nil {
		return nil, blogNotFound(err)
	}

	fields := map[string]interface{}{}
	if req.Slug != nil {
		if slug := strings.TrimSpace(*req.Slug); slug != "" && slug != current.Slug {
			taken, err := s.blogRepo.SlugExists(tx, slug, id)
			if err != nil {
				return nil, apperrors.InternalError(err)
			}
			if taken {
				return nil, apperrors.ErrConflict(nil, "blog", msgBlogSlugTaken)
			}
			fields["slug"] = slug
		}
	}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Excerpt != nil {
		fields["excerpt"] = patchText(*req.Excerpt)
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if req.Image != nil {
		fields["image"] = patchText(*req.Image)
	}
	if req.AuthorName != nil {
		fields["author_name"] = patchText(*req.AuthorName)
	}
	if req.AuthorAvatar != nil {
		fields["author_avatar"] = patchText(*req.AuthorAvatar)
	}
	if req.AuthorRole != nil {
		fields["author_role"] = patchText(*req.AuthorRole)
	}
	if req.Category != nil {
		fields["category"] = patchText(*req.Category)
	}
	if req.Tags != nil {
		fields["tags"] = datatypes.JSONSlice[string](nonNil(*req.Tags))
	}
	if req.ReadTime != nil {
		fields["read_time"] = patchText(*req.ReadTime)
	}
	if req.IsMustRead != nil {
		fields["is_must_read"] = *req.IsMustRead
	}
	if req.IsPopular != nil {
		fields["is_popular"] = *req.IsPopular
	}
	if req.IsFeatured != nil {
		fields["is_featured"] = *req.IsFeatured
	}
	if req.SortOrder != nil {
		fields["sort_order"] = *req.SortOrder
	}

	// publishedAt ставится один раз; возврат в черновик его сбрасывает
	if req.Status != nil {
		status := models.PublishStatus(*req.Status)
		fields["status"] = status
		switch {
		case status == models.PublishStatusPublished && current.PublishedAt == nil:
			fields["published_at"] = s.now()
		case status == models.PublishStatusDraft:
			fields["published_at"] = nil
		}
	}

	if err := s.blogRepo.Update(tx, id, fields); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrConflict(err, "blog", msgBlogSlugTaken)
		}
		return nil, blogNotFound(err)
	}
	if err := commitTx(tx); err != nil {
		return nil, err
	}
	return s.AdminGet(ctx, db, id)
}

func (s *blogService) Delete(ctx context.Context, db *gorm.DB, id string) error {
	if err := s.blogRepo.Delete(db, id); err != nil {
		return blogNotFound(err)
	}
	logger.CtxInfo(ctx, "Blog post deleted", "blog_id", id)
	return nil
}
