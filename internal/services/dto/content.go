package dto

import (
	"encoding/json"
	"strings"
)

// =======================
// Блог
// =======================

type BlogListQuery struct {
	Category string `form:"category" validate:"omitempty,max=30"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

type AdminBlogListQuery struct {
	Status   string `form:"status" validate:"omitempty,is-publish-status"`
	Category string `form:"category" validate:"omitempty,max=30"`
	Search   string `form:"search" validate:"max=200"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

// TagList - массив строк или строка через запятую
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = cleanTags(list)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = cleanTags(strings.Split(s, ","))
	return nil
}

func cleanTags(in []string) TagList {
	out := make(TagList, 0, len(in))
	for _, tag := range in {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

type CreateBlogPostRequest struct {
	Title        string  `json:"title" validate:"required,min=1,max=300"`
	Slug         string  `json:"slug" validate:"omitempty,max=300,is-slug"`
	Excerpt      *string `json:"excerpt" validate:"omitempty,max=1000"`
	Content      *string `json:"content"`
	Image        *string `json:"image" validate:"omitempty,max=2000"`
	AuthorName   *string `json:"authorName" validate:"omitempty,max=120"`
	AuthorAvatar *string `json:"authorAvatar" validate:"omitempty,max=2000"`
	AuthorRole   *string `json:"authorRole" validate:"omitempty,max=120"`
	Category     *string `json:"category" validate:"omitempty,is-blog-category"`
	Tags         TagList `json:"tags"`
	ReadTime     *string `json:"readTime" validate:"omitempty,max=50"`
	IsMustRead   bool    `json:"isMustRead"`
	IsPopular    bool    `json:"isPopular"`
	IsFeatured   bool    `json:"isFeatured"`
	Status       string  `json:"status" validate:"omitempty,is-publish-status"`
	SortOrder    *int    `json:"sortOrder" validate:"omitempty,min=0"`
}

type UpdateBlogPostRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=1,max=300"`
	Slug         *string  `json:"slug" validate:"omitempty,max=300,is-slug"`
	Excerpt      *string  `json:"excerpt" validate:"omitempty,max=1000"`
	Content      *string  `json:"content"`
	Image        *string  `json:"image" validate:"omitempty,max=2000"`
	AuthorName   *string  `json:"authorName" validate:"omitempty,max=120"`
	AuthorAvatar *string  `json:"authorAvatar" validate:"omitempty,max=2000"`
	AuthorRole   *string  `json:"authorRole" validate:"omitempty,max=120"`
	Category     *string  `json:"category" validate:"omitempty,is-blog-category"`
	Tags         *TagList `json:"tags"`
	ReadTime     *string  `json:"readTime" validate:"omitempty,max=50"`
	IsMustRead   *bool    `json:"isMustRead"`
	IsPopular    *bool    `json:"isPopular"`
	IsFeatured   *bool    `json:"isFeatured"`
	Status       *string  `json:"status" validate:"omitempty,is-publish-status"`
	SortOrder    *int     `json:"sortOrder" validate:"omitempty,min=0"`
}

type BlogAuthor struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
	Role   *string `json:"role"`
}

type BlogPostResponse struct {
	ID           string      `json:"id"`
	Slug         string      `json:"slug"`
	Title        string      `json:"title"`
	Excerpt      *string     `json:"excerpt"`
	Content      *string     `json:"content"`
	Image        *string     `json:"image"`
	Author       *BlogAuthor `json:"author"`
	AuthorName   *string     `json:"authorName"`
	AuthorAvatar *string     `json:"authorAvatar"`
	AuthorRole   *string     `json:"authorRole"`
	Date         string      `json:"date"`
	ReadTime     *string     `json:"readTime"`
	Category     *string     `json:"category"`
	Tags         []string    `json:"tags"`
	IsMustRead   bool        `json:"isMustRead"`
	IsPopular    bool        `json:"isPopular"`
	IsFeatured   bool        `json:"isFeatured"`
	Views        int         `json:"views"`
	Status       string      `json:"status"`
	PublishedAt  *string     `json:"publishedAt"`
	SortOrder    int         `json:"sortOrder"`
	CreatedAt    string      `json:"createdAt"`
	UpdatedAt    string      `json:"updatedAt"`
}

type BlogListResponse struct {
	BlogPosts []*BlogPostResponse `json:"blogPosts"`
	PageMeta
}

// =======================
// CMS-страницы
// =======================

type UpsertPageRequest struct {
	Title   *string         `json:"title" validate:"omitempty,max=300"`
	Content json.RawMessage `json:"content"`
	Status  string          `json:"status" validate:"omitempty,is-publish-status"`
}

type PageResponse struct {
	ID        string          `json:"id"`
	Key       string          `json:"key"`
	Title     string          `json:"title"`
	Content   json.RawMessage `json:"content"`
	Status    string          `json:"status"`
	UpdatedAt string          `json:"updatedAt"`
}
