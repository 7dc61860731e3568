package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/internal/testutil"
)

func strRef(s string) *string { return &s }

func TestBlogService_PublishLifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	clock := &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := &blogService{blogRepo: repositories.NewBlogRepository(), now: clock.Now}

	draft, err := svc.Create(ctx, db, &dto.CreateBlogPostRequest{
		Title:    "Choosing Your First Rudraksha",
		Content:  strRef("<p>Start with five mukhi.</p>"),
		Category: strRef("rudraksha"),
		Tags:     dto.TagList{"beginners", "guide"},
	})
	require.NoError(t, err)
	assert.Equal(t, "choosing-your-first-rudraksha", draft.Slug)
	assert.Equal(t, "draft", draft.Status)
	assert.Nil(t, draft.PublishedAt)

	_, err = svc.Create(ctx, db, &dto.CreateBlogPostRequest{Title: "Choosing your first Rudraksha"})
	requireAppError(t, err, http.StatusConflict, msgBlogSlugTaken)

	// черновик не виден на витрине
	_, err = svc.GetPublicBySlug(ctx, db, draft.Slug)
	requireAppError(t, err, http.StatusNotFound, "Blog post not found")

	published, err := svc.Update(ctx, db, draft.ID, &dto.UpdateBlogPostRequest{Status: strRef("published")})
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	assert.Equal(t, "2026-03-01T12:00:00.000Z", *published.PublishedAt)
	assert.Equal(t, "2026-03-01", published.Date)

	// повторная публикация не сдвигает дату
	clock.Advance(48 * time.Hour)
	again, err := svc.Update(ctx, db, draft.ID, &dto.UpdateBlogPostRequest{Status: strRef("published"), Title: strRef("Your First Rudraksha")})
	require.NoError(t, err)
	assert.Equal(t, *published.PublishedAt, *again.PublishedAt)
	assert.Equal(t, "Your First Rudraksha", again.Title)

	first, err := svc.GetPublicBySlug(ctx, db, draft.Slug)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Views)
	second, err := svc.GetPublicBySlug(ctx, db, draft.Slug)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Views)

	list, err := svc.ListPublic(ctx, db, &dto.BlogListQuery{Category: "all"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)

	list, err = svc.ListPublic(ctx, db, &dto.BlogListQuery{Category: "yantra"})
	require.NoError(t, err)
	assert.Empty(t, list.BlogPosts)

	unpublished, err := svc.Update(ctx, db, draft.ID, &dto.UpdateBlogPostRequest{Status: strRef("draft")})
	require.NoError(t, err)
	assert.Nil(t, unpublished.PublishedAt)

	require.NoError(t, svc.Delete(ctx, db, draft.ID))
	err = svc.Delete(ctx, db, draft.ID)
	requireAppError(t, err, http.StatusNotFound, "Blog post not found")
}

func TestBlogService_CreatePublished(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewBlogService(repositories.NewBlogRepository())

	post, err := svc.Create(context.Background(), db, &dto.CreateBlogPostRequest{Title: "Yantra Basics", Status: "published"})
	require.NoError(t, err)
	assert.Equal(t, "published", post.Status)
	assert.NotNil(t, post.PublishedAt)
}

func TestPageService_Upsert(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewPageService(repositories.NewPageRepository())

	_, err := svc.Upsert(ctx, db, "  ", &dto.UpsertPageRequest{})
	requireAppError(t, err, http.StatusBadRequest, "Content key is required")

	_, err = svc.GetPublished(ctx, db, "about")
	requireAppError(t, err, http.StatusNotFound, "Content not found")

	created, err := svc.Upsert(ctx, db, "about", &dto.UpsertPageRequest{
		Content: json.RawMessage(`{"hero":"Our story"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "about", created.Title, "title defaults to key")
	assert.Equal(t, "published", created.Status)

	// частичное обновление сохраняет контент
	updated, err := svc.Upsert(ctx, db, "about", &dto.UpsertPageRequest{Title: strRef("About Us")})
	require.NoError(t, err)
	assert.Equal(t, "About Us", updated.Title)
	assert.JSONEq(t, `{"hero":"Our story"}`, string(updated.Content))

	public, err := svc.GetPublished(ctx, db, "about")
	require.NoError(t, err)
	assert.Equal(t, created.ID, public.ID)

	_, err = svc.Upsert(ctx, db, "about", &dto.UpsertPageRequest{Status: "draft"})
	require.NoError(t, err)
	_, err = svc.GetPublished(ctx, db, "about")
	requireAppError(t, err, http.StatusNotFound, "Content not found")

	adminView, err := svc.AdminGet(ctx, db, "about")
	require.NoError(t, err)
	assert.Equal(t, "draft", adminView.Status)

	pages, err := svc.AdminList(ctx, db)
	require.NoError(t, err)
	assert.Len(t, pages, 1)
}
