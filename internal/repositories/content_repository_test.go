package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/testutil"
)

func TestPageRepository_Upsert(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewPageRepository()

	page := &models.Page{Slug: "about", Title: "About", Content: datatypes.JSON(`{"hero":"v1"}`), Status: models.PublishStatusDraft}
	require.NoError(t, repo.Upsert(db, page))
	firstID := page.ID

	_, err := repo.FindBySlug(db, "about", true)
	assert.ErrorIs(t, err, repositories.ErrPageNotFound)

	updated := &models.Page{Slug: "about", Title: "About us", Content: datatypes.JSON(`{"hero":"v2"}`), Status: models.PublishStatusPublished}
	require.NoError(t, repo.Upsert(db, updated))
	assert.Equal(t, firstID, updated.ID)

	found, err := repo.FindBySlug(db, "about", true)
	require.NoError(t, err)
	assert.Equal(t, "About us", found.Title)
	assert.JSONEq(t, `{"hero":"v2"}`, string(found.Content))

	pages, err := repo.List(db)
	require.NoError(t, err)
	assert.Len(t, pages, 1)
}

func TestBlogRepository_PublishedListAndViews(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewBlogRepository()

	category := models.BlogCategoryMeditation
	published := &models.BlogPost{Slug: "breath", Title: "Breath", Status: models.PublishStatusPublished, Category: &category}
	draft := &models.BlogPost{Slug: "draft", Title: "Draft", Status: models.PublishStatusDraft, Category: &category}
	require.NoError(t, repo.Create(db, published))
	require.NoError(t, repo.Create(db, draft))

	posts, total, err := repo.List(db, repositories.BlogFilter{PublishedOnly: true, Category: category, Limit: 12})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "breath", posts[0].Slug)

	require.NoError(t, repo.IncrementViews(db, published.ID))
	require.NoError(t, repo.IncrementViews(db, published.ID))

	found, err := repo.FindBySlug(db, "breath", true)
	require.NoError(t, err)
	assert.Equal(t, 2, found.Views)

	_, err = repo.FindBySlug(db, "draft", true)
	assert.ErrorIs(t, err, repositories.ErrBlogNotFound)
}
