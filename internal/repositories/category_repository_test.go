package repositories_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/testutil"
)

func TestCategoryRepository_SubCategorySlugScopedToParent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewCategoryRepository()

	first := createCategory(t, db, "rudraksha")
	second := createCategory(t, db, "gemstones")

	beads := &models.SubCategory{ParentID: first.ID, Slug: "beads", Name: "Beads", Status: models.CategoryStatusActive}
	require.NoError(t, repo.CreateSubCategory(db, beads))
	malas := &models.SubCategory{ParentID: first.ID, Slug: "malas", Name: "Malas", Status: models.CategoryStatusActive}
	require.NoError(t, repo.CreateSubCategory(db, malas))

	taken, err := repo.SubCategorySlugExists(db, first.ID, "beads", malas.ID)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.SubCategorySlugExists(db, second.ID, "beads", "")
	require.NoError(t, err)
	assert.False(t, taken)

	// уникальный индекс (parent_id, slug) страхует проверку
	err = repo.CreateSubCategory(db, &models.SubCategory{ParentID: first.ID, Slug: "beads", Name: "Dup"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	require.NoError(t, repo.CreateSubCategory(db, &models.SubCategory{ParentID: second.ID, Slug: "beads", Name: "Beads"}))
}

func TestCategoryRepository_ListWithActiveChildren(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewCategoryRepository()

	category := createCategory(t, db, "yantra")
	require.NoError(t, repo.CreateSubCategory(db, &models.SubCategory{ParentID: category.ID, Slug: "active", Name: "A", Status: models.CategoryStatusActive}))
	require.NoError(t, repo.CreateSubCategory(db, &models.SubCategory{ParentID: category.ID, Slug: "off", Name: "B", Status: models.CategoryStatusInactive}))

	categories, err := repo.ListCategories(db, repositories.CategoryFilter{
		Status:             models.CategoryStatusActive,
		WithChildren:       true,
		ActiveChildrenOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, categories, 1)
	require.Len(t, categories[0].SubCategories, 1)
	assert.Equal(t, "active", categories[0].SubCategories[0].Slug)

	_, err = repo.FindCategoryBySlug(db, "missing", true)
	assert.ErrorIs(t, err, repositories.ErrCategoryNotFound)
}

func TestCategoryRepository_ThreeLevelTreeWithProduct(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewCategoryRepository()

	category := createCategory(t, db, "malas")
	sub := &models.SubCategory{ParentID: category.ID, Slug: "japa", Name: "Japa", Status: models.CategoryStatusActive}
	require.NoError(t, repo.CreateSubCategory(db, sub))
	subSub := &models.SubSubCategory{ParentID: sub.ID, Slug: "108-beads", Name: "108 Beads", Status: models.CategoryStatusActive}
	require.NoError(t, repo.CreateSubSubCategory(db, subSub))

	product := &models.Product{
		Slug:             "japa-mala",
		Name:             "Japa Mala",
		CategoryID:       category.ID,
		SubCategoryID:    &sub.ID,
		SubSubCategoryID: &subSub.ID,
		Price:            decimal.NewFromInt(900),
		Status:           models.ProductStatusActive,
		IsVisible:        true,
	}
	require.NoError(t, repositories.NewProductRepository().Create(db, product))

	stored, err := repositories.NewProductRepository().FindByID(db, product.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.SubCategory)
	assert.Equal(t, "japa", stored.SubCategory.Slug)

	found, err := repo.FindSubCategoryByID(db, sub.ID)
	require.NoError(t, err)
	require.Len(t, found.SubSubCategories, 1)
	assert.Equal(t, subSub.ID, found.SubSubCategories[0].ID)

	// внешний ключ sub_categories указывает только на categories
	var ddl string
	require.NoError(t, db.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'sub_categories'").Scan(&ddl).Error)
	require.NotEmpty(t, ddl)
	assert.NotContains(t, ddl, "sub_sub_categories")
}
