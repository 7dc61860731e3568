package repositories_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/testutil"
)

func createCategory(t *testing.T, db *gorm.DB, slug string) *models.Category {
	t.Helper()
	category := &models.Category{Slug: slug, Name: slug, Status: models.CategoryStatusActive, Type: models.CategoryTypeMain}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createProduct(t *testing.T, db *gorm.DB, categoryID, slug string, price, discount float64, facets models.FacetMap) *models.Product {
	t.Helper()
	product := &models.Product{
		Slug:       slug,
		Name:       slug,
		CategoryID: categoryID,
		Price:      decimal.NewFromFloat(price),
		Status:     models.ProductStatusActive,
		IsVisible:  true,
	}
	if discount > 0 {
		d := decimal.NewFromFloat(discount)
		product.DiscountPrice = &d
	}
	for key, values := range facets {
		for _, v := range values {
			product.Facets = append(product.Facets, models.ProductFacet{FacetKey: key, Value: v})
		}
	}
	require.NoError(t, repositories.NewProductRepository().Create(db, product))
	return product
}

func slugs(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Slug)
	}
	return out
}

func TestProductRepository_FacetFilter(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewProductRepository()
	category := createCategory(t, db, "rudraksha")

	createProduct(t, db, category.ID, "health-peace", 100, 0, models.FacetMap{
		models.FacetPurposes: {"Health", "Peace"},
		models.FacetBeads:    {"Rudraksha"},
	})
	createProduct(t, db, category.ID, "peace-only", 100, 0, models.FacetMap{
		models.FacetPurposes: {"Peace"},
		models.FacetBeads:    {"Crystal"},
	})
	createProduct(t, db, category.ID, "no-facets", 100, 0, nil)

	t.Run("OR внутри группы", func(t *testing.T) {
		products, total, err := repo.List(db, repositories.ProductFilter{
			Facets: models.FacetMap{models.FacetPurposes: {"Peace"}},
		})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.ElementsMatch(t, []string{"health-peace", "peace-only"}, slugs(products))
	})

	t.Run("значение не совпадает", func(t *testing.T) {
		_, total, err := repo.List(db, repositories.ProductFilter{
			Facets: models.FacetMap{models.FacetPurposes: {"Wealth"}},
		})
		require.NoError(t, err)
		assert.EqualValues(t, 0, total)
	})

	t.Run("AND между группами", func(t *testing.T) {
		products, total, err := repo.List(db, repositories.ProductFilter{
			Facets: models.FacetMap{
				models.FacetPurposes: {"Peace"},
				models.FacetBeads:    {"Rudraksha"},
			},
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, []string{"health-peace"}, slugs(products))
	})
}

func TestProductRepository_PriceFilterAndSort(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewProductRepository()
	category := createCategory(t, db, "malas")

	createProduct(t, db, category.ID, "cheap", 50, 0, nil)
	createProduct(t, db, category.ID, "discounted", 500, 30, nil)
	createProduct(t, db, category.ID, "expensive", 400, 0, nil)

	products, _, err := repo.List(db, repositories.ProductFilter{Sort: repositories.SortPriceLow})
	require.NoError(t, err)
	assert.Equal(t, []string{"discounted", "cheap", "expensive"}, slugs(products))

	products, _, err = repo.List(db, repositories.ProductFilter{Sort: repositories.SortPriceHigh})
	require.NoError(t, err)
	assert.Equal(t, []string{"expensive", "cheap", "discounted"}, slugs(products))

	max := decimal.NewFromInt(60)
	products, total, err := repo.List(db, repositories.ProductFilter{MaxPrice: &max})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.ElementsMatch(t, []string{"cheap", "discounted"}, slugs(products))
}

func TestProductRepository_PublicScopeAndSearch(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewProductRepository()
	category := createCategory(t, db, "yantra")
	other := createCategory(t, db, "crystals")

	createProduct(t, db, category.ID, "shri-yantra", 10, 0, nil)
	hidden := createProduct(t, db, category.ID, "hidden-yantra", 10, 0, nil)
	require.NoError(t, repo.Update(db, hidden.ID, map[string]interface{}{"is_visible": false}))
	createProduct(t, db, other.ID, "amethyst", 10, 0, nil)

	products, total, err := repo.List(db, repositories.ProductFilter{
		Status:       models.ProductStatusActive,
		VisibleOnly:  true,
		CategorySlug: "yantra",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, []string{"shri-yantra"}, slugs(products))

	products, _, err = repo.List(db, repositories.ProductFilter{Search: "AMETH"})
	require.NoError(t, err)
	assert.Equal(t, []string{"amethyst"}, slugs(products))

	_, err = repo.FindBySlug(db, "hidden-yantra", true)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	found, err := repo.FindBySlug(db, "hidden-yantra", false)
	require.NoError(t, err)
	assert.False(t, found.IsVisible)
}

func TestProductRepository_ReplaceFacetsAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewProductRepository()
	category := createCategory(t, db, "bracelets")
	product := createProduct(t, db, category.ID, "bracelet", 10, 0, models.FacetMap{
		models.FacetPlatings: {"Gold"},
	})

	require.NoError(t, repo.ReplaceFacets(db, product.ID, []models.ProductFacet{
		{FacetKey: models.FacetPlatings, Value: "Silver"},
		{FacetKey: models.FacetMukhis, Value: "5 Mukhi"},
	}))

	found, err := repo.FindByID(db, product.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FacetMap{
		models.FacetPlatings: {"Silver"},
		models.FacetMukhis:   {"5 Mukhi"},
	}, found.FacetMap())

	user := testutil.CreateUser(t, db, "buyer@example.com", "secret1", true)
	require.NoError(t, repositories.NewWishlistRepository().Add(db, user.ID, product.ID))

	require.NoError(t, repo.Delete(db, product.ID))

	var facets, wishlist int64
	db.Model(&models.ProductFacet{}).Where("product_id = ?", product.ID).Count(&facets)
	db.Model(&models.WishlistItem{}).Where("product_id = ?", product.ID).Count(&wishlist)
	assert.Zero(t, facets)
	assert.Zero(t, wishlist)

	assert.ErrorIs(t, repo.Delete(db, product.ID), repositories.ErrProductNotFound)
}
