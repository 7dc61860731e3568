package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/internal/testutil"
	"storefront_backend/pkg/apperrors"
)

type catalogFixture struct {
	db         *gorm.DB
	products   ProductService
	categories CategoryService
	filters    FilterAttributeService
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	f := &catalogFixture{
		db:         testutil.NewTestDB(t),
		categories: NewCategoryService(repositories.NewCategoryRepository()),
		filters:    NewFilterAttributeService(repositories.NewFilterAttributeRepository()),
		products: NewProductService(
			repositories.NewProductRepository(),
			repositories.NewCategoryRepository(),
			repositories.NewFilterAttributeRepository(),
		),
	}
	f.seedVocabulary(t, "Purposes", "Health", "Wealth", "Protection")
	f.seedVocabulary(t, "Beads", "Rudraksha", "Sphatik")
	return f
}

func (f *catalogFixture) seedVocabulary(t *testing.T, category string, values ...string) {
	t.Helper()
	ctx := context.Background()
	cat, err := f.filters.CreateCategory(ctx, f.db, &dto.CreateFilterCategoryRequest{Name: category})
	require.NoError(t, err)
	for _, v := range values {
		_, err := f.filters.CreateAttribute(ctx, f.db, &dto.CreateFilterAttributeRequest{CategoryID: cat.ID, Name: v})
		require.NoError(t, err)
	}
}

func (f *catalogFixture) category(t *testing.T, name string) *dto.CategoryResponse {
	t.Helper()
	cat, err := f.categories.Create(context.Background(), f.db, &dto.CreateCategoryRequest{Name: name})
	require.NoError(t, err)
	return cat
}

func (f *catalogFixture) product(t *testing.T, req *dto.CreateProductRequest) *dto.ProductResponse {
	t.Helper()
	p, err := f.products.Create(context.Background(), f.db, req)
	require.NoError(t, err)
	return p
}

func TestCategoryService_SlugConflicts(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	malas := f.category(t, "Malas & Bracelets")
	assert.Equal(t, "malas-bracelets", malas.Slug)

	_, err := f.categories.Create(ctx, f.db, &dto.CreateCategoryRequest{Name: "Other", Slug: "malas-bracelets"})
	requireAppError(t, err, http.StatusConflict, msgCategorySlugTaken)

	sub, err := f.categories.CreateSubCategory(ctx, f.db, malas.ID, &dto.CreateSubCategoryRequest{Name: "Japa Malas"})
	require.NoError(t, err)
	assert.Equal(t, malas.ID, sub.ParentID)

	_, err = f.categories.CreateSubCategory(ctx, f.db, malas.ID, &dto.CreateSubCategoryRequest{Name: "Japa Malas"})
	requireAppError(t, err, http.StatusConflict, msgSubCategorySlugTaken)

	// тот же slug в другой категории разрешен
	yantras := f.category(t, "Yantras")
	_, err = f.categories.CreateSubCategory(ctx, f.db, yantras.ID, &dto.CreateSubCategoryRequest{Name: "Japa Malas"})
	require.NoError(t, err)

	_, err = f.categories.CreateSubCategory(ctx, f.db, "missing", &dto.CreateSubCategoryRequest{Name: "Orphan"})
	requireAppError(t, err, http.StatusNotFound, "Parent category not found.")
}

func TestCategoryService_DeleteBlockedByProducts(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Gemstones")
	p := f.product(t, &dto.CreateProductRequest{Name: "Ruby", CategoryID: cat.ID, Price: dec("1000")})

	err := f.categories.Delete(ctx, f.db, cat.ID)
	requireAppError(t, err, http.StatusConflict, "Category has products. Move or delete them first.")

	require.NoError(t, f.products.Delete(ctx, f.db, p.ID))
	require.NoError(t, f.categories.Delete(ctx, f.db, cat.ID))

	_, err = f.categories.AdminGet(ctx, f.db, cat.ID)
	requireAppError(t, err, http.StatusNotFound, "")
}

func TestProductService_Create(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	cat := f.category(t, "Rudraksha")

	p := f.product(t, &dto.CreateProductRequest{
		Name:          "Five Mukhi Rudraksha",
		CategoryID:    cat.ID,
		Price:         dec("1500"),
		DiscountPrice: dec("1200"),
		FilterAttributes: models.FacetMap{
			models.FacetPurposes: {"Health", "Health", "Protection"},
		},
	})
	assert.Equal(t, "five-mukhi-rudraksha", p.Slug)
	assert.Equal(t, string(models.ProductStatusActive), p.Status)
	assert.True(t, p.IsVisible)
	assert.Equal(t, 1200.0, p.Price)
	assert.Equal(t, 1500.0, p.OriginalPrice)
	require.NotNil(t, p.DiscountPrice)
	assert.ElementsMatch(t, []string{"Health", "Protection"}, p.FilterAttributes[models.FacetPurposes])

	t.Run("slug conflict", func(t *testing.T) {
		_, err := f.products.Create(ctx, f.db, &dto.CreateProductRequest{Name: "Five Mukhi Rudraksha", CategoryID: cat.ID, Price: dec("10")})
		requireAppError(t, err, http.StatusConflict, "A product with this slug already exists.")
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := f.products.Create(ctx, f.db, &dto.CreateProductRequest{Name: "Stray", CategoryID: "nope", Price: dec("10")})
		requireAppError(t, err, http.StatusNotFound, "Category not found.")
	})

	t.Run("foreign subcategory", func(t *testing.T) {
		other := f.category(t, "Yantras")
		sub, err := f.categories.CreateSubCategory(ctx, f.db, other.ID, &dto.CreateSubCategoryRequest{Name: "Copper"})
		require.NoError(t, err)

		_, err = f.products.Create(ctx, f.db, &dto.CreateProductRequest{Name: "Mismatch", CategoryID: cat.ID, SubCategoryID: &sub.ID, Price: dec("10")})
		requireAppError(t, err, http.StatusBadRequest, "Subcategory does not belong to the selected category.")
	})

	t.Run("sub-subcategory without subcategory", func(t *testing.T) {
		id := "anything"
		_, err := f.products.Create(ctx, f.db, &dto.CreateProductRequest{Name: "Deep", CategoryID: cat.ID, SubSubCategoryID: &id, Price: dec("10")})
		requireAppError(t, err, http.StatusBadRequest, "Sub-subcategory requires a subcategory.")
	})

	t.Run("value outside vocabulary", func(t *testing.T) {
		_, err := f.products.Create(ctx, f.db, &dto.CreateProductRequest{
			Name:       "Lucky Charm",
			CategoryID: cat.ID,
			Price:      dec("10"),
			FilterAttributes: models.FacetMap{
				models.FacetPurposes: {"Luck"},
			},
		})
		requireAppError(t, err, http.StatusBadRequest, "")
		appErr, _ := apperrors.AsAppError(err)
		details, ok := appErr.Details.(map[string]string)
		require.True(t, ok, "details: %#v", appErr.Details)
		assert.Contains(t, details, "filterAttributes.purposes")
	})
}

func TestProductService_UpdatePatch(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	cat := f.category(t, "Bracelets")

	p := f.product(t, &dto.CreateProductRequest{
		Name:          "Tiger Eye Bracelet",
		CategoryID:    cat.ID,
		Price:         dec("800"),
		DiscountPrice: dec("650"),
		FilterAttributes: models.FacetMap{
			models.FacetBeads: {"Rudraksha"},
		},
	})

	// отсутствующие поля не трогаются
	name := "Tiger Eye Bracelet XL"
	updated, err := f.products.Update(ctx, f.db, p.ID, &dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, 650.0, updated.Price)
	assert.Equal(t, []string{"Rudraksha"}, updated.FilterAttributes[models.FacetBeads])

	// явный null снимает скидку
	updated, err = f.products.Update(ctx, f.db, p.ID, &dto.UpdateProductRequest{
		DiscountPrice: dto.Nullable[decimal.Decimal]{Set: true},
	})
	require.NoError(t, err)
	assert.Nil(t, updated.DiscountPrice)
	assert.Equal(t, 800.0, updated.Price)

	updated, err = f.products.Update(ctx, f.db, p.ID, &dto.UpdateProductRequest{
		DiscountPrice:    dto.NullableOf(decimal.RequireFromString("700")),
		FilterAttributes: models.FacetMap{models.FacetBeads: {"Sphatik"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 700.0, updated.Price)
	assert.Equal(t, []string{"Sphatik"}, updated.FilterAttributes[models.FacetBeads])

	_, err = f.products.Update(ctx, f.db, "missing", &dto.UpdateProductRequest{Name: &name})
	requireAppError(t, err, http.StatusNotFound, "Product not found")
}

func TestProductService_ListPublicFacets(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	cat := f.category(t, "Rudraksha")

	f.product(t, &dto.CreateProductRequest{
		Name: "Healing Mala", CategoryID: cat.ID, Price: dec("100"),
		FilterAttributes: models.FacetMap{models.FacetPurposes: {"Health"}, models.FacetBeads: {"Rudraksha"}},
	})
	f.product(t, &dto.CreateProductRequest{
		Name: "Wealth Mala", CategoryID: cat.ID, Price: dec("200"),
		FilterAttributes: models.FacetMap{models.FacetPurposes: {"Wealth"}, models.FacetBeads: {"Sphatik"}},
	})
	hidden := false
	f.product(t, &dto.CreateProductRequest{
		Name: "Hidden Mala", CategoryID: cat.ID, Price: dec("300"), IsVisible: &hidden,
		FilterAttributes: models.FacetMap{models.FacetPurposes: {"Health"}},
	})

	names := func(q dto.ProductListQuery) []string {
		t.Helper()
		resp, err := f.products.ListPublic(ctx, f.db, &q)
		require.NoError(t, err)
		out := make([]string, 0, len(resp.Products))
		for _, p := range resp.Products {
			out = append(out, p.Name)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"Healing Mala", "Wealth Mala"}, names(dto.ProductListQuery{}))
	// внутри группы - OR
	assert.ElementsMatch(t, []string{"Healing Mala", "Wealth Mala"}, names(dto.ProductListQuery{Purposes: "Health,Wealth"}))
	// между группами - AND
	assert.Empty(t, names(dto.ProductListQuery{Purposes: "Health", Beads: "Sphatik"}))
	assert.Equal(t, []string{"Wealth Mala"}, names(dto.ProductListQuery{Purposes: "Wealth", Beads: "Sphatik"}))

	assert.Equal(t, []string{"Wealth Mala"}, names(dto.ProductListQuery{MinPrice: "150"}))
	assert.Equal(t, []string{"Healing Mala", "Wealth Mala"}, names(dto.ProductListQuery{Sort: "price-low"}))
	assert.Equal(t, []string{"Wealth Mala", "Healing Mala"}, names(dto.ProductListQuery{Sort: "price-high"}))
	assert.Equal(t, []string{"Healing Mala"}, names(dto.ProductListQuery{Search: "heal"}))

	_, err := f.products.GetPublicBySlug(ctx, f.db, "hidden-mala")
	requireAppError(t, err, http.StatusNotFound, "")
}

func TestFilterAttributeService_DuplicateCategory(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	_, err := f.filters.CreateCategory(ctx, f.db, &dto.CreateFilterCategoryRequest{Name: "purposes"})
	requireAppError(t, err, http.StatusConflict, msgFilterCategoryTaken)

	_, err = f.filters.CreateAttribute(ctx, f.db, &dto.CreateFilterAttributeRequest{CategoryID: "missing", Name: "X"})
	requireAppError(t, err, http.StatusNotFound, "Filter attribute category not found.")

	cats, err := f.filters.ListCategories(ctx, f.db)
	require.NoError(t, err)
	require.Len(t, cats, 2)
}
