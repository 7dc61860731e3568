package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/testutil"
)

func TestAddressRepository_ClearDefault(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewAddressRepository()
	user := testutil.CreateUser(t, db, "addr@example.com", "secret1", true)
	other := testutil.CreateUser(t, db, "other@example.com", "secret1", true)

	newAddress := func(userID, slug string, isDefault bool) *models.Address {
		a := &models.Address{UserID: userID, Slug: slug, Name: "Home", Street: "1 Main", City: "Pune", State: "MH", Pincode: "411001", IsDefault: isDefault}
		require.NoError(t, repo.Create(db, a))
		return a
	}

	first := newAddress(user.ID, "addr-1", true)
	foreign := newAddress(other.ID, "addr-2", true)
	second := newAddress(user.ID, "addr-3", true)

	require.NoError(t, repo.ClearDefault(db, user.ID, second.ID))

	def, err := repo.FindDefault(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)

	reloaded, err := repo.FindByUser(db, user.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)

	otherDefault, err := repo.FindDefault(db, other.ID)
	require.NoError(t, err)
	assert.Equal(t, foreign.ID, otherDefault.ID)

	_, err = repo.FindByUser(db, other.ID, first.ID)
	assert.ErrorIs(t, err, repositories.ErrAddressNotFound)
}

func TestWishlistRepository_AddIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewWishlistRepository()
	user := testutil.CreateUser(t, db, "wish@example.com", "secret1", true)
	category := createCategory(t, db, "malas")
	product := createProduct(t, db, category.ID, "mala", 10, 0, nil)

	require.NoError(t, repo.Add(db, user.ID, product.ID))
	require.NoError(t, repo.Add(db, user.ID, product.ID))

	count, err := repo.CountByUser(db, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	items, err := repo.ListByUser(db, user.ID, 8)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "mala", items[0].Product.Slug)

	require.NoError(t, repo.Remove(db, user.ID, product.ID))
	assert.ErrorIs(t, repo.Remove(db, user.ID, product.ID), repositories.ErrWishlistNotFound)
}
