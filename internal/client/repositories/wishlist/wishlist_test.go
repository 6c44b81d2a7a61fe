package wishlist

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/storefront/internal/client/client"
	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWishlistAPI struct {
	Entries   []models.WishlistEntry
	ListErr   error
	AddErr    error
	RemoveErr error

	LastAdd    models.Product
	LastRemove string
}

func (f *fakeWishlistAPI) ListWishlist(context.Context) ([]models.WishlistEntry, error) {
	return f.Entries, f.ListErr
}

func (f *fakeWishlistAPI) AddToWishlist(_ context.Context, p models.Product) (models.WishlistEntry, error) {
	f.LastAdd = p
	return models.WishlistEntry{ID: "w1", ProductID: p.ID}, f.AddErr
}

func (f *fakeWishlistAPI) RemoveFromWishlist(_ context.Context, id string) error {
	f.LastRemove = id
	return f.RemoveErr
}

func TestList_FailLoud(t *testing.T) {
	api := &fakeWishlistAPI{ListErr: &client.StatusError{Code: 401}}
	_, err := NewRemoteRepository(api, logging.Nop()).List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, "Please login to view your wishlist", err.Error())
}

func TestAddRemove(t *testing.T) {
	api := &fakeWishlistAPI{}
	r := NewRemoteRepository(api, logging.Nop())
	ctx := context.Background()

	e, err := r.Add(ctx, models.Product{ID: "p1", Title: "Mug"})
	require.NoError(t, err)
	assert.Equal(t, "p1", e.ProductID)
	assert.Equal(t, "Mug", api.LastAdd.Title)

	_, err = r.Add(ctx, models.Product{})
	assert.ErrorIs(t, err, common.ErrValidation)

	require.NoError(t, r.Remove(ctx, "w1"))
	assert.Equal(t, "w1", api.LastRemove)

	api.RemoveErr = &client.StatusError{Code: 503}
	err = r.Remove(ctx, "w1")
	assert.Equal(t, "Failed to remove from wishlist: HTTP 503", err.Error())
	assert.ErrorIs(t, err, common.ErrServer)
}
