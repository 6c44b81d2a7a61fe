package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlist_LoadSurfacesError(t *testing.T) {
	repo := &fakeWishlistRepo{ListErr: common.NewUserError(common.ErrNetwork, "Network error. Please check your connection.", nil)}
	svc := NewWishlistService(repo, logging.Nop())

	err := svc.Load(context.Background())
	require.ErrorIs(t, err, common.ErrNetwork)
	assert.Equal(t, "Network error. Please check your connection.", svc.State().Error)
	assert.Empty(t, svc.State().Entries)
}

func TestWishlist_AddRemove(t *testing.T) {
	repo := &fakeWishlistRepo{}
	svc := NewWishlistService(repo, logging.Nop())
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, models.Product{ID: "p1", Title: "Shoe"}))
	assert.True(t, svc.Contains("p1"))
	assert.False(t, svc.Contains("p2"))
	assert.False(t, svc.Contains(""))
	assert.Equal(t, 1, repo.ListCalls)

	require.NoError(t, svc.Remove(ctx, "w-p1"))
	assert.Equal(t, "w-p1", repo.LastRemoveID)
	assert.False(t, svc.Contains("p1"))
	assert.Equal(t, 2, repo.ListCalls)
}

func TestWishlist_RemoveFailure(t *testing.T) {
	repo := &fakeWishlistRepo{Entries: []models.WishlistEntry{{ID: "w1", ProductID: "p1"}}}
	svc := NewWishlistService(repo, logging.Nop())
	ctx := context.Background()
	require.NoError(t, svc.Load(ctx))

	repo.RemoveErr = common.NewUserError(common.ErrNotFound, "Item not found in wishlist", nil)
	require.ErrorIs(t, svc.Remove(ctx, "w1"), common.ErrNotFound)
	assert.Len(t, svc.State().Entries, 1)
	assert.Equal(t, "Item not found in wishlist", svc.State().Error)

	svc.ClearError()
	assert.Empty(t, svc.State().Error)
}
