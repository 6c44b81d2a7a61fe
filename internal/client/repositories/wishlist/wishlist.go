// Package wishlist is the remote wishlist repository. All operations are
// fail-loud.
package wishlist

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/client/client"
	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/client/repositories"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

type Repository interface {
	List(ctx context.Context) ([]models.WishlistEntry, error)
	Add(ctx context.Context, p models.Product) (models.WishlistEntry, error)
	Remove(ctx context.Context, id string) error
}

var (
	listMessages = repositories.Messages{
		Status:   map[int]string{401: "Please login to view your wishlist"},
		Fallback: "Failed to load wishlist: HTTP %d",
	}
	addMessages = repositories.Messages{
		Status: map[int]string{
			400: "Invalid wishlist item",
			409: "Already in your wishlist",
		},
		Fallback: "Failed to add to wishlist: HTTP %d",
	}
	removeMessages = repositories.Messages{
		Status:   map[int]string{404: "Wishlist item not found. It may have been already removed."},
		Fallback: "Failed to remove from wishlist: HTTP %d",
	}
)

type RemoteRepository struct {
	api client.WishlistAPI
	log logging.Logger
}

func NewRemoteRepository(api client.WishlistAPI, log logging.Logger) *RemoteRepository {
	return &RemoteRepository{api: api, log: log}
}

func (r *RemoteRepository) List(ctx context.Context) ([]models.WishlistEntry, error) {
	list, err := r.api.ListWishlist(ctx)
	if err != nil {
		r.log.Error(ctx, "wishlist list failed", "error", err)
		return nil, repositories.Normalize(err, listMessages)
	}
	return list, nil
}

func (r *RemoteRepository) Add(ctx context.Context, p models.Product) (models.WishlistEntry, error) {
	if p.ID == "" {
		return models.WishlistEntry{}, common.Validation("Invalid product")
	}
	e, err := r.api.AddToWishlist(ctx, p)
	if err != nil {
		r.log.Error(ctx, "wishlist add failed", "product", p.ID, "error", err)
		return models.WishlistEntry{}, repositories.Normalize(err, addMessages)
	}
	return e, nil
}

func (r *RemoteRepository) Remove(ctx context.Context, id string) error {
	if id == "" {
		return common.Validation("Invalid wishlist item ID")
	}
	if err := r.api.RemoveFromWishlist(ctx, id); err != nil {
		r.log.Error(ctx, "wishlist remove failed", "entry", id, "error", err)
		return repositories.Normalize(err, removeMessages)
	}
	return nil
}
