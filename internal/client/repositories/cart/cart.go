// Package cart is the remote cart repository.
//
// List is fail-soft: any failure yields an empty cart and a warning in the
// log. Add, UpdateQuantity and Remove surface a *common.UserError.
package cart

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/client/client"
	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/client/repositories"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

type Repository interface {
	List(ctx context.Context) ([]models.CartLine, error)
	Add(ctx context.Context, p models.Product, quantity int) (models.CartLine, error)
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Remove(ctx context.Context, id string) error
}

var (
	addMessages = repositories.Messages{
		Status: map[int]string{
			400: "Could not add this product to the cart",
			404: "Product not found",
		},
	}
	updateMessages = repositories.Messages{
		Status: map[int]string{
			400: "Invalid quantity",
			404: "Cart item not found. It may have been removed.",
		},
	}
	removeMessages = repositories.Messages{
		Status: map[int]string{
			404: "Cart item not found. It may have been already removed.",
		},
	}
)

type RemoteRepository struct {
	api client.CartAPI
	log logging.Logger
}

func NewRemoteRepository(api client.CartAPI, log logging.Logger) *RemoteRepository {
	return &RemoteRepository{api: api, log: log}
}

// List returns every line of the signed-in user's cart.
func (r *RemoteRepository) List(ctx context.Context) ([]models.CartLine, error) {
	lines, err := r.api.ListCart(ctx, 0, 0)
	if err != nil {
		r.log.Warn(ctx, "cart list failed, showing empty cart", "error", err)
		return []models.CartLine{}, nil
	}
	return lines, nil
}

func (r *RemoteRepository) Add(ctx context.Context, p models.Product, quantity int) (models.CartLine, error) {
	if p.ID == "" {
		return models.CartLine{}, common.Validation("Invalid product")
	}
	if quantity < 1 {
		return models.CartLine{}, common.Validation("Quantity must be at least 1")
	}
	line, err := r.api.AddToCart(ctx, p, quantity)
	if err != nil {
		r.log.Error(ctx, "add to cart failed", "product", p.ID, "error", err)
		return models.CartLine{}, repositories.Normalize(err, addMessages)
	}
	return line, nil
}

// UpdateQuantity sets an absolute quantity. quantity must be >= 1; removing
// a line goes through Remove.
func (r *RemoteRepository) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if id == "" {
		return common.Validation("Invalid cart item ID")
	}
	if quantity < 1 {
		return common.Validation("Quantity must be at least 1")
	}
	if err := r.api.UpdateCartLine(ctx, id, quantity); err != nil {
		r.log.Error(ctx, "cart update failed", "line", id, "quantity", quantity, "error", err)
		return repositories.Normalize(err, updateMessages)
	}
	return nil
}

func (r *RemoteRepository) Remove(ctx context.Context, id string) error {
	if id == "" {
		return common.Validation("Invalid cart item ID")
	}
	if err := r.api.DeleteCartLine(ctx, id); err != nil {
		r.log.Error(ctx, "cart delete failed", "line", id, "error", err)
		return repositories.Normalize(err, removeMessages)
	}
	return nil
}
