// Package product is the remote catalogue repository. Both reads are
// fail-soft.
package product

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/client/client"
	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

type Repository interface {
	List(ctx context.Context) ([]models.Product, error)
	// Get returns nil when the product cannot be loaded.
	Get(ctx context.Context, id string) (*models.Product, error)
}

type RemoteRepository struct {
	api client.ProductAPI
	log logging.Logger
}

func NewRemoteRepository(api client.ProductAPI, log logging.Logger) *RemoteRepository {
	return &RemoteRepository{api: api, log: log}
}

func (r *RemoteRepository) List(ctx context.Context) ([]models.Product, error) {
	list, err := r.api.ListProducts(ctx)
	if err != nil {
		r.log.Warn(ctx, "product list failed, showing empty catalogue", "error", err)
		return []models.Product{}, nil
	}
	return list, nil
}

func (r *RemoteRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	if id == "" {
		return nil, nil
	}
	p, err := r.api.GetProduct(ctx, id)
	if err != nil {
		r.log.Warn(ctx, "product fetch failed", "product", id, "error", err)
		return nil, nil
	}
	return &p, nil
}
