// Package address is the remote address repository.
//
// ListByUser degrades to an empty list on failure; List and every write
// surface a *common.UserError with operation-specific copy.
package address

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/client/client"
	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/client/repositories"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

type Repository interface {
	List(ctx context.Context) ([]models.Address, error)
	ListByUser(ctx context.Context, userID string) ([]models.Address, error)
	Create(ctx context.Context, a models.Address) (models.Address, error)
	Update(ctx context.Context, id string, a models.Address) (models.Address, error)
	Delete(ctx context.Context, id string) error
}

var (
	listMessages = repositories.Messages{
		Fallback: "Failed to load addresses: HTTP %d",
	}
	createMessages = repositories.Messages{
		Status: map[int]string{
			400: "Invalid address data",
			409: "Address already exists",
		},
		Fallback: "Server error: HTTP %d",
	}
	updateMessages = repositories.Messages{
		Status: map[int]string{
			404: "Address not found. It may have been deleted.",
			400: "Invalid address data provided",
			403: "You don't have permission to update this address",
		},
		Fallback: "Server error: HTTP %d",
	}
	deleteMessages = repositories.Messages{
		Status: map[int]string{
			404: "Address not found. It may have been already deleted.",
			403: "You don't have permission to delete this address",
			500: repositories.MsgServer,
		},
		Fallback: "Server error: HTTP %d",
	}
)

type RemoteRepository struct {
	api client.AddressAPI
	log logging.Logger
}

func NewRemoteRepository(api client.AddressAPI, log logging.Logger) *RemoteRepository {
	return &RemoteRepository{api: api, log: log}
}

func (r *RemoteRepository) List(ctx context.Context) ([]models.Address, error) {
	list, err := r.api.ListAddresses(ctx)
	if err != nil {
		return nil, repositories.Normalize(err, listMessages)
	}
	return list, nil
}

// ListByUser never fails: on error it logs and returns an empty list so the
// checkout screen can still render.
func (r *RemoteRepository) ListByUser(ctx context.Context, userID string) ([]models.Address, error) {
	if userID == "" {
		return []models.Address{}, nil
	}
	list, err := r.api.ListAddressesByUser(ctx, userID)
	if err != nil {
		r.log.Warn(ctx, "address list failed, showing none", "user", userID, "error", err)
		return []models.Address{}, nil
	}
	if list == nil {
		list = []models.Address{}
	}
	return list, nil
}

func (r *RemoteRepository) Create(ctx context.Context, a models.Address) (models.Address, error) {
	if a.AddressType == "" {
		a.AddressType = models.DefaultAddressType
	}
	created, err := r.api.CreateAddress(ctx, a)
	if err != nil {
		r.log.Error(ctx, "address create failed", "error", err)
		return models.Address{}, repositories.Normalize(err, createMessages)
	}
	return created, nil
}

func (r *RemoteRepository) Update(ctx context.Context, id string, a models.Address) (models.Address, error) {
	if id == "" {
		return models.Address{}, common.Validation("Invalid address ID")
	}
	updated, err := r.api.UpdateAddress(ctx, id, a)
	if err != nil {
		r.log.Error(ctx, "address update failed", "address", id, "error", err)
		return models.Address{}, repositories.Normalize(err, updateMessages)
	}
	return updated, nil
}

func (r *RemoteRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return common.Validation("Invalid address ID")
	}
	if err := r.api.DeleteAddress(ctx, id); err != nil {
		r.log.Error(ctx, "address delete failed", "address", id, "error", err)
		return repositories.Normalize(err, deleteMessages)
	}
	return nil
}
