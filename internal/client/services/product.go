package services

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	productrepo "github.com/dmitrijs2005/storefront/internal/client/repositories/product"
	"github.com/dmitrijs2005/storefront/internal/client/state"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

type ProductState struct {
	Products []models.Product
	Selected *models.Product
	Loading  bool
	Error    string
}

type ProductService interface {
	State() ProductState
	Subscribe(ctx context.Context) <-chan ProductState

	Load(ctx context.Context) error
	Get(ctx context.Context, id string) (models.Product, error)
	Search(query string) []models.Product
}

type productService struct {
	repo  productrepo.Repository
	log   logging.Logger
	store *state.Store[ProductState]
}

func NewProductService(repo productrepo.Repository, log logging.Logger) ProductService {
	return &productService{
		repo:  repo,
		log:   log,
		store: state.NewStore(ProductState{Products: []models.Product{}}),
	}
}

func (s *productService) State() ProductState {
	return s.store.Get()
}

func (s *productService) Subscribe(ctx context.Context) <-chan ProductState {
	return s.store.Subscribe(ctx)
}

func (s *productService) Load(ctx context.Context) error {
	s.store.Update(func(st ProductState) ProductState {
		st.Loading = true
		st.Error = ""
		return st
	})
	list, err := s.repo.List(ctx)
	s.store.Update(func(st ProductState) ProductState {
		st.Loading = false
		if err != nil {
			st.Error = userMessage(err)
			return st
		}
		st.Products = cloneOrEmpty(list)
		return st
	})
	return err
}

// Get loads one product and makes it the selected one.
func (s *productService) Get(ctx context.Context, id string) (models.Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err == nil && p == nil {
		err = common.NewUserError(common.ErrNotFound, "Product not found", nil)
	}
	s.store.Update(func(st ProductState) ProductState {
		if err != nil {
			st.Error = userMessage(err)
			return st
		}
		sel := *p
		st.Selected = &sel
		st.Error = ""
		return st
	})
	if err != nil {
		return models.Product{}, err
	}
	return *p, nil
}

// Search filters the loaded catalogue by title, category name or SKU. It
// does not hit the network.
func (s *productService) Search(query string) []models.Product {
	return models.FilterProducts(s.store.Get().Products, query)
}
