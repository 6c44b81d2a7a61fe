package services

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	wishlistrepo "github.com/dmitrijs2005/storefront/internal/client/repositories/wishlist"
	"github.com/dmitrijs2005/storefront/internal/client/state"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

type WishlistState struct {
	Entries []models.WishlistEntry
	Loading bool
	Error   string
}

// WishlistService holds the wishlist. Unlike the cart, a failed load is
// reported to the user.
type WishlistService interface {
	State() WishlistState
	Subscribe(ctx context.Context) <-chan WishlistState

	Load(ctx context.Context) error
	Add(ctx context.Context, p models.Product) error
	Remove(ctx context.Context, id string) error
	// Contains reports whether productID is already saved.
	Contains(productID string) bool
	ClearError()
}

type wishlistService struct {
	repo  wishlistrepo.Repository
	log   logging.Logger
	store *state.Store[WishlistState]
	keys  keyedMutex
}

func NewWishlistService(repo wishlistrepo.Repository, log logging.Logger) WishlistService {
	return &wishlistService{
		repo:  repo,
		log:   log,
		store: state.NewStore(WishlistState{Entries: []models.WishlistEntry{}}),
	}
}

func (s *wishlistService) State() WishlistState {
	return s.store.Get()
}

func (s *wishlistService) Subscribe(ctx context.Context) <-chan WishlistState {
	return s.store.Subscribe(ctx)
}

func (s *wishlistService) setLoading() {
	s.store.Update(func(st WishlistState) WishlistState {
		st.Loading = true
		st.Error = ""
		return st
	})
}

func (s *wishlistService) fail(err error) error {
	s.store.Update(func(st WishlistState) WishlistState {
		st.Loading = false
		st.Error = userMessage(err)
		return st
	})
	return err
}

func (s *wishlistService) Load(ctx context.Context) error {
	s.setLoading()
	list, err := s.repo.List(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.store.Update(func(st WishlistState) WishlistState {
		st.Entries = cloneOrEmpty(list)
		st.Loading = false
		return st
	})
	return nil
}

func (s *wishlistService) Add(ctx context.Context, p models.Product) error {
	unlock, err := s.keys.lock(ctx, "product:"+p.ID)
	if err != nil {
		return err
	}
	defer unlock()

	s.setLoading()
	if _, err := s.repo.Add(ctx, p); err != nil {
		return s.fail(err)
	}
	s.log.Info(ctx, "added to wishlist", "product", p.ID)
	return s.Load(ctx)
}

func (s *wishlistService) Remove(ctx context.Context, id string) error {
	unlock, err := s.keys.lock(ctx, "wishlist:"+id)
	if err != nil {
		return err
	}
	defer unlock()

	s.setLoading()
	if err := s.repo.Remove(ctx, id); err != nil {
		return s.fail(err)
	}
	s.log.Info(ctx, "removed from wishlist", "entry", id)
	return s.Load(ctx)
}

func (s *wishlistService) Contains(productID string) bool {
	if productID == "" {
		return false
	}
	for _, e := range s.store.Get().Entries {
		if e.ProductID == productID {
			return true
		}
	}
	return false
}

func (s *wishlistService) ClearError() {
	s.store.Update(func(st WishlistState) WishlistState {
		st.Error = ""
		return st
	})
}
