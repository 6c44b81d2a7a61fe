package services

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	cartrepo "github.com/dmitrijs2005/storefront/internal/client/repositories/cart"
	"github.com/dmitrijs2005/storefront/internal/client/state"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/shopspring/decimal"
)

// CartState is the cart screen snapshot.
type CartState struct {
	Lines   []models.CartLine
	Loading bool
	Error   string
}

// CartService holds the cart.
//
// Every successful mutation is followed by a full reload; there are no
// optimistic local edits. A failed mutation sets Error and leaves Lines as
// they were.
type CartService interface {
	State() CartState
	Subscribe(ctx context.Context) <-chan CartState

	Load(ctx context.Context) error
	AddItem(ctx context.Context, p models.Product, quantity int) error
	// SetQuantity with quantity <= 0 removes the line.
	SetQuantity(ctx context.Context, lineID string, quantity int) error
	RemoveItem(ctx context.Context, lineID string) error
	Increase(ctx context.Context, lineID string) error
	// Decrease at quantity 1 removes the line.
	Decrease(ctx context.Context, lineID string) error

	Total() decimal.Decimal
	ItemCount() int
	ClearError()
}

type cartService struct {
	repo  cartrepo.Repository
	log   logging.Logger
	store *state.Store[CartState]
	keys  keyedMutex
}

func NewCartService(repo cartrepo.Repository, log logging.Logger) CartService {
	return &cartService{
		repo:  repo,
		log:   log,
		store: state.NewStore(CartState{Lines: []models.CartLine{}}),
	}
}

func (s *cartService) State() CartState {
	return s.store.Get()
}

func (s *cartService) Subscribe(ctx context.Context) <-chan CartState {
	return s.store.Subscribe(ctx)
}

func (s *cartService) setLoading() {
	s.store.Update(func(st CartState) CartState {
		st.Loading = true
		st.Error = ""
		return st
	})
}

func (s *cartService) fail(err error) error {
	s.store.Update(func(st CartState) CartState {
		st.Loading = false
		st.Error = userMessage(err)
		return st
	})
	return err
}

// Load never fails on transport errors; an unreachable server shows an
// empty cart.
func (s *cartService) Load(ctx context.Context) error {
	s.setLoading()
	lines, err := s.repo.List(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.store.Update(func(st CartState) CartState {
		st.Lines = cloneOrEmpty(lines)
		st.Loading = false
		return st
	})
	return nil
}

func (s *cartService) AddItem(ctx context.Context, p models.Product, quantity int) error {
	unlock, err := s.keys.lock(ctx, "product:"+p.ID)
	if err != nil {
		return err
	}
	defer unlock()

	s.setLoading()
	if _, err := s.repo.Add(ctx, p, quantity); err != nil {
		return s.fail(err)
	}
	s.log.Info(ctx, "added to cart", "product", p.ID, "quantity", quantity)
	return s.Load(ctx)
}

func (s *cartService) SetQuantity(ctx context.Context, lineID string, quantity int) error {
	if lineID == "" {
		return s.fail(common.Validation("Invalid cart item ID"))
	}
	unlock, err := s.keys.lock(ctx, "line:"+lineID)
	if err != nil {
		return err
	}
	defer unlock()

	return s.setQuantity(ctx, lineID, quantity)
}

// setQuantity expects the line key to be held.
func (s *cartService) setQuantity(ctx context.Context, lineID string, quantity int) error {
	if quantity <= 0 {
		return s.remove(ctx, lineID)
	}
	s.setLoading()
	if err := s.repo.UpdateQuantity(ctx, lineID, quantity); err != nil {
		return s.fail(err)
	}
	return s.Load(ctx)
}

func (s *cartService) RemoveItem(ctx context.Context, lineID string) error {
	if lineID == "" {
		return s.fail(common.Validation("Invalid cart item ID"))
	}
	unlock, err := s.keys.lock(ctx, "line:"+lineID)
	if err != nil {
		return err
	}
	defer unlock()

	return s.remove(ctx, lineID)
}

func (s *cartService) remove(ctx context.Context, lineID string) error {
	s.setLoading()
	if err := s.repo.Remove(ctx, lineID); err != nil {
		return s.fail(err)
	}
	s.log.Info(ctx, "removed from cart", "line", lineID)
	return s.Load(ctx)
}

func (s *cartService) Increase(ctx context.Context, lineID string) error {
	return s.step(ctx, lineID, +1)
}

func (s *cartService) Decrease(ctx context.Context, lineID string) error {
	return s.step(ctx, lineID, -1)
}

// step reads the quantity under the line key so that rapid repeated taps
// each see the result of the previous one.
func (s *cartService) step(ctx context.Context, lineID string, delta int) error {
	if lineID == "" {
		return s.fail(common.Validation("Invalid cart item ID"))
	}
	unlock, err := s.keys.lock(ctx, "line:"+lineID)
	if err != nil {
		return err
	}
	defer unlock()

	line, ok := models.FindLine(s.store.Get().Lines, lineID)
	if !ok {
		return s.fail(common.NewUserError(common.ErrNotFound, "Cart item not found", nil))
	}
	return s.setQuantity(ctx, lineID, line.Quantity+delta)
}

func (s *cartService) Total() decimal.Decimal {
	return models.DefaultPricing.Subtotal(s.store.Get().Lines)
}

func (s *cartService) ItemCount() int {
	return models.CartItemCount(s.store.Get().Lines)
}

func (s *cartService) ClearError() {
	s.store.Update(func(st CartState) CartState {
		st.Error = ""
		return st
	})
}
