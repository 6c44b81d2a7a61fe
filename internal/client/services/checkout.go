package services

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	addressrepo "github.com/dmitrijs2005/storefront/internal/client/repositories/address"
	cartrepo "github.com/dmitrijs2005/storefront/internal/client/repositories/cart"
	"github.com/dmitrijs2005/storefront/internal/client/state"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// UserSource resolves the signed-in user. The session store implements it.
type UserSource interface {
	CurrentUser(ctx context.Context) (*models.User, error)
}

// CheckoutState is the checkout screen snapshot. Lines is a copy of the cart
// taken when checkout loaded.
type CheckoutState struct {
	Addresses   []models.Address
	Selected    *models.Address
	Lines       []models.CartLine
	Loading     bool
	Error       string
	OrderPlaced bool
	Order       *models.OrderDraft
}

// CheckoutService drives the checkout screen: address book, pricing and
// order placement.
//
// PlaceOrder only validates and records a local OrderDraft; charging it is
// the payment service's job. Callers that fail to create the payment order
// call CancelOrder to undo the placement.
type CheckoutService interface {
	State() CheckoutState
	Subscribe(ctx context.Context) <-chan CheckoutState

	Load(ctx context.Context) error
	SelectAddress(id string) error
	SaveAddress(ctx context.Context, a models.Address) (models.Address, error)
	UpdateAddress(ctx context.Context, id string, a models.Address) (models.Address, error)
	DeleteAddress(ctx context.Context, id string) error

	Subtotal() decimal.Decimal
	Shipping() decimal.Decimal
	Tax() decimal.Decimal
	Total() decimal.Decimal
	ItemCount() int
	Summary() models.Summary

	PlaceOrder(ctx context.Context) (models.OrderDraft, error)
	CancelOrder()
	ClearError()
}

type checkoutService struct {
	addresses addressrepo.Repository
	cart      cartrepo.Repository
	users     UserSource
	pricing   models.Pricing
	newID     func() string
	log       logging.Logger
	store     *state.Store[CheckoutState]
	keys      keyedMutex
}

type CheckoutOption func(*checkoutService)

func WithPricing(p models.Pricing) CheckoutOption {
	return func(s *checkoutService) { s.pricing = p }
}

// WithOrderIDs overrides uuid generation for local order ids.
func WithOrderIDs(gen func() string) CheckoutOption {
	return func(s *checkoutService) { s.newID = gen }
}

func NewCheckoutService(addresses addressrepo.Repository, cart cartrepo.Repository, users UserSource, log logging.Logger, opts ...CheckoutOption) CheckoutService {
	s := &checkoutService{
		addresses: addresses,
		cart:      cart,
		users:     users,
		pricing:   models.DefaultPricing,
		newID:     uuid.NewString,
		log:       log,
		store:     state.NewStore(CheckoutState{Addresses: []models.Address{}, Lines: []models.CartLine{}}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *checkoutService) State() CheckoutState {
	return s.store.Get()
}

func (s *checkoutService) Subscribe(ctx context.Context) <-chan CheckoutState {
	return s.store.Subscribe(ctx)
}

func (s *checkoutService) setLoading() {
	s.store.Update(func(st CheckoutState) CheckoutState {
		st.Loading = true
		st.Error = ""
		return st
	})
}

func (s *checkoutService) fail(err error) error {
	s.store.Update(func(st CheckoutState) CheckoutState {
		st.Loading = false
		st.Error = userMessage(err)
		return st
	})
	return err
}

func (s *checkoutService) userID(ctx context.Context) (string, error) {
	u, err := s.users.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if u == nil || u.ID == "" {
		return "", common.NewUserError(common.ErrNoSession, "Please login to continue", nil)
	}
	return u.ID, nil
}

// Load fetches the user's addresses and the cart concurrently. Both reads
// are fail-soft, so only a missing session or cancellation fails it. The
// current selection is kept when it is still present, otherwise the first
// address in server order is selected.
func (s *checkoutService) Load(ctx context.Context) error {
	s.setLoading()
	uid, err := s.userID(ctx)
	if err != nil {
		return s.fail(err)
	}

	var (
		addrs []models.Address
		lines []models.CartLine
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		addrs, err = s.addresses.ListByUser(gctx, uid)
		return err
	})
	g.Go(func() error {
		var err error
		lines, err = s.cart.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return s.fail(err)
	}

	s.store.Update(func(st CheckoutState) CheckoutState {
		st.Addresses = cloneOrEmpty(addrs)
		st.Lines = cloneOrEmpty(lines)
		st.Selected = reselect(st.Addresses, st.Selected)
		st.Loading = false
		return st
	})
	return nil
}

// reselect keeps prev when it is still listed, refreshed from the list;
// otherwise it falls back to the first address or nil.
func reselect(list []models.Address, prev *models.Address) *models.Address {
	if prev != nil {
		if i := models.FindAddress(list, prev.ID); i >= 0 {
			a := list[i]
			return &a
		}
	}
	if len(list) == 0 {
		return nil
	}
	a := list[0]
	return &a
}

func (s *checkoutService) SelectAddress(id string) error {
	var err error
	s.store.Update(func(st CheckoutState) CheckoutState {
		i := models.FindAddress(st.Addresses, id)
		if i < 0 {
			err = common.NewUserError(common.ErrNotFound, "Address not found", nil)
			st.Error = userMessage(err)
			return st
		}
		a := st.Addresses[i]
		st.Selected = &a
		return st
	})
	return err
}

// SaveAddress validates the form, creates the address for the signed-in
// user, appends it and selects it.
func (s *checkoutService) SaveAddress(ctx context.Context, a models.Address) (models.Address, error) {
	if err := a.Validate(); err != nil {
		return models.Address{}, s.fail(err)
	}
	s.setLoading()
	uid, err := s.userID(ctx)
	if err != nil {
		return models.Address{}, s.fail(err)
	}
	a.UserID = uid

	created, err := s.addresses.Create(ctx, a)
	if err != nil {
		return models.Address{}, s.fail(err)
	}
	s.log.Info(ctx, "address saved", "address", created.ID)

	s.store.Update(func(st CheckoutState) CheckoutState {
		st.Addresses = append(slices.Clone(st.Addresses), created)
		sel := created
		st.Selected = &sel
		st.Loading = false
		return st
	})
	return created, nil
}

// UpdateAddress replaces the cached address in place. If it is not cached
// the whole list is reloaded.
func (s *checkoutService) UpdateAddress(ctx context.Context, id string, a models.Address) (models.Address, error) {
	if id == "" {
		return models.Address{}, s.fail(common.Validation("Invalid address ID"))
	}
	if err := a.Validate(); err != nil {
		return models.Address{}, s.fail(err)
	}
	unlock, err := s.keys.lock(ctx, "address:"+id)
	if err != nil {
		return models.Address{}, err
	}
	defer unlock()

	s.setLoading()
	if a.UserID == "" {
		if uid, err := s.userID(ctx); err == nil {
			a.UserID = uid
		}
	}
	updated, err := s.addresses.Update(ctx, id, a)
	if err != nil {
		return models.Address{}, s.fail(err)
	}
	if updated.ID == "" {
		updated.ID = id
	}

	found := false
	s.store.Update(func(st CheckoutState) CheckoutState {
		i := models.FindAddress(st.Addresses, id)
		if i < 0 {
			return st
		}
		found = true
		st.Addresses = slices.Clone(st.Addresses)
		st.Addresses[i] = updated
		if st.Selected != nil && st.Selected.ID == id {
			sel := updated
			st.Selected = &sel
		}
		st.Loading = false
		return st
	})
	if !found {
		s.log.Warn(ctx, "updated address not cached, reloading", "address", id)
		if err := s.Load(ctx); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

// DeleteAddress removes the address. If it was selected, the first
// remaining address (or none) becomes selected.
func (s *checkoutService) DeleteAddress(ctx context.Context, id string) error {
	if id == "" {
		return s.fail(common.Validation("Invalid address ID"))
	}
	unlock, err := s.keys.lock(ctx, "address:"+id)
	if err != nil {
		return err
	}
	defer unlock()

	s.setLoading()
	if err := s.addresses.Delete(ctx, id); err != nil {
		return s.fail(err)
	}
	s.log.Info(ctx, "address deleted", "address", id)

	s.store.Update(func(st CheckoutState) CheckoutState {
		st.Addresses = slices.DeleteFunc(slices.Clone(st.Addresses), func(a models.Address) bool {
			return a.ID == id
		})
		if st.Selected != nil && st.Selected.ID == id {
			st.Selected = reselect(st.Addresses, nil)
		}
		st.Loading = false
		return st
	})
	return nil
}

func (s *checkoutService) Summary() models.Summary {
	return s.pricing.Summarize(s.store.Get().Lines)
}

func (s *checkoutService) Subtotal() decimal.Decimal {
	return s.Summary().Subtotal
}

func (s *checkoutService) Shipping() decimal.Decimal {
	return s.Summary().Shipping
}

func (s *checkoutService) Tax() decimal.Decimal {
	return s.Summary().Tax
}

func (s *checkoutService) Total() decimal.Decimal {
	return s.Summary().Total
}

func (s *checkoutService) ItemCount() int {
	return s.Summary().Items
}

// PlaceOrder checks that an address is selected and the cart is not empty,
// then marks the order placed and returns its draft. On a validation
// failure OrderPlaced is left untouched.
func (s *checkoutService) PlaceOrder(ctx context.Context) (models.OrderDraft, error) {
	var (
		draft models.OrderDraft
		err   error
	)
	s.store.Update(func(st CheckoutState) CheckoutState {
		switch {
		case st.Selected == nil:
			err = common.Validation("Please select a shipping address")
		case len(st.Lines) == 0:
			err = common.Validation("Your cart is empty")
		}
		if err != nil {
			st.Error = userMessage(err)
			return st
		}

		draft = models.OrderDraft{
			LocalOrderID: s.newID(),
			Address:      *st.Selected,
			Lines:        slices.Clone(st.Lines),
			Summary:      s.pricing.Summarize(st.Lines),
		}
		d := draft
		st.Order = &d
		st.OrderPlaced = true
		st.Error = ""
		return st
	})
	if err != nil {
		return models.OrderDraft{}, err
	}
	s.log.Info(ctx, "order placed", "order", draft.LocalOrderID, "total", draft.Amount().StringFixed(2))
	return draft, nil
}

func (s *checkoutService) CancelOrder() {
	s.store.Update(func(st CheckoutState) CheckoutState {
		st.OrderPlaced = false
		st.Order = nil
		return st
	})
}

func (s *checkoutService) ClearError() {
	s.store.Update(func(st CheckoutState) CheckoutState {
		st.Error = ""
		return st
	})
}
