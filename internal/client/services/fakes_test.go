package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/client/gateway"
	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/shopspring/decimal"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fakeCartRepo keeps a server-side cart in memory.
type fakeCartRepo struct {
	mu    sync.Mutex
	Lines []models.CartLine
	seq   int

	ListErr   error
	AddErr    error
	UpdateErr error
	RemoveErr error

	ListCalls    int
	UpdateCalls  int
	RemoveCalls  int
	LastUpdateID string
	LastQuantity int
	LastRemoveID string
}

func (f *fakeCartRepo) List(context.Context) ([]models.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return slices.Clone(f.Lines), nil
}

func (f *fakeCartRepo) Add(_ context.Context, p models.Product, q int) (models.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AddErr != nil {
		return models.CartLine{}, f.AddErr
	}
	f.seq++
	l := models.CartLine{ID: fmt.Sprintf("line-%d", f.seq), ProductID: p.ID, Title: p.Title, MRP: p.MRP, Discount: p.Discount, Quantity: q}
	f.Lines = append(f.Lines, l)
	return l, nil
}

func (f *fakeCartRepo) UpdateQuantity(_ context.Context, id string, q int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	f.LastUpdateID, f.LastQuantity = id, q
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	for i := range f.Lines {
		if f.Lines[i].ID == id {
			f.Lines[i].Quantity = q
		}
	}
	return nil
}

func (f *fakeCartRepo) Remove(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RemoveCalls++
	f.LastRemoveID = id
	if f.RemoveErr != nil {
		return f.RemoveErr
	}
	f.Lines = slices.DeleteFunc(f.Lines, func(l models.CartLine) bool { return l.ID == id })
	return nil
}

type fakeAddressRepo struct {
	mu        sync.Mutex
	Addresses []models.Address
	seq       int

	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	LastCreated models.Address
	ListCalls   int
}

func (f *fakeAddressRepo) List(context.Context) ([]models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.Addresses), f.ListErr
}

func (f *fakeAddressRepo) ListByUser(_ context.Context, uid string) ([]models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	var out []models.Address
	for _, a := range f.Addresses {
		if a.UserID == uid {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAddressRepo) Create(_ context.Context, a models.Address) (models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastCreated = a
	if f.CreateErr != nil {
		return models.Address{}, f.CreateErr
	}
	f.seq++
	a.ID = fmt.Sprintf("addr-%d", f.seq)
	f.Addresses = append(f.Addresses, a)
	return a, nil
}

func (f *fakeAddressRepo) Update(_ context.Context, id string, a models.Address) (models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return models.Address{}, f.UpdateErr
	}
	a.ID = id
	if i := models.FindAddress(f.Addresses, id); i >= 0 {
		f.Addresses[i] = a
	}
	return a, nil
}

func (f *fakeAddressRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.Addresses = slices.DeleteFunc(f.Addresses, func(a models.Address) bool { return a.ID == id })
	return nil
}

type fakeUsers struct {
	User *models.User
	Err  error
}

func (f *fakeUsers) CurrentUser(context.Context) (*models.User, error) {
	return f.User, f.Err
}

type fakeWishlistRepo struct {
	Entries []models.WishlistEntry

	ListErr   error
	AddErr    error
	RemoveErr error

	ListCalls    int
	LastRemoveID string
}

func (f *fakeWishlistRepo) List(context.Context) ([]models.WishlistEntry, error) {
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return slices.Clone(f.Entries), nil
}

func (f *fakeWishlistRepo) Add(_ context.Context, p models.Product) (models.WishlistEntry, error) {
	if f.AddErr != nil {
		return models.WishlistEntry{}, f.AddErr
	}
	e := models.WishlistEntry{ID: "w-" + p.ID, ProductID: p.ID, Title: p.Title}
	f.Entries = append(f.Entries, e)
	return e, nil
}

func (f *fakeWishlistRepo) Remove(_ context.Context, id string) error {
	f.LastRemoveID = id
	if f.RemoveErr != nil {
		return f.RemoveErr
	}
	f.Entries = slices.DeleteFunc(f.Entries, func(e models.WishlistEntry) bool { return e.ID == id })
	return nil
}

type fakeProductRepo struct {
	Products []models.Product
	ListErr  error
}

func (f *fakeProductRepo) List(context.Context) ([]models.Product, error) {
	return slices.Clone(f.Products), f.ListErr
}

func (f *fakeProductRepo) Get(_ context.Context, id string) (*models.Product, error) {
	for _, p := range f.Products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

type fakePaymentRepo struct {
	Order     models.PaymentOrder
	CreateErr error

	Result    models.VerificationResult
	VerifyErr error

	CreateCalls      int
	VerifyCalls      int
	LastAmount       decimal.Decimal
	LastLocalID      string
	LastVerification models.PaymentVerification
}

func (f *fakePaymentRepo) CreateOrder(_ context.Context, amount decimal.Decimal, localID string) (models.PaymentOrder, error) {
	f.CreateCalls++
	f.LastAmount, f.LastLocalID = amount, localID
	if f.CreateErr != nil {
		return models.PaymentOrder{}, f.CreateErr
	}
	o := f.Order
	o.LocalOrderID = localID
	return o, nil
}

func (f *fakePaymentRepo) Verify(_ context.Context, v models.PaymentVerification) (models.VerificationResult, error) {
	f.VerifyCalls++
	f.LastVerification = v
	return f.Result, f.VerifyErr
}

type fakeGateway struct {
	Success   gateway.Success
	Err       error
	Calls     int
	LastOrder models.PaymentOrder
}

func (f *fakeGateway) Open(_ context.Context, o models.PaymentOrder) (gateway.Success, error) {
	f.Calls++
	f.LastOrder = o
	return f.Success, f.Err
}

type fakeAuthRepo struct {
	Session     models.Session
	LoginErr    error
	RegisterErr error
	LogoutErr   error
	RefreshErr  error
	User        models.User
	MeErr       error

	LastEmail   string
	LastRefresh string
	LogoutCalls int
}

func (f *fakeAuthRepo) Login(_ context.Context, email, _ string) (models.Session, error) {
	f.LastEmail = email
	return f.Session, f.LoginErr
}

func (f *fakeAuthRepo) Register(_ context.Context, _, email, _ string) (models.Session, error) {
	f.LastEmail = email
	return f.Session, f.RegisterErr
}

func (f *fakeAuthRepo) Logout(_ context.Context, rt string) error {
	f.LogoutCalls++
	f.LastRefresh = rt
	return f.LogoutErr
}

func (f *fakeAuthRepo) Refresh(_ context.Context, rt string) (models.Session, error) {
	f.LastRefresh = rt
	return f.Session, f.RefreshErr
}

func (f *fakeAuthRepo) Me(context.Context) (models.User, error) {
	return f.User, f.MeErr
}

// fakeSessions is an in-memory SessionStore.
type fakeSessions struct {
	Session       models.Session
	Authenticated bool
	SaveErr       error
	Cleared       bool
}

func (f *fakeSessions) Save(_ context.Context, s models.Session) error {
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.Session = s
	f.Authenticated = s.Tokens.Access.Token != ""
	f.Cleared = false
	return nil
}

func (f *fakeSessions) UpdateTokens(_ context.Context, p models.TokenPair) error {
	f.Session.Tokens = p
	f.Authenticated = p.Access.Token != ""
	return nil
}

func (f *fakeSessions) UpdateUser(_ context.Context, u models.User) error {
	f.Session.User = u
	return nil
}

func (f *fakeSessions) RefreshToken(context.Context) (string, error) {
	return f.Session.Tokens.Refresh.Token, nil
}

func (f *fakeSessions) IsAuthenticated(context.Context) bool {
	return f.Authenticated
}

func (f *fakeSessions) CurrentUser(context.Context) (*models.User, error) {
	if f.Session.User.ID == "" {
		return nil, nil
	}
	u := f.Session.User
	return &u, nil
}

func (f *fakeSessions) Clear(context.Context) error {
	f.Session = models.Session{}
	f.Authenticated = false
	f.Cleared = true
	return nil
}
