package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/client/services"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/shopspring/decimal"
)

type fakeProducts struct {
	list []models.Product
}

func (f *fakeProducts) List(context.Context) ([]models.Product, error) {
	return slices.Clone(f.list), nil
}

func (f *fakeProducts) Get(_ context.Context, id string) (*models.Product, error) {
	for _, p := range f.list {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

type fakeCart struct {
	lines   []models.CartLine
	seq     int
	listErr error
}

func (f *fakeCart) List(context.Context) ([]models.CartLine, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return slices.Clone(f.lines), nil
}

func (f *fakeCart) Add(_ context.Context, p models.Product, q int) (models.CartLine, error) {
	f.seq++
	l := models.CartLine{ID: fmt.Sprintf("line-%d", f.seq), ProductID: p.ID, Title: p.Title, MRP: p.MRP, Discount: p.Discount, Quantity: q}
	f.lines = append(f.lines, l)
	return l, nil
}

func (f *fakeCart) UpdateQuantity(_ context.Context, id string, q int) error {
	for i := range f.lines {
		if f.lines[i].ID == id {
			f.lines[i].Quantity = q
		}
	}
	return nil
}

func (f *fakeCart) Remove(_ context.Context, id string) error {
	f.lines = slices.DeleteFunc(f.lines, func(l models.CartLine) bool { return l.ID == id })
	return nil
}

type fakeAddresses struct {
	list []models.Address
	seq  int
}

func (f *fakeAddresses) List(context.Context) ([]models.Address, error) {
	return slices.Clone(f.list), nil
}

func (f *fakeAddresses) ListByUser(context.Context, string) ([]models.Address, error) {
	return slices.Clone(f.list), nil
}

func (f *fakeAddresses) Create(_ context.Context, a models.Address) (models.Address, error) {
	f.seq++
	a.ID = fmt.Sprintf("addr-%d", f.seq)
	f.list = append(f.list, a)
	return a, nil
}

func (f *fakeAddresses) Update(_ context.Context, id string, a models.Address) (models.Address, error) {
	a.ID = id
	if i := models.FindAddress(f.list, id); i >= 0 {
		f.list[i] = a
	}
	return a, nil
}

func (f *fakeAddresses) Delete(_ context.Context, id string) error {
	f.list = slices.DeleteFunc(f.list, func(a models.Address) bool { return a.ID == id })
	return nil
}

type fakeWishlist struct {
	entries []models.WishlistEntry
}

func (f *fakeWishlist) List(context.Context) ([]models.WishlistEntry, error) {
	return slices.Clone(f.entries), nil
}

func (f *fakeWishlist) Add(_ context.Context, p models.Product) (models.WishlistEntry, error) {
	e := models.WishlistEntry{ID: "w-" + p.ID, ProductID: p.ID, Title: p.Title, MRP: p.MRP}
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeWishlist) Remove(_ context.Context, id string) error {
	f.entries = slices.DeleteFunc(f.entries, func(e models.WishlistEntry) bool { return e.ID == id })
	return nil
}

type fakePayments struct {
	createErr   error
	verifyErr   error
	createCalls int
	verifyCalls int
	last        models.PaymentVerification
}

func (f *fakePayments) CreateOrder(_ context.Context, amount decimal.Decimal, localID string) (models.PaymentOrder, error) {
	f.createCalls++
	if f.createErr != nil {
		return models.PaymentOrder{}, f.createErr
	}
	return models.PaymentOrder{
		LocalOrderID:   localID,
		GatewayOrderID: fmt.Sprintf("order_%d", f.createCalls),
		AmountMinor:    amount.Shift(2).Round(0).IntPart(),
		Currency:       "INR",
	}, nil
}

func (f *fakePayments) Verify(_ context.Context, v models.PaymentVerification) (models.VerificationResult, error) {
	f.verifyCalls++
	f.last = v
	if f.verifyErr != nil {
		return models.VerificationResult{}, f.verifyErr
	}
	return models.VerificationResult{Code: 200, Message: "Payment verified"}, nil
}

type fakeAuth struct {
	session  models.Session
	loginErr error
	logouts  int
}

func (f *fakeAuth) Login(context.Context, string, string) (models.Session, error) {
	return f.session, f.loginErr
}

func (f *fakeAuth) Register(context.Context, string, string, string) (models.Session, error) {
	return f.session, f.loginErr
}

func (f *fakeAuth) Logout(context.Context, string) error {
	f.logouts++
	return nil
}

func (f *fakeAuth) Refresh(context.Context, string) (models.Session, error) {
	return f.session, nil
}

func (f *fakeAuth) Me(context.Context) (models.User, error) {
	return f.session.User, nil
}

type memSessions struct {
	s models.Session
}

func (m *memSessions) Save(_ context.Context, s models.Session) error {
	m.s = s
	return nil
}

func (m *memSessions) UpdateTokens(_ context.Context, p models.TokenPair) error {
	m.s.Tokens = p
	return nil
}

func (m *memSessions) UpdateUser(_ context.Context, u models.User) error {
	m.s.User = u
	return nil
}

func (m *memSessions) RefreshToken(context.Context) (string, error) {
	return m.s.Tokens.Refresh.Token, nil
}

func (m *memSessions) IsAuthenticated(context.Context) bool {
	return m.s.Tokens.Access.Token != ""
}

func (m *memSessions) Clear(context.Context) error {
	m.s = models.Session{}
	return nil
}

func (m *memSessions) CurrentUser(context.Context) (*models.User, error) {
	if m.s.User.ID == "" {
		return nil, nil
	}
	u := m.s.User
	return &u, nil
}

type testDeps struct {
	products  *fakeProducts
	cart      *fakeCart
	addresses *fakeAddresses
	wishlist  *fakeWishlist
	payments  *fakePayments
	auth      *fakeAuth
	sessions  *memSessions
	out       *bytes.Buffer
}

var shoe = models.Product{ID: "p1", Title: "Shoe", MRP: decimal.NewFromInt(40), InStock: true}

func validForm() models.Address {
	return models.Address{
		ID:           "a1",
		UserID:       "u1",
		FullName:     "Jane Doe",
		Email:        "jane@example.com",
		ConfirmEmail: "jane@example.com",
		Line1:        "1 Main St",
		City:         "Springfield",
		State:        "IL",
		PostalCode:   "62701",
		Country:      "US",
		Phone:        "5551234567",
	}
}

// newTestApp builds an App on real state holders over in-memory
// repositories. input feeds both command prompts and the payment gateway.
func newTestApp(t *testing.T, input string) (*App, *testDeps) {
	t.Helper()
	d := &testDeps{
		products:  &fakeProducts{list: []models.Product{shoe}},
		cart:      &fakeCart{},
		addresses: &fakeAddresses{},
		wishlist:  &fakeWishlist{},
		payments:  &fakePayments{},
		auth: &fakeAuth{session: models.Session{
			Tokens: models.TokenPair{Access: models.Token{Token: "acc"}, Refresh: models.Token{Token: "ref"}},
			User:   models.User{ID: "u1", Name: "Jane", Email: "jane@example.com"},
		}},
		sessions: &memSessions{},
		out:      &bytes.Buffer{},
	}
	log := logging.Nop()
	reader := bufio.NewReader(strings.NewReader(input))
	a := &App{
		log:      log,
		reader:   reader,
		out:      d.out,
		gateway:  NewTerminalGateway(reader, d.out),
		auth:     services.NewAuthService(d.auth, d.sessions, log),
		products: services.NewProductService(d.products, log),
		cart:     services.NewCartService(d.cart, log),
		wishlist: services.NewWishlistService(d.wishlist, log),
		checkout: services.NewCheckoutService(d.addresses, d.cart, d.sessions, log),
		payment:  services.NewPaymentService(d.payments, log),
	}
	return a, d
}

// login signs the test app in without touching the prompts.
func login(t *testing.T, a *App) {
	t.Helper()
	if err := a.auth.Login(context.Background(), "jane@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
}
