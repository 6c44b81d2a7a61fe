package client

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/shopspring/decimal"
)

// TokenStore is the part of the session store the API client needs:
// the current pair and a way to persist a refreshed one.
type TokenStore interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	UpdateTokens(ctx context.Context, pair models.TokenPair) error
}

type AuthAPI interface {
	Login(ctx context.Context, email, password string) (models.Session, error)
	Register(ctx context.Context, name, email, password string) (models.Session, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshTokens(ctx context.Context, refreshToken string) (models.Session, error)
	Me(ctx context.Context) (models.User, error)
}

type ProductAPI interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
}

type CartAPI interface {
	// ListCart fetches one page; page or limit <= 0 leaves the server default.
	ListCart(ctx context.Context, page, limit int) ([]models.CartLine, error)
	AddToCart(ctx context.Context, p models.Product, quantity int) (models.CartLine, error)
	UpdateCartLine(ctx context.Context, id string, quantity int) error
	DeleteCartLine(ctx context.Context, id string) error
}

type AddressAPI interface {
	ListAddresses(ctx context.Context) ([]models.Address, error)
	ListAddressesByUser(ctx context.Context, userID string) ([]models.Address, error)
	CreateAddress(ctx context.Context, a models.Address) (models.Address, error)
	UpdateAddress(ctx context.Context, id string, a models.Address) (models.Address, error)
	DeleteAddress(ctx context.Context, id string) error
}

type WishlistAPI interface {
	ListWishlist(ctx context.Context) ([]models.WishlistEntry, error)
	AddToWishlist(ctx context.Context, p models.Product) (models.WishlistEntry, error)
	RemoveFromWishlist(ctx context.Context, id string) error
}

type PaymentAPI interface {
	CreatePaymentOrder(ctx context.Context, amount decimal.Decimal, localOrderID string) (models.PaymentOrder, error)
	VerifyPayment(ctx context.Context, v models.PaymentVerification) (models.VerificationResult, error)
}

// API is the full storefront surface.
type API interface {
	AuthAPI
	ProductAPI
	CartAPI
	AddressAPI
	WishlistAPI
	PaymentAPI
}

var _ API = (*HTTPClient)(nil)
