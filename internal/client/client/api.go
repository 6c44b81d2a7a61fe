package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/shopspring/decimal"
)

func (c *HTTPClient) Login(ctx context.Context, email, password string) (models.Session, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return models.Session{}, err
	}
	return resp.toModel(), nil
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (models.Session, error) {
	var resp authResponse
	req := registerRequest{Name: name, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/register", req, &resp); err != nil {
		return models.Session{}, err
	}
	return resp.toModel(), nil
}

func (c *HTTPClient) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/logout", refreshTokenRequest{RefreshToken: refreshToken}, nil)
}

func (c *HTTPClient) RefreshTokens(ctx context.Context, refreshToken string) (models.Session, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/refresh-tokens", refreshTokenRequest{RefreshToken: refreshToken}, &resp); err != nil {
		return models.Session{}, err
	}
	return resp.toModel(), nil
}

func (c *HTTPClient) Me(ctx context.Context) (models.User, error) {
	var resp userDTO
	if err := c.do(ctx, http.MethodGet, "users/me", nil, &resp); err != nil {
		return models.User{}, err
	}
	return resp.toModel(), nil
}

func (c *HTTPClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	var resp pageResponse[productDTO]
	if err := c.do(ctx, http.MethodGet, "/v1/product", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(resp.Results))
	for _, p := range resp.Results {
		out = append(out, p.toModel())
	}
	return out, nil
}

func (c *HTTPClient) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var resp productDTO
	if err := c.do(ctx, http.MethodGet, "/v1/product/"+url.PathEscape(id), nil, &resp); err != nil {
		return models.Product{}, err
	}
	return resp.toModel(), nil
}

func (c *HTTPClient) ListCart(ctx context.Context, page, limit int) ([]models.CartLine, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/v1/cart"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp pageResponse[cartLineDTO]
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]models.CartLine, 0, len(resp.Results))
	for _, l := range resp.Results {
		out = append(out, l.toModel())
	}
	return out, nil
}

func (c *HTTPClient) AddToCart(ctx context.Context, p models.Product, quantity int) (models.CartLine, error) {
	req := addToCartRequest{
		Product: cartProductRequest{
			ID:       p.ID,
			Title:    p.Title,
			MRP:      money(p.MRP),
			Discount: p.Discount,
			Brand:    p.BrandName(),
		},
		Quantity: quantity,
	}
	var resp cartLineDTO
	if err := c.do(ctx, http.MethodPost, "/v1/cart", req, &resp); err != nil {
		return models.CartLine{}, err
	}
	return resp.toModel(), nil
}

// UpdateCartLine sets the absolute quantity. The response body is ignored;
// callers reload the cart.
func (c *HTTPClient) UpdateCartLine(ctx context.Context, id string, quantity int) error {
	return c.do(ctx, http.MethodPut, "/v1/cart/"+url.PathEscape(id), updateCartRequest{Count: quantity}, nil)
}

func (c *HTTPClient) DeleteCartLine(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/cart/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) ListAddresses(ctx context.Context) ([]models.Address, error) {
	var resp envelope[[]models.Address]
	if err := c.do(ctx, http.MethodGet, "/v1/address", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		code := resp.Status
		if code < 400 {
			code = http.StatusInternalServerError
		}
		return nil, &StatusError{Code: code, Message: resp.Message}
	}
	return resp.Data, nil
}

func (c *HTTPClient) ListAddressesByUser(ctx context.Context, userID string) ([]models.Address, error) {
	var resp []models.Address
	if err := c.do(ctx, http.MethodGet, "/v1/address/user/"+url.PathEscape(userID), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *HTTPClient) CreateAddress(ctx context.Context, a models.Address) (models.Address, error) {
	var resp models.Address
	if err := c.do(ctx, http.MethodPost, "/v1/address", a, &resp); err != nil {
		return models.Address{}, err
	}
	return resp, nil
}

func (c *HTTPClient) UpdateAddress(ctx context.Context, id string, a models.Address) (models.Address, error) {
	var resp models.Address
	if err := c.do(ctx, http.MethodPatch, "/v1/address/"+url.PathEscape(id), a, &resp); err != nil {
		return models.Address{}, err
	}
	return resp, nil
}

func (c *HTTPClient) DeleteAddress(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/address/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) ListWishlist(ctx context.Context) ([]models.WishlistEntry, error) {
	var resp pageResponse[wishlistDTO]
	if err := c.do(ctx, http.MethodGet, "/v1/wishlist", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]models.WishlistEntry, 0, len(resp.Results))
	for _, w := range resp.Results {
		out = append(out, w.toModel())
	}
	return out, nil
}

func (c *HTTPClient) AddToWishlist(ctx context.Context, p models.Product) (models.WishlistEntry, error) {
	req := addToWishlistRequest{
		Title:    p.Title,
		Product:  p.ID,
		MRP:      money(p.MRP),
		Discount: p.Discount,
		Brand:    p.BrandName(),
		Image:    p.FirstImage(),
	}
	var resp wishlistDTO
	if err := c.do(ctx, http.MethodPost, "/v1/wishlist", req, &resp); err != nil {
		return models.WishlistEntry{}, err
	}
	return resp.toModel(), nil
}

func (c *HTTPClient) RemoveFromWishlist(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/wishlist/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) CreatePaymentOrder(ctx context.Context, amount decimal.Decimal, localOrderID string) (models.PaymentOrder, error) {
	var resp paymentOrderResponse
	req := paymentOrderRequest{Amount: money(amount), OrderID: localOrderID}
	if err := c.do(ctx, http.MethodPost, "payments/create-order", req, &resp); err != nil {
		return models.PaymentOrder{}, err
	}
	if resp.Data == nil || resp.Data.GatewayOrderID == "" {
		return models.PaymentOrder{}, fmt.Errorf("%w: payment order without data", ErrBadResponse)
	}

	d := resp.Data
	order := models.PaymentOrder{
		LocalOrderID:   d.OrderID,
		GatewayOrderID: d.GatewayOrderID,
		AmountMinor:    d.Amount,
		Currency:       d.Currency,
		GatewayKey:     d.Key,
		CustomerEmail:  d.CustomerEmail,
		CustomerPhone:  d.CustomerPhone,
		CustomerName:   d.CustomerName,
	}
	if order.LocalOrderID == "" {
		order.LocalOrderID = localOrderID
	}
	return order, nil
}

func (c *HTTPClient) VerifyPayment(ctx context.Context, v models.PaymentVerification) (models.VerificationResult, error) {
	req := paymentVerifyRequest{
		GatewayOrderID:   v.GatewayOrderID,
		GatewayPaymentID: v.GatewayPaymentID,
		Signature:        v.Signature,
		OrderID:          v.LocalOrderID,
	}
	var resp paymentVerifyResponse
	if err := c.do(ctx, http.MethodPost, "payments/verify", req, &resp); err != nil {
		return models.VerificationResult{}, err
	}
	return models.VerificationResult{Code: resp.Code, Message: resp.Message}, nil
}
