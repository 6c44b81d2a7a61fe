package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokens struct {
	mu      sync.Mutex
	access  string
	refresh string
	updates int
	err     error
}

func (f *fakeTokens) AccessToken(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.access, f.err
}

func (f *fakeTokens) RefreshToken(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refresh, f.err
}

func (f *fakeTokens) UpdateTokens(_ context.Context, p models.TokenPair) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access = p.Access.Token
	f.refresh = p.Refresh.Token
	f.updates++
	return nil
}

// fakeAPI accepts only "Bearer <valid>" and rotates tokens on refresh.
type fakeAPI struct {
	mu        sync.Mutex
	valid     string
	refreshes atomic.Int32
	onRefresh func()
	lastAuth  map[string]string
	lastBody  map[string]json.RawMessage
}

func newFakeAPI(valid string) *fakeAPI {
	return &fakeAPI{valid: valid, lastAuth: map[string]string{}, lastBody: map[string]json.RawMessage{}}
}

func (f *fakeAPI) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := r.Method + " " + r.URL.Path
	f.lastAuth[key] = r.Header.Get("Authorization")
	var raw json.RawMessage
	if json.NewDecoder(r.Body).Decode(&raw) == nil {
		f.lastBody[key] = raw
	}
}

func (f *fakeAPI) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		ok := r.Header.Get("Authorization") == "Bearer "+f.valid
		f.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Please authenticate"})
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func authBody(access, refresh string) map[string]any {
	return map[string]any{
		"user": map[string]any{"id": "u1", "name": "Jane", "email": "jane@example.com", "isEmailVerified": true},
		"tokens": map[string]any{
			"access":  map[string]any{"token": access, "expires": "2030-01-01T00:00:00.000Z"},
			"refresh": map[string]any{"token": refresh, "expires": "2030-02-01T00:00:00.000Z"},
		},
	}
}

func (f *fakeAPI) router() http.Handler {
	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			f.record(r)
			writeJSON(w, http.StatusOK, authBody("a1", "r1"))
		})
		r.Post("/auth/refresh-tokens", func(w http.ResponseWriter, r *http.Request) {
			f.record(r)
			if f.onRefresh != nil {
				f.onRefresh()
			}
			time.Sleep(20 * time.Millisecond)
			f.refreshes.Add(1)
			f.mu.Lock()
			f.valid = "fresh"
			f.mu.Unlock()
			writeJSON(w, http.StatusOK, authBody("fresh", "r2"))
		})
		r.Get("/users/me", f.authed(func(w http.ResponseWriter, r *http.Request) {
			f.record(r)
			writeJSON(w, http.StatusOK, map[string]any{"_id": map[string]string{"$oid": "u1"}, "name": "Jane"})
		}))
		r.Get("/cart", f.authed(func(w http.ResponseWriter, r *http.Request) {
			f.record(r)
			writeJSON(w, http.StatusOK, map[string]any{
				"results": []any{map[string]any{
					"_id":      map[string]string{"$oid": "c1"},
					"title":    "Mug",
					"product":  map[string]any{"id": "p1", "title": "Mug", "images": []any{map[string]string{"src": "mug.png"}}},
					"mrp":      20,
					"discount": "10",
					"brand":    "Acme",
					"count":    2,
					"user":     map[string]any{"_id": map[string]string{"$oid": "u1"}},
				}},
				"page": 1, "limit": "10", "totalPages": 1, "totalResults": 1,
			})
		}))
		r.Post("/cart", f.authed(func(w http.ResponseWriter, r *http.Request) {
			f.record(r)
			writeJSON(w, http.StatusCreated, map[string]any{"id": "c2", "title": "Mug", "count": 1, "mrp": "20", "discount": ""})
		}))
		r.Put("/cart/{id}", f.authed(func(w http.ResponseWriter, r *http.Request) {
			f.record(r)
			writeJSON(w, http.StatusOK, map[string]any{})
		}))
		r.Delete("/cart/{id}", f.authed(func(w http.ResponseWriter, r *http.Request) {
			f.record(r)
			w.WriteHeader(http.StatusNoContent)
		}))
		r.Get("/address", f.authed(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": []any{map[string]any{"id": "a1", "fullName": "Jane"}}, "status": 200})
		}))
		r.Delete("/address/{id}", f.authed(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Address not found"})
		}))
		r.Get("/wishlist", f.authed(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"results": []any{
					map[string]any{"_id": map[string]string{"$oid": "w1"}, "title": "Gone", "product": nil, "mrp": 5, "discount": "", "user": map[string]any{"id": "u1"}},
				},
				"page": 1, "limit": "", "totalResults": 1,
			})
		}))
		r.Post("/payments/create-order", f.authed(func(w http.ResponseWriter, r *http.Request) {
			f.record(r)
			writeJSON(w, http.StatusOK, map[string]any{
				"code": 200, "message": "ok",
				"data": map[string]any{"razorpayOrderId": "order_1", "amount": 5567, "currency": "INR", "orderId": "local-1", "key": "rzp_test"},
			})
		}))
		r.Post("/payments/verify", f.authed(func(w http.ResponseWriter, r *http.Request) {
			f.record(r)
			writeJSON(w, http.StatusOK, map[string]any{"code": 200, "message": "Payment verified"})
		}))
	})
	return r
}

func newTestClient(t *testing.T, api *fakeAPI, tokens *fakeTokens) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(api.router())
	t.Cleanup(srv.Close)
	c, err := NewHTTPClient(srv.URL+"/v1/", 5*time.Second, tokens)
	require.NoError(t, err)
	return c
}

func TestNewHTTPClient_RejectsRelativeBase(t *testing.T) {
	_, err := NewHTTPClient("/v1/", time.Second, &fakeTokens{})
	require.Error(t, err)
}

func TestLogin_NoBearerOnPublicEndpoint(t *testing.T) {
	api := newFakeAPI("a1")
	c := newTestClient(t, api, &fakeTokens{access: "stale"})

	s, err := c.Login(context.Background(), "jane@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "a1", s.Tokens.Access.Token)
	assert.Equal(t, "r1", s.Tokens.Refresh.Token)
	assert.Equal(t, "u1", s.User.ID)
	assert.True(t, s.User.IsEmailVerified)
	assert.Empty(t, api.lastAuth["POST /v1/auth/login"])
	assert.JSONEq(t, `{"email":"jane@example.com","password":"secret"}`, string(api.lastBody["POST /v1/auth/login"]))
}

func TestRelativePaths_ResolveAgainstBase(t *testing.T) {
	api := newFakeAPI("tok")
	c := newTestClient(t, api, &fakeTokens{access: "tok"})
	ctx := context.Background()

	u, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Bearer tok", api.lastAuth["GET /v1/users/me"])

	order, err := c.CreatePaymentOrder(ctx, decimal.RequireFromString("55.67"), "local-1")
	require.NoError(t, err)
	assert.Equal(t, "order_1", order.GatewayOrderID)
	assert.Equal(t, int64(5567), order.AmountMinor)
	assert.Equal(t, "local-1", order.LocalOrderID)
	assert.JSONEq(t, `{"amount":55.67,"orderId":"local-1"}`, string(api.lastBody["POST /v1/payments/create-order"]))

	res, err := c.VerifyPayment(ctx, models.PaymentVerification{GatewayOrderID: "order_1", GatewayPaymentID: "pay_1", Signature: "sig", LocalOrderID: "local-1"})
	require.NoError(t, err)
	assert.Equal(t, "Payment verified", res.Message)
	assert.JSONEq(t,
		`{"razorpayOrderId":"order_1","razorpayPaymentId":"pay_1","razorpaySignature":"sig","orderId":"local-1"}`,
		string(api.lastBody["POST /v1/payments/verify"]))
}

func TestCart_WireMapping(t *testing.T) {
	api := newFakeAPI("tok")
	c := newTestClient(t, api, &fakeTokens{access: "tok"})
	ctx := context.Background()

	lines, err := c.ListCart(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	l := lines[0]
	assert.Equal(t, "c1", l.ID)
	assert.Equal(t, "p1", l.ProductID)
	assert.Equal(t, "mug.png", l.ProductImage)
	assert.Equal(t, 2, l.Quantity)
	assert.Equal(t, "u1", l.UserID)
	assert.True(t, l.UnitPrice().Equal(decimal.NewFromInt(18)))

	require.NoError(t, c.UpdateCartLine(ctx, "c1", 3))
	assert.JSONEq(t, `{"count":3}`, string(api.lastBody["PUT /v1/cart/c1"]))

	require.NoError(t, c.DeleteCartLine(ctx, "c1"))

	p := models.Product{ID: "p1", Title: "Mug", MRP: decimal.NewFromInt(20), Discount: models.DiscountOrZero("10")}
	added, err := c.AddToCart(ctx, p, 1)
	require.NoError(t, err)
	assert.Equal(t, "c2", added.ID)
	assert.JSONEq(t,
		`{"product":{"id":"p1","title":"Mug","mrp":20.00,"discount":"10","brand":"N/A"},"quantity":1}`,
		string(api.lastBody["POST /v1/cart"]))
}

func TestWishlist_DanglingProduct(t *testing.T) {
	c := newTestClient(t, newFakeAPI("tok"), &fakeTokens{access: "tok"})

	list, err := c.ListWishlist(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "w1", list[0].ID)
	assert.True(t, list[0].Dangling())
	assert.Equal(t, "N/A", list[0].Brand)
}

func TestStatusError_MessageFromBody(t *testing.T) {
	c := newTestClient(t, newFakeAPI("tok"), &fakeTokens{access: "tok"})

	err := c.DeleteAddress(context.Background(), "a1")
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, "Address not found", se.Message)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestAddressEnvelope(t *testing.T) {
	c := newTestClient(t, newFakeAPI("tok"), &fakeTokens{access: "tok"})

	list, err := c.ListAddresses(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a1", list[0].ID)
}

func TestUnauthorized_RefreshesAndRetries(t *testing.T) {
	api := newFakeAPI("current")
	tokens := &fakeTokens{access: "expired", refresh: "r1"}
	c := newTestClient(t, api, tokens)

	_, err := c.ListCart(context.Background(), 0, 0)
	require.NoError(t, err)

	assert.Equal(t, int32(1), api.refreshes.Load())
	assert.Equal(t, "fresh", tokens.access)
	assert.Equal(t, "r2", tokens.refresh)
	assert.Equal(t, "Bearer fresh", api.lastAuth["GET /v1/cart"])
	assert.Empty(t, api.lastAuth["POST /v1/auth/refresh-tokens"])
	assert.JSONEq(t, `{"refreshToken":"r1"}`, string(api.lastBody["POST /v1/auth/refresh-tokens"]))
}

func TestUnauthorized_ConcurrentRequestsShareOneRefresh(t *testing.T) {
	api := newFakeAPI("current")
	tokens := &fakeTokens{access: "expired", refresh: "r1"}
	c := newTestClient(t, api, tokens)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.ListCart(context.Background(), 0, 0)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), api.refreshes.Load())
	assert.Equal(t, 1, tokens.updates)
}

func TestUnauthorized_CancelledCallerDoesNotFailSharedRefresh(t *testing.T) {
	api := newFakeAPI("current")
	tokens := &fakeTokens{access: "expired", refresh: "r1"}

	leaderCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	started := make(chan struct{})
	var once sync.Once
	api.onRefresh = func() {
		once.Do(func() {
			close(started)
			cancel()
		})
	}
	c := newTestClient(t, api, tokens)

	leaderErr := make(chan error, 1)
	go func() {
		_, err := c.ListCart(leaderCtx, 0, 0)
		leaderErr <- err
	}()

	<-started
	_, err := c.ListCart(context.Background(), 0, 0)
	require.NoError(t, err)

	err = <-leaderErr
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrUnauthorized)

	assert.Equal(t, int32(1), api.refreshes.Load())
	tokens.mu.Lock()
	defer tokens.mu.Unlock()
	assert.Equal(t, "fresh", tokens.access)
}

func TestUnauthorized_NoRefreshToken(t *testing.T) {
	api := newFakeAPI("current")
	c := newTestClient(t, api, &fakeTokens{access: "expired"})

	_, err := c.ListCart(context.Background(), 0, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(0), api.refreshes.Load())
}

func TestUnauthorized_RefreshFails(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/v1/cart", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Please authenticate"})
	})
	r.Post("/v1/auth/refresh-tokens", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Please authenticate"})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	tokens := &fakeTokens{access: "expired", refresh: "revoked"}
	c, err := NewHTTPClient(srv.URL+"/v1", time.Second, tokens)
	require.NoError(t, err)

	_, err = c.ListCart(context.Background(), 0, 0)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 0, tokens.updates)
}

func TestTransportFailure_IsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewHTTPClient(url+"/v1/", time.Second, &fakeTokens{access: "tok"})
	require.NoError(t, err)

	_, err = c.ListProducts(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestTimeout_IsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL+"/v1/", 50*time.Millisecond, &fakeTokens{access: "tok"})
	require.NoError(t, err)

	_, err = c.ListProducts(context.Background())
	require.ErrorIs(t, err, ErrTimeout)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestBadJSON_IsBadResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL+"/v1/", time.Second, &fakeTokens{access: "tok"})
	require.NoError(t, err)

	_, err = c.GetProduct(context.Background(), "p1")
	require.ErrorIs(t, err, ErrBadResponse)
}
