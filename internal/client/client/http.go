package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"golang.org/x/sync/singleflight"
)

const (
	maxResponseBytes      = 4 << 20
	defaultRefreshTimeout = 30 * time.Second
)

// Endpoints that must never carry a bearer token.
var publicPaths = []string{"auth/login", "auth/register", "auth/refresh-tokens"}

var errNoRefreshToken = errors.New("no refresh token")

// HTTPClient talks to the storefront REST API.
//
// It attaches the access token from the TokenStore to every request except
// the public auth endpoints. A 401 on an authenticated request triggers one
// token refresh (shared by all requests that hit 401 at the same time) and a
// single retry with the new token. The shared refresh is not tied to the
// context of the request that started it; each waiter gives up on its own
// context instead.
type HTTPClient struct {
	base           *url.URL
	http           *http.Client
	tokens         TokenStore
	log            logging.Logger
	refresh        singleflight.Group
	refreshTimeout time.Duration
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client. The timeout passed to
// NewHTTPClient is not applied to it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// NewHTTPClient creates a client for baseURL (e.g. http://host:3501/v1/).
// Absolute request paths like /v1/cart resolve against the host, relative
// ones like payments/verify against baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenStore, opts ...Option) (*HTTPClient, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &HTTPClient{
		base:           u,
		http:           &http.Client{Timeout: timeout},
		tokens:         tokens,
		log:            logging.Nop(),
		refreshTimeout: timeout,
	}
	if c.refreshTimeout <= 0 {
		c.refreshTimeout = defaultRefreshTimeout
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *HTTPClient) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", path, err)
	}
	return c.base.ResolveReference(ref), nil
}

func isPublic(path string) bool {
	for _, p := range publicPaths {
		if strings.HasSuffix(path, p) {
			return true
		}
	}
	return false
}

// do performs one API call. in is JSON-encoded when non-nil; out is decoded
// from a 2xx body when non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	u, err := c.resolve(path)
	if err != nil {
		return err
	}

	var body []byte
	if in != nil {
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	public := isPublic(u.Path)
	var token string
	if !public {
		token, err = c.tokens.AccessToken(ctx)
		if err != nil {
			return fmt.Errorf("read access token: %w", err)
		}
	}

	resp, err := c.send(ctx, method, u, body, token)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && !public {
		drain(resp)
		fresh, rerr := c.refreshAfter(ctx, token)
		if rerr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(rerr, errNoRefreshToken) {
				return &StatusError{Code: http.StatusUnauthorized, Message: "not signed in"}
			}
			c.log.Warn(ctx, "token refresh failed", "error", rerr)
			return fmt.Errorf("%w: token refresh failed: %v", ErrUnauthorized, rerr)
		}
		resp, err = c.send(ctx, method, u, body, fresh)
		if err != nil {
			return err
		}
	}
	defer drain(resp)

	return decode(resp, out)
}

func (c *HTTPClient) send(ctx context.Context, method string, u *url.URL, body []byte, token string) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "url", u.Path, "error", err)
		return nil, mapTransportError(ctx, err)
	}
	c.log.Debug(ctx, "request", "method", method, "url", u.Path, "status", resp.StatusCode, "elapsed", time.Since(start))
	return resp, nil
}

func mapTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// refreshAfter returns a usable access token after stale was rejected.
// If another request already refreshed, the stored token differs from stale
// and is returned without another round trip.
func (c *HTTPClient) refreshAfter(ctx context.Context, stale string) (string, error) {
	ch := c.refresh.DoChan("refresh", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
		defer cancel()
		return c.refreshTokens(rctx, stale)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return "", r.Err
		}
		return r.Val.(string), nil
	}
}

func (c *HTTPClient) refreshTokens(ctx context.Context, stale string) (string, error) {
	current, err := c.tokens.AccessToken(ctx)
	if err == nil && current != "" && current != stale {
		return current, nil
	}

	rt, err := c.tokens.RefreshToken(ctx)
	if err != nil {
		return "", fmt.Errorf("read refresh token: %w", err)
	}
	if rt == "" {
		return "", errNoRefreshToken
	}

	s, err := c.RefreshTokens(ctx, rt)
	if err != nil {
		return "", err
	}
	if err := c.tokens.UpdateTokens(ctx, s.Tokens); err != nil {
		return "", fmt.Errorf("store refreshed tokens: %w", err)
	}
	c.log.Info(ctx, "access token refreshed")
	return s.Tokens.Access.Token, nil
}

func decode(resp *http.Response, out any) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Code: resp.StatusCode}
		var m messageResponse
		if json.Unmarshal(data, &m) == nil {
			se.Message = m.Message
		}
		return se
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: empty body", ErrBadResponse)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
}
