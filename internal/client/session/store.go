// Package session persists the signed-in user's tokens and identity.
//
// There is one Store per process. Its values live in the local SQLite
// metadata table so a restart keeps the user signed in.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/golang-jwt/jwt/v5"
)

const (
	keyAccessToken       = "access_token"
	keyRefreshToken      = "refresh_token"
	keyAccessTokenExpiry = "access_token_expiry"
	keyUserID            = "user_id"
	keyUserEmail         = "user_email"
	keyUserName          = "user_name"
	keyIsEmailVerified   = "is_email_verified"
)

var allKeys = []string{
	keyAccessToken, keyRefreshToken, keyAccessTokenExpiry,
	keyUserID, keyUserEmail, keyUserName, keyIsEmailVerified,
}

// Store is the durable token store. Writes are serialized; reads may run
// concurrently with each other.
type Store struct {
	mu  sync.RWMutex
	db  *sql.DB
	now func() time.Time
}

type Option func(*Store)

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// Save replaces the whole session in one transaction.
func (s *Store) Save(ctx context.Context, sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := map[string]string{
		keyAccessToken:       sess.Tokens.Access.Token,
		keyRefreshToken:      sess.Tokens.Refresh.Token,
		keyAccessTokenExpiry: sess.Tokens.Access.Expires,
		keyUserID:            sess.User.ID,
		keyUserEmail:         sess.User.Email,
		keyUserName:          sess.User.Name,
		keyIsEmailVerified:   strconv.FormatBool(sess.User.IsEmailVerified),
	}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Delete(ctx, allKeys...); err != nil {
			return err
		}
		return r.SetMany(ctx, values)
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// UpdateTokens stores a refreshed pair and keeps the cached user.
func (s *Store) UpdateTokens(ctx context.Context, pair models.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repo(tx).SetMany(ctx, map[string]string{
			keyAccessToken:       pair.Access.Token,
			keyRefreshToken:      pair.Refresh.Token,
			keyAccessTokenExpiry: pair.Access.Expires,
		})
	})
	if err != nil {
		return fmt.Errorf("update tokens: %w", err)
	}
	return nil
}

// UpdateUser replaces the cached profile and keeps the tokens.
func (s *Store) UpdateUser(ctx context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repo(tx).SetMany(ctx, map[string]string{
			keyUserID:          u.ID,
			keyUserEmail:       u.Email,
			keyUserName:        u.Name,
			keyIsEmailVerified: strconv.FormatBool(u.IsEmailVerified),
		})
	})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// AccessToken returns "" when no session is stored.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, keyAccessToken)
}

func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, keyRefreshToken)
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, _, err := s.repo(s.db).Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return v, nil
}

// IsAccessTokenExpired reports whether the access token must be treated as
// expired. A missing token, an unreadable store or an unparseable expiry all
// count as expired. When no expiry string was stored the token's own exp
// claim is used.
func (s *Store) IsAccessTokenExpired(ctx context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := s.repo(s.db).GetMany(ctx, keyAccessToken, keyAccessTokenExpiry)
	if err != nil {
		return true
	}
	token := m[keyAccessToken]
	if token == "" {
		return true
	}

	exp, ok := models.ParseExpiry(m[keyAccessTokenExpiry])
	if !ok {
		if m[keyAccessTokenExpiry] != "" {
			return true
		}
		exp, ok = jwtExpiry(token)
		if !ok {
			return true
		}
	}
	return !s.now().Before(exp)
}

// jwtExpiry reads the exp claim without verifying the signature; the server
// remains the authority on validity.
func jwtExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// IsAuthenticated is true when an unexpired access token is stored.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	token, err := s.AccessToken(ctx)
	if err != nil || token == "" {
		return false
	}
	return !s.IsAccessTokenExpired(ctx)
}

// CurrentUser returns the cached user, or nil when no user id is stored.
func (s *Store) CurrentUser(ctx context.Context) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := s.repo(s.db).GetMany(ctx, keyUserID, keyUserEmail, keyUserName, keyIsEmailVerified)
	if err != nil {
		return nil, fmt.Errorf("read user: %w", err)
	}
	if m[keyUserID] == "" {
		return nil, nil
	}
	verified, _ := strconv.ParseBool(m[keyIsEmailVerified])
	return &models.User{
		ID:              m[keyUserID],
		Email:           m[keyUserEmail],
		Name:            m[keyUserName],
		IsEmailVerified: verified,
	}, nil
}

// Clear removes every session key. Other metadata is left alone.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo(s.db).Delete(ctx, allKeys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
