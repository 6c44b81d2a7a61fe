// Package auth is the remote authentication repository.
package auth

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/client/client"
	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/client/repositories"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

type Repository interface {
	Login(ctx context.Context, email, password string) (models.Session, error)
	Register(ctx context.Context, name, email, password string) (models.Session, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (models.Session, error)
	Me(ctx context.Context) (models.User, error)
}

var (
	loginMessages = repositories.Messages{
		Status: map[int]string{
			400: "Please enter a valid email and password",
			401: "Incorrect email or password",
		},
		Fallback: "Login failed. Check your credentials.",
	}
	registerMessages = repositories.Messages{
		Status: map[int]string{
			400: "Email already taken or invalid registration data",
			409: "Email already taken",
		},
		Fallback: "Registration failed. Email might be already in use.",
	}
	sessionMessages = repositories.Messages{
		Status: map[int]string{401: "Session expired. Please login again."},
	}
)

const minPasswordLen = 6

type RemoteRepository struct {
	api client.AuthAPI
	log logging.Logger
}

func NewRemoteRepository(api client.AuthAPI, log logging.Logger) *RemoteRepository {
	return &RemoteRepository{api: api, log: log}
}

func (r *RemoteRepository) Login(ctx context.Context, email, password string) (models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.Session{}, common.Validation("Please enter email and password")
	}
	s, err := r.api.Login(ctx, email, password)
	if err != nil {
		r.log.Warn(ctx, "login failed", "email", email, "error", err)
		return models.Session{}, repositories.Normalize(err, loginMessages)
	}
	return s, nil
}

func (r *RemoteRepository) Register(ctx context.Context, name, email, password string) (models.Session, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return models.Session{}, common.Validation("Please fill in all fields")
	}
	if len(password) < minPasswordLen {
		return models.Session{}, common.Validation("Password must be at least 6 characters")
	}
	s, err := r.api.Register(ctx, name, email, password)
	if err != nil {
		r.log.Warn(ctx, "register failed", "email", email, "error", err)
		return models.Session{}, repositories.Normalize(err, registerMessages)
	}
	return s, nil
}

func (r *RemoteRepository) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := r.api.Logout(ctx, refreshToken); err != nil {
		return repositories.Normalize(err, sessionMessages)
	}
	return nil
}

func (r *RemoteRepository) Refresh(ctx context.Context, refreshToken string) (models.Session, error) {
	if refreshToken == "" {
		return models.Session{}, common.NewUserError(common.ErrNoSession, "Please login again", nil)
	}
	s, err := r.api.RefreshTokens(ctx, refreshToken)
	if err != nil {
		return models.Session{}, repositories.Normalize(err, sessionMessages)
	}
	return s, nil
}

func (r *RemoteRepository) Me(ctx context.Context) (models.User, error) {
	u, err := r.api.Me(ctx)
	if err != nil {
		return models.User{}, repositories.Normalize(err, sessionMessages)
	}
	return u, nil
}
