package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	authrepo "github.com/dmitrijs2005/storefront/internal/client/repositories/auth"
	"github.com/dmitrijs2005/storefront/internal/client/state"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

// SessionStore is the persisted session as the auth service uses it.
type SessionStore interface {
	UserSource
	Save(ctx context.Context, s models.Session) error
	UpdateTokens(ctx context.Context, pair models.TokenPair) error
	UpdateUser(ctx context.Context, u models.User) error
	RefreshToken(ctx context.Context) (string, error)
	IsAuthenticated(ctx context.Context) bool
	Clear(ctx context.Context) error
}

type AuthState struct {
	Status   Phase
	User     *models.User
	LoggedIn bool
	Message  string
}

// AuthService signs the user in and out and keeps the cached profile.
type AuthService interface {
	State() AuthState
	Subscribe(ctx context.Context) <-chan AuthState

	// Restore picks up a stored session, refreshing the tokens when the
	// access token has expired. It reports whether the user is signed in.
	Restore(ctx context.Context) (bool, error)
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, name, email, password string) error
	// Logout always clears the local session, even if the server call fails.
	Logout(ctx context.Context) error
	RefreshProfile(ctx context.Context) (models.User, error)
}

type authService struct {
	repo     authrepo.Repository
	sessions SessionStore
	log      logging.Logger
	store    *state.Store[AuthState]
}

func NewAuthService(repo authrepo.Repository, sessions SessionStore, log logging.Logger) AuthService {
	return &authService{repo: repo, sessions: sessions, log: log, store: state.NewStore(AuthState{})}
}

func (s *authService) State() AuthState {
	return s.store.Get()
}

func (s *authService) Subscribe(ctx context.Context) <-chan AuthState {
	return s.store.Subscribe(ctx)
}

func (s *authService) begin() {
	s.store.Update(func(st AuthState) AuthState {
		st.Status = PhaseLoading
		st.Message = ""
		return st
	})
}

func (s *authService) fail(err error) error {
	s.store.Update(func(st AuthState) AuthState {
		st.Status = PhaseError
		st.Message = userMessage(err)
		return st
	})
	return err
}

func (s *authService) signedIn(u *models.User, msg string) {
	s.store.Set(AuthState{Status: PhaseSuccess, User: u, LoggedIn: true, Message: msg})
}

func (s *authService) signedOut(msg string) {
	s.store.Set(AuthState{Status: PhaseIdle, Message: msg})
}

func (s *authService) Restore(ctx context.Context) (bool, error) {
	if !s.sessions.IsAuthenticated(ctx) {
		rt, err := s.sessions.RefreshToken(ctx)
		if err != nil {
			return false, s.fail(err)
		}
		if rt == "" {
			s.signedOut("")
			return false, nil
		}
		sess, err := s.repo.Refresh(ctx, rt)
		if err != nil {
			if s.rejected(ctx, err) {
				return false, nil
			}
			return false, s.fail(err)
		}
		if err := s.sessions.UpdateTokens(ctx, sess.Tokens); err != nil {
			return false, s.fail(err)
		}
	}

	u, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		return false, s.fail(err)
	}
	if u == nil {
		// tokens without a cached profile
		me, err := s.repo.Me(ctx)
		if err != nil {
			if s.rejected(ctx, err) {
				return false, nil
			}
			return false, s.fail(err)
		}
		if err := s.sessions.UpdateUser(ctx, me); err != nil {
			return false, s.fail(err)
		}
		u = &me
	}
	s.signedIn(u, "")
	return true, nil
}

// rejected signs out and drops the stored session when the server refused
// it. Other errors are left to the caller.
func (s *authService) rejected(ctx context.Context, err error) bool {
	if !errors.Is(err, common.ErrUnauthorized) && !errors.Is(err, common.ErrForbidden) {
		return false
	}
	s.log.Info(ctx, "stored session rejected, signing out", "error", err)
	_ = s.sessions.Clear(ctx)
	s.signedOut(userMessage(err))
	return true
}

func (s *authService) Login(ctx context.Context, email, password string) error {
	s.begin()
	sess, err := s.repo.Login(ctx, email, password)
	if err != nil {
		return s.fail(err)
	}
	return s.persist(ctx, sess, "Login successful")
}

func (s *authService) Register(ctx context.Context, name, email, password string) error {
	s.begin()
	sess, err := s.repo.Register(ctx, name, email, password)
	if err != nil {
		return s.fail(err)
	}
	return s.persist(ctx, sess, "Registration successful")
}

func (s *authService) persist(ctx context.Context, sess models.Session, msg string) error {
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.log.Error(ctx, "failed to persist session", "error", err)
		return s.fail(err)
	}
	u := sess.User
	s.signedIn(&u, msg)
	s.log.Info(ctx, "signed in", "user", u.ID)
	return nil
}

func (s *authService) Logout(ctx context.Context) error {
	s.begin()
	rt, err := s.sessions.RefreshToken(ctx)
	if err == nil {
		if err := s.repo.Logout(ctx, rt); err != nil {
			s.log.Warn(ctx, "server logout failed", "error", err)
		}
	}
	if err := s.sessions.Clear(ctx); err != nil {
		return s.fail(err)
	}
	s.signedOut("Logged out")
	return nil
}

func (s *authService) RefreshProfile(ctx context.Context) (models.User, error) {
	u, err := s.repo.Me(ctx)
	if err != nil {
		return models.User{}, s.fail(err)
	}
	if err := s.sessions.UpdateUser(ctx, u); err != nil {
		return models.User{}, s.fail(err)
	}
	s.store.Update(func(st AuthState) AuthState {
		user := u
		st.User = &user
		st.LoggedIn = true
		st.Status = PhaseSuccess
		return st
	})
	return u, nil
}
