// Package account covers login, logout and the profile page.
package account

import (
	"context"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/api"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/auth"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/errors"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/logging"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
)

// Authenticator posts login credentials.
type Authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) api.Result[models.Profile]
}

// SessionStore persists what a login leaves behind.
type SessionStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
	SetProfile(ctx context.Context, profile models.Profile) error
	ClearProfile(ctx context.Context) error
	RememberedUsername(ctx context.Context) string
	SetRememberedUsername(ctx context.Context, username string) error
	ClearRememberedUsername(ctx context.Context) error
}

// Session runs the login flow against the backend and the local cache.
type Session struct {
	auth   Authenticator
	store  SessionStore
	logger *logging.Logger
}

// NewSession creates a Session.
func NewSession(authenticator Authenticator, store SessionStore) *Session {
	return &Session{
		auth:   authenticator,
		store:  store,
		logger: logging.GetDefault(),
	}
}

// Login checks the form, posts the credentials and on success saves the
// profile and token. remember keeps the username for the next login form.
// A failed login saves nothing. The returned error is either a validation
// error, the backend failure, or a storage error.
func (s *Session) Login(ctx context.Context, username, password string, remember bool) (models.Profile, error) {
	req, err := auth.ValidateCredentials(username, password)
	if err != nil {
		return models.Profile{}, err
	}
	ctx = logging.WithUsername(ctx, req.Username)

	result := s.auth.Login(ctx, req)
	if !result.OK() {
		s.logger.WithField("code", string(result.Err.Code)).Warn(ctx, "login failed")
		return models.Profile{}, result.Err
	}

	if err := s.store.SetProfile(ctx, result.Data); err != nil {
		return result.Data, err
	}
	if err := s.store.SetToken(ctx, result.Token); err != nil {
		return result.Data, err
	}

	if remember {
		err = s.store.SetRememberedUsername(ctx, req.Username)
	} else {
		err = s.store.ClearRememberedUsername(ctx)
	}
	if err != nil {
		return result.Data, err
	}

	s.logger.WithField("has_token", result.Token != "").Info(ctx, "logged in")
	return result.Data, nil
}

// Logout forgets the token and the saved profile. The remembered username
// stays.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.ClearToken(ctx); err != nil {
		return err
	}
	if err := s.store.ClearProfile(ctx); err != nil {
		return err
	}
	s.logger.Info(ctx, "logged out")
	return nil
}

// RememberedUsername pre-fills the login form.
func (s *Session) RememberedUsername(ctx context.Context) string {
	return s.store.RememberedUsername(ctx)
}

// LoggedIn reports whether a token is saved. It does not check the token.
func (s *Session) LoggedIn(ctx context.Context) bool {
	token, err := s.store.Token(ctx)
	return err == nil && token != ""
}

// CurrentUsername reads the username from the saved token's claims for
// display. The signature is not checked; the backend decides whether the
// token is accepted.
func (s *Session) CurrentUsername(ctx context.Context) (string, bool) {
	token, err := s.store.Token(ctx)
	if err != nil || token == "" {
		return "", false
	}
	claims, err := auth.ParseUnverified(token)
	if err != nil || claims.Username == "" {
		return "", false
	}
	return claims.Username, true
}

// IsNotLoggedIn reports whether err is the not-logged-in failure.
func IsNotLoggedIn(err error) bool {
	return errors.Is(err, errors.ErrCodeUnauthorized)
}
