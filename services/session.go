package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	apperrors "github.com/YvonneBrian/ECommerce-Repawtly/common/errors"
	"github.com/YvonneBrian/ECommerce-Repawtly/models"
)

// Authenticator verifies credentials and creates accounts.
type Authenticator interface {
	Authenticate(ctx context.Context, creds models.Credentials) (models.User, error)
	Register(ctx context.Context, profile models.Profile) (models.User, error)
}

// Session owns the presence of the authenticated user.
type Session struct {
	user      *models.User
	auth      Authenticator
	router    *Router
	notifier  Notifier
	listeners []Listener
	logger    *zap.Logger
}

func NewSession(auth Authenticator, router *Router, notifier Notifier, logger *zap.Logger) *Session {
	return &Session{auth: auth, router: router, notifier: notifier, logger: orNop(logger)}
}

// User returns the current user, if any.
func (s *Session) User() (models.User, bool) {
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *Session) Authenticated() bool {
	return s.user != nil
}

// OnChange subscribes l to every change of user presence.
func (s *Session) OnChange(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Login verifies creds, sets the user and goes home. Failures are
// classified as validation, invalid credential or unavailable.
func (s *Session) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	if err := validateStruct(creds); err != nil {
		return models.User{}, err
	}
	user, err := s.auth.Authenticate(ctx, creds)
	if err != nil {
		s.logger.Info("login failed", zap.String("kind", string(apperrors.KindOf(err))), zap.Error(err))
		return models.User{}, classifyAuthError(err)
	}
	s.signIn(ctx, user)
	return user, nil
}

// Register creates the account, signs it in and goes home.
func (s *Session) Register(ctx context.Context, profile models.Profile) (models.User, error) {
	if err := validateStruct(profile); err != nil {
		return models.User{}, err
	}
	user, err := s.auth.Register(ctx, profile)
	if err != nil {
		s.logger.Info("registration failed", zap.String("kind", string(apperrors.KindOf(err))), zap.Error(err))
		return models.User{}, classifyAuthError(err)
	}
	s.signIn(ctx, user)
	s.notifier.Notify(ctx, "Registration successful!")
	return user, nil
}

// Logout clears the user, notifies and goes home.
func (s *Session) Logout(ctx context.Context) {
	s.setUser(ctx, nil)
	s.notifier.Notify(ctx, "Logged out successfully!")
	s.router.Navigate(ctx, models.ViewHome)
}

// Expire drops the user without navigating; listeners decide where the
// shopper may stay.
func (s *Session) Expire(ctx context.Context) {
	if s.user == nil {
		return
	}
	s.setUser(ctx, nil)
	s.notifier.Notify(ctx, "Your session has expired.")
}

func (s *Session) signIn(ctx context.Context, user models.User) {
	s.setUser(ctx, &user)
	s.logger.Info("user signed in", zap.String("user_id", user.ID))
	s.router.Navigate(ctx, models.ViewHome)
}

func (s *Session) setUser(ctx context.Context, user *models.User) {
	s.user = user
	fire(ctx, s.listeners)
}

// classifyAuthError keeps application errors as they are and reports any
// foreign failure as the auth backend being unavailable.
func classifyAuthError(err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(apperrors.ErrServiceUnavailable, err)
}
