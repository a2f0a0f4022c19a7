package services

import (
	"context"

	"go.uber.org/zap"

	apperrors "github.com/YvonneBrian/ECommerce-Repawtly/common/errors"
	"github.com/YvonneBrian/ECommerce-Repawtly/models"
)

// AccessGuard keeps protected views unreachable without a user. It runs
// after every navigation and every session change.
type AccessGuard struct {
	router   *Router
	session  *Session
	notifier Notifier
	logger   *zap.Logger
}

// NewAccessGuard builds the guard and subscribes it to router and session.
func NewAccessGuard(router *Router, session *Session, notifier Notifier, logger *zap.Logger) *AccessGuard {
	g := &AccessGuard{router: router, session: session, notifier: notifier, logger: orNop(logger)}
	router.OnChange(g.Check)
	session.OnChange(g.Check)
	return g
}

// Check redirects to login when a protected view is active with no user.
func (g *AccessGuard) Check(ctx context.Context) {
	view := g.router.Current()
	if !view.Protected() || g.session.Authenticated() {
		return
	}
	g.logger.Info("access denied, redirecting to login", zap.String("view", string(view)))
	g.notifier.Notify(ctx, apperrors.ErrAuthRequired.Message)
	g.router.Navigate(ctx, models.ViewLogin)
}
