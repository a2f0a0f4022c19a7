package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/YvonneBrian/ECommerce-Repawtly/models"
)

// Listener is invoked after a state change it subscribed to.
type Listener func(ctx context.Context)

// Router holds the current view. It never rejects a transition; access
// rules are enforced by listeners such as AccessGuard.
type Router struct {
	current   models.View
	listeners []Listener
	logger    *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{current: models.ViewHome, logger: orNop(logger)}
}

func (r *Router) Current() models.View {
	return r.current
}

// Navigate sets the current view and then notifies listeners.
func (r *Router) Navigate(ctx context.Context, target models.View) {
	prev := r.current
	r.current = target
	r.logger.Debug("view changed", zap.String("from", string(prev)), zap.String("view", string(target)))
	fire(ctx, r.listeners)
}

// OnChange subscribes l to every navigation.
func (r *Router) OnChange(l Listener) {
	r.listeners = append(r.listeners, l)
}

func fire(ctx context.Context, listeners []Listener) {
	// Listeners may subscribe more listeners or navigate again.
	for _, l := range append([]Listener(nil), listeners...) {
		l(ctx)
	}
}
