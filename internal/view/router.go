package view

import (
	"context"
	"fmt"

	"github.com/tbrandt/shelfshare/internal/infra/logging"
	"github.com/tbrandt/shelfshare/internal/svc/sessionsvc"
)

// Router resolves route names to views and gates access to views that
// require authentication. Resolution is pure and synchronous; only the local
// session store is consulted, never the network.
type Router struct {
	sessions *sessionsvc.SessionService
	views    map[string]View
	guarded  map[string]bool
	log      logging.Logger
}

// NewRouter creates a Router consulting the given session service for the
// route guard.
func NewRouter(sessions *sessionsvc.SessionService) *Router {
	return &Router{
		sessions: sessions,
		views:    make(map[string]View),
		guarded:  make(map[string]bool),
		log:      logging.GetLogger("view.router"),
	}
}

// Handle registers a view under its route. When requiresAuth is set, the
// route resolves to the login view for anonymous sessions.
func (r *Router) Handle(v View, requiresAuth bool) {
	r.views[v.Route()] = v
	r.guarded[v.Route()] = requiresAuth
}

// Resolve returns the view for the given route. A guarded route with no
// current session user resolves to the login view instead; the target view
// is otherwise returned unchanged.
func (r *Router) Resolve(ctx context.Context, route string) (View, error) {
	v, ok := r.views[route]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoute, route)
	}

	if r.guarded[route] {
		if _, ok := r.sessions.CurrentUser(ctx); !ok {
			r.log.DebugContext(ctx, "guarded route, redirecting anonymous user to login",
				"route", route)

			login, ok := r.views[RouteLogin]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownRoute, RouteLogin)
			}

			return login, nil
		}
	}

	return v, nil
}
