package context

import (
	"context"
)

const contextKeyRoute = contextKey("route")

// RouteFromContext extracts the active view route from the context.
// Returns the route and true if present, or empty string and false if not present.
func RouteFromContext(ctx context.Context) (string, bool) {
	route, ok := ctx.Value(contextKeyRoute).(string)

	return route, ok
}

// WithRoute creates a new context carrying the active view route.
// Log records emitted while a view is mounted are tagged with it.
func WithRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, contextKeyRoute, route)
}
