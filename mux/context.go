package mux

import (
	"context"
	"errors"
	"net/http"
)

// routeContextKey is an unexported type for the single context key.
type routeContextKey struct{}

// ctxKey is the single context key used to store both route and vars.
var ctxKey = routeContextKey{}

// routeContext holds the matched route and extracted variables.
type routeContext struct {
	route *Route
	vars  map[string]string
}

// Vars returns the route variables for the current request, if any.
// A catch-all remainder is stored under CatchAllVar.
func Vars(r *http.Request) map[string]string {
	if rc, ok := r.Context().Value(ctxKey).(*routeContext); ok {
		return rc.vars
	}
	return nil
}

// VarGet returns the value of a single route variable by name and a boolean
// indicating whether the variable exists.
func VarGet(r *http.Request, name string) (string, bool) {
	if rc, ok := r.Context().Value(ctxKey).(*routeContext); ok && rc.vars != nil {
		val, exists := rc.vars[name]
		return val, exists
	}
	return "", false
}

// CurrentRoute returns the matched route for the current request, if any.
// This only works when called inside the handler of the matched route
// because the matched route is stored in the request context.
func CurrentRoute(r *http.Request) *Route {
	if rc, ok := r.Context().Value(ctxKey).(*routeContext); ok {
		return rc.route
	}
	return nil
}

// SetURLVars sets the URL variables for the given request, returning the
// modified request. This is intended for testing route handlers.
func SetURLVars(r *http.Request, val map[string]string) *http.Request {
	return setRouteContext(r, CurrentRoute(r), val)
}

func setRouteContext(r *http.Request, route *Route, vars map[string]string) *http.Request {
	ctx := context.WithValue(r.Context(), ctxKey, &routeContext{route: route, vars: vars})
	return r.WithContext(ctx)
}

// RouteMatch stores information about a matched route.
type RouteMatch struct {
	// Route is the matched route, if any.
	Route *Route

	// Handler is the middleware-wrapped handler of the matched route.
	Handler http.Handler

	// Vars contains the extracted path variables from the matched route.
	Vars map[string]string

	// MatchErr is ErrMethodMismatch when the path matched but the method
	// did not, ErrNotFound when nothing matched.
	MatchErr error

	// Allowed lists the methods accepted for the path, sorted, when
	// MatchErr is ErrMethodMismatch.
	Allowed []string
}

// MiddlewareFunc is a function which receives an http.Handler and returns
// another http.Handler.
type MiddlewareFunc func(http.Handler) http.Handler

// WalkFunc is the type of the function called for each route visited by Walk.
type WalkFunc func(route *Route, router *Router) error

var (
	// ErrMethodMismatch is returned when the method in the request does not
	// match the method defined against the route.
	ErrMethodMismatch = errors.New("method is not allowed")

	// ErrNotFound is returned when no route match is found.
	ErrNotFound = errors.New("no matching route was found")

	// ErrInvalidTemplate is recorded on routes registered with a malformed
	// path template or segment list.
	ErrInvalidTemplate = errors.New("mux: invalid path template")

	// ErrMissingMethod is recorded on routes registered without a method.
	ErrMissingMethod = errors.New("mux: route method is required")

	// ErrDuplicateName is recorded on a route given a name already used
	// by another route.
	ErrDuplicateName = errors.New("mux: duplicate route name")
)

// SkipRoute is used as a return value from WalkFunc to continue with the
// next route without stopping the walk.
var SkipRoute = errors.New("skip this route") //nolint:revive,staticcheck // sentinel control value like filepath.SkipDir
