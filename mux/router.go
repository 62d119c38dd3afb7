package mux

import (
	"net/http"
	"path"
	"slices"
	"strings"
	"sync"
)

// Router registers routes to be matched and dispatches a handler.
//
// It implements the http.Handler interface, so it can be registered to serve
// requests:
//
//	r := mux.NewRouter()
//	r.Get("/hello/{id:int}", handler).Summary("Get a greeting")
//	http.ListenAndServe(":8080", r)
//
// The route table doubles as the input of document generation: Routes and
// Walk expose a snapshot of every registered route in registration order.
type Router struct {
	// NotFoundHandler is called when no route matches.
	// If nil, http.NotFoundHandler() is used.
	NotFoundHandler http.Handler

	// MethodNotAllowedHandler is called when a route matches the path
	// but not the method. If nil, a default 405 handler is used.
	// The Allow header is always set before this handler is invoked.
	MethodNotAllowedHandler http.Handler

	mu          sync.RWMutex
	routes      []*Route
	named       map[string]*Route
	names       map[*Route]string
	meta        map[*Route]Metadata
	middlewares []MiddlewareFunc

	// handlerCache caches the middleware-wrapped handler per route
	// to avoid re-wrapping on every request.
	handlerCache sync.Map // map[*Route]http.Handler
}

// NewRouter returns a new router instance.
func NewRouter() *Router {
	return &Router{
		named: make(map[string]*Route),
		names: make(map[*Route]string),
		meta:  make(map[*Route]Metadata),
	}
}

// --- Registration ---

// On registers a route from an explicit segment list. It is the primitive
// every other registration method builds on. An invalid segment list is
// recorded on the returned route (see Route.GetError) and the route never
// matches requests.
func (r *Router) On(method string, segments []Segment, handler http.Handler, decl Declaration) *Route {
	return r.on(method, segments, handler, decl, nil)
}

// on builds the route completely, including parseErr, before publishing it.
func (r *Router) on(method string, segments []Segment, handler http.Handler, decl Declaration, parseErr error) *Route {
	route := &Route{
		router:   r,
		method:   strings.ToUpper(method),
		segments: slices.Clone(segments),
		handler:  handler,
		decl:     decl,
	}
	if route.method == "" {
		route.err = ErrMissingMethod
	} else if err := validateSegments(route.segments, make(map[string]bool)); err != nil {
		route.err = err
	} else if parseErr != nil {
		route.err = parseErr
	}

	var initial Metadata
	for _, seg := range route.segments {
		if seg.Kind == SegmentParameter && seg.Description != "" {
			initial = initial.withParam(seg.Value, func(p ParamMeta) ParamMeta {
				p.Description = seg.Description
				return p
			})
		}
	}

	r.mu.Lock()
	r.routes = append(r.routes, route)
	r.meta[route] = initial
	r.mu.Unlock()

	return route
}

// HandleDeclared registers a route for a path template together with its
// typed contract.
func (r *Router) HandleDeclared(method, tpl string, handler http.Handler, decl Declaration) *Route {
	segments, err := ParsePath(tpl)
	return r.on(method, segments, handler, decl, err)
}

// Handle registers a route for the method and path template.
func (r *Router) Handle(method, tpl string, handler http.Handler) *Route {
	return r.HandleDeclared(method, tpl, handler, Declaration{})
}

// HandleFunc registers a route for the method and path template with a
// handler function.
func (r *Router) HandleFunc(method, tpl string, f func(http.ResponseWriter, *http.Request)) *Route {
	return r.Handle(method, tpl, http.HandlerFunc(f))
}

// Get registers a GET route.
func (r *Router) Get(tpl string, f func(http.ResponseWriter, *http.Request)) *Route {
	return r.HandleFunc(http.MethodGet, tpl, f)
}

// Post registers a POST route.
func (r *Router) Post(tpl string, f func(http.ResponseWriter, *http.Request)) *Route {
	return r.HandleFunc(http.MethodPost, tpl, f)
}

// Put registers a PUT route.
func (r *Router) Put(tpl string, f func(http.ResponseWriter, *http.Request)) *Route {
	return r.HandleFunc(http.MethodPut, tpl, f)
}

// Patch registers a PATCH route.
func (r *Router) Patch(tpl string, f func(http.ResponseWriter, *http.Request)) *Route {
	return r.HandleFunc(http.MethodPatch, tpl, f)
}

// Delete registers a DELETE route.
func (r *Router) Delete(tpl string, f func(http.ResponseWriter, *http.Request)) *Route {
	return r.HandleFunc(http.MethodDelete, tpl, f)
}

// --- Route table access ---

// Routes returns a snapshot of the registered routes in registration order.
func (r *Router) Routes() []*Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.routes)
}

// Lookup returns the route registered with the given name, or nil.
func (r *Router) Lookup(name string) *Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.named[name]
}

// Metadata returns a snapshot of the documentation metadata of a route.
func (r *Router) Metadata(route *Route) Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.meta[route].clone()
}

func (r *Router) updateMetadata(route *Route, fn func(Metadata) Metadata) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meta[route] = fn(r.meta[route].clone())
}

// Walk calls walkFn for each registered route in registration order,
// working on a snapshot of the table. Returning SkipRoute from walkFn
// continues with the next route; any other error stops the walk.
func (r *Router) Walk(walkFn WalkFunc) error {
	for _, route := range r.Routes() {
		err := walkFn(route, r)
		if err == SkipRoute {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// --- Dispatch ---

// ServeHTTP dispatches the handler registered in the matched route.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if cleaned := cleanPath(req.URL.Path); cleaned != req.URL.Path {
		u := *req.URL
		u.Path = cleaned
		u.RawPath = ""
		req = req.Clone(req.Context())
		req.URL = &u
	}

	var match RouteMatch
	var handler http.Handler

	if r.Match(req, &match) {
		handler = match.Handler
		if handler == nil {
			handler = http.NotFoundHandler()
		}
		req = setRouteContext(req, match.Route, match.Vars)
	} else if match.MatchErr == ErrMethodMismatch {
		w.Header().Set("Allow", strings.Join(match.Allowed, ", "))
		handler = r.MethodNotAllowedHandler
		if handler == nil {
			handler = http.HandlerFunc(methodNotAllowed)
		}
	} else {
		handler = r.NotFoundHandler
		if handler == nil {
			handler = http.NotFoundHandler()
		}
	}

	handler.ServeHTTP(w, req)
}

// Match attempts to match the given request against the router's routes.
// When the path matches one or more routes but the method matches none,
// MatchErr is ErrMethodMismatch and Allowed lists the accepted methods.
func (r *Router) Match(req *http.Request, match *RouteMatch) bool {
	parts := splitPath(req.URL.Path)

	var allowed []string
	for _, route := range r.Routes() {
		if route.GetError() != nil {
			continue
		}
		vars, ok := route.match(parts)
		if !ok {
			continue
		}
		if route.method != req.Method {
			if !slices.Contains(allowed, route.method) {
				allowed = append(allowed, route.method)
			}
			continue
		}

		match.Route = route
		match.Vars = vars
		match.Handler = r.wrap(route)
		match.MatchErr = nil
		return true
	}

	if len(allowed) > 0 {
		slices.Sort(allowed)
		match.Allowed = allowed
		match.MatchErr = ErrMethodMismatch
		return false
	}

	match.MatchErr = ErrNotFound
	return false
}

func (r *Router) wrap(route *Route) http.Handler {
	if route.handler == nil {
		return nil
	}
	r.mu.RLock()
	mws := r.middlewares
	r.mu.RUnlock()
	if len(mws) == 0 {
		return route.handler
	}
	if cached, ok := r.handlerCache.Load(route); ok {
		return cached.(http.Handler)
	}
	handler := route.handler
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}
	r.handlerCache.Store(route, handler)
	return handler
}

// Use appends a MiddlewareFunc to the chain. Middleware is applied to
// matched handlers only.
func (r *Router) Use(mwf ...MiddlewareFunc) {
	r.mu.Lock()
	r.middlewares = append(r.middlewares, mwf...)
	r.mu.Unlock()
	r.handlerCache.Clear()
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

// cleanPath returns the canonical path for p, eliminating . and .. elements
// and keeping a trailing slash.
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	np := path.Clean(p)
	if p[len(p)-1] == '/' && np != "/" {
		np += "/"
	}
	return np
}

func splitPath(p string) []string {
	var parts []string
	for component := range strings.SplitSeq(p, "/") {
		if component != "" {
			parts = append(parts, component)
		}
	}
	return parts
}
