// Package mux implements a request router whose route table is designed to
// be inspected: every route is a method plus an ordered list of typed path
// segments, an optional typed contract and documentation metadata.
//
// # Router
//
// Create a new router and register handlers:
//
//	r := mux.NewRouter()
//	r.Get("/articles/{category}/{id:int}", ArticleHandler)
//	r.Post("/articles", CreateArticleHandler).Summary("Create an article")
//	http.Handle("/", r)
//
// Routes may also be registered from an explicit segment list:
//
//	r.On(http.MethodGet, []mux.Segment{
//	    mux.Constant("hello"),
//	    mux.Param("id").Describe("hello world"),
//	}, handler, mux.Declaration{})
//
// # Path Segments
//
// A template component is one of:
//
//	hello       constant
//	{id}        parameter
//	{id:int}    parameter constrained by a macro
//	*           wildcard, matches any single component
//	**          catch-all, matches the rest of the path (must be last)
//
// Empty components are ignored, so "/hello/" and "/hello" are the same
// route. Malformed templates are recorded on the route (Route.GetError) and
// such routes never match.
//
// # Pattern Macros
//
//	uuid     - RFC 4122 UUID (e.g. 550e8400-e29b-41d4-a716-446655440000)
//	int      - unsigned integer (e.g. 42)
//	float    - decimal number (e.g. 3.14, 42, .5)
//	slug     - URL-safe slug (e.g. my-post-title)
//	alpha    - alphabetic characters (e.g. hello)
//	alphanum - alphanumeric characters (e.g. abc123)
//	date     - ISO 8601 date (e.g. 2024-01-15)
//	hex      - hexadecimal string (e.g. deadBEEF)
//	domain   - domain name per RFC 1123 (e.g. example.com)
//
// # Metadata
//
// Documentation is attached after registration with fluent calls:
//
//	r.Get("/hello/{id}", h).
//	    Summary("Get a greeting").
//	    Tags("hello").
//	    ParamDescription("id", "greeting identifier").
//	    ParamType("id", 0)
//
// Metadata is kept in a side table on the router. Each update swaps in a
// new record, and Router.Metadata returns a snapshot that is safe to read
// while other goroutines keep annotating routes.
//
// # Error Handling
//
// NotFoundHandler is called when no route matches a request. If nil,
// http.NotFoundHandler() is used.
//
// MethodNotAllowedHandler is called when a route matches the path but not
// the method. The Allow header is always set before it is invoked.
//
// # Context Functions
//
//	vars := mux.Vars(r)
//	id, ok := mux.VarGet(r, "id")
//	route := mux.CurrentRoute(r)
//	req = mux.SetURLVars(req, map[string]string{"id": "42"})
//
// # Middleware
//
//	r.Use(loggingMiddleware)
//
// Middleware wraps matched handlers only.
package mux
