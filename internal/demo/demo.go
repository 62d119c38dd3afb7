// Package demo is the sample API documented and served by the routedoc
// command. It covers every kind of route the generator understands.
package demo

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vitalvas/routedoc/mux"
	"github.com/vitalvas/routedoc/typed"
)

// Greeting is the body of POST /hello and the reply of GET /hello/{id}.
type Greeting struct {
	StringValue string `json:"stringValue"`
}

func (Greeting) OpenAPIExample() any {
	return Greeting{StringValue: "hello world!"}
}

// Status is returned by the untyped health route.
type Status struct {
	Status string `json:"status"`
}

// MaxGreetings bounds the count query parameter of GET /hello.
const MaxGreetings = 100

// NewRouter returns a router with every demo route registered.
func NewRouter() *mux.Router {
	r := mux.NewRouter()
	RegisterHello(r)
	RegisterUsers(r, NewStore())
	RegisterMisc(r)
	return r
}

// RegisterHello mounts the greeting endpoints.
func RegisterHello(r *mux.Router) {
	typed.Handle(r, http.MethodGet, "/hello",
		typed.Outcomes(
			typed.Respond[string](http.StatusOK, "text/plain"),
			typed.Empty(http.StatusBadRequest),
		).WithQuery(typed.Query[int]("count").Describe("How many times to greet, at most " + strconv.Itoa(MaxGreetings))),
		func(w http.ResponseWriter, req *typed.Request[typed.EmptyBody]) {
			n, err := strconv.Atoi(req.URL.Query().Get("count"))
			if err != nil || n < 0 || n > MaxGreetings {
				typed.NoContent(w, http.StatusBadRequest)
				return
			}
			mux.Respond(w, http.StatusOK, "text/plain", []byte(strings.Repeat("success ", n)))
		},
	).Summary("Greet").Tags("hello")

	typed.Handle(r, http.MethodPost, "/hello",
		typed.Outcomes(
			typed.Empty(http.StatusCreated),
			typed.Empty(http.StatusBadRequest),
		),
		func(w http.ResponseWriter, req *typed.Request[Greeting]) {
			if _, err := req.Bind(); err != nil {
				typed.NoContent(w, http.StatusBadRequest)
				return
			}
			typed.NoContent(w, http.StatusCreated)
		},
	).Summary("Store a greeting").Tags("hello")

	typed.Handle(r, http.MethodGet, "/hello/{id}",
		typed.Outcomes(typed.JSON[Greeting](http.StatusOK)),
		func(w http.ResponseWriter, req *typed.Request[typed.EmptyBody]) {
			typed.Reply(w, http.StatusOK, Greeting{StringValue: "hello " + req.Var("id")})
		},
	).Tags("hello").
		ParamType("id", 0).
		ParamDescription("id", "hello world")

	typed.Handle(r, http.MethodDelete, "/hello",
		typed.Outcomes(typed.Empty(http.StatusNoContent)),
		func(w http.ResponseWriter, _ *typed.Request[typed.EmptyBody]) {
			typed.NoContent(w, http.StatusNoContent)
		},
	).Tags("hello")
}

// RegisterMisc mounts routes that are not built with typed handlers: a
// health check declared with a plain response value and a static file tree
// hidden from the document.
func RegisterMisc(r *mux.Router) {
	r.HandleDeclared(http.MethodGet, "/healthz",
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			typed.Reply(w, http.StatusOK, Status{Status: "ok"})
		}),
		mux.Declaration{Response: Status{Status: "ok"}},
	).Name("health").Summary("Health check")

	r.Get("/static/**", func(w http.ResponseWriter, req *http.Request) {
		name := mux.Vars(req)[mux.CatchAllVar]
		mux.Respond(w, http.StatusOK, "text/plain", []byte(name))
	}).Hidden()
}
