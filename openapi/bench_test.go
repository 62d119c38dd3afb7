package openapi_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vitalvas/routedoc/mux"
	"github.com/vitalvas/routedoc/openapi"
	"github.com/vitalvas/routedoc/typed"
)

var endpointCounts = []int{5, 50, 500}

func noopHandler(http.ResponseWriter, *http.Request) {}

// nopResponseWriter discards all output to avoid measuring response writing overhead.
type nopResponseWriter struct {
	h http.Header
}

func (w *nopResponseWriter) Header() http.Header        { return w.h }
func (w *nopResponseWriter) Write(b []byte) (int, error) { return len(b), nil }
func (w *nopResponseWriter) WriteHeader(int)             {}

type benchItem struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Tags  []string `json:"tags"`
	Owner struct {
		Email string `json:"email"`
	} `json:"owner"`
}

func setupPlain(n int) *mux.Router {
	r := mux.NewRouter()
	for i := range n {
		p := fmt.Sprintf("/resource-%d", i)
		r.Get(p, noopHandler)
		r.Post(p, noopHandler)
		r.Get(p+"/{id:int}", noopHandler)
		r.Put(p+"/{id:int}", noopHandler)
		r.Delete(p+"/{id:int}", noopHandler)
	}
	return r
}

func setupTyped(n int) *mux.Router {
	r := mux.NewRouter()
	for i := range n {
		p := fmt.Sprintf("/resource-%d", i)
		typed.Handle(r, http.MethodGet, p,
			typed.Outcomes(typed.JSON[[]benchItem](http.StatusOK)).
				WithQuery(typed.Query[int]("limit"), typed.Query[[]string]("tag")),
			func(http.ResponseWriter, *typed.Request[typed.EmptyBody]) {},
		)
		typed.Handle(r, http.MethodPost, p,
			typed.Outcomes(typed.JSON[benchItem](http.StatusCreated), typed.Empty(http.StatusBadRequest)),
			func(http.ResponseWriter, *typed.Request[helloBody]) {},
		)
		typed.Handle(r, http.MethodGet, p+"/{id:int}",
			typed.Outcomes(typed.JSON[benchItem](http.StatusOK), typed.Empty(http.StatusNotFound)),
			func(http.ResponseWriter, *typed.Request[typed.EmptyBody]) {},
		).ParamDescription("id", "item identifier")
	}
	return r
}

type benchConfig struct {
	name  string
	setup func(int) *mux.Router
	path  func(int) string
}

func benchmarkGenerator(b *testing.B, configs []benchConfig) {
	b.Helper()
	spec := openapi.NewSpec(openapi.Info{Title: "bench", Version: "1.0.0"})

	for _, cfg := range configs {
		for _, n := range endpointCounts {
			router := cfg.setup(n)

			b.Run(fmt.Sprintf("Build/%s/%d", cfg.name, n), func(b *testing.B) {
				for b.Loop() {
					if _, err := spec.Build(context.Background(), router); err != nil {
						b.Fatal(err)
					}
				}
			})

			b.Run(fmt.Sprintf("Dispatch_Last/%s/%d", cfg.name, n), func(b *testing.B) {
				req := httptest.NewRequest(http.MethodGet, cfg.path(n-1), nil)
				w := &nopResponseWriter{h: make(http.Header)}
				for b.Loop() {
					router.ServeHTTP(w, req)
				}
			})
		}
	}
}

func BenchmarkGenerator(b *testing.B) {
	benchmarkGenerator(b, []benchConfig{
		{name: "Plain", setup: setupPlain, path: func(i int) string { return fmt.Sprintf("/resource-%d/42", i) }},
		{name: "Typed", setup: setupTyped, path: func(i int) string { return fmt.Sprintf("/resource-%d/42", i) }},
	})
}
