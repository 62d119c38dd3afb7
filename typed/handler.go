package typed

import (
	"net/http"
	"reflect"

	"github.com/vitalvas/routedoc/mux"
)

// Request wraps an incoming request whose body decodes into B.
type Request[B any] struct {
	*http.Request
}

// Bind decodes the JSON request body into B. EmptyBody requests never read
// the body. When B is a pointer type an empty body yields nil.
func (r *Request[B]) Bind() (B, error) {
	var body B

	t := reflect.TypeFor[B]()
	if t == reflect.TypeFor[EmptyBody]() {
		return body, nil
	}
	if t.Kind() == reflect.Pointer && r.ContentLength == 0 {
		return body, nil
	}

	if err := mux.BindJSON(r.Request, &body); err != nil {
		return body, err
	}
	return body, nil
}

// Var returns the named path variable.
func (r *Request[B]) Var(name string) string {
	return mux.Vars(r.Request)[name]
}

// HandlerFunc handles a request with a typed body.
type HandlerFunc[B any] func(w http.ResponseWriter, req *Request[B])

// Handle registers fn for the method and path template together with its
// contract. The request body type is B; use EmptyBody for routes without a
// body. The contract may be nil.
func Handle[B any](router *mux.Router, method, path string, contract Context, fn HandlerFunc[B]) *mux.Route {
	h := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		fn(w, &Request[B]{Request: req})
	})

	var response any
	if contract != nil {
		response = contract
	}

	return router.HandleDeclared(method, path, h, mux.Declaration{
		Request:  reflect.TypeFor[B](),
		Response: response,
	})
}

// Reply writes v as the JSON body of the response.
func Reply[T any](w http.ResponseWriter, status int, v T) {
	mux.ResponseJSON(w, status, v)
}

// NoContent writes a status without a body.
func NoContent(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}
