// Package typed declares the contract of a route on top of the mux router:
// the request body type, every response outcome (status, body type and
// content type) and the query parameters the handler understands.
//
// The contract is stored on the route at registration, so generators can
// document the route without calling the handler:
//
//	contract := typed.Outcomes(
//	    typed.JSON[Greeting](http.StatusOK),
//	    typed.Empty(http.StatusBadRequest),
//	).WithQuery(typed.Query[[]string]("tag").Describe("filter by tag"))
//
//	typed.Handle(r, http.MethodGet, "/hello", contract,
//	    func(w http.ResponseWriter, req *typed.Request[typed.EmptyBody]) { ... })
package typed

import (
	"reflect"
	"slices"
)

// EmptyBody marks the absence of a request or response body.
type EmptyBody struct{}

// Outcome is one possible response of a handler.
type Outcome struct {
	Status int

	// Body is the response body type; nil or EmptyBody means no content.
	Body reflect.Type

	// ContentType of the body. Empty means the outcome carries no
	// documented content.
	ContentType string
}

// Respond declares an outcome with a T body of the given content type.
func Respond[T any](status int, contentType string) Outcome {
	return Outcome{Status: status, Body: reflect.TypeFor[T](), ContentType: contentType}
}

// JSON declares an outcome with a T body encoded as application/json.
func JSON[T any](status int) Outcome {
	return Respond[T](status, "application/json")
}

// Empty declares an outcome without a body.
func Empty(status int) Outcome {
	return Outcome{Status: status, Body: reflect.TypeFor[EmptyBody]()}
}

// HasBody reports whether the outcome declares response content.
func (o Outcome) HasBody() bool {
	return o.Body != nil && o.Body != reflect.TypeFor[EmptyBody]()
}

// Context is the response side of a route contract.
type Context interface {
	Outcomes() []Outcome
}

// QueryManifest is implemented by contracts that declare query parameters.
type QueryManifest interface {
	QueryParams() []QueryParam
}

// Contract is the default Context and QueryManifest implementation.
type Contract struct {
	outcomes []Outcome
	query    []QueryParam
}

// Outcomes returns a contract listing the given outcomes in order.
func Outcomes(outcomes ...Outcome) *Contract {
	return &Contract{outcomes: slices.Clone(outcomes)}
}

// WithQuery returns a copy of the contract with query parameters appended.
func (c *Contract) WithQuery(params ...QueryParam) *Contract {
	return &Contract{
		outcomes: slices.Clone(c.outcomes),
		query:    append(slices.Clone(c.query), params...),
	}
}

// Outcomes implements Context.
func (c *Contract) Outcomes() []Outcome {
	return slices.Clone(c.outcomes)
}

// QueryParams implements QueryManifest.
func (c *Contract) QueryParams() []QueryParam {
	return slices.Clone(c.query)
}
