package openapi

import (
	"net/http"
	"strings"
)

// Verb is an OpenAPI operation slot within a path item.
type Verb string

// The closed set of OpenAPI operation verbs.
const (
	VerbGet     Verb = "get"
	VerbPut     Verb = "put"
	VerbPost    Verb = "post"
	VerbDelete  Verb = "delete"
	VerbOptions Verb = "options"
	VerbHead    Verb = "head"
	VerbPatch   Verb = "patch"
	VerbTrace   Verb = "trace"
)

// Verbs lists every verb in the order OpenAPI documents them.
var Verbs = []Verb{VerbGet, VerbPut, VerbPost, VerbDelete, VerbOptions, VerbHead, VerbPatch, VerbTrace}

var methodVerbs = map[string]Verb{
	http.MethodGet:     VerbGet,
	http.MethodPut:     VerbPut,
	http.MethodPost:    VerbPost,
	http.MethodDelete:  VerbDelete,
	http.MethodOptions: VerbOptions,
	http.MethodHead:    VerbHead,
	http.MethodPatch:   VerbPatch,
	http.MethodTrace:   VerbTrace,
}

// VerbFor maps an HTTP method (case insensitive) to its OpenAPI verb.
// Methods without an operation slot, such as CONNECT or custom methods,
// yield *UnsupportedHTTPMethodError.
func VerbFor(method string) (Verb, error) {
	if v, ok := methodVerbs[strings.ToUpper(method)]; ok {
		return v, nil
	}
	return "", &UnsupportedHTTPMethodError{Method: method}
}

// Operation returns the operation stored for the verb, or nil.
func (p *PathItem) Operation(v Verb) *Operation {
	if slot := p.slot(v); slot != nil {
		return *slot
	}
	return nil
}

// SetOperation stores op under the verb and reports whether an existing
// operation was replaced.
func (p *PathItem) SetOperation(v Verb, op *Operation) bool {
	slot := p.slot(v)
	if slot == nil {
		return false
	}
	replaced := *slot != nil
	*slot = op
	return replaced
}

// Operations returns the non-nil operations in Verbs order.
func (p *PathItem) Operations() []*Operation {
	var ops []*Operation
	for _, v := range Verbs {
		if op := p.Operation(v); op != nil {
			ops = append(ops, op)
		}
	}
	return ops
}

func (p *PathItem) slot(v Verb) **Operation {
	switch v {
	case VerbGet:
		return &p.Get
	case VerbPut:
		return &p.Put
	case VerbPost:
		return &p.Post
	case VerbDelete:
		return &p.Delete
	case VerbOptions:
		return &p.Options
	case VerbHead:
		return &p.Head
	case VerbPatch:
		return &p.Patch
	case VerbTrace:
		return &p.Trace
	default:
		return nil
	}
}
