package openapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"slices"
	"strconv"

	"github.com/vitalvas/routedoc/mux"
	"github.com/vitalvas/routedoc/typed"
)

// Generator projects mux routes into OpenAPI operations. The zero value is
// not usable because it has no encoder; use NewGenerator.
type Generator struct {
	// Registry overrides capabilities for specific types. May be nil.
	Registry *Registry

	// Encoder renders examples. A nil encoder fails generation with
	// ErrMissingEncoder.
	Encoder Encoder

	// Logger receives generation diagnostics. Nil means slog.Default().
	Logger *slog.Logger

	// Include and Exclude are doublestar patterns matched against the
	// OpenAPI path. Empty Include keeps every path.
	Include []string
	Exclude []string
}

// NewGenerator returns a generator using the default JSON encoder.
func NewGenerator() *Generator {
	return &Generator{Encoder: JSONEncoder()}
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// OperationContext carries the per-route documentation applied to a
// constructed operation.
type OperationContext struct {
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	OperationID string
}

// PathOperation is one operation placed at its path and verb.
type PathOperation struct {
	Path      string
	Verb      Verb
	Operation *Operation
}

// OperationConstructor completes a prepared operation with documentation.
type OperationConstructor func(OperationContext) PathOperation

// Constructor prepares the operation of a route. Path, verb, request body,
// responses and parameters are computed once; the returned function only
// applies documentation. Errors are wrapped with the route's method and
// path template.
func (g *Generator) Constructor(route *mux.Route) (OperationConstructor, error) {
	return g.constructor(route, route.Metadata())
}

// PathOperation builds the operation of a route using the documentation
// recorded on the router. The operation ID falls back to the route name.
func (g *Generator) PathOperation(route *mux.Route) (PathOperation, error) {
	meta := route.Metadata()

	construct, err := g.constructor(route, meta)
	if err != nil {
		return PathOperation{}, err
	}

	operationID := meta.OperationID
	if operationID == "" {
		operationID = route.GetName()
	}

	return construct(OperationContext{
		Summary:     meta.Summary,
		Description: meta.Description,
		Tags:        meta.Tags,
		Deprecated:  meta.Deprecated,
		OperationID: operationID,
	}), nil
}

func (g *Generator) constructor(route *mux.Route, meta mux.Metadata) (OperationConstructor, error) {
	wrap := func(err error) error {
		return fmt.Errorf("route %s %s: %w", route.GetMethod(), route.GetPathTemplate(), err)
	}

	if err := route.GetError(); err != nil {
		return nil, wrap(err)
	}
	if g.Encoder == nil {
		return nil, wrap(ErrMissingEncoder)
	}

	segments := route.GetSegments()

	path, err := PathTemplate(segments)
	if err != nil {
		return nil, wrap(err)
	}

	verb, err := VerbFor(route.GetMethod())
	if err != nil {
		return nil, wrap(err)
	}

	decl := route.GetDeclaration()

	responses, err := g.responses(decl.Response)
	if err != nil {
		return nil, wrap(err)
	}

	var params []*Parameter
	for _, seg := range segments {
		if seg.Kind == mux.SegmentParameter {
			params = append(params, PathParameter(seg, meta.Param(seg.Value)))
		}
	}
	if manifest, ok := decl.Response.(typed.QueryManifest); ok {
		for _, p := range manifest.QueryParams() {
			params = append(params, QueryParameter(p, g.Registry))
		}
	}

	body := g.requestBody(decl.Request, route)

	if responses.Len() == 0 {
		responses = nil
	}

	return func(octx OperationContext) PathOperation {
		return PathOperation{
			Path: path,
			Verb: verb,
			Operation: &Operation{
				Tags:        slices.Clone(octx.Tags),
				Summary:     octx.Summary,
				Description: octx.Description,
				OperationID: octx.OperationID,
				Deprecated:  octx.Deprecated,
				Parameters:  slices.Clone(params),
				RequestBody: body,
				Responses:   responses,
			},
		}
	}, nil
}

// responses documents the declared response of a route: a typed context
// lists every outcome; any other value describes a single successful body.
func (g *Generator) responses(declared any) (*Responses, error) {
	switch v := declared.(type) {
	case nil:
		return NewResponses(), nil
	case typed.Context:
		return BuildResponses(v.Outcomes(), g.Registry, g.Encoder)
	}

	t, sample := reflect.TypeOf(declared), declared
	if rt, ok := declared.(reflect.Type); ok {
		t, sample = rt, nil
	}

	responses := NewResponses()

	var mt *MediaType
	switch c := g.Registry.Resolve(t).(type) {
	case ExplicitSchema:
		mt = &MediaType{Schema: cloneSchema(c.Schema)}
		if ex, ok := reverseExample(g.Encoder, c.Example); ok {
			mt.Example = ex
		}
	case Reflectable:
		if sample == nil {
			sample = c.Sample
		}
		mt = &MediaType{Schema: GuessSchema(t, sample)}
		if ex, ok := reverseExample(g.Encoder, c.Example); ok {
			mt.Example = ex
		}
	default:
		return responses, nil
	}

	responses.Set(strconv.Itoa(http.StatusOK), &Response{
		Description: "Success",
		Content:     map[string]*MediaType{defaultContentType: mt},
	})
	return responses, nil
}

// requestBody documents the declared request type. Only types with an
// explicit schema are documented; a pointer type makes the body optional.
func (g *Generator) requestBody(t reflect.Type, route *mux.Route) *RequestBody {
	if t == nil || t == reflect.TypeFor[typed.EmptyBody]() {
		return nil
	}

	required := true
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		required = false
	}

	c, ok := g.Registry.Resolve(t).(ExplicitSchema)
	if !ok {
		g.logger().Debug("request body omitted, type has no explicit schema",
			"method", route.GetMethod(),
			"path", route.GetPathTemplate(),
			"type", t.String(),
		)
		return nil
	}

	mt := &MediaType{Schema: cloneSchema(c.Schema)}
	if ex, ok := reverseExample(g.Encoder, c.Example); ok {
		mt.Example = ex
	}

	return &RequestBody{
		Required: required,
		Content:  map[string]*MediaType{defaultContentType: mt},
	}
}
