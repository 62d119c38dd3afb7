package openapi

import (
	"reflect"
	"sync"
)

// Capability describes what the generator can learn about a Go type.
// It is one of ExplicitSchema, Reflectable or Opaque.
type Capability interface {
	capability()
}

// ExplicitSchema is a type that documents itself with a ready schema and,
// optionally, an example value.
type ExplicitSchema struct {
	Schema  *Schema
	Example any
}

// Reflectable is a type whose schema is guessed structurally from a sample
// value. Example, when set, is embedded into the generated content.
type Reflectable struct {
	Sample  any
	Example any
}

// Opaque is a type the generator knows nothing about. Its content, if any,
// is described from the content type alone.
type Opaque struct{}

func (ExplicitSchema) capability() {}
func (Reflectable) capability()    {}
func (Opaque) capability()         {}

// SchemaProvider can be implemented by types to supply their own schema.
//
//	func (User) OpenAPISchema() *openapi.Schema {
//	    return &openapi.Schema{Type: openapi.TypeString("object")}
//	}
type SchemaProvider interface {
	OpenAPISchema() *Schema
}

// Exampler can be implemented by types to provide an example value.
// Combined with SchemaProvider the example decorates the explicit schema;
// on its own the example also serves as the sample the schema is guessed
// from.
//
//	func (u User) OpenAPIExample() any {
//	    return User{ID: "550e8400-e29b-41d4-a716-446655440000", Name: "Alice"}
//	}
type Exampler interface {
	OpenAPIExample() any
}

// Sampler can be implemented by types whose zero value is a poor sample
// for structural guessing (for example types with interface fields).
type Sampler interface {
	OpenAPISample() any
}

// Registry maps Go types to capabilities. Registered entries override the
// interfaces a type implements, which lets callers document types they do
// not own. A nil *Registry is valid and has no entries.
type Registry struct {
	mu      sync.RWMutex
	entries map[reflect.Type]Capability
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[reflect.Type]Capability)}
}

// Register sets the capability for t.
func (r *Registry) Register(t reflect.Type, c Capability) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[reflect.Type]Capability)
	}
	r.entries[t] = c
	return r
}

// Register sets the capability for T.
func Register[T any](r *Registry, c Capability) *Registry {
	return r.Register(reflect.TypeFor[T](), c)
}

func (r *Registry) lookup(t reflect.Type) (Capability, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.entries[t]
	return c, ok
}

// Resolve decides the capability of t, in order: a registered entry; a
// SchemaProvider (with its Exampler example); an Exampler documenting
// itself from its example; a Sampler; any other concrete type through its
// zero value. Interface types and nil are Opaque.
func (r *Registry) Resolve(t reflect.Type) Capability {
	if t == nil {
		return Opaque{}
	}
	if c, ok := r.lookup(t); ok {
		return c
	}
	if t.Kind() == reflect.Interface {
		return Opaque{}
	}

	inst := instance(t)

	if sp, ok := inst.(SchemaProvider); ok {
		c := ExplicitSchema{Schema: sp.OpenAPISchema()}
		if ex, ok := inst.(Exampler); ok {
			c.Example = ex.OpenAPIExample()
		}
		return c
	}

	if ex, ok := inst.(Exampler); ok {
		example := ex.OpenAPIExample()
		return ExplicitSchema{Schema: GuessSchema(t, example), Example: example}
	}

	if s, ok := inst.(Sampler); ok {
		return Reflectable{Sample: s.OpenAPISample()}
	}

	return Reflectable{Sample: reflect.Zero(t).Interface()}
}

// instance returns a non-nil pointer to a zero T so that both value and
// pointer receiver methods are reachable.
func instance(t reflect.Type) any {
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface()
	}
	return reflect.New(t).Interface()
}
