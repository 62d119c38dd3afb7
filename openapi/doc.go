// Package openapi generates OpenAPI v3.1.0 documents from the route table of
// a mux router. Routes describe themselves at registration (path segments,
// method, typed contract, documentation metadata), so the document always
// matches the server that is actually running.
//
// See: https://spec.openapis.org/oas/v3.1.0
//
// # Building a Document
//
//	r := mux.NewRouter()
//	typed.Handle(r, http.MethodGet, "/hello/{id:int}",
//	    typed.Outcomes(typed.JSON[Greeting](http.StatusOK)),
//	    getHello,
//	).Summary("Say hello").Tags("hello").ParamDescription("id", "greeting id")
//
//	spec := openapi.NewSpec(openapi.Info{Title: "Hello API", Version: "1.0.0"})
//	doc, err := spec.Build(ctx, r)
//	data, err := doc.JSON()
//
// Build fails when any route cannot be documented: a malformed template,
// a wildcard or catch-all segment, or a method OpenAPI has no operation for
// (CONNECT and custom methods). Exclude such routes with Exclude patterns or
// mark them Hidden on the router.
//
// # Path Translation
//
// Constant segments are copied, parameters become {name}. Parameter schemas
// come from, in order, a type declared with Route.ParamType, the route macro
// ({id:int} is an integer, {id:uuid} a uuid string), or a plain string.
//
// # Types and Capabilities
//
// Every request and response type is resolved to a Capability:
//
//   - ExplicitSchema: the type implements SchemaProvider, or Exampler on its
//     own (the schema is guessed from the example), or it is registered so.
//   - Reflectable: the schema is guessed from a sample value. Types may
//     provide a better sample through Sampler.
//   - Opaque: interfaces and unknown types. Content is described from the
//     content type alone.
//
// A Registry overrides the capability of types the caller does not own:
//
//	reg := openapi.NewRegistry()
//	openapi.Register[time.Duration](reg, openapi.ExplicitSchema{
//	    Schema: &openapi.Schema{Type: openapi.TypeString("string")},
//	})
//	spec.SetRegistry(reg)
//
// Request bodies are documented only for explicit schemas; a pointer body
// type makes the body optional.
//
// # Struct Tags
//
// Guessed struct schemas follow encoding/json field rules (json tag names,
// omitempty, embedded structs, "-"). The openapi tag adds constraints:
//
//	type User struct {
//	    Name  string `json:"name" openapi:"description=Full name,minLength=1"`
//	    Role  string `json:"role" openapi:"enum=admin|user"`
//	    Email string `json:"email,omitempty" openapi:"format=email"`
//	}
//
// # Examples
//
// Examples are rendered through the Encoder and decoded again, so they match
// what the server writes on the wire. JSONEncoder is the default; a custom
// encoder keeps examples aligned with custom date or key strategies.
//
// # Serving Documents
//
// Handle registers the JSON and YAML documents and an interactive UI
// (Swagger UI, RapiDoc or Redoc). Documents are regenerated per request:
//
//	spec.Handle(r, "/docs", &openapi.HandleConfig{UI: openapi.DocsRedoc})
package openapi
