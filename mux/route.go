package mux

import (
	"net/http"
	"reflect"
	"slices"
	"strings"
)

// Declaration carries the typed contract of a route: the request body type
// and the declared response. Response is usually a typed route context
// listing every outcome of the handler, but may be any value whose type
// describes a single successful response body.
type Declaration struct {
	Request  reflect.Type
	Response any
}

// Route is a single registered endpoint. Method, segments, handler and
// declaration are fixed at registration. Documentation metadata lives in
// the owning router and is updated through the fluent setters.
type Route struct {
	router   *Router
	method   string
	segments []Segment
	handler  http.Handler
	decl     Declaration
	err      error
}

// GetMethod returns the HTTP method of the route.
func (r *Route) GetMethod() string {
	return r.method
}

// GetSegments returns a copy of the route's path segments.
func (r *Route) GetSegments() []Segment {
	return slices.Clone(r.segments)
}

// GetPathTemplate returns the path template the route was registered with,
// normalized to one slash per segment.
func (r *Route) GetPathTemplate() string {
	return JoinSegments(r.segments)
}

// GetHandler returns the handler for the route, if any.
func (r *Route) GetHandler() http.Handler {
	return r.handler
}

// GetDeclaration returns the typed contract declared at registration.
func (r *Route) GetDeclaration() Declaration {
	return r.decl
}

// GetError returns an error resulted from building the route, if any.
func (r *Route) GetError() error {
	if r.router == nil {
		return r.err
	}
	r.router.mu.RLock()
	defer r.router.mu.RUnlock()
	return r.err
}

// GetName returns the name for the route, if any.
func (r *Route) GetName() string {
	if r.router == nil {
		return ""
	}
	r.router.mu.RLock()
	defer r.router.mu.RUnlock()
	return r.router.names[r]
}

// Name sets the name for the route, used as the default operation ID and
// for lookups via Router.Lookup. Reusing a name records ErrDuplicateName on
// the route.
func (r *Route) Name(name string) *Route {
	if r.router == nil {
		return r
	}
	r.router.mu.Lock()
	defer r.router.mu.Unlock()

	if r.err != nil {
		return r
	}

	if existing, ok := r.router.named[name]; ok && existing != r {
		r.err = ErrDuplicateName
		return r
	}
	if old, ok := r.router.names[r]; ok {
		delete(r.router.named, old)
	}
	r.router.named[name] = r
	r.router.names[r] = name
	return r
}

// Metadata returns a snapshot of the route's documentation metadata.
func (r *Route) Metadata() Metadata {
	if r.router == nil {
		return Metadata{}
	}
	return r.router.Metadata(r)
}

// Summary sets a short summary of what the route does.
func (r *Route) Summary(summary string) *Route {
	return r.update(func(m Metadata) Metadata {
		m.Summary = summary
		return m
	})
}

// Description sets a verbose explanation of the route behavior.
func (r *Route) Description(description string) *Route {
	return r.update(func(m Metadata) Metadata {
		m.Description = description
		return m
	})
}

// Tags replaces the tags of the route.
func (r *Route) Tags(tags ...string) *Route {
	return r.update(func(m Metadata) Metadata {
		m.Tags = slices.Clone(tags)
		return m
	})
}

// Deprecated marks the route as deprecated.
func (r *Route) Deprecated() *Route {
	return r.update(func(m Metadata) Metadata {
		m.Deprecated = true
		return m
	})
}

// Hidden keeps the route out of generated documentation.
func (r *Route) Hidden() *Route {
	return r.update(func(m Metadata) Metadata {
		m.Hidden = true
		return m
	})
}

// OperationID sets an explicit operation identifier, overriding the
// route name.
func (r *Route) OperationID(id string) *Route {
	return r.update(func(m Metadata) Metadata {
		m.OperationID = id
		return m
	})
}

// ParamDescription documents the named path parameter.
func (r *Route) ParamDescription(name, description string) *Route {
	return r.update(func(m Metadata) Metadata {
		return m.withParam(name, func(p ParamMeta) ParamMeta {
			p.Description = description
			return p
		})
	})
}

// ParamType declares the value type of the named path parameter using a
// sample value (for example ParamType("id", 0) for an integer).
func (r *Route) ParamType(name string, sample any) *Route {
	t := reflect.TypeOf(sample)
	return r.update(func(m Metadata) Metadata {
		return m.withParam(name, func(p ParamMeta) ParamMeta {
			p.Type = t
			return p
		})
	})
}

func (r *Route) update(fn func(Metadata) Metadata) *Route {
	if r.router != nil {
		r.router.updateMetadata(r, fn)
	}
	return r
}

// match reports whether the path components match the route segments and
// returns the bound variables.
func (r *Route) match(parts []string) (map[string]string, bool) {
	var vars map[string]string

	for i, seg := range r.segments {
		if seg.Kind == SegmentCatchAll {
			if i >= len(parts) {
				return nil, false
			}
			if vars == nil {
				vars = make(map[string]string, 1)
			}
			vars[CatchAllVar] = strings.Join(parts[i:], "/")
			return vars, true
		}

		if i >= len(parts) {
			return nil, false
		}

		switch seg.Kind {
		case SegmentConstant:
			if parts[i] != seg.Value {
				return nil, false
			}
		case SegmentParameter:
			if m := macroMatcher(seg.Macro); m != nil && !m.MatchString(parts[i]) {
				return nil, false
			}
			if vars == nil {
				vars = make(map[string]string, len(r.segments))
			}
			vars[seg.Value] = parts[i]
		}
	}

	if len(parts) != len(r.segments) {
		return nil, false
	}
	return vars, true
}
