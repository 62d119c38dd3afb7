package mux

import (
	"maps"
	"reflect"
	"slices"
)

// ParamMeta documents a single path parameter.
type ParamMeta struct {
	Description string

	// Type is the declared value type of the parameter, if any.
	Type reflect.Type
}

// Metadata is the documentation record attached to a route after
// registration. Values are immutable: every update on a Route produces a
// new record in the router's side table, so readers holding a snapshot
// never observe partial updates.
type Metadata struct {
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	OperationID string
	Params      map[string]ParamMeta

	// Hidden routes are served but left out of generated documents.
	Hidden bool
}

// Param returns the metadata of the named path parameter.
func (m Metadata) Param(name string) ParamMeta {
	return m.Params[name]
}

func (m Metadata) clone() Metadata {
	m.Tags = slices.Clone(m.Tags)
	m.Params = maps.Clone(m.Params)
	return m
}

func (m Metadata) withParam(name string, update func(ParamMeta) ParamMeta) Metadata {
	params := make(map[string]ParamMeta, len(m.Params)+1)
	maps.Copy(params, m.Params)
	params[name] = update(params[name])
	m.Params = params
	return m
}
