package openapi

import (
	"slices"

	"github.com/vitalvas/routedoc/typed"
)

// QueryParameter projects a query parameter descriptor into an OpenAPI
// parameter. Maps use the deepObject style, arrays are comma-separated
// (form, not exploded) and scalars use plain form style.
func QueryParameter(p typed.QueryParam, reg *Registry) *Parameter {
	param := &Parameter{
		Name:        p.Name,
		In:          "query",
		Description: p.Description,
		Required:    p.Required,
	}

	value := queryValueSchema(p, reg)

	switch p.Kind {
	case typed.QueryMap:
		param.Style = "deepObject"
		param.Explode = boolPtr(true)
		param.Schema = &Schema{Type: TypeString("object"), AdditionalProperties: value}
	case typed.QueryArray:
		param.Style = "form"
		param.Explode = boolPtr(false)
		param.Schema = &Schema{Type: TypeString("array"), Items: value}
	default:
		param.Style = "form"
		param.Explode = boolPtr(true)
		param.Schema = value
	}

	return param
}

// queryValueSchema guesses the schema of a single value (scalar, array
// element or map value) and applies the allowed values as an enum.
func queryValueSchema(p typed.QueryParam, reg *Registry) *Schema {
	var schema *Schema
	switch c := reg.Resolve(p.Type).(type) {
	case ExplicitSchema:
		schema = cloneSchema(c.Schema)
	case Reflectable:
		schema = GuessSchema(p.Type, c.Sample)
	default:
		schema = &Schema{Type: TypeString("string")}
	}

	if len(p.AllowedValues) > 0 {
		schema.Enum = slices.Clone(p.AllowedValues)
	}
	return schema
}

// cloneSchema returns a shallow copy so callers can decorate a schema
// supplied by a user type without mutating it.
func cloneSchema(s *Schema) *Schema {
	if s == nil {
		return &Schema{}
	}
	c := *s
	return &c
}

func boolPtr(b bool) *bool {
	return &b
}
