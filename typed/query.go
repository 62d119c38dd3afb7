package typed

import (
	"reflect"
	"slices"
)

// QueryKind is the shape of a query parameter value.
type QueryKind int

const (
	// QueryScalar is a single value (?page=2).
	QueryScalar QueryKind = iota
	// QueryArray is a list of values (?tag=a,b).
	QueryArray
	// QueryMap is a set of keyed values (?filter[name]=x).
	QueryMap
)

func (k QueryKind) String() string {
	switch k {
	case QueryArray:
		return "array"
	case QueryMap:
		return "map"
	default:
		return "scalar"
	}
}

// QueryParam describes one query parameter.
type QueryParam struct {
	Name string
	Kind QueryKind

	// Type is the scalar type, the array element type or the map value
	// type depending on Kind.
	Type reflect.Type

	AllowedValues []any
	Description   string
	Required      bool
}

// Query declares a query parameter whose shape is derived from T: slices
// and arrays are array parameters, maps are map parameters, everything
// else (including []byte) is a scalar.
func Query[T any](name string) QueryParam {
	t := reflect.TypeFor[T]()
	p := QueryParam{Name: name, Kind: QueryScalar, Type: t}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() != reflect.Uint8 {
			p.Kind = QueryArray
			p.Type = t.Elem()
		}
	case reflect.Map:
		p.Kind = QueryMap
		p.Type = t.Elem()
	}

	return p
}

// Describe returns a copy with a description.
func (p QueryParam) Describe(description string) QueryParam {
	p.Description = description
	return p
}

// Allow returns a copy restricted to the given values.
func (p QueryParam) Allow(values ...any) QueryParam {
	p.AllowedValues = slices.Clone(values)
	return p
}

// Require returns a copy marked as required.
func (p QueryParam) Require() QueryParam {
	p.Required = true
	return p
}
