package openapi

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	timeType          = reflect.TypeFor[time.Time]()
	uuidType          = reflect.TypeFor[uuid.UUID]()
	jsonNumberType    = reflect.TypeFor[json.Number]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
)

// GuessSchema infers a schema from a Go type and an optional sample value.
// A non-nil sample takes precedence over t, which lets interface-typed
// declarations and example providers describe their dynamic shape. The
// guess is shallow and deterministic: the same input always produces the
// same schema.
func GuessSchema(t reflect.Type, sample any) *Schema {
	var v reflect.Value
	if sample != nil {
		v = reflect.ValueOf(sample)
		t = v.Type()
	}
	if t == nil {
		return &Schema{Type: TypeString("string")}
	}

	g := &guesser{visiting: make(map[reflect.Type]bool)}
	return g.guess(t, v)
}

type guesser struct {
	visiting map[reflect.Type]bool
}

// guess maps t to a schema. v, when valid, holds a value of type t used to
// resolve interface-typed positions.
func (g *guesser) guess(t reflect.Type, v reflect.Value) *Schema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
		if v.IsValid() {
			if v.IsNil() {
				v = reflect.Value{}
			} else {
				v = v.Elem()
			}
		}
	}

	switch t {
	case timeType:
		return &Schema{Type: TypeString("string"), Format: "date-time"}
	case uuidType:
		return &Schema{Type: TypeString("string"), Format: "uuid"}
	case jsonNumberType:
		return &Schema{Type: TypeString("number")}
	}

	if t.Kind() != reflect.Interface && (implements(t, textMarshalerType) || implements(t, jsonMarshalerType)) {
		return &Schema{Type: TypeString("string")}
	}

	// Named containers can refer to themselves without a struct in between.
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		if t.Name() != "" {
			if g.visiting[t] {
				if t.Kind() == reflect.Map {
					return &Schema{Type: TypeString("object")}
				}
				return &Schema{Type: TypeString("array")}
			}
			g.visiting[t] = true
			defer delete(g.visiting, t)
		}
	}

	switch t.Kind() {
	case reflect.Bool:
		return &Schema{Type: TypeString("boolean")}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return &Schema{Type: TypeString("integer")}

	case reflect.Float32, reflect.Float64:
		return &Schema{Type: TypeString("number")}

	case reflect.String:
		return &Schema{Type: TypeString("string")}

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return &Schema{Type: TypeString("string"), Format: "byte"}
		}
		return &Schema{Type: TypeString("array"), Items: g.guess(t.Elem(), firstElem(v))}

	case reflect.Array:
		return &Schema{Type: TypeString("array"), Items: g.guess(t.Elem(), firstElem(v))}

	case reflect.Map:
		if !encodableKey(t.Key()) {
			return &Schema{Type: TypeString("object")}
		}
		return &Schema{Type: TypeString("object"), AdditionalProperties: g.guess(t.Elem(), firstMapValue(v))}

	case reflect.Struct:
		if g.visiting[t] {
			return &Schema{Type: TypeString("object")}
		}
		g.visiting[t] = true
		defer delete(g.visiting, t)
		return g.guessStruct(t, v)

	case reflect.Interface:
		if v.IsValid() && v.Kind() == reflect.Interface {
			if v.IsNil() {
				v = reflect.Value{}
			} else {
				v = v.Elem()
			}
		}
		if v.IsValid() {
			return g.guess(v.Type(), v)
		}
		return &Schema{Type: TypeString("string")}
	}

	return &Schema{Type: TypeString("string")}
}

func implements(t, iface reflect.Type) bool {
	return t.Implements(iface) || reflect.PointerTo(t).Implements(iface)
}

// encodableKey reports whether encoding/json can encode maps keyed by t.
func encodableKey(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return implements(t, textMarshalerType)
}

func firstElem(v reflect.Value) reflect.Value {
	if !v.IsValid() || v.Len() == 0 {
		return reflect.Value{}
	}
	for i := range v.Len() {
		if e := v.Index(i); !isNilValue(e) {
			return e
		}
	}
	return reflect.Value{}
}

// firstMapValue returns the first non-nil value under sorted keys.
func firstMapValue(v reflect.Value) reflect.Value {
	if !v.IsValid() || v.Len() == 0 || !v.CanInterface() {
		return reflect.Value{}
	}

	keys := v.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return strings.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
	})

	for _, k := range keys {
		if e := v.MapIndex(k); !isNilValue(e) {
			return e
		}
	}
	return reflect.Value{}
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return !v.IsValid()
}

// guessStruct builds an object schema from exported struct fields the way
// encoding/json would encode them.
func (g *guesser) guessStruct(t reflect.Type, v reflect.Value) *Schema {
	schema := &Schema{
		Type:       TypeString("object"),
		Properties: make(map[string]*Schema),
	}

	g.collectFields(t, v, schema, false)

	if len(schema.Properties) == 0 {
		schema.Properties = nil
	}

	return schema
}

// collectFields collects struct fields into the schema. When allOptional is
// true every field is optional; pointer-embedded structs can be nil, which
// omits all of their fields.
func (g *guesser) collectFields(t reflect.Type, v reflect.Value, schema *Schema, allOptional bool) {
	for i := range t.NumField() {
		field := t.Field(i)

		var fv reflect.Value
		if v.IsValid() {
			fv = v.Field(i)
		}

		if field.Anonymous {
			jsonName, _ := parseJSONTag(field.Tag.Get("json"))
			if jsonName == "" {
				ft := field.Type
				isPtr := ft.Kind() == reflect.Pointer
				if isPtr {
					ft = ft.Elem()
					if fv.IsValid() {
						if fv.IsNil() {
							fv = reflect.Value{}
						} else {
							fv = fv.Elem()
						}
					}
				}
				if ft.Kind() == reflect.Struct {
					g.collectFields(ft, fv, schema, allOptional || isPtr)
					continue
				}
			}
		}

		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name, opts := parseJSONTag(jsonTag)
		if name == "" {
			name = field.Name
		}

		fieldSchema := g.guess(field.Type, fv)

		applyOpenAPITag(fieldSchema, field.Tag.Get("openapi"))

		// ",string" encodes numbers and booleans as JSON strings.
		if opts.stringEncode {
			applyStringEncoding(fieldSchema)
		}

		schema.Properties[name] = fieldSchema

		if !opts.omitempty && !allOptional && !slices.Contains(schema.Required, name) {
			schema.Required = append(schema.Required, name)
		}
	}
}

type jsonTagOpts struct {
	omitempty    bool
	stringEncode bool
}

func parseJSONTag(tag string) (string, jsonTagOpts) {
	if tag == "" {
		return "", jsonTagOpts{}
	}
	name, rest, _ := strings.Cut(tag, ",")

	var opts jsonTagOpts
	for opt := range strings.SplitSeq(rest, ",") {
		switch opt {
		case "omitempty", "omitzero":
			opts.omitempty = true
		case "string":
			opts.stringEncode = true
		}
	}
	return name, opts
}

// applyOpenAPITag parses the `openapi` struct tag and applies constraints
// to the schema:
//
//	Name string `openapi:"description=User name,minLength=1,example=Alice"`
func applyOpenAPITag(schema *Schema, tag string) {
	if tag == "" {
		return
	}

	for part := range strings.SplitSeq(tag, ",") {
		key, value, _ := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "description":
			schema.Description = value
		case "title":
			schema.Title = value
		case "example":
			schema.Example = parseTagValue(schema, value)
		case "default":
			schema.Default = parseTagValue(schema, value)
		case "const":
			schema.Const = parseTagValue(schema, value)
		case "format":
			schema.Format = value
		case "pattern":
			schema.Pattern = value
		case "enum":
			values := strings.Split(value, "|")
			schema.Enum = make([]any, len(values))
			for i, v := range values {
				schema.Enum[i] = parseTagValue(schema, v)
			}
		case "minimum":
			schema.Minimum = parseFloat(value)
		case "maximum":
			schema.Maximum = parseFloat(value)
		case "exclusiveMinimum":
			schema.ExclusiveMinimum = parseFloat(value)
		case "exclusiveMaximum":
			schema.ExclusiveMaximum = parseFloat(value)
		case "multipleOf":
			schema.MultipleOf = parseFloat(value)
		case "minLength":
			schema.MinLength = parseInt(value)
		case "maxLength":
			schema.MaxLength = parseInt(value)
		case "minItems":
			schema.MinItems = parseInt(value)
		case "maxItems":
			schema.MaxItems = parseInt(value)
		case "minProperties":
			schema.MinProperties = parseInt(value)
		case "maxProperties":
			schema.MaxProperties = parseInt(value)
		case "uniqueItems":
			schema.UniqueItems = true
		case "deprecated":
			schema.Deprecated = true
		case "readOnly":
			schema.ReadOnly = true
		case "writeOnly":
			schema.WriteOnly = true
		}
	}
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) *int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// parseTagValue converts a tag value to the Go type matching the schema.
func parseTagValue(schema *Schema, value string) any {
	types := schema.Type.Values()
	if len(types) == 0 {
		return value
	}

	switch types[0] {
	case "integer":
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
	case "number":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	case "boolean":
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return value
}

func applyStringEncoding(schema *Schema) {
	if types := schema.Type.Values(); len(types) == 1 {
		switch types[0] {
		case "integer", "number", "boolean":
			schema.Type = TypeString("string")
		}
	}
}
