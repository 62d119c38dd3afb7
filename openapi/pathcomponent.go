package openapi

import (
	"strings"

	"github.com/vitalvas/routedoc/mux"
)

// macroTypeMap maps mux route macros to OpenAPI type and format.
var macroTypeMap = map[string][2]string{
	"uuid":     {"string", "uuid"},
	"int":      {"integer", ""},
	"float":    {"number", ""},
	"slug":     {"string", ""},
	"alpha":    {"string", ""},
	"alphanum": {"string", ""},
	"date":     {"string", "date"},
	"hex":      {"string", ""},
	"domain":   {"string", "hostname"},
}

// PathComponent translates one route segment into its OpenAPI path token.
// Constants are emitted verbatim and parameters as "{name}". Wildcards and
// catch-alls cannot be expressed in an OpenAPI path template.
func PathComponent(seg mux.Segment) (string, error) {
	switch seg.Kind {
	case mux.SegmentConstant:
		return seg.Value, nil
	case mux.SegmentParameter:
		return "{" + seg.Value + "}", nil
	default:
		return "", &UnsupportedPathComponentError{Segment: seg}
	}
}

// PathTemplate joins the translated segments into an OpenAPI path. An
// empty segment list is the root path "/".
func PathTemplate(segments []mux.Segment) (string, error) {
	if len(segments) == 0 {
		return "/", nil
	}

	var b strings.Builder
	for _, seg := range segments {
		token, err := PathComponent(seg)
		if err != nil {
			return "", err
		}
		b.WriteByte('/')
		b.WriteString(token)
	}
	return b.String(), nil
}

// PathParameter builds the required path parameter for a parameter
// segment. The route metadata wins over the segment for the description;
// the schema comes from a declared parameter type, then the segment
// macro, and defaults to string.
func PathParameter(seg mux.Segment, meta mux.ParamMeta) *Parameter {
	description := meta.Description
	if description == "" {
		description = seg.Description
	}

	return &Parameter{
		Name:        seg.Value,
		In:          "path",
		Description: description,
		Required:    true,
		Schema:      pathParameterSchema(seg, meta),
	}
}

func pathParameterSchema(seg mux.Segment, meta mux.ParamMeta) *Schema {
	if meta.Type != nil {
		return GuessSchema(meta.Type, nil)
	}

	if typeInfo, ok := macroTypeMap[seg.Macro]; ok {
		schema := &Schema{Type: TypeString(typeInfo[0])}
		if typeInfo[1] != "" {
			schema.Format = typeInfo[1]
		}
		return schema
	}

	return &Schema{Type: TypeString("string")}
}
