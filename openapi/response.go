package openapi

import (
	"net/http"
	"reflect"
	"strconv"

	"github.com/vitalvas/routedoc/typed"
)

const defaultContentType = "application/json"

// BuildResponses builds the response map for a route's outcomes. Entries
// keep the order of first declaration; a repeated status replaces the
// earlier response in place. Outcomes that declare a body without any
// content type are dropped.
func BuildResponses(outcomes []typed.Outcome, reg *Registry, enc Encoder) (*Responses, error) {
	if enc == nil {
		return nil, ErrMissingEncoder
	}

	responses := NewResponses()
	for _, o := range outcomes {
		resp := buildResponse(o, reg, enc)
		if resp == nil {
			continue
		}
		responses.Set(strconv.Itoa(o.Status), resp)
	}
	return responses, nil
}

func buildResponse(o typed.Outcome, reg *Registry, enc Encoder) *Response {
	desc := reasonPhrase(o.Status)
	if !o.HasBody() {
		return &Response{Description: desc}
	}

	if mt, ct, ok := describeBody(o.Body, o.ContentType, reg, enc); ok {
		return &Response{Description: desc, Content: map[string]*MediaType{ct: mt}}
	}

	if o.ContentType == "" {
		return nil
	}
	return &Response{
		Description: desc,
		Content: map[string]*MediaType{
			o.ContentType: {Schema: GuessContentSchema(o.ContentType)},
		},
	}
}

// describeBody documents a body type from its capability: an explicit
// schema under the declared (or default JSON) content type, or a
// structural guess when the content type is JSON-family. It reports false
// when only the content type can describe the payload.
func describeBody(t reflect.Type, contentType string, reg *Registry, enc Encoder) (*MediaType, string, bool) {
	switch c := reg.Resolve(t).(type) {
	case ExplicitSchema:
		if contentType == "" {
			contentType = defaultContentType
		}
		mt := &MediaType{Schema: cloneSchema(c.Schema)}
		if ex, ok := reverseExample(enc, c.Example); ok {
			mt.Example = ex
		}
		return mt, contentType, true

	case Reflectable:
		if !IsJSONContentType(contentType) {
			return nil, "", false
		}
		mt := &MediaType{Schema: GuessSchema(t, c.Sample)}
		if ex, ok := reverseExample(enc, c.Example); ok {
			mt.Example = ex
		}
		return mt, contentType, true
	}

	return nil, "", false
}

// reasonPhrase returns the standard reason phrase for a status code, or
// the code itself when none is defined.
func reasonPhrase(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return strconv.Itoa(status)
}
