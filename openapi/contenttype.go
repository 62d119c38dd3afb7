package openapi

import (
	"mime"
	"strings"
)

// textApplicationTypes are application/* media types whose payload is text.
var textApplicationTypes = map[string]bool{
	"application/json":                  true,
	"application/xml":                   true,
	"application/yaml":                  true,
	"application/x-yaml":                true,
	"application/javascript":            true,
	"application/ecmascript":            true,
	"application/rtf":                   true,
	"application/x-www-form-urlencoded": true,
}

// MediaTypeOf returns the lower-cased media type of a Content-Type value
// without parameters.
func MediaTypeOf(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// IsJSONContentType reports whether the content type belongs to the JSON
// family: application/json, application/*+json (including
// application/vnd.api+json).
func IsJSONContentType(contentType string) bool {
	mt := MediaTypeOf(contentType)
	return mt == "application/json" ||
		(strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json"))
}

// GuessContentSchema describes a payload from its content type alone.
// Text-like types are strings, binary-like types are strings with binary
// content encoding, and anything unknown is a plain string.
func GuessContentSchema(contentType string) *Schema {
	if isBinaryContentType(MediaTypeOf(contentType)) {
		return &Schema{Type: TypeString("string"), ContentEncoding: "binary"}
	}
	return &Schema{Type: TypeString("string")}
}

func isBinaryContentType(mt string) bool {
	major, minor, ok := strings.Cut(mt, "/")
	if !ok {
		return false
	}

	switch major {
	case "image", "audio", "video":
		return true
	case "application":
		if textApplicationTypes[mt] {
			return false
		}
		if strings.HasSuffix(minor, "+json") || strings.HasSuffix(minor, "+xml") || strings.HasSuffix(minor, "+yaml") {
			return false
		}
		return true
	default:
		// text/*, */*, multipart/form-data and unknown families.
		return false
	}
}
