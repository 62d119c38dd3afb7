package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMediaTypeOf(t *testing.T) {
	assert.Equal(t, "application/json", MediaTypeOf("Application/JSON; charset=utf-8"))
	assert.Equal(t, "text/plain", MediaTypeOf("text/plain"))
	assert.Equal(t, "weird", MediaTypeOf(" Weird ;; x"))
}

func TestIsJSONContentType(t *testing.T) {
	for _, ct := range []string{"application/json", "application/json; charset=utf-8", "application/vnd.api+json", "application/problem+json"} {
		assert.True(t, IsJSONContentType(ct), ct)
	}
	for _, ct := range []string{"", "text/json", "application/xml", "application/jsonl", "text/plain"} {
		assert.False(t, IsJSONContentType(ct), ct)
	}
}

func TestGuessContentSchema(t *testing.T) {
	tests := []struct {
		contentType string
		binary      bool
	}{
		{contentType: "text/plain", binary: false},
		{contentType: "text/html; charset=utf-8", binary: false},
		{contentType: "text/csv", binary: false},
		{contentType: "application/xml", binary: false},
		{contentType: "application/x-yaml", binary: false},
		{contentType: "application/javascript", binary: false},
		{contentType: "application/atom+xml", binary: false},
		{contentType: "image/png", binary: true},
		{contentType: "audio/mpeg", binary: true},
		{contentType: "video/mp4", binary: true},
		{contentType: "application/octet-stream", binary: true},
		{contentType: "application/pdf", binary: true},
		{contentType: "something-unknown", binary: false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			s := GuessContentSchema(tt.contentType)
			assert.Equal(t, TypeString("string"), s.Type)
			if tt.binary {
				assert.Equal(t, "binary", s.ContentEncoding)
			} else {
				assert.Empty(t, s.ContentEncoding)
			}
		})
	}
}
