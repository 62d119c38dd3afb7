package openapi

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vitalvas/routedoc/typed"
)

func TestQueryParameter(t *testing.T) {
	t.Run("scalar", func(t *testing.T) {
		p := QueryParameter(typed.Query[int]("page").Describe("page number").Require(), nil)
		assert.Equal(t, "page", p.Name)
		assert.Equal(t, "query", p.In)
		assert.Equal(t, "page number", p.Description)
		assert.True(t, p.Required)
		assert.Equal(t, "form", p.Style)
		assert.True(t, *p.Explode)
		assert.Equal(t, TypeString("integer"), p.Schema.Type)
	})

	t.Run("array", func(t *testing.T) {
		p := QueryParameter(typed.Query[[]string]("tag").Allow("a", "b"), nil)
		assert.False(t, p.Required)
		assert.Equal(t, "form", p.Style)
		assert.False(t, *p.Explode)
		assert.Equal(t, TypeString("array"), p.Schema.Type)
		assert.Equal(t, TypeString("string"), p.Schema.Items.Type)
		assert.Equal(t, []any{"a", "b"}, p.Schema.Items.Enum)
	})

	t.Run("map", func(t *testing.T) {
		p := QueryParameter(typed.Query[map[string]float64]("filter"), nil)
		assert.Equal(t, "deepObject", p.Style)
		assert.True(t, *p.Explode)
		assert.Equal(t, TypeString("object"), p.Schema.Type)
		assert.Equal(t, TypeString("number"), p.Schema.AdditionalProperties.Type)
	})

	t.Run("opaque value", func(t *testing.T) {
		p := QueryParameter(typed.Query[io.Reader]("r"), nil)
		assert.Equal(t, TypeString("string"), p.Schema.Type)
	})

	t.Run("explicit schema is not mutated", func(t *testing.T) {
		shared := &Schema{Type: TypeString("string"), Format: "color"}
		reg := NewRegistry()
		Register[string](reg, ExplicitSchema{Schema: shared})

		p := QueryParameter(typed.Query[string]("color").Allow("red"), reg)
		assert.Equal(t, "color", p.Schema.Format)
		assert.Equal(t, []any{"red"}, p.Schema.Enum)
		assert.Nil(t, shared.Enum)
	})
}
