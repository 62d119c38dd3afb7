package openapi

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upperEncoder struct{}

func (upperEncoder) Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	return []byte(strings.ToUpper(string(data))), err
}

func TestReverseExample(t *testing.T) {
	t.Run("decodes the encoded form", func(t *testing.T) {
		ex, ok := reverseExample(JSONEncoder(), examplerOnly{StringValue: "hello world"})
		require.True(t, ok)
		assert.Equal(t, map[string]any{"stringValue": "hello world"}, ex)
	})

	t.Run("numbers keep their text", func(t *testing.T) {
		ex, ok := reverseExample(JSONEncoder(), map[string]int64{"n": 9007199254740993})
		require.True(t, ok)
		assert.Equal(t, map[string]any{"n": json.Number("9007199254740993")}, ex)
	})

	t.Run("dates follow the encoder", func(t *testing.T) {
		ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		ex, ok := reverseExample(JSONEncoder(), ts)
		require.True(t, ok)
		assert.Equal(t, "2024-01-02T03:04:05Z", ex)
	})

	t.Run("custom encoder", func(t *testing.T) {
		ex, ok := reverseExample(upperEncoder{}, map[string]string{"a": "b"})
		require.True(t, ok)
		assert.Equal(t, map[string]any{"A": "B"}, ex)
	})

	t.Run("failures yield nothing", func(t *testing.T) {
		_, ok := reverseExample(JSONEncoder(), nil)
		assert.False(t, ok)

		_, ok = reverseExample(JSONEncoder(), make(chan int))
		assert.False(t, ok)

		failing := EncoderFunc(func(any) ([]byte, error) { return nil, errors.New("boom") })
		_, ok = reverseExample(failing, 1)
		assert.False(t, ok)

		garbage := EncoderFunc(func(any) ([]byte, error) { return []byte("<xml/>"), nil })
		_, ok = reverseExample(garbage, 1)
		assert.False(t, ok)
	})
}
