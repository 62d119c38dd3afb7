package openapi

import (
	"bytes"
	"encoding/json"
)

// Encoder renders example values the way the API serializes them on the
// wire.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(v any) ([]byte, error)

// Encode implements Encoder.
func (f EncoderFunc) Encode(v any) ([]byte, error) {
	return f(v)
}

// JSONEncoder returns the default encoder backed by encoding/json: map keys
// are sorted and time.Time values are RFC 3339.
func JSONEncoder() Encoder {
	return EncoderFunc(json.Marshal)
}

// reverseExample encodes v and decodes the result into a generic value, so
// the embedded example matches the wire form. It reports false when v is
// nil or does not survive the round trip.
func reverseExample(enc Encoder, v any) (any, bool) {
	if v == nil || enc == nil {
		return nil, false
	}

	data, err := enc.Encode(v)
	if err != nil {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, false
	}
	return out, true
}
