package jsonutil

import (
	jsoniter "github.com/json-iterator/go"
)

// api encodes without HTML escaping and decodes numbers as json.Number, so
// integer amounts in cents survive a round trip untouched.
var api = jsoniter.Config{
	EscapeHTML:             false,
	UseNumber:              true,
	ValidateJsonRawMessage: true,
}.Froze()

// Marshal encodes v into JSON without HTML escaping and without a trailing newline.
func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

// Unmarshal decodes data into v. Numbers stored into interface values become json.Number.
func Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}

// Valid reports whether data is a valid JSON encoding.
func Valid(data []byte) bool {
	return api.Valid(data)
}

// MustMarshal is a convenience helper for tests/examples.
func MustMarshal(v any) []byte {
	b, err := Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
