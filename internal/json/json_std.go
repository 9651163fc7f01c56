//go:build !((linux || darwin || windows) && (amd64 || arm64))

package json

import (
	stdjson "encoding/json"
	"io"
)

// Marshal encodes v as compact JSON.
func Marshal(v any) ([]byte, error) {
	return stdjson.Marshal(v)
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v any) error {
	return stdjson.Unmarshal(data, v)
}

// NewEncoder creates a streaming encoder writing to w.
func NewEncoder(w io.Writer) Encoder {
	return stdjson.NewEncoder(w)
}

// Encoder is a JSON encoder.
type Encoder = *stdjson.Encoder
