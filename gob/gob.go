// Package gob provides a Go gob codec implementation.
//
// Gob streams are self-describing but Go-specific; use it between Go
// services that share type definitions.
package gob

import (
	"bytes"
	"encoding/gob"

	"github.com/zoobzio/parley"
)

// gobCodec implements parley.Codec for gob.
type gobCodec struct{}

// New returns a gob codec.
func New() parley.Codec {
	return &gobCodec{}
}

// Format returns parley.Gob.
func (c *gobCodec) Format() parley.Format {
	return parley.Gob
}

// Marshal encodes v as a single gob stream.
func (c *gobCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a gob stream into v.
func (c *gobCodec) Unmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
