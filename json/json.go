// Package json provides a JSON codec implementation.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/zoobzio/parley"
)

// jsonCodec implements parley.Codec for JSON.
type jsonCodec struct {
	strict bool
}

// New returns a JSON codec.
func New() parley.Codec {
	return &jsonCodec{}
}

// Strict returns a JSON codec that rejects unknown object fields and
// trailing data after the first value.
func Strict() parley.Codec {
	return &jsonCodec{strict: true}
}

// Format returns parley.JSON.
func (c *jsonCodec) Format() parley.Format {
	return parley.JSON
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	if !c.strict {
		return json.Unmarshal(data, v)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("json: unexpected data after top-level value")
	}
	return nil
}
