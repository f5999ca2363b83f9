// Package cbor provides a CBOR codec implementation.
package cbor

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/zoobzio/parley"
)

// cborCodec implements parley.Codec for CBOR.
type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// New returns a CBOR codec with canonical (RFC 7049 §3.9) encoding.
func New() parley.Codec {
	c, err := NewWithOptions(cbor.CanonicalEncOptions(), cbor.DecOptions{})
	if err != nil {
		// Canonical options are static and always valid.
		panic(err)
	}
	return c
}

// NewWithOptions returns a CBOR codec built from explicit encode and decode options.
func NewWithOptions(encOpts cbor.EncOptions, decOpts cbor.DecOptions) (parley.Codec, error) {
	em, err := encOpts.EncMode()
	if err != nil {
		return nil, err
	}
	dm, err := decOpts.DecMode()
	if err != nil {
		return nil, err
	}
	return &cborCodec{enc: em, dec: dm}, nil
}

// Format returns parley.CBOR.
func (c *cborCodec) Format() parley.Format {
	return parley.CBOR
}

// Marshal encodes v as CBOR.
func (c *cborCodec) Marshal(v any) ([]byte, error) {
	return c.enc.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func (c *cborCodec) Unmarshal(data []byte, v any) error {
	return c.dec.Unmarshal(data, v)
}
