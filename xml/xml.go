// Package xml provides an XML codec implementation.
package xml

import (
	"encoding/xml"

	"github.com/zoobzio/parley"
)

// xmlCodec implements parley.Codec for XML.
type xmlCodec struct {
	header bool
}

// New returns an XML codec.
func New() parley.Codec {
	return &xmlCodec{}
}

// WithHeader returns an XML codec that prefixes output with xml.Header.
func WithHeader() parley.Codec {
	return &xmlCodec{header: true}
}

// Format returns parley.XML.
func (c *xmlCodec) Format() parley.Format {
	return parley.XML
}

// Marshal encodes v as XML.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	data, err := xml.Marshal(v)
	if err != nil || !c.header {
		return data, err
	}
	return append([]byte(xml.Header), data...), nil
}

// Unmarshal decodes XML data into v.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}
