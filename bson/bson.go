// Package bson provides a BSON codec implementation.
package bson

import (
	"github.com/zoobzio/parley"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec implements parley.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() parley.Codec {
	return &bsonCodec{}
}

// Format returns parley.BSON.
func (c *bsonCodec) Format() parley.Format {
	return parley.BSON
}

// Marshal encodes v as a BSON document.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

// Unmarshal decodes a BSON document into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}
