// Package msgpack provides a MessagePack codec implementation.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/parley"
)

// msgpackCodec implements parley.Codec for MessagePack.
type msgpackCodec struct {
	tag string
}

// New returns a MessagePack codec that reads `msgpack` struct tags.
func New() parley.Codec {
	return &msgpackCodec{}
}

// WithStructTag returns a MessagePack codec that falls back to the given
// struct tag, e.g. "json", for fields without a `msgpack` tag. A `msgpack`
// tag always takes precedence.
func WithStructTag(tag string) parley.Codec {
	return &msgpackCodec{tag: tag}
}

// Format returns parley.MsgPack.
func (c *msgpackCodec) Format() parley.Format {
	return parley.MsgPack
}

// Marshal encodes v as MessagePack.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	if c.tag == "" {
		return msgpack.Marshal(v)
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag(c.tag)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into v.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	if c.tag == "" {
		return msgpack.Unmarshal(data, v)
	}
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag(c.tag)
	return dec.Decode(v)
}
