// Package protobuf provides a Protocol Buffers codec implementation.
//
// Only values implementing proto.Message can be encoded or decoded; any
// other type fails with an error.
package protobuf

import (
	"fmt"

	"github.com/zoobzio/parley"
	"google.golang.org/protobuf/proto"
)

// protoCodec implements parley.Codec for Protocol Buffers.
type protoCodec struct {
	mo proto.MarshalOptions
	uo proto.UnmarshalOptions
}

// New returns a Protocol Buffers codec with deterministic marshaling.
func New() parley.Codec {
	return &protoCodec{mo: proto.MarshalOptions{Deterministic: true}}
}

// Format returns parley.Protobuf.
func (c *protoCodec) Format() parley.Format {
	return parley.Protobuf
}

// Marshal encodes v, which must be a proto.Message.
func (c *protoCodec) Marshal(v any) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("protobuf: value does not implement proto.Message: %T", v)
	}
	return c.mo.Marshal(msg)
}

// Unmarshal decodes data into v, which must be a proto.Message.
func (c *protoCodec) Unmarshal(data []byte, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return fmt.Errorf("protobuf: target does not implement proto.Message: %T", v)
	}
	return c.uo.Unmarshal(data, msg)
}
