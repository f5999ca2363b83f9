// Package yaml provides a YAML codec implementation.
package yaml

import (
	"errors"
	"unicode/utf8"

	"github.com/zoobzio/parley"
	"gopkg.in/yaml.v3"
)

var errNotUTF8 = errors.New("yaml: document is not valid UTF-8")

// yamlCodec implements parley.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec.
func New() parley.Codec {
	return &yamlCodec{}
}

// Format returns parley.YAML.
func (c *yamlCodec) Format() parley.Format {
	return parley.YAML
}

// Marshal encodes v as YAML.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// Unmarshal decodes YAML data into v. YAML is text; non-UTF-8 input is rejected.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	if !utf8.Valid(data) {
		return errNotUTF8
	}
	return yaml.Unmarshal(data, v)
}
