// Package toml provides a TOML codec implementation.
//
// TOML documents are tables: only structs and maps can be encoded at the
// top level.
package toml

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
	"github.com/zoobzio/parley"
)

var errNotUTF8 = errors.New("toml: document is not valid UTF-8")

// tomlCodec implements parley.Codec for TOML.
type tomlCodec struct {
	strict bool
}

// New returns a TOML codec.
func New() parley.Codec {
	return &tomlCodec{}
}

// Strict returns a TOML codec that rejects keys not present in the target.
func Strict() parley.Codec {
	return &tomlCodec{strict: true}
}

// Format returns parley.TOML.
func (c *tomlCodec) Format() parley.Format {
	return parley.TOML
}

// Marshal encodes v as TOML. Values that are not a struct or map, after
// dereferencing pointers, are rejected.
func (c *tomlCodec) Marshal(v any) ([]byte, error) {
	if err := checkTable(v); err != nil {
		return nil, err
	}
	return toml.Marshal(v)
}

func checkTable(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return errNotTable(v)
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct, reflect.Map:
		return nil
	}
	return errNotTable(v)
}

func errNotTable(v any) error {
	return fmt.Errorf("toml: top-level value must be a table, got %T", v)
}

// Unmarshal decodes TOML data into v. Non-UTF-8 input is rejected.
func (c *tomlCodec) Unmarshal(data []byte, v any) error {
	if !utf8.Valid(data) {
		return errNotUTF8
	}
	if !c.strict {
		return toml.Unmarshal(data, v)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
