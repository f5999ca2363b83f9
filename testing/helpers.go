// Package testing provides test utilities for parley.
package testing

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zoobzio/parley"
	"github.com/zoobzio/parley/json"
)

// SimpleUser is a test type with no validation rules.
type SimpleUser struct {
	ID   string `json:"id" msgpack:"id" cbor:"id" yaml:"id" toml:"id" xml:"id" bson:"id"`
	Name string `json:"name" msgpack:"name" cbor:"name" yaml:"name" toml:"name" xml:"name" bson:"name"`
}

// User is a test type carrying field names for every text and binary format
// plus validate rules.
type User struct {
	ID    string   `json:"id" msgpack:"id" cbor:"id" yaml:"id" toml:"id" xml:"id" bson:"id" validate:"required"`
	Name  string   `json:"name" msgpack:"name" cbor:"name" yaml:"name" toml:"name" xml:"name" bson:"name" validate:"required,min=2,max=64"`
	Email string   `json:"email" msgpack:"email" cbor:"email" yaml:"email" toml:"email" xml:"email" bson:"email" validate:"required"`
	Age   int      `json:"age" msgpack:"age" cbor:"age" yaml:"age" toml:"age" xml:"age" bson:"age" validate:"min=0,max=150"`
	Role  string   `json:"role,omitempty" msgpack:"role,omitempty" cbor:"role,omitempty" yaml:"role,omitempty" toml:"role,omitempty" xml:"role,omitempty" bson:"role,omitempty" validate:"omitempty,oneof=admin member guest"`
	Tags  []string `json:"tags,omitempty" msgpack:"tags,omitempty" cbor:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty" xml:"tag,omitempty" bson:"tags,omitempty" validate:"max=8"`
}

// ValidUser returns a User that passes every rule.
func ValidUser() *User {
	return &User{
		ID:    "u-1",
		Name:  "Alice",
		Email: "alice@example.com",
		Age:   30,
		Role:  "admin",
		Tags:  []string{"a", "b"},
	}
}

// Registry builds a registry from codecs, failing tb on error.
// With no codecs it returns a JSON-only registry.
func Registry(tb testing.TB, codecs ...parley.Codec) *parley.Registry {
	tb.Helper()
	if len(codecs) == 0 {
		codecs = []parley.Codec{json.New()}
	}
	r, err := parley.NewRegistry(codecs...)
	if err != nil {
		tb.Fatalf("NewRegistry() error: %v", err)
	}
	return r
}

// Binding builds a binding for T, failing tb on error.
func Binding[T any](tb testing.TB, r *parley.Registry, opts ...parley.Option) *parley.Binding[T] {
	tb.Helper()
	b, err := parley.NewBinding[T](r, opts...)
	if err != nil {
		tb.Fatalf("NewBinding() error: %v", err)
	}
	return b
}

// Request builds a request with the given body and negotiation headers.
// Empty header values are omitted.
func Request(method, target, contentType, accept string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return req
}

// Encode marshals v with c, failing tb on error.
func Encode(tb testing.TB, c parley.Codec, v any) []byte {
	tb.Helper()
	data, err := c.Marshal(v)
	if err != nil {
		tb.Fatalf("%s Marshal() error: %v", c.Format(), err)
	}
	return data
}

// RequireKind fails tb unless err is a *parley.CodecError of kind k.
func RequireKind(tb testing.TB, err error, k parley.Kind) *parley.CodecError {
	tb.Helper()
	ce, ok := parley.AsCodecError(err)
	if !ok {
		tb.Fatalf("error = %v, want *CodecError of kind %s", err, k.Code())
	}
	if ce.Kind != k {
		tb.Fatalf("kind = %s, want %s (err: %v)", ce.Kind.Code(), k.Code(), err)
	}
	return ce
}

// RequireSentinel fails tb unless errors.Is(err, target).
func RequireSentinel(tb testing.TB, err, target error) {
	tb.Helper()
	if !errors.Is(err, target) {
		tb.Fatalf("error = %v, want %v", err, target)
	}
}
