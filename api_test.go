package parley_test

import (
	"encoding/json"
	"testing"

	"github.com/zoobzio/parley"
)

// testCodec claims a format but speaks JSON, so the root package can be
// tested without importing a backend module.
type testCodec struct {
	format parley.Format
}

func (c *testCodec) Format() parley.Format { return c.format }

func (c *testCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (c *testCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// panicCodec panics on every call.
type panicCodec struct {
	format parley.Format
}

func (c *panicCodec) Format() parley.Format { return c.format }

func (c *panicCodec) Marshal(any) ([]byte, error) { panic("marshal exploded") }

func (c *panicCodec) Unmarshal([]byte, any) error { panic("unmarshal exploded") }

func codecs(formats ...parley.Format) []parley.Codec {
	out := make([]parley.Codec, len(formats))
	for i, f := range formats {
		out[i] = &testCodec{format: f}
	}
	return out
}

func newRegistry(t *testing.T, formats ...parley.Format) *parley.Registry {
	t.Helper()
	r, err := parley.NewRegistry(codecs(formats...)...)
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}
	return r
}

type User struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required,min=2,max=32"`
	Email string `json:"email" validate:"required"`
	Age   int    `json:"age" validate:"min=0,max=150"`
}

type Greeting struct {
	Message string `json:"message"`
}
