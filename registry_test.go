package parley_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/zoobzio/parley"
)

func TestNewRegistry(t *testing.T) {
	r := newRegistry(t, parley.MsgPack, parley.JSON, parley.YAML)

	if r.Default() != parley.MsgPack {
		t.Errorf("Default() = %v, want %v", r.Default(), parley.MsgPack)
	}
	got := r.Formats()
	if len(got) != 3 || got[0] != parley.MsgPack || got[1] != parley.JSON || got[2] != parley.YAML {
		t.Errorf("Formats() = %v", got)
	}
	if !r.Enabled(parley.YAML) || r.Enabled(parley.CBOR) {
		t.Error("Enabled() reports the wrong set")
	}
	if c, ok := r.Codec(parley.JSON); !ok || c.Format() != parley.JSON {
		t.Errorf("Codec(JSON) = %v, %v", c, ok)
	}
}

func TestNewRegistry_Errors(t *testing.T) {
	tests := []struct {
		name   string
		codecs []parley.Codec
		want   error
	}{
		{"empty", nil, parley.ErrNoFormats},
		{"duplicate", codecs(parley.JSON, parley.YAML, parley.JSON), parley.ErrDuplicateFormat},
		{"unknown format", codecs(parley.JSON, parley.Format(42)), parley.ErrUnknownFormat},
		{"zero format", codecs(parley.Format(0)), parley.ErrUnknownFormat},
		{"nil codec", []parley.Codec{nil}, parley.ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := parley.NewRegistry(tt.codecs...)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if r != nil {
				t.Error("registry should be nil on error")
			}
		})
	}
}

func TestMustRegistry_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustRegistry() should panic with no codecs")
		}
	}()
	parley.MustRegistry()
}

func TestRegistry_Accepted(t *testing.T) {
	r := newRegistry(t, parley.JSON, parley.Protobuf)

	got := r.Accepted()
	if len(got) != 2 || got[0] != "application/json" || got[1] != "application/x-protobuf" {
		t.Errorf("Accepted() = %v", got)
	}

	got[0] = "mutated"
	if r.Accepted()[0] != "application/json" {
		t.Error("Accepted() should return a copy")
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := newRegistry(t, parley.JSON)

	if f, ok := r.Lookup("application/problem+json"); !ok || f != parley.JSON {
		t.Errorf("Lookup() = %v, %v", f, ok)
	}
	if _, ok := r.Lookup("application/yaml"); ok {
		t.Error("Lookup() of a disabled format should fail")
	}
}

func TestUse_Caching(t *testing.T) {
	parley.Reset()
	r := newRegistry(t, parley.JSON)

	b1, err := parley.Use[User](r)
	if err != nil {
		t.Fatalf("Use() error: %v", err)
	}
	b2, err := parley.Use[User](r)
	if err != nil {
		t.Fatalf("Use() error: %v", err)
	}
	if b1 != b2 {
		t.Error("Use() should return cached binding")
	}
}

func TestUse_DifferentRegistries(t *testing.T) {
	parley.Reset()

	b1, _ := parley.Use[User](newRegistry(t, parley.JSON))
	b2, _ := parley.Use[User](newRegistry(t, parley.JSON))
	if b1 == b2 {
		t.Error("different registries should not share a binding")
	}
}

func TestUse_Error(t *testing.T) {
	type invalid struct {
		Name string `validate:"bogus"`
	}
	parley.Reset()

	if _, err := parley.Use[invalid](newRegistry(t, parley.JSON)); !errors.Is(err, parley.ErrInvalidTag) {
		t.Errorf("error = %v, want ErrInvalidTag", err)
	}
}

func TestUse_Concurrent(t *testing.T) {
	parley.Reset()
	r := newRegistry(t, parley.JSON)

	const n = 32
	results := make([]*parley.Binding[User], n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = parley.Use[User](r)
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatal("concurrent Use() returned different bindings")
		}
	}
}

func TestReset(t *testing.T) {
	r := newRegistry(t, parley.JSON)
	b1, _ := parley.Use[User](r)

	parley.Reset()

	b2, _ := parley.Use[User](r)
	if b1 == b2 {
		t.Error("Reset() should clear cache, new binding expected")
	}
}
