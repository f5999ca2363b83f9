package parley

import (
	"context"
	"reflect"
	"sync"
)

// Registry is the ordered set of enabled format backends.
// It is immutable after NewRegistry and safe for concurrent use.
type Registry struct {
	codecs   []Codec
	byFormat map[Format]Codec
	accepted []string
}

// NewRegistry builds a registry from codecs in priority order.
// The first codec is the default format. At least one codec is required and
// each format may appear only once.
func NewRegistry(codecs ...Codec) (*Registry, error) {
	if len(codecs) == 0 {
		return nil, newConfigError(ErrNoFormats, 0, "", "")
	}

	r := &Registry{
		codecs:   make([]Codec, 0, len(codecs)),
		byFormat: make(map[Format]Codec, len(codecs)),
		accepted: make([]string, 0, len(codecs)),
	}
	for _, c := range codecs {
		if c == nil {
			return nil, newConfigError(ErrUnknownFormat, 0, "", "nil codec")
		}
		f := c.Format()
		if !f.Valid() {
			return nil, newConfigError(ErrUnknownFormat, 0, "", reflect.TypeOf(c).String())
		}
		if _, dup := r.byFormat[f]; dup {
			return nil, newConfigError(ErrDuplicateFormat, f, "", "")
		}
		r.codecs = append(r.codecs, c)
		r.byFormat[f] = c
		r.accepted = append(r.accepted, f.ContentType())
	}

	emitRegistryCreated(context.Background(), r.accepted)
	return r, nil
}

// MustRegistry is NewRegistry that panics on error.
// Intended for package-level variables built from a fixed codec list.
func MustRegistry(codecs ...Codec) *Registry {
	r, err := NewRegistry(codecs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the first enabled format.
func (r *Registry) Default() Format {
	return r.codecs[0].Format()
}

// Formats returns the enabled formats in priority order.
func (r *Registry) Formats() []Format {
	out := make([]Format, len(r.codecs))
	for i, c := range r.codecs {
		out[i] = c.Format()
	}
	return out
}

// Enabled reports whether f is in the registry.
func (r *Registry) Enabled(f Format) bool {
	_, ok := r.byFormat[f]
	return ok
}

// Codec returns the backend for f.
func (r *Registry) Codec(f Format) (Codec, bool) {
	c, ok := r.byFormat[f]
	return c, ok
}

// Accepted returns the canonical essences of the enabled formats in priority order.
func (r *Registry) Accepted() []string {
	out := make([]string, len(r.accepted))
	copy(out, r.accepted)
	return out
}

// Lookup finds the enabled format named by a normalised essence.
func (r *Registry) Lookup(essence string) (Format, bool) {
	f, ok := LookupEssence(essence)
	if !ok || !r.Enabled(f) {
		return 0, false
	}
	return f, true
}

// bindingKey combines type and registry for cache lookup.
type bindingKey struct {
	typ      reflect.Type
	registry *Registry
}

var (
	bindings   = make(map[bindingKey]any)
	bindingsMu sync.RWMutex
)

// Use returns a cached binding or builds a new one with default options.
// The binding is cached by type and registry.
func Use[T any](r *Registry) (*Binding[T], error) {
	typ := reflect.TypeFor[T]()
	key := bindingKey{typ: typ, registry: r}

	// Fast path: read-lock cache check
	bindingsMu.RLock()
	if cached, ok := bindings[key]; ok {
		bindingsMu.RUnlock()
		return cached.(*Binding[T]), nil
	}
	bindingsMu.RUnlock()

	// Slow path: build and cache with write-lock
	bindingsMu.Lock()
	defer bindingsMu.Unlock()

	// Double-check pattern
	if cached, ok := bindings[key]; ok {
		return cached.(*Binding[T]), nil
	}

	b, err := NewBinding[T](r)
	if err != nil {
		return nil, err
	}

	bindings[key] = b
	return b, nil
}

// Reset clears the binding cache.
// This is primarily useful for test isolation.
func Reset() {
	bindingsMu.Lock()
	defer bindingsMu.Unlock()
	bindings = make(map[bindingKey]any)
}
