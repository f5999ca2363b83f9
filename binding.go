package parley

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// DefaultBodyLimit bounds request bodies read by Bind.
const DefaultBodyLimit int64 = 2 << 20

// Body is an encoded response body and the media type it was encoded for.
type Body struct {
	Format      Format
	ContentType string
	Data        []byte
}

// Binding decodes and encodes values of type T through a Registry.
// Use Extract for request bodies and Respond for response values.
//
// Bindings are immutable after construction and safe for concurrent use.
type Binding[T any] struct {
	registry   *Registry
	plans      []validationPlan
	validators []Validator[T]
	bodyLimit  int64
	typeName   string
}

// Option configures a Binding.
type Option func(*options)

type options struct {
	validators []any
	bodyLimit  int64
}

// WithValidator adds a custom check run after tag validation.
// The validator's type must match the binding's type.
func WithValidator[T any](fn func(v *T) []Violation) Option {
	return func(o *options) {
		o.validators = append(o.validators, Validator[T](fn))
	}
}

// WithBodyLimit sets the maximum request body size read by Bind.
// Zero or negative disables the limit.
func WithBodyLimit(n int64) Option {
	return func(o *options) {
		o.bodyLimit = n
	}
}

// NewBinding creates a Binding for type T.
//
// Struct tags are scanned once for validate rules; an invalid rule fails
// construction with ErrInvalidTag.
func NewBinding[T any](r *Registry, opts ...Option) (*Binding[T], error) {
	if r == nil {
		return nil, newConfigError(ErrNoFormats, 0, "", "nil registry")
	}

	o := options{bodyLimit: DefaultBodyLimit}
	for _, opt := range opts {
		opt(&o)
	}

	plans, typeName, err := buildValidationPlans[T]()
	if err != nil {
		return nil, err
	}

	b := &Binding[T]{
		registry:  r,
		plans:     plans,
		bodyLimit: o.bodyLimit,
		typeName:  typeName,
	}
	for _, v := range o.validators {
		fn, ok := v.(Validator[T])
		if !ok {
			return nil, newConfigError(ErrInvalidOption, 0, "", fmt.Sprintf("validator %T does not accept *%s", v, typeName))
		}
		b.validators = append(b.validators, fn)
	}

	emitBindingCreated(context.Background(), typeName, len(plans))
	return b, nil
}

// Registry returns the registry the binding negotiates with.
func (b *Binding[T]) Registry() *Registry {
	return b.registry
}

// Extract decodes body, whose media type is declared by contentType, into a
// new T and validates it. The format comes from contentType alone.
func (b *Binding[T]) Extract(ctx context.Context, contentType string, body []byte) (*T, error) {
	start := time.Now()
	emitExtractStart(ctx, contentType, b.typeName)

	var retErr error
	defer func() {
		emitExtractComplete(ctx, contentType, b.typeName, len(body), time.Since(start), retErr)
	}()

	f, err := b.registry.Resolve(contentType)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	obj, err := b.extract(f, body)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	return obj, nil
}

// extract decodes and validates with an already resolved format.
func (b *Binding[T]) extract(f Format, body []byte) (*T, error) {
	obj, err := b.registry.unmarshal(f, body, func() any { return new(T) })
	if err != nil {
		return nil, err
	}
	v := obj.(*T)

	if violations := b.validate(v); len(violations) > 0 {
		return nil, newValidationError(f, violations)
	}
	return v, nil
}

// Validate runs the binding's tag rules and custom validators against v.
func (b *Binding[T]) Validate(v *T) []Violation {
	return b.validate(v)
}

func (b *Binding[T]) validate(v *T) []Violation {
	var violations []Violation
	if len(b.plans) > 0 {
		violations = validateFields(b.plans, reflect.ValueOf(v).Elem())
	}
	if len(b.validators) == 0 {
		return violations
	}

	rejected := make(map[string]bool, len(violations))
	for _, viol := range violations {
		rejected[viol.Field] = true
	}
	for _, fn := range b.validators {
		for _, viol := range fn(v) {
			if rejected[viol.Field] {
				continue
			}
			rejected[viol.Field] = true
			violations = append(violations, viol)
		}
	}
	return violations
}

// Respond encodes v in the format negotiated from accept, then contentType,
// then the registry default.
func (b *Binding[T]) Respond(ctx context.Context, v *T, accept, contentType string) (*Body, error) {
	return b.registry.encode(ctx, b.typeName, v, accept, contentType)
}

// Encode encodes any value in the format negotiated from accept, then
// contentType, then the registry default. Failures are KindEncode errors.
func (r *Registry) Encode(ctx context.Context, v any, accept, contentType string) (*Body, error) {
	typeName := "nil"
	if v != nil {
		typeName = reflect.TypeOf(v).String()
	}
	return r.encode(ctx, typeName, v, accept, contentType)
}

// Decode decodes body into v, which must be a non-nil pointer, using the
// format declared by contentType. No validation is run. The body is decoded
// into a fresh value and v is only written on success.
func (r *Registry) Decode(contentType string, body []byte, v any) error {
	f, err := r.Resolve(contentType)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return newDecodeError(f, fmt.Errorf("decode target must be a non-nil pointer, got %T", v))
	}
	elem := rv.Type().Elem()
	obj, err := r.unmarshal(f, body, func() any { return reflect.New(elem).Interface() })
	if err != nil {
		return err
	}
	rv.Elem().Set(reflect.ValueOf(obj).Elem())
	return nil
}

func (r *Registry) encode(ctx context.Context, typeName string, v any, accept, contentType string) (*Body, error) {
	f, tier := r.NegotiateTier(accept, contentType)
	emitNegotiated(ctx, accept, contentType, f, tier)

	start := time.Now()
	emitRespondStart(ctx, typeName, f)

	data, err := r.marshal(f, v)
	emitRespondComplete(ctx, typeName, f, len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return &Body{Format: f, ContentType: f.ContentType(), Data: data}, nil
}

// marshal encodes v with the override interface or the backend for f.
// Backend panics become KindEncode errors.
func (r *Registry) marshal(f Format, v any) (data []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			data, err = nil, newEncodeError(f, fmt.Errorf("panic: %v", p))
		}
	}()

	if m, ok := v.(FormatMarshaler); ok {
		out, merr := m.MarshalFormat(f)
		if !errors.Is(merr, ErrFormatNotHandled) {
			if merr != nil {
				return nil, newEncodeError(f, merr)
			}
			return out, nil
		}
	}

	c, ok := r.byFormat[f]
	if !ok {
		return nil, newEncodeError(f, fmt.Errorf("format %s not enabled", f))
	}
	data, err = c.Marshal(v)
	if err != nil {
		return nil, newEncodeError(f, err)
	}
	return data, nil
}

// unmarshal decodes data into the value produced by target.
// Backend panics become KindDecode errors.
func (r *Registry) unmarshal(f Format, data []byte, target func() any) (obj any, err error) {
	defer func() {
		if p := recover(); p != nil {
			obj, err = nil, newDecodeError(f, fmt.Errorf("panic: %v", p))
		}
	}()

	obj = target()
	if u, ok := obj.(FormatUnmarshaler); ok {
		uerr := u.UnmarshalFormat(f, data)
		if !errors.Is(uerr, ErrFormatNotHandled) {
			if uerr != nil {
				return nil, newDecodeError(f, uerr)
			}
			return obj, nil
		}
		// The override may have touched the target; start from zero again.
		// target must return a new value on every call.
		obj = target()
	}

	c, ok := r.byFormat[f]
	if !ok {
		return nil, newDecodeError(f, fmt.Errorf("format %s not enabled", f))
	}
	if err := c.Unmarshal(data, obj); err != nil {
		return nil, newDecodeError(f, err)
	}
	return obj, nil
}
