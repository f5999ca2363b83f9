package parley

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrUnsupportedMediaType indicates the declared media type is not enabled.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrDecode indicates a backend rejected the request body.
	ErrDecode = errors.New("decode failed")

	// ErrValidation indicates a decoded value failed validation.
	ErrValidation = errors.New("validation failed")

	// ErrEncode indicates a backend could not serialize a value.
	ErrEncode = errors.New("encode failed")

	// ErrNoFormats indicates a registry was built without any codec.
	ErrNoFormats = errors.New("no formats enabled")

	// ErrDuplicateFormat indicates two codecs claim the same format.
	ErrDuplicateFormat = errors.New("duplicate format")

	// ErrUnknownFormat indicates a codec reports a format outside the table.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrInvalidTag indicates a validate tag has an invalid rule or argument.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrInvalidOption indicates an option does not apply to the binding's type.
	ErrInvalidOption = errors.New("invalid option")

	// ErrFormatNotHandled is returned by override interfaces to defer to the backend.
	ErrFormatNotHandled = errors.New("format not handled")
)

// Kind classifies a CodecError. The set is closed.
type Kind uint8

const (
	// KindUnsupportedMediaType means the media type is absent, malformed or not enabled.
	KindUnsupportedMediaType Kind = iota + 1

	// KindDecode means the body could not be decoded into the target type.
	KindDecode

	// KindValidation means the decoded value was rejected by a validator.
	KindValidation

	// KindEncode means the response value could not be encoded.
	KindEncode
)

// Code returns the stable machine-readable code for the kind.
func (k Kind) Code() string {
	switch k {
	case KindUnsupportedMediaType:
		return "unsupported_media_type"
	case KindDecode:
		return "decode_failed"
	case KindValidation:
		return "validation_failed"
	case KindEncode:
		return "encode_failed"
	default:
		return "internal_error"
	}
}

// Status returns the HTTP status for the kind.
func (k Kind) Status() int {
	switch k {
	case KindUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case KindDecode:
		return http.StatusBadRequest
	case KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindUnsupportedMediaType:
		return ErrUnsupportedMediaType
	case KindDecode:
		return ErrDecode
	case KindValidation:
		return ErrValidation
	default:
		return ErrEncode
	}
}

// Violation is a single rejected field.
type Violation struct {
	Field   string `json:"field" msgpack:"field" cbor:"field" yaml:"field" toml:"field" xml:"field" bson:"field"`
	Rule    string `json:"rule" msgpack:"rule" cbor:"rule" yaml:"rule" toml:"rule" xml:"rule" bson:"rule"`
	Message string `json:"message" msgpack:"message" cbor:"message" yaml:"message" toml:"message" xml:"message" bson:"message"`
}

// CodecError is the only error returned across the extract and respond boundaries.
type CodecError struct {
	Kind Kind

	// Format attempted; zero for KindUnsupportedMediaType.
	Format Format

	// ContentType is the received Content-Type (KindUnsupportedMediaType).
	ContentType string

	// Accepted lists the canonical essences of the enabled formats (KindUnsupportedMediaType).
	Accepted []string

	// Violations is set for KindValidation only.
	Violations []Violation

	// Cause is the original backend error, if any.
	Cause error
}

func (e *CodecError) Error() string {
	switch e.Kind {
	case KindUnsupportedMediaType:
		if e.ContentType == "" {
			return fmt.Sprintf("%s: missing content type (accepted: %s)", ErrUnsupportedMediaType, strings.Join(e.Accepted, ", "))
		}
		return fmt.Sprintf("%s %q (accepted: %s)", ErrUnsupportedMediaType, e.ContentType, strings.Join(e.Accepted, ", "))
	case KindValidation:
		parts := make([]string, len(e.Violations))
		for i, v := range e.Violations {
			parts[i] = v.Field + ": " + v.Message
		}
		return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %v", e.Format, e.Kind.sentinel(), e.Cause)
	}
	return fmt.Sprintf("%s %s", e.Format, e.Kind.sentinel())
}

func (e *CodecError) Unwrap() error {
	return e.Kind.sentinel()
}

// Message returns the diagnostic text without the kind prefix.
func (e *CodecError) Message() string {
	switch e.Kind {
	case KindUnsupportedMediaType:
		if e.ContentType == "" {
			return "missing content type"
		}
		return fmt.Sprintf("content type %q is not supported", e.ContentType)
	case KindValidation:
		return fmt.Sprintf("%d field(s) failed validation", len(e.Violations))
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Kind.sentinel().Error()
}

// ConfigError represents a registry or binding construction error.
type ConfigError struct {
	Err    error  // Underlying sentinel error (ErrNoFormats, etc.)
	Format Format // Format involved, if any
	Field  string // Field name that triggered the error
	Detail string
}

func (e *ConfigError) Error() string {
	msg := e.Err.Error()
	if e.Format != 0 {
		msg = fmt.Sprintf("%s %s", msg, e.Format)
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s (field %s)", msg, e.Field)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// AsCodecError unwraps err to a *CodecError.
func AsCodecError(err error) (*CodecError, bool) {
	var ce *CodecError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

func newUnsupportedError(contentType string, accepted []string) error {
	return &CodecError{
		Kind:        KindUnsupportedMediaType,
		ContentType: contentType,
		Accepted:    accepted,
	}
}

func newDecodeError(f Format, cause error) error {
	return &CodecError{Kind: KindDecode, Format: f, Cause: cause}
}

func newValidationError(f Format, violations []Violation) error {
	return &CodecError{Kind: KindValidation, Format: f, Violations: violations}
}

func newEncodeError(f Format, cause error) error {
	return &CodecError{Kind: KindEncode, Format: f, Cause: cause}
}

func newConfigError(sentinel error, f Format, field, detail string) error {
	return &ConfigError{
		Err:    sentinel,
		Format: f,
		Field:  field,
		Detail: detail,
	}
}
