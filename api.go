// Package parley provides content-negotiated, multi-format serialization for
// request and response bodies.
//
// A Registry holds the ordered set of enabled format backends. Ingress bodies
// are decoded with the format named by their Content-Type; egress values are
// encoded with the format selected from the client's Accept header, falling
// back to the request's Content-Type and finally to the first enabled format.
//
// # Formats
//
// Each backend lives in its own module so that only the libraries you enable
// are compiled in:
//
//   - json - JSON (application/json)
//   - msgpack - MessagePack (application/msgpack)
//   - cbor - CBOR (application/cbor)
//   - yaml - YAML (application/yaml)
//   - toml - TOML (application/toml)
//   - xml - XML (application/xml)
//   - bson - BSON (application/bson)
//   - protobuf - Protocol Buffers (application/x-protobuf)
//   - gob - Go gob (application/x-gob)
//
// The order codecs are passed to NewRegistry is their priority order; the
// first is the default.
//
// # Basic Usage
//
//	type User struct {
//	    Name string `json:"name" msgpack:"name" validate:"required,max=100"`
//	    Age  int    `json:"age" msgpack:"age" validate:"max=150"`
//	}
//
//	reg, _ := parley.NewRegistry(json.New(), msgpack.New())
//	users, _ := parley.NewBinding[User](reg)
//
//	// Ingress: Content-Type selects the decoder, never a default.
//	user, err := users.Extract(ctx, r.Header.Get("Content-Type"), body)
//
//	// Egress: Accept, then Content-Type, then the first enabled format.
//	out, err := users.Respond(ctx, user, r.Header.Get("Accept"), r.Header.Get("Content-Type"))
//	w.Header().Set("Content-Type", out.ContentType)
//	w.Write(out.Data)
//
// # Errors
//
// Extract and Respond only fail with *CodecError, whose Kind is one of
// KindUnsupportedMediaType, KindDecode, KindValidation or KindEncode. A
// Reporter renders them with a fixed status mapping, either tersely (code
// only) or in detail.
//
// # Validation
//
// Fields tagged `validate:"..."` are checked after a successful decode.
// Supported rules: required, min=N, max=N, len=N, oneof=a b c. Custom
// checks are added with WithValidator.
package parley

// Codec is one format backend.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Format returns the format this codec implements.
	Format() Format

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}
