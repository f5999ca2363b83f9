package parley

// Override interfaces let a type take over encoding or decoding for specific
// formats. When the target type implements one of these interfaces, parley
// calls it before the registered backend. Returning ErrFormatNotHandled hands
// the format back to the backend.
//
// These interfaces are designed for codegen: a generator can emit one method
// that switches over the formats a type supports.

// FormatMarshaler bypasses the backend on egress.
type FormatMarshaler interface {
	// MarshalFormat encodes the receiver in format f.
	MarshalFormat(f Format) ([]byte, error)
}

// FormatUnmarshaler bypasses the backend on ingress.
type FormatUnmarshaler interface {
	// UnmarshalFormat decodes data, which is in format f, into the receiver.
	// Called on a fresh zero value.
	UnmarshalFormat(f Format, data []byte) error
}
