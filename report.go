package parley

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Mode selects the fidelity of rendered failures.
type Mode uint8

const (
	// ModeTerse renders only a status and a stable error code.
	ModeTerse Mode = iota + 1

	// ModeDetailed adds the format, diagnostic message and violations.
	ModeDetailed
)

func (m Mode) String() string {
	switch m {
	case ModeTerse:
		return "terse"
	case ModeDetailed:
		return "detailed"
	default:
		return "unknown"
	}
}

// ParseMode parses "terse" or "detailed".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "terse":
		return ModeTerse, nil
	case "detailed":
		return ModeDetailed, nil
	default:
		return 0, fmt.Errorf("invalid error mode %q", s)
	}
}

// Reporter returns the reporter for m. Unknown modes report tersely.
func (m Mode) Reporter() Reporter {
	if m == ModeDetailed {
		return Detailed()
	}
	return Terse()
}

// DefaultMode is the mode chosen at build time: terse unless built with
// -tags parley_detailed.
func DefaultMode() Mode {
	return defaultMode
}

// DefaultReporter returns the reporter for DefaultMode.
func DefaultReporter() Reporter {
	return defaultMode.Reporter()
}

// Problem is the wire body of a rendered failure.
type Problem struct {
	Code        string      `json:"code" msgpack:"code" cbor:"code" yaml:"code" toml:"code" xml:"code" bson:"code"`
	Format      string      `json:"format,omitempty" msgpack:"format,omitempty" cbor:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty" xml:"format,omitempty" bson:"format,omitempty"`
	Message     string      `json:"message,omitempty" msgpack:"message,omitempty" cbor:"message,omitempty" yaml:"message,omitempty" toml:"message,omitempty" xml:"message,omitempty" bson:"message,omitempty"`
	ContentType string      `json:"content_type,omitempty" msgpack:"content_type,omitempty" cbor:"content_type,omitempty" yaml:"content_type,omitempty" toml:"content_type,omitempty" xml:"content_type,omitempty" bson:"content_type,omitempty"`
	Accepted    []string    `json:"accepted,omitempty" msgpack:"accepted,omitempty" cbor:"accepted,omitempty" yaml:"accepted,omitempty" toml:"accepted,omitempty" xml:"accepted,omitempty" bson:"accepted,omitempty"`
	Violations  []Violation `json:"violations,omitempty" msgpack:"violations,omitempty" cbor:"violations,omitempty" yaml:"violations,omitempty" toml:"violations,omitempty" xml:"violation,omitempty" bson:"violations,omitempty"`
}

// Failure is a rendered error: a transport status and a body.
type Failure struct {
	Status  int
	Problem Problem
}

// Reporter renders errors into failures.
type Reporter interface {
	Report(err error) *Failure
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(err error) *Failure

// Report calls f(err).
func (f ReporterFunc) Report(err error) *Failure {
	return f(err)
}

// StatusError carries a transport status for errors raised by handler code.
type StatusError struct {
	Status int
	Code   string
	Err    error
}

// NewStatusError wraps err with an HTTP status and a machine-readable code.
func NewStatusError(status int, code string, err error) error {
	return &StatusError{Status: status, Code: code, Err: err}
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// Terse returns a reporter that renders only status and code.
// No backend diagnostics or field names reach the body.
func Terse() Reporter {
	return ReporterFunc(reportTerse)
}

// Detailed returns a reporter that renders full diagnostics.
func Detailed() Reporter {
	return ReporterFunc(reportDetailed)
}

func reportTerse(err error) *Failure {
	if ce, ok := AsCodecError(err); ok {
		return &Failure{Status: ce.Kind.Status(), Problem: Problem{Code: ce.Kind.Code()}}
	}
	var se *StatusError
	if errors.As(err, &se) {
		return &Failure{Status: se.Status, Problem: Problem{Code: se.Code}}
	}
	return &Failure{Status: http.StatusInternalServerError, Problem: Problem{Code: "internal_error"}}
}

func reportDetailed(err error) *Failure {
	f := reportTerse(err)
	if ce, ok := AsCodecError(err); ok {
		if ce.Format != 0 {
			f.Problem.Format = ce.Format.String()
		}
		f.Problem.Message = ce.Message()
		f.Problem.ContentType = ce.ContentType
		f.Problem.Accepted = ce.Accepted
		f.Problem.Violations = ce.Violations
		return f
	}
	if err != nil {
		f.Problem.Message = err.Error()
	}
	return f
}
