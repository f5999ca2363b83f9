package parley

import (
	"fmt"
	"io"
	"net/http"
)

// Bind reads r's body, bounded by the binding's body limit, and extracts
// a T using the request's Content-Type. An unsupported Content-Type is
// rejected before the body is read.
func Bind[T any](b *Binding[T], r *http.Request) (*T, error) {
	contentType := r.Header.Get("Content-Type")
	f, err := b.registry.Resolve(contentType)
	if err != nil {
		return nil, err
	}

	body, err := readBody(r, b.bodyLimit)
	if err != nil {
		return nil, newDecodeError(f, err)
	}
	return b.Extract(r.Context(), contentType, body)
}

func readBody(r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	defer r.Body.Close()

	if limit <= 0 {
		return io.ReadAll(r.Body)
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("request body exceeds %d bytes", limit)
	}
	return data, nil
}

// Write encodes v in the format negotiated from r's headers and writes it
// with status.
func Write(w http.ResponseWriter, r *http.Request, reg *Registry, status int, v any) error {
	body, err := reg.Encode(r.Context(), v, r.Header.Get("Accept"), r.Header.Get("Content-Type"))
	if err != nil {
		return err
	}
	writeBody(w, status, body)
	return nil
}

func writeBody(w http.ResponseWriter, status int, body *Body) {
	h := w.Header()
	h.Set("Content-Type", body.ContentType)
	// Accept picks the format, Content-Type when Accept matches nothing.
	h.Add("Vary", "Accept, Content-Type")
	w.WriteHeader(status)
	_, _ = w.Write(body.Data)
}

// Fail renders err with rep and writes the failure. The problem body is
// negotiated like any response; if it cannot be encoded only the status is
// written.
func Fail(w http.ResponseWriter, r *http.Request, reg *Registry, rep Reporter, err error) {
	f := rep.Report(err)
	body, encErr := reg.Encode(r.Context(), &f.Problem, r.Header.Get("Accept"), r.Header.Get("Content-Type"))
	if encErr != nil {
		w.WriteHeader(f.Status)
		return
	}
	writeBody(w, f.Status, body)
}

// HandlerFunc is handler logic between extraction and response.
type HandlerFunc[In, Out any] func(r *http.Request, in *In) (*Out, error)

// Handle adapts fn into an http.Handler. The request body is bound with in,
// the result is written with out and status, and any error is rendered by
// rep. A nil result is written as 204 No Content.
func Handle[In, Out any](in *Binding[In], out *Binding[Out], rep Reporter, status int, fn HandlerFunc[In, Out]) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, err := Bind(in, r)
		if err != nil {
			Fail(w, r, out.registry, rep, err)
			return
		}
		res, err := fn(r, v)
		respond(w, r, out, rep, status, res, err)
	})
}

// HandleNoBody is Handle for requests without a body, such as GET.
func HandleNoBody[Out any](out *Binding[Out], rep Reporter, status int, fn func(r *http.Request) (*Out, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, err := fn(r)
		respond(w, r, out, rep, status, res, err)
	})
}

func respond[Out any](w http.ResponseWriter, r *http.Request, out *Binding[Out], rep Reporter, status int, res *Out, err error) {
	if err != nil {
		Fail(w, r, out.registry, rep, err)
		return
	}
	if res == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	body, err := out.Respond(r.Context(), res, r.Header.Get("Accept"), r.Header.Get("Content-Type"))
	if err != nil {
		Fail(w, r, out.registry, rep, err)
		return
	}
	writeBody(w, status, body)
}
