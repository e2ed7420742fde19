// Package wireobj is the application codec binding that sits atop the
// secure stream: a self-describing binary object encoder, CBOR-shaped,
// used to exchange application messages once a session is Secure.
package wireobj

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

var encMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	opts := cbor.CanonicalEncOptions()
	mode, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}

type flusher interface{ Flush() error }

// Codec encodes and decodes application objects as CBOR. Canonical
// encoding (sorted map keys, deterministic output) is used here since
// this is a wire protocol, not an in-process convenience format.
type Codec struct{}

// New returns a ready-to-use Codec. It holds no state; a single instance may
// be shared across sessions.
func New() *Codec { return &Codec{} }

// Send encodes v as CBOR and writes it to w, flushing w if it exposes a
// Flush method (as *secure.Stream does). The secure stream's own chunker
// decides how the encoded bytes are split across Secure frames; this layer
// knows nothing about frame boundaries.
func (c *Codec) Send(w io.Writer, v any) error {
	b, err := encMode.Marshal(v)
	if err != nil {
		return &Error{Kind: KindEncode, Err: err}
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	if f, ok := w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// Recv decodes exactly one CBOR object from r into v. Because CBOR is
// self-describing, the decoder determines the object's own boundary and
// reads only as many bytes from r as that requires (pulling additional
// Secure frames through r's underlying Read as needed); no separate length
// prefix is needed on top of CBOR's own encoding.
func (c *Codec) Recv(r io.Reader, v any) error {
	dec := cbor.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		// A read off the underlying secure stream (e.g. an AEAD open
		// failure) is a fatal session-layer error, not a CBOR syntax
		// problem; pass it through unwrapped so the caller's fatal-error
		// check still recognizes it.
		if fatal, ok := err.(interface{ Fatal() bool }); ok && fatal.Fatal() {
			return err
		}
		return &Error{Kind: KindDecode, Err: err}
	}
	return nil
}
