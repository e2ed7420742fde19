// Package channel defines the base duplex byte conduit Hermit runs over.
//
// Hermit treats the underlying transport (TCP, a QUIC stream, an in-memory
// pipe for tests) as an external collaborator: it only needs ordered,
// reliable, concurrently-readable-and-writable byte delivery. This package
// is the thin adapter boundary between that transport and the frame codec
// built on top of it.
package channel

import (
	"io"
	"net"
)

// Channel is a duplex, ordered, reliable byte conduit. A correct
// implementation must support one goroutine calling Read and a different
// goroutine calling Write concurrently (true of net.Conn and of net.Pipe);
// Hermit's frame codec relies on this to offer full-duplex send/receive.
type Channel interface {
	io.Reader
	io.Writer
	io.Closer
}

// FromConn adapts a net.Conn to Channel. Any net.Conn already satisfies the
// Channel contract; this exists so call sites can name the relationship and
// so non-net.Conn channels (e.g. a QUIC stream) can be swapped in without
// touching the rest of the stack.
func FromConn(conn net.Conn) Channel {
	return conn
}

// Pipe returns two in-memory Channels connected to each other, for tests and
// for local client/server demos. Backed by net.Pipe, which is itself
// synchronous; production use should prefer a real net.Conn.
func Pipe() (Channel, Channel) {
	a, b := net.Pipe()
	return a, b
}
