// Package resource defines the demonstration application-layer envelopes
// exchanged by the hermit-client/hermit-server binaries over a Secure
// session. These types live outside the protocol core: the core only
// needs to carry arbitrary application objects, not know their shape.
package resource

// SendResourceRequest asks the server to store a named blob.
type SendResourceRequest struct {
	Name string
	Data []byte
}

// SendResourceResponse acknowledges a SendResourceRequest.
type SendResourceResponse struct {
	OK      bool
	Message string
}

// ReceiveResourceRequest asks the server for a previously stored blob.
type ReceiveResourceRequest struct {
	Name string
}

// ReceiveResourceResponse carries the result of a ReceiveResourceRequest.
type ReceiveResourceResponse struct {
	Found bool
	Data  []byte
}
