package handshake

import "github.com/my4ng/hermit/frame"

// NonceLen is the length, in bytes, of the per-side handshake nonce.
const NonceLen = 16

// PublicKeyLen is the length, in bytes, of an X25519 public key.
const PublicKeyLen = 32

// SignatureLen is the length, in bytes, of an Ed25519 signature.
const SignatureLen = 64

// ClientHello is the fixed-length message the client sends to start a
// handshake: client_nonce || client_pub.
type ClientHello struct {
	Nonce [NonceLen]byte
	Pub   [PublicKeyLen]byte
}

// Encode serializes h into frame.ClientHelloLen bytes.
func (h ClientHello) Encode() []byte {
	buf := make([]byte, 0, frame.ClientHelloLen)
	buf = append(buf, h.Nonce[:]...)
	buf = append(buf, h.Pub[:]...)
	return buf
}

// DecodeClientHello parses a ClientHello payload. The caller (session) is
// responsible for having already checked the frame type/length via the
// plain frame codec; this only validates the fixed payload length.
func DecodeClientHello(payload []byte) (ClientHello, error) {
	if len(payload) != frame.ClientHelloLen {
		return ClientHello{}, &Error{Kind: KindUnspecified}
	}
	var h ClientHello
	copy(h.Nonce[:], payload[:NonceLen])
	copy(h.Pub[:], payload[NonceLen:])
	return h, nil
}

// ServerHello is the fixed-length reply: server_nonce || server_pub ||
// signature, where signature is Ed25519 over SignedContent.
type ServerHello struct {
	Nonce [NonceLen]byte
	Pub   [PublicKeyLen]byte
	Sig   [SignatureLen]byte
}

// Encode serializes h into frame.ServerHelloLen bytes.
func (h ServerHello) Encode() []byte {
	buf := make([]byte, 0, frame.ServerHelloLen)
	buf = append(buf, h.Nonce[:]...)
	buf = append(buf, h.Pub[:]...)
	buf = append(buf, h.Sig[:]...)
	return buf
}

// DecodeServerHello parses a ServerHello payload.
func DecodeServerHello(payload []byte) (ServerHello, error) {
	if len(payload) != frame.ServerHelloLen {
		return ServerHello{}, &Error{Kind: KindUnspecified}
	}
	var h ServerHello
	copy(h.Nonce[:], payload[:NonceLen])
	copy(h.Pub[:], payload[NonceLen:NonceLen+PublicKeyLen])
	copy(h.Sig[:], payload[NonceLen+PublicKeyLen:])
	return h, nil
}

// SignedContent returns the exact bytes the server signs and the client
// verifies: client_nonce || server_nonce || server_pub (64 bytes, no
// domain-separation prefix).
func SignedContent(clientNonce, serverNonce [NonceLen]byte, serverPub [PublicKeyLen]byte) []byte {
	buf := make([]byte, 0, 2*NonceLen+PublicKeyLen)
	buf = append(buf, clientNonce[:]...)
	buf = append(buf, serverNonce[:]...)
	buf = append(buf, serverPub[:]...)
	return buf
}
