package handshake

import "fmt"

// Kind enumerates the ways the handshake can fail.
type Kind int

const (
	// KindBadServerHelloSignature: the Ed25519 signature over
	// client_nonce||server_nonce||server_pub did not verify.
	KindBadServerHelloSignature Kind = iota
	// KindBadPeerPublicKey: a received X25519 public key was malformed or
	// produced a low-order/all-zero shared secret.
	KindBadPeerPublicKey
	// KindKeyRejected: key derivation (HKDF) or cipher construction failed.
	KindKeyRejected
	// KindUnspecified: any other cryptographic failure, named generically so
	// as not to leak which specific check failed or any key material in
	// diagnostics.
	KindUnspecified
)

func (k Kind) String() string {
	switch k {
	case KindBadServerHelloSignature:
		return "BadServerHelloSignature"
	case KindBadPeerPublicKey:
		return "BadPeerPublicKey"
	case KindKeyRejected:
		return "KeyRejected"
	default:
		return "Unspecified"
	}
}

// Error is a handshake cryptographic failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("handshake: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("handshake: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func errBadSignature() error { return &Error{Kind: KindBadServerHelloSignature} }

func errBadPeerPublicKey(err error) error {
	return &Error{Kind: KindBadPeerPublicKey, Err: err}
}

func errKeyRejected(err error) error {
	return &Error{Kind: KindKeyRejected, Err: err}
}
