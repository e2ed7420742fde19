package handshake

import (
	"github.com/awnumar/memguard"
	"golang.org/x/crypto/curve25519"
	"lukechampine.com/frand"
)

// Context is the transient per-handshake state held between sending the
// first hello message and deriving (or discarding) session secrets: a
// fresh nonce and an ephemeral X25519 keypair. Both the client and the
// server hold one of these during Handshaking; either side's Context is
// destroyed once the handshake completes or aborts. The private scalar
// lives in a memguard.LockedBuffer so Destroy reliably wipes it rather
// than relying on the garbage collector.
type Context struct {
	Nonce [NonceLen]byte
	Pub   [PublicKeyLen]byte

	priv *memguard.LockedBuffer
}

// NewContext generates a fresh nonce and X25519 ephemeral keypair using
// lukechampine.com/frand as the CSPRNG.
func NewContext() (*Context, error) {
	c := &Context{}
	copy(c.Nonce[:], frand.Bytes(NonceLen))

	priv := frand.Bytes(PublicKeyLen)
	pub, err := curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return nil, errBadPeerPublicKey(err)
	}
	copy(c.Pub[:], pub)
	c.priv = memguard.NewBufferFromBytes(priv)
	return c, nil
}

// SharedSecret performs the X25519 ECDH exchange against peerPub.
func (c *Context) SharedSecret(peerPub [PublicKeyLen]byte) ([]byte, error) {
	z, err := curve25519.X25519(c.priv.Bytes(), peerPub[:])
	if err != nil {
		return nil, errBadPeerPublicKey(err)
	}
	return z, nil
}

// Destroy wipes the ephemeral private key. Safe to call more than once, and
// required on both successful completion and abort of the handshake.
func (c *Context) Destroy() {
	if c == nil || c.priv == nil {
		return
	}
	c.priv.Destroy()
}
