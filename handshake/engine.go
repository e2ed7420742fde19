// Package handshake implements the X25519 ephemeral exchange, Ed25519
// server authentication, and HKDF-SHA256 key schedule that upgrade a
// Hermit session from Insecure to Secure.
package handshake

import (
	"crypto/ed25519"

	"github.com/my4ng/hermit/secure"
)

// ClientSide drives the client half of the handshake: send ClientHello,
// then validate the server's ServerHello and derive secrets. It owns the
// transient Context between those two steps.
type ClientSide struct {
	ctx          *Context
	serverSigKey ed25519.PublicKey
}

// NewClientSide generates a fresh Context and returns a ClientSide that
// will verify the server's signature against serverSigKey (known
// out-of-band).
func NewClientSide(serverSigKey ed25519.PublicKey) (*ClientSide, ClientHello, error) {
	ctx, err := NewContext()
	if err != nil {
		return nil, ClientHello{}, err
	}
	hello := ClientHello{Nonce: ctx.Nonce, Pub: ctx.Pub}
	return &ClientSide{ctx: ctx, serverSigKey: serverSigKey}, hello, nil
}

// Complete validates sh against this ClientSide's Context and, on success,
// derives session secrets. The Context is destroyed either way: on
// failure the caller reverts to Insecure with zero residual secret
// state.
func (c *ClientSide) Complete(sh ServerHello) (*secure.Secrets, error) {
	defer c.ctx.Destroy()

	signed := SignedContent(c.ctx.Nonce, sh.Nonce, sh.Pub)
	if !ed25519.Verify(c.serverSigKey, signed, sh.Sig[:]) {
		return nil, errBadSignature()
	}

	z, err := c.ctx.SharedSecret(sh.Pub)
	if err != nil {
		return nil, err
	}
	return DeriveSecrets(RoleClient, c.ctx.Nonce, sh.Nonce, z)
}

// Abort destroys the Context without deriving secrets, for an explicit
// handshake cancellation.
func (c *ClientSide) Abort() { c.ctx.Destroy() }

// ServerSide drives the server half: receive ClientHello, sign and send
// ServerHello, derive secrets.
type ServerSide struct {
	ctx     *Context
	signKey ed25519.PrivateKey
}

// NewServerSide generates a fresh Context for responding to a ClientHello,
// signing with signKey.
func NewServerSide(signKey ed25519.PrivateKey) (*ServerSide, error) {
	ctx, err := NewContext()
	if err != nil {
		return nil, err
	}
	return &ServerSide{ctx: ctx, signKey: signKey}, nil
}

// Complete derives secrets for ch and builds the ServerHello to send. The
// Context is destroyed before returning, success or failure.
func (s *ServerSide) Complete(ch ClientHello) (ServerHello, *secure.Secrets, error) {
	defer s.ctx.Destroy()

	z, err := s.ctx.SharedSecret(ch.Pub)
	if err != nil {
		return ServerHello{}, nil, err
	}

	signed := SignedContent(ch.Nonce, s.ctx.Nonce, s.ctx.Pub)
	sig := ed25519.Sign(s.signKey, signed)

	sh := ServerHello{Nonce: s.ctx.Nonce, Pub: s.ctx.Pub}
	copy(sh.Sig[:], sig)

	secrets, err := DeriveSecrets(RoleServer, ch.Nonce, s.ctx.Nonce, z)
	if err != nil {
		return ServerHello{}, nil, err
	}
	return sh, secrets, nil
}

// Abort destroys the Context without completing.
func (s *ServerSide) Abort() { s.ctx.Destroy() }
