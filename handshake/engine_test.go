package handshake

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHandshakeRoundTrip exercises the full client/server handshake and
// checks the derived secrets satisfy property 6 (cross-directional key
// equality), exercising the ClientHello/ServerHello exchange end to end.
func TestHandshakeRoundTrip(t *testing.T) {
	signPub, signPriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	client, clientHello, err := NewClientSide(signPub)
	require.NoError(t, err)

	server, err := NewServerSide(signPriv)
	require.NoError(t, err)
	serverHello, serverSecrets, err := server.Complete(clientHello)
	require.NoError(t, err)
	defer serverSecrets.Destroy()

	clientSecrets, err := client.Complete(serverHello)
	require.NoError(t, err)
	defer clientSecrets.Destroy()

	require.Equal(t, clientSecrets.SealingKey(), serverSecrets.OpeningKey())
	require.Equal(t, serverSecrets.SealingKey(), clientSecrets.OpeningKey())
}

// TestHandshakeRejectsTamperedSignature covers property 7: altering any
// byte of the signed content before verification yields
// BadServerHelloSignature.
func TestHandshakeRejectsTamperedSignature(t *testing.T) {
	signPub, signPriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	client, clientHello, err := NewClientSide(signPub)
	require.NoError(t, err)

	server, err := NewServerSide(signPriv)
	require.NoError(t, err)
	serverHello, serverSecrets, err := server.Complete(clientHello)
	require.NoError(t, err)
	defer serverSecrets.Destroy()

	serverHello.Nonce[0] ^= 0xFF // tamper with signed content after signing

	_, err = client.Complete(serverHello)
	require.Error(t, err)
	var he *Error
	require.ErrorAs(t, err, &he)
	require.Equal(t, KindBadServerHelloSignature, he.Kind)
}

// TestHandshakeRejectsWrongSigner covers the same property from a different
// angle: a signature from an unrelated key must not verify.
func TestHandshakeRejectsWrongSigner(t *testing.T) {
	_, wrongPriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	rightPub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	client, clientHello, err := NewClientSide(rightPub)
	require.NoError(t, err)

	server, err := NewServerSide(wrongPriv)
	require.NoError(t, err)
	serverHello, serverSecrets, err := server.Complete(clientHello)
	require.NoError(t, err)
	defer serverSecrets.Destroy()

	_, err = client.Complete(serverHello)
	require.Error(t, err)
}
