package handshake

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func repeat(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

// TestScenarioA pins the key schedule byte-exact against literal expected
// values computed independently of this package's own HKDF call (so a
// regression in the info-string derivation, e.g. a dropped role prefix or
// a swapped concatenation order, would actually be caught instead of
// silently matching itself).
func TestScenarioA(t *testing.T) {
	require.Equal(t, []byte("clientmaster key"), infoClient)
	require.Equal(t, []byte("servermaster key"), infoServer)

	var clientNonce, serverNonce [NonceLen]byte
	copy(clientNonce[:], repeat(0x00, NonceLen))
	copy(serverNonce[:], repeat(0x01, NonceLen))
	z := repeat(0xAA, 32)

	// Expected bytes below are HMAC-SHA256(key=clientNonce||serverNonce,
	// msg=z) for the PRK, then HMAC-SHA256(key=PRK, msg=info||0x01)[:16]
	// for each directional key, computed independently of this package.
	wantClientKey, err := hex.DecodeString("90075bd00d2aea542907c4a6a91e75ef")
	require.NoError(t, err)
	wantServerKey, err := hex.DecodeString("297c7f558fb9556c24fb64a3b7b95675")
	require.NoError(t, err)

	clientSecrets, err := DeriveSecrets(RoleClient, clientNonce, serverNonce, z)
	require.NoError(t, err)
	defer clientSecrets.Destroy()
	require.Equal(t, wantClientKey, clientSecrets.SealingKey())
	require.Equal(t, wantServerKey, clientSecrets.OpeningKey())

	serverSecrets, err := DeriveSecrets(RoleServer, clientNonce, serverNonce, z)
	require.NoError(t, err)
	defer serverSecrets.Destroy()
	require.Equal(t, wantServerKey, serverSecrets.SealingKey())
	require.Equal(t, wantClientKey, serverSecrets.OpeningKey())
}

// TestKeySchedule checks that the client's sealing key equals the server's
// opening key and vice versa, when both derive from the same nonces and
// shared secret.
func TestKeySchedule(t *testing.T) {
	var clientNonce, serverNonce [NonceLen]byte
	copy(clientNonce[:], repeat(0x11, NonceLen))
	copy(serverNonce[:], repeat(0x22, NonceLen))
	z := repeat(0x33, 32)

	client, err := DeriveSecrets(RoleClient, clientNonce, serverNonce, z)
	require.NoError(t, err)
	defer client.Destroy()
	server, err := DeriveSecrets(RoleServer, clientNonce, serverNonce, z)
	require.NoError(t, err)
	defer server.Destroy()

	require.True(t, bytes.Equal(client.SealingKey(), server.OpeningKey()))
	require.True(t, bytes.Equal(server.SealingKey(), client.OpeningKey()))
	require.False(t, bytes.Equal(client.SealingKey(), client.OpeningKey()),
		"directional keys must differ")
}
