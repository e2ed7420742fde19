package handshake

import (
	"crypto/sha256"

	"github.com/my4ng/hermit/secure"
	"golang.org/x/crypto/hkdf"
)

// Role identifies which side of the handshake a party plays, used to select
// the correct HKDF info string and the correct directional key for sealing
// vs. opening.
type Role int

const (
	RoleClient Role = iota
	RoleServer
)

var (
	infoClient = []byte("client" + "master key")
	infoServer = []byte("server" + "master key")
)

func roleInfo(r Role) []byte {
	if r == RoleClient {
		return infoClient
	}
	return infoServer
}

func peerInfo(r Role) []byte {
	if r == RoleClient {
		return infoServer
	}
	return infoClient
}

// DeriveSecrets implements the handshake key schedule: HKDF-Extract with
// salt = client_nonce||server_nonce over the ECDH shared secret sharedZ
// yields the session PRK; HKDF-Expand from the PRK with per-role info
// strings yields the two directional AES-128-GCM keys; the nonce base is
// the first 12 bytes of SHA-256(client_nonce||server_nonce). own is the
// caller's Role: its info string selects the caller's sealing key, and the
// other role's info string selects the caller's opening key.
func DeriveSecrets(own Role, clientNonce, serverNonce [NonceLen]byte, sharedZ []byte) (*secure.Secrets, error) {
	nonces := make([]byte, 0, 2*NonceLen)
	nonces = append(nonces, clientNonce[:]...)
	nonces = append(nonces, serverNonce[:]...)

	prk := hkdf.Extract(sha256.New, sharedZ, nonces)

	sealingKey, err := expand(prk, roleInfo(own))
	if err != nil {
		return nil, err
	}
	openingKey, err := expand(prk, peerInfo(own))
	if err != nil {
		return nil, err
	}

	base := sha256.Sum256(nonces)
	nonceBase := base[:secure.NonceLen]

	return secure.NewSecrets(prk, sealingKey, openingKey, nonceBase), nil
}

func expand(prk, info []byte) ([]byte, error) {
	r := hkdf.Expand(sha256.New, prk, info)
	key := make([]byte, secure.AEADKeyLen)
	if _, err := r.Read(key); err != nil {
		return nil, errKeyRejected(err)
	}
	return key, nil
}
