package secure

import "github.com/awnumar/memguard"

// AEADKeyLen is the length, in bytes, of an AES-128-GCM key.
const AEADKeyLen = 16

// Secrets holds the key material a successful handshake produces: the
// HKDF-SHA256 pseudorandom key, the directional sealing/opening
// AES-128-GCM keys, and the shared nonce base. It lives inside the
// session's Secure state only and is destroyed on downgrade or
// disconnect. Key bytes are held in memguard.LockedBuffer so Destroy
// reliably wipes them rather than relying on the garbage collector.
type Secrets struct {
	prk        *memguard.LockedBuffer
	sealingKey *memguard.LockedBuffer
	openingKey *memguard.LockedBuffer
	nonceBase  *memguard.LockedBuffer

	SealSeq *NonceSequence
	OpenSeq *NonceSequence
}

// NewSecrets takes ownership of prk, sealingKey, openingKey, and nonceBase,
// copying them into locked buffers and wiping the caller's slices.
// sealingKey and openingKey must each be AEADKeyLen bytes; nonceBase must
// be NonceLen bytes.
func NewSecrets(prk, sealingKey, openingKey, nonceBase []byte) *Secrets {
	if len(sealingKey) != AEADKeyLen || len(openingKey) != AEADKeyLen {
		panic("secure: AEAD keys must be 16 bytes")
	}
	if len(nonceBase) != NonceLen {
		panic("secure: nonce base must be 12 bytes")
	}

	s := &Secrets{
		prk:        memguard.NewBufferFromBytes(prk),
		sealingKey: memguard.NewBufferFromBytes(sealingKey),
		openingKey: memguard.NewBufferFromBytes(openingKey),
		nonceBase:  memguard.NewBufferFromBytes(nonceBase),
	}
	s.SealSeq = NewNonceSequence(s.nonceBase.Bytes())
	s.OpenSeq = NewNonceSequence(s.nonceBase.Bytes())
	return s
}

// SealingKey returns the directional sealing key's bytes. The returned
// slice aliases locked memory; it must not be retained past Destroy.
func (s *Secrets) SealingKey() []byte { return s.sealingKey.Bytes() }

// OpeningKey returns the directional opening key's bytes.
func (s *Secrets) OpeningKey() []byte { return s.openingKey.Bytes() }

// Destroy wipes all key material. Safe to call more than once.
func (s *Secrets) Destroy() {
	s.prk.Destroy()
	s.sealingKey.Destroy()
	s.openingKey.Destroy()
	s.nonceBase.Destroy()
}
