package secure

import "encoding/binary"

// NonceLen is the length, in bytes, of an AES-128-GCM nonce.
const NonceLen = 12

// NonceSequence produces the deterministic per-direction AEAD nonces: the
// i-th nonce is the 12-byte base with the counter XORed into its low 8
// bytes (the last 8, in the usual most-significant-byte-first reading of
// a byte slice), then the counter increments. One instance exists per
// direction; the counter is a uint64 and must never wrap within a
// session.
type NonceSequence struct {
	base    [NonceLen]byte
	counter uint64
}

// NewNonceSequence creates a sequence from a 12-byte base.
func NewNonceSequence(base []byte) *NonceSequence {
	if len(base) != NonceLen {
		panic("secure: nonce base must be 12 bytes")
	}
	var n NonceSequence
	copy(n.base[:], base)
	return &n
}

// Next returns the next nonce in the sequence and advances the counter.
func (n *NonceSequence) Next() [NonceLen]byte {
	out := n.base
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], n.counter)
	for i := range ctr {
		out[NonceLen-8+i] ^= ctr[i]
	}
	n.counter++
	return out
}

// Counter returns the number of nonces produced so far.
func (n *NonceSequence) Counter() uint64 { return n.counter }
