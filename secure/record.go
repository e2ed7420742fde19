package secure

import (
	"crypto/aes"
	"crypto/cipher"
)

// TagLen is the length, in bytes, of the AES-128-GCM authentication tag
// appended to every sealed Secure frame payload.
const TagLen = 16

// Record seals and opens the Secure frame payload stream for one session.
// AES-128-GCM is taken from the standard library crypto/cipher package.
type Record struct {
	secrets  *Secrets
	sealAEAD cipher.AEAD
	openAEAD cipher.AEAD
}

// NewRecord builds a Record from handshake-derived Secrets.
func NewRecord(secrets *Secrets) (*Record, error) {
	sealAEAD, err := newGCM(secrets.SealingKey())
	if err != nil {
		return nil, &Error{Kind: KindKeyInit, Err: err}
	}
	openAEAD, err := newGCM(secrets.OpeningKey())
	if err != nil {
		return nil, &Error{Kind: KindKeyInit, Err: err}
	}
	return &Record{secrets: secrets, sealAEAD: sealAEAD, openAEAD: openAEAD}, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal authenticates and encrypts plaintext, returning ciphertext || tag.
// The nonce sequence advances on every call and must never wrap within a
// session.
func (r *Record) Seal(plaintext []byte) []byte {
	nonce := r.secrets.SealSeq.Next()
	return r.sealAEAD.Seal(nil, nonce[:], plaintext, nil)
}

// Open authenticates and decrypts a Secure frame payload (ciphertext ||
// tag). Authentication failure is fatal for the session; the caller must
// transition to Closed.
func (r *Record) Open(sealed []byte) ([]byte, error) {
	nonce := r.secrets.OpenSeq.Next()
	plaintext, err := r.openAEAD.Open(nil, nonce[:], sealed, nil)
	if err != nil {
		return nil, &Error{Kind: KindAEADOpenFailed, Err: err}
	}
	return plaintext, nil
}
