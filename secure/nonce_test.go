package secure

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNonceSequenceDistinct covers property 3 (a bounded sample of it): the
// nonce sequence emits strictly distinct values as the counter advances.
func TestNonceSequenceDistinct(t *testing.T) {
	base := make([]byte, NonceLen)
	for i := range base {
		base[i] = byte(i)
	}
	seq := NewNonceSequence(base)

	seen := make(map[[NonceLen]byte]bool)
	for i := 0; i < 100000; i++ {
		n := seq.Next()
		require.False(t, seen[n], "nonce repeated at counter %d", i)
		seen[n] = true
	}
	require.EqualValues(t, 100000, seq.Counter())
}

func TestNonceSequenceDeterministic(t *testing.T) {
	base := make([]byte, NonceLen)
	a := NewNonceSequence(base)
	b := NewNonceSequence(base)
	for i := 0; i < 10; i++ {
		require.Equal(t, a.Next(), b.Next())
	}
}
