package secure

import (
	"bytes"
	"io"
	"testing"

	"github.com/my4ng/hermit/frame"
	"github.com/stretchr/testify/require"
)

type loopChannel struct{ bytes.Buffer }

func (l *loopChannel) Close() error { return nil }

func mirroredSecrets() (a, b *Secrets) {
	base := make([]byte, NonceLen)
	for i := range base {
		base[i] = byte(i + 200)
	}
	keyA := make([]byte, AEADKeyLen)
	keyB := make([]byte, AEADKeyLen)
	for i := range keyA {
		keyA[i] = byte(i + 1)
		keyB[i] = byte(i + 100)
	}
	// NewSecrets wipes the slices it is given, so a gets copies and b the
	// originals.
	a = NewSecrets(make([]byte, 32), append([]byte{}, keyA...), append([]byte{}, keyB...), append([]byte{}, base...))
	b = NewSecrets(make([]byte, 32), keyB, keyA, append([]byte{}, base...))
	return a, b
}

// TestStreamChunksAtCurrentLimit covers the streaming chunker behavior:
// outbound bytes are buffered into frames no larger than the codec's
// current limit minus TagLen, and Flush emits a shorter final frame.
func TestStreamChunksAtCurrentLimit(t *testing.T) {
	const limit = frame.MinLenLimit
	ch := &loopChannel{}
	codec := frame.NewCodec(ch)
	codec.SetCurrentLimit(limit)

	secretsOut, secretsIn := mirroredSecrets()
	defer secretsOut.Destroy()
	defer secretsIn.Destroy()

	recordOut, err := NewRecord(secretsOut)
	require.NoError(t, err)
	recordIn, err := NewRecord(secretsIn)
	require.NoError(t, err)

	out := NewStream(codec, recordOut)

	payload := bytes.Repeat([]byte("x"), 2500) // several limit-TagLen chunks plus a short final Flush frame
	n, err := out.Write(payload)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)
	require.NoError(t, out.Flush())

	in := NewStream(codec, recordIn)
	got := make([]byte, 0, len(payload))
	buf := make([]byte, 32)
	for len(got) < len(payload) {
		n, err := in.Read(buf)
		require.NoError(t, err)
		got = append(got, buf[:n]...)
	}
	require.Equal(t, payload, got)
}

// TestStreamSurfacesUnexpectedFrameType covers the fatal path in Read when a
// non-Secure frame appears on the stream out of turn.
func TestStreamSurfacesUnexpectedFrameType(t *testing.T) {
	ch := &loopChannel{}
	codec := frame.NewCodec(ch)
	f := frame.New(frame.Disconnect, nil)
	require.NoError(t, codec.Send(f))
	require.NoError(t, codec.Flush())

	secretsOut, secretsIn := mirroredSecrets()
	defer secretsOut.Destroy()
	defer secretsIn.Destroy()
	recordIn, err := NewRecord(secretsIn)
	require.NoError(t, err)

	in := NewStream(codec, recordIn)
	_, err = in.Read(make([]byte, 8))
	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
	require.Equal(t, KindUnexpectedFrameType, se.Kind)
}

var _ io.Writer = (*Stream)(nil)
var _ io.Reader = (*Stream)(nil)
