package wireobj

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

type demoObject struct {
	Name string
	Data []byte
	N    int
}

func TestSendRecvRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	c := New()

	want := demoObject{Name: "greeting", Data: []byte("hello"), N: 42}
	require.NoError(t, c.Send(&buf, &want))

	var got demoObject
	require.NoError(t, c.Recv(&buf, &got))
	require.Equal(t, want, got)
}

func TestRecvSequentialObjectsShareOneStream(t *testing.T) {
	var buf bytes.Buffer
	c := New()

	a := demoObject{Name: "a", N: 1}
	b := demoObject{Name: "b", N: 2}
	require.NoError(t, c.Send(&buf, &a))
	require.NoError(t, c.Send(&buf, &b))

	var gotA, gotB demoObject
	require.NoError(t, c.Recv(&buf, &gotA))
	require.NoError(t, c.Recv(&buf, &gotB))
	require.Equal(t, a, gotA)
	require.Equal(t, b, gotB)
}

func TestRecvRejectsMalformedInput(t *testing.T) {
	buf := bytes.NewBufferString("not cbor at all \xff\xff")
	c := New()
	var got demoObject
	err := c.Recv(buf, &got)
	require.Error(t, err)
	var we *Error
	require.ErrorAs(t, err, &we)
}
