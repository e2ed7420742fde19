package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// bufChannel is a non-blocking, in-memory channel.Channel backed by a
// bytes.Buffer, used to make back-pressure accounting deterministic in
// tests (a real net.Conn's Write blocking behavior would make the exact
// drain count a race).
type bufChannel struct {
	bytes.Buffer
}

func (b *bufChannel) Close() error { return nil }

func newTestCodec(limit, multiplier int) (*Codec, *bufChannel) {
	ch := &bufChannel{}
	c := NewCodec(ch, WithLimitMultiplier(multiplier))
	c.SetCurrentLimit(limit)
	return c, ch
}

func TestSetCurrentLimitClamps(t *testing.T) {
	c, _ := newTestCodec(MinLenLimit, DefaultLimitMultiplier)
	c.SetCurrentLimit(0)
	require.Equal(t, MinLenLimit, c.CurrentLimit())
	c.SetCurrentLimit(1 << 20)
	require.Equal(t, MaxLenLimit, c.CurrentLimit())
}

// TestSendRejectsOversizedPayload covers property 4: after
// SetCurrentLimit(L), the codec rejects outbound frames with payload length
// > L.
func TestSendRejectsOversizedPayload(t *testing.T) {
	c, _ := newTestCodec(1024, DefaultLimitMultiplier)
	require.Panics(t, func() {
		_ = c.Send(New(Secure, make([]byte, 1025)))
	})
}

// TestRecvRejectsLengthAboveLimit covers the inbound half of property 4.
func TestRecvRejectsLengthAboveLimit(t *testing.T) {
	c, ch := newTestCodec(1024, DefaultLimitMultiplier)
	f := Frame{Type: Secure, Version: V0_1, Payload: make([]byte, 2048)}
	ch.Write(f.Encode(nil))

	_, err := c.Recv()
	var fe *Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, KindLengthAboveLimit, fe.Kind)
	require.False(t, fe.Fatal())

	// the stream resynchronized: nothing left to read.
	require.Equal(t, 0, ch.Len())
}

// TestRecvResyncsAfterNonFatalError sends a bad frame followed by a good
// one and checks the good one is still recoverable.
func TestRecvResyncsAfterNonFatalError(t *testing.T) {
	c, ch := newTestCodec(1024, DefaultLimitMultiplier)
	bad := Frame{Type: 0xEE, Version: V0_1, Payload: []byte{1, 2, 3}}
	ch.Write(bad.Encode(nil))
	good := New(Disconnect, nil)
	ch.Write(good.Encode(nil))

	_, err := c.Recv()
	require.Error(t, err)

	got, err := c.Recv()
	require.NoError(t, err)
	require.Equal(t, Disconnect, got.Type)
}

// TestBackpressureDrainsBeforeOverflow covers property 5: with
// limit_multiplier = N, at most N maximum-size frames' worth of bytes are
// buffered before Send would need to drain.
func TestBackpressureDrainsBeforeOverflow(t *testing.T) {
	const limit = 1024
	c, ch := newTestCodec(limit, 2)

	payload := make([]byte, limit)
	// First frame: queue is empty, always ready, just queued (not written).
	require.NoError(t, c.Send(New(Secure, payload)))
	require.Equal(t, 0, ch.Len(), "first frame should not be written yet")

	// Second frame: queue already holds 1 limit's worth, which is over the
	// (N-1)*limit = limit threshold, so Send must drain the first frame
	// before queuing the second.
	require.NoError(t, c.Send(New(Secure, payload)))
	require.Equal(t, New(Secure, payload).EncodedLen(), ch.Len(),
		"exactly one frame should have been drained to the wire")

	require.NoError(t, c.Flush())
	require.Equal(t, 2*New(Secure, payload).EncodedLen(), ch.Len())
}

func TestFlushDrainsEntireQueue(t *testing.T) {
	c, ch := newTestCodec(1024, 8)
	for i := 0; i < 5; i++ {
		require.NoError(t, c.Send(New(Disconnect, nil)))
	}
	require.Equal(t, 0, ch.Len())
	require.NoError(t, c.Flush())
	require.Equal(t, 5*HeaderLen, ch.Len())
}
