package frame

import (
	"io"
	"sync"

	"github.com/my4ng/hermit/channel"
)

// DefaultLimitMultiplier is the default back-pressure ceiling multiplier N:
// the outbound queue is allowed to grow to N * currentLimit bytes before
// Send starts draining synchronously.
const DefaultLimitMultiplier = 2

type flusher interface {
	Flush() error
}

// Codec serializes outbound Frames and parses inbound Frames over a base
// Channel, enforcing the current length limit and exposing a sink/source
// abstraction with back-pressure.
//
// Send operations are serialized behind one mutex, receive operations
// behind another; a send and a receive may proceed concurrently.
type Codec struct {
	ch channel.Channel

	sendMu          sync.Mutex
	queue           []Frame
	totalBytes      int
	limitMultiplier int

	recvMu sync.Mutex

	limitMu      sync.RWMutex
	currentLimit int
}

// Option configures a Codec at construction time.
type Option func(*Codec)

// WithLimitMultiplier overrides DefaultLimitMultiplier.
func WithLimitMultiplier(n int) Option {
	if n < 1 {
		panic("frame: limit multiplier must be >= 1")
	}
	return func(c *Codec) { c.limitMultiplier = n }
}

// NewCodec wraps ch with a Codec whose current limit starts at MinLenLimit.
func NewCodec(ch channel.Channel, opts ...Option) *Codec {
	c := &Codec{
		ch:              ch,
		limitMultiplier: DefaultLimitMultiplier,
		currentLimit:    MinLenLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CurrentLimit returns the codec's current frame payload length limit.
func (c *Codec) CurrentLimit() int {
	c.limitMu.RLock()
	defer c.limitMu.RUnlock()
	return c.currentLimit
}

// SetCurrentLimit clamps new into [MinLenLimit, MaxLenLimit] and adopts it
// as the current limit. The caller (lenlimit.Negotiator) is responsible for
// ordering this call against frame traffic.
func (c *Codec) SetCurrentLimit(new int) {
	c.limitMu.Lock()
	defer c.limitMu.Unlock()
	c.currentLimit = clampLimit(new)
}

// Ready reports whether the codec can accept one more frame without the
// queue's worst-case byte count (after one more maximum-size frame)
// exceeding limitMultiplier * currentLimit.
func (c *Codec) Ready() bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return c.readyLocked()
}

func (c *Codec) readyLocked() bool {
	limit := c.CurrentLimit()
	return c.totalBytes+limit <= c.limitMultiplier*limit
}

// Send enqueues f for transmission, draining already-queued frames first if
// the queue is not Ready (transparent back-pressure tied to the negotiated
// limit). f's payload length must not exceed the current limit: violating
// this is a programmer error and Send panics.
func (c *Codec) Send(f Frame) error {
	if len(f.Payload) > c.CurrentLimit() {
		panic("frame: outbound frame payload exceeds current limit")
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	for !c.readyLocked() && len(c.queue) > 0 {
		if err := c.drainHeadLocked(); err != nil {
			return err
		}
	}

	c.queue = append(c.queue, f)
	c.totalBytes += f.EncodedLen()
	return nil
}

// Flush drains the outbound queue until it is empty.
func (c *Codec) Flush() error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	for len(c.queue) > 0 {
		if err := c.drainHeadLocked(); err != nil {
			return err
		}
	}
	return nil
}

// drainHeadLocked writes the head of the queue to the channel. Callers must
// hold sendMu.
func (c *Codec) drainHeadLocked() error {
	f := c.queue[0]
	buf := f.Encode(make([]byte, 0, f.EncodedLen()))
	if _, err := c.ch.Write(buf); err != nil {
		return errTransportIO(err)
	}
	if fl, ok := c.ch.(flusher); ok {
		if err := fl.Flush(); err != nil {
			return errTransportIO(err)
		}
	}
	c.queue = c.queue[1:]
	c.totalBytes -= f.EncodedLen()
	return nil
}

// Recv reads and parses the next inbound Frame. A truncated read or
// transport I/O error is fatal (the returned error's Fatal() is true) and
// the stream must not be used further. A non-fatal error (the header parsed
// but failed a semantic check) has already consumed exactly the declared
// payload length, so the stream remains synchronized and Recv may be called
// again.
func (c *Codec) Recv() (Frame, error) {
	c.recvMu.Lock()
	defer c.recvMu.Unlock()

	var hdrBuf [HeaderLen]byte
	if _, err := io.ReadFull(c.ch, hdrBuf[:]); err != nil {
		return Frame{}, errTransportIO(err)
	}

	h, herr := decodeHeader(hdrBuf[:], c.CurrentLimit())

	payload := make([]byte, h.length)
	if _, err := io.ReadFull(c.ch, payload); err != nil {
		return Frame{}, errPayloadMismatch(err)
	}
	if herr != nil {
		return Frame{}, herr
	}

	return Frame{Type: h.typ, Version: h.version, Payload: payload}, nil
}

// Close closes the underlying channel.
func (c *Codec) Close() error {
	return c.ch.Close()
}
