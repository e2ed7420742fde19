package secure

import (
	"github.com/my4ng/hermit/frame"
)

// Stream adapts the AEAD Record to a byte-oriented write/read interface for
// application codecs atop the secure session: outbound bytes are buffered
// and sealed into Secure frames of the codec's current limit; inbound
// Secure frames are opened and their plaintext exposed sequentially. It is
// the component the wireobj codec binding writes its encoded objects
// through.
type Stream struct {
	codec  *frame.Codec
	record *Record

	outBuf []byte

	inBuf []byte // unread plaintext from the most recently opened frame
}

// NewStream builds a Stream bound to codec and record. Both must already
// reflect the session's current negotiated limit and derived secrets.
func NewStream(codec *frame.Codec, record *Record) *Stream {
	return &Stream{codec: codec, record: record}
}

// maxPlaintext returns the largest plaintext chunk that fits in one Secure
// frame at the codec's current limit, reserving TagLen bytes for the AEAD
// tag.
func (s *Stream) maxPlaintext() int {
	limit := s.codec.CurrentLimit() - TagLen
	if limit < 0 {
		return 0
	}
	return limit
}

// Write buffers p for sealing, flushing full-size frames to the codec as
// the buffer fills. It never blocks on the transport beyond what Codec.Send
// already does (queue back-pressure).
func (s *Stream) Write(p []byte) (int, error) {
	total := len(p)
	for len(p) > 0 {
		room := s.maxPlaintext() - len(s.outBuf)
		n := room
		if n > len(p) {
			n = len(p)
		}
		s.outBuf = append(s.outBuf, p[:n]...)
		p = p[n:]

		if len(s.outBuf) >= s.maxPlaintext() {
			if err := s.sealAndSend(); err != nil {
				return total - len(p), err
			}
		}
	}
	return total, nil
}

// Flush seals and sends any buffered plaintext as a shorter final frame,
// then flushes the underlying codec queue. When nothing is buffered, no
// frame is sent.
func (s *Stream) Flush() error {
	if len(s.outBuf) > 0 {
		if err := s.sealAndSend(); err != nil {
			return err
		}
	}
	return s.codec.Flush()
}

func (s *Stream) sealAndSend() error {
	sealed := s.record.Seal(s.outBuf)
	s.outBuf = s.outBuf[:0]
	return s.codec.Send(frame.New(frame.Secure, sealed))
}

// Read fills p with plaintext from the secure stream, reading and opening
// additional Secure frames from the codec as needed. It returns a non-nil
// *Error (KindUnexpectedFrameType) if a non-Secure frame arrives out of
// turn, or the record layer's KindAEADOpenFailed if authentication fails;
// both are fatal and the caller must transition the session to Closed.
func (s *Stream) Read(p []byte) (int, error) {
	if len(s.inBuf) == 0 {
		if err := s.fill(); err != nil {
			return 0, err
		}
	}
	n := copy(p, s.inBuf)
	s.inBuf = s.inBuf[n:]
	return n, nil
}

func (s *Stream) fill() error {
	f, err := s.codec.Recv()
	if err != nil {
		return err
	}
	if f.Type != frame.Secure {
		return &Error{Kind: KindUnexpectedFrameType}
	}
	plaintext, err := s.record.Open(f.Payload)
	if err != nil {
		return err
	}
	s.inBuf = plaintext
	return nil
}
