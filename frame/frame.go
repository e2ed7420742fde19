package frame

import "encoding/binary"

// Frame is a plaintext record on the wire: a 4-byte header followed by
// Payload.
type Frame struct {
	Type    Type
	Version Version
	Payload []byte
}

// New builds a Frame with the current protocol version.
func New(t Type, payload []byte) Frame {
	return Frame{Type: t, Version: V0_1, Payload: payload}
}

// EncodedLen returns the total wire size of f.
func (f Frame) EncodedLen() int {
	return HeaderLen + len(f.Payload)
}

// appendHeader appends f's 4-byte header to dst and returns the result.
func (f Frame) appendHeader(dst []byte) []byte {
	var hdr [HeaderLen]byte
	hdr[0] = byte(f.Type)
	hdr[1] = byte(f.Version)
	binary.BigEndian.PutUint16(hdr[2:], uint16(len(f.Payload)))
	return append(dst, hdr[:]...)
}

// Encode serializes f (header then payload) and appends it to dst,
// returning the extended slice. It does not itself enforce any length
// limit; callers (Codec) are responsible for rejecting oversized frames
// before calling Encode — sending an oversized frame is a programmer error.
func (f Frame) Encode(dst []byte) []byte {
	dst = f.appendHeader(dst)
	return append(dst, f.Payload...)
}

// header is the parsed, validated form of a frame's 4-byte header.
type header struct {
	typ     Type
	version Version
	length  int
}

// decodeHeader parses and validates a 4-byte header: type must be known,
// version supported, and length within the wire ceiling MaxLenLimit.
// currentLimit, if >= 0, additionally caps length.
//
// MinLenLimit/MaxLenLimit bound the acceptable range for the current-limit
// configuration value (see lenlimit.Range), not a per-frame floor:
// individual frames are only bounded above, by MaxLenLimit and by the
// negotiated current limit — fixed handshake and control messages are
// far shorter than MinLenLimit. Fixed-format messages additionally
// validate their own exact expected length in their own decoders.
func decodeHeader(b []byte, currentLimit int) (header, error) {
	if len(b) != HeaderLen {
		panic("frame: decodeHeader requires exactly HeaderLen bytes")
	}
	// The length field is always well-formed regardless of type/version
	// validity, so it is parsed first and carried on every returned header
	// (including error returns): the caller must still read exactly this
	// many payload bytes to keep the stream synchronized for a non-fatal
	// error.
	length := int(binary.BigEndian.Uint16(b[2:]))
	h := header{typ: Type(b[0]), version: Version(b[1]), length: length}

	if !h.typ.IsKnown() {
		return h, errUnknownType(h.typ)
	}
	if !h.version.IsSupported() {
		return h, errUnsupportedVersion(h.version)
	}
	if length > MaxLenLimit {
		return h, errLengthOutOfRange(length)
	}
	if currentLimit >= 0 && length > currentLimit {
		return h, errLengthAboveLimit(length)
	}
	return h, nil
}
