package frame

// Type identifies the kind of payload a Frame carries on the wire.
type Type uint8

// Frame type codes.
const (
	Secure                 Type = 0x00
	ClientHello            Type = 0x01
	ServerHello            Type = 0x02
	Disconnect             Type = 0x03
	Downgrade              Type = 0x04
	AdjustLenLimitRequest  Type = 0x10
	AdjustLenLimitResponse Type = 0x11
)

// String implements fmt.Stringer for diagnostics; never leaks payload bytes.
func (t Type) String() string {
	switch t {
	case Secure:
		return "Secure"
	case ClientHello:
		return "ClientHello"
	case ServerHello:
		return "ServerHello"
	case Disconnect:
		return "Disconnect"
	case Downgrade:
		return "Downgrade"
	case AdjustLenLimitRequest:
		return "AdjustLenLimitRequest"
	case AdjustLenLimitResponse:
		return "AdjustLenLimitResponse"
	default:
		return "Unknown"
	}
}

// IsKnown reports whether t is one of the defined frame types.
func (t Type) IsKnown() bool {
	switch t {
	case Secure, ClientHello, ServerHello, Disconnect, Downgrade,
		AdjustLenLimitRequest, AdjustLenLimitResponse:
		return true
	default:
		return false
	}
}

// Version identifies the wire protocol revision in the frame header.
type Version uint8

// V0_1 is the only protocol version currently defined.
const V0_1 Version = 0x01

// IsSupported reports whether v is a version this implementation understands.
func (v Version) IsSupported() bool {
	return v == V0_1
}

const (
	// HeaderLen is the fixed size, in bytes, of a Frame header: type(1) +
	// version(1) + length(2, big-endian).
	HeaderLen = 4

	// MinLenLimit is the smallest permitted frame payload length limit:
	// 2^10 - 1.
	MinLenLimit = 1<<10 - 1

	// MaxLenLimit is the largest permitted frame payload length limit:
	// 2^15 - 1, the largest value a uint16 length field can encode while
	// leaving headroom defined by the protocol.
	MaxLenLimit = 1<<15 - 1
)

// Fixed payload sizes for the handshake messages.
const (
	ClientHelloLen = 16 + 32      // client_nonce || client_pub
	ServerHelloLen = 16 + 32 + 64 // server_nonce || server_pub || signature
)

// clampLimit clamps n into [MinLenLimit, MaxLenLimit].
func clampLimit(n int) int {
	if n < MinLenLimit {
		return MinLenLimit
	}
	if n > MaxLenLimit {
		return MaxLenLimit
	}
	return n
}
